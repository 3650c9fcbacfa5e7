package fmte

import (
	"errors"
	"io"
	"os"
	"strings"
	"sync"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Printer is a goroutine-safe English printer with a normal and a verbose channel.
// A nil *Printer discards everything, so components can take one optionally.
type Printer struct {
	mx      sync.Mutex // shared across out and errOut to keep their ordering
	p       *message.Printer
	out     io.Writer
	errOut  io.Writer
	normal  bool
	verbose bool
}

// NewPrinter creates a Printer writing normal output to out and errors to errOut
func NewPrinter(out, errOut io.Writer) *Printer {
	return &Printer{
		p:      message.NewPrinter(language.English),
		out:    out,
		errOut: errOut,
		normal: true,
	}
}

// Std creates a Printer on os.Stdout and os.Stderr
func Std() *Printer {
	return NewPrinter(os.Stdout, os.Stderr)
}

// Off turns off normal and verbose output (errors are still printed)
func (pr *Printer) Off() {
	if pr == nil {
		return
	}
	pr.mx.Lock()
	pr.normal = false
	pr.mx.Unlock()
}

// VerboseOn turns on verbose output
func (pr *Printer) VerboseOn() {
	if pr == nil {
		return
	}
	pr.mx.Lock()
	pr.verbose = true
	pr.mx.Unlock()
}

// Printf is goroutine-safe fmt.Printf for English
func (pr *Printer) Printf(format string, a ...any) {
	if pr == nil {
		return
	}
	pr.mx.Lock()
	if pr.normal {
		_, _ = pr.p.Fprintf(pr.out, format, a...)
	}
	pr.mx.Unlock()
}

// PrintfV is goroutine-safe fmt.Printf for English (Verbose mode)
func (pr *Printer) PrintfV(format string, a ...any) {
	if pr == nil {
		return
	}
	pr.mx.Lock()
	if pr.normal && pr.verbose {
		_, _ = pr.p.Fprintf(pr.out, format, a...)
	}
	pr.mx.Unlock()
}

// PrintfErr is goroutine-safe fmt.Printf to the error writer for English
func (pr *Printer) PrintfErr(format string, a ...any) {
	if pr == nil {
		return
	}
	pr.mx.Lock()
	_, _ = pr.p.Fprintf(pr.errOut, format, a...)
	pr.mx.Unlock()
}

// Errors combines multiple errors into one message. The result isn't unwrappable;
// use errors.Join where callers need errors.Is on the parts.
func Errors(message string, errs []error) error {
	var sb strings.Builder
	sb.WriteString(message)
	sb.WriteString(": ")
	for i, err := range errs {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(err.Error())
	}
	return errors.New(sb.String())
}
