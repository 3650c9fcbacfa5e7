package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"runtime/debug"

	"github.com/m-manu/recursive-input/conf"
	"github.com/m-manu/recursive-input/filter"
	"github.com/m-manu/recursive-input/fmte"
	"github.com/m-manu/recursive-input/lib"
	"github.com/m-manu/recursive-input/remote"
	"github.com/m-manu/recursive-input/service"
	"github.com/spf13/pflag"
)

// Constants indicating return codes of this tool, when run from command line
const (
	exitCodeSuccess = iota
	exitCodeInvalidArgs
	exitCodeConfigError
	exitCodeFiltersFileError
	exitCodeNoInputPaths
	exitCodeDiscoveryError
	exitCodeReadError
	exitCodePanic
)

type cliOptions struct {
	configPath       string
	recursive        bool
	filters          []string
	filtersFile      string
	filterKind       string
	emptyFilters     string
	noCycleDetection bool
	lenient          bool
	sshKeyPath       string
	read             bool
	parallelism      int
	verbose          bool
	help             bool
}

func setupFlags(flags *pflag.FlagSet) *cliOptions {
	opts := &cliOptions{}
	flags.StringVar(&opts.configPath, "config", "",
		"job configuration file (yaml, toml or json)")
	flags.BoolVarP(&opts.recursive, "recursive", "r", false,
		"descend into subdirectories of input paths")
	flags.StringArrayVarP(&opts.filters, "filter", "f", nil,
		"file name pattern; a file is an input if any pattern matches (repeatable)")
	flags.StringVar(&opts.filtersFile, "filters-file", "",
		"path to file containing newline separated list of file name patterns")
	flags.StringVar(&opts.filterKind, "filter-kind", string(filter.KindRegex),
		"how patterns are interpreted: regex or glob")
	flags.StringVar(&opts.emptyFilters, "empty-filters", string(filter.EmptyReject),
		"what an empty list of patterns means: reject, all or none")
	flags.BoolVar(&opts.noCycleDetection, "no-cycle-detection", false,
		"don't skip directories that were already visited (e.g. through symlinks)")
	flags.BoolVar(&opts.lenient, "lenient", false,
		"with --read, report failed reads but still count them as records")
	flags.StringVarP(&opts.sshKeyPath, "ssh-key", "i", "",
		"private key for remote (sftp://) input paths")
	flags.BoolVar(&opts.read, "read", false,
		"read every input file and list the records instead of the splits")
	flags.IntVarP(&opts.parallelism, "parallelism", "p", 0,
		"number of files read concurrently with --read (default: number of CPUs)")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false,
		"print what's being scanned and read to stderr")
	flags.BoolVarP(&opts.help, "help", "h", false, "display help")
	return opts
}

func handlePanic() {
	err := recover()
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Program exited unexpectedly. "+
			"Please report the below error to the author:\n"+
			"%+v\n", err)
		_, _ = fmt.Fprintln(os.Stderr, string(debug.Stack()))
		os.Exit(exitCodePanic)
	}
}

func showHelp(flags *pflag.FlagSet, out io.Writer) {
	_, _ = fmt.Fprintf(out, `recursive-input lists (and optionally reads) the files under input paths whose names `+
		`match any of a set of patterns, one whole-file work unit per file.

Usage:
	 recursive-input <flags> [input-path...]

where,
	input-path        Local directory, or sftp://[user@]host[:port]/path, or [user@]host:path
	                  (added to input.dirs of the configuration)

flags: (all optional)
`)
	flags.SetOutput(out)
	flags.PrintDefaults()
}

// buildJob loads the configuration file, if any, and applies the flags that were set on top of it
func buildJob(flags *pflag.FlagSet, opts *cliOptions, inputPaths []string) (*conf.JobConf, error) {
	job := conf.New()
	if opts.configPath != "" {
		var err error
		if job, err = conf.Load(opts.configPath); err != nil {
			return nil, err
		}
	}
	job.AddInputPaths(inputPaths...)
	if flags.Changed("recursive") {
		job.SetReadFilesRecursively(opts.recursive)
	}
	if flags.Changed("filter-kind") {
		job.SetFilterKind(filter.Kind(opts.filterKind))
	}
	if flags.Changed("empty-filters") {
		job.SetEmptyFilterPolicy(filter.EmptyPolicy(opts.emptyFilters))
	}
	if flags.Changed("no-cycle-detection") {
		job.SetDetectCycles(!opts.noCycleDetection)
	}
	if flags.Changed("lenient") {
		job.SetLenientRead(opts.lenient)
	}
	return job, nil
}

// patternsFromFlags returns the patterns given by -f and --filters-file, in that order
func patternsFromFlags(opts *cliOptions) ([]string, error) {
	patterns := append([]string{}, opts.filters...)
	if opts.filtersFile != "" {
		if !lib.IsReadableFile(opts.filtersFile) {
			return nil, fmt.Errorf("filters file \"%s\" isn't a readable file", opts.filtersFile)
		}
		fromFile, err := lib.ReadLinesFile(opts.filtersFile)
		if err != nil {
			return nil, fmt.Errorf("filters file \"%s\" isn't readable: %w", opts.filtersFile, err)
		}
		patterns = append(patterns, fromFile...)
	}
	return patterns, nil
}

func run(args []string, stdout io.Writer, stderr io.Writer) int {
	flags := pflag.NewFlagSet("recursive-input", pflag.ContinueOnError)
	flags.SetOutput(stderr)
	flags.Usage = func() {
		_, _ = fmt.Fprintf(stderr, "Run \"recursive-input --help\" for usage\n")
	}
	opts := setupFlags(flags)
	if err := flags.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			showHelp(flags, stdout)
			return exitCodeSuccess
		}
		return exitCodeInvalidArgs
	}
	if opts.help {
		showHelp(flags, stdout)
		return exitCodeSuccess
	}
	printer := fmte.NewPrinter(stderr, stderr)
	if opts.verbose {
		printer.VerboseOn()
	}

	job, err := buildJob(flags, opts, flags.Args())
	if err != nil {
		printer.PrintfErr("error: %+v\n", err)
		return exitCodeConfigError
	}
	patterns, err := patternsFromFlags(opts)
	if err != nil {
		printer.PrintfErr("error: %+v\n", err)
		flags.Usage()
		return exitCodeFiltersFileError
	}
	if len(patterns) > 0 {
		job.SetFileFilters(patterns...)
	}

	resolver := remote.NewResolver(remote.SSHDialer(opts.sshKeyPath, stderr))
	defer func() {
		if closeErr := resolver.Close(); closeErr != nil {
			printer.PrintfErr("error while closing remote connections: %+v\n", closeErr)
		}
	}()
	planner := service.NewInputPlanner(resolver, printer)
	splits, err := planner.GetSplits(job)
	if errors.Is(err, service.ErrNoInputPaths) {
		printer.PrintfErr("error: no input paths passed (neither as arguments nor in %s)\n", conf.KeyInputDirs)
		flags.Usage()
		return exitCodeNoInputPaths
	} else if err != nil {
		printer.PrintfErr("error while discovering input files: %+v\n", err)
		return exitCodeDiscoveryError
	}

	if !opts.read {
		if err = writeSplitsCsv(splits, stdout); err != nil {
			printer.PrintfErr("error while writing splits: %+v\n", err)
			return exitCodeReadError
		}
		return exitCodeSuccess
	}
	if err = recursiveInput(planner, job, splits, opts.parallelism, printer, stdout); err != nil {
		printer.PrintfErr("error while reading input files: %+v\n", err)
		return exitCodeReadError
	}
	return exitCodeSuccess
}

func main() {
	defer handlePanic()
	if exitCode := run(os.Args[1:], os.Stdout, os.Stderr); exitCode != exitCodeSuccess {
		os.Exit(exitCode)
	}
}
