package service

import (
	"fmt"

	"github.com/m-manu/recursive-input/bytesutil"
	"github.com/m-manu/recursive-input/conf"
	"github.com/m-manu/recursive-input/entity"
	"github.com/m-manu/recursive-input/filter"
	"github.com/m-manu/recursive-input/fmte"
	rsfs "github.com/m-manu/recursive-input/fs"
	"github.com/m-manu/recursive-input/record"
)

// InputPlanner turns a job configuration into work units and work units into record readers.
// Files are never split, so there's exactly one split (and one record) per input file.
type InputPlanner struct {
	resolver rsfs.Resolver
	printer  *fmte.Printer
}

// NewInputPlanner creates an InputPlanner resolving locations through resolver
func NewInputPlanner(resolver rsfs.Resolver, printer *fmte.Printer) *InputPlanner {
	return &InputPlanner{resolver: resolver, printer: printer}
}

// BuildFilter creates a fresh filter set from the job's patterns
func BuildFilter(job *conf.JobConf) (*filter.MultiPathFilter, error) {
	kind, err := job.FilterKind()
	if err != nil {
		return nil, err
	}
	policy, err := job.EmptyFilterPolicy()
	if err != nil {
		return nil, err
	}
	pathFilter, err := filter.FromPatterns(kind, job.FileFilters(), policy)
	if err != nil {
		return nil, fmt.Errorf("couldn't build file filters: %w", err)
	}
	return pathFilter, nil
}

// ListStatus discovers the input files of job
func (p *InputPlanner) ListStatus(job *conf.JobConf) ([]rsfs.FileStatus, error) {
	roots := job.InputPaths()
	if len(roots) == 0 {
		return nil, ErrNoInputPaths
	}
	pathFilter, err := BuildFilter(job)
	if err != nil {
		return nil, err
	}
	recursive := job.ReadFilesRecursively()
	p.printer.PrintfV("Scanning %d input paths (recursive: %v) for files matching %s\n",
		len(roots), recursive, pathFilter)
	files, err := NewDiscoverer(p.resolver, p.printer, job.DetectCycles()).Discover(roots, pathFilter, recursive)
	if err != nil {
		return nil, err
	}
	var totalSize int64
	for _, f := range files {
		totalSize += f.Length
	}
	p.printer.Printf("Total input paths to process: %d (%s)\n", len(files), bytesutil.BinaryFormat(totalSize))
	return files, nil
}

// GetSplits discovers the input files of job and creates one whole-file split per file
func (p *InputPlanner) GetSplits(job *conf.JobConf) ([]entity.FileSplit, error) {
	files, err := p.ListStatus(job)
	if err != nil {
		return nil, err
	}
	splits := make([]entity.FileSplit, 0, len(files))
	for _, f := range files {
		splits = append(splits, entity.WholeFileSplit(f.Path, f.Length))
	}
	return splits, nil
}

// CreateRecordReader creates the reader producing split's single record
func (p *InputPlanner) CreateRecordReader(split entity.FileSplit, job *conf.JobConf) (*record.WholeFileRecordReader, error) {
	fsys, path, err := p.resolver.Resolve(split.Location)
	if err != nil {
		return nil, &record.FileReadError{Location: split.Location, Err: err}
	}
	return record.NewWholeFileRecordReader(fsys, path, split, record.Options{
		Lenient: job.LenientRead(),
		Printer: p.printer,
	}), nil
}
