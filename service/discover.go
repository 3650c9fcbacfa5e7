package service

import (
	set "github.com/deckarep/golang-set/v2"
	"github.com/m-manu/recursive-input/fmte"
	rsfs "github.com/m-manu/recursive-input/fs"
)

const numFilesGuess = 1_000

// Discoverer finds input files under a set of root paths.
//
// Discovery is synchronous. Ordering is deterministic for a fixed tree: roots in the
// order given, then pre-order within each root (a directory's own files, then its
// subdirectories in name order). If the tree changes during a walk, files created or
// deleted meanwhile may or may not be reported.
type Discoverer struct {
	resolver     rsfs.Resolver
	printer      *fmte.Printer
	detectCycles bool
}

// NewDiscoverer creates a Discoverer that resolves roots through resolver.
// With detectCycles, every directory is canonicalised and visited at most once per run,
// which stops symlink loops and overlapping roots from producing duplicates.
func NewDiscoverer(resolver rsfs.Resolver, printer *fmte.Printer, detectCycles bool) *Discoverer {
	return &Discoverer{
		resolver:     resolver,
		printer:      printer,
		detectCycles: detectCycles,
	}
}

type visitKey struct {
	fsys rsfs.FileSystem
	path string
}

// walk is the state of one discovery run over one root
type walk struct {
	fsys      rsfs.FileSystem
	filter    rsfs.PathFilter
	recursive bool
	visited   set.Set[visitKey] // nil when cycle detection is off
	printer   *fmte.Printer
	files     []rsfs.FileStatus
}

// Discover returns the files under roots that pathFilter accepts. Directories are never
// returned and never filtered: with recursive set, every subdirectory is descended into.
//
// Zero roots fail with ErrNoInputPaths before any filesystem is touched. A root whose
// listing fails is abandoned, but the remaining roots are still walked; all failures are
// then returned together as an *InvalidInputError. Finding nothing isn't an error.
func (d *Discoverer) Discover(roots []string, pathFilter rsfs.PathFilter, recursive bool) ([]rsfs.FileStatus, error) {
	if len(roots) == 0 {
		return nil, ErrNoInputPaths
	}
	seenRoots := set.NewThreadUnsafeSetWithSize[string](len(roots))
	var visited set.Set[visitKey]
	if d.detectCycles {
		visited = set.NewThreadUnsafeSet[visitKey]()
	}
	result := make([]rsfs.FileStatus, 0, numFilesGuess)
	var errs []error
	for _, root := range roots {
		if !seenRoots.Add(root) {
			d.printer.PrintfV("Skipping duplicate input path %s\n", root)
			continue
		}
		fsys, dirPath, err := d.resolver.Resolve(root)
		if err != nil {
			errs = append(errs, &FilesystemAccessError{Op: "resolve", Path: root, Err: err})
			continue
		}
		w := &walk{
			fsys:      fsys,
			filter:    pathFilter,
			recursive: recursive,
			visited:   visited,
			printer:   d.printer,
		}
		if walkErr := w.addInputPathRecursively(dirPath); walkErr != nil {
			d.printer.PrintfErr("couldn't scan input path \"%s\": %+v\n", root, walkErr)
			errs = append(errs, walkErr)
			continue
		}
		for _, file := range w.files {
			file.Path = d.resolver.Qualify(root, file.Path)
			result = append(result, file)
		}
	}
	if len(errs) > 0 {
		return nil, &InvalidInputError{Errors: errs}
	}
	return result, nil
}

func (w *walk) addInputPathRecursively(dirPath string) error {
	if w.visited != nil {
		realPath, err := w.fsys.RealPath(dirPath)
		if err != nil {
			return &FilesystemAccessError{Op: "realpath", Path: dirPath, Err: err}
		}
		if !w.visited.Add(visitKey{fsys: w.fsys, path: realPath}) {
			w.printer.PrintfV("Skipping already visited directory %s\n", dirPath)
			return nil
		}
	}
	// Subdirectories come from an unfiltered listing: filters decide on files only
	var subDirs []string
	if w.recursive {
		children, err := w.fsys.ListStatus(dirPath)
		if err != nil {
			return &FilesystemAccessError{Op: "list", Path: dirPath, Err: err}
		}
		for _, child := range children {
			if child.IsDir {
				subDirs = append(subDirs, child.Path)
			}
		}
	}
	accepted, err := w.fsys.ListStatusFiltered(dirPath, w.filter)
	if err != nil {
		return &FilesystemAccessError{Op: "list", Path: dirPath, Err: err}
	}
	for _, file := range accepted {
		if file.IsDir || file.Length < 0 {
			continue
		}
		w.printer.PrintfV("Accepted %s\n", file.Path)
		w.files = append(w.files, file)
	}
	for _, subDir := range subDirs {
		if err := w.addInputPathRecursively(subDir); err != nil {
			return err
		}
	}
	return nil
}
