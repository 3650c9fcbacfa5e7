package fs

// Resolver maps a configured location (a root path or a split's location) to the
// FileSystem that serves it.
type Resolver interface {
	// Resolve returns the FileSystem serving location and the path of location within it.
	Resolve(location string) (fsys FileSystem, path string, err error)

	// Qualify turns a path found inside the filesystem of root back into a location
	// that Resolve understands.
	Qualify(root string, path string) string
}

// SingleResolver serves every location from one FileSystem, treating locations as plain paths.
type SingleResolver struct {
	FS FileSystem
}

// NewLocalResolver returns a Resolver backed by a LocalFS
func NewLocalResolver() SingleResolver {
	return SingleResolver{FS: NewLocalFS()}
}

func (r SingleResolver) Resolve(location string) (FileSystem, string, error) {
	return r.FS, location, nil
}

func (r SingleResolver) Qualify(_ string, path string) string {
	return path
}
