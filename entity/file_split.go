package entity

import "fmt"

// FileSplit is one work unit: a whole file, never a part of one
type FileSplit struct {
	// Location is resolvable through a fs.Resolver (plain path or sftp:// URL)
	Location string
	Start    int64
	Length   int64
}

// WholeFileSplit creates a split covering all of a file of given length
func WholeFileSplit(location string, length int64) FileSplit {
	return FileSplit{Location: location, Start: 0, Length: length}
}

func (s FileSplit) String() string {
	return fmt.Sprintf("%s:%d+%d", s.Location, s.Start, s.Length)
}
