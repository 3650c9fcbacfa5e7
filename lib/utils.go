package lib

import (
	"os"
	"strings"

	set "github.com/deckarep/golang-set/v2"
)

// IsReadableFile checks whether argument is a readable file
func IsReadableFile(path string) bool {
	fileInfo, statErr := os.Stat(path)
	if statErr != nil {
		return false
	}
	return fileInfo.Mode().IsRegular()
}

// OrderedUniqueLines splits a line-separated string into its non-blank lines, in order of
// first appearance. Lines are trimmed; lines starting with '#' are comments.
func OrderedUniqueLines(lineSeparatedString string) []string {
	lineSeparatedString = strings.ReplaceAll(lineSeparatedString, "\r\n", "\n") // Windows
	seen := set.NewThreadUnsafeSet[string]()
	lines := []string{}
	for _, e := range strings.Split(lineSeparatedString, "\n") {
		e = strings.TrimSpace(e)
		if e == "" || strings.HasPrefix(e, "#") {
			continue
		}
		if seen.Add(e) {
			lines = append(lines, e)
		}
	}
	return lines
}

// ReadLinesFile reads a file of patterns or paths, one per line (see OrderedUniqueLines)
func ReadLinesFile(path string) ([]string, error) {
	rawContents, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return OrderedUniqueLines(string(rawContents)), nil
}
