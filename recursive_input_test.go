package main

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/m-manu/recursive-input/conf"
	"github.com/m-manu/recursive-input/entity"
	rsfs "github.com/m-manu/recursive-input/fs"
	"github.com/m-manu/recursive-input/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const defaultFolderPerms = 0755

func createTree(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for relativePath, content := range files {
		p := filepath.Join(root, filepath.FromSlash(relativePath))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), defaultFolderPerms))
		require.NoError(t, os.WriteFile(p, []byte(content), 0644))
	}
	return root
}

func parseCsv(t *testing.T, out string) [][]string {
	t.Helper()
	rows, err := csv.NewReader(strings.NewReader(out)).ReadAll()
	require.NoError(t, err)
	return rows
}

func sampleInput(t *testing.T) string {
	return createTree(t, map[string]string{
		"a.txt":      "alpha",
		"sub/b.txt":  "bravo!",
		"sub/c.csv":  "x,y",
		"sub/d/e.md": "# e",
	})
}

func TestRun_ListsSplits(t *testing.T) {
	root := sampleInput(t)
	var stdout, stderr bytes.Buffer
	exitCode := run([]string{"-r", "-f", `(.txt)$`, root}, &stdout, &stderr)
	require.Equal(t, exitCodeSuccess, exitCode, stderr.String())
	assert.Equal(t, [][]string{
		{"location", "length"},
		{filepath.Join(root, "a.txt"), "5"},
		{filepath.Join(root, "sub", "b.txt"), "6"},
	}, parseCsv(t, stdout.String()))
	assert.Contains(t, stderr.String(), "Total input paths to process: 2 (11 B)")
}

func TestRun_NonRecursiveByDefault(t *testing.T) {
	root := sampleInput(t)
	var stdout, stderr bytes.Buffer
	exitCode := run([]string{"-f", `\.txt$`, root}, &stdout, &stderr)
	require.Equal(t, exitCodeSuccess, exitCode, stderr.String())
	assert.Len(t, parseCsv(t, stdout.String()), 2)
}

func TestRun_ReadsRecords(t *testing.T) {
	root := sampleInput(t)
	var stdout, stderr bytes.Buffer
	exitCode := run([]string{"--read", "-p", "3", "-r", "--filter-kind", "glob",
		"-f", "*.txt", "-f", "*.md", root}, &stdout, &stderr)
	require.Equal(t, exitCodeSuccess, exitCode, stderr.String())
	assert.Equal(t, [][]string{
		{"key", "length", "location"},
		{"a.txt", "5", filepath.Join(root, "a.txt")},
		{"b.txt", "6", filepath.Join(root, "sub", "b.txt")},
		{"e.md", "3", filepath.Join(root, "sub", "d", "e.md")},
	}, parseCsv(t, stdout.String()))
}

func TestRun_ConfigFileAndFiltersFile(t *testing.T) {
	root := sampleInput(t)
	configDir := t.TempDir()
	configPath := filepath.Join(configDir, "job.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte(
		"input:\n  dirs:\n    - "+root+"\nread:\n  input:\n    recursively: true\n"), 0644))
	filtersPath := filepath.Join(configDir, "filters.txt")
	require.NoError(t, os.WriteFile(filtersPath, []byte("# spreadsheets\n\\.csv$\n\\.csv$\n"), 0644))

	var stdout, stderr bytes.Buffer
	exitCode := run([]string{"--config", configPath, "--filters-file", filtersPath}, &stdout, &stderr)
	require.Equal(t, exitCodeSuccess, exitCode, stderr.String())
	assert.Equal(t, [][]string{
		{"location", "length"},
		{filepath.Join(root, "sub", "c.csv"), "3"},
	}, parseCsv(t, stdout.String()))
}

func TestRun_Errors(t *testing.T) {
	root := sampleInput(t)
	tests := []struct {
		name     string
		args     []string
		exitCode int
	}{
		{"unknown flag", []string{"--bogus"}, exitCodeInvalidArgs},
		{"missing config", []string{"--config", filepath.Join(root, "nope.yaml"), root}, exitCodeConfigError},
		{"missing filters file", []string{"--filters-file", filepath.Join(root, "nope.txt"), root},
			exitCodeFiltersFileError},
		{"no input paths", []string{"-f", "x"}, exitCodeNoInputPaths},
		{"no filters", []string{root}, exitCodeDiscoveryError},
		{"bad pattern", []string{"-f", "([", root}, exitCodeDiscoveryError},
		{"bad filter kind", []string{"--filter-kind", "fuzzy", "-f", "x", root}, exitCodeDiscoveryError},
		{"missing root", []string{"-f", "x", filepath.Join(root, "gone")}, exitCodeDiscoveryError},
	}
	for _, tt := range tests {
		var stdout, stderr bytes.Buffer
		assert.Equal(t, tt.exitCode, run(tt.args, &stdout, &stderr), "%s: %s", tt.name, stderr.String())
		assert.Empty(t, stdout.String(), tt.name)
	}
}

func TestRun_Help(t *testing.T) {
	var stdout, stderr bytes.Buffer
	assert.Equal(t, exitCodeSuccess, run([]string{"--help"}, &stdout, &stderr))
	assert.Contains(t, stdout.String(), "--filters-file")
	assert.Contains(t, stdout.String(), "sftp://")
}

func TestRecursiveInput_ReportsFailedUnits(t *testing.T) {
	root := sampleInput(t)
	job := conf.New()
	planner := service.NewInputPlanner(rsfs.NewLocalResolver(), nil)
	splits := []entity.FileSplit{
		entity.WholeFileSplit(filepath.Join(root, "a.txt"), 5),
		entity.WholeFileSplit(filepath.Join(root, "vanished.txt"), 4),
		entity.WholeFileSplit(filepath.Join(root, "sub", "b.txt"), 6),
	}
	var stdout bytes.Buffer
	err := recursiveInput(planner, job, splits, 2, nil, &stdout)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "couldn't read 1 of 3 files")
	assert.Contains(t, err.Error(), "vanished.txt")
	assert.Equal(t, [][]string{
		{"key", "length", "location"},
		{"a.txt", "5", filepath.Join(root, "a.txt")},
		{"b.txt", "6", filepath.Join(root, "sub", "b.txt")},
	}, parseCsv(t, stdout.String()))

	job.SetLenientRead(true)
	stdout.Reset()
	require.NoError(t, recursiveInput(planner, job, splits, 0, nil, &stdout))
	assert.Len(t, parseCsv(t, stdout.String()), 4)
}

func TestGetParallelism(t *testing.T) {
	for splits := 0; splits < 20; splits++ {
		for requested := -1; requested < 8; requested++ {
			n := getParallelism(requested, splits)
			assert.GreaterOrEqual(t, n, 1)
			if splits > 0 {
				assert.LessOrEqual(t, n, splits)
			}
		}
	}
	assert.Equal(t, 3, getParallelism(3, 10))
}
