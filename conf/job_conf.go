// Package conf holds the job configuration that drives input discovery and record reading.
//
// Every JobConf owns its own viper instance; the global viper is never touched. Values come,
// in increasing priority, from defaults, an optional config file (yaml, toml or json, by
// extension), RINPUT_* environment variables (dots replaced by underscores) and Set* calls.
package conf

import (
	"errors"
	"fmt"
	"strings"

	"github.com/m-manu/recursive-input/filter"
	"github.com/spf13/cast"
	"github.com/spf13/viper"
)

// Configuration keys
const (
	KeyInputDirs            = "input.dirs"
	KeyReadFilesRecursively = "read.input.recursively"
	KeyFileFilters          = "input.file.filters" // a list; a plain string is split on commas
	KeyFilterKind           = "input.file.filter.kind"
	KeyEmptyFilterPolicy    = "input.file.filter.empty"
	KeyDetectCycles         = "read.input.detectcycles"
	KeyLenientRead          = "read.input.lenient"
)

// EnvPrefix is the prefix of environment variables overriding configuration keys,
// e.g. RINPUT_READ_INPUT_RECURSIVELY=true
const EnvPrefix = "RINPUT"

// ErrInvalidValue is wrapped by errors about values that can't be used
var ErrInvalidValue = errors.New("invalid configuration value")

// JobConf is the configuration of one job
type JobConf struct {
	v *viper.Viper
}

// New creates a JobConf holding only defaults and environment overrides
func New() *JobConf {
	v := viper.New()
	v.SetDefault(KeyReadFilesRecursively, false)
	v.SetDefault(KeyFilterKind, string(filter.KindRegex))
	v.SetDefault(KeyEmptyFilterPolicy, string(filter.EmptyReject))
	v.SetDefault(KeyDetectCycles, true)
	v.SetDefault(KeyLenientRead, false)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return &JobConf{v: v}
}

// Load creates a JobConf and reads the config file at path into it
func Load(path string) (*JobConf, error) {
	job := New()
	job.v.SetConfigFile(path)
	if err := job.v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("couldn't read configuration from %s: %w", path, err)
	}
	return job, nil
}

// SetInputPaths sets the root paths (or sftp:// locations) discovery starts from
func (j *JobConf) SetInputPaths(paths ...string) {
	j.v.Set(KeyInputDirs, paths)
}

// AddInputPaths appends to the configured root paths
func (j *JobConf) AddInputPaths(paths ...string) {
	j.SetInputPaths(append(j.InputPaths(), paths...)...)
}

// InputPaths returns the configured root paths
func (j *JobConf) InputPaths() []string {
	return j.getStrings(KeyInputDirs)
}

// SetReadFilesRecursively sets whether discovery descends into subdirectories
func (j *JobConf) SetReadFilesRecursively(recursive bool) {
	j.v.Set(KeyReadFilesRecursively, recursive)
}

// ReadFilesRecursively tells whether discovery descends into subdirectories (default false)
func (j *JobConf) ReadFilesRecursively() bool {
	return j.v.GetBool(KeyReadFilesRecursively)
}

// SetFileFilters sets the patterns a file must match (any of them) to be an input
func (j *JobConf) SetFileFilters(patterns ...string) {
	j.v.Set(KeyFileFilters, patterns)
}

// FileFilters returns the configured patterns. A single string value (as from an
// environment variable) is split on commas, so a pattern containing a comma, e.g. a{1,3},
// must be given as a list in the config file or through SetFileFilters.
func (j *JobConf) FileFilters() []string {
	return j.getStrings(KeyFileFilters)
}

// SetFilterKind sets how patterns are interpreted
func (j *JobConf) SetFilterKind(kind filter.Kind) {
	j.v.Set(KeyFilterKind, string(kind))
}

// FilterKind returns how patterns are interpreted
func (j *JobConf) FilterKind() (filter.Kind, error) {
	kind := filter.Kind(strings.ToLower(strings.TrimSpace(j.v.GetString(KeyFilterKind))))
	switch kind {
	case filter.KindRegex, filter.KindGlob:
		return kind, nil
	default:
		return "", fmt.Errorf("%w: %s=%q (expected %q or %q)", ErrInvalidValue, KeyFilterKind, kind,
			filter.KindRegex, filter.KindGlob)
	}
}

// SetEmptyFilterPolicy sets what happens when no patterns are configured
func (j *JobConf) SetEmptyFilterPolicy(policy filter.EmptyPolicy) {
	j.v.Set(KeyEmptyFilterPolicy, string(policy))
}

// EmptyFilterPolicy returns what happens when no patterns are configured
func (j *JobConf) EmptyFilterPolicy() (filter.EmptyPolicy, error) {
	policy := filter.EmptyPolicy(strings.ToLower(strings.TrimSpace(j.v.GetString(KeyEmptyFilterPolicy))))
	switch policy {
	case filter.EmptyReject, filter.EmptyAcceptAll, filter.EmptyAcceptNone:
		return policy, nil
	default:
		return "", fmt.Errorf("%w: %s=%q (expected %q, %q or %q)", ErrInvalidValue, KeyEmptyFilterPolicy, policy,
			filter.EmptyReject, filter.EmptyAcceptAll, filter.EmptyAcceptNone)
	}
}

// SetDetectCycles sets whether directories already visited (e.g. via a symlink) are skipped
func (j *JobConf) SetDetectCycles(detect bool) {
	j.v.Set(KeyDetectCycles, detect)
}

// DetectCycles tells whether directories already visited are skipped (default true)
func (j *JobConf) DetectCycles() bool {
	return j.v.GetBool(KeyDetectCycles)
}

// SetLenientRead sets whether a failed file read still counts as a produced record
func (j *JobConf) SetLenientRead(lenient bool) {
	j.v.Set(KeyLenientRead, lenient)
}

// LenientRead tells whether a failed file read still counts as a produced record (default false)
func (j *JobConf) LenientRead() bool {
	return j.v.GetBool(KeyLenientRead)
}

func (j *JobConf) getStrings(key string) []string {
	var raw []string
	switch value := j.v.Get(key).(type) {
	case nil:
		return nil
	case string:
		raw = strings.Split(value, ",")
	default:
		raw = cast.ToStringSlice(value)
	}
	values := make([]string, 0, len(raw))
	for _, s := range raw {
		if s = strings.TrimSpace(s); s != "" {
			values = append(values, s)
		}
	}
	return values
}
