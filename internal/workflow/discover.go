package workflow

import (
	"fmt"

	"github.com/macflow/macflow/internal/errors"
	"github.com/macflow/macflow/internal/fsutil"
)

// ListEntry summarizes one workflow definition file without executing it
type ListEntry struct {
	Path        string   `json:"path" yaml:"path"`
	Name        string   `json:"name,omitempty" yaml:"name,omitempty"`
	Description string   `json:"description,omitempty" yaml:"description,omitempty"`
	Version     string   `json:"version,omitempty" yaml:"version,omitempty"`
	StepCount   int      `json:"stepCount" yaml:"stepCount"`
	Triggers    []string `json:"triggers,omitempty" yaml:"triggers,omitempty"`

	// Error is the parse failure for this file, if any. A broken definition
	// does not abort the listing.
	Error string `json:"error,omitempty" yaml:"error,omitempty"`
}

// Discover scans a directory for workflow definition files and reports their
// parsed metadata.
func Discover(dir string) ([]ListEntry, error) {
	if !fsutil.DirExists(dir) {
		return nil, fmt.Errorf("%w: %s", errors.ErrDirNotFound, dir)
	}

	files, err := fsutil.ListFilesWithExtensions(dir, DefinitionExtensions)
	if err != nil {
		return nil, err
	}

	entries := make([]ListEntry, 0, len(files))
	for _, path := range files {
		entry := ListEntry{Path: path}

		wf, err := Load(path)
		if err != nil {
			entry.Error = err.Error()
			entries = append(entries, entry)
			continue
		}

		entry.Name = wf.Name
		entry.Description = wf.Description
		entry.Version = wf.Version
		entry.StepCount = len(wf.Steps)
		for _, trigger := range wf.Triggers {
			entry.Triggers = append(entry.Triggers, trigger.Describe())
		}
		entries = append(entries, entry)
	}

	return entries, nil
}
