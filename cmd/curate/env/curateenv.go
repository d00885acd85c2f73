package env

import (
	"fmt"
	"os"

	"github.com/termcurator/curate/pkg/controller"
	"github.com/termcurator/curate/pkg/selection"
	"gopkg.in/yaml.v3"
)

// CurateEnv is the per-directory defaults read from a "curateenv" file.
type CurateEnv struct {
	// Project is the default project, by id or by name.
	Project string `yaml:"project,omitempty"`

	// WorklistMode is one of "available", "assigned" or "checklists".
	WorklistMode string `yaml:"worklistMode,omitempty"`

	// PageSize maps a list name (worklists, records, binRecords) to its page size.
	PageSize map[string]int `yaml:"pageSize,omitempty"`

	// Viewer is the command line to open a child viewer window.
	//
	// "{{file}}" in an element is replaced with the path of the file to be viewed.
	// When empty, no viewer is started and the path of the file is logged, so
	// that `curate report watch FILE` can follow it from another terminal.
	Viewer []string `yaml:"viewer,omitempty"`
}

func New() *CurateEnv {
	return new(CurateEnv)
}

// LoadCurateEnv reads the env file.
//
// A missing or unreadable file yields the empty env.
func LoadCurateEnv(filepath string) (*CurateEnv, error) {
	env := CurateEnv{}

	content, err := os.ReadFile(filepath)
	if err != nil {
		return &env, nil
	}
	if err := yaml.Unmarshal(content, &env); err != nil {
		return nil, fmt.Errorf("%s: %w", filepath, err)
	}
	if _, err := env.Mode(); err != nil {
		return nil, fmt.Errorf("%s: %w", filepath, err)
	}
	for list, size := range env.PageSize {
		if size <= 0 {
			return nil, fmt.Errorf("%s: page size of %s should be positive: %d", filepath, list, size)
		}
	}
	return &env, nil
}

// Mode is the default worklist mode. It is Assigned when not set.
func (e *CurateEnv) Mode() (selection.WorklistMode, error) {
	if e.WorklistMode == "" {
		return selection.Assigned, nil
	}
	return selection.ParseWorklistMode(e.WorklistMode)
}

// PageSizeOf returns the page size for the list, or fallback when not set.
func (e *CurateEnv) PageSizeOf(list controller.List, fallback int) int {
	if n, ok := e.PageSize[string(list)]; ok && 0 < n {
		return n
	}
	return fallback
}

// ControllerOptions turns the env into options for views.
func (e *CurateEnv) ControllerOptions() []controller.Option {
	opts := []controller.Option{}
	if mode, err := e.Mode(); err == nil {
		opts = append(opts, controller.WithWorklistMode(mode))
	}
	for list, size := range e.PageSize {
		opts = append(opts, controller.WithPageSize(controller.List(list), size))
	}
	return opts
}
