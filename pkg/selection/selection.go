// Package selection is the selection tree of the curation client:
// project, workflow context and worklist -> record -> concept.
//
// State is updated only by Reduce, which keeps the cascade invariant:
// when something is selected, everything depending on it is cleared.
package selection

import (
	"fmt"

	"github.com/termcurator/curate/pkg/api/types/content"
	"github.com/termcurator/curate/pkg/api/types/projects"
	"github.com/termcurator/curate/pkg/api/types/workflow"
	"github.com/termcurator/curate/pkg/cmp"
)

// WorklistMode is which kind of worklists are browsed.
type WorklistMode int

const (
	Available WorklistMode = iota
	Assigned
	Checklists
)

func (m WorklistMode) String() string {
	switch m {
	case Available:
		return "available"
	case Assigned:
		return "assigned"
	case Checklists:
		return "checklists"
	default:
		return fmt.Sprintf("WorklistMode(%d)", int(m))
	}
}

// ParseWorklistMode parses the result of WorklistMode.String.
func ParseWorklistMode(s string) (WorklistMode, error) {
	for _, m := range []WorklistMode{Available, Assigned, Checklists} {
		if m.String() == s {
			return m, nil
		}
	}
	return Available, fmt.Errorf("unknown worklist mode: %q (available, assigned or checklists)", s)
}

// Level is how deep the selection goes.
type Level int

const (
	NoProject Level = iota
	ProjectSelected
	WorklistSelected
	RecordSelected
	ConceptSelected
)

func (l Level) String() string {
	switch l {
	case NoProject:
		return "NoProject"
	case ProjectSelected:
		return "ProjectSelected"
	case WorklistSelected:
		return "WorklistSelected"
	case RecordSelected:
		return "RecordSelected"
	case ConceptSelected:
		return "ConceptSelected"
	default:
		return fmt.Sprintf("Level(%d)", int(l))
	}
}

// State is the selection tree.
//
// Nil means "not selected".
type State struct {
	Project     *projects.Project
	Role        projects.Role
	RoleOptions []projects.Role

	// workflow context
	Config      *workflow.Config
	Bin         *workflow.Bin
	ClusterType string

	WorklistMode WorklistMode
	Worklist     *workflow.Worklist
	Record       *workflow.TrackingRecord
	Concept      *content.Concept
}

func (s State) Equal(o State) bool {
	return cmp.PEqual(s.Project, o.Project) &&
		s.Role == o.Role &&
		cmp.SliceEq(s.RoleOptions, o.RoleOptions) &&
		cmp.PEqual(s.Config, o.Config) &&
		cmp.PEqual(s.Bin, o.Bin) &&
		s.ClusterType == o.ClusterType &&
		s.WorklistMode == o.WorklistMode &&
		cmp.PEqual(s.Worklist, o.Worklist) &&
		cmp.PEqual(s.Record, o.Record) &&
		cmp.PEqual(s.Concept, o.Concept)
}

// Level returns the deepest selected level.
func (s State) Level() Level {
	switch {
	case s.Project == nil:
		return NoProject
	case s.Worklist == nil:
		return ProjectSelected
	case s.Record == nil:
		return WorklistSelected
	case s.Concept == nil:
		return RecordSelected
	default:
		return ConceptSelected
	}
}

// ProjectId returns id of the selected project, or 0 if not selected.
func (s State) ProjectId() int64 {
	if s.Project == nil {
		return 0
	}
	return s.Project.Id
}

// Action is a change of selection. Pass it to Reduce.
type Action interface {
	reduce(State) State
}

// Reduce returns the state after action.
//
// s is not changed.
func Reduce(s State, action Action) State {
	if action == nil {
		return s
	}
	return action.reduce(s)
}

// ReduceAll applies actions in order.
func ReduceAll(s State, actions ...Action) State {
	for _, a := range actions {
		s = Reduce(s, a)
	}
	return s
}

func ref[T any](v T) *T {
	return &v
}

func clearWorklist(s State) State {
	s.Worklist = nil
	s.Record = nil
	s.Concept = nil
	return s
}

// SelectProject selects a project. Everything but worklist mode is cleared.
type SelectProject struct {
	Project projects.Project
}

func (a SelectProject) reduce(s State) State {
	return State{
		Project:      ref(a.Project),
		WorklistMode: s.WorklistMode,
	}
}

// SetRole sets role in the selected project. Worklists depend on role, so they are cleared.
//
// When Options is nil, options are kept.
type SetRole struct {
	Role    projects.Role
	Options []projects.Role
}

func (a SetRole) reduce(s State) State {
	if s.Project == nil {
		return s
	}
	s.Role = a.Role
	if a.Options != nil {
		s.RoleOptions = append([]projects.Role{}, a.Options...)
	}
	return clearWorklist(s)
}

// SetWorklistMode switches kind of worklists. Worklist and below are cleared.
type SetWorklistMode struct {
	Mode WorklistMode
}

func (a SetWorklistMode) reduce(s State) State {
	s.WorklistMode = a.Mode
	return clearWorklist(s)
}

// SelectConfig selects a workflow config. Bin is cleared.
type SelectConfig struct {
	Config *workflow.Config
}

func (a SelectConfig) reduce(s State) State {
	if s.Project == nil {
		return s
	}
	if a.Config == nil {
		s.Config = nil
	} else {
		s.Config = ref(*a.Config)
	}
	s.Bin = nil
	s.ClusterType = ""
	return s
}

// SelectBin selects a bin of the selected config.
type SelectBin struct {
	Bin         *workflow.Bin
	ClusterType string
}

func (a SelectBin) reduce(s State) State {
	if s.Config == nil {
		return s
	}
	if a.Bin == nil {
		s.Bin = nil
	} else {
		s.Bin = ref(*a.Bin)
	}
	s.ClusterType = a.ClusterType
	return s
}

// SelectWorklist selects a worklist (or checklist). Record and concept are cleared.
//
// Nil Worklist deselects.
type SelectWorklist struct {
	Worklist *workflow.Worklist
}

func (a SelectWorklist) reduce(s State) State {
	if s.Project == nil {
		return s
	}
	s = clearWorklist(s)
	if a.Worklist != nil {
		s.Worklist = ref(*a.Worklist)
	}
	return s
}

// SelectRecord selects a record of the selected worklist. Concept is cleared.
type SelectRecord struct {
	Record *workflow.TrackingRecord
}

func (a SelectRecord) reduce(s State) State {
	if s.Worklist == nil {
		return s
	}
	s.Concept = nil
	s.Record = nil
	if a.Record != nil {
		s.Record = ref(*a.Record)
	}
	return s
}

// SelectConcept selects a concept of the selected record.
type SelectConcept struct {
	Concept *content.Concept
}

func (a SelectConcept) reduce(s State) State {
	if s.Record == nil {
		return s
	}
	s.Concept = nil
	if a.Concept != nil {
		s.Concept = ref(*a.Concept)
	}
	return s
}

// Teardown discards everything.
type Teardown struct{}

func (Teardown) reduce(State) State {
	return State{}
}
