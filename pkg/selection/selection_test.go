package selection_test

import (
	"testing"

	"github.com/termcurator/curate/pkg/api/types/content"
	"github.com/termcurator/curate/pkg/api/types/projects"
	"github.com/termcurator/curate/pkg/api/types/workflow"
	"github.com/termcurator/curate/pkg/selection"
)

var (
	project  = projects.Project{Id: 1, Name: "NCI"}
	project2 = projects.Project{Id: 2, Name: "SNOMED"}
	worklist = workflow.Worklist{Id: 10, Name: "wl-1"}
	record   = workflow.TrackingRecord{Id: 100, ClusterId: 3}
	concept  = content.Concept{Id: 1000, Name: "Aspirin"}
	config   = workflow.Config{Id: 5, Type: "MUTUALLY_EXCLUSIVE"}
	bin      = workflow.Bin{Id: 50, Name: "demotions"}
)

// full is a state selecting everything.
func full() selection.State {
	return selection.ReduceAll(
		selection.State{},
		selection.SelectProject{Project: project},
		selection.SetRole{Role: projects.Author, Options: []projects.Role{projects.Author, projects.Reviewer}},
		selection.SetWorklistMode{Mode: selection.Assigned},
		selection.SelectConfig{Config: &config},
		selection.SelectBin{Bin: &bin, ClusterType: "chem"},
		selection.SelectWorklist{Worklist: &worklist},
		selection.SelectRecord{Record: &record},
		selection.SelectConcept{Concept: &concept},
	)
}

func TestReduce(t *testing.T) {
	type When struct {
		action selection.Action
	}
	type Then struct {
		level selection.Level
		check func(*testing.T, selection.State)
	}

	theory := func(when When, then Then) func(*testing.T) {
		return func(t *testing.T) {
			before := full()
			after := selection.Reduce(before, when.action)

			if got := after.Level(); got != then.level {
				t.Errorf("level: actual = %s, expected = %s", got, then.level)
			}
			if !before.Equal(full()) {
				t.Errorf("Reduce changes passed state")
			}
			if then.check != nil {
				then.check(t, after)
			}
		}
	}

	t.Run("selecting a project clears everything below", theory(
		When{action: selection.SelectProject{Project: project2}},
		Then{
			level: selection.ProjectSelected,
			check: func(t *testing.T, s selection.State) {
				if s.Project.Id != project2.Id {
					t.Errorf("project: %+v", s.Project)
				}
				if s.Role != "" || s.RoleOptions != nil {
					t.Errorf("role is not cleared: %s %v", s.Role, s.RoleOptions)
				}
				if s.Config != nil || s.Bin != nil || s.ClusterType != "" {
					t.Errorf("workflow context is not cleared: %+v", s)
				}
				if s.WorklistMode != selection.Assigned {
					t.Errorf("worklist mode is changed: %s", s.WorklistMode)
				}
			},
		},
	))

	t.Run("selecting a worklist clears record and concept", theory(
		When{action: selection.SelectWorklist{Worklist: &workflow.Worklist{Id: 11}}},
		Then{
			level: selection.WorklistSelected,
			check: func(t *testing.T, s selection.State) {
				if s.Worklist.Id != 11 {
					t.Errorf("worklist: %+v", s.Worklist)
				}
				if s.Record != nil || s.Concept != nil {
					t.Errorf("record or concept is not cleared: %+v %+v", s.Record, s.Concept)
				}
			},
		},
	))

	t.Run("reselecting the same worklist also clears record and concept", theory(
		When{action: selection.SelectWorklist{Worklist: &worklist}},
		Then{level: selection.WorklistSelected},
	))

	t.Run("deselecting worklist", theory(
		When{action: selection.SelectWorklist{}},
		Then{level: selection.ProjectSelected},
	))

	t.Run("selecting a record clears concept", theory(
		When{action: selection.SelectRecord{Record: &workflow.TrackingRecord{Id: 101}}},
		Then{level: selection.RecordSelected},
	))

	t.Run("changing role clears worklist", theory(
		When{action: selection.SetRole{Role: projects.Reviewer}},
		Then{
			level: selection.ProjectSelected,
			check: func(t *testing.T, s selection.State) {
				if len(s.RoleOptions) != 2 {
					t.Errorf("role options are not kept: %v", s.RoleOptions)
				}
			},
		},
	))

	t.Run("switching worklist mode clears worklist", theory(
		When{action: selection.SetWorklistMode{Mode: selection.Checklists}},
		Then{level: selection.ProjectSelected},
	))

	t.Run("selecting a config clears bin but keeps worklist", theory(
		When{action: selection.SelectConfig{Config: &workflow.Config{Id: 6}}},
		Then{
			level: selection.ConceptSelected,
			check: func(t *testing.T, s selection.State) {
				if s.Bin != nil || s.ClusterType != "" {
					t.Errorf("bin is not cleared: %+v", s.Bin)
				}
			},
		},
	))

	t.Run("teardown discards everything", theory(
		When{action: selection.Teardown{}},
		Then{
			level: selection.NoProject,
			check: func(t *testing.T, s selection.State) {
				if !s.Equal(selection.State{}) {
					t.Errorf("not empty: %+v", s)
				}
			},
		},
	))
}

func TestReduce_WithoutUpstream(t *testing.T) {
	empty := selection.State{}

	for name, action := range map[string]selection.Action{
		"worklist": selection.SelectWorklist{Worklist: &worklist},
		"record":   selection.SelectRecord{Record: &record},
		"concept":  selection.SelectConcept{Concept: &concept},
		"role":     selection.SetRole{Role: projects.Admin},
		"config":   selection.SelectConfig{Config: &config},
		"bin":      selection.SelectBin{Bin: &bin},
	} {
		t.Run(name+" is ignored without its upstream", func(t *testing.T) {
			if got := selection.Reduce(empty, action); !got.Equal(empty) {
				t.Errorf("state is changed: %+v", got)
			}
		})
	}
}

func TestParseWorklistMode(t *testing.T) {
	for _, m := range []selection.WorklistMode{selection.Available, selection.Assigned, selection.Checklists} {
		got, err := selection.ParseWorklistMode(m.String())
		if err != nil || got != m {
			t.Errorf("ParseWorklistMode(%s) = (%s, %v)", m, got, err)
		}
	}
	if _, err := selection.ParseWorklistMode("unknown"); err == nil {
		t.Error("unknown mode is accepted")
	}
}
