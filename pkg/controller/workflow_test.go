package controller_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/termcurator/curate/pkg/api/types/pfs"
	"github.com/termcurator/curate/pkg/api/types/projects"
	"github.com/termcurator/curate/pkg/api/types/security"
	"github.com/termcurator/curate/pkg/api/types/workflow"
	"github.com/termcurator/curate/pkg/controller"
)

var (
	binDemotions = workflow.Bin{Id: 11, Name: "demotions", Type: "MUTUALLY_EXCLUSIVE", Enabled: true, Editable: true}
	binOrphans   = workflow.Bin{Id: 12, Name: "orphans", Type: "MUTUALLY_EXCLUSIVE", Enabled: true, Editable: false}
)

func workflowService(t *testing.T, role projects.Role) *fakeService {
	f := newFakeService(t)
	f.Impl.GetProjectsForUser = func(context.Context, string) (projects.ProjectList, error) {
		return projects.ProjectList{Projects: []projects.Project{nci, other}, Project: &nci}, nil
	}
	f.Impl.GetRoleForProject = func(context.Context, string, int64) (projects.RoleInfo, error) {
		return projects.RoleInfo{Role: role, Options: []projects.Role{role}}, nil
	}
	f.Impl.FindAssignedUsers = func(context.Context, int64) (projects.UserList, error) {
		return projects.UserList{Users: []security.User{alice}, TotalCount: 1}, nil
	}
	f.Impl.GetConfigs = func(context.Context, int64) (workflow.ConfigList, error) {
		return workflow.ConfigList{Configs: []workflow.Config{
			{Id: 2, Type: "QUALITY_ASSURANCE"},
			{Id: 1, Type: "MUTUALLY_EXCLUSIVE"},
		}}, nil
	}
	f.Impl.GetBins = func(_ context.Context, _ int64, configType string) (workflow.BinList, error) {
		if configType != "MUTUALLY_EXCLUSIVE" {
			return workflow.BinList{}, nil
		}
		return workflow.BinList{Bins: []workflow.Bin{binDemotions, binOrphans}, TotalCount: 2}, nil
	}
	f.Impl.FindRecordsForBin = func(_ context.Context, _ int64, _ int64, params pfs.Params) (workflow.RecordList, error) {
		return pageOf(recordsN(25), params), nil
	}
	return f
}

func initializedWorkflow(t *testing.T, f *fakeService, user security.User) *controller.WorkflowView {
	t.Helper()
	v := controller.NewWorkflowView(f, user)
	drive(t, v, v.Initialize())
	if errs := v.Errors(); len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	return v
}

func TestWorkflowView_Initialize(t *testing.T) {
	t.Run("configs are sorted by type and the first one is selected", func(t *testing.T) {
		f := workflowService(t, projects.Admin)
		v := initializedWorkflow(t, f, alice)

		configs := v.Configs()
		if len(configs) != 2 || configs[0].Type != "MUTUALLY_EXCLUSIVE" {
			t.Errorf("configs: %+v", configs)
		}
		if sel := v.Selection(); sel.Config == nil || sel.Config.Id != 1 {
			t.Errorf("config: %+v", sel.Config)
		}
		if len(v.AllBins()) != 2 {
			t.Errorf("bins: %+v", v.AllBins())
		}
		if len(v.Users()) != 1 {
			t.Errorf("users: %+v", v.Users())
		}
	})

	t.Run("accordion groups are restored from preferences", func(t *testing.T) {
		f := workflowService(t, projects.Admin)
		saved := []controller.Group{{Title: "Bins", Open: false}, {Title: "Worklists", Open: true}}
		encoded, _ := json.Marshal(saved)
		user := alice
		user.Preferences = &security.UserPreferences{
			Properties: map[string]string{controller.GroupsProperty: string(encoded)},
		}

		v := initializedWorkflow(t, f, user)

		groups := v.Groups()
		if len(groups) != 2 || groups[0].Open || !groups[1].Open {
			t.Errorf("groups: %+v", groups)
		}
		if v.User().Preferences.LastTab != controller.WorkflowTab {
			t.Errorf("tab: %s", v.User().Preferences.LastTab)
		}
	})
}

func TestWorkflowView_Bins(t *testing.T) {
	for name, testcase := range map[string]struct {
		role projects.Role
		want []int64
	}{
		"admin sees all bins":            {role: projects.Admin, want: []int64{11, 12}},
		"author sees only editable bins": {role: projects.Author, want: []int64{11}},
	} {
		t.Run(name, func(t *testing.T) {
			f := workflowService(t, testcase.role)
			v := initializedWorkflow(t, f, alice)

			bins := v.Bins()
			if len(bins) != len(testcase.want) {
				t.Fatalf("bins: %+v", bins)
			}
			for i := range bins {
				if bins[i].Id != testcase.want[i] {
					t.Errorf("bins[%d]: %+v", i, bins[i])
				}
			}
		})
	}
}

func TestWorkflowView_SelectBin(t *testing.T) {
	type When struct {
		before      string
		clusterType string
	}

	theory := func(when When, wantFilter string) func(*testing.T) {
		return func(t *testing.T) {
			f := workflowService(t, projects.Admin)
			var got []pfs.Params
			f.Impl.FindRecordsForBin = func(_ context.Context, _ int64, binId int64, params pfs.Params) (workflow.RecordList, error) {
				if binId != binDemotions.Id {
					t.Errorf("bin: %d", binId)
				}
				got = append(got, params)
				return pageOf(recordsN(25), params), nil
			}
			v := initializedWorkflow(t, f, alice)
			drive(t, v, v.SetBinPaging(v.BinPaging().WithFilter(when.before).WithPage(3)))
			drive(t, v, v.SelectBin(binDemotions, when.clusterType))

			if len(got) == 0 {
				t.Fatal("records are not fetched")
			}
			last := got[len(got)-1]
			if last.QueryRestriction != wantFilter {
				t.Errorf("restriction: actual = %q, expected = %q", last.QueryRestriction, wantFilter)
			}
			if last.StartIndex != 0 || last.SortField != "clusterId" {
				t.Errorf("paging is not reset: %+v", last)
			}
			if v.BinRecords().TotalCount != 25 {
				t.Errorf("records: %+v", v.BinRecords())
			}
		}
	}

	t.Run("default cluster type selects records without cluster type",
		theory(When{before: "x", clusterType: "default"}, " NOT clusterType:[* TO *]"))
	t.Run("all cluster type clears filter",
		theory(When{before: "x", clusterType: "all"}, ""))
	t.Run("other cluster type is used as filter",
		theory(When{before: "x", clusterType: "chem"}, "chem"))
	t.Run("empty cluster type keeps filter",
		theory(When{before: "x", clusterType: ""}, "x"))
}

func TestWorkflowView_Maintenance(t *testing.T) {
	t.Run("toggle enable flips the definition and keeps the bin selected", func(t *testing.T) {
		f := workflowService(t, projects.Admin)
		f.Impl.GetDefinition = func(_ context.Context, _ int64, name string, configType string) (workflow.Definition, error) {
			return workflow.Definition{Id: 100, Name: name, Enabled: true}, nil
		}
		var updated workflow.Definition
		f.Impl.UpdateDefinition = func(_ context.Context, _ int64, def workflow.Definition) error {
			updated = def
			return nil
		}
		v := initializedWorkflow(t, f, alice)
		drive(t, v, v.SelectBin(binDemotions, ""))
		drive(t, v, v.ToggleEnable(binDemotions))

		if updated.Name != binDemotions.Name || updated.Enabled {
			t.Errorf("updated: %+v", updated)
		}
		if n := f.count("GetBins"); n != 2 {
			t.Errorf("bins are loaded %d times", n)
		}
		if sel := v.Selection(); sel.Bin == nil || sel.Bin.Id != binDemotions.Id {
			t.Errorf("bin: %+v", sel.Bin)
		}
	})

	t.Run("regenerate bins clears then regenerates", func(t *testing.T) {
		f := workflowService(t, projects.Admin)
		order := []string{}
		f.Impl.ClearBins = func(context.Context, int64, string) error {
			order = append(order, "clear")
			return nil
		}
		f.Impl.RegenerateBins = func(context.Context, int64, string) error {
			order = append(order, "regenerate")
			return nil
		}
		v := initializedWorkflow(t, f, alice)
		drive(t, v, v.RegenerateBins())

		if len(order) != 2 || order[0] != "clear" || order[1] != "regenerate" {
			t.Errorf("order: %v", order)
		}
	})

	t.Run("remove config reloads configs", func(t *testing.T) {
		f := workflowService(t, projects.Admin)
		f.Impl.RemoveConfig = func(_ context.Context, _ int64, configId int64) error {
			if configId != 2 {
				t.Errorf("config: %d", configId)
			}
			return nil
		}
		v := initializedWorkflow(t, f, alice)
		drive(t, v, v.RemoveConfig(workflow.Config{Id: 2, Type: "QUALITY_ASSURANCE"}))

		if n := f.count("GetConfigs"); n != 2 {
			t.Errorf("configs are loaded %d times", n)
		}
	})
}

func TestWorkflowView_Notifications(t *testing.T) {
	f := workflowService(t, projects.Admin)
	v := initializedWorkflow(t, f, alice)

	drive(t, v, v.Update(controller.BinsChanged{ProjectId: other.Id}))
	if n := f.count("GetBins"); n != 1 {
		t.Errorf("bins are reloaded for another project")
	}

	drive(t, v, v.Update(controller.WorklistChanged{ProjectId: nci.Id}))
	if n := f.count("GetBins"); n != 2 {
		t.Errorf("bins are not reloaded")
	}
}

func TestWorkflowView_SetGroupOpen(t *testing.T) {
	f := workflowService(t, projects.Admin)
	var saved security.UserPreferences
	f.Impl.UpdatePreferences = func(_ context.Context, p security.UserPreferences) (security.UserPreferences, error) {
		saved = p
		return p, nil
	}
	v := initializedWorkflow(t, f, alice)
	drive(t, v, v.SetGroupOpen("Checklists", true))

	groups := []controller.Group{}
	if err := json.Unmarshal([]byte(saved.Properties[controller.GroupsProperty]), &groups); err != nil {
		t.Fatal(err)
	}
	if len(groups) != 3 || !groups[2].Open || groups[2].Title != "Checklists" {
		t.Errorf("saved groups: %+v", groups)
	}

	if cmd := v.SetGroupOpen("nothing", true); cmd != nil {
		t.Errorf("unknown group is saved")
	}
	if len(v.Errors()) != 1 {
		t.Errorf("errors: %v", v.Errors())
	}
}
