// Package fixture backs a mock client with fixed data, for tests of subcommands.
package fixture

import (
	"context"
	"errors"
	"fmt"
	"testing"

	krst_mock "github.com/termcurator/curate/cmd/curate/rest/mock"
	"github.com/termcurator/curate/pkg/api/types/content"
	"github.com/termcurator/curate/pkg/api/types/pfs"
	"github.com/termcurator/curate/pkg/api/types/projects"
	"github.com/termcurator/curate/pkg/api/types/security"
	"github.com/termcurator/curate/pkg/api/types/workflow"
)

// Data is what the mock client serves.
//
// Zero values are served as empty lists.
type Data struct {
	Projects []projects.Project
	Role     projects.Role

	Assigned   []workflow.Worklist
	Available  []workflow.Worklist
	Checklists []workflow.Worklist

	// records by worklist or checklist id
	Records map[int64][]workflow.TrackingRecord

	Configs []workflow.Config

	// bins by config type
	Bins map[string][]workflow.Bin

	// records by bin id
	BinRecords map[int64][]workflow.TrackingRecord

	Concepts map[int64]content.Concept
	Reports  map[int64]string
}

var ErrMissing = errors.New("missing in fixture")

// Page slices items as the term server does for params.
func Page[T any](items []T, params pfs.Params) ([]T, int) {
	start := min(max(params.StartIndex, 0), len(items))
	end := len(items)
	if 0 <= params.MaxResults {
		end = min(start+params.MaxResults, len(items))
	}
	return append([]T{}, items[start:end]...), len(items)
}

// Client returns a mock client serving d, with methods for reading.
//
// Methods changing the server are left unset.
func Client(t *testing.T, d Data) *krst_mock.MockClient {
	client := krst_mock.New(t)
	if d.Role == "" {
		d.Role = projects.Author
	}

	client.Impl.GetUser = func(_ context.Context, userName string) (security.User, error) {
		return security.User{UserName: userName}, nil
	}
	client.Impl.GetProjectsForUser = func(context.Context, string) (projects.ProjectList, error) {
		return projects.ProjectList{Projects: d.Projects}, nil
	}
	client.Impl.GetRoleForProject = func(context.Context, string, int64) (projects.RoleInfo, error) {
		return projects.RoleInfo{Role: d.Role, Options: []projects.Role{d.Role}}, nil
	}
	client.Impl.FindAssignedUsers = func(context.Context, int64) (projects.UserList, error) {
		return projects.UserList{Users: []security.User{}}, nil
	}

	client.Impl.FindAssignedWorklists = func(_ context.Context, _ int64, _ string, _ projects.Role, params pfs.Params) (workflow.WorklistList, error) {
		items, total := Page(d.Assigned, params)
		return workflow.WorklistList{Worklists: items, TotalCount: total}, nil
	}
	client.Impl.FindAvailableWorklists = func(_ context.Context, _ int64, _ string, _ projects.Role, params pfs.Params) (workflow.WorklistList, error) {
		items, total := Page(d.Available, params)
		return workflow.WorklistList{Worklists: items, TotalCount: total}, nil
	}
	client.Impl.FindChecklists = func(_ context.Context, _ int64, _ string, params pfs.Params) (workflow.ChecklistList, error) {
		items, total := Page(d.Checklists, params)
		return workflow.ChecklistList{Checklists: items, TotalCount: total}, nil
	}

	records := func(_ context.Context, _ int64, id int64, params pfs.Params) (workflow.RecordList, error) {
		items, total := Page(d.Records[id], params)
		return workflow.RecordList{Records: items, TotalCount: total}, nil
	}
	client.Impl.FindRecordsForWorklist = records
	client.Impl.FindRecordsForChecklist = records
	client.Impl.FindRecordsForBin = func(_ context.Context, _ int64, binId int64, params pfs.Params) (workflow.RecordList, error) {
		items, total := Page(d.BinRecords[binId], params)
		return workflow.RecordList{Records: items, TotalCount: total}, nil
	}

	client.Impl.GetConcept = func(_ context.Context, _ int64, conceptId int64) (content.Concept, error) {
		c, ok := d.Concepts[conceptId]
		if !ok {
			return content.Concept{}, fmt.Errorf("%w: concept %d", ErrMissing, conceptId)
		}
		return c, nil
	}
	client.Impl.GetConceptReport = func(_ context.Context, _ int64, conceptId int64) (string, error) {
		return d.Reports[conceptId], nil
	}

	client.Impl.GetConfigs = func(context.Context, int64) (workflow.ConfigList, error) {
		return workflow.ConfigList{Configs: d.Configs}, nil
	}
	client.Impl.GetBins = func(_ context.Context, _ int64, configType string) (workflow.BinList, error) {
		bins := d.Bins[configType]
		return workflow.BinList{Bins: bins, TotalCount: len(bins)}, nil
	}
	return client
}

// Record returns a tracking record with concepts.
func Record(id int64, conceptIds ...int64) workflow.TrackingRecord {
	refs := make([]content.ConceptRef, 0, len(conceptIds))
	for _, c := range conceptIds {
		refs = append(refs, content.ConceptRef{Id: c})
	}
	return workflow.TrackingRecord{Id: id, ClusterId: id * 10, Concepts: refs}
}
