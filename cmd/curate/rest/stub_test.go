package rest_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	kprof "github.com/termcurator/curate/cmd/curate/config/profiles"
	cerr "github.com/termcurator/curate/cmd/curate/errors"
	krst "github.com/termcurator/curate/cmd/curate/rest"
	testutilctx "github.com/termcurator/curate/internal/testutils/context"
	"github.com/termcurator/curate/pkg/api/types/pfs"
	"github.com/termcurator/curate/pkg/api/types/projects"
	"github.com/termcurator/curate/pkg/api/types/security"
	"github.com/termcurator/curate/pkg/api/types/workflow"
	"github.com/termcurator/curate/pkg/stub"
	"github.com/termcurator/curate/pkg/utils/try"
)

// startStub starts the stub term server with the demo fixture.
func startStub(t *testing.T) string {
	t.Helper()
	fixture := try.To(stub.Demo()).OrFatal(t)
	srv := httptest.NewServer(stub.New(
		stub.NewStore(fixture),
		stub.NewTokens([]byte("secret"), time.Hour),
		stub.WithLogLevel("off"),
	))
	t.Cleanup(srv.Close)
	return srv.URL + stub.DefaultApiRoot
}

func statusOf(err error) int {
	var sc cerr.StatusCode
	if errors.As(err, &sc) {
		return sc.StatusCode()
	}
	return 0
}

func TestClientWithStub(t *testing.T) {
	ctx := testutilctx.WithTest(t)

	apiRoot := startStub(t)
	anonymous := try.To(krst.NewClient(&kprof.Profile{ApiRoot: apiRoot})).OrFatal(t)

	if _, err := anonymous.Authenticate(ctx, "author1", "wrong"); statusOf(err) != http.StatusUnauthorized {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := anonymous.GetUser(ctx, "author1"); statusOf(err) != http.StatusUnauthorized {
		t.Fatalf("request without token: %v", err)
	}

	user := try.To(anonymous.Authenticate(ctx, "author1", "author1")).OrFatal(t)
	if user.UserName != "author1" || user.AuthToken == "" {
		t.Fatalf("user: %+v", user)
	}
	prof := &kprof.Profile{ApiRoot: apiRoot, User: user.UserName, Token: user.AuthToken}
	if exp, ok := prof.TokenExpiry(); !ok || !exp.After(time.Now()) {
		t.Errorf("token expiry: %s, %v", exp, ok)
	}
	client := try.To(krst.NewClient(prof)).OrFatal(t)

	t.Run("projects and role", func(t *testing.T) {
		pl := try.To(client.GetProjectsForUser(ctx, "author1")).OrFatal(t)
		if len(pl.Projects) != 1 || pl.Project == nil || pl.Project.Name != "NCI Thesaurus" {
			t.Errorf("projects: %+v", pl)
		}
		role := try.To(client.GetRoleForProject(ctx, "author1", 1)).OrFatal(t)
		if role.Role != projects.Author {
			t.Errorf("role: %+v", role)
		}
		if _, err := client.GetConfigs(ctx, 2); statusOf(err) != http.StatusForbidden {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("worklists and records", func(t *testing.T) {
		wl := try.To(client.FindAssignedWorklists(
			ctx, 1, "author1", projects.Author, pfs.Params{MaxResults: 10, SortField: "name", Ascending: true},
		)).OrFatal(t)
		if wl.TotalCount != 1 || wl.Worklists[0].Id != 11 {
			t.Fatalf("worklists: %+v", wl)
		}

		rl := try.To(client.FindRecordsForWorklist(
			ctx, 1, 11, pfs.Params{StartIndex: 2, MaxResults: 2, SortField: "clusterId", Ascending: true},
		)).OrFatal(t)
		if rl.TotalCount != 3 || len(rl.Records) != 1 || rl.Records[0].Id != 103 {
			t.Errorf("records: %+v", rl)
		}

		rl = try.To(client.FindRecordsForWorklist(
			ctx, 1, 11, pfs.Params{MaxResults: 10, QueryRestriction: " NOT clusterType:[* TO *]"},
		)).OrFatal(t)
		if rl.TotalCount != 2 {
			t.Errorf("records without cluster type: %+v", rl)
		}
	})

	t.Run("concept and report", func(t *testing.T) {
		c := try.To(client.GetConcept(ctx, 1, 1001)).OrFatal(t)
		if c.Name != "Neoplasm" || c.Terminology != "NCIt" {
			t.Errorf("concept: %+v", c)
		}
		report := try.To(client.GetConceptReport(ctx, 1, 1001)).OrFatal(t)
		if !strings.Contains(report, "Synonym: Tumor") {
			t.Errorf("report: %s", report)
		}
		if _, err := client.GetConcept(ctx, 1, 9999); statusOf(err) != http.StatusNotFound {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("finish a worklist", func(t *testing.T) {
		w := try.To(client.PerformAction(ctx, 1, 11, "author1", projects.Author, workflow.Finish)).OrFatal(t)
		if w.WorkflowStatus != stub.StatusReviewNew {
			t.Errorf("worklist: %+v", w)
		}
		log := try.To(client.GetWorklistLog(ctx, 1, 11)).OrFatal(t)
		if !strings.Contains(log, "FINISH author1 as AUTHOR") {
			t.Errorf("log: %s", log)
		}
		if _, err := client.PerformAction(ctx, 1, 11, "author1", projects.Author, workflow.Finish); statusOf(err) != http.StatusConflict {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("bins", func(t *testing.T) {
		bl := try.To(client.GetBins(ctx, 1, "MUTUALLY_EXCLUSIVE")).OrFatal(t)
		if bl.TotalCount != 3 || bl.Bins[0].Name != "demotions" || bl.Bins[0].ClusterCt != 1 {
			t.Fatalf("bins: %+v", bl)
		}
		if err := client.ClearBins(ctx, 1, "MUTUALLY_EXCLUSIVE"); err != nil {
			t.Fatal(err)
		}
		bl = try.To(client.GetBins(ctx, 1, "MUTUALLY_EXCLUSIVE")).OrFatal(t)
		for _, b := range bl.Bins {
			if b.ClusterCt != 0 {
				t.Errorf("bin is not cleared: %+v", b)
			}
		}

		def := try.To(client.GetDefinition(ctx, 1, "ncit", "MUTUALLY_EXCLUSIVE")).OrFatal(t)
		def.Enabled = false
		if err := client.UpdateDefinition(ctx, 1, def); err != nil {
			t.Fatal(err)
		}
		if d := try.To(client.GetDefinition(ctx, 1, "ncit", "MUTUALLY_EXCLUSIVE")).OrFatal(t); d.Enabled {
			t.Errorf("definition: %+v", d)
		}
	})

	t.Run("preferences", func(t *testing.T) {
		saved := try.To(client.UpdatePreferences(ctx, security.UserPreferences{
			LastProjectId: 1, LastProjectRole: "AUTHOR",
		})).OrFatal(t)
		u := try.To(client.GetUser(ctx, "author1")).OrFatal(t)
		if u.Preferences == nil || u.Preferences.Id != saved.Id || u.Preferences.LastProjectRole != "AUTHOR" {
			t.Errorf("preferences: %+v", u.Preferences)
		}
	})

	t.Run("logs", func(t *testing.T) {
		if l := try.To(client.GetProcessLog(ctx, 1, 1)).OrFatal(t); !strings.HasPrefix(l, "process 1 started") {
			t.Errorf("process log: %s", l)
		}
		if l := try.To(client.GetStepLog(ctx, 1, 7)).OrFatal(t); !strings.HasPrefix(l, "step 7 started") {
			t.Errorf("step log: %s", l)
		}
		if l := try.To(client.GetProjectLog(ctx, 1, "")).OrFatal(t); !strings.Contains(l, "project NCI Thesaurus is created") {
			t.Errorf("project log: %s", l)
		}
		if _, err := client.GetChecklistLog(ctx, 1, 999); statusOf(err) != http.StatusNotFound {
			t.Errorf("unexpected error: %v", err)
		}
	})
}
