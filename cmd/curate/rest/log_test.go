package rest_test

import (
	"context"
	"maps"
	"net/http"
	"testing"

	krst "github.com/termcurator/curate/cmd/curate/rest"
	"github.com/termcurator/curate/pkg/utils/try"
)

func TestClient_Logs(t *testing.T) {
	ctx := context.Background()
	type Then struct {
		path  string
		query map[string]string
	}

	theory := func(call func(krst.CurateClient) (string, error), then Then) func(*testing.T) {
		return func(t *testing.T) {
			testee, last := serve(t, http.StatusOK, "text/plain", []byte("line 1\nline 2\n"))

			actual := try.To(call(testee)).OrFatal(t)
			if actual != "line 1\nline 2\n" {
				t.Errorf("log: %q", actual)
			}

			req := last()
			if req.Method != http.MethodGet || req.Path != then.path {
				t.Errorf("request: %s %s", req.Method, req.Path)
			}
			if !maps.Equal(req.Query, then.query) {
				t.Errorf("query: %v", req.Query)
			}
		}
	}

	t.Run("worklist log", theory(
		func(c krst.CurateClient) (string, error) { return c.GetWorklistLog(ctx, 7, 42) },
		Then{path: "/term-server-rest/workflow/log", query: map[string]string{"projectId": "7", "worklistId": "42"}},
	))
	t.Run("checklist log", theory(
		func(c krst.CurateClient) (string, error) { return c.GetChecklistLog(ctx, 7, 43) },
		Then{path: "/term-server-rest/workflow/log", query: map[string]string{"projectId": "7", "checklistId": "43"}},
	))
	t.Run("process log", theory(
		func(c krst.CurateClient) (string, error) { return c.GetProcessLog(ctx, 7, 5) },
		Then{path: "/term-server-rest/process/7/5/log", query: map[string]string{}},
	))
	t.Run("step log", theory(
		func(c krst.CurateClient) (string, error) { return c.GetStepLog(ctx, 7, 6) },
		Then{path: "/term-server-rest/process/7/step/6/log", query: map[string]string{}},
	))
	t.Run("project log", theory(
		func(c krst.CurateClient) (string, error) { return c.GetProjectLog(ctx, 7, "") },
		Then{path: "/term-server-rest/project/7/log", query: map[string]string{}},
	))
	t.Run("component log", theory(
		func(c krst.CurateClient) (string, error) { return c.GetProjectLog(ctx, 7, "C1234") },
		Then{path: "/term-server-rest/project/7/log", query: map[string]string{"objectId": "C1234"}},
	))
	t.Run("concept report", theory(
		func(c krst.CurateClient) (string, error) { return c.GetConceptReport(ctx, 7, 301) },
		Then{path: "/term-server-rest/report/concept/301", query: map[string]string{"projectId": "7"}},
	))
}
