package stub_test

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	httptestutil "github.com/termcurator/curate/internal/testutils/http"
	apierr "github.com/termcurator/curate/pkg/api/types/errors"
	"github.com/termcurator/curate/pkg/api/types/security"
	"github.com/termcurator/curate/pkg/api/types/workflow"
	"github.com/termcurator/curate/pkg/stub"
	"github.com/termcurator/curate/pkg/utils/try"
)

func TestAuthenticateHandler(t *testing.T) {
	tokens := stub.NewTokens([]byte("secret"), time.Hour)

	t.Run("it responds the user with a token", func(t *testing.T) {
		e := echo.New()
		c, resp := httptestutil.Post(
			e, "/security/authenticate/alice", strings.NewReader("alice-pw"),
			httptestutil.ContentType("text/plain"),
		)
		c.SetParamNames("userName")
		c.SetParamValues("alice")

		if err := stub.AuthenticateHandler(newStore(), tokens, "userName")(c); err != nil {
			t.Fatal(err)
		}
		if resp.Code != http.StatusOK {
			t.Fatalf("status: %d", resp.Code)
		}
		u := security.User{}
		if err := json.Unmarshal(resp.Body.Bytes(), &u); err != nil {
			t.Fatal(err)
		}
		if name := try.To(tokens.Verify(u.AuthToken)).OrFatal(t); name != "alice" {
			t.Errorf("token is for %s", name)
		}
	})

	t.Run("wrong password is unauthorized", func(t *testing.T) {
		e := echo.New()
		c, _ := httptestutil.Post(e, "/security/authenticate/alice", strings.NewReader("nope"))
		c.SetParamNames("userName")
		c.SetParamValues("alice")

		err := stub.AuthenticateHandler(newStore(), tokens, "userName")(c)
		var herr *echo.HTTPError
		if !errors.As(err, &herr) || herr.Code != http.StatusUnauthorized {
			t.Errorf("unexpected error: %v", err)
		}
	})
}

func TestServer(t *testing.T) {
	tokens := stub.NewTokens([]byte("secret"), time.Hour)
	alice := try.To(tokens.Issue("alice")).OrFatal(t)

	type when struct {
		method string
		path   string
		body   string
		token  string
	}
	type then struct {
		status int
		reason string
	}
	for name, testcase := range map[string]struct {
		when when
		then then
	}{
		"bins": {
			when: when{method: http.MethodGet, path: "/workflow/bins?projectId=1&type=MUTUALLY_EXCLUSIVE", token: alice},
			then: then{status: http.StatusOK},
		},
		"without token": {
			when: when{method: http.MethodGet, path: "/workflow/bins?projectId=1&type=MUTUALLY_EXCLUSIVE"},
			then: then{status: http.StatusUnauthorized, reason: "authentication required"},
		},
		"project without role": {
			when: when{method: http.MethodGet, path: "/workflow/config/all?projectId=2", token: alice},
			then: then{status: http.StatusForbidden, reason: "forbidden: alice has no role in project 2"},
		},
		"non-numeric project id": {
			when: when{method: http.MethodGet, path: "/workflow/config/all?projectId=x", token: alice},
			then: then{status: http.StatusBadRequest, reason: "bad request"},
		},
		"unknown action": {
			when: when{
				method: http.MethodPost,
				path:   "/workflow/action?projectId=1&worklistId=11&userName=alice&userRole=AUTHOR&action=JUMP",
				token:  alice,
			},
			then: then{status: http.StatusBadRequest, reason: "bad request"},
		},
		"unknown worklist": {
			when: when{
				method: http.MethodPost, path: "/workflow/records/worklist?projectId=1&id=99",
				body: `{"startIndex":0,"maxResults":10,"ascending":true}`, token: alice,
			},
			then: then{status: http.StatusNotFound, reason: "not found: worklist 99"},
		},
		"action": {
			when: when{
				method: http.MethodPost,
				path:   "/workflow/action?projectId=1&worklistId=11&userName=alice&userRole=AUTHOR&action=ASSIGN",
				token:  alice,
			},
			then: then{status: http.StatusOK},
		},
		"approve without override": {
			when: when{
				method: http.MethodPost, path: "/meta/concept/approve?projectId=1&activityId=wl-11&overrideWarnings=false",
				body: `{"id":102,"name":"Tumor"}`, token: alice,
			},
			then: then{status: http.StatusConflict, reason: "conflict: concept 102 is not edited yet"},
		},
		"report": {
			when: when{method: http.MethodGet, path: "/report/concept/101?projectId=1", token: alice},
			then: then{status: http.StatusOK},
		},
	} {
		t.Run(name, func(t *testing.T) {
			e := stub.New(newStore(), tokens, stub.WithLogLevel("off"))

			var body io.Reader
			if testcase.when.body != "" {
				body = strings.NewReader(testcase.when.body)
			}
			req := httptest.NewRequest(testcase.when.method, stub.DefaultApiRoot+testcase.when.path, body)
			if body != nil {
				req.Header.Set("Content-Type", "application/json")
			}
			if testcase.when.token != "" {
				req.Header.Set("Authorization", testcase.when.token)
			}
			resp := httptest.NewRecorder()
			e.ServeHTTP(resp, req)

			if resp.Code != testcase.then.status {
				t.Fatalf("status: (actual, expected) = (%d, %d): %s", resp.Code, testcase.then.status, resp.Body)
			}
			if testcase.then.reason == "" {
				return
			}
			msg := apierr.ErrorMessage{}
			if err := json.Unmarshal(resp.Body.Bytes(), &msg); err != nil {
				t.Fatalf("error body: %s (%v)", resp.Body, err)
			}
			if msg.Reason != testcase.then.reason {
				t.Errorf("reason: (actual, expected) = (%s, %s)", msg.Reason, testcase.then.reason)
			}
		})
	}

	t.Run("bins are served in the shape of BinList", func(t *testing.T) {
		e := stub.New(newStore(), tokens, stub.WithApiRoot("http://example.com/api/"), stub.WithLogLevel("off"))
		req := httptest.NewRequest(http.MethodGet, "/api/workflow/bins?projectId=1&type=MUTUALLY_EXCLUSIVE", nil)
		req.Header.Set("Authorization", "Bearer "+alice)
		resp := httptest.NewRecorder()
		e.ServeHTTP(resp, req)

		bl := workflow.BinList{}
		if err := json.Unmarshal(resp.Body.Bytes(), &bl); err != nil {
			t.Fatalf("body: %s (%v)", resp.Body, err)
		}
		if bl.TotalCount != 2 || bl.Bins[1].ClusterCt != 2 {
			t.Errorf("bins: %+v", bl)
		}
	})
}
