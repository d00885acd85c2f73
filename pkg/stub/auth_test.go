package stub_test

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	httptestutil "github.com/termcurator/curate/internal/testutils/http"
	"github.com/termcurator/curate/pkg/stub"
	"github.com/termcurator/curate/pkg/utils/try"
)

func TestTokens(t *testing.T) {
	now := time.Date(2024, 8, 1, 12, 0, 0, 0, time.UTC)
	tokens := stub.NewTokens([]byte("secret"), time.Hour).WithNow(func() time.Time { return now })

	t.Run("issued token is verified", func(t *testing.T) {
		token := try.To(tokens.Issue("alice")).OrFatal(t)
		if u := try.To(tokens.Verify(token)).OrFatal(t); u != "alice" {
			t.Errorf("user: %s", u)
		}
	})

	t.Run("expired token is rejected", func(t *testing.T) {
		token := try.To(tokens.Issue("alice")).OrFatal(t)
		later := tokens.WithNow(func() time.Time { return now.Add(2 * time.Hour) })
		if _, err := later.Verify(token); !errors.Is(err, stub.ErrInvalidToken) {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("token signed with another key is rejected", func(t *testing.T) {
		other := stub.NewTokens([]byte("another secret"), time.Hour).WithNow(func() time.Time { return now })
		token := try.To(other.Issue("alice")).OrFatal(t)
		if _, err := tokens.Verify(token); !errors.Is(err, stub.ErrInvalidToken) {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("token from another issuer is rejected", func(t *testing.T) {
		token := try.To(jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
			Issuer:    "someone",
			Subject:   "alice",
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		}).SignedString([]byte("secret"))).OrFatal(t)
		if _, err := tokens.Verify(token); !errors.Is(err, stub.ErrInvalidToken) {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("garbage is rejected", func(t *testing.T) {
		if _, err := tokens.Verify("not a token"); !errors.Is(err, stub.ErrInvalidToken) {
			t.Errorf("unexpected error: %v", err)
		}
	})
}

func TestTokens_Authenticated(t *testing.T) {
	now := time.Date(2024, 8, 1, 12, 0, 0, 0, time.UTC)
	tokens := stub.NewTokens([]byte("secret"), time.Hour).WithNow(func() time.Time { return now })
	token := try.To(tokens.Issue("alice")).OrFatal(t)

	type then struct {
		called   bool
		userName string
		status   int
	}
	for name, testcase := range map[string]struct {
		when []httptestutil.RequestOption
		then then
	}{
		"raw token": {
			when: []httptestutil.RequestOption{httptestutil.WithHeader("Authorization", token)},
			then: then{called: true, userName: "alice"},
		},
		"bearer token": {
			when: []httptestutil.RequestOption{httptestutil.WithHeader("Authorization", "Bearer "+token)},
			then: then{called: true, userName: "alice"},
		},
		"no token": {
			when: []httptestutil.RequestOption{},
			then: then{status: http.StatusUnauthorized},
		},
		"broken token": {
			when: []httptestutil.RequestOption{httptestutil.WithHeader("Authorization", token+"x")},
			then: then{status: http.StatusUnauthorized},
		},
	} {
		t.Run(name, func(t *testing.T) {
			e := echo.New()
			c, _ := httptestutil.Get(e, "/term-server-rest/workflow/bins", testcase.when...)

			called := false
			userName := ""
			err := tokens.Authenticated(func(c echo.Context) error {
				called = true
				userName = stub.UserName(c)
				return nil
			})(c)

			if called != testcase.then.called || userName != testcase.then.userName {
				t.Errorf(
					"(called, userName): (actual, expected) = ((%v, %s), (%v, %s))",
					called, userName, testcase.then.called, testcase.then.userName,
				)
			}
			if testcase.then.status == 0 {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			var herr *echo.HTTPError
			if !errors.As(err, &herr) || herr.Code != testcase.then.status {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}
