package profiles_test

import (
	_ "embed"
	"encoding/base64"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	prof "github.com/termcurator/curate/cmd/curate/config/profiles"
	"github.com/termcurator/curate/pkg/utils/try"
)

//go:embed testdata/ca.crt
var cacertfile []byte

func TestUnmarshall(t *testing.T) {
	conf := try.To(prof.Unmarshall([]byte(`
profname:
    apiRoot: "https://terms.example.com/term-server-rest"
    cert:
        ca: BASE64_ENCODED_CERT
    user: alice
    token: TOKEN
`))).OrFatal(t)

	p, ok := conf["profname"]
	if !ok {
		t.Fatal("config has not profile")
	}
	expected := prof.Profile{
		ApiRoot: "https://terms.example.com/term-server-rest",
		Cert:    prof.Cert{CA: "BASE64_ENCODED_CERT"},
		User:    "alice",
		Token:   "TOKEN",
	}
	if *p != expected {
		t.Errorf("profile: (actual, expected) = (%+v, %+v)", *p, expected)
	}
}

func TestProfile_Verify(t *testing.T) {
	for name, testcase := range map[string]struct {
		prof *prof.Profile
		err  error
	}{
		"all value is valid, it is valid": {
			prof: &prof.Profile{
				ApiRoot: "https://terms.example.com",
				Cert:    prof.Cert{CA: base64.StdEncoding.EncodeToString(cacertfile)},
			},
		},
		"no CA is ok": {
			prof: &prof.Profile{ApiRoot: "https://terms.example.com"},
		},
		"when api root is broken, it is not valid": {
			prof: &prof.Profile{ApiRoot: "not url"},
			err:  prof.ErrProfileInvalid,
		},
		"when CA is not PEM, it is not valid": {
			prof: &prof.Profile{
				ApiRoot: "https://terms.example.com",
				Cert:    prof.Cert{CA: base64.StdEncoding.EncodeToString([]byte("broken cert"))},
			},
			err: prof.ErrProfileInvalid,
		},
	} {
		t.Run(name, func(t *testing.T) {
			if err := testcase.prof.Verify(); !errors.Is(err, testcase.err) {
				t.Errorf("verification: (actual, expected) = (%v, %v)", err, testcase.err)
			}
		})
	}
}

func TestProfile_Token(t *testing.T) {
	sign := func(t *testing.T, claims jwt.Claims) string {
		t.Helper()
		return try.To(
			jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("key")),
		).OrFatal(t)
	}
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	t.Run("expiry is read from the token", func(t *testing.T) {
		p := prof.Profile{User: "alice", Token: sign(t, jwt.RegisteredClaims{
			Subject:   "alice",
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		})}
		exp, ok := p.TokenExpiry()
		if !ok || !exp.Equal(now.Add(time.Hour)) {
			t.Errorf("expiry: %v, %v", exp, ok)
		}
		if p.Expired(now) {
			t.Error("token is expired before its expiry")
		}
		if !p.Expired(now.Add(2 * time.Hour)) {
			t.Error("token is not expired after its expiry")
		}
		if err := p.SignedIn(); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("opaque token never expires", func(t *testing.T) {
		p := prof.Profile{User: "alice", Token: "opaque"}
		if _, ok := p.TokenExpiry(); ok {
			t.Error("opaque token has expiry")
		}
		if p.Expired(now) {
			t.Error("opaque token is expired")
		}
	})

	t.Run("profile without token is not signed in", func(t *testing.T) {
		p := prof.Profile{User: "alice"}
		if err := p.SignedIn(); !errors.Is(err, prof.ErrNotSignedIn) {
			t.Errorf("unexpected error: %v", err)
		}
	})
}

func TestProfileStore_Save(t *testing.T) {
	t.Run("saved store can be loaded", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "nested", "profile")
		store := prof.ProfileStore{
			"a": {ApiRoot: "https://a.example.com", User: "alice", Token: "t1"},
		}
		if err := store.Save(path); err != nil {
			t.Fatal(err)
		}
		store["b"] = &prof.Profile{ApiRoot: "https://b.example.com"}
		if err := store.Save(path); err != nil {
			t.Fatal(err)
		}

		loaded := try.To(prof.LoadProfileStore(path)).OrFatal(t)
		if len(loaded) != 2 || *loaded["a"] != *store["a"] || *loaded["b"] != *store["b"] {
			t.Errorf("loaded: %+v", loaded)
		}
		if _, err := os.Stat(path + ".backup"); !errors.Is(err, os.ErrNotExist) {
			t.Errorf("backup is left: %v", err)
		}

		if runtime.GOOS != "windows" {
			stat := try.To(os.Stat(path)).OrFatal(t)
			if perm := stat.Mode().Perm(); perm != 0600 {
				t.Errorf("permission: %o", perm)
			}
		}
	})

	t.Run("missing store is reported", func(t *testing.T) {
		_, err := prof.LoadProfileStore(filepath.Join(t.TempDir(), "nothing"))
		if !errors.Is(err, prof.ErrProfileStoreNotFound) {
			t.Errorf("unexpected error: %v", err)
		}
	})
}
