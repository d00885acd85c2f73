package viewer_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	testutilctx "github.com/termcurator/curate/internal/testutils/context"
	"github.com/termcurator/curate/pkg/viewer"
)

func TestUntilModifyContext(t *testing.T) {
	for name, modify := range map[string]func(t *testing.T, file string){
		"written": func(t *testing.T, file string) {
			if err := os.WriteFile(file, []byte("content"), 0644); err != nil {
				t.Fatal(err)
			}
		},
		"removed": func(t *testing.T, file string) {
			if err := os.Remove(file); err != nil {
				t.Fatal(err)
			}
		},
		"renamed": func(t *testing.T, file string) {
			if err := os.Rename(file, file+".renamed"); err != nil {
				t.Fatal(err)
			}
		},
	} {
		t.Run("when a file in the watched directory is "+name+", it cancels context", func(t *testing.T) {
			dir := t.TempDir()
			file := filepath.Join(dir, "file")
			if err := os.WriteFile(file, []byte{}, 0644); err != nil {
				t.Fatal(err)
			}

			ctx, cancel, err := viewer.UntilModifyContext(testutilctx.WithTest(t), dir)
			if err != nil {
				t.Fatal(err)
			}
			defer cancel()
			if err := ctx.Err(); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			modify(t, file)

			select {
			case <-ctx.Done():
			case <-time.After(10 * time.Second):
				t.Fatal("context is not canceled")
			}
		})
	}

	t.Run("watching missing path fails", func(t *testing.T) {
		_, _, err := viewer.UntilModifyContext(context.Background(), filepath.Join(t.TempDir(), "missing"))
		if err == nil {
			t.Error("no error")
		}
	})
}

func TestFollow(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "page.yaml")

	ctx, cancel := context.WithCancel(testutilctx.WithTest(t))
	defer cancel()

	rendered := make(chan viewer.Page, 100)
	done := make(chan error, 1)
	go func() {
		done <- viewer.Follow(ctx, file, func(p viewer.Page) error {
			rendered <- p
			return nil
		})
	}()

	next := func() viewer.Page {
		select {
		case p := <-rendered:
			return p
		case <-time.After(10 * time.Second):
			t.Fatal("not rendered")
		}
		return viewer.Page{}
	}

	if p := next(); !p.Equal(viewer.Page{}) {
		t.Errorf("missing file should be an empty page: %+v", p)
	}

	page := viewer.Page{Title: "C1234", Body: "report"}
	if err := viewer.WritePage(file, page); err != nil {
		t.Fatal(err)
	}
	for {
		// events on the temporary file of WritePage may come first.
		p := next()
		if p.Equal(page) {
			break
		}
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	case <-time.After(10 * time.Second):
		t.Fatal("Follow does not stop")
	}
}

func TestRender(t *testing.T) {
	actual := viewer.Render(viewer.Page{Title: "C1234 heart", Body: "line 1\nline 2", Notice: "no more records"}, 40)
	for _, want := range []string{"C1234 heart", "line 1", "line 2", "no more records"} {
		if !strings.Contains(actual, want) {
			t.Errorf("%q is not rendered:\n%s", want, actual)
		}
	}

	empty := viewer.Render(viewer.Page{}, 0)
	if !strings.Contains(empty, "nothing to show") {
		t.Errorf("empty page:\n%s", empty)
	}
}
