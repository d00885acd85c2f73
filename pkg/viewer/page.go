// Package viewer is child viewer windows: a page file written by a session,
// and a separate process following and rendering it.
package viewer

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Page is what a child window shows.
type Page struct {
	Title  string `yaml:"title,omitempty"`
	Body   string `yaml:"body,omitempty"`
	Notice string `yaml:"notice,omitempty"`
}

func (p Page) Equal(o Page) bool {
	return p == o
}

// ReadPage reads a page file.
func ReadPage(path string) (Page, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return Page{}, err
	}
	p := Page{}
	if err := yaml.Unmarshal(content, &p); err != nil {
		return Page{}, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}

// WritePage replaces the page file at path.
//
// The page is written to a temporary file next to path, then renamed,
// so followers never see a half-written page.
func WritePage(path string, p Page) error {
	content, err := yaml.Marshal(p)
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
