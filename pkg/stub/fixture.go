// Package stub is an in-memory term server, for development and tests of curate.
//
// Its state is built from a yaml Fixture, and lost when the process ends.
// It speaks the same JSON over HTTP the real term server does, as far as curate uses it.
package stub

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed fixture.yaml
var demo []byte

type Fixture struct {
	Users    []UserFixture    `yaml:"users"`
	Projects []ProjectFixture `yaml:"projects"`
}

type UserFixture struct {
	UserName        string `yaml:"userName"`
	Password        string `yaml:"password"`
	Name            string `yaml:"name,omitempty"`
	Email           string `yaml:"email,omitempty"`
	ApplicationRole string `yaml:"applicationRole,omitempty"`
	Team            string `yaml:"team,omitempty"`
}

type ProjectFixture struct {
	Id          int64  `yaml:"id"`
	Name        string `yaml:"name"`
	Description string `yaml:"description,omitempty"`
	Terminology string `yaml:"terminology,omitempty"`
	Version     string `yaml:"version,omitempty"`

	// Default project is suggested to users who can see it.
	Default bool `yaml:"default,omitempty"`

	// Roles maps user name to the role in this project.
	Roles map[string]string `yaml:"roles"`

	Log string `yaml:"log,omitempty"`

	Worklists  []WorklistFixture `yaml:"worklists,omitempty"`
	Checklists []WorklistFixture `yaml:"checklists,omitempty"`
	Configs    []ConfigFixture   `yaml:"configs,omitempty"`
	Concepts   []ConceptFixture  `yaml:"concepts,omitempty"`

	// logs of processes and steps, by id
	Processes map[int64]string `yaml:"processes,omitempty"`
	Steps     map[int64]string `yaml:"steps,omitempty"`
}

type WorklistFixture struct {
	Id             int64           `yaml:"id"`
	Name           string          `yaml:"name"`
	Description    string          `yaml:"description,omitempty"`
	WorkflowStatus string          `yaml:"workflowStatus,omitempty"`
	Authors        []string        `yaml:"authors,omitempty"`
	Reviewers      []string        `yaml:"reviewers,omitempty"`
	Team           string          `yaml:"team,omitempty"`
	Log            string          `yaml:"log,omitempty"`
	Records        []RecordFixture `yaml:"records,omitempty"`
}

type RecordFixture struct {
	Id             int64   `yaml:"id"`
	ClusterId      int64   `yaml:"clusterId"`
	ClusterType    string  `yaml:"clusterType,omitempty"`
	WorkflowStatus string  `yaml:"workflowStatus,omitempty"`
	Concepts       []int64 `yaml:"concepts"`
}

type ConfigFixture struct {
	Id        int64        `yaml:"id"`
	Type      string       `yaml:"type"`
	Mutable   bool         `yaml:"mutable,omitempty"`
	QueryType string       `yaml:"queryType,omitempty"`
	Bins      []BinFixture `yaml:"bins,omitempty"`
}

type BinFixture struct {
	Id          int64           `yaml:"id"`
	Name        string          `yaml:"name"`
	Description string          `yaml:"description,omitempty"`
	Query       string          `yaml:"query,omitempty"`
	Enabled     bool            `yaml:"enabled"`
	Editable    bool            `yaml:"editable"`
	Rank        int             `yaml:"rank,omitempty"`
	Records     []RecordFixture `yaml:"records,omitempty"`
}

type ConceptFixture struct {
	Id             int64  `yaml:"id"`
	TerminologyId  string `yaml:"terminologyId,omitempty"`
	Name           string `yaml:"name"`
	WorkflowStatus string `yaml:"workflowStatus,omitempty"`
	Report         string `yaml:"report,omitempty"`
	Log            string `yaml:"log,omitempty"`
}

// Demo is the fixture served when no fixture file is given.
func Demo() (Fixture, error) {
	return UnmarshalFixture(demo)
}

func LoadFixture(path string) (Fixture, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return Fixture{}, err
	}
	f, err := UnmarshalFixture(buf)
	if err != nil {
		return Fixture{}, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

func UnmarshalFixture(buf []byte) (Fixture, error) {
	f := Fixture{}
	if err := yaml.Unmarshal(buf, &f); err != nil {
		return Fixture{}, err
	}
	return f, f.validate()
}

func (f Fixture) validate() error {
	users := map[string]bool{}
	for _, u := range f.Users {
		if u.UserName == "" {
			return fmt.Errorf("user without userName")
		}
		if users[u.UserName] {
			return fmt.Errorf("user %s is duplicated", u.UserName)
		}
		users[u.UserName] = true
	}

	projectIds := map[int64]bool{}
	for _, p := range f.Projects {
		if projectIds[p.Id] {
			return fmt.Errorf("project %d is duplicated", p.Id)
		}
		projectIds[p.Id] = true
		for user := range p.Roles {
			if !users[user] {
				return fmt.Errorf("project %d: role for unknown user %s", p.Id, user)
			}
		}

		concepts := map[int64]bool{}
		for _, c := range p.Concepts {
			concepts[c.Id] = true
		}
		records := []RecordFixture{}
		for _, w := range append(append([]WorklistFixture{}, p.Worklists...), p.Checklists...) {
			records = append(records, w.Records...)
		}
		for _, c := range p.Configs {
			for _, b := range c.Bins {
				records = append(records, b.Records...)
			}
		}
		for _, r := range records {
			for _, c := range r.Concepts {
				if !concepts[c] {
					return fmt.Errorf("project %d: record %d refers unknown concept %d", p.Id, r.Id, c)
				}
			}
		}
	}
	return nil
}
