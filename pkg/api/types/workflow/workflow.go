package workflow

import (
	"fmt"
	"strings"

	"github.com/termcurator/curate/pkg/api/types/content"
	"github.com/termcurator/curate/pkg/cmp"
)

// Config is a workflow configuration of a project. Each has its own bins.
type Config struct {
	Id        int64  `json:"id"`
	Type      string `json:"type"`
	Mutable   bool   `json:"mutable,omitempty"`
	QueryType string `json:"queryType,omitempty"`
}

func (c Config) Equal(o Config) bool {
	return c == o
}

type ConfigList struct {
	Configs []Config `json:"configs"`
}

// Bin is a named group of tracking records computed by the term server.
type Bin struct {
	Id        int64  `json:"id"`
	Name      string `json:"name"`
	Type      string `json:"type"`
	Enabled   bool   `json:"enabled"`
	Editable  bool   `json:"editable"`
	ClusterCt int    `json:"clusterCt"`
	Rank      int    `json:"rank,omitempty"`
}

func (b Bin) Equal(o Bin) bool {
	return b == o
}

type BinList struct {
	Bins       []Bin `json:"bins"`
	TotalCount int   `json:"totalCount"`
}

func (bl BinList) Equal(o BinList) bool {
	return bl.TotalCount == o.TotalCount && cmp.SliceEqual(bl.Bins, o.Bins)
}

// Definition is the query which makes up a bin.
type Definition struct {
	Id          int64  `json:"id,omitempty"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Query       string `json:"query,omitempty"`
	QueryType   string `json:"queryType,omitempty"`
	Enabled     bool   `json:"enabled"`
	Editable    bool   `json:"editable"`
}

func (d Definition) Equal(o Definition) bool {
	return d == o
}

// Worklist is a batch of tracking records assigned to editors.
type Worklist struct {
	Id             int64    `json:"id"`
	Name           string   `json:"name"`
	Description    string   `json:"description,omitempty"`
	WorkflowStatus string   `json:"workflowStatus,omitempty"`
	Authors        []string `json:"authors,omitempty"`
	Reviewers      []string `json:"reviewers,omitempty"`
	Team           string   `json:"team,omitempty"`
}

func (w Worklist) Equal(o Worklist) bool {
	return w.Id == o.Id &&
		w.Name == o.Name &&
		w.Description == o.Description &&
		w.WorkflowStatus == o.WorkflowStatus &&
		w.Team == o.Team &&
		cmp.SliceEq(w.Authors, o.Authors) &&
		cmp.SliceEq(w.Reviewers, o.Reviewers)
}

// JoinedAuthors is authors of the worklist in one string, or "" if no author.
func (w Worklist) JoinedAuthors() string {
	return strings.Join(w.Authors, " ")
}

// JoinedReviewers is reviewers of the worklist in one string, or "" if no reviewer.
func (w Worklist) JoinedReviewers() string {
	return strings.Join(w.Reviewers, " ")
}

type WorklistList struct {
	Worklists  []Worklist `json:"worklists"`
	TotalCount int        `json:"totalCount"`
}

func (wl WorklistList) Equal(o WorklistList) bool {
	return wl.TotalCount == o.TotalCount && cmp.SliceEqual(wl.Worklists, o.Worklists)
}

// Checklist is an unassigned, read-mostly batch of tracking records.
//
// It is handled as a Worklist on client side.
type ChecklistList struct {
	Checklists []Worklist `json:"checklists"`
	TotalCount int        `json:"totalCount"`
}

// TrackingRecord is a cluster of concepts to be reviewed together.
type TrackingRecord struct {
	Id             int64                `json:"id"`
	ClusterId      int64                `json:"clusterId"`
	ClusterType    string               `json:"clusterType,omitempty"`
	WorkflowStatus string               `json:"workflowStatus,omitempty"`
	Concepts       []content.ConceptRef `json:"concepts"`
}

func (r TrackingRecord) Equal(o TrackingRecord) bool {
	return r.Id == o.Id &&
		r.ClusterId == o.ClusterId &&
		r.ClusterType == o.ClusterType &&
		r.WorkflowStatus == o.WorkflowStatus &&
		cmp.SliceEqual(r.Concepts, o.Concepts)
}

type RecordList struct {
	Records    []TrackingRecord `json:"records"`
	TotalCount int              `json:"totalCount"`
}

func (rl RecordList) Equal(o RecordList) bool {
	return rl.TotalCount == o.TotalCount && cmp.SliceEqual(rl.Records, o.Records)
}

// Action is a workflow action code passed to the term server as is.
type Action string

const (
	Finish   Action = "FINISH"
	Assign   Action = "ASSIGN"
	Unassign Action = "UNASSIGN"
)

func (a Action) String() string {
	return string(a)
}

// ParseAction parses s (case insensitive) as Action.
func ParseAction(s string) (Action, error) {
	switch a := Action(strings.ToUpper(s)); a {
	case Finish, Assign, Unassign:
		return a, nil
	default:
		return "", fmt.Errorf("unknown workflow action: %s", s)
	}
}
