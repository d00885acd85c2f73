package projects

import (
	"github.com/termcurator/curate/pkg/api/types/security"
	"github.com/termcurator/curate/pkg/cmp"
)

type Project struct {
	Id          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Terminology string `json:"terminology,omitempty"`
	Version     string `json:"version,omitempty"`
}

func (p Project) Equal(o Project) bool {
	return p == o
}

// ProjectList is projects visible for a user, and the one the server suggests as default.
type ProjectList struct {
	Projects []Project `json:"projects"`
	Project  *Project  `json:"project,omitempty"`
}

func (pl ProjectList) Equal(o ProjectList) bool {
	return cmp.SliceEqual(pl.Projects, o.Projects) && cmp.PEqual(pl.Project, o.Project)
}

// Role is a user's role in a project.
//
// Known roles are listed as constants, but the server may send others.
type Role string

const (
	Admin    Role = "ADMIN"
	Author   Role = "AUTHOR"
	Reviewer Role = "REVIEWER"
	User     Role = "USER"
)

// RoleInfo is the response of role lookup.
type RoleInfo struct {
	Role    Role   `json:"role"`
	Options []Role `json:"options"`
}

func (r RoleInfo) Equal(o RoleInfo) bool {
	return r.Role == o.Role && cmp.SliceEq(r.Options, o.Options)
}

type UserList struct {
	Users      []security.User `json:"users"`
	TotalCount int             `json:"totalCount"`
}

func (ul UserList) Equal(o UserList) bool {
	return ul.TotalCount == o.TotalCount && cmp.SliceEqual(ul.Users, o.Users)
}
