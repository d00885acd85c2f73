package security

import (
	"maps"

	"github.com/termcurator/curate/pkg/cmp"
)

type User struct {
	UserName        string           `json:"userName"`
	Name            string           `json:"name,omitempty"`
	Email           string           `json:"email,omitempty"`
	ApplicationRole string           `json:"applicationRole,omitempty"`
	Team            string           `json:"team,omitempty"`
	AuthToken       string           `json:"authToken,omitempty"`
	Preferences     *UserPreferences `json:"userPreferences,omitempty"`
}

func (u User) Equal(o User) bool {
	return u.UserName == o.UserName &&
		u.Name == o.Name &&
		u.Email == o.Email &&
		u.ApplicationRole == o.ApplicationRole &&
		u.Team == o.Team &&
		u.AuthToken == o.AuthToken &&
		cmp.PEqual(u.Preferences, o.Preferences)
}

// UserPreferences are per-user settings kept by the term server.
type UserPreferences struct {
	Id              int64             `json:"id,omitempty"`
	LastTab         string            `json:"lastTab,omitempty"`
	LastProjectId   int64             `json:"lastProjectId,omitempty"`
	LastProjectRole string            `json:"lastProjectRole,omitempty"`
	Properties      map[string]string `json:"properties,omitempty"`
}

func (p UserPreferences) Equal(o UserPreferences) bool {
	return p.Id == o.Id &&
		p.LastTab == o.LastTab &&
		p.LastProjectId == o.LastProjectId &&
		p.LastProjectRole == o.LastProjectRole &&
		maps.Equal(p.Properties, o.Properties)
}

// Clone returns a deep copy.
func (p UserPreferences) Clone() UserPreferences {
	props := make(map[string]string, len(p.Properties))
	for k, v := range p.Properties {
		props[k] = v
	}
	p.Properties = props
	return p
}
