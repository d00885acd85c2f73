package stub

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/termcurator/curate/pkg/api/types/content"
	"github.com/termcurator/curate/pkg/api/types/projects"
	"github.com/termcurator/curate/pkg/api/types/security"
	"github.com/termcurator/curate/pkg/api/types/workflow"
	"github.com/termcurator/curate/pkg/utils"
)

var (
	ErrNotFound        = errors.New("not found")
	ErrUnauthenticated = errors.New("wrong user name or password")
	ErrForbidden       = errors.New("forbidden")
	ErrConflict        = errors.New("conflict")
	ErrInvalid         = errors.New("invalid request")
)

// workflow status of worklists, records and concepts
const (
	StatusNew                 = "NEW"
	StatusEditingInProgress   = "EDITING_IN_PROGRESS"
	StatusReviewNew           = "REVIEW_NEW"
	StatusReviewInProgress    = "REVIEW_IN_PROGRESS"
	StatusReadyForPublication = "READY_FOR_PUBLICATION"
)

type account struct {
	user     security.User
	password string
}

type conceptState struct {
	concept content.Concept
	report  string
	log     []string
}

type worklistState struct {
	worklist workflow.Worklist
	log      []string
	records  []workflow.TrackingRecord
}

type binState struct {
	def     workflow.Definition
	rank    int
	cleared bool
	records []workflow.TrackingRecord
}

type configState struct {
	config workflow.Config
	bins   []*binState
}

type projectState struct {
	project    projects.Project
	isDefault  bool
	roles      map[string]projects.Role
	log        []string
	worklists  []*worklistState
	checklists []*worklistState
	configs    []*configState
	concepts   map[int64]*conceptState
	processes  map[int64]string
	steps      map[int64]string
}

// Store is the state of the stub term server.
//
// It is safe for concurrent use.
type Store struct {
	mu       sync.Mutex
	now      func() time.Time
	accounts map[string]*account
	projects []*projectState
	prefId   int64
}

type StoreOption func(*Store) *Store

// WithClock sets the clock used to stamp log lines.
func WithClock(now func() time.Time) StoreOption {
	return func(s *Store) *Store {
		s.now = now
		return s
	}
}

func NewStore(f Fixture, opts ...StoreOption) *Store {
	s := &Store{
		now:      time.Now,
		accounts: map[string]*account{},
	}
	for _, opt := range opts {
		s = opt(s)
	}

	for _, u := range f.Users {
		s.accounts[u.UserName] = &account{
			user: security.User{
				UserName:        u.UserName,
				Name:            u.Name,
				Email:           u.Email,
				ApplicationRole: u.ApplicationRole,
				Team:            u.Team,
			},
			password: u.Password,
		}
	}

	for _, pf := range f.Projects {
		p := &projectState{
			project: projects.Project{
				Id:          pf.Id,
				Name:        pf.Name,
				Description: pf.Description,
				Terminology: pf.Terminology,
				Version:     pf.Version,
			},
			isDefault: pf.Default,
			roles:     map[string]projects.Role{},
			log:       lines(pf.Log),
			concepts:  map[int64]*conceptState{},
			processes: map[int64]string{},
			steps:     map[int64]string{},
		}
		for user, role := range pf.Roles {
			p.roles[user] = projects.Role(strings.ToUpper(role))
		}
		for _, c := range pf.Concepts {
			p.concepts[c.Id] = &conceptState{
				concept: content.Concept{
					Id:             c.Id,
					TerminologyId:  c.TerminologyId,
					Name:           c.Name,
					WorkflowStatus: c.WorkflowStatus,
					Terminology:    pf.Terminology,
					Version:        pf.Version,
				},
				report: c.Report,
				log:    lines(c.Log),
			}
		}
		toRecords := func(rfs []RecordFixture) []workflow.TrackingRecord {
			return utils.Map(rfs, func(r RecordFixture) workflow.TrackingRecord {
				return workflow.TrackingRecord{
					Id:             r.Id,
					ClusterId:      r.ClusterId,
					ClusterType:    r.ClusterType,
					WorkflowStatus: r.WorkflowStatus,
					Concepts: utils.Map(r.Concepts, func(id int64) content.ConceptRef {
						ref := content.ConceptRef{Id: id}
						if c, ok := p.concepts[id]; ok {
							ref.Name = c.concept.Name
						}
						return ref
					}),
				}
			})
		}
		toWorklists := func(wfs []WorklistFixture) []*worklistState {
			return utils.Map(wfs, func(w WorklistFixture) *worklistState {
				return &worklistState{
					worklist: workflow.Worklist{
						Id:             w.Id,
						Name:           w.Name,
						Description:    w.Description,
						WorkflowStatus: w.WorkflowStatus,
						Authors:        w.Authors,
						Reviewers:      w.Reviewers,
						Team:           w.Team,
					},
					log:     lines(w.Log),
					records: toRecords(w.Records),
				}
			})
		}
		p.worklists = toWorklists(pf.Worklists)
		p.checklists = toWorklists(pf.Checklists)

		for _, cf := range pf.Configs {
			c := &configState{
				config: workflow.Config{
					Id: cf.Id, Type: cf.Type, Mutable: cf.Mutable, QueryType: cf.QueryType,
				},
			}
			for _, bf := range cf.Bins {
				c.bins = append(c.bins, &binState{
					def: workflow.Definition{
						Id:          bf.Id,
						Name:        bf.Name,
						Description: bf.Description,
						Query:       bf.Query,
						QueryType:   cf.QueryType,
						Enabled:     bf.Enabled,
						Editable:    bf.Editable,
					},
					rank:    bf.Rank,
					records: toRecords(bf.Records),
				})
			}
			p.configs = append(p.configs, c)
		}
		for id, l := range pf.Processes {
			p.processes[id] = l
		}
		for id, l := range pf.Steps {
			p.steps[id] = l
		}
		s.projects = append(s.projects, p)
	}
	return s
}

func lines(text string) []string {
	text = strings.TrimRight(text, "\n")
	if text == "" {
		return []string{}
	}
	return strings.Split(text, "\n")
}

// stamp formats a log line.
func (s *Store) stamp(who string, format string, args ...any) string {
	return fmt.Sprintf(
		"%s [%s] %s", s.now().UTC().Format(time.RFC3339), who, fmt.Sprintf(format, args...),
	)
}

// project finds a project which who has a role in.
//
// Callers should hold the lock.
func (s *Store) project(who string, projectId int64) (*projectState, projects.Role, error) {
	p, ok := utils.First(s.projects, func(p *projectState) bool { return p.project.Id == projectId })
	if !ok {
		return nil, "", fmt.Errorf("%w: project %d", ErrNotFound, projectId)
	}
	role, ok := p.roles[who]
	if !ok {
		return nil, "", fmt.Errorf("%w: %s has no role in project %d", ErrForbidden, who, projectId)
	}
	return p, role, nil
}

// RoleOptions returns roles a user with the project role can work as, strongest first.
func RoleOptions(role projects.Role) []projects.Role {
	switch role {
	case projects.Admin:
		return []projects.Role{projects.Admin, projects.Reviewer, projects.Author}
	case projects.Reviewer:
		return []projects.Role{projects.Reviewer, projects.Author}
	case projects.Author:
		return []projects.Role{projects.Author}
	default:
		return []projects.Role{}
	}
}

func canWorkAs(role projects.Role, as projects.Role) bool {
	_, ok := utils.First(RoleOptions(role), func(r projects.Role) bool { return r == as })
	return ok
}

// Authenticate checks the password.
//
// The returned user does not have an auth token. It is a business of the server.
func (s *Store) Authenticate(userName string, password string) (security.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.accounts[userName]
	if !ok || a.password != password {
		return security.User{}, ErrUnauthenticated
	}
	return a.user, nil
}

func (s *Store) User(userName string) (security.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.accounts[userName]
	if !ok {
		return security.User{}, fmt.Errorf("%w: user %s", ErrNotFound, userName)
	}
	u := a.user
	if u.Preferences != nil {
		prefs := u.Preferences.Clone()
		u.Preferences = &prefs
	}
	return u, nil
}

// UpdatePreferences replaces preferences of who.
func (s *Store) UpdatePreferences(who string, prefs security.UserPreferences) (security.UserPreferences, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.accounts[who]
	if !ok {
		return security.UserPreferences{}, fmt.Errorf("%w: user %s", ErrNotFound, who)
	}
	if prefs.Id == 0 {
		if a.user.Preferences != nil && a.user.Preferences.Id != 0 {
			prefs.Id = a.user.Preferences.Id
		} else {
			s.prefId += 1
			prefs.Id = s.prefId
		}
	}
	saved := prefs.Clone()
	a.user.Preferences = &saved
	return prefs.Clone(), nil
}

// ProjectsFor returns projects which userName has a role in, in order of id.
func (s *Store) ProjectsFor(userName string) (projects.ProjectList, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.accounts[userName]; !ok {
		return projects.ProjectList{}, fmt.Errorf("%w: user %s", ErrNotFound, userName)
	}

	ret := projects.ProjectList{Projects: []projects.Project{}}
	for _, p := range s.projects {
		if _, ok := p.roles[userName]; !ok {
			continue
		}
		ret.Projects = append(ret.Projects, p.project)
		if p.isDefault && ret.Project == nil {
			def := p.project
			ret.Project = &def
		}
	}
	sort.SliceStable(ret.Projects, func(i, j int) bool { return ret.Projects[i].Id < ret.Projects[j].Id })
	return ret, nil
}

func (s *Store) Role(projectId int64, userName string) (projects.RoleInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, role, err := s.project(userName, projectId)
	if err != nil {
		return projects.RoleInfo{}, err
	}
	return projects.RoleInfo{Role: role, Options: RoleOptions(role)}, nil
}

// Users returns users having a role in the project, in order of name.
func (s *Store) Users(who string, projectId int64) (projects.UserList, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, _, err := s.project(who, projectId)
	if err != nil {
		return projects.UserList{}, err
	}
	users := []security.User{}
	for _, n := range slices.Sorted(maps.Keys(p.roles)) {
		if a, ok := s.accounts[n]; ok {
			u := a.user
			u.Preferences = nil
			users = append(users, u)
		}
	}
	return projects.UserList{Users: users, TotalCount: len(users)}, nil
}

func (s *Store) Concept(who string, projectId int64, conceptId int64) (content.Concept, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.concept(who, projectId, conceptId)
	if err != nil {
		return content.Concept{}, err
	}
	return c.concept, nil
}

func (s *Store) concept(who string, projectId int64, conceptId int64) (*conceptState, error) {
	p, _, err := s.project(who, projectId)
	if err != nil {
		return nil, err
	}
	c, ok := p.concepts[conceptId]
	if !ok {
		return nil, fmt.Errorf("%w: concept %d", ErrNotFound, conceptId)
	}
	return c, nil
}

// Report returns the report of the concept.
//
// Concepts without a report in the fixture get one from their properties.
func (s *Store) Report(who string, projectId int64, conceptId int64) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.concept(who, projectId, conceptId)
	if err != nil {
		return "", err
	}
	if c.report != "" {
		return c.report, nil
	}
	return fmt.Sprintf(
		"%s\n  Id: %s\n  Status: %s",
		c.concept.Name, c.concept.TerminologyId, c.concept.WorkflowStatus,
	), nil
}

// ApproveConcept marks the concept as ready for publication.
//
// A concept which is not edited yet has a warning. It is approved only with overrideWarnings.
func (s *Store) ApproveConcept(
	who string, projectId int64, activityId string, overrideWarnings bool, conceptId int64,
) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.concept(who, projectId, conceptId)
	if err != nil {
		return err
	}
	if c.concept.WorkflowStatus == StatusNew && !overrideWarnings {
		return fmt.Errorf("%w: concept %d is not edited yet", ErrConflict, conceptId)
	}
	c.concept.WorkflowStatus = StatusReadyForPublication
	c.log = append(c.log, s.stamp(who, "approved in %s", activityId))
	return nil
}

// ProjectLog returns the log of the project, or of an object (a concept) in it.
func (s *Store) ProjectLog(who string, projectId int64, objectId string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, _, err := s.project(who, projectId)
	if err != nil {
		return "", err
	}
	if objectId == "" {
		return strings.Join(p.log, "\n"), nil
	}
	id, err := strconv.ParseInt(objectId, 10, 64)
	if err != nil {
		return "", fmt.Errorf("%w: object id %q", ErrInvalid, objectId)
	}
	c, ok := p.concepts[id]
	if !ok {
		return "", fmt.Errorf("%w: object %d", ErrNotFound, id)
	}
	return strings.Join(c.log, "\n"), nil
}

func (s *Store) ProcessLog(who string, projectId int64, processId int64) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, _, err := s.project(who, projectId)
	if err != nil {
		return "", err
	}
	l, ok := p.processes[processId]
	if !ok {
		return "", fmt.Errorf("%w: process %d", ErrNotFound, processId)
	}
	return l, nil
}

func (s *Store) StepLog(who string, projectId int64, stepId int64) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, _, err := s.project(who, projectId)
	if err != nil {
		return "", err
	}
	l, ok := p.steps[stepId]
	if !ok {
		return "", fmt.Errorf("%w: step %d", ErrNotFound, stepId)
	}
	return l, nil
}
