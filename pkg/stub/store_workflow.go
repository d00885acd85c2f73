package stub

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/termcurator/curate/pkg/api/types/content"
	"github.com/termcurator/curate/pkg/api/types/pfs"
	"github.com/termcurator/curate/pkg/api/types/projects"
	"github.com/termcurator/curate/pkg/api/types/workflow"
	"github.com/termcurator/curate/pkg/utils"
)

func worklistRow(w *worklistState) row {
	return row{
		"id":             strconv.FormatInt(w.worklist.Id, 10),
		"name":           w.worklist.Name,
		"description":    w.worklist.Description,
		"workflowStatus": w.worklist.WorkflowStatus,
		"authors":        w.worklist.JoinedAuthors(),
		"reviewers":      w.worklist.JoinedReviewers(),
		"team":           w.worklist.Team,
	}
}

func recordRow(r workflow.TrackingRecord) row {
	return row{
		"id":             strconv.FormatInt(r.Id, 10),
		"clusterId":      strconv.FormatInt(r.ClusterId, 10),
		"clusterType":    r.ClusterType,
		"workflowStatus": r.WorkflowStatus,
		"concepts": strings.Join(
			utils.Map(r.Concepts, func(c content.ConceptRef) string { return c.Name }), " ",
		),
	}
}

func (p *projectState) config(configType string) (*configState, error) {
	c, ok := utils.First(p.configs, func(c *configState) bool {
		return strings.EqualFold(c.config.Type, configType)
	})
	if !ok {
		return nil, fmt.Errorf("%w: workflow config %s", ErrNotFound, configType)
	}
	return c, nil
}

func (p *projectState) bin(binId int64) (*configState, *binState, error) {
	for _, c := range p.configs {
		if b, ok := utils.First(c.bins, func(b *binState) bool { return b.def.Id == binId }); ok {
			return c, b, nil
		}
	}
	return nil, nil, fmt.Errorf("%w: bin %d", ErrNotFound, binId)
}

func (p *projectState) worklist(worklistId int64) (*worklistState, error) {
	w, ok := utils.First(p.worklists, func(w *worklistState) bool { return w.worklist.Id == worklistId })
	if !ok {
		return nil, fmt.Errorf("%w: worklist %d", ErrNotFound, worklistId)
	}
	return w, nil
}

func (p *projectState) checklist(checklistId int64) (*worklistState, error) {
	c, ok := utils.First(p.checklists, func(c *worklistState) bool { return c.worklist.Id == checklistId })
	if !ok {
		return nil, fmt.Errorf("%w: checklist %d", ErrNotFound, checklistId)
	}
	return c, nil
}

func requireAdmin(role projects.Role, what string) error {
	if role != projects.Admin {
		return fmt.Errorf("%w: only ADMIN can %s", ErrForbidden, what)
	}
	return nil
}

func (s *Store) Configs(who string, projectId int64) (workflow.ConfigList, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, _, err := s.project(who, projectId)
	if err != nil {
		return workflow.ConfigList{}, err
	}
	return workflow.ConfigList{
		Configs: utils.Map(p.configs, func(c *configState) workflow.Config { return c.config }),
	}, nil
}

func (s *Store) RemoveConfig(who string, projectId int64, configId int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, role, err := s.project(who, projectId)
	if err != nil {
		return err
	}
	if err := requireAdmin(role, "remove workflow configs"); err != nil {
		return err
	}
	i := utils.IndexOf(p.configs, func(c *configState) bool { return c.config.Id == configId })
	if i < 0 {
		return fmt.Errorf("%w: workflow config %d", ErrNotFound, configId)
	}
	p.log = append(p.log, s.stamp(who, "workflow config %s is removed", p.configs[i].config.Type))
	p.configs = append(p.configs[:i:i], p.configs[i+1:]...)
	return nil
}

// Bins returns bins of the config in order of rank.
//
// Bins which are cleared or disabled count no clusters.
func (s *Store) Bins(who string, projectId int64, configType string) (workflow.BinList, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, _, err := s.project(who, projectId)
	if err != nil {
		return workflow.BinList{}, err
	}
	c, err := p.config(configType)
	if err != nil {
		return workflow.BinList{}, err
	}

	bins := utils.Map(c.bins, func(b *binState) workflow.Bin {
		ct := 0
		if !b.cleared && b.def.Enabled {
			clusters := map[int64]struct{}{}
			for _, r := range b.records {
				clusters[r.ClusterId] = struct{}{}
			}
			ct = len(clusters)
		}
		return workflow.Bin{
			Id:        b.def.Id,
			Name:      b.def.Name,
			Type:      c.config.Type,
			Enabled:   b.def.Enabled,
			Editable:  b.def.Editable,
			ClusterCt: ct,
			Rank:      b.rank,
		}
	})
	sort.SliceStable(bins, func(i, j int) bool { return bins[i].Rank < bins[j].Rank })
	return workflow.BinList{Bins: bins, TotalCount: len(bins)}, nil
}

func (s *Store) Definition(who string, projectId int64, name string, configType string) (workflow.Definition, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, _, err := s.project(who, projectId)
	if err != nil {
		return workflow.Definition{}, err
	}
	c, err := p.config(configType)
	if err != nil {
		return workflow.Definition{}, err
	}
	b, ok := utils.First(c.bins, func(b *binState) bool { return b.def.Name == name })
	if !ok {
		return workflow.Definition{}, fmt.Errorf("%w: definition of bin %s", ErrNotFound, name)
	}
	return b.def, nil
}

// UpdateDefinition overwrites the definition having the same id.
//
// Definitions not editable can be updated only by ADMIN.
func (s *Store) UpdateDefinition(who string, projectId int64, def workflow.Definition) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, role, err := s.project(who, projectId)
	if err != nil {
		return err
	}
	if def.Name == "" {
		return fmt.Errorf("%w: definition without name", ErrInvalid)
	}
	_, b, err := p.bin(def.Id)
	if err != nil {
		return err
	}
	if !b.def.Editable {
		if err := requireAdmin(role, "update definitions not editable"); err != nil {
			return err
		}
	}
	def.QueryType = b.def.QueryType
	b.def = def
	p.log = append(p.log, s.stamp(who, "definition of bin %s is updated (enabled = %t)", def.Name, def.Enabled))
	return nil
}

func (s *Store) RemoveDefinition(who string, projectId int64, definitionId int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, role, err := s.project(who, projectId)
	if err != nil {
		return err
	}
	if err := requireAdmin(role, "remove definitions"); err != nil {
		return err
	}
	c, b, err := p.bin(definitionId)
	if err != nil {
		return err
	}
	c.bins = utils.Filter(c.bins, func(other *binState) bool { return other != b })
	p.log = append(p.log, s.stamp(who, "bin %s is removed", b.def.Name))
	return nil
}

func (s *Store) RegenerateBin(who string, projectId int64, binId int64, configType string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, _, err := s.project(who, projectId)
	if err != nil {
		return err
	}
	c, b, err := p.bin(binId)
	if err != nil {
		return err
	}
	if !strings.EqualFold(c.config.Type, configType) {
		return fmt.Errorf("%w: bin %d is not in %s", ErrNotFound, binId, configType)
	}
	b.cleared = false
	p.log = append(p.log, s.stamp(who, "bin %s is regenerated", b.def.Name))
	return nil
}

func (s *Store) ClearBins(who string, projectId int64, configType string) error {
	return s.setCleared(who, projectId, configType, true)
}

func (s *Store) RegenerateBins(who string, projectId int64, configType string) error {
	return s.setCleared(who, projectId, configType, false)
}

func (s *Store) setCleared(who string, projectId int64, configType string, cleared bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, _, err := s.project(who, projectId)
	if err != nil {
		return err
	}
	c, err := p.config(configType)
	if err != nil {
		return err
	}
	for _, b := range c.bins {
		b.cleared = cleared
	}
	verb := "regenerated"
	if cleared {
		verb = "cleared"
	}
	p.log = append(p.log, s.stamp(who, "%s bins are %s", c.config.Type, verb))
	return nil
}

// ComputeStatus derives the status of worklist records from their concepts.
//
// A record all of whose concepts are ready for publication is ready too.
// The result is logged in the project log, and applied only when update is true.
func (s *Store) ComputeStatus(who string, projectId int64, update bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, _, err := s.project(who, projectId)
	if err != nil {
		return err
	}

	changed := 0
	for _, w := range p.worklists {
		for i, r := range w.records {
			if r.WorkflowStatus == StatusReadyForPublication || len(r.Concepts) == 0 {
				continue
			}
			ready := true
			for _, ref := range r.Concepts {
				if c, ok := p.concepts[ref.Id]; !ok || c.concept.WorkflowStatus != StatusReadyForPublication {
					ready = false
					break
				}
			}
			if !ready {
				continue
			}
			changed += 1
			if update {
				w.records[i].WorkflowStatus = StatusReadyForPublication
			}
		}
	}
	p.log = append(p.log, s.stamp(who, "concept status is computed: %d records to change (update = %t)", changed, update))
	return nil
}

func isAuthorAssigned(w workflow.Worklist, userName string) bool {
	if w.WorkflowStatus != StatusNew && w.WorkflowStatus != StatusEditingInProgress && w.WorkflowStatus != "" {
		return false
	}
	_, ok := utils.First(w.Authors, func(a string) bool { return a == userName })
	return ok
}

func isReviewerAssigned(w workflow.Worklist, userName string) bool {
	if w.WorkflowStatus != StatusReviewNew && w.WorkflowStatus != StatusReviewInProgress {
		return false
	}
	_, ok := utils.First(w.Reviewers, func(r string) bool { return r == userName })
	return ok
}

func isAuthorAvailable(w workflow.Worklist) bool {
	return len(w.Authors) == 0 && (w.WorkflowStatus == StatusNew || w.WorkflowStatus == "")
}

func isReviewerAvailable(w workflow.Worklist) bool {
	return len(w.Reviewers) == 0 && w.WorkflowStatus == StatusReviewNew
}

func assignedTo(userName string, role projects.Role) func(*worklistState) bool {
	return func(w *worklistState) bool {
		switch role {
		case projects.Author:
			return isAuthorAssigned(w.worklist, userName)
		case projects.Reviewer:
			return isReviewerAssigned(w.worklist, userName)
		case projects.Admin:
			return isAuthorAssigned(w.worklist, userName) || isReviewerAssigned(w.worklist, userName)
		}
		return false
	}
}

func availableFor(role projects.Role) func(*worklistState) bool {
	return func(w *worklistState) bool {
		switch role {
		case projects.Author:
			return isAuthorAvailable(w.worklist)
		case projects.Reviewer:
			return isReviewerAvailable(w.worklist)
		case projects.Admin:
			return isAuthorAvailable(w.worklist) || isReviewerAvailable(w.worklist)
		}
		return false
	}
}

// Worklists finds worklists which are assigned to or available for the user working as role.
//
// which is "assigned" or "available".
func (s *Store) Worklists(
	who string, projectId int64, which string, userName string, role projects.Role, params pfs.Params,
) (workflow.WorklistList, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, projectRole, err := s.project(who, projectId)
	if err != nil {
		return workflow.WorklistList{}, err
	}
	if !canWorkAs(projectRole, role) {
		return workflow.WorklistList{}, fmt.Errorf("%w: %s cannot work as %s", ErrForbidden, who, role)
	}

	var pred func(*worklistState) bool
	switch which {
	case "assigned":
		pred = assignedTo(userName, role)
	case "available":
		pred = availableFor(role)
	default:
		return workflow.WorklistList{}, fmt.Errorf("%w: worklists %s", ErrNotFound, which)
	}

	hits, total := query(utils.Filter(p.worklists, pred), worklistRow, params)
	return workflow.WorklistList{
		Worklists:  utils.Map(hits, func(w *worklistState) workflow.Worklist { return w.worklist }),
		TotalCount: total,
	}, nil
}

// Checklists finds checklists matching both of q and the restriction of params.
func (s *Store) Checklists(who string, projectId int64, q string, params pfs.Params) (workflow.ChecklistList, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, _, err := s.project(who, projectId)
	if err != nil {
		return workflow.ChecklistList{}, err
	}
	terms := parseQuery(q)
	lists := utils.Filter(p.checklists, func(c *worklistState) bool { return matchAll(terms, worklistRow(c)) })

	hits, total := query(lists, worklistRow, params)
	return workflow.ChecklistList{
		Checklists: utils.Map(hits, func(c *worklistState) workflow.Worklist { return c.worklist }),
		TotalCount: total,
	}, nil
}

// Records finds records of a worklist, a checklist or a bin.
//
// of is "worklist", "checklist" or "bin". Bins cleared or disabled have no records.
func (s *Store) Records(who string, projectId int64, of string, ownerId int64, params pfs.Params) (workflow.RecordList, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, _, err := s.project(who, projectId)
	if err != nil {
		return workflow.RecordList{}, err
	}

	var records []workflow.TrackingRecord
	switch of {
	case "worklist":
		w, err := p.worklist(ownerId)
		if err != nil {
			return workflow.RecordList{}, err
		}
		records = w.records
	case "checklist":
		c, err := p.checklist(ownerId)
		if err != nil {
			return workflow.RecordList{}, err
		}
		records = c.records
	case "bin":
		_, b, err := p.bin(ownerId)
		if err != nil {
			return workflow.RecordList{}, err
		}
		if !b.cleared && b.def.Enabled {
			records = b.records
		}
	default:
		return workflow.RecordList{}, fmt.Errorf("%w: records of %s", ErrNotFound, of)
	}

	hits, total := query(records, recordRow, params)
	return workflow.RecordList{Records: hits, TotalCount: total}, nil
}

// PerformAction changes editors and status of the worklist.
//
//   - ASSIGN adds userName to authors (or reviewers, when role is REVIEWER) of an available worklist.
//   - UNASSIGN removes users from them. userName may be names separated by spaces.
//   - FINISH passes the worklist to review, or to publication when it is reviewed.
func (s *Store) PerformAction(
	who string, projectId int64, worklistId int64, userName string, role projects.Role, action workflow.Action,
) (workflow.Worklist, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, projectRole, err := s.project(who, projectId)
	if err != nil {
		return workflow.Worklist{}, err
	}
	if !canWorkAs(projectRole, role) {
		return workflow.Worklist{}, fmt.Errorf("%w: %s cannot work as %s", ErrForbidden, who, role)
	}
	w, err := p.worklist(worklistId)
	if err != nil {
		return workflow.Worklist{}, err
	}
	reviewing := role == projects.Reviewer ||
		(role == projects.Admin && w.worklist.WorkflowStatus == StatusReviewNew)

	wl := &w.worklist
	switch action {
	case workflow.Assign:
		if reviewing {
			if !isReviewerAvailable(*wl) {
				return workflow.Worklist{}, fmt.Errorf("%w: worklist %d is not available for review", ErrConflict, worklistId)
			}
			wl.Reviewers = []string{userName}
			wl.WorkflowStatus = StatusReviewInProgress
		} else {
			if !isAuthorAvailable(*wl) {
				return workflow.Worklist{}, fmt.Errorf("%w: worklist %d is not available", ErrConflict, worklistId)
			}
			wl.Authors = []string{userName}
			wl.WorkflowStatus = StatusEditingInProgress
		}
	case workflow.Unassign:
		names := strings.Fields(userName)
		if len(names) == 0 {
			return workflow.Worklist{}, fmt.Errorf("%w: no users to unassign", ErrInvalid)
		}
		unassigned := func(n string) bool {
			_, ok := utils.First(names, func(m string) bool { return m == n })
			return !ok
		}
		if reviewing {
			wl.Reviewers = utils.Filter(wl.Reviewers, unassigned)
			if len(wl.Reviewers) == 0 {
				wl.WorkflowStatus = StatusReviewNew
			}
		} else {
			wl.Authors = utils.Filter(wl.Authors, unassigned)
			if len(wl.Authors) == 0 {
				wl.WorkflowStatus = StatusNew
			}
		}
	case workflow.Finish:
		switch wl.WorkflowStatus {
		case StatusEditingInProgress:
			wl.WorkflowStatus = StatusReviewNew
		case StatusReviewInProgress:
			wl.WorkflowStatus = StatusReadyForPublication
		default:
			return workflow.Worklist{}, fmt.Errorf(
				"%w: worklist %d in %s cannot be finished", ErrConflict, worklistId, wl.WorkflowStatus,
			)
		}
	default:
		return workflow.Worklist{}, fmt.Errorf("%w: unknown action %q", ErrInvalid, action)
	}

	w.log = append(w.log, s.stamp(who, "%s %s as %s", action, userName, role))
	return *wl, nil
}

func (s *Store) WorklistLog(who string, projectId int64, worklistId int64) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, _, err := s.project(who, projectId)
	if err != nil {
		return "", err
	}
	w, err := p.worklist(worklistId)
	if err != nil {
		return "", err
	}
	return strings.Join(w.log, "\n"), nil
}

func (s *Store) ChecklistLog(who string, projectId int64, checklistId int64) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, _, err := s.project(who, projectId)
	if err != nil {
		return "", err
	}
	c, err := p.checklist(checklistId)
	if err != nil {
		return "", err
	}
	return strings.Join(c.log, "\n"), nil
}
