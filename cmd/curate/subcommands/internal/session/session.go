// Package session prepares controller views for one-shot commands.
//
// A view is driven synchronously with controller.Drive: when a function here
// returns, every fetch it caused has been applied to the view.
package session

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/termcurator/curate/cmd/curate/env"
	krest "github.com/termcurator/curate/cmd/curate/rest"
	"github.com/termcurator/curate/cmd/curate/subcommands/common"
	"github.com/termcurator/curate/pkg/api/types/workflow"
	"github.com/termcurator/curate/pkg/controller"
	"github.com/termcurator/curate/pkg/paging"
	"github.com/termcurator/curate/pkg/selection"
	"github.com/youta-t/flarc"
)

var ErrView = errors.New("request failed")
var ErrWorklistNotFound = errors.New("worklist not found")
var ErrRecordNotFound = errors.New("record not found")
var ErrConfigNotFound = errors.New("workflow config not found")
var ErrBinNotFound = errors.New("bin not found")

// ParseId parses s as an id given as name.
func ParseId(name string, s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s should be a number: %s", flarc.ErrUsage, name, s)
	}
	return id, nil
}

// Check turns errors accumulated in a view into an error.
func Check(errs []string) error {
	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w:\n%s", ErrView, strings.Join(errs, "\n"))
}

type viewOptions struct {
	mode    *selection.WorklistMode
	options []controller.Option
}

type Option func(*viewOptions) *viewOptions

// WithMode overrides the worklist mode given by curateenv.
func WithMode(mode selection.WorklistMode) Option {
	return func(vo *viewOptions) *viewOptions {
		vo.mode = &mode
		return vo
	}
}

// WithControllerOption passes opt to the view.
func WithControllerOption(opt controller.Option) Option {
	return func(vo *viewOptions) *viewOptions {
		vo.options = append(vo.options, opt)
		return vo
	}
}

func build(logger *log.Logger, e env.CurateEnv, opts []Option) []controller.Option {
	vo := &viewOptions{}
	for _, o := range opts {
		vo = o(vo)
	}
	ret := []controller.Option{controller.WithLogger(logger)}
	ret = append(ret, e.ControllerOptions()...)
	if vo.mode != nil {
		ret = append(ret, controller.WithWorklistMode(*vo.mode))
	}
	return append(ret, vo.options...)
}

// Edit returns an EditView in the project, with worklists of the first page loaded.
func Edit(
	ctx context.Context,
	logger *log.Logger,
	e env.CurateEnv,
	client krest.CurateClient,
	who common.Identity,
	project string,
	opts ...Option,
) (*controller.EditView, error) {
	user, err := client.GetUser(ctx, who.UserName)
	if err != nil {
		return nil, err
	}
	p, err := common.ResolveProject(ctx, client, who.UserName, project, e)
	if err != nil {
		return nil, err
	}

	v := controller.NewEditView(client, user, build(logger, e, opts)...)
	if err := controller.Drive(ctx, v, v.SelectProject(p)); err != nil {
		return nil, err
	}
	if err := Check(v.Errors()); err != nil {
		return nil, err
	}
	return v, nil
}

// Workflow returns a WorkflowView in the project, with configs and bins loaded.
func Workflow(
	ctx context.Context,
	logger *log.Logger,
	e env.CurateEnv,
	client krest.CurateClient,
	who common.Identity,
	project string,
	opts ...Option,
) (*controller.WorkflowView, error) {
	user, err := client.GetUser(ctx, who.UserName)
	if err != nil {
		return nil, err
	}
	p, err := common.ResolveProject(ctx, client, who.UserName, project, e)
	if err != nil {
		return nil, err
	}

	v := controller.NewWorkflowView(client, user, build(logger, e, opts)...)
	if err := controller.Drive(ctx, v, v.SelectProject(p)); err != nil {
		return nil, err
	}
	if err := Check(v.Errors()); err != nil {
		return nil, err
	}
	return v, nil
}

// FindWorklist pages through worklists of v until one with id is found.
//
// The page with the worklist stays loaded in v.
func FindWorklist(ctx context.Context, v *controller.EditView, id int64) (workflow.Worklist, error) {
	for {
		for _, w := range v.Worklists().Items {
			if w.Id == id {
				return w, nil
			}
		}
		if !v.Worklists().HasMore(v.WorklistPaging()) {
			return workflow.Worklist{}, fmt.Errorf(
				"%w: %d in %s worklists", ErrWorklistNotFound, id, v.Selection().WorklistMode,
			)
		}
		if err := drive(ctx, v, v.SetWorklistPaging(v.WorklistPaging().Next())); err != nil {
			return workflow.Worklist{}, err
		}
	}
}

// OpenWorklist returns an EditView with the worklist selected and the first page of its records loaded.
func OpenWorklist(
	ctx context.Context,
	logger *log.Logger,
	e env.CurateEnv,
	client krest.CurateClient,
	who common.Identity,
	project string,
	worklistId int64,
	opts ...Option,
) (*controller.EditView, error) {
	v, err := Edit(ctx, logger, e, client, who, project, opts...)
	if err != nil {
		return nil, err
	}
	w, err := FindWorklist(ctx, v, worklistId)
	if err != nil {
		return nil, err
	}
	if err := drive(ctx, v, v.SelectWorklist(w, false)); err != nil {
		return nil, err
	}
	return v, nil
}

// SelectConfig selects the workflow config of configType in v.
//
// Empty configType keeps the config selected.
func SelectConfig(ctx context.Context, v *controller.WorkflowView, configType string) (workflow.Config, error) {
	if configType == "" {
		if c := v.Selection().Config; c != nil {
			return *c, nil
		}
		return workflow.Config{}, fmt.Errorf("%w: the project has no workflow configs", ErrConfigNotFound)
	}
	types := []string{}
	for _, c := range v.Configs() {
		if strings.EqualFold(c.Type, configType) {
			if err := drive(ctx, v, v.SelectConfig(c)); err != nil {
				return workflow.Config{}, err
			}
			return c, nil
		}
		types = append(types, c.Type)
	}
	return workflow.Config{}, fmt.Errorf("%w: %s (known: %s)", ErrConfigNotFound, configType, strings.Join(types, ", "))
}

// FindBin returns the bin named name among bins offered in v.
func FindBin(v *controller.WorkflowView, name string) (workflow.Bin, error) {
	names := []string{}
	for _, b := range v.Bins() {
		if b.Name == name {
			return b, nil
		}
		names = append(names, b.Name)
	}
	msg := name
	if s := common.Suggest(name, names); len(s) != 0 {
		msg += fmt.Sprintf(". Did you mean: %s?", strings.Join(s, ", "))
	}
	return workflow.Bin{}, fmt.Errorf("%w: %s", ErrBinNotFound, msg)
}

// FindRecord pages through records of the selected worklist until one with id is found.
func FindRecord(ctx context.Context, v *controller.EditView, id int64) (workflow.TrackingRecord, error) {
	for {
		for _, r := range v.Records().Items {
			if r.Id == id {
				return r, nil
			}
		}
		if !v.Records().HasMore(v.RecordPaging()) {
			return workflow.TrackingRecord{}, fmt.Errorf("%w: %d", ErrRecordNotFound, id)
		}
		if err := drive(ctx, v, v.SetRecordPaging(v.RecordPaging().Next())); err != nil {
			return workflow.TrackingRecord{}, err
		}
	}
}

// drive runs cmd on v and reports errors the view accumulated meanwhile.
func drive(ctx context.Context, v interface {
	controller.Model
	Errors() []string
	ClearErrors()
}, cmd controller.Cmd) error {
	v.ClearErrors()
	if err := controller.Drive(ctx, v, cmd); err != nil {
		return err
	}
	return Check(v.Errors())
}

// Drive runs cmd on the edit view and reports errors it accumulated meanwhile.
func Drive(ctx context.Context, v *controller.EditView, cmd controller.Cmd) error {
	return drive(ctx, v, cmd)
}

// DriveWorkflow runs cmd on the workflow view and reports errors it accumulated meanwhile.
func DriveWorkflow(ctx context.Context, v *controller.WorkflowView, cmd controller.Cmd) error {
	return drive(ctx, v, cmd)
}

// PagingFlags are flags of list commands.
type PagingFlags struct {
	Page       int
	PageSize   int
	Sort       string
	Desc       bool
	Filter     string
	TypeFilter string
}

// Apply overwrites s with the flags given.
func (pf PagingFlags) Apply(s paging.State) paging.State {
	if pf.Sort != "" || pf.Desc {
		field := pf.Sort
		if field == "" {
			field = s.SortField
		}
		s = s.WithSort(field, !pf.Desc)
	}
	if pf.Filter != "" {
		s = s.WithFilter(pf.Filter)
	}
	if pf.TypeFilter != "" {
		s = s.WithTypeFilter(strings.ToUpper(pf.TypeFilter))
	}
	if 0 < pf.PageSize {
		s = s.WithPageSize(pf.PageSize)
	}
	if 1 < pf.Page {
		s = s.WithPage(pf.Page)
	}
	return s
}
