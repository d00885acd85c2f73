package controller

import (
	"context"
	"log"
)

// LogType is the kind of object whose log is shown.
type LogType string

const (
	LogWorklist   LogType = "Worklist"
	LogChecklist  LogType = "Checklist"
	LogProcess    LogType = "Process"
	LogStep       LogType = "Step"
	LogProject    LogType = "Project"
	LogConcept    LogType = "Concept"
	LogDescriptor LogType = "Descriptor"
	LogCode       LogType = "Code"
)

// LogTypes lists known LogTypes.
func LogTypes() []LogType {
	return []LogType{
		LogWorklist, LogChecklist, LogProcess, LogStep,
		LogProject, LogConcept, LogDescriptor, LogCode,
	}
}

// LogTarget points the object whose log is shown.
//
// Which field is used depends on LogType.
type LogTarget struct {
	ProjectId int64

	// worklist id for LogWorklist, or checklist id for LogChecklist.
	WorklistId int64

	ProcessId int64
	StepId    int64

	// component id for LogConcept, LogDescriptor and LogCode.
	ObjectId string
}

type LogLoaded struct {
	Token Token
	Log   string
	Err   error
}

// LogDialog shows a log of a worklist, checklist, process, step, project or component.
type LogDialog struct {
	svc    LogService
	logger *log.Logger
	typ    LogType
	target LogTarget

	log    string
	errs   Errors
	tokens *tokens
}

func NewLogDialog(svc LogService, typ LogType, target LogTarget, opts ...Option) *LogDialog {
	o := buildOptions(opts)
	return &LogDialog{
		svc:    svc,
		logger: o.logger,
		typ:    typ,
		target: target,
		errs:   Errors{logger: o.logger},
		tokens: newTokens(),
	}
}

func (d *LogDialog) Type() LogType { return d.typ }
func (d *LogDialog) Log() string { return d.log }
func (d *LogDialog) Errors() []string { return d.errs.List() }

// Load fetches the log.
//
// If the type is unknown, an error is appended to the dialog and nothing is fetched.
func (d *LogDialog) Load() Cmd {
	svc := d.svc
	t := d.target

	var fetch func(ctx context.Context) (string, error)
	switch d.typ {
	case LogWorklist:
		fetch = func(ctx context.Context) (string, error) {
			return svc.GetWorklistLog(ctx, t.ProjectId, t.WorklistId)
		}
	case LogChecklist:
		fetch = func(ctx context.Context) (string, error) {
			return svc.GetChecklistLog(ctx, t.ProjectId, t.WorklistId)
		}
	case LogProcess:
		fetch = func(ctx context.Context) (string, error) {
			return svc.GetProcessLog(ctx, t.ProjectId, t.ProcessId)
		}
	case LogStep:
		fetch = func(ctx context.Context) (string, error) {
			return svc.GetStepLog(ctx, t.ProjectId, t.StepId)
		}
	case LogProject:
		fetch = func(ctx context.Context) (string, error) {
			return svc.GetProjectLog(ctx, t.ProjectId, "")
		}
	case LogConcept, LogDescriptor, LogCode:
		fetch = func(ctx context.Context) (string, error) {
			return svc.GetProjectLog(ctx, t.ProjectId, t.ObjectId)
		}
	default:
		d.errs.Addf("Invalid type passed to log dialog - %s", d.typ)
		return nil
	}

	tok := d.tokens.issue(ListLog)
	return func(ctx context.Context) Msg {
		l, err := fetch(ctx)
		return LogLoaded{Token: tok, Log: l, Err: err}
	}
}

func (d *LogDialog) Update(msg Msg) Cmd {
	switch m := msg.(type) {
	case LogLoaded:
		if !d.tokens.accept(m.Token) {
			return nil
		}
		if m.Err != nil {
			d.errs.Add(m.Err)
			return nil
		}
		d.log = m.Log
	}
	return nil
}
