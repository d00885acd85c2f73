package stub

import (
	"net/url"
	"path"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/termcurator/curate/pkg/utils/echoutil"
)

type serverOption struct {
	apiRoot  string
	logLevel string
}

type ServerOption func(*serverOption) *serverOption

// WithApiRoot sets the path under which routes are served. Default is "/term-server-rest".
func WithApiRoot(root string) ServerOption {
	return func(so *serverOption) *serverOption {
		so.apiRoot = root
		return so
	}
}

// WithLogLevel sets the log level of the server. See [echoutil.SetLevel].
func WithLogLevel(level string) ServerOption {
	return func(so *serverOption) *serverOption {
		so.logLevel = level
		return so
	}
}

// New builds a term server serving store.
//
// Every route but authentication requires a token issued by tokens.
func New(store *Store, tokens *Tokens, opts ...ServerOption) *echo.Echo {
	so := &serverOption{apiRoot: DefaultApiRoot}
	for _, opt := range opts {
		so = opt(so)
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	echoutil.SetLevel(e, so.logLevel)
	e.HTTPErrorHandler = func(err error, ctx echo.Context) {
		e.DefaultHTTPErrorHandler(err, ctx)
		e.Logger.Error(err)
	}
	e.Use(echoutil.LogHandlerFunc)

	api := root(so.apiRoot)

	e.POST(api("security/authenticate/:userName"), AuthenticateHandler(store, tokens, "userName"))

	g := e.Group("", tokens.Authenticated)
	{
		g.GET(api("security/user/name/:userName"), GetUserHandler(store, "userName"))
		g.POST(api("security/user/preferences/update"), UpdatePreferencesHandler(store))
	}
	{
		g.GET(api("project/user/:userName/projects"), GetProjectsHandler(store, "userName"))
		g.GET(api("project/:projectId/role"), GetRoleHandler(store, "projectId"))
		g.GET(api("project/:projectId/users"), GetUsersHandler(store, "projectId"))
		g.GET(api("project/:projectId/log"), GetProjectLogHandler(store, "projectId"))
	}
	{
		g.GET(api("workflow/config/all"), GetConfigsHandler(store))
		g.POST(api("workflow/config/:configId/remove"), RemoveConfigHandler(store, "configId"))
		g.GET(api("workflow/bins"), GetBinsHandler(store))
		g.POST(api("workflow/bins/clear"), BinsHandler(store, (*Store).ClearBins))
		g.POST(api("workflow/bins/regenerate"), BinsHandler(store, (*Store).RegenerateBins))
		g.POST(api("workflow/bin/:binId/regenerate"), RegenerateBinHandler(store, "binId"))
		g.GET(api("workflow/definition"), GetDefinitionHandler(store))
		g.POST(api("workflow/definition/update"), UpdateDefinitionHandler(store))
		g.POST(api("workflow/definition/:definitionId/remove"), RemoveDefinitionHandler(store, "definitionId"))
		g.POST(api("workflow/status/compute"), ComputeStatusHandler(store))
	}
	{
		g.POST(api("workflow/worklists/available"), FindWorklistsHandler(store, "available"))
		g.POST(api("workflow/worklists/assigned"), FindWorklistsHandler(store, "assigned"))
		g.POST(api("workflow/checklists"), FindChecklistsHandler(store))
		g.POST(api("workflow/records/worklist"), FindRecordsHandler(store, "worklist"))
		g.POST(api("workflow/records/checklist"), FindRecordsHandler(store, "checklist"))
		g.POST(api("workflow/records/bin"), FindRecordsHandler(store, "bin"))
		g.POST(api("workflow/action"), PerformActionHandler(store))
		g.GET(api("workflow/log"), GetWorkflowLogHandler(store))
	}
	{
		g.GET(api("content/concept/:conceptId"), GetConceptHandler(store, "conceptId"))
		g.POST(api("meta/concept/approve"), ApproveConceptHandler(store))
		g.GET(api("report/concept/:conceptId"), GetReportHandler(store, "conceptId"))
		g.GET(api("process/:projectId/:processId/log"), GetProcessLogHandler(store, "projectId", "processId"))
		g.GET(api("process/:projectId/step/:stepId/log"), GetStepLogHandler(store, "projectId", "stepId"))
	}

	return e
}

// create api path factory
//
// args:
//   - r: api root. Only the path part is used when it is an URL.
//
// return:
// - func: it receive relative path from root, and returns full-path.
func root(r string) func(string) string {
	base := r
	if u, err := url.Parse(r); err == nil {
		base = u.Path
	}
	base = "/" + strings.Trim(base, "/")
	return func(s string) string {
		return path.Join(base, s)
	}
}
