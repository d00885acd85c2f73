package stub

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/termcurator/curate/pkg/api/types/content"
	apierr "github.com/termcurator/curate/pkg/api/types/errors"
	"github.com/termcurator/curate/pkg/api/types/pfs"
	"github.com/termcurator/curate/pkg/api/types/projects"
	"github.com/termcurator/curate/pkg/api/types/security"
	"github.com/termcurator/curate/pkg/api/types/workflow"
)

// asHTTPError translates errors of Store.
func asHTTPError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrNotFound):
		return apierr.NewErrorMessage(http.StatusNotFound, err.Error())
	case errors.Is(err, ErrUnauthenticated):
		return apierr.Unauthorized(err.Error())
	case errors.Is(err, ErrForbidden):
		return apierr.Forbidden(err.Error())
	case errors.Is(err, ErrConflict):
		return apierr.Conflict(err.Error())
	case errors.Is(err, ErrInvalid):
		return apierr.BadRequest(err.Error(), err)
	default:
		return apierr.InternalServerError(err)
	}
}

func int64Of(value string, name string) (int64, error) {
	v, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, apierr.BadRequest(`"`+name+`" should be an integer`, err)
	}
	return v, nil
}

func queryInt64(c echo.Context, name string) (int64, error) {
	return int64Of(c.QueryParam(name), name)
}

func paramInt64(c echo.Context, name string) (int64, error) {
	return int64Of(c.Param(name), name)
}

func queryBool(c echo.Context, name string) (bool, error) {
	v := c.QueryParam(name)
	if v == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, apierr.BadRequest(`"`+name+`" should be true or false`, err)
	}
	return b, nil
}

func projectId(c echo.Context) (int64, error) {
	return queryInt64(c, "projectId")
}

// respond writes v as JSON, or an error.
func respond[T any](c echo.Context, v T, err error) error {
	if err != nil {
		return asHTTPError(err)
	}
	return c.JSON(http.StatusOK, v)
}

func respondText(c echo.Context, text string, err error) error {
	if err != nil {
		return asHTTPError(err)
	}
	return c.String(http.StatusOK, text)
}

func respondDone(c echo.Context, err error) error {
	if err != nil {
		return asHTTPError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func AuthenticateHandler(store *Store, tokens *Tokens, userName string) echo.HandlerFunc {
	return func(c echo.Context) error {
		password, err := io.ReadAll(c.Request().Body)
		if err != nil {
			return apierr.BadRequest("password should be sent as request body", err)
		}
		user, err := store.Authenticate(c.Param(userName), string(password))
		if err != nil {
			return asHTTPError(err)
		}
		token, err := tokens.Issue(user.UserName)
		if err != nil {
			return apierr.InternalServerError(err)
		}
		user.AuthToken = token
		return c.JSON(http.StatusOK, user)
	}
}

func GetUserHandler(store *Store, userName string) echo.HandlerFunc {
	return func(c echo.Context) error {
		u, err := store.User(c.Param(userName))
		return respond(c, u, err)
	}
}

func UpdatePreferencesHandler(store *Store) echo.HandlerFunc {
	return func(c echo.Context) error {
		prefs := security.UserPreferences{}
		if err := c.Bind(&prefs); err != nil {
			return apierr.BadRequest("preferences should be sent as JSON", err)
		}
		saved, err := store.UpdatePreferences(UserName(c), prefs)
		return respond(c, saved, err)
	}
}

func GetProjectsHandler(store *Store, userName string) echo.HandlerFunc {
	return func(c echo.Context) error {
		pl, err := store.ProjectsFor(c.Param(userName))
		return respond(c, pl, err)
	}
}

func GetRoleHandler(store *Store, project string) echo.HandlerFunc {
	return func(c echo.Context) error {
		pid, err := paramInt64(c, project)
		if err != nil {
			return err
		}
		userName := c.QueryParam("userName")
		if userName == "" {
			userName = UserName(c)
		}
		role, err := store.Role(pid, userName)
		return respond(c, role, err)
	}
}

func GetUsersHandler(store *Store, project string) echo.HandlerFunc {
	return func(c echo.Context) error {
		pid, err := paramInt64(c, project)
		if err != nil {
			return err
		}
		ul, err := store.Users(UserName(c), pid)
		return respond(c, ul, err)
	}
}

func GetProjectLogHandler(store *Store, project string) echo.HandlerFunc {
	return func(c echo.Context) error {
		pid, err := paramInt64(c, project)
		if err != nil {
			return err
		}
		l, err := store.ProjectLog(UserName(c), pid, c.QueryParam("objectId"))
		return respondText(c, l, err)
	}
}

func GetConfigsHandler(store *Store) echo.HandlerFunc {
	return func(c echo.Context) error {
		pid, err := projectId(c)
		if err != nil {
			return err
		}
		cl, err := store.Configs(UserName(c), pid)
		return respond(c, cl, err)
	}
}

func RemoveConfigHandler(store *Store, config string) echo.HandlerFunc {
	return func(c echo.Context) error {
		pid, err := projectId(c)
		if err != nil {
			return err
		}
		cid, err := paramInt64(c, config)
		if err != nil {
			return err
		}
		return respondDone(c, store.RemoveConfig(UserName(c), pid, cid))
	}
}

func GetBinsHandler(store *Store) echo.HandlerFunc {
	return func(c echo.Context) error {
		pid, err := projectId(c)
		if err != nil {
			return err
		}
		bl, err := store.Bins(UserName(c), pid, c.QueryParam("type"))
		return respond(c, bl, err)
	}
}

func GetDefinitionHandler(store *Store) echo.HandlerFunc {
	return func(c echo.Context) error {
		pid, err := projectId(c)
		if err != nil {
			return err
		}
		def, err := store.Definition(UserName(c), pid, c.QueryParam("name"), c.QueryParam("type"))
		return respond(c, def, err)
	}
}

func UpdateDefinitionHandler(store *Store) echo.HandlerFunc {
	return func(c echo.Context) error {
		pid, err := projectId(c)
		if err != nil {
			return err
		}
		def := workflow.Definition{}
		if err := c.Bind(&def); err != nil {
			return apierr.BadRequest("definition should be sent as JSON", err)
		}
		return respondDone(c, store.UpdateDefinition(UserName(c), pid, def))
	}
}

func RemoveDefinitionHandler(store *Store, definition string) echo.HandlerFunc {
	return func(c echo.Context) error {
		pid, err := projectId(c)
		if err != nil {
			return err
		}
		did, err := paramInt64(c, definition)
		if err != nil {
			return err
		}
		return respondDone(c, store.RemoveDefinition(UserName(c), pid, did))
	}
}

func RegenerateBinHandler(store *Store, bin string) echo.HandlerFunc {
	return func(c echo.Context) error {
		pid, err := projectId(c)
		if err != nil {
			return err
		}
		bid, err := paramInt64(c, bin)
		if err != nil {
			return err
		}
		return respondDone(c, store.RegenerateBin(UserName(c), pid, bid, c.QueryParam("type")))
	}
}

// BinsHandler handles operations on all bins of a config.
func BinsHandler(store *Store, operation func(s *Store, who string, projectId int64, configType string) error) echo.HandlerFunc {
	return func(c echo.Context) error {
		pid, err := projectId(c)
		if err != nil {
			return err
		}
		return respondDone(c, operation(store, UserName(c), pid, c.QueryParam("type")))
	}
}

func ComputeStatusHandler(store *Store) echo.HandlerFunc {
	return func(c echo.Context) error {
		pid, err := projectId(c)
		if err != nil {
			return err
		}
		update, err := queryBool(c, "update")
		if err != nil {
			return err
		}
		return respondDone(c, store.ComputeStatus(UserName(c), pid, update))
	}
}

func bindParams(c echo.Context) (pfs.Params, error) {
	params := pfs.All()
	if c.Request().ContentLength == 0 {
		return params, nil
	}
	if err := c.Bind(&params); err != nil {
		return pfs.Params{}, apierr.BadRequest(
			"query params should be sent as JSON: {startIndex, maxResults, sortField, ascending, queryRestriction}", err,
		)
	}
	return params, nil
}

func FindWorklistsHandler(store *Store, which string) echo.HandlerFunc {
	return func(c echo.Context) error {
		pid, err := projectId(c)
		if err != nil {
			return err
		}
		params, err := bindParams(c)
		if err != nil {
			return err
		}
		wl, err := store.Worklists(
			UserName(c), pid, which,
			c.QueryParam("userName"), projects.Role(c.QueryParam("userRole")), params,
		)
		return respond(c, wl, err)
	}
}

func FindChecklistsHandler(store *Store) echo.HandlerFunc {
	return func(c echo.Context) error {
		pid, err := projectId(c)
		if err != nil {
			return err
		}
		params, err := bindParams(c)
		if err != nil {
			return err
		}
		cl, err := store.Checklists(UserName(c), pid, c.QueryParam("query"), params)
		return respond(c, cl, err)
	}
}

func FindRecordsHandler(store *Store, of string) echo.HandlerFunc {
	return func(c echo.Context) error {
		pid, err := projectId(c)
		if err != nil {
			return err
		}
		owner, err := queryInt64(c, "id")
		if err != nil {
			return err
		}
		params, err := bindParams(c)
		if err != nil {
			return err
		}
		rl, err := store.Records(UserName(c), pid, of, owner, params)
		return respond(c, rl, err)
	}
}

func PerformActionHandler(store *Store) echo.HandlerFunc {
	return func(c echo.Context) error {
		pid, err := projectId(c)
		if err != nil {
			return err
		}
		wid, err := queryInt64(c, "worklistId")
		if err != nil {
			return err
		}
		action, err := workflow.ParseAction(c.QueryParam("action"))
		if err != nil {
			return apierr.BadRequest(`"action" should be one of FINISH, ASSIGN or UNASSIGN`, err)
		}
		w, err := store.PerformAction(
			UserName(c), pid, wid,
			c.QueryParam("userName"), projects.Role(c.QueryParam("userRole")), action,
		)
		return respond(c, w, err)
	}
}

// GetWorkflowLogHandler responds the log of a worklist or a checklist, whichever id is given.
func GetWorkflowLogHandler(store *Store) echo.HandlerFunc {
	return func(c echo.Context) error {
		pid, err := projectId(c)
		if err != nil {
			return err
		}
		who := UserName(c)
		switch {
		case c.QueryParam("worklistId") != "":
			wid, err := queryInt64(c, "worklistId")
			if err != nil {
				return err
			}
			l, err := store.WorklistLog(who, pid, wid)
			return respondText(c, l, err)
		case c.QueryParam("checklistId") != "":
			cid, err := queryInt64(c, "checklistId")
			if err != nil {
				return err
			}
			l, err := store.ChecklistLog(who, pid, cid)
			return respondText(c, l, err)
		default:
			return apierr.BadRequest(`"worklistId" or "checklistId" is required`, nil)
		}
	}
}

func GetConceptHandler(store *Store, concept string) echo.HandlerFunc {
	return func(c echo.Context) error {
		pid, err := projectId(c)
		if err != nil {
			return err
		}
		cid, err := paramInt64(c, concept)
		if err != nil {
			return err
		}
		found, err := store.Concept(UserName(c), pid, cid)
		return respond(c, found, err)
	}
}

func ApproveConceptHandler(store *Store) echo.HandlerFunc {
	return func(c echo.Context) error {
		pid, err := projectId(c)
		if err != nil {
			return err
		}
		override, err := queryBool(c, "overrideWarnings")
		if err != nil {
			return err
		}
		concept := content.Concept{}
		if err := c.Bind(&concept); err != nil {
			return apierr.BadRequest("concept should be sent as JSON", err)
		}
		return respondDone(c, store.ApproveConcept(
			UserName(c), pid, c.QueryParam("activityId"), override, concept.Id,
		))
	}
}

func GetReportHandler(store *Store, concept string) echo.HandlerFunc {
	return func(c echo.Context) error {
		pid, err := projectId(c)
		if err != nil {
			return err
		}
		cid, err := paramInt64(c, concept)
		if err != nil {
			return err
		}
		r, err := store.Report(UserName(c), pid, cid)
		return respondText(c, r, err)
	}
}

func GetProcessLogHandler(store *Store, project string, process string) echo.HandlerFunc {
	return func(c echo.Context) error {
		pid, err := paramInt64(c, project)
		if err != nil {
			return err
		}
		id, err := paramInt64(c, process)
		if err != nil {
			return err
		}
		l, err := store.ProcessLog(UserName(c), pid, id)
		return respondText(c, l, err)
	}
}

func GetStepLogHandler(store *Store, project string, step string) echo.HandlerFunc {
	return func(c echo.Context) error {
		pid, err := paramInt64(c, project)
		if err != nil {
			return err
		}
		id, err := paramInt64(c, step)
		if err != nil {
			return err
		}
		l, err := store.StepLog(UserName(c), pid, id)
		return respondText(c, l, err)
	}
}
