package echoutil

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
)

// HeaderRequestId is the header carrying the id curate gives each request.
const HeaderRequestId = "X-Request-Id"

// LogHandlerFunc logs each request and its response, tagged with the request id.
//
// Requests without an id get a new one. The id is echoed back in the response header.
func LogHandlerFunc(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		req := c.Request()
		reqId := req.Header.Get(HeaderRequestId)
		if reqId == "" {
			reqId = uuid.NewString()
		}
		c.Response().Header().Set(HeaderRequestId, reqId)

		since := time.Now()
		c.Logger().Infof("< request [%s] %s %s", reqId, req.Method, req.URL)

		err := next(c)

		c.Logger().Infof(
			"> response [%s] %s %s: status = %d in %v / error = %v",
			reqId, req.Method, req.URL, c.Response().Status, time.Since(since), err,
		)
		return err
	}
}

var levels = map[string]log.Lvl{
	"debug": log.DEBUG,
	"info":  log.INFO,
	"warn":  log.WARN,
	"":      log.WARN,
	"error": log.ERROR,
	"off":   log.OFF,
}

// SetLevel sets the log level of e by name: debug, info, warn (default), error or off.
func SetLevel(e *echo.Echo, loglevel string) {
	lvl, ok := levels[strings.ToLower(loglevel)]
	if !ok {
		e.Logger.SetLevel(log.WARN)
		e.Logger.Warnf("unknown loglevel: %s . fall-backed to warn", loglevel)
		return
	}
	e.Logger.SetLevel(lvl)
}
