package transport

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/labstack/echo/v4"

	"github.com/readnest/library-back/internal/service"
)

// handleError is the single point translating internal failures into
// HTTP responses. Handlers never write error bodies themselves.
func (s *HTTPServer) handleError(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status := http.StatusInternalServerError
	message := "an unexpected error occurred"
	withDetail := true

	httpErr := &echo.HTTPError{}
	pgErr := &pgconn.PgError{}

	switch {
	case errors.As(err, &httpErr):
		status = httpErr.Code
		message = fmt.Sprintf("%v", httpErr.Message)
		withDetail = false
	case service.KindOf(err) == service.KindNotFound:
		status = http.StatusNotFound
		message = err.Error()
		withDetail = false
	case service.KindOf(err) == service.KindConflict,
		service.KindOf(err) == service.KindValidation:
		status = http.StatusBadRequest
		message = err.Error()
		withDetail = false
	case errors.As(err, &pgErr):
		// constraint violation that slipped past the pre-checks
		status = http.StatusBadRequest
		message = "a database error occurred"
	}

	if status >= http.StatusInternalServerError {
		s.logger.Errorw("request failed", "error", err)
	}

	body := map[string]interface{}{"message": message}
	if withDetail && !s.cfg.IsProduction() {
		body["error"] = err.Error()
	}

	var respErr error
	if c.Request().Method == http.MethodHead {
		respErr = c.NoContent(status)
	} else {
		respErr = c.JSON(status, body)
	}
	if respErr != nil {
		s.logger.Errorw("write error response", "error", respErr)
	}
}
