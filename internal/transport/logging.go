package transport

import (
	"bytes"
	"io"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

func (s *HTTPServer) requestLogger(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()

		var body []byte
		req := c.Request()
		if req.Body != nil && (req.Method == http.MethodPost || req.Method == http.MethodPut) {
			body, _ = io.ReadAll(req.Body)
			req.Body = io.NopCloser(bytes.NewReader(body))
		}

		if err := next(c); err != nil {
			c.Error(err)
		}

		fields := []interface{}{
			"method", req.Method,
			"uri", req.RequestURI,
			"status", c.Response().Status,
			"duration", time.Since(start).String(),
			"request_id", c.Response().Header().Get(echo.HeaderXRequestID),
		}
		if len(body) > 0 {
			fields = append(fields, "body", string(censorBody(body)))
		}
		s.logger.Infow("request", fields...)

		return nil
	}
}

// censorBody blanks the password field of a JSON body before it hits
// the logs. Anything that is not a JSON object passes through as is.
func censorBody(body []byte) []byte {
	payload := map[string]interface{}{}
	if err := json.Unmarshal(body, &payload); err != nil {
		return body
	}
	if _, ok := payload["password"]; ok {
		payload["password"] = "$censored"
	}
	censored, err := json.Marshal(payload)
	if err != nil {
		return body
	}
	return censored
}
