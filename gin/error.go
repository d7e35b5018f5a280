package gin

import (
	"context"
	"errors"
	"net/http"

	"github.com/fwojciec/postpdf"
	"github.com/gin-gonic/gin"
)

// StatusClientClosedRequest is the non-standard status recorded when the
// client disconnects before the response is ready.
const StatusClientClosedRequest = 499

// codes maps application error codes to HTTP status codes.
var codes = map[string]int{
	postpdf.EINVALID:    http.StatusBadRequest,
	postpdf.EINVALIDURL: http.StatusBadRequest,
	postpdf.ESHAPE:      http.StatusBadRequest,
	postpdf.ETIMEOUT:    http.StatusGatewayTimeout,
	postpdf.ELAUNCH:     http.StatusServiceUnavailable,
	postpdf.ENOTFOUND:   http.StatusUnprocessableEntity,
	postpdf.ERENDER:     http.StatusInternalServerError,
	postpdf.EINTERNAL:   http.StatusInternalServerError,
}

// ErrorStatusCode returns the HTTP status for an application error code.
func ErrorStatusCode(code string) int {
	if v, ok := codes[code]; ok {
		return v
	}
	return http.StatusInternalServerError
}

type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
}

// Error writes err as a JSON error response. Internal errors are attached
// to the context for the request logger and hidden from the client.
func (s *Server) Error(c *gin.Context, err error) {
	if errors.Is(err, context.Canceled) && c.Request.Context().Err() != nil {
		c.AbortWithStatus(StatusClientClosedRequest)
		return
	}

	code, message := postpdf.ErrorCode(err), postpdf.ErrorMessage(err)
	if code == postpdf.EINTERNAL || code == postpdf.ERENDER {
		_ = c.Error(err)
	}

	c.AbortWithStatusJSON(ErrorStatusCode(code), errorResponse{
		Success: false,
		Error:   message,
		Code:    code,
	})
}
