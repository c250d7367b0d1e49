package httpapi

import (
	"net/http"

	"github.com/Harshan-Nayak/xlist/pkg/logging"
	"github.com/Harshan-Nayak/xlist/pkg/types"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	goerrors "github.com/goliatone/go-errors"
)

type envelope struct {
	Data any `json:"data"`
}

type errorBody struct {
	Error errorPayload `json:"error"`
}

type errorPayload struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"requestId,omitempty"`
}

func writeData(w http.ResponseWriter, r *http.Request, status int, data any) {
	render.Status(r, status)
	render.JSON(w, r, envelope{Data: data})
}

func writeFailure(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	render.Status(r, status)
	render.JSON(w, r, errorBody{Error: errorPayload{
		Code:      code,
		Message:   message,
		RequestID: middleware.GetReqID(r.Context()),
	}})
}

// writeError maps classified errors to HTTP. Details of internal failures
// stay in the logs.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, code, message := describeError(err)
	if status >= http.StatusInternalServerError {
		logging.Ctx(r.Context()).Error().Err(err).Str("code", code).Msg("request failed")
	}
	writeFailure(w, r, status, code, message)
}

func describeError(err error) (int, string, string) {
	var rich *goerrors.Error
	if !goerrors.As(err, &rich) {
		return http.StatusInternalServerError, "INTERNAL", "internal error"
	}
	switch rich.TextCode {
	case types.TextCodeInvalidInput:
		return http.StatusBadRequest, rich.TextCode, rich.Message
	case types.TextCodeProfileExists:
		return http.StatusConflict, rich.TextCode, rich.Message
	case types.TextCodeNotOwner:
		return http.StatusForbidden, rich.TextCode, rich.Message
	case types.TextCodeNotFound:
		return http.StatusNotFound, rich.TextCode, rich.Message
	case types.TextCodeStoreTimeout:
		return http.StatusGatewayTimeout, rich.TextCode, "the store did not answer in time"
	case types.TextCodeReadFailed, types.TextCodeWriteFailed:
		return http.StatusInternalServerError, rich.TextCode, rich.Message
	}
	switch rich.Category {
	case goerrors.CategoryValidation:
		return http.StatusBadRequest, "INVALID_INPUT", rich.Message
	case goerrors.CategoryNotFound:
		return http.StatusNotFound, "NOT_FOUND", rich.Message
	case goerrors.CategoryAuthz:
		return http.StatusForbidden, "FORBIDDEN", rich.Message
	}
	return http.StatusInternalServerError, "INTERNAL", "internal error"
}
