package handler

import (
	"net/http"

	"github.com/rbenali/kahina/internal/domain"
	"github.com/rbenali/kahina/internal/middleware"
)

// ErrorCodeToHTTPStatus maps domain error codes to HTTP status codes.
func ErrorCodeToHTTPStatus(code string) int {
	switch code {
	case domain.EINVALID:
		return http.StatusBadRequest
	case domain.ENOTFOUND:
		return http.StatusNotFound
	case domain.ECONFLICT:
		return http.StatusConflict
	case domain.EUNAVAILABLE:
		return http.StatusServiceUnavailable
	case domain.ENOTIMPL:
		return http.StatusNotImplemented
	case domain.EINTERNAL:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// errorBody is the JSON error envelope.
type errorBody struct {
	Error struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Fields  map[string]string `json:"fields,omitempty"`
	} `json:"error"`
}

// ErrorResponse writes err as a JSON error response. Validation errors become
// 422 with the field-error map; domain errors map through their code; anything
// else is a 500 with a generic message. Internal errors are logged with the
// operation before the details are hidden from the client.
func ErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	if fields := domain.GetValidationFields(err); fields != nil {
		ValidationResponse(w, fields)
		return
	}

	code := domain.ErrorCode(err)
	status := ErrorCodeToHTTPStatus(code)

	if status >= 500 {
		middleware.GetLogger(r.Context()).Error("request failed",
			"op", domain.ErrorOp(err),
			"code", code,
			"error", err,
		)
	}

	var body errorBody
	body.Error.Code = code
	body.Error.Message = domain.ErrorMessage(err)
	respondJSON(w, status, body)
}

// ValidationResponse writes a 422 with the field-error map. Submission must
// not proceed while this map is non-empty; the client renders the errors next
// to their fields.
func ValidationResponse(w http.ResponseWriter, fields map[string]string) {
	var body errorBody
	body.Error.Code = domain.EINVALID
	body.Error.Message = "Please correct the highlighted fields"
	body.Error.Fields = fields
	respondJSON(w, http.StatusUnprocessableEntity, body)
}
