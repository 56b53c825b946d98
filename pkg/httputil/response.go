package httputil

import (
	"encoding/json"
	"net/http"

	errs "github.com/matzehuels/coral/pkg/errors"
)

// ErrorResponse is the JSON body of every failed API request.
type ErrorResponse struct {
	Code    errs.Code `json:"code"`
	Message string    `json:"message"`
}

// Content types used by the API.
const (
	ContentTypeJSON    = "application/json"
	ContentTypeNDJSON  = "application/x-ndjson"
	ContentTypeMsgpack = "application/msgpack"
	ContentTypeSVG     = "image/svg+xml"
	ContentTypeOBJ     = "model/obj"
	ContentTypeDOT     = "text/vnd.graphviz"
)

// WriteJSON writes v as JSON with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", ContentTypeJSON)
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteBytes writes a pre-rendered body with the given content type.
func WriteBytes(w http.ResponseWriter, contentType string, data []byte) {
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// WriteError writes err as an [ErrorResponse].
func WriteError(w http.ResponseWriter, err error) {
	status := StatusFor(err)
	resp := ErrorResponse{Code: errs.GetCode(err), Message: errs.UserMessage(err)}
	if status == http.StatusInternalServerError {
		resp = ErrorResponse{Code: errs.ErrCodeInternal, Message: "internal error"}
	}
	WriteJSON(w, status, resp)
}

// StatusFor maps an error to an HTTP status code.
func StatusFor(err error) int {
	switch {
	case errs.IsInvalid(err):
		return http.StatusBadRequest
	case errs.Is(err, errs.ErrCodeNotFound), errs.Is(err, errs.ErrCodeFileNotFound):
		return http.StatusNotFound
	case errs.Is(err, errs.ErrCodeOverflow):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
