package httputil

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	apierrors "github.com/matzehuels/missiongraph/pkg/errors"
)

// MaxBodyBytes bounds request bodies read by [DecodeJSON].
const MaxBodyBytes = 1 << 20

// ErrorBody is the JSON body of an error response.
type ErrorBody struct {
	Code    apierrors.Code `json:"code"`
	Message string         `json:"message"`
}

// WriteJSON writes v as JSON with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

// WriteError writes err as an [ErrorBody] and returns the status used.
func WriteError(w http.ResponseWriter, err error) int {
	status := apierrors.HTTPStatus(err)
	body := ErrorBody{
		Code:    apierrors.GetCode(err),
		Message: apierrors.UserMessage(err),
	}
	if body.Code == "" {
		body.Code = apierrors.ErrCodeInternal
		body.Message = "internal error"
	}
	WriteJSON(w, status, body)
	return status
}

// DecodeJSON decodes the request body into v.
func DecodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, MaxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return apierrors.New(apierrors.ErrCodeInvalidInput, "request body is empty")
		}
		return apierrors.Wrap(apierrors.ErrCodeInvalidInput, err, "invalid request body")
	}
	if dec.More() {
		return apierrors.New(apierrors.ErrCodeInvalidInput, "request body has trailing data")
	}
	return nil
}
