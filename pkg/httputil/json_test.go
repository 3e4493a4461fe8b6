package httputil

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	apierrors "github.com/matzehuels/missiongraph/pkg/errors"
)

func TestWriteError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   apierrors.Code
		wantMsg    string
	}{
		{"self", apierrors.New(apierrors.ErrCodeSelfDependency, "task %q cannot depend on itself", "a"), 400, apierrors.ErrCodeSelfDependency, `task "a" cannot depend on itself`},
		{"missing", apierrors.New(apierrors.ErrCodeMissionNotFound, "mission gone"), 404, apierrors.ErrCodeMissionNotFound, "mission gone"},
		{"confirm", apierrors.New(apierrors.ErrCodeConfirmationRequired, "confirm"), 409, apierrors.ErrCodeConfirmationRequired, "confirm"},
		{"store", apierrors.New(apierrors.ErrCodeStoreUnavailable, "down"), 503, apierrors.ErrCodeStoreUnavailable, "down"},
		{"plain", errors.New("secret connection string"), 500, apierrors.ErrCodeInternal, "internal error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			if got := WriteError(rec, tt.err); got != tt.wantStatus {
				t.Errorf("WriteError() = %d, want %d", got, tt.wantStatus)
			}
			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			var body ErrorBody
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("decode body: %v", err)
			}
			if body.Code != tt.wantCode || body.Message != tt.wantMsg {
				t.Errorf("body = %+v, want {%s %s}", body, tt.wantCode, tt.wantMsg)
			}
		})
	}
}

func TestWriteJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteJSON(rec, http.StatusAccepted, map[string]string{"status": "accepted"})

	if rec.Code != http.StatusAccepted {
		t.Errorf("status = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}
	if !strings.Contains(rec.Body.String(), `"status": "accepted"`) {
		t.Errorf("body = %s", rec.Body.String())
	}
}

func TestDecodeJSON(t *testing.T) {
	type payload struct {
		Source string `json:"source"`
	}

	tests := []struct {
		name    string
		body    string
		wantErr bool
	}{
		{"valid", `{"source": "a"}`, false},
		{"empty", ``, true},
		{"unknown field", `{"source": "a", "extra": 1}`, true},
		{"trailing", `{"source": "a"} {"source": "b"}`, true},
		{"malformed", `{"source":`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			var p payload
			err := DecodeJSON(r, &p)
			if (err != nil) != tt.wantErr {
				t.Fatalf("DecodeJSON() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !apierrors.Is(err, apierrors.ErrCodeInvalidInput) {
				t.Errorf("DecodeJSON() code = %q, want INVALID_INPUT", apierrors.GetCode(err))
			}
			if err == nil && p.Source != "a" {
				t.Errorf("Source = %q, want a", p.Source)
			}
		})
	}
}
