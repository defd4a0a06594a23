package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/lumenlearn/lumen-backend/internal/apperr"
)

func respond(t *testing.T, err error) (int, ErrorEnvelope) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	RespondError(c, err)

	var env ErrorEnvelope
	if jerr := json.Unmarshal(w.Body.Bytes(), &env); jerr != nil {
		t.Fatalf("decoding envelope: %v", jerr)
	}
	return w.Code, env
}

func TestRespondErrorBadRequestEchoesMessage(t *testing.T) {
	code, env := respond(t, apperr.New(apperr.KindBadRequest, "text required"))
	if code != http.StatusBadRequest {
		t.Fatalf("status=%d, want 400", code)
	}
	if env.Error.Kind != string(apperr.KindBadRequest) {
		t.Fatalf("kind=%q", env.Error.Kind)
	}
	if env.Error.Message != "text required" {
		t.Fatalf("message=%q, want the caller's message", env.Error.Message)
	}
}

func TestRespondErrorMasksInternalDetail(t *testing.T) {
	code, env := respond(t, apperr.Wrap(apperr.KindInternal, errors.New(`pq: relation "chunks" does not exist`)))
	if code != http.StatusInternalServerError {
		t.Fatalf("status=%d, want 500", code)
	}
	if env.Error.Message != "internal error" {
		t.Fatalf("message=%q, want generic internal error", env.Error.Message)
	}
	if strings.Contains(env.Error.Message, "pq:") {
		t.Fatal("database detail leaked to the client")
	}
}

func TestRespondErrorMasksUntaggedErrors(t *testing.T) {
	code, env := respond(t, errors.New("dial tcp 10.0.0.3:5432: connect: connection refused"))
	if code != http.StatusInternalServerError {
		t.Fatalf("status=%d, want 500", code)
	}
	if env.Error.Kind != string(apperr.KindInternal) {
		t.Fatalf("kind=%q, want InternalError", env.Error.Kind)
	}
	if env.Error.Message != "internal error" {
		t.Fatalf("message=%q, want generic internal error", env.Error.Message)
	}
}

func TestRespondErrorConstraintViolationStatus(t *testing.T) {
	code, _ := respond(t, apperr.New(apperr.KindConstraintViolation, "summary exceeds cap"))
	if code != http.StatusUnprocessableEntity {
		t.Fatalf("status=%d, want 422", code)
	}
}
