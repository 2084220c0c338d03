package responses

import (
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"

	pkgerrors "github.com/merchdrop/storefront-gateway/pkg/errors"
	"github.com/merchdrop/storefront-gateway/pkg/types"
)

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) types.ErrorEnvelope {
	t.Helper()
	var env types.ErrorEnvelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode error envelope: %v", err)
	}
	return env
}

func TestWriteSuccessEnvelope(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	WriteSuccess(rec, map[string]string{"status": "ok"})

	if rec.Code != 200 {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var env struct {
		Data map[string]string `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if env.Data["status"] != "ok" {
		t.Fatalf("unexpected payload %+v", env.Data)
	}
}

func TestWriteErrorPassesUserCorrectableMessage(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	WriteError(context.Background(), nil, rec, pkgerrors.New(pkgerrors.CodeForbidden, "only fan accounts can place orders"))

	if rec.Code != 403 {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
	env := decodeError(t, rec)
	if env.Error.Message != "only fan accounts can place orders" {
		t.Fatalf("expected message passthrough, got %q", env.Error.Message)
	}
}

func TestWriteErrorHidesInternalDetail(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	WriteError(context.Background(), nil, rec, pkgerrors.Wrap(pkgerrors.CodeInternal, errors.New("pool exhausted"), "db down"))

	if rec.Code != 500 {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	env := decodeError(t, rec)
	if env.Error.Message == "db down" || env.Error.Message == "pool exhausted" {
		t.Fatalf("internal detail leaked: %q", env.Error.Message)
	}
}

func TestWriteErrorUntypedBecomesInternal(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	WriteError(context.Background(), nil, rec, errors.New("boom"))
	if rec.Code != 500 {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	env := decodeError(t, rec)
	if env.Error.Code != string(pkgerrors.CodeInternal) {
		t.Fatalf("expected internal code, got %q", env.Error.Code)
	}
}

func TestWriteErrorIncludesValidationDetails(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	err := pkgerrors.New(pkgerrors.CodeValidation, "validation failed").
		WithDetails(map[string]string{"email": "must be a valid email"})
	WriteError(context.Background(), nil, rec, err)

	env := decodeError(t, rec)
	details, ok := env.Error.Details.(map[string]any)
	if !ok || details["email"] != "must be a valid email" {
		t.Fatalf("expected details, got %+v", env.Error.Details)
	}
}
