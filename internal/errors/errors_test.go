package errors

import (
	"errors"
	"testing"
)

func TestDomainError(t *testing.T) {
	t.Run("New", func(t *testing.T) {
		err := New(CodeLoaderUnavailable, "no live server handle")
		if err.Error() != "[LOADER_UNAVAILABLE] no live server handle" {
			t.Errorf("expected [LOADER_UNAVAILABLE] no live server handle, got %s", err.Error())
		}
	})

	t.Run("Wrap", func(t *testing.T) {
		original := errors.New("original error")
		err := Wrap(original, CodeInternal, "internal failure")
		expected := "[INTERNAL_ERROR] internal failure: original error"
		if err.Error() != expected {
			t.Errorf("expected %s, got %s", expected, err.Error())
		}
	})

	t.Run("Newf", func(t *testing.T) {
		err := Newf(CodeInvalidTokenExport, "module %s did not export an object", "/root/tokens.ts")
		if err.Error() != "[INVALID_TOKEN_EXPORT] module /root/tokens.ts did not export an object" {
			t.Errorf("unexpected message: %s", err.Error())
		}
	})

	t.Run("IsCode", func(t *testing.T) {
		err := New(CodeValidationError, "invalid input")
		if !IsCode(err, CodeValidationError) {
			t.Error("expected IsCode to return true for CodeValidationError")
		}
		if IsCode(err, CodeNotFound) {
			t.Error("expected IsCode to return false for CodeNotFound")
		}
	})

	t.Run("IsCodeWithWrapped", func(t *testing.T) {
		original := errors.New("original error")
		err := Wrap(original, CodeInternal, "internal failure")
		if !IsCode(err, CodeInternal) {
			t.Error("expected IsCode to return true for wrapped CodeInternal")
		}
	})

	t.Run("AddContext", func(t *testing.T) {
		err := New(CodeNotFound, "entry module not found")
		err = AddContext(err, CtxPath, "/root/project/tokens.ts")
		var de *DomainError
		if !errors.As(err, &de) {
			t.Fatal("expected DomainError")
		}
		if de.Context[CtxPath] != "/root/project/tokens.ts" {
			t.Errorf("context not attached: %v", de.Context)
		}
	})
}
