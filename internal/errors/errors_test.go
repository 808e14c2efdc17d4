package errors

import (
	"fmt"
	"testing"
)

func TestFernError_Error(t *testing.T) {
	err := &FernError{
		Code:    ErrNotFound,
		Status:  404,
		Message: "document not found",
	}

	expected := "NOT_FOUND: document not found"
	if err.Error() != expected {
		t.Errorf("Error() = %q, want %q", err.Error(), expected)
	}
}

func TestNewInvalidRequest(t *testing.T) {
	err := NewInvalidRequest("thought is required")

	if err.Code != ErrInvalidRequest {
		t.Errorf("Code = %q, want %q", err.Code, ErrInvalidRequest)
	}
	if err.Status != 400 {
		t.Errorf("Status = %d, want 400", err.Status)
	}
	if err.Message != "thought is required" {
		t.Errorf("Message = %q, want %q", err.Message, "thought is required")
	}
}

func TestNewInvalidCategory(t *testing.T) {
	valid := []string{"people", "projects", "ideas", "admin"}
	err := NewInvalidCategory("tasks", valid)

	if err.Code != ErrInvalidCategory {
		t.Errorf("Code = %q, want %q", err.Code, ErrInvalidCategory)
	}
	if err.Status != 400 {
		t.Errorf("Status = %d, want 400", err.Status)
	}
	if err.Details["category"] != "tasks" {
		t.Errorf("Details[category] = %v, want %q", err.Details["category"], "tasks")
	}
	if got, ok := err.Details["valid"].([]string); !ok || len(got) != 4 {
		t.Errorf("Details[valid] = %v, want %v", err.Details["valid"], valid)
	}
}

func TestNewNoRecentCapture(t *testing.T) {
	err := NewNoRecentCapture("u1")

	if err.Code != ErrNoRecentCapture {
		t.Errorf("Code = %q, want %q", err.Code, ErrNoRecentCapture)
	}
	if err.Status != 404 {
		t.Errorf("Status = %d, want 404", err.Status)
	}
	if err.Details["user"] != "u1" {
		t.Errorf("Details[user] = %v, want %q", err.Details["user"], "u1")
	}
}

func TestNewNotFound(t *testing.T) {
	err := NewNotFound("sarah.capture.md")

	if err.Code != ErrNotFound {
		t.Errorf("Code = %q, want %q", err.Code, ErrNotFound)
	}
	if err.Status != 404 {
		t.Errorf("Status = %d, want 404", err.Status)
	}
	if err.Details["filename"] != "sarah.capture.md" {
		t.Errorf("Details[filename] = %v, want %q", err.Details["filename"], "sarah.capture.md")
	}
}

func TestNewNarrationFailed(t *testing.T) {
	err := NewNarrationFailed("model timed out")

	if err.Code != ErrNarrationFailed {
		t.Errorf("Code = %q, want %q", err.Code, ErrNarrationFailed)
	}
	if err.Status != 502 {
		t.Errorf("Status = %d, want 502", err.Status)
	}
}

func TestNewInternal(t *testing.T) {
	t.Run("with error", func(t *testing.T) {
		err := NewInternal(fmt.Errorf("rename failed"))

		if err.Code != ErrInternal {
			t.Errorf("Code = %q, want %q", err.Code, ErrInternal)
		}
		if err.Status != 500 {
			t.Errorf("Status = %d, want 500", err.Status)
		}
		if err.Message != "rename failed" {
			t.Errorf("Message = %q, want %q", err.Message, "rename failed")
		}
	})

	t.Run("with nil", func(t *testing.T) {
		err := NewInternal(nil)

		if err.Message != "internal error" {
			t.Errorf("Message = %q, want %q", err.Message, "internal error")
		}
	})
}

func TestIs(t *testing.T) {
	t.Run("matching code", func(t *testing.T) {
		err := NewNotFound("x.capture.md")
		if !Is(err, ErrNotFound) {
			t.Error("Is() = false, want true")
		}
	})

	t.Run("non-matching code", func(t *testing.T) {
		err := NewNotFound("x.capture.md")
		if Is(err, ErrInvalidCategory) {
			t.Error("Is() = true, want false")
		}
	})

	t.Run("non-FernError", func(t *testing.T) {
		err := fmt.Errorf("plain error")
		if Is(err, ErrNotFound) {
			t.Error("Is() = true, want false for non-FernError")
		}
	})

	t.Run("wrapped FernError", func(t *testing.T) {
		inner := NewNoRecentCapture("u1")
		wrapped := fmt.Errorf("fix: %w", inner)
		if !Is(wrapped, ErrNoRecentCapture) {
			t.Error("Is() = false, want true for wrapped FernError")
		}
		if Is(wrapped, ErrNotFound) {
			t.Error("Is() = true, want false for wrong code on wrapped FernError")
		}
	})
}
