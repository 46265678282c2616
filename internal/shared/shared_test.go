package shared

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		name string
		ms   int
		want string
	}{
		{name: "zero", ms: 0, want: "0:00"},
		{name: "under a minute", ms: 45000, want: "0:45"},
		{name: "exact minutes", ms: 180000, want: "3:00"},
		{name: "minutes and seconds", ms: 213000, want: "3:33"},
		{name: "over ten minutes", ms: 725000, want: "12:05"},
		{name: "sub-second truncates", ms: 999, want: "0:00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatDuration(tt.ms); got != tt.want {
				t.Errorf("FormatDuration(%d) = %q, want %q", tt.ms, got, tt.want)
			}
		})
	}
}

func TestMarshalJSON(t *testing.T) {
	data := map[string]string{"key": "value"}

	t.Run("pretty output is indented", func(t *testing.T) {
		out, err := MarshalJSON(data, true)
		if err != nil {
			t.Fatalf("MarshalJSON() error = %v", err)
		}
		if !strings.Contains(string(out), "\n  \"key\": \"value\"") {
			t.Errorf("expected indented output, got %s", out)
		}
	})

	t.Run("compact output has no whitespace", func(t *testing.T) {
		out, err := MarshalJSON(data, false)
		if err != nil {
			t.Fatalf("MarshalJSON() error = %v", err)
		}
		if string(out) != `{"key":"value"}` {
			t.Errorf("got %s", out)
		}
	})
}

func TestGenerateState(t *testing.T) {
	a, err := GenerateState()
	if err != nil {
		t.Fatalf("GenerateState() error = %v", err)
	}
	b, err := GenerateState()
	if err != nil {
		t.Fatalf("GenerateState() error = %v", err)
	}

	if len(a) != 32 {
		t.Errorf("state length = %d, want 32 hex chars", len(a))
	}
	if a == b {
		t.Error("expected distinct state tokens")
	}
}

func TestNewLogger(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := NewLogger(buf)

	logger.Info("hello", "key", "value")

	out := buf.String()
	if !strings.Contains(out, "hello") || !strings.Contains(out, "key=value") {
		t.Errorf("unexpected log output: %s", out)
	}
}

func TestAPIError(t *testing.T) {
	t.Run("wraps the taxonomy sentinel", func(t *testing.T) {
		err := NewAPIError(ErrValidation, 422, "bad payload", nil)

		if !errors.Is(err, ErrValidation) {
			t.Error("expected errors.Is match on sentinel")
		}
		if got := err.Error(); !strings.Contains(got, "bad payload") {
			t.Errorf("Error() = %q, want upstream message", got)
		}
	})

	t.Run("message-less error falls back to the sentinel text", func(t *testing.T) {
		err := NewAPIError(ErrUpstream, 500, "", nil)

		if err.Error() != ErrUpstream.Error() {
			t.Errorf("Error() = %q", err.Error())
		}
	})

	t.Run("AsAPIError extracts through wrapping", func(t *testing.T) {
		inner := NewAPIError(ErrUnauthorized, 401, "token expired", nil)
		wrapped := fmt.Errorf("whoami: %w", inner)

		apiErr, ok := AsAPIError(wrapped)
		if !ok {
			t.Fatal("expected extraction to succeed")
		}
		if apiErr.Status != 401 {
			t.Errorf("Status = %d", apiErr.Status)
		}
	})

	t.Run("AsAPIError rejects plain errors", func(t *testing.T) {
		if _, ok := AsAPIError(errors.New("plain")); ok {
			t.Error("expected extraction to fail")
		}
	})

	t.Run("FieldSummary joins field messages", func(t *testing.T) {
		err := NewAPIError(ErrValidation, 422, "invalid", []FieldError{
			{Field: "email", Message: "not a valid address"},
			{Field: "password", Message: "too short"},
		})

		got := err.FieldSummary()
		want := "email: not a valid address; password: too short"
		if got != want {
			t.Errorf("FieldSummary() = %q, want %q", got, want)
		}
	})

	t.Run("FieldSummary without fields returns the message", func(t *testing.T) {
		err := NewAPIError(ErrValidation, 422, "invalid", nil)
		if err.FieldSummary() != "invalid" {
			t.Errorf("FieldSummary() = %q", err.FieldSummary())
		}
	})
}

func TestIsCancelled(t *testing.T) {
	if !IsCancelled(fmt.Errorf("fetch: %w", ErrCancelled)) {
		t.Error("wrapped cancellation not detected")
	}
	if IsCancelled(ErrTimeout) {
		t.Error("timeout misreported as cancellation")
	}
}
