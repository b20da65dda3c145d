package pkg

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestName(t *testing.T) {
	expected := "ycomp"
	if Name != expected {
		t.Errorf("Expected Name to be %q, got %q", expected, Name)
	}
}

func TestVersion(t *testing.T) {
	buf, err := os.ReadFile("VERSION")
	if err != nil {
		t.Fatalf("Failed to read VERSION file: %v", err)
	}

	if content := strings.TrimSpace(string(buf)); Version != content {
		t.Errorf("Expected Version to be %q, got %q", content, Version)
	}
}

func TestAuthor(t *testing.T) {
	if len(Author) == 0 {
		t.Error("Expected Author to have at least one entry")
	}
}

func TestConfigPath(t *testing.T) {
	got := ConfigPath("config.yaml")
	if filepath.Dir(got) != ConfigDir() {
		t.Errorf("ConfigPath dir = %q, want %q", filepath.Dir(got), ConfigDir())
	}

	if filepath.Base(ConfigDir()) != Prefix() {
		t.Errorf("ConfigDir base = %q, want %q", filepath.Base(ConfigDir()), Prefix())
	}
}

func TestError_Message(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{"message only", NewError("boom"), "boom"},
		{"wrapped", NewError("boom").Wrap(errors.New("cause")), "boom: cause"},
		{"cause only", WrapError(errors.New("cause")), "cause"},
		{"empty", &Error{}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestError_IsSentinel(t *testing.T) {
	cause := os.ErrNotExist
	err := ErrReadInput.Wrap(cause).With(slog.String("file", "a.yaml"))

	if !errors.Is(err, ErrReadInput) {
		t.Error("expected derived error to match its sentinel")
	}

	if !errors.Is(err, os.ErrNotExist) {
		t.Error("expected derived error to match its cause")
	}

	if errors.Is(err, ErrParse) {
		t.Error("derived error matched an unrelated sentinel")
	}

	if WrapError(err) != err {
		t.Error("WrapError should return an existing *Error unchanged")
	}
}

func TestError_WithIsImmutable(t *testing.T) {
	base := NewError("base").With(slog.Int("a", 1))
	derived := base.With(slog.Int("b", 2))

	if len(base.Attrs()) != 1 {
		t.Errorf("base attrs mutated: %v", base.Attrs())
	}

	if len(derived.Attrs()) != 2 {
		t.Errorf("derived attrs = %v, want 2 entries", derived.Attrs())
	}

	v := derived.LogValue()
	if v.Kind() != slog.KindGroup {
		t.Fatalf("LogValue kind = %v, want group", v.Kind())
	}

	if n := len(v.Group()); n != 3 {
		t.Errorf("LogValue group has %d attrs, want 3", n)
	}
}
