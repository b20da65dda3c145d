package cli

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/alecthomas/kong"
)

func flagNamed(name string) *kong.Flag {
	return &kong.Flag{Value: &kong.Value{Name: name}}
}

func loadConfig(t *testing.T, path string) kong.Resolver {
	t.Helper()

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	r, err := resolve(t.Context(), path)(f)
	if err != nil {
		t.Fatalf("loader error = %v", err)
	}

	if err := r.Validate(nil); err != nil {
		t.Fatalf("Validate() = %v", err)
	}

	return r
}

func TestResolve_Flags(t *testing.T) {
	dir := t.TempDir()

	files := map[string]string{
		"log.yaml": "level: debug\nformat: json\n",
		"config.yaml": `
variables:
  width: 4
log: !include log.yaml
indent: !sub "${width}"
max_depth: 8
pretty: false
var-file: [a.yaml, b.yaml]
.hidden: ignored
`,
	}

	for name, src := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(src), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	r := loadConfig(t, filepath.Join(dir, "config.yaml"))

	tests := []struct {
		flag string
		want any
	}{
		{"log-level", "debug"},
		{"log-format", "json"},
		{"indent", "4"},
		{"max-depth", "8"},
		{"pretty", false},
		{"var-file", []any{"a.yaml", "b.yaml"}},
		{"hidden", nil},
		{"missing", nil},
	}

	for _, tt := range tests {
		t.Run(tt.flag, func(t *testing.T) {
			got, err := r.Resolve(nil, nil, flagNamed(tt.flag))
			if err != nil {
				t.Fatalf("Resolve() error = %v", err)
			}

			if list, ok := tt.want.([]any); ok {
				if gl, ok := got.([]any); !ok || !slices.Equal(gl, list) {
					t.Errorf("Resolve(%s) = %#v, want %#v", tt.flag, got, tt.want)
				}

				return
			}

			if got != tt.want {
				t.Errorf("Resolve(%s) = %#v, want %#v", tt.flag, got, tt.want)
			}
		})
	}
}

func TestResolve_UnderscoreKeys(t *testing.T) {
	r := config{"time_layout": "rfc3339"}

	got, err := r.Resolve(nil, nil, flagNamed("time-layout"))
	if err != nil || got != "rfc3339" {
		t.Errorf("Resolve() = %v, %v", got, err)
	}
}

func TestResolve_Invalid(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"syntax error", "a: [1, 2\n"},
		{"not a mapping", "- 1\n- 2\n"},
		{"empty", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := resolve(t.Context(), "config.yaml")(strings.NewReader(tt.src))
			if err != nil {
				t.Fatalf("loader error = %v", err)
			}

			if got, _ := r.Resolve(nil, nil, flagNamed("a")); got != nil {
				t.Errorf("Resolve() = %v, want nil", got)
			}
		})
	}
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("boom") }

func TestResolve_ReadError(t *testing.T) {
	r, err := resolve(t.Context(), "config.yaml")(failingReader{})
	if err != nil {
		t.Fatalf("loader error = %v", err)
	}

	if len(r.(config)) != 0 {
		t.Errorf("config = %v, want empty", r)
	}
}

func TestFlatten(t *testing.T) {
	r, err := resolve(t.Context(), "config.yaml")(strings.NewReader(`
outer:
  inner_key:
    leaf: 1.5
  "null": null
`))
	if err != nil {
		t.Fatal(err)
	}

	cfg := r.(config)

	if got := cfg["outer-inner-key-leaf"]; got != "1.5" {
		t.Errorf("outer-inner-key-leaf = %#v", got)
	}

	if _, ok := cfg["outer-null"]; ok {
		t.Error("null leaf was kept")
	}
}
