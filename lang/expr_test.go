package lang

import (
	"errors"
	"path/filepath"
	"slices"
	"testing"

	"github.com/ardnew/ycomp/pkg"
	"github.com/ardnew/ycomp/value"
)

func TestEvaluate(t *testing.T) {
	vars := testVars()

	tests := []struct {
		src  string
		want value.Node
	}{
		{"one + 1", value.Int(2)},
		{"name + '!'", value.String("world!")},
		{"len(list)", value.Int(2)},
		{"VARS.one", value.Int(1)},
		{"upper(name)", value.String("WORLD")},
		{"name | upper", value.String("WORLD")},
		{"'foo_bar' | label", value.String("Foo Bar")},
		{"flag && one == 1", value.Bool(true)},
		{"[1, 2]", value.Seq{value.Int(1), value.Int(2)}},
		{"env('YCOMP_TEST_UNSET_VARIABLE')", value.String("")},
		{"path.cat('a', 'b')", value.String(filepath.Join("a", "b"))},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			got, err := Evaluate(tt.src, vars)
			if err != nil {
				t.Fatalf("Evaluate(%q) error: %v", tt.src, err)
			}

			if !value.Equal(got, tt.want) {
				t.Errorf("Evaluate(%q) = %#v, want %#v", tt.src, got, tt.want)
			}
		})
	}
}

func TestEvaluate_Errors(t *testing.T) {
	tests := []struct {
		src   string
		want  error
		names []string
	}{
		{"1 +", pkg.ErrExprCompile, nil},
		{"'unterminated", pkg.ErrExprCompile, nil},
		{"a + b + a", pkg.ErrUndefined, []string{"a", "b"}},
		{"missing.field", pkg.ErrUndefined, []string{"missing"}},
		{"list[9]", pkg.ErrExprEvaluate, nil},
		// Names must be defined even where they would not be evaluated.
		{"flag || missing", pkg.ErrUndefined, []string{"missing"}},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			_, err := Evaluate(tt.src, testVars())
			if !errors.Is(err, tt.want) {
				t.Fatalf("Evaluate(%q) error = %v, want %v", tt.src, err, tt.want)
			}

			if got := UndefinedNames(err); !slices.Equal(got, tt.names) {
				t.Errorf("UndefinedNames() = %v, want %v", got, tt.names)
			}
		})
	}
}

func TestEnvironment_VariablesShadowBuiltins(t *testing.T) {
	env := Environment(value.MapOf("label", "mine"))

	if env["label"] != "mine" {
		t.Errorf("label = %v, want variable value", env["label"])
	}

	if _, ok := env["dig"]; !ok {
		t.Error("builtin dig missing")
	}

	if _, ok := Environment(nil)["label"].(func(string) string); !ok {
		t.Error("builtin table modified by an earlier environment")
	}

	vars, ok := env[VarsName].(map[string]any)
	if !ok || vars["label"] != "mine" {
		t.Errorf("%s = %v", VarsName, env[VarsName])
	}
}

func TestNormalizePipes(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"x", "x"},
		{"x | label", "x | label()"},
		{"x|label", "x|label()"},
		{"x | default(1)", "x | default(1)"},
		{"x | default (1)", "x | default (1)"},
		{"x | label | upper", "x | label() | upper()"},
		{"a || b", "a || b"},
		{"'a | b'", "'a | b'"},
		{`"it\"s | x" | label`, `"it\"s | x" | label()`},
		{"x | mung.prefix", "x | mung.prefix()"},
	}

	for _, tt := range tests {
		if got := normalizePipes(tt.in); got != tt.want {
			t.Errorf("normalizePipes(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
