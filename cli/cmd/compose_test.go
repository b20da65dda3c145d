package cmd

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ardnew/ycomp/document"
	"github.com/ardnew/ycomp/pkg"
	"github.com/ardnew/ycomp/value"
)

func writeFile(t *testing.T, dir, name, src string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}

	return path
}

func newCompose(file string) *Compose {
	return &Compose{
		Options: Options{File: file, MaxDepth: 64},
		Format:  "yaml",
		Indent:  2,
		Output:  "-",
	}
}

func TestCompose_Run(t *testing.T) {
	dir := t.TempDir()

	writeFile(t, dir, "vars.yaml", "greeting: Hello\nname: nobody\n")
	writeFile(t, dir, "templates.yaml", "sig: !sub \"-- ${who}\"\n")
	writeFile(t, dir, "child.yaml", "msg: !sub \"${greeting}, ${name}\"\n")
	main := writeFile(t, dir, "main.yaml", `
included: !include child.yaml
count: !sub "${count + 1}"
footer: !insert sig?who=me
`)

	tests := []struct {
		name   string
		format string
		want   string
	}{
		{"yaml", "yaml", "included:\n  msg: Hello, World\ncount: 42\nfooter: -- me\n"},
		{"json", "json", "{\n  \"included\": {\n    \"msg\": \"Hello, World\"\n  },\n  \"count\": 42,\n  \"footer\": \"-- me\"\n}\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer

			c := newCompose(main)
			c.Format = tt.format
			c.VarsFile = []string{filepath.Join(dir, "vars.yaml")}
			c.TemplatesFile = []string{filepath.Join(dir, "templates.yaml")}
			c.Vars = map[string]string{"name": "World", "count": "41"}
			c.stdout, c.stderr = &stdout, &stderr

			if err := c.Run(t.Context()); err != nil {
				t.Fatalf("Run() error = %v", err)
			}

			got, err := document.Parse("got", stdout.Bytes())
			if err != nil {
				t.Fatalf("output does not parse: %v\n%s", err, stdout.String())
			}

			want, err := document.Parse("want", []byte(tt.want))
			if err != nil {
				t.Fatal(err)
			}

			if !value.Equal(got, want) {
				t.Errorf("output =\n%s\nwant\n%s", stdout.String(), tt.want)
			}

			if stderr.Len() != 0 {
				t.Errorf("unexpected report:\n%s", stderr.String())
			}
		})
	}
}

func TestCompose_OutputFile(t *testing.T) {
	dir := t.TempDir()
	main := writeFile(t, dir, "main.yaml", "a: 1\n")
	out := filepath.Join(dir, "out.yaml")

	c := newCompose(main)
	c.Output = out
	c.stdout, c.stderr = new(bytes.Buffer), new(bytes.Buffer)

	if err := c.Run(t.Context()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}

	if strings.TrimSpace(string(data)) != "a: 1" {
		t.Errorf("output file = %q", data)
	}
}

type closeFailure struct {
	bytes.Buffer
}

func (*closeFailure) Close() error { return errors.New("disk full") }

func TestCompose_OutputCloseError(t *testing.T) {
	dir := t.TempDir()
	main := writeFile(t, dir, "main.yaml", "a: 1\n")

	var out closeFailure

	c := newCompose(main)
	c.Output = filepath.Join(dir, "out.yaml")
	c.stderr = new(bytes.Buffer)
	c.create = func(string) (io.WriteCloser, error) { return &out, nil }

	err := c.Run(t.Context())
	if !errors.Is(err, pkg.ErrWriteOutput) {
		t.Fatalf("Run() error = %v, want %v", err, pkg.ErrWriteOutput)
	}

	if strings.TrimSpace(out.String()) != "a: 1" {
		t.Errorf("output = %q", out.String())
	}
}

func TestCompose_ReportsWarnings(t *testing.T) {
	dir := t.TempDir()
	main := writeFile(t, dir, "main.yaml", "a: !sub \"${nme}\"\nb: !include nope.yaml\n")

	var stdout, stderr bytes.Buffer

	c := newCompose(main)
	c.Vars = map[string]string{"name": "x"}
	c.stdout, c.stderr = &stdout, &stderr

	if err := c.Run(t.Context()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	report := stderr.String()

	for _, want := range []string{
		"main.yaml:1:",
		"undefined variable",
		"did you mean 'name'?",
		"include failed",
		"2 warnings",
	} {
		if !strings.Contains(report, want) {
			t.Errorf("report missing %q:\n%s", want, report)
		}
	}

	got, err := document.Parse("got", stdout.Bytes())
	if err != nil {
		t.Fatal(err)
	}

	if want := value.MapOf("a", "${nme}"); !value.Equal(got, want) {
		t.Errorf("output = %q", stdout.String())
	}
}

func TestCompose_Errors(t *testing.T) {
	dir := t.TempDir()
	main := writeFile(t, dir, "main.yaml", "a: 1\n")
	list := writeFile(t, dir, "list.yaml", "[1, 2]\n")

	tests := []struct {
		name  string
		setup func(c *Compose)
	}{
		{"missing document", func(c *Compose) { c.File = filepath.Join(dir, "missing.yaml") }},
		{"bad format", func(c *Compose) { c.Format = "toml" }},
		{"vars not a mapping", func(c *Compose) { c.VarsFile = []string{list} }},
		{"templates not a mapping", func(c *Compose) { c.TemplatesFile = []string{list} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newCompose(main)
			c.stdout, c.stderr = new(bytes.Buffer), new(bytes.Buffer)
			tt.setup(c)

			if err := c.Run(t.Context()); err == nil {
				t.Error("Run() succeeded")
			}
		})
	}
}

func TestCheck_Run(t *testing.T) {
	dir := t.TempDir()
	clean := writeFile(t, dir, "clean.yaml", "a: !sub \"${1 + 1}\"\n")
	dirty := writeFile(t, dir, "dirty.yaml", "a: !if {then: 1}\n")

	var stderr bytes.Buffer

	c := &Check{Options: Options{File: clean, MaxDepth: 64}, stderr: &stderr}
	if err := c.Run(t.Context()); err != nil {
		t.Errorf("clean document: %v", err)
	}

	c.File = dirty

	err := c.Run(t.Context())
	if !errors.Is(err, ErrWarnings) {
		t.Errorf("dirty document: error = %v, want %v", err, ErrWarnings)
	}

	if !strings.Contains(stderr.String(), "1 warning") {
		t.Errorf("report =\n%s", stderr.String())
	}
}
