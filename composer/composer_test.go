package composer

import (
	"io"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"testing"

	"github.com/ardnew/ycomp/document"
	"github.com/ardnew/ycomp/log"
	"github.com/ardnew/ycomp/value"
)

// writeFiles creates files under a fresh temporary directory and returns
// the directory with symbolic links resolved.
func writeFiles(t *testing.T, files map[string]string) string {
	t.Helper()

	dir, err := filepath.EvalSymlinks(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	for name, src := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))

		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}

		if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	return dir
}

// countingFS counts the files opened through it.
type countingFS struct {
	FileSystem

	mu    sync.Mutex
	opens map[string]int
}

func newCountingFS() *countingFS {
	return &countingFS{FileSystem: OS(), opens: make(map[string]int)}
}

func (c *countingFS) Open(name string) (io.ReadCloser, error) {
	c.mu.Lock()
	c.opens[name]++
	c.mu.Unlock()

	return c.FileSystem.Open(name)
}

func (c *countingFS) count(name string) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.opens[name]
}

func newComposer(opts ...Option) (*Composer, *log.Buffer) {
	buf := log.NewBuffer(log.LevelWarn)

	return New(append([]Option{WithLogger(buf.Logger())}, opts...)...), buf
}

func parse(t *testing.T, src string) value.Node {
	t.Helper()

	n, err := document.Parse("inline.yaml", []byte(src))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	return n
}

func compose(t *testing.T, c *Composer, src string) value.Node {
	t.Helper()

	return c.Compose(t.Context(), parse(t, src), "")
}

func composeFile(t *testing.T, c *Composer, path string) value.Node {
	t.Helper()

	n, err := c.ComposeFile(t.Context(), path)
	if err != nil {
		t.Fatalf("ComposeFile(%s): %v", path, err)
	}

	return n
}

func assertEqual(t *testing.T, got, want value.Node) {
	t.Helper()

	if !value.Equal(got, want) {
		t.Errorf("got\n\t%s\nwant\n\t%s", document.Flow(got), document.Flow(want))
	}
}

func messages(buf *log.Buffer) []string {
	var msgs []string

	for _, e := range buf.Warnings() {
		msgs = append(msgs, e.Message)
	}

	return msgs
}

func assertWarnings(t *testing.T, buf *log.Buffer, want ...string) {
	t.Helper()

	if got := messages(buf); !slices.Equal(got, want) {
		for _, e := range buf.Warnings() {
			t.Log(e.Text())
		}

		t.Errorf("warnings = %q, want %q", got, want)
	}
}

func TestCompose_EndToEnd(t *testing.T) {
	const src = `{msg: !sub "Hello ${name}", list: [1, !if {if: "${flag}", then: 2}, 3]}`

	tests := []struct {
		flag string
		want string
	}{
		{"true", `{msg: Hello World, list: [1, 2, 3]}`},
		{"false", `{msg: Hello World, list: [1, 3]}`},
	}

	for _, tt := range tests {
		t.Run(tt.flag, func(t *testing.T) {
			c, buf := newComposer(WithVariables(value.MapOf("name", "World", "flag", tt.flag)))

			assertEqual(t, compose(t, c, src), parse(t, tt.want))
			assertWarnings(t, buf)
		})
	}
}

func TestCompose_RemovedRoot(t *testing.T) {
	c, buf := newComposer()

	if got := compose(t, c, `!remove null`); !value.Equal(got, value.Null{}) {
		t.Errorf("got %#v, want null", got)
	}

	if got := compose(t, c, ``); !value.Equal(got, value.Null{}) {
		t.Errorf("empty document = %#v, want null", got)
	}

	assertWarnings(t, buf)
}

func TestCompose_Remove(t *testing.T) {
	c, buf := newComposer()

	got := compose(t, c, `
list:
  - 1
  - !remove x
  - 3
  - !remove null
gone: !remove null
kept: !replace {a: 1}
nested:
  - [a, !remove b, c]
`)

	assertEqual(t, got, parse(t, `{list: [1, 3], kept: {a: 1}, nested: [[a, c]]}`))
	assertWarnings(t, buf)
}

func TestCompose_Substitution(t *testing.T) {
	c, buf := newComposer()

	got := compose(t, c, `
variables:
  x: 1
  key: dyn
  at: "@{..}"
ctx: !sub
  a: "${x}"
  "${key}": v
  nested: ["${x + 1}"]
  "off": !nosub "${x}"
  back: !nosub
    "on": !sub "${x}"
custom: !sub:at "@{x} ${x}"
plain: "${x}"
`)

	assertEqual(t, got, parse(t, `
ctx:
  a: 1
  dyn: v
  nested: [2]
  "off": "${x}"
  back: {"on": 1}
custom: "1 ${x}"
plain: "${x}"
`))
	assertWarnings(t, buf)
}

func TestCompose_SubstitutionPatternErrors(t *testing.T) {
	c, buf := newComposer()

	got := compose(t, c, `
variables:
  bad: "@{"
a: !sub:nope "${x}"
b: !sub:bad "${x}"
`)

	assertEqual(t, got, parse(t, `{a: "${x}", b: "${x}"}`))
	assertWarnings(t, buf,
		"undefined substitution pattern", "undefined variable",
		"invalid substitution pattern", "undefined variable",
	)
}

func TestCompose_Variables(t *testing.T) {
	const src = `
variables:
  a: 1
  b: !sub "${a + 1}"
  c: !sub "${b * 10}"
out: !sub "${c}"
`

	t.Run("declared", func(t *testing.T) {
		c, buf := newComposer()

		assertEqual(t, compose(t, c, src), parse(t, `{out: 20}`))
		assertWarnings(t, buf)
	})

	t.Run("caller wins", func(t *testing.T) {
		c, buf := newComposer(WithVariables(value.MapOf("a", 5)))

		assertEqual(t, compose(t, c, src), parse(t, `{out: 60}`))
		assertWarnings(t, buf)
	})

	t.Run("sub block", func(t *testing.T) {
		c, buf := newComposer()

		got := compose(t, c, `
variables: !sub
  base: /srv
  data: "${base}/data"
path: !sub "${data}"
all: !sub "${VARS.base}"
`)

		assertEqual(t, got, parse(t, `{path: /srv/data, all: /srv}`))
		assertWarnings(t, buf)
	})

	t.Run("not a mapping", func(t *testing.T) {
		c, buf := newComposer()

		assertEqual(t, compose(t, c, `{variables: [1], a: 1}`), parse(t, `{a: 1}`))
		assertWarnings(t, buf, "variables must be a mapping")
	})
}

func TestCompose_PredefinedVariables(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"conf/predefined.inc.yaml": `
variables:
  __FILE_NAME__: override
name: !sub "${__FILE_NAME__}"
ext: !sub "${__FILE_EXT__}"
dir: !sub "${__DIRECTORY__}"
file: !sub "${__FILE__}"
root: !sub "${CONFIG_ROOT}"
`,
	})

	path := filepath.Join(dir, "conf", "predefined.inc.yaml")

	c, buf := newComposer(WithConfigRoot(dir))

	assertEqual(t, composeFile(t, c, path), value.MapOf(
		"name", "predefined.inc",
		"ext", "yaml",
		"dir", filepath.Join(dir, "conf"),
		"file", path,
		"root", dir,
	))
	assertWarnings(t, buf)
}

func TestCompose_MergeKeys(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"base.yaml": `{x: 0, y: 0}`,
		"main.yaml": `
.base: &base {a: 1, b: 2}
.other: &other {b: 3, c: 4}
m:
  a: local
  <<: [*base, *other]
  d: 5
single:
  <<: *other
  c: mine
included:
  <<: !include base.yaml
  x: 1
ignored:
  <<: null
  k: v
`,
	})

	c, buf := newComposer()

	assertEqual(t, composeFile(t, c, filepath.Join(dir, "main.yaml")), parse(t, `
m: {a: local, b: 2, c: 4, d: 5}
single: {b: 3, c: mine}
included: {y: 0, x: 1}
ignored: {k: v}
`))
	assertWarnings(t, buf)
}

func TestCompose_MergeSourceNotMapping(t *testing.T) {
	c, buf := newComposer()

	got := compose(t, c, `
m:
  <<: [{a: 1}, 2]
  b: 3
n:
  <<: text
`)

	assertEqual(t, got, parse(t, `{m: {a: 1, b: 3}, n: {}}`))
	assertWarnings(t, buf, "merge source is not a mapping", "merge source is not a mapping")
}

func TestCompose_HiddenKeys(t *testing.T) {
	c, buf := newComposer()

	got := compose(t, c, `
.defaults: &defaults {retries: 3}
service:
  .note: kept below top level
  opts: *defaults
`)

	assertEqual(t, got, parse(t, `{service: {.note: kept below top level, opts: {retries: 3}}}`))
	assertWarnings(t, buf)
}

func TestTransformer_Scope(t *testing.T) {
	c, _ := newComposer(WithVariables(value.MapOf("a", 1)))

	tr := c.Transformer("")

	over := tr.WithOverrideVariables(value.MapOf("a", 2, "b", 3))
	if v, _ := over.Variables().Get("a"); v != value.Int(2) {
		t.Errorf("override a = %v, want 2", v)
	}

	if v, _ := tr.Variables().Get("a"); v != value.Int(1) {
		t.Errorf("receiver a = %v, want 1", v)
	}

	only := tr.WithVariables(value.MapOf("z", true))
	if only.Variables().Has("a") || !only.Variables().Has("z") {
		t.Errorf("WithVariables scope = %v", only.Variables().Keys())
	}

	got := over.Transform(t.Context(), parse(t, `!sub "${a + b}"`))
	if !value.Equal(got, value.Int(5)) {
		t.Errorf("Transform = %v, want 5", got)
	}
}
