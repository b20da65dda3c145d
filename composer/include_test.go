package composer

import (
	"path/filepath"
	"strings"
	"testing"
)

func TestInclude_InheritsScope(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"child.yaml": `
variables:
  color: yellow
  shape: circle
value: !sub "${color} ${shape} ${flag}"
`,
		"main.yaml": `
variables:
  color: red
a: !include {file: child.yaml, vars: {flag: 1}}
b: !include child.yaml?color=green&flag
c: !include child.yaml?flag=a%20b
`,
	})

	c, buf := newComposer()

	assertEqual(t, composeFile(t, c, filepath.Join(dir, "main.yaml")), parse(t, `
a: {value: red circle 1}
b: {value: green circle true}
c: {value: red circle a b}
`))
	assertWarnings(t, buf)
}

func TestInclude_DynamicPath(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"common.yaml": `common: true`,
		"main.yaml": `
variables:
  which: common
a: !include {file: !sub "${which}.yaml"}
b: !sub
  nested: !include "${which}.yaml"
`,
	})

	c, buf := newComposer()

	assertEqual(t, composeFile(t, c, filepath.Join(dir, "main.yaml")), parse(t, `
a: {common: true}
b: {nested: {common: true}}
`))
	assertWarnings(t, buf)
}

func TestInclude_SubstitutionNotInherited(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"child.yaml": `{raw: "${x}", sub: !sub "${x}"}`,
		"main.yaml": `
variables: {x: 1}
inc: !sub
  child: !include child.yaml
`,
	})

	c, buf := newComposer()

	assertEqual(t, composeFile(t, c, filepath.Join(dir, "main.yaml")),
		parse(t, `{inc: {child: {raw: "${x}", sub: 1}}}`))
	assertWarnings(t, buf)
}

func TestInclude_ScalarDocument(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"scalar.yaml": `!sub "${value}"`,
		"main.yaml":   `v: !include scalar.yaml?value=qux`,
	})

	c, buf := newComposer()

	assertEqual(t, composeFile(t, c, filepath.Join(dir, "main.yaml")), parse(t, `{v: qux}`))
	assertWarnings(t, buf)
}

func TestInclude_Roots(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"lib/common.yaml":     `common: true`,
		"site/shared.yaml":    `shared: true`,
		"other/shared.yaml":   `other: true`,
		"site/room/main.yaml": `
a: !include "@lib/common.yaml"
b: !include "$shared.yaml"
c: !include ../shared.yaml
`,
	})

	main := filepath.Join(dir, "site", "room", "main.yaml")

	t.Run("derived source root", func(t *testing.T) {
		c, buf := newComposer(WithConfigRoot(dir))

		assertEqual(t, composeFile(t, c, main), parse(t, `
a: {common: true}
b: {shared: true}
c: {shared: true}
`))
		assertWarnings(t, buf)
	})

	t.Run("explicit source root", func(t *testing.T) {
		c, buf := newComposer(WithConfigRoot(dir), WithSourceRoot(filepath.Join(dir, "other")))

		assertEqual(t, composeFile(t, c, main), parse(t, `
a: {common: true}
b: {other: true}
c: {shared: true}
`))
		assertWarnings(t, buf)
	})
}

func TestInclude_CircularInclusion(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"a.yaml": "name: a\nb: !include b.yaml\n",
		"b.yaml": "name: b\na: !include a.yaml\n",
		"self.yaml": "name: self\nme: !include self.yaml\n",
	})

	t.Run("indirect", func(t *testing.T) {
		c, buf := newComposer()

		assertEqual(t, composeFile(t, c, filepath.Join(dir, "a.yaml")),
			parse(t, `{name: a, b: {name: b}}`))
		assertWarnings(t, buf, "circular inclusion detected")

		w := buf.Warnings()[0]

		if want := filepath.Join(dir, "b.yaml") + ":2:"; !strings.HasPrefix(w.Location, want) {
			t.Errorf("location = %q, want prefix %q", w.Location, want)
		}

		chain, _ := w.Attr("chain")
		if !strings.Contains(chain.String(), "a.yaml -> ") {
			t.Errorf("chain = %q", chain.String())
		}
	})

	t.Run("self", func(t *testing.T) {
		c, buf := newComposer()

		assertEqual(t, composeFile(t, c, filepath.Join(dir, "self.yaml")),
			parse(t, `{name: self}`))
		assertWarnings(t, buf, "circular inclusion detected")
	})

	t.Run("siblings are not cycles", func(t *testing.T) {
		dir := writeFiles(t, map[string]string{
			"leaf.yaml": `leaf: true`,
			"main.yaml": "x: !include leaf.yaml\ny: !include leaf.yaml\n",
		})

		c, buf := newComposer()

		assertEqual(t, composeFile(t, c, filepath.Join(dir, "main.yaml")),
			parse(t, `{x: {leaf: true}, y: {leaf: true}}`))
		assertWarnings(t, buf)
	})
}

func TestInclude_Failures(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"lib/keep":    ``,
		"broken.yaml": "a: [1, 2\n",
		"main.yaml": `
missing: !include nope.yaml
dir: !include lib
noarg: !include null
bad: !include broken.yaml
ok: 1
`,
	})

	c, buf := newComposer()

	assertEqual(t, composeFile(t, c, filepath.Join(dir, "main.yaml")), parse(t, `{ok: 1}`))
	assertWarnings(t, buf,
		"include failed", "include failed",
		"include: missing 'file' parameter",
		"include failed",
	)

	warns := buf.Warnings()

	for i, want := range []string{"no such file or directory", "is a directory"} {
		if r, _ := warns[i].Attr("reason"); r.String() != want {
			t.Errorf("reason[%d] = %q, want %q", i, r.String(), want)
		}
	}

	if p, _ := warns[0].Attr("path"); p.String() != filepath.Join(dir, "nope.yaml") {
		t.Errorf("path = %q, want the resolved path", p.String())
	}

	if f, _ := warns[0].Attr("file"); f.String() != "nope.yaml" {
		t.Errorf("file = %q, want the name as written", f.String())
	}

	if _, ok := warns[3].Attr("line"); !ok {
		t.Errorf("parse failure has no line: %s", warns[3].Text())
	}
}

func TestInclude_MaxDepth(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"d0.yaml": `next: !include d1.yaml`,
		"d1.yaml": `next: !include d2.yaml`,
		"d2.yaml": `next: !include d3.yaml`,
		"d3.yaml": `end: true`,
	})

	c, buf := newComposer(WithMaxDepth(2))

	assertEqual(t, composeFile(t, c, filepath.Join(dir, "d0.yaml")),
		parse(t, `{next: {next: {}}}`))
	assertWarnings(t, buf, "maximum nesting depth exceeded")
}

func TestComposeFile_Errors(t *testing.T) {
	dir := writeFiles(t, map[string]string{"broken.yaml": "a: [1, 2\n"})

	c, _ := newComposer()

	if _, err := c.ComposeFile(t.Context(), filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("missing file: no error")
	}

	if _, err := c.ComposeFile(t.Context(), filepath.Join(dir, "broken.yaml")); err == nil {
		t.Error("broken file: no error")
	}

	if n := c.Cache().Len(); n != 0 {
		t.Errorf("cache holds %d failed entries", n)
	}
}
