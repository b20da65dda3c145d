// Package lang evaluates the expressions embedded in composed documents.
//
// A substitution token is an expression between a pair of delimiters,
// ${name} by default. [Interpolator.Interpolate] evaluates every token in a
// string with [expr-lang] against a variable scope. Besides the variables
// themselves, an expression sees [VarsName] (the whole scope as a map) and
// a set of builtins:
//
//	default(v, fallback[, strict])   fallback when v is null (or falsy, if strict)
//	label(s)                         "fooBar" -> "Foo Bar"
//	dig(v, path...)                  nested lookup, e.g. dig(v, 'a.0', 'b')
//	env(name)                        process environment
//	file.exists, file.isDir, file.isRegular
//	path.abs, path.cat, path.rel, path.base, path.dir, path.ext
//	mung.prefix, mung.prefixif       PATH-like list editing
//
// Filters may be applied with the pipe operator, with or without an
// argument list: ${name | label} and ${port | default(80)}.
//
// Hyphenated variable names are resolved as a single identifier when the
// hyphenated name is defined, so ${log-level} reads the variable
// "log-level" rather than subtracting.
//
// [IsTruthy] defines the truth value of a condition.
//
// [expr-lang]: https://expr-lang.org
package lang
