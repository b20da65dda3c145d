package cmd

import (
	"context"
	"log/slog"
	"os"
	"slices"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/ardnew/ycomp/document"
	"github.com/ardnew/ycomp/log"
	"github.com/ardnew/ycomp/profile"
	"github.com/ardnew/ycomp/value"
)

// Init generates a default configuration file with current flag values.
type Init struct {
	Force bool `help:"Overwrite existing configuration file" short:"f"`
}

// Run executes the init command.
func (i *Init) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	ktx := kongContextFrom(ctx)

	confPath, ok := ktx.Model.Vars()[ConfigIdentifier]
	if !ok {
		panic("internal error: config path undefined")
	}

	_, err = os.Stat(confPath)
	if err == nil && !i.Force {
		return ErrWriteConfig.
			With(slog.String("file", confPath)).
			With(slog.Bool("exists", true)).
			Wrap(ErrFileExists)
	}

	file, err := os.Create(confPath)
	if err != nil {
		return ErrWriteConfig.
			With(slog.String("file", confPath)).
			Wrap(err)
	}
	defer file.Close()

	err = document.Encode(ctx, file, i.config(ctx), document.FormatYAML, document.DefaultIndent)
	if err != nil {
		return ErrWriteConfig.
			With(slog.String("file", confPath)).
			Wrap(err)
	}

	log.DebugContext(
		ctx,
		"initialized configuration file",
		slog.String("path", confPath),
	)

	return nil
}

// config collects the current value of every global flag. Positional
// arguments and per-command flags are not configuration.
func (i *Init) config(ctx context.Context) *value.Map {
	ktx := kongContextFrom(ctx)

	ignore := []string{"help", "version", profile.Tag}

	m := value.NewMap(len(ktx.Model.Flags))

	for _, flag := range ktx.Model.Flags {
		if flag.Hidden || slices.ContainsFunc(ignore, func(s string) bool {
			return strings.HasPrefix(flag.Name, s)
		}) {
			continue
		}

		if v, ok := flagValue(ktx, flag); ok {
			m.Set(flag.Name, v)
		}
	}

	return m
}

// flagValue returns the value of flag, or false if it is unset or empty.
func flagValue(ktx *kong.Context, flag *kong.Flag) (value.Node, bool) {
	val := ktx.FlagValue(flag)
	if val == nil {
		return nil, false
	}

	n := value.FromPlain(val)

	switch v := n.(type) {
	case value.String:
		return n, v != ""
	case value.Seq:
		return n, len(v) > 0
	case *value.Map:
		return n, v.Len() > 0
	case value.Null:
		return nil, false
	default:
		return n, true
	}
}
