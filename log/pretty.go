package log

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// palette holds the styles of the pretty text handler.
type palette struct {
	time, key, value, message, source lipgloss.Style
	level                             map[slog.Level]lipgloss.Style
}

func newPalette(r *lipgloss.Renderer) palette {
	level := func(color string) lipgloss.Style {
		return r.NewStyle().Bold(true).Foreground(lipgloss.Color(color))
	}

	return palette{
		time:    r.NewStyle().Faint(true),
		key:     r.NewStyle().Foreground(lipgloss.Color("8")),
		value:   r.NewStyle().Foreground(lipgloss.Color("6")),
		message: r.NewStyle().Bold(true),
		source:  r.NewStyle().Foreground(lipgloss.Color("5")),
		level: map[slog.Level]lipgloss.Style{
			slog.Level(LevelTrace): level("8"),
			slog.LevelDebug:        level("4"),
			slog.LevelInfo:         level("2"),
			slog.LevelWarn:         level("3"),
			slog.LevelError:        level("1"),
		},
	}
}

func (p palette) levelStyle(l slog.Level) lipgloss.Style {
	for _, at := range []slog.Level{
		slog.LevelError, slog.LevelWarn, slog.LevelInfo, slog.LevelDebug,
	} {
		if l >= at {
			return p.level[at]
		}
	}

	return p.level[slog.Level(LevelTrace)]
}

// prettyHandler is a colorized single-line text handler. Colors are dropped
// automatically when the output is not a terminal.
type prettyHandler struct {
	opts   slog.HandlerOptions
	mu     *sync.Mutex
	w      io.Writer
	style  palette
	prefix string // rendered attrs from WithAttrs
	groups []string
}

func newPrettyHandler(w io.Writer, opts *slog.HandlerOptions) *prettyHandler {
	return &prettyHandler{
		opts:  *opts,
		mu:    &sync.Mutex{},
		w:     w,
		style: newPalette(lipgloss.NewRenderer(w)),
	}
}

func (h *prettyHandler) Enabled(_ context.Context, level slog.Level) bool {
	min := slog.LevelInfo
	if h.opts.Level != nil {
		min = h.opts.Level.Level()
	}

	return level >= min
}

func (h *prettyHandler) Handle(_ context.Context, r slog.Record) error {
	var buf bytes.Buffer

	if !r.Time.IsZero() {
		if a := h.replace(nil, slog.Time(slog.TimeKey, r.Time)); !a.Equal(slog.Attr{}) {
			buf.WriteString(h.style.time.Render(a.Value.String()))
			buf.WriteByte(' ')
		}
	}

	level := h.replace(nil, slog.Any(slog.LevelKey, r.Level)).Value.String()
	buf.WriteString(h.style.levelStyle(r.Level).Render(fmt.Sprintf("%-5s", level)))
	buf.WriteByte(' ')

	if h.opts.AddSource {
		if src := r.Source(); src != nil && src.File != "" {
			buf.WriteString(h.style.source.Render(src.File + ":" + strconv.Itoa(src.Line)))
			buf.WriteByte(' ')
		}
	}

	buf.WriteString(h.style.message.Render(r.Message))
	buf.WriteString(h.prefix)

	r.Attrs(func(a slog.Attr) bool {
		h.writeAttr(&buf, h.groups, a)

		return true
	})

	buf.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()

	_, err := h.w.Write(buf.Bytes())

	return err
}

func (h *prettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	var buf bytes.Buffer

	for _, a := range attrs {
		h.writeAttr(&buf, h.groups, a)
	}

	c := *h
	c.prefix += buf.String()

	return &c
}

func (h *prettyHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}

	c := *h
	c.groups = append(slices.Clip(h.groups), name)

	return &c
}

func (h *prettyHandler) replace(groups []string, a slog.Attr) slog.Attr {
	if h.opts.ReplaceAttr == nil {
		return a
	}

	return h.opts.ReplaceAttr(groups, a)
}

func (h *prettyHandler) writeAttr(buf *bytes.Buffer, groups []string, a slog.Attr) {
	a.Value = a.Value.Resolve()

	if a.Value.Kind() != slog.KindGroup {
		a = h.replace(groups, a)
	}

	if a.Equal(slog.Attr{}) {
		return
	}

	if a.Value.Kind() == slog.KindGroup {
		sub := groups
		if a.Key != "" {
			sub = append(slices.Clip(groups), a.Key)
		}

		for _, ga := range a.Value.Group() {
			h.writeAttr(buf, sub, ga)
		}

		return
	}

	key := strings.Join(append(slices.Clip(groups), a.Key), ".")

	buf.WriteByte(' ')
	buf.WriteString(h.style.key.Render(key + "="))
	buf.WriteString(h.style.value.Render(formatValue(a.Value)))
}

func formatValue(v slog.Value) string {
	s := v.String()
	if v.Kind() == slog.KindString && (s == "" || strings.ContainsAny(s, " \t\n\"=")) {
		return strconv.Quote(s)
	}

	return s
}
