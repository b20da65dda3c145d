package log

import (
	"context"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"
)

// LocationKey is the attribute key that carries a path:line:column source
// location. [Buffer] lifts it out of the attributes into [Entry.Location].
const LocationKey = "location"

// Entry is a single record captured by a [Buffer].
type Entry struct {
	Time     time.Time
	Message  string
	Location string
	Attrs    []slog.Attr
	Level    Level
}

// Text renders the entry as "location: message (key=value, ...)".
func (e Entry) Text() string {
	var sb strings.Builder

	if e.Location != "" {
		sb.WriteString(e.Location)
		sb.WriteString(": ")
	}

	sb.WriteString(e.Message)

	if len(e.Attrs) > 0 {
		sb.WriteString(" (")

		for i, a := range e.Attrs {
			if i > 0 {
				sb.WriteString(", ")
			}

			sb.WriteString(a.Key)
			sb.WriteByte('=')
			sb.WriteString(formatValue(a.Value))
		}

		sb.WriteByte(')')
	}

	return sb.String()
}

// Attr returns the value of the first attribute named key.
func (e Entry) Attr(key string) (slog.Value, bool) {
	for _, a := range e.Attrs {
		if a.Key == key {
			return a.Value, true
		}
	}

	return slog.Value{}, false
}

type store struct {
	mu      sync.Mutex
	entries []Entry
}

// Buffer is a [slog.Handler] that keeps every record it receives in memory
// until it is flushed. Handlers derived with WithAttrs and WithGroup share
// the same storage.
//
// The zero Buffer is not usable; create one with [NewBuffer].
type Buffer struct {
	store  *store
	attrs  []slog.Attr
	groups []string
	level  Level
}

// NewBuffer returns an empty buffer that records messages at or above level.
func NewBuffer(level Level) *Buffer {
	return &Buffer{store: &store{}, level: level}
}

// Logger returns a [Logger] that writes into b.
func (b *Buffer) Logger() Logger {
	return New(b)
}

func (b *Buffer) Enabled(_ context.Context, level slog.Level) bool {
	return level >= slog.Level(b.level)
}

func (b *Buffer) Handle(_ context.Context, r slog.Record) error {
	e := Entry{
		Time:    r.Time,
		Level:   Level(r.Level),
		Message: r.Message,
		Attrs:   make([]slog.Attr, 0, len(b.attrs)+r.NumAttrs()),
	}

	add := func(a slog.Attr) bool {
		a.Value = a.Value.Resolve()
		if a.Key == LocationKey && len(b.groups) == 0 {
			e.Location = a.Value.String()

			return true
		}

		if len(b.groups) > 0 {
			a.Key = strings.Join(append(slices.Clip(b.groups), a.Key), ".")
		}

		e.Attrs = append(e.Attrs, a)

		return true
	}

	for _, a := range b.attrs {
		add(a)
	}

	r.Attrs(add)

	b.store.mu.Lock()
	b.store.entries = append(b.store.entries, e)
	b.store.mu.Unlock()

	return nil
}

func (b *Buffer) WithAttrs(attrs []slog.Attr) slog.Handler {
	c := *b
	c.attrs = append(slices.Clip(b.attrs), attrs...)

	return &c
}

func (b *Buffer) WithGroup(name string) slog.Handler {
	if name == "" {
		return b
	}

	c := *b
	c.groups = append(slices.Clip(b.groups), name)

	return &c
}

// Entries returns a copy of every captured entry in arrival order.
func (b *Buffer) Entries() []Entry {
	b.store.mu.Lock()
	defer b.store.mu.Unlock()

	return slices.Clone(b.store.entries)
}

// Warnings returns the captured entries at [LevelWarn] or above.
func (b *Buffer) Warnings() []Entry {
	return slices.DeleteFunc(b.Entries(), func(e Entry) bool {
		return e.Level < LevelWarn
	})
}

// Len returns the number of captured entries.
func (b *Buffer) Len() int {
	b.store.mu.Lock()
	defer b.store.mu.Unlock()

	return len(b.store.entries)
}

// Flush replays every captured entry to l, in order, and empties the buffer.
func (b *Buffer) Flush(ctx context.Context, l Logger) {
	b.store.mu.Lock()
	entries := b.store.entries
	b.store.entries = nil
	b.store.mu.Unlock()

	for _, e := range entries {
		attrs := e.Attrs
		if e.Location != "" {
			attrs = append([]slog.Attr{slog.String(LocationKey, e.Location)}, attrs...)
		}

		l.logContext(ctx, e.Level, e.Message, attrs...)
	}
}
