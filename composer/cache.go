package composer

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/zeebo/xxh3"

	"github.com/ardnew/ycomp/document"
	"github.com/ardnew/ycomp/log"
	"github.com/ardnew/ycomp/pkg"
	"github.com/ardnew/ycomp/value"
)

// errIsDirectory reports an include that names a directory.
var errIsDirectory = errors.New("is a directory")

// CacheEntry is a parsed document and the file state it was parsed from.
type CacheEntry struct {
	ModTime  time.Time
	Document value.Node
	Size     int64
	Hash     uint64
}

// Cache holds parsed documents keyed by canonical path. It is safe for
// concurrent use, and concurrent loads of the same path read and parse the
// file once.
//
// An entry is revalidated on every load: a changed modification time or
// size causes the file to be read again, and a changed content hash causes
// it to be parsed again.
type Cache struct {
	slots sync.Map // string -> *cacheSlot
}

type cacheSlot struct {
	mu    sync.Mutex
	entry *CacheEntry
}

// NewCache returns an empty cache.
func NewCache() *Cache { return &Cache{} }

// Get returns the entry cached for path without revalidating it.
func (c *Cache) Get(path string) (CacheEntry, bool) {
	v, ok := c.slots.Load(path)
	if !ok {
		return CacheEntry{}, false
	}

	slot := v.(*cacheSlot)

	slot.mu.Lock()
	defer slot.mu.Unlock()

	if slot.entry == nil {
		return CacheEntry{}, false
	}

	return *slot.entry, true
}

// Invalidate drops the entry cached for path.
func (c *Cache) Invalidate(path string) { c.slots.Delete(path) }

// Clear drops every entry.
func (c *Cache) Clear() { c.slots.Clear() }

// Len returns the number of cached documents.
func (c *Cache) Len() int {
	n := 0

	c.slots.Range(func(_, v any) bool {
		slot := v.(*cacheSlot)

		slot.mu.Lock()
		if slot.entry != nil {
			n++
		}
		slot.mu.Unlock()

		return true
	})

	return n
}

// load returns the current document at path, reading and parsing it only
// when the cached entry is missing or stale.
func (c *Cache) load(
	ctx context.Context,
	fsys FileSystem,
	path string,
	logger log.Logger,
) (CacheEntry, error) {
	v, _ := c.slots.LoadOrStore(path, &cacheSlot{})
	slot := v.(*cacheSlot)

	slot.mu.Lock()
	defer slot.mu.Unlock()

	info, err := fsys.Stat(path)
	if err != nil {
		slot.entry = nil

		return CacheEntry{}, readError(path, err)
	}

	if info.IsDir() {
		slot.entry = nil

		return CacheEntry{}, readError(path, errIsDirectory)
	}

	if e := slot.entry; e != nil && e.ModTime.Equal(info.ModTime()) && e.Size == info.Size() {
		logger.TraceContext(ctx, "cache hit", slog.String("path", path))

		return *e, nil
	}

	data, err := readFile(fsys, path)
	if err != nil {
		return CacheEntry{}, readError(path, err)
	}

	entry := CacheEntry{
		ModTime: info.ModTime(),
		Size:    info.Size(),
		Hash:    xxh3.Hash(data),
	}

	if e := slot.entry; e != nil && e.Hash == entry.Hash {
		entry.Document = e.Document

		logger.TraceContext(ctx, "cache refresh",
			slog.String("path", path),
			slog.Bool("reparsed", false))
	} else {
		doc, err := document.Parse(path, data)
		if err != nil {
			slot.entry = nil

			return CacheEntry{}, err
		}

		entry.Document = doc

		logger.TraceContext(ctx, "cache load",
			slog.String("path", path),
			slog.Int("bytes", len(data)),
			slog.String("hash", strconv.FormatUint(entry.Hash, 16)))
	}

	slot.entry = &entry

	return entry, nil
}

func readError(path string, err error) error {
	return pkg.ErrReadInput.Wrap(err).With(slog.String("file", path))
}

// reason translates a load failure into a short, human-readable phrase.
func reason(err error) string {
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return "no such file or directory"
	case errors.Is(err, fs.ErrPermission):
		return "permission denied"
	case errors.Is(err, errIsDirectory):
		return "is a directory"
	}

	var e *pkg.Error
	if errors.As(err, &e) {
		if inner := errors.Unwrap(e); inner != nil {
			return e.Message() + ": " + inner.Error()
		}

		return e.Message()
	}

	return err.Error()
}
