package composer

import (
	"io"
	"io/fs"
	"os"

	"github.com/klauspost/readahead"
)

// FileSystem is the source of included documents. Names are absolute,
// OS-specific paths.
type FileSystem interface {
	Stat(name string) (fs.FileInfo, error)
	Open(name string) (io.ReadCloser, error)
}

// OS returns the [FileSystem] of the host operating system.
func OS() FileSystem { return osFileSystem{} }

type osFileSystem struct{}

func (osFileSystem) Stat(name string) (fs.FileInfo, error) { return os.Stat(name) }

func (osFileSystem) Open(name string) (io.ReadCloser, error) { return os.Open(name) }

// readFile reads the whole of name through an asynchronous read-ahead
// buffer.
func readFile(fsys FileSystem, name string) ([]byte, error) {
	rc, err := fsys.Open(name)
	if err != nil {
		return nil, err
	}

	ra := readahead.NewReadCloser(rc)
	defer ra.Close()

	return io.ReadAll(ra)
}
