package iostream

import (
	"fmt"
	"io"
	"os"
	"path"
	"sync"
)

// lazyFile opens the file on first write, creating parent directories.
type lazyFile struct {
	sync.Mutex
	name string
	f    io.WriteCloser
}

func NewLazyFile(filename string) io.WriteCloser {
	return &lazyFile{name: filename}
}

func (f *lazyFile) Write(bs []byte) (int, error) {
	f.Lock()
	defer f.Unlock()
	if f.f == nil {
		if err := f.open(); err != nil {
			fmt.Fprintf(os.Stderr, "failed to create log file %s: %v", f.name, err)
			os.Stderr.Write(bs)
			return 0, err
		}
	}
	return f.f.Write(bs)
}

func (f *lazyFile) Close() error {
	f.Lock()
	defer f.Unlock()
	if f.f != nil {
		return f.f.Close()
	}
	return nil
}

func (f *lazyFile) open() error {
	if err := os.MkdirAll(path.Dir(f.name), os.ModePerm); err != nil {
		return err
	}
	var err error
	f.f, err = os.OpenFile(f.name, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	return err
}

// NewFileRedirector appends both std streams of a run to one log file.
func NewFileRedirector(name string) *StdWriters {
	lf := NewLazyFile(name)
	return &StdWriters{
		Stdout: lf,
		Stderr: lf,
	}
}
