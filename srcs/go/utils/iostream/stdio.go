package iostream

import (
	"io"
	"sync"
)

type StdReaders struct {
	Stdout io.Reader
	Stderr io.Reader
}

type StdWriters struct {
	Stdout io.Writer
	Stderr io.Writer
}

// Stream tees both std streams to all writers and returns a waitable
// that becomes ready when both streams hit EOF.
func (r StdReaders) Stream(ws ...*StdWriters) interface{ Wait() } {
	var outs, errs []io.Writer
	for _, w := range ws {
		outs = append(outs, w.Stdout)
		errs = append(errs, w.Stderr)
	}
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		Tee(r.Stdout, outs...)
		wg.Done()
	}()
	go func() {
		Tee(r.Stderr, errs...)
		wg.Done()
	}()
	return &wg
}
