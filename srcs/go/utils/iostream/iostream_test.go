package iostream

import (
	"bytes"
	"os"
	"path"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Tee(t *testing.T) {
	r := strings.NewReader("a\nb\n")
	b1 := &bytes.Buffer{}
	b2 := &bytes.Buffer{}
	err := Tee(r, b1, b2)
	require.NoError(t, err)
	assert.Equal(t, "a\nb\n", b1.String())
	assert.Equal(t, "a\nb\n", b2.String())
}

func Test_Stream(t *testing.T) {
	rs := StdReaders{
		Stdout: strings.NewReader("out\n"),
		Stderr: strings.NewReader("err\n"),
	}
	o := &bytes.Buffer{}
	e := &bytes.Buffer{}
	done := rs.Stream(&StdWriters{Stdout: o, Stderr: e})
	done.Wait()
	assert.Equal(t, "out\n", o.String())
	assert.Equal(t, "err\n", e.String())
}

func Test_lazyFileCreatesDir(t *testing.T) {
	dir := t.TempDir()
	name := path.Join(dir, "a", "b", "run.log")
	f := NewLazyFile(name)
	_, err := f.Write([]byte("hello\n"))
	require.NoError(t, err)
	_, err = f.Write([]byte("world\n"))
	require.NoError(t, err)
	require.NoError(t, f.Close())
	bs, err := os.ReadFile(name)
	require.NoError(t, err)
	assert.Equal(t, "hello\nworld\n", string(bs))
}

func Test_fileRedirectorAppends(t *testing.T) {
	dir := t.TempDir()
	name := path.Join(dir, "run.log")
	require.NoError(t, os.WriteFile(name, []byte("old\n"), 0644))
	w := NewFileRedirector(name)
	_, err := w.Stdout.Write([]byte("new\n"))
	require.NoError(t, err)
	bs, err := os.ReadFile(name)
	require.NoError(t, err)
	assert.Equal(t, "old\nnew\n", string(bs))
}
