package local

import (
	"context"
	"os"
	"os/exec"
	"path"
	"testing"

	"github.com/smplab/trainrun/srcs/go/proc"
	"github.com/smplab/trainrun/srcs/go/trainrun/job"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_RunWritesLog(t *testing.T) {
	dir := t.TempDir()
	logFile := path.Join(dir, "a", "run.log")
	p := proc.Proc{
		Name:    "echo",
		Prog:    "/bin/sh",
		Args:    []string{"-c", "echo hello"},
		LogDir:  path.Join(dir, "a"),
		LogFile: logFile,
	}
	r := Runner{Name: p.Name, LogFile: logFile}
	require.NoError(t, r.Run(context.Background(), p))
	bs, err := os.ReadFile(logFile)
	require.NoError(t, err)
	assert.Equal(t, "hello\n", string(bs))
}

func Test_RunPropagatesExitStatus(t *testing.T) {
	dir := t.TempDir()
	logFile := path.Join(dir, "run.log")
	p := proc.Proc{
		Name:    "fail",
		Prog:    "/bin/sh",
		Args:    []string{"-c", "echo partial; exit 1"},
		LogDir:  dir,
		LogFile: logFile,
	}
	r := Runner{Name: p.Name, LogFile: logFile}
	err := r.Run(context.Background(), p)
	require.Error(t, err)
	exitErr, ok := err.(*exec.ExitError)
	require.True(t, ok)
	assert.Equal(t, 1, exitErr.ExitCode())

	// partial output written before the failure survives
	bs, err := os.ReadFile(logFile)
	require.NoError(t, err)
	assert.Equal(t, "partial\n", string(bs))
}

func Test_RunAbortsOnBadLogDir(t *testing.T) {
	dir := t.TempDir()
	blocker := path.Join(dir, "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0644))
	marker := path.Join(dir, "spawned")
	p := proc.Proc{
		Name:   "blocked",
		Prog:   "/bin/sh",
		Args:   []string{"-c", "touch " + marker},
		LogDir: path.Join(blocker, "sub"), // cannot be created
	}
	r := Runner{Name: p.Name}
	err := r.Run(context.Background(), p)
	require.Error(t, err)
	_, statErr := os.Stat(marker)
	assert.True(t, os.IsNotExist(statErr), "process must not be spawned")
}

func Test_RunAll(t *testing.T) {
	dir := t.TempDir()
	var jobs []job.Job
	for _, name := range []string{"a", "b"} {
		jobs = append(jobs, job.Job{
			Name:    name,
			Prog:    "/bin/sh",
			Args:    []string{"-c", "echo " + name},
			LogDir:  dir,
			LogFile: path.Join(dir, name+".log"),
		})
	}
	require.NoError(t, RunAll(context.Background(), jobs, false))
	for _, j := range jobs {
		bs, err := os.ReadFile(j.LogFile)
		require.NoError(t, err)
		assert.Equal(t, j.Name+"\n", string(bs))
	}
}

func Test_RunAllCountsFailures(t *testing.T) {
	dir := t.TempDir()
	jobs := []job.Job{
		{Name: "ok", Prog: "/bin/sh", Args: []string{"-c", "true"}, LogDir: dir},
		{Name: "bad", Prog: "/bin/sh", Args: []string{"-c", "exit 1"}, LogDir: dir},
	}
	err := RunAll(context.Background(), jobs, false)
	assert.EqualError(t, err, "1 task failed")
}

func Test_IdempotentLogDir(t *testing.T) {
	dir := path.Join(t.TempDir(), "logs")
	require.NoError(t, os.MkdirAll(dir, os.ModePerm))
	require.NoError(t, os.MkdirAll(dir, os.ModePerm))
	fi, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, fi.IsDir())
}
