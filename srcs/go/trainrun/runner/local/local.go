package local

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"sync"
	"sync/atomic"

	"github.com/smplab/trainrun/srcs/go/log"
	"github.com/smplab/trainrun/srcs/go/proc"
	"github.com/smplab/trainrun/srcs/go/trainrun/job"
	"github.com/smplab/trainrun/srcs/go/utils"
	"github.com/smplab/trainrun/srcs/go/utils/iostream"
	"github.com/smplab/trainrun/srcs/go/utils/xterm"
)

type Runner struct {
	Name       string
	Color      xterm.Color
	LogFile    string
	VerboseLog bool
}

// Run creates the log directory, then starts the process and tees its
// output to the console and the log file. The process exit error is
// returned as is, so the caller can propagate the exit status.
func (r Runner) Run(ctx context.Context, p proc.Proc) error {
	if len(p.LogDir) > 0 {
		if err := os.MkdirAll(p.LogDir, os.ModePerm); err != nil {
			return fmt.Errorf("failed to create log dir %s: %v", p.LogDir, err)
		}
	}
	return r.run(ctx, p.Cmd())
}

func (r Runner) redirectors() []*iostream.StdWriters {
	var rs []*iostream.StdWriters
	if r.VerboseLog {
		rs = append(rs, iostream.NewXTermRedirector(r.Name, r.Color))
	}
	if len(r.LogFile) > 0 {
		rs = append(rs, iostream.NewFileRedirector(r.LogFile))
	}
	return rs
}

func (r Runner) run(ctx context.Context, cmd *exec.Cmd) error {
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return err
	}
	defer stdout.Close()
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return err
	}
	defer stderr.Close()
	results := iostream.StdReaders{Stdout: stdout, Stderr: stderr}
	ioDone := results.Stream(r.redirectors()...)
	if err := cmd.Start(); err != nil {
		return err
	}
	done := make(chan error)
	go func() {
		ioDone.Wait() // call this before cmd.Wait!
		done <- cmd.Wait()
	}()
	select {
	case <-ctx.Done():
		cmd.Process.Kill()
		<-done
		return ctx.Err()
	case err := <-done:
		return err
	}
}

// RunJob runs one training job to completion.
func RunJob(ctx context.Context, j job.Job, verboseLog bool) error {
	r := Runner{
		Name:       j.Name,
		Color:      xterm.NoColor,
		LogFile:    j.LogFile,
		VerboseLog: verboseLog,
	}
	return r.Run(ctx, j.NewProc())
}

// RunAll runs all jobs concurrently and waits for every one of them.
// A failed job does not stop the others.
func RunAll(ctx context.Context, jobs []job.Job, verboseLog bool) error {
	var wg sync.WaitGroup
	var fail int32
	for i, j := range jobs {
		wg.Add(1)
		go func(i int, j job.Job) {
			defer wg.Done()
			r := Runner{
				Name:       j.Name,
				Color:      xterm.BasicColors.Choose(i),
				LogFile:    j.LogFile,
				VerboseLog: verboseLog,
			}
			if err := r.Run(ctx, j.NewProc()); err != nil {
				log.Errorf("#<%s> exited with error: %v", j.Name, err)
				atomic.AddInt32(&fail, 1)
			} else {
				log.Debugf("#<%s> finished successfully", j.Name)
			}
		}(i, j)
	}
	wg.Wait()
	if fail != 0 {
		return fmt.Errorf("%s failed", utils.Pluralize(int(fail), "task", "tasks"))
	}
	return nil
}
