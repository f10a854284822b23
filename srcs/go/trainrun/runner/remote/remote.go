package remote

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/smplab/trainrun/srcs/go/log"
	"github.com/smplab/trainrun/srcs/go/trainrun/job"
	"github.com/smplab/trainrun/srcs/go/utils"
	"github.com/smplab/trainrun/srcs/go/utils/iostream"
	"github.com/smplab/trainrun/srcs/go/utils/ssh"
	"github.com/smplab/trainrun/srcs/go/utils/xterm"
)

// RunJob runs one training job on its remote host over SSH, teeing the
// remote output into the same local log layout as a local run.
func RunJob(ctx context.Context, user string, j job.Job, verboseLog bool) error {
	client, err := ssh.New(ssh.Config{Host: j.Host, User: user})
	if err != nil {
		return err
	}
	defer client.Close()
	var redirectors []*iostream.StdWriters
	if verboseLog {
		redirectors = append(redirectors, iostream.NewXTermRedirector(j.Name, xterm.NoColor))
	}
	if len(j.LogFile) > 0 {
		redirectors = append(redirectors, iostream.NewFileRedirector(j.LogFile))
	}
	return client.Watch(ctx, j.NewProc().Script(), redirectors)
}

// RunAll runs all jobs on their hosts concurrently and waits.
func RunAll(ctx context.Context, user string, jobs []job.Job, verboseLog bool) error {
	var wg sync.WaitGroup
	var fail int32
	for i, j := range jobs {
		wg.Add(1)
		go func(i int, j job.Job) {
			defer wg.Done()
			t0 := time.Now()
			client, err := ssh.New(ssh.Config{Host: j.Host, User: user})
			if err != nil {
				log.Errorf("#<%s> failed to connect to %s: %v", j.Name, j.Host, err)
				atomic.AddInt32(&fail, 1)
				return
			}
			defer client.Close()
			var redirectors []*iostream.StdWriters
			if verboseLog {
				redirectors = append(redirectors, iostream.NewXTermRedirector(j.Name, xterm.BasicColors.Choose(i)))
			}
			redirectors = append(redirectors, iostream.NewFileRedirector(j.LogFile))
			if err := client.Watch(ctx, j.NewProc().Script(), redirectors); err != nil {
				log.Errorf("#<%s> exited with error: %v, took %s", j.Name, err, time.Since(t0))
				atomic.AddInt32(&fail, 1)
				return
			}
			log.Debugf("#<%s> finished successfully, took %s", j.Name, time.Since(t0))
		}(i, j)
	}
	wg.Wait()
	if fail != 0 {
		return fmt.Errorf("%s failed", utils.Pluralize(int(fail), "task", "tasks"))
	}
	return nil
}
