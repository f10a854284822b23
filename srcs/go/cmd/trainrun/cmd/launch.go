package cmd

import (
	"fmt"

	"github.com/smplab/trainrun/srcs/go/log"
	"github.com/smplab/trainrun/srcs/go/trainrun/job"
	"github.com/smplab/trainrun/srcs/go/trainrun/manifest"
	"github.com/smplab/trainrun/srcs/go/trainrun/session"
	"github.com/smplab/trainrun/srcs/go/utils"
	"github.com/spf13/cobra"
)

func loadManifest(filename string) (*manifest.Manifest, error) {
	if len(filename) == 0 {
		return manifest.Default(), nil
	}
	return manifest.Load(filename)
}

func LaunchCommand() *cobra.Command {
	var (
		manifestFile string
		stateDir     string
		attach       bool
		quiet        bool
	)
	cmd := &cobra.Command{
		Use:   `launch`,
		Short: `start every experiment of the manifest as a named background session`,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := loadManifest(manifestFile)
			if err != nil {
				return err
			}
			jobs, err := m.Jobs()
			if err != nil {
				return err
			}
			if n := len(utils.ListNvidiaGPUNames()); n > 0 && len(jobs) > n {
				log.Warnf("launching %d sessions on %s", len(jobs), utils.Pluralize(n, "GPU", "GPUs"))
			}
			if attach {
				return launchAttached(jobs, !quiet)
			}
			for _, j := range jobs {
				d, err := session.Detach(stateDir, j)
				if err != nil {
					return err
				}
				log.Infof("started session %s (pid %d), log: %s", d.Name, d.PID, j.LogFile)
			}
			// not waiting for any of them
			return nil
		},
	}
	flags := cmd.Flags()
	flags.StringVarP(&manifestFile, "manifest", "f", "", "experiment manifest, the stock sweep when empty")
	flags.StringVar(&stateDir, "state-dir", session.DefaultStateDir, "where session pid files live")
	flags.BoolVar(&attach, "attach", false, "stay attached and wait for all sessions")
	flags.BoolVar(&quiet, "q", false, "don't echo the runs' output")
	return cmd
}

// launchAttached submits in process, then polls the handles to the end.
func launchAttached(jobs []job.Job, verbose bool) error {
	m := session.NewManager()
	m.VerboseLog = verbose
	ss, err := m.StartAll(jobs)
	if err != nil {
		return err
	}
	var failed int
	for _, s := range ss {
		if err := s.Wait(); err != nil {
			failed++
		}
		log.Infof("%s", s)
	}
	if failed != 0 {
		return fmt.Errorf("%s failed", utils.Pluralize(failed, "session", "sessions"))
	}
	return nil
}
