package cmd

import (
	"context"
	"os"
	"time"

	"github.com/smplab/trainrun/srcs/go/log"
	"github.com/smplab/trainrun/srcs/go/trainrun/runner/local"
	"github.com/smplab/trainrun/srcs/go/trainrun/runner/remote"
	"github.com/smplab/trainrun/srcs/go/utils"
	"github.com/spf13/cobra"
)

func RunAllCommand() *cobra.Command {
	var (
		manifestFile string
		user         string
		useRemote    bool
		timeout      time.Duration
		quiet        bool
	)
	cmd := &cobra.Command{
		Use:   `run-all`,
		Short: `run every experiment of the manifest concurrently and wait`,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := loadManifest(manifestFile)
			if err != nil {
				return err
			}
			jobs, err := m.Jobs()
			if err != nil {
				return err
			}
			ctx, cancel := context.WithCancel(context.Background())
			utils.Trap(func(os.Signal) { cancel() })
			if timeout > 0 {
				ctx, cancel = context.WithTimeout(ctx, timeout)
				defer cancel()
			}
			d, err := utils.Measure(func() error {
				if useRemote {
					return remote.RunAll(ctx, user, jobs, !quiet)
				}
				return local.RunAll(ctx, jobs, !quiet)
			})
			log.Infof("all %s finished, took %s", utils.Pluralize(len(jobs), "task", "tasks"), d)
			return err
		},
	}
	flags := cmd.Flags()
	flags.StringVarP(&manifestFile, "manifest", "f", "", "experiment manifest, the stock sweep when empty")
	flags.BoolVar(&useRemote, "remote", false, "run each experiment on its record's host over SSH")
	flags.StringVar(&user, "u", "", "user name for ssh")
	flags.DurationVar(&timeout, "timeout", 0, "timeout")
	flags.BoolVar(&quiet, "q", false, "don't echo the runs' output")
	return cmd
}
