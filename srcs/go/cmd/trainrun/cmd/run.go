package cmd

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/smplab/trainrun/srcs/go/log"
	"github.com/smplab/trainrun/srcs/go/trainrun/experiment"
	"github.com/smplab/trainrun/srcs/go/trainrun/job"
	"github.com/smplab/trainrun/srcs/go/trainrun/runner/local"
	"github.com/smplab/trainrun/srcs/go/trainrun/runner/remote"
	"github.com/smplab/trainrun/srcs/go/utils"
	"github.com/spf13/cobra"
)

func familyNames() []string {
	var ss []string
	for _, f := range experiment.Families {
		ss = append(ss, string(f))
	}
	return ss
}

func RunCommand() *cobra.Command {
	var (
		family        string
		entrypoint    string
		scriptsRoot   string
		gpu           int
		cropSize      int
		kernelSize    int
		padding       int
		depth         int
		widthFactor   int
		kernelDivisor int
		coarseClasses bool
		host          string
		user          string
		timeout       time.Duration
		quiet         bool
	)
	cmd := &cobra.Command{
		Use:   `run`,
		Short: `run one training job and wait for it`,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := experiment.ParseFamily(family)
			if err != nil {
				return err
			}
			e := experiment.Experiment{
				Family:        f,
				Entrypoint:    entrypoint,
				GPU:           gpu,
				CropSize:      cropSize,
				KernelSize:    kernelSize,
				Padding:       padding,
				Depth:         depth,
				WidthFactor:   widthFactor,
				CoarseClasses: coarseClasses,
				KernelDivisor: kernelDivisor,
			}
			j := job.FromExperiment(e, scriptsRoot)
			j.Host = host
			if !quiet {
				utils.LogArgs()
				utils.LogCudaEnv()
				log.Infof("%s", j.DebugString())
			}
			ctx, cancel := context.WithCancel(context.Background())
			utils.Trap(func(os.Signal) { cancel() })
			if timeout > 0 {
				ctx, cancel = context.WithTimeout(ctx, timeout)
				defer cancel()
			}
			if len(host) > 0 {
				err = remote.RunJob(ctx, user, j, !quiet)
			} else {
				err = local.RunJob(ctx, j, !quiet)
			}
			if exitErr, ok := err.(*exec.ExitError); ok {
				// the training program's exit status becomes our own
				os.Exit(exitErr.ExitCode())
			}
			return err
		},
	}
	flags := cmd.Flags()
	flags.StringVar(&family, "family", string(experiment.CoarseAll), fmt.Sprintf("script family, one of: %s", strings.Join(familyNames(), " | ")))
	flags.StringVar(&entrypoint, "entrypoint", "", "training entrypoint, defaults to the family's")
	flags.StringVar(&scriptsRoot, "scripts-root", ".", "directory containing the training entrypoints")
	flags.IntVar(&gpu, "gpu", -1, "GPU index, -1 lets the training program pick")
	flags.IntVar(&cropSize, "crop-size", 24, "crop size")
	flags.IntVar(&kernelSize, "kernel-size", 0, "kernel size, derived from crop size when 0")
	flags.IntVar(&padding, "padding", 0, "padding, derived from crop size when 0")
	flags.IntVar(&depth, "depth", 16, "number of layers")
	flags.IntVar(&widthFactor, "width-factor", 8, "width factor")
	flags.IntVar(&kernelDivisor, "kernel-divisor", experiment.DefaultKernelDivisor, "divisor of the kernel size derivation")
	flags.BoolVar(&coarseClasses, "coarse-classes", false, "train with coarse label granularity")
	flags.StringVar(&host, "host", "", "run on a remote host over SSH")
	flags.StringVar(&user, "u", "", "user name for ssh")
	flags.DurationVar(&timeout, "timeout", 0, "timeout")
	flags.BoolVar(&quiet, "q", false, "don't echo the run's output")
	return cmd
}
