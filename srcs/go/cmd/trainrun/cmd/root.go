package cmd

import (
	"github.com/spf13/cobra"
)

func Execute() error {
	root := &cobra.Command{
		Use:           `trainrun`,
		Short:         `launch hyperparameter sweep training runs`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(
		RunCommand(),
		LaunchCommand(),
		RunAllCommand(),
		SessionsCommand(),
	)
	return root.Execute()
}
