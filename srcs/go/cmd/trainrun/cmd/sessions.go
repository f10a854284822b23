package cmd

import (
	"fmt"

	"github.com/smplab/trainrun/srcs/go/trainrun/session"
	"github.com/spf13/cobra"
)

func SessionsCommand() *cobra.Command {
	var stateDir string
	cmd := &cobra.Command{
		Use:   `sessions`,
		Short: `list background sessions and their liveness`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, err := session.ListDetached(stateDir)
			if err != nil {
				return err
			}
			if len(ds) == 0 {
				fmt.Println("no sessions")
				return nil
			}
			for _, d := range ds {
				fmt.Println(d)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&stateDir, "state-dir", session.DefaultStateDir, "where session pid files live")
	return cmd
}
