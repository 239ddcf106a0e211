package cmd

import (
	"github.com/nodecg/nodecg/cmd/db"
	"github.com/nodecg/nodecg/internal/metrics"
	"github.com/spf13/cobra"
)

var cmds = []*cobra.Command{
	db.Cmd,
}

// Execute builds the command tree and executes commands.
func Execute() error {
	metrics.Register()

	command := &cobra.Command{
		Use:           "nodecg",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Usage()
		},
	}

	for _, c := range cmds {
		command.AddCommand(c)
	}

	return command.Execute()
}
