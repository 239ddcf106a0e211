package db

import "github.com/spf13/cobra"

// Cmd is the parent command for database operations.
var Cmd = &cobra.Command{
	Use:   "db",
	Short: "Manage the nodecg database",
}

func init() {
	Cmd.AddCommand(migrateCmd)
	Cmd.AddCommand(statusCmd)
}
