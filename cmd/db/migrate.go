package db

import (
	"github.com/nodecg/nodecg/pkg/db"
	"github.com/nodecg/nodecg/pkg/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/spf13/cobra"
)

var migrateMetrics bool

var migrateCmd = &cobra.Command{
	Use:     "migrate",
	Short:   "Create or upgrade the database",
	Long:    "Opens the nodecg database, synchronizing the schema on first run and applying pending migrations.",
	Example: "nodecg db migrate",
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := db.Default()
		if err != nil {
			return err
		}

		if _, err := p.Connection(cmd.Context()); err != nil {
			return err
		}
		defer func() {
			if err := p.Close(); err != nil {
				log.Error("database close failure", "error", err)
			}
		}()

		opts, _ := p.Options()
		if err := writeCmdOut(cmd, "database ready: %s (synchronized: %t)\n", opts.Target, opts.Synchronize); err != nil {
			return err
		}

		if !migrateMetrics {
			return nil
		}

		families, err := prometheus.DefaultGatherer.Gather()
		if err != nil {
			return err
		}
		for _, mf := range families {
			if _, err := expfmt.MetricFamilyToText(cmd.OutOrStdout(), mf); err != nil {
				return err
			}
		}
		return nil
	},
}

func init() {
	migrateCmd.Flags().BoolVar(&migrateMetrics, "metrics", false, "Print database metrics after migrating")
}
