package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	ConnectionsOpenedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nodecg_db_connections_opened_total",
			Help: "Total number of database handles opened by mode.",
		},
		[]string{"mode"},
	)

	ConnectionErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nodecg_db_connection_errors_total",
			Help: "Total number of failed database bootstraps by failing step.",
		},
		[]string{"op"},
	)

	MigrationsAppliedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "nodecg_db_migrations_applied_total",
			Help: "Total number of migration scripts applied.",
		},
	)

	EntityWritesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nodecg_db_entity_writes_total",
			Help: "Total number of entity writes by table and operation.",
		},
		[]string{"table", "operation"},
	)
)

var registerOnce sync.Once

// Register registers all custom nodecg metrics with the default Prometheus
// registry. Subsequent calls are no-ops.
func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			ConnectionsOpenedTotal,
			ConnectionErrorsTotal,
			MigrationsAppliedTotal,
			EntityWritesTotal,
		)
	})
}
