package datacopy

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	pagesFetched = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "supamove",
		Subsystem: "datacopy",
		Name:      "pages_fetched_total",
		Help:      "Number of row pages fetched from the source.",
	})
	rowsCopied = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "supamove",
		Subsystem: "datacopy",
		Name:      "rows_copied_total",
		Help:      "Number of rows successfully inserted into the target.",
	})
	rowFailures = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "supamove",
		Subsystem: "datacopy",
		Name:      "row_failures_total",
		Help:      "Number of rows that failed to insert into the target.",
	})
	tablesCopied = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "supamove",
		Subsystem: "datacopy",
		Name:      "tables_copied_total",
		Help:      "Number of tables fully processed by a migration run.",
	})
)
