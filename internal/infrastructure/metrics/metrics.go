package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the accounting core.
type Metrics struct {
	// Ledger metrics
	EntriesRecorded *prometheus.CounterVec
	EntryErrors     *prometheus.CounterVec
	RecordDuration  prometheus.Histogram

	// Transfer metrics
	TransfersCommitted prometheus.Counter
	TransfersAborted   *prometheus.CounterVec
	TransferDuration   prometheus.Histogram
	TransferAmount     prometheus.Histogram

	// Account metrics
	AccountsCreated prometheus.Counter
	AccountBalance  *prometheus.GaugeVec

	// Depreciation metrics
	SchedulesComputed *prometheus.CounterVec

	// Reconciliation metrics
	ReconciliationRuns   prometheus.Counter
	ReconciliationDrifts prometheus.Counter
}

// New creates and registers all Prometheus metrics.
func New() *Metrics {
	return &Metrics{
		EntriesRecorded: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledgercore_entries_recorded_total",
				Help: "Total number of ledger entries recorded",
			},
			[]string{"direction"},
		),
		EntryErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledgercore_entry_errors_total",
				Help: "Total number of rejected entry recordings by error type",
			},
			[]string{"error_type"},
		),
		RecordDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "ledgercore_record_entry_duration_seconds",
			Help:    "Duration of recordEntry operations",
			Buckets: prometheus.DefBuckets,
		}),

		TransfersCommitted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "ledgercore_transfers_committed_total",
			Help: "Total number of transfers committed",
		}),
		TransfersAborted: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledgercore_transfers_aborted_total",
				Help: "Total number of transfers aborted by error type",
			},
			[]string{"error_type"},
		),
		TransferDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "ledgercore_transfer_duration_seconds",
			Help:    "Duration of transfer operations",
			Buckets: prometheus.DefBuckets,
		}),
		TransferAmount: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "ledgercore_transfer_amount",
			Help:    "Transfer amounts",
			Buckets: []float64{1, 10, 100, 1000, 10000, 100000, 1000000},
		}),

		AccountsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "ledgercore_accounts_created_total",
			Help: "Total number of accounts created",
		}),
		AccountBalance: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "ledgercore_account_balance",
				Help: "Current cached account balance",
			},
			[]string{"account_id", "kind"},
		),

		SchedulesComputed: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledgercore_depreciation_schedules_total",
				Help: "Total depreciation schedules computed by method",
			},
			[]string{"method", "granularity"},
		),

		ReconciliationRuns: promauto.NewCounter(prometheus.CounterOpts{
			Name: "ledgercore_reconciliation_runs_total",
			Help: "Total reconciliation runs",
		}),
		ReconciliationDrifts: promauto.NewCounter(prometheus.CounterOpts{
			Name: "ledgercore_reconciliation_drifts_total",
			Help: "Total accounts found with balance drift",
		}),
	}
}
