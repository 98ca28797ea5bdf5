package metrics

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

type Outcome string

const (
	Success                  Outcome       = "success"
	Error                    Outcome       = "error"
	MetricRequestTimeout     time.Duration = 5 * time.Second
	MetricRequestIdleTimeout time.Duration = 10 * time.Second
)

func (O Outcome) String() string {
	return string(O)
}

var (
	once                       sync.Once
	metricsRouter              *chi.Mux
	ledgerOperationDuration    *prometheus.HistogramVec
	ledgerRejectionCounter     *prometheus.CounterVec
	queueSendErrorCounter      prometheus.Counter
	totalDepositsGauge         prometheus.Gauge
	poolMemberCountGauge       prometheus.Gauge
	snapshotCountGauge         prometheus.Gauge
	custodyBalanceGauge        prometheus.Gauge
	pendingWithdrawalsGauge    prometheus.Gauge
	unlockableWithdrawalsGauge prometheus.Gauge
	httpRequestDurationVec     *prometheus.HistogramVec
	pollerDurationHistogram    *prometheus.HistogramVec
	dbLatency                  *prometheus.HistogramVec
)

// Init initializes the metrics package.
func Init(metricsPort int) {
	once.Do(func() {
		initMetricsRouter(metricsPort)
		registerMetrics()
	})
}

// initMetricsRouter initializes the metrics router.
func initMetricsRouter(metricsPort int) {
	metricsRouter = chi.NewRouter()
	metricsRouter.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})
	// Create a custom server with timeout settings
	metricsAddr := fmt.Sprintf(":%d", metricsPort)
	server := &http.Server{
		Addr:         metricsAddr,
		Handler:      metricsRouter,
		ReadTimeout:  MetricRequestTimeout,
		WriteTimeout: MetricRequestTimeout,
		IdleTimeout:  MetricRequestIdleTimeout,
	}

	// Start the server in a separate goroutine
	go func() {
		log.Printf("Starting metrics server on %s", metricsAddr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msgf("Error starting metrics server on %s", metricsAddr)
		}
	}()
}

// registerMetrics initializes and register the Prometheus metrics.
func registerMetrics() {
	defaultHistogramBucketsSeconds := []float64{0.1, 0.5, 1, 2.5, 5, 10, 30}

	ledgerOperationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ledger_operation_duration_seconds",
			Help:    "Histogram of ledger operation durations in seconds.",
			Buckets: defaultHistogramBucketsSeconds,
		},
		[]string{"operation", "status"},
	)

	ledgerRejectionCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ledger_rejection_count",
			Help: "The total number of rejected ledger operations by reason",
		},
		[]string{"operation", "reason"},
	)

	// add a counter for the number of errors from the fail to push message into queue
	queueSendErrorCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "queue_send_error_count",
			Help: "The total number of errors when sending messages to the queue",
		},
	)

	totalDepositsGauge = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "pool_total_deposits",
			Help: "Tracked total of all participant balances",
		},
	)

	poolMemberCountGauge = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "pool_member_count",
			Help: "Number of participants with a positive balance",
		},
	)

	snapshotCountGauge = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "pool_snapshot_count",
			Help: "Number of deposit snapshots currently retained",
		},
	)

	custodyBalanceGauge = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "custody_balance",
			Help: "Last observed custody balance",
		},
	)

	pendingWithdrawalsGauge = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "pending_withdrawals_count",
			Help: "Number of unprocessed withdrawal requests",
		},
	)

	unlockableWithdrawalsGauge = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "unlockable_withdrawals_count",
			Help: "Number of unprocessed withdrawal requests past their unlock time",
		},
	)

	httpRequestDurationVec = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Histogram of incoming http request durations in seconds.",
			Buckets: defaultHistogramBucketsSeconds,
		},
		[]string{"method", "path", "status"},
	)

	pollerDurationHistogram = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "poller_duration_seconds",
			Help:    "Histogram of poller durations in seconds.",
			Buckets: defaultHistogramBucketsSeconds,
		},
		[]string{"type", "status"},
	)

	dbLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "db_latency_seconds",
			Help: "DB latency in seconds splitted by method and execution status",
		},
		[]string{"method", "status"},
	)

	prometheus.MustRegister(
		ledgerOperationDuration,
		ledgerRejectionCounter,
		queueSendErrorCounter,
		totalDepositsGauge,
		poolMemberCountGauge,
		snapshotCountGauge,
		custodyBalanceGauge,
		pendingWithdrawalsGauge,
		unlockableWithdrawalsGauge,
		httpRequestDurationVec,
		pollerDurationHistogram,
		dbLatency,
	)
}

func RecordLedgerOperation(d time.Duration, operation string, failure bool) {
	status := Success
	if failure {
		status = Error
	}

	ledgerOperationDuration.WithLabelValues(operation, status.String()).Observe(d.Seconds())
}

func RecordLedgerRejection(operation, reason string) {
	ledgerRejectionCounter.WithLabelValues(operation, reason).Inc()
}

func RecordDbLatency(d time.Duration, method string, failure bool) {
	status := Success
	if failure {
		status = Error
	}

	dbLatency.WithLabelValues(method, status.String()).Observe(d.Seconds())
}

func RecordTotalDeposits(total uint64) {
	totalDepositsGauge.Set(float64(total))
}

func RecordPoolMemberCount(count int) {
	poolMemberCountGauge.Set(float64(count))
}

func RecordSnapshotCount(count int) {
	snapshotCountGauge.Set(float64(count))
}

func RecordCustodyBalance(balance uint64) {
	custodyBalanceGauge.Set(float64(balance))
}

func RecordPendingWithdrawals(count int) {
	pendingWithdrawalsGauge.Set(float64(count))
}

func RecordUnlockableWithdrawals(count int) {
	unlockableWithdrawalsGauge.Set(float64(count))
}

// StartHttpRequestDurationTimer starts a timer to measure incoming request duration.
func StartHttpRequestDurationTimer(method, path string) func(statusCode int) {
	startTime := time.Now()
	return func(statusCode int) {
		duration := time.Since(startTime).Seconds()
		httpRequestDurationVec.WithLabelValues(
			method,
			path,
			fmt.Sprintf("%d", statusCode),
		).Observe(duration)
	}
}

func RecordQueueSendError() {
	queueSendErrorCounter.Inc()
}
