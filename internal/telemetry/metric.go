package telemetry

import (
	"strconv"
	"time"

	"scoreboard/config"
	"scoreboard/internal/core"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metric struct；未啟用時所有欄位為 nil，helper 方法皆為 no-op
type Metric struct {
	HttpRequestsTotal   *prometheus.CounterVec
	HttpRequestDuration *prometheus.HistogramVec
	ResponsesTotal      *prometheus.CounterVec
	ErrorsTotal         *prometheus.CounterVec
	UpstreamCallsTotal  *prometheus.CounterVec
	RegistryUsers       prometheus.Gauge
	RegistryBlacklisted prometheus.Gauge
	BlockedLoginsTotal  prometheus.Counter
	BackupRunsTotal     *prometheus.CounterVec
	SmsCooldownHits     prometheus.Counter
	config              *config.Configuration
}

// NewMetric 建立所有指標
func NewMetric(config *config.Configuration) *Metric {
	if config == nil || !config.Telemetry.Metric.Enabled {
		return &Metric{}
	}
	return newMetric(config, promauto.With(prometheus.DefaultRegisterer))
}

func newMetric(config *config.Configuration, factory promauto.Factory) *Metric {
	buckets := prometheus.DefBuckets
	if len(config.Telemetry.Metric.Buckets) > 0 {
		buckets = config.Telemetry.Metric.Buckets
	}
	name := func(metric core.MetricName) string {
		return config.App.Name + "_" + string(metric)
	}
	return &Metric{
		config: config,
		HttpRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: name(core.MetricHttpRequestsTotal),
				Help: "Total received API requests",
			},
			labelNames(core.MetricLabelEndpoint, core.MetricLabelStatus),
		),
		HttpRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    name(core.MetricHttpRequestDuration),
				Help:    "Request duration (seconds)",
				Buckets: buckets,
			},
			labelNames(core.MetricLabelEndpoint),
		),
		ResponsesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: name(core.MetricResponsesTotal),
				Help: "Completed responses by endpoint, status and mode (envelope or passthrough)",
			},
			labelNames(core.MetricLabelEndpoint, core.MetricLabelStatus, core.MetricLabelMode),
		),
		ErrorsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: name(core.MetricErrorsTotal),
				Help: "Error responses by reason",
			},
			labelNames(core.MetricLabelReason),
		),
		UpstreamCallsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: name(core.MetricUpstreamCallsTotal),
				Help: "Calls to the school platform by endpoint and result",
			},
			labelNames(core.MetricLabelEndpoint, core.MetricLabelResult),
		),
		RegistryUsers: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: name(core.MetricRegistryUsers),
				Help: "Users currently held in the registry",
			},
		),
		RegistryBlacklisted: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: name(core.MetricRegistryBlacklisted),
				Help: "Blacklisted users currently held in the registry",
			},
		),
		BlockedLoginsTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: name(core.MetricBlockedLoginsTotal),
				Help: "Logins rejected because the account is blacklisted",
			},
		),
		BackupRunsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: name(core.MetricBackupRunsTotal),
				Help: "Scheduled registry backups by result",
			},
			labelNames(core.MetricLabelResult),
		),
		SmsCooldownHits: factory.NewCounter(
			prometheus.CounterOpts{
				Name: name(core.MetricSmsCooldownHitsTotal),
				Help: "SMS send attempts rejected by the cooldown window",
			},
		),
	}
}

// ObserveRegistry 更新 registry 筆數
func (m *Metric) ObserveRegistry(users, blacklisted int) {
	if m == nil || m.RegistryUsers == nil {
		return
	}
	m.RegistryUsers.Set(float64(users))
	m.RegistryBlacklisted.Set(float64(blacklisted))
}

// ObserveRequest 每個追蹤中的請求結束時呼叫一次
func (m *Metric) ObserveRequest(endpoint string, status int, duration time.Duration) {
	if m == nil || m.HttpRequestsTotal == nil {
		return
	}
	m.HttpRequestsTotal.WithLabelValues(endpoint, strconv.Itoa(status)).Inc()
	m.HttpRequestDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

// IncResponse mode 為 envelope 或 passthrough
func (m *Metric) IncResponse(endpoint string, status int, mode string) {
	if m == nil || m.ResponsesTotal == nil {
		return
	}
	m.ResponsesTotal.WithLabelValues(endpoint, strconv.Itoa(status), mode).Inc()
}

// IncError reason 為錯誤訊息代號（如 account-blacklisted）
func (m *Metric) IncError(reason string) {
	if m == nil || m.ErrorsTotal == nil {
		return
	}
	m.ErrorsTotal.WithLabelValues(reason).Inc()
}

func (m *Metric) IncUpstream(endpoint core.PlatformEndpoint, result string) {
	if m == nil || m.UpstreamCallsTotal == nil {
		return
	}
	m.UpstreamCallsTotal.WithLabelValues(string(endpoint), result).Inc()
}

func (m *Metric) IncBlockedLogin() {
	if m == nil || m.BlockedLoginsTotal == nil {
		return
	}
	m.BlockedLoginsTotal.Inc()
}

func (m *Metric) IncBackup(result string) {
	if m == nil || m.BackupRunsTotal == nil {
		return
	}
	m.BackupRunsTotal.WithLabelValues(result).Inc()
}

func (m *Metric) IncSmsCooldownHit() {
	if m == nil || m.SmsCooldownHits == nil {
		return
	}
	m.SmsCooldownHits.Inc()
}

// labelNames helper: LabelName slice 轉成 []string
func labelNames(labels ...core.MetricLabelName) []string {
	strs := make([]string, len(labels))
	for i, l := range labels {
		strs[i] = string(l)
	}
	return strs
}
