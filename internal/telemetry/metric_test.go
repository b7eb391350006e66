package telemetry

import (
	"testing"

	"scoreboard/config"
	"scoreboard/internal/core"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetric_DisabledHelpersAreNoop(t *testing.T) {
	m := NewMetric(&config.Configuration{})
	assert.NotPanics(t, func() {
		m.ObserveRegistry(3, 1)
		m.IncUpstream(core.EndpointLogin, "ok")
		m.IncBlockedLogin()
		m.IncBackup("ok")
		m.IncSmsCooldownHit()
	})
}

func TestMetric_RegistryGaugesAndCounters(t *testing.T) {
	conf := &config.Configuration{App: config.App{Name: "scoreboard"}}
	m := newMetric(conf, promauto.With(prometheus.NewRegistry()))

	m.ObserveRegistry(5, 2)
	m.IncUpstream(core.EndpointLogin, "ok")
	m.IncUpstream(core.EndpointLogin, "ok")
	m.IncBlockedLogin()

	assert.Equal(t, 5.0, testutil.ToFloat64(m.RegistryUsers))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.RegistryBlacklisted))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.UpstreamCallsTotal.WithLabelValues(string(core.EndpointLogin), "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.BlockedLoginsTotal))
}
