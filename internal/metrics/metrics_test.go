package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ObserveRPC("/slipwise.v1.GroupService/GetGroup", "ok", 5*time.Millisecond)
	m.ObserveRPC("/slipwise.v1.GroupService/GetGroup", "ok", 7*time.Millisecond)
	m.ObserveRPC("/slipwise.v1.GroupService/GetGroup", "not_found", time.Millisecond)
	m.SplitRejected("EXACT")
	m.SplitRejected("")
	m.BalanceComputed("group")
	m.CacheLookup(true)
	m.CacheLookup(false)
	m.CacheLookup(false)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.rpcRequests.WithLabelValues("/slipwise.v1.GroupService/GetGroup", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.rpcRequests.WithLabelValues("/slipwise.v1.GroupService/GetGroup", "not_found")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.splitRejected.WithLabelValues("EXACT")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.splitRejected.WithLabelValues("unknown")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.balances.WithLabelValues("group")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.cacheLookups.WithLabelValues("hit")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.cacheLookups.WithLabelValues("miss")))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.ObserveRPC("p", "ok", time.Second)
		m.SplitRejected("EQUAL")
		m.BalanceComputed("user")
		m.CacheLookup(true)
	})
}
