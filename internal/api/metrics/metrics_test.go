package metrics

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister_CustomRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	require.NoError(t, Register(reg))

	before := testutil.ToFloat64(OrdersCreatedTotal)
	OrdersCreatedTotal.Inc()
	assert.Equal(t, before+1, testutil.ToFloat64(OrdersCreatedTotal))

	n, err := testutil.GatherAndCount(reg, "courier_orders_created_total", "courier_users_registered_total")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestRegister_Twice(t *testing.T) {
	reg := prometheus.NewRegistry()
	require.NoError(t, Register(reg))
	assert.NoError(t, Register(reg))
}

type failingRegisterer struct{ prometheus.Registerer }

func (failingRegisterer) Register(prometheus.Collector) error { return errors.New("boom") }

func TestRegister_PropagatesErrors(t *testing.T) {
	assert.EqualError(t, Register(failingRegisterer{}), "boom")
}
