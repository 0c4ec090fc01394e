package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/soramitsu/iroha-ordering/module"
)

const (
	namespaceOrdering     = "ordering"
	subsystemBatchesCache = "batches_cache"
)

// OrderingCacheCollector reports the batch cache's state to prometheus.
type OrderingCacheCollector struct {
	batchesAvailable      prometheus.Gauge
	transactionsAvailable prometheus.Gauge
	transactionsInUse     prometheus.Gauge
	batchesPending        prometheus.Gauge

	preparedTotal         prometheus.Counter
	stateUpdatedTotal     prometheus.Counter
	finalizedBatchesTotal prometheus.Counter
}

var _ module.OrderingCacheMetrics = (*OrderingCacheCollector)(nil)

func NewOrderingCacheCollector(registrar prometheus.Registerer) *OrderingCacheCollector {

	batchesAvailable := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespaceOrdering,
		Subsystem: subsystemBatchesCache,
		Name:      "batches_available",
		Help:      "number of complete batches ready for the next proposal",
	})

	transactionsAvailable := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespaceOrdering,
		Subsystem: subsystemBatchesCache,
		Name:      "transactions_available",
		Help:      "number of transactions ready for the next proposal",
	})

	transactionsInUse := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespaceOrdering,
		Subsystem: subsystemBatchesCache,
		Name:      "transactions_in_use",
		Help:      "number of transactions embedded in the proposal under consideration",
	})

	batchesPending := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespaceOrdering,
		Subsystem: subsystemBatchesCache,
		Name:      "batches_pending",
		Help:      "number of batches waiting for more signatures",
	})

	preparedTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespaceOrdering,
		Subsystem: subsystemBatchesCache,
		Name:      "prepared_batches_total",
		Help:      "total number of batches that became complete",
	})

	stateUpdatedTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespaceOrdering,
		Subsystem: subsystemBatchesCache,
		Name:      "mst_state_updates_total",
		Help:      "total number of signature-state changes of pending batches",
	})

	finalizedBatchesTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespaceOrdering,
		Subsystem: subsystemBatchesCache,
		Name:      "finalized_batches_total",
		Help:      "total number of batches purged by finality notifications",
	})

	registrar.MustRegister(
		batchesAvailable,
		transactionsAvailable,
		transactionsInUse,
		batchesPending,
		preparedTotal,
		stateUpdatedTotal,
		finalizedBatchesTotal,
	)

	return &OrderingCacheCollector{
		batchesAvailable:      batchesAvailable,
		transactionsAvailable: transactionsAvailable,
		transactionsInUse:     transactionsInUse,
		batchesPending:        batchesPending,
		preparedTotal:         preparedTotal,
		stateUpdatedTotal:     stateUpdatedTotal,
		finalizedBatchesTotal: finalizedBatchesTotal,
	}
}

func (c *OrderingCacheCollector) BatchesAvailable(count uint) {
	c.batchesAvailable.Set(float64(count))
}

func (c *OrderingCacheCollector) TransactionsAvailable(count uint64) {
	c.transactionsAvailable.Set(float64(count))
}

func (c *OrderingCacheCollector) TransactionsInUse(count uint64) {
	c.transactionsInUse.Set(float64(count))
}

func (c *OrderingCacheCollector) BatchesPending(count uint) {
	c.batchesPending.Set(float64(count))
}

func (c *OrderingCacheCollector) OnBatchPrepared() {
	c.preparedTotal.Inc()
}

func (c *OrderingCacheCollector) OnMstStateUpdated() {
	c.stateUpdatedTotal.Inc()
}

func (c *OrderingCacheCollector) OnBatchesFinalized(removed uint) {
	c.finalizedBatchesTotal.Add(float64(removed))
}
