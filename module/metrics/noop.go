package metrics

import (
	"github.com/soramitsu/iroha-ordering/module"
)

// NoopCollector implements the metrics interfaces with no-ops, for tests and
// tooling that does not report metrics.
type NoopCollector struct{}

func NewNoopCollector() *NoopCollector {
	nc := &NoopCollector{}
	return nc
}

var _ module.OrderingCacheMetrics = (*NoopCollector)(nil)

func (nc *NoopCollector) BatchesAvailable(count uint)        {}
func (nc *NoopCollector) TransactionsAvailable(count uint64) {}
func (nc *NoopCollector) TransactionsInUse(count uint64)     {}
func (nc *NoopCollector) BatchesPending(count uint)          {}
func (nc *NoopCollector) OnBatchPrepared()                   {}
func (nc *NoopCollector) OnMstStateUpdated()                 {}
func (nc *NoopCollector) OnBatchesFinalized(removed uint)    {}
