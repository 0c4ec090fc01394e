package module

// OrderingCacheMetrics exposes the internal state of the batch cache to the
// metrics system.
type OrderingCacheMetrics interface {
	// BatchesAvailable tracks the number of complete batches ready to be
	// picked up by the next proposal.
	BatchesAvailable(count uint)

	// TransactionsAvailable tracks the number of transactions ready to be
	// picked up by the next proposal.
	TransactionsAvailable(count uint64)

	// TransactionsInUse tracks the number of transactions embedded in the
	// proposal currently under consideration.
	TransactionsInUse(count uint64)

	// BatchesPending tracks the number of batches still waiting for
	// signatures in the multi-signature holding area.
	BatchesPending(count uint)

	// OnBatchPrepared is called every time a batch becomes complete, whether
	// it arrived complete or was promoted out of the holding area.
	OnBatchPrepared()

	// OnMstStateUpdated is called every time a pending batch's signature
	// state changes without the batch becoming complete.
	OnMstStateUpdated()

	// OnBatchesFinalized is called with the number of batches purged by a
	// finality notification.
	OnBatchesFinalized(removed uint)
}
