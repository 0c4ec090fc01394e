package stdmap

import (
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/soramitsu/iroha-ordering/model/iroha"
	"github.com/soramitsu/iroha-ordering/module"
	"github.com/soramitsu/iroha-ordering/module/mempool"
)

// BatchesCache tracks every batch the ordering service may still propose:
// complete batches available for the next proposal, batches embedded in the
// proposal under consideration (in use), and incomplete batches held in the
// pending index until their signature set completes.
//
// A batch identity is resident in at most one of the three places at any
// externally observable instant. Two lock domains guard the state: one
// RWMutex over the (available, in-use) pair, and the pending index's own
// exclusive section. The domains are never nested, so they cannot deadlock;
// on the complete-insert path the pending purge strictly precedes the
// available insert in program order, which keeps the residency invariant.
type BatchesCache struct {
	mu        sync.RWMutex
	available *BatchesContext
	inUse     *BatchesContext
	pending   *PendingBatches

	log      zerolog.Logger
	consumer mempool.MstConsumer
	metrics  module.OrderingCacheMetrics
}

var _ mempool.BatchPool = (*BatchesCache)(nil)
var _ mempool.BatchSet = (*BatchesContext)(nil)

func NewBatchesCache(log zerolog.Logger, consumer mempool.MstConsumer, collector module.OrderingCacheMetrics) *BatchesCache {
	log = log.With().Str("mempool", "batches_cache").Logger()
	return &BatchesCache{
		available: NewBatchesContext(),
		inUse:     NewBatchesContext(),
		pending:   NewPendingBatches(log, consumer, collector),
		log:       log,
		consumer:  consumer,
		metrics:   collector,
	}
}

// Insert admits a received batch and returns the number of transactions
// currently available for proposal.
//
// A complete batch lands directly in the available set, unless it is already
// embedded in the proposal under consideration, and is announced as
// prepared; any stale pending entry with the same identity is purged first.
// An incomplete batch goes to the pending index, merging with any held copy
// of the same identity, and is promoted into the available set once the
// merge completes its signature set.
func (c *BatchesCache) Insert(batch *iroha.TransactionBatch) uint64 {
	if batch.HasAllSignatures() {
		c.pending.Remove(batch.ReducedHash())
		count := c.insertAvailable(batch)
		c.metrics.OnBatchPrepared()
		c.consumer.OnMstPrepared(batch)
		return count
	}

	if promoted := c.pending.InsertOrMerge(batch); promoted != nil {
		return c.insertAvailable(promoted)
	}
	return c.AvailableTxsCount()
}

// insertAvailable places a complete batch into the available set, unless its
// identity is already in use, and returns the available transaction count.
func (c *BatchesCache) insertAvailable(batch *iroha.TransactionBatch) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, used := c.inUse.batches[batch.ReducedHash()]; !used {
		if c.available.Insert(batch) {
			c.log.Debug().
				Str("batch", batch.ReducedHash().String()).
				Uint64("txs", batch.TxCount()).
				Msg("batch available for proposal")
		}
	}
	c.updateGauges()
	return c.available.TxCount()
}

// Remove purges every batch containing one of the finalized transaction
// hashes. "In use" only means "embedded in the proposal under consideration",
// and finality resolves that proposal one way or the other, so the in-use set
// is drained back into the available set before the purge and must end empty.
func (c *BatchesCache) Remove(hashes map[iroha.Identifier]struct{}) {
	c.pending.RemoveMatching(hashes)

	c.mu.Lock()
	defer c.mu.Unlock()

	c.available.Merge(c.inUse)
	if count := c.inUse.TxCount(); count != 0 {
		panic(fmt.Sprintf("in-use batches survived the finality drain: %d transactions left", count))
	}

	removed := c.available.RemoveIf(func(batch *iroha.TransactionBatch) bool {
		return batchContainsAny(batch, hashes)
	})
	c.metrics.OnBatchesFinalized(removed)
	c.updateGauges()
	c.log.Debug().
		Int("finalized_hashes", len(hashes)).
		Uint("batches_removed", removed).
		Msg("finalized transactions purged")
}

// IsEmpty reports whether no batches are available for proposal. Pending and
// in-use batches do not count.
func (c *BatchesCache) IsEmpty() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.available.IsEmpty()
}

// TxsCount returns the number of available plus in-use transactions.
func (c *BatchesCache) TxsCount() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.available.TxCount() + c.inUse.TxCount()
}

// AvailableTxsCount returns the number of available transactions only.
func (c *BatchesCache) AvailableTxsCount() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.available.TxCount()
}

// ForCachedBatches grants the callback exclusive access to the available set
// while a proposal is built. References obtained inside the callback must
// not escape it.
func (c *BatchesCache) ForCachedBatches(fn func(available mempool.BatchSet)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fn(c.available)
	c.updateGauges()
}

// ProcessReceivedProposal marks the given batches as embedded in the
// proposal under consideration, moving them from available to in-use.
func (c *BatchesCache) ProcessReceivedProposal(batches []*iroha.TransactionBatch) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, batch := range batches {
		c.available.Remove(batch)
		c.inUse.Insert(batch)
	}
	c.updateGauges()
	c.log.Debug().Int("batches", len(batches)).Msg("proposal batches marked in use")
}

// DropExpiredPending evicts pending batches whose expiry key is below the
// given bound and returns them, oldest key first.
func (c *BatchesCache) DropExpiredPending(upTo uint64) []*iroha.TransactionBatch {
	return c.pending.DropExpired(upTo)
}

// PendingSize returns the number of batches in the multi-signature holding
// area.
func (c *BatchesCache) PendingSize() uint {
	return c.pending.Size()
}

// updateGauges reports the batch-set sizes. Must run under the exclusive
// batch-sets lock.
func (c *BatchesCache) updateGauges() {
	c.metrics.BatchesAvailable(c.available.Size())
	c.metrics.TransactionsAvailable(c.available.TxCount())
	c.metrics.TransactionsInUse(c.inUse.TxCount())
}
