package stdmap

import (
	"fmt"

	"github.com/soramitsu/iroha-ordering/model/iroha"
)

// BatchesContext is a counted set of unique transaction batches keyed by
// reduced hash.
//
// NOTE: BatchesContext is non-blocking. Concurrency management is done by
// the overlay BatchesCache, which owns all synchronization.
type BatchesContext struct {
	batches map[iroha.Identifier]*iroha.TransactionBatch
	txCount uint64
}

func NewBatchesContext() *BatchesContext {
	return &BatchesContext{
		batches: make(map[iroha.Identifier]*iroha.TransactionBatch),
	}
}

// Insert adds the batch if its identity is absent and accounts for its
// transactions. Returns whether the batch was inserted; false means a
// duplicate and leaves the set untouched.
func (c *BatchesContext) Insert(batch *iroha.TransactionBatch) bool {
	key := batch.ReducedHash()
	if _, exists := c.batches[key]; exists {
		return false
	}
	c.batches[key] = batch
	c.txCount += batch.TxCount()
	c.checkTxCount()
	return true
}

// Remove drops the batch with the same identity if present. Returns whether
// a batch was removed.
func (c *BatchesContext) Remove(batch *iroha.TransactionBatch) bool {
	key := batch.ReducedHash()
	held, exists := c.batches[key]
	if !exists {
		return false
	}
	delete(c.batches, key)
	c.txCount -= held.TxCount()
	c.checkTxCount()
	return true
}

// Merge drains every batch from the other context whose identity is not yet
// present here, transferring its transaction count. Batches already present
// stay in the other context; the caller handles leftovers.
func (c *BatchesContext) Merge(from *BatchesContext) {
	for key, batch := range from.batches {
		if _, exists := c.batches[key]; exists {
			continue
		}
		c.batches[key] = batch
		delete(from.batches, key)
		c.txCount += batch.TxCount()
		from.txCount -= batch.TxCount()
	}
	c.checkTxCount()
	from.checkTxCount()
}

// RemoveIf drops every batch the predicate selects and returns how many
// batches were removed.
func (c *BatchesContext) RemoveIf(pred func(*iroha.TransactionBatch) bool) uint {
	var removed uint
	for key, batch := range c.batches {
		if pred(batch) {
			delete(c.batches, key)
			c.txCount -= batch.TxCount()
			removed++
		}
	}
	c.checkTxCount()
	return removed
}

// Batches exposes the underlying collection keyed by reduced hash. Callers
// must not retain the map beyond the access they were granted.
func (c *BatchesContext) Batches() map[iroha.Identifier]*iroha.TransactionBatch {
	return c.batches
}

// TxCount returns the total number of transactions across all batches.
func (c *BatchesContext) TxCount() uint64 {
	return c.txCount
}

// Size returns the number of batches.
func (c *BatchesContext) Size() uint {
	return uint(len(c.batches))
}

// IsEmpty reports whether the set holds no batches.
func (c *BatchesContext) IsEmpty() bool {
	return len(c.batches) == 0
}

// checkTxCount re-derives the transaction counter from the stored batches.
// Drift means a mutation bypassed the counting operations, which corrupts
// proposal sizing, so it fails loudly instead of propagating.
func (c *BatchesContext) checkTxCount() {
	var sum uint64
	for _, batch := range c.batches {
		sum += batch.TxCount()
	}
	if sum != c.txCount {
		panic(fmt.Sprintf("batches context counter drift: have %d, want %d", c.txCount, sum))
	}
}
