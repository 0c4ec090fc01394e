package mempool

import (
	"github.com/soramitsu/iroha-ordering/model/iroha"
)

// BatchSet is the invariant-preserving counted batch collection handed out to
// proposal builders. Mutations through this interface keep the transaction
// counter consistent with the stored batches.
type BatchSet interface {
	// Insert adds the batch if its identity is absent. Returns whether the
	// batch was inserted; false means a duplicate and is a no-op.
	Insert(batch *iroha.TransactionBatch) bool

	// Remove drops the batch with the same identity if present. Returns
	// whether a batch was removed.
	Remove(batch *iroha.TransactionBatch) bool

	// Batches exposes the underlying collection keyed by reduced hash.
	// Callers must not retain the map beyond the access they were granted.
	Batches() map[iroha.Identifier]*iroha.TransactionBatch

	// TxCount returns the total number of transactions across all batches.
	TxCount() uint64

	// Size returns the number of batches.
	Size() uint

	// IsEmpty reports whether the set holds no batches.
	IsEmpty() bool
}

// BatchPool is the admission and aggregation pool for transaction batches:
// it deduplicates submissions, accumulates multi-signature state until a
// batch is complete, and tracks which batches are available for proposal
// versus embedded in the proposal under consideration.
type BatchPool interface {
	// Insert admits a received batch, complete or not, and returns the
	// number of transactions currently available for proposal.
	Insert(batch *iroha.TransactionBatch) uint64

	// Remove purges every batch containing one of the finalized transaction
	// hashes, draining the in-use set back into the available set first.
	Remove(hashes map[iroha.Identifier]struct{})

	// IsEmpty reports whether no batches are available for proposal. Pending
	// and in-use batches do not count.
	IsEmpty() bool

	// TxsCount returns the number of available plus in-use transactions.
	TxsCount() uint64

	// AvailableTxsCount returns the number of available transactions only.
	AvailableTxsCount() uint64

	// ForCachedBatches grants the callback exclusive access to the available
	// batch set while a proposal is built. References obtained inside the
	// callback must not escape it.
	ForCachedBatches(fn func(available BatchSet))

	// ProcessReceivedProposal marks the given batches as embedded in the
	// proposal under consideration, moving them from available to in-use.
	ProcessReceivedProposal(batches []*iroha.TransactionBatch)

	// DropExpiredPending evicts pending batches whose expiry key is below
	// the given bound and returns them, oldest key first.
	DropExpiredPending(upTo uint64) []*iroha.TransactionBatch
}
