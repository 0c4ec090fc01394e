package stdmap

import (
	"fmt"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/exp/slices"

	"github.com/soramitsu/iroha-ordering/model/iroha"
	"github.com/soramitsu/iroha-ordering/module"
	"github.com/soramitsu/iroha-ordering/module/mempool"
)

// pendingEntry pairs a held batch with the expiry key assigned on insertion.
type pendingEntry struct {
	batch     *iroha.TransactionBatch
	expiryKey uint64
}

// PendingBatches is the multi-signature holding area: incomplete batches
// indexed by identity and, in a secondary index, by an expiry key derived
// from the oldest transaction timestamp. The expiry key is a bookkeeping
// value made unique by linear probing, not a timestamp guarantee.
//
// Every method runs fully inside one exclusive section, so the two indexes
// always mutate together. Their sizes must stay equal; a skew means an update
// touched only one index and fails loudly.
type PendingBatches struct {
	mu          sync.Mutex
	log         zerolog.Logger
	consumer    mempool.MstConsumer
	metrics     module.OrderingCacheMetrics
	pending     map[iroha.Identifier]*pendingEntry
	expirations map[uint64]iroha.Identifier
}

func NewPendingBatches(log zerolog.Logger, consumer mempool.MstConsumer, collector module.OrderingCacheMetrics) *PendingBatches {
	return &PendingBatches{
		log:         log.With().Str("mempool", "pending_batches").Logger(),
		consumer:    consumer,
		metrics:     collector,
		pending:     make(map[iroha.Identifier]*pendingEntry),
		expirations: make(map[uint64]iroha.Identifier),
	}
}

// InsertOrMerge admits an incomplete batch into the holding area.
//
// If the identity is new, the batch is indexed under a probed expiry key and
// a state-updated notification is emitted. If a batch with the same identity
// is already held, the submission's signatures are merged into the held copy:
// no new signatures is a silent no-op; new signatures leave the batch either
// still incomplete (state-updated notification) or complete, in which case it
// is unindexed, announced as prepared, and returned for promotion into the
// available set. The returned batch is nil in every other case.
func (p *PendingBatches) InsertOrMerge(batch *iroha.TransactionBatch) *iroha.TransactionBatch {
	p.mu.Lock()
	defer p.mu.Unlock()
	defer p.checkIndexSizes()

	key := batch.ReducedHash()
	entry, exists := p.pending[key]
	if !exists {
		expiryKey := oldestTimestamp(batch)
		for {
			if _, taken := p.expirations[expiryKey]; !taken {
				break
			}
			expiryKey++
		}
		p.pending[key] = &pendingEntry{batch: batch, expiryKey: expiryKey}
		p.expirations[expiryKey] = key
		p.metrics.BatchesPending(uint(len(p.pending)))
		p.metrics.OnMstStateUpdated()
		p.log.Debug().
			Str("batch", key.String()).
			Uint64("expiry_key", expiryKey).
			Msg("incomplete batch held for more signatures")
		p.consumer.OnMstStateUpdated(batch)
		return nil
	}

	changed, added := mergeBatchSignatures(entry.batch, batch)
	if !added {
		return nil
	}

	if !entry.batch.HasAllSignatures() {
		p.metrics.OnMstStateUpdated()
		p.log.Debug().
			Str("batch", key.String()).
			Int("txs_changed", len(changed)).
			Msg("pending batch gained signatures")
		p.consumer.OnMstStateUpdated(entry.batch)
		return nil
	}

	delete(p.expirations, entry.expiryKey)
	delete(p.pending, key)
	p.metrics.BatchesPending(uint(len(p.pending)))
	p.metrics.OnBatchPrepared()
	p.log.Debug().
		Str("batch", key.String()).
		Int("txs_changed", len(changed)).
		Msg("pending batch completed its signature set")
	p.consumer.OnMstPrepared(entry.batch)
	return entry.batch
}

// Remove drops the entry with the given identity from both indexes. Absence
// is a normal condition and a silent no-op.
func (p *PendingBatches) Remove(key iroha.Identifier) {
	p.mu.Lock()
	defer p.mu.Unlock()
	defer p.checkIndexSizes()

	entry, exists := p.pending[key]
	if !exists {
		return
	}
	delete(p.expirations, entry.expiryKey)
	delete(p.pending, key)
	p.metrics.BatchesPending(uint(len(p.pending)))
}

// RemoveMatching drops every entry whose batch contains at least one
// transaction with a hash in the given set. No notification: the finality
// event that triggers this carries its own semantics upstream.
func (p *PendingBatches) RemoveMatching(hashes map[iroha.Identifier]struct{}) {
	p.mu.Lock()
	defer p.mu.Unlock()
	defer p.checkIndexSizes()

	for key, entry := range p.pending {
		if !batchContainsAny(entry.batch, hashes) {
			continue
		}
		delete(p.expirations, entry.expiryKey)
		delete(p.pending, key)
	}
	p.metrics.BatchesPending(uint(len(p.pending)))
}

// DropExpired evicts every entry whose expiry key is below the given bound
// and returns the evicted batches in key order, oldest first. No
// notification; the external sweep that calls this decides what to announce.
func (p *PendingBatches) DropExpired(upTo uint64) []*iroha.TransactionBatch {
	p.mu.Lock()
	defer p.mu.Unlock()
	defer p.checkIndexSizes()

	var keys []uint64
	for expiryKey := range p.expirations {
		if expiryKey < upTo {
			keys = append(keys, expiryKey)
		}
	}
	if len(keys) == 0 {
		return nil
	}
	slices.Sort(keys)

	batches := make([]*iroha.TransactionBatch, 0, len(keys))
	for _, expiryKey := range keys {
		key := p.expirations[expiryKey]
		batches = append(batches, p.pending[key].batch)
		delete(p.expirations, expiryKey)
		delete(p.pending, key)
	}
	p.metrics.BatchesPending(uint(len(p.pending)))
	p.log.Debug().Int("batches", len(batches)).Msg("expired pending batches evicted")
	return batches
}

// Size returns the number of held batches.
func (p *PendingBatches) Size() uint {
	p.mu.Lock()
	defer p.mu.Unlock()
	return uint(len(p.pending))
}

// checkIndexSizes verifies the identity index and the expiration index moved
// in lock-step. A skew corrupts expiration bookkeeping and fails loudly.
func (p *PendingBatches) checkIndexSizes() {
	if len(p.pending) != len(p.expirations) {
		panic(fmt.Sprintf("pending index skew: %d batches vs %d expiry keys",
			len(p.pending), len(p.expirations)))
	}
}
