// Package ordering implements the engine that feeds the batch pool: batch
// submissions from the network layer, proposal notifications from the
// proposal builder, and finality notifications from the commit pipeline.
package ordering

import (
	"github.com/rs/zerolog"

	"github.com/soramitsu/iroha-ordering/model/iroha"
	"github.com/soramitsu/iroha-ordering/module/mempool"
)

// Engine is the inbound surface of the batch admission layer. It owns no
// state of its own; every call is delegated synchronously to the pool.
type Engine struct {
	log  zerolog.Logger
	pool mempool.BatchPool
}

// New creates a new ordering engine on top of the given batch pool.
func New(log zerolog.Logger, pool mempool.BatchPool) *Engine {
	e := &Engine{
		log:  log.With().Str("engine", "ordering").Logger(),
		pool: pool,
	}
	return e
}

// Ready returns a ready channel that is closed once the engine has fully
// started. The engine has no background work, so it is ready immediately.
func (e *Engine) Ready() <-chan struct{} {
	ready := make(chan struct{})
	close(ready)
	return ready
}

// Done returns a done channel that is closed once the engine has fully
// stopped.
func (e *Engine) Done() <-chan struct{} {
	done := make(chan struct{})
	close(done)
	return done
}

// SubmitBatch admits a batch received from the network layer, complete or
// not. Inputs are preconditioned by upstream stateless validation.
func (e *Engine) SubmitBatch(batch *iroha.TransactionBatch) {
	available := e.pool.Insert(batch)
	e.log.Debug().
		Str("batch", batch.ReducedHash().String()).
		Uint64("txs", batch.TxCount()).
		Uint64("available_txs", available).
		Msg("batch submitted")
}

// OnProposalBuilt is called by the proposal constructor with the batches it
// selected; they are marked as embedded until finality resolves them.
func (e *Engine) OnProposalBuilt(batches []*iroha.TransactionBatch) {
	e.pool.ProcessReceivedProposal(batches)
	e.log.Debug().Int("batches", len(batches)).Msg("proposal received")
}

// OnFinalized is called by the commit pipeline with the transaction hashes
// that reached finality, committed or permanently rejected.
func (e *Engine) OnFinalized(hashes map[iroha.Identifier]struct{}) {
	e.pool.Remove(hashes)
	e.log.Debug().Int("hashes", len(hashes)).Msg("finality notification processed")
}

// SweepExpired evicts pending batches whose expiry key fell below the given
// bound and returns how many batches were dropped.
func (e *Engine) SweepExpired(upTo uint64) uint {
	expired := e.pool.DropExpiredPending(upTo)
	for _, batch := range expired {
		e.log.Info().
			Str("batch", batch.ReducedHash().String()).
			Uint64("txs", batch.TxCount()).
			Msg("pending batch expired before completing its signature set")
	}
	return uint(len(expired))
}
