package stdmap

import (
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soramitsu/iroha-ordering/model/iroha"
	"github.com/soramitsu/iroha-ordering/module/metrics"
	"github.com/soramitsu/iroha-ordering/utils/unittest"
)

// consumerRecorder captures emitted notifications for assertions.
type consumerRecorder struct {
	mu           sync.Mutex
	stateUpdated []*iroha.TransactionBatch
	prepared     []*iroha.TransactionBatch
}

func (c *consumerRecorder) OnMstStateUpdated(batch *iroha.TransactionBatch) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stateUpdated = append(c.stateUpdated, batch)
}

func (c *consumerRecorder) OnMstPrepared(batch *iroha.TransactionBatch) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.prepared = append(c.prepared, batch)
}

func newPendingFixture() (*PendingBatches, *consumerRecorder) {
	consumer := &consumerRecorder{}
	pending := NewPendingBatches(zerolog.Nop(), consumer, metrics.NewNoopCollector())
	return pending, consumer
}

func TestPendingInsertNew(t *testing.T) {
	pending, consumer := newPendingFixture()
	batch := unittest.BatchFixture(unittest.WithTxCount(2), unittest.WithBatchQuorum(3), unittest.WithSignatures(2))

	promoted := pending.InsertOrMerge(batch)
	require.Nil(t, promoted)
	assert.EqualValues(t, 1, pending.Size())
	assert.Len(t, consumer.stateUpdated, 1)
	assert.Empty(t, consumer.prepared)
}

func TestPendingMerge(t *testing.T) {
	pending, consumer := newPendingFixture()
	batch := unittest.BatchFixture(unittest.WithTxCount(2), unittest.WithBatchQuorum(3), unittest.WithSignatures(1))
	require.Nil(t, pending.InsertOrMerge(batch))

	t.Run("no new signatures is silent", func(t *testing.T) {
		require.Nil(t, pending.InsertOrMerge(unittest.ResubmittedBatch(batch, 0)))
		assert.Len(t, consumer.stateUpdated, 1)
		assert.Empty(t, consumer.prepared)
	})

	t.Run("new signatures below quorum update the state", func(t *testing.T) {
		require.Nil(t, pending.InsertOrMerge(unittest.ResubmittedBatch(batch, 1)))
		assert.Len(t, consumer.stateUpdated, 2)
		assert.Empty(t, consumer.prepared)
		assert.EqualValues(t, 1, pending.Size())
	})

	t.Run("reaching quorum promotes the held batch", func(t *testing.T) {
		promoted := pending.InsertOrMerge(unittest.ResubmittedBatch(batch, 2))
		require.NotNil(t, promoted)
		assert.Equal(t, batch.ReducedHash(), promoted.ReducedHash())
		assert.True(t, promoted.HasAllSignatures())
		assert.EqualValues(t, 0, pending.Size())
		assert.Len(t, consumer.prepared, 1)
		// the held copy is what gets promoted, not the last submission
		assert.Same(t, batch, promoted)
	})
}

func TestPendingExpiryKeyProbing(t *testing.T) {
	pending, _ := newPendingFixture()

	// same oldest timestamp forces the second batch onto a probed key
	first := unittest.BatchFixture(unittest.WithBatchQuorum(2), unittest.WithSignatures(1), unittest.WithCreatedTimes(100))
	second := unittest.BatchFixture(unittest.WithBatchQuorum(2), unittest.WithSignatures(1), unittest.WithCreatedTimes(100))

	require.Nil(t, pending.InsertOrMerge(first))
	require.Nil(t, pending.InsertOrMerge(second))
	assert.EqualValues(t, 2, pending.Size())

	t.Run("a bound below both keys evicts nothing", func(t *testing.T) {
		assert.Empty(t, pending.DropExpired(100))
		assert.EqualValues(t, 2, pending.Size())
	})

	t.Run("eviction returns batches in key order", func(t *testing.T) {
		expired := pending.DropExpired(102)
		require.Len(t, expired, 2)
		assert.Same(t, first, expired[0])
		assert.Same(t, second, expired[1])
		assert.EqualValues(t, 0, pending.Size())
	})
}

func TestPendingRemove(t *testing.T) {
	pending, consumer := newPendingFixture()
	batch := unittest.BatchFixture(unittest.WithBatchQuorum(2), unittest.WithSignatures(1))
	require.Nil(t, pending.InsertOrMerge(batch))

	t.Run("absent identity is a no-op", func(t *testing.T) {
		pending.Remove(unittest.IdentifierFixture())
		assert.EqualValues(t, 1, pending.Size())
	})

	t.Run("removal is silent", func(t *testing.T) {
		pending.Remove(batch.ReducedHash())
		assert.EqualValues(t, 0, pending.Size())
		assert.Len(t, consumer.stateUpdated, 1)
		assert.Empty(t, consumer.prepared)
	})

	t.Run("a removed identity can be held again", func(t *testing.T) {
		require.Nil(t, pending.InsertOrMerge(unittest.ResubmittedBatch(batch, 0)))
		assert.EqualValues(t, 1, pending.Size())
	})
}

func TestPendingRemoveMatching(t *testing.T) {
	pending, consumer := newPendingFixture()
	doomed := unittest.BatchFixture(unittest.WithTxCount(2), unittest.WithBatchQuorum(2), unittest.WithSignatures(1))
	kept := unittest.BatchFixture(unittest.WithTxCount(2), unittest.WithBatchQuorum(2), unittest.WithSignatures(1))
	require.Nil(t, pending.InsertOrMerge(doomed))
	require.Nil(t, pending.InsertOrMerge(kept))

	// one finalized hash is enough to purge the whole batch
	hashes := map[iroha.Identifier]struct{}{doomed.Transactions[1].Hash: {}}
	pending.RemoveMatching(hashes)

	assert.EqualValues(t, 1, pending.Size())
	assert.Empty(t, consumer.prepared)

	t.Run("unknown hashes are a no-op", func(t *testing.T) {
		pending.RemoveMatching(map[iroha.Identifier]struct{}{unittest.IdentifierFixture(): {}})
		assert.EqualValues(t, 1, pending.Size())
	})
}
