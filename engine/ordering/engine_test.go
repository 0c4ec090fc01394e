package ordering_test

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soramitsu/iroha-ordering/engine/ordering"
	"github.com/soramitsu/iroha-ordering/model/iroha"
	"github.com/soramitsu/iroha-ordering/module/mempool/pubsub"
	"github.com/soramitsu/iroha-ordering/module/mempool/stdmap"
	"github.com/soramitsu/iroha-ordering/module/metrics"
	"github.com/soramitsu/iroha-ordering/utils/unittest"
)

type engineFixture struct {
	engine   *ordering.Engine
	cache    *stdmap.BatchesCache
	prepared []*iroha.TransactionBatch
	updated  []*iroha.TransactionBatch
}

func newEngineFixture() *engineFixture {
	f := &engineFixture{}
	distributor := pubsub.NewMstDistributor()
	distributor.AddOnMstPreparedConsumer(func(batch *iroha.TransactionBatch) {
		f.prepared = append(f.prepared, batch)
	})
	distributor.AddOnMstStateUpdatedConsumer(func(batch *iroha.TransactionBatch) {
		f.updated = append(f.updated, batch)
	})
	f.cache = stdmap.NewBatchesCache(zerolog.Nop(), distributor, metrics.NewNoopCollector())
	f.engine = ordering.New(zerolog.Nop(), f.cache)
	return f
}

func TestEngineLifecycle(t *testing.T) {
	f := newEngineFixture()
	<-f.engine.Ready()
	<-f.engine.Done()
}

func TestEngineSubmissionFlow(t *testing.T) {
	f := newEngineFixture()

	// 1 of 2 signatures: held for more signatures
	batch := unittest.BatchFixture(
		unittest.WithTxCount(2),
		unittest.WithBatchQuorum(2),
		unittest.WithSignatures(1),
	)
	f.engine.SubmitBatch(batch)
	require.True(t, f.cache.IsEmpty())
	require.Len(t, f.updated, 1)

	// second signer submits the same batch with their signature
	f.engine.SubmitBatch(unittest.ResubmittedBatch(batch, 1))
	require.False(t, f.cache.IsEmpty())
	require.Len(t, f.prepared, 1)
	assert.EqualValues(t, 2, f.cache.AvailableTxsCount())

	// proposal builder picks the batch up
	f.engine.OnProposalBuilt([]*iroha.TransactionBatch{f.prepared[0]})
	assert.EqualValues(t, 0, f.cache.AvailableTxsCount())
	assert.EqualValues(t, 2, f.cache.TxsCount())

	// the commit pipeline finalizes its transactions
	f.engine.OnFinalized(unittest.HashesOf(batch))
	assert.EqualValues(t, 0, f.cache.TxsCount())
}

func TestEngineSweepExpired(t *testing.T) {
	f := newEngineFixture()

	stale := unittest.BatchFixture(
		unittest.WithBatchQuorum(2),
		unittest.WithSignatures(1),
		unittest.WithCreatedTimes(100),
	)
	fresh := unittest.BatchFixture(
		unittest.WithBatchQuorum(2),
		unittest.WithSignatures(1),
		unittest.WithCreatedTimes(900),
	)
	f.engine.SubmitBatch(stale)
	f.engine.SubmitBatch(fresh)
	require.EqualValues(t, 2, f.cache.PendingSize())

	dropped := f.engine.SweepExpired(500)
	assert.EqualValues(t, 1, dropped)
	assert.EqualValues(t, 1, f.cache.PendingSize())

	t.Run("nothing left to sweep", func(t *testing.T) {
		assert.EqualValues(t, 0, f.engine.SweepExpired(500))
	})
}
