package pubsub

import (
	"sync"

	"github.com/soramitsu/iroha-ordering/model/iroha"
	"github.com/soramitsu/iroha-ordering/module/mempool"
)

type OnMstStateUpdatedConsumer = func(batch *iroha.TransactionBatch)
type OnMstPreparedConsumer = func(batch *iroha.TransactionBatch)

// MstDistributor subscribes for multi-signature state events from the batch
// pool and distributes them to subscribers.
type MstDistributor struct {
	stateUpdatedConsumers []OnMstStateUpdatedConsumer
	preparedConsumers     []OnMstPreparedConsumer
	mstConsumers          []mempool.MstConsumer
	lock                  sync.RWMutex
}

var _ mempool.MstConsumer = (*MstDistributor)(nil)

func NewMstDistributor() *MstDistributor {
	return &MstDistributor{
		stateUpdatedConsumers: make([]OnMstStateUpdatedConsumer, 0),
		preparedConsumers:     make([]OnMstPreparedConsumer, 0),
	}
}

func (d *MstDistributor) AddOnMstStateUpdatedConsumer(consumer OnMstStateUpdatedConsumer) {
	d.lock.Lock()
	defer d.lock.Unlock()
	d.stateUpdatedConsumers = append(d.stateUpdatedConsumers, consumer)
}

func (d *MstDistributor) AddOnMstPreparedConsumer(consumer OnMstPreparedConsumer) {
	d.lock.Lock()
	defer d.lock.Unlock()
	d.preparedConsumers = append(d.preparedConsumers, consumer)
}

func (d *MstDistributor) AddConsumer(consumer mempool.MstConsumer) {
	d.lock.Lock()
	defer d.lock.Unlock()
	d.mstConsumers = append(d.mstConsumers, consumer)
}

func (d *MstDistributor) OnMstStateUpdated(batch *iroha.TransactionBatch) {
	d.lock.RLock()
	defer d.lock.RUnlock()
	for _, consumer := range d.stateUpdatedConsumers {
		consumer(batch)
	}
	for _, consumer := range d.mstConsumers {
		consumer.OnMstStateUpdated(batch)
	}
}

func (d *MstDistributor) OnMstPrepared(batch *iroha.TransactionBatch) {
	d.lock.RLock()
	defer d.lock.RUnlock()
	for _, consumer := range d.preparedConsumers {
		consumer(batch)
	}
	for _, consumer := range d.mstConsumers {
		consumer.OnMstPrepared(batch)
	}
}
