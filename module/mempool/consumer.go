package mempool

import (
	"github.com/soramitsu/iroha-ordering/model/iroha"
)

// MstConsumer consumes multi-signature state notifications emitted by the
// batch pool. Implementations must be non-blocking: notifications are emitted
// synchronously from inside the pool's critical sections, fire-and-forget.
type MstConsumer interface {
	// OnMstStateUpdated is emitted when a pending batch gained signatures or
	// entered the holding area but is still incomplete.
	OnMstStateUpdated(batch *iroha.TransactionBatch)

	// OnMstPrepared is emitted when a batch just became complete, whether by
	// signature accumulation or because it arrived fully signed.
	OnMstPrepared(batch *iroha.TransactionBatch)
}
