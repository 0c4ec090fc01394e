package stdmap

import (
	"fmt"

	"github.com/soramitsu/iroha-ordering/model/iroha"
)

// oldestTimestamp returns the smallest creation time across the batch's
// transactions. The fold is seeded with the first transaction rather than
// zero so it yields the true minimum; batches are non-empty by construction.
func oldestTimestamp(batch *iroha.TransactionBatch) uint64 {
	ts := batch.Transactions[0].CreatedTime
	for _, tx := range batch.Transactions[1:] {
		if tx.CreatedTime < ts {
			ts = tx.CreatedTime
		}
	}
	return ts
}

// mergeBatchSignatures copies every signature the donor carries and the
// target does not onto the target, pairing transactions positionally. Both
// batches must hold the same transactions in the same order; this is an
// upstream guarantee, so a length mismatch fails loudly. Returns the target
// transactions that gained signatures and whether any signature was new.
func mergeBatchSignatures(target, donor *iroha.TransactionBatch) ([]*iroha.Transaction, bool) {
	if len(target.Transactions) != len(donor.Transactions) {
		panic(fmt.Sprintf("cannot merge signatures of batches with %d and %d transactions",
			len(target.Transactions), len(donor.Transactions)))
	}

	var changed []*iroha.Transaction
	added := false
	for i, donorTx := range donor.Transactions {
		targetTx := target.Transactions[i]
		txChanged := false
		for _, sig := range donorTx.Signatures {
			if targetTx.AddSignature(sig.SignedData, sig.PublicKey) {
				added = true
				txChanged = true
			}
		}
		if txChanged {
			changed = append(changed, targetTx)
		}
	}
	return changed, added
}

// batchContainsAny reports whether the batch holds at least one transaction
// whose hash is in the given set.
func batchContainsAny(batch *iroha.TransactionBatch, hashes map[iroha.Identifier]struct{}) bool {
	for _, tx := range batch.Transactions {
		if _, ok := hashes[tx.Hash]; ok {
			return true
		}
	}
	return false
}
