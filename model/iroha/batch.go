package iroha

// TransactionBatch is an atomic group of transactions submitted together,
// possibly waiting for signatures from multiple parties. The batch keeps its
// identity across resubmission: two submissions with the same reduced hash
// refer to the same logical batch even though they arrive as distinct
// objects carrying different signature sets.
type TransactionBatch struct {
	// Transactions in submission order. Never empty.
	Transactions []*Transaction

	reducedHash Identifier
}

// NewTransactionBatch assembles a batch from the given transactions and
// derives its identity from their reduced hashes.
func NewTransactionBatch(txs []*Transaction) *TransactionBatch {
	if len(txs) == 0 {
		panic("transaction batch must not be empty")
	}
	hashes := make([]Identifier, 0, len(txs))
	for _, tx := range txs {
		hashes = append(hashes, tx.ReducedHash)
	}
	return &TransactionBatch{
		Transactions: txs,
		reducedHash:  MakeID(hashes),
	}
}

// ReducedHash is the batch identity: the hash of the contained transactions'
// reduced hashes, independent of any signatures collected so far.
func (b *TransactionBatch) ReducedHash() Identifier {
	return b.reducedHash
}

// HasAllSignatures reports whether every transaction in the batch has reached
// its signature quorum, i.e. the batch is ready to be proposed.
func (b *TransactionBatch) HasAllSignatures() bool {
	for _, tx := range b.Transactions {
		if !tx.HasQuorum() {
			return false
		}
	}
	return true
}

// TxCount returns the number of transactions in the batch.
func (b *TransactionBatch) TxCount() uint64 {
	return uint64(len(b.Transactions))
}
