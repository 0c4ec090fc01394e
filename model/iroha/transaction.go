package iroha

// Transaction is a single client transaction as seen by the ordering service.
// The payload itself is opaque at this layer; upstream stateless validation
// has already checked structure, hashes and signature encoding.
type Transaction struct {
	// Hash is the full transaction hash assigned by upstream validation.
	Hash Identifier

	// ReducedHash identifies the transaction payload without its signatures,
	// so it is stable across resubmissions carrying different signature sets.
	ReducedHash Identifier

	// CreatedTime is the client-assigned logical creation time.
	CreatedTime uint64

	// Quorum is the number of distinct signatures required before the
	// transaction counts as fully signed.
	Quorum uint32

	// Signatures collected so far.
	Signatures []TransactionSignature
}

// AddSignature appends the (signedData, publicKey) pair unless an equal pair
// is already present. Returns whether the signature was added. Signatures are
// only ever added through this path, never removed.
func (tx *Transaction) AddSignature(signedData string, publicKey string) bool {
	for _, sig := range tx.Signatures {
		if sig.SignedData == signedData && sig.PublicKey == publicKey {
			return false
		}
	}
	tx.Signatures = append(tx.Signatures, TransactionSignature{
		SignedData: signedData,
		PublicKey:  publicKey,
	})
	return true
}

// HasQuorum reports whether the transaction has collected enough signatures.
func (tx *Transaction) HasQuorum() bool {
	return uint32(len(tx.Signatures)) >= tx.Quorum
}
