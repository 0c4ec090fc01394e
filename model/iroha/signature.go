package iroha

// TransactionSignature is one signature over a transaction's reduced payload.
// Two signatures are considered equal iff both the signed data and the public
// key match; the ordering service never verifies them cryptographically.
type TransactionSignature struct {
	// SignedData is the hex-encoded signature blob.
	SignedData string
	// PublicKey is the hex-encoded public key of the signer.
	PublicKey string
}
