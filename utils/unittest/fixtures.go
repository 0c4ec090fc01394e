package unittest

import (
	crand "crypto/rand"
	"encoding/hex"

	"github.com/soramitsu/iroha-ordering/model/iroha"
)

// IdentifierFixture returns a random identifier.
func IdentifierFixture() iroha.Identifier {
	var id iroha.Identifier
	readRand(id[:])
	return id
}

// SignatureFixture returns a random transaction signature.
func SignatureFixture() iroha.TransactionSignature {
	return iroha.TransactionSignature{
		SignedData: hexFixture(64),
		PublicKey:  hexFixture(32),
	}
}

// TransactionFixture returns a transaction with quorum 1 and no signatures,
// adjusted by the given options.
func TransactionFixture(opts ...func(*iroha.Transaction)) *iroha.Transaction {
	tx := &iroha.Transaction{
		Hash:        IdentifierFixture(),
		ReducedHash: IdentifierFixture(),
		CreatedTime: 1_600_000_000_000,
		Quorum:      1,
	}
	for _, opt := range opts {
		opt(tx)
	}
	return tx
}

func WithQuorum(quorum uint32) func(*iroha.Transaction) {
	return func(tx *iroha.Transaction) {
		tx.Quorum = quorum
	}
}

func WithCreatedTime(ts uint64) func(*iroha.Transaction) {
	return func(tx *iroha.Transaction) {
		tx.CreatedTime = ts
	}
}

func WithSignatureCount(count int) func(*iroha.Transaction) {
	return func(tx *iroha.Transaction) {
		tx.Signatures = nil
		for i := 0; i < count; i++ {
			tx.Signatures = append(tx.Signatures, SignatureFixture())
		}
	}
}

// BatchConfig drives BatchFixture.
type BatchConfig struct {
	// TxCount is the number of transactions in the batch.
	TxCount int
	// Quorum is the signature quorum of every transaction.
	Quorum uint32
	// SignatureCount is the number of signatures already present per
	// transaction.
	SignatureCount int
	// CreatedTimes overrides the creation time per transaction, by position.
	CreatedTimes []uint64
}

// BatchFixture returns a batch of fresh transactions. By default it holds
// one transaction with quorum 1 and one signature, i.e. a complete batch.
func BatchFixture(opts ...func(*BatchConfig)) *iroha.TransactionBatch {
	conf := BatchConfig{
		TxCount:        1,
		Quorum:         1,
		SignatureCount: 1,
	}
	for _, opt := range opts {
		opt(&conf)
	}

	txs := make([]*iroha.Transaction, 0, conf.TxCount)
	for i := 0; i < conf.TxCount; i++ {
		tx := TransactionFixture(
			WithQuorum(conf.Quorum),
			WithSignatureCount(conf.SignatureCount),
		)
		if i < len(conf.CreatedTimes) {
			tx.CreatedTime = conf.CreatedTimes[i]
		}
		txs = append(txs, tx)
	}
	return iroha.NewTransactionBatch(txs)
}

func WithTxCount(count int) func(*BatchConfig) {
	return func(conf *BatchConfig) {
		conf.TxCount = count
	}
}

func WithBatchQuorum(quorum uint32) func(*BatchConfig) {
	return func(conf *BatchConfig) {
		conf.Quorum = quorum
	}
}

func WithSignatures(count int) func(*BatchConfig) {
	return func(conf *BatchConfig) {
		conf.SignatureCount = count
	}
}

func WithCreatedTimes(timestamps ...uint64) func(*BatchConfig) {
	return func(conf *BatchConfig) {
		conf.CreatedTimes = timestamps
	}
}

// ResubmittedBatch clones the batch as a fresh submission of the same
// logical batch, carrying the original signatures plus extra new ones per
// transaction. The clone shares no transaction objects with the original,
// the way a batch re-received from the network shares nothing with the held
// copy.
func ResubmittedBatch(batch *iroha.TransactionBatch, extra int) *iroha.TransactionBatch {
	txs := make([]*iroha.Transaction, 0, len(batch.Transactions))
	for _, tx := range batch.Transactions {
		clone := &iroha.Transaction{
			Hash:        tx.Hash,
			ReducedHash: tx.ReducedHash,
			CreatedTime: tx.CreatedTime,
			Quorum:      tx.Quorum,
			Signatures:  append([]iroha.TransactionSignature(nil), tx.Signatures...),
		}
		for i := 0; i < extra; i++ {
			clone.Signatures = append(clone.Signatures, SignatureFixture())
		}
		txs = append(txs, clone)
	}
	return iroha.NewTransactionBatch(txs)
}

// CoSignedBatch clones the batch as a submission from a different signer:
// the same transactions, but carrying only that signer's fresh signatures,
// none of the ones already collected on the original.
func CoSignedBatch(batch *iroha.TransactionBatch, count int) *iroha.TransactionBatch {
	txs := make([]*iroha.Transaction, 0, len(batch.Transactions))
	for _, tx := range batch.Transactions {
		clone := &iroha.Transaction{
			Hash:        tx.Hash,
			ReducedHash: tx.ReducedHash,
			CreatedTime: tx.CreatedTime,
			Quorum:      tx.Quorum,
		}
		for i := 0; i < count; i++ {
			clone.Signatures = append(clone.Signatures, SignatureFixture())
		}
		txs = append(txs, clone)
	}
	return iroha.NewTransactionBatch(txs)
}

// HashesOf collects the full transaction hashes of the given batches into a
// set, the shape finality notifications arrive in.
func HashesOf(batches ...*iroha.TransactionBatch) map[iroha.Identifier]struct{} {
	hashes := make(map[iroha.Identifier]struct{})
	for _, batch := range batches {
		for _, tx := range batch.Transactions {
			hashes[tx.Hash] = struct{}{}
		}
	}
	return hashes
}

func hexFixture(n int) string {
	buf := make([]byte, n)
	readRand(buf)
	return hex.EncodeToString(buf)
}

func readRand(buf []byte) {
	if _, err := crand.Read(buf); err != nil {
		panic("could not read randomness: " + err.Error())
	}
}
