package iroha

import (
	"encoding/hex"

	"github.com/fxamacker/cbor/v2"
	"golang.org/x/crypto/sha3"
)

// Identifier represents the 32-byte content hash used to identify
// transactions and batches throughout the ordering service.
type Identifier [32]byte

// ZeroID is the lowest value in the identifier space.
var ZeroID = Identifier{}

// canonical CBOR so the same value always encodes to the same bytes
var encMode = func() cbor.EncMode {
	enc, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(err)
	}
	return enc
}()

// HashToID copies a raw hash into an identifier.
func HashToID(hash []byte) Identifier {
	var id Identifier
	copy(id[:], hash)
	return id
}

// MakeID derives the identifier of an arbitrary value by hashing its
// canonical encoding.
func MakeID(v interface{}) Identifier {
	data, err := encMode.Marshal(v)
	if err != nil {
		panic("could not encode value: " + err.Error())
	}
	digest := sha3.Sum256(data)
	return HashToID(digest[:])
}

func (id Identifier) String() string {
	return hex.EncodeToString(id[:])
}
