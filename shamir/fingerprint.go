package shamir

import (
	"encoding/binary"
	"encoding/hex"
	"io"
	"math/big"

	"golang.org/x/crypto/sha3"

	"github.com/vitalvas/sssrecover/field"
)

// Fingerprint returns a hex SHA3-256 digest identifying the field and the
// ordered shares. It does not reveal share values and is meant for logs.
//
// Layout hashed: len(p) | p | for each share: len(x) | x | len(y) | y,
// lengths as big-endian uint32, integers as big-endian bytes.
func Fingerprint(f *field.Field, shares []*Share) string {
	h := sha3.New256()

	writeInt(h, f.Prime())
	for _, share := range shares {
		writeInt(h, share.X)
		writeInt(h, share.Y)
	}

	return hex.EncodeToString(h.Sum(nil))
}

func writeInt(w io.Writer, n *big.Int) {
	b := n.Bytes()

	var size [4]byte
	binary.BigEndian.PutUint32(size[:], uint32(len(b)))

	_, _ = w.Write(size[:])
	_, _ = w.Write(b)
}
