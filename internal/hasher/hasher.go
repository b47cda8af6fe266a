// Package hasher provides xxHash64 content hashes for tile files. Pyramid
// levels of sparse montages contain many byte-identical background tiles;
// hashing makes the duplication measurable.
package hasher

import (
	"fmt"
	"io"

	"github.com/cespare/xxhash/v2"
)

// Sum returns the xxHash64 of data as 16 hex characters.
func Sum(data []byte) string {
	return fmt.Sprintf("%016x", xxhash.Sum64(data))
}

// SumReader computes the hash from a reader, streaming.
func SumReader(r io.Reader) (string, error) {
	h := xxhash.New()
	if _, err := io.Copy(h, r); err != nil {
		return "", err
	}
	return fmt.Sprintf("%016x", h.Sum64()), nil
}
