// internal/bank/random.go

package bank

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"math/rand/v2"
)

// NewRandSource 建立以 crypto/rand 取種子的 PCG 產生器，供 Registry 產生帳號與密碼。
func NewRandSource() (*rand.Rand, error) {
	var b [16]byte
	if _, err := crand.Read(b[:]); err != nil {
		return nil, fmt.Errorf("read random seed: %w", err)
	}
	return rand.New(rand.NewPCG(binary.LittleEndian.Uint64(b[:8]), binary.LittleEndian.Uint64(b[8:]))), nil
}
