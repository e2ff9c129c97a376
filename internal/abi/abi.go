// Package abi renders integers as Ethereum ABI static words for FFI callers
// that parse a 0x-prefixed hex string.
package abi

import (
	"encoding/hex"
	"fmt"

	"github.com/holiman/uint256"
)

// WordSize is the width of one ABI word in bytes.
const WordSize = 32

// EncodeUint256 returns the 32-byte big-endian encoding of v as "0x" + 64 hex digits.
func EncodeUint256(v *uint256.Int) string {
	word := v.Bytes32()
	return "0x" + hex.EncodeToString(word[:])
}

// EncodeUint32 encodes v as an ABI uint32, which occupies a full word.
func EncodeUint32(v uint32) string {
	return EncodeUint256(uint256.NewInt(uint64(v)))
}

// DecodeUint256 parses a word produced by EncodeUint256.
func DecodeUint256(s string) (*uint256.Int, error) {
	if len(s) != 2+2*WordSize || s[:2] != "0x" {
		return nil, fmt.Errorf("abi: expected 0x followed by %d hex digits, got %q", 2*WordSize, s)
	}
	b, err := hex.DecodeString(s[2:])
	if err != nil {
		return nil, fmt.Errorf("abi: %w", err)
	}
	return new(uint256.Int).SetBytes32(b), nil
}
