// Package kingo reproduces the Kingosoft portal's client-side string
// encryption (the `strEnc` routine served by SetKingoEncypt.jsp). The
// cipher core is textbook single DES; what makes it a variant is the
// packing: text is handled as UTF-16 code units, four units per 64-bit
// block, the key string is cut into 4-unit groups each forming its own
// DES key, and every data block is encrypted with each key group in turn.
// Output is the upper-case hex of the concatenated blocks, which is what
// the server expects to base64-decode and decrypt.
package kingo

import (
	"crypto/cipher"
	"crypto/des"
	"encoding/binary"
	"encoding/hex"
	"strings"
	"unicode/utf16"
)

// StrEnc encrypts data with the per-request key fetched from the portal.
// An empty key yields the identity packing (hex of the raw blocks), which
// mirrors the original routine; callers treat a missing key as a signing
// failure before ever getting here.
func StrEnc(data, key string) string {
	keys := keyBlocks(key)
	units := utf16.Encode([]rune(data))

	var out strings.Builder
	for i := 0; i < len(units); i += 4 {
		end := i + 4
		if end > len(units) {
			end = len(units)
		}
		block := packBlock(units[i:end])
		for _, k := range keys {
			k.Encrypt(block, block)
		}
		out.WriteString(strings.ToUpper(hex.EncodeToString(block)))
	}
	return out.String()
}

func keyBlocks(key string) []cipher.Block {
	units := utf16.Encode([]rune(key))

	var blocks []cipher.Block
	for i := 0; i < len(units); i += 4 {
		end := i + 4
		if end > len(units) {
			end = len(units)
		}
		// key size is always 8 here, NewCipher cannot fail
		c, err := des.NewCipher(packBlock(units[i:end]))
		if err != nil {
			panic(err)
		}
		blocks = append(blocks, c)
	}
	return blocks
}

// packBlock lays out up to four UTF-16 units big-endian into a zero-padded
// 64-bit block, matching the original's per-character bit expansion.
func packBlock(units []uint16) []byte {
	b := make([]byte, 8)
	for i, u := range units {
		binary.BigEndian.PutUint16(b[i*2:], u)
	}
	return b
}
