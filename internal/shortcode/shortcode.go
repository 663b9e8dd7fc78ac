// Package shortcode derives the short code of a link from its target URL.
package shortcode

import (
	"crypto/md5"
	"encoding/hex"
)

// Length is the number of hex characters in a short code.
const Length = 16

const offset = 8

// Generate returns the deterministic short code for rawURL: 16 hex characters
// taken from offset 8 of the URL's MD5 digest. Distinct URLs whose digests
// agree on that window map to the same code.
func Generate(rawURL string) string {
	sum := md5.Sum([]byte(rawURL))
	return hex.EncodeToString(sum[:])[offset : offset+Length]
}

// Valid reports whether code has the shape Generate produces.
func Valid(code string) bool {
	if len(code) != Length {
		return false
	}
	for i := 0; i < len(code); i++ {
		c := code[i]
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}
