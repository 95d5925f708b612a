package hasher

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"
)

// Hash возвращает SHA-256 хэш входной строки в виде hex.
func Hash(s string) string {
	h := sha256.Sum256([]byte(s))
	return hex.EncodeToString(h[:])
}

// Key builds a stable hex digest from an ordered list of parts.
// Parts are length-prefixed so ("ab","c") and ("a","bc") never collide.
func Key(parts ...string) string {
	var b strings.Builder
	for _, p := range parts {
		b.WriteString(strconv.Itoa(len(p)))
		b.WriteByte(':')
		b.WriteString(p)
	}
	return Hash(b.String())
}

// Floats formats values with full precision for use as Key parts.
func Floats(values []float64) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = strconv.FormatFloat(v, 'g', -1, 64)
	}
	return out
}
