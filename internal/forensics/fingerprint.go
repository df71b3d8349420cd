package forensics

import (
	"encoding/hex"
	"strings"

	"golang.org/x/crypto/blake2b"

	"originality/internal/chunk"
)

const DefaultFingerprintWindow = 50

type Fingerprint struct {
	Hash   string `json:"hash"`
	Window string `json:"window"`
}

// Fingerprints hashes overlapping word windows of the text. stride <= 0
// means half the window.
func Fingerprints(text string, size, stride int) []Fingerprint {
	if size <= 0 {
		size = DefaultFingerprintWindow
	}
	if stride <= 0 {
		stride = size / 2
	}
	windows := chunk.Windows(strings.Fields(text), size, stride)
	out := make([]Fingerprint, 0, len(windows))
	for _, w := range windows {
		sum := blake2b.Sum256([]byte(w.Text))
		out = append(out, Fingerprint{Hash: hex.EncodeToString(sum[:]), Window: w.Text})
	}
	return out
}
