package contract

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
)

// Fingerprint returns a deterministic digest of the contract document.
// Two generation runs over identical input produce identical fingerprints,
// so callers can detect contract drift between runs without diffing the
// emitted source text.
func (d *Document) Fingerprint() (string, error) {
	raw, err := msgpack.Marshal(d)
	if err != nil {
		return "", fmt.Errorf("contract: encode snapshot: %w", err)
	}
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:]), nil
}
