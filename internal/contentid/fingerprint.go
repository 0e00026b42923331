package contentid

import (
	"crypto/sha256"
	"encoding/hex"
)

// fingerprintBytes controls digest width: 16 bytes yields 32 hex characters,
// plenty for collision-free artifact naming within a single podcast.
const fingerprintBytes = 16

// Fingerprint returns a fixed-width deterministic digest of the UTF-8
// encoding of text. Identical input always yields identical output.
func Fingerprint(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:fingerprintBytes])
}
