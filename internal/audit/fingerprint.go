package audit

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gowebpki/jcs"

	"github.com/dshills/grantcritic/internal/schema"
)

// Fingerprint returns "sha256:<hex>" over the canonical JSON (RFC 8785) of
// the result with its timestamp zeroed. Two audits of identical input share a
// fingerprint.
func Fingerprint(r schema.AuditResult) (string, error) {
	r.Timestamp = time.Time{}
	raw, err := json.Marshal(r)
	if err != nil {
		return "", fmt.Errorf("marshaling audit result: %w", err)
	}
	canon, err := jcs.Transform(raw)
	if err != nil {
		return "", fmt.Errorf("canonicalizing audit result: %w", err)
	}
	sum := sha256.Sum256(canon)
	return "sha256:" + hex.EncodeToString(sum[:]), nil
}
