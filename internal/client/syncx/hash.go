package syncx

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"

	"github.com/hvlab/settlement/internal/ledger"
)

// Digest returns a stable content hash of a project map: sha256 over its
// canonical JSON (map keys marshal sorted), excluding metadata. Unlike a
// process-local hash it is reproducible across restarts and clients, which
// makes remote change detection testable.
func Digest(projects map[string][]*ledger.LineItem) string {
	if projects == nil {
		projects = map[string][]*ledger.LineItem{}
	}
	b, err := json.Marshal(projects)
	if err != nil {
		// a project map is always marshalable; keep the signature clean
		return ""
	}
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}
