package document

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"

	"golang.org/x/crypto/blake2b"

	"github.com/mmynk/mathnote/internal/models"
)

// errMalformed marks a stored value that is not a valid document.
var errMalformed = errors.New("malformed document")

// persisted mirrors models.DataModel but lets decode tell a missing "groups"
// field apart from an empty one.
type persisted struct {
	Groups *[]models.Group `json:"groups"`
}

// Encode serializes a document in the persisted format.
func Encode(doc models.DataModel) ([]byte, error) {
	if hasNilSlices(doc) {
		// Clone allocates every slice, and leaves the caller's value alone.
		doc = doc.Clone()
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	return data, nil
}

// Decode parses a persisted document. Values that are not a JSON object with
// a "groups" array are rejected.
func Decode(data []byte) (models.DataModel, error) {
	var p persisted
	if err := json.Unmarshal(data, &p); err != nil {
		return models.DataModel{}, fmt.Errorf("decode document: %w: %w", errMalformed, err)
	}
	if p.Groups == nil {
		return models.DataModel{}, fmt.Errorf("decode document: %w: missing groups", errMalformed)
	}

	doc := models.DataModel{Groups: *p.Groups}
	doc.Normalize()
	return doc, nil
}

func hasNilSlices(doc models.DataModel) bool {
	if doc.Groups == nil {
		return true
	}
	for _, g := range doc.Groups {
		if g.Notes == nil {
			return true
		}
	}
	return false
}

// fingerprint returns the hex BLAKE2b-256 digest of an encoded document.
func fingerprint(encoded []byte) string {
	sum := blake2b.Sum256(encoded)
	return hex.EncodeToString(sum[:])
}
