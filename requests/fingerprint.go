package requests

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Fingerprint is the canonical hash of a command's argument values. Equal values give equal
// fingerprints regardless of map order; any changed value changes the fingerprint.
func Fingerprint(arguments map[string]any) (string, error) {
	keys := maps.Keys(arguments)
	slices.Sort(keys)

	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	enc.SetSortMapKeys(true)
	enc.UseCompactInts(true)
	enc.UseCompactFloats(true)

	if err := enc.EncodeArrayLen(len(keys)); err != nil {
		return "", err
	}

	for _, k := range keys {
		if err := enc.EncodeString(k); err != nil {
			return "", err
		}

		if err := enc.Encode(arguments[k]); err != nil {
			return "", fmt.Errorf("failed to encode argument %s: %w", k, err)
		}
	}

	sum := sha256.Sum256(buf.Bytes())
	return hex.EncodeToString(sum[:]), nil
}
