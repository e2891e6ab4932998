package crypto

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
)

// TallyDigest fingerprints a tally snapshot.  Choices are hashed in
// lexicographic order as "<choice>:<count>", so the result depends only on
// the counts themselves, never on map iteration order.
func TallyDigest(counts map[string]int) string {
	choices := make([]string, 0, len(counts))
	for c := range counts {
		choices = append(choices, c)
	}
	sort.Strings(choices)

	h := sha256.New()
	for _, c := range choices {
		fmt.Fprintf(h, "%s:%d", c, counts[c])
	}
	return hex.EncodeToString(h.Sum(nil))
}
