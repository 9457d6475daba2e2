package bootstrap

import "github.com/leapstack-labs/sqllab/pkg/core"

// DedupeTabHistory collapses runs of the same tab id into one entry.
// Only adjacent repeats are dropped: [a a b a] becomes [a b a], since
// returning to a tab later is a real navigation step.
func DedupeTabHistory(history []core.ID) []core.ID {
	deduped := make([]core.ID, 0, len(history))
	for _, id := range history {
		if n := len(deduped); n > 0 && deduped[n-1] == id {
			continue
		}
		deduped = append(deduped, id)
	}
	return deduped
}
