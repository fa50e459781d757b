package fairness

import (
	"bytes"
	"encoding/hex"
	"sort"

	"fairdraw/internal/models"
)

// SelectionOutcome is the result of one selection run: the winning entry and
// the score of every entry in canonical order (ascending by entry id).
type SelectionOutcome struct {
	Winner  models.Entry
	Records []models.SelectionRecord
}

// SelectWinner scores every entry with HMAC-SHA256(seed, deterministic_input)
// and picks the maximum. Digests are compared over their full 256-bit width
// as big-endian byte strings; truncating or converting through floating point
// would discard entropy and bias the draw. If two entries produce identical
// digests, the one with the lexicographically smallest deterministic input
// wins, which makes the outcome a pure function of the seed and the entry
// set: permuting the input list never changes the result.
//
// The entry set must be non-empty, and every deterministic input must be
// non-empty and unique within the set; a duplicate means the upstream entry
// list was assembled incorrectly and the draw must not proceed.
func SelectWinner(seed []byte, entries []models.Entry) (*SelectionOutcome, error) {
	if len(entries) == 0 {
		return nil, ErrNoEligibleEntries
	}

	seen := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		if e.DeterministicInput == "" {
			return nil, ErrEmptyEntryInput
		}
		if _, dup := seen[e.DeterministicInput]; dup {
			return nil, ErrDuplicateEntryInput
		}
		seen[e.DeterministicInput] = struct{}{}
	}

	// Canonical ordering so the recorded ordinals are reproducible no matter
	// how the caller happened to order the list.
	ordered := make([]models.Entry, len(entries))
	copy(ordered, entries)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].ID < ordered[j].ID })

	var (
		winner    models.Entry
		winnerMAC []byte
		records   = make([]models.SelectionRecord, 0, len(ordered))
	)
	for i, e := range ordered {
		mac := KeyedValue(seed, e.DeterministicInput)
		records = append(records, models.SelectionRecord{
			EntryID:            e.ID,
			DeterministicInput: e.DeterministicInput,
			KeyedValue:         hex.EncodeToString(mac),
			Ordinal:            i,
		})

		if winnerMAC == nil || beats(mac, e.DeterministicInput, winnerMAC, winner.DeterministicInput) {
			winner, winnerMAC = e, mac
		}
	}

	return &SelectionOutcome{Winner: winner, Records: records}, nil
}

// beats reports whether candidate (macA, inputA) wins over the incumbent
// (macB, inputB): larger digest wins, identical digests fall back to the
// smaller deterministic input.
func beats(macA []byte, inputA string, macB []byte, inputB string) bool {
	switch cmp := bytes.Compare(macA, macB); {
	case cmp != 0:
		return cmp > 0
	default:
		return inputA < inputB
	}
}
