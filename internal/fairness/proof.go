package fairness

import (
	"encoding/hex"
	"time"

	"fairdraw/internal/models"
)

// BuildProof assembles the immutable audit record for a completed draw.
// Before anything is written it re-checks that the revealed seed still hashes
// to the commitment published before entries closed; a mismatch means the
// stored records were tampered with and the draw must halt
// (ErrSeedCommitmentMismatch). includeRecords controls the full-disclosure
// tradeoff: when true the proof carries every entry's score, when false only
// the winner's record plus the entry count, which is still enough for a third
// party to re-verify against an externally supplied entry list.
func BuildProof(giveawayID, commitment string, seed []byte, outcome *SelectionOutcome, includeRecords bool) (*models.FairnessProof, error) {
	if !VerifyCommitment(seed, commitment) {
		return nil, ErrSeedCommitmentMismatch
	}

	winner := outcome.Winner
	proof := &models.FairnessProof{
		GiveawayID:               giveawayID,
		WinnerEntryID:            winner.ID,
		WinnerUserID:             winner.UserID,
		Seed:                     append([]byte(nil), seed...),
		Commitment:               commitment,
		TotalEntries:             len(outcome.Records),
		WinnerDeterministicInput: winner.DeterministicInput,
		WinnerKeyedValue:         hex.EncodeToString(KeyedValue(seed, winner.DeterministicInput)),
		SelectionRule:            models.SelectionRuleHMACSHA256MaxLex,
		CreatedAt:                time.Now().UTC(),
	}
	if includeRecords {
		proof.Records = outcome.Records
	}
	return proof, nil
}
