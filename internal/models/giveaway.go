package models

import "time"

// Giveaway status values. A giveaway opens for entries, closes at EndsAt,
// and is finalized once a fairness proof has been recorded for it.
const (
	GiveawayStatusOpen      = "open"
	GiveawayStatusClosed    = "closed"
	GiveawayStatusFinalized = "finalized"
)

// Giveaway is the marketplace entity a winner is drawn for. Entry purchase,
// payments and prize delivery live elsewhere; this service only needs the
// identity, the entry-close time and the finalization mark.
type Giveaway struct {
	ID            string    `json:"id" gorm:"primaryKey"`
	Title         string    `json:"title"`
	EndsAt        time.Time `json:"ends_at"`
	Status        string    `json:"status"`
	WinnerEntryID string    `json:"winner_entry_id,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// Entry is one paid entry in a giveaway, supplied by the entry/payment
// collaborator. DeterministicInput must be a stable, content-derived byte
// string for the entry (typically its payment transaction reference), never
// a positional index: the same entry must always produce the same input no
// matter how the list was fetched or ordered.
type Entry struct {
	ID                 string `json:"id"`
	UserID             string `json:"user_id"`
	DeterministicInput string `json:"deterministic_input"`
}

// SeedCommitment binds a giveaway to a secret seed through its published
// SHA-256 commitment. The commitment goes public before entries close; the
// seed stays secret until Revealed flips, exactly once, after close.
type SeedCommitment struct {
	GiveawayID  string     `json:"giveaway_id" gorm:"primaryKey"`
	Seed        []byte     `json:"-"`
	Commitment  string     `json:"commitment"`
	CommittedAt time.Time  `json:"committed_at"`
	Revealed    bool       `json:"revealed"`
	RevealedAt  *time.Time `json:"revealed_at,omitempty"`
}

// SelectionRecord is the per-entry score computed during a draw:
// KeyedValue = hex(HMAC-SHA256(seed, DeterministicInput)). Ordinal is the
// entry's position in the canonical ordering (ascending by entry id).
type SelectionRecord struct {
	EntryID            string `json:"entry_id"`
	DeterministicInput string `json:"deterministic_input"`
	KeyedValue         string `json:"keyed_value"`
	Ordinal            int    `json:"ordinal"`
}

// SelectionRuleHMACSHA256MaxLex tags the only selection rule this service
// implements: maximum full-width HMAC-SHA256 value wins, ties broken by the
// lexicographically smallest deterministic input.
const SelectionRuleHMACSHA256MaxLex = "HMAC_SHA256_MAX_LEX"

// FairnessProof is the immutable audit record for one draw. Everything a
// third party needs to recompute the outcome is here: the revealed seed, the
// pre-close commitment, and the winner's input and keyed value. Records
// optionally carries the full per-entry score log for full-disclosure
// deployments.
type FairnessProof struct {
	GiveawayID               string            `json:"giveaway_id" gorm:"primaryKey"`
	WinnerEntryID            string            `json:"winner_entry_id"`
	WinnerUserID             string            `json:"winner_user_id"`
	Seed                     []byte            `json:"seed"`
	Commitment               string            `json:"commitment"`
	TotalEntries             int               `json:"total_entries"`
	WinnerDeterministicInput string            `json:"winner_deterministic_input"`
	WinnerKeyedValue         string            `json:"winner_keyed_value"`
	SelectionRule            string            `json:"selection_rule"`
	Records                  []SelectionRecord `json:"records,omitempty" gorm:"serializer:json"`
	CreatedAt                time.Time         `json:"created_at"`
}

// Verification modes. Weak mode only proves the winner's keyed value is
// consistent with the seed; strong mode re-runs the whole selection against
// an externally supplied entry list and confirms the winner was maximal.
const (
	VerificationModeWeak   = "weak"
	VerificationModeStrong = "strong"
)

// FailureReason identifies one way a proof failed verification.
type FailureReason string

const (
	ReasonCommitmentMismatch FailureReason = "commitment_mismatch"
	ReasonKeyedValueMismatch FailureReason = "keyed_value_mismatch"
	ReasonNotMaximal         FailureReason = "not_maximal"
	ReasonWinnerMismatch     FailureReason = "winner_mismatch"
	ReasonMalformedProof     FailureReason = "malformed_proof"
	ReasonSelectionFailed    FailureReason = "selection_failed"
)

// VerificationResult is the outcome of checking a FairnessProof. A failed
// verification is an expected result, not an error: Reasons itemizes every
// check that did not hold.
type VerificationResult struct {
	Valid   bool            `json:"valid"`
	Mode    string          `json:"mode"`
	Reasons []FailureReason `json:"reasons,omitempty"`
}
