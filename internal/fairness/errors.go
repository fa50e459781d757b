package fairness

import "errors"

// Sequencing errors: the caller invoked an operation out of the commit →
// close → reveal → draw order. These indicate an integration bug and are
// always surfaced, never retried.
var (
	ErrAlreadyCommitted   = errors.New("fairness: seed already committed for giveaway")
	ErrPrematureReveal    = errors.New("fairness: seed reveal requested before entries closed")
	ErrAlreadyRevealed    = errors.New("fairness: seed already revealed for giveaway")
	ErrSeedNotRevealed    = errors.New("fairness: seed not yet revealed for giveaway")
	ErrProofAlreadyExists = errors.New("fairness: fairness proof already recorded for giveaway")
)

// Integrity errors: upstream data is corrupt or incomplete. The pipeline for
// the affected giveaway must halt; a winner is never drawn from a suspect
// entry list.
var (
	ErrNoEligibleEntries      = errors.New("fairness: no eligible entries to select from")
	ErrDuplicateEntryInput    = errors.New("fairness: duplicate deterministic input in entry set")
	ErrEmptyEntryInput        = errors.New("fairness: entry has empty deterministic input")
	ErrSeedCommitmentMismatch = errors.New("fairness: seed does not match recorded commitment")
)
