package fairness

import (
	"crypto/hmac"
	"encoding/hex"

	"fairdraw/internal/models"
)

// Verify checks a published proof in weak mode: it recomputes the commitment
// from the revealed seed and the winner's keyed value from the seed and the
// winner's deterministic input, and compares both against the proof. Weak
// mode proves the winner's score is consistent with the seed, but not that no
// other entry scored higher; the result's Mode field makes that distinction
// explicit. Verify never mutates anything and needs no access beyond the
// proof itself, so any third party can run it.
func Verify(proof *models.FairnessProof) models.VerificationResult {
	result := models.VerificationResult{Mode: models.VerificationModeWeak}

	if len(proof.Seed) == 0 || proof.WinnerDeterministicInput == "" {
		result.Reasons = append(result.Reasons, models.ReasonMalformedProof)
		return result
	}

	if !VerifyCommitment(proof.Seed, proof.Commitment) {
		result.Reasons = append(result.Reasons, models.ReasonCommitmentMismatch)
	}

	wantMAC, err := hex.DecodeString(proof.WinnerKeyedValue)
	if err != nil || !hmac.Equal(KeyedValue(proof.Seed, proof.WinnerDeterministicInput), wantMAC) {
		result.Reasons = append(result.Reasons, models.ReasonKeyedValueMismatch)
	}

	result.Valid = len(result.Reasons) == 0
	return result
}

// VerifyAgainstEntries checks a proof in strong mode: on top of the weak-mode
// checks it re-runs the full selection over the supplied entry list and
// confirms the proof's winner is the entry the selection rule actually picks.
// The entry list is supplied by the caller (the same list the operator used);
// the verifier never fetches data itself.
func VerifyAgainstEntries(proof *models.FairnessProof, entries []models.Entry) models.VerificationResult {
	result := Verify(proof)
	result.Mode = models.VerificationModeStrong

	outcome, err := SelectWinner(proof.Seed, entries)
	if err != nil {
		result.Valid = false
		result.Reasons = append(result.Reasons, models.ReasonSelectionFailed)
		return result
	}

	if outcome.Winner.ID != proof.WinnerEntryID {
		result.Valid = false
		result.Reasons = append(result.Reasons, models.ReasonNotMaximal)
	} else if outcome.Winner.DeterministicInput != proof.WinnerDeterministicInput ||
		outcome.Winner.UserID != proof.WinnerUserID {
		result.Valid = false
		result.Reasons = append(result.Reasons, models.ReasonWinnerMismatch)
	}

	return result
}
