package fairness

import (
	"bytes"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fairdraw/internal/models"
)

func testProof(t *testing.T) (*models.FairnessProof, []models.Entry) {
	t.Helper()
	seed := bytes.Repeat([]byte{0x42}, SeedLen)
	entries := []models.Entry{
		{ID: "e1", UserID: "u1", DeterministicInput: "tx-9001"},
		{ID: "e2", UserID: "u2", DeterministicInput: "tx-9002"},
		{ID: "e3", UserID: "u3", DeterministicInput: "tx-9003"},
	}

	outcome, err := SelectWinner(seed, entries)
	require.NoError(t, err)
	proof, err := BuildProof("g-1", Commitment(seed), seed, outcome, true)
	require.NoError(t, err)
	return proof, entries
}

func TestBuildProof(t *testing.T) {
	t.Run("honest pipeline output", func(t *testing.T) {
		proof, _ := testProof(t)
		assert.Equal(t, "g-1", proof.GiveawayID)
		assert.Equal(t, 3, proof.TotalEntries)
		assert.Equal(t, models.SelectionRuleHMACSHA256MaxLex, proof.SelectionRule)
		assert.Len(t, proof.Records, 3)
		assert.Equal(t, hex.EncodeToString(KeyedValue(proof.Seed, proof.WinnerDeterministicInput)), proof.WinnerKeyedValue)
	})

	t.Run("winner-only disclosure omits the score log", func(t *testing.T) {
		seed := bytes.Repeat([]byte{0x42}, SeedLen)
		outcome, err := SelectWinner(seed, []models.Entry{{ID: "a", DeterministicInput: "x"}})
		require.NoError(t, err)

		proof, err := BuildProof("g-2", Commitment(seed), seed, outcome, false)
		require.NoError(t, err)
		assert.Empty(t, proof.Records)
		assert.Equal(t, 1, proof.TotalEntries)
	})

	t.Run("commitment mismatch halts", func(t *testing.T) {
		seed := bytes.Repeat([]byte{0x42}, SeedLen)
		outcome, err := SelectWinner(seed, []models.Entry{{ID: "a", DeterministicInput: "x"}})
		require.NoError(t, err)

		_, err = BuildProof("g-3", Commitment([]byte("some other seed")), seed, outcome, false)
		assert.ErrorIs(t, err, ErrSeedCommitmentMismatch)
	})
}

func TestVerify(t *testing.T) {
	t.Run("honest proof is valid in weak mode", func(t *testing.T) {
		proof, _ := testProof(t)
		result := Verify(proof)
		assert.True(t, result.Valid)
		assert.Equal(t, models.VerificationModeWeak, result.Mode)
		assert.Empty(t, result.Reasons)
	})

	t.Run("tampered seed", func(t *testing.T) {
		proof, _ := testProof(t)
		proof.Seed[0] ^= 0x01
		result := Verify(proof)
		assert.False(t, result.Valid)
		assert.Contains(t, result.Reasons, models.ReasonCommitmentMismatch)
		assert.Contains(t, result.Reasons, models.ReasonKeyedValueMismatch)
	})

	t.Run("tampered commitment", func(t *testing.T) {
		proof, _ := testProof(t)
		raw, err := hex.DecodeString(proof.Commitment)
		require.NoError(t, err)
		raw[5] ^= 0x80
		proof.Commitment = hex.EncodeToString(raw)

		result := Verify(proof)
		assert.False(t, result.Valid)
		assert.Equal(t, []models.FailureReason{models.ReasonCommitmentMismatch}, result.Reasons)
	})

	t.Run("tampered keyed value", func(t *testing.T) {
		proof, _ := testProof(t)
		raw, err := hex.DecodeString(proof.WinnerKeyedValue)
		require.NoError(t, err)
		raw[31] ^= 0x01
		proof.WinnerKeyedValue = hex.EncodeToString(raw)

		result := Verify(proof)
		assert.False(t, result.Valid)
		assert.Equal(t, []models.FailureReason{models.ReasonKeyedValueMismatch}, result.Reasons)
	})

	t.Run("proof without a seed is malformed", func(t *testing.T) {
		proof, _ := testProof(t)
		proof.Seed = nil
		result := Verify(proof)
		assert.False(t, result.Valid)
		assert.Equal(t, []models.FailureReason{models.ReasonMalformedProof}, result.Reasons)
	})
}

func TestVerifyAgainstEntries(t *testing.T) {
	t.Run("honest proof is valid in strong mode", func(t *testing.T) {
		proof, entries := testProof(t)
		result := VerifyAgainstEntries(proof, entries)
		assert.True(t, result.Valid)
		assert.Equal(t, models.VerificationModeStrong, result.Mode)
		assert.Empty(t, result.Reasons)
	})

	t.Run("swapped winner is caught", func(t *testing.T) {
		proof, entries := testProof(t)

		// Claim a different entry won, keeping its keyed value consistent
		// with the seed so weak mode alone would pass.
		for _, e := range entries {
			if e.ID == proof.WinnerEntryID {
				continue
			}
			proof.WinnerEntryID = e.ID
			proof.WinnerUserID = e.UserID
			proof.WinnerDeterministicInput = e.DeterministicInput
			proof.WinnerKeyedValue = hex.EncodeToString(KeyedValue(proof.Seed, e.DeterministicInput))
			break
		}

		assert.True(t, Verify(proof).Valid, "weak mode cannot detect a non-maximal winner")

		result := VerifyAgainstEntries(proof, entries)
		assert.False(t, result.Valid)
		assert.Contains(t, result.Reasons, models.ReasonNotMaximal)
	})

	t.Run("unusable entry list", func(t *testing.T) {
		proof, _ := testProof(t)
		result := VerifyAgainstEntries(proof, nil)
		assert.False(t, result.Valid)
		assert.Contains(t, result.Reasons, models.ReasonSelectionFailed)
	})
}
