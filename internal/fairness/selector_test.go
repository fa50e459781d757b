package fairness

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fairdraw/internal/models"
)

func refHMAC(t *testing.T, seed []byte, input string) []byte {
	t.Helper()
	mac := hmac.New(sha256.New, seed)
	mac.Write([]byte(input))
	return mac.Sum(nil)
}

func TestSelectWinner(t *testing.T) {
	seed := bytes.Repeat([]byte{0x00}, SeedLen)

	t.Run("canonical cross-check against crypto/hmac", func(t *testing.T) {
		entries := []models.Entry{
			{ID: "a", UserID: "u-a", DeterministicInput: "X"},
			{ID: "b", UserID: "u-b", DeterministicInput: "Y"},
		}

		outcome, err := SelectWinner(seed, entries)
		require.NoError(t, err)

		// Recompute both scores independently and pick the larger one the
		// same way a third-party auditor would.
		macX := refHMAC(t, seed, "X")
		macY := refHMAC(t, seed, "Y")
		want := "a"
		if bytes.Compare(macY, macX) > 0 {
			want = "b"
		}
		assert.Equal(t, want, outcome.Winner.ID)

		require.Len(t, outcome.Records, 2)
		assert.Equal(t, hex.EncodeToString(macX), outcome.Records[0].KeyedValue)
		assert.Equal(t, hex.EncodeToString(macY), outcome.Records[1].KeyedValue)
	})

	t.Run("deterministic across invocations", func(t *testing.T) {
		entries := []models.Entry{
			{ID: "e1", DeterministicInput: "tx-1001"},
			{ID: "e2", DeterministicInput: "tx-1002"},
			{ID: "e3", DeterministicInput: "tx-1003"},
		}

		first, err := SelectWinner(seed, entries)
		require.NoError(t, err)
		for i := 0; i < 50; i++ {
			again, err := SelectWinner(seed, entries)
			require.NoError(t, err)
			assert.Equal(t, first.Winner, again.Winner)
			assert.Equal(t, first.Records, again.Records)
		}
	})

	t.Run("order independent", func(t *testing.T) {
		entries := make([]models.Entry, 0, 40)
		for i := 0; i < 40; i++ {
			entries = append(entries, models.Entry{
				ID:                 string(rune('a'+i%26)) + string(rune('0'+i/26)),
				DeterministicInput: refHex(seed, i),
			})
		}

		want, err := SelectWinner(seed, entries)
		require.NoError(t, err)

		rng := rand.New(rand.NewSource(7))
		for i := 0; i < 20; i++ {
			shuffled := make([]models.Entry, len(entries))
			copy(shuffled, entries)
			rng.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })

			got, err := SelectWinner(seed, shuffled)
			require.NoError(t, err)
			assert.Equal(t, want.Winner, got.Winner)
			assert.Equal(t, want.Records, got.Records, "records must come back in canonical order")
		}
	})

	t.Run("records carry canonical ordinals", func(t *testing.T) {
		entries := []models.Entry{
			{ID: "c", DeterministicInput: "in-c"},
			{ID: "a", DeterministicInput: "in-a"},
			{ID: "b", DeterministicInput: "in-b"},
		}

		outcome, err := SelectWinner(seed, entries)
		require.NoError(t, err)
		require.Len(t, outcome.Records, 3)
		for i, id := range []string{"a", "b", "c"} {
			assert.Equal(t, id, outcome.Records[i].EntryID)
			assert.Equal(t, i, outcome.Records[i].Ordinal)
		}
	})

	t.Run("empty entry set", func(t *testing.T) {
		_, err := SelectWinner(seed, nil)
		assert.ErrorIs(t, err, ErrNoEligibleEntries)
	})

	t.Run("duplicate deterministic input", func(t *testing.T) {
		_, err := SelectWinner(seed, []models.Entry{
			{ID: "a", DeterministicInput: "same"},
			{ID: "b", DeterministicInput: "same"},
		})
		assert.ErrorIs(t, err, ErrDuplicateEntryInput)
	})

	t.Run("empty deterministic input", func(t *testing.T) {
		_, err := SelectWinner(seed, []models.Entry{
			{ID: "a", DeterministicInput: "ok"},
			{ID: "b", DeterministicInput: ""},
		})
		assert.ErrorIs(t, err, ErrEmptyEntryInput)
	})
}

// refHex derives a distinct deterministic input per index for bulk tests.
func refHex(seed []byte, i int) string {
	sum := sha256.Sum256(append(append([]byte(nil), seed...), byte(i)))
	return hex.EncodeToString(sum[:8])
}

func TestBeats(t *testing.T) {
	hi := bytes.Repeat([]byte{0xff}, 32)
	lo := bytes.Repeat([]byte{0x01}, 32)

	t.Run("larger digest wins", func(t *testing.T) {
		assert.True(t, beats(hi, "zzz", lo, "aaa"))
		assert.False(t, beats(lo, "aaa", hi, "zzz"))
	})

	t.Run("identical digests fall back to smallest input", func(t *testing.T) {
		assert.True(t, beats(hi, "aaa", hi, "bbb"))
		assert.False(t, beats(hi, "bbb", hi, "aaa"))
	})
}
