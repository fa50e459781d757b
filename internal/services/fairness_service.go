// Package services orchestrates the fairness lifecycle for giveaways:
// commit → close → reveal → draw → prove, one way only, exactly once each.
package services

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/logger"
	"github.com/google/uuid"

	"fairdraw/internal/fairness"
	"fairdraw/internal/models"
	"fairdraw/internal/storage"
)

// Store is the persistence surface the service depends on. Both the sqlite
// and the in-memory stores implement it.
type Store interface {
	CreateGiveaway(g *models.Giveaway) error
	Giveaway(id string) (*models.Giveaway, error)
	Giveaways() ([]models.Giveaway, error)
	FinalizeGiveaway(id, winnerEntryID string) error
	CreateCommitment(c *models.SeedCommitment) error
	Commitment(giveawayID string) (*models.SeedCommitment, error)
	MarkRevealed(giveawayID string, at time.Time) error
	CreateProof(p *models.FairnessProof) error
	Proof(giveawayID string) (*models.FairnessProof, error)
}

// FairnessService runs the commit-reveal protocol for every giveaway. Each
// giveaway's sequence is independent; there is no shared mutable state, so
// sequences for different giveaways may run concurrently.
type FairnessService struct {
	store  Store
	random io.Reader
	// fullDisclosure controls whether proofs carry the complete per-entry
	// score log or only the winner's record.
	fullDisclosure bool
}

// NewFairnessService creates the service. random is the CSPRNG used for seed
// generation (crypto/rand.Reader in production); injecting it keeps seed
// generation testable.
func NewFairnessService(store Store, random io.Reader, fullDisclosure bool) *FairnessService {
	return &FairnessService{store: store, random: random, fullDisclosure: fullDisclosure}
}

// CreateGiveaway registers a giveaway closing at endsAt and immediately
// commits a seed for it, so the commitment is public before any entry is
// sold. Returns the giveaway and its public commitment digest.
func (s *FairnessService) CreateGiveaway(title string, endsAt time.Time) (*models.Giveaway, string, error) {
	now := time.Now().UTC()
	if !endsAt.After(now) {
		return nil, "", fmt.Errorf("services: giveaway must close in the future")
	}

	g := &models.Giveaway{
		ID:        uuid.NewString(),
		Title:     title,
		EndsAt:    endsAt.UTC(),
		Status:    models.GiveawayStatusOpen,
		CreatedAt: now,
	}
	if err := s.store.CreateGiveaway(g); err != nil {
		return nil, "", err
	}

	commitment, err := s.Commit(g.ID, now)
	if err != nil {
		return nil, "", err
	}
	logger.Infof("giveaway %s created, commitment %s published", g.ID, commitment)
	return g, commitment, nil
}

// Commit generates a fresh seed for the giveaway, stores it with its SHA-256
// commitment and returns the commitment for public display. Committing must
// happen strictly before entries close; committing twice is a sequencing
// error.
func (s *FairnessService) Commit(giveawayID string, now time.Time) (string, error) {
	g, err := s.store.Giveaway(giveawayID)
	if err != nil {
		return "", err
	}
	if !now.Before(g.EndsAt) {
		return "", fmt.Errorf("services: entries already closed for giveaway %s", giveawayID)
	}

	seed, err := fairness.GenerateSeed(s.random)
	if err != nil {
		return "", err
	}
	c := &models.SeedCommitment{
		GiveawayID:  giveawayID,
		Seed:        seed,
		Commitment:  fairness.Commitment(seed),
		CommittedAt: now,
	}
	if err := s.store.CreateCommitment(c); err != nil {
		if errors.Is(err, storage.ErrAlreadyExists) {
			return "", fairness.ErrAlreadyCommitted
		}
		return "", err
	}
	return c.Commitment, nil
}

// Commitment returns the public commitment for a giveaway. The seed is never
// part of the answer; it stays secret until Reveal.
func (s *FairnessService) Commitment(giveawayID string) (*models.SeedCommitment, error) {
	c, err := s.store.Commitment(giveawayID)
	if err != nil {
		return nil, err
	}
	if !c.Revealed {
		c.Seed = nil
	}
	return c, nil
}

// Reveal discloses the seed for a giveaway. Allowed only after entries have
// closed, and only once: revealing earlier would let insiders precompute the
// winner before the entry set is frozen.
func (s *FairnessService) Reveal(giveawayID string, now time.Time) ([]byte, error) {
	g, err := s.store.Giveaway(giveawayID)
	if err != nil {
		return nil, err
	}
	if now.Before(g.EndsAt) {
		return nil, fairness.ErrPrematureReveal
	}

	c, err := s.store.Commitment(giveawayID)
	if err != nil {
		return nil, err
	}
	if err := s.store.MarkRevealed(giveawayID, now.UTC()); err != nil {
		if errors.Is(err, storage.ErrAlreadyExists) {
			return nil, fairness.ErrAlreadyRevealed
		}
		return nil, err
	}
	logger.Infof("seed revealed for giveaway %s", giveawayID)
	return c.Seed, nil
}

// Draw selects the winner for a giveaway from the finalized entry list and
// records the fairness proof. The seed must already be revealed, and exactly
// one proof is ever written: if the proof write fails the selection outcome
// is discarded, never partially committed.
func (s *FairnessService) Draw(giveawayID string, entries []models.Entry) (*models.FairnessProof, error) {
	c, err := s.store.Commitment(giveawayID)
	if err != nil {
		return nil, err
	}
	if !c.Revealed {
		return nil, fairness.ErrSeedNotRevealed
	}

	outcome, err := fairness.SelectWinner(c.Seed, entries)
	if err != nil {
		return nil, err
	}
	proof, err := fairness.BuildProof(giveawayID, c.Commitment, c.Seed, outcome, s.fullDisclosure)
	if err != nil {
		return nil, err
	}

	if err := s.store.CreateProof(proof); err != nil {
		if errors.Is(err, storage.ErrAlreadyExists) {
			return nil, fairness.ErrProofAlreadyExists
		}
		return nil, err
	}
	if err := s.store.FinalizeGiveaway(giveawayID, proof.WinnerEntryID); err != nil {
		return nil, err
	}
	logger.Infof("giveaway %s: entry %s won among %d entries", giveawayID, proof.WinnerEntryID, proof.TotalEntries)
	return proof, nil
}

// Proof returns the recorded fairness proof for a giveaway.
func (s *FairnessService) Proof(giveawayID string) (*models.FairnessProof, error) {
	return s.store.Proof(giveawayID)
}

// VerifyProof checks a proof supplied by any party. With entries it runs the
// strong mode (full re-selection); without, the weak mode (winner
// consistency only).
func (s *FairnessService) VerifyProof(proof *models.FairnessProof, entries []models.Entry) models.VerificationResult {
	if len(entries) > 0 {
		return fairness.VerifyAgainstEntries(proof, entries)
	}
	return fairness.Verify(proof)
}

// GetGiveaway returns a giveaway with its status derived from the clock:
// open until EndsAt, closed after, finalized once a proof exists.
func (s *FairnessService) GetGiveaway(id string, now time.Time) (*models.Giveaway, error) {
	g, err := s.store.Giveaway(id)
	if err != nil {
		return nil, err
	}
	deriveStatus(g, now)
	return g, nil
}

// ListGiveaways returns all giveaways with derived statuses.
func (s *FairnessService) ListGiveaways(now time.Time) ([]models.Giveaway, error) {
	gs, err := s.store.Giveaways()
	if err != nil {
		return nil, err
	}
	for i := range gs {
		deriveStatus(&gs[i], now)
	}
	return gs, nil
}

func deriveStatus(g *models.Giveaway, now time.Time) {
	if g.Status == models.GiveawayStatusFinalized {
		return
	}
	if now.Before(g.EndsAt) {
		g.Status = models.GiveawayStatusOpen
	} else {
		g.Status = models.GiveawayStatusClosed
	}
}
