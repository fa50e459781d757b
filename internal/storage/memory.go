package storage

import (
	"sync"
	"time"

	"fairdraw/internal/models"
)

// Memory is an in-memory store with the same contract as DB. It backs tests
// and single-process demo runs; nothing survives a restart.
type Memory struct {
	mu          sync.RWMutex
	giveaways   map[string]*models.Giveaway
	commitments map[string]*models.SeedCommitment
	proofs      map[string]*models.FairnessProof
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		giveaways:   make(map[string]*models.Giveaway),
		commitments: make(map[string]*models.SeedCommitment),
		proofs:      make(map[string]*models.FairnessProof),
	}
}

func (s *Memory) CreateGiveaway(g *models.Giveaway) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.giveaways[g.ID]; ok {
		return ErrAlreadyExists
	}
	cp := *g
	s.giveaways[g.ID] = &cp
	return nil
}

func (s *Memory) Giveaway(id string) (*models.Giveaway, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	g, ok := s.giveaways[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *g
	return &cp, nil
}

func (s *Memory) Giveaways() ([]models.Giveaway, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Giveaway, 0, len(s.giveaways))
	for _, g := range s.giveaways {
		out = append(out, *g)
	}
	return out, nil
}

func (s *Memory) FinalizeGiveaway(id, winnerEntryID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.giveaways[id]
	if !ok {
		return ErrNotFound
	}
	g.Status = models.GiveawayStatusFinalized
	g.WinnerEntryID = winnerEntryID
	return nil
}

func (s *Memory) CreateCommitment(c *models.SeedCommitment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.commitments[c.GiveawayID]; ok {
		return ErrAlreadyExists
	}
	cp := *c
	s.commitments[c.GiveawayID] = &cp
	return nil
}

func (s *Memory) Commitment(giveawayID string) (*models.SeedCommitment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.commitments[giveawayID]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (s *Memory) MarkRevealed(giveawayID string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.commitments[giveawayID]
	if !ok {
		return ErrNotFound
	}
	if c.Revealed {
		return ErrAlreadyExists
	}
	c.Revealed = true
	c.RevealedAt = &at
	return nil
}

func (s *Memory) CreateProof(p *models.FairnessProof) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.proofs[p.GiveawayID]; ok {
		return ErrAlreadyExists
	}
	cp := *p
	s.proofs[p.GiveawayID] = &cp
	return nil
}

func (s *Memory) Proof(giveawayID string) (*models.FairnessProof, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.proofs[giveawayID]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *p
	return &cp, nil
}
