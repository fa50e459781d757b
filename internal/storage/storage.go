// Package storage persists giveaways, seed commitments and fairness proofs.
// Writes are append-only apart from the two mutations the protocol allows:
// flipping a commitment to revealed and marking a giveaway finalized.
package storage

import (
	"errors"
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"fairdraw/internal/models"
)

var (
	// ErrNotFound is returned when no record exists for the given giveaway.
	ErrNotFound = errors.New("storage: record not found")
	// ErrAlreadyExists is returned when a create would overwrite an
	// existing record; commitments and proofs are written exactly once.
	ErrAlreadyExists = errors.New("storage: record already exists")
)

// DB is the sqlite-backed store.
type DB struct {
	db *gorm.DB
}

// Open opens (or creates) the sqlite database at path and migrates the
// schema. Use ":memory:" for an ephemeral store.
func Open(path string) (*DB, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("storage: opening %s: %w", path, err)
	}
	if err := db.AutoMigrate(&models.Giveaway{}, &models.SeedCommitment{}, &models.FairnessProof{}); err != nil {
		return nil, fmt.Errorf("storage: migrating schema: %w", err)
	}
	return &DB{db: db}, nil
}

// CreateGiveaway stores a new giveaway.
func (s *DB) CreateGiveaway(g *models.Giveaway) error {
	if err := s.checkAbsent(&models.Giveaway{}, g.ID); err != nil {
		return err
	}
	return s.db.Create(g).Error
}

// Giveaway returns the giveaway with the given id.
func (s *DB) Giveaway(id string) (*models.Giveaway, error) {
	var g models.Giveaway
	if err := s.first(&g, id); err != nil {
		return nil, err
	}
	return &g, nil
}

// Giveaways returns all giveaways, newest first.
func (s *DB) Giveaways() ([]models.Giveaway, error) {
	var out []models.Giveaway
	if err := s.db.Order("created_at desc").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// FinalizeGiveaway marks a giveaway as having a drawn winner.
func (s *DB) FinalizeGiveaway(id, winnerEntryID string) error {
	res := s.db.Model(&models.Giveaway{}).Where("id = ?", id).
		Updates(map[string]any{"status": models.GiveawayStatusFinalized, "winner_entry_id": winnerEntryID})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// CreateCommitment stores a seed commitment; at most one per giveaway.
func (s *DB) CreateCommitment(c *models.SeedCommitment) error {
	if err := s.checkAbsent(&models.SeedCommitment{}, c.GiveawayID); err != nil {
		return err
	}
	return s.db.Create(c).Error
}

// Commitment returns the seed commitment for a giveaway.
func (s *DB) Commitment(giveawayID string) (*models.SeedCommitment, error) {
	var c models.SeedCommitment
	if err := s.first(&c, giveawayID); err != nil {
		return nil, err
	}
	return &c, nil
}

// MarkRevealed flips a commitment to revealed and stamps the reveal time.
// The flip happens at most once; a second call reports ErrAlreadyExists.
func (s *DB) MarkRevealed(giveawayID string, at time.Time) error {
	res := s.db.Model(&models.SeedCommitment{}).
		Where("giveaway_id = ? AND revealed = ?", giveawayID, false).
		Updates(map[string]any{"revealed": true, "revealed_at": at})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		var c models.SeedCommitment
		if err := s.first(&c, giveawayID); err != nil {
			return err
		}
		return ErrAlreadyExists
	}
	return nil
}

// CreateProof stores a fairness proof; at most one per giveaway, and the
// record is never updated afterwards.
func (s *DB) CreateProof(p *models.FairnessProof) error {
	if err := s.checkAbsent(&models.FairnessProof{}, p.GiveawayID); err != nil {
		return err
	}
	return s.db.Create(p).Error
}

// Proof returns the fairness proof for a giveaway.
func (s *DB) Proof(giveawayID string) (*models.FairnessProof, error) {
	var p models.FairnessProof
	if err := s.first(&p, giveawayID); err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *DB) first(dest any, id string) error {
	key := "giveaway_id = ?"
	if _, ok := dest.(*models.Giveaway); ok {
		key = "id = ?"
	}
	err := s.db.First(dest, key, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

func (s *DB) checkAbsent(model any, id string) error {
	err := s.first(model, id)
	switch {
	case err == nil:
		return ErrAlreadyExists
	case errors.Is(err, ErrNotFound):
		return nil
	default:
		return err
	}
}
