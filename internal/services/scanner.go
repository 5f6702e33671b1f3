package services

import (
	"fmt"
	"time"

	"cardocs/internal/models"

	"gorm.io/gorm"
)

// ExpiringDocument pairs a document inside the scan horizon with its owner's
// contact details.
type ExpiringDocument struct {
	Document models.Document
	Owner    models.Account
}

// DocumentScanner reads documents whose expiry falls inside the look-ahead
// horizon. Scanning is a pure read; nothing is mutated.
type DocumentScanner struct {
	db *gorm.DB
}

func NewDocumentScanner(db *gorm.DB) *DocumentScanner {
	return &DocumentScanner{db: db}
}

// Scan returns documents expiring between now and now plus horizonDays,
// earliest expiry first, joined with their owner accounts. Documents whose
// owner row no longer exists are dropped from the result.
func (s *DocumentScanner) Scan(now time.Time, horizonDays int) ([]ExpiringDocument, error) {
	from := dateOnly(now)
	until := from.AddDate(0, 0, horizonDays+1)

	var docs []models.Document
	if err := s.db.
		Where("expires_at >= ? AND expires_at < ?", from, until).
		Order("expires_at asc").
		Find(&docs).Error; err != nil {
		return nil, fmt.Errorf("failed to scan expiring documents: %w", err)
	}
	if len(docs) == 0 {
		return nil, nil
	}

	ownerIDs := make([]string, 0, len(docs))
	for _, d := range docs {
		ownerIDs = append(ownerIDs, d.OwnerID)
	}

	var owners []models.Account
	if err := s.db.Where("id IN ?", ownerIDs).Find(&owners).Error; err != nil {
		return nil, fmt.Errorf("failed to load document owners: %w", err)
	}
	ownerByID := make(map[string]models.Account, len(owners))
	for _, o := range owners {
		ownerByID[o.ID] = o
	}

	expiring := make([]ExpiringDocument, 0, len(docs))
	for _, d := range docs {
		owner, ok := ownerByID[d.OwnerID]
		if !ok {
			continue
		}
		expiring = append(expiring, ExpiringDocument{Document: d, Owner: owner})
	}
	return expiring, nil
}
