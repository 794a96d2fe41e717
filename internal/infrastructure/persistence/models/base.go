// Package models holds the GORM row types of the ledger tables and
// their mapping to domain records. The schema of record is the SQL in
// migrations/; the tags here mirror it closely enough for AutoMigrate
// in tests.
package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/irenerossetti/condominio-backend/internal/domain/shared"
)

// VersionedModel holds the columns shared by every mutable ledger table
type VersionedModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
	Version   int       `gorm:"not null;default:1"`
}

// storeRoot copies identity, timestamps and version from a domain root
func (m *VersionedModel) storeRoot(root shared.BaseAggregateRoot) {
	m.ID = root.ID
	m.CreatedAt = root.CreatedAt
	m.UpdatedAt = root.UpdatedAt
	m.Version = root.Version
}

// loadRoot restores identity, timestamps and version onto a domain root
func (m *VersionedModel) loadRoot(root *shared.BaseAggregateRoot) {
	root.BaseEntity = shared.BaseEntity{ID: m.ID, CreatedAt: m.CreatedAt, UpdatedAt: m.UpdatedAt}
	root.Version = m.Version
}
