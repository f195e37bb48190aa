package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Field names shared by every table
const (
	// IDField is the primary key column
	IDField = "id"
	// CreatedAtField is the creation timestamp column
	CreatedAtField = "created_at"
	// UpdatedAtField is the update timestamp column
	UpdatedAtField = "updated_at"
)

// Base carries the identity and timestamps of every persisted entity.
// IDs are opaque UUID strings assigned on insert.
type Base struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	CreatedAt time.Time `json:"created_at" gorm:"index"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeCreate is a GORM hook that assigns an ID when none was provided
func (b *Base) BeforeCreate(_ *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	return nil
}

// NormalizeName lower-cases name, trims it and collapses inner whitespace so that
// "  Honda   CBR " and "honda cbr" are the same catalog name.
func NormalizeName(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}
