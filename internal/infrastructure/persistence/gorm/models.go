// Package gorm provides the GORM-backed formula version store.
package gorm

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/myones/formulary/internal/domain/formula"
)

// FormulaVersionModel is the persisted shape of an accepted formula. Each
// acceptance appends a new version for the user; the highest version is
// the active formula.
type FormulaVersionModel struct {
	ID             uuid.UUID `gorm:"type:char(36);primaryKey"`
	UserID         uuid.UUID `gorm:"type:char(36);not null;index:idx_user_version,priority:1"`
	Version        int       `gorm:"not null;index:idx_user_version,priority:2"`
	Bases          LineSlice `gorm:"type:json"`
	Additions      LineSlice `gorm:"type:json"`
	TotalMg        float64   `gorm:"not null"`
	TargetCapsules int       `gorm:"not null"`
	Notes          string    `gorm:"type:text"`
	CreatedAt      time.Time
}

// TableName overrides the default pluralization.
func (FormulaVersionModel) TableName() string {
	return "formula_versions"
}

// LineSlice stores formula lines as a JSON column.
type LineSlice []formula.Line

// Value implements driver.Valuer.
func (s LineSlice) Value() (driver.Value, error) {
	if s == nil {
		return "[]", nil
	}
	data, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

// Scan implements sql.Scanner.
func (s *LineSlice) Scan(value interface{}) error {
	if value == nil {
		*s = LineSlice{}
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into LineSlice", value)
	}
	return json.Unmarshal(data, s)
}
