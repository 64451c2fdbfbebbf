package gorm

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/myones/formulary/internal/ports/outbound"
)

// FormulaRepository implements outbound.FormulaRepository on a GORM
// connection.
type FormulaRepository struct {
	db *gorm.DB
}

// NewFormulaRepository creates the repository and migrates its schema.
func NewFormulaRepository(db *gorm.DB) (*FormulaRepository, error) {
	if err := db.AutoMigrate(&FormulaVersionModel{}); err != nil {
		return nil, err
	}
	return &FormulaRepository{db: db}, nil
}

// SaveVersion stores record as the user's next version. The version number
// is derived inside a transaction; concurrent acceptances for the same
// user resolve last-write-wins.
func (r *FormulaRepository) SaveVersion(ctx context.Context, record *outbound.FormulaRecord) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var latest int
		err := tx.Model(&FormulaVersionModel{}).
			Where("user_id = ?", record.UserID).
			Select("COALESCE(MAX(version), 0)").
			Scan(&latest).Error
		if err != nil {
			return err
		}

		model := &FormulaVersionModel{
			ID:             uuid.New(),
			UserID:         record.UserID,
			Version:        latest + 1,
			Bases:          LineSlice(record.Bases),
			Additions:      LineSlice(record.Additions),
			TotalMg:        record.TotalMg,
			TargetCapsules: record.TargetCapsules,
			Notes:          record.Notes,
		}
		if err := tx.Create(model).Error; err != nil {
			return err
		}

		record.ID = model.ID
		record.Version = model.Version
		record.CreatedAt = model.CreatedAt
		return nil
	})
}

// Current returns the user's latest formula version.
func (r *FormulaRepository) Current(ctx context.Context, userID uuid.UUID) (*outbound.FormulaRecord, error) {
	var model FormulaVersionModel
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("version DESC").
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, outbound.ErrNotFound
		}
		return nil, err
	}
	return toRecord(&model), nil
}

// History returns all versions for a user, newest first.
func (r *FormulaRepository) History(ctx context.Context, userID uuid.UUID) ([]*outbound.FormulaRecord, error) {
	var models []FormulaVersionModel
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("version DESC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}

	records := make([]*outbound.FormulaRecord, len(models))
	for i := range models {
		records[i] = toRecord(&models[i])
	}
	return records, nil
}

func toRecord(m *FormulaVersionModel) *outbound.FormulaRecord {
	return &outbound.FormulaRecord{
		ID:             m.ID,
		UserID:         m.UserID,
		Version:        m.Version,
		Bases:          m.Bases,
		Additions:      m.Additions,
		TotalMg:        m.TotalMg,
		TargetCapsules: m.TargetCapsules,
		Notes:          m.Notes,
		CreatedAt:      m.CreatedAt,
	}
}
