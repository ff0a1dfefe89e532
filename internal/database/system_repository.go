package database

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// SystemRepository provides database operations for system labels
type SystemRepository struct {
	db *gorm.DB
}

// NewSystemRepository creates a new repository instance
func NewSystemRepository(db *gorm.DB) *SystemRepository {
	return &SystemRepository{db: db}
}

// GetByNAC finds a system by its Network Access Code, or nil when unknown
func (r *SystemRepository) GetByNAC(nac int) (*System, error) {
	var system System
	err := r.db.Where("nac = ?", nac).First(&system).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &system, nil
}

// Upsert creates or updates a system label
func (r *SystemRepository) Upsert(system *System) error {
	if system == nil {
		return fmt.Errorf("system cannot be nil")
	}
	if !system.IsValid() {
		return fmt.Errorf("system is not valid: nac=%d", system.NAC)
	}

	system.UpdatedAt = time.Now()
	return r.db.Save(system).Error
}

// All returns every known system
func (r *SystemRepository) All() ([]System, error) {
	var systems []System
	err := r.db.Order("nac").Find(&systems).Error
	if err != nil {
		return nil, err
	}
	return systems, nil
}
