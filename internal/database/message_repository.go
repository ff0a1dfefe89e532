package database

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/radioscan/p25rx/internal/p25"
)

// MessageRepository provides database operations for decoded messages
type MessageRepository struct {
	db *gorm.DB
}

// NewMessageRepository creates a new repository instance
func NewMessageRepository(db *gorm.DB) *MessageRepository {
	return &MessageRepository{db: db}
}

// Save persists one decoded message
func (r *MessageRepository) Save(msg p25.Message) error {
	if msg == nil {
		return fmt.Errorf("message cannot be nil")
	}

	record := MessageRecord{
		Time:      time.Now(),
		DUID:      msg.DUID().String(),
		NAC:       msg.NAC(),
		Summary:   msg.String(),
		Payload:   msg.Bits().String(),
		BitLength: msg.Bits().Len(),
	}
	if tsbk, ok := msg.(p25.TSBK); ok {
		record.Opcode = tsbk.Opcode().String()
	}

	return r.db.Create(&record).Error
}

// Recent returns the most recent records, newest first
func (r *MessageRepository) Recent(limit int) ([]MessageRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	var records []MessageRecord
	err := r.db.Order("time desc").Limit(limit).Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

// CountByDUID returns the number of stored messages for one data unit type
func (r *MessageRepository) CountByDUID(duid string) (int64, error) {
	var count int64
	err := r.db.Model(&MessageRecord{}).Where("duid = ?", duid).Count(&count).Error
	return count, err
}

// Count returns the total number of stored messages
func (r *MessageRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&MessageRecord{}).Count(&count).Error
	return count, err
}

// PruneBefore deletes records older than the cutoff
func (r *MessageRepository) PruneBefore(cutoff time.Time) (int64, error) {
	result := r.db.Where("time < ?", cutoff).Delete(&MessageRecord{})
	return result.RowsAffected, result.Error
}
