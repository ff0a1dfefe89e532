package database

import (
	"time"
)

// MessageRecord is one decoded P25 data unit persisted for later review.
type MessageRecord struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	Time      time.Time `gorm:"index" json:"time"`
	DUID      string    `gorm:"column:duid;index;size:8" json:"duid"`
	NAC       int       `gorm:"index" json:"nac"`
	Opcode    string    `gorm:"size:24" json:"opcode,omitempty"`
	Summary   string    `gorm:"size:120" json:"summary"`
	Payload   string    `json:"payload"` // hex
	BitLength int       `json:"bit_length"`
}

// TableName specifies the table name for GORM
func (MessageRecord) TableName() string {
	return "messages"
}

// System labels a trunked radio system by its Network Access Code.
type System struct {
	NAC       int       `gorm:"primarykey;not null" json:"nac"`
	Label     string    `gorm:"size:50" json:"label"`
	Site      string    `gorm:"size:50" json:"site"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for GORM
func (System) TableName() string {
	return "systems"
}

// IsValid checks whether the record carries a usable NAC
func (s System) IsValid() bool {
	return s.NAC > 0 && s.NAC <= 0xFFF
}
