package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ImportFailure describes one CSV row that could not be imported.
type ImportFailure struct {
	Row     int               `json:"row"`
	Message string            `json:"message"`
	Data    map[string]string `json:"data,omitempty"`
}

// ImportLog records the outcome of one CSV import.
type ImportLog struct {
	ID           uuid.UUID                          `json:"id" gorm:"type:char(36);primaryKey"`
	FileName     string                             `json:"fileName" gorm:"size:255"`
	FolderID     *uuid.UUID                         `json:"folderId" gorm:"type:char(36);index"`
	SuccessCount int                                `json:"successCount"`
	FailureCount int                                `json:"failureCount"`
	Failures     datatypes.JSONSlice[ImportFailure] `json:"failures"`
	ImportedBy   string                             `json:"importedBy" gorm:"size:255"`
	CreatedAt    time.Time                          `json:"createdAt" gorm:"index"`
}

// BeforeCreate sets UUID before creating the record.
func (l *ImportLog) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}
