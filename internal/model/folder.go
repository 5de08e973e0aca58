package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Folder groups test cases. Folders form a forest through ParentID.
type Folder struct {
	ID        uuid.UUID  `json:"id" gorm:"type:char(36);primaryKey"`
	Name      string     `json:"name" gorm:"size:255;not null;index"`
	ParentID  *uuid.UUID `json:"parentId" gorm:"type:char(36);index"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

// BeforeCreate sets UUID before creating the record.
func (f *Folder) BeforeCreate(tx *gorm.DB) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	return nil
}

// FolderNode is a folder with its children attached, built per request.
type FolderNode struct {
	Folder
	Children []*FolderNode `json:"children"`
}

// PathSegment is one element of a root-to-leaf folder path.
type PathSegment struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}
