package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Upload is a parsed spreadsheet owned by a user.
type Upload struct {
	ID        string     `gorm:"primaryKey;size:36" json:"id"`
	UserID    string     `gorm:"size:36;index;not null" json:"user_id"`
	FileName  string     `gorm:"size:255;not null" json:"file_name"`
	Columns   StringList `json:"columns"`
	RawData   Rows       `json:"raw_data"`
	Summary   string     `gorm:"size:512" json:"summary"`
	Size      string     `gorm:"size:32" json:"size"`
	CreatedAt time.Time  `gorm:"index" json:"created_at"`
}

// BeforeCreate assigns an id and creation time when not provided.
func (u *Upload) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now()
	}
	return nil
}

// UploadWithOwner is an upload joined with its owner's identity.
type UploadWithOwner struct {
	Upload
	Owner *Owner `json:"owner"`
}
