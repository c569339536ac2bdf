package domain

import "time"

// Address Model
type Address struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`       // Primary key (uuid)
	UserID    string    `gorm:"index;size:36;not null" json:"user"` // Owning user
	Detail    string    `json:"detail"`                             // Free-form address text
	CreatedAt time.Time `json:"created_at"`                         // Creation time
	UpdatedAt time.Time `json:"updated_at"`                         // Last update time
}
