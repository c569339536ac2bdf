package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product Model
type Product struct {
	ID          string          `gorm:"primaryKey;size:36" json:"id"`                // Primary key (uuid)
	Name        string          `gorm:"not null" json:"name"`                        // Display name
	Price       decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"price"`    // Unit price, never negative
	Stock       int             `json:"stock"`                                       // Units on hand (informational)
	Desc        string          `json:"desc"`                                        // Description
	Cover       string          `json:"cover"`                                       // Cover image url
	BannerIDs   []string        `gorm:"serializer:json;type:text" json:"banners"`    // Banners featuring the product
	CategoryIDs []string        `gorm:"serializer:json;type:text" json:"categories"` // Categories the product belongs to
	Status      bool            `json:"status"`                                      // Visible in the shop
	Hot         bool            `gorm:"index" json:"hot"`                            // "hot" classification
	CreatedAt   time.Time       `gorm:"index" json:"created_at"`                     // Creation time, drives "new"
	UpdatedAt   time.Time       `json:"updated_at"`                                  // Last update time
}

// Category Model
type Category struct {
	ID   string `gorm:"primaryKey;size:36" json:"id"`     // Primary key (uuid)
	Name string `gorm:"uniqueIndex;size:128" json:"name"` // Unique category name
	Desc string `json:"desc"`                             // Description
}

// Banner Model
type Banner struct {
	ID     string `gorm:"primaryKey;size:36" json:"id"`         // Primary key (uuid)
	Title  string `json:"title"`                                // Title
	Image  string `json:"image"`                                // Image url
	URL    string `json:"url"`                                  // Link target
	Rank   int    `gorm:"column:banner_rank;index" json:"rank"` // Higher ranks first
	Desc   string `json:"desc"`                                 // Description
	Status bool   `json:"status"`                               // Active
}
