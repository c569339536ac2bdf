package domain

import "time"

// Roles
const (
	RoleUser  = "user"  // Regular customer
	RoleAdmin = "admin" // Back-office operator
)

// CartLine is one (product, quantity) pair in a user's cart
type CartLine struct {
	ProductID string `json:"product_id"` // Referenced product
	Quantity  int    `json:"quantity"`   // Always > 0
}

// User Model
//
// The user row is a document: address, cart and order references live on it and are
// rewritten as a whole with an optimistic version check.
type User struct {
	ID               string     `gorm:"primaryKey;size:36" json:"id"`                 // Primary key (uuid)
	Username         string     `gorm:"uniqueIndex;size:64;not null" json:"username"` // Unique handle
	Password         string     `gorm:"not null" json:"-"`                            // Hashed password
	Nickname         string     `gorm:"default:user" json:"nickname"`                 // Display name
	Avatar           string     `json:"avatar"`                                       // Avatar url
	Gender           string     `json:"gender"`                                       // Free-form
	Role             string     `gorm:"default:user" json:"role"`                     // Role: user or admin
	AddressIDs       []string   `gorm:"serializer:json;type:text" json:"address"`     // Owned addresses, in insertion order
	DefaultAddressID string     `gorm:"size:36" json:"default_address"`               // One of AddressIDs or empty
	Cart             []CartLine `gorm:"serializer:json;type:text" json:"cart"`        // At most one line per product
	OrderIDs         []string   `gorm:"serializer:json;type:text" json:"orders"`      // Owned orders
	Version          int64      `gorm:"not null;default:0" json:"-"`                  // Optimistic concurrency token
	CreatedAt        time.Time  `json:"created_at"`                                   // Creation time
	UpdatedAt        time.Time  `json:"updated_at"`                                   // Last update time
}

// IsAdmin reports whether the user holds the admin role
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// OwnsAddress reports whether addressID is one of the user's addresses
func (u *User) OwnsAddress(addressID string) bool {
	return indexOf(u.AddressIDs, addressID) >= 0
}

// CartLineIndex returns the index of the cart line for productID, or -1
func (u *User) CartLineIndex(productID string) int {
	for i, line := range u.Cart {
		if line.ProductID == productID {
			return i
		}
	}
	return -1
}

// HasOrder reports whether orderID is referenced by the user
func (u *User) HasOrder(orderID string) bool {
	return indexOf(u.OrderIDs, orderID) >= 0
}

// DefaultAddressValid reports whether the default address invariant holds:
// non-empty address set implies a default that is a member, empty set implies no default.
func (u *User) DefaultAddressValid() bool {
	if len(u.AddressIDs) == 0 {
		return u.DefaultAddressID == ""
	}
	return u.OwnsAddress(u.DefaultAddressID)
}

// RemoveID returns ids without the first occurrence of id and whether it was present
func RemoveID(ids []string, id string) ([]string, bool) {
	i := indexOf(ids, id)
	if i < 0 {
		return ids, false
	}
	out := make([]string, 0, len(ids)-1)
	out = append(out, ids[:i]...)
	return append(out, ids[i+1:]...), true
}

func indexOf(ids []string, id string) int {
	if id == "" {
		return -1
	}
	for i, v := range ids {
		if v == id {
			return i
		}
	}
	return -1
}
