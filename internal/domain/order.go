package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TimePrecision is the finest timestamp resolution every supported database keeps (MySQL datetime(3))
const TimePrecision = time.Millisecond

// Now returns the current UTC time truncated to TimePrecision, so a stored timestamp
// reads back unchanged and compares equal to the value it was written from.
func Now() time.Time {
	return time.Now().UTC().Truncate(TimePrecision)
}

// OrderStatus is the lifecycle state of an order
type OrderStatus string

const (
	OrderStatusAwaitingPayment OrderStatus = "awaiting_payment" // Created, not yet paid
	OrderStatusPaid            OrderStatus = "paid"             // Payment received
	OrderStatusShipped         OrderStatus = "shipped"          // Handed to the carrier
	OrderStatusCompleted       OrderStatus = "completed"        // Delivered (terminal)
	OrderStatusCancelled       OrderStatus = "cancelled"        // Cancelled before shipping (terminal)
)

// orderTransitions is the adjacency table of allowed status moves.
var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusAwaitingPayment: {OrderStatusPaid, OrderStatusCancelled},
	OrderStatusPaid:            {OrderStatusShipped, OrderStatusCancelled},
	OrderStatusShipped:         {OrderStatusCompleted},
	OrderStatusCompleted:       nil,
	OrderStatusCancelled:       nil,
}

// OrderStatuses lists every status label in lifecycle order
func OrderStatuses() []OrderStatus {
	return []OrderStatus{
		OrderStatusAwaitingPayment,
		OrderStatusPaid,
		OrderStatusShipped,
		OrderStatusCompleted,
		OrderStatusCancelled,
	}
}

// ParseOrderStatus maps a label onto the fixed enumeration
func ParseOrderStatus(s string) (OrderStatus, bool) {
	status := OrderStatus(s)
	_, ok := orderTransitions[status]
	return status, ok
}

// CanTransition reports whether from -> to is an edge of the lifecycle graph
func (from OrderStatus) CanTransition(to OrderStatus) bool {
	for _, next := range orderTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Terminal reports whether no transition leaves the status
func (s OrderStatus) Terminal() bool {
	return len(orderTransitions[s]) == 0
}

// OrderLine is a priced line item, snapshotted at order time
type OrderLine struct {
	ProductID   string          `json:"product_id"`   // Referenced product
	ProductName string          `json:"product_name"` // Name at order time
	UnitPrice   decimal.Decimal `json:"unit_price"`   // Unit price at order time
	Quantity    int             `json:"quantity"`     // Requested quantity
}

// Subtotal is unit price times quantity
func (l OrderLine) Subtotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Order Model
type Order struct {
	ID            string          `gorm:"primaryKey;size:36" json:"id"`                  // Primary key (uuid)
	UserID        string          `gorm:"index;size:36;not null" json:"user"`            // Owning user
	AddressID     string          `gorm:"size:36" json:"address"`                        // Shipping address at order time, may be empty
	AddressDetail string          `json:"address_detail"`                                // Address text snapshot
	Items         []OrderLine     `gorm:"serializer:json;type:text" json:"products"`     // Snapshotted line items
	Price         decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"price"`      // Total, computed once
	Status        OrderStatus     `gorm:"type:varchar(32);index;not null" json:"status"` // Lifecycle state
	CreatedAt     time.Time       `gorm:"index:idx_orders_created" json:"created_at"`    // Creation time, list sort key
	UpdatedAt     time.Time       `json:"updated_at"`                                    // Last update time
}

// TotalPrice sums unit price times quantity across lines
func TotalPrice(lines []OrderLine) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.Subtotal())
	}
	return total
}
