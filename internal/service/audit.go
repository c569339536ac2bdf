package service

import (
	"context"
	"slices"

	"shop_backend/internal/apperr"
	"shop_backend/internal/domain"
	"shop_backend/internal/store"

	"github.com/sirupsen/logrus"
)

// AuditReport lists the cross-document inconsistencies found for one user
type AuditReport struct {
	UserID                string   `json:"user_id"`
	DanglingOrderIDs      []string `json:"dangling_order_ids"`   // Listed on the user, no such order owned by the user
	OrphanOrderIDs        []string `json:"orphan_order_ids"`     // Owned by the user, not listed
	DanglingAddressIDs    []string `json:"dangling_address_ids"` // Listed on the user, no such address owned by the user
	OrphanAddressIDs      []string `json:"orphan_address_ids"`   // Owned by the user, not listed
	DefaultAddressInvalid bool     `json:"default_address_invalid"`
}

// Consistent reports whether the audit found nothing to repair
func (r *AuditReport) Consistent() bool {
	return len(r.DanglingOrderIDs) == 0 && len(r.OrphanOrderIDs) == 0 &&
		len(r.DanglingAddressIDs) == 0 && len(r.OrphanAddressIDs) == 0 &&
		!r.DefaultAddressInvalid
}

// Auditor detects and repairs the states a crash between two writes can leave behind
type Auditor struct {
	store *store.Store
	users userWriter
}

// NewAuditor returns an Auditor over st
func NewAuditor(st *store.Store, retries int) *Auditor {
	return &Auditor{store: st, users: newUserWriter(st, retries)}
}

// AuditUser compares the user's reference lists with the documents that point back at it
func (a *Auditor) AuditUser(ctx context.Context, userID string) (*AuditReport, error) {
	u, err := findUser(ctx, a.store, "auditUser", userID)
	if err != nil {
		return nil, err
	}
	orderIDs, addressIDs, err := a.owned(ctx, userID)
	if err != nil {
		return nil, err
	}
	return audit(u, orderIDs, addressIDs), nil
}

// Repair re-links orphan orders, drops dangling references and restores the default
// address invariant in one user write, then deletes orphan address records. An orphan
// order only arises when linking a new order failed; an orphan address only when deleting
// one did, since a failed link rolls its address back. It returns what was found before repairing.
func (a *Auditor) Repair(ctx context.Context, userID string) (*AuditReport, error) {
	const op = "repairUser"
	var report *AuditReport
	_, err := a.users.mutate(ctx, op, userID, func(u *domain.User) error {
		orderIDs, addressIDs, err := a.owned(ctx, userID)
		if err != nil {
			return err
		}
		report = audit(u, orderIDs, addressIDs)
		if report.Consistent() {
			return errUnchanged
		}
		u.OrderIDs = reconcile(u.OrderIDs, orderIDs)
		u.AddressIDs = existing(u.AddressIDs, addressIDs)
		if !u.DefaultAddressValid() {
			u.DefaultAddressID = ""
			if len(u.AddressIDs) > 0 {
				u.DefaultAddressID = u.AddressIDs[0]
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if report.Consistent() {
		return report, nil
	}

	logrus.WithFields(logrus.Fields{
		"user_id":            userID,
		"dangling_orders":    report.DanglingOrderIDs,
		"orphan_orders":      report.OrphanOrderIDs,
		"dangling_addresses": report.DanglingAddressIDs,
		"orphan_addresses":   report.OrphanAddressIDs,
		"default_address":    report.DefaultAddressInvalid,
	}).Warn("User references repaired")

	for _, id := range report.OrphanAddressIDs {
		if err := a.store.DeleteAddress(ctx, id); err != nil && apperr.KindOf(err) != apperr.KindNotFound {
			logrus.WithFields(logrus.Fields{
				"user_id":    userID,
				"address_id": id,
				"error":      err.Error(),
			}).Error("Orphan address not deleted")
			return report, err
		}
	}
	return report, nil
}

// owned returns the ids of orders and addresses whose owning reference is userID
func (a *Auditor) owned(ctx context.Context, userID string) ([]string, []string, error) {
	orders, err := a.store.AllOrders(ctx, store.OrderFilter{UserID: userID})
	if err != nil {
		return nil, nil, err
	}
	addresses, err := a.store.AddressesByUser(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	orderIDs := make([]string, len(orders))
	for i, o := range orders {
		orderIDs[i] = o.ID
	}
	addressIDs := make([]string, len(addresses))
	for i, ad := range addresses {
		addressIDs[i] = ad.ID
	}
	return orderIDs, addressIDs, nil
}

func audit(u *domain.User, orderIDs, addressIDs []string) *AuditReport {
	r := &AuditReport{UserID: u.ID}
	r.DanglingOrderIDs, r.OrphanOrderIDs = diff(u.OrderIDs, orderIDs)
	r.DanglingAddressIDs, r.OrphanAddressIDs = diff(u.AddressIDs, addressIDs)

	// the default must be a member of the address set that survives repair
	kept := existing(u.AddressIDs, addressIDs)
	if len(kept) == 0 {
		r.DefaultAddressInvalid = u.DefaultAddressID != ""
	} else {
		r.DefaultAddressInvalid = !slices.Contains(kept, u.DefaultAddressID)
	}
	return r
}

// diff returns listed ids missing from actual, and actual ids missing from listed
func diff(listed, actual []string) (dangling, orphan []string) {
	inActual := make(map[string]bool, len(actual))
	for _, id := range actual {
		inActual[id] = true
	}
	inListed := make(map[string]bool, len(listed))
	for _, id := range listed {
		inListed[id] = true
		if !inActual[id] {
			dangling = append(dangling, id)
		}
	}
	for _, id := range actual {
		if !inListed[id] {
			orphan = append(orphan, id)
		}
	}
	return dangling, orphan
}

// existing keeps listed ids that are in actual, in their order, without duplicates
func existing(listed, actual []string) []string {
	inActual := make(map[string]bool, len(actual))
	for _, id := range actual {
		inActual[id] = true
	}
	out := make([]string, 0, len(actual))
	seen := make(map[string]bool, len(actual))
	for _, id := range listed {
		if inActual[id] && !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}

// reconcile keeps listed ids that exist, in their order, then appends orphans
func reconcile(listed, actual []string) []string {
	_, orphan := diff(listed, actual)
	return append(existing(listed, actual), orphan...)
}
