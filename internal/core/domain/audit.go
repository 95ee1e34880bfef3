package domain

import "time"

// Audit actions recorded for console mutations.
const (
	ActionCreate  = "create"
	ActionUpdate  = "update"
	ActionDelete  = "delete"
	ActionRestore = "restore"
)

const (
	EntityCustomer = "customer"
	EntityShipment = "shipment"
)

// AuditEntry records one mutating action issued from this console.
type AuditEntry struct {
	ID       string
	Action   string
	Entity   string
	EntityID string
	Actor    string
	Success  bool
	Error    string
	At       time.Time
}
