package model

import "time"

// WorkOrderRecord is the persisted outcome of one successful submission.
// Records are insert-only: the workflow never updates or deletes them.
type WorkOrderRecord struct {
	WorkOrderID   string    `db:"work_order_id"`
	CustomerName  string    `db:"customer_name"`
	CustomerEmail string    `db:"customer_email"`
	WorkPerformed string    `db:"work_performed"`
	SignatureURL  string    `db:"signature_url"`
	CreatedAt     time.Time `db:"created_at"`
}
