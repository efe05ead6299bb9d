package ingest

import "time"

// Entity kinds in ingestion order.
const (
	KindProduct  = "product"
	KindCustomer = "customer"
	KindOrder    = "order"
)

// RecordFailure describes one remote record that could not be written.
type RecordFailure struct {
	ExternalID string `json:"externalId"`
	Reason     string `json:"reason"`
	Err        error  `json:"-"`
}

// EntityResult is the per-kind outcome of one ingestion pass.
type EntityResult struct {
	Kind      string          `json:"kind"`
	Succeeded int             `json:"succeeded"`
	Failures  []RecordFailure `json:"failures"`
}

// Failed returns the number of records that were skipped.
func (r EntityResult) Failed() int {
	return len(r.Failures)
}

// Report is the structured result of one tenant sync. A sync with a failed
// fetch or failed records is still a completed sync.
type Report struct {
	RunID      string       `json:"runId"`
	TenantID   int64        `json:"tenantId"`
	Fetched    bool         `json:"fetched"`
	FetchError string       `json:"fetchError,omitempty"`
	Products   EntityResult `json:"products"`
	Customers  EntityResult `json:"customers"`
	Orders     EntityResult `json:"orders"`
	StartedAt  time.Time    `json:"startedAt"`
	FinishedAt time.Time    `json:"finishedAt"`
}

// Succeeded returns the number of records written across all kinds.
func (r Report) Succeeded() int {
	return r.Products.Succeeded + r.Customers.Succeeded + r.Orders.Succeeded
}

// Failed returns the number of records skipped across all kinds.
func (r Report) Failed() int {
	return r.Products.Failed() + r.Customers.Failed() + r.Orders.Failed()
}

func newReport(tenantID int64) Report {
	return Report{
		TenantID:  tenantID,
		Products:  EntityResult{Kind: KindProduct, Failures: []RecordFailure{}},
		Customers: EntityResult{Kind: KindCustomer, Failures: []RecordFailure{}},
		Orders:    EntityResult{Kind: KindOrder, Failures: []RecordFailure{}},
	}
}
