package proposal

import "time"

// NotificationJob carries everything the background mailer needs to send a
// proposal link. Enqueued strictly after the creating transaction commits.
type NotificationJob struct {
	Email      string    `json:"email"`
	Token      string    `json:"token"`
	ClientName string    `json:"client_name"`
	ExpiresAt  time.Time `json:"expires_at"`
}

// InvoiceJob triggers invoice rendering for a submitted proposal.
type InvoiceJob struct {
	CheckoutID      uint   `json:"checkout_id"`
	BillingDetailID uint   `json:"billing_detail_id"`
	Email           string `json:"email"`
}

// Outbox is the enqueue-after-commit seam for fire-and-forget side effects.
// Implementations must not block proposal commits; their failures are logged
// by the caller and never roll back committed state.
type Outbox interface {
	EnqueueProposalNotification(job NotificationJob) error
	EnqueueInvoiceGeneration(job InvoiceJob) error
}
