package jobqueue

import (
	"fmt"
)

// processProposalNotificationJob delivers the proposal link mail.
func (q *Queue) processProposalNotificationJob(job *Job) error {
	if q.notifier == nil {
		return fmt.Errorf("no notification sender configured")
	}

	payload, err := ProposalNotificationPayloadFromMap(job.Payload)
	if err != nil {
		return fmt.Errorf("invalid notification payload: %w", err)
	}
	if payload.Email == "" || payload.Token == "" {
		return fmt.Errorf("notification payload missing email or token")
	}

	return q.notifier.SendProposalLink(payload.Email, payload.ClientName, payload.Token, payload.ExpiresAt)
}

// processInvoiceGenerationJob renders the invoice for a submitted proposal.
func (q *Queue) processInvoiceGenerationJob(job *Job) error {
	if q.invoicer == nil {
		return fmt.Errorf("no invoice generator configured")
	}

	payload, err := InvoiceGenerationPayloadFromMap(job.Payload)
	if err != nil {
		return fmt.Errorf("invalid invoice payload: %w", err)
	}
	if payload.CheckoutID == 0 {
		return fmt.Errorf("invoice payload missing checkout id")
	}

	return q.invoicer.Generate(payload.CheckoutID, payload.BillingDetailID, payload.Email)
}
