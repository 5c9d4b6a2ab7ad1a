package jobqueue

import (
	"encoding/json"
	"time"
)

// JobType defines the type of job
type JobType string

const (
	JobTypeProposalNotification JobType = "proposal_notification"
	JobTypeInvoiceGeneration    JobType = "invoice_generation"
)

// JobStatus defines the status of a job
type JobStatus string

const (
	JobStatusPending    JobStatus = "pending"
	JobStatusProcessing JobStatus = "processing"
	JobStatusCompleted  JobStatus = "completed"
	JobStatusFailed     JobStatus = "failed"
	JobStatusRetrying   JobStatus = "retrying"
)

// Job represents a background job
type Job struct {
	ID          string                 `json:"id"`
	Type        JobType                `json:"type"`
	Status      JobStatus              `json:"status"`
	Payload     map[string]interface{} `json:"payload"`
	CreatedAt   time.Time              `json:"created_at"`
	UpdatedAt   time.Time              `json:"updated_at"`
	ProcessedAt *time.Time             `json:"processed_at,omitempty"`
	CompletedAt *time.Time             `json:"completed_at,omitempty"`
	ErrorMsg    string                 `json:"error_msg,omitempty"`
	RetryCount  int                    `json:"retry_count"`
	MaxRetries  int                    `json:"max_retries"`
}

// ProposalNotificationPayload contains the payload for proposal link mails
type ProposalNotificationPayload struct {
	Email      string    `json:"email"`
	Token      string    `json:"token"`
	ClientName string    `json:"client_name"`
	ExpiresAt  time.Time `json:"expires_at"`
}

// ToMap converts the payload to a map for storage
func (p ProposalNotificationPayload) ToMap() map[string]interface{} {
	return map[string]interface{}{
		"email":       p.Email,
		"token":       p.Token,
		"client_name": p.ClientName,
		"expires_at":  p.ExpiresAt.Format(time.RFC3339),
	}
}

// ProposalNotificationPayloadFromMap creates a payload from a map
func ProposalNotificationPayloadFromMap(data map[string]interface{}) (*ProposalNotificationPayload, error) {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	var payload ProposalNotificationPayload
	err = json.Unmarshal(jsonData, &payload)
	return &payload, err
}

// InvoiceGenerationPayload contains the payload for invoice rendering jobs
type InvoiceGenerationPayload struct {
	CheckoutID      uint   `json:"checkout_id"`
	BillingDetailID uint   `json:"billing_detail_id"`
	Email           string `json:"email"`
}

// ToMap converts the payload to a map for storage
func (p InvoiceGenerationPayload) ToMap() map[string]interface{} {
	return map[string]interface{}{
		"checkout_id":       p.CheckoutID,
		"billing_detail_id": p.BillingDetailID,
		"email":             p.Email,
	}
}

// InvoiceGenerationPayloadFromMap creates a payload from a map
func InvoiceGenerationPayloadFromMap(data map[string]interface{}) (*InvoiceGenerationPayload, error) {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	var payload InvoiceGenerationPayload
	err = json.Unmarshal(jsonData, &payload)
	return &payload, err
}

// IsRetryable reports whether the job has retries left
func (j *Job) IsRetryable() bool {
	return j.RetryCount < j.MaxRetries
}

// MarkAsProcessing updates the job status to processing
func (j *Job) MarkAsProcessing() {
	now := time.Now()
	j.Status = JobStatusProcessing
	j.ProcessedAt = &now
	j.UpdatedAt = now
}

// MarkAsCompleted updates the job status to completed
func (j *Job) MarkAsCompleted() {
	now := time.Now()
	j.Status = JobStatusCompleted
	j.CompletedAt = &now
	j.UpdatedAt = now
}

// MarkAsFailed updates the job status to failed
func (j *Job) MarkAsFailed(errorMsg string) {
	j.Status = JobStatusFailed
	j.ErrorMsg = errorMsg
	j.UpdatedAt = time.Now()
}

// MarkAsRetrying updates the job status to retrying and counts the attempt
func (j *Job) MarkAsRetrying() {
	j.Status = JobStatusRetrying
	j.RetryCount++
	j.UpdatedAt = time.Now()
}
