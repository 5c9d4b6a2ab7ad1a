package jobqueue

import (
	"sync"

	"github.com/gofiber/fiber/v2/log"

	"github.com/creatorkart/CreatorKart/internal/pkg/proposal"
)

// Manager owns the job queue and is the outbox handed to the proposal
// service: enqueue methods convert workflow jobs into queue payloads.
type Manager struct {
	queue   *Queue
	mu      sync.Mutex
	running bool
}

// NewManager creates a manager around a queue with the given worker count.
func NewManager(workers int, notifier NotificationSender, invoicer InvoiceGenerator) *Manager {
	return &Manager{
		queue: NewQueue(workers, notifier, invoicer),
	}
}

// GetQueue returns the managed job queue
func (m *Manager) GetQueue() *Queue {
	return m.queue
}

// Start starts the job queue workers
func (m *Manager) Start() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.running {
		return
	}
	m.running = true
	log.Info("[JobQueue Manager] Starting job queue")
	m.queue.Start()
}

// Stop stops the job queue workers
func (m *Manager) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.running {
		return
	}
	m.running = false
	log.Info("[JobQueue Manager] Stopping job queue")
	m.queue.Stop()
}

// EnqueueProposalNotification implements the proposal outbox for link mails.
func (m *Manager) EnqueueProposalNotification(job proposal.NotificationJob) error {
	payload := ProposalNotificationPayload{
		Email:      job.Email,
		Token:      job.Token,
		ClientName: job.ClientName,
		ExpiresAt:  job.ExpiresAt,
	}
	_, err := m.queue.EnqueueJob(JobTypeProposalNotification, payload.ToMap())
	return err
}

// EnqueueInvoiceGeneration implements the proposal outbox for invoice jobs.
func (m *Manager) EnqueueInvoiceGeneration(job proposal.InvoiceJob) error {
	payload := InvoiceGenerationPayload{
		CheckoutID:      job.CheckoutID,
		BillingDetailID: job.BillingDetailID,
		Email:           job.Email,
	}
	_, err := m.queue.EnqueueJob(JobTypeInvoiceGeneration, payload.ToMap())
	return err
}
