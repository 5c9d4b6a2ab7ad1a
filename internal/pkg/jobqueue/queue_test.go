package jobqueue

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// TestNewQueue tests the queue constructor
func TestNewQueue(t *testing.T) {
	tests := []struct {
		name            string
		workers         int
		expectedWorkers int
	}{
		{"Valid worker count", 5, 5},
		{"Zero workers", 0, 3},
		{"Negative workers", -1, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			queue := NewQueue(tt.workers, nil, nil)

			assert.NotNil(t, queue)
			assert.Equal(t, tt.expectedWorkers, queue.workers)
			assert.NotNil(t, queue.workerPool)
			assert.Equal(t, tt.expectedWorkers, cap(queue.workerPool))
			assert.NotNil(t, queue.stopCh)
			assert.False(t, queue.running)
		})
	}
}

func TestConstants(t *testing.T) {
	assert.Equal(t, "job:", JobKeyPrefix)
	assert.Equal(t, "job_queue", JobQueueKey)
	assert.Equal(t, "job_processing", JobProcessingKey)
	assert.Equal(t, "job_stats", JobStatsKey)

	assert.Equal(t, 3, DefaultMaxRetries)
	assert.Equal(t, 24*time.Hour, JobTTL)
}

func TestJobLifecycleTransitions(t *testing.T) {
	job := &Job{
		ID:         "test",
		Type:       JobTypeProposalNotification,
		Status:     JobStatusPending,
		MaxRetries: DefaultMaxRetries,
	}

	job.MarkAsProcessing()
	assert.Equal(t, JobStatusProcessing, job.Status)
	assert.NotNil(t, job.ProcessedAt)

	job.MarkAsFailed("smtp down")
	assert.Equal(t, JobStatusFailed, job.Status)
	assert.Equal(t, "smtp down", job.ErrorMsg)
	assert.True(t, job.IsRetryable())

	for i := 0; i < DefaultMaxRetries; i++ {
		job.MarkAsRetrying()
	}
	assert.False(t, job.IsRetryable())

	job.MarkAsCompleted()
	assert.Equal(t, JobStatusCompleted, job.Status)
	assert.NotNil(t, job.CompletedAt)
}

func TestProposalNotificationPayloadRoundTrip(t *testing.T) {
	expires := time.Now().Add(30 * 24 * time.Hour).UTC().Truncate(time.Second)
	payload := ProposalNotificationPayload{
		Email:      "client@acme.example",
		Token:      "abc123",
		ClientName: "Acme Labs",
		ExpiresAt:  expires,
	}

	restored, err := ProposalNotificationPayloadFromMap(payload.ToMap())
	assert.NoError(t, err)
	assert.Equal(t, payload.Email, restored.Email)
	assert.Equal(t, payload.Token, restored.Token)
	assert.True(t, payload.ExpiresAt.Equal(restored.ExpiresAt))
}
