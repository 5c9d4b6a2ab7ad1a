package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateProposalToken(t *testing.T) {
	var first ProposalToken
	require.NoError(t, first.GenerateProposalToken())

	assert.Len(t, first.Token, 64, "32 random bytes hex-encoded")
	assert.WithinDuration(t, time.Now().Add(ProposalTokenTTL), first.ExpiresAt, time.Minute)

	var second ProposalToken
	require.NoError(t, second.GenerateProposalToken())
	assert.NotEqual(t, first.Token, second.Token)
}

func TestProposalTokenStates(t *testing.T) {
	live := ProposalToken{ExpiresAt: time.Now().Add(time.Hour)}
	assert.False(t, live.IsExpired())
	assert.True(t, live.IsLive())

	expired := ProposalToken{ExpiresAt: time.Now().Add(-time.Second)}
	assert.True(t, expired.IsExpired())
	assert.False(t, expired.IsLive())

	used := ProposalToken{ExpiresAt: time.Now().Add(time.Hour), IsUsed: true}
	assert.False(t, used.IsLive())
}

func TestBillingDetailIsDeletable(t *testing.T) {
	tests := []struct {
		name           string
		proposalStatus string
		invoiceStatus  string
		want           bool
	}{
		{"fresh proposal", PROPOSAL_SENT, INVOICE_NOT_PAID, true},
		{"rejected proposal", PROPOSAL_REJECTED, INVOICE_NOT_PAID, true},
		{"approved proposal", PROPOSAL_APPROVED, INVOICE_NOT_PAID, false},
		{"invoice generated", PROPOSAL_SENT, INVOICE_GENERATED, false},
		{"approved and invoiced", PROPOSAL_APPROVED, INVOICE_GENERATED, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := BillingDetail{ProposalStatus: tt.proposalStatus, InvoiceStatus: tt.invoiceStatus}
			assert.Equal(t, tt.want, b.IsDeletable())
		})
	}
}
