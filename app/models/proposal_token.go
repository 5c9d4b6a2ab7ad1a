package models

import (
	"crypto/rand"
	"encoding/hex"
	"time"
)

// ProposalTokenTTL is the fixed validity window for a client proposal link.
const ProposalTokenTTL = 30 * 24 * time.Hour

// ProposalToken is the single-use capability a client receives to view and
// approve one proposal. Resending a proposal mints a fresh token; the old row
// stays in storage but becomes unreachable because only the newest token per
// cart is ever looked up.
type ProposalToken struct {
	ID              uint       `gorm:"primaryKey" json:"id"`
	Token           string     `gorm:"type:varchar(100);uniqueIndex;not null" json:"token"`
	CartID          *uint      `gorm:"index" json:"cart_id,omitempty"`
	Cart            *Cart      `gorm:"foreignKey:CartID" json:"-"`
	Email           string     `gorm:"type:varchar(200)" json:"email"`
	BillingInfo     string     `gorm:"type:text" json:"-"`
	Items           string     `gorm:"type:text" json:"-"`
	SnapshotVersion int        `gorm:"not null;default:1" json:"-"`
	ExpiresAt       time.Time  `gorm:"not null" json:"expires_at"`
	IsUsed          bool       `gorm:"not null;default:false" json:"is_used"`
	UsedAt          *time.Time `gorm:"type:timestamp;default:null" json:"used_at,omitempty"`
	CreatedAt       time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

// GenerateProposalToken fills Token with 32 random bytes hex-encoded and sets
// the expiry to now + ProposalTokenTTL.
func (t *ProposalToken) GenerateProposalToken() error {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return err
	}
	t.Token = hex.EncodeToString(b)
	t.ExpiresAt = time.Now().Add(ProposalTokenTTL)
	return nil
}

// IsExpired reports whether the token is past its expiry.
func (t *ProposalToken) IsExpired() bool {
	return !time.Now().Before(t.ExpiresAt)
}

// IsLive reports whether the token can still accept a submission.
func (t *ProposalToken) IsLive() bool {
	return !t.IsUsed && !t.IsExpired()
}
