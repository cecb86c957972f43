package entitlements

import (
	"errors"
	"fmt"
	"time"

	"github.com/VoiceAsService/VoxGate/app/models"
	"github.com/VoiceAsService/VoxGate/app/repository"
	"gorm.io/gorm"
)

// DenialReason classifies why an admission was refused.
type DenialReason string

const (
	ReasonNoSubscription      DenialReason = "no_subscription"
	ReasonExpired             DenialReason = "expired"
	ReasonInsufficientCredits DenialReason = "insufficient_credits"
)

// ErrAlreadySubscribed is returned by Grant when the user already holds an
// active entitlement.
var ErrAlreadySubscribed = errors.New("entitlements: user already has an active subscription")

// Ledger wraps the entitlement repository with the subscription lifecycle and
// the credit reservation used by admission.
type Ledger struct {
	repo repository.EntitlementRepository
	now  func() time.Time
}

// NewLedger creates a ledger from an injected repository.
func NewLedger(repo repository.EntitlementRepository) *Ledger {
	return &Ledger{repo: repo, now: time.Now}
}

// GetActiveEntitlement returns the user's single active entitlement row, or
// nil when none exists.
func (l *Ledger) GetActiveEntitlement(userID uint) (*models.UserSubscription, error) {
	sub, err := l.repo.GetActiveByUserID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return sub, nil
}

// ReserveCharacters deducts amount from the user's character balance. The
// deduction is a single conditional update; on refusal nothing is mutated and
// the returned reason says whether the user lacks a subscription, holds an
// expired one, or simply ran out of credits. Expired entitlements are reported
// but never deactivated here.
func (l *Ledger) ReserveCharacters(userID uint, amount int) (bool, DenialReason, error) {
	ok, err := l.repo.ReserveCharacters(userID, amount, l.now())
	if err != nil {
		return false, "", fmt.Errorf("reserve characters for user %d: %w", userID, err)
	}
	if ok {
		return true, "", nil
	}

	reason, err := l.classifyDenial(userID)
	if err != nil {
		return false, "", err
	}
	return false, reason, nil
}

// SpendVoiceCredits records voice credit usage for clone actions. The clone
// flow tracks this balance without gating on it, so a false return is not an
// error for callers.
func (l *Ledger) SpendVoiceCredits(userID uint, amount int) (bool, error) {
	return l.repo.SpendVoiceCredits(userID, amount, l.now())
}

// Grant creates a new active entitlement from a plan. Fails with
// ErrAlreadySubscribed when an active row exists. The duplicate check lives in
// the storage layer, so concurrent grants for the same user cannot both
// succeed and leave two active rows behind.
func (l *Ledger) Grant(userID uint, plan *models.SubscriptionPlan, paymentID string) (*models.UserSubscription, error) {
	now := l.now()
	endDate := now.AddDate(0, 0, plan.DurationDays)
	sub := &models.UserSubscription{
		UserID:           userID,
		SubscriptionID:   plan.ID,
		StartDate:        now,
		EndDate:          &endDate,
		IsActive:         true,
		PaymentID:        paymentID,
		CharacterCredits: plan.CharacterLimit,
		VoiceCredits:     plan.VoiceLimit,
	}

	created, err := l.repo.CreateIfNoneActive(sub)
	if err != nil {
		return nil, fmt.Errorf("grant subscription for user %d: %w", userID, err)
	}
	if !created {
		return nil, ErrAlreadySubscribed
	}
	return sub, nil
}

// Revoke deactivates the user's active entitlement. Returns false when none
// exists. The row is kept as historical record.
func (l *Ledger) Revoke(userID uint) (bool, error) {
	return l.repo.Deactivate(userID)
}

// classifyDenial inspects the ledger after a failed reservation to produce a
// typed reason. The read happens after the conditional update refused, so it
// only informs the error message and cannot race the balance check itself.
func (l *Ledger) classifyDenial(userID uint) (DenialReason, error) {
	sub, err := l.GetActiveEntitlement(userID)
	if err != nil {
		return "", err
	}
	if sub == nil {
		return ReasonNoSubscription, nil
	}
	if sub.IsExpired(l.now()) {
		return ReasonExpired, nil
	}
	return ReasonInsufficientCredits, nil
}
