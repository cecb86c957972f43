package entitlements

import (
	"github.com/VoiceAsService/VoxGate/internal/pkg/usercontext"
)

// AdmissionResult is the outcome of a pre-dispatch entitlement check.
type AdmissionResult struct {
	Allowed bool
	Reason  DenialReason
}

// Admission is the single place billable requests get admitted and charged.
// Vendor adapters never deduct credits themselves; whatever goes through here
// is the only user-side charge a request produces.
type Admission struct {
	ledger *Ledger
}

// NewAdmission creates an admission controller over a ledger.
func NewAdmission(ledger *Ledger) *Admission {
	return &Admission{ledger: ledger}
}

// Admit checks whether the user may consume characterCount characters and, if
// so, reserves them. Privileged roles bypass the ledger entirely.
func (a *Admission) Admit(user usercontext.UserContext, characterCount int) (AdmissionResult, error) {
	if user.IsPrivileged() {
		return AdmissionResult{Allowed: true}, nil
	}
	if characterCount <= 0 {
		return AdmissionResult{Allowed: true}, nil
	}

	ok, reason, err := a.ledger.ReserveCharacters(user.UserID, characterCount)
	if err != nil {
		return AdmissionResult{}, err
	}
	if !ok {
		return AdmissionResult{Allowed: false, Reason: reason}, nil
	}
	return AdmissionResult{Allowed: true}, nil
}
