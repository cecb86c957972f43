package orchestrator

import (
	"errors"
	"fmt"

	"github.com/VoiceAsService/VoxGate/internal/pkg/entitlements"
)

// ErrNoProviderConfig means no active configuration can serve the requested
// provider and capability. Callers map this to a client error before any
// credits move.
var ErrNoProviderConfig = errors.New("orchestrator: no active provider configuration for this capability")

// ValidationError rejects malformed input before any entitlement or vendor
// interaction.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// AdmissionError rejects a request at the entitlement gate. The vendor was
// never called and no credits were deducted.
type AdmissionError struct {
	Reason entitlements.DenialReason
}

func (e *AdmissionError) Error() string {
	return fmt.Sprintf("admission denied: %s", e.Reason)
}

// VendorError wraps an upstream failure after admission. Reserved credits are
// not refunded when this is returned.
type VendorError struct {
	Provider string
	Err      error
}

func (e *VendorError) Error() string {
	return fmt.Sprintf("vendor %s failed: %v", e.Provider, e.Err)
}

func (e *VendorError) Unwrap() error { return e.Err }
