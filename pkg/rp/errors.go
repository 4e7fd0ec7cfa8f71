package rp

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidCredentialType = errors.New("rp: credential type is not public-key")
	ErrRPIDHashMismatch      = errors.New("rp: RP ID hash mismatch")
	ErrUserNotPresent        = errors.New("rp: user presence flag not set")
	ErrUserNotVerified       = errors.New("rp: user verification required but flag not set")
	ErrCredentialMismatch    = errors.New("rp: credential ID does not match attested credential data")
	ErrAlgorithmNotAllowed   = errors.New("rp: credential algorithm not in configured allow-list")
)

// ConfigError reports an invalid or missing RelyingParty configuration.
type ConfigError struct {
	Option string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("rp: invalid config: %s: %s", e.Option, e.Reason)
}

// Ceremony names the WebAuthn ceremony a verification error belongs to.
type Ceremony string

const (
	CeremonyRegistration   Ceremony = "registration"
	CeremonyAuthentication Ceremony = "authentication"
)

// Step is the point in a ceremony's fixed check order at which a response was
// rejected.
type Step string

const (
	StepClientData       Step = "client data"
	StepParse            Step = "parse"
	StepRPIDHash         Step = "rp id hash"
	StepUserPresence     Step = "user presence"
	StepUserVerification Step = "user verification"
	StepCredentialData   Step = "credential data"
	StepAlgorithm        Step = "algorithm"
	StepPublicKey        Step = "public key"
	StepSignature        Step = "signature"
)

// VerificationError is a ceremony failure tagged with the step that produced
// it. Unwrap exposes the underlying error to errors.Is and errors.As.
type VerificationError struct {
	Ceremony Ceremony
	Step     Step
	Err      error
}

func (e *VerificationError) Error() string {
	return fmt.Sprintf("rp: %s rejected at %s: %v", e.Ceremony, e.Step, e.Err)
}

func (e *VerificationError) Unwrap() error {
	return e.Err
}

func newRegistrationError(step Step, err error) *VerificationError {
	return &VerificationError{Ceremony: CeremonyRegistration, Step: step, Err: err}
}

func newAuthenticationError(step Step, err error) *VerificationError {
	return &VerificationError{Ceremony: CeremonyAuthentication, Step: step, Err: err}
}
