// Package rp implements the server side of WebAuthn ceremonies: challenge
// issuance, registration (attestation) verification and authentication
// (assertion) verification, under one immutable policy configuration.
//
// The package holds no state between calls. Challenges live in the caller's
// session store, credentials in the caller's credential store; both are
// handed back in explicitly. Nothing here reads the clock during
// verification or retries on failure.
package rp

import (
	"bytes"
	"crypto/sha256"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/go-ctap/webauthnrp/pkg/authdata"
	"github.com/go-ctap/webauthnrp/pkg/challenge"
	"github.com/go-ctap/webauthnrp/pkg/cosekey"
	"github.com/go-ctap/webauthnrp/pkg/options"
	"github.com/go-ctap/webauthnrp/pkg/webauthntypes"

	"github.com/fxamacker/cbor/v2"
	"github.com/ldclabs/cose/iana"
	"github.com/ldclabs/cose/key"
	"github.com/samber/lo"
	"github.com/samber/mo"
)

// Config is the write-once policy of a RelyingParty. Zero values mean the
// documented default where one exists; New rejects anything else that is
// missing or out of range.
type Config struct {
	// RPID is the relying party identifier, normally the site's effective
	// domain. Required.
	RPID string
	// RPName is the human-readable relying party name shown by clients.
	// Required.
	RPName string
	// RPIcon is an optional URL to a relying party icon.
	RPIcon string
	// Timeout bounds a ceremony. It is stamped onto issued challenges and
	// emitted in milliseconds on the wire. Default 60s.
	Timeout time.Duration
	// ChallengeSize is the challenge length in bytes, between 16 and 1024.
	// Default 128.
	ChallengeSize int
	// AttestationPreference selects the attestation conveyance requested at
	// registration. Default direct.
	AttestationPreference webauthntypes.AttestationConveyancePreference
	// Algorithms is the ordered COSE algorithm allow-list for credentials.
	// Nil selects the default of ES256 and RS256; a non-nil empty slice is
	// rejected, as is any algorithm the signature engine does not implement.
	Algorithms []key.Alg
	// AuthenticatorAttachment narrows eligible authenticators at
	// registration. Default platform.
	AuthenticatorAttachment webauthntypes.AuthenticatorAttachment
	// RequireResidentKey asks the authenticator for a discoverable
	// credential. Default false.
	RequireResidentKey bool
	// UserVerification is the user verification policy for both ceremonies.
	// "required" makes the verifiers demand the UV flag. Default preferred.
	UserVerification webauthntypes.UserVerificationRequirement
	// Origins is the allow-list matched against the client data origin.
	// Default ["https://" + RPID].
	Origins []string
}

// RelyingParty verifies WebAuthn ceremonies under one Config. It is immutable
// after New and safe for concurrent use.
type RelyingParty struct {
	config  Config
	logger  *slog.Logger
	decMode cbor.DecMode
}

// New validates config, applies defaults and builds a RelyingParty.
// Validation failures are *ConfigError values naming the offending option.
func New(config Config, opts ...options.Option) (*RelyingParty, error) {
	if config.RPID == "" {
		return nil, &ConfigError{Option: "rpId", Reason: "must not be empty"}
	}
	if config.RPName == "" {
		return nil, &ConfigError{Option: "rpName", Reason: "must not be empty"}
	}

	if config.Timeout < 0 {
		return nil, &ConfigError{Option: "timeout", Reason: "must not be negative"}
	}
	if config.Timeout == 0 {
		config.Timeout = 60 * time.Second
	}

	if config.ChallengeSize == 0 {
		config.ChallengeSize = 128
	}
	if config.ChallengeSize < 16 || config.ChallengeSize > 1024 {
		return nil, &ConfigError{Option: "challengeSize", Reason: "must be between 16 and 1024 bytes"}
	}

	if config.Algorithms == nil {
		config.Algorithms = []key.Alg{iana.AlgorithmES256, iana.AlgorithmRS256}
	}
	if len(config.Algorithms) == 0 {
		return nil, &ConfigError{Option: "algorithms", Reason: "must not be empty"}
	}
	for _, alg := range config.Algorithms {
		if !cosekey.Supported(alg) {
			return nil, &ConfigError{Option: "algorithms", Reason: fmt.Sprintf("COSE algorithm %d is not supported", alg)}
		}
	}

	switch config.AttestationPreference {
	case "":
		config.AttestationPreference = webauthntypes.AttestationConveyancePreferenceDirect
	case webauthntypes.AttestationConveyancePreferenceNone,
		webauthntypes.AttestationConveyancePreferenceIndirect,
		webauthntypes.AttestationConveyancePreferenceDirect,
		webauthntypes.AttestationConveyancePreferenceEnterprise:
	default:
		return nil, &ConfigError{Option: "attestation", Reason: fmt.Sprintf("unknown preference %q", config.AttestationPreference)}
	}

	switch config.AuthenticatorAttachment {
	case "":
		config.AuthenticatorAttachment = webauthntypes.AuthenticatorAttachmentPlatform
	case webauthntypes.AuthenticatorAttachmentPlatform,
		webauthntypes.AuthenticatorAttachmentCrossPlatform:
	default:
		return nil, &ConfigError{Option: "authenticatorAttachment", Reason: fmt.Sprintf("unknown attachment %q", config.AuthenticatorAttachment)}
	}

	switch config.UserVerification {
	case "":
		config.UserVerification = webauthntypes.UserVerificationRequirementPreferred
	case webauthntypes.UserVerificationRequirementRequired,
		webauthntypes.UserVerificationRequirementPreferred,
		webauthntypes.UserVerificationRequirementDiscouraged:
	default:
		return nil, &ConfigError{Option: "userVerification", Reason: fmt.Sprintf("unknown requirement %q", config.UserVerification)}
	}

	if len(config.Origins) == 0 {
		config.Origins = []string{"https://" + config.RPID}
	}

	// Detach the slices from the caller so the config stays immutable.
	config.Algorithms = slices.Clone(config.Algorithms)
	config.Origins = slices.Clone(config.Origins)

	oo := options.NewOptions(opts...)

	return &RelyingParty{
		config:  config,
		logger:  oo.Logger,
		decMode: oo.DecMode,
	}, nil
}

// ready rejects use of a RelyingParty that was not built by New.
func (rp *RelyingParty) ready() error {
	if rp == nil || rp.config.RPID == "" || rp.decMode == nil {
		return &ConfigError{Option: "rpId", Reason: "relying party not configured, use New"}
	}

	return nil
}

// NewChallenge issues a challenge bundle for either ceremony. userID ties the
// challenge to an account; empty means an anonymous challenge. The caller
// stores the challenge, enforces single use and checks expiry.
func (rp *RelyingParty) NewChallenge(userID string) (*challenge.Challenge, error) {
	if err := rp.ready(); err != nil {
		return nil, err
	}

	ch, err := challenge.New(rp.config.ChallengeSize, challenge.Params{
		RPID:    rp.config.RPID,
		RPName:  rp.config.RPName,
		RPIcon:  rp.config.RPIcon,
		Timeout: rp.config.Timeout,
		UserID:  mo.EmptyableToOption(userID),
	})
	if err != nil {
		return nil, err
	}

	rp.logger.Debug("issued challenge",
		"challenge", ch.String(),
		"userId", userID,
		"expiresAt", ch.ExpiresAt,
	)

	return ch, nil
}

// CreationOptions builds the navigator.credentials.create dictionary for a
// previously issued challenge.
func (rp *RelyingParty) CreationOptions(
	ch *challenge.Challenge,
	user webauthntypes.PublicKeyCredentialUserEntity,
	excludeCredentials ...webauthntypes.PublicKeyCredentialDescriptor,
) (*webauthntypes.PublicKeyCredentialCreationOptions, error) {
	if err := rp.ready(); err != nil {
		return nil, err
	}

	return &webauthntypes.PublicKeyCredentialCreationOptions{
		RP: webauthntypes.PublicKeyCredentialRpEntity{
			ID:   rp.config.RPID,
			Name: rp.config.RPName,
			Icon: rp.config.RPIcon,
		},
		User:      user,
		Challenge: webauthntypes.Base64URL(ch.Value),
		PubKeyCredParams: lo.Map(rp.config.Algorithms, func(alg key.Alg, _ int) webauthntypes.PublicKeyCredentialParameters {
			return webauthntypes.PublicKeyCredentialParameters{
				Type:      webauthntypes.PublicKeyCredentialTypePublicKey,
				Algorithm: alg,
			}
		}),
		Timeout:            uint64(rp.config.Timeout.Milliseconds()),
		ExcludeCredentials: excludeCredentials,
		AuthenticatorSelection: &webauthntypes.AuthenticatorSelectionCriteria{
			AuthenticatorAttachment: rp.config.AuthenticatorAttachment,
			ResidentKey: lo.Ternary(rp.config.RequireResidentKey,
				webauthntypes.ResidentKeyRequirementRequired,
				webauthntypes.ResidentKeyRequirementDiscouraged),
			RequireResidentKey: rp.config.RequireResidentKey,
			UserVerification:   rp.config.UserVerification,
		},
		Hints:       rp.hints(),
		Attestation: rp.config.AttestationPreference,
	}, nil
}

// RequestOptions builds the navigator.credentials.get dictionary for a
// previously issued challenge. An empty allowCredentials leaves credential
// discovery to the client.
func (rp *RelyingParty) RequestOptions(
	ch *challenge.Challenge,
	allowCredentials ...webauthntypes.PublicKeyCredentialDescriptor,
) (*webauthntypes.PublicKeyCredentialRequestOptions, error) {
	if err := rp.ready(); err != nil {
		return nil, err
	}

	return &webauthntypes.PublicKeyCredentialRequestOptions{
		Challenge:        webauthntypes.Base64URL(ch.Value),
		Timeout:          uint64(rp.config.Timeout.Milliseconds()),
		RPID:             rp.config.RPID,
		AllowCredentials: allowCredentials,
		UserVerification: rp.config.UserVerification,
		Hints:            rp.hints(),
	}, nil
}

func (rp *RelyingParty) hints() []webauthntypes.PublicKeyCredentialHint {
	switch rp.config.AuthenticatorAttachment {
	case webauthntypes.AuthenticatorAttachmentPlatform:
		return []webauthntypes.PublicKeyCredentialHint{
			webauthntypes.PublicKeyCredentialHintClientDevice,
		}
	case webauthntypes.AuthenticatorAttachmentCrossPlatform:
		return []webauthntypes.PublicKeyCredentialHint{
			webauthntypes.PublicKeyCredentialHintSecurityKey,
			webauthntypes.PublicKeyCredentialHintHybrid,
		}
	}

	return nil
}

// checkAuthData runs the authenticator data checks shared by both
// ceremonies: RP ID hash binding, user presence and the configured user
// verification policy.
func (rp *RelyingParty) checkAuthData(ceremony Ceremony, authData *authdata.AuthenticatorData) *VerificationError {
	rpIDHash := sha256.Sum256([]byte(rp.config.RPID))
	if !bytes.Equal(authData.RPIDHash, rpIDHash[:]) {
		return &VerificationError{Ceremony: ceremony, Step: StepRPIDHash, Err: ErrRPIDHashMismatch}
	}

	if !authData.Flags.UserPresent() {
		return &VerificationError{Ceremony: ceremony, Step: StepUserPresence, Err: ErrUserNotPresent}
	}

	if rp.config.UserVerification == webauthntypes.UserVerificationRequirementRequired &&
		!authData.Flags.UserVerified() {
		return &VerificationError{Ceremony: ceremony, Step: StepUserVerification, Err: ErrUserNotVerified}
	}

	return nil
}
