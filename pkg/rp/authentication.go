package rp

import (
	"crypto/sha256"
	"fmt"
	"slices"

	"github.com/go-ctap/webauthnrp/pkg/authdata"
	"github.com/go-ctap/webauthnrp/pkg/clientdata"
	"github.com/go-ctap/webauthnrp/pkg/cosekey"
	"github.com/go-ctap/webauthnrp/pkg/webauthntypes"

	"github.com/samber/lo"
	"github.com/samber/mo"
)

// Authentication is the outcome of an assertion verification. Valid reports
// the signature check. PossibleCloning surfaces a non-increasing signature
// counter; it is advisory and independent of Valid, never a hard failure.
type Authentication struct {
	Valid           bool
	SignCount       uint32
	PossibleCloning bool
	UserHandle      mo.Option[[]byte]
	Flags           authdata.AuthDataFlag
}

// VerifyAuthentication checks an assertion response against the expected
// challenge, the stored public key and the stored signature counter. A
// cryptographically invalid signature over well-formed input reports
// Valid=false with a nil error; malformed or policy-violating input is a
// *VerificationError.
//
// The caller owns the credential store: it resolves the credential ID from
// the envelope to the stored key and counter beforehand, and persists the
// returned SignCount afterwards. UserHandle is surfaced for resident key
// flows where the account is not known up front.
func (rp *RelyingParty) VerifyAuthentication(
	cred *webauthntypes.AssertionCredential,
	expectedChallenge []byte,
	storedPublicKeyPEM []byte,
	storedSignCount uint32,
) (*Authentication, error) {
	if err := rp.ready(); err != nil {
		return nil, err
	}

	if cred.Type != webauthntypes.PublicKeyCredentialTypePublicKey {
		return nil, newAuthenticationError(StepParse, ErrInvalidCredentialType)
	}

	if _, err := clientdata.Verify(
		cred.Response.ClientDataJSON,
		webauthntypes.CeremonyTypeGet,
		expectedChallenge,
		rp.config.Origins,
	); err != nil {
		return nil, newAuthenticationError(StepClientData, err)
	}

	authDataRaw := []byte(cred.Response.AuthenticatorData)
	authData, err := authdata.Parse(rp.decMode, authDataRaw)
	if err != nil {
		return nil, newAuthenticationError(StepParse, err)
	}
	rp.logger.Debug("assertion authenticator data decoded",
		"flags", fmt.Sprintf("%08b", byte(authData.Flags)),
		"signCount", authData.SignCount,
	)

	if vErr := rp.checkAuthData(CeremonyAuthentication, authData); vErr != nil {
		return nil, vErr
	}

	pub, err := cosekey.ParsePEM(storedPublicKeyPEM)
	if err != nil {
		return nil, newAuthenticationError(StepPublicKey, err)
	}
	alg, err := cosekey.AlgorithmOf(pub)
	if err != nil {
		return nil, newAuthenticationError(StepPublicKey, err)
	}
	if !lo.Contains(rp.config.Algorithms, alg) {
		return nil, newAuthenticationError(StepAlgorithm, fmt.Errorf("%w: %d", ErrAlgorithmNotAllowed, alg))
	}

	clientDataHash := sha256.Sum256(cred.Response.ClientDataJSON)
	payload := slices.Concat(authDataRaw, clientDataHash[:])

	valid, err := cosekey.Verify(alg, pub, payload, cred.Response.Signature)
	if err != nil {
		return nil, newAuthenticationError(StepSignature, err)
	}

	// A counter that fails to advance past the stored value signals a
	// possible clone. Authenticators without a counter report zero on both
	// sides and emit no signal.
	possibleCloning := false
	if authData.SignCount != 0 || storedSignCount != 0 {
		possibleCloning = authData.SignCount <= storedSignCount
	}

	userHandle := mo.None[[]byte]()
	if len(cred.Response.UserHandle) > 0 {
		userHandle = mo.Some([]byte(cred.Response.UserHandle))
	}

	return &Authentication{
		Valid:           valid,
		SignCount:       authData.SignCount,
		PossibleCloning: possibleCloning,
		UserHandle:      userHandle,
		Flags:           authData.Flags,
	}, nil
}
