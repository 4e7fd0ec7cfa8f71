package rp

import (
	"bytes"
	"fmt"

	"github.com/go-ctap/webauthnrp/pkg/authdata"
	"github.com/go-ctap/webauthnrp/pkg/clientdata"
	"github.com/go-ctap/webauthnrp/pkg/cosekey"
	"github.com/go-ctap/webauthnrp/pkg/webauthntypes"

	"github.com/google/uuid"
	"github.com/ldclabs/cose/key"
	"github.com/samber/lo"
)

// Registration is the verified outcome of a registration ceremony: the
// material the caller persists against the account.
type Registration struct {
	CredentialID   []byte
	PublicKeyPEM   []byte
	Algorithm      key.Alg
	SignCount      uint32
	AAGUID         uuid.UUID
	Format         webauthntypes.AttestationStatementFormatIdentifier
	BackupEligible bool
	BackedUp       bool
	Transports     []webauthntypes.AuthenticatorTransport
}

// VerifyRegistration checks an attestation response against the expected
// challenge and the configured policy. Checks run in a fixed order; a failure
// is a *VerificationError naming the step that rejected the response, and no
// partial Registration is ever returned.
//
// The attestation statement is accepted structurally for any format
// identifier. Trust chain validation against authenticator roots is out of
// scope; callers that need it can take the statement from
// authdata.ParseAttestationObject directly.
func (rp *RelyingParty) VerifyRegistration(
	cred *webauthntypes.RegistrationCredential,
	expectedChallenge []byte,
) (*Registration, error) {
	if err := rp.ready(); err != nil {
		return nil, err
	}

	if cred.Type != webauthntypes.PublicKeyCredentialTypePublicKey {
		return nil, newRegistrationError(StepParse, ErrInvalidCredentialType)
	}

	if _, err := clientdata.Verify(
		cred.Response.ClientDataJSON,
		webauthntypes.CeremonyTypeCreate,
		expectedChallenge,
		rp.config.Origins,
	); err != nil {
		return nil, newRegistrationError(StepClientData, err)
	}

	attObj, err := authdata.ParseAttestationObject(rp.decMode, cred.Response.AttestationObject)
	if err != nil {
		return nil, newRegistrationError(StepParse, err)
	}
	rp.logger.Debug("attestation object decoded",
		"fmt", attObj.Format,
		"flags", fmt.Sprintf("%08b", byte(attObj.AuthData.Flags)),
		"signCount", attObj.AuthData.SignCount,
	)

	if vErr := rp.checkAuthData(CeremonyRegistration, attObj.AuthData); vErr != nil {
		return nil, vErr
	}

	credData := attObj.AuthData.AttestedCredentialData
	if credData == nil {
		return nil, newRegistrationError(StepCredentialData, authdata.ErrNoAttestedCredential)
	}
	if !bytes.Equal(credData.CredentialID, cred.RawID) {
		return nil, newRegistrationError(StepCredentialData, ErrCredentialMismatch)
	}

	alg := credData.CredentialPublicKey.Alg()
	if !lo.Contains(rp.config.Algorithms, alg) {
		return nil, newRegistrationError(StepAlgorithm, fmt.Errorf("%w: %d", ErrAlgorithmNotAllowed, alg))
	}

	pub, err := cosekey.PublicKey(credData.CredentialPublicKey)
	if err != nil {
		return nil, newRegistrationError(StepPublicKey, err)
	}
	publicKeyPEM, err := cosekey.MarshalPEM(pub)
	if err != nil {
		return nil, newRegistrationError(StepPublicKey, err)
	}

	return &Registration{
		CredentialID:   credData.CredentialID,
		PublicKeyPEM:   publicKeyPEM,
		Algorithm:      alg,
		SignCount:      attObj.AuthData.SignCount,
		AAGUID:         credData.AAGUID,
		Format:         attObj.Format,
		BackupEligible: attObj.AuthData.Flags.BackupEligible(),
		BackedUp:       attObj.AuthData.Flags.BackedUp(),
		Transports:     cred.Response.Transports,
	}, nil
}
