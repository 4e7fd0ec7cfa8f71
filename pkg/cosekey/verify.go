package cosekey

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/sha512"
	"fmt"

	"github.com/ldclabs/cose/iana"
	"github.com/ldclabs/cose/key"
)

// Verify checks sig over message under alg. A structurally valid but wrong
// signature reports (false, nil); an algorithm the engine does not implement,
// or a key of the wrong shape for alg, is an error.
func Verify(alg key.Alg, pub crypto.PublicKey, message, sig []byte) (bool, error) {
	switch alg {
	case iana.AlgorithmES256:
		digest := sha256.Sum256(message)
		return verifyECDSA(pub, digest[:], sig)
	case iana.AlgorithmES384:
		digest := sha512.Sum384(message)
		return verifyECDSA(pub, digest[:], sig)
	case iana.AlgorithmES512:
		digest := sha512.Sum512(message)
		return verifyECDSA(pub, digest[:], sig)
	case iana.AlgorithmEdDSA:
		pk, ok := pub.(ed25519.PublicKey)
		if !ok {
			return false, fmt.Errorf("%w: EdDSA needs an Ed25519 key, got %T", ErrKeyMismatch, pub)
		}
		return ed25519.Verify(pk, message, sig), nil
	case iana.AlgorithmRS256:
		return verifyRSA(pub, crypto.SHA256, message, sig)
	case iana.AlgorithmRS384:
		return verifyRSA(pub, crypto.SHA384, message, sig)
	case iana.AlgorithmRS512:
		return verifyRSA(pub, crypto.SHA512, message, sig)
	default:
		return false, fmt.Errorf("%w: %d", ErrUnsupportedAlgorithm, alg)
	}
}

// Supported reports whether Verify implements alg.
func Supported(alg key.Alg) bool {
	switch alg {
	case iana.AlgorithmES256, iana.AlgorithmES384, iana.AlgorithmES512,
		iana.AlgorithmEdDSA,
		iana.AlgorithmRS256, iana.AlgorithmRS384, iana.AlgorithmRS512:
		return true
	}

	return false
}

// WebAuthn ECDSA signatures are ASN.1 DER encoded, not the raw r||s form
// COSE uses elsewhere.
func verifyECDSA(pub crypto.PublicKey, digest, sig []byte) (bool, error) {
	pk, ok := pub.(*ecdsa.PublicKey)
	if !ok {
		return false, fmt.Errorf("%w: ECDSA needs an EC key, got %T", ErrKeyMismatch, pub)
	}

	return ecdsa.VerifyASN1(pk, digest, sig), nil
}

func verifyRSA(pub crypto.PublicKey, hash crypto.Hash, message, sig []byte) (bool, error) {
	pk, ok := pub.(*rsa.PublicKey)
	if !ok {
		return false, fmt.Errorf("%w: RSASSA-PKCS1-v1_5 needs an RSA key, got %T", ErrKeyMismatch, pub)
	}

	h := hash.New()
	h.Write(message)
	if err := rsa.VerifyPKCS1v15(pk, hash, h.Sum(nil), sig); err != nil {
		return false, nil
	}

	return true, nil
}
