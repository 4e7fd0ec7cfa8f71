package cosekey

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"testing"

	"github.com/ldclabs/cose/iana"
	"github.com/ldclabs/cose/key"
	ecdsa2 "github.com/ldclabs/cose/key/ecdsa"
	eddsa "github.com/ldclabs/cose/key/ed25519"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublicKeyEC2(t *testing.T) {
	priv, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)

	coseKey, err := ecdsa2.KeyFromPublic(&priv.PublicKey)
	require.NoError(t, err)

	pub, err := PublicKey(coseKey)
	require.NoError(t, err)
	assert.Equal(t, &priv.PublicKey, pub)
}

func TestPublicKeyOKP(t *testing.T) {
	edPub, _, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)

	coseKey, err := eddsa.KeyFromPublic(edPub)
	require.NoError(t, err)

	pub, err := PublicKey(coseKey)
	require.NoError(t, err)
	assert.Equal(t, edPub, pub)
}

func TestPublicKeyRSA(t *testing.T) {
	priv, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	coseKey := key.Key{
		iana.KeyParameterKty:  iana.KeyTypeRSA,
		iana.KeyParameterAlg:  iana.AlgorithmRS256,
		iana.RSAKeyParameterN: priv.PublicKey.N.Bytes(),
		iana.RSAKeyParameterE: []byte{0x01, 0x00, 0x01},
	}

	pub, err := PublicKey(coseKey)
	require.NoError(t, err)

	rsaPub, ok := pub.(*rsa.PublicKey)
	require.True(t, ok)
	assert.Equal(t, priv.PublicKey.N, rsaPub.N)
	assert.Equal(t, 65537, rsaPub.E)
}

func TestPublicKeyRSAIntegerExponent(t *testing.T) {
	priv, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	coseKey := key.Key{
		iana.KeyParameterKty:  iana.KeyTypeRSA,
		iana.RSAKeyParameterN: priv.PublicKey.N.Bytes(),
		iana.RSAKeyParameterE: int64(65537),
	}

	pub, err := PublicKey(coseKey)
	require.NoError(t, err)
	assert.Equal(t, 65537, pub.(*rsa.PublicKey).E)
}

func TestPublicKeyRSARejectsBadExponent(t *testing.T) {
	coseKey := key.Key{
		iana.KeyParameterKty:  iana.KeyTypeRSA,
		iana.RSAKeyParameterN: []byte{0x01, 0x02, 0x03},
		iana.RSAKeyParameterE: []byte{0x01},
	}

	_, err := PublicKey(coseKey)
	assert.Error(t, err)
}

func TestPublicKeyUnsupportedKeyType(t *testing.T) {
	_, err := PublicKey(key.Key{iana.KeyParameterKty: 4})
	assert.ErrorIs(t, err, ErrUnsupportedKeyType)
}

func TestVerifyES256(t *testing.T) {
	priv, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)

	message := []byte("authenticator data and client data hash")
	digest := sha256.Sum256(message)
	sig, err := ecdsa.SignASN1(rand.Reader, priv, digest[:])
	require.NoError(t, err)

	valid, err := Verify(iana.AlgorithmES256, &priv.PublicKey, message, sig)
	require.NoError(t, err)
	assert.True(t, valid)

	tampered := append([]byte(nil), sig...)
	tampered[len(tampered)-1] ^= 0x01
	valid, err = Verify(iana.AlgorithmES256, &priv.PublicKey, message, tampered)
	require.NoError(t, err)
	assert.False(t, valid)
}

func TestVerifyEdDSA(t *testing.T) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)

	message := []byte("authenticator data and client data hash")
	sig := ed25519.Sign(priv, message)

	valid, err := Verify(iana.AlgorithmEdDSA, pub, message, sig)
	require.NoError(t, err)
	assert.True(t, valid)

	tampered := append([]byte(nil), sig...)
	tampered[0] ^= 0x01
	valid, err = Verify(iana.AlgorithmEdDSA, pub, message, tampered)
	require.NoError(t, err)
	assert.False(t, valid)
}

func TestVerifyRS256(t *testing.T) {
	priv, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	message := []byte("authenticator data and client data hash")
	digest := sha256.Sum256(message)
	sig, err := rsa.SignPKCS1v15(rand.Reader, priv, crypto.SHA256, digest[:])
	require.NoError(t, err)

	valid, err := Verify(iana.AlgorithmRS256, &priv.PublicKey, message, sig)
	require.NoError(t, err)
	assert.True(t, valid)

	tampered := append([]byte(nil), sig...)
	tampered[0] ^= 0x01
	valid, err = Verify(iana.AlgorithmRS256, &priv.PublicKey, message, tampered)
	require.NoError(t, err)
	assert.False(t, valid)
}

func TestVerifyKeyMismatch(t *testing.T) {
	pub, _, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)

	_, err = Verify(iana.AlgorithmES256, pub, []byte("message"), []byte("sig"))
	assert.ErrorIs(t, err, ErrKeyMismatch)

	priv, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)
	_, err = Verify(iana.AlgorithmEdDSA, &priv.PublicKey, []byte("message"), []byte("sig"))
	assert.ErrorIs(t, err, ErrKeyMismatch)

	_, err = Verify(iana.AlgorithmRS256, &priv.PublicKey, []byte("message"), []byte("sig"))
	assert.ErrorIs(t, err, ErrKeyMismatch)
}

func TestVerifyUnsupportedAlgorithm(t *testing.T) {
	priv, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)

	// ES256K (-47) is registered but the engine does not implement it.
	_, err = Verify(-47, &priv.PublicKey, []byte("message"), []byte("sig"))
	assert.ErrorIs(t, err, ErrUnsupportedAlgorithm)
}

func TestSupported(t *testing.T) {
	assert.True(t, Supported(iana.AlgorithmES256))
	assert.True(t, Supported(iana.AlgorithmEdDSA))
	assert.True(t, Supported(iana.AlgorithmRS512))
	assert.False(t, Supported(-47))
	assert.False(t, Supported(0))
}

func TestAlgorithmOf(t *testing.T) {
	p256, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)
	alg, err := AlgorithmOf(&p256.PublicKey)
	require.NoError(t, err)
	assert.Equal(t, iana.AlgorithmES256, int(alg))

	p384, err := ecdsa.GenerateKey(elliptic.P384(), rand.Reader)
	require.NoError(t, err)
	alg, err = AlgorithmOf(&p384.PublicKey)
	require.NoError(t, err)
	assert.Equal(t, iana.AlgorithmES384, int(alg))

	edPub, _, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	alg, err = AlgorithmOf(edPub)
	require.NoError(t, err)
	assert.Equal(t, iana.AlgorithmEdDSA, int(alg))

	rsaPriv, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	alg, err = AlgorithmOf(&rsaPriv.PublicKey)
	require.NoError(t, err)
	assert.Equal(t, iana.AlgorithmRS256, int(alg))

	_, err = AlgorithmOf("not a key")
	assert.ErrorIs(t, err, ErrUnsupportedKeyType)
}

func TestMarshalParsePEM(t *testing.T) {
	priv, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)

	pemBytes, err := MarshalPEM(&priv.PublicKey)
	require.NoError(t, err)
	assert.Contains(t, string(pemBytes), "BEGIN PUBLIC KEY")

	pub, err := ParsePEM(pemBytes)
	require.NoError(t, err)
	assert.Equal(t, &priv.PublicKey, pub)
}

func TestParsePEMRejectsGarbage(t *testing.T) {
	_, err := ParsePEM([]byte("not pem at all"))
	assert.Error(t, err)

	_, err = ParsePEM([]byte("-----BEGIN CERTIFICATE-----\nAAAA\n-----END CERTIFICATE-----\n"))
	assert.Error(t, err)
}
