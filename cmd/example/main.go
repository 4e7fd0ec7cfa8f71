package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/go-ctap/webauthnrp/pkg/challenge"
	"github.com/go-ctap/webauthnrp/pkg/options"
	"github.com/go-ctap/webauthnrp/pkg/rp"
	"github.com/go-ctap/webauthnrp/pkg/softtoken"
	"github.com/go-ctap/webauthnrp/pkg/webauthntypes"
)

func main() {
	lvl := new(slog.LevelVar)
	lvl.Set(slog.LevelDebug)
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: lvl,
	}))

	relyingParty, err := rp.New(rp.Config{
		RPID:   "example.com",
		RPName: "Example Corp",
	}, options.WithLogger(logger))
	if err != nil {
		panic(err)
	}

	token := softtoken.New()
	origin := "https://example.com"

	// Registration ceremony.
	regChallenge, err := relyingParty.NewChallenge("alice")
	if err != nil {
		panic(err)
	}

	creationOptions, err := relyingParty.CreationOptions(regChallenge, webauthntypes.PublicKeyCredentialUserEntity{
		ID:          []byte("alice"),
		Name:        "alice@example.com",
		DisplayName: "Alice",
	})
	if err != nil {
		panic(err)
	}

	regCred, err := token.MakeCredential(origin, creationOptions)
	if err != nil {
		panic(err)
	}

	registration, err := relyingParty.VerifyRegistration(regCred, regChallenge.Value)
	if err != nil {
		panic(err)
	}
	fmt.Printf("Registered credential %x (alg %d, AAGUID %s)\n",
		registration.CredentialID,
		registration.Algorithm,
		registration.AAGUID,
	)
	fmt.Printf("%s", registration.PublicKeyPEM)

	// The relying party persists the public key and sign count between
	// ceremonies; a map stands in for its credential store here.
	store := map[string]*rp.Registration{
		string(registration.CredentialID): registration,
	}

	// Authentication ceremony.
	authChallenge, err := relyingParty.NewChallenge("alice")
	if err != nil {
		panic(err)
	}

	requestOptions, err := relyingParty.RequestOptions(authChallenge, webauthntypes.PublicKeyCredentialDescriptor{
		Type: webauthntypes.PublicKeyCredentialTypePublicKey,
		ID:   registration.CredentialID,
	})
	if err != nil {
		panic(err)
	}

	assertCred, err := token.GetAssertion(origin, requestOptions)
	if err != nil {
		panic(err)
	}

	stored := store[string(assertCred.RawID)]
	authentication, err := relyingParty.VerifyAuthentication(
		assertCred,
		authChallenge.Value,
		stored.PublicKeyPEM,
		stored.SignCount,
	)
	if err != nil {
		panic(err)
	}
	stored.SignCount = authentication.SignCount

	fmt.Printf("Authenticated: valid=%t signCount=%d cloned=%t userHandle=%q\n",
		authentication.Valid,
		authentication.SignCount,
		authentication.PossibleCloning,
		string(authentication.UserHandle.OrElse(nil)),
	)

	// Replaying the same assertion against a fresh challenge must fail.
	replayChallenge, err := challenge.New(128, challenge.Params{RPID: "example.com"})
	if err != nil {
		panic(err)
	}

	if _, err := relyingParty.VerifyAuthentication(
		assertCred,
		replayChallenge.Value,
		stored.PublicKeyPEM,
		stored.SignCount,
	); err != nil {
		fmt.Printf("Replay rejected as expected: %v\n", err)
	}
}
