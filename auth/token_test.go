package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"lack-chat/domain"
)

func TestToken_RoundTrip(t *testing.T) {
	req := require.New(t)
	manager := NewTokenManager("test-secret", time.Hour)
	alice := domain.User{ID: "user-alice", Nickname: "alice"}

	token, err := manager.Generate(alice)
	req.NoError(err)

	user, err := manager.Validate(token)
	req.NoError(err)
	req.Equal(alice, user)
}

func TestToken_Rejects_Wrong_Secret(t *testing.T) {
	req := require.New(t)
	issuer := NewTokenManager("secret-one", time.Hour)
	verifier := NewTokenManager("secret-two", time.Hour)

	token, err := issuer.Generate(domain.User{ID: "user-alice", Nickname: "alice"})
	req.NoError(err)

	_, err = verifier.Validate(token)
	req.Error(err)
}

func TestToken_Rejects_Expired(t *testing.T) {
	req := require.New(t)
	manager := NewTokenManager("test-secret", -time.Minute)

	token, err := manager.Generate(domain.User{ID: "user-alice", Nickname: "alice"})
	req.NoError(err)

	_, err = manager.Validate(token)
	req.Error(err)
}
