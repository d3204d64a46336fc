// AngelaMos | 2026
// tokens.go

package auth

import (
	"context"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/lestrrat-go/jwx/v3/jwa"
	"github.com/lestrrat-go/jwx/v3/jwk"
	"github.com/lestrrat-go/jwx/v3/jwt"

	"github.com/praxis-app/praxis-api/internal/config"
	"github.com/praxis-app/praxis-api/internal/core"
	"github.com/praxis-app/praxis-api/internal/middleware"
)

const (
	claimRole    = "role"
	claimVersion = "token_version"
	claimKind    = "type"
	kindAccess   = "access"
)

// TokenIssuer signs ES256 access tokens and mints opaque refresh tokens.
// Issue and expiry times come from its clock, the same one the session
// store is checked against.
type TokenIssuer struct {
	signing jwk.Key
	verify  jwk.Key
	keySet  jwk.Set
	keyID   string
	cfg     config.JWTConfig
	clock   clockwork.Clock
}

func NewTokenIssuer(cfg config.JWTConfig, clock clockwork.Clock) (*TokenIssuer, error) {
	signing, err := loadSigningKey(cfg.PrivateKeyPath)
	if err != nil {
		return nil, err
	}

	verify, err := signing.PublicKey()
	if err != nil {
		return nil, fmt.Errorf("derive public key: %w", err)
	}
	if err := verify.Set(jwk.KeyUsageKey, "sig"); err != nil {
		return nil, fmt.Errorf("set key usage: %w", err)
	}

	keySet := jwk.NewSet()
	if err := keySet.AddKey(verify); err != nil {
		return nil, fmt.Errorf("build key set: %w", err)
	}

	keyID, _ := signing.KeyID()

	return &TokenIssuer{
		signing: signing,
		verify:  verify,
		keySet:  keySet,
		keyID:   keyID,
		cfg:     cfg,
		clock:   clock,
	}, nil
}

// loadSigningKey reads a PEM private key and gives it a fresh key ID, so
// every process start publishes a distinct kid.
func loadSigningKey(path string) (jwk.Key, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read signing key: %w", err)
	}

	key, err := jwk.ParseKey(raw, jwk.WithPEM(true))
	if err != nil {
		return nil, fmt.Errorf("parse signing key: %w", err)
	}

	for name, value := range map[string]any{
		jwk.AlgorithmKey: jwa.ES256(),
		jwk.KeyIDKey:     newKeyID(),
	} {
		if err := key.Set(name, value); err != nil {
			return nil, fmt.Errorf("set %s: %w", name, err)
		}
	}

	return key, nil
}

func newKeyID() string {
	return uuid.NewString()[:8]
}

// WriteKeyPair generates a P-256 key pair for the keygen command. The
// private half is written owner-only.
func WriteKeyPair(privatePath, publicPath string) error {
	raw, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		return fmt.Errorf("generate key: %w", err)
	}

	private, err := jwk.Import(raw)
	if err != nil {
		return fmt.Errorf("import key: %w", err)
	}
	if err := private.Set(jwk.KeyIDKey, newKeyID()); err != nil {
		return fmt.Errorf("set key id: %w", err)
	}

	public, err := private.PublicKey()
	if err != nil {
		return fmt.Errorf("derive public key: %w", err)
	}

	files := []struct {
		path string
		key  jwk.Key
		mode os.FileMode
	}{
		{privatePath, private, 0o600},
		{publicPath, public, 0o644},
	}
	for _, f := range files {
		encoded, err := jwk.Pem(f.key)
		if err != nil {
			return fmt.Errorf("encode %s: %w", f.path, err)
		}
		//nolint:gosec // the public key is meant to be readable
		if err := os.WriteFile(f.path, encoded, f.mode); err != nil {
			return fmt.Errorf("write %s: %w", f.path, err)
		}
	}

	return nil
}

// Access signs a short-lived token for user. TokenVersion lets LogoutAll
// invalidate every token minted before it.
func (i *TokenIssuer) Access(user *UserInfo) (string, error) {
	now := i.clock.Now()

	token, err := jwt.NewBuilder().
		JwtID(uuid.NewString()).
		Issuer(i.cfg.Issuer).
		Audience([]string{i.cfg.Audience}).
		Subject(user.ID).
		IssuedAt(now).
		NotBefore(now).
		Expiration(now.Add(i.cfg.AccessTokenExpire)).
		Claim(claimRole, user.Role).
		Claim(claimVersion, user.TokenVersion).
		Claim(claimKind, kindAccess).
		Build()
	if err != nil {
		return "", fmt.Errorf("build access token: %w", err)
	}

	signed, err := jwt.Sign(token, jwt.WithKey(jwa.ES256(), i.signing))
	if err != nil {
		return "", fmt.Errorf("sign access token: %w", err)
	}

	return string(signed), nil
}

// VerifyAccessToken checks signature, issuer, audience, token kind and
// lifetime. Expired tokens wrap core.ErrTokenExpired; anything else that
// fails wraps core.ErrTokenInvalid.
func (i *TokenIssuer) VerifyAccessToken(
	ctx context.Context,
	raw string,
) (*middleware.AccessTokenClaims, error) {
	token, err := jwt.Parse(
		[]byte(raw),
		jwt.WithKey(jwa.ES256(), i.verify),
		jwt.WithValidate(true),
		jwt.WithContext(ctx),
		jwt.WithClock(jwt.ClockFunc(i.clock.Now)),
		jwt.WithIssuer(i.cfg.Issuer),
		jwt.WithAudience(i.cfg.Audience),
		jwt.WithClaimValue(claimKind, kindAccess),
		jwt.WithRequiredClaim(claimRole),
		jwt.WithRequiredClaim(claimVersion),
	)
	switch {
	case errors.Is(err, jwt.TokenExpiredError()):
		return nil, fmt.Errorf("verify access token: %w", core.ErrTokenExpired)
	case err != nil:
		return nil, fmt.Errorf("verify access token: %w", core.ErrTokenInvalid)
	}

	claims := &middleware.AccessTokenClaims{}
	var version float64

	subject, _ := token.Subject()
	if subject == "" ||
		token.Get(claimRole, &claims.Role) != nil ||
		token.Get(claimVersion, &version) != nil {
		return nil, fmt.Errorf("verify access token: malformed claims: %w", core.ErrTokenInvalid)
	}

	claims.UserID = subject
	claims.TokenVersion = int(version)
	claims.TokenID, _ = token.JwtID()
	claims.ExpiresAt, _ = token.Expiration()

	return claims, nil
}

// AccessTTL is the lifetime of tokens returned by Access.
func (i *TokenIssuer) AccessTTL() time.Duration {
	return i.cfg.AccessTokenExpire
}

func (i *TokenIssuer) KeyID() string {
	return i.keyID
}

// JWKS serves the public key set so other services can verify praxis
// access tokens.
func (i *TokenIssuer) JWKS() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Cache-Control", "public, max-age=3600")
		if err := json.NewEncoder(w).Encode(i.keySet); err != nil {
			core.InternalServerError(w, err)
		}
	}
}

// IssuedRefresh is a freshly minted refresh token. Only Hash is persisted;
// Token goes to the client once.
type IssuedRefresh struct {
	Token     string
	Hash      string
	FamilyID  string
	ExpiresAt time.Time
}

// Refresh mints a refresh token in familyID, starting a new family when
// familyID is empty.
func (i *TokenIssuer) Refresh(familyID string) (*IssuedRefresh, error) {
	token, err := core.GenerateRefreshToken()
	if err != nil {
		return nil, fmt.Errorf("generate refresh token: %w", err)
	}

	if familyID == "" {
		familyID = uuid.NewString()
	}

	return &IssuedRefresh{
		Token:     token,
		Hash:      core.HashToken(token),
		FamilyID:  familyID,
		ExpiresAt: i.clock.Now().Add(i.cfg.RefreshTokenExpire),
	}, nil
}
