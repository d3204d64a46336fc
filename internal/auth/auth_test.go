// AngelaMos | 2026
// auth_test.go

package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/praxis-app/praxis-api/internal/config"
	"github.com/praxis-app/praxis-api/internal/core"
)

type fakeTokens struct {
	byID   map[string]*RefreshToken
	cutoff time.Time
}

func newFakeTokens() *fakeTokens {
	return &fakeTokens{byID: map[string]*RefreshToken{}}
}

func (f *fakeTokens) Create(_ context.Context, t *RefreshToken) error {
	cp := *t
	f.byID[t.ID] = &cp
	return nil
}

func (f *fakeTokens) FindByHash(_ context.Context, hash string) (*RefreshToken, error) {
	for _, t := range f.byID {
		if t.TokenHash == hash {
			cp := *t
			return &cp, nil
		}
	}
	return nil, core.ErrNotFound
}

func (f *fakeTokens) FindByID(_ context.Context, id string) (*RefreshToken, error) {
	t, ok := f.byID[id]
	if !ok {
		return nil, core.ErrNotFound
	}
	cp := *t
	return &cp, nil
}

func (f *fakeTokens) MarkAsUsed(_ context.Context, id, replacedByID string) error {
	t, ok := f.byID[id]
	if !ok || t.IsUsed {
		return core.ErrNotFound
	}
	t.IsUsed = true
	t.ReplacedByID = &replacedByID
	return nil
}

func (f *fakeTokens) revoke(match func(*RefreshToken) bool) {
	now := time.Now()
	for _, t := range f.byID {
		if match(t) && t.RevokedAt == nil {
			t.RevokedAt = &now
		}
	}
}

func (f *fakeTokens) RevokeByID(_ context.Context, id string) error {
	if _, ok := f.byID[id]; !ok {
		return core.ErrNotFound
	}
	f.revoke(func(t *RefreshToken) bool { return t.ID == id })
	return nil
}

func (f *fakeTokens) RevokeByFamilyID(_ context.Context, familyID string) error {
	f.revoke(func(t *RefreshToken) bool { return t.FamilyID == familyID })
	return nil
}

func (f *fakeTokens) RevokeAllForUser(_ context.Context, userID string) error {
	f.revoke(func(t *RefreshToken) bool { return t.UserID == userID })
	return nil
}

func (f *fakeTokens) GetActiveSessionsForUser(_ context.Context, userID string) ([]RefreshToken, error) {
	var out []RefreshToken
	for _, t := range f.byID {
		if t.UserID == userID && t.IsValid(time.Now()) {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (f *fakeTokens) DeleteExpired(_ context.Context, before time.Time) (int64, error) {
	f.cutoff = before
	var n int64
	for id, t := range f.byID {
		if t.ExpiresAt.Before(before) {
			delete(f.byID, id)
			n++
		}
	}
	return n, nil
}

type fakeUsers struct {
	users map[string]*UserInfo
}

func (f *fakeUsers) GetByLogin(_ context.Context, login string) (*UserInfo, error) {
	for _, u := range f.users {
		if u.Username == login || u.Email == login {
			return u, nil
		}
	}
	return nil, core.ErrNotFound
}

func (f *fakeUsers) GetByID(_ context.Context, id string) (*UserInfo, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, core.ErrNotFound
	}
	return u, nil
}

func (f *fakeUsers) Create(_ context.Context, in NewUser) (*UserInfo, error) {
	for _, u := range f.users {
		if u.Username == in.Username {
			return nil, core.DuplicateError("username")
		}
	}
	u := &UserInfo{
		ID:           uuid.New().String(),
		Username:     in.Username,
		Email:        in.Email,
		Name:         in.Name,
		PasswordHash: in.PasswordHash,
		Role:         "user",
		Rank:         "Bronze",
		CreatedAt:    time.Now(),
	}
	f.users[u.ID] = u
	return u, nil
}

func (f *fakeUsers) IncrementTokenVersion(_ context.Context, id string) error {
	f.users[id].TokenVersion++
	return nil
}

func (f *fakeUsers) UpdatePassword(_ context.Context, id, hash string) error {
	f.users[id].PasswordHash = hash
	return nil
}

type fixture struct {
	svc    *Service
	issuer *TokenIssuer
	tokens *fakeTokens
	users  *fakeUsers
	clock  *clockwork.FakeClock
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	dir := t.TempDir()
	priv := filepath.Join(dir, "private.pem")
	pub := filepath.Join(dir, "public.pem")
	require.NoError(t, WriteKeyPair(priv, pub))

	f := &fixture{
		tokens: newFakeTokens(),
		users:  &fakeUsers{users: map[string]*UserInfo{}},
		clock:  clockwork.NewFakeClockAt(time.Now()),
	}

	issuer, err := NewTokenIssuer(config.JWTConfig{
		PrivateKeyPath:     priv,
		PublicKeyPath:      pub,
		AccessTokenExpire:  15 * time.Minute,
		RefreshTokenExpire: 7 * 24 * time.Hour,
		Issuer:             "praxis-api",
		Audience:           "praxis-web",
	}, f.clock)
	require.NoError(t, err)

	f.issuer = issuer
	f.svc = NewService(f.tokens, issuer, f.users, nil, f.clock)
	return f
}

func (f *fixture) register(t *testing.T) *AuthResponse {
	t.Helper()
	resp, err := f.svc.Register(context.Background(), RegisterRequest{
		Username: "mika",
		Email:    "mika@example.com",
		Password: "correct-horse",
	}, "test", "127.0.0.1")
	require.NoError(t, err)
	return resp
}

func TestRegisterAndLogin(t *testing.T) {
	f := newFixture(t)
	reg := f.register(t)

	assert.Equal(t, "mika", reg.User.Username)
	assert.Equal(t, "Bronze", reg.User.Rank)
	assert.Equal(t, "Bearer", reg.Tokens.TokenType)
	assert.Equal(t, 900, reg.Tokens.ExpiresIn)

	for _, login := range []string{"mika", "mika@example.com"} {
		resp, err := f.svc.Login(context.Background(), LoginRequest{
			Login:    login,
			Password: "correct-horse",
		}, "test", "127.0.0.1")
		require.NoError(t, err, login)
		assert.Equal(t, reg.User.ID, resp.User.ID)
	}

	_, err := f.svc.Login(context.Background(), LoginRequest{Login: "mika", Password: "wrong-horse"}, "", "")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = f.svc.Login(context.Background(), LoginRequest{Login: "nobody", Password: "correct-horse"}, "", "")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRegisterDuplicateUsername(t *testing.T) {
	f := newFixture(t)
	f.register(t)

	_, err := f.svc.Register(context.Background(), RegisterRequest{
		Username: "mika",
		Email:    "other@example.com",
		Password: "correct-horse",
	}, "", "")
	assert.ErrorIs(t, err, core.ErrDuplicateKey)
}

func TestRefreshRotatesAndDetectsReuse(t *testing.T) {
	f := newFixture(t)
	reg := f.register(t)

	rotated, err := f.svc.Refresh(context.Background(), reg.Tokens.RefreshToken, "", "")
	require.NoError(t, err)
	assert.NotEqual(t, reg.Tokens.RefreshToken, rotated.Tokens.RefreshToken)

	_, err = f.svc.Refresh(context.Background(), reg.Tokens.RefreshToken, "", "")
	assert.ErrorIs(t, err, ErrTokenReuse)

	_, err = f.svc.Refresh(context.Background(), rotated.Tokens.RefreshToken, "", "")
	assert.ErrorIs(t, err, core.ErrTokenRevoked)
}

func TestRefreshExpired(t *testing.T) {
	f := newFixture(t)
	reg := f.register(t)

	f.clock.Advance(8 * 24 * time.Hour)

	_, err := f.svc.Refresh(context.Background(), reg.Tokens.RefreshToken, "", "")
	assert.ErrorIs(t, err, core.ErrTokenExpired)
}

func TestVerifyAccessTokenHonoursLogoutAll(t *testing.T) {
	f := newFixture(t)
	reg := f.register(t)

	claims, err := f.svc.VerifyAccessToken(context.Background(), reg.Tokens.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, reg.User.ID, claims.UserID)
	assert.NotEmpty(t, claims.TokenID)
	assert.False(t, claims.ExpiresAt.IsZero())

	require.NoError(t, f.svc.LogoutAll(context.Background(), reg.User.ID))

	_, err = f.svc.VerifyAccessToken(context.Background(), reg.Tokens.AccessToken)
	assert.ErrorIs(t, err, core.ErrTokenRevoked)

	_, err = f.svc.VerifyAccessToken(context.Background(), "not-a-token")
	assert.ErrorIs(t, err, core.ErrTokenInvalid)
}

func TestChangePasswordRevokesSessions(t *testing.T) {
	f := newFixture(t)
	reg := f.register(t)

	err := f.svc.ChangePassword(context.Background(), reg.User.ID, "wrong-horse", "battery-staple")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	require.NoError(t, f.svc.ChangePassword(context.Background(), reg.User.ID, "correct-horse", "battery-staple"))
	assert.Equal(t, 1, f.users.users[reg.User.ID].TokenVersion)

	sessions, err := f.svc.GetActiveSessions(context.Background(), reg.User.ID)
	require.NoError(t, err)
	assert.Empty(t, sessions)

	_, err = f.svc.Login(context.Background(), LoginRequest{Login: "mika", Password: "battery-staple"}, "", "")
	assert.NoError(t, err)
}

func TestPurgeExpiredTokensUsesGrace(t *testing.T) {
	f := newFixture(t)
	f.register(t)

	_, err := f.svc.PurgeExpiredTokens(context.Background())
	require.NoError(t, err)
	assert.Equal(t, f.clock.Now().Add(-ExpiredTokenGrace), f.tokens.cutoff)
	assert.Len(t, f.tokens.byID, 1)

	f.clock.Advance(9 * 24 * time.Hour)

	n, err := f.svc.PurgeExpiredTokens(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestHandlerRegisterStatuses(t *testing.T) {
	f := newFixture(t)

	r := chi.NewRouter()
	NewHandler(f.svc).RegisterRoutes(r, func(next http.Handler) http.Handler { return next })

	post := func(body string) int {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/auth/register", strings.NewReader(body)))
		return rec.Code
	}

	body := `{"username":"mika","email":"mika@example.com","password":"correct-horse"}`
	assert.Equal(t, http.StatusCreated, post(body))
	assert.Equal(t, http.StatusConflict, post(body))
	assert.Equal(t, http.StatusBadRequest, post(`{"username":"mika","email":"bad","password":"x"}`))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/auth/login",
		strings.NewReader(`{"login":"mika","password":"wrong-horse"}`)))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAccessTokenFollowsIssuerClock(t *testing.T) {
	f := newFixture(t)
	reg := f.register(t)

	f.clock.Advance(14 * time.Minute)
	_, err := f.svc.VerifyAccessToken(context.Background(), reg.Tokens.AccessToken)
	require.NoError(t, err)

	f.clock.Advance(2 * time.Minute)
	_, err = f.svc.VerifyAccessToken(context.Background(), reg.Tokens.AccessToken)
	assert.ErrorIs(t, err, core.ErrTokenExpired)
}

func TestVerifyAccessTokenRejectsOtherAudience(t *testing.T) {
	f := newFixture(t)
	user := &UserInfo{ID: uuid.NewString(), Role: "user"}

	token, err := f.issuer.Access(user)
	require.NoError(t, err)

	claims, err := f.issuer.VerifyAccessToken(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, "user", claims.Role)

	f.issuer.cfg.Audience = "praxis-admin"
	_, err = f.issuer.VerifyAccessToken(context.Background(), token)
	assert.ErrorIs(t, err, core.ErrTokenInvalid)
}

func TestWriteKeyPairModes(t *testing.T) {
	dir := t.TempDir()
	priv := filepath.Join(dir, "private.pem")
	pub := filepath.Join(dir, "public.pem")
	require.NoError(t, WriteKeyPair(priv, pub))

	privInfo, err := os.Stat(priv)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), privInfo.Mode().Perm())

	pubInfo, err := os.Stat(pub)
	require.NoError(t, err)
	assert.NotZero(t, pubInfo.Size())
}

func TestJWKSPublishesSigningKeyID(t *testing.T) {
	f := newFixture(t)

	rec := httptest.NewRecorder()
	f.issuer.JWKS()(rec, httptest.NewRequest(http.MethodGet, "/.well-known/jwks.json", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Keys []struct {
			Kid string `json:"kid"`
			Use string `json:"use"`
			D   string `json:"d"`
		} `json:"keys"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Keys, 1)
	assert.Equal(t, f.issuer.KeyID(), body.Keys[0].Kid)
	assert.Equal(t, "sig", body.Keys[0].Use)
	assert.Empty(t, body.Keys[0].D)
}

func TestHandlerRefreshReuseCode(t *testing.T) {
	f := newFixture(t)
	reg := f.register(t)

	r := chi.NewRouter()
	NewHandler(f.svc).RegisterRoutes(r, func(next http.Handler) http.Handler { return next })

	refresh := func() *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		body := `{"refresh_token":"` + reg.Tokens.RefreshToken + `"}`
		req := httptest.NewRequest(http.MethodPost, "/auth/refresh", strings.NewReader(body))
		req.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")
		r.ServeHTTP(rec, req)
		return rec
	}

	assert.Equal(t, http.StatusOK, refresh().Code)

	rec := refresh()
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "TOKEN_REUSE_DETECTED")

	var fromProxy int
	for _, s := range f.tokens.byID {
		if s.IPAddress == "10.0.0.1" {
			fromProxy++
		}
	}
	assert.Equal(t, 1, fromProxy)
}
