package service_test

import (
	"context"
	"testing"

	"brigade/internal/config"
	"brigade/internal/dto"
	"brigade/internal/model"
	"brigade/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func buildAuthSvc() (service.AuthService, *stubUserRepo) {
	repo := newStubUserRepo()
	cfg := &config.Config{
		JWTSecret:          "secret-de-test",
		JWTExpirationHours: 8,
		JWTRefreshHours:    72,
	}
	return service.NewAuthService(repo, cfg), repo
}

func seedUser(t *testing.T, repo *stubUserRepo, username, password, role string, active bool) *model.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	u := &model.User{
		Username:     username,
		Name:         "Utilisateur Test",
		PasswordHash: string(hash),
		Role:         role,
		Active:       active,
	}
	require.NoError(t, repo.Create(context.Background(), u))
	return u
}

func TestLogin_Success(t *testing.T) {
	svc, repo := buildAuthSvc()
	seedUser(t, repo, "chef@brigade.fr", "brigade2026", "chef", true)

	resp, err := svc.Login(context.Background(), dto.LoginRequest{
		Username: "chef@brigade.fr",
		Password: "brigade2026",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, "bearer", resp.TokenType)
	assert.Equal(t, 8*3600, resp.ExpiresIn)
	assert.Equal(t, "chef", resp.User.Role)
}

func TestLogin_WrongPassword(t *testing.T) {
	svc, repo := buildAuthSvc()
	seedUser(t, repo, "serveur@brigade.fr", "bonmotdepasse", "serveur", true)

	_, err := svc.Login(context.Background(), dto.LoginRequest{
		Username: "serveur@brigade.fr",
		Password: "mauvais",
	})
	assert.ErrorContains(t, err, "identifiants invalides")
}

func TestLogin_InactiveAccount(t *testing.T) {
	svc, repo := buildAuthSvc()
	seedUser(t, repo, "ancien@brigade.fr", "brigade2026", "serveur", false)

	_, err := svc.Login(context.Background(), dto.LoginRequest{
		Username: "ancien@brigade.fr",
		Password: "brigade2026",
	})
	assert.ErrorContains(t, err, "désactivé")
}

func TestRefresh_RoundTrip(t *testing.T) {
	svc, repo := buildAuthSvc()
	seedUser(t, repo, "gerant@brigade.fr", "brigade2026", "gérant", true)

	login, err := svc.Login(context.Background(), dto.LoginRequest{
		Username: "gerant@brigade.fr",
		Password: "brigade2026",
	})
	require.NoError(t, err)

	refreshed, err := svc.Refresh(context.Background(), login.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, login.User.ID, refreshed.User.ID)
	assert.NotEmpty(t, refreshed.AccessToken)
}

func TestRefresh_GarbageToken(t *testing.T) {
	svc, _ := buildAuthSvc()

	_, err := svc.Refresh(context.Background(), "pas-un-jwt")
	assert.ErrorContains(t, err, "invalide")
}

func TestCreateUser_HashesPassword(t *testing.T) {
	svc, repo := buildAuthSvc()

	resp, err := svc.CreateUser(context.Background(), dto.CreateUserRequest{
		Username: "nouveau@brigade.fr",
		Name:     "Nouveau Serveur",
		Password: "motdepasse8",
		Role:     "serveur",
	})
	require.NoError(t, err)
	assert.True(t, resp.Active)

	stored, err := repo.FindByUsername(context.Background(), "nouveau@brigade.fr")
	require.NoError(t, err)
	assert.NotEqual(t, "motdepasse8", stored.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("motdepasse8")))
}
