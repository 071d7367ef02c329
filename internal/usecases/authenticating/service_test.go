package authenticating

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/ads-dashboard-api/infrastructure/integrator/meta/metaclient"
	"github.com/vfg2006/ads-dashboard-api/infrastructure/repository/mocks"
	"github.com/vfg2006/ads-dashboard-api/internal/config"
	"github.com/vfg2006/ads-dashboard-api/internal/domain"
	"go.uber.org/mock/gomock"
	"golang.org/x/crypto/bcrypt"
)

// fakeVerifier simula a validação do token junto à plataforma
type fakeVerifier struct {
	err error
}

func (f *fakeVerifier) VerifyAccessToken(ctx context.Context, accessToken string) error {
	return f.err
}

func testConfig() *config.Config {
	return &config.Config{SecretKey: "chave-de-teste"}
}

func TestLoginUser(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("Senha@Forte1"), bcrypt.DefaultCost)
	require.NoError(t, err)

	activeUser := &domain.User{
		ID:           1,
		Name:         "Usuário",
		Email:        "usuario@example.com",
		PasswordHash: string(hash),
		Active:       true,
	}

	tests := []struct {
		name     string
		email    string
		password string
		setup    func(repo *mocks.MockUserRepository)
		validate func(t *testing.T, token string, err error)
	}{
		{
			name:     "Login com credenciais válidas deve gerar token",
			email:    "usuario@example.com",
			password: "Senha@Forte1",
			setup: func(repo *mocks.MockUserRepository) {
				repo.EXPECT().GetUserByEmail("usuario@example.com").Return(activeUser, nil)
			},
			validate: func(t *testing.T, token string, err error) {
				require.NoError(t, err)
				assert.NotEmpty(t, token)
			},
		},
		{
			name:     "Email deve ser normalizado antes da consulta",
			email:    "  Usuario@Example.com ",
			password: "Senha@Forte1",
			setup: func(repo *mocks.MockUserRepository) {
				repo.EXPECT().GetUserByEmail("usuario@example.com").Return(activeUser, nil)
			},
			validate: func(t *testing.T, token string, err error) {
				require.NoError(t, err)
				assert.NotEmpty(t, token)
			},
		},
		{
			name:     "Senha incorreta deve falhar com erro de credenciais",
			email:    "usuario@example.com",
			password: "senha-errada",
			setup: func(repo *mocks.MockUserRepository) {
				repo.EXPECT().GetUserByEmail("usuario@example.com").Return(activeUser, nil)
			},
			validate: func(t *testing.T, token string, err error) {
				require.Error(t, err)
				assert.True(t, IsCredentialsError(err))
				assert.Empty(t, token)
			},
		},
		{
			name:     "Usuário inexistente deve falhar",
			email:    "ninguem@example.com",
			password: "Senha@Forte1",
			setup: func(repo *mocks.MockUserRepository) {
				repo.EXPECT().GetUserByEmail("ninguem@example.com").Return(nil, nil)
			},
			validate: func(t *testing.T, token string, err error) {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrUserNotFound)
			},
		},
		{
			name:     "Conta desativada não pode logar",
			email:    "usuario@example.com",
			password: "Senha@Forte1",
			setup: func(repo *mocks.MockUserRepository) {
				disabled := *activeUser
				disabled.Active = false
				repo.EXPECT().GetUserByEmail("usuario@example.com").Return(&disabled, nil)
			},
			validate: func(t *testing.T, token string, err error) {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrUserDisabled)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := mocks.NewMockUserRepository(ctrl)
			tt.setup(repo)

			service := NewService(repo, nil, testConfig())

			token, err := service.LoginUser(tt.email, tt.password)
			tt.validate(t, token, err)
		})
	}
}

func TestValidateToken(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := mocks.NewMockUserRepository(ctrl)

	hash, err := bcrypt.GenerateFromPassword([]byte("Senha@Forte1"), bcrypt.DefaultCost)
	require.NoError(t, err)

	repo.EXPECT().GetUserByEmail("usuario@example.com").Return(&domain.User{
		ID:           42,
		Email:        "usuario@example.com",
		PasswordHash: string(hash),
		Active:       true,
		RoleID:       2,
	}, nil)

	service := NewService(repo, nil, testConfig())

	token, err := service.LoginUser("usuario@example.com", "Senha@Forte1")
	require.NoError(t, err)

	claims, err := service.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, 42, claims.UserID)
	assert.Equal(t, 2, claims.UserRoleID)
}

func TestValidateToken_TokenAdulterado(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	service := NewService(mocks.NewMockUserRepository(ctrl), nil, testConfig())

	_, err := service.ValidateToken("token.invalido.aqui")
	assert.Error(t, err)
}

func TestConnectMetaAccount(t *testing.T) {
	user := &domain.User{ID: 7, Email: "usuario@example.com", Active: true}

	tests := []struct {
		name     string
		token    string
		verifier CredentialVerifier
		setup    func(repo *mocks.MockUserRepository)
		validate func(t *testing.T, err error)
	}{
		{
			name:     "Token validado pela plataforma deve ser armazenado",
			token:    "token-valido",
			verifier: &fakeVerifier{},
			setup: func(repo *mocks.MockUserRepository) {
				repo.EXPECT().GetUserByID(7).Return(user, nil)
				repo.EXPECT().UpdateMetaAccessToken(7, "token-valido").Return(nil)
			},
			validate: func(t *testing.T, err error) {
				assert.NoError(t, err)
			},
		},
		{
			name:  "Token recusado pela plataforma não deve ser armazenado",
			token: "token-invalido",
			verifier: &fakeVerifier{
				err: &metaclient.UpstreamRejectedError{Status: 401, Code: 190, TokenExpired: true},
			},
			setup: func(repo *mocks.MockUserRepository) {
				repo.EXPECT().GetUserByID(7).Return(user, nil)
			},
			validate: func(t *testing.T, err error) {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidMetaCredential)
			},
		},
		{
			name:     "Token vazio deve falhar antes de qualquer consulta",
			token:    "",
			verifier: &fakeVerifier{},
			setup:    func(repo *mocks.MockUserRepository) {},
			validate: func(t *testing.T, err error) {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrMissingRequiredData)
			},
		},
		{
			name:     "Usuário inexistente deve falhar",
			token:    "token-valido",
			verifier: &fakeVerifier{},
			setup: func(repo *mocks.MockUserRepository) {
				repo.EXPECT().GetUserByID(7).Return(nil, nil)
			},
			validate: func(t *testing.T, err error) {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrUserNotFound)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := mocks.NewMockUserRepository(ctrl)
			tt.setup(repo)

			service := NewService(repo, tt.verifier, testConfig())

			tt.validate(t, service.ConnectMetaAccount(context.Background(), 7, tt.token))
		})
	}
}

func TestCreateUser_EmailJaCadastrado(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := mocks.NewMockUserRepository(ctrl)
	repo.EXPECT().GetUserByEmail("usuario@example.com").Return(&domain.User{ID: 1}, nil)

	service := NewService(repo, nil, testConfig())

	_, err := service.CreateUser(&domain.User{
		Name:         "Usuário",
		Email:        "usuario@example.com",
		PasswordHash: "Senha@Forte1",
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUserAlreadyExists)
}

func TestValidatePasswordStrength(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	service := NewService(mocks.NewMockUserRepository(ctrl), nil, testConfig())

	tests := []struct {
		name     string
		password string
		wantErr  bool
	}{
		{"Senha forte deve passar", "Senha@Forte1", false},
		{"Senha curta deve falhar", "Ab@1", true},
		{"Senha sem maiúscula deve falhar", "senha@forte1", true},
		{"Senha sem número deve falhar", "Senha@Forte", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := service.ValidatePasswordStrength(tt.password)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestIsCredentialsError(t *testing.T) {
	assert.True(t, IsCredentialsError(NewAuthError(ErrInvalidCredentials, "AUTH_001", "Senha incorreta")))
	assert.False(t, IsCredentialsError(errors.New("outro erro")))
}
