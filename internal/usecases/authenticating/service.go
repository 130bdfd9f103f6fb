package authenticating

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/minimart-api/infrastructure/repository"
	"github.com/vfg2006/minimart-api/internal/config"
	"github.com/vfg2006/minimart-api/internal/domain"
	"github.com/vfg2006/minimart-api/pkg/apiErrors"
	"golang.org/x/crypto/bcrypt"
)

type Authenticator interface {
	CreateUser(ctx context.Context, req domain.CreateUserRequest) (*domain.User, error)
	UpdateUser(ctx context.Context, req domain.UpdateUserRequest) (*domain.User, error)
	DeleteUser(ctx context.Context, caller *domain.Claims, uid string) error
	ListUsers(ctx context.Context) ([]domain.User, error)
	LoginUser(ctx context.Context, email, password string) (*domain.LoginResponse, error)
	GetUserProfile(ctx context.Context, uid string) (*domain.User, error)
	ValidateToken(tokenString string) (*domain.Claims, error)
	ChangePassword(ctx context.Context, uid string, currentPassword, newPassword string) error
	SeedUsers(ctx context.Context) error
}

type Service struct {
	userRepo repository.UserRepository
	cfg      *config.Config
	now      func() time.Time
}

func NewService(userRepo repository.UserRepository, cfg *config.Config) Authenticator {
	return &Service{
		userRepo: userRepo,
		cfg:      cfg,
		now:      time.Now,
	}
}

func (s *Service) CreateUser(ctx context.Context, req domain.CreateUserRequest) (*domain.User, error) {
	req.Email = handleEmail(req.Email)
	req.DisplayName = strings.TrimSpace(req.DisplayName)

	if err := domain.ValidateStruct(req).Err(); err != nil {
		return nil, err
	}

	existing, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, NewAuthError(err, apiErrors.ErrDatabaseOperation, "Erro ao consultar usuário")
	}
	if existing != nil {
		return nil, NewAuthError(ErrUserAlreadyExists, apiErrors.ErrUserAlreadyExists, "Email já cadastrado")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.Create(ctx, &domain.User{
		Email:        req.Email,
		DisplayName:  req.DisplayName,
		Role:         req.Role,
		IsActive:     true,
		PasswordHash: string(hashedPassword),
	})
	if err != nil {
		return nil, NewAuthError(err, apiErrors.ErrDatabaseOperation, "Erro ao criar usuário")
	}

	sanitized := user.Sanitize()
	return &sanitized, nil
}

func (s *Service) UpdateUser(ctx context.Context, req domain.UpdateUserRequest) (*domain.User, error) {
	if req.UID == "" {
		return nil, NewAuthError(ErrMissingRequiredData, apiErrors.ErrMissingRequiredData, "UID é obrigatório")
	}

	if err := domain.ValidateStruct(req).Err(); err != nil {
		return nil, err
	}

	user, err := s.getUser(ctx, req.UID)
	if err != nil {
		return nil, err
	}

	if req.DisplayName != nil {
		user.DisplayName = strings.TrimSpace(*req.DisplayName)
	}

	if req.Role != nil {
		user.Role = *req.Role
	}

	if req.IsActive != nil {
		user.IsActive = *req.IsActive
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, NewUserAuthError(err, apiErrors.ErrDatabaseOperation, user.UID, "Erro ao atualizar usuário")
	}

	sanitized := user.Sanitize()
	return &sanitized, nil
}

// DeleteUser desativa o usuário. O registro é mantido para preservar o histórico dos lançamentos.
func (s *Service) DeleteUser(ctx context.Context, caller *domain.Claims, uid string) error {
	if caller != nil && caller.UID == uid {
		return NewUserAuthError(ErrInsufficientPrivilege, apiErrors.ErrInsufficientPrivilege, uid, "Não é possível remover o próprio usuário")
	}

	user, err := s.getUser(ctx, uid)
	if err != nil {
		return err
	}

	user.IsActive = false
	if err := s.userRepo.Update(ctx, user); err != nil {
		return NewUserAuthError(err, apiErrors.ErrDatabaseOperation, uid, "Erro ao remover usuário")
	}

	logrus.WithField("uid", uid).Info("Usuário desativado")

	return nil
}

// ListUsers retorna apenas os usuários ativos, sem o hash da senha
func (s *Service) ListUsers(ctx context.Context) ([]domain.User, error) {
	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, NewAuthError(err, apiErrors.ErrDatabaseOperation, "Erro ao listar usuários")
	}

	active := make([]domain.User, 0, len(users))
	for _, user := range users {
		if user.IsActive {
			active = append(active, user.Sanitize())
		}
	}

	return active, nil
}

func handleEmail(s string) string {
	email := strings.ToLower(s)
	email = strings.TrimSpace(email)
	email = strings.ReplaceAll(email, " ", "")
	return email
}

func (s *Service) LoginUser(ctx context.Context, email, password string) (*domain.LoginResponse, error) {
	// Validação de entrada
	if email == "" || password == "" {
		return nil, NewAuthError(ErrMissingRequiredData, apiErrors.ErrMissingRequiredData, "Email e senha são obrigatórios")
	}

	email = handleEmail(email)

	user, err := s.userRepo.GetByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, NewAuthError(ErrInvalidCredentials, apiErrors.ErrInvalidCredentials, "Usuário não encontrado")
	}
	if err != nil {
		return nil, NewAuthError(err, apiErrors.ErrDatabaseOperation, "Erro ao consultar usuário no banco de dados")
	}

	// Verificar se o usuário está ativo
	if !user.IsActive {
		return nil, NewUserAuthError(ErrUserDisabled, apiErrors.ErrUserDisabled, user.UID, "Conta desativada")
	}

	// Verificar senha
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, NewUserAuthError(ErrInvalidCredentials, apiErrors.ErrInvalidCredentials, user.UID, "Senha incorreta")
	}

	token, err := s.generateJWT(user)
	if err != nil {
		return nil, NewAuthError(err, apiErrors.ErrInternalServer, "Erro ao gerar token de autenticação")
	}

	now := s.now()
	user.LastLoginAt = &now
	if err := s.userRepo.Update(ctx, user); err != nil {
		// O login segue válido mesmo sem registrar o último acesso
		logrus.WithError(err).WithField("uid", user.UID).Warn("Erro ao registrar último acesso")
	}

	return &domain.LoginResponse{
		Token: token,
		User:  user.Sanitize(),
	}, nil
}

func (s *Service) GetUserProfile(ctx context.Context, uid string) (*domain.User, error) {
	user, err := s.getUser(ctx, uid)
	if err != nil {
		return nil, err
	}

	sanitized := user.Sanitize()
	return &sanitized, nil
}

func (s *Service) getUser(ctx context.Context, uid string) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, uid)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, NewUserAuthError(ErrUserNotFound, apiErrors.ErrUserNotFound, uid, "")
	}
	if err != nil {
		logrus.WithError(err).WithField("uid", uid).Error("Erro ao buscar usuário")
		return nil, NewUserAuthError(err, apiErrors.ErrDatabaseOperation, uid, "Erro ao buscar usuário")
	}

	return user, nil
}

func (s *Service) generateJWT(user *domain.User) (string, error) {
	now := s.now()
	claims := domain.Claims{
		UID:         user.UID,
		DisplayName: user.DisplayName,
		Email:       user.Email,
		Role:        user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.UID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.Auth.TokenTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.SecretKey))
}

func (s *Service) ValidateToken(tokenString string) (*domain.Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &domain.Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.cfg.SecretKey), nil
	})
	if errors.Is(err, jwt.ErrTokenExpired) {
		return nil, NewAuthError(ErrExpiredToken, apiErrors.ErrExpiredToken, "")
	}
	if err != nil {
		return nil, NewAuthError(ErrInvalidToken, apiErrors.ErrInvalidToken, err.Error())
	}

	claims, ok := token.Claims.(*domain.Claims)
	if !ok || !token.Valid || claims.UID == "" {
		return nil, NewAuthError(ErrInvalidToken, apiErrors.ErrInvalidToken, "")
	}

	return claims, nil
}

// ChangePassword permite que um usuário altere sua própria senha
func (s *Service) ChangePassword(ctx context.Context, uid string, currentPassword, newPassword string) error {
	if err := domain.ValidateStruct(domain.ChangePasswordRequest{
		CurrentPassword: currentPassword,
		NewPassword:     newPassword,
	}).Err(); err != nil {
		return err
	}

	user, err := s.getUser(ctx, uid)
	if err != nil {
		return err
	}

	// Verificar se a senha atual está correta
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(currentPassword)); err != nil {
		return NewUserAuthError(ErrInvalidCredentials, apiErrors.ErrInvalidCredentials, uid, "Senha atual incorreta")
	}

	if currentPassword == newPassword {
		return NewUserAuthError(ErrSamePassword, apiErrors.ErrInvalidRequest, uid, "")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	user.PasswordHash = string(hashedPassword)
	if err := s.userRepo.Update(ctx, user); err != nil {
		return NewUserAuthError(err, apiErrors.ErrDatabaseOperation, uid, "Erro ao alterar senha")
	}

	return nil
}

// seedUsers são as contas criadas na primeira execução quando SEED_USERS está ativo
var seedUsers = []domain.CreateUserRequest{
	{Email: "owner@example.com", DisplayName: "เจ้าของร้าน", Role: domain.RoleOwner},
	{Email: "manager@example.com", DisplayName: "ผู้จัดการร้าน", Role: domain.RoleManager},
	{Email: "test@example.com", DisplayName: "พนักงานสาเหตุ", Role: domain.RoleCashier},
}

// SeedUsers cria as contas iniciais que ainda não existem. Contas existentes não são alteradas.
func (s *Service) SeedUsers(ctx context.Context) error {
	for _, seed := range seedUsers {
		seed.Password = s.cfg.Seed.DefaultPassword

		_, err := s.CreateUser(ctx, seed)
		if errors.Is(err, ErrUserAlreadyExists) {
			logrus.WithField("email", seed.Email).Debug("Usuário inicial já existe")
			continue
		}
		if err != nil {
			return errors.Wrapf(err, "erro ao criar usuário inicial %s", seed.Email)
		}

		logrus.WithFields(logrus.Fields{
			"email": seed.Email,
			"role":  seed.Role,
		}).Info("Usuário inicial criado")
	}

	return nil
}
