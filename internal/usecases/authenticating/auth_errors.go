package authenticating

import (
	"errors"
	"fmt"

	"github.com/vfg2006/minimart-api/pkg/apiErrors"
)

var (
	ErrInvalidCredentials    = errors.New("credenciais inválidas")
	ErrUserDisabled          = errors.New("usuário desativado")
	ErrUserNotFound          = errors.New("usuário não encontrado")
	ErrInvalidToken          = errors.New("token inválido")
	ErrExpiredToken          = errors.New("token expirado")
	ErrInsufficientPrivilege = errors.New("privilégios insuficientes")
	ErrUserAlreadyExists     = errors.New("usuário já existe")
	ErrMissingRequiredData   = errors.New("dados obrigatórios ausentes")
	ErrSamePassword          = errors.New("nova senha deve ser diferente da atual")
	ErrDatabaseOperation     = errors.New("erro ao acessar o armazenamento de usuários")
)

// AuthError carrega o código devolvido ao cliente e o UID envolvido, quando houver
type AuthError struct {
	Err     error
	Code    string
	UserID  string
	Details string
}

func (e *AuthError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s", e.Err.Error(), e.Details)
	}
	return e.Err.Error()
}

func (e *AuthError) Unwrap() error {
	return e.Err
}

// Internal indica falha do servidor; a mensagem não deve ser exposta ao cliente
func (e *AuthError) Internal() bool {
	return e.Code == apiErrors.ErrDatabaseOperation || e.Code == apiErrors.ErrInternalServer
}

// IsCredentialsError cobre as falhas de login que não revelam se o e-mail existe
func IsCredentialsError(err error) bool {
	return errors.Is(err, ErrInvalidCredentials) || errors.Is(err, ErrUserDisabled)
}

func IsAuthorizationError(err error) bool {
	return errors.Is(err, ErrInsufficientPrivilege) ||
		errors.Is(err, ErrInvalidToken) ||
		errors.Is(err, ErrExpiredToken)
}

func NewAuthError(baseErr error, code string, details string) *AuthError {
	return &AuthError{Err: baseErr, Code: code, Details: details}
}

func NewUserAuthError(baseErr error, code string, userID string, details string) *AuthError {
	return &AuthError{Err: baseErr, Code: code, UserID: userID, Details: details}
}
