package apiErrors

import (
	"net/http"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Códigos de erro retornados no campo "code" da resposta
const (
	// Erros de autenticação
	ErrInvalidCredentials    = "AUTH_001" // Credenciais inválidas
	ErrUserDisabled          = "AUTH_002" // Usuário desativado
	ErrUserNotFound          = "AUTH_003" // Usuário não encontrado
	ErrInvalidToken          = "AUTH_006" // Token inválido ou ausente
	ErrExpiredToken          = "AUTH_007" // Token expirado
	ErrInsufficientPrivilege = "AUTH_008" // Privilégios insuficientes
	ErrUserAlreadyExists     = "AUTH_009" // Usuário já existe

	// Erros de validação
	ErrInvalidRequest      = "VAL_001" // Requisição inválida
	ErrMissingRequiredData = "VAL_002" // Dados obrigatórios ausentes
	ErrInvalidFormat       = "VAL_003" // Formato de dados inválido
	ErrValidationFailed    = "VAL_004" // Regras de negócio violadas

	// Erros de lançamentos
	ErrSalesNotFound  = "SAL_001" // Lançamento não encontrado
	ErrSalesForbidden = "SAL_002" // Lançamento pertence a outro usuário

	// Erros de roteamento
	ErrRouteNotFound    = "RTE_001" // Rota inexistente
	ErrMethodNotAllowed = "RTE_002" // Método não suportado na rota

	// Erros do servidor
	ErrInternalServer    = "SRV_001" // Erro interno do servidor
	ErrDatabaseOperation = "SRV_002" // Erro de operação de banco de dados
)

// Mapeamento de códigos de erro para status HTTP
var httpStatusMap = map[string]int{
	ErrInvalidCredentials:    http.StatusUnauthorized,
	ErrUserDisabled:          http.StatusForbidden,
	ErrUserNotFound:          http.StatusNotFound,
	ErrInvalidToken:          http.StatusUnauthorized,
	ErrExpiredToken:          http.StatusUnauthorized,
	ErrInsufficientPrivilege: http.StatusForbidden,
	ErrUserAlreadyExists:     http.StatusBadRequest,
	ErrInvalidRequest:        http.StatusBadRequest,
	ErrMissingRequiredData:   http.StatusBadRequest,
	ErrInvalidFormat:         http.StatusBadRequest,
	ErrValidationFailed:      http.StatusBadRequest,
	ErrSalesNotFound:         http.StatusNotFound,
	ErrSalesForbidden:        http.StatusForbidden,
	ErrRouteNotFound:         http.StatusNotFound,
	ErrMethodNotAllowed:      http.StatusMethodNotAllowed,
	ErrInternalServer:        http.StatusInternalServerError,
	ErrDatabaseOperation:     http.StatusInternalServerError,
}

// APIError é o envelope de falha: {success: false, error: "..."}
type APIError struct {
	Success     bool              `json:"success"`
	Error       string            `json:"error"`
	Code        string            `json:"code"`
	FieldErrors map[string]string `json:"fieldErrors,omitempty"`
	Details     any               `json:"details,omitempty"`
}

// StatusFor retorna o status HTTP associado ao código de erro
func StatusFor(code string) int {
	status, exists := httpStatusMap[code]
	if !exists {
		return http.StatusInternalServerError
	}
	return status
}

// WriteError escreve o erro padronizado para a resposta HTTP
func WriteError(w http.ResponseWriter, code string, message string, details any) {
	write(w, APIError{
		Code:    code,
		Error:   message,
		Details: details,
	})
}

// WriteValidationError escreve uma falha de validação com as mensagens por campo
func WriteValidationError(w http.ResponseWriter, message string, fieldErrors map[string]string) {
	write(w, APIError{
		Code:        ErrValidationFailed,
		Error:       message,
		FieldErrors: fieldErrors,
	})
}

func write(w http.ResponseWriter, apiErr APIError) {
	apiErr.Success = false

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(StatusFor(apiErr.Code))
	_ = json.NewEncoder(w).Encode(apiErr)
}
