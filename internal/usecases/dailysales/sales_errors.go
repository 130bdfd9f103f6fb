package dailysales

import (
	"errors"
	"fmt"

	"github.com/vfg2006/minimart-api/pkg/apiErrors"
)

var (
	ErrUnauthorized      = errors.New("usuário não autenticado")
	ErrForbidden         = errors.New("sem permissão para alterar este lançamento")
	ErrNotFound          = errors.New("lançamento não encontrado")
	ErrDatabaseOperation = errors.New("erro ao acessar o armazenamento de lançamentos")
)

// SalesError é um erro com contexto adicional para lançamentos
type SalesError struct {
	Err     error  // Erro base
	Code    string // Código de erro para API
	EntryID string // ID do lançamento envolvido (quando aplicável)
	Details string // Detalhes adicionais
}

func (e *SalesError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s", e.Err.Error(), e.Details)
	}
	return e.Err.Error()
}

func (e *SalesError) Unwrap() error {
	return e.Err
}

// Internal indica falha de armazenamento; a mensagem não deve ser exposta ao cliente
func (e *SalesError) Internal() bool {
	return e.Code == apiErrors.ErrDatabaseOperation
}

func NewSalesError(err error, code string, details string) *SalesError {
	return &SalesError{
		Err:     err,
		Code:    code,
		Details: details,
	}
}

func NewSalesErrorWithID(err error, code string, entryID string, details string) *SalesError {
	return &SalesError{
		Err:     err,
		Code:    code,
		EntryID: entryID,
		Details: details,
	}
}
