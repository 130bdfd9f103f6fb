package domain

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

var ErrValidationFailed = errors.New("dados inválidos")

type ValidationMode int

const (
	ValidationCreate ValidationMode = iota
	ValidationUpdate
)

// ValidationResult reúne todas as violações encontradas, por campo
type ValidationResult struct {
	Valid       bool              `json:"valid"`
	FieldErrors map[string]string `json:"fieldErrors,omitempty"`
}

func newValidationResult() ValidationResult {
	return ValidationResult{Valid: true, FieldErrors: map[string]string{}}
}

// Add registra uma violação. A primeira mensagem de cada campo é mantida.
func (r *ValidationResult) Add(field, message string) {
	if r.FieldErrors == nil {
		r.FieldErrors = map[string]string{}
	}
	if _, exists := r.FieldErrors[field]; !exists {
		r.FieldErrors[field] = message
	}
	r.Valid = false
}

// Merge acrescenta as violações de outro resultado
func (r *ValidationResult) Merge(other ValidationResult) {
	for field, message := range other.FieldErrors {
		r.Add(field, message)
	}
}

// Err converte o resultado em *ValidationError, ou nil quando válido
func (r ValidationResult) Err() error {
	if r.Valid {
		return nil
	}
	return &ValidationError{FieldErrors: r.FieldErrors}
}

// ValidationError carrega as mensagens por campo e desembrulha para ErrValidationFailed
type ValidationError struct {
	FieldErrors map[string]string
}

func (e *ValidationError) Error() string {
	fields := make([]string, 0, len(e.FieldErrors))
	for field := range e.FieldErrors {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		parts = append(parts, fmt.Sprintf("%s: %s", field, e.FieldErrors[field]))
	}

	return fmt.Sprintf("%s: %s", ErrValidationFailed.Error(), strings.Join(parts, "; "))
}

func (e *ValidationError) Unwrap() error {
	return ErrValidationFailed
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Usa o nome do campo no JSON nas chaves de erro
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// ValidateStruct aplica as tags `validate` da estrutura e traduz as violações
func ValidateStruct(s any) ValidationResult {
	result := newValidationResult()
	collectFieldErrors(&result, validate.Struct(s))
	return result
}

func collectFieldErrors(result *ValidationResult, err error) {
	if err == nil {
		return
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		result.Add("_", err.Error())
		return
	}

	for _, fe := range validationErrors {
		result.Add(fieldKey(fe.Namespace()), validationMessage(fe))
	}
}

// fieldKey remove o nome da estrutura raiz do namespace ("DailySalesPatch.channels.cash" → "channels.cash")
func fieldKey(namespace string) string {
	if idx := strings.Index(namespace, "."); idx >= 0 {
		return namespace[idx+1:]
	}
	return namespace
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "Campo obrigatório"
	case "datetime":
		return "Data deve estar no formato AAAA-MM-DD"
	case "gte":
		return "Deve ser maior ou igual a " + fe.Param()
	case "gt":
		return "Deve ser maior que " + fe.Param()
	case "oneof":
		return "Deve ser um dos valores: " + fe.Param()
	case "email":
		return "Email inválido"
	case "min":
		if fe.Kind() == reflect.String {
			return "Deve ter pelo menos " + fe.Param() + " caracteres"
		}
		return "Deve ser no mínimo " + fe.Param()
	default:
		return "Valor inválido"
	}
}

// ValidatePatch valida o corpo de uma requisição de criação ou de atualização parcial.
// Todas as regras são avaliadas e todas as violações retornadas.
func ValidatePatch(p DailySalesPatch, mode ValidationMode) ValidationResult {
	result := newValidationResult()

	if mode == ValidationCreate {
		validateCreatePresence(&result, p)
	} else {
		if p.Date != nil && strings.TrimSpace(*p.Date) == "" {
			result.Add("date", "Data é obrigatória")
		}
		if p.CashierID != nil && strings.TrimSpace(*p.CashierID) == "" {
			result.Add("cashierId", "Caixa é obrigatório")
		}
	}

	collectFieldErrors(&result, validate.Struct(p))

	return result
}

func validateCreatePresence(result *ValidationResult, p DailySalesPatch) {
	if p.Date == nil || strings.TrimSpace(*p.Date) == "" {
		result.Add("date", "Data é obrigatória")
	}

	if p.CashierID == nil || strings.TrimSpace(*p.CashierID) == "" {
		result.Add("cashierId", "Caixa é obrigatório")
	}

	if p.Channels == nil {
		result.Add("channels", "Valores por meio de pagamento são obrigatórios")
	} else {
		channels := map[string]*float64{
			"channels.cash":       p.Channels.Cash,
			"channels.qr":         p.Channels.QR,
			"channels.bank":       p.Channels.Bank,
			"channels.government": p.Channels.Government,
		}

		var total float64
		for field, amount := range channels {
			if amount == nil {
				result.Add(field, "Campo obrigatório")
				continue
			}
			total += *amount
		}

		if total <= 0 {
			result.Add("channels", "O total de vendas deve ser maior que zero")
		}
	}

	if p.Reconciliation == nil {
		result.Add("reconciliation", "Conferência de caixa é obrigatória")
	} else {
		if p.Reconciliation.ExpectedAmount == nil {
			result.Add("reconciliation.expectedAmount", "Campo obrigatório")
		}
		if p.Reconciliation.ActualAmount == nil {
			result.Add("reconciliation.actualAmount", "Campo obrigatório")
		}
	}

	if p.Status != nil && *p.Status != SalesStatusSubmitted {
		result.Add("status", "Lançamento novo deve ter status submitted")
	}
}

// ValidateEntry valida um lançamento completo, já mesclado e recalculado, antes de persistir
func ValidateEntry(entry DailySalesEntry, mode ValidationMode) ValidationResult {
	result := newValidationResult()

	if strings.TrimSpace(entry.Date) == "" {
		result.Add("date", "Data é obrigatória")
	}
	if strings.TrimSpace(entry.CashierID) == "" {
		result.Add("cashierId", "Caixa é obrigatório")
	}

	collectFieldErrors(&result, validate.Struct(entry))

	if mode == ValidationCreate {
		if entry.Total <= 0 {
			result.Add("channels", "O total de vendas deve ser maior que zero")
		}
		if entry.Status != SalesStatusSubmitted {
			result.Add("status", "Lançamento novo deve ter status submitted")
		}
	}

	return result
}

// ValidateStatusTransition garante que o status só avança (submitted → audited → approved)
func ValidateStatusTransition(from, to SalesStatus) ValidationResult {
	result := newValidationResult()

	if from == to {
		return result
	}

	if !to.IsValid() {
		result.Add("status", "Deve ser um dos valores: submitted audited approved")
		return result
	}

	if !from.CanAdvanceTo(to) {
		result.Add("status", fmt.Sprintf("Transição de status inválida: %s → %s", from, to))
	}

	return result
}
