package handler

import (
	"net/http"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/minimart-api/internal/domain"
	"github.com/vfg2006/minimart-api/internal/usecases/authenticating"
	"github.com/vfg2006/minimart-api/internal/usecases/dailysales"
	"github.com/vfg2006/minimart-api/pkg/apiErrors"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Response é o envelope de sucesso: {success: true, data, message?, count?}
type Response struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
	Count   *int   `json:"count,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, data any, message string) {
	write(w, status, Response{Success: true, Data: data, Message: message})
}

func writeList[T any](w http.ResponseWriter, items []T) {
	count := len(items)
	write(w, http.StatusOK, Response{Success: true, Data: items, Count: &count})
}

func write(w http.ResponseWriter, status int, resp Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		logrus.WithError(err).Error("Erro ao enviar resposta")
	}
}

func decodeBody(r *http.Request, v any) error {
	if r.Body == nil {
		return errors.New("corpo da requisição vazio")
	}
	return json.NewDecoder(r.Body).Decode(v)
}

// writeServiceError traduz os erros dos serviços para o envelope de falha
func writeServiceError(w http.ResponseWriter, err error) {
	var validationErr *domain.ValidationError
	if errors.As(err, &validationErr) {
		apiErrors.WriteValidationError(w, validationErr.Error(), validationErr.FieldErrors)
		return
	}

	var salesErr *dailysales.SalesError
	if errors.As(err, &salesErr) {
		if salesErr.Internal() {
			apiErrors.WriteError(w, salesErr.Code, "Erro interno ao acessar lançamentos", nil)
			return
		}
		apiErrors.WriteError(w, salesErr.Code, salesErr.Error(), nil)
		return
	}

	var authErr *authenticating.AuthError
	if errors.As(err, &authErr) {
		if authErr.Internal() {
			apiErrors.WriteError(w, authErr.Code, "Erro interno ao acessar usuários", nil)
			return
		}
		apiErrors.WriteError(w, authErr.Code, authErr.Error(), nil)
		return
	}

	logrus.WithError(err).Error("Erro não mapeado")
	apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Erro interno no servidor", nil)
}
