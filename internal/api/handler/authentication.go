package handler

import (
	"net/http"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/minimart-api/internal/domain"
	"github.com/vfg2006/minimart-api/internal/usecases/authenticating"
	"github.com/vfg2006/minimart-api/pkg/apiErrors"
	"github.com/vfg2006/minimart-api/pkg/middleware"
)

func Login(service authenticating.Authenticator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req domain.LoginRequest

		// Decodificar o corpo da requisição
		if err := decodeBody(r, &req); err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Formato de requisição inválido", nil)
			return
		}

		resp, err := service.LoginUser(r.Context(), req.Email, req.Password)
		if err != nil {
			logrus.WithError(err).Warn("Falha no login")
			writeServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, resp, "")
	}
}

// GetMe retorna as informações do usuário logado
func GetMe(service authenticating.Authenticator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userClaims := middleware.ClaimsFromContext(r.Context())
		if userClaims == nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidToken, "Usuário não autenticado", nil)
			return
		}

		user, err := service.GetUserProfile(r.Context(), userClaims.UID)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, user, "")
	}
}

// ChangePassword permite que o usuário autenticado altere a própria senha
func ChangePassword(service authenticating.Authenticator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logrus.Info("INIT - ChangePassword")

		userClaims := middleware.ClaimsFromContext(r.Context())
		if userClaims == nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidToken, "Não autorizado", nil)
			return
		}

		var req domain.ChangePasswordRequest
		if err := decodeBody(r, &req); err != nil {
			logrus.Error(err)
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Erro ao decodificar requisição", nil)
			return
		}

		if err := service.ChangePassword(r.Context(), userClaims.UID, req.CurrentPassword, req.NewPassword); err != nil {
			writeServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, nil, "Senha alterada com sucesso")
	}
}
