package handler

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/minimart-api/internal/domain"
	"github.com/vfg2006/minimart-api/internal/usecases/authenticating"
	"github.com/vfg2006/minimart-api/pkg/apiErrors"
	"github.com/vfg2006/minimart-api/pkg/middleware"
)

// userManagerRoles podem consultar e editar outros usuários
var userManagerRoles = []domain.Role{domain.RoleOwner, domain.RoleManager}

// GetUser retorna informações do usuário por UID. Cada usuário vê o próprio perfil; dono e gerente veem todos.
func GetUser(service authenticating.Authenticator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid := httprouter.ParamsFromContext(r.Context()).ByName("id")
		if uid == "" {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "ID do usuário não fornecido", nil)
			return
		}

		userClaims := middleware.ClaimsFromContext(r.Context())
		if userClaims == nil || (userClaims.UID != uid && !userClaims.Role.In(userManagerRoles...)) {
			apiErrors.WriteError(w, apiErrors.ErrInsufficientPrivilege, "Você não tem permissão para consultar este usuário", nil)
			return
		}

		user, err := service.GetUserProfile(r.Context(), uid)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, user, "")
	}
}

// CreateUser cria um novo usuário
func CreateUser(service authenticating.Authenticator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logrus.Info("INIT - CreateUser")

		var req domain.CreateUserRequest
		if err := decodeBody(r, &req); err != nil {
			logrus.Error(err)
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Erro ao decodificar requisição", nil)
			return
		}

		// Apenas o dono cria outro dono
		userClaims := middleware.ClaimsFromContext(r.Context())
		if req.Role == domain.RoleOwner && (userClaims == nil || userClaims.Role != domain.RoleOwner) {
			apiErrors.WriteError(w, apiErrors.ErrInsufficientPrivilege, "Apenas o dono pode criar outro dono", nil)
			return
		}

		user, err := service.CreateUser(r.Context(), req)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, user, "Usuário criado com sucesso")
	}
}

// ListUsers lista os usuários ativos
func ListUsers(service authenticating.Authenticator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		users, err := service.ListUsers(r.Context())
		if err != nil {
			writeServiceError(w, err)
			return
		}

		writeList(w, users)
	}
}

// UpdateUser atualiza nome, papel ou situação do usuário
func UpdateUser(service authenticating.Authenticator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logrus.Info("INIT - UpdateUser")

		uid := httprouter.ParamsFromContext(r.Context()).ByName("id")
		if uid == "" {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "ID do usuário não fornecido", nil)
			return
		}

		var updateReq domain.UpdateUserRequest
		if err := decodeBody(r, &updateReq); err != nil {
			logrus.Error(err)
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Erro ao decodificar requisição", nil)
			return
		}
		updateReq.UID = uid

		// Restringir a promoção a dono
		userClaims := middleware.ClaimsFromContext(r.Context())
		if updateReq.Role != nil && *updateReq.Role == domain.RoleOwner && (userClaims == nil || userClaims.Role != domain.RoleOwner) {
			apiErrors.WriteError(w, apiErrors.ErrInsufficientPrivilege, "Apenas o dono pode promover outro dono", nil)
			return
		}

		user, err := service.UpdateUser(r.Context(), updateReq)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, user, "Usuário atualizado com sucesso")
	}
}

// DeleteUser desativa o usuário
func DeleteUser(service authenticating.Authenticator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logrus.Info("INIT - DeleteUser")

		uid := httprouter.ParamsFromContext(r.Context()).ByName("id")

		if err := service.DeleteUser(r.Context(), middleware.ClaimsFromContext(r.Context()), uid); err != nil {
			writeServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, nil, "Usuário removido com sucesso")
	}
}
