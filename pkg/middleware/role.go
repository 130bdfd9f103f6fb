package middleware

import (
	"net/http"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/minimart-api/internal/domain"
	"github.com/vfg2006/minimart-api/pkg/apiErrors"
)

// RoleMiddleware cria um middleware que restringe o acesso com base nos papéis
// allowedRoles é a lista de papéis que têm permissão para acessar a rota
func RoleMiddleware(allowedRoles ...domain.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Obter claims do usuário do contexto
			userClaims := ClaimsFromContext(r.Context())
			if userClaims == nil {
				logrus.Warning("Tentativa de acesso sem autenticação")
				apiErrors.WriteError(w, apiErrors.ErrInvalidToken, "Usuário não autenticado", nil)
				return
			}

			if !userClaims.Role.In(allowedRoles...) {
				logrus.Warningf("Acesso negado para usuário UID=%s, Role=%s", userClaims.UID, userClaims.Role)
				apiErrors.WriteError(w, apiErrors.ErrInsufficientPrivilege, "Você não tem permissão para acessar este recurso", nil)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// OwnerOnly permite acesso apenas ao dono da loja
func OwnerOnly() func(http.Handler) http.Handler {
	return RoleMiddleware(domain.RoleOwner)
}

// OwnerOrManager permite acesso ao dono e ao gerente
func OwnerOrManager() func(http.Handler) http.Handler {
	return RoleMiddleware(domain.RoleOwner, domain.RoleManager)
}

// AuditorRoles permite acesso a quem audita lançamentos
func AuditorRoles() func(http.Handler) http.Handler {
	return RoleMiddleware(domain.RoleOwner, domain.RoleManager, domain.RoleAuditor)
}

func AllRoles() func(http.Handler) http.Handler {
	return RoleMiddleware(domain.RoleOwner, domain.RoleManager, domain.RoleAssistantManager, domain.RoleCashier, domain.RoleAuditor)
}
