package handler

import (
	"net/http"

	"github.com/vfg2006/minimart-api/internal/api/handler/router"
	"github.com/vfg2006/minimart-api/internal/usecases/authenticating"
	"github.com/vfg2006/minimart-api/internal/usecases/dailysales"
	"github.com/vfg2006/minimart-api/pkg/middleware"
)

func Healthcheck(backend string, pinger Pinger) []router.Route {
	return []router.Route{
		{
			Path:    "/healthcheck",
			Method:  http.MethodGet,
			Handler: HealthcheckHandler(backend, pinger),
		},
	}
}

func Authentication(service authenticating.Authenticator) []router.Route {
	return []router.Route{
		{
			Path:    "/v1/login",
			Method:  http.MethodPost,
			Handler: Login(service),
		},
		{
			Path:        "/v1/me",
			Method:      http.MethodGet,
			Handler:     GetMe(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
		{
			Path:        "/v1/me/password",
			Method:      http.MethodPut,
			Handler:     ChangePassword(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
	}
}

func User(service authenticating.Authenticator) []router.Route {
	return []router.Route{
		{
			Path:        "/v1/users",
			Method:      http.MethodGet,
			Handler:     ListUsers(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.OwnerOrManager()},
		},
		{
			Path:        "/v1/users",
			Method:      http.MethodPost,
			Handler:     CreateUser(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.OwnerOrManager()},
		},
		{
			Path:        "/v1/users/:id",
			Method:      http.MethodGet,
			Handler:     GetUser(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
		{
			Path:        "/v1/users/:id",
			Method:      http.MethodPut,
			Handler:     UpdateUser(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.OwnerOrManager()},
		},
		{
			Path:        "/v1/users/:id",
			Method:      http.MethodDelete,
			Handler:     DeleteUser(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.OwnerOnly()},
		},
	}
}

// DailySales exige apenas autenticação nas rotas de CRUD. O serviço aplica a política de dono do lançamento
// e resolve o papel quando o token não o traz.
func DailySales(service dailysales.SalesService) []router.Route {
	return []router.Route{
		{
			Path:    "/v1/daily-sales",
			Method:  http.MethodGet,
			Handler: ListDailySales(service),
		},
		{
			Path:    "/v1/daily-sales",
			Method:  http.MethodPost,
			Handler: CreateDailySales(service),
		},
		{
			Path:    "/v1/daily-sales/:id",
			Method:  http.MethodGet,
			Handler: GetDailySales(service),
		},
		{
			Path:    "/v1/daily-sales/:id",
			Method:  http.MethodPut,
			Handler: UpdateDailySales(service),
		},
		{
			Path:    "/v1/daily-sales/:id",
			Method:  http.MethodDelete,
			Handler: DeleteDailySales(service),
		},
		{
			Path:        "/v1/daily-sales/:id/audit",
			Method:      http.MethodPost,
			Handler:     AuditDailySales(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AuditorRoles()},
		},
		{
			Path:        "/v1/daily-sales/:id/approve",
			Method:      http.MethodPost,
			Handler:     ApproveDailySales(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.OwnerOrManager()},
		},
	}
}

func Reports(service dailysales.SalesService) []router.Route {
	return []router.Route{
		{
			Path:        "/v1/reports/daily-sales",
			Method:      http.MethodGet,
			Handler:     ExportDailySales(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AuditorRoles()},
		},
	}
}
