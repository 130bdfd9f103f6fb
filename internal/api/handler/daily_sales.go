package handler

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/minimart-api/infrastructure/report"
	"github.com/vfg2006/minimart-api/internal/domain"
	"github.com/vfg2006/minimart-api/internal/usecases/dailysales"
	"github.com/vfg2006/minimart-api/pkg/apiErrors"
	"github.com/vfg2006/minimart-api/pkg/middleware"
)

type reviewRequest struct {
	Notes string `json:"notes"`
}

// salesQuery lê filtros e ordenação da query string
func salesQuery(r *http.Request) (domain.SalesFilter, domain.SortKey, domain.SortOrder, map[string]string) {
	q := r.URL.Query()

	filter := domain.SalesFilter{
		DateFrom:    q.Get("dateFrom"),
		DateTo:      q.Get("dateTo"),
		Status:      domain.SalesStatus(q.Get("status")),
		CashierName: q.Get("cashierName"),
	}

	fieldErrors := map[string]string{}

	key := domain.SortKey(q.Get("sortBy"))
	switch key {
	case "":
		key = domain.SortByDate
	case domain.SortByDate, domain.SortByCashierName, domain.SortByTotal:
	default:
		fieldErrors["sortBy"] = "Deve ser um dos valores: date cashierName total"
	}

	order := domain.SortOrder(q.Get("sortOrder"))
	switch order {
	case "":
		order = domain.SortDesc
	case domain.SortAsc, domain.SortDesc:
	default:
		fieldErrors["sortOrder"] = "Deve ser um dos valores: asc desc"
	}

	return filter, key, order, fieldErrors
}

func ListDailySales(service dailysales.SalesService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logrus.Info("INIT - ListDailySales")

		filter, key, order, fieldErrors := salesQuery(r)
		if len(fieldErrors) > 0 {
			apiErrors.WriteValidationError(w, "Parâmetros de consulta inválidos", fieldErrors)
			return
		}

		entries, err := service.List(r.Context(), filter)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		writeList(w, domain.SortEntries(entries, key, order))
	}
}

func GetDailySales(service dailysales.SalesService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := httprouter.ParamsFromContext(r.Context()).ByName("id")
		if id == "" {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "ID do lançamento não fornecido", nil)
			return
		}

		entry, err := service.Get(r.Context(), id)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, entry, "")
	}
}

func CreateDailySales(service dailysales.SalesService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logrus.Info("INIT - CreateDailySales")

		var patch domain.DailySalesPatch
		if err := decodeBody(r, &patch); err != nil {
			logrus.Error(err)
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Erro ao decodificar requisição", nil)
			return
		}

		entry, err := service.Create(r.Context(), middleware.ClaimsFromContext(r.Context()), patch)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, entry, "Lançamento registrado com sucesso")
	}
}

func UpdateDailySales(service dailysales.SalesService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logrus.Info("INIT - UpdateDailySales")

		id := httprouter.ParamsFromContext(r.Context()).ByName("id")

		var patch domain.DailySalesPatch
		if err := decodeBody(r, &patch); err != nil {
			logrus.Error(err)
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Erro ao decodificar requisição", nil)
			return
		}

		entry, err := service.Update(r.Context(), middleware.ClaimsFromContext(r.Context()), id, patch)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, entry, "Lançamento atualizado com sucesso")
	}
}

func DeleteDailySales(service dailysales.SalesService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logrus.Info("INIT - DeleteDailySales")

		id := httprouter.ParamsFromContext(r.Context()).ByName("id")

		if err := service.Delete(r.Context(), middleware.ClaimsFromContext(r.Context()), id); err != nil {
			writeServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, nil, "Lançamento removido com sucesso")
	}
}

func AuditDailySales(service dailysales.SalesService) http.HandlerFunc {
	return reviewDailySales("AuditDailySales", "Lançamento auditado com sucesso", service.Audit)
}

func ApproveDailySales(service dailysales.SalesService) http.HandlerFunc {
	return reviewDailySales("ApproveDailySales", "Lançamento aprovado com sucesso", service.Approve)
}

type reviewAction func(ctx context.Context, caller *domain.Claims, id string, notes string) (*domain.DailySalesEntry, error)

// reviewDailySales atende os atalhos de auditoria e aprovação. O corpo é opcional.
func reviewDailySales(name string, message string, action reviewAction) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logrus.Info("INIT - " + name)

		id := httprouter.ParamsFromContext(r.Context()).ByName("id")

		var req reviewRequest
		if err := decodeBody(r, &req); err != nil && !errors.Is(err, io.EOF) {
			logrus.Error(err)
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Erro ao decodificar requisição", nil)
			return
		}

		entry, err := action(r.Context(), middleware.ClaimsFromContext(r.Context()), id, req.Notes)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, entry, message)
	}
}

func ExportDailySales(service dailysales.SalesService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logrus.Info("INIT - ExportDailySales")

		filter, key, order, fieldErrors := salesQuery(r)
		if len(fieldErrors) > 0 {
			apiErrors.WriteValidationError(w, "Parâmetros de consulta inválidos", fieldErrors)
			return
		}

		entries, err := service.List(r.Context(), filter)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		workbook, err := report.NewSalesWorkbook(domain.SortEntries(entries, key, order))
		if err != nil {
			logrus.WithError(err).Error("Erro ao gerar planilha")
			apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Erro ao gerar planilha", nil)
			return
		}
		defer workbook.Close()

		filename := fmt.Sprintf("daily-sales-%s.xlsx", time.Now().Format(domain.DateLayout))
		w.Header().Set("Content-Type", report.ContentTypeXLSX)
		w.Header().Set("Content-Disposition", "attachment; filename="+filename)
		if err := workbook.Write(w); err != nil {
			logrus.WithError(err).Error("Erro ao enviar planilha")
		}
	}
}
