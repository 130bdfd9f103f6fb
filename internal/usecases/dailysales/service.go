package dailysales

import (
	"context"
	"errors"
	"time"

	"github.com/vfg2006/minimart-api/infrastructure/repository"
	"github.com/vfg2006/minimart-api/internal/domain"
	"github.com/vfg2006/minimart-api/pkg/apiErrors"
	"github.com/vfg2006/minimart-api/pkg/log"
)

type SalesService interface {
	List(ctx context.Context, filter domain.SalesFilter) ([]domain.DailySalesEntry, error)
	Get(ctx context.Context, id string) (*domain.DailySalesEntry, error)
	Create(ctx context.Context, caller *domain.Claims, patch domain.DailySalesPatch) (*domain.DailySalesEntry, error)
	Update(ctx context.Context, caller *domain.Claims, id string, patch domain.DailySalesPatch) (*domain.DailySalesEntry, error)
	Delete(ctx context.Context, caller *domain.Claims, id string) error
	Audit(ctx context.Context, caller *domain.Claims, id string, notes string) (*domain.DailySalesEntry, error)
	Approve(ctx context.Context, caller *domain.Claims, id string, notes string) (*domain.DailySalesEntry, error)
}

type Service struct {
	salesRepo repository.SalesRepository
	userRepo  repository.UserRepository
	now       func() time.Time
}

func NewService(salesRepo repository.SalesRepository, userRepo repository.UserRepository) SalesService {
	return &Service{
		salesRepo: salesRepo,
		userRepo:  userRepo,
		now:       time.Now,
	}
}

// List busca pela consulta mais seletiva suportada pelo repositório e aplica os demais filtros em memória.
// O resultado é ordenado por data, da mais recente para a mais antiga.
func (s *Service) List(ctx context.Context, filter domain.SalesFilter) ([]domain.DailySalesEntry, error) {
	if err := filter.Validate().Err(); err != nil {
		return nil, err
	}

	var (
		entries []domain.DailySalesEntry
		err     error
	)

	switch {
	case filter.DateFrom != "" || filter.DateTo != "":
		entries, err = s.salesRepo.ListByDateRange(ctx, filter.DateFrom, filter.DateTo)
	case filter.Status != "":
		entries, err = s.salesRepo.ListByStatus(ctx, filter.Status)
	default:
		entries, err = s.salesRepo.ListAll(ctx)
	}
	if err != nil {
		return nil, s.storageError(ctx, err, "", "Erro ao listar lançamentos")
	}

	entries = domain.FilterEntries(entries, filter)
	return domain.SortEntries(entries, domain.SortByDate, domain.SortDesc), nil
}

func (s *Service) Get(ctx context.Context, id string) (*domain.DailySalesEntry, error) {
	entry, err := s.salesRepo.GetByID(ctx, id)
	if err != nil {
		return nil, s.storageError(ctx, err, id, "Erro ao buscar lançamento")
	}

	return entry, nil
}

func (s *Service) Create(ctx context.Context, caller *domain.Claims, patch domain.DailySalesPatch) (*domain.DailySalesEntry, error) {
	caller, err := s.resolveCaller(ctx, caller)
	if err != nil {
		return nil, err
	}

	if err := domain.ValidatePatch(patch, domain.ValidationCreate).Err(); err != nil {
		return nil, err
	}

	entry := domain.NewEntryFromPatch(patch)
	if entry.CashierName == "" {
		entry.CashierName = caller.DisplayName
	}
	entry.SubmittedBy = caller.UID
	entry.AuditedAt = nil
	entry.AuditedBy = ""
	entry.AuditNotes = ""

	created, err := s.salesRepo.Add(ctx, entry)
	if err != nil {
		return nil, s.storageError(ctx, err, "", "Erro ao criar lançamento")
	}

	log.ForContext(ctx).WithFields(log.Fields{
		"user_id":  caller.UID,
		"entry_id": created.ID,
	}).Info("Lançamento diário registrado")

	return created, nil
}

func (s *Service) Update(ctx context.Context, caller *domain.Claims, id string, patch domain.DailySalesPatch) (*domain.DailySalesEntry, error) {
	caller, err := s.resolveCaller(ctx, caller)
	if err != nil {
		return nil, err
	}

	if err := domain.ValidatePatch(patch, domain.ValidationUpdate).Err(); err != nil {
		return nil, err
	}

	stored, err := s.salesRepo.GetByID(ctx, id)
	if err != nil {
		return nil, s.storageError(ctx, err, id, "Erro ao buscar lançamento")
	}

	if !canUpdate(caller, stored) {
		return nil, NewSalesErrorWithID(ErrForbidden, apiErrors.ErrSalesForbidden, id, "lançamento registrado por outro usuário")
	}

	if touchesAudit(patch, stored.Status) {
		next := stored.Status
		if patch.Status != nil {
			next = *patch.Status
		}
		if !canChangeStatus(caller, next) {
			return nil, NewSalesErrorWithID(ErrForbidden, apiErrors.ErrInsufficientPrivilege, id, "papel sem permissão para auditar ou aprovar")
		}

		if patch.ChangesStatus(stored.Status) {
			if patch.AuditedAt == nil {
				now := s.now()
				patch.AuditedAt = &now
			}
			if patch.AuditedBy == nil {
				patch.AuditedBy = &caller.UID
			}
		}
	}

	updated, err := s.salesRepo.Update(ctx, id, patch)
	if err != nil {
		return nil, s.storageError(ctx, err, id, "Erro ao atualizar lançamento")
	}

	return updated, nil
}

func (s *Service) Delete(ctx context.Context, caller *domain.Claims, id string) error {
	caller, err := s.resolveCaller(ctx, caller)
	if err != nil {
		return err
	}

	stored, err := s.salesRepo.GetByID(ctx, id)
	if err != nil {
		return s.storageError(ctx, err, id, "Erro ao buscar lançamento")
	}

	if !canDelete(caller, stored) {
		return NewSalesErrorWithID(ErrForbidden, apiErrors.ErrSalesForbidden, id, "lançamento registrado por outro usuário")
	}

	if err := s.salesRepo.Delete(ctx, id); err != nil {
		return s.storageError(ctx, err, id, "Erro ao remover lançamento")
	}

	return nil
}

// Audit marca o lançamento como auditado pelo usuário atual
func (s *Service) Audit(ctx context.Context, caller *domain.Claims, id string, notes string) (*domain.DailySalesEntry, error) {
	return s.advance(ctx, caller, id, domain.SalesStatusAudited, notes)
}

// Approve marca o lançamento como aprovado pelo usuário atual
func (s *Service) Approve(ctx context.Context, caller *domain.Claims, id string, notes string) (*domain.DailySalesEntry, error) {
	return s.advance(ctx, caller, id, domain.SalesStatusApproved, notes)
}

func (s *Service) advance(ctx context.Context, caller *domain.Claims, id string, status domain.SalesStatus, notes string) (*domain.DailySalesEntry, error) {
	patch := domain.DailySalesPatch{Status: &status}
	if notes != "" {
		patch.AuditNotes = &notes
	}

	return s.Update(ctx, caller, id, patch)
}

// resolveCaller garante que há um usuário autenticado e completa o papel quando o token não o traz
func (s *Service) resolveCaller(ctx context.Context, caller *domain.Claims) (*domain.Claims, error) {
	if caller == nil || caller.UID == "" {
		return nil, NewSalesError(ErrUnauthorized, apiErrors.ErrInvalidToken, "")
	}

	if caller.Role != "" || s.userRepo == nil {
		return caller, nil
	}

	user, err := s.userRepo.GetByID(ctx, caller.UID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, NewSalesError(ErrUnauthorized, apiErrors.ErrInvalidToken, "usuário do token não existe")
	}
	if err != nil {
		return nil, s.storageError(ctx, err, "", "Erro ao buscar usuário")
	}

	resolved := *caller
	resolved.Role = user.Role
	if resolved.DisplayName == "" {
		resolved.DisplayName = user.DisplayName
	}

	return &resolved, nil
}

// storageError traduz erros do repositório. Erros de validação seguem sem alteração.
func (s *Service) storageError(ctx context.Context, err error, id string, message string) error {
	var validationErr *domain.ValidationError
	if errors.As(err, &validationErr) {
		return err
	}

	if errors.Is(err, domain.ErrValidationFailed) {
		result := domain.ValidationResult{}
		result.Add("_", err.Error())
		return result.Err()
	}

	if errors.Is(err, repository.ErrNotFound) {
		return NewSalesErrorWithID(ErrNotFound, apiErrors.ErrSalesNotFound, id, "")
	}

	log.ForContext(ctx).WithError(err).WithField("entry_id", id).Error(message)
	return NewSalesErrorWithID(ErrDatabaseOperation, apiErrors.ErrDatabaseOperation, id, message)
}
