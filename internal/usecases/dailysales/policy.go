package dailysales

import "github.com/vfg2006/minimart-api/internal/domain"

// Papéis que alteram lançamentos de outros usuários
var updateAnyRoles = []domain.Role{domain.RoleOwner, domain.RoleManager, domain.RoleAuditor}

// Papéis que removem lançamentos de outros usuários
var deleteAnyRoles = []domain.Role{domain.RoleOwner, domain.RoleManager}

// Papéis que alteram o status ou os campos de auditoria
var auditRoles = []domain.Role{domain.RoleOwner, domain.RoleManager, domain.RoleAuditor}

// Papéis que aprovam lançamentos
var approveRoles = []domain.Role{domain.RoleOwner, domain.RoleManager}

func isOwner(caller *domain.Claims, entry *domain.DailySalesEntry) bool {
	return entry.SubmittedBy != "" && entry.SubmittedBy == caller.UID
}

func canUpdate(caller *domain.Claims, entry *domain.DailySalesEntry) bool {
	return caller.Role.In(updateAnyRoles...) || isOwner(caller, entry)
}

func canDelete(caller *domain.Claims, entry *domain.DailySalesEntry) bool {
	return caller.Role.In(deleteAnyRoles...) || isOwner(caller, entry)
}

func touchesAudit(patch domain.DailySalesPatch, current domain.SalesStatus) bool {
	return patch.ChangesStatus(current) || patch.AuditNotes != nil || patch.AuditedAt != nil || patch.AuditedBy != nil
}

func canChangeStatus(caller *domain.Claims, next domain.SalesStatus) bool {
	if next == domain.SalesStatusApproved {
		return caller.Role.In(approveRoles...)
	}
	return caller.Role.In(auditRoles...)
}
