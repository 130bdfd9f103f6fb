package domain

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type Role string

const (
	RoleOwner            Role = "owner"
	RoleManager          Role = "manager"
	RoleAssistantManager Role = "assistant_manager"
	RoleCashier          Role = "cashier"
	RoleAuditor          Role = "auditor"
)

func (r Role) IsValid() bool {
	switch r {
	case RoleOwner, RoleManager, RoleAssistantManager, RoleCashier, RoleAuditor:
		return true
	}
	return false
}

// In indica se o papel está entre os informados
func (r Role) In(roles ...Role) bool {
	for _, role := range roles {
		if r == role {
			return true
		}
	}
	return false
}

type User struct {
	UID          string     `json:"uid"`
	Email        string     `json:"email"`
	DisplayName  string     `json:"displayName"`
	Role         Role       `json:"role"`
	IsActive     bool       `json:"isActive"`
	PasswordHash string     `json:"passwordHash,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
	LastLoginAt  *time.Time `json:"lastLoginAt,omitempty"`
}

// Sanitize retorna uma cópia do usuário sem o hash da senha
func (u User) Sanitize() User {
	u.PasswordHash = ""
	return u
}

type CreateUserRequest struct {
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=6"`
	DisplayName string `json:"displayName" validate:"required,min=2"`
	Role        Role   `json:"role" validate:"required,oneof=owner manager assistant_manager cashier auditor"`
}

type UpdateUserRequest struct {
	UID         string  `json:"-"`
	DisplayName *string `json:"displayName,omitempty" validate:"omitempty,min=2"`
	Role        *Role   `json:"role,omitempty" validate:"omitempty,oneof=owner manager assistant_manager cashier auditor"`
	IsActive    *bool   `json:"isActive,omitempty"`
}

type Claims struct {
	UID         string `json:"uid"`
	DisplayName string `json:"displayName"`
	Email       string `json:"email"`
	Role        Role   `json:"role"`
	jwt.RegisteredClaims
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse é devolvido no login: o token assinado e o perfil sem o hash da senha
type LoginResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=6"`
}
