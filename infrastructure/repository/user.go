package repository

import (
	"context"
	"time"

	"github.com/vfg2006/minimart-api/internal/domain"
)

const usersCollection = "users"

// UserRepository persiste os usuários do sistema. Exclusão é lógica (IsActive = false) via Update.
type UserRepository interface {
	Initialize(ctx context.Context) error
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, uid string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	List(ctx context.Context) ([]*domain.User, error)
}

// userDocument é a representação de um usuário nos bancos de documentos
type userDocument struct {
	UID          string     `bson:"_id" firestore:"-"`
	Email        string     `bson:"email" firestore:"email"`
	DisplayName  string     `bson:"displayName" firestore:"displayName"`
	Role         string     `bson:"role" firestore:"role"`
	IsActive     bool       `bson:"isActive" firestore:"isActive"`
	PasswordHash string     `bson:"passwordHash" firestore:"passwordHash"`
	CreatedAt    time.Time  `bson:"createdAt" firestore:"createdAt"`
	UpdatedAt    time.Time  `bson:"updatedAt" firestore:"updatedAt"`
	LastLoginAt  *time.Time `bson:"lastLoginAt,omitempty" firestore:"lastLoginAt,omitempty"`
}

func toUserDocument(user *domain.User) userDocument {
	return userDocument{
		UID:          user.UID,
		Email:        user.Email,
		DisplayName:  user.DisplayName,
		Role:         string(user.Role),
		IsActive:     user.IsActive,
		PasswordHash: user.PasswordHash,
		CreatedAt:    user.CreatedAt.UTC(),
		UpdatedAt:    user.UpdatedAt.UTC(),
		LastLoginAt:  truncateTime(user.LastLoginAt),
	}
}

func (d userDocument) toUser(uid string) *domain.User {
	return &domain.User{
		UID:          uid,
		Email:        d.Email,
		DisplayName:  d.DisplayName,
		Role:         domain.Role(d.Role),
		IsActive:     d.IsActive,
		PasswordHash: d.PasswordHash,
		CreatedAt:    d.CreatedAt.UTC(),
		UpdatedAt:    d.UpdatedAt.UTC(),
		LastLoginAt:  truncateTime(d.LastLoginAt),
	}
}

// stampNewUser define as datas de criação com a mesma precisão em todos os backends
func stampNewUser(user *domain.User) {
	now := timeNow().UTC().Truncate(time.Millisecond)
	user.CreatedAt = now
	user.UpdatedAt = now
}

func stampUpdatedUser(user *domain.User) {
	user.UpdatedAt = timeNow().UTC().Truncate(time.Millisecond)
}
