package repository

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/minimart-api/internal/domain"
	"github.com/vfg2006/minimart-api/pkg/utils"
)

const (
	UsersFileName = "users.json"
	userIDLength  = 12
)

type userJSONRepository struct {
	mu     sync.Mutex
	path   string
	users  []domain.User
	loaded bool
}

func NewUserJSONRepository(dataDir string) UserRepository {
	return &userJSONRepository{
		path: filepath.Join(dataDir, UsersFileName),
	}
}

func (r *userJSONRepository) Initialize(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.loadLocked()
}

func (r *userJSONRepository) loadLocked() error {
	if r.loaded {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(r.path), 0o755); err != nil {
		return errors.Wrapf(err, "erro ao criar diretório de dados %s", filepath.Dir(r.path))
	}

	data, err := os.ReadFile(r.path)
	if err != nil && !os.IsNotExist(err) {
		return errors.Wrapf(err, "erro ao ler arquivo %s", r.path)
	}

	users := []domain.User{}
	if len(data) > 0 {
		if err := json.Unmarshal(data, &users); err != nil {
			return errors.Wrapf(err, "erro ao decodificar arquivo %s", r.path)
		}
	}

	r.users = users
	r.loaded = true
	return nil
}

func (r *userJSONRepository) persistLocked(users []domain.User) error {
	data, err := json.MarshalIndent(users, "", "  ")
	if err != nil {
		return errors.Wrap(err, "erro ao serializar usuários")
	}

	tmp := r.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return errors.Wrapf(err, "erro ao gravar arquivo %s", tmp)
	}

	if err := os.Rename(tmp, r.path); err != nil {
		return errors.Wrapf(err, "erro ao substituir arquivo %s", r.path)
	}

	r.users = users
	return nil
}

func (r *userJSONRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.loadLocked(); err != nil {
		return nil, err
	}

	created := *user
	if created.UID == "" {
		suffix, err := utils.GenerateID(userIDLength)
		if err != nil {
			return nil, errors.Wrap(err, "erro ao gerar ID do usuário")
		}
		created.UID = "user-" + suffix
	}
	stampNewUser(&created)

	users := make([]domain.User, len(r.users), len(r.users)+1)
	copy(users, r.users)
	users = append(users, created)

	if err := r.persistLocked(users); err != nil {
		return nil, err
	}

	logrus.WithField("uid", created.UID).Info("Usuário criado")

	return &created, nil
}

func (r *userJSONRepository) Update(ctx context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.loadLocked(); err != nil {
		return err
	}

	idx := -1
	for i := range r.users {
		if r.users[i].UID == user.UID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return ErrNotFound
	}

	updated := *user
	updated.CreatedAt = r.users[idx].CreatedAt
	stampUpdatedUser(&updated)

	users := make([]domain.User, len(r.users))
	copy(users, r.users)
	users[idx] = updated

	if err := r.persistLocked(users); err != nil {
		return err
	}

	user.UpdatedAt = updated.UpdatedAt
	return nil
}

func (r *userJSONRepository) find(match func(domain.User) bool) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.loadLocked(); err != nil {
		return nil, err
	}

	for _, user := range r.users {
		if match(user) {
			found := user
			return &found, nil
		}
	}

	return nil, ErrNotFound
}

func (r *userJSONRepository) GetByID(ctx context.Context, uid string) (*domain.User, error) {
	return r.find(func(user domain.User) bool { return user.UID == uid })
}

func (r *userJSONRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.find(func(user domain.User) bool { return strings.EqualFold(user.Email, email) })
}

func (r *userJSONRepository) List(ctx context.Context) ([]*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.loadLocked(); err != nil {
		return nil, err
	}

	users := make([]*domain.User, 0, len(r.users))
	for _, user := range r.users {
		u := user
		users = append(users, &u)
	}

	sort.Slice(users, func(i, j int) bool {
		return users[i].DisplayName < users[j].DisplayName
	})

	return users, nil
}
