package repository

import (
	"context"
	"database/sql"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/minimart-api/infrastructure/database/postgres"
	"github.com/vfg2006/minimart-api/internal/domain"
)

const usersTable = "users"

const createUsersTableSQL = `
CREATE TABLE IF NOT EXISTS users (
	uid           TEXT PRIMARY KEY,
	email         TEXT NOT NULL UNIQUE,
	display_name  TEXT NOT NULL,
	role          TEXT NOT NULL,
	is_active     BOOLEAN NOT NULL DEFAULT TRUE,
	password_hash TEXT NOT NULL,
	created_at    TIMESTAMPTZ NOT NULL,
	updated_at    TIMESTAMPTZ NOT NULL,
	last_login_at TIMESTAMPTZ
);
`

var userColumns = []string{
	"uid", "email", "display_name", "role", "is_active",
	"password_hash", "created_at", "updated_at", "last_login_at",
}

type userPostgresRepository struct {
	conn *postgres.Connection
}

func NewUserPostgresRepository(conn *postgres.Connection) UserRepository {
	return &userPostgresRepository{
		conn: conn,
	}
}

func (r *userPostgresRepository) Initialize(ctx context.Context) error {
	if _, err := r.conn.ExecContext(ctx, createUsersTableSQL); err != nil {
		return errors.Wrap(err, "erro ao criar tabela users")
	}
	return nil
}

func scanUser(row rowScanner) (*domain.User, error) {
	var (
		user        domain.User
		role        string
		lastLoginAt sql.NullTime
	)

	err := row.Scan(
		&user.UID,
		&user.Email,
		&user.DisplayName,
		&role,
		&user.IsActive,
		&user.PasswordHash,
		&user.CreatedAt,
		&user.UpdatedAt,
		&lastLoginAt,
	)
	if err != nil {
		return nil, err
	}

	user.Role = domain.Role(role)
	user.CreatedAt = user.CreatedAt.UTC()
	user.UpdatedAt = user.UpdatedAt.UTC()
	if lastLoginAt.Valid {
		user.LastLoginAt = truncateTime(&lastLoginAt.Time)
	}

	return &user, nil
}

func (r *userPostgresRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	created := *user
	if created.UID == "" {
		created.UID = uuid.NewString()
	}
	stampNewUser(&created)

	var lastLoginAt any
	if created.LastLoginAt != nil {
		lastLoginAt = *created.LastLoginAt
	}

	usersSQL, usersArgs, err := squirrel.
		Insert(usersTable).
		Columns(userColumns...).
		Values(created.UID, created.Email, created.DisplayName, string(created.Role), created.IsActive,
			created.PasswordHash, created.CreatedAt, created.UpdatedAt, lastLoginAt).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	if _, err := r.conn.ExecContext(ctx, usersSQL, usersArgs...); err != nil {
		return nil, errors.Wrap(err, "erro ao inserir usuário")
	}

	logrus.WithField("uid", created.UID).Info("Usuário criado")

	return &created, nil
}

func (r *userPostgresRepository) Update(ctx context.Context, user *domain.User) error {
	stampUpdatedUser(user)

	queryBuilder := squirrel.
		Update(usersTable).
		Set("display_name", user.DisplayName).
		Set("role", string(user.Role)).
		Set("is_active", user.IsActive).
		Set("updated_at", user.UpdatedAt).
		Where(squirrel.Eq{"uid": user.UID})

	if user.Email != "" {
		queryBuilder = queryBuilder.Set("email", user.Email)
	}

	if user.PasswordHash != "" {
		queryBuilder = queryBuilder.Set("password_hash", user.PasswordHash)
	}

	if user.LastLoginAt != nil {
		queryBuilder = queryBuilder.Set("last_login_at", *user.LastLoginAt)
	}

	usersSQL, usersArgs, err := queryBuilder.PlaceholderFormat(squirrel.Dollar).ToSql()
	if err != nil {
		return err
	}

	result, err := r.conn.ExecContext(ctx, usersSQL, usersArgs...)
	if err != nil {
		return errors.Wrapf(err, "erro ao atualizar usuário %s", user.UID)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if affected == 0 {
		return ErrNotFound
	}

	return nil
}

func (r *userPostgresRepository) getOne(ctx context.Context, where squirrel.Sqlizer) (*domain.User, error) {
	usersSQL, usersArgs, err := squirrel.
		Select(userColumns...).
		From(usersTable).
		Where(where).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	user, err := scanUser(r.conn.QueryRowContext(ctx, usersSQL, usersArgs...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "erro ao buscar usuário")
	}

	return user, nil
}

func (r *userPostgresRepository) GetByID(ctx context.Context, uid string) (*domain.User, error) {
	return r.getOne(ctx, squirrel.Eq{"uid": uid})
}

func (r *userPostgresRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.getOne(ctx, squirrel.Eq{"email": email})
}

func (r *userPostgresRepository) List(ctx context.Context) ([]*domain.User, error) {
	usersSQL, usersArgs, err := squirrel.
		Select(userColumns...).
		From(usersTable).
		OrderBy("display_name ASC").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.conn.QueryContext(ctx, usersSQL, usersArgs...)
	if err != nil {
		return nil, errors.Wrap(err, "erro ao consultar users")
	}
	defer rows.Close()

	users := []*domain.User{}
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, errors.Wrap(err, "erro ao processar resultado")
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "erro durante iteração")
	}

	return users, nil
}
