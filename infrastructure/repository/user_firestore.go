package repository

import (
	"context"
	"strings"

	"cloud.google.com/go/firestore"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/minimart-api/internal/domain"
	"google.golang.org/api/iterator"
)

type userFirestoreRepository struct {
	client *firestore.Client
}

func NewUserFirestoreRepository(client *firestore.Client) UserRepository {
	return &userFirestoreRepository{
		client: client,
	}
}

func (r *userFirestoreRepository) collection() *firestore.CollectionRef {
	return r.client.Collection(usersCollection)
}

func (r *userFirestoreRepository) Initialize(ctx context.Context) error {
	return nil
}

func (r *userFirestoreRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	created := *user
	stampNewUser(&created)

	ref := r.collection().NewDoc()
	if created.UID != "" {
		ref = r.collection().Doc(created.UID)
	}
	created.UID = ref.ID

	if _, err := ref.Create(ctx, toUserDocument(&created)); err != nil {
		return nil, errors.Wrap(err, "erro ao inserir usuário")
	}

	logrus.WithField("uid", created.UID).Info("Usuário criado")

	return &created, nil
}

func (r *userFirestoreRepository) Update(ctx context.Context, user *domain.User) error {
	if user.UID == "" || strings.Contains(user.UID, "/") {
		return ErrNotFound
	}
	ref := r.collection().Doc(user.UID)

	return r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snapshot, err := tx.Get(ref)
		if isFirestoreNotFound(err) {
			return ErrNotFound
		}
		if err != nil {
			return errors.Wrapf(err, "erro ao buscar usuário %s", user.UID)
		}

		var stored userDocument
		if err := snapshot.DataTo(&stored); err != nil {
			return errors.Wrapf(err, "erro ao decodificar usuário %s", user.UID)
		}

		user.CreatedAt = stored.CreatedAt
		stampUpdatedUser(user)

		return tx.Set(ref, toUserDocument(user))
	})
}

func (r *userFirestoreRepository) GetByID(ctx context.Context, uid string) (*domain.User, error) {
	if uid == "" || strings.Contains(uid, "/") {
		return nil, ErrNotFound
	}

	snapshot, err := r.collection().Doc(uid).Get(ctx)
	if isFirestoreNotFound(err) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrapf(err, "erro ao buscar usuário %s", uid)
	}

	var doc userDocument
	if err := snapshot.DataTo(&doc); err != nil {
		return nil, errors.Wrapf(err, "erro ao decodificar usuário %s", uid)
	}

	return doc.toUser(uid), nil
}

func (r *userFirestoreRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	users, err := r.query(ctx, r.collection().Where("email", "==", strings.ToLower(email)).Limit(1))
	if err != nil {
		return nil, err
	}

	if len(users) == 0 {
		return nil, ErrNotFound
	}

	return users[0], nil
}

func (r *userFirestoreRepository) List(ctx context.Context) ([]*domain.User, error) {
	return r.query(ctx, r.collection().OrderBy("displayName", firestore.Asc))
}

func (r *userFirestoreRepository) query(ctx context.Context, q firestore.Query) ([]*domain.User, error) {
	iter := q.Documents(ctx)
	defer iter.Stop()

	users := []*domain.User{}
	for {
		snapshot, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, "erro ao consultar users")
		}

		var doc userDocument
		if err := snapshot.DataTo(&doc); err != nil {
			return nil, errors.Wrapf(err, "erro ao decodificar usuário %s", snapshot.Ref.ID)
		}
		users = append(users, doc.toUser(snapshot.Ref.ID))
	}

	return users, nil
}
