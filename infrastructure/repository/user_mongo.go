package repository

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/minimart-api/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type userMongoRepository struct {
	collection *mongo.Collection
}

func NewUserMongoRepository(db *mongo.Database) UserRepository {
	return &userMongoRepository{
		collection: db.Collection(usersCollection),
	}
}

func (r *userMongoRepository) Initialize(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return errors.Wrap(err, "erro ao criar índice de users")
	}
	return nil
}

func (r *userMongoRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	created := *user
	if created.UID == "" {
		created.UID = uuid.NewString()
	}
	stampNewUser(&created)

	if _, err := r.collection.InsertOne(ctx, toUserDocument(&created)); err != nil {
		return nil, errors.Wrap(err, "erro ao inserir usuário")
	}

	logrus.WithField("uid", created.UID).Info("Usuário criado")

	return &created, nil
}

func (r *userMongoRepository) Update(ctx context.Context, user *domain.User) error {
	stored, err := r.GetByID(ctx, user.UID)
	if err != nil {
		return err
	}

	updated := *user
	updated.CreatedAt = stored.CreatedAt
	stampUpdatedUser(&updated)

	result, err := r.collection.ReplaceOne(ctx, bson.M{"_id": user.UID}, toUserDocument(&updated))
	if err != nil {
		return errors.Wrapf(err, "erro ao atualizar usuário %s", user.UID)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}

	user.UpdatedAt = updated.UpdatedAt
	return nil
}

func (r *userMongoRepository) findOne(ctx context.Context, filter bson.M) (*domain.User, error) {
	var doc userDocument
	err := r.collection.FindOne(ctx, filter).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "erro ao buscar usuário")
	}

	return doc.toUser(doc.UID), nil
}

func (r *userMongoRepository) GetByID(ctx context.Context, uid string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"_id": uid})
}

func (r *userMongoRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"email": strings.ToLower(email)})
}

func (r *userMongoRepository) List(ctx context.Context) ([]*domain.User, error) {
	cursor, err := r.collection.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "displayName", Value: 1}}))
	if err != nil {
		return nil, errors.Wrap(err, "erro ao consultar users")
	}
	defer cursor.Close(ctx)

	users := []*domain.User{}
	for cursor.Next(ctx) {
		var doc userDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, errors.Wrap(err, "erro ao decodificar usuário")
		}
		users = append(users, doc.toUser(doc.UID))
	}

	if err := cursor.Err(); err != nil {
		return nil, errors.Wrap(err, "erro durante iteração de users")
	}

	return users, nil
}
