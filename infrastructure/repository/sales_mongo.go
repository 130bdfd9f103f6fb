package repository

import (
	"context"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/minimart-api/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type salesMongoRepository struct {
	collection *mongo.Collection
}

func NewSalesMongoRepository(db *mongo.Database) SalesRepository {
	return &salesMongoRepository{
		collection: db.Collection(salesCollection),
	}
}

func (r *salesMongoRepository) Initialize(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "date", Value: -1}}},
		{Keys: bson.D{{Key: "status", Value: 1}}},
	})
	if err != nil {
		return errors.Wrap(err, "erro ao criar índices de daily_sales")
	}

	return nil
}

func (r *salesMongoRepository) find(ctx context.Context, filter bson.M) ([]domain.DailySalesEntry, error) {
	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, errors.Wrap(err, "erro ao consultar daily_sales")
	}
	defer cursor.Close(ctx)

	entries := []domain.DailySalesEntry{}
	for cursor.Next(ctx) {
		var doc salesDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, errors.Wrap(err, "erro ao decodificar lançamento")
		}
		entries = append(entries, doc.toEntry(doc.ObjectID.Hex()))
	}

	if err := cursor.Err(); err != nil {
		return nil, errors.Wrap(err, "erro durante iteração de daily_sales")
	}

	return entries, nil
}

func (r *salesMongoRepository) ListAll(ctx context.Context) ([]domain.DailySalesEntry, error) {
	return r.find(ctx, bson.M{})
}

func (r *salesMongoRepository) ListByDateRange(ctx context.Context, from, to string) ([]domain.DailySalesEntry, error) {
	start, end, err := dateBounds(from, to)
	if err != nil {
		return nil, err
	}

	dateFilter := bson.M{}
	if start != nil {
		dateFilter["$gte"] = *start
	}
	if end != nil {
		dateFilter["$lte"] = *end
	}

	filter := bson.M{}
	if len(dateFilter) > 0 {
		filter["date"] = dateFilter
	}

	return r.find(ctx, filter)
}

func (r *salesMongoRepository) ListByStatus(ctx context.Context, status domain.SalesStatus) ([]domain.DailySalesEntry, error) {
	return r.find(ctx, bson.M{"status": string(status)})
}

func (r *salesMongoRepository) GetByID(ctx context.Context, id string) (*domain.DailySalesEntry, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}

	var doc salesDocument
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrapf(err, "erro ao buscar lançamento %s", id)
	}

	entry := doc.toEntry(id)
	return &entry, nil
}

func (r *salesMongoRepository) Count(ctx context.Context) (int, error) {
	total, err := r.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, errors.Wrap(err, "erro ao contar lançamentos")
	}

	return int(total), nil
}

func (r *salesMongoRepository) Add(ctx context.Context, entry domain.DailySalesEntry) (*domain.DailySalesEntry, error) {
	entry, err := prepareNewEntry(entry)
	if err != nil {
		return nil, err
	}

	doc, err := toSalesDocument(entry)
	if err != nil {
		return nil, err
	}

	result, err := r.collection.InsertOne(ctx, doc)
	if err != nil {
		return nil, errors.Wrap(err, "erro ao inserir lançamento")
	}

	objectID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return nil, errors.Errorf("ID inesperado retornado pelo MongoDB: %v", result.InsertedID)
	}

	logrus.WithField("id", objectID.Hex()).Info("Lançamento criado")

	return r.GetByID(ctx, objectID.Hex())
}

func (r *salesMongoRepository) Update(ctx context.Context, id string, patch domain.DailySalesPatch) (*domain.DailySalesEntry, error) {
	stored, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	merged, err := mergeEntry(*stored, patch)
	if err != nil {
		return nil, err
	}

	doc, err := toSalesDocument(merged)
	if err != nil {
		return nil, err
	}

	objectID, _ := primitive.ObjectIDFromHex(id)
	result, err := r.collection.ReplaceOne(ctx, bson.M{"_id": objectID}, doc)
	if err != nil {
		return nil, errors.Wrapf(err, "erro ao atualizar lançamento %s", id)
	}

	if result.MatchedCount == 0 {
		return nil, ErrNotFound
	}

	logrus.WithField("id", id).Info("Lançamento atualizado")

	return r.GetByID(ctx, id)
}

func (r *salesMongoRepository) Delete(ctx context.Context, id string) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return errors.Wrapf(err, "erro ao remover lançamento %s", id)
	}

	if result.DeletedCount == 0 {
		return ErrNotFound
	}

	logrus.WithField("id", id).Info("Lançamento removido")
	return nil
}
