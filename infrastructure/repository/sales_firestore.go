package repository

import (
	"context"
	"strings"

	"cloud.google.com/go/firestore"
	"cloud.google.com/go/firestore/apiv1/firestorepb"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/minimart-api/internal/domain"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const countAlias = "total"

type salesFirestoreRepository struct {
	client *firestore.Client
}

func NewSalesFirestoreRepository(client *firestore.Client) SalesRepository {
	return &salesFirestoreRepository{
		client: client,
	}
}

func (r *salesFirestoreRepository) collection() *firestore.CollectionRef {
	return r.client.Collection(salesCollection)
}

// doc retorna nil para IDs que não podem referenciar um documento da coleção
func (r *salesFirestoreRepository) doc(id string) *firestore.DocumentRef {
	if id == "" || strings.Contains(id, "/") {
		return nil
	}
	return r.collection().Doc(id)
}

// Initialize não cria estruturas: coleções do Firestore existem a partir do primeiro documento.
// Os índices compostos não são necessários para as consultas de campo único usadas aqui.
func (r *salesFirestoreRepository) Initialize(ctx context.Context) error {
	return nil
}

func (r *salesFirestoreRepository) query(ctx context.Context, q firestore.Query) ([]domain.DailySalesEntry, error) {
	iter := q.Documents(ctx)
	defer iter.Stop()

	entries := []domain.DailySalesEntry{}
	for {
		snapshot, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, "erro ao consultar daily_sales")
		}

		var doc salesDocument
		if err := snapshot.DataTo(&doc); err != nil {
			return nil, errors.Wrapf(err, "erro ao decodificar lançamento %s", snapshot.Ref.ID)
		}
		entries = append(entries, doc.toEntry(snapshot.Ref.ID))
	}

	return entries, nil
}

func (r *salesFirestoreRepository) ListAll(ctx context.Context) ([]domain.DailySalesEntry, error) {
	return r.query(ctx, r.collection().Query)
}

func (r *salesFirestoreRepository) ListByDateRange(ctx context.Context, from, to string) ([]domain.DailySalesEntry, error) {
	start, end, err := dateBounds(from, to)
	if err != nil {
		return nil, err
	}

	q := r.collection().Query
	if start != nil {
		q = q.Where("date", ">=", *start)
	}
	if end != nil {
		q = q.Where("date", "<=", *end)
	}

	return r.query(ctx, q)
}

func (r *salesFirestoreRepository) ListByStatus(ctx context.Context, status domain.SalesStatus) ([]domain.DailySalesEntry, error) {
	return r.query(ctx, r.collection().Where("status", "==", string(status)))
}

func (r *salesFirestoreRepository) GetByID(ctx context.Context, id string) (*domain.DailySalesEntry, error) {
	ref := r.doc(id)
	if ref == nil {
		return nil, ErrNotFound
	}

	snapshot, err := ref.Get(ctx)
	if isFirestoreNotFound(err) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrapf(err, "erro ao buscar lançamento %s", id)
	}

	var doc salesDocument
	if err := snapshot.DataTo(&doc); err != nil {
		return nil, errors.Wrapf(err, "erro ao decodificar lançamento %s", id)
	}

	entry := doc.toEntry(id)
	return &entry, nil
}

func (r *salesFirestoreRepository) Count(ctx context.Context) (int, error) {
	result, err := r.collection().NewAggregationQuery().WithCount(countAlias).Get(ctx)
	if err != nil {
		return 0, errors.Wrap(err, "erro ao contar lançamentos")
	}

	value, ok := result[countAlias].(*firestorepb.Value)
	if !ok {
		return 0, errors.Errorf("resultado inesperado da contagem: %v", result[countAlias])
	}

	return int(value.GetIntegerValue()), nil
}

func (r *salesFirestoreRepository) Add(ctx context.Context, entry domain.DailySalesEntry) (*domain.DailySalesEntry, error) {
	entry, err := prepareNewEntry(entry)
	if err != nil {
		return nil, err
	}

	doc, err := toSalesDocument(entry)
	if err != nil {
		return nil, err
	}

	ref := r.collection().NewDoc()
	if _, err := ref.Create(ctx, doc); err != nil {
		return nil, errors.Wrap(err, "erro ao inserir lançamento")
	}

	logrus.WithField("id", ref.ID).Info("Lançamento criado")

	return r.GetByID(ctx, ref.ID)
}

// Update lê, mescla e grava o documento dentro de uma transação
func (r *salesFirestoreRepository) Update(ctx context.Context, id string, patch domain.DailySalesPatch) (*domain.DailySalesEntry, error) {
	ref := r.doc(id)
	if ref == nil {
		return nil, ErrNotFound
	}

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snapshot, err := tx.Get(ref)
		if isFirestoreNotFound(err) {
			return ErrNotFound
		}
		if err != nil {
			return errors.Wrapf(err, "erro ao buscar lançamento %s", id)
		}

		var stored salesDocument
		if err := snapshot.DataTo(&stored); err != nil {
			return errors.Wrapf(err, "erro ao decodificar lançamento %s", id)
		}

		merged, err := mergeEntry(stored.toEntry(id), patch)
		if err != nil {
			return err
		}

		doc, err := toSalesDocument(merged)
		if err != nil {
			return err
		}

		return tx.Set(ref, doc)
	})
	if err != nil {
		return nil, err
	}

	logrus.WithField("id", id).Info("Lançamento atualizado")

	return r.GetByID(ctx, id)
}

func (r *salesFirestoreRepository) Delete(ctx context.Context, id string) error {
	ref := r.doc(id)
	if ref == nil {
		return ErrNotFound
	}

	_, err := ref.Delete(ctx, firestore.Exists)
	if isFirestoreNotFound(err) {
		return ErrNotFound
	}
	if err != nil {
		return errors.Wrapf(err, "erro ao remover lançamento %s", id)
	}

	logrus.WithField("id", id).Info("Lançamento removido")
	return nil
}

func isFirestoreNotFound(err error) bool {
	return err != nil && status.Code(err) == codes.NotFound
}
