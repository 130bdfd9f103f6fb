package repository

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/minimart-api/internal/domain"
	"github.com/vfg2006/minimart-api/pkg/utils"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	SalesFileName = "daily-sales.json"
	salesIDLength = 9
)

// salesJSONRepository mantém toda a coleção em memória e reescreve o arquivo inteiro a cada alteração.
// Leituras não acessam o disco depois da carga inicial.
type salesJSONRepository struct {
	mu      sync.Mutex
	path    string
	entries []domain.DailySalesEntry
	loaded  bool
}

func NewSalesJSONRepository(dataDir string) SalesRepository {
	return &salesJSONRepository{
		path: filepath.Join(dataDir, SalesFileName),
	}
}

func (r *salesJSONRepository) Initialize(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.loadLocked()
}

func (r *salesJSONRepository) loadLocked() error {
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

	entries := []domain.DailySalesEntry{}
	if len(data) > 0 {
		if err := json.Unmarshal(data, &entries); err != nil {
			return errors.Wrapf(err, "erro ao decodificar arquivo %s", r.path)
		}
	}

	r.entries = entries
	r.loaded = true

	logrus.WithFields(logrus.Fields{
		"path":  r.path,
		"total": len(entries),
	}).Info("Lançamentos carregados do arquivo JSON")

	return nil
}

// persistLocked grava a coleção completa em um arquivo temporário e o renomeia sobre o original
func (r *salesJSONRepository) persistLocked(entries []domain.DailySalesEntry) error {
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return errors.Wrap(err, "erro ao serializar lançamentos")
	}

	tmp := r.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return errors.Wrapf(err, "erro ao gravar arquivo %s", tmp)
	}

	if err := os.Rename(tmp, r.path); err != nil {
		return errors.Wrapf(err, "erro ao substituir arquivo %s", r.path)
	}

	r.entries = entries
	return nil
}

func (r *salesJSONRepository) filter(ctx context.Context, match func(domain.DailySalesEntry) bool) ([]domain.DailySalesEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.loadLocked(); err != nil {
		return nil, err
	}

	result := make([]domain.DailySalesEntry, 0, len(r.entries))
	for _, entry := range r.entries {
		if match(entry) {
			result = append(result, cloneEntry(entry))
		}
	}

	return result, nil
}

func (r *salesJSONRepository) ListAll(ctx context.Context) ([]domain.DailySalesEntry, error) {
	return r.filter(ctx, func(domain.DailySalesEntry) bool { return true })
}

func (r *salesJSONRepository) ListByDateRange(ctx context.Context, from, to string) ([]domain.DailySalesEntry, error) {
	return r.filter(ctx, func(entry domain.DailySalesEntry) bool {
		return inDateRange(entry.Date, from, to)
	})
}

func (r *salesJSONRepository) ListByStatus(ctx context.Context, status domain.SalesStatus) ([]domain.DailySalesEntry, error) {
	return r.filter(ctx, func(entry domain.DailySalesEntry) bool {
		return entry.Status == status
	})
}

func (r *salesJSONRepository) GetByID(ctx context.Context, id string) (*domain.DailySalesEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.loadLocked(); err != nil {
		return nil, err
	}

	idx := r.indexOf(id)
	if idx < 0 {
		return nil, ErrNotFound
	}

	entry := cloneEntry(r.entries[idx])
	return &entry, nil
}

func (r *salesJSONRepository) Count(ctx context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.loadLocked(); err != nil {
		return 0, err
	}

	return len(r.entries), nil
}

func (r *salesJSONRepository) Add(ctx context.Context, entry domain.DailySalesEntry) (*domain.DailySalesEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.loadLocked(); err != nil {
		return nil, err
	}

	entry, err := prepareNewEntry(entry)
	if err != nil {
		return nil, err
	}

	suffix, err := utils.GenerateID(salesIDLength)
	if err != nil {
		return nil, errors.Wrap(err, "erro ao gerar ID do lançamento")
	}
	entry.ID = fmt.Sprintf("sales-%d-%s", entry.SubmittedAt.UnixMilli(), suffix)

	entries := make([]domain.DailySalesEntry, len(r.entries), len(r.entries)+1)
	copy(entries, r.entries)
	entries = append(entries, entry)

	if err := r.persistLocked(entries); err != nil {
		return nil, err
	}

	logrus.WithField("id", entry.ID).Info("Lançamento criado")

	created := cloneEntry(entry)
	return &created, nil
}

func (r *salesJSONRepository) Update(ctx context.Context, id string, patch domain.DailySalesPatch) (*domain.DailySalesEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.loadLocked(); err != nil {
		return nil, err
	}

	idx := r.indexOf(id)
	if idx < 0 {
		return nil, ErrNotFound
	}

	merged, err := mergeEntry(r.entries[idx], patch)
	if err != nil {
		return nil, err
	}

	entries := make([]domain.DailySalesEntry, len(r.entries))
	copy(entries, r.entries)
	entries[idx] = merged

	if err := r.persistLocked(entries); err != nil {
		return nil, err
	}

	logrus.WithField("id", id).Info("Lançamento atualizado")

	updated := cloneEntry(r.entries[idx])
	return &updated, nil
}

func (r *salesJSONRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.loadLocked(); err != nil {
		return err
	}

	idx := r.indexOf(id)
	if idx < 0 {
		return ErrNotFound
	}

	entries := make([]domain.DailySalesEntry, 0, len(r.entries)-1)
	entries = append(entries, r.entries[:idx]...)
	entries = append(entries, r.entries[idx+1:]...)

	if err := r.persistLocked(entries); err != nil {
		return err
	}

	logrus.WithField("id", id).Info("Lançamento removido")
	return nil
}

func (r *salesJSONRepository) indexOf(id string) int {
	for i, entry := range r.entries {
		if entry.ID == id {
			return i
		}
	}
	return -1
}
