package firestoredb

import (
	"context"

	"cloud.google.com/go/firestore"
	"github.com/vfg2006/minimart-api/internal/config"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
)

// NewClient cria o cliente do Firestore. Sem arquivo de credenciais, usa as credenciais padrão
// do ambiente (ou o emulador, quando FIRESTORE_EMULATOR_HOST está definido).
func NewClient(ctx context.Context, cfg config.Firestore) (*firestore.Client, error) {
	var opts []option.ClientOption
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}

	return firestore.NewClient(ctx, cfg.ProjectID, opts...)
}

// Ping lista no máximo uma coleção para confirmar acesso ao projeto
func Ping(ctx context.Context, client *firestore.Client) error {
	iter := client.Collections(ctx)
	_, err := iter.Next()
	if err == iterator.Done {
		return nil
	}
	return err
}
