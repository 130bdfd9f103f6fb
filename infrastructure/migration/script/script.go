package main

import (
	"context"
	"log"
	"time"

	"github.com/spf13/viper"
	"github.com/vfg2006/minimart-api/infrastructure/repository"
	"github.com/vfg2006/minimart-api/internal/config"
	"github.com/vfg2006/minimart-api/internal/domain"
	"github.com/vfg2006/minimart-api/pkg/utils"
)

// Copia usuários e lançamentos dos arquivos JSON (MIGRATION_SOURCE_DIR) para o backend configurado
// em STORAGE_BACKEND. Os UIDs dos usuários são mantidos; os lançamentos recebem IDs novos.

func setupLogger() {
	// Configura o logger para incluir data, hora e arquivo
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	log.Println("Iniciando script de migração...")
}

func migrateUsers(ctx context.Context, source, target repository.UserRepository) {
	users, err := source.List(ctx)
	if err != nil {
		log.Fatalf("ERRO ao ler usuários de origem: %v", err)
	}

	log.Printf("Iniciando inserção de %d usuários...", len(users))
	startTime := time.Now()

	successCount := 0
	skippedCount := 0
	errorCount := 0

	for i, user := range users {
		if _, err := target.GetByEmail(ctx, user.Email); err == nil {
			log.Printf("Usuário [%d/%d] %s já existe no destino, ignorando", i+1, len(users), user.Email)
			skippedCount++
			continue
		}

		if _, err := target.Create(ctx, user); err != nil {
			log.Printf("ERRO ao inserir usuário [%d/%d] %s: %v", i+1, len(users), user.Email, err)
			errorCount++
			continue
		}
		successCount++
	}

	elapsed := time.Since(startTime)
	log.Printf("Inserção de usuários concluída em %v. Sucesso: %d, Ignorados: %d, Erros: %d",
		elapsed, successCount, skippedCount, errorCount)
}

// reviewPatch reaplica status e auditoria, que o cadastro sempre inicia como submitted
func reviewPatch(entry domain.DailySalesEntry) (domain.DailySalesPatch, bool) {
	if entry.Status == domain.SalesStatusSubmitted || entry.Status == "" {
		return domain.DailySalesPatch{}, false
	}

	status := entry.Status
	patch := domain.DailySalesPatch{Status: &status, AuditedAt: entry.AuditedAt}
	if entry.AuditNotes != "" {
		patch.AuditNotes = &entry.AuditNotes
	}
	if entry.AuditedBy != "" {
		patch.AuditedBy = &entry.AuditedBy
	}
	return patch, true
}

func migrateSales(ctx context.Context, source, target repository.SalesRepository) map[string]string {
	entries, err := source.ListAll(ctx)
	if err != nil {
		log.Fatalf("ERRO ao ler lançamentos de origem: %v", err)
	}

	log.Printf("Iniciando inserção de %d lançamentos...", len(entries))
	startTime := time.Now()

	idMap := make(map[string]string)
	errorCount := 0

	for i, entry := range entries {
		oldID := entry.ID

		submitted := entry
		submitted.Status = domain.SalesStatusSubmitted
		submitted.AuditNotes = ""
		submitted.AuditedAt = nil
		submitted.AuditedBy = ""

		created, err := target.Add(ctx, submitted)
		if err != nil {
			log.Printf("ERRO ao inserir lançamento [%d/%d] %s: %v", i+1, len(entries), oldID, err)
			errorCount++
			continue
		}

		if patch, ok := reviewPatch(entry); ok {
			if _, err := target.Update(ctx, created.ID, patch); err != nil {
				log.Printf("ERRO ao restaurar status do lançamento %s (novo %s): %v", oldID, created.ID, err)
				errorCount++
			}
		}

		idMap[oldID] = created.ID
		if i > 0 && i%10 == 0 {
			log.Printf("Progresso: %d/%d lançamentos processados", i+1, len(entries))
		}
	}

	elapsed := time.Since(startTime)
	log.Printf("Inserção de lançamentos concluída em %v. Sucesso: %d, Erros: %d", elapsed, len(idMap), errorCount)

	return idMap
}

func main() {
	setupLogger()

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("ERRO ao carregar configuração: %v", err)
	}

	viper.SetDefault("MIGRATION_SOURCE_DIR", cfg.Storage.DataDir)
	sourceDir := viper.GetString("MIGRATION_SOURCE_DIR")

	if cfg.Storage.Backend == config.BackendJSON {
		log.Fatalf("STORAGE_BACKEND deve apontar para o destino (mongo, firestore ou postgres), não %q", cfg.Storage.Backend)
	}

	ctx := context.Background()

	target, err := repository.OpenStorage(ctx, cfg)
	if err != nil {
		log.Fatalf("ERRO ao abrir o destino: %v", err)
	}
	defer target.Close(ctx)

	if err := target.Initialize(ctx); err != nil {
		log.Fatalf("ERRO ao inicializar o destino: %v", err)
	}

	log.Printf("Origem: %s | Destino: %s", sourceDir, target.Backend)

	migrateUsers(ctx, repository.NewUserJSONRepository(sourceDir), target.Users)
	idMap := migrateSales(ctx, repository.NewSalesJSONRepository(sourceDir), target.Sales)

	log.Printf("Mapa de IDs (antigo → novo):\n%s", utils.PrettyJson(idMap))
	log.Println("Migração concluída")
}
