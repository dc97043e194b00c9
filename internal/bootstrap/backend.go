// Package bootstrap arma los adaptadores de infraestructura a partir de la configuración.
// Lo comparten la API y la CLI de importación.
package bootstrap

import (
	"context"
	"fmt"

	"github.com/jhoicas/Ventas-api/internal/application/importer"
	"github.com/jhoicas/Ventas-api/internal/application/report"
	"github.com/jhoicas/Ventas-api/internal/application/sales"
	dimporter "github.com/jhoicas/Ventas-api/internal/domain/importer"
	"github.com/jhoicas/Ventas-api/internal/domain/repository"
	"github.com/jhoicas/Ventas-api/internal/infrastructure/memory"
	"github.com/jhoicas/Ventas-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Ventas-api/internal/infrastructure/spreadsheet"
	"github.com/jhoicas/Ventas-api/internal/infrastructure/storage"
	"github.com/jhoicas/Ventas-api/pkg/config"
	"github.com/jhoicas/Ventas-api/pkg/logger"
)

// TxRunner transacciones de venta e importación.
type TxRunner interface {
	sales.SalesTxRunner
	importer.ImportTxRunner
}

// Backend repositorios y transacciones de un almacenamiento concreto.
type Backend struct {
	Clients    repository.ClientRepository
	Products   repository.ProductRepository
	Categories repository.CategoryRepository
	Sales      repository.SaleRepository
	Users      repository.UserRepository
	Tx         TxRunner

	close func()
}

// Close libera las conexiones del backend.
func (b *Backend) Close() {
	if b.close != nil {
		b.close()
	}
}

// Memory backend en memoria (pruebas, demo y --dry-run).
func Memory() *Backend {
	st := memory.NewStore()
	return &Backend{
		Clients:    st.Clients(),
		Products:   st.Products(),
		Categories: st.Categories(),
		Sales:      st.Sales(),
		Users:      st.Users(),
		Tx:         st,
	}
}

// Open conecta el backend indicado por APP_STORAGE. Con postgres aplica las migraciones
// si DB_AUTO_MIGRATE está activo.
func Open(ctx context.Context, cfg *config.Config, log *logger.Logger) (*Backend, error) {
	if cfg.App.Storage == "memory" {
		log.Warn().Msg("almacenamiento en memoria: los datos se pierden al reiniciar")
		return Memory(), nil
	}

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return nil, fmt.Errorf("conexión a PostgreSQL: %w", err)
	}
	if cfg.DB.AutoMigrate {
		if err := postgres.Migrate(ctx, pool); err != nil {
			pool.Close()
			return nil, fmt.Errorf("migraciones: %w", err)
		}
		log.Info().Msg("migraciones aplicadas")
	}
	return &Backend{
		Clients:    postgres.NewClientRepository(pool),
		Products:   postgres.NewProductRepository(pool),
		Categories: postgres.NewCategoryRepository(pool),
		Sales:      postgres.NewSaleRepository(pool),
		Users:      postgres.NewUserRepository(pool),
		Tx:         postgres.NewTxRunner(pool),
		close:      pool.Close,
	}, nil
}

// ReceiptStore S3 si hay bucket configurado; si no, el directorio local.
func ReceiptStore(ctx context.Context, cfg *config.Config, log *logger.Logger) (report.ReceiptStore, error) {
	if cfg.S3.Enabled() {
		log.Info().Str("bucket", cfg.S3.Bucket).Str("prefix", cfg.S3.Prefix).Msg("comprobantes en S3")
		return storage.NewS3Store(ctx, cfg.S3)
	}
	return storage.NewDirStore(cfg.Sales.ReceiptsDir)
}

// Importer servicio de importación con los alias extra de IMPORT_ALIASES_FILE.
func Importer(b *Backend, cfg *config.Config, log *logger.Logger) (*importer.Service, error) {
	aliases, err := spreadsheet.LoadAliases(cfg.Import.AliasesFile)
	if err != nil {
		return nil, err
	}
	return importer.NewService(
		b.Tx,
		spreadsheet.NewReaderFactory(),
		spreadsheet.NewTemplateWriter(),
		dimporter.NewClassifier(aliases),
		importer.Config{DefaultTaxRate: cfg.Sales.DefaultTaxRate},
		log,
	), nil
}
