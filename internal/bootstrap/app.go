package bootstrap

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/gin-gonic/gin"

	googleauth "github.com/Andresa-Alves-Ribeiro/digitsign-sub001/internal/auth"
	"github.com/Andresa-Alves-Ribeiro/digitsign-sub001/internal/documents"
	sharedauth "github.com/Andresa-Alves-Ribeiro/digitsign-sub001/internal/shared/auth"
	"github.com/Andresa-Alves-Ribeiro/digitsign-sub001/internal/shared/config"
	"github.com/Andresa-Alves-Ribeiro/digitsign-sub001/internal/shared/server"
	"github.com/Andresa-Alves-Ribeiro/digitsign-sub001/internal/shared/storage/db"
	"github.com/Andresa-Alves-Ribeiro/digitsign-sub001/internal/shared/storage/object"
	localstore "github.com/Andresa-Alves-Ribeiro/digitsign-sub001/internal/shared/storage/object/local"
	s3store "github.com/Andresa-Alves-Ribeiro/digitsign-sub001/internal/shared/storage/object/s3"
	"github.com/Andresa-Alves-Ribeiro/digitsign-sub001/internal/shared/telemetry"
	"github.com/Andresa-Alves-Ribeiro/digitsign-sub001/internal/signatures"
	"github.com/Andresa-Alves-Ribeiro/digitsign-sub001/internal/users"
)

// App bundles the wired HTTP engine with the resources it owns.
type App struct {
	Engine *gin.Engine
	DB     *sql.DB
}

// Close releases resources held by the app.
func (a *App) Close() {
	if a.DB != nil {
		_ = a.DB.Close()
	}
}

// Build wires configuration into repositories, services, handlers and the
// router. Outside production a missing or unreachable database falls back to
// in-memory repositories so the API stays usable for local development.
func Build(ctx context.Context, cfg config.Config) (*App, error) {
	sqlDB, err := openDatabase(ctx, cfg)
	if err != nil {
		return nil, err
	}

	store, err := buildStore(ctx, cfg)
	if err != nil {
		if sqlDB != nil {
			_ = sqlDB.Close()
		}
		return nil, err
	}

	tokens := sharedauth.NewManager(cfg.AuthSecret, cfg.TokenTTL)

	var (
		userRepo users.Repo
		docRepo  documents.Repo
		sigRepo  signatures.Repo
		sigLook  documents.SignatureLookup
	)
	if sqlDB != nil {
		userRepo = &users.PGRepo{DB: sqlDB}
		docRepo = &documents.PGRepo{DB: sqlDB}
		pgSigs := &signatures.PGRepo{DB: sqlDB}
		sigRepo = pgSigs
		sigLook = &pgSignatureLookup{repo: pgSigs}
	} else {
		userRepo = users.NewMemoryRepo()
		docRepo = documents.NewMemoryRepo()
		memSigs := signatures.NewMemoryRepo()
		sigRepo = memSigs
		sigLook = &memorySignatureLookup{repo: memSigs}
	}

	userSvc := users.NewService(userRepo)
	docSvc := &documents.Service{Store: store, Repo: docRepo, Signatures: sigLook}
	sigSvc := &signatures.Service{DB: sqlDB, Docs: docRepo, Repo: sigRepo}

	var googleSvc *googleauth.GoogleService
	if cfg.GoogleClientID != "" && cfg.GoogleClientSecret != "" {
		googleSvc = googleauth.NewGoogleService(
			cfg.GoogleClientID,
			cfg.GoogleClientSecret,
			cfg.GoogleRedirectURL,
			cfg.UIRedirectURL,
			userSvc,
			tokens,
		)
	}

	engine := server.NewRouter(server.RouterDeps{
		CORSAllowOrigin: cfg.CORSAllowOrigin,
		Tokens:          tokens,
		Users:           users.NewHandler(userSvc, tokens),
		Documents:       documents.NewHandler(docSvc, cfg.MaxUploadBytes()),
		Signatures:      signatures.NewHandler(sigSvc),
		GoogleAuth:      googleSvc,
	})

	return &App{Engine: engine, DB: sqlDB}, nil
}

func openDatabase(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if cfg.DatabaseURL == "" {
		if cfg.Env == "production" {
			return nil, fmt.Errorf("DATABASE_URL is required in production")
		}
		telemetry.Warn("bootstrap.memory_mode", map[string]any{"reason": "DATABASE_URL not set"})
		return nil, nil
	}

	opts := db.OptionsFromEnv(db.DefaultServerOptions())
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, opts)
	if err != nil {
		if cfg.Env == "production" {
			return nil, fmt.Errorf("connect database: %w", err)
		}
		telemetry.Warn("bootstrap.memory_mode", map[string]any{"reason": err.Error()})
		return nil, nil
	}

	if err := db.RunMigrations(ctx, sqlDB); err != nil {
		_ = sqlDB.Close()
		if cfg.Env == "production" {
			return nil, fmt.Errorf("run migrations: %w", err)
		}
		telemetry.Warn("bootstrap.memory_mode", map[string]any{"reason": err.Error()})
		return nil, nil
	}

	return sqlDB, nil
}

func buildStore(ctx context.Context, cfg config.Config) (object.ObjectStore, error) {
	if cfg.ObjectStoreType == "s3" {
		store, err := s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix, cfg.SSEKMSKeyID)
		if err != nil {
			return nil, fmt.Errorf("build s3 store: %w", err)
		}
		return store, nil
	}
	return localstore.New(cfg.LocalStoreDir), nil
}

// pgSignatureLookup exposes the signatures table to the documents service.
// Row deletion rides on the ON DELETE CASCADE foreign key.
type pgSignatureLookup struct {
	repo *signatures.PGRepo
}

func (a *pgSignatureLookup) ForDocuments(ctx context.Context, documentIDs []string) (map[string]documents.SignatureInfo, error) {
	sigs, err := a.repo.ForDocuments(ctx, documentIDs)
	if err != nil {
		return nil, err
	}
	return toSignatureInfo(sigs), nil
}

// memorySignatureLookup mirrors pgSignatureLookup for memory mode and also
// removes signature rows when their document goes away.
type memorySignatureLookup struct {
	repo *signatures.MemoryRepo
}

func (a *memorySignatureLookup) ForDocuments(ctx context.Context, documentIDs []string) (map[string]documents.SignatureInfo, error) {
	sigs, err := a.repo.ForDocuments(ctx, documentIDs)
	if err != nil {
		return nil, err
	}
	return toSignatureInfo(sigs), nil
}

func (a *memorySignatureLookup) DeleteForDocument(ctx context.Context, documentID string) error {
	return a.repo.DeleteByDocumentID(ctx, documentID)
}

func toSignatureInfo(sigs map[string]signatures.Signature) map[string]documents.SignatureInfo {
	out := make(map[string]documents.SignatureInfo, len(sigs))
	for docID, sig := range sigs {
		out[docID] = documents.SignatureInfo{
			ID:            sig.ID,
			UserID:        sig.UserID,
			SignatureData: sig.SignatureData,
			SignedAt:      sig.SignedAt,
		}
	}
	return out
}
