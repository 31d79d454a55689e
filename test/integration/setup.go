package integration

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	_ "github.com/lib/pq"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	handler "github.com/sufragio/api/internal/adapters/handler/http"
	repo "github.com/sufragio/api/internal/adapters/repository/postgres"
	"github.com/sufragio/api/internal/core/domain"
	"github.com/sufragio/api/internal/core/ports"
	"github.com/sufragio/api/internal/core/services"
)

const testAdminRut = "12345678-5"

func setupPostgresContainer(ctx context.Context) (testcontainers.Container, string, error) {
	dbName := "testdb"
	user := "user"
	password := "password"

	pgContainer, err := tcpostgres.Run(ctx, "postgres:15-alpine",
		tcpostgres.WithDatabase(dbName),
		tcpostgres.WithUsername(user),
		tcpostgres.WithPassword(password),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(5*time.Second),
		),
	)
	if err != nil {
		return nil, "", fmt.Errorf("failed to start postgres container: %w", err)
	}

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		return nil, "", err
	}

	return pgContainer, connStr, nil
}

func applyMigrations(db *sql.DB) error {
	dirPath := "../../internal/adapters/repository/postgres/migrations"

	entries, err := os.ReadDir(dirPath)
	if err != nil {
		return fmt.Errorf("failed to read migrations directory: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		if !strings.HasSuffix(entry.Name(), "up.sql") {
			continue
		}

		fullPath := filepath.Join(dirPath, entry.Name())
		content, err := os.ReadFile(fullPath)
		if err != nil {
			return fmt.Errorf("failed to read migration file %s: %w", entry.Name(), err)
		}

		_, err = db.Exec(string(content))
		if err != nil {
			return fmt.Errorf("failed to execute migration %s: %w", entry.Name(), err)
		}
	}

	return nil
}

type TestApp struct {
	DB          *sql.DB
	Server      *httptest.Server
	Client      *http.Client
	RecountSvc  ports.RecountService
	DBContainer testcontainers.Container
}

func setupTestApp(t *testing.T) *TestApp {
	os.Setenv("JWT_SECRET", "test-secret")
	ctx := context.Background()
	dbContainer, dbURL, err := setupPostgresContainer(ctx)
	require.NoError(t, err)

	db, err := sql.Open("postgres", dbURL)
	require.NoError(t, err)

	err = applyMigrations(db)
	require.NoError(t, err)

	pollRepo := repo.NewPollRepository(db)
	voteRepo := repo.NewVoteRepository(db)
	adminRepo := repo.NewAdminRepository(db)
	authRepo := repo.NewAuthRepository(db)
	recountRepo := repo.NewRecountRepository(db)

	pollSvc := services.NewPollService(pollRepo)
	voteSvc := services.NewVoteService(pollRepo, voteRepo)
	resultsSvc := services.NewResultsService()
	authSvc := services.NewAuthService(adminRepo, authRepo)
	adminSvc := services.NewAdminService(adminRepo)
	recountSvc := services.NewRecountService(pollRepo, recountRepo)

	pollHandler := handler.NewPollHandler(pollSvc)
	voteHandler := handler.NewVoteHandler(voteSvc)
	resultsHandler := handler.NewResultsHandler(pollSvc, resultsSvc)
	authHandler := handler.NewAuthHandler(authSvc, "", http.SameSiteLaxMode)
	adminHandler := handler.NewAdminHandler(adminSvc)
	router := handler.NewHandler(pollHandler, voteHandler, resultsHandler, authHandler, adminHandler, []string{"*"})

	server := httptest.NewServer(router)

	return &TestApp{
		DB:          db,
		Server:      server,
		Client:      server.Client(),
		RecountSvc:  recountSvc,
		DBContainer: dbContainer,
	}
}

// createAdminAndToken seeds an administrator and returns a signed access
// token accepted by the auth middleware.
func (app *TestApp) createAdminAndToken(t *testing.T) string {
	t.Helper()

	adminID := uuid.New()
	salt := "test-salt"
	hash := services.HashPassword("secreto123", salt)
	_, err := app.DB.Exec(
		"INSERT INTO admins (id, rut, name, password_hash, salt) VALUES ($1, $2, $3, $4, $5)",
		adminID, domain.NormalizeRut(testAdminRut), "Test Admin", hash, salt,
	)
	require.NoError(t, err)

	claims := jwt.MapClaims{
		"sub": adminID.String(),
		"rut": domain.NormalizeRut(testAdminRut),
		"exp": time.Now().Add(15 * time.Minute).Unix(),
		"iat": time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return signedToken
}

func (app *TestApp) Teardown(t *testing.T) {
	app.Server.Close()
	app.DB.Close()
	if err := app.DBContainer.Terminate(context.Background()); err != nil {
		t.Logf("failed to terminate container: %v", err)
	}
}
