package integration

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
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
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	handler "github.com/nomeacao/api/internal/adapters/handler/http"
	repo "github.com/nomeacao/api/internal/adapters/repository/postgres"
	"github.com/nomeacao/api/internal/core/services"
)

const jwtSecret = "test-secret"

type TestApp struct {
	DB          *sql.DB
	Server      *httptest.Server
	Client      *http.Client
	DBContainer testcontainers.Container
}

func setupPostgresContainer(ctx context.Context) (testcontainers.Container, string, error) {
	pgContainer, err := postgres.Run(ctx, "postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("user"),
		postgres.WithPassword("password"),
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
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), "up.sql") {
			continue
		}
		content, err := os.ReadFile(filepath.Join(dirPath, entry.Name()))
		if err != nil {
			return fmt.Errorf("failed to read migration file %s: %w", entry.Name(), err)
		}
		if _, err := db.Exec(string(content)); err != nil {
			return fmt.Errorf("failed to execute migration %s: %w", entry.Name(), err)
		}
	}
	return nil
}

func setupTestApp(t *testing.T) *TestApp {
	ctx := context.Background()
	dbContainer, dbURL, err := setupPostgresContainer(ctx)
	require.NoError(t, err)

	db, err := sql.Open("postgres", dbURL)
	require.NoError(t, err)

	err = applyMigrations(db)
	require.NoError(t, err)

	memberRepo := repo.NewMemberRepository(db)
	configRepo := repo.NewConfigRepository(db)
	electionRepo := repo.NewElectionRepository(db)
	candidateRepo := repo.NewCandidateRepository(db)
	actionRepo := repo.NewActionRepository(db)

	configSvc := services.NewConfigService(configRepo, memberRepo)
	electionSvc := services.NewElectionService(configRepo, electionRepo, candidateRepo, actionRepo, memberRepo)

	guard := handler.NewRoleGuard(memberRepo)
	configHandler := handler.NewConfigHandler(configSvc, guard)
	electionHandler := handler.NewElectionHandler(electionSvc, guard)
	memberHandler := handler.NewMemberHandler(memberRepo, guard)
	auth := handler.NewAuthMiddleware([]byte(jwtSecret))
	router := handler.NewHandler(configHandler, electionHandler, memberHandler, auth, []string{"*"})

	server := httptest.NewServer(router)

	return &TestApp{
		DB:          db,
		Server:      server,
		Client:      server.Client(),
		DBContainer: dbContainer,
	}
}

func (app *TestApp) Teardown(t *testing.T) {
	app.Server.Close()
	app.DB.Close()
	if err := app.DBContainer.Terminate(context.Background()); err != nil {
		t.Logf("failed to terminate container: %v", err)
	}
}

// createMember inserts an approved member with attributes that pass the usual
// eligibility rules.
func (app *TestApp) createMember(t *testing.T, churchID uuid.UUID, name string, role string) uuid.UUID {
	t.Helper()

	id := uuid.New()
	email := fmt.Sprintf("member-%s@example.com", id)
	_, err := app.DB.Exec(`INSERT INTO members
		(id, name, email, church_id, church_name, role, approved, birth_date, baptism_date,
		 recurring_tithe, recurring_offering, attendance, engagement, classification, created_at)
		VALUES ($1, $2, $3, $4, 'Central', $5, TRUE, '1985-04-12', '2005-06-01',
		 TRUE, TRUE, 90, 'high', 'frequent', NOW() - INTERVAL '3 years')`,
		id, name, email, churchID, role)
	require.NoError(t, err)
	return id
}

func tokenFor(t *testing.T, memberID uuid.UUID) string {
	t.Helper()

	claims := jwt.MapClaims{
		"sub": memberID.String(),
		"exp": time.Now().Add(15 * time.Minute).Unix(),
		"iat": time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(jwtSecret))
	require.NoError(t, err)
	return signed
}

// request sends an authenticated JSON request and returns the response.
func (app *TestApp) request(t *testing.T, method, path, token string, payload any) *http.Response {
	t.Helper()

	var body *bytes.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(raw)
	} else {
		body = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, app.Server.URL+path, body)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.AddCookie(&http.Cookie{Name: "access_token", Value: token})
	}

	resp, err := app.Client.Do(req)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, out any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}
