package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	stdhttp "net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	handler "github.com/nomeacao/api/internal/adapters/handler/http"
	repo "github.com/nomeacao/api/internal/adapters/repository/postgres"
	"github.com/nomeacao/api/internal/core/services"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, relying on environment")
	}

	db, err := sql.Open("postgres", dbConnString())
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		log.Fatalf("failed to reach database: %v", err)
	}

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		log.Println("Warning: JWT_SECRET not set")
	}

	configRepo := repo.NewConfigRepository(db)
	electionRepo := repo.NewElectionRepository(db)
	candidateRepo := repo.NewCandidateRepository(db)
	actionRepo := repo.NewActionRepository(db)
	memberRepo := repo.NewMemberRepository(db)

	configSvc := services.NewConfigService(configRepo, memberRepo)
	electionSvc := services.NewElectionService(configRepo, electionRepo, candidateRepo, actionRepo, memberRepo)

	auth := handler.NewAuthMiddleware([]byte(secret))
	guard := handler.NewRoleGuard(memberRepo)
	configHandler := handler.NewConfigHandler(configSvc, guard)
	electionHandler := handler.NewElectionHandler(electionSvc, guard)
	memberHandler := handler.NewMemberHandler(memberRepo, guard)

	allowedOrigins := strings.Split(os.Getenv("CORS_ALLOWED_ORIGINS"), ",")
	router := handler.NewHandler(configHandler, electionHandler, memberHandler, auth, allowedOrigins)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	server := &stdhttp.Server{Addr: "0.0.0.0:" + port, Handler: router}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Printf("listening on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, stdhttp.ErrServerClosed) {
			log.Fatal(err)
		}
	}()

	<-ctx.Done()
	fmt.Println("Gracefully shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal(err)
	}
}

func dbConnString() string {
	dbName, user, password, host, port := dbConfig()
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", user, password, host, port, dbName)
}

func dbConfig() (dbName string, user string, password string, host string, port string) {
	dbName = os.Getenv("POSTGRES_DB")
	user = os.Getenv("POSTGRES_USER")
	password = os.Getenv("POSTGRES_PASSWORD")
	host = os.Getenv("POSTGRES_HOST")
	port = os.Getenv("POSTGRES_PORT")
	return
}
