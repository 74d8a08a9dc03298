// server runs the gRPC auth server: config, telemetry, database, and the
// interceptor-wired server with graceful shutdown.
package main

import (
	"context"
	"log"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"google.golang.org/grpc/health/grpc_health_v1"

	auditlogger "ticketvault/backend/internal/audit"
	auditrepo "ticketvault/backend/internal/audit/repository"
	"ticketvault/backend/internal/auth/service"
	"ticketvault/backend/internal/config"
	"ticketvault/backend/internal/db"
	"ticketvault/backend/internal/security"
	"ticketvault/backend/internal/server"
	"ticketvault/backend/internal/server/interceptors"
	sessionrepo "ticketvault/backend/internal/session/repository"
	"ticketvault/backend/internal/telemetry/otel"
	userrepo "ticketvault/backend/internal/user/repository"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx := context.Background()
	providers, err := otel.NewProviders(ctx, cfg.OTLPEndpoint, "ticketvault-auth", cfg.OTLPInsecure)
	if err != nil {
		log.Fatalf("telemetry: %v", err)
	}
	providers.SetGlobal()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = providers.Shutdown(shutdownCtx)
	}()

	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is not set; create a .env from .env.example or set DATABASE_URL")
	}
	conn, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer conn.Close()

	users := userrepo.NewPostgresRepository(conn)
	sessions := sessionrepo.NewPostgresRepository(conn)
	auditLog := auditlogger.NewLogger(auditrepo.NewPostgresRepository(conn), interceptors.ClientIP)

	tokens := security.NewTokenProvider(
		[]byte(cfg.JWTAccessSecret),
		[]byte(cfg.JWTRefreshSecret),
		cfg.JWTIssuer,
		cfg.AccessTTL(),
		cfg.RefreshTTL(),
	)
	authSvc := service.NewAuthService(users, sessions, security.NewHasher(cfg.BcryptCost), tokens, auditLog)

	s, healthSrv := server.New(server.Deps{
		Authn: authSvc,
		Audit: auditLog,
	})

	lis, err := net.Listen("tcp", cfg.GRPCAddr)
	if err != nil {
		log.Fatalf("listen: %v", err)
	}
	defer lis.Close()

	healthSrv.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)

	go func() {
		log.Printf("gRPC server listening on %s", cfg.GRPCAddr)
		if err := s.Serve(lis); err != nil {
			log.Fatalf("serve: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("shutting down gRPC server...")
	healthSrv.SetServingStatus("", grpc_health_v1.HealthCheckResponse_NOT_SERVING)
	s.GracefulStop()
	log.Println("gRPC server stopped")
}
