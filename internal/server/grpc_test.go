package server

import (
	"context"
	"testing"

	"google.golang.org/grpc/health/grpc_health_v1"

	"ticketvault/backend/internal/auth/service"
)

type nopAuthenticator struct{}

func (nopAuthenticator) Authenticate(ctx context.Context, accessToken string) (*service.Principal, error) {
	return nil, service.ErrInvalidAccessToken
}

func TestNew_RegistersHealthService(t *testing.T) {
	s, healthSrv := New(Deps{Authn: nopAuthenticator{}})
	defer s.Stop()

	if healthSrv == nil {
		t.Fatal("health server should not be nil")
	}
	if _, ok := s.GetServiceInfo()["grpc.health.v1.Health"]; !ok {
		t.Error("health service not registered")
	}

	// Starts NOT_SERVING; main flips it once dependencies are up.
	resp, err := healthSrv.Check(context.Background(), &grpc_health_v1.HealthCheckRequest{})
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if resp.Status != grpc_health_v1.HealthCheckResponse_NOT_SERVING {
		t.Errorf("status = %v, want NOT_SERVING", resp.Status)
	}
}

func TestPublicMethods_CoverTokenEndpoints(t *testing.T) {
	for _, m := range []string{
		"/ticketvault.auth.v1.AuthService/Register",
		"/ticketvault.auth.v1.AuthService/Login",
		"/ticketvault.auth.v1.AuthService/RefreshToken",
	} {
		if !PublicMethods[m] {
			t.Errorf("%s must be reachable without a bearer token", m)
		}
	}
	if PublicMethods["/ticketvault.auth.v1.AuthService/Logout"] {
		t.Error("Logout must require authentication")
	}
}
