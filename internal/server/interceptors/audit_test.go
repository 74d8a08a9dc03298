package interceptors

import (
	"context"
	"sync"
	"testing"

	"google.golang.org/grpc"

	"ticketvault/backend/internal/auth/service"
)

type fakeAuditLogger struct {
	mu     sync.Mutex
	events []string
}

func (f *fakeAuditLogger) LogEvent(ctx context.Context, userID, action, resource, metadata string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, action+":"+resource+":"+userID)
}

func TestAuditUnary_AuthenticatedRPC(t *testing.T) {
	logger := &fakeAuditLogger{}
	interceptor := AuditUnary(logger, map[string]bool{})

	ctx := WithPrincipal(context.Background(), &service.Principal{UserID: "user-1"})
	_, err := interceptor(ctx, "request", &grpc.UnaryServerInfo{
		FullMethod: "/ticketvault.session.v1.SessionService/ListSessions",
	}, okHandler)
	if err != nil {
		t.Fatalf("interceptor: %v", err)
	}
	if len(logger.events) != 1 || logger.events[0] != "list:session:user-1" {
		t.Errorf("events = %v", logger.events)
	}
}

func TestAuditUnary_Unauthenticated(t *testing.T) {
	logger := &fakeAuditLogger{}
	interceptor := AuditUnary(logger, map[string]bool{})

	_, err := interceptor(context.Background(), "request", &grpc.UnaryServerInfo{
		FullMethod: "/ticketvault.session.v1.SessionService/ListSessions",
	}, okHandler)
	if err != nil {
		t.Fatalf("interceptor: %v", err)
	}
	if len(logger.events) != 0 {
		t.Errorf("unauthenticated RPCs must not be audited, got %v", logger.events)
	}
}

func TestAuditUnary_SkipMethod(t *testing.T) {
	logger := &fakeAuditLogger{}
	interceptor := AuditUnary(logger, map[string]bool{
		"/grpc.health.v1.Health/Check": true,
	})

	ctx := WithPrincipal(context.Background(), &service.Principal{UserID: "user-1"})
	_, err := interceptor(ctx, "request", &grpc.UnaryServerInfo{
		FullMethod: "/grpc.health.v1.Health/Check",
	}, okHandler)
	if err != nil {
		t.Fatalf("interceptor: %v", err)
	}
	if len(logger.events) != 0 {
		t.Errorf("skipped method audited: %v", logger.events)
	}
}

func TestAuditUnary_NilLogger(t *testing.T) {
	interceptor := AuditUnary(nil, nil)
	ctx := WithPrincipal(context.Background(), &service.Principal{UserID: "user-1"})
	if _, err := interceptor(ctx, "request", &grpc.UnaryServerInfo{
		FullMethod: "/ticketvault.session.v1.SessionService/ListSessions",
	}, okHandler); err != nil {
		t.Fatalf("nil logger must no-op: %v", err)
	}
}
