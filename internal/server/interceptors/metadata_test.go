package interceptors

import (
	"context"
	"testing"

	"google.golang.org/grpc/metadata"
)

func TestClientIP_ForwardedFor(t *testing.T) {
	ctx := metadata.NewIncomingContext(context.Background(), metadata.New(map[string]string{
		"x-forwarded-for": "203.0.113.7, 10.0.0.1",
	}))
	if ip := ClientIP(ctx); ip != "203.0.113.7" {
		t.Errorf("ip = %q, want first forwarded-for hop", ip)
	}
}

func TestClientIP_RealIP(t *testing.T) {
	ctx := metadata.NewIncomingContext(context.Background(), metadata.New(map[string]string{
		"x-real-ip": "198.51.100.3",
	}))
	if ip := ClientIP(ctx); ip != "198.51.100.3" {
		t.Errorf("ip = %q", ip)
	}
}

func TestClientIP_NoMetadataNoPeer(t *testing.T) {
	if ip := ClientIP(context.Background()); ip != "unknown" {
		t.Errorf("ip = %q, want unknown", ip)
	}
}

func TestDeviceInfo(t *testing.T) {
	ctx := metadata.NewIncomingContext(context.Background(), metadata.New(map[string]string{
		"user-agent": "grpc-go/1.78.0",
	}))
	if got := DeviceInfo(ctx); got != "grpc-go/1.78.0" {
		t.Errorf("device info = %q", got)
	}
	if got := DeviceInfo(context.Background()); got != "" {
		t.Errorf("device info without metadata = %q, want empty", got)
	}
}
