package grpc

import (
	"context"
	"net"
	"testing"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// startServer serves on an ephemeral port and returns its address
func startServer(t *testing.T) (*Server, string) {
	t.Helper()

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to listen: %v", err)
	}

	s := NewServer(&Config{Addr: ":0"})
	go func() { _ = s.Serve(listener) }()
	return s, listener.Addr().String()
}

func dial(t *testing.T, addr string) healthpb.HealthClient {
	t.Helper()

	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		t.Fatalf("failed to dial: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return healthpb.NewHealthClient(conn)
}

// checkUntil polls the health service until it reports want or the deadline passes
func checkUntil(t *testing.T, client healthpb.HealthClient, want healthpb.HealthCheckResponse_ServingStatus) {
	t.Helper()

	deadline := time.Now().Add(3 * time.Second)
	var last healthpb.HealthCheckResponse_ServingStatus
	for time.Now().Before(deadline) {
		ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
		resp, err := client.Check(ctx, &healthpb.HealthCheckRequest{})
		cancel()
		if err == nil {
			last = resp.GetStatus()
			if last == want {
				return
			}
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatalf("expected status %v, last saw %v", want, last)
}

func TestServer_ReportsServing(t *testing.T) {
	s, addr := startServer(t)
	t.Cleanup(func() { _ = s.Shutdown(context.Background()) })

	checkUntil(t, dial(t, addr), healthpb.HealthCheckResponse_SERVING)
}

func TestServer_Shutdown(t *testing.T) {
	s, addr := startServer(t)
	client := dial(t, addr)
	checkUntil(t, client, healthpb.HealthCheckResponse_SERVING)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.Shutdown(ctx); err != nil {
		t.Fatalf("unexpected shutdown error: %v", err)
	}

	checkCtx, checkCancel := context.WithTimeout(context.Background(), time.Second)
	defer checkCancel()
	if _, err := client.Check(checkCtx, &healthpb.HealthCheckRequest{}); err == nil {
		t.Error("expected health check to fail after shutdown")
	}
}

func TestServer_StartPortInUse(t *testing.T) {
	taken, err := net.Listen("tcp", ":0")
	if err != nil {
		t.Fatalf("failed to listen: %v", err)
	}
	defer taken.Close()

	s := NewServer(&Config{Addr: taken.Addr().String()})
	if err := s.Start(); err == nil {
		t.Error("expected error when the port is already bound")
	}
}

func TestNewServer_Addr(t *testing.T) {
	s := NewServer(&Config{Addr: ":50051"})
	if s.Addr() != ":50051" {
		t.Errorf("expected ':50051', got %q", s.Addr())
	}
}
