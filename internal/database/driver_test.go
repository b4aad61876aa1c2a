package database_test

import (
	"context"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/dsimile/mcp-neo4j-server/internal/database"
)

func TestNewDriver_InvalidURI(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	driver, err := database.NewDriver(ctx, "invalid://uri:format", "neo4j", "password")
	if err == nil {
		t.Fatal("expected error for invalid URI scheme")
	}
	if driver != nil {
		t.Error("expected nil driver on error")
	}
	if !strings.Contains(err.Error(), "failed to create neo4j driver") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestNewDriver_UnreachableDatabase(t *testing.T) {
	// Reserve a port and close it again so the connection is refused.
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to reserve port: %v", err)
	}
	addr := l.Addr().String()
	l.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	driver, err := database.NewDriver(ctx, "bolt://"+addr, "neo4j", "password")
	if err == nil {
		if driver != nil {
			_ = driver.Close(ctx)
		}
		t.Fatal("expected connectivity verification to fail for unreachable database")
	}
	if driver != nil {
		t.Error("expected nil driver when verification fails")
	}
	if !strings.Contains(err.Error(), "failed to verify connectivity") {
		t.Errorf("unexpected error: %v", err)
	}
}
