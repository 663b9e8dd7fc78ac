package main

import (
	"strings"
	"testing"

	"short-link/internal/config"
)

func TestRunReturnsStartupErrors(t *testing.T) {
	cfg := &config.Config{
		AppName:     "short-link-test",
		DatabaseURL: "postgres://user@127.0.0.1:1/shortlink?sslmode=disable&connect_timeout=1",
	}

	err := run(cfg)
	if err == nil {
		t.Fatal("expected an error for an unreachable database")
	}
	if !strings.Contains(err.Error(), "failed to connect to database") {
		t.Errorf("got %v", err)
	}
}
