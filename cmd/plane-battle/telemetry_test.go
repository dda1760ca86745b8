package main

import (
	"context"
	"testing"
)

func TestSetupTracing(t *testing.T) {
	tests := []struct {
		name     string
		endpoint string
	}{
		{"disabled without endpoint", ""},
		// Non-routable address so no export happens
		{"provider with endpoint", "http://192.0.2.1:4318"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			shutdown, err := setupTracing(context.Background(), tt.endpoint)
			if err != nil {
				t.Fatalf("Expected no error, got %v", err)
			}
			if err := shutdown(context.Background()); err != nil {
				t.Errorf("Expected clean shutdown, got %v", err)
			}
		})
	}
}
