package cinephile

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

func TestNew_NoAddress_Error(t *testing.T) {
	_, err := New(context.Background())
	if err == nil {
		t.Fatal("expected error without a database address")
	}
	if !strings.Contains(err.Error(), "database address required") {
		t.Errorf("error: got %v", err)
	}
}

func TestObserver_NilSafe(t *testing.T) {
	var o *observer
	// Must not panic on a nil observer.
	o.observe("ping", time.Now(), nil)
	o.observe("ping", time.Now(), errors.New("down"))
}

func TestObserver_Metrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	obs, err := newObserver(nil, reg)
	if err != nil {
		t.Fatalf("newObserver: %v", err)
	}

	obs.observe("recommend", time.Now(), nil)
	obs.observe("recommend", time.Now(), errors.New("down"))

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}

	found := false
	for _, f := range families {
		if f.GetName() == "cinephile_sdk_operations_total" {
			found = true
			if len(f.GetMetric()) != 2 {
				t.Errorf("label combinations: got %d, want 2 (ok and error)", len(f.GetMetric()))
			}
		}
	}
	if !found {
		t.Error("cinephile_sdk_operations_total not registered")
	}
}

func TestObserver_RegisterTwice_Reuses(t *testing.T) {
	reg := prometheus.NewRegistry()
	if _, err := newObserver(nil, reg); err != nil {
		t.Fatalf("first newObserver: %v", err)
	}
	if _, err := newObserver(nil, reg); err != nil {
		t.Fatalf("second newObserver: %v", err)
	}
}
