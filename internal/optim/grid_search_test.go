package optim

import (
	"context"
	"errors"
	"testing"

	"github.com/san-kum/anomaly/internal/config"
)

func baseConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.Pairs = 2
	cfg.SpawnMax = 3
	cfg.Engine.Backend = "serial"
	return cfg
}

func TestNewGridSearchMismatch(t *testing.T) {
	if _, err := NewGridSearch([]string{"dt"}, nil); err == nil {
		t.Error("expected error for mismatched ranges")
	}
}

func TestPoints(t *testing.T) {
	g, err := NewGridSearch([]string{"dt", "softening"}, [][]float64{{0.01, 0.02}, {0.1, 0.2, 0.3}})
	if err != nil {
		t.Fatal(err)
	}
	if g.Points() != 6 {
		t.Errorf("expected 6 points, got %d", g.Points())
	}
}

func TestSearchFindsSlowestStart(t *testing.T) {
	g, err := NewGridSearch([]string{"speed_scale", "dt"}, [][]float64{{1, 0.01}, {0.001}})
	if err != nil {
		t.Fatal(err)
	}

	params, best, err := g.Search(context.Background(), baseConfig(), 5, "kinetic_energy")
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if params["speed_scale"] != 0.01 {
		t.Errorf("expected the slower start to win, got %v", params)
	}
	if params["dt"] != 0.001 {
		t.Errorf("expected dt 0.001 in the result, got %v", params)
	}
	if best <= 0 {
		t.Errorf("expected positive kinetic energy, got %f", best)
	}
}

func TestSearchSkipsInvalidPoints(t *testing.T) {
	g, _ := NewGridSearch([]string{"dt"}, [][]float64{{-1, 0}})

	_, _, err := g.Search(context.Background(), baseConfig(), 5, "spread")
	if !errors.Is(err, ErrNoCandidate) {
		t.Errorf("expected ErrNoCandidate, got %v", err)
	}
}

func TestSearchCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	g, _ := NewGridSearch([]string{"dt"}, [][]float64{{0.01}})
	if _, _, err := g.Search(ctx, baseConfig(), 5, "spread"); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}
