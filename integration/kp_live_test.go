
//go:build integration

package integration

import (
	"context"
	"testing"
	"time"

	"polymer-kinetics-api/internal/kinetics"
	"polymer-kinetics-api/internal/parser"
	"polymer-kinetics-api/internal/upstream"
	"polymer-kinetics-api/pkg/logger"
)

func TestStyreneKp(t *testing.T) {
	// live polymer database (subject to markup changes / downtime)
	client := upstream.NewClient(upstream.Options{Timeout: 25 * time.Second})
	svc := kinetics.NewService(client, parser.New(), logger.Discard())

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	names, err := svc.Monomers(ctx, "name")
	if err != nil {
		t.Skipf("skipping: upstream unreachable: %v", err)
		return
	}
	if len(names) == 0 {
		t.Fatal("expected a non-empty monomer list")
	}

	kp, err := svc.CalculateKp(ctx, "name", names[0], 60)
	if err != nil {
		t.Skipf("skipping: kp lookup failed: %v", err)
		return
	}
	if kp.Len() == 0 {
		t.Errorf("expected kp values for %s", names[0])
	}
	kp.Each(func(solution string, v float64) {
		if v <= 0 {
			t.Errorf("%s: non-positive kp %g", solution, v)
		}
	})
}
