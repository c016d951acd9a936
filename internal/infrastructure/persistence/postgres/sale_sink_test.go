package postgres

import (
	"context"
	"testing"

	"github.com/kobina/pos-cart-service/internal/infrastructure/persistence/redis"
)

// The in-process filter stands in for the shared Redis one; the sink relies
// on its contract either way.
var _ SubmissionFilter = (*redis.LocalSubmissionFilter)(nil)

func TestSubmissionFilterPreCheck(t *testing.T) {
	ctx := context.Background()
	filter := redis.NewLocalSubmissionFilter(100)

	// An unseen id answers negative, the definitive skip of the sales lookup.
	mayContain, err := filter.MayContain(ctx, "sale-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if mayContain {
		t.Error("unseen id must answer negative")
	}

	if err := filter.Add(ctx, "sale-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	mayContain, err = filter.MayContain(ctx, "sale-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !mayContain {
		t.Error("added id must answer positive")
	}
}

func TestExtractPhone(t *testing.T) {
	note := func(s string) *string { return &s }

	tests := []struct {
		name     string
		notes    *string
		expected string
	}{
		{"nil notes", nil, ""},
		{"no phone", note("weekly customer"), ""},
		{"phone only", note("Phone: 0244123456"), "0244123456"},
		{"phone after notes", note("weekly customer | Phone: 024-555 1234"), "024-555 1234"},
		{"international format", note("Phone: +233 24 412 3456"), "+233 24 412 3456"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := extractPhone(tt.notes); got != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, got)
			}
		})
	}
}
