package bloom

import (
	"fmt"
	"testing"
)

func TestFilter_AddedItemsAreFound(t *testing.T) {
	f := NewFilterWithExpectedItems(1000, 0.01)

	ids := []string{"sale-a", "sale-b", "sale-c"}
	for _, id := range ids {
		f.Add(id)
	}

	for _, id := range ids {
		if !f.Contains(id) {
			t.Errorf("expected %q present, bloom filters never false-negative", id)
		}
	}
}

func TestFilter_FalsePositiveRateStaysReasonable(t *testing.T) {
	f := NewFilterWithExpectedItems(1000, 0.01)

	for i := 0; i < 1000; i++ {
		f.Add(fmt.Sprintf("present-%d", i))
	}

	falsePositives := 0
	probes := 10000
	for i := 0; i < probes; i++ {
		if f.Contains(fmt.Sprintf("absent-%d", i)) {
			falsePositives++
		}
	}

	// Sized for 1%; allow generous slack against hash quirks.
	if rate := float64(falsePositives) / float64(probes); rate > 0.05 {
		t.Errorf("false positive rate %.4f above tolerance", rate)
	}
}

func TestFilter_Clear(t *testing.T) {
	f := NewFilterWithExpectedItems(100, 0.01)
	f.Add("sale-a")
	f.Clear()

	if f.Contains("sale-a") {
		t.Error("expected cleared filter to forget items")
	}
}
