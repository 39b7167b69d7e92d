package xid

import (
	"strings"
	"testing"
)

func TestNewIsUniqueWithinSameTick(t *testing.T) {
	seen := make(map[string]struct{}, 1000)
	for i := 0; i < 1000; i++ {
		id := New("prod")
		if !strings.HasPrefix(id, "prod-") {
			t.Fatalf("expected prod- prefix, got %s", id)
		}
		if _, dup := seen[id]; dup {
			t.Fatalf("duplicate id generated: %s", id)
		}
		seen[id] = struct{}{}
	}
}
