package registry

import (
	"strings"
	"testing"
)

func TestRegistryRegisterAndGet(t *testing.T) {
	r := New[int]("tower")
	r.Register("archer", 1)
	r.Register("cannon", 2)

	v, err := r.Get("cannon")
	if err != nil {
		t.Fatalf("Get(cannon) failed: %v", err)
	}
	if v != 2 {
		t.Errorf("Get(cannon) = %d, expected 2", v)
	}

	if _, err := r.Get("missing"); err == nil || !strings.Contains(err.Error(), `unknown tower "missing"`) {
		t.Errorf("Get(missing) error = %v, expected unknown tower", err)
	}

	if !r.Exists("archer") || r.Exists("mage") {
		t.Error("Exists returned unexpected results")
	}
}

func TestRegistryIDsSorted(t *testing.T) {
	r := New[string]("hero")
	for _, id := range []string{"h_yuki", "h_grom", "h_rin"} {
		r.Register(id, id)
	}

	ids := r.IDs()
	want := []string{"h_grom", "h_rin", "h_yuki"}
	if len(ids) != len(want) {
		t.Fatalf("Expected %d ids, got %d", len(want), len(ids))
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Errorf("IDs()[%d] = %q, expected %q", i, ids[i], want[i])
		}
	}
	if r.Len() != 3 {
		t.Errorf("Len() = %d, expected 3", r.Len())
	}
}

func TestRegistryPanics(t *testing.T) {
	t.Run("duplicate register", func(t *testing.T) {
		r := New[int]("enemy")
		r.Register("SLIME", 1)
		defer func() {
			if recover() == nil {
				t.Error("expected panic on duplicate registration")
			}
		}()
		r.Register("SLIME", 2)
	})

	t.Run("must get miss", func(t *testing.T) {
		r := New[int]("enemy")
		defer func() {
			if recover() == nil {
				t.Error("expected panic on MustGet miss")
			}
		}()
		r.MustGet("GHOST")
	})
}
