package sim

import (
	"math"
	"testing"

	"github.com/vovakirdan/sky-guardians/internal/core"
)

const testTickMs = 1000.0 / 60

func newTestEngine(t *testing.T, opts Options) *Engine {
	t.Helper()
	if opts.Seed == 0 {
		opts.Seed = 42
	}
	e, err := New(opts)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return e
}

// addEnemy puts an enemy straight into the committed state.
func addEnemy(e *Engine, kind string, pos core.Vec2, hp float64) *Enemy {
	def := e.cat.MustEnemy(kind)
	e.st.Enemies = append(e.st.Enemies, Enemy{
		ID:     e.st.newID(),
		Kind:   def.Kind,
		Pos:    pos,
		HP:     hp,
		MaxHP:  hp,
		Speed:  def.Speed,
		Armor:  def.Armor,
		Flying: def.Flying,
	})
	return &e.st.Enemies[len(e.st.Enemies)-1]
}

// testWorld returns a world working directly on the committed state.
func testWorld(e *Engine) *world {
	return e.world(e.st, &e.sched, testTickMs)
}

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-6
}

// checkBlocks fails when an enemy is held by something that cannot hold it.
func checkBlocks(t *testing.T, st *GameState) {
	t.Helper()
	for _, en := range st.Enemies {
		switch en.BlockedBy {
		case NoEntity:
		case HeroEntity:
			if st.Hero == nil || st.Hero.Dead {
				t.Fatalf("tick %d: enemy %d blocked by a dead or missing hero", st.Tick, en.ID)
			}
		default:
			found := false
			for _, tw := range st.Towers {
				for _, s := range tw.Soldiers {
					if s.ID == en.BlockedBy {
						found = !s.Dead
					}
				}
			}
			if !found {
				t.Fatalf("tick %d: enemy %d blocked by missing or dead soldier %d", st.Tick, en.ID, en.BlockedBy)
			}
		}
	}
}
