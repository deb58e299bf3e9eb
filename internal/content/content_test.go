package content

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultCatalog(t *testing.T) {
	c := Default()

	if got := len(c.Heroes()); got != 9 {
		t.Errorf("Expected 9 heroes, got %d", got)
	}
	if got := len(c.Towers()); got != 6 {
		t.Errorf("Expected 6 tower lines, got %d", got)
	}
	if got := len(c.Levels()); got != 26 {
		t.Errorf("Expected 26 levels, got %d", got)
	}
	if got := len(c.Shop()); got != 6 {
		t.Errorf("Expected 6 shop items, got %d", got)
	}

	lvl, ok := c.Level(0)
	if !ok {
		t.Fatal("level 0 missing")
	}
	if lvl.Waves != 5 || lvl.StartMoney != 500 || lvl.Endless() {
		t.Errorf("level 0 = waves %d money %d endless %v, expected 5/500/false", lvl.Waves, lvl.StartMoney, lvl.Endless())
	}
	if end := lvl.PathEnd(); end.X != 800 || end.Y != 300 {
		t.Errorf("level 0 path end = %+v, expected (800, 300)", end)
	}

	lvl1, _ := c.Level(1)
	if !lvl1.Endless() {
		t.Error("level 1 should be endless")
	}
}

func TestTowerStats(t *testing.T) {
	c := Default()
	archer := c.MustTower("archer")

	if s := archer.Stats(1, -1); s.Cost != 100 || s.Damage != 35 {
		t.Errorf("archer t1 = %+v", s)
	}
	sniper := archer.Stats(3, 0)
	if sniper.Name != "Musketeer Post" {
		t.Errorf("archer branch 0 = %q", sniper.Name)
	}
	if sk, ok := sniper.Skill("sniper_headshot"); !ok || sk.Max() != 3 {
		t.Errorf("sniper_headshot = %+v, %v", sk, ok)
	}

	mech := c.MustTower("cannon").Stats(3, 2)
	if sk, _ := mech.Skill("mech_armor"); sk.Max() != 1 {
		t.Errorf("mech_armor max level = %d, expected 1", sk.Max())
	}

	necro := c.MustTower("mage").Stats(3, 1)
	if necro.Summon == nil || necro.Summon.CountSkill != "necro_summon" {
		t.Errorf("necromancer summon = %+v", necro.Summon)
	}
}

func TestWaveTable(t *testing.T) {
	c := Default()

	tests := []struct {
		wave    int
		kind    string
		inTable bool
	}{
		{1, "SLIME", true},
		{2, "SLIME", true},
		{3, "GOBLIN", true},
		{11, "CULTIST", true},
		{28, "TREANT", true},
		{29, "", false},
	}
	for _, tc := range tests {
		kind, ok := c.Waves.BracketKind(tc.wave)
		if ok != tc.inTable || kind != tc.kind {
			t.Errorf("BracketKind(%d) = %q, %v; expected %q, %v", tc.wave, kind, ok, tc.kind, tc.inTable)
		}
	}

	if got := len(c.Waves.BossPool(10)); got != 5 {
		t.Errorf("early boss pool size = %d, expected 5", got)
	}
	if got := len(c.Waves.BossPool(30)); got != 10 {
		t.Errorf("late boss pool size = %d, expected 10", got)
	}

	for _, k := range c.NormalPool() {
		if c.MustEnemy(k).Boss {
			t.Errorf("normal pool contains boss %q", k)
		}
	}
}

func TestHeroWeapons(t *testing.T) {
	c := Default()

	tests := []struct {
		id     string
		ranged bool
	}{
		{"h_rin", false},
		{"h_yuki", true},
		{"h_sakura", true},
		{"h_grom", false},
		{"h_vex", true},
	}
	for _, tc := range tests {
		h := c.MustHero(tc.id)
		if h.Weapon.Ranged() != tc.ranged {
			t.Errorf("%s ranged = %v, expected %v", tc.id, h.Weapon.Ranged(), tc.ranged)
		}
	}

	if got := c.MustHero("h_sakura").Weapon.Projectile(); got != ProjectileBomb {
		t.Errorf("gun projectile = %q, expected BOMB", got)
	}
	if got := len(c.MustHero("h_rin").TalentsByTier(1)); got != 2 {
		t.Errorf("rin tier-1 talents = %d, expected 2", got)
	}
}

func TestValidateReportsAllProblems(t *testing.T) {
	tables := Tables{
		Enemies: []EnemyDef{{Kind: "SLIME", HP: 0, Armor: 1.5}},
		Levels:  []LevelDef{{ID: 0, Waves: 5}},
		Waves:   WaveTable{Brackets: []Bracket{{Until: 2, Kind: "GHOST"}}},
	}

	err := tables.Validate()
	if err == nil {
		t.Fatal("expected validation error")
	}
	for _, want := range []string{
		`enemy "SLIME": hp must be positive`,
		"armor 1.50 outside",
		"level 0: no paths",
		`unknown enemy "GHOST"`,
		"empty boss pool",
	} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q does not mention %q", err, want)
		}
	}
}

func TestLoadCustomDir(t *testing.T) {
	dir := t.TempDir()
	shop := `items:
  - {id: potion, name: "Cheap Potion", cost: 10, effect: HEAL, cooldown: 1}
`
	if err := os.WriteFile(filepath.Join(dir, "shop.yaml"), []byte(shop), 0o644); err != nil {
		t.Fatal(err)
	}

	c, err := Load(dir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	items := c.Shop()
	if len(items) != 1 || items[0].Cost != 10 {
		t.Errorf("custom shop = %+v", items)
	}
	// Other tables fall back to the defaults
	if len(c.Towers()) != 6 {
		t.Errorf("Expected default towers, got %d", len(c.Towers()))
	}
}

func TestLoadCustomDirParseError(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "towers.yaml"), []byte("towers: [oops"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(dir); err == nil || !strings.Contains(err.Error(), "failed to parse") {
		t.Errorf("Load error = %v, expected parse failure", err)
	}
}
