package main

import (
	"testing"
	"time"

	"github.com/vovakirdan/sky-guardians/internal/config"
	"github.com/vovakirdan/sky-guardians/internal/content"
	"github.com/vovakirdan/sky-guardians/internal/sim"
)

func testSetup() setup {
	return setup{catalog: content.Default(), sim: config.DefaultSimConfig()}
}

func TestParseTalents(t *testing.T) {
	s := testSetup()
	tests := []struct {
		name    string
		hero    string
		list    string
		want    sim.Talents
		wantErr bool
	}{
		{"empty", "", "", sim.Talents{}, false},
		{"any order", "h_rin", "rin_t3_ult, rin_t1_hp", sim.Talents{T1: "rin_t1_hp", T3: "rin_t3_ult"}, false},
		{"no hero", "", "rin_t1_hp", sim.Talents{}, true},
		{"other hero's talent", "h_rin", "yuki_t1_spd", sim.Talents{}, true},
		{"same tier twice", "h_rin", "rin_t1_hp,rin_t1_atk", sim.Talents{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseTalents(s, tt.hero, tt.list)
			if tt.wantErr {
				if err == nil {
					t.Errorf("Expected an error, got %+v", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseTalents failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("Expected %+v, got %+v", tt.want, got)
			}
		})
	}
}

func TestNewAutoBuilder(t *testing.T) {
	cat := content.Default()
	if _, err := newAutoBuilder(cat, "archer,nope", false); err == nil {
		t.Error("Expected an error for an unknown tower")
	}
	if _, err := newAutoBuilder(cat, " , ", false); err == nil {
		t.Error("Expected an error for an empty list")
	}
	b, err := newAutoBuilder(cat, "archer, mage", true)
	if err != nil {
		t.Fatalf("newAutoBuilder failed: %v", err)
	}
	if len(b.towers) != 2 || b.towers[1] != "mage" {
		t.Errorf("Expected [archer mage], got %v", b.towers)
	}
}

func TestSimulateBuildsAndFights(t *testing.T) {
	e, err := sim.New(sim.Options{Level: 0, Seed: 11})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	b, err := newAutoBuilder(e.Catalog(), "archer,mage", true)
	if err != nil {
		t.Fatalf("newAutoBuilder failed: %v", err)
	}

	sum := simulate(e, b, 90*time.Second)

	if len(e.State().Towers) == 0 {
		t.Fatal("Expected the builder to place towers")
	}
	if first, _ := e.State().TowerAt(0); first == nil || first.DefID != "archer" {
		t.Errorf("Expected an archer on slot 0, got %+v", first)
	}
	if sum.Kills == 0 {
		t.Error("Expected kills after 90 seconds")
	}
	if sum.Elapsed <= 0 || sum.Elapsed > 91*time.Second {
		t.Errorf("Expected elapsed within the limit, got %s", sum.Elapsed)
	}
}
