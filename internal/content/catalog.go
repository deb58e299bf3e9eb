package content

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/vovakirdan/sky-guardians/internal/registry"
)

// Catalog is the validated, read-only set of content tables.
// It is safe for concurrent use by several sessions.
type Catalog struct {
	heroes  *registry.Registry[HeroDef]
	towers  *registry.Registry[TowerDef]
	enemies *registry.Registry[EnemyDef]
	levels  *registry.Registry[LevelDef]
	shop    *registry.Registry[ShopItem]

	// Table order is kept for menus and hotkeys.
	heroOrder  []string
	towerOrder []string
	levelOrder []int
	shopOrder  []string
	enemyOrder []string
	normalPool []string

	Waves WaveTable
}

// Tables is the raw, unvalidated form of every content file.
type Tables struct {
	Heroes  []HeroDef
	Towers  []TowerDef
	Enemies []EnemyDef
	Levels  []LevelDef
	Shop    []ShopItem
	Waves   WaveTable
}

// NewCatalog validates the tables and indexes them.
// Duplicate ids and broken references are reported together.
func NewCatalog(t Tables) (*Catalog, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}

	c := &Catalog{
		heroes:  registry.New[HeroDef]("hero"),
		towers:  registry.New[TowerDef]("tower"),
		enemies: registry.New[EnemyDef]("enemy"),
		levels:  registry.New[LevelDef]("level"),
		shop:    registry.New[ShopItem]("shop item"),
		Waves:   t.Waves,
	}

	for _, h := range t.Heroes {
		c.heroes.Register(h.ID, h)
		c.heroOrder = append(c.heroOrder, h.ID)
	}
	for _, d := range t.Towers {
		c.towers.Register(d.ID, d)
		c.towerOrder = append(c.towerOrder, d.ID)
	}
	for _, e := range t.Enemies {
		c.enemies.Register(e.Kind, e)
		c.enemyOrder = append(c.enemyOrder, e.Kind)
		if !e.Boss {
			c.normalPool = append(c.normalPool, e.Kind)
		}
	}
	for _, l := range t.Levels {
		c.levels.Register(strconv.Itoa(l.ID), l)
		c.levelOrder = append(c.levelOrder, l.ID)
	}
	sort.Ints(c.levelOrder)
	for _, it := range t.Shop {
		c.shop.Register(it.ID, it)
		c.shopOrder = append(c.shopOrder, it.ID)
	}

	return c, nil
}

// Hero looks up a hero definition.
func (c *Catalog) Hero(id string) (HeroDef, bool) {
	h, err := c.heroes.Get(id)
	return h, err == nil
}

// Tower looks up a tower definition.
func (c *Catalog) Tower(id string) (TowerDef, bool) {
	d, err := c.towers.Get(id)
	return d, err == nil
}

// Enemy looks up an enemy definition by kind.
func (c *Catalog) Enemy(kind string) (EnemyDef, bool) {
	e, err := c.enemies.Get(kind)
	return e, err == nil
}

// Level looks up a level by numeric id.
func (c *Catalog) Level(id int) (LevelDef, bool) {
	l, err := c.levels.Get(strconv.Itoa(id))
	return l, err == nil
}

// ShopItem looks up a shop item.
func (c *Catalog) ShopItem(id string) (ShopItem, bool) {
	it, err := c.shop.Get(id)
	return it, err == nil
}

// MustTower returns a tower definition and panics on a miss.
func (c *Catalog) MustTower(id string) TowerDef {
	return c.towers.MustGet(id)
}

// MustEnemy returns an enemy definition and panics on a miss.
func (c *Catalog) MustEnemy(kind string) EnemyDef {
	return c.enemies.MustGet(kind)
}

// MustHero returns a hero definition and panics on a miss.
func (c *Catalog) MustHero(id string) HeroDef {
	return c.heroes.MustGet(id)
}

// Heroes returns every hero in table order.
func (c *Catalog) Heroes() []HeroDef {
	out := make([]HeroDef, 0, len(c.heroOrder))
	for _, id := range c.heroOrder {
		out = append(out, c.heroes.MustGet(id))
	}
	return out
}

// Towers returns every tower line in table order.
func (c *Catalog) Towers() []TowerDef {
	out := make([]TowerDef, 0, len(c.towerOrder))
	for _, id := range c.towerOrder {
		out = append(out, c.towers.MustGet(id))
	}
	return out
}

// Enemies returns every enemy kind in table order.
func (c *Catalog) Enemies() []EnemyDef {
	out := make([]EnemyDef, 0, len(c.enemyOrder))
	for _, k := range c.enemyOrder {
		out = append(out, c.enemies.MustGet(k))
	}
	return out
}

// Levels returns every level sorted by id.
func (c *Catalog) Levels() []LevelDef {
	out := make([]LevelDef, 0, len(c.levelOrder))
	for _, id := range c.levelOrder {
		out = append(out, c.levels.MustGet(strconv.Itoa(id)))
	}
	return out
}

// Shop returns the shop items in table order.
func (c *Catalog) Shop() []ShopItem {
	out := make([]ShopItem, 0, len(c.shopOrder))
	for _, id := range c.shopOrder {
		out = append(out, c.shop.MustGet(id))
	}
	return out
}

// NormalPool returns the non-boss enemy kinds drawn from after the last bracket.
func (c *Catalog) NormalPool() []string {
	return c.normalPool
}

// String summarizes the catalog for logs.
func (c *Catalog) String() string {
	return fmt.Sprintf("content{heroes=%d towers=%d enemies=%d levels=%d shop=%d}",
		c.heroes.Len(), c.towers.Len(), c.enemies.Len(), c.levels.Len(), c.shop.Len())
}
