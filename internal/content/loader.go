package content

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

//go:embed data/*.yaml
var embedded embed.FS

type heroFile struct {
	Heroes []HeroDef `yaml:"heroes"`
}

type towerFile struct {
	Towers []TowerDef `yaml:"towers"`
}

type enemyFile struct {
	Enemies []EnemyDef `yaml:"enemies"`
}

type levelFile struct {
	Levels []LevelDef `yaml:"levels"`
}

type shopFile struct {
	Items []ShopItem `yaml:"items"`
}

// Load reads and validates every content table.
// Search order per file: customDir -> ~/.guardians/content -> ./content -> embedded default.
// A file that exists in customDir but cannot be parsed is an error; the
// other locations are best-effort and fall through to the embedded copy.
func Load(customDir string) (*Catalog, error) {
	return load(func(file string, dst any) error {
		return readTable(customDir, file, dst)
	})
}

// Default returns the catalog built from the embedded tables only.
// The embedded tables are covered by tests, so a failure here panics.
func Default() *Catalog {
	c, err := load(readEmbedded)
	if err != nil {
		panic(err)
	}
	return c
}

func load(read func(file string, dst any) error) (*Catalog, error) {
	var (
		t  Tables
		hf heroFile
		tf towerFile
		ef enemyFile
		lf levelFile
		sf shopFile
	)

	steps := []struct {
		file string
		dst  any
	}{
		{"heroes.yaml", &hf},
		{"towers.yaml", &tf},
		{"enemies.yaml", &ef},
		{"levels.yaml", &lf},
		{"shop.yaml", &sf},
		{"waves.yaml", &t.Waves},
	}
	for _, s := range steps {
		if err := read(s.file, s.dst); err != nil {
			return nil, err
		}
	}

	t.Heroes = hf.Heroes
	t.Towers = tf.Towers
	t.Enemies = ef.Enemies
	t.Levels = lf.Levels
	t.Shop = sf.Items

	return NewCatalog(t)
}

// readTable fills dst from the first location that has the file.
func readTable(customDir, file string, dst any) error {
	if customDir != "" {
		path := filepath.Join(customDir, file)
		data, err := os.ReadFile(path)
		if err == nil {
			if err := yaml.Unmarshal(data, dst); err != nil {
				return fmt.Errorf("content: failed to parse %s: %w", path, err)
			}
			return nil
		}
		if !os.IsNotExist(err) {
			return fmt.Errorf("content: failed to read %s: %w", path, err)
		}
	}

	// Try user content directory
	if home, err := os.UserHomeDir(); err == nil {
		if data, err := os.ReadFile(filepath.Join(home, ".guardians", "content", file)); err == nil {
			if err := yaml.Unmarshal(data, dst); err == nil {
				return nil
			}
		}
	}

	// Try local content directory
	if data, err := os.ReadFile(filepath.Join("content", file)); err == nil {
		if err := yaml.Unmarshal(data, dst); err == nil {
			return nil
		}
	}

	return readEmbedded(file, dst)
}

func readEmbedded(file string, dst any) error {
	data, err := embedded.ReadFile("data/" + file)
	if err != nil {
		return fmt.Errorf("content: missing embedded table %s: %w", file, err)
	}
	if err := yaml.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("content: failed to parse embedded %s: %w", file, err)
	}
	return nil
}
