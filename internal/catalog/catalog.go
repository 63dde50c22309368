// Package catalog holds the read-only game tables: technologies, assets
// and the chief roster. Tables load from YAML; an embedded default ships
// with the binary.
package catalog

import (
	_ "embed"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/Platopotato/TRIBES-sub000/internal/economy"
	"github.com/Platopotato/TRIBES-sub000/internal/world"
)

//go:embed default.yaml
var defaultYAML []byte

// EffectType enumerates modifier kinds carried by techs and assets.
type EffectType string

const (
	EffectPassiveFood   EffectType = "PassiveFoodGeneration"
	EffectPassiveScrap  EffectType = "PassiveScrapGeneration"
	EffectScavengeYield EffectType = "ScavengeYieldBonus"
	EffectCombatAttack  EffectType = "CombatBonusAttack"
	EffectCombatDefense EffectType = "CombatBonusDefense"
	EffectMovementSpeed EffectType = "MovementSpeedBonus"
)

// Effect is one modifier. Resource applies to scavenge bonuses; Terrain,
// when set, narrows a combat bonus to one terrain.
type Effect struct {
	Type     EffectType       `yaml:"type" json:"type"`
	Value    float64          `yaml:"value" json:"value"`
	Resource economy.Resource `yaml:"resource,omitempty" json:"resource,omitempty"`
	Terrain  *world.Terrain   `yaml:"terrain,omitempty" json:"terrain,omitempty"`
}

// Technology is a research target.
type Technology struct {
	ID             string   `yaml:"id" json:"id"`
	Name           string   `yaml:"name" json:"name"`
	Description    string   `yaml:"description" json:"description"`
	Cost           int      `yaml:"cost" json:"cost"` // scrap, paid up front
	ResearchPoints int      `yaml:"research_points" json:"research_points"`
	RequiredTroops int      `yaml:"required_troops" json:"required_troops"`
	Prerequisites  []string `yaml:"prerequisites,omitempty" json:"prerequisites,omitempty"`
	Effects        []Effect `yaml:"effects" json:"effects"`
}

// Asset is a permanent holding granting effects.
type Asset struct {
	ID          string   `yaml:"id" json:"id"`
	Name        string   `yaml:"name" json:"name"`
	Description string   `yaml:"description" json:"description"`
	Effects     []Effect `yaml:"effects" json:"effects"`
}

// ChiefTemplate is a roster entry for a named chief.
type ChiefTemplate struct {
	Name        string `yaml:"name" json:"name"`
	Description string `yaml:"description" json:"description"`
	Stats       Stats  `yaml:"stats" json:"stats"`
}

// Stats is the shared stat block for tribes and chiefs.
type Stats struct {
	Strength     int `yaml:"strength" json:"strength"`
	Intelligence int `yaml:"intelligence" json:"intelligence"`
	Leadership   int `yaml:"leadership" json:"leadership"`
	Charisma     int `yaml:"charisma" json:"charisma"`
}

// Catalog is the loaded set of tables, indexed by id.
type Catalog struct {
	techs  map[string]*Technology
	assets map[string]*Asset
	chiefs []ChiefTemplate
}

type file struct {
	Technologies []Technology    `yaml:"technologies"`
	Assets       []Asset         `yaml:"assets"`
	Chiefs       []ChiefTemplate `yaml:"chiefs"`
}

// Default returns the embedded catalog. It panics if the embedded data is
// malformed, which is a build defect.
func Default() *Catalog {
	c, err := Parse(defaultYAML)
	if err != nil {
		panic(fmt.Sprintf("catalog: embedded default: %v", err))
	}
	return c
}

// Load reads a catalog file, replacing the embedded default.
func Load(path string) (*Catalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return Parse(raw)
}

// Parse decodes and validates YAML catalog data.
func Parse(raw []byte) (*Catalog, error) {
	var f file
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("catalog yaml: %w", err)
	}

	c := &Catalog{
		techs:  make(map[string]*Technology, len(f.Technologies)),
		assets: make(map[string]*Asset, len(f.Assets)),
		chiefs: f.Chiefs,
	}
	for i := range f.Technologies {
		t := &f.Technologies[i]
		if t.ID == "" {
			return nil, fmt.Errorf("catalog: technology %d has no id", i)
		}
		if _, dup := c.techs[t.ID]; dup {
			return nil, fmt.Errorf("catalog: duplicate technology %q", t.ID)
		}
		c.techs[t.ID] = t
	}
	for _, t := range c.techs {
		for _, p := range t.Prerequisites {
			if _, ok := c.techs[p]; !ok {
				return nil, fmt.Errorf("catalog: technology %q requires unknown %q", t.ID, p)
			}
		}
	}
	for i := range f.Assets {
		a := &f.Assets[i]
		if _, dup := c.assets[a.ID]; dup {
			return nil, fmt.Errorf("catalog: duplicate asset %q", a.ID)
		}
		c.assets[a.ID] = a
	}
	seen := make(map[string]bool, len(f.Chiefs))
	for _, ch := range f.Chiefs {
		if seen[ch.Name] {
			return nil, fmt.Errorf("catalog: duplicate chief %q", ch.Name)
		}
		seen[ch.Name] = true
	}
	return c, nil
}

// Technology looks up a tech by id; nil if unknown.
func (c *Catalog) Technology(id string) *Technology {
	if c == nil {
		return nil
	}
	return c.techs[id]
}

// Asset looks up an asset by id; nil if unknown.
func (c *Catalog) Asset(id string) *Asset {
	if c == nil {
		return nil
	}
	return c.assets[id]
}

// Technologies returns all techs sorted by id.
func (c *Catalog) Technologies() []*Technology {
	out := make([]*Technology, 0, len(c.techs))
	for _, t := range c.techs {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Chiefs returns the roster in file order.
func (c *Catalog) Chiefs() []ChiefTemplate {
	return c.chiefs
}

// Available lists techs whose prerequisites are all in completed and that
// are not themselves completed.
func (c *Catalog) Available(completed map[string]bool) []*Technology {
	var out []*Technology
	for _, t := range c.Technologies() {
		if completed[t.ID] {
			continue
		}
		ok := true
		for _, p := range t.Prerequisites {
			if !completed[p] {
				ok = false
				break
			}
		}
		if ok {
			out = append(out, t)
		}
	}
	return out
}
