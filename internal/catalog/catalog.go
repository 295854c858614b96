// Package catalog loads the achievements, rewards and bins a fresh
// deployment starts with.
package catalog

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/SIMPLYBOYS/smart_waste/internal/db"
	"github.com/SIMPLYBOYS/smart_waste/internal/points"
	"github.com/SIMPLYBOYS/smart_waste/pkg/logger"
	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultCatalog []byte

var binTypes = map[string]bool{"Plastic": true, "Organic": true, "E-waste": true, "Mixed": true}

type Catalog struct {
	Achievements []Achievement `yaml:"achievements"`
	Rewards      []Reward      `yaml:"rewards"`
	Bins         []Bin         `yaml:"bins"`
}

type Achievement struct {
	Name            string  `yaml:"name"`
	Description     string  `yaml:"description"`
	Icon            string  `yaml:"icon"`
	PointsRequired  int64   `yaml:"pointsRequired"`
	WasteRequired   float64 `yaml:"wasteRequired"`
	PickupsRequired int64   `yaml:"pickupsRequired"`
}

// Reward stock is -1 for unlimited.
type Reward struct {
	Name        string  `yaml:"name"`
	Description string  `yaml:"description"`
	Category    string  `yaml:"category"`
	PointsCost  int64   `yaml:"pointsCost"`
	ValueKes    float64 `yaml:"valueKes"`
	Stock       int64   `yaml:"stock"`
}

type Bin struct {
	Code         string   `yaml:"code"`
	LocationName string   `yaml:"locationName"`
	Address      string   `yaml:"address"`
	Type         string   `yaml:"type"`
	Status       string   `yaml:"status"`
	Lat          *float64 `yaml:"lat"`
	Lng          *float64 `yaml:"lng"`
}

// Summary counts the rows inserted by Apply. Rows that already existed are
// not counted.
type Summary struct {
	Achievements int
	Rewards      int
	Bins         int
}

// Default returns the catalog embedded in the binary.
func Default() (Catalog, error) {
	return Load(bytes.NewReader(defaultCatalog))
}

// LoadFile reads a catalog from path.
func LoadFile(path string) (Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return Catalog{}, fmt.Errorf("failed to open catalog: %w", err)
	}
	defer f.Close()
	return Load(f)
}

// Load decodes and validates a YAML catalog. Unknown keys are rejected.
func Load(r io.Reader) (Catalog, error) {
	var c Catalog
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil && err != io.EOF {
		return Catalog{}, fmt.Errorf("failed to decode catalog: %w", err)
	}
	if err := c.validate(); err != nil {
		return Catalog{}, err
	}
	return c, nil
}

func (c Catalog) validate() error {
	seen := make(map[string]bool)
	for i, a := range c.Achievements {
		if strings.TrimSpace(a.Name) == "" {
			return fmt.Errorf("achievement %d: name is required", i)
		}
		if a.PointsRequired < 0 || a.WasteRequired < 0 || a.PickupsRequired < 0 {
			return fmt.Errorf("achievement %q: thresholds must not be negative", a.Name)
		}
		if seen["a:"+a.Name] {
			return fmt.Errorf("achievement %q is listed twice", a.Name)
		}
		seen["a:"+a.Name] = true
	}
	for i, r := range c.Rewards {
		if strings.TrimSpace(r.Name) == "" {
			return fmt.Errorf("reward %d: name is required", i)
		}
		if r.PointsCost <= 0 {
			return fmt.Errorf("reward %q: pointsCost must be positive", r.Name)
		}
		if r.Stock < db.UnlimitedStock {
			return fmt.Errorf("reward %q: stock must be -1 or more", r.Name)
		}
		if seen["r:"+r.Name] {
			return fmt.Errorf("reward %q is listed twice", r.Name)
		}
		seen["r:"+r.Name] = true
	}
	for i, b := range c.Bins {
		if strings.TrimSpace(b.Code) == "" || strings.TrimSpace(b.LocationName) == "" {
			return fmt.Errorf("bin %d: code and locationName are required", i)
		}
		if b.Type != "" && !binTypes[b.Type] {
			return fmt.Errorf("bin %q: unknown type %q", b.Code, b.Type)
		}
		if seen["b:"+b.Code] {
			return fmt.Errorf("bin %q is listed twice", b.Code)
		}
		seen["b:"+b.Code] = true
	}
	return nil
}

// Apply inserts every entry that is not already present. The first store
// error stops the run.
func (c Catalog) Apply(ctx context.Context, seeder db.Seeder) (Summary, error) {
	var sum Summary

	for _, a := range c.Achievements {
		inserted, err := seeder.SeedAchievement(ctx, db.Achievement{
			Name:        a.Name,
			Description: a.Description,
			Icon:        a.Icon,
			Thresholds: points.Thresholds{
				PointsRequired:  a.PointsRequired,
				WasteRequired:   a.WasteRequired,
				PickupsRequired: a.PickupsRequired,
			},
		})
		if err != nil {
			return sum, err
		}
		if inserted {
			sum.Achievements++
		}
	}

	for _, r := range c.Rewards {
		inserted, err := seeder.SeedReward(ctx, db.Reward{
			Name:          r.Name,
			Description:   r.Description,
			Category:      r.Category,
			PointsCost:    r.PointsCost,
			ValueKes:      r.ValueKes,
			StockQuantity: r.Stock,
		})
		if err != nil {
			return sum, err
		}
		if inserted {
			sum.Rewards++
		}
	}

	for _, b := range c.Bins {
		bin := db.QRBin{
			BinCode:      b.Code,
			LocationName: b.LocationName,
			Status:       b.Status,
			LocationLat:  b.Lat,
			LocationLng:  b.Lng,
		}
		if b.Address != "" {
			bin.LocationAddress = &b.Address
		}
		if b.Type != "" {
			bin.BinType = &b.Type
		}
		inserted, err := seeder.SeedBin(ctx, bin)
		if err != nil {
			return sum, err
		}
		if inserted {
			sum.Bins++
		}
	}

	logger.Info("Catalog applied: %d achievements, %d rewards, %d bins added", sum.Achievements, sum.Rewards, sum.Bins)
	return sum, nil
}
