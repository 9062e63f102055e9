package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"battery-arbitrage/internal/model"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// BatteryConfig is a battery preset as stored in examples/batteries/*.yaml.
type BatteryConfig struct {
	Name        string          `yaml:"name"`
	CapacityKWh int             `yaml:"capacity_kwh"`
	Price       decimal.Decimal `yaml:"price"`
}

// Preset is a BatteryConfig plus where it was loaded from.
type Preset struct {
	ID      string
	File    string
	Battery BatteryConfig
}

func (b BatteryConfig) ToModelParams() (model.BatteryParams, error) {
	return model.NewBatteryParams(b.CapacityKWh, b.Price)
}

type batteryFileWrapper struct {
	Battery BatteryConfig `yaml:"battery"`
}

func LoadBatteryFile(path string) (BatteryConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return BatteryConfig{}, err
	}
	var w batteryFileWrapper
	if err := yaml.Unmarshal(raw, &w); err != nil {
		return BatteryConfig{}, fmt.Errorf("parse %s: %w", path, err)
	}
	return w.Battery, nil
}

// ListPresets loads every *.yaml preset in dir, sorted by ID. Files that fail
// to parse or validate are reported through skip and left out. A missing
// directory yields no presets.
func ListPresets(dir string, skip func(path string, err error)) ([]Preset, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var presets []Preset
	for _, entry := range entries {
		if entry.IsDir() || !isYAML(entry.Name()) {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		b, err := LoadBatteryFile(path)
		if err == nil {
			_, err = b.ToModelParams()
		}
		if err != nil {
			if skip != nil {
				skip(path, err)
			}
			continue
		}

		// "home_10kwh.yaml" -> "home_10kwh"
		id := strings.TrimSuffix(entry.Name(), filepath.Ext(entry.Name()))
		if b.Name == "" {
			b.Name = id
		}
		presets = append(presets, Preset{ID: id, File: path, Battery: b})
	}
	sort.Slice(presets, func(i, j int) bool { return presets[i].ID < presets[j].ID })
	return presets, nil
}

func isYAML(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	return ext == ".yaml" || ext == ".yml"
}

// MergeBattery overlays non-zero fields from override onto base.
func MergeBattery(base, override BatteryConfig) BatteryConfig {
	out := base
	if override.Name != "" {
		out.Name = override.Name
	}
	if override.CapacityKWh != 0 {
		out.CapacityKWh = override.CapacityKWh
	}
	if !override.Price.IsZero() {
		out.Price = override.Price
	}
	return out
}
