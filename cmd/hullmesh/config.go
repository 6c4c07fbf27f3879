package main

import (
	"fmt"
	"os"

	"github.com/hullform/hullmesh"
	"github.com/pelletier/go-toml/v2"
)

// Config holds the physical constants and tolerances of the hydro and heal
// commands. Fields absent from the file keep their defaults.
type Config struct {
	// RhoMedium is the density of the enclosed medium in kg/m³
	// (default: salt water).
	RhoMedium float64 `toml:"rho_medium"`
	// RhoShell is the density of the hull shell in kg/m³ (default: steel).
	RhoShell float64 `toml:"rho_shell"`
	// Thickness is the hull shell thickness in m.
	Thickness float64 `toml:"thickness"`
	// MergeTol is the absolute duplicate-vertex merge tolerance.
	MergeTol float64 `toml:"merge_tol"`
	// DegenerateRTol is the relative degenerate-face area tolerance.
	DegenerateRTol float64 `toml:"degenerate_rtol"`
}

func defaultConfig() Config {
	return Config{
		RhoMedium:      1023,
		RhoShell:       7850,
		Thickness:      0.02,
		MergeTol:       hullmesh.DefaultMergeTol,
		DegenerateRTol: hullmesh.DefaultDegenerateRTol,
	}
}

func loadConfig(path string) (Config, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, nil
}
