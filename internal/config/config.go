/*****************************************************************************************************************/

//	@author		Michael Roberts <michael@observerly.com>
//	@package	@observerly/skysolve
//	@license	Copyright © 2021-2025 observerly

/*****************************************************************************************************************/

// Package config reads the pipeline's single runtime configuration file, per §6/§2A. It follows
// the teacher's own JSON-sidecar idiom (internal/solver/solver.go's .wcs.json marshal/unmarshal)
// rather than introducing a config library: no third-party config package appears anywhere in
// the retrieved example corpus.
package config

/*****************************************************************************************************************/

import (
	"encoding/json"
	"fmt"
	"os"
)

/*****************************************************************************************************************/

// Site is the observatory's location, used for sidereal time and local-horizon calculations.
type Site struct {
	Lon float64 `json:"lon"` // degrees, east-positive
	Lat float64 `json:"lat"` // degrees
	Alt float64 `json:"alt"` // metres
	TZ  string  `json:"tz"`  // IANA timezone name
}

/*****************************************************************************************************************/

// Reduction configures the source-extraction stage.
type Reduction struct {
	PathExe    string `json:"path_exe"`
	PathConfig string `json:"path_config"`
}

/*****************************************************************************************************************/

// Astrometry configures the plate-solving stage.
type Astrometry struct {
	Enable    bool    `json:"enable"`
	PathExe   string  `json:"path_exe"`
	ScaleLow  float64 `json:"scale_low"`  // arcsec/pixel
	ScaleHigh float64 `json:"scale_high"` // arcsec/pixel
}

/*****************************************************************************************************************/

// Photometry configures the catalog cross-match stage.
type Photometry struct {
	Enable      bool   `json:"enable"`
	CatalogPath string `json:"catalog_path"`
}

/*****************************************************************************************************************/

// Output configures where finalized track files are written.
type Output struct {
	Path string `json:"path"`
}

/*****************************************************************************************************************/

// Work configures the stage scratch directory (tmpfs preferred, per §4.3).
type Work struct {
	Path string `json:"path"`
}

/*****************************************************************************************************************/

// DB gates the optional frame-state/track journal (internal/store).
type DB struct {
	Enable bool   `json:"enable"`
	URL    string `json:"url"`
}

/*****************************************************************************************************************/

// GC is the general-control outbound TCP client, used for FWHM-update side effects.
type GC struct {
	Enable bool   `json:"enable"`
	Host   string `json:"host"`
	Port   int    `json:"port"`
}

/*****************************************************************************************************************/

// FS is the file-server outbound TCP client.
type FS struct {
	Enable bool   `json:"enable"`
	Host   string `json:"host"`
	Port   int    `json:"port"`
}

/*****************************************************************************************************************/

// Camera exposes the rolling-shutter constants as configuration overrides, resolving the open
// question in §9: the original hard-coded values remain the defaults.
type Camera struct {
	ReadTimeMs float64 `json:"read_time_ms"`
	Lines      int     `json:"lines"`
}

/*****************************************************************************************************************/

// BadMark is the path to the frame/source bad-pixel mask list.
type BadMark struct {
	Path string `json:"path"`
}

/*****************************************************************************************************************/

// Config is the full set of options recognized from the runtime configuration file, per §6.
type Config struct {
	Site       Site       `json:"site"`
	Reduction  Reduction  `json:"reduction"`
	Astrometry Astrometry `json:"astrometry"`
	Photometry Photometry `json:"photometry"`
	Output     Output     `json:"output"`
	Work       Work       `json:"work"`
	DB         DB         `json:"db"`
	GC         GC         `json:"gc"`
	FS         FS         `json:"fs"`
	Camera     Camera     `json:"camera"`
	BadMark    BadMark    `json:"bad_mark"`
}

/*****************************************************************************************************************/

// Default returns a Config populated with the camera-compatibility defaults (§9); every other
// field is the zero value and must be supplied by the configuration file.
func Default() Config {
	return Config{
		Camera: Camera{
			ReadTimeMs: 125,
			Lines:      4096,
		},
	}
}

/*****************************************************************************************************************/

// Load reads and parses the configuration file at path. A parse error at start-up is fatal, per
// §7's propagation policy.
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	cfg := Default()

	if err := json.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}

	if cfg.Camera.ReadTimeMs <= 0 {
		cfg.Camera.ReadTimeMs = 125
	}

	if cfg.Camera.Lines <= 0 {
		cfg.Camera.Lines = 4096
	}

	return &cfg, nil
}

/*****************************************************************************************************************/

// Save writes cfg to path as indented JSON, mirroring the teacher's own .wcs.json sidecar idiom.
func Save(path string, cfg *Config) error {
	raw, err := json.MarshalIndent(cfg, "", "\t")
	if err != nil {
		return fmt.Errorf("config: marshal: %w", err)
	}

	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return fmt.Errorf("config: write %s: %w", path, err)
	}

	return nil
}

/*****************************************************************************************************************/
