// Package browser implements the browser stack control panel: viewport
// presets, the mutually-dependent form state, and session lifecycle.
package browser

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/goccy/go-yaml"
)

// DeviceCustom is the synthetic preset that unlocks manual size entry.
const DeviceCustom = "custom"

// Breakpoint is a fixed-width viewport preset.
type Breakpoint struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

// Device is a named preset carrying a viewport size.
type Device struct {
	Name   string `json:"name" yaml:"name"`
	Width  int    `json:"width" yaml:"width"`
	Height int    `json:"height" yaml:"height"`
}

// Breakpoints returns the fixed breakpoint presets.
func Breakpoints() []Breakpoint {
	return []Breakpoint{
		{Name: "mobile", Value: 480},
		{Name: "tablet", Value: 768},
		{Name: "laptop", Value: 1024},
		{Name: "desktop", Value: 1536},
	}
}

// Browsers returns the launchable browser names.
func Browsers() []string {
	return []string{"chrome", "edge", "explorer", "firefox"}
}

// DefaultBrowser is used when an unknown browser is requested.
const DefaultBrowser = "chrome"

// KnownBrowser reports whether name is a launchable browser.
func KnownBrowser(name string) bool {
	for _, b := range Browsers() {
		if b == name {
			return true
		}
	}
	return false
}

// Catalog holds the device presets, optionally extended from a YAML file.
type Catalog struct {
	devices []Device
}

// DefaultDevices returns the built-in device presets.
func DefaultDevices() []Device {
	return []Device{
		{Name: "Galaxy S8", Width: 360, Height: 740},
		{Name: "Galaxy S20", Width: 412, Height: 915},
		{Name: "Galaxy Fold", Width: 280, Height: 653},
		{Name: "iPad Mini", Width: 768, Height: 1024},
		{Name: "iPad Air", Width: 820, Height: 1180},
		{Name: "iPad Pro", Width: 1024, Height: 1366},
		{Name: "iPhone SE", Width: 375, Height: 667},
		{Name: "iPhone XR", Width: 414, Height: 896},
		{Name: "Nest Hub", Width: 1024, Height: 600},
		{Name: "Nest Hub Max", Width: 1280, Height: 800},
		{Name: "Surface Duo", Width: 540, Height: 720},
		{Name: "Surface Pro", Width: 912, Height: 1368},
	}
}

// NewCatalog creates a catalog with the built-in presets.
func NewCatalog() *Catalog {
	return &Catalog{devices: DefaultDevices()}
}

// NewCatalogFromFile creates a catalog extended with presets from a YAML
// file of the form:
//
//	devices:
//	  - name: Kiosk
//	    width: 1080
//	    height: 1920
func NewCatalogFromFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read devices file: %w", err)
	}

	var file struct {
		Devices []Device `yaml:"devices"`
	}
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse devices file: %w", err)
	}

	c := NewCatalog()
	c.devices = append(c.devices, file.Devices...)
	return c, nil
}

// Devices returns all presets.
func (c *Catalog) Devices() []Device {
	return c.devices
}

// Lookup finds a preset by name, case-insensitively.
func (c *Catalog) Lookup(name string) (Device, bool) {
	for _, d := range c.devices {
		if strings.EqualFold(d.Name, name) {
			return d, true
		}
	}
	return Device{}, false
}

// BreakpointValue resolves a breakpoint form value, which arrives either
// as the pixel width or as the preset name.
func BreakpointValue(v string) (int, bool) {
	if n, err := strconv.Atoi(v); err == nil && n > 0 {
		return n, true
	}
	for _, bp := range Breakpoints() {
		if strings.EqualFold(bp.Name, v) {
			return bp.Value, true
		}
	}
	return 0, false
}
