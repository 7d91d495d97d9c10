package browser

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBreakpointValues(t *testing.T) {
	breakpoints := Breakpoints()
	require.Len(t, breakpoints, 4)

	want := map[string]int{
		"mobile":  480,
		"tablet":  768,
		"laptop":  1024,
		"desktop": 1536,
	}
	for _, bp := range breakpoints {
		assert.Equal(t, want[bp.Name], bp.Value, bp.Name)
	}
}

func TestBreakpointValueParsing(t *testing.T) {
	v, ok := BreakpointValue("480")
	require.True(t, ok)
	assert.Equal(t, 480, v)

	v, ok = BreakpointValue("desktop")
	require.True(t, ok)
	assert.Equal(t, 1536, v)

	_, ok = BreakpointValue("widescreen")
	assert.False(t, ok)
}

func TestCatalogLookup(t *testing.T) {
	catalog := NewCatalog()

	device, ok := catalog.Lookup("iPad Pro")
	require.True(t, ok)
	assert.Equal(t, 1024, device.Width)
	assert.Equal(t, 1366, device.Height)

	// Case-insensitive
	_, ok = catalog.Lookup("ipad pro")
	assert.True(t, ok)

	_, ok = catalog.Lookup("PDP-11")
	assert.False(t, ok)
}

func TestCatalogFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "devices.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`devices:
  - name: Kiosk
    width: 1080
    height: 1920
`), 0o644))

	catalog, err := NewCatalogFromFile(path)
	require.NoError(t, err)

	device, ok := catalog.Lookup("Kiosk")
	require.True(t, ok)
	assert.Equal(t, 1080, device.Width)
	assert.Equal(t, 1920, device.Height)

	// Built-ins survive the extension
	_, ok = catalog.Lookup("Galaxy Fold")
	assert.True(t, ok)
}

func TestCatalogFromMissingFile(t *testing.T) {
	_, err := NewCatalogFromFile("/does/not/exist.yaml")
	assert.Error(t, err)
}

func TestKnownBrowser(t *testing.T) {
	assert.True(t, KnownBrowser("chrome"))
	assert.True(t, KnownBrowser("explorer"))
	assert.False(t, KnownBrowser("netscape"))
}
