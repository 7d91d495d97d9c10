package browser

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/playgroundlab/webstack/internal/infrastructure/logging"
)

type fakeNavigator struct {
	visits int64
	block  chan struct{}
}

func (f *fakeNavigator) Navigate(ctx context.Context, url string) error {
	if f.block != nil {
		select {
		case <-f.block:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	atomic.AddInt64(&f.visits, 1)
	return nil
}

func newTestManager(nav Navigator) *Manager {
	return NewManager(nav, Screen{Width: 1920, Height: 1080}, logging.NewDefault())
}

func TestStartResolvesBreakpointGeometry(t *testing.T) {
	m := newTestManager(&fakeNavigator{})

	session, err := m.Start(context.Background(), StartOptions{
		Browser:    "chrome",
		URL:        "https://example.com",
		Breakpoint: "480",
	})
	require.NoError(t, err)
	defer m.Stop()

	assert.Equal(t, 480, session.Window.Width)
	// min(screenHeight - 100, 800)
	assert.Equal(t, 800, session.Window.Height)
	assert.False(t, session.Window.Maximized)
	assert.Equal(t, 1920/2-480/2, session.Window.X)
	assert.Equal(t, 1080/2-800/2, session.Window.Y)
}

func TestStartBreakpointByName(t *testing.T) {
	m := newTestManager(&fakeNavigator{})

	session, err := m.Start(context.Background(), StartOptions{
		Browser:    "chrome",
		URL:        "https://example.com",
		Breakpoint: "tablet",
	})
	require.NoError(t, err)
	defer m.Stop()

	assert.Equal(t, 768, session.Window.Width)
}

func TestStartEmptySizesMaximizes(t *testing.T) {
	m := newTestManager(&fakeNavigator{})

	session, err := m.Start(context.Background(), StartOptions{
		Browser: "firefox",
		URL:     "https://example.com",
	})
	require.NoError(t, err)
	defer m.Stop()

	assert.True(t, session.Window.Maximized)
	assert.Equal(t, 1920, session.Window.Width)
	assert.Equal(t, 1080, session.Window.Height)
}

func TestStartExplicitSizesCentered(t *testing.T) {
	m := newTestManager(&fakeNavigator{})

	session, err := m.Start(context.Background(), StartOptions{
		Browser: "edge",
		URL:     "https://example.com",
		Height:  "800",
		Width:   "600",
	})
	require.NoError(t, err)
	defer m.Stop()

	assert.Equal(t, 600, session.Window.Width)
	assert.Equal(t, 800, session.Window.Height)
	assert.Equal(t, 1920/2-600/2, session.Window.X)
}

func TestStartInvalidSizeRejected(t *testing.T) {
	m := newTestManager(&fakeNavigator{})

	_, err := m.Start(context.Background(), StartOptions{
		Browser: "chrome",
		URL:     "https://example.com",
		Height:  "tall",
		Width:   "600",
	})
	assert.Error(t, err)
}

func TestStartUnknownBrowserFallsBackToChrome(t *testing.T) {
	m := newTestManager(&fakeNavigator{})

	session, err := m.Start(context.Background(), StartOptions{
		Browser: "netscape",
		URL:     "https://example.com",
	})
	require.NoError(t, err)
	defer m.Stop()

	assert.Equal(t, DefaultBrowser, session.Browser)
}

func TestStartEmptyURLBuiltFromHostPort(t *testing.T) {
	m := newTestManager(&fakeNavigator{})

	session, err := m.Start(context.Background(), StartOptions{
		Browser: "chrome",
		Host:    "127.0.0.1",
		Port:    "8080",
	})
	require.NoError(t, err)
	defer m.Stop()

	assert.Equal(t, "http://127.0.0.1:8080", session.URL)
}

func TestStopWithoutSessionIsNoOp(t *testing.T) {
	m := newTestManager(&fakeNavigator{})

	session, found := m.Stop()
	assert.Nil(t, session)
	assert.False(t, found)
}

func TestStartOverLiveSessionReplacesIt(t *testing.T) {
	nav := &fakeNavigator{}
	m := newTestManager(nav)

	first, err := m.Start(context.Background(), StartOptions{
		Browser: "chrome",
		URL:     "https://example.com/one",
	})
	require.NoError(t, err)

	second, err := m.Start(context.Background(), StartOptions{
		Browser: "chrome",
		URL:     "https://example.com/two",
	})
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, second.ID)

	current, found := m.Current()
	require.True(t, found)
	assert.Equal(t, second.ID, current.ID)

	stopped, found := m.Stop()
	require.True(t, found)
	assert.Equal(t, second.ID, stopped.ID)

	_, found = m.Current()
	assert.False(t, found)
}

func TestStopCancelsBlockedNavigation(t *testing.T) {
	nav := &fakeNavigator{block: make(chan struct{})}
	m := newTestManager(nav)

	_, err := m.Start(context.Background(), StartOptions{
		Browser: "chrome",
		URL:     "https://example.com",
	})
	require.NoError(t, err)

	// Navigation is parked on the block channel; Stop must cancel it
	// rather than hang.
	_, found := m.Stop()
	assert.True(t, found)
	assert.Equal(t, int64(0), atomic.LoadInt64(&nav.visits))
}
