package browser

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/playgroundlab/webstack/internal/infrastructure/logging"
	"github.com/playgroundlab/webstack/internal/shared/id"
)

// Navigator drives a started session to its URL. The production
// implementation fetches through the shared outbound client, standing in
// for a real driver process.
type Navigator interface {
	Navigate(ctx context.Context, url string) error
}

// Window is the resolved geometry of a session.
type Window struct {
	X         int  `json:"x"`
	Y         int  `json:"y"`
	Width     int  `json:"width"`
	Height    int  `json:"height"`
	Maximized bool `json:"maximized"`
}

// Session is one running browser session.
type Session struct {
	ID        id.SessionID `json:"id"`
	Browser   string       `json:"browser"`
	URL       string       `json:"url"`
	Device    string       `json:"device,omitempty"`
	Window    Window       `json:"window"`
	StartedAt time.Time    `json:"started_at"`

	cancel context.CancelFunc
	done   chan struct{}

	mu      sync.Mutex
	history []string
}

// History returns the URLs the session has navigated to.
func (s *Session) History() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.history))
	copy(out, s.history)
	return out
}

func (s *Session) recordVisit(url string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = append(s.history, url)
}

// StartOptions carries the submitted control panel payload.
type StartOptions struct {
	Browser    string `form:"browser"`
	URL        string `form:"url"`
	Host       string `form:"host"`
	Port       string `form:"port"`
	Height     string `form:"height"`
	Width      string `form:"width"`
	Breakpoint string `form:"breakpoint"`
	Device     string `form:"device"`
}

// Screen holds the display metrics used for centering and breakpoint
// heights.
type Screen struct {
	Width  int
	Height int
}

// Manager owns the single active session. Start and Stop are serialized,
// and starting over a live session stops it first, so overlapping requests
// can never clobber each other's driver.
type Manager struct {
	navigator Navigator
	screen    Screen
	logger    *logging.Logger

	mu      sync.Mutex
	current *Session
}

// NewManager creates a session manager.
func NewManager(navigator Navigator, screen Screen, logger *logging.Logger) *Manager {
	return &Manager{
		navigator: navigator,
		screen:    screen,
		logger:    logger,
	}
}

// Start launches a session from the submitted options. An unknown browser
// falls back to chrome with a warning; a live session is stopped first.
func (m *Manager) Start(ctx context.Context, opts StartOptions) (*Session, error) {
	window, err := m.resolveWindow(opts)
	if err != nil {
		return nil, err
	}

	browserName := opts.Browser
	if !KnownBrowser(browserName) {
		m.logger.Warn("invalid browser provided, launching chrome instead",
			zap.String("browser", browserName),
			zap.Strings("known", Browsers()),
		)
		browserName = DefaultBrowser
	}

	url := opts.URL
	if url == "" {
		url = fmt.Sprintf("http://%s:%s", opts.Host, opts.Port)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.current != nil {
		m.stopLocked()
	}

	navCtx, cancel := context.WithCancel(context.Background())
	session := &Session{
		ID:        id.NewSessionID(),
		Browser:   browserName,
		URL:       url,
		Device:    opts.Device,
		Window:    window,
		StartedAt: time.Now(),
		cancel:    cancel,
		done:      make(chan struct{}),
	}
	m.current = session

	// Navigation runs on its own goroutine so Start returns immediately.
	go func() {
		defer close(session.done)
		if err := m.navigator.Navigate(navCtx, url); err != nil {
			m.logger.Warn("session navigation failed",
				zap.String("session_id", session.ID.String()),
				zap.String("url", url),
				zap.Error(err),
			)
			return
		}
		session.recordVisit(url)
	}()

	m.logger.Info("browser session started",
		zap.String("session_id", session.ID.String()),
		zap.String("browser", session.Browser),
		zap.String("url", url),
		zap.Bool("maximized", window.Maximized),
		zap.Int("width", window.Width),
		zap.Int("height", window.Height),
	)

	return session, nil
}

// Stop ends the active session. Stopping with no session is a no-op and
// reports found=false.
func (m *Manager) Stop() (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stopLocked()
}

func (m *Manager) stopLocked() (*Session, bool) {
	session := m.current
	if session == nil {
		m.logger.Info("stop requested with no active session")
		return nil, false
	}

	session.cancel()
	<-session.done
	m.current = nil

	m.logger.Info("browser session stopped",
		zap.String("session_id", session.ID.String()),
		zap.Duration("lifetime", time.Since(session.StartedAt)),
	)

	return session, true
}

// Current returns the active session, if any.
func (m *Manager) Current() (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current, m.current != nil
}

// resolveWindow applies the geometry rules: a breakpoint pins the
// width and caps the height, empty sizes maximize, anything else resizes
// and centers.
func (m *Manager) resolveWindow(opts StartOptions) (Window, error) {
	if opts.Breakpoint != "" {
		width, ok := BreakpointValue(opts.Breakpoint)
		if !ok {
			return Window{}, fmt.Errorf("invalid breakpoint %q", opts.Breakpoint)
		}
		height := m.screen.Height - 100
		if height > 800 {
			height = 800
		}
		return m.centered(width, height), nil
	}

	if opts.Height == "" && opts.Width == "" {
		return Window{
			Width:     m.screen.Width,
			Height:    m.screen.Height,
			Maximized: true,
		}, nil
	}

	height, err := strconv.Atoi(opts.Height)
	if err != nil || height <= 0 {
		return Window{}, fmt.Errorf("invalid height %q", opts.Height)
	}
	width, err := strconv.Atoi(opts.Width)
	if err != nil || width <= 0 {
		return Window{}, fmt.Errorf("invalid width %q", opts.Width)
	}

	return m.centered(width, height), nil
}

func (m *Manager) centered(width, height int) Window {
	return Window{
		X:      m.screen.Width/2 - width/2,
		Y:      m.screen.Height/2 - height/2,
		Width:  width,
		Height: height,
	}
}
