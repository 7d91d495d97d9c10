package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/playgroundlab/webstack/internal/api/ws"
	"github.com/playgroundlab/webstack/internal/browser"
	"github.com/playgroundlab/webstack/internal/fetch"
	"github.com/playgroundlab/webstack/internal/infrastructure/logging"
	"github.com/playgroundlab/webstack/internal/infrastructure/monitoring"
	"github.com/playgroundlab/webstack/internal/spider"
)

// Handlers contains all HTTP handlers
type Handlers struct {
	spider  *spider.Service
	manager *browser.Manager
	catalog *browser.Catalog
	fetcher *fetch.Client
	metrics *monitoring.Metrics
	stream  *ws.Hub
	logger  *logging.Logger
}

// NewHandlers creates a new handler set
func NewHandlers(
	spiderSvc *spider.Service,
	manager *browser.Manager,
	catalog *browser.Catalog,
	fetcher *fetch.Client,
	metrics *monitoring.Metrics,
	stream *ws.Hub,
	logger *logging.Logger,
) *Handlers {
	return &Handlers{
		spider:  spiderSvc,
		manager: manager,
		catalog: catalog,
		fetcher: fetcher,
		metrics: metrics,
		stream:  stream,
		logger:  logger,
	}
}

// Root handles the index
func (h *Handlers) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "online",
		"service": "webstack playground",
		"version": "0.1.0",
	})
}

// Health handles detailed health check
func (h *Handlers) Health(c *gin.Context) {
	_, active := h.manager.Current()
	c.JSON(http.StatusOK, gin.H{
		"status":             "healthy",
		"session_active":     active,
		"stream_subscribers": h.stream.Subscribers(),
		"fetch_breaker":      h.fetcher.BreakerState(),
	})
}

// SpiderRequest is the crawl form: the URL to trace and an optional depth.
type SpiderRequest struct {
	URL   string `form:"url" json:"url" binding:"required"`
	Depth int    `form:"depth" json:"depth"`
}

// Spider crawls a page and returns its outbound https links
func (h *Handlers) Spider(c *gin.Context) {
	var req SpiderRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	start := time.Now()

	result, err := h.spider.Trace(c.Request.Context(), req.URL, req.Depth)
	if err != nil {
		h.logger.Warn("crawl failed", zap.String("url", req.URL), zap.Error(err))
		h.metrics.RecordCrawl("error", time.Since(start), 0)
		h.stream.PublishError("spider", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	h.metrics.RecordCrawl("success", time.Since(start), result.Count)
	h.stream.Publish("crawl", result)

	c.JSON(http.StatusOK, result)
}

// BrowserStart launches a browser session
func (h *Handlers) BrowserStart(c *gin.Context) {
	var opts browser.StartOptions
	if err := c.ShouldBind(&opts); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	session, err := h.manager.Start(c.Request.Context(), opts)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	h.metrics.RecordSessionStart(session.Browser)
	h.stream.Publish("session_start", session)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"session": session,
	})
}

// BrowserStop stops the active browser session
func (h *Handlers) BrowserStop(c *gin.Context) {
	session, stopped := h.manager.Stop()
	if !stopped {
		h.stream.Publish("session_stop", gin.H{"active": false})
		c.JSON(http.StatusOK, gin.H{
			"success": false,
			"message": "no active session",
		})
		return
	}

	h.metrics.RecordSessionStop()
	h.stream.Publish("session_stop", gin.H{
		"id":      session.ID,
		"history": session.History(),
	})

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"session": session,
	})
}

// BrowserSession reports the active session, if any
func (h *Handlers) BrowserSession(c *gin.Context) {
	session, active := h.manager.Current()
	if !active {
		c.JSON(http.StatusOK, gin.H{"active": false})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"active":  true,
		"session": session,
		"history": session.History(),
	})
}

// BrowserOptions lists the selectable presets for the control panel
func (h *Handlers) BrowserOptions(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"browsers":    browser.Browsers(),
		"breakpoints": browser.Breakpoints(),
		"devices":     h.catalog.Devices(),
	})
}

// FormRequest carries the panel state plus the change that fired.
type FormRequest struct {
	State  browser.FormState `json:"state"`
	Change browser.Change    `json:"change" binding:"required"`
}

// BrowserForm applies a control panel change and returns the new state
func (h *Handlers) BrowserForm(c *gin.Context) {
	var req FormRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	req.State.Apply(h.catalog, req.Change, h.logger)

	c.JSON(http.StatusOK, gin.H{
		"state":   req.State,
		"payload": req.State.Payload(),
	})
}
