package bridge

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/gazeweb/internal/gaze"
	"github.com/GriffinCanCode/gazeweb/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/gazeweb/internal/page"
	"github.com/GriffinCanCode/gazeweb/internal/pipeline"
	"github.com/GriffinCanCode/gazeweb/internal/shared/id"
)

var errNoFocusedTab = errors.New("no focused tab")

// Target is the tab side of a connection.
type Target interface {
	Enqueue(s gaze.Sample) bool
	UpdatePage(s page.State) error
	SubmitText(text string, submit bool) error
	Attach(sink page.Sink, feedback page.FeedbackSink) (detach func())
}

// Resolver finds the target of a connection. An empty tab id selects the
// focused tab.
type Resolver interface {
	Resolve(tabID string) (Target, bool)
}

// ResolverFunc adapts a function to Resolver.
type ResolverFunc func(tabID string) (Target, bool)

// Resolve implements Resolver.
func (f ResolverFunc) Resolve(tabID string) (Target, bool) { return f(tabID) }

// Config tunes the bridge.
type Config struct {
	ReadLimit    int64
	WriteTimeout time.Duration
	// PingInterval is the keepalive period; a connection silent for two
	// intervals is dropped. Zero disables keepalive.
	PingInterval   time.Duration
	SendBuffer     int
	FeedbackRate   float64
	FeedbackBurst  int
	AllowedOrigins []string
	// BreakerFailures consecutive failed writes open the write breaker for
	// BreakerTimeout.
	BreakerFailures uint32
	BreakerTimeout  time.Duration
}

// DefaultConfig returns the bridge defaults.
func DefaultConfig() Config {
	return Config{
		ReadLimit:       1 << 20,
		WriteTimeout:    5 * time.Second,
		PingInterval:    30 * time.Second,
		SendBuffer:      256,
		FeedbackRate:    30,
		FeedbackBurst:   10,
		AllowedOrigins:  []string{"*"},
		BreakerFailures: 3,
		BreakerTimeout:  2 * time.Second,
	}
}

// Handler manages WebSocket connections
type Handler struct {
	cfg      Config
	tabs     Resolver
	upgrader websocket.Upgrader
	log      *zap.Logger
	metrics  *monitoring.Metrics
}

// NewHandler creates a new WebSocket handler
func NewHandler(cfg Config, tabs Resolver, log *zap.Logger, metrics *monitoring.Metrics) *Handler {
	def := DefaultConfig()
	if cfg.SendBuffer <= 0 {
		cfg.SendBuffer = def.SendBuffer
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = def.WriteTimeout
	}
	if cfg.BreakerFailures == 0 {
		cfg.BreakerFailures = def.BreakerFailures
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{
		cfg:  cfg,
		tabs: tabs,
		upgrader: websocket.Upgrader{
			CheckOrigin: originChecker(cfg.AllowedOrigins),
		},
		log:     log,
		metrics: metrics,
	}
}

func originChecker(allowed []string) func(*http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		for _, a := range allowed {
			if a == "*" || a == origin {
				return true
			}
		}
		return false
	}
}

// ServeTab handles the page client connection of the tab named by the "id"
// route parameter.
func (h *Handler) ServeTab(c *gin.Context) {
	tabID := c.Param("id")
	target, ok := h.tabs.Resolve(tabID)
	if tabID == "" || !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "tab not found"})
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", zap.String("tab_id", tabID), zap.Error(err))
		return
	}
	cl := h.open(conn, tabID)
	defer h.close(cl)

	detach := target.Attach(cl, cl)
	defer detach()

	h.readLoop(cl, func(msg Inbound) error {
		return dispatch(target, msg)
	})
}

// ServeTracker handles a tracker stream. Samples are delivered to whichever
// tab is focused when they arrive.
func (h *Handler) ServeTracker(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	cl := h.open(conn, "")
	defer h.close(cl)

	h.readLoop(cl, func(msg Inbound) error {
		if msg.Type != TypeSample && msg.Type != TypeSamples {
			return fmt.Errorf("%q is not accepted on the tracker stream", msg.Type)
		}
		target, ok := h.tabs.Resolve("")
		if !ok {
			return errNoFocusedTab
		}
		if err := dispatch(target, msg); err != nil && !errors.Is(err, pipeline.ErrClosed) {
			return err
		}
		return nil
	})
}

func (h *Handler) open(conn *websocket.Conn, tabID string) *client {
	connID := id.NewConnID().String()
	log := h.log.With(zap.String("conn_id", connID))
	if tabID != "" {
		log = log.With(zap.String("tab_id", tabID))
	}

	cl := newClient(connID, conn, h.cfg, log, h.metrics)
	h.metrics.IncWSConnections()
	go cl.writePump()
	log.Info("websocket connected", zap.String("remote", conn.RemoteAddr().String()))
	return cl
}

func (h *Handler) close(cl *client) {
	cl.close()
	_ = cl.conn.Close()
	h.metrics.DecWSConnections()
	cl.log.Info("websocket disconnected")
}

func (h *Handler) readLoop(cl *client, handle func(Inbound) error) {
	if h.cfg.ReadLimit > 0 {
		cl.conn.SetReadLimit(h.cfg.ReadLimit)
	}
	wait := 2 * h.cfg.PingInterval
	if wait > 0 {
		_ = cl.conn.SetReadDeadline(time.Now().Add(wait))
		cl.conn.SetPongHandler(func(string) error {
			return cl.conn.SetReadDeadline(time.Now().Add(wait))
		})
	}

	for {
		_, data, err := cl.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				cl.log.Warn("websocket read error", zap.Error(err))
			}
			return
		}
		if wait > 0 {
			_ = cl.conn.SetReadDeadline(time.Now().Add(wait))
		}

		msg, err := Decode(data)
		if err != nil {
			h.metrics.RecordWSMessage("in", "invalid")
			cl.sendError(err.Error())
			continue
		}
		h.metrics.RecordWSMessage("in", msg.Type)

		if msg.Type == TypePing {
			_ = cl.enqueue(Outbound{Type: TypePong})
			continue
		}
		if err := handle(msg); err != nil {
			cl.sendError(err.Error())
			if errors.Is(err, pipeline.ErrClosed) {
				return
			}
		}
	}
}

// dispatch delivers an inbound message to its tab.
func dispatch(t Target, msg Inbound) error {
	switch msg.Type {
	case TypeSample:
		if !t.Enqueue(*msg.Sample) {
			return pipeline.ErrClosed
		}
	case TypeSamples:
		for _, s := range msg.Samples {
			if !t.Enqueue(s) {
				return pipeline.ErrClosed
			}
		}
	case TypePageState:
		return t.UpdatePage(*msg.Page)
	case TypeText:
		return t.SubmitText(msg.Text, msg.Submit)
	}
	return nil
}
