package bridge

import (
	"errors"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/GriffinCanCode/gazeweb/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/gazeweb/internal/infrastructure/resilience"
	"github.com/GriffinCanCode/gazeweb/internal/page"
)

var (
	// ErrBackpressure is returned when the send buffer of a connection is
	// full.
	ErrBackpressure = errors.New("send buffer full")
	// ErrConnClosed is returned when sending on a closed connection.
	ErrConnClosed = errors.New("connection closed")
)

type outgoing struct {
	kind string
	data []byte
}

// client is one WebSocket connection. It is the page.Sink and
// page.FeedbackSink of the tab it is attached to.
type client struct {
	id      string
	conn    *websocket.Conn
	cfg     Config
	log     *zap.Logger
	metrics *monitoring.Metrics
	breaker *resilience.Breaker
	limiter *rate.Limiter

	send      chan outgoing
	done      chan struct{}
	closeOnce sync.Once
}

func newClient(connID string, conn *websocket.Conn, cfg Config, log *zap.Logger, metrics *monitoring.Metrics) *client {
	limit := rate.Limit(cfg.FeedbackRate)
	if cfg.FeedbackRate <= 0 {
		limit = rate.Inf // Unlimited
	}
	c := &client{
		id:      connID,
		conn:    conn,
		cfg:     cfg,
		log:     log,
		metrics: metrics,
		limiter: rate.NewLimiter(limit, cfg.FeedbackBurst),
		send:    make(chan outgoing, cfg.SendBuffer),
		done:    make(chan struct{}),
	}
	c.breaker = resilience.New(resilience.Settings{
		Failures:     cfg.BreakerFailures,
		Cooldown:     cfg.BreakerTimeout,
		Trials:       1,
		WriteTimeout: cfg.WriteTimeout,
		OnStateChange: func(from, to resilience.State) {
			log.Warn("write breaker state changed",
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		},
		OnReject: func(kind string, _ error) {
			metrics.RecordWSMessage("dropped", kind)
		},
	})
	return c
}

// Emit implements page.Sink.
func (c *client) Emit(cmd page.Command) error {
	return c.enqueue(Outbound{Type: TypeCommand, Command: &cmd})
}

// Show implements page.FeedbackSink.
func (c *client) Show(fb page.Feedback) {
	if fb.Kind == page.FeedbackDwellProgress && !c.limiter.Allow() {
		c.metrics.IncFeedbackThrottled()
		return
	}
	if err := c.enqueue(Outbound{Type: TypeFeedback, Feedback: &fb}); err != nil {
		c.log.Debug("feedback dropped", zap.String("kind", string(fb.Kind)), zap.Error(err))
		return
	}
	c.metrics.RecordFeedback(string(fb.Kind))
}

func (c *client) sendError(msg string) {
	_ = c.enqueue(Outbound{Type: TypeError, Error: msg})
}

// enqueue never blocks.
func (c *client) enqueue(msg Outbound) error {
	select {
	case <-c.done:
		return ErrConnClosed
	default:
	}

	data, err := Encode(msg)
	if err != nil {
		return err
	}
	select {
	case c.send <- outgoing{kind: msg.Type, data: data}:
		return nil
	default:
		return ErrBackpressure
	}
}

func (c *client) writePump() {
	var ping <-chan time.Time
	if c.cfg.PingInterval > 0 {
		ticker := time.NewTicker(c.cfg.PingInterval)
		defer ticker.Stop()
		ping = ticker.C
	}

	for {
		select {
		case <-c.done:
			return
		case out := <-c.send:
			err := c.breaker.Execute(out.kind, func(deadline time.Time) error {
				_ = c.conn.SetWriteDeadline(deadline)
				return c.conn.WriteMessage(websocket.TextMessage, out.data)
			})
			if err == nil {
				c.metrics.RecordWSMessage("out", out.kind)
			} else if !resilience.Rejected(err) {
				c.log.Debug("websocket write failed", zap.String("type", out.kind), zap.Error(err))
				c.metrics.RecordWSMessage("failed", out.kind)
			}
		case <-ping:
			if err := c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(c.cfg.WriteTimeout)); err != nil {
				c.log.Debug("websocket ping failed", zap.Error(err))
			}
		}
	}
}

func (c *client) close() {
	c.closeOnce.Do(func() { close(c.done) })
}
