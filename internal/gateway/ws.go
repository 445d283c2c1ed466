package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/bissquit/statusdash/internal/dashboard"
	"github.com/bissquit/statusdash/internal/pkg/ctxlog"
	"github.com/bissquit/statusdash/internal/pkg/httputil"
	"github.com/bissquit/statusdash/internal/pkg/metrics"
	"github.com/bissquit/statusdash/internal/uptime"
	"github.com/gorilla/websocket"
)

const wsWriteTimeout = 5 * time.Second

// Frame types.
const (
	FrameStatus = "status"
	FrameUptime = "uptime"
	FrameError  = "error"
)

// Frame is one websocket message sent to the browser.
type Frame struct {
	Type  string `json:"type"`
	Data  any    `json:"data,omitempty"`
	Error string `json:"error,omitempty"`
}

// PeriodRequest is sent by the browser to switch the uptime period.
type PeriodRequest struct {
	Period string `json:"period"`
}

// checkOrigin admits same-host pages and the configured origins.
func checkOrigin(allowed []string) func(r *http.Request) bool {
	set := make(map[string]bool, len(allowed))
	for _, o := range allowed {
		set[o] = true
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" || set["*"] || set[origin] {
			return true
		}
		u, err := url.Parse(origin)
		if err != nil {
			return false
		}
		return strings.EqualFold(u.Host, strings.TrimSpace(r.Host))
	}
}

// connWriter serializes writes to a websocket connection.
type connWriter struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (c *connWriter) write(f Frame) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
	return c.conn.WriteJSON(f)
}

// streamContext detaches the stream from request deadlines while keeping
// request-scoped values such as the logger and session.
func streamContext(r *http.Request, stream string) (context.Context, context.CancelFunc) {
	return context.WithCancel(ctxlog.With(context.WithoutCancel(r.Context()), "stream", stream))
}

// StatusStream handles GET /ws/status. It pushes the status page on connect
// and then every push interval until the browser disconnects.
func (h *Handler) StatusStream(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer func() { _ = conn.Close() }()

	gauge := metrics.WebsocketConnections.WithLabelValues(FrameStatus)
	gauge.Inc()
	defer gauge.Dec()

	ctx, cancel := streamContext(r, "status")
	defer cancel()

	out := &connWriter{conn: conn}
	push := func() error {
		page, err := dashboard.LoadStatusPage(ctx, h.client, h.history, h.now())
		if err != nil {
			ctxlog.FromContext(ctx).Warn("status stream refresh failed", "error", err)
			return out.write(Frame{Type: FrameError, Error: "status unavailable"})
		}
		return out.write(Frame{Type: FrameStatus, Data: page})
	}

	if err := push(); err != nil {
		return
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(h.config.PushInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := push(); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}

// UptimeStream handles GET /ws/uptime/{id}. The browser switches periods by
// sending PeriodRequest messages. Responses to superseded selections are
// dropped, so the last frame always matches the last selected period.
func (h *Handler) UptimeStream(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	period, err := uptime.ParsePeriod(r.URL.Query().Get("period"))
	if err != nil {
		httputil.Error(w, http.StatusBadRequest, "period must be one of 24h, 7d, 30d")
		return
	}

	view := dashboard.NewUptimeView(h.upstream(r), id)

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer func() { _ = conn.Close() }()

	gauge := metrics.WebsocketConnections.WithLabelValues(FrameUptime)
	gauge.Inc()
	defer gauge.Dec()

	var wg sync.WaitGroup
	defer wg.Wait()

	ctx, cancel := streamContext(r, "uptime")
	defer cancel()

	out := &connWriter{conn: conn}
	selectPeriod := func(p uptime.Period) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			view.SelectFunc(ctx, p, func(snap dashboard.UptimeSnapshot, err error) {
				if err != nil {
					ctxlog.FromContext(ctx).Warn("uptime fetch failed", "service_id", id, "period", p, "error", err)
				}
				_ = out.write(Frame{Type: FrameUptime, Data: snap})
			})
		}()
	}

	selectPeriod(period)

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			return
		}

		var req PeriodRequest
		if err := json.Unmarshal(msg, &req); err != nil {
			_ = out.write(Frame{Type: FrameError, Error: "invalid json"})
			continue
		}
		p, err := uptime.ParsePeriod(req.Period)
		if err != nil {
			_ = out.write(Frame{Type: FrameError, Error: err.Error()})
			continue
		}
		selectPeriod(p)
	}
}
