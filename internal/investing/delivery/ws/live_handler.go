package ws

import (
	"context"
	"net/http"
	"time"

	"investing-backend/internal/investing/service"
	"investing-backend/pkg/logger"
	"investing-backend/pkg/utils"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 45 * time.Second
)

// LiveHandler upgrades clients onto the live price channel.
type LiveHandler struct {
	baseCtx     context.Context
	broadcaster *service.Broadcaster
	upgrader    websocket.Upgrader
	logger      *logger.Logger
}

// NewLiveHandler creates a new LiveHandler. Streams end when baseCtx is done.
// Origins are checked against allowOrigins; "*" allows all.
func NewLiveHandler(baseCtx context.Context, broadcaster *service.Broadcaster, allowOrigins []string, logger *logger.Logger) *LiveHandler {
	allowed := make(map[string]struct{}, len(allowOrigins))
	for _, o := range allowOrigins {
		allowed[o] = struct{}{}
	}
	return &LiveHandler{
		baseCtx:     baseCtx,
		broadcaster: broadcaster,
		logger:      logger,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if origin == "" {
					return true
				}
				if _, ok := allowed["*"]; ok {
					return true
				}
				_, ok := allowed[origin]
				return ok
			},
		},
	}
}

// RegisterRoutes registers the websocket route.
func (h *LiveHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/ws/live", h.Live)
}

// conn bounds every data frame write. Only the stream goroutine writes through it.
type conn struct {
	*websocket.Conn
}

func (c conn) WriteJSON(v interface{}) error {
	if err := c.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return c.Conn.WriteJSON(v)
}

// Live streams liveMutualFunds and liveStocks events until the client disconnects
// or the server shuts down.
func (h *LiveHandler) Live(c echo.Context) error {
	ws, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		h.logger.WarnContext(c.Request().Context(), "Failed to upgrade websocket", logger.ErrorField(err))
		return nil
	}
	defer ws.Close()

	connID := uuid.NewString()
	ctx, cancel := context.WithCancel(logger.WithRequestID(h.baseCtx, connID))
	defer cancel()

	done := make(chan struct{})
	utils.GoSafe(ctx, h.logger, func() {
		defer close(done)
		defer cancel()
		if err := h.broadcaster.Stream(ctx, connID, conn{ws}); err != nil {
			h.logger.DebugContext(ctx, "Live stream ended", logger.ErrorField(err), logger.StringField("conn_id", connID))
		}
	})

	// the writer goroutine owns all data frames; pings go through WriteControl, which is concurrency safe
	utils.GoSafe(ctx, h.logger, func() {
		ticker := time.NewTicker(pingPeriod)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := ws.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
					cancel()
					return
				}
			}
		}
	})

	_ = ws.SetReadDeadline(time.Now().Add(pongWait))
	ws.SetPongHandler(func(string) error {
		return ws.SetReadDeadline(time.Now().Add(pongWait))
	})
	readLoop(ctx, ws)
	cancel()
	<-done
	return nil
}

// readLoop discards inbound frames and returns when the client goes away.
func readLoop(ctx context.Context, ws *websocket.Conn) {
	go func() {
		<-ctx.Done()
		// unblock ReadMessage when the stream stops first
		_ = ws.SetReadDeadline(time.Now())
	}()
	for {
		if _, _, err := ws.ReadMessage(); err != nil {
			return
		}
	}
}
