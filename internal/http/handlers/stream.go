package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"virtual-vr-console/internal/logx"
	"virtual-vr-console/internal/service/console"
)

// Frame types exchanged on the console stream.
const (
	FrameCouriers  = "couriers"
	FrameCustomers = "customers"
	FrameError     = "error"
	FrameFilters   = "filters"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = pongWait * 9 / 10
	maxClientFrame = 64 << 10
)

// StreamFrame is a server to client message.
type StreamFrame struct {
	Type    string `json:"type"`
	Items   any    `json:"items,omitempty"`
	Stats   any    `json:"stats,omitempty"`
	Message string `json:"message,omitempty"`
}

// ClientFrame is a client to server message.
type ClientFrame struct {
	Type      string                 `json:"type"`
	Couriers  console.CourierFilter  `json:"couriers"`
	Customers console.CustomerFilter `json:"customers"`
}

// StreamHandler serves the live admin console over a WebSocket.
type StreamHandler struct {
	logger   logx.Logger
	console  consoleUsecase
	upgrader websocket.Upgrader
}

// NewStreamHandler creates a StreamHandler.
func NewStreamHandler(logger logx.Logger, c consoleUsecase) *StreamHandler {
	return &StreamHandler{
		logger:  loggerOrNop(logger),
		console: c,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
		},
	}
}

// Serve handles GET /api/admin/stream. The console session lives as long as
// the socket; both subscriptions stop when it closes.
func (h *StreamHandler) Serve(w http.ResponseWriter, r *http.Request) {
	s, ok := mustSession(h.logger, w, r)
	if !ok {
		return
	}
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", logx.String("req_id", reqID(r.Context())), logx.Err(err))
		return
	}
	defer conn.Close()

	log := h.logger.With(logx.String("actor", s.UID), logx.String("req_id", reqID(r.Context())))

	ctx, cancel := context.WithCancel(context.WithoutCancel(r.Context()))
	sess := h.console.Open(ctx, s.UID)
	defer func() {
		cancel()
		<-sess.Done()
	}()

	replies := make(chan StreamFrame, 4)
	go h.readLoop(conn, sess, replies, cancel, log)

	if err := h.writeLoop(ctx, conn, sess, replies); err != nil {
		log.Debug("console stream closed", logx.Err(err))
	}
}

// readLoop applies filter frames until the client goes away.
func (h *StreamHandler) readLoop(conn *websocket.Conn, sess *console.Session, replies chan<- StreamFrame, cancel context.CancelFunc, log logx.Logger) {
	defer cancel()

	conn.SetReadLimit(maxClientFrame)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		var frame ClientFrame
		if err := conn.ReadJSON(&frame); err != nil {
			var closeErr *websocket.CloseError
			if !errors.As(err, &closeErr) {
				log.Debug("console stream read ended", logx.Err(err))
			}
			return
		}
		if frame.Type != FrameFilters {
			continue
		}
		if err := sess.SetFilters(console.Filters{Couriers: frame.Couriers, Customers: frame.Customers}); err != nil {
			select {
			case replies <- StreamFrame{Type: FrameError, Message: err.Error()}:
			default:
			}
		}
	}
}

// writeLoop is the only writer on conn.
func (h *StreamHandler) writeLoop(ctx context.Context, conn *websocket.Conn, sess *console.Session, replies <-chan StreamFrame) error {
	ping := time.NewTicker(pingPeriod)
	defer ping.Stop()

	send := func(f StreamFrame) error {
		_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
		return conn.WriteJSON(f)
	}

	for {
		var err error
		select {
		case <-ctx.Done():
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(writeWait))
			return ctx.Err()
		case <-sess.Done():
			for {
				select {
				case <-sess.Errors():
					if err := send(StreamFrame{Type: FrameError, Message: console.LoadErrorMessage}); err != nil {
						return err
					}
				default:
					return nil
				}
			}
		case <-sess.CouriersChanged():
			v := sess.Couriers()
			err = send(StreamFrame{Type: FrameCouriers, Items: v.Items, Stats: v.Stats})
		case <-sess.CustomersChanged():
			v := sess.Customers()
			err = send(StreamFrame{Type: FrameCustomers, Items: v.Items, Stats: v.Stats})
		case e := <-sess.Errors():
			h.logger.Warn("console subscription error", logx.String("kind", string(e.Kind)), logx.Err(e.Err))
			err = send(StreamFrame{Type: FrameError, Message: console.LoadErrorMessage})
		case f := <-replies:
			err = send(f)
		case <-ping.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			err = conn.WriteMessage(websocket.PingMessage, nil)
		}
		if err != nil {
			return err
		}
	}
}
