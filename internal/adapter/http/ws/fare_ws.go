package wshandler

import (
	"context"
	"encoding/json"
	"net/http"
	"slices"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/Temutjin2k/fare-predictor/internal/adapter/http/handler"
	"github.com/Temutjin2k/fare-predictor/internal/adapter/http/ws/dto"
	"github.com/Temutjin2k/fare-predictor/internal/domain/models"
	"github.com/Temutjin2k/fare-predictor/pkg/logger"
	wrap "github.com/Temutjin2k/fare-predictor/pkg/logger/wrapper"
	ws "github.com/Temutjin2k/fare-predictor/pkg/wsHub"
)

const maxMessageSize = 64 << 10

type Quoter interface {
	Quote(ctx context.Context, req models.TripRequest) (*models.FareQuote, error)
}

// FareWsHandler serves /ws/fares: every inbound trip message is answered
// with exactly one quote or error message.
type FareWsHandler struct {
	connections *ws.ConnectionHub
	quoter      Quoter
	upgrader    websocket.Upgrader
	l           logger.Logger
}

func NewFareWsHandler(connections *ws.ConnectionHub, quoter Quoter, allowedOrigins []string, l logger.Logger) *FareWsHandler {
	return &FareWsHandler{
		connections: connections,
		quoter:      quoter,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     checkOrigin(allowedOrigins),
		},
		l: l,
	}
}

// ServeHTTP godoc
// @Summary      Fare quote stream
// @Description  WebSocket session. Send trip JSON messages, receive one fare_quote or error message per trip.
// @Tags         Fares
// @Success      101
// @Router       /ws/fares [get]
func (h *FareWsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "fare_ws_session")

	raw, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.l.Warn(ctx, "websocket upgrade failed", "error", err.Error())
		return
	}
	raw.SetReadLimit(maxMessageSize)

	sessionID := uuid.New()
	// the request context ends once the handler returns; the session outlives it only through conn
	conn := ws.NewConn(context.WithoutCancel(ctx), sessionID, raw)
	if err := h.connections.Add(conn); err != nil {
		h.l.Warn(ctx, "websocket session rejected", "error", err.Error())
		_ = conn.Close()
		return
	}
	defer h.connections.Delete(sessionID)

	h.l.Debug(ctx, "websocket session opened", "session_id", sessionID)

	err = conn.Listen(func(data []byte) error {
		return h.handleMessage(ctx, conn, data)
	})
	if err != nil && err != ws.ErrConnClosed {
		h.l.Debug(ctx, "websocket session ended", "session_id", sessionID, "reason", err.Error())
		return
	}
	h.l.Debug(ctx, "websocket session closed", "session_id", sessionID)
}

// handleMessage only returns an error when the reply could not be written.
func (h *FareWsHandler) handleMessage(ctx context.Context, conn *ws.Conn, data []byte) error {
	var msg dto.TripMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return errorResponse(conn, "", http.StatusBadRequest, "message must be a JSON trip object")
	}

	if msg.RequestID != "" {
		ctx = wrap.WithRequestID(ctx, msg.RequestID)
	}

	quote, err := h.quoter.Quote(ctx, msg.TripRequest)
	if err != nil {
		code := handler.GetCode(err)
		if code >= http.StatusInternalServerError {
			h.l.Error(wrap.ErrorCtx(ctx, err), "failed to quote fare over websocket", err)
		}
		return errorResponse(conn, msg.RequestID, code, handler.ClientMessage(err))
	}

	return conn.Send(dto.QuoteMessage{
		Type:      dto.TypeFareQuote,
		RequestID: msg.RequestID,
		Quote:     quote,
	})
}

// checkOrigin allows requests without an Origin header, a wildcard, or a listed origin.
func checkOrigin(allowed []string) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" || len(allowed) == 0 {
			return true
		}
		return slices.Contains(allowed, "*") || slices.Contains(allowed, origin)
	}
}
