package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/couchcryptid/buoy-swell-service/internal/chart"
)

// maxSelectBytes bounds one incoming frame. A selection is a few dozen bytes.
const maxSelectBytes = 4 << 10

// selectRequest is sent by the dashboard when the buoy or resolution changes.
type selectRequest struct {
	Station    int    `json:"station"`
	Resolution string `json:"resolution"`
}

// selectResponse carries either a fresh view or an error.
type selectResponse struct {
	Type   string `json:"type"` // "view" or "error"
	ConnID string `json:"conn_id"`
	*chart.View
	Error string `json:"error,omitempty"`
}

func (s *Server) upgrader() *websocket.Upgrader {
	u := &websocket.Upgrader{}
	if s.opts.CORSAllowAll {
		u.CheckOrigin = func(*http.Request) bool { return true }
	}
	return u
}

// handleWebSocket answers buoy selections on one connection until the client
// goes away. Requests on a connection are served in order.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader().Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()
	conn.SetReadLimit(maxSelectBytes)

	connID := uuid.NewString()
	logger := s.logger.With("conn_id", connID)
	s.metrics.WebsocketClients.Inc()
	defer s.metrics.WebsocketClients.Dec()
	logger.Debug("websocket connected", "remote_addr", r.RemoteAddr)

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if errors.Is(err, websocket.ErrReadLimit) {
				logger.Warn("websocket frame too large", "limit", maxSelectBytes)
				return
			}
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Warn("websocket read failed", "error", err)
			}
			return
		}

		resp := s.answerSelection(r.Context(), msg)
		resp.ConnID = connID
		if err := conn.WriteJSON(resp); err != nil {
			logger.Warn("websocket write failed", "error", err)
			return
		}
	}
}

func (s *Server) answerSelection(ctx context.Context, msg []byte) selectResponse {
	var req selectRequest
	if err := json.Unmarshal(msg, &req); err != nil {
		return selectResponse{Type: "error", Error: "invalid message format"}
	}

	res, err := parseResolution(req.Resolution)
	if err != nil {
		return selectResponse{Type: "error", Error: err.Error()}
	}

	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	report, err := s.service.Report(ctx, req.Station, res)
	if err != nil {
		s.logger.Warn("websocket report failed", "station_id", req.Station, "error", err)
		return selectResponse{Type: "error", Error: err.Error()}
	}

	view := chart.NewView(report, s.opts.Location)
	return selectResponse{Type: "view", View: &view}
}
