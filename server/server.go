// Package server streams read-only market data over websockets:
// /ws/book for top-of-book updates and /ws/trades for fills. There is
// no order entry endpoint; order flow enters the engine in-process.
package server

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"lob/domain/orderbook"
	"lob/service"
)

type Server struct {
	svc      *service.OrderService
	tradeHub *hub[orderbook.Trade]
	bookHub  *hub[service.BookTop]
	upgrader websocket.Upgrader
	log      zerolog.Logger
}

type outboundMessage struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

func New(svc *service.OrderService, log zerolog.Logger) *Server {
	s := &Server{
		svc:      svc,
		tradeHub: newHub[orderbook.Trade](),
		bookHub:  newHub[service.BookTop](),
		upgrader: websocket.Upgrader{CheckOrigin: func(*http.Request) bool { return true }},
		log:      log,
	}

	go s.consumeTrades()
	go s.consumeTops()
	return s
}

func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws/trades", s.handleTradeStream)
	mux.HandleFunc("/ws/book", s.handleBookStream)
	mux.HandleFunc("/book", s.handleSnapshot)
	return mux
}

func (s *Server) consumeTrades() {
	for tr := range s.svc.TradeFeed() {
		s.tradeHub.Broadcast(tr)
	}
}

func (s *Server) consumeTops() {
	for top := range s.svc.TopFeed() {
		s.bookHub.Broadcast(top)
	}
}

// handleSnapshot serves a one-shot JSON depth snapshot.
func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	bids, asks := s.svc.Depth(10)
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"bids": bids,
		"asks": asks,
	})
}

func (s *Server) handleTradeStream(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	sub := s.tradeHub.Subscribe(64)
	defer s.tradeHub.Unsubscribe(sub)

	for tr := range sub.ch {
		msg := outboundMessage{Type: "trade", Data: tr}
		if err := conn.WriteJSON(msg); err != nil {
			s.log.Debug().Err(err).Msg("trade stream closed")
			return
		}
	}
}

func (s *Server) handleBookStream(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	sub := s.bookHub.Subscribe(64)
	defer s.bookHub.Unsubscribe(sub)

	// Send the current top immediately so clients do not wait for the
	// next mutation.
	if err := conn.WriteJSON(outboundMessage{Type: "book", Data: s.svc.Top()}); err != nil {
		return
	}

	for top := range sub.ch {
		if err := conn.WriteJSON(outboundMessage{Type: "book", Data: top}); err != nil {
			s.log.Debug().Err(err).Msg("book stream closed")
			return
		}
	}
}
