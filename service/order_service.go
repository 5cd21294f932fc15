// Package service wraps the matching engine for the daemon: one write
// entry point that serializes all mutations, records metrics, hands
// fills to the outbox, and feeds the market-data streams.
package service

import (
	"encoding/json"
	"sync"

	"github.com/rs/zerolog"

	"lob/domain/matching"
	"lob/domain/orderbook"
	"lob/infra/metrics"
	"lob/infra/outbox"
	"lob/infra/sequence"
)

// BookTop is one top-of-book observation for the feeds.
type BookTop struct {
	Bid    int64 `json:"bid"`
	Ask    int64 `json:"ask"`
	HasBid bool  `json:"hasBid"`
	HasAsk bool  `json:"hasAsk"`
}

// TradeEvent is the wire form of a fill, JSON-encoded into the outbox
// payload and the websocket trade stream.
type TradeEvent struct {
	V     int    `json:"v"`
	Type  string `json:"type"`
	Seq   uint64 `json:"seq"`
	Maker uint64 `json:"maker"`
	Taker uint64 `json:"taker"`
	Price int64  `json:"price"`
	Qty   int64  `json:"qty"`
}

// OrderService serializes engine access behind one mutex: each submit,
// cancel, or modify executes as one atomic unit, so price-time priority
// never sees an interleaved partial operation.
type OrderService struct {
	mu       sync.Mutex
	eng      *matching.Engine
	eventSeq *sequence.Sequencer
	outbox   *outbox.Outbox // nil disables the feed path
	log      zerolog.Logger

	trades chan orderbook.Trade
	tops   chan BookTop
}

// New wires all dependencies; ob may be nil when the trade feed is
// disabled.
func New(eng *matching.Engine, ob *outbox.Outbox, log zerolog.Logger) *OrderService {
	return &OrderService{
		eng:      eng,
		eventSeq: sequence.New(0),
		outbox:   ob,
		log:      log,
		trades:   make(chan orderbook.Trade, 256),
		tops:     make(chan BookTop, 64),
	}
}

// TradeFeed streams fills to consumers. Slow consumers lose events, the
// engine never blocks on them.
func (s *OrderService) TradeFeed() <-chan orderbook.Trade { return s.trades }

// TopFeed streams top-of-book updates after each completed operation.
func (s *OrderService) TopFeed() <-chan BookTop { return s.tops }

// Submit places a new limit order.
func (s *OrderService) Submit(side orderbook.Side, price, qty int64) (uint64, []orderbook.Trade, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, trades, err := s.eng.Submit(side, price, qty)
	if err != nil {
		metrics.OrdersRejectedTotal.Inc()
		s.log.Debug().Err(err).Str("side", side.String()).
			Int64("price", price).Int64("qty", qty).Msg("order rejected")
		return 0, nil, err
	}

	metrics.OrdersSubmittedTotal.Inc()
	s.afterTrades(trades)
	s.afterMutation()

	s.log.Info().Uint64("id", id).Str("side", side.String()).
		Int64("price", price).Int64("qty", qty).
		Int("fills", len(trades)).Msg("order submitted")
	return id, trades, nil
}

// Cancel removes a resting order.
func (s *OrderService) Cancel(id uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	ok := s.eng.Cancel(id)
	if ok {
		metrics.OrdersCancelledTotal.Inc()
		s.afterMutation()
		s.log.Info().Uint64("id", id).Msg("order cancelled")
	}
	return ok
}

// Reduce shrinks an order at its current price, keeping time priority.
func (s *OrderService) Reduce(id uint64, newQty int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.eng.Reduce(id, newQty); err != nil {
		return err
	}
	metrics.OrdersModifiedTotal.WithLabelValues("reduce").Inc()
	s.afterMutation()
	return nil
}

// Replace reprices an order via cancel+resubmit, forfeiting priority.
func (s *OrderService) Replace(id uint64, newPrice, newQty int64) (uint64, []orderbook.Trade, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	newID, trades, err := s.eng.Replace(id, newPrice, newQty)
	if err != nil {
		return 0, nil, err
	}
	metrics.OrdersModifiedTotal.WithLabelValues("replace").Inc()
	s.afterTrades(trades)
	s.afterMutation()
	return newID, trades, nil
}

// Top returns the current top of book.
func (s *OrderService) Top() BookTop {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.top()
}

// Depth returns up to levels aggregated entries per side, best first.
func (s *OrderService) Depth(levels int) (bids, asks []orderbook.LevelView) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.eng.Book().Depth(levels)
}

func (s *OrderService) top() BookTop {
	var t BookTop
	t.Bid, t.HasBid = s.eng.BestBid()
	t.Ask, t.HasAsk = s.eng.BestAsk()
	return t
}

// afterTrades records fills and enqueues them for delivery.
func (s *OrderService) afterTrades(trades []orderbook.Trade) {
	for _, tr := range trades {
		metrics.TradesTotal.Inc()
		metrics.TradedVolumeTotal.Add(float64(tr.Qty))

		select {
		case s.trades <- tr:
		default:
		}

		if s.outbox == nil {
			continue
		}
		seq := s.eventSeq.Next()
		payload, err := json.Marshal(TradeEvent{
			V:     1,
			Type:  "trade",
			Seq:   seq,
			Maker: tr.MakerID,
			Taker: tr.TakerID,
			Price: tr.Price,
			Qty:   tr.Qty,
		})
		if err != nil {
			continue
		}
		if err := s.outbox.Put(seq, payload); err != nil {
			s.log.Error().Err(err).Uint64("seq", seq).Msg("outbox write failed")
		}
	}
}

// afterMutation refreshes gauges and publishes the new top of book.
func (s *OrderService) afterMutation() {
	metrics.RestingOrders.Set(float64(s.eng.Book().OrderCount()))

	t := s.top()
	if t.HasBid {
		metrics.BestBidCents.Set(float64(t.Bid))
	} else {
		metrics.BestBidCents.Set(0)
	}
	if t.HasAsk {
		metrics.BestAskCents.Set(float64(t.Ask))
	} else {
		metrics.BestAskCents.Set(0)
	}

	select {
	case s.tops <- t:
	default:
	}
}
