// Package sim generates in-process order flow for the daemon: random
// limit orders around the mid price with occasional cancels. It drives
// the service directly, so the engine stays free of any networked order
// entry.
package sim

import (
	"context"
	"math/rand"
	"time"

	"github.com/rs/zerolog"

	"lob/domain/orderbook"
	"lob/service"
)

type Sim struct {
	svc        *service.OrderService
	interval   time.Duration
	basePrice  int64 // cents, anchor when the book is empty
	rangeCents int64
	maxQty     int64
	log        zerolog.Logger

	rand *rand.Rand
	live []uint64
}

func New(svc *service.OrderService, interval time.Duration, basePrice, rangeCents, maxQty int64, log zerolog.Logger) *Sim {
	return &Sim{
		svc:        svc,
		interval:   interval,
		basePrice:  basePrice,
		rangeCents: rangeCents,
		maxQty:     maxQty,
		log:        log,
		rand:       rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (s *Sim) Start(ctx context.Context) {
	s.log.Info().Dur("interval", s.interval).Msg("simulator started")

	go func() {
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.step()
			}
		}
	}()
}

func (s *Sim) step() {
	// Roughly one in eight ticks cancels a live order instead of
	// placing a new one.
	if len(s.live) > 0 && s.rand.Intn(8) == 0 {
		i := s.rand.Intn(len(s.live))
		id := s.live[i]
		s.live = append(s.live[:i], s.live[i+1:]...)
		s.svc.Cancel(id)
		return
	}

	mid := s.mid()
	delta := s.rand.Int63n(s.rangeCents + 1)
	qty := 1 + s.rand.Int63n(s.maxQty)

	var side orderbook.Side
	var price int64
	if s.rand.Intn(2) == 0 {
		side = orderbook.Buy
		price = mid - delta
	} else {
		side = orderbook.Sell
		price = mid + delta
	}
	if price <= 0 {
		price = 1
	}

	id, trades, err := s.svc.Submit(side, price, qty)
	if err != nil {
		return
	}
	if len(trades) == 0 {
		s.live = append(s.live, id)
		if len(s.live) > 512 {
			s.live = s.live[1:]
		}
	}
}

func (s *Sim) mid() int64 {
	t := s.svc.Top()
	switch {
	case t.HasBid && t.HasAsk:
		return (t.Bid + t.Ask) / 2
	case t.HasBid:
		return t.Bid
	case t.HasAsk:
		return t.Ask
	default:
		return s.basePrice
	}
}
