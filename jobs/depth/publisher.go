// Package depth periodically publishes aggregated book snapshots to a
// market-data topic. Snapshots are fire-and-forget; a missed tick is
// replaced by the next one.
package depth

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"lob/domain/orderbook"
	"lob/infra/kafka"
	"lob/service"
)

type Snapshot struct {
	V    int                   `json:"v"`
	Type string                `json:"type"`
	Seq  uint64                `json:"seq"`
	Bids []orderbook.LevelView `json:"bids"`
	Asks []orderbook.LevelView `json:"asks"`
}

type Publisher struct {
	svc      *service.OrderService
	producer *kafka.Producer
	levels   int
	interval time.Duration
	log      zerolog.Logger
	seq      uint64
}

func New(svc *service.OrderService, producer *kafka.Producer, levels int, interval time.Duration, log zerolog.Logger) *Publisher {
	return &Publisher{
		svc:      svc,
		producer: producer,
		levels:   levels,
		interval: interval,
		log:      log,
	}
}

func (p *Publisher) Start(ctx context.Context) {
	p.log.Info().Int("levels", p.levels).Msg("depth publisher started")

	go func() {
		ticker := time.NewTicker(p.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				p.publishOnce(ctx)
			}
		}
	}()
}

func (p *Publisher) publishOnce(ctx context.Context) {
	bids, asks := p.svc.Depth(p.levels)
	p.seq++

	payload, err := json.Marshal(Snapshot{
		V:    1,
		Type: "depth",
		Seq:  p.seq,
		Bids: bids,
		Asks: asks,
	})
	if err != nil {
		return
	}

	key := []byte(strconv.FormatUint(p.seq, 10))
	if err := p.producer.Send(ctx, key, payload); err != nil {
		p.log.Warn().Err(err).Msg("depth publish failed")
	}
}
