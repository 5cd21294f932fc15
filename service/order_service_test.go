package service

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"lob/domain/matching"
	"lob/domain/orderbook"
	"lob/infra/outbox"
)

func newService(t *testing.T) *OrderService {
	t.Helper()
	return New(matching.New(), nil, zerolog.Nop())
}

func TestSubmitAndTop(t *testing.T) {
	svc := newService(t)

	id, trades, err := svc.Submit(orderbook.Buy, 10000, 100)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if id == 0 || len(trades) != 0 {
		t.Errorf("id=%d trades=%v", id, trades)
	}

	top := svc.Top()
	if !top.HasBid || top.Bid != 10000 || top.HasAsk {
		t.Errorf("top = %+v", top)
	}
}

func TestSubmitRejectsInvalid(t *testing.T) {
	svc := newService(t)

	if _, _, err := svc.Submit(orderbook.Buy, 0, 100); !errors.Is(err, matching.ErrInvalidPrice) {
		t.Errorf("error = %v, want ErrInvalidPrice", err)
	}
	if _, _, err := svc.Submit(orderbook.Sell, 10000, -5); !errors.Is(err, matching.ErrInvalidQuantity) {
		t.Errorf("error = %v, want ErrInvalidQuantity", err)
	}
}

func TestTradeFeedDeliversFills(t *testing.T) {
	svc := newService(t)

	mustOK(t)(svc.Submit(orderbook.Buy, 10000, 50))
	mustOK(t)(svc.Submit(orderbook.Sell, 10000, 50))

	select {
	case tr := <-svc.TradeFeed():
		if tr.Price != 10000 || tr.Qty != 50 {
			t.Errorf("trade = %+v", tr)
		}
	default:
		t.Fatal("trade feed received nothing")
	}
}

func TestTopFeedPublishesAfterMutations(t *testing.T) {
	svc := newService(t)

	mustOK(t)(svc.Submit(orderbook.Buy, 10000, 10))

	select {
	case top := <-svc.TopFeed():
		if !top.HasBid || top.Bid != 10000 {
			t.Errorf("top = %+v", top)
		}
	default:
		t.Fatal("top feed received nothing")
	}
}

func TestCancelThroughFacade(t *testing.T) {
	svc := newService(t)
	id, _, _ := svc.Submit(orderbook.Buy, 10000, 10)

	if !svc.Cancel(id) {
		t.Fatal("cancel should succeed")
	}
	if svc.Cancel(id) {
		t.Error("double cancel should fail")
	}
	if top := svc.Top(); top.HasBid {
		t.Errorf("top = %+v, want empty", top)
	}
}

func TestReduceAndReplace(t *testing.T) {
	svc := newService(t)
	id, _, _ := svc.Submit(orderbook.Buy, 10000, 100)

	if err := svc.Reduce(id, 40); err != nil {
		t.Fatalf("reduce: %v", err)
	}
	if err := svc.Reduce(id, 90); !errors.Is(err, matching.ErrNotReduction) {
		t.Errorf("error = %v, want ErrNotReduction", err)
	}

	newID, trades, err := svc.Replace(id, 9900, 40)
	if err != nil {
		t.Fatalf("replace: %v", err)
	}
	if newID == id || len(trades) != 0 {
		t.Errorf("newID=%d trades=%v", newID, trades)
	}
	if top := svc.Top(); top.Bid != 9900 {
		t.Errorf("top = %+v, want bid 9900", top)
	}
}

func TestDepthThroughFacade(t *testing.T) {
	svc := newService(t)
	mustOK(t)(svc.Submit(orderbook.Buy, 10000, 10))
	mustOK(t)(svc.Submit(orderbook.Buy, 9900, 20))
	mustOK(t)(svc.Submit(orderbook.Sell, 10100, 30))

	bids, asks := svc.Depth(5)
	if len(bids) != 2 || len(asks) != 1 {
		t.Fatalf("depth = %d bids, %d asks", len(bids), len(asks))
	}
	if bids[0].Price != 10000 || bids[1].Price != 9900 {
		t.Errorf("bids not best first: %+v", bids)
	}
}

func TestOutboxReceivesTradeEvents(t *testing.T) {
	ob, err := outbox.Open(t.TempDir())
	if err != nil {
		t.Fatalf("open outbox: %v", err)
	}
	defer ob.Close()

	svc := New(matching.New(), ob, zerolog.Nop())
	mustOK(t)(svc.Submit(orderbook.Buy, 10000, 50))
	mustOK(t)(svc.Submit(orderbook.Sell, 10000, 50))

	var events []TradeEvent
	err = ob.ScanPending(func(rec outbox.Record) error {
		var ev TradeEvent
		if err := json.Unmarshal(rec.Payload, &ev); err != nil {
			return err
		}
		events = append(events, ev)
		return nil
	})
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("events = %d, want 1", len(events))
	}
	ev := events[0]
	if ev.Type != "trade" || ev.Price != 10000 || ev.Qty != 50 || ev.Seq != 1 {
		t.Errorf("event = %+v", ev)
	}
}

func mustOK(t *testing.T) func(uint64, []orderbook.Trade, error) {
	t.Helper()
	return func(_ uint64, _ []orderbook.Trade, err error) {
		t.Helper()
		if err != nil {
			t.Fatalf("submit: %v", err)
		}
	}
}
