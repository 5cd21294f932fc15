// Package matching drives price-time priority matching over the book.
// The engine is single-threaded: each submit, cancel, or modify runs to
// completion before the next is accepted, so operations linearize in
// call order and the book is never observed mid-match.
package matching

import (
	"errors"
	"fmt"

	"lob/domain/orderbook"
	"lob/infra/sequence"
)

var (
	// ErrInvalidPrice and ErrInvalidQuantity reject a submission
	// before an order id is allocated.
	ErrInvalidPrice    = errors.New("price must be positive")
	ErrInvalidQuantity = errors.New("quantity must be positive")

	ErrOrderNotFound = errors.New("order not found")

	// ErrNotReduction rejects a same-price modify that is not a
	// strict quantity reduction. A rejected modify leaves the order
	// completely unchanged.
	ErrNotReduction = errors.New("same-price modify can only reduce quantity")
)

// Engine owns id assignment and the canonical append-only store of
// every order ever created. Orders leave the book on fill or cancel but
// their records persist for the engine's lifetime.
type Engine struct {
	book   *orderbook.OrderBook
	orders map[uint64]*orderbook.Order
	ids    *sequence.Sequencer
	clock  *sequence.Sequencer
}

func New() *Engine {
	return &Engine{
		book:   orderbook.NewOrderBook(),
		orders: make(map[uint64]*orderbook.Order),
		ids:    sequence.New(0),
		clock:  sequence.New(0),
	}
}

// Submit runs an incoming limit order through the matching walk and
// rests any unfilled remainder. Trades come back in occurrence order;
// an empty slice means the whole order rested.
func (e *Engine) Submit(side orderbook.Side, price, qty int64) (uint64, []orderbook.Trade, error) {
	if price <= 0 {
		return 0, nil, ErrInvalidPrice
	}
	if qty <= 0 {
		return 0, nil, ErrInvalidQuantity
	}

	o := &orderbook.Order{
		ID:        e.ids.Next(),
		Side:      side,
		Price:     price,
		Remaining: qty,
		Original:  qty,
		Timestamp: int64(e.clock.Next()),
		Status:    orderbook.Active,
	}
	e.orders[o.ID] = o

	trades := e.match(o)

	if o.Remaining > 0 {
		e.book.AddOrder(o)
	} else {
		o.Status = orderbook.Filled
	}
	return o.ID, trades, nil
}

// Cancel removes an order from the book. The canonical record stays,
// marked Cancelled. Unknown ids return false.
func (e *Engine) Cancel(id uint64) bool {
	if !e.book.CancelOrder(id) {
		return false
	}
	e.orders[id].Status = orderbook.Cancelled
	return true
}

// Reduce shrinks a resting order's quantity at its current price,
// keeping its place in the FIFO queue. It never generates trades.
func (e *Engine) Reduce(id uint64, newQty int64) error {
	o, ok := e.book.GetOrder(id)
	if !ok {
		return fmt.Errorf("%w: %d", ErrOrderNotFound, id)
	}
	if newQty >= o.Remaining {
		return ErrNotReduction
	}
	if !e.book.ModifyQuantity(id, newQty) {
		return ErrNotReduction
	}
	return nil
}

// Replace cancels an order and resubmits it at a new price and
// quantity through the full Submit path. Time priority is forfeited and
// the new order may trade immediately if it crosses.
func (e *Engine) Replace(id uint64, newPrice, newQty int64) (uint64, []orderbook.Trade, error) {
	o, ok := e.book.GetOrder(id)
	if !ok {
		return 0, nil, fmt.Errorf("%w: %d", ErrOrderNotFound, id)
	}
	// Validate before cancelling so a rejected replace leaves the
	// original order resting untouched.
	if newPrice <= 0 {
		return 0, nil, ErrInvalidPrice
	}
	if newQty <= 0 {
		return 0, nil, ErrInvalidQuantity
	}
	side := o.Side
	e.Cancel(id)
	return e.Submit(side, newPrice, newQty)
}

// Modify dispatches on whether the price changes: same price is a
// priority-preserving reduction, a new price is cancel+resubmit.
func (e *Engine) Modify(id uint64, newPrice, newQty int64) ([]orderbook.Trade, error) {
	o, ok := e.book.GetOrder(id)
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrOrderNotFound, id)
	}
	if newPrice == o.Price {
		return nil, e.Reduce(id, newQty)
	}
	_, trades, err := e.Replace(id, newPrice, newQty)
	return trades, err
}

// match walks the opposite side best-first, stopping at the first level
// whose price fails the inclusive crossing test. Whatever remains on
// the taker afterwards is the caller's to rest.
func (e *Engine) match(taker *orderbook.Order) []orderbook.Trade {
	var trades []orderbook.Trade

	if taker.Side == orderbook.Buy {
		for taker.Remaining > 0 {
			lvl := e.book.Asks.MinLevel()
			if lvl == nil || lvl.Price > taker.Price {
				break
			}
			trades = e.fillLevel(taker, lvl, trades)
			if lvl.Empty() {
				e.book.CleanLevel(orderbook.Sell, lvl.Price)
			}
		}
	} else {
		for taker.Remaining > 0 {
			lvl := e.book.Bids.MaxLevel()
			if lvl == nil || lvl.Price < taker.Price {
				break
			}
			trades = e.fillLevel(taker, lvl, trades)
			if lvl.Empty() {
				e.book.CleanLevel(orderbook.Buy, lvl.Price)
			}
		}
	}
	return trades
}

// fillLevel consumes one level oldest-first. Fills execute at the
// maker's resting price; price improvement accrues to the taker.
func (e *Engine) fillLevel(taker *orderbook.Order, lvl *orderbook.PriceLevel, trades []orderbook.Trade) []orderbook.Trade {
	for taker.Remaining > 0 && !lvl.Empty() {
		maker := lvl.Front()
		fill := min(taker.Remaining, maker.Remaining)

		trades = append(trades, orderbook.Trade{
			MakerID: maker.ID,
			TakerID: taker.ID,
			Price:   maker.Price,
			Qty:     fill,
		})

		taker.Remaining -= fill
		maker.Remaining -= fill
		lvl.AdjustTotal(fill)

		if maker.Remaining == 0 {
			e.book.RemoveFromIndex(maker.ID)
			lvl.PopFront()
			maker.Status = orderbook.Filled
		}
	}
	return trades
}

// Book exposes the passive book for read-only use (render, feeds).
func (e *Engine) Book() *orderbook.OrderBook { return e.book }

func (e *Engine) BestBid() (int64, bool)    { return e.book.BestBid() }
func (e *Engine) BestAsk() (int64, bool)    { return e.book.BestAsk() }
func (e *Engine) Spread() (float64, bool)   { return e.book.Spread() }
func (e *Engine) MidPrice() (float64, bool) { return e.book.MidPrice() }

// HasOrder reports whether id is resting in the book.
func (e *Engine) HasOrder(id uint64) bool { return e.book.HasOrder(id) }

// GetOrder returns a snapshot of an order from the canonical store,
// including filled and cancelled ones.
func (e *Engine) GetOrder(id uint64) (orderbook.Order, bool) {
	o, ok := e.orders[id]
	if !ok {
		return orderbook.Order{}, false
	}
	return *o, true
}

// LastOrderID is the most recently assigned id, 0 before any submit.
func (e *Engine) LastOrderID() uint64 { return e.ids.Current() }

func min(a, b int64) int64 {
	if a < b {
		return a
	}
	return b
}
