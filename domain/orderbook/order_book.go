package orderbook

// OrderBook keeps the two sides plus an id index spanning both. Every
// order referenced by the index sits in exactly one level matching its
// side and price, and vice versa.
type OrderBook struct {
	Bids  *RBTree
	Asks  *RBTree
	index map[uint64]*Order
}

// NewOrderBook creates an empty book.
func NewOrderBook() *OrderBook {
	return &OrderBook{
		Bids:  NewRBTree(),
		Asks:  NewRBTree(),
		index: make(map[uint64]*Order),
	}
}

func (b *OrderBook) side(s Side) *RBTree {
	if s == Buy {
		return b.Bids
	}
	return b.Asks
}

// AddOrder rests an order at its exact price, creating the level if
// absent, and registers it in the index.
func (b *OrderBook) AddOrder(o *Order) {
	b.side(o.Side).UpsertLevel(o.Price).Enqueue(o)
	b.index[o.ID] = o
}

// CancelOrder removes an order from its level and the index. Returns
// false without touching anything when the id is unknown.
func (b *OrderBook) CancelOrder(id uint64) bool {
	o, ok := b.index[id]
	if !ok {
		return false
	}

	tree := b.side(o.Side)
	if lvl := tree.FindLevel(o.Price); lvl != nil {
		lvl.Remove(id)
		if lvl.Empty() {
			tree.DeleteLevel(o.Price)
		}
	}
	delete(b.index, id)
	return true
}

// ModifyQuantity reduces an order's remaining quantity in place at the
// same price, keeping its position in the level's FIFO queue. Only
// strict reductions are supported; anything else returns false with the
// order unchanged.
func (b *OrderBook) ModifyQuantity(id uint64, newQty int64) bool {
	o, ok := b.index[id]
	if !ok {
		return false
	}
	if newQty <= 0 || newQty >= o.Remaining {
		return false
	}

	delta := o.Remaining - newQty
	o.Remaining = newQty
	if lvl := b.side(o.Side).FindLevel(o.Price); lvl != nil {
		lvl.AdjustTotal(delta)
	}
	return true
}

// CleanLevel deletes the level at price iff it is empty. The matcher
// calls this the moment a level it iterates is fully consumed, so no
// empty level is ever visited again.
func (b *OrderBook) CleanLevel(s Side, price int64) {
	tree := b.side(s)
	if lvl := tree.FindLevel(price); lvl != nil && lvl.Empty() {
		tree.DeleteLevel(price)
	}
}

// RemoveFromIndex drops the index entry only. The matcher uses it for
// fully filled makers whose level bookkeeping is handled by PopFront.
func (b *OrderBook) RemoveFromIndex(id uint64) {
	delete(b.index, id)
}

// BestBid returns the highest resting bid price.
func (b *OrderBook) BestBid() (int64, bool) {
	lvl := b.Bids.MaxLevel()
	if lvl == nil {
		return 0, false
	}
	return lvl.Price, true
}

// BestAsk returns the lowest resting ask price.
func (b *OrderBook) BestAsk() (int64, bool) {
	lvl := b.Asks.MinLevel()
	if lvl == nil {
		return 0, false
	}
	return lvl.Price, true
}

// Spread is best ask minus best bid, in dollars. Unavailable unless
// both sides are non-empty.
func (b *OrderBook) Spread() (float64, bool) {
	bid, okB := b.BestBid()
	ask, okA := b.BestAsk()
	if !okB || !okA {
		return 0, false
	}
	return float64(ask-bid) / 100.0, true
}

// MidPrice is the mean of best bid and ask, in dollars.
func (b *OrderBook) MidPrice() (float64, bool) {
	bid, okB := b.BestBid()
	ask, okA := b.BestAsk()
	if !okB || !okA {
		return 0, false
	}
	return float64(bid+ask) / 200.0, true
}

func (b *OrderBook) HasOrder(id uint64) bool {
	_, ok := b.index[id]
	return ok
}

func (b *OrderBook) GetOrder(id uint64) (*Order, bool) {
	o, ok := b.index[id]
	return o, ok
}

// OrderCount reports the number of resting orders.
func (b *OrderBook) OrderCount() int {
	return len(b.index)
}

// LevelView is one aggregated price level for renderers and feeds.
type LevelView struct {
	Price  int64 `json:"price"`
	Qty    int64 `json:"qty"`
	Orders int   `json:"orders"`
}

// Depth collects up to levels aggregated entries per side, best first.
func (b *OrderBook) Depth(levels int) (bids, asks []LevelView) {
	b.Bids.ForEachDescending(func(lvl *PriceLevel) bool {
		bids = append(bids, LevelView{Price: lvl.Price, Qty: lvl.TotalQty, Orders: lvl.OrderCount})
		return len(bids) < levels
	})
	b.Asks.ForEachAscending(func(lvl *PriceLevel) bool {
		asks = append(asks, LevelView{Price: lvl.Price, Qty: lvl.TotalQty, Orders: lvl.OrderCount})
		return len(asks) < levels
	})
	return bids, asks
}
