package orderbook

type Side uint8

const (
	Buy Side = iota
	Sell
)

func (s Side) String() string {
	if s == Buy {
		return "BUY"
	}
	return "SELL"
}

// Opposite returns the side an incoming order matches against.
func (s Side) Opposite() Side {
	if s == Buy {
		return Sell
	}
	return Buy
}

type Status uint8

const (
	// Active covers both resting and partially filled orders.
	Active Status = iota
	Filled
	Cancelled
)

func (st Status) String() string {
	switch st {
	case Active:
		return "active"
	case Filled:
		return "filled"
	case Cancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Order is a resting or incoming limit order. The matching engine owns
// the canonical record; price levels and the book index hold references
// to the same object, never copies.
//
// Timestamp is a monotonic arrival counter, not wall-clock time. It only
// establishes relative order at equal price.
type Order struct {
	ID        uint64
	Side      Side
	Price     int64 // fixed-point cents
	Remaining int64
	Original  int64
	Timestamp int64
	Status    Status

	next *Order
	prev *Order
}

// Next returns the order behind o in its level's FIFO queue.
func (o *Order) Next() *Order { return o.next }

// Trade is one fill: the maker is the resting order, the taker the
// incoming one. Price is always the maker's resting price.
type Trade struct {
	MakerID uint64
	TakerID uint64
	Price   int64
	Qty     int64
}
