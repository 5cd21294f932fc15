package orderbook

// PriceLevel is the FIFO queue of orders resting at one exact price on
// one side. TotalQty caches the sum of member Remaining quantities; the
// level never mutates order quantities itself, callers report changes
// through AdjustTotal.
type PriceLevel struct {
	Price      int64
	head       *Order
	tail       *Order
	TotalQty   int64
	OrderCount int
}

// Enqueue appends o to the back of the queue.
func (p *PriceLevel) Enqueue(o *Order) {
	if p.head == nil {
		p.head = o
		p.tail = o
	} else {
		p.tail.next = o
		o.prev = p.tail
		p.tail = o
	}
	p.TotalQty += o.Remaining
	p.OrderCount++
}

// Remove excises the order with the given id, wherever it sits in the
// queue. Linear in level depth, which is bounded by flow at one price,
// not by book size.
func (p *PriceLevel) Remove(id uint64) bool {
	for o := p.head; o != nil; o = o.next {
		if o.ID == id {
			p.unlink(o)
			return true
		}
	}
	return false
}

// Front returns the earliest-arrived order, or nil when empty.
func (p *PriceLevel) Front() *Order {
	return p.head
}

// PopFront removes the earliest-arrived order.
func (p *PriceLevel) PopFront() {
	if p.head == nil {
		return
	}
	p.unlink(p.head)
}

// AdjustTotal subtracts delta from the cached total after a member
// order's remaining quantity changed out-of-band (fill or reduction).
func (p *PriceLevel) AdjustTotal(delta int64) {
	p.TotalQty -= delta
	if p.TotalQty < 0 {
		p.TotalQty = 0
	}
}

func (p *PriceLevel) Empty() bool { return p.head == nil }

func (p *PriceLevel) Count() int { return p.OrderCount }

func (p *PriceLevel) unlink(o *Order) {
	if o.prev != nil {
		o.prev.next = o.next
	} else {
		p.head = o.next
	}
	if o.next != nil {
		o.next.prev = o.prev
	} else {
		p.tail = o.prev
	}
	o.next = nil
	o.prev = nil
	p.TotalQty -= o.Remaining
	if p.TotalQty < 0 {
		p.TotalQty = 0
	}
	p.OrderCount--
}
