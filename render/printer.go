// Package render pretty-prints the book and trade feed for the CLI.
// Pure formatting: it only reads aggregated depth and top-of-book
// queries and holds no engine state.
package render

import (
	"fmt"
	"io"

	"lob/domain/orderbook"
)

const (
	ansiRed   = "\033[31m"
	ansiGreen = "\033[32m"
	ansiReset = "\033[0m"
)

// PrintBook renders up to levels per side, asks above the spread line
// (worst first, best ask nearest the middle), bids below best-first.
func PrintBook(w io.Writer, book *orderbook.OrderBook, levels int) {
	bids, asks := book.Depth(levels)

	fmt.Fprintln(w)
	fmt.Fprintln(w, "╔══════════════════════════════════════════╗")
	fmt.Fprintln(w, "║            LIMIT ORDER BOOK              ║")
	fmt.Fprintln(w, "╠══════════════════════╦═══════════════════╣")
	fmt.Fprintln(w, "║   Price       Qty    ║  Side             ║")
	fmt.Fprintln(w, "╠══════════════════════╬═══════════════════╣")

	for i := len(asks) - 1; i >= 0; i-- {
		lvl := asks[i]
		fmt.Fprintf(w, "║  %s%8s   %6d%s    ║  ASK              ║\n",
			ansiRed, orderbook.FormatPrice(lvl.Price), lvl.Qty, ansiReset)
	}

	fmt.Fprintln(w, "╠══════════════════════╬═══════════════════╣")
	if spread, ok := book.Spread(); ok {
		mid, _ := book.MidPrice()
		fmt.Fprintf(w, "║  spread: $%-6.2f      ║  mid: $%-8.2f   ║\n", spread, mid)
		fmt.Fprintln(w, "╠══════════════════════╬═══════════════════╣")
	}

	for _, lvl := range bids {
		fmt.Fprintf(w, "║  %s%8s   %6d%s    ║  BID              ║\n",
			ansiGreen, orderbook.FormatPrice(lvl.Price), lvl.Qty, ansiReset)
	}

	fmt.Fprintln(w, "╚══════════════════════╩═══════════════════╝")
}

// PrintTrades renders the fills from one operation.
func PrintTrades(w io.Writer, trades []orderbook.Trade) {
	if len(trades) == 0 {
		return
	}
	fmt.Fprintln(w, "\nTrades executed:")
	for _, t := range trades {
		fmt.Fprintf(w, "     [FILL] maker=#%d taker=#%d  price=$%s  qty=%d\n",
			t.MakerID, t.TakerID, orderbook.FormatPrice(t.Price), t.Qty)
	}
}

// PrintTopOfBook renders a one-line best bid/ask summary.
func PrintTopOfBook(w io.Writer, book *orderbook.OrderBook) {
	fmt.Fprint(w, "  Top-of-book → ")
	if bid, ok := book.BestBid(); ok {
		fmt.Fprintf(w, "BID $%s", orderbook.FormatPrice(bid))
	} else {
		fmt.Fprint(w, "BID [empty]")
	}
	fmt.Fprint(w, "  |  ")
	if ask, ok := book.BestAsk(); ok {
		fmt.Fprintf(w, "ASK $%s", orderbook.FormatPrice(ask))
	} else {
		fmt.Fprint(w, "ASK [empty]")
	}
	if spread, ok := book.Spread(); ok {
		mid, _ := book.MidPrice()
		fmt.Fprintf(w, "  |  spread $%.2f  mid $%.2f", spread, mid)
	}
	fmt.Fprintln(w)
}
