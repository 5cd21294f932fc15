// Command lob is the interactive harness: it reads commands from
// stdin, drives a single matching engine, and renders results as text.
package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"lob/domain/matching"
	"lob/domain/orderbook"
	"lob/render"
)

const usage = `
Commands:
    buy  <price> <qty>              Submit a limit buy order
    sell <price> <qty>              Submit a limit sell order
    cancel <id>                     Cancel an order by ID
    modify <id> <new_price> <qty>   Modify order (price change = cancel+resubmit)
    book [levels]                   Print order book (default 5 levels)
    top                             Print best bid/ask, spread, mid
    help                            Show this menu
    quit                            Exit

Prices are in dollars (e.g. 99.50). Stored internally as fixed-point cents.
`

func main() {
	eng := matching.New()
	out := os.Stdout

	fmt.Fprint(out, usage)

	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}

		cmd := fields[0]
		args := fields[1:]

		switch cmd {
		case "quit", "q":
			return
		case "help", "h":
			fmt.Fprint(out, usage)
		case "buy", "sell":
			submit(eng, out, cmd, args)
		case "cancel":
			cancel(eng, out, args)
		case "modify":
			modify(eng, out, args)
		case "book":
			levels := 5
			if len(args) > 0 {
				if n, err := strconv.Atoi(args[0]); err == nil && n > 0 {
					levels = n
				}
			}
			render.PrintBook(out, eng.Book(), levels)
		case "top":
			render.PrintTopOfBook(out, eng.Book())
		default:
			fmt.Fprintln(out, "Unknown command. Type 'help'.")
		}
	}
}

func submit(eng *matching.Engine, out *os.File, cmd string, args []string) {
	if len(args) != 2 {
		fmt.Fprintf(out, "  Usage: %s <price> <qty>\n", cmd)
		return
	}
	price, err := orderbook.ParsePrice(args[0])
	if err != nil {
		fmt.Fprintf(out, "  Error: %v\n", err)
		return
	}
	qty, err := strconv.ParseInt(args[1], 10, 64)
	if err != nil {
		fmt.Fprintf(out, "  Error: bad quantity %q\n", args[1])
		return
	}

	side := orderbook.Buy
	if cmd == "sell" {
		side = orderbook.Sell
	}

	id, trades, err := eng.Submit(side, price, qty)
	if err != nil {
		fmt.Fprintf(out, "  Error: %v\n", err)
		return
	}

	if len(trades) == 0 {
		fmt.Fprintf(out, "  Order #%d resting in book (%s $%s x%d)\n",
			id, cmd, args[0], qty)
		return
	}
	render.PrintTrades(out, trades)
	if eng.HasOrder(id) {
		fmt.Fprintf(out, "  Order #%d partially filled, remainder resting.\n", id)
	} else {
		fmt.Fprintf(out, "  Order #%d fully filled.\n", id)
	}
}

func cancel(eng *matching.Engine, out *os.File, args []string) {
	if len(args) != 1 {
		fmt.Fprintln(out, "Usage: cancel <id>")
		return
	}
	id, err := strconv.ParseUint(args[0], 10, 64)
	if err != nil {
		fmt.Fprintf(out, "  Error: bad id %q\n", args[0])
		return
	}
	if eng.Cancel(id) {
		fmt.Fprintf(out, "  Order #%d cancelled.\n", id)
	} else {
		fmt.Fprintf(out, "  Order #%d not found.\n", id)
	}
}

func modify(eng *matching.Engine, out *os.File, args []string) {
	if len(args) != 3 {
		fmt.Fprintln(out, "Usage: modify <id> <new_price> <qty>")
		return
	}
	id, err := strconv.ParseUint(args[0], 10, 64)
	if err != nil {
		fmt.Fprintf(out, "  Error: bad id %q\n", args[0])
		return
	}
	price, err := orderbook.ParsePrice(args[1])
	if err != nil {
		fmt.Fprintf(out, "  Error: %v\n", err)
		return
	}
	qty, err := strconv.ParseInt(args[2], 10, 64)
	if err != nil {
		fmt.Fprintf(out, "  Error: bad quantity %q\n", args[2])
		return
	}

	trades, err := eng.Modify(id, price, qty)
	if err != nil {
		fmt.Fprintf(out, "  Error: %v\n", err)
		return
	}
	fmt.Fprintf(out, "  Order #%d modified.\n", id)
	render.PrintTrades(out, trades)
}
