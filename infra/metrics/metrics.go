package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	OrdersSubmittedTotal = prometheus.NewCounter(prometheus.CounterOpts{Name: "lob_orders_submitted_total", Help: "Orders accepted by the engine"})
	OrdersRejectedTotal  = prometheus.NewCounter(prometheus.CounterOpts{Name: "lob_orders_rejected_total", Help: "Submissions rejected before id allocation"})
	OrdersCancelledTotal = prometheus.NewCounter(prometheus.CounterOpts{Name: "lob_orders_cancelled_total", Help: "Orders cancelled"})
	OrdersModifiedTotal  = prometheus.NewCounterVec(prometheus.CounterOpts{Name: "lob_orders_modified_total", Help: "Modifies by kind"}, []string{"kind"})
	TradesTotal          = prometheus.NewCounter(prometheus.CounterOpts{Name: "lob_trades_total", Help: "Fills generated"})
	TradedVolumeTotal    = prometheus.NewCounter(prometheus.CounterOpts{Name: "lob_traded_volume_total", Help: "Sum of fill quantities"})
	RestingOrders        = prometheus.NewGauge(prometheus.GaugeOpts{Name: "lob_resting_orders", Help: "Orders currently resting in the book"})
	BestBidCents         = prometheus.NewGauge(prometheus.GaugeOpts{Name: "lob_best_bid_cents", Help: "Best bid, 0 when the bid side is empty"})
	BestAskCents         = prometheus.NewGauge(prometheus.GaugeOpts{Name: "lob_best_ask_cents", Help: "Best ask, 0 when the ask side is empty"})
)

func Init() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		OrdersSubmittedTotal, OrdersRejectedTotal, OrdersCancelledTotal,
		OrdersModifiedTotal, TradesTotal, TradedVolumeTotal,
		RestingOrders, BestBidCents, BestAskCents,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

func Handler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}
