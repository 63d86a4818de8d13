package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/wcharczuk/go-chart/v2"

	"github.com/loopwhile/firstppt-sub000/ledger"
	"github.com/loopwhile/firstppt-sub000/models"
	"github.com/loopwhile/firstppt-sub000/utils"
)

type ReportController struct {
	Ledger *ledger.Ledger
}

func NewReportController(l *ledger.Ledger) *ReportController {
	return &ReportController{Ledger: l}
}

// SalesChart -> PNG bar chart of the day's revenue by tender and channel.
// Read-only consumer of CashTotalsForDay; ?date=YYYY-MM-DD, default today.
func (rc *ReportController) SalesChart(c *gin.Context) {
	day := time.Now()
	if s := c.Query("date"); s != "" {
		parsed, err := time.ParseInLocation("2006-01-02", s, time.Local)
		if err != nil {
			utils.RespondError(c, http.StatusBadRequest, err)
			return
		}
		day = parsed
	}

	totals := rc.Ledger.CashTotalsForDay(day)

	bars := []chart.Value{
		{Label: "Cash", Value: totals.CashTotal},
		{Label: "Card", Value: totals.CardTotal},
		{Label: "Voucher", Value: totals.VoucherTotal},
		{Label: "Dine-in", Value: totals.ByChannel[models.ChannelDineIn]},
		{Label: "Takeout", Value: totals.ByChannel[models.ChannelTakeout]},
		{Label: "Delivery", Value: totals.ByChannel[models.ChannelDelivery]},
	}
	// go-chart refuses an all-zero series; an empty day still renders.
	var max float64
	for _, b := range bars {
		if b.Value > max {
			max = b.Value
		}
	}
	if max == 0 {
		max = 1
	}

	graph := chart.BarChart{
		Title:    "Revenue " + day.Format("2006-01-02"),
		Height:   512,
		BarWidth: 60,
		Bars:     bars,
		YAxis: chart.YAxis{
			Range: &chart.ContinuousRange{Min: 0, Max: max * 1.1},
		},
	}

	c.Header("Content-Type", "image/png")
	if err := graph.Render(chart.PNG, c.Writer); err != nil {
		utils.ErrorLogger.Printf("Error rendering sales chart: %v", err)
	}
}
