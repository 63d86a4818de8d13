package controllers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-pdf/fpdf"

	"github.com/loopwhile/firstppt-sub000/kds"
	"github.com/loopwhile/firstppt-sub000/models"
	"github.com/loopwhile/firstppt-sub000/services"
	"github.com/loopwhile/firstppt-sub000/utils"
)

type ClosingController struct {
	Service *services.ClosingService
}

func NewClosingController(s *services.ClosingService) *ClosingController {
	return &ClosingController{Service: s}
}

// GetToday -> the session plus the computed cash position.
func (cc *ClosingController) GetToday(c *gin.Context) {
	utils.RespondJSON(c, http.StatusOK, "Closing session", gin.H{
		"session": cc.Service.Session(),
		"summary": cc.Service.Summary(),
	})
}

// UpdateToday -> partial update of opening float, denomination counts and
// voucher tallies. Refused once the session is completed.
func (cc *ClosingController) UpdateToday(c *gin.Context) {
	var body struct {
		OpeningFloat  *float64           `json:"opening_float"`
		Denominations map[string]int     `json:"denominations"`
		Vouchers      map[string]float64 `json:"vouchers"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	patch := services.CountsPatch{OpeningFloat: body.OpeningFloat}
	if len(body.Denominations) > 0 {
		patch.Denominations = make(map[int]int, len(body.Denominations))
		for faceStr, count := range body.Denominations {
			face, err := strconv.Atoi(faceStr)
			if err != nil {
				utils.RespondError(c, http.StatusBadRequest, fmt.Errorf("bad denomination %q", faceStr))
				return
			}
			patch.Denominations[face] = count
		}
	}
	patch.Vouchers = body.Vouchers

	// The whole patch is applied atomically: one bad entry rejects the
	// request without touching the session.
	if err := cc.Service.ApplyCounts(patch); err != nil {
		utils.RespondDomainError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Closing session updated", cc.Service.Summary())
}

// AddExpense -> append one cash outflow to the day's expense ledger.
func (cc *ClosingController) AddExpense(c *gin.Context) {
	var body struct {
		Description string  `json:"description" binding:"required"`
		Amount      float64 `json:"amount" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	entry, err := cc.Service.AddExpense(body.Description, body.Amount)
	if err != nil {
		utils.RespondDomainError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Expense recorded", entry)
}

// RemoveExpense -> delete a mis-entered expense before completion.
func (cc *ClosingController) RemoveExpense(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("expense_id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if err := cc.Service.RemoveExpense(uint(id)); err != nil {
		utils.RespondDomainError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Expense removed", nil)
}

// Complete -> close the day. Blocks on an uncounted drawer or a discrepancy
// over the hard limit; after success every further mutation is refused.
func (cc *ClosingController) Complete(c *gin.Context) {
	summary, err := cc.Service.CompleteClosing()
	if err != nil {
		utils.RespondDomainError(c, err)
		return
	}

	utils.InfoLogger.Printf("Daily closing completed: computed %s, actual %s, discrepancy %s",
		utils.FormatKRW(summary.ComputedCash), utils.FormatKRW(summary.ActualCash), utils.FormatKRW(summary.Discrepancy))
	kds.BroadcastClosingCompleted(summary)

	utils.RespondJSON(c, http.StatusOK, "Daily closing completed", summary)
}

// Report -> the closing report as a PDF. Read-only consumer of the session
// and the day totals; available once the session is completed.
func (cc *ClosingController) Report(c *gin.Context) {
	summary := cc.Service.Summary()
	if !summary.Completed {
		utils.RespondError(c, http.StatusConflict, fmt.Errorf("closing is not completed yet"))
		return
	}
	session := cc.Service.Session()

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, "Daily Closing Report")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 7, "Business date: "+summary.BusinessDate.Format("2006-01-02"))
	pdf.Ln(10)

	row := func(label string, amount float64) {
		pdf.CellFormat(90, 7, label, "", 0, "L", false, 0, "")
		pdf.CellFormat(60, 7, utils.FormatKRW(amount), "", 1, "R", false, 0, "")
	}
	row("Opening float", summary.OpeningFloat)
	row("Cash income", summary.CashIncome)
	row("Card income", summary.CardIncome)
	row("Voucher total", summary.VoucherTotal)
	row("Expenses", -summary.TotalExpenses)
	row("Computed cash", summary.ComputedCash)
	row("Counted cash", summary.ActualCash)
	row("Discrepancy", summary.Discrepancy)
	row("Grand total", summary.GrandTotal)
	pdf.Ln(6)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, "Drawer count")
	pdf.Ln(9)
	pdf.SetFont("Helvetica", "", 11)
	for _, face := range models.Denominations {
		count := session.Denominations[face]
		if count == 0 {
			continue
		}
		row(fmt.Sprintf("%s x %d", utils.FormatKRW(float64(face)), count), float64(face*count))
	}

	if len(session.Expenses) > 0 {
		pdf.Ln(6)
		pdf.SetFont("Helvetica", "B", 12)
		pdf.Cell(0, 8, "Expenses")
		pdf.Ln(9)
		pdf.SetFont("Helvetica", "", 11)
		for _, e := range session.Expenses {
			row(e.LoggedAt.Format("15:04")+"  "+e.Description, e.Amount)
		}
	}

	c.Header("Content-Disposition", `attachment; filename="closing-report.pdf"`)
	c.Header("Content-Type", "application/pdf")
	if err := pdf.Output(c.Writer); err != nil {
		utils.ErrorLogger.Printf("Error rendering closing report: %v", err)
	}
}
