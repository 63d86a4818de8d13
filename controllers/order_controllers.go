package controllers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/loopwhile/firstppt-sub000/kds"
	"github.com/loopwhile/firstppt-sub000/ledger"
	"github.com/loopwhile/firstppt-sub000/models"
	"github.com/loopwhile/firstppt-sub000/services"
	"github.com/loopwhile/firstppt-sub000/utils"
	"github.com/loopwhile/firstppt-sub000/views"
)

type OrderController struct {
	Ledger *ledger.Ledger
	Menu   services.MenuSource
}

func NewOrderController(l *ledger.Ledger, menu services.MenuSource) *OrderController {
	return &OrderController{Ledger: l, Menu: menu}
}

// CreateOrder -> the order entry surface: builds a cart from the request,
// applies the discount, submits at tender capture. A rejected request leaves
// nothing behind in the ledger; the client keeps its input for correction.
func (oc *OrderController) CreateOrder(c *gin.Context) {
	type itemReq struct {
		MenuID   uint `json:"menu_id" binding:"required"`
		Quantity int  `json:"quantity" binding:"required"`
	}
	type reqBody struct {
		Items    []itemReq       `json:"items" binding:"required"`
		Discount models.Discount `json:"discount"`
		Tender   string          `json:"tender" binding:"required"`
		Channel  string          `json:"channel" binding:"required"`
		Priority string          `json:"priority"`
		Customer string          `json:"customer"`
		Phone    string          `json:"phone"`
		Address  string          `json:"address"`
	}

	var body reqBody
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	cart := services.NewCart(oc.Menu, oc.Ledger)
	for _, item := range body.Items {
		if err := cart.AddItemQty(item.MenuID, item.Quantity); err != nil {
			utils.RespondDomainError(c, err)
			return
		}
	}
	if body.Discount.Kind != "" {
		if err := cart.ApplyDiscount(body.Discount); err != nil {
			utils.RespondDomainError(c, err)
			return
		}
	}

	order, err := cart.Submit(services.Submission{
		Tender:   models.Tender(body.Tender),
		Channel:  models.Channel(body.Channel),
		Priority: models.Priority(body.Priority),
		Customer: body.Customer,
		Phone:    body.Phone,
		Address:  body.Address,
	})
	if err != nil {
		utils.RespondDomainError(c, err)
		return
	}

	utils.InfoLogger.Printf("Order %s created: %s/%s, total %s",
		order.DisplayCode(), order.Tender, order.Channel, utils.FormatKRW(order.Total()))
	kds.BroadcastOrderUpdate(order)

	utils.RespondJSON(c, http.StatusCreated, "Order created", order)
}

// GetAllOrders -> the order list projection with its filter set as query
// params. Always derived from a fresh snapshot; nothing is cached between
// polls.
func (oc *OrderController) GetAllOrders(c *gin.Context) {
	filter := views.OrderFilter{
		Query: c.Query("q"),
	}
	if s := c.Query("status"); s != "" {
		status, err := models.ParseStatus(s)
		if err != nil {
			utils.RespondDomainError(c, err)
			return
		}
		filter.Status = status
	}
	if s := c.Query("tender"); s != "" {
		tender, err := models.ParseTender(s)
		if err != nil {
			utils.RespondDomainError(c, err)
			return
		}
		filter.Tender = tender
	}
	if s := c.Query("channel"); s != "" {
		channel, err := models.ParseChannel(s)
		if err != nil {
			utils.RespondDomainError(c, err)
			return
		}
		filter.Channel = channel
	}
	if s := c.Query("from"); s != "" {
		from, err := time.ParseInLocation("2006-01-02", s, time.Local)
		if err != nil {
			utils.RespondError(c, http.StatusBadRequest, err)
			return
		}
		filter.From = from
	}
	if s := c.Query("to"); s != "" {
		to, err := time.ParseInLocation("2006-01-02", s, time.Local)
		if err != nil {
			utils.RespondError(c, http.StatusBadRequest, err)
			return
		}
		// Inclusive end of day.
		filter.To = to.AddDate(0, 0, 1).Add(-time.Nanosecond)
	}

	snapshot := oc.Ledger.Snapshot()
	orders := views.FilterOrders(snapshot, filter)
	utils.RespondJSON(c, http.StatusOK, "List of orders", gin.H{
		"orders": orders,
		"counts": views.StatusCounts(snapshot),
	})
}

// GetOrderByID -> detail for one order.
func (oc *OrderController) GetOrderByID(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("order_id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	order, err := oc.Ledger.Get(uint(id))
	if err != nil {
		utils.RespondDomainError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Order detail", order)
}

// AdvanceOrder -> one step forward in the state machine. The view that
// called this does not mutate its local copy; it sees the change on its next
// poll.
func (oc *OrderController) AdvanceOrder(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("order_id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var body struct {
		Target string `json:"target" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	target, err := models.ParseStatus(body.Target)
	if err != nil {
		utils.RespondDomainError(c, err)
		return
	}

	order, err := oc.Ledger.AdvanceStatus(uint(id), target)
	if err != nil {
		utils.RespondDomainError(c, err)
		return
	}

	utils.InfoLogger.Printf("Order %s advanced to %s", order.DisplayCode(), order.Status)
	kds.BroadcastOrderUpdate(order)

	utils.RespondJSON(c, http.StatusOK, "Order status updated", order)
}

// CancelOrder -> cancellation with mandatory reason. Legal only while the
// order is still active.
func (oc *OrderController) CancelOrder(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("order_id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var body struct {
		Reason string `json:"reason" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	order, err := oc.Ledger.CancelOrder(uint(id), body.Reason)
	if err != nil {
		utils.RespondDomainError(c, err)
		return
	}

	utils.InfoLogger.Printf("Order %s cancelled: %s", order.DisplayCode(), order.CancelReason)
	kds.BroadcastOrderUpdate(order)
	// Cancellations need eyes beyond the kitchen display.
	kds.BroadcastStaffNotification(fmt.Sprintf("Order %s cancelled: %s", order.DisplayCode(), order.CancelReason))

	utils.RespondJSON(c, http.StatusOK, "Order cancelled", order)
}
