package main

import (
	"bytes"
	"encoding/json"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"strconv"
	"testing"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/loopwhile/firstppt-sub000/ledger"
	"github.com/loopwhile/firstppt-sub000/menu"
	"github.com/loopwhile/firstppt-sub000/models"
	"github.com/loopwhile/firstppt-sub000/router"
	"github.com/loopwhile/firstppt-sub000/services"
	"github.com/loopwhile/firstppt-sub000/utils"
)

func TestMain(m *testing.M) {
	utils.InitLogger()
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

// TestEndToEndIntegration drives the main store flow through the router:
// 0. Seed staff accounts, login -> tokens
// 1. Cashier creates a cash order
// 2. Kitchen sees it on the queue and walks it to ready
// 3. Cashier hands it over -> completed
// 4. Cashier counts the drawer and completes the daily closing
// 5. Manager pulls the closing report PDF
func TestEndToEndIntegration(t *testing.T) {
	staffDB := setupStaffDB()
	l := ledger.New()
	closing := services.NewClosingService(l)
	r := router.SetupRouter(staffDB, l, menu.Default(), closing)

	cashierToken := loginTest(t, r, "cashier@example.com")
	kitchenToken := loginTest(t, r, "kitchen@example.com")
	managerToken := loginTest(t, r, "manager@example.com")

	orderID := createOrderTest(t, r, cashierToken)

	cookOrderTest(t, r, orderID, kitchenToken)

	completeOrderTest(t, r, orderID, cashierToken)

	closeDayTest(t, r, cashierToken)

	reportTest(t, r, managerToken)
}

// setupStaffDB -> staff accounts in SQLite in-memory, one per role.
func setupStaffDB() *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		log.Fatalf("failed to open in-memory sqlite: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}); err != nil {
		log.Fatalf("failed to migrate: %v", err)
	}

	hashed, _ := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.DefaultCost)
	for _, u := range []models.User{
		{Name: "Test Manager", Email: "manager@example.com", Password: string(hashed), Role: models.RoleManager},
		{Name: "Test Cashier", Email: "cashier@example.com", Password: string(hashed), Role: models.RoleCashier},
		{Name: "Test Kitchen", Email: "kitchen@example.com", Password: string(hashed), Role: models.RoleKitchen},
	} {
		db.Create(&u)
	}
	return db
}

func loginTest(t *testing.T, r *gin.Engine, email string) string {
	body := map[string]string{
		"email":    email,
		"password": "secret123",
	}
	bodyBytes, _ := json.Marshal(body)

	req := httptest.NewRequest(http.MethodPost, "/login", bytes.NewBuffer(bodyBytes))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("loginTest %s: code=%d, body=%s", email, w.Code, w.Body.String())
	}

	var resp struct {
		Status bool `json:"status"`
		Data   struct {
			Token string `json:"token"`
		} `json:"data"`
	}
	json.Unmarshal(w.Body.Bytes(), &resp)
	if !resp.Status || resp.Data.Token == "" {
		t.Fatalf("loginTest %s: no token, body=%s", email, w.Body.String())
	}
	return resp.Data.Token
}

// createOrderTest -> POST /orders => 201, order starts in 'preparing'.
func createOrderTest(t *testing.T, r *gin.Engine, token string) uint {
	bodyData := map[string]interface{}{
		"items": []map[string]interface{}{
			{"menu_id": 1, "quantity": 2},
		},
		"tender":  "cash",
		"channel": "dine_in",
	}
	bodyBytes, _ := json.Marshal(bodyData)

	req := httptest.NewRequest(http.MethodPost, "/orders", bytes.NewBuffer(bodyBytes))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("createOrderTest: expected 201, got %d, body=%s", w.Code, w.Body.String())
	}

	var resp struct {
		Status bool `json:"status"`
		Data   struct {
			ID          uint    `json:"id"`
			DisplayCode string  `json:"display_code"`
			Status      string  `json:"status"`
			Total       float64 `json:"total"`
		} `json:"data"`
	}
	json.Unmarshal(w.Body.Bytes(), &resp)
	if !resp.Status {
		t.Fatalf("createOrderTest: status=false, body=%s", w.Body.String())
	}
	if resp.Data.Status != "preparing" {
		t.Fatalf("createOrderTest: expected status 'preparing', got %s", resp.Data.Status)
	}
	if resp.Data.DisplayCode != "#0001" {
		t.Fatalf("createOrderTest: expected display code '#0001', got %s", resp.Data.DisplayCode)
	}
	if resp.Data.Total != 25000 {
		t.Fatalf("createOrderTest: expected total 25000, got %.0f", resp.Data.Total)
	}
	return resp.Data.ID
}

// cookOrderTest -> the order is on the kitchen queue; walk it preparing ->
// cooking -> ready through the advance endpoint.
func cookOrderTest(t *testing.T, r *gin.Engine, orderID uint, token string) {
	reqQueue := httptest.NewRequest(http.MethodGet, "/kitchen/orders", nil)
	reqQueue.Header.Set("Authorization", "Bearer "+token)
	wQueue := httptest.NewRecorder()
	r.ServeHTTP(wQueue, reqQueue)
	if wQueue.Code != http.StatusOK {
		t.Fatalf("cookOrderTest queue: code=%d, body=%s", wQueue.Code, wQueue.Body.String())
	}

	var queueResp struct {
		Status bool `json:"status"`
		Data   struct {
			Orders []struct {
				ID uint `json:"id"`
			} `json:"orders"`
		} `json:"data"`
	}
	json.Unmarshal(wQueue.Body.Bytes(), &queueResp)
	if len(queueResp.Data.Orders) != 1 || queueResp.Data.Orders[0].ID != orderID {
		t.Fatalf("cookOrderTest: expected order %d on the queue, body=%s", orderID, wQueue.Body.String())
	}

	for _, target := range []string{"cooking", "ready"} {
		status := advanceOrderTest(t, r, orderID, token, target)
		if status != target {
			t.Fatalf("cookOrderTest: want '%s', got %s", target, status)
		}
	}
}

func advanceOrderTest(t *testing.T, r *gin.Engine, orderID uint, token, target string) string {
	bodyBytes, _ := json.Marshal(map[string]string{"target": target})
	req := httptest.NewRequest(http.MethodPost,
		"/orders/"+uintToString(orderID)+"/advance", bytes.NewBuffer(bodyBytes))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("advanceOrderTest to %s: code=%d, body=%s", target, w.Code, w.Body.String())
	}

	var resp struct {
		Status bool `json:"status"`
		Data   struct {
			Status string `json:"status"`
		} `json:"data"`
	}
	json.Unmarshal(w.Body.Bytes(), &resp)
	return resp.Data.Status
}

// completeOrderTest -> the cashier hands the order over => 'completed'.
func completeOrderTest(t *testing.T, r *gin.Engine, orderID uint, token string) {
	if status := advanceOrderTest(t, r, orderID, token, "completed"); status != "completed" {
		t.Fatalf("completeOrderTest: want 'completed', got %s", status)
	}

	// A completed order has left the kitchen queue.
	req := httptest.NewRequest(http.MethodGet, "/kitchen/orders", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	var resp struct {
		Data struct {
			Orders []json.RawMessage `json:"orders"`
		} `json:"data"`
	}
	json.Unmarshal(w.Body.Bytes(), &resp)
	if len(resp.Data.Orders) != 0 {
		t.Fatalf("completeOrderTest: queue should be empty, body=%s", w.Body.String())
	}
}

// closeDayTest -> count the drawer to the computed position and complete.
// Opening float is the default 200,000 and the day took 25,000 in cash.
func closeDayTest(t *testing.T, r *gin.Engine, token string) {
	patch := map[string]interface{}{
		"denominations": map[string]int{"50000": 4, "10000": 2, "5000": 1},
	}
	bodyBytes, _ := json.Marshal(patch)
	req := httptest.NewRequest(http.MethodPatch, "/closing/today", bytes.NewBuffer(bodyBytes))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("closeDayTest patch: code=%d, body=%s", w.Code, w.Body.String())
	}

	req = httptest.NewRequest(http.MethodPost, "/closing/today/complete", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("closeDayTest complete: code=%d, body=%s", w.Code, w.Body.String())
	}

	var resp struct {
		Status bool `json:"status"`
		Data   struct {
			ComputedCash float64 `json:"computed_cash"`
			Discrepancy  float64 `json:"discrepancy"`
			Balanced     bool    `json:"balanced"`
		} `json:"data"`
	}
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Data.ComputedCash != 225000 {
		t.Fatalf("closeDayTest: expected computed 225000, got %.0f", resp.Data.ComputedCash)
	}
	if resp.Data.Discrepancy != 0 || !resp.Data.Balanced {
		t.Fatalf("closeDayTest: expected a balanced close, body=%s", w.Body.String())
	}
}

// reportTest -> the manager pulls the PDF for the completed session.
func reportTest(t *testing.T, r *gin.Engine, token string) {
	req := httptest.NewRequest(http.MethodGet, "/closing/today/report", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("reportTest: code=%d, body=%s", w.Code, w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/pdf" {
		t.Fatalf("reportTest: expected a PDF, got Content-Type=%s", ct)
	}
	if w.Body.Len() == 0 {
		t.Fatalf("reportTest: empty report body")
	}
}

func uintToString(num uint) string {
	return strconv.FormatUint(uint64(num), 10)
}
