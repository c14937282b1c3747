package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/erazemk/zaloga/internal/auth"
	"github.com/erazemk/zaloga/internal/db"
	"github.com/erazemk/zaloga/internal/inventory"
	"github.com/erazemk/zaloga/internal/model"
	"github.com/erazemk/zaloga/internal/store"
)

const testJWTSecret = "test-secret"

func setupTestServer(t *testing.T) (*httptest.Server, string) {
	t.Helper()
	database := db.NewTestDB(t)
	svc := inventory.New(database, inventory.Config{LowStockThreshold: inventory.DefaultLowStockThreshold})
	server := httptest.NewServer(NewRouter(database, svc, testJWTSecret))
	t.Cleanup(server.Close)

	// Create admin user.
	ctx := context.Background()
	hash, _ := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.MinCost)
	if _, err := store.CreateUser(ctx, database, "admin", string(hash), model.RoleAdmin); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	return server, login(t, server, "admin", "password")
}

func login(t *testing.T, server *httptest.Server, username, password string) string {
	t.Helper()
	body, _ := json.Marshal(map[string]string{"username": username, "password": password})
	resp, err := http.Post(server.URL+"/api/auth/login", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("login request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login failed: %d", resp.StatusCode)
	}

	var loginResp loginResponse
	json.NewDecoder(resp.Body).Decode(&loginResp)
	if loginResp.Token == "" {
		t.Fatal("empty token from login")
	}
	return loginResp.Token
}

func authRequest(method, url, token string, body any) (*http.Request, error) {
	var bodyReader *bytes.Reader
	if body != nil {
		data, _ := json.Marshal(body)
		bodyReader = bytes.NewReader(data)
	} else {
		bodyReader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, url, bodyReader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	return req, nil
}

// call performs an authenticated request, checks the status code and
// decodes the response into out when given.
func call(t *testing.T, method, url, token string, body any, wantStatus int, out any) {
	t.Helper()
	req, err := authRequest(method, url, token, body)
	if err != nil {
		t.Fatalf("building request: %v", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != wantStatus {
		var e errorBody
		json.NewDecoder(resp.Body).Decode(&e)
		t.Fatalf("%s %s: expected %d, got %d (%s)", method, url, wantStatus, resp.StatusCode, e.Error)
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decoding response: %v", err)
		}
	}
}

func TestLoginEndpoint(t *testing.T) {
	server, _ := setupTestServer(t)

	body, _ := json.Marshal(map[string]string{"username": "admin", "password": "wrong"})
	resp, err := http.Post(server.URL+"/api/auth/login", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("login request: %v", err)
	}
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("expected 401 for bad password, got %d", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestLogoutRevokesToken(t *testing.T) {
	server, token := setupTestServer(t)

	call(t, "GET", server.URL+"/api/labels", token, nil, http.StatusOK, nil)
	call(t, "POST", server.URL+"/api/auth/logout", token, nil, http.StatusOK, nil)
	call(t, "GET", server.URL+"/api/labels", token, nil, http.StatusUnauthorized, nil)
}

func TestChangePassword(t *testing.T) {
	server, token := setupTestServer(t)

	call(t, "PUT", server.URL+"/api/auth/password", token, changePasswordRequest{
		CurrentPassword: "password", NewPassword: "short",
	}, http.StatusBadRequest, nil)

	call(t, "PUT", server.URL+"/api/auth/password", token, changePasswordRequest{
		CurrentPassword: "password", NewPassword: "much-longer-secret",
	}, http.StatusOK, nil)

	login(t, server, "admin", "much-longer-secret")
}

func TestUnauthenticatedAccess(t *testing.T) {
	server, _ := setupTestServer(t)

	resp, err := http.Get(server.URL + "/api/groups")
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("expected 401 for unauthenticated request, got %d", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestRoleBasedAccess(t *testing.T) {
	server, _ := setupTestServer(t)
	userToken, _ := auth.GenerateToken(testJWTSecret, 2, "user1", model.RoleUser)

	// Regular users can look but not change stock.
	call(t, "GET", server.URL+"/api/groups", userToken, nil, http.StatusOK, nil)
	call(t, "POST", server.URL+"/api/units", userToken, map[string]any{
		"item_name": "Laptop", "category_id": 1, "quantity": 1,
	}, http.StatusForbidden, nil)
	call(t, "POST", server.URL+"/api/stock/adjust", userToken, map[string]any{
		"item_name": "Laptop", "category_id": 1, "target_quantity": 1,
	}, http.StatusForbidden, nil)
}

func TestLabelsEndpoint(t *testing.T) {
	server, token := setupTestServer(t)

	var labels labelsResponse
	call(t, "GET", server.URL+"/api/labels", token, nil, http.StatusOK, &labels)
	if len(labels.Categories) == 0 || len(labels.Statuses) == 0 || len(labels.Conditions) == 0 {
		t.Errorf("expected seeded labels, got %+v", labels)
	}
}

func TestStockAPIFlow(t *testing.T) {
	server, token := setupTestServer(t)
	base := server.URL + "/api"

	call(t, "POST", base+"/units", token, map[string]any{
		"item_name": "Chair", "category_id": 1, "quantity": 5,
	}, http.StatusCreated, nil)

	var tracked model.Unit
	call(t, "POST", base+"/units", token, map[string]any{
		"item_name": "Chair", "category_id": 1, "serial_number": "CH-1",
	}, http.StatusCreated, &tracked)

	// Duplicate serial in the same group.
	var conflict errorBody
	call(t, "POST", base+"/units", token, map[string]any{
		"item_name": "Chair", "category_id": 1, "serial_number": "CH-1",
	}, http.StatusConflict, &conflict)
	if conflict.Kind != "duplicate_tracking_key" {
		t.Errorf("expected duplicate_tracking_key, got %q", conflict.Kind)
	}

	var rows []model.GroupRow
	call(t, "GET", base+"/groups?search=chair", token, nil, http.StatusOK, &rows)
	if len(rows) != 1 || rows[0].Quantity != 6 {
		t.Fatalf("expected one Chair row with 6 units, got %+v", rows)
	}

	call(t, "POST", base+"/stock/transfer", token, map[string]any{
		"item_name": "Chair", "category_id": 1,
		"moves": []map[string]any{{"dimension": "status", "source_id": 1, "target_id": 2, "quantity": 3}},
	}, http.StatusOK, nil)

	var b model.Breakdown
	call(t, "GET", base+"/groups/breakdown?item_name=Chair&category_id=1", token, nil, http.StatusOK, &b)
	if b.ByStatus[1] != 3 || b.ByStatus[2] != 3 || b.CurrentStats.TotalQuantity != 6 {
		t.Errorf("unexpected breakdown: %+v", b)
	}

	var below errorBody
	call(t, "POST", base+"/stock/adjust", token, map[string]any{
		"item_name": "Chair", "category_id": 1, "target_quantity": 0, "basis": "total",
	}, http.StatusUnprocessableEntity, &below)
	if below.Kind != "cannot_reduce_below_tracked_units" {
		t.Errorf("unexpected error kind %q", below.Kind)
	}

	var adjusted inventory.AdjustResult
	call(t, "POST", base+"/stock/adjust", token, map[string]any{
		"item_name": "Chair", "category_id": 1, "target_quantity": 2,
	}, http.StatusOK, &adjusted)
	if adjusted.Previous != 5 || adjusted.New != 2 {
		t.Errorf("unexpected adjust result: %+v", adjusted)
	}

	var edited model.Unit
	call(t, "PUT", base+"/units/"+tracked.ID, token, map[string]any{"status_id": 3}, http.StatusOK, &edited)
	if edited.StatusID != 3 {
		t.Errorf("expected status 3, got %d", edited.StatusID)
	}

	call(t, "DELETE", base+"/units/"+tracked.ID, token, nil, http.StatusBadRequest, nil)

	var deleted inventory.DeleteResult
	call(t, "DELETE", base+"/units/"+tracked.ID, token, map[string]string{"reason": "broken leg"}, http.StatusOK, &deleted)
	if deleted.EntryID == "" {
		t.Fatal("expected recycle bin entry")
	}

	var entries []model.RecycleBinEntry
	call(t, "GET", base+"/recycle-bin", token, nil, http.StatusOK, &entries)
	if len(entries) != 1 || entries[0].DeleteReason != "broken leg" || entries[0].DeletedBy != "admin" {
		t.Errorf("unexpected recycle bin: %+v", entries)
	}

	var restored model.Unit
	call(t, "POST", base+"/recycle-bin/"+deleted.EntryID+"/restore", token, nil, http.StatusOK, &restored)
	if restored.TrackingKey() != "CH-1" || restored.StatusID != 3 {
		t.Errorf("unexpected restored unit: %+v", restored)
	}
	call(t, "POST", base+"/recycle-bin/"+deleted.EntryID+"/restore", token, nil, http.StatusNotFound, nil)

	var events []model.StockEvent
	call(t, "GET", base+"/events?item_name=Chair&category_id=1", token, nil, http.StatusOK, &events)
	if len(events) != 7 || events[0].Action != model.ActionRestore {
		t.Errorf("expected 7 events ending with restore, got %d", len(events))
	}

	call(t, "POST", base+"/groups/delete", token, map[string]any{
		"item_name": "Chair", "category_id": 1, "reason": "sold",
	}, http.StatusOK, nil)
	call(t, "GET", base+"/groups?search=chair", token, nil, http.StatusOK, &rows)
	if len(rows) != 0 {
		t.Errorf("expected no rows after group delete, got %d", len(rows))
	}
}

func TestOperationsEndpoint(t *testing.T) {
	server, token := setupTestServer(t)
	base := server.URL + "/api"

	call(t, "POST", base+"/units", token, map[string]any{
		"item_name": "Toner", "category_id": 2, "quantity": 1,
	}, http.StatusCreated, nil)

	var out struct {
		Op     string                 `json:"op"`
		Result inventory.AdjustResult `json:"result"`
	}
	call(t, "POST", base+"/stock/operations", token, map[string]any{
		"op":      "adjust",
		"payload": map[string]any{"item_name": "Toner", "category_id": 2, "target_quantity": 4},
	}, http.StatusOK, &out)
	if out.Op != "adjust" || out.Result.New != 4 {
		t.Errorf("unexpected response: %+v", out)
	}

	call(t, "POST", base+"/stock/operations", token, map[string]any{
		"op": "explode", "payload": map[string]any{},
	}, http.StatusBadRequest, nil)

	var e errorBody
	call(t, "POST", base+"/stock/operations", token, map[string]any{
		"op":      "delete",
		"payload": map[string]any{"unit_id": "whatever"},
	}, http.StatusBadRequest, &e)
	if e.Kind != "reason_required" {
		t.Errorf("expected reason_required, got %q", e.Kind)
	}
}

func TestHoldingsEndpoint(t *testing.T) {
	server, token := setupTestServer(t)
	base := server.URL + "/api"

	var unit model.Unit
	call(t, "POST", base+"/units", token, map[string]any{
		"item_name": "Laptop", "category_id": 1, "serial_number": "SN-1",
	}, http.StatusCreated, &unit)

	var holder model.Holder
	call(t, "POST", base+"/holders", token, map[string]string{"name": "Ana", "type": "person"}, http.StatusCreated, &holder)
	call(t, "POST", base+"/holders", token, map[string]string{"name": "Ana", "type": "robot"}, http.StatusBadRequest, nil)

	call(t, "POST", base+"/holdings", token, map[string]any{
		"unit_id": unit.ID, "holder_id": holder.ID, "quantity": 2,
	}, http.StatusBadRequest, nil)
	call(t, "POST", base+"/holdings", token, map[string]any{
		"unit_id": unit.ID, "holder_id": holder.ID, "quantity": 1, "pending_return": true,
	}, http.StatusOK, nil)

	var b model.Breakdown
	call(t, "GET", base+"/groups/breakdown?item_name=Laptop&category_id=1", token, nil, http.StatusOK, &b)
	if b.CurrentStats.UserOwnedQuantity != 1 || b.CurrentStats.PendingReturnQuantity != 1 || b.CurrentStats.AvailableQuantity != 0 {
		t.Errorf("unexpected stats: %+v", b.CurrentStats)
	}
	var bulk model.Unit
	call(t, "POST", base+"/units", token, map[string]any{
		"item_name": "Mouse", "category_id": 1, "quantity": 3,
	}, http.StatusCreated, &bulk)
	call(t, "POST", base+"/holdings", token, map[string]any{
		"unit_id": bulk.ID, "holder_id": holder.ID, "quantity": 3,
	}, http.StatusOK, nil)

	var held errorBody
	call(t, "POST", base+"/stock/adjust", token, map[string]any{
		"item_name": "Mouse", "category_id": 1, "target_quantity": 0,
	}, http.StatusBadRequest, &held)
	if held.Kind != "invalid_quantity" {
		t.Errorf("expected invalid_quantity, got %q", held.Kind)
	}
}
