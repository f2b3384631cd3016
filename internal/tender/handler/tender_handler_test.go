package handler

import (
	"net/http"
	"testing"
	"time"

	"github.com/bitfantasy/tms/internal/tender/repository"
	"github.com/bitfantasy/tms/internal/tender/service"
	"github.com/bitfantasy/tms/internal/tender/testutil"
)

func timeNow() time.Time { return time.Now().UTC() }

func setupTenderTest(t *testing.T) *testutil.TestEnv {
	t.Helper()
	db := testutil.SetupTestDB(t)
	router := testutil.SetupRouter()

	repos := repository.NewRepositories(db)
	h := NewTenderHandler(service.NewTenderService(repos))

	api := testutil.AuthGroup(router, "/api/v1")
	api.GET("/tenders", h.List)
	api.POST("/tenders", h.Create)
	api.GET("/tenders/:id", h.Get)
	api.PUT("/tenders/:id/status", h.UpdateStatus)
	api.POST("/tenders/:id/timers/start", h.StartTimer)
	api.POST("/tenders/:id/timers/complete", h.CompleteTimer)
	api.POST("/tenders/:id/info-sheet", h.CreateInfoSheet)
	api.POST("/tenders/:id/emd-requests", h.CreateEmdRequest)

	return &testutil.TestEnv{DB: db, Router: router, T: t}
}

func TestTenderCreateAndGet(t *testing.T) {
	env := setupTenderTest(t)
	token := testutil.DefaultTestToken()
	testutil.SeedTestUser(t, env.DB, "test-user-001", "Test Executive", "executive", "test-team-001")

	w := testutil.DoRequest(env.Router, "POST", "/api/v1/tenders", map[string]interface{}{
		"name":         "配电自动化项目",
		"tender_value": 1500000,
		"emd_amount":   30000,
	}, token)
	if w.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body = %s", w.Code, w.Body.String())
	}

	resp := testutil.ParseResponse(w)
	data := resp["data"].(map[string]interface{})
	id := data["id"].(string)
	if data["status_code"].(float64) != 1 {
		t.Errorf("new tender status = %v, want 1", data["status_code"])
	}
	if data["tender_no"] == "" {
		t.Error("tender_no must be generated")
	}

	w = testutil.DoRequest(env.Router, "GET", "/api/v1/tenders/"+id, nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("get status = %d", w.Code)
	}
}

func TestTenderCreateRequiresAuth(t *testing.T) {
	env := setupTenderTest(t)
	w := testutil.DoRequest(env.Router, "POST", "/api/v1/tenders", map[string]interface{}{
		"name": "未登录",
	}, "")
	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}

func TestTenderStatusUpdate(t *testing.T) {
	env := setupTenderTest(t)
	token := testutil.DefaultTestToken()
	testutil.SeedTestUser(t, env.DB, "test-user-001", "Test Executive", "executive", "test-team-001")
	tender := testutil.SeedTestTender(t, env.DB, "t-status-001", "test-user-001", "test-team-001", 1, timeNow())

	w := testutil.DoRequest(env.Router, "PUT", "/api/v1/tenders/"+tender.ID+"/status",
		map[string]interface{}{"status_code": 11}, token)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	// 码值越界被拒
	w = testutil.DoRequest(env.Router, "PUT", "/api/v1/tenders/"+tender.ID+"/status",
		map[string]interface{}{"status_code": 42}, token)
	if w.Code != http.StatusBadRequest {
		t.Errorf("out-of-range code: status = %d, want 400", w.Code)
	}

	// 不存在的标书
	w = testutil.DoRequest(env.Router, "PUT", "/api/v1/tenders/nonexistent/status",
		map[string]interface{}{"status_code": 5}, token)
	if w.Code != http.StatusNotFound {
		t.Errorf("missing tender: status = %d, want 404", w.Code)
	}
}

func TestTenderTimerLifecycle(t *testing.T) {
	env := setupTenderTest(t)
	token := testutil.DefaultTestToken()
	testutil.SeedTestUser(t, env.DB, "test-user-001", "Test Executive", "executive", "test-team-001")
	tender := testutil.SeedTestTender(t, env.DB, "t-timer-001", "test-user-001", "test-team-001", 3, timeNow())

	body := map[string]interface{}{"stage_name": "bid_submission"}

	w := testutil.DoRequest(env.Router, "POST", "/api/v1/tenders/"+tender.ID+"/timers/start", body, token)
	if w.Code != http.StatusCreated {
		t.Fatalf("start status = %d, body = %s", w.Code, w.Body.String())
	}
	first := testutil.ParseResponse(w)["data"].(map[string]interface{})["id"].(string)

	// 同键重复开表：拿回同一条
	w = testutil.DoRequest(env.Router, "POST", "/api/v1/tenders/"+tender.ID+"/timers/start", body, token)
	second := testutil.ParseResponse(w)["data"].(map[string]interface{})["id"].(string)
	if first != second {
		t.Errorf("duplicate start created new timer: %s vs %s", first, second)
	}

	w = testutil.DoRequest(env.Router, "POST", "/api/v1/tenders/"+tender.ID+"/timers/complete", body, token)
	if w.Code != http.StatusOK {
		t.Fatalf("complete status = %d, body = %s", w.Code, w.Body.String())
	}
	data := testutil.ParseResponse(w)["data"].(map[string]interface{})
	if data["status"] != "completed" || data["ended_at"] == nil {
		t.Errorf("completed timer = %+v", data)
	}

	// 已完成后再次完成：404（无在用计时器）
	w = testutil.DoRequest(env.Router, "POST", "/api/v1/tenders/"+tender.ID+"/timers/complete", body, token)
	if w.Code == http.StatusOK {
		t.Error("completing a finished timer must fail")
	}
}

func TestTenderEmdRequest(t *testing.T) {
	env := setupTenderTest(t)
	token := testutil.DefaultTestToken()
	testutil.SeedTestUser(t, env.DB, "test-user-001", "Test Executive", "executive", "test-team-001")
	tender := testutil.SeedTestTender(t, env.DB, "t-emd-001", "test-user-001", "test-team-001", 6, timeNow())

	w := testutil.DoRequest(env.Router, "POST", "/api/v1/tenders/"+tender.ID+"/emd-requests",
		map[string]interface{}{
			"instrument_type": "dd",
			"amount":          30000,
		}, token)
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	data := testutil.ParseResponse(w)["data"].(map[string]interface{})
	inst := data["instrument"].(map[string]interface{})
	if inst["instrument_type"] != "dd" || inst["action"].(float64) != 1 {
		t.Errorf("instrument = %+v", inst)
	}

	// 非法工具类型
	w = testutil.DoRequest(env.Router, "POST", "/api/v1/tenders/"+tender.ID+"/emd-requests",
		map[string]interface{}{"instrument_type": "cash"}, token)
	if w.Code != http.StatusBadRequest {
		t.Errorf("invalid instrument type: status = %d, want 400", w.Code)
	}
}
