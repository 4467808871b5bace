package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/NelsonAGM/AdminRST-sub000/internal/config"
	"github.com/NelsonAGM/AdminRST-sub000/internal/entity"
	"github.com/NelsonAGM/AdminRST-sub000/internal/mailer"
	"github.com/NelsonAGM/AdminRST-sub000/internal/repository"
	"github.com/NelsonAGM/AdminRST-sub000/internal/service"
	"github.com/NelsonAGM/AdminRST-sub000/internal/testutil"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type recordingSender struct {
	mu   sync.Mutex
	sent []mailer.Message
	err  error
}

func (r *recordingSender) Send(ctx context.Context, msg mailer.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.sent = append(r.sent, msg)
	return nil
}

type staticRenderer struct{ err error }

func (s *staticRenderer) Render(ctx context.Context, html []byte) ([]byte, error) {
	if s.err != nil {
		return nil, s.err
	}
	return []byte("%PDF-1.4 test"), nil
}

type apiTestEnv struct {
	db     *gorm.DB
	repos  *repository.Repositories
	router *gin.Engine
	sender *recordingSender
	token  string
}

func setupAPI(t *testing.T) *apiTestEnv {
	t.Helper()

	db := testutil.SetupTestDB(t)
	repos := repository.NewRepositories(db)
	logger := zap.NewNop()

	sender := &recordingSender{}
	dispatcher := mailer.NewDispatcher(sender, logger, func(out mailer.Outcome) {
		status := entity.NotificationSent
		if !out.Sent {
			status = entity.NotificationFailed
		}
		repos.Notification.Create(&entity.NotificationLog{
			OrderID:   out.Job.OrderID,
			Recipient: out.Job.Message.To,
			Subject:   out.Job.Message.Subject,
			Status:    status,
			Attempts:  out.Attempts,
		})
	})
	dispatcher.Start(context.Background())
	t.Cleanup(dispatcher.Stop)

	svc := &service.Services{
		Auth:       service.NewAuthService(repos.User, config.JWTConfig{Secret: testutil.JWTSecret, TokenExpire: time.Hour}),
		Order:      service.NewOrderService(db, repos, dispatcher, sender, &staticRenderer{}, logger),
		Revenue:    service.NewRevenueService(repos.Order, nil, logger),
		Upload:     service.NewUploadService(nil, config.StorageConfig{}),
		Dispatcher: dispatcher,
	}
	handlers := NewHandlers(svc, repos)

	router := testutil.SetupRouter()
	api := testutil.AuthGroup(router, "/api/v1")
	orders := api.Group("/service-orders")
	{
		orders.GET("", handlers.Order.List)
		orders.POST("", handlers.Order.Create)
		orders.POST("/bulk-pdf", handlers.Order.BulkPDF)
		orders.GET("/:id", handlers.Order.Get)
		orders.PUT("/:id", handlers.Order.Update)
		orders.DELETE("/:id", handlers.Order.Delete)
		orders.PUT("/:id/status", handlers.Order.UpdateStatus)
		orders.POST("/:id/send-email", handlers.Order.SendEmail)
		orders.GET("/:id/pdf", handlers.Order.DownloadPDF)
		orders.GET("/:id/notifications", handlers.Order.ListNotifications)
	}

	return &apiTestEnv{
		db:     db,
		repos:  repos,
		router: router,
		sender: sender,
		token:  testutil.DefaultTestToken(),
	}
}

func (env *apiTestEnv) seedOrderFixtures(t *testing.T) (*entity.Client, *entity.Equipment) {
	t.Helper()
	client := testutil.SeedClient(t, env.db, "Acme Corp", "billing@acme.test")
	equip := testutil.SeedEquipment(t, env.db, client.ID, "printer", "HP")
	return client, equip
}

func TestCreateOrderEndpoint(t *testing.T) {
	env := setupAPI(t)
	client, equip := env.seedOrderFixtures(t)

	w := testutil.DoRequest(env.router, "POST", "/api/v1/service-orders", gin.H{
		"client_id":    client.ID,
		"equipment_id": equip.ID,
		"description":  "does not print",
	}, env.token)

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	resp := testutil.ParseResponse(w)
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, "pending", data["status"])
	assert.Contains(t, data["order_number"], fmt.Sprintf("ORD-%d-", time.Now().Year()))
}

func TestCreateOrderEndpointUnknownClient(t *testing.T) {
	env := setupAPI(t)
	_, equip := env.seedOrderFixtures(t)

	w := testutil.DoRequest(env.router, "POST", "/api/v1/service-orders", gin.H{
		"client_id":    999,
		"equipment_id": equip.ID,
		"description":  "x",
	}, env.token)

	assert.Equal(t, http.StatusNotFound, w.Code)

	count, err := env.repos.Order.Count()
	require.NoError(t, err)
	assert.Equal(t, int64(0), count, "no order may be persisted")
}

func TestCreateOrderEndpointValidation(t *testing.T) {
	env := setupAPI(t)

	w := testutil.DoRequest(env.router, "POST", "/api/v1/service-orders", gin.H{
		"description": "missing refs",
	}, env.token)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestOrderEndpointRequiresAuth(t *testing.T) {
	env := setupAPI(t)

	w := testutil.DoRequest(env.router, "GET", "/api/v1/service-orders", nil, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestUpdateStatusEndpoint(t *testing.T) {
	env := setupAPI(t)
	client, equip := env.seedOrderFixtures(t)

	w := testutil.DoRequest(env.router, "POST", "/api/v1/service-orders", gin.H{
		"client_id":    client.ID,
		"equipment_id": equip.ID,
		"description":  "x",
	}, env.token)
	require.Equal(t, http.StatusCreated, w.Code)
	data := testutil.ParseResponse(w)["data"].(map[string]interface{})
	id := uint(data["id"].(float64))

	path := fmt.Sprintf("/api/v1/service-orders/%d/status", id)

	w = testutil.DoRequest(env.router, "PUT", path, gin.H{"status": "in_progress"}, env.token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// regression is rejected
	w = testutil.DoRequest(env.router, "PUT", path, gin.H{"status": "pending"}, env.token)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// unknown status is rejected
	w = testutil.DoRequest(env.router, "PUT", path, gin.H{"status": "shipped"}, env.token)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDownloadPDFEndpoint(t *testing.T) {
	env := setupAPI(t)
	client, equip := env.seedOrderFixtures(t)

	w := testutil.DoRequest(env.router, "POST", "/api/v1/service-orders", gin.H{
		"client_id":    client.ID,
		"equipment_id": equip.ID,
		"description":  "x",
	}, env.token)
	require.Equal(t, http.StatusCreated, w.Code)
	data := testutil.ParseResponse(w)["data"].(map[string]interface{})
	id := uint(data["id"].(float64))

	w = testutil.DoRequest(env.router, "GET", fmt.Sprintf("/api/v1/service-orders/%d/pdf", id), nil, env.token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Equal(t, "%PDF-1.4 test", w.Body.String())

	w = testutil.DoRequest(env.router, "GET", "/api/v1/service-orders/999/pdf", nil, env.token)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestBulkPDFEndpoint(t *testing.T) {
	env := setupAPI(t)
	client, equip := env.seedOrderFixtures(t)

	var ids []uint
	for i := 0; i < 2; i++ {
		w := testutil.DoRequest(env.router, "POST", "/api/v1/service-orders", gin.H{
			"client_id":    client.ID,
			"equipment_id": equip.ID,
			"description":  fmt.Sprintf("order %d", i),
		}, env.token)
		require.Equal(t, http.StatusCreated, w.Code)
		data := testutil.ParseResponse(w)["data"].(map[string]interface{})
		ids = append(ids, uint(data["id"].(float64)))
	}

	w := testutil.DoRequest(env.router, "POST", "/api/v1/service-orders/bulk-pdf", gin.H{"ids": ids}, env.token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))

	w = testutil.DoRequest(env.router, "POST", "/api/v1/service-orders/bulk-pdf", gin.H{"ids": []uint{}}, env.token)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSendEmailEndpoint(t *testing.T) {
	env := setupAPI(t)
	client, equip := env.seedOrderFixtures(t)

	w := testutil.DoRequest(env.router, "POST", "/api/v1/service-orders", gin.H{
		"client_id":    client.ID,
		"equipment_id": equip.ID,
		"description":  "x",
	}, env.token)
	require.Equal(t, http.StatusCreated, w.Code)
	data := testutil.ParseResponse(w)["data"].(map[string]interface{})
	id := uint(data["id"].(float64))

	w = testutil.DoRequest(env.router, "POST", fmt.Sprintf("/api/v1/service-orders/%d/send-email", id), nil, env.token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// transport failure surfaces as a 502-class error
	env.sender.mu.Lock()
	env.sender.err = errors.New("smtp unreachable")
	env.sender.mu.Unlock()

	w = testutil.DoRequest(env.router, "POST", fmt.Sprintf("/api/v1/service-orders/%d/send-email", id), nil, env.token)
	assert.Equal(t, http.StatusBadGateway, w.Code)
	resp := testutil.ParseResponse(w)
	assert.Equal(t, float64(50200), resp["code"])
}

func TestListNotificationsEndpoint(t *testing.T) {
	env := setupAPI(t)
	client, equip := env.seedOrderFixtures(t)

	w := testutil.DoRequest(env.router, "POST", "/api/v1/service-orders", gin.H{
		"client_id":    client.ID,
		"equipment_id": equip.ID,
		"description":  "x",
	}, env.token)
	require.Equal(t, http.StatusCreated, w.Code)
	data := testutil.ParseResponse(w)["data"].(map[string]interface{})
	id := uint(data["id"].(float64))

	// wait for the background notification to land in the log
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		logs, err := env.repos.Notification.ListByOrder(id)
		require.NoError(t, err)
		if len(logs) > 0 {
			break
		}
		time.Sleep(5 * time.Millisecond)
	}

	w = testutil.DoRequest(env.router, "GET", fmt.Sprintf("/api/v1/service-orders/%d/notifications", id), nil, env.token)
	require.Equal(t, http.StatusOK, w.Code)
	resp := testutil.ParseResponse(w)
	items := resp["data"].(map[string]interface{})["items"].([]interface{})
	require.NotEmpty(t, items)
	first := items[0].(map[string]interface{})
	assert.Equal(t, "billing@acme.test", first["recipient"])
}

func TestListOrdersEndpointFilters(t *testing.T) {
	env := setupAPI(t)
	client, equip := env.seedOrderFixtures(t)

	for _, desc := range []string{"broken screen", "noisy fan"} {
		w := testutil.DoRequest(env.router, "POST", "/api/v1/service-orders", gin.H{
			"client_id":    client.ID,
			"equipment_id": equip.ID,
			"description":  desc,
		}, env.token)
		require.Equal(t, http.StatusCreated, w.Code)
	}

	w := testutil.DoRequest(env.router, "GET", "/api/v1/service-orders?keyword=screen", nil, env.token)
	require.Equal(t, http.StatusOK, w.Code)
	resp := testutil.ParseResponse(w)
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, float64(1), data["total"])

	w = testutil.DoRequest(env.router, "GET", "/api/v1/service-orders?status=pending", nil, env.token)
	require.Equal(t, http.StatusOK, w.Code)
	data = testutil.ParseResponse(w)["data"].(map[string]interface{})
	assert.Equal(t, float64(2), data["total"])
}

func TestDeleteOrderEndpoint(t *testing.T) {
	env := setupAPI(t)
	client, equip := env.seedOrderFixtures(t)

	w := testutil.DoRequest(env.router, "POST", "/api/v1/service-orders", gin.H{
		"client_id":    client.ID,
		"equipment_id": equip.ID,
		"description":  "x",
	}, env.token)
	require.Equal(t, http.StatusCreated, w.Code)
	data := testutil.ParseResponse(w)["data"].(map[string]interface{})
	id := uint(data["id"].(float64))

	w = testutil.DoRequest(env.router, "DELETE", fmt.Sprintf("/api/v1/service-orders/%d", id), nil, env.token)
	require.Equal(t, http.StatusOK, w.Code)

	w = testutil.DoRequest(env.router, "GET", fmt.Sprintf("/api/v1/service-orders/%d", id), nil, env.token)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
