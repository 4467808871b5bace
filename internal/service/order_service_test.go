package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/NelsonAGM/AdminRST-sub000/internal/config"
	"github.com/NelsonAGM/AdminRST-sub000/internal/entity"
	"github.com/NelsonAGM/AdminRST-sub000/internal/mailer"
	"github.com/NelsonAGM/AdminRST-sub000/internal/pdf"
	"github.com/NelsonAGM/AdminRST-sub000/internal/repository"
	"github.com/NelsonAGM/AdminRST-sub000/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// fakeSender records sent messages and fails on demand.
type fakeSender struct {
	mu   sync.Mutex
	sent []mailer.Message
	err  error
}

func (f *fakeSender) Send(ctx context.Context, msg mailer.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, msg)
	return nil
}

func (f *fakeSender) sentCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sent)
}

type fakeRenderer struct {
	out []byte
	err error
}

func (f *fakeRenderer) Render(ctx context.Context, html []byte) ([]byte, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.out, nil
}

type orderTestEnv struct {
	db         *gorm.DB
	repos      *repository.Repositories
	svc        *OrderService
	sender     *fakeSender
	dispatcher *mailer.Dispatcher
	client     *entity.Client
	equipment  *entity.Equipment
}

func setupOrderService(t *testing.T) *orderTestEnv {
	t.Helper()

	db := testutil.SetupTestDB(t)
	repos := repository.NewRepositories(db)
	logger := zap.NewNop()

	sender := &fakeSender{}
	dispatcher := mailer.NewDispatcher(sender, logger, func(out mailer.Outcome) {
		log := &entity.NotificationLog{
			OrderID:   out.Job.OrderID,
			Recipient: out.Job.Message.To,
			Subject:   out.Job.Message.Subject,
			Status:    entity.NotificationSent,
			Attempts:  out.Attempts,
		}
		if !out.Sent {
			log.Status = entity.NotificationFailed
		}
		repos.Notification.Create(log)
	})
	dispatcher.Start(context.Background())
	t.Cleanup(dispatcher.Stop)

	renderer := &fakeRenderer{out: []byte("%PDF-1.4 fake")}
	svc := NewOrderService(db, repos, dispatcher, sender, renderer, logger)

	client := testutil.SeedClient(t, db, "Acme Corp", "billing@acme.test")
	equip := testutil.SeedEquipment(t, db, client.ID, "printer", "HP")

	return &orderTestEnv{
		db:         db,
		repos:      repos,
		svc:        svc,
		sender:     sender,
		dispatcher: dispatcher,
		client:     client,
		equipment:  equip,
	}
}

func (env *orderTestEnv) createOrder(t *testing.T, req CreateOrderRequest) *entity.ServiceOrder {
	t.Helper()
	if req.ClientID == 0 {
		req.ClientID = env.client.ID
	}
	if req.EquipmentID == 0 {
		req.EquipmentID = env.equipment.ID
	}
	if req.Description == "" {
		req.Description = "does not print"
	}
	order, err := env.svc.Create(context.Background(), req)
	require.NoError(t, err)
	return order
}

func waitForSent(t *testing.T, sender *fakeSender, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if sender.sentCount() >= want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("expected %d sent messages, got %d", want, sender.sentCount())
}

func TestCreateOrderAssignsNumberAndDefaults(t *testing.T) {
	env := setupOrderService(t)

	order := env.createOrder(t, CreateOrderRequest{})

	year := time.Now().Year()
	assert.Equal(t, fmt.Sprintf("ORD-%d-1", year), order.OrderNumber)
	assert.Equal(t, entity.StatusPending, order.Status)
	assert.False(t, order.RequestDate.IsZero())
	assert.NotNil(t, order.Photos)
	assert.Len(t, order.Photos, 0)

	second := env.createOrder(t, CreateOrderRequest{Description: "second"})
	assert.Equal(t, fmt.Sprintf("ORD-%d-2", year), second.OrderNumber)
}

func TestCreateOrderEnqueuesNotification(t *testing.T) {
	env := setupOrderService(t)

	order := env.createOrder(t, CreateOrderRequest{})
	waitForSent(t, env.sender, 1)

	env.sender.mu.Lock()
	msg := env.sender.sent[0]
	env.sender.mu.Unlock()
	assert.Equal(t, "billing@acme.test", msg.To)
	assert.Contains(t, msg.Subject, order.OrderNumber)
	assert.Contains(t, msg.HTMLBody, order.OrderNumber)
}

func TestCreateOrderSkipsNotificationWithoutEmail(t *testing.T) {
	env := setupOrderService(t)
	silent := testutil.SeedClient(t, env.db, "No Mail Ltd", "")
	equip := testutil.SeedEquipment(t, env.db, silent.ID, "laptop", "Dell")

	env.createOrder(t, CreateOrderRequest{ClientID: silent.ID, EquipmentID: equip.ID})

	// give the worker a moment; nothing should arrive
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, 0, env.sender.sentCount())
}

func TestCreateOrderUnknownClient(t *testing.T) {
	env := setupOrderService(t)

	_, err := env.svc.Create(context.Background(), CreateOrderRequest{
		ClientID:    9999,
		EquipmentID: env.equipment.ID,
		Description: "x",
	})
	assert.ErrorIs(t, err, ErrClientNotFound)

	count, err := env.repos.Order.Count()
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
}

func TestCreateOrderNormalizesPhotosAndSignature(t *testing.T) {
	env := setupOrderService(t)

	order := env.createOrder(t, CreateOrderRequest{
		Photos:          "data:image/png;base64,abc",
		ClientSignature: "data:image/png;base64,sig",
	})
	assert.Equal(t, []string{"data:image/png;base64,abc"}, []string(order.Photos))
	assert.Equal(t, "data:image/png;base64,sig", order.ClientSignature)

	order = env.createOrder(t, CreateOrderRequest{
		Photos: map[string]interface{}{"bogus": true},
	})
	assert.Len(t, order.Photos, 0)
}

func TestCreateOrderWithCompletedStatusStampsDate(t *testing.T) {
	env := setupOrderService(t)

	order := env.createOrder(t, CreateOrderRequest{Status: entity.StatusCompleted})
	assert.Equal(t, entity.StatusCompleted, order.Status)
	assert.NotNil(t, order.CompletionDate)
}

func TestCreateOrderRejectsBadDate(t *testing.T) {
	env := setupOrderService(t)

	_, err := env.svc.Create(context.Background(), CreateOrderRequest{
		ClientID:     env.client.ID,
		EquipmentID:  env.equipment.ID,
		Description:  "x",
		ExpectedDate: "soon",
	})
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestUpdateStatusTransitions(t *testing.T) {
	env := setupOrderService(t)
	ctx := context.Background()

	order := env.createOrder(t, CreateOrderRequest{})

	// forward move
	updated, err := env.svc.UpdateStatus(ctx, order.ID, entity.StatusInProgress)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusInProgress, updated.Status)

	// backwards is rejected
	_, err = env.svc.UpdateStatus(ctx, order.ID, entity.StatusPending)
	assert.ErrorIs(t, err, ErrIllegalTransition)

	// unknown status is rejected
	_, err = env.svc.UpdateStatus(ctx, order.ID, "shipped")
	assert.ErrorIs(t, err, ErrInvalidStatus)

	// same status is a no-op
	updated, err = env.svc.UpdateStatus(ctx, order.ID, entity.StatusInProgress)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusInProgress, updated.Status)

	// completing stamps the completion date
	updated, err = env.svc.UpdateStatus(ctx, order.ID, entity.StatusCompleted)
	require.NoError(t, err)
	assert.NotNil(t, updated.CompletionDate)

	// nothing leaves a terminal status
	_, err = env.svc.UpdateStatus(ctx, order.ID, entity.StatusWarranty)
	assert.ErrorIs(t, err, ErrIllegalTransition)
}

func TestUpdateStatusSideExits(t *testing.T) {
	env := setupOrderService(t)
	ctx := context.Background()

	order := env.createOrder(t, CreateOrderRequest{})
	_, err := env.svc.UpdateStatus(ctx, order.ID, entity.StatusCancelled)
	require.NoError(t, err)

	order = env.createOrder(t, CreateOrderRequest{Status: entity.StatusInProgress})
	updated, err := env.svc.UpdateStatus(ctx, order.ID, entity.StatusWarranty)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusWarranty, updated.Status)
}

func TestUpdateOrderFields(t *testing.T) {
	env := setupOrderService(t)
	ctx := context.Background()

	order := env.createOrder(t, CreateOrderRequest{})
	tech := testutil.SeedTechnician(t, env.db, "Jordan")

	notes := "waiting on parts"
	cost := int64(12500)
	approved := true
	updated, err := env.svc.Update(ctx, order.ID, UpdateOrderRequest{
		TechnicianID:   &tech.ID,
		Notes:          &notes,
		Cost:           &cost,
		ClientApproved: &approved,
	})
	require.NoError(t, err)
	assert.Equal(t, notes, updated.Notes)
	assert.Equal(t, cost, *updated.Cost)
	assert.NotNil(t, updated.ApprovalDate)
	assert.Equal(t, order.OrderNumber, updated.OrderNumber)

	_, err = env.svc.Update(ctx, 9999, UpdateOrderRequest{Notes: &notes})
	assert.ErrorIs(t, err, ErrOrderNotFound)

	unknownTech := uint(404)
	_, err = env.svc.Update(ctx, order.ID, UpdateOrderRequest{TechnicianID: &unknownTech})
	assert.ErrorIs(t, err, ErrTechnicianNotFound)
}

func TestRenderPDF(t *testing.T) {
	env := setupOrderService(t)
	ctx := context.Background()

	order := env.createOrder(t, CreateOrderRequest{})
	out, err := env.svc.RenderPDF(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF-1.4 fake"), out)

	_, err = env.svc.RenderPDF(ctx, 9999)
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestRenderPDFUsesStoredServiceSettings(t *testing.T) {
	env := setupOrderService(t)
	ctx := context.Background()

	var hits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		hits++
		assert.Equal(t, "stored-key", req.Header.Get("X-API-Key"))
		w.Write([]byte("%PDF-1.4 remote"))
	}))
	defer srv.Close()

	// remote-only renderer resolving its config from the settings row,
	// with empty environment defaults
	env.svc.renderer = pdf.NewFallbackRenderer(zap.NewNop(),
		pdf.NewRemoteRenderer(pdfResolver(env.repos.Settings, config.PDFConfig{}), time.Second),
	)

	order := env.createOrder(t, CreateOrderRequest{})

	// nothing stored, nothing in env: rendering is unconfigured
	_, err := env.svc.RenderPDF(ctx, order.ID)
	assert.ErrorIs(t, err, pdf.ErrUnconfigured)
	assert.Equal(t, 0, hits)

	// saving service settings takes effect without rebuilding anything
	require.NoError(t, env.repos.Settings.Save(&entity.CompanySettings{
		PDFEndpoint: srv.URL,
		PDFAPIKey:   "stored-key",
	}))

	out, err := env.svc.RenderPDF(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF-1.4 remote"), out)
	assert.Equal(t, 1, hits)
}

func TestRenderBulkPDF(t *testing.T) {
	env := setupOrderService(t)
	ctx := context.Background()

	a := env.createOrder(t, CreateOrderRequest{Description: "first"})
	b := env.createOrder(t, CreateOrderRequest{Description: "second"})

	out, err := env.svc.RenderBulkPDF(ctx, []uint{a.ID, b.ID})
	require.NoError(t, err)
	assert.NotEmpty(t, out)

	_, err = env.svc.RenderBulkPDF(ctx, nil)
	assert.ErrorIs(t, err, ErrOrderNotFound)

	_, err = env.svc.RenderBulkPDF(ctx, []uint{9999})
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestResendEmail(t *testing.T) {
	env := setupOrderService(t)
	ctx := context.Background()

	order := env.createOrder(t, CreateOrderRequest{})
	waitForSent(t, env.sender, 1)

	err := env.svc.ResendEmail(ctx, order.ID)
	require.NoError(t, err)
	waitForSent(t, env.sender, 2)

	env.sender.mu.Lock()
	resent := env.sender.sent[len(env.sender.sent)-1]
	env.sender.mu.Unlock()
	require.Len(t, resent.Attachments, 1)
	assert.Equal(t, order.OrderNumber+".pdf", resent.Attachments[0].Filename)

	logs, err := env.svc.ListNotifications(order.ID)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, len(logs), 2)
}

func TestResendEmailWithoutClientEmail(t *testing.T) {
	env := setupOrderService(t)
	silent := testutil.SeedClient(t, env.db, "No Mail Ltd", "")
	equip := testutil.SeedEquipment(t, env.db, silent.ID, "laptop", "Dell")
	order := env.createOrder(t, CreateOrderRequest{ClientID: silent.ID, EquipmentID: equip.ID})

	err := env.svc.ResendEmail(context.Background(), order.ID)
	assert.ErrorIs(t, err, ErrClientHasNoEmail)
}

func TestResendEmailRecordsFailure(t *testing.T) {
	env := setupOrderService(t)
	order := env.createOrder(t, CreateOrderRequest{})
	waitForSent(t, env.sender, 1)

	env.sender.mu.Lock()
	env.sender.err = errors.New("smtp unreachable")
	env.sender.mu.Unlock()

	err := env.svc.ResendEmail(context.Background(), order.ID)
	assert.Error(t, err)

	logs, err := env.svc.ListNotifications(order.ID)
	require.NoError(t, err)
	var failed bool
	for _, log := range logs {
		if log.Status == entity.NotificationFailed {
			failed = true
		}
	}
	assert.True(t, failed, "expected a failed notification log entry")
}
