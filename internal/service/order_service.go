package service

import (
	"context"
	"fmt"
	"html/template"
	"strconv"
	"time"

	"github.com/NelsonAGM/AdminRST-sub000/internal/entity"
	"github.com/NelsonAGM/AdminRST-sub000/internal/mailer"
	"github.com/NelsonAGM/AdminRST-sub000/internal/pdf"
	"github.com/NelsonAGM/AdminRST-sub000/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// statusRank orders the forward pipeline. A transition may only move to
// a higher rank; cancelled and warranty are side exits reachable from
// any non-terminal status.
var statusRank = map[string]int{
	entity.StatusPending:         1,
	entity.StatusWaitingApproval: 2,
	entity.StatusApproved:        3,
	entity.StatusInProgress:      4,
	entity.StatusCompleted:       5,
}

// OrderService owns the service-order lifecycle: creation, field
// normalization, status transitions, and the email/PDF side effects.
type OrderService struct {
	db            *gorm.DB
	orders        *repository.OrderRepository
	clients       *repository.ClientRepository
	equipment     *repository.EquipmentRepository
	techs         *repository.TechnicianRepository
	settings      *repository.SettingsRepository
	notifications *repository.NotificationRepository
	dispatcher    *mailer.Dispatcher
	sender        mailer.Sender
	renderer      pdf.Renderer
	logger        *zap.Logger
}

func NewOrderService(
	db *gorm.DB,
	repos *repository.Repositories,
	dispatcher *mailer.Dispatcher,
	sender mailer.Sender,
	renderer pdf.Renderer,
	logger *zap.Logger,
) *OrderService {
	return &OrderService{
		db:            db,
		orders:        repos.Order,
		clients:       repos.Client,
		equipment:     repos.Equipment,
		techs:         repos.Technician,
		settings:      repos.Settings,
		notifications: repos.Notification,
		dispatcher:    dispatcher,
		sender:        sender,
		renderer:      renderer,
		logger:        logger,
	}
}

type CreateOrderRequest struct {
	ClientID        uint        `json:"client_id" binding:"required"`
	EquipmentID     uint        `json:"equipment_id" binding:"required"`
	TechnicianID    *uint       `json:"technician_id"`
	Description     string      `json:"description" binding:"required"`
	Status          string      `json:"status"`
	Notes           string      `json:"notes"`
	MaterialsUsed   string      `json:"materials_used"`
	Cost            *int64      `json:"cost"`
	Photos          interface{} `json:"photos"`
	ClientSignature interface{} `json:"client_signature"`
	ExpectedDate    string      `json:"expected_date"`
}

// Create validates and normalizes the inbound order, assigns the
// immutable order number inside a transaction, persists it, and fires
// the notification email without blocking the caller.
func (s *OrderService) Create(ctx context.Context, req CreateOrderRequest) (*entity.ServiceOrder, error) {
	client, err := s.clients.GetByID(req.ClientID)
	if err != nil {
		return nil, ErrClientNotFound
	}
	equip, err := s.equipment.GetByID(req.EquipmentID)
	if err != nil {
		return nil, ErrEquipmentNotFound
	}
	if req.TechnicianID != nil {
		if _, err := s.techs.GetByID(*req.TechnicianID); err != nil {
			return nil, ErrTechnicianNotFound
		}
	}

	status := entity.StatusPending
	if req.Status != "" {
		if !entity.IsValidStatus(req.Status) {
			return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, req.Status)
		}
		status = req.Status
	}

	expected, err := parseDate(req.ExpectedDate)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	order := &entity.ServiceOrder{
		ClientID:        req.ClientID,
		EquipmentID:     req.EquipmentID,
		TechnicianID:    req.TechnicianID,
		Description:     req.Description,
		RequestDate:     now,
		ExpectedDate:    expected,
		Notes:           req.Notes,
		MaterialsUsed:   req.MaterialsUsed,
		Cost:            req.Cost,
		Photos:          normalizePhotos(req.Photos),
		ClientSignature: normalizeSignature(req.ClientSignature),
	}
	// an order born completed gets its completion date stamped the
	// same way a transition would
	s.applyStatus(order, status)

	err = s.db.Transaction(func(tx *gorm.DB) error {
		n, err := s.orders.NextSequence(tx, now.Year())
		if err != nil {
			return fmt.Errorf("next order sequence: %w", err)
		}
		order.OrderNumber = fmt.Sprintf("ORD-%d-%d", now.Year(), n)
		return s.orders.CreateInTx(tx, order)
	})
	if err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}

	// Fire-and-forget: a client without an email gets no notification,
	// and a failed send never fails the create.
	if client.Email != "" {
		s.enqueueCreatedNotification(order, client, equip)
	}

	return order, nil
}

func (s *OrderService) enqueueCreatedNotification(order *entity.ServiceOrder, client *entity.Client, equip *entity.Equipment) {
	body, err := mailer.OrderCreatedBody(mailer.OrderEmailData{
		CompanyName: s.companyName(),
		ClientName:  client.Name,
		OrderNumber: order.OrderNumber,
		Equipment:   equipmentLabel(equip),
		Description: order.Description,
		Status:      order.Status,
		RequestDate: order.RequestDate.Format("2006-01-02 15:04"),
	})
	if err != nil {
		s.logger.Error("render order notification body", zap.Error(err))
		return
	}
	s.dispatcher.Enqueue(mailer.Job{
		OrderID: order.ID,
		Message: mailer.Message{
			To:       client.Email,
			Subject:  mailer.OrderSubject(order.OrderNumber),
			HTMLBody: body,
		},
	})
}

func (s *OrderService) companyName() string {
	settings, err := s.settings.Get()
	if err != nil {
		return ""
	}
	return settings.Name
}

type UpdateOrderRequest struct {
	TechnicianID    *uint       `json:"technician_id"`
	Description     *string     `json:"description"`
	Status          *string     `json:"status"`
	Notes           *string     `json:"notes"`
	MaterialsUsed   *string     `json:"materials_used"`
	Cost            *int64      `json:"cost"`
	Photos          interface{} `json:"photos"`
	ClientSignature interface{} `json:"client_signature"`
	ExpectedDate    *string     `json:"expected_date"`
	CompletionDate  *string     `json:"completion_date"`
	ClientApproved  *bool       `json:"client_approved"`
}

// Update applies the present fields with the same normalization rules
// as Create. Order number and request date are never touched. No side
// effects fire on update; resending email is an explicit operation.
func (s *OrderService) Update(ctx context.Context, id uint, req UpdateOrderRequest) (*entity.ServiceOrder, error) {
	order, err := s.orders.GetByID(id)
	if err != nil {
		return nil, ErrOrderNotFound
	}

	if req.TechnicianID != nil {
		if _, err := s.techs.GetByID(*req.TechnicianID); err != nil {
			return nil, ErrTechnicianNotFound
		}
		order.TechnicianID = req.TechnicianID
	}
	if req.Description != nil {
		order.Description = *req.Description
	}
	if req.Status != nil && *req.Status != order.Status {
		if err := s.checkTransition(order.Status, *req.Status); err != nil {
			return nil, err
		}
		s.applyStatus(order, *req.Status)
	}
	if req.Notes != nil {
		order.Notes = *req.Notes
	}
	if req.MaterialsUsed != nil {
		order.MaterialsUsed = *req.MaterialsUsed
	}
	if req.Cost != nil {
		order.Cost = req.Cost
	}
	if req.Photos != nil {
		order.Photos = normalizePhotos(req.Photos)
	}
	if req.ClientSignature != nil {
		order.ClientSignature = normalizeSignature(req.ClientSignature)
	}
	if req.ExpectedDate != nil {
		t, err := parseDate(*req.ExpectedDate)
		if err != nil {
			return nil, err
		}
		order.ExpectedDate = t
	}
	if req.CompletionDate != nil {
		t, err := parseDate(*req.CompletionDate)
		if err != nil {
			return nil, err
		}
		order.CompletionDate = t
	}
	if req.ClientApproved != nil {
		order.ClientApproved = req.ClientApproved
		now := time.Now()
		order.ApprovalDate = &now
	}

	if err := s.orders.Update(order); err != nil {
		return nil, fmt.Errorf("update order: %w", err)
	}
	return order, nil
}

// UpdateStatus is the explicit transition endpoint.
func (s *OrderService) UpdateStatus(ctx context.Context, id uint, status string) (*entity.ServiceOrder, error) {
	order, err := s.orders.GetByID(id)
	if err != nil {
		return nil, ErrOrderNotFound
	}
	if status == order.Status {
		return order, nil
	}
	if err := s.checkTransition(order.Status, status); err != nil {
		return nil, err
	}
	s.applyStatus(order, status)
	if err := s.orders.Update(order); err != nil {
		return nil, fmt.Errorf("update order status: %w", err)
	}
	return order, nil
}

// checkTransition enforces the lifecycle: forward moves along
// pending → waiting_approval → approved → in_progress → completed,
// cancelled/warranty from any non-terminal status, nothing out of a
// terminal status.
func (s *OrderService) checkTransition(from, to string) error {
	if !entity.IsValidStatus(to) {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, to)
	}
	if entity.IsTerminalStatus(from) {
		return fmt.Errorf("%w: %s is terminal", ErrIllegalTransition, from)
	}
	if to == entity.StatusCancelled || to == entity.StatusWarranty {
		return nil
	}
	if statusRank[to] <= statusRank[from] {
		return fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, from, to)
	}
	return nil
}

func (s *OrderService) applyStatus(order *entity.ServiceOrder, status string) {
	order.Status = status
	if status == entity.StatusCompleted && order.CompletionDate == nil {
		now := time.Now()
		order.CompletionDate = &now
	}
}

func (s *OrderService) Get(id uint) (*entity.ServiceOrder, error) {
	order, err := s.orders.GetByID(id)
	if err != nil {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

func (s *OrderService) List(params repository.OrderListParams) ([]entity.ServiceOrder, int64, error) {
	return s.orders.List(params)
}

func (s *OrderService) Delete(id uint) error {
	if _, err := s.orders.GetByID(id); err != nil {
		return ErrOrderNotFound
	}
	return s.orders.Delete(id)
}

// --- PDF ---

// RenderPDF produces the printable work order for one order.
func (s *OrderService) RenderPDF(ctx context.Context, id uint) ([]byte, error) {
	order, err := s.orders.GetByID(id)
	if err != nil {
		return nil, ErrOrderNotFound
	}
	html, err := s.buildHTML([]entity.ServiceOrder{*order})
	if err != nil {
		return nil, err
	}
	return s.renderer.Render(ctx, html)
}

// RenderBulkPDF produces one continuous document for several orders,
// with a page break between sections.
func (s *OrderService) RenderBulkPDF(ctx context.Context, ids []uint) ([]byte, error) {
	if len(ids) == 0 {
		return nil, fmt.Errorf("%w: no order ids given", ErrOrderNotFound)
	}
	orders, err := s.orders.GetByIDs(ids)
	if err != nil {
		return nil, fmt.Errorf("load orders: %w", err)
	}
	if len(orders) == 0 {
		return nil, ErrOrderNotFound
	}
	html, err := s.buildHTML(orders)
	if err != nil {
		return nil, err
	}
	return s.renderer.Render(ctx, html)
}

func (s *OrderService) buildHTML(orders []entity.ServiceOrder) ([]byte, error) {
	settings, err := s.settings.Get()
	if err != nil {
		return nil, fmt.Errorf("load company settings: %w", err)
	}
	data := make([]pdf.WorkOrderData, 0, len(orders))
	for i := range orders {
		data = append(data, buildWorkOrderData(&orders[i], settings))
	}
	return pdf.BuildMultiHTML(data)
}

func buildWorkOrderData(order *entity.ServiceOrder, settings *entity.CompanySettings) pdf.WorkOrderData {
	d := pdf.WorkOrderData{
		Company: pdf.CompanyInfo{
			Name:     settings.Name,
			Document: settings.Document,
			Address:  settings.Address,
			Phone:    settings.Phone,
			Email:    settings.Email,
			LogoURL:  template.URL(settings.LogoURL),
		},
		OrderNumber:   order.OrderNumber,
		Status:        order.Status,
		RequestDate:   order.RequestDate.Format("2006-01-02 15:04"),
		Description:   order.Description,
		Notes:         order.Notes,
		MaterialsUsed: order.MaterialsUsed,
		Signature:     template.URL(order.ClientSignature),
	}
	if order.ExpectedDate != nil {
		d.ExpectedDate = order.ExpectedDate.Format("2006-01-02")
	}
	if order.CompletionDate != nil {
		d.CompletionDate = order.CompletionDate.Format("2006-01-02 15:04")
	}
	if order.Cost != nil {
		d.Cost = strconv.FormatInt(*order.Cost, 10)
	}
	if order.Client != nil {
		d.Client = pdf.ClientInfo{
			Name:     order.Client.Name,
			Email:    order.Client.Email,
			Phone:    order.Client.Phone,
			Document: order.Client.Document,
			Address:  order.Client.Address,
		}
	}
	if order.Equipment != nil {
		d.Equipment = pdf.EquipmentInfo{
			Type:         order.Equipment.Type,
			Brand:        order.Equipment.Brand,
			Model:        order.Equipment.Model,
			SerialNumber: order.Equipment.SerialNumber,
		}
	}
	if order.Technician != nil {
		d.TechnicianName = order.Technician.Name
	}
	for _, p := range order.Photos {
		d.Photos = append(d.Photos, template.URL(p))
	}
	return d
}

// --- Explicit resend ---

// ResendEmail renders the work-order PDF, attaches it, and sends the
// notification synchronously. Unlike the create-time side effect,
// failures here are surfaced to the caller.
func (s *OrderService) ResendEmail(ctx context.Context, id uint) error {
	order, err := s.orders.GetByID(id)
	if err != nil {
		return ErrOrderNotFound
	}
	if order.Client == nil || order.Client.Email == "" {
		return ErrClientHasNoEmail
	}

	pdfBytes, err := s.RenderPDF(ctx, id)
	if err != nil {
		return fmt.Errorf("render work order pdf: %w", err)
	}

	body, err := mailer.OrderCreatedBody(mailer.OrderEmailData{
		CompanyName: s.companyName(),
		ClientName:  order.Client.Name,
		OrderNumber: order.OrderNumber,
		Equipment:   equipmentLabel(order.Equipment),
		Description: order.Description,
		Status:      order.Status,
		RequestDate: order.RequestDate.Format("2006-01-02 15:04"),
	})
	if err != nil {
		return fmt.Errorf("render notification body: %w", err)
	}

	msg := mailer.Message{
		To:       order.Client.Email,
		Subject:  mailer.OrderSubject(order.OrderNumber),
		HTMLBody: body,
		Attachments: []mailer.Attachment{
			{Filename: order.OrderNumber + ".pdf", Content: pdfBytes},
		},
	}

	sendErr := s.sender.Send(ctx, msg)
	s.recordNotification(order.ID, msg, sendErr)
	return sendErr
}

func (s *OrderService) recordNotification(orderID uint, msg mailer.Message, sendErr error) {
	log := &entity.NotificationLog{
		OrderID:   orderID,
		Recipient: msg.To,
		Subject:   msg.Subject,
		Status:    entity.NotificationSent,
		Attempts:  1,
	}
	if sendErr != nil {
		log.Status = entity.NotificationFailed
		log.Error = sendErr.Error()
	}
	if err := s.notifications.Create(log); err != nil {
		s.logger.Error("record notification log", zap.Error(err))
	}
}

// ListNotifications returns the delivery history for one order.
func (s *OrderService) ListNotifications(id uint) ([]entity.NotificationLog, error) {
	if _, err := s.orders.GetByID(id); err != nil {
		return nil, ErrOrderNotFound
	}
	return s.notifications.ListByOrder(id)
}

func equipmentLabel(e *entity.Equipment) string {
	if e == nil {
		return ""
	}
	label := e.Type
	if e.Brand != "" {
		label += " " + e.Brand
	}
	if e.Model != "" {
		label += " " + e.Model
	}
	return label
}
