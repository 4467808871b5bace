package service

import (
	"fmt"

	"github.com/NelsonAGM/AdminRST-sub000/internal/config"
	"github.com/NelsonAGM/AdminRST-sub000/internal/entity"
	"github.com/NelsonAGM/AdminRST-sub000/internal/mailer"
	"github.com/NelsonAGM/AdminRST-sub000/internal/pdf"
	"github.com/NelsonAGM/AdminRST-sub000/internal/repository"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Services bundles every business service.
type Services struct {
	Auth    *AuthService
	Order   *OrderService
	Revenue *RevenueService
	Upload  *UploadService

	// Dispatcher runs the async email side effects; main starts and
	// stops it with the server lifecycle.
	Dispatcher *mailer.Dispatcher
}

func NewServices(db *gorm.DB, repos *repository.Repositories, rdb *redis.Client, cfg *config.Config, logger *zap.Logger) *Services {
	var minioClient *minio.Client
	if cfg.Storage.Endpoint != "" {
		var err error
		minioClient, err = minio.New(cfg.Storage.Endpoint, &minio.Options{
			Creds:  credentials.NewStaticV4(cfg.Storage.AccessKey, cfg.Storage.SecretKey, ""),
			Secure: cfg.Storage.UseSSL,
		})
		if err != nil {
			logger.Warn("object storage unavailable", zap.Error(err))
			minioClient = nil
		}
	}

	sender := mailer.NewSMTPSender(smtpResolver(repos.Settings, cfg.SMTP), logger)
	dispatcher := mailer.NewDispatcher(sender, logger, notificationRecorder(repos.Notification, logger))

	renderer := pdf.NewFallbackRenderer(logger,
		pdf.NewRemoteRenderer(pdfResolver(repos.Settings, cfg.PDF), cfg.PDF.Timeout),
		pdf.NewChromeRenderer(),
	)

	return &Services{
		Auth:       NewAuthService(repos.User, cfg.JWT),
		Order:      NewOrderService(db, repos, dispatcher, sender, renderer, logger),
		Revenue:    NewRevenueService(repos.Order, rdb, logger),
		Upload:     NewUploadService(minioClient, cfg.Storage),
		Dispatcher: dispatcher,
	}
}

// smtpResolver merges the persisted company settings over the
// environment defaults at send time, so edits through the settings API
// take effect immediately.
func smtpResolver(settings *repository.SettingsRepository, fallback config.SMTPConfig) mailer.ConfigResolver {
	return func() (mailer.Config, error) {
		cfg := mailer.Config{
			Host:     fallback.Host,
			Port:     fallback.Port,
			Secure:   fallback.Secure,
			User:     fallback.User,
			Password: fallback.Password,
			FromName: fallback.FromName,
			FromAddr: fallback.FromAddr,
		}
		stored, err := settings.Get()
		if err != nil {
			return cfg, fmt.Errorf("load company settings: %w", err)
		}
		if stored.SMTPHost != "" {
			cfg.Host = stored.SMTPHost
			cfg.Port = stored.SMTPPort
			cfg.Secure = stored.SMTPSecure
			cfg.User = stored.SMTPUser
			cfg.Password = stored.SMTPPassword
		}
		if stored.SMTPFromAddr != "" {
			cfg.FromAddr = stored.SMTPFromAddr
			cfg.FromName = stored.SMTPFromName
		}
		return cfg, nil
	}
}

// pdfResolver merges the persisted company settings over the
// environment defaults at render time, same as the mail transport.
func pdfResolver(settings *repository.SettingsRepository, fallback config.PDFConfig) pdf.ConfigResolver {
	return func() (pdf.Config, error) {
		cfg := pdf.Config{
			Endpoint: fallback.Endpoint,
			APIKey:   fallback.APIKey,
			Margin:   fallback.Margin,
		}
		stored, err := settings.Get()
		if err != nil {
			return cfg, fmt.Errorf("load company settings: %w", err)
		}
		if stored.PDFAPIKey != "" {
			cfg.APIKey = stored.PDFAPIKey
		}
		if stored.PDFEndpoint != "" {
			cfg.Endpoint = stored.PDFEndpoint
		}
		return cfg, nil
	}
}

// notificationRecorder persists each dispatcher outcome as a
// notification log row.
func notificationRecorder(repo *repository.NotificationRepository, logger *zap.Logger) func(mailer.Outcome) {
	return func(out mailer.Outcome) {
		log := &entity.NotificationLog{
			OrderID:   out.Job.OrderID,
			Recipient: out.Job.Message.To,
			Subject:   out.Job.Message.Subject,
			Status:    entity.NotificationSent,
			Attempts:  out.Attempts,
		}
		if !out.Sent {
			log.Status = entity.NotificationFailed
			if out.Err != nil {
				log.Error = out.Err.Error()
			}
		}
		if err := repo.Create(log); err != nil {
			logger.Error("persist notification log", zap.Error(err))
		}
	}
}
