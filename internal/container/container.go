// Package container wires the application together: database,
// repositories, services, HTTP server and scheduler, with ordered
// startup and reverse-order teardown.
package container

import (
	"context"
	"fmt"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/limepath/pathsys/internal/application/port"
	"github.com/limepath/pathsys/internal/application/service"
	"github.com/limepath/pathsys/internal/config"
	"github.com/limepath/pathsys/internal/infrastructure/notification"
	"github.com/limepath/pathsys/internal/infrastructure/persistence/repository"
	"github.com/limepath/pathsys/internal/infrastructure/persistence/sqlite"
	httpiface "github.com/limepath/pathsys/internal/interfaces/http"
	"github.com/limepath/pathsys/internal/jobs"
	"github.com/limepath/pathsys/internal/report"
	"github.com/limepath/pathsys/internal/scheduler"
	"github.com/limepath/pathsys/pkg/database"
)

// RepositoryBundle groups all repositories for convenient access.
type RepositoryBundle struct {
	Approval    port.ApprovalRequestRepository
	Case        port.CaseRepository
	Patient     port.PatientRepository
	Pathologist port.PathologistRepository
	User        port.UserRepository
	Sequence    port.SequenceRepository
	Report      port.ReportRepository
}

// ServiceBundle groups all application services.
type ServiceBundle struct {
	Approval    service.ApprovalService
	Case        service.CaseService
	Patient     service.PatientService
	Pathologist service.PathologistService
	Auth        service.AuthService
	Report      service.ReportService
}

// Container manages application dependencies and lifecycle.
type Container struct {
	cfg    *config.Config
	logger *zap.Logger

	db           *database.DB
	txDB         *sqlite.DB
	repositories *RepositoryBundle
	notifier     port.Notifier
	services     *ServiceBundle
	server       *httpiface.Server
	scheduler    *scheduler.Scheduler

	cancel context.CancelFunc
	closed atomic.Bool
}

// New creates a container from configuration. Call Start to
// initialize and run.
func New(cfg *config.Config, logger *zap.Logger) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	return &Container{cfg: cfg, logger: logger}, nil
}

// Start initializes all components in dependency order and runs the
// HTTP server until ctx is cancelled.
func (c *Container) Start(ctx context.Context) error {
	ctx, c.cancel = context.WithCancel(ctx)

	if err := c.initDatabase(); err != nil {
		return err
	}
	c.initRepositories()
	c.initNotifier()
	c.initServices()

	c.server = httpiface.NewServer(httpiface.ServerConfig{
		Host:         c.cfg.Server.Host,
		Port:         c.cfg.Server.Port,
		ReadTimeout:  c.cfg.Server.ReadTimeout,
		WriteTimeout: c.cfg.Server.WriteTimeout,
	}, httpiface.Services{
		Approval:    c.services.Approval,
		Case:        c.services.Case,
		Patient:     c.services.Patient,
		Pathologist: c.services.Pathologist,
		Auth:        c.services.Auth,
		Report:      c.services.Report,
	}, &zapLoggerAdapter{logger: c.logger})

	if c.cfg.Scheduler.Enabled {
		runner := jobs.NewRunner(c.repositories.Approval, c.notifier, jobs.Config{
			ReminderThreshold: c.cfg.Approval.ReminderThreshold,
			ReminderRecipient: c.cfg.Approval.ReminderRecipient,
		}, c.logger)
		c.scheduler = scheduler.New(runner, scheduler.Config{
			PendingReminders: c.cfg.Scheduler.PendingReminders,
		}, c.logger)
		c.scheduler.Start()
	}

	// Blocks until shutdown.
	return c.server.Start(ctx)
}

// Stop tears down components in reverse initialization order.
func (c *Container) Stop() {
	if !c.closed.CompareAndSwap(false, true) {
		return
	}
	if c.cancel != nil {
		c.cancel()
	}
	if c.scheduler != nil {
		c.scheduler.Stop()
	}
	if c.db != nil {
		if err := c.db.Close(); err != nil {
			c.logger.Error("Failed to close database", zap.Error(err))
		}
	}
	c.logger.Info("Container stopped")
}

func (c *Container) initDatabase() error {
	db, err := database.New(database.Config{
		Path:            c.cfg.Database.Path,
		MaxOpenConns:    c.cfg.Database.MaxOpenConns,
		MaxIdleConns:    c.cfg.Database.MaxIdleConns,
		ConnMaxLifetime: c.cfg.Database.ConnMaxLifetime,
	}, c.logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	c.db = db

	migrator := database.NewMigrator(db, c.logger)
	if err := migrator.RunMigrations(c.cfg.Database.MigrationsDir); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	c.txDB = sqlite.NewDB(db.DB, c.logger)
	return nil
}

func (c *Container) initRepositories() {
	c.repositories = &RepositoryBundle{
		Approval:    repository.NewApprovalRepository(c.txDB, c.logger),
		Case:        repository.NewCaseRepository(c.txDB, c.logger),
		Patient:     repository.NewPatientRepository(c.txDB, c.logger),
		Pathologist: repository.NewPathologistRepository(c.txDB, c.logger),
		User:        repository.NewUserRepository(c.txDB, c.logger),
		Sequence:    repository.NewSequenceRepository(c.txDB, c.logger),
		Report:      repository.NewReportRepository(c.txDB, c.logger),
	}
}

func (c *Container) initNotifier() {
	if c.cfg.Notifier.SendGridAPIKey != "" {
		c.notifier = notification.NewSendGridNotifier(
			c.cfg.Notifier.SendGridAPIKey,
			c.cfg.Notifier.FromEmail,
			c.cfg.Notifier.FromName,
			c.logger,
		)
		return
	}
	c.notifier = notification.NewLogNotifier(c.logger)
}

func (c *Container) initServices() {
	svcLogger := &zapLoggerAdapter{logger: c.logger}

	caseService := service.NewCaseService(
		c.repositories.Case,
		c.repositories.Patient,
		c.repositories.Pathologist,
		c.repositories.Sequence,
		c.txDB,
		svcLogger,
	)

	c.services = &ServiceBundle{
		Case: caseService,
		Approval: service.NewApprovalService(
			c.repositories.Approval,
			c.repositories.Sequence,
			c.repositories.Pathologist,
			c.repositories.User,
			caseService,
			c.notifier,
			c.txDB,
			c.cfg.Approval.CaseCreationTimeout,
			svcLogger,
		),
		Patient:     service.NewPatientService(c.repositories.Patient, svcLogger),
		Pathologist: service.NewPathologistService(c.repositories.Pathologist, svcLogger),
		Auth: service.NewAuthService(
			c.repositories.User,
			c.cfg.Auth.JWTSecret,
			c.cfg.Auth.TokenTTL,
			svcLogger,
		),
		Report: service.NewReportService(
			c.repositories.Report,
			c.repositories.Approval,
			report.NewExcelExporter(c.logger),
			svcLogger,
		),
	}
}

// Services returns the service bundle (for tests and tooling).
func (c *Container) Services() *ServiceBundle {
	return c.services
}

// zapLoggerAdapter adapts zap.Logger to the key-value Logger
// interfaces of the service and http packages.
type zapLoggerAdapter struct {
	logger *zap.Logger
}

func (a *zapLoggerAdapter) Info(msg string, keysAndValues ...interface{}) {
	a.logger.Info(msg, convertToZapFields(keysAndValues...)...)
}

func (a *zapLoggerAdapter) Error(msg string, keysAndValues ...interface{}) {
	a.logger.Error(msg, convertToZapFields(keysAndValues...)...)
}

// convertToZapFields converts key-value pairs to zap fields.
func convertToZapFields(keysAndValues ...interface{}) []zap.Field {
	fields := make([]zap.Field, 0, len(keysAndValues)/2)
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		key, ok := keysAndValues[i].(string)
		if !ok {
			continue
		}
		fields = append(fields, zap.Any(key, keysAndValues[i+1]))
	}
	return fields
}
