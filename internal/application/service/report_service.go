package service

import (
	"context"
	"time"

	"github.com/limepath/pathsys/internal/application/port"
	"github.com/limepath/pathsys/internal/domain/entity"
)

// ApprovalSummary is the operational snapshot of the approval register
type ApprovalSummary struct {
	StateCounts          map[string]int `json:"state_counts"`
	DecidedCount         int            `json:"decided_count"`
	AvgDecisionHours     float64        `json:"avg_decision_hours"`
	GeneratedAt          time.Time      `json:"generated_at"`
	PeriodFrom, PeriodTo *time.Time     `json:"-"`
}

// RegisterExporter renders the approval register into a downloadable document
type RegisterExporter interface {
	BuildRegister(requests []*entity.ApprovalRequest) ([]byte, error)
}

// ReportService produces operational reports over the approval register
type ReportService interface {
	ApprovalSummary(ctx context.Context, from, to *time.Time) (*ApprovalSummary, error)
	ExportRegister(ctx context.Context, filter port.ApprovalFilter) ([]byte, error)
}

type reportServiceImpl struct {
	reportRepo   port.ReportRepository
	approvalRepo port.ApprovalRequestRepository
	exporter     RegisterExporter
	logger       Logger
}

// maximum rows pulled into an export
const exportLimit = 10000

// NewReportService creates a new ReportService
func NewReportService(
	reportRepo port.ReportRepository,
	approvalRepo port.ApprovalRequestRepository,
	exporter RegisterExporter,
	logger Logger,
) ReportService {
	return &reportServiceImpl{
		reportRepo:   reportRepo,
		approvalRepo: approvalRepo,
		exporter:     exporter,
		logger:       logger,
	}
}

// ApprovalSummary aggregates state counts and decision turnaround
func (s *reportServiceImpl) ApprovalSummary(ctx context.Context, from, to *time.Time) (*ApprovalSummary, error) {
	counts, err := s.reportRepo.StateCounts(ctx, from, to)
	if err != nil {
		s.logger.Error("Failed to count approval states", "error", err)
		return nil, err
	}

	avgHours, decided, err := s.reportRepo.DecisionTurnaround(ctx, from, to)
	if err != nil {
		s.logger.Error("Failed to compute decision turnaround", "error", err)
		return nil, err
	}

	return &ApprovalSummary{
		StateCounts:      counts,
		DecidedCount:     decided,
		AvgDecisionHours: avgHours,
		GeneratedAt:      time.Now(),
		PeriodFrom:       from,
		PeriodTo:         to,
	}, nil
}

// ExportRegister renders the matching approval requests as a spreadsheet
func (s *reportServiceImpl) ExportRegister(ctx context.Context, filter port.ApprovalFilter) ([]byte, error) {
	requests, total, err := s.approvalRepo.Search(ctx, filter, 0, exportLimit)
	if err != nil {
		s.logger.Error("Failed to load approval register", "error", err)
		return nil, err
	}
	if total > exportLimit {
		s.logger.Info("Approval register truncated for export", "total", total, "limit", exportLimit)
	}

	data, err := s.exporter.BuildRegister(requests)
	if err != nil {
		s.logger.Error("Failed to build register export", "error", err)
		return nil, err
	}

	s.logger.Info("Approval register exported", "rows", len(requests))
	return data, nil
}
