package haccp

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/haccp/backend/internal/domain/haccp"
	"github.com/haccp/backend/internal/domain/product"
	"github.com/haccp/backend/internal/domain/production"
	"github.com/haccp/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// HACCPService handles control point definitions and monitoring logs
type HACCPService struct {
	ccpRepo        haccp.CCPRepository
	logRepo        haccp.CCPLogRepository
	productRepo    product.ProductRepository
	orderRepo      production.ProductionOrderRepository
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
	now            func() time.Time
}

// NewHACCPService creates a new HACCPService
func NewHACCPService(
	ccpRepo haccp.CCPRepository,
	logRepo haccp.CCPLogRepository,
	productRepo product.ProductRepository,
	orderRepo production.ProductionOrderRepository,
	logger *zap.Logger,
) *HACCPService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HACCPService{
		ccpRepo:     ccpRepo,
		logRepo:     logRepo,
		productRepo: productRepo,
		orderRepo:   orderRepo,
		logger:      logger,
		now:         time.Now,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *HACCPService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetClock overrides the clock used for measurement and alert windows
func (s *HACCPService) SetClock(now func() time.Time) {
	s.now = now
}

// CreateCCP defines a new control point
func (s *HACCPService) CreateCCP(ctx context.Context, req CreateCCPRequest) (*CCPResponse, error) {
	ccp, err := haccp.NewCCP(haccp.CCPDefinition{
		Code:                req.Code,
		Name:                req.Name,
		Type:                haccp.CCPType(req.Type),
		Description:         req.Description,
		ProcessStep:         req.ProcessStep,
		Limits:              haccp.CriticalLimits{Min: req.CriticalLimitMin, Max: req.CriticalLimitMax},
		MonitoringFrequency: req.MonitoringFrequency,
		CorrectiveAction:    req.CorrectiveAction,
		ResponsiblePerson:   req.ResponsiblePerson,
		ProductID:           req.ProductID,
		CreatedBy:           req.CreatedBy,
	})
	if err != nil {
		return nil, err
	}

	if req.ProductID != nil {
		if _, err := s.productRepo.FindByID(ctx, *req.ProductID); err != nil {
			return nil, err
		}
	}
	exists, err := s.ccpRepo.ExistsByCode(ctx, ccp.Code)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.Conflict("ccp code %s already exists", ccp.Code)
	}

	if err := s.ccpRepo.Save(ctx, ccp); err != nil {
		return nil, err
	}
	s.logger.Info("Critical control point defined",
		zap.String("ccp_code", ccp.Code),
		zap.String("ccp_type", string(ccp.Type)))

	resp := ToCCPResponse(ccp)
	return &resp, nil
}

// GetCCP retrieves a control point by ID
func (s *HACCPService) GetCCP(ctx context.Context, ccpID uuid.UUID) (*CCPResponse, error) {
	ccp, err := s.ccpRepo.FindByID(ctx, ccpID)
	if err != nil {
		return nil, err
	}
	resp := ToCCPResponse(ccp)
	return &resp, nil
}

// ListCCPs retrieves control points with filtering and pagination
func (s *HACCPService) ListCCPs(ctx context.Context, filter CCPListFilter) ([]CCPResponse, int64, error) {
	if filter.Type != "" && !haccp.CCPType(filter.Type).IsValid() {
		return nil, 0, shared.InvalidInput("invalid ccp type %q", filter.Type)
	}
	domainFilter := newDomainFilter(filter.Page, filter.PageSize, filter.OrderBy, filter.OrderDir, "code", "asc")
	domainFilter.Search = filter.Search
	if filter.Type != "" {
		domainFilter.Filters["ccp_type"] = filter.Type
	}
	if filter.IsActive != nil {
		domainFilter.Filters["is_active"] = *filter.IsActive
	}
	if filter.ProductID != nil {
		domainFilter.Filters["product_id"] = *filter.ProductID
	}

	ccps, err := s.ccpRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.ccpRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	responses := make([]CCPResponse, len(ccps))
	for i := range ccps {
		responses[i] = ToCCPResponse(&ccps[i])
	}
	return responses, total, nil
}

// RecordLog records a measurement and derives its status from the critical limits
func (s *HACCPService) RecordLog(ctx context.Context, req RecordLogRequest) (*LogResponse, error) {
	ccp, err := s.ccpRepo.FindByID(ctx, req.CCPID)
	if err != nil {
		return nil, err
	}
	if req.ProductionOrderID != nil {
		if _, err := s.orderRepo.FindByID(ctx, *req.ProductionOrderID); err != nil {
			return nil, err
		}
	}

	log, err := haccp.NewCCPLog(ccp, haccp.Measurement{
		ProductionOrderID: req.ProductionOrderID,
		MeasuredValue:     req.MeasuredValue,
		Unit:              req.Unit,
		MeasuredAt:        req.MeasuredAt,
		DeviationNotes:    req.DeviationNotes,
		MeasurementDevice: req.MeasurementDevice,
		CreatedBy:         req.CreatedBy,
	}, s.now())
	if err != nil {
		return nil, err
	}

	duplicate, err := s.logRepo.ExistsNear(ctx, ccp.ID, log.MeasuredAt)
	if err != nil {
		return nil, err
	}
	if duplicate {
		return nil, shared.Conflict("ccp %s already has a log within %s of %s",
			ccp.Code, haccp.DuplicateWindow, log.MeasuredAt.Format(time.RFC3339))
	}

	if err := s.logRepo.Save(ctx, log); err != nil {
		return nil, err
	}
	if log.Status == haccp.LogStatusOutOfLimits {
		s.logger.Warn("Critical limit violated",
			zap.String("ccp_code", ccp.Code),
			zap.String("measured_value", log.MeasuredValue.String()),
			zap.String("unit", log.Unit))
	}
	s.publishDomainEvents(ctx, log)

	resp := ToLogResponse(log)
	return &resp, nil
}

// GetLog retrieves a monitoring log by ID
func (s *HACCPService) GetLog(ctx context.Context, logID uuid.UUID) (*LogResponse, error) {
	log, err := s.logRepo.FindByID(ctx, logID)
	if err != nil {
		return nil, err
	}
	resp := ToLogResponse(log)
	return &resp, nil
}

// ListLogs retrieves monitoring logs with filtering and pagination
func (s *HACCPService) ListLogs(ctx context.Context, filter LogListFilter) ([]LogResponse, int64, error) {
	if filter.Status != "" && !haccp.LogStatus(filter.Status).IsValid() {
		return nil, 0, shared.InvalidInput("invalid log status %q", filter.Status)
	}
	domainFilter := newDomainFilter(filter.Page, filter.PageSize, filter.OrderBy, filter.OrderDir, "measured_at", "desc")
	if filter.CCPID != nil {
		domainFilter.Filters["ccp_id"] = *filter.CCPID
	}
	if filter.ProductionOrderID != nil {
		domainFilter.Filters["production_order_id"] = *filter.ProductionOrderID
	}
	if filter.Status != "" {
		domainFilter.Filters["status"] = filter.Status
	}

	logs, err := s.logRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.logRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	return ToLogResponses(logs), total, nil
}

// RecordCorrectiveAction documents the response to an out-of-limits log
func (s *HACCPService) RecordCorrectiveAction(ctx context.Context, logID uuid.UUID, action string, by *uuid.UUID) (*LogResponse, error) {
	return s.mutateLog(ctx, logID, func(l *haccp.CCPLog) error {
		return l.RecordCorrectiveAction(action, by)
	})
}

// Verify signs off the corrective action of a log
func (s *HACCPService) Verify(ctx context.Context, logID uuid.UUID, by *uuid.UUID) (*LogResponse, error) {
	return s.mutateLog(ctx, logID, func(l *haccp.CCPLog) error {
		return l.Verify(by)
	})
}

// PendingActions returns out-of-limits logs still waiting for a corrective action
func (s *HACCPService) PendingActions(ctx context.Context) ([]LogResponse, error) {
	logs, err := s.logRepo.FindByStatus(ctx, haccp.LogStatusOutOfLimits)
	if err != nil {
		return nil, err
	}
	return ToLogResponses(logs), nil
}

// VerificationNeeded returns corrective actions that are not yet verified
func (s *HACCPService) VerificationNeeded(ctx context.Context) ([]LogResponse, error) {
	logs, err := s.logRepo.FindByStatus(ctx, haccp.LogStatusCorrectiveAction)
	if err != nil {
		return nil, err
	}
	pending := make([]haccp.CCPLog, 0, len(logs))
	for _, l := range logs {
		if !l.IsVerified() {
			pending = append(pending, l)
		}
	}
	return ToLogResponses(pending), nil
}

// CriticalAlerts collects recent violations, stale unverified actions and
// repeatedly violated control points
func (s *HACCPService) CriticalAlerts(ctx context.Context, hours int) (*CriticalAlertsResponse, error) {
	if hours < 0 {
		return nil, shared.InvalidInput("hours cannot be negative")
	}
	if hours == 0 {
		hours = haccp.DefaultAlertHours
	}
	now := s.now()
	window := time.Duration(hours) * time.Hour
	if window < haccp.RepeatedViolationWindow {
		window = haccp.RepeatedViolationWindow
	}

	recent, err := s.logRepo.FindMeasuredSince(ctx, now.Add(-window))
	if err != nil {
		return nil, err
	}
	actions, err := s.logRepo.FindByStatus(ctx, haccp.LogStatusCorrectiveAction)
	if err != nil {
		return nil, err
	}
	alerts := haccp.BuildAlerts(recent, actions, hours, now)

	ids := make([]uuid.UUID, 0, len(alerts))
	for _, a := range alerts {
		ids = append(ids, a.CCPID)
	}
	ccps, err := s.ccpRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]*haccp.CCP, len(ccps))
	for i := range ccps {
		byID[ccps[i].ID] = &ccps[i]
	}

	resp := &CriticalAlertsResponse{Hours: hours, Alerts: make([]AlertResponse, 0, len(alerts))}
	for _, a := range alerts {
		item := AlertResponse{
			Kind:       string(a.Kind),
			CCPID:      a.CCPID,
			LogID:      a.LogID,
			Count:      a.Count,
			OccurredAt: a.OccurredAt,
		}
		if ccp, ok := byID[a.CCPID]; ok {
			item.CCPCode = ccp.Code
			item.CCPName = ccp.Name
		}
		switch a.Kind {
		case haccp.AlertRecentViolation:
			resp.RecentViolations++
		case haccp.AlertUnverifiedAction:
			resp.UnverifiedActions++
		case haccp.AlertRepeatedViolations:
			resp.RepeatedViolationCCPs++
		}
		resp.Alerts = append(resp.Alerts, item)
	}
	return resp, nil
}

func (s *HACCPService) mutateLog(ctx context.Context, logID uuid.UUID, fn func(l *haccp.CCPLog) error) (*LogResponse, error) {
	log, err := s.logRepo.FindByID(ctx, logID)
	if err != nil {
		return nil, err
	}
	if err := fn(log); err != nil {
		s.logger.Warn("Monitoring log update rejected",
			zap.String("log_id", logID.String()),
			zap.String("status", string(log.Status)),
			zap.Error(err))
		return nil, err
	}
	if err := s.logRepo.SaveWithLock(ctx, log); err != nil {
		return nil, err
	}
	s.publishDomainEvents(ctx, log)

	resp := ToLogResponse(log)
	return &resp, nil
}

func (s *HACCPService) publishDomainEvents(ctx context.Context, log *haccp.CCPLog) {
	events := log.GetDomainEvents()
	log.ClearDomainEvents()
	if s.eventPublisher == nil || len(events) == 0 {
		return
	}
	if err := s.eventPublisher.Publish(ctx, events...); err != nil {
		s.logger.Error("Failed to publish monitoring events",
			zap.String("log_id", log.ID.String()),
			zap.Error(err))
	}
}

func newDomainFilter(page, pageSize int, orderBy, orderDir, defaultOrderBy, defaultOrderDir string) shared.Filter {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	if orderBy == "" {
		orderBy = defaultOrderBy
	}
	if orderDir == "" {
		orderDir = defaultOrderDir
	}
	return shared.Filter{
		Page:     page,
		PageSize: pageSize,
		OrderBy:  orderBy,
		OrderDir: orderDir,
		Filters:  make(map[string]interface{}),
	}
}
