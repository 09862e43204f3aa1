package report

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/mamour/pharmastock/internal/domain/models"
	"github.com/mamour/pharmastock/internal/repository/mongodb"
	"github.com/mamour/pharmastock/internal/repository/sheets"
	"github.com/mamour/pharmastock/internal/service/catalog"
)

const (
	dateLayout        = "2006-01-02"
	summaryWriteRange = "Summary!A:G"
	alertsWriteRange  = "Alerts!A:G"
)

// Service assembles the daily stock report from the catalog snapshot and
// pushes it to the configured sinks. Both sinks are optional; a nil
// repository simply disables that leg.
type Service struct {
	catalog    *catalog.Store
	mongo      mongodb.Repository
	sheets     sheets.Repository
	expiryDays int
	logger     *zap.Logger
	now        func() time.Time
}

// NewService wires a report service instance.
func NewService(catalogStore *catalog.Store, mongoRepo mongodb.Repository, sheetsRepo sheets.Repository, expiryDays int, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		catalog:    catalogStore,
		mongo:      mongoRepo,
		sheets:     sheetsRepo,
		expiryDays: expiryDays,
		logger:     logger,
		now:        time.Now,
	}
}

// BuildDailyReport recomputes the derived stats and collects the low-stock
// and expiring-soon alerts into one report document.
func (s *Service) BuildDailyReport() models.DailyStockReport {
	now := s.now().UTC()

	report := models.DailyStockReport{
		Date:          time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC),
		Stats:         s.catalog.Stats(),
		ExpiryHorizon: s.expiryDays,
		CreatedAt:     now,
	}

	for _, item := range s.catalog.LowStock() {
		report.LowStock = append(report.LowStock, toAlert(item))
	}
	for _, item := range s.catalog.ExpiringWithin(s.expiryDays) {
		report.Expiring = append(report.Expiring, toAlert(item))
	}

	return report
}

// RunDailySweep builds the report and persists it to every configured sink.
// Sink failures are independent; one failing leg does not stop the other.
func (s *Service) RunDailySweep(ctx context.Context) error {
	report := s.BuildDailyReport()

	var firstErr error

	if s.mongo != nil {
		if err := s.mongo.SaveDailyReport(ctx, report); err != nil {
			s.logger.Error("failed saving daily report snapshot", zap.Error(err))
			firstErr = err
		}
	}

	if s.sheets != nil {
		if err := s.export(ctx, report); err != nil {
			s.logger.Error("failed exporting daily report to sheet", zap.Error(err))
			if firstErr == nil {
				firstErr = err
			}
		}
	}

	s.logger.Info("daily stock report swept",
		zap.Int("low_stock", len(report.LowStock)),
		zap.Int("expiring", len(report.Expiring)))
	return firstErr
}

func (s *Service) export(ctx context.Context, report models.DailyStockReport) error {
	date := report.Date.Format(dateLayout)

	summary := [][]interface{}{{
		date,
		report.Stats.TotalProducts,
		report.Stats.TotalStockUnits,
		report.Stats.TotalStockValue,
		report.Stats.LowStockItems,
		report.Stats.OutOfStockItems,
		report.ExpiryHorizon,
	}}
	if err := s.sheets.AppendRows(ctx, summaryWriteRange, summary); err != nil {
		return err
	}

	var alertRows [][]interface{}
	for _, alert := range report.LowStock {
		alertRows = append(alertRows, []interface{}{date, "LOW_STOCK", alert.StockItemID, alert.Name, alert.Stock, alert.ReorderLevel, alert.Expiry})
	}
	for _, alert := range report.Expiring {
		alertRows = append(alertRows, []interface{}{date, "EXPIRING", alert.StockItemID, alert.Name, alert.Stock, alert.ReorderLevel, alert.Expiry})
	}

	if err := s.sheets.AppendRows(ctx, alertsWriteRange, alertRows); err != nil {
		return fmt.Errorf("export alerts: %w", err)
	}
	return nil
}

func toAlert(item models.StockItem) models.StockAlert {
	return models.StockAlert{
		StockItemID:  item.ID,
		Name:         item.Name,
		Stock:        item.Stock,
		ReorderLevel: item.ReorderLevel,
		Expiry:       item.Expiry,
	}
}
