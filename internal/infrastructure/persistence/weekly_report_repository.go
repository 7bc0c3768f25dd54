package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/stockflow/backend/internal/domain/report"
	"github.com/stockflow/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormWeeklyReportRepository implements WeeklyReportRepository using GORM.
// The unique index on start_date rejects a second close of the same period.
type GormWeeklyReportRepository struct {
	db *gorm.DB
}

// NewGormWeeklyReportRepository creates a new GormWeeklyReportRepository
func NewGormWeeklyReportRepository(db *gorm.DB) *GormWeeklyReportRepository {
	return &GormWeeklyReportRepository{db: db}
}

// FindLatest finds the report with the greatest end date
func (r *GormWeeklyReportRepository) FindLatest(ctx context.Context) (*report.WeeklyReport, error) {
	var model models.WeeklyReportModel
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Order("end_date DESC").
		First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindByID loads a report with its items
func (r *GormWeeklyReportRepository) FindByID(ctx context.Context, id uuid.UUID) (*report.WeeklyReport, error) {
	var model models.WeeklyReportModel
	if err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("category ASC").Order("product_name ASC")
		}).
		First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindAll lists report headers newest first
func (r *GormWeeklyReportRepository) FindAll(ctx context.Context) ([]report.WeeklyReport, error) {
	var rows []models.WeeklyReportModel
	if err := r.db.WithContext(ctx).Order("end_date DESC").Find(&rows).Error; err != nil {
		return nil, translateError(err)
	}
	reports := make([]report.WeeklyReport, len(rows))
	for i := range rows {
		reports[i] = *rows[i].ToDomain()
	}
	return reports, nil
}

// Create inserts the header and its items
func (r *GormWeeklyReportRepository) Create(ctx context.Context, rep *report.WeeklyReport) error {
	return translateError(r.db.WithContext(ctx).Create(models.WeeklyReportModelFromDomain(rep)).Error)
}

// Ensure GormWeeklyReportRepository implements WeeklyReportRepository
var _ report.WeeklyReportRepository = (*GormWeeklyReportRepository)(nil)
