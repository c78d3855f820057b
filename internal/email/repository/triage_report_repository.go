package repository

import (
	"time"

	emaildomain "github.com/BhavyPan/Advance-Web/internal/email/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// triageReportRepository implements TriageReportRepository interface
type triageReportRepository struct {
	db *gorm.DB
}

// NewTriageReportRepository creates a new instance of triageReportRepository
func NewTriageReportRepository(db *gorm.DB) TriageReportRepository {
	return &triageReportRepository{
		db: db,
	}
}

func (r *triageReportRepository) Save(report *emaildomain.TriageReport) error {
	if report.ID == "" {
		report.ID = uuid.New().String()
	}
	if report.CreatedAt.IsZero() {
		report.CreatedAt = time.Now()
	}
	return r.db.Create(report).Error
}

func (r *triageReportRepository) ListByAccount(account string, limit int) ([]*emaildomain.TriageReport, error) {
	if limit <= 0 {
		limit = 20
	}

	var reports []*emaildomain.TriageReport
	err := r.db.Where("account = ?", account).
		Order("created_at DESC").
		Limit(limit).
		Find(&reports).Error
	if err != nil {
		return nil, err
	}
	return reports, nil
}

func (r *triageReportRepository) DeleteOlderThan(account string, keep int) error {
	if keep <= 0 {
		return r.db.Where("account = ?", account).Delete(&emaildomain.TriageReport{}).Error
	}

	var cutoff emaildomain.TriageReport
	err := r.db.Where("account = ?", account).
		Order("created_at DESC").
		Offset(keep - 1).
		First(&cutoff).Error
	if err == gorm.ErrRecordNotFound {
		return nil
	} else if err != nil {
		return err
	}

	return r.db.Where("account = ? AND created_at < ?", account, cutoff.CreatedAt).
		Delete(&emaildomain.TriageReport{}).Error
}
