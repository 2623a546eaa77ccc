package service

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"SecurityAlert/config"
	"SecurityAlert/internal/model"
	"SecurityAlert/internal/model/dto"
	"SecurityAlert/pkg/errors"
	"SecurityAlert/pkg/logger"
	"SecurityAlert/pkg/metrics"
	"SecurityAlert/pkg/slider"
	"SecurityAlert/storage/database"
	"SecurityAlert/utils"
)

var (
	reportService *ReportService
	reportOnce    sync.Once
)

func Report() *ReportService {
	reportOnce.Do(func() {
		reportService = &ReportService{}
	})
	return reportService
}

type ReportService struct{}

// Submit 提交目击举报，登录与否都可以，登录用户记录提交人
// remoteIP 记录在案，配合风控排查滥用
func (s *ReportService) Submit(ctx context.Context, criminalID int64, user *model.User, remoteIP string, req *dto.CreateReportRequest) (*dto.CreateReportResponse, error) {
	violations := map[string]interface{}{}
	if req.Latitude == nil {
		violations["latitude"] = "is required"
	} else if !utils.ValidateLatitude(*req.Latitude) {
		violations["latitude"] = "must be between -90 and 90"
	}
	if req.Longitude == nil {
		violations["longitude"] = "is required"
	} else if !utils.ValidateLongitude(*req.Longitude) {
		violations["longitude"] = "must be between -180 and 180"
	}
	if req.Message != nil && len(*req.Message) > 2000 {
		violations["message"] = "must not exceed 2000 characters"
	}
	if len(violations) > 0 {
		return nil, errors.ValidationError.WithDetails(violations)
	}

	// 公开接口，开启验证码时先验证
	if config.Cfg.CaptchaProvider != "none" {
		ok, err := slider.Verify(ctx, req.CaptchaVerifyParam, remoteIP, config.Cfg.CaptchaSceneID)
		if err != nil || !ok {
			return nil, errors.CaptchaFailed
		}
	}

	db := database.DB().WithContext(ctx)

	var criminal model.Criminal
	if err := db.First(&criminal, criminalID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.CriminalNotFound
		}
		return nil, fmt.Errorf("failed to query criminal: %w", err)
	}

	report := &model.Report{
		CriminalID: criminalID,
		Latitude:   *req.Latitude,
		Longitude:  *req.Longitude,
		Message:    req.Message,
		Status:     model.ReportStatusPending,
	}
	if user != nil {
		report.UserID = &user.ID
	}
	if remoteIP != "" {
		report.IPAddress = &remoteIP
	}

	if err := db.Create(report).Error; err != nil {
		return nil, fmt.Errorf("failed to create report: %w", err)
	}

	metrics.RecordReportSubmitted(user == nil)

	logger.Logger.Info("Sighting report submitted",
		zap.Int64("report_id", report.ID),
		zap.Int64("criminal_id", criminalID),
		zap.Bool("anonymous", user == nil),
	)

	return &dto.CreateReportResponse{
		ID:      strconv.FormatInt(report.ID, 10),
		Message: "Report submitted. Thank you for helping keep the community safe.",
	}, nil
}

// List 举报列表，管理员视角，按 id 倒序的游标分页
func (s *ReportService) List(ctx context.Context, q *dto.ReportListQuery) ([]dto.ReportItem, string, error) {
	limit := q.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}

	db := database.DB().WithContext(ctx).Model(&model.Report{}).
		Preload("Criminal").
		Preload("User").
		Preload("Reviewer")

	if q.CriminalID != "" {
		criminalID, err := strconv.ParseInt(q.CriminalID, 10, 64)
		if err != nil {
			return nil, "", errors.ValidationError.WithDetails(map[string]interface{}{
				"criminal_id": "invalid criminal id",
			})
		}
		db = db.Where("criminal_id = ?", criminalID)
	}

	if q.Status != "" {
		if !model.ValidReportStatus(q.Status) {
			return nil, "", errors.ValidationError.WithDetails(map[string]interface{}{
				"status": "must be one of pending, verified, rejected",
			})
		}
		db = db.Where("status = ?", q.Status)
	}

	if q.Cursor != "" {
		cursorID, err := strconv.ParseInt(q.Cursor, 10, 64)
		if err != nil {
			return nil, "", errors.ValidationError.WithDetails(map[string]interface{}{
				"cursor": "invalid cursor",
			})
		}
		db = db.Where("id < ?", cursorID)
	}

	var reports []model.Report
	if err := db.Order("id DESC").Limit(limit + 1).Find(&reports).Error; err != nil {
		return nil, "", fmt.Errorf("failed to list reports: %w", err)
	}

	nextCursor := ""
	if len(reports) > limit {
		reports = reports[:limit]
		nextCursor = strconv.FormatInt(reports[limit-1].ID, 10)
	}

	items := make([]dto.ReportItem, 0, len(reports))
	for i := range reports {
		items = append(items, toReportItem(&reports[i]))
	}

	return items, nextCursor, nil
}

// Review 审核举报，pending 只能进到 verified / rejected，且只审一次
func (s *ReportService) Review(ctx context.Context, reportID int64, reviewer *model.User, req *dto.ReviewReportRequest) (*dto.ReportItem, error) {
	if req.Status != string(model.ReportStatusVerified) && req.Status != string(model.ReportStatusRejected) {
		return nil, errors.ValidationError.WithDetails(map[string]interface{}{
			"status": "must be verified or rejected",
		})
	}

	db := database.DB().WithContext(ctx)

	var report model.Report
	if err := db.First(&report, reportID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ReportNotFound
		}
		return nil, fmt.Errorf("failed to query report: %w", err)
	}

	if report.Status != model.ReportStatusPending {
		return nil, errors.ReportAlreadyReviewed
	}

	now := time.Now().UTC()
	report.Status = model.ReportStatus(req.Status)
	report.ReviewedBy = &reviewer.ID
	report.ReviewedAt = &now

	if err := db.Save(&report).Error; err != nil {
		return nil, fmt.Errorf("failed to update report: %w", err)
	}

	metrics.RecordReportReviewed(req.Status)

	logger.Logger.Info("Sighting report reviewed",
		zap.Int64("report_id", report.ID),
		zap.String("status", req.Status),
		zap.Int64("reviewed_by", reviewer.ID),
	)

	item := toReportItem(&report)
	return &item, nil
}

func toReportItem(r *model.Report) dto.ReportItem {
	item := dto.ReportItem{
		ID:         strconv.FormatInt(r.ID, 10),
		CriminalID: strconv.FormatInt(r.CriminalID, 10),
		Latitude:   r.Latitude,
		Longitude:  r.Longitude,
		Message:    r.Message,
		IPAddress:  r.IPAddress,
		Status:     string(r.Status),
		ReviewedAt: r.ReviewedAt,
		CreatedAt:  r.CreatedAt,
	}

	if r.Criminal != nil {
		item.Criminal = r.Criminal.FullName
	}
	if r.User != nil {
		submitter := ToUserData(r.User)
		item.Submitter = &submitter
	}
	if r.Reviewer != nil {
		reviewer := ToUserData(r.Reviewer)
		item.Reviewer = &reviewer
	}

	return item
}
