package service

import (
	"context"
	"fmt"
	"mime/multipart"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"SecurityAlert/config"
	"SecurityAlert/internal/cache"
	"SecurityAlert/internal/model"
	"SecurityAlert/internal/model/dto"
	"SecurityAlert/pkg/errors"
	"SecurityAlert/pkg/logger"
	"SecurityAlert/pkg/photos"
	"SecurityAlert/storage/database"
)

var (
	criminalService *CriminalService
	criminalOnce    sync.Once
)

func Criminal() *CriminalService {
	criminalOnce.Do(func() {
		criminalService = &CriminalService{}
	})
	return criminalService
}

type CriminalService struct{}

const (
	defaultListLimit = 20
	maxListLimit     = 100
)

// List 通缉档案列表，按 id 倒序的游标分页
func (s *CriminalService) List(ctx context.Context, q *dto.CriminalListQuery) ([]dto.CriminalItem, string, error) {
	limit := q.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}

	db := database.DB().WithContext(ctx).Model(&model.Criminal{}).Preload("Photos")

	if q.Status != "" {
		if !model.ValidCriminalStatus(q.Status) {
			return nil, "", errors.ValidationError.WithDetails(map[string]interface{}{
				"status": "must be one of at_large, captured, deceased",
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

	var criminals []model.Criminal
	// 多取一条判断是否还有下一页
	if err := db.Order("id DESC").Limit(limit + 1).Find(&criminals).Error; err != nil {
		return nil, "", fmt.Errorf("failed to list criminals: %w", err)
	}

	nextCursor := ""
	if len(criminals) > limit {
		criminals = criminals[:limit]
		nextCursor = strconv.FormatInt(criminals[limit-1].ID, 10)
	}

	items := make([]dto.CriminalItem, 0, len(criminals))
	for i := range criminals {
		items = append(items, ToCriminalItem(&criminals[i]))
	}

	return items, nextCursor, nil
}

// Get 按 id 查询通缉档案，走保护缓存
func (s *CriminalService) Get(ctx context.Context, id int64) (*dto.CriminalItem, error) {
	cacheKey := strconv.FormatInt(id, 10)

	var cached dto.CriminalItem
	hit, err := cache.CriminalProtectedCache.Get(ctx, cacheKey, &cached)
	if err != nil {
		logger.Logger.Warn("Failed to read criminal cache",
			zap.Int64("criminal_id", id),
			zap.Error(err),
		)
	}
	if hit {
		if cached.ID == "" {
			// 空值命中
			return nil, errors.CriminalNotFound
		}
		return &cached, nil
	}

	var criminal model.Criminal
	err = database.DB().WithContext(ctx).Preload("Photos").Preload("Creator").First(&criminal, id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			// 缓存空值，挡住重复穿透
			if cacheErr := cache.CriminalProtectedCache.Set(ctx, cacheKey, nil); cacheErr != nil {
				logger.Logger.Warn("Failed to cache empty criminal", zap.Error(cacheErr))
			}
			return nil, errors.CriminalNotFound
		}
		return nil, fmt.Errorf("failed to query criminal: %w", err)
	}

	item := ToCriminalItem(&criminal)
	if cacheErr := cache.CriminalProtectedCache.Set(ctx, cacheKey, item); cacheErr != nil {
		logger.Logger.Warn("Failed to cache criminal",
			zap.Int64("criminal_id", id),
			zap.Error(cacheErr),
		)
	}

	return &item, nil
}

// Create 新建通缉档案，照片可选，数量受上限约束
func (s *CriminalService) Create(ctx context.Context, creator *model.User, req *dto.CriminalUpsertRequest, files []*multipart.FileHeader) (*dto.CriminalItem, error) {
	criminal, err := buildCriminal(req)
	if err != nil {
		return nil, err
	}
	criminal.CreatedBy = creator.ID

	if len(files) > config.Cfg.PhotoMaxCount {
		return nil, errors.PhotoLimitReached
	}

	db := database.DB().WithContext(ctx)

	if err := db.Create(criminal).Error; err != nil {
		return nil, fmt.Errorf("failed to create criminal: %w", err)
	}

	for _, file := range files {
		if err := s.attachPhoto(ctx, criminal, file, nil); err != nil {
			logger.Logger.Warn("Failed to attach photo on create",
				zap.Int64("criminal_id", criminal.ID),
				zap.Error(err),
			)
		}
	}

	logger.Logger.Info("Criminal profile created",
		zap.Int64("criminal_id", criminal.ID),
		zap.Int64("created_by", creator.ID),
	)

	item := ToCriminalItem(criminal)
	return &item, nil
}

// Update 更新通缉档案，成功后失效缓存
func (s *CriminalService) Update(ctx context.Context, id int64, req *dto.CriminalUpsertRequest) (*dto.CriminalItem, error) {
	db := database.DB().WithContext(ctx)

	var criminal model.Criminal
	if err := db.Preload("Photos").First(&criminal, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.CriminalNotFound
		}
		return nil, fmt.Errorf("failed to query criminal: %w", err)
	}

	updated, err := buildCriminal(req)
	if err != nil {
		return nil, err
	}

	criminal.FullName = updated.FullName
	criminal.Alias = updated.Alias
	criminal.DateOfBirth = updated.DateOfBirth
	criminal.Description = updated.Description
	criminal.CrimesCommitted = updated.CrimesCommitted
	criminal.SecurityLevel = updated.SecurityLevel
	criminal.LastKnownLocation = updated.LastKnownLocation
	criminal.Status = updated.Status

	if err := db.Save(&criminal).Error; err != nil {
		return nil, fmt.Errorf("failed to update criminal: %w", err)
	}

	s.invalidateCache(ctx, id)

	item := ToCriminalItem(&criminal)
	return &item, nil
}

// Delete 删除通缉档案，照片记录与磁盘文件一并清理
func (s *CriminalService) Delete(ctx context.Context, id int64) error {
	db := database.DB().WithContext(ctx)

	var criminal model.Criminal
	if err := db.Preload("Photos").First(&criminal, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return errors.CriminalNotFound
		}
		return fmt.Errorf("failed to query criminal: %w", err)
	}

	if err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("criminal_id = ?", id).Delete(&model.Photo{}).Error; err != nil {
			return err
		}
		if err := tx.Where("criminal_id = ?", id).Delete(&model.Report{}).Error; err != nil {
			return err
		}
		return tx.Delete(&criminal).Error
	}); err != nil {
		return fmt.Errorf("failed to delete criminal: %w", err)
	}

	for _, photo := range criminal.Photos {
		if err := photos.Remove(photo.Path); err != nil {
			logger.Logger.Warn("Failed to remove photo file",
				zap.String("path", photo.Path),
				zap.Error(err),
			)
		}
	}

	s.invalidateCache(ctx, id)

	logger.Logger.Info("Criminal profile deleted",
		zap.Int64("criminal_id", id),
	)

	return nil
}

// AddPhoto 为通缉档案追加照片
func (s *CriminalService) AddPhoto(ctx context.Context, criminalID int64, file *multipart.FileHeader, label *string) (*dto.PhotoItem, error) {
	db := database.DB().WithContext(ctx)

	var criminal model.Criminal
	if err := db.Preload("Photos").First(&criminal, criminalID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.CriminalNotFound
		}
		return nil, fmt.Errorf("failed to query criminal: %w", err)
	}

	if len(criminal.Photos) >= config.Cfg.PhotoMaxCount {
		return nil, errors.PhotoLimitReached
	}

	if err := s.attachPhoto(ctx, &criminal, file, label); err != nil {
		return nil, err
	}

	s.invalidateCache(ctx, criminalID)

	photo := criminal.Photos[len(criminal.Photos)-1]
	item := toPhotoItem(&photo)
	return &item, nil
}

// DeletePhoto 删除单张照片
func (s *CriminalService) DeletePhoto(ctx context.Context, criminalID, photoID int64) error {
	db := database.DB().WithContext(ctx)

	var photo model.Photo
	err := db.Where("id = ? AND criminal_id = ?", photoID, criminalID).First(&photo).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return errors.PhotoNotFound
		}
		return fmt.Errorf("failed to query photo: %w", err)
	}

	if err := db.Delete(&photo).Error; err != nil {
		return fmt.Errorf("failed to delete photo: %w", err)
	}

	if err := photos.Remove(photo.Path); err != nil {
		logger.Logger.Warn("Failed to remove photo file",
			zap.String("path", photo.Path),
			zap.Error(err),
		)
	}

	s.invalidateCache(ctx, criminalID)

	return nil
}

func (s *CriminalService) attachPhoto(ctx context.Context, criminal *model.Criminal, file *multipart.FileHeader, label *string) error {
	path, err := photos.Save(file)
	if err != nil {
		return errors.ValidationError.WithDetails(map[string]interface{}{
			"photo": err.Error(),
		})
	}

	photo := model.Photo{
		CriminalID: criminal.ID,
		Path:       path,
		Label:      label,
	}

	if err := database.DB().WithContext(ctx).Create(&photo).Error; err != nil {
		photos.Remove(path)
		return fmt.Errorf("failed to create photo record: %w", err)
	}

	criminal.Photos = append(criminal.Photos, photo)
	return nil
}

func (s *CriminalService) invalidateCache(ctx context.Context, id int64) {
	if err := cache.CriminalProtectedCache.Delete(ctx, strconv.FormatInt(id, 10)); err != nil {
		logger.Logger.Warn("Failed to invalidate criminal cache",
			zap.Int64("criminal_id", id),
			zap.Error(err),
		)
	}
}

// buildCriminal 校验并组装档案字段
func buildCriminal(req *dto.CriminalUpsertRequest) (*model.Criminal, error) {
	violations := map[string]interface{}{}

	if req.FullName == "" || len(req.FullName) > 255 {
		violations["full_name"] = "must be between 1 and 255 characters"
	}
	if req.Description == "" {
		violations["description"] = "is required"
	}
	if req.CrimesCommitted == "" {
		violations["crimes_committed"] = "is required"
	}
	if !model.ValidSecurityLevel(req.SecurityLevel) {
		violations["security_level"] = "must be one of low, medium, high, critical"
	}
	if !model.ValidCriminalStatus(req.Status) {
		violations["status"] = "must be one of at_large, captured, deceased"
	}

	var dateOfBirth *time.Time
	if req.DateOfBirth != nil && *req.DateOfBirth != "" {
		parsed, err := time.Parse("2006-01-02", *req.DateOfBirth)
		if err != nil {
			violations["date_of_birth"] = "must be a date in YYYY-MM-DD format"
		} else {
			dateOfBirth = &parsed
		}
	}

	if len(violations) > 0 {
		return nil, errors.ValidationError.WithDetails(violations)
	}

	return &model.Criminal{
		FullName:          req.FullName,
		Alias:             req.Alias,
		DateOfBirth:       dateOfBirth,
		Description:       req.Description,
		CrimesCommitted:   req.CrimesCommitted,
		SecurityLevel:     model.SecurityLevel(req.SecurityLevel),
		LastKnownLocation: req.LastKnownLocation,
		Status:            model.CriminalStatus(req.Status),
	}, nil
}

// ToCriminalItem 档案视图
func ToCriminalItem(c *model.Criminal) dto.CriminalItem {
	var dateOfBirth *string
	if c.DateOfBirth != nil {
		formatted := c.DateOfBirth.Format("2006-01-02")
		dateOfBirth = &formatted
	}

	photoItems := make([]dto.PhotoItem, 0, len(c.Photos))
	for i := range c.Photos {
		photoItems = append(photoItems, toPhotoItem(&c.Photos[i]))
	}

	item := dto.CriminalItem{
		ID:                strconv.FormatInt(c.ID, 10),
		FullName:          c.FullName,
		Alias:             c.Alias,
		DateOfBirth:       dateOfBirth,
		Description:       c.Description,
		CrimesCommitted:   c.CrimesCommitted,
		SecurityLevel:     string(c.SecurityLevel),
		LastKnownLocation: c.LastKnownLocation,
		Status:            string(c.Status),
		Photos:            photoItems,
		CreatedAt:         c.CreatedAt,
	}

	if c.Creator != nil {
		creator := ToUserData(c.Creator)
		item.Creator = &creator
	}

	return item
}

func toPhotoItem(p *model.Photo) dto.PhotoItem {
	return dto.PhotoItem{
		ID:    strconv.FormatInt(p.ID, 10),
		Path:  p.Path,
		Label: p.Label,
	}
}
