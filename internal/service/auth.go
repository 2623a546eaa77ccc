package service

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"SecurityAlert/internal/cache"
	"SecurityAlert/internal/model"
	"SecurityAlert/internal/model/dto"
	"SecurityAlert/pkg/errors"
	"SecurityAlert/pkg/logger"
	"SecurityAlert/pkg/snowflake"
	"SecurityAlert/pkg/token"
	"SecurityAlert/storage/database"
	"SecurityAlert/utils"
)

var (
	authService *AuthService
	authOnce    sync.Once
)

func Auth() *AuthService {
	authOnce.Do(func() {
		authService = &AuthService{}
	})
	return authService
}

type AuthService struct{}

// Register 注册新用户，邮箱唯一
func (s *AuthService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	if !utils.ValidateEmail(email) {
		return nil, errors.ValidationError.WithDetails(map[string]interface{}{
			"email": "invalid email address",
		})
	}
	if len(req.Password) < 8 {
		return nil, errors.ValidationError.WithDetails(map[string]interface{}{
			"password": "must be at least 8 characters",
		})
	}
	if req.Name == "" || len(req.Name) > 255 {
		return nil, errors.ValidationError.WithDetails(map[string]interface{}{
			"name": "must be between 1 and 255 characters",
		})
	}

	db := database.DB().WithContext(ctx)

	var count int64
	if err := db.Model(&model.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("failed to check email uniqueness: %w", err)
	}
	if count > 0 {
		return nil, errors.EmailAlreadyRegistered
	}

	publicID, err := snowflake.NextID()
	if err != nil {
		return nil, fmt.Errorf("failed to generate user ID: %w", err)
	}

	passwordHash, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		PublicID:     publicID,
		Name:         req.Name,
		Email:        email,
		PasswordHash: passwordHash,
		Role:         model.UserRoleUser,
	}

	if err := db.Create(user).Error; err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	logger.Logger.Info("New user registered",
		zap.Int64("public_id", publicID),
	)

	return s.issueTokens(ctx, user)
}

// Login 邮箱密码登录
func (s *AuthService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	var user model.User
	err := database.DB().WithContext(ctx).Where("email = ?", email).First(&user).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.InvalidCredentials
		}
		return nil, fmt.Errorf("failed to query user: %w", err)
	}

	if !utils.CheckPassword(req.Password, user.PasswordHash) {
		return nil, errors.InvalidCredentials
	}

	return s.issueTokens(ctx, &user)
}

// Logout 撤销 refresh token
func (s *AuthService) Logout(ctx context.Context, publicID int64) error {
	userIDStr := fmt.Sprintf("%d", publicID)
	if err := cache.DeleteRefreshToken(ctx, userIDStr); err != nil {
		logger.Logger.Warn("Failed to delete refresh token",
			zap.String("user_id", userIDStr),
			zap.Error(err),
		)
	}
	return nil
}

// RefreshToken 校验 refresh token 并签发新的令牌对
func (s *AuthService) RefreshToken(ctx context.Context, refreshToken string) (*dto.AuthResponse, error) {
	userIDStr, err := token.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, errors.Unauthorized
	}

	if !cache.ValidateRefreshTokenExists(ctx, userIDStr, refreshToken) {
		return nil, errors.Unauthorized
	}

	user, err := s.GetByPublicIDString(ctx, userIDStr)
	if err != nil {
		return nil, err
	}

	return s.issueTokens(ctx, user)
}

// GetByPublicID 按 public_id 查询用户
func (s *AuthService) GetByPublicID(ctx context.Context, publicID int64) (*model.User, error) {
	var user model.User
	err := database.DB().WithContext(ctx).Where("public_id = ?", publicID).First(&user).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.UserNotFound
		}
		return nil, fmt.Errorf("failed to query user: %w", err)
	}
	return &user, nil
}

func (s *AuthService) GetByPublicIDString(ctx context.Context, publicID string) (*model.User, error) {
	var id int64
	if _, err := fmt.Sscanf(publicID, "%d", &id); err != nil {
		return nil, errors.InvalidUserID
	}
	return s.GetByPublicID(ctx, id)
}

func (s *AuthService) issueTokens(ctx context.Context, user *model.User) (*dto.AuthResponse, error) {
	userIDStr := fmt.Sprintf("%d", user.PublicID)

	accessToken, refreshToken, expiresIn, err := token.GenerateTokenPair(userIDStr)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	// 存储 refresh token 到 Redis，保持缓存即可
	if err := cache.SetRefreshToken(ctx, userIDStr, refreshToken); err != nil {
		logger.Logger.Warn("Failed to store refresh token in Redis",
			zap.String("user_id", userIDStr),
			zap.Error(err),
		)
		// 不返回错误，因为 token 已经生成成功
	}

	return &dto.AuthResponse{
		User:         ToUserData(user),
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    expiresIn,
	}, nil
}

// ToUserData 用户摘要视图
func ToUserData(user *model.User) dto.UserData {
	return dto.UserData{
		PublicID: fmt.Sprintf("%d", user.PublicID),
		Name:     user.Name,
		Email:    user.Email,
		Role:     string(user.Role),
	}
}
