package repository

import (
	"fmt"
	"os"

	"gorm.io/gen"

	"SecurityAlert/internal/model"
	"SecurityAlert/pkg/errors"
	"SecurityAlert/storage/database"
)

// ========== User 相关查询接口 ==========

// UserQuerier 用户查询接口
type UserQuerier interface {
	// GetByPublicID 根据 PublicID 查询用户（API 中 userID 是 public_id）
	//
	// SELECT * FROM @@table WHERE public_id = @publicID LIMIT 1
	GetByPublicID(publicID int64) (*gen.T, error)

	// GetByEmail 根据邮箱查询用户（登录）
	//
	// SELECT * FROM @@table WHERE email = @email LIMIT 1
	GetByEmail(email string) (*gen.T, error)

	// GetByID 根据数据库主键 ID 查询用户
	//
	// SELECT * FROM @@table WHERE id = @id LIMIT 1
	GetByID(id int64) (*gen.T, error)

	// CountByRole 统计各角色的用户数量
	//
	// SELECT role, COUNT(*) as count
	// FROM @@table
	// GROUP BY role
	CountByRole() ([]gen.M, error)
}

// ========== Criminal 相关查询接口 ==========

// CriminalQuerier 通缉档案查询接口
type CriminalQuerier interface {
	// GetByID 根据数据库主键 ID 查询档案
	//
	// SELECT * FROM @@table WHERE id = @id LIMIT 1
	GetByID(id int64) (*gen.T, error)

	// ListByStatus 按状态查询档案（游标分页）
	//
	// SELECT * FROM @@table
	// WHERE 1 = 1
	//   {{if status != ""}}
	//   AND status = @status
	//   {{end}}
	//   {{if cursorID > 0}}
	//   AND id < @cursorID
	//   {{end}}
	// ORDER BY id DESC
	// LIMIT @limit
	ListByStatus(status string, cursorID int64, limit int) ([]*gen.T, error)

	// CountByStatus 统计各状态的档案数量
	//
	// SELECT status, COUNT(*) as count
	// FROM @@table
	// GROUP BY status
	CountByStatus() ([]gen.M, error)
}

// ========== Report 相关查询接口 ==========

// ReportQuerier 目击举报查询接口
type ReportQuerier interface {
	// GetByID 根据数据库主键 ID 查询举报
	//
	// SELECT * FROM @@table WHERE id = @id LIMIT 1
	GetByID(id int64) (*gen.T, error)

	// ListForReview 管理端审核列表（按档案、状态筛选，游标分页）
	//
	// SELECT * FROM @@table
	// WHERE 1 = 1
	//   {{if criminalID > 0}}
	//   AND criminal_id = @criminalID
	//   {{end}}
	//   {{if status != ""}}
	//   AND status = @status
	//   {{end}}
	//   {{if cursorID > 0}}
	//   AND id < @cursorID
	//   {{end}}
	// ORDER BY id DESC
	// LIMIT @limit
	ListForReview(criminalID int64, status string, cursorID int64, limit int) ([]*gen.T, error)

	// CountByCriminalIDAndStatus 统计某档案举报数量（按状态）
	//
	// SELECT status, COUNT(*) as count
	// FROM @@table
	// WHERE criminal_id = @criminalID
	// GROUP BY status
	CountByCriminalIDAndStatus(criminalID int64) ([]gen.M, error)

	// ListPendingOlderThan 查询长时间未审核的举报（用于巡检）
	//
	// SELECT * FROM @@table
	// WHERE status = 'pending'
	//   AND created_at < NOW() - INTERVAL '7 days'
	// ORDER BY created_at ASC
	// LIMIT @limit
	ListPendingOlderThan(limit int) ([]*gen.T, error)
}

// ========== SurvivalAlert 相关查询接口 ==========

// SurvivalAlertQuerier 求救预警配置查询接口
type SurvivalAlertQuerier interface {
	// GetByUserID 根据用户 ID 查询预警配置（每用户一条）
	//
	// SELECT * FROM @@table WHERE user_id = @userID LIMIT 1
	GetByUserID(userID int64) (*gen.T, error)

	// ListTriggeredSince 查询某时刻后触发过的配置（用于运营统计）
	//
	// SELECT * FROM @@table
	// WHERE last_triggered_at IS NOT NULL
	//   AND last_triggered_at >= @since::timestamptz
	// ORDER BY last_triggered_at DESC
	ListTriggeredSince(since string) ([]*gen.T, error)
}

func Generate() error {
	if err := database.Init(); err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}

	// 运行数据库迁移（确保表存在）
	if err := database.Migrate(); err != nil {
		return fmt.Errorf("failed to run database migration: %w", err)
	}

	db := database.DB()
	if db == nil {
		return errors.ErrDatabaseConnectionNil
	}

	g := gen.NewGenerator(gen.Config{
		OutPath:           "./internal/repository/query", // 生成代码的输出路径
		ModelPkgPath:      "SecurityAlert/internal/model",
		Mode:              gen.WithDefaultQuery | gen.WithQueryInterface | gen.WithoutContext,
		FieldNullable:     true, // 字段可以为 null
		FieldCoverable:    false,
		FieldSignable:     false,
		FieldWithIndexTag: false,
		FieldWithTypeTag:  true,
	})

	g.UseDB(db)

	// 注册现有的 model，GORM Gen 会使用这些 model 而不是生成新的
	g.ApplyBasic(
		&model.User{},
		&model.Criminal{},
		&model.Photo{},
		&model.Report{},
		&model.SurvivalAlert{},
	)

	// 直接应用接口，GORM Gen 会根据接口中的类型自动匹配已注册的 model
	g.ApplyInterface(func(UserQuerier) {}, &model.User{})
	g.ApplyInterface(func(CriminalQuerier) {}, &model.Criminal{})
	g.ApplyInterface(func(ReportQuerier) {}, &model.Report{})
	g.ApplyInterface(func(SurvivalAlertQuerier) {}, &model.SurvivalAlert{})

	g.Execute()

	return nil
}

func RunGenerate() {
	if err := Generate(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to generate code: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("Code generation completed successfully!")
}
