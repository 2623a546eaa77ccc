package model

// UserRole 用户角色枚举
type UserRole string

const (
	UserRoleUser  UserRole = "user"  // 普通注册用户
	UserRoleAdmin UserRole = "admin" // 管理员，可维护通缉档案与审核举报
)

// User 用户模型

type User struct {
	BaseModel
	PublicID     int64    `gorm:"uniqueIndex;not null" json:"public_id"`
	Name         string   `gorm:"type:varchar(255);not null" json:"name"`
	Email        string   `gorm:"uniqueIndex;type:varchar(255);not null" json:"email"`
	PasswordHash string   `gorm:"type:varchar(255);not null" json:"-"` // bcrypt 密文，不对外暴露
	Role         UserRole `gorm:"type:varchar(16);not null;default:'user';index:idx_users_role" json:"role"`
}

// TableName 指定表名
func (User) TableName() string {
	return "users"
}

// IsAdmin 判断用户是否具备管理员能力。
func (u *User) IsAdmin() bool {
	return u.Role == UserRoleAdmin
}
