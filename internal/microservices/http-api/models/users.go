package models

import "time"

// Role ids of the static user_roles table. RoleUser is the default for new accounts.
const (
	RoleUserID  int64 = 1
	RoleAdminID int64 = 2

	RoleUser  = "user"
	RoleAdmin = "admin"
)

type UserRole struct {
	ID   int64  `json:"id" gorm:"primaryKey"`
	Name string `json:"name" gorm:"size:32;not null;uniqueIndex:ux_user_roles_name"`
}

func (UserRole) TableName() string {
	return "user_roles"
}

type User struct {
	ID             int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	Username       string    `json:"username" gorm:"size:25;not null;uniqueIndex:ux_users_username"`
	Email          string    `json:"email" gorm:"not null;uniqueIndex:ux_users_email"`
	HashedPassword string    `json:"-" gorm:"column:hashed_password;not null"` // never rendered
	CreatedAt      time.Time `json:"created_at" gorm:"autoCreateTime"`
	RoleID         int64     `json:"role_id" gorm:"not null;default:1;index"`

	// schema only (FK constraint), never preloaded
	Role *UserRole `json:"-" gorm:"foreignKey:RoleID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;"`
}

func (User) TableName() string {
	return "users"
}
