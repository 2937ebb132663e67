package model

import "time"

type Role string

const (
	RoleUser  Role = "USER"
	RoleStaff Role = "STAFF"
)

type User struct {
	ID           int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Username     string `gorm:"type:varchar(150);uniqueIndex;not null" json:"username"`
	Email        string `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"column:password_hash;not null" json:"-"`

	//表示名
	FullName string `gorm:"type:varchar(150)" json:"full_name"`

	//電話番号
	PhoneNumber string `gorm:"type:varchar(20)" json:"phone_number"`

	Role        Role `gorm:"type:varchar(20);not null;default:'USER'" json:"role"`
	IsActive    bool `gorm:"not null;default:true" json:"is_active"`
	LastLoginAt *time.Time `json:"-"`
	CreatedAt   time.Time  `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

// STAFFかどうか
func (u *User) IsStaff() bool {
	return u.Role == RoleStaff
}
