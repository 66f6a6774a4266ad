package models

import "time"

const (
	RoleOwner = "owner"
	RoleAdmin = "admin"
	RoleStaff = "staff"
)

// User is a back-office account. Platform owners carry no site binding
// (SiteConfigID is NULL); staff and admins belong to exactly one site.
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	SiteConfigID *uint     `gorm:"index" json:"site_config_id,omitempty"`
	Username     string    `gorm:"uniqueIndex;size:150" json:"username"`
	PasswordHash string    `gorm:"size:255" json:"-"`
	Role         string    `gorm:"size:50;default:staff" json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	SiteConfig *SiteConfig `gorm:"foreignKey:SiteConfigID" json:"-"`
}
