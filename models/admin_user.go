package models

import "gorm.io/gorm"

type AdminUser struct {
	gorm.Model

	Username     string `gorm:"uniqueIndex;size:64" json:"username"`
	PasswordHash string `gorm:"size:128" json:"-"`
	IsActive     bool   `gorm:"default:true" json:"is_active"`
}
