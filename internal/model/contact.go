package model

import (
	"strings"
	"time"

	"qrcontact-platform/internal/vcard"
)

// Contact 联系人，可选字段为 nil 表示不存在
type Contact struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	Company   *string   `gorm:"size:255" json:"company"`
	Title     *string   `gorm:"size:255" json:"title"`
	Email     *string   `gorm:"size:255" json:"email"`
	Phone     *string   `gorm:"size:64" json:"phone"`
	Website   *string   `gorm:"type:text" json:"website"`
	CreatedAt time.Time `gorm:"index" json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// TableName 指定表名
func (Contact) TableName() string {
	return "contacts"
}

// NewContact 由表单数据构造联系人：去除首尾空白，空字段存为 NULL
func NewContact(id string, c vcard.Contact) Contact {
	c = c.Normalize()
	return Contact{
		ID:      id,
		Name:    c.Name,
		Company: optional(c.Company),
		Title:   optional(c.Title),
		Email:   optional(c.Email),
		Phone:   optional(c.Phone),
		Website: optional(c.Website),
	}
}

// VCard 转换为 vCard 格式化所需的结构
func (c Contact) VCard() vcard.Contact {
	return vcard.Contact{
		Name:    c.Name,
		Company: deref(c.Company),
		Title:   deref(c.Title),
		Email:   deref(c.Email),
		Phone:   deref(c.Phone),
		Website: deref(c.Website),
	}
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
