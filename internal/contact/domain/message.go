// Package domain 联系表单的领域模型
package domain

import (
	"context"
	"net/mail"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/wyfcoding/storefront/pkg/errorsx"
)

const (
	maxNameLength    = 100
	maxMessageLength = 5000
)

// ContactMessage 访客留言，只入库不转发
type ContactMessage struct {
	ID uint `gorm:"primarykey" json:"id"`
	// Name 留言人姓名
	Name string `gorm:"column:name;type:varchar(100);not null" json:"name"`
	// Email 回复邮箱
	Email string `gorm:"column:email;type:varchar(254);not null" json:"email"`
	// Message 留言内容
	Message string `gorm:"column:message;type:text;not null" json:"message"`
	// ReceivedAt 接收时间
	ReceivedAt time.Time `gorm:"column:received_at;index;not null" json:"received_at"`
}

func (ContactMessage) TableName() string { return "contact_messages" }

// NewContactMessage 创建并校验留言
func NewContactMessage(name, email, message string) (*ContactMessage, error) {
	m := &ContactMessage{
		Name:       strings.TrimSpace(name),
		Email:      strings.TrimSpace(email),
		Message:    strings.TrimSpace(message),
		ReceivedAt: time.Now(),
	}
	if m.Name == "" || m.Email == "" || m.Message == "" {
		return nil, errorsx.Validation("name, email and message are required")
	}
	if utf8.RuneCountInString(m.Name) > maxNameLength {
		return nil, errorsx.Validation("name must be at most %d characters", maxNameLength)
	}
	if addr, err := mail.ParseAddress(m.Email); err != nil || addr.Address != m.Email {
		return nil, errorsx.Validation("enter a valid email address")
	}
	if utf8.RuneCountInString(m.Message) > maxMessageLength {
		return nil, errorsx.Validation("message must be at most %d characters", maxMessageLength)
	}
	return m, nil
}

// MessageRepository 留言仓储
type MessageRepository interface {
	Save(ctx context.Context, m *ContactMessage) error
	Recent(ctx context.Context, limit int) ([]*ContactMessage, error)
}

const TopicMessageReceived = "contact.message.received"

// EventPublisher 事件发布接口
type EventPublisher interface {
	Publish(ctx context.Context, topic string, key string, event any) error
}

// MessageReceivedEvent 收到新留言
type MessageReceivedEvent struct {
	MessageID uint      `json:"message_id"`
	Email     string    `json:"email"`
	Timestamp time.Time `json:"timestamp"`
}
