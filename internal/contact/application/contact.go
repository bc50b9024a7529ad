package application

import (
	"context"
	"strconv"

	"github.com/wyfcoding/storefront/internal/contact/domain"
	"github.com/wyfcoding/storefront/pkg/logger"
	"github.com/wyfcoding/storefront/pkg/mq"
)

// SubmitCommand 留言表单
type SubmitCommand struct {
	Name    string `form:"name" json:"name" binding:"required,max=100"`
	Email   string `form:"email" json:"email" binding:"required,email"`
	Message string `form:"message" json:"message" binding:"required" input:"textarea"`
}

// ContactService 留言服务
type ContactService struct {
	repo      domain.MessageRepository
	publisher domain.EventPublisher
}

// NewContactService 创建留言服务实例
func NewContactService(repo domain.MessageRepository, publisher domain.EventPublisher) *ContactService {
	return &ContactService{repo: repo, publisher: publisher}
}

// Submit 校验并保存留言，随后记录日志并发布事件
func (s *ContactService) Submit(ctx context.Context, cmd SubmitCommand) (*domain.ContactMessage, error) {
	msg, err := domain.NewContactMessage(cmd.Name, cmd.Email, cmd.Message)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, msg); err != nil {
		return nil, err
	}

	logger.Info(ctx, "contact message received", "message_id", msg.ID, "email", msg.Email)
	mq.Emit(ctx, s.publisher, domain.TopicMessageReceived, strconv.FormatUint(uint64(msg.ID), 10), domain.MessageReceivedEvent{
		MessageID: msg.ID,
		Email:     msg.Email,
		Timestamp: msg.ReceivedAt,
	})
	return msg, nil
}

// Recent 最近的留言
func (s *ContactService) Recent(ctx context.Context, limit int) ([]*domain.ContactMessage, error) {
	return s.repo.Recent(ctx, limit)
}
