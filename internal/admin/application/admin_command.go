package application

import (
	"context"
	"strconv"
	"time"

	"github.com/wyfcoding/storefront/internal/admin/domain"
	"github.com/wyfcoding/storefront/pkg/crud"
	"github.com/wyfcoding/storefront/pkg/logger"
	"github.com/wyfcoding/storefront/pkg/mq"
)

// AdminCommandService 后台写操作审计
type AdminCommandService struct {
	actions   domain.ActionRepository
	publisher domain.EventPublisher
}

// NewAdminCommandService 创建后台命令服务实例
func NewAdminCommandService(actions domain.ActionRepository, publisher domain.EventPublisher) *AdminCommandService {
	return &AdminCommandService{actions: actions, publisher: publisher}
}

// Record 保存审计记录并发布事件，失败只记录日志
func (s *AdminCommandService) Record(ctx context.Context, actor, resource string, op crud.Op, itemID uint, label string) {
	action := &domain.AdminAction{
		Actor:    actor,
		Resource: resource,
		Op:       string(op),
		ItemID:   itemID,
		Label:    label,
	}
	logger.Info(ctx, "admin action", "actor", actor, "resource", resource, "op", op, "item_id", itemID)
	if err := s.actions.Save(ctx, action); err != nil {
		logger.Error(ctx, "failed to save admin action", "resource", resource, "item_id", itemID, "error", err)
	}

	mq.Emit(ctx, s.publisher, domain.TopicAdminAction, resource+":"+strconv.FormatUint(uint64(itemID), 10), domain.AdminActionEvent{
		Actor:     actor,
		Resource:  resource,
		Op:        string(op),
		ItemID:    itemID,
		Label:     label,
		Timestamp: time.Now(),
	})
}
