package application

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/wyfcoding/storefront/internal/cart/domain"
	"github.com/wyfcoding/storefront/pkg/db"
	"github.com/wyfcoding/storefront/pkg/errorsx"
	"github.com/wyfcoding/storefront/pkg/logger"
	"github.com/wyfcoding/storefront/pkg/metrics"
	"github.com/wyfcoding/storefront/pkg/mq"
)

// AddLineCommand 加购命令
type AddLineCommand struct {
	ProductID uint
	ColorID   uint
	SizeID    uint
	Quantity  int
}

// CartCommandService 购物车命令服务
type CartCommandService struct {
	repo      domain.CartRepository
	catalog   domain.Catalog
	publisher domain.EventPublisher
	metrics   *metrics.Metrics
}

// NewCartCommandService 创建购物车命令服务实例
func NewCartCommandService(
	repo domain.CartRepository,
	catalog domain.Catalog,
	publisher domain.EventPublisher,
	m *metrics.Metrics,
) *CartCommandService {
	return &CartCommandService{
		repo:      repo,
		catalog:   catalog,
		publisher: publisher,
		metrics:   m,
	}
}

// GetOrCreateCart 获取归属对应的购物车，不存在则创建
func (s *CartCommandService) GetOrCreateCart(ctx context.Context, owner domain.Owner) (*domain.Cart, error) {
	if err := owner.Validate(); err != nil {
		return nil, err
	}

	cart, err := s.repo.GetByOwner(ctx, owner)
	if err != nil || cart != nil {
		return cart, err
	}

	cart = domain.NewCart(owner)
	err = s.repo.Create(ctx, cart)
	if db.IsDuplicate(err) {
		// 并发创建时唯一索引冲突，读取胜出方的记录
		return s.repo.GetByOwner(ctx, owner)
	}
	if err != nil {
		return nil, err
	}
	return cart, nil
}

// AddLine 加入购物车；同一组合已存在时合并数量并重新校验库存
func (s *CartCommandService) AddLine(ctx context.Context, owner domain.Owner, cmd AddLineCommand) (Summary, error) {
	totals, err := s.addLine(ctx, owner, cmd)
	s.record("add", err)
	if err != nil {
		return Summary{}, err
	}
	return toSummary(totals), nil
}

func (s *CartCommandService) addLine(ctx context.Context, owner domain.Owner, cmd AddLineCommand) (domain.Totals, error) {
	if cmd.Quantity <= 0 {
		return domain.Totals{}, errorsx.Validation("quantity must be at least 1")
	}
	if _, err := s.catalog.GetProduct(ctx, cmd.ProductID); err != nil {
		return domain.Totals{}, err
	}
	if _, err := s.catalog.GetColor(ctx, cmd.ColorID); err != nil {
		return domain.Totals{}, err
	}
	if _, err := s.catalog.GetSize(ctx, cmd.SizeID); err != nil {
		return domain.Totals{}, err
	}

	stock, err := s.catalog.FindStock(ctx, cmd.ProductID, cmd.ColorID, cmd.SizeID)
	if err != nil {
		return domain.Totals{}, err
	}
	if stock == nil {
		return domain.Totals{}, domain.InsufficientStock("no stock available for this combination")
	}
	if cmd.Quantity > stock.Quantity {
		return domain.Totals{}, domain.InsufficientStock("only %d units available", stock.Quantity)
	}

	cart, err := s.GetOrCreateCart(ctx, owner)
	if err != nil {
		return domain.Totals{}, err
	}

	var line *domain.CartLine
	err = s.repo.WithTx(ctx, func(ctx context.Context) error {
		existing, err := s.repo.FindLineByItem(ctx, cart.ID, cmd.ProductID, cmd.ColorID, cmd.SizeID)
		if err != nil {
			return err
		}
		if existing == nil {
			line = &domain.CartLine{
				CartID:    cart.ID,
				ProductID: cmd.ProductID,
				ColorID:   cmd.ColorID,
				SizeID:    cmd.SizeID,
				Quantity:  cmd.Quantity,
			}
			return s.repo.SaveLine(ctx, line)
		}

		merged := existing.Quantity + cmd.Quantity
		if merged > stock.Quantity {
			return domain.InsufficientStock("you can only add %d more units", max(stock.Quantity-existing.Quantity, 0))
		}
		existing.Quantity = merged
		line = existing
		return s.repo.SaveLine(ctx, line)
	})
	if err != nil {
		return domain.Totals{}, err
	}

	s.publish(ctx, domain.TopicLineAdded, cart.ID, domain.LineAddedEvent{
		CartID:    cart.ID,
		LineID:    line.ID,
		ProductID: line.ProductID,
		ColorID:   line.ColorID,
		SizeID:    line.SizeID,
		Quantity:  line.Quantity,
		Timestamp: time.Now(),
	})
	return s.totals(ctx, cart.ID)
}

// SetQuantity 覆盖购物车行数量，返回该行小计与购物车汇总
func (s *CartCommandService) SetQuantity(ctx context.Context, owner domain.Owner, lineID uint, quantity int) (LineUpdate, error) {
	update, err := s.setQuantity(ctx, owner, lineID, quantity)
	s.record("update", err)
	return update, err
}

func (s *CartCommandService) setQuantity(ctx context.Context, owner domain.Owner, lineID uint, quantity int) (LineUpdate, error) {
	if quantity < 1 {
		return LineUpdate{}, errorsx.Validation("quantity must be at least 1")
	}

	cart, line, err := s.ownedLine(ctx, owner, lineID)
	if err != nil {
		return LineUpdate{}, err
	}

	stock, err := s.catalog.FindStock(ctx, line.ProductID, line.ColorID, line.SizeID)
	if err != nil {
		return LineUpdate{}, err
	}
	available := 0
	if stock != nil {
		available = stock.Quantity
	}
	if quantity > available {
		return LineUpdate{}, domain.InsufficientStock("only %d units available", available)
	}

	line.Quantity = quantity
	if err := s.repo.SaveLine(ctx, line); err != nil {
		return LineUpdate{}, err
	}

	totals, err := s.totals(ctx, cart.ID)
	if err != nil {
		return LineUpdate{}, err
	}
	return LineUpdate{Summary: toSummary(totals), Subtotal: line.Subtotal().StringFixed(2)}, nil
}

// RemoveLine 移除购物车行
func (s *CartCommandService) RemoveLine(ctx context.Context, owner domain.Owner, lineID uint) (Summary, error) {
	cart, line, err := s.ownedLine(ctx, owner, lineID)
	if err != nil {
		s.record("remove", err)
		return Summary{}, err
	}
	if err := s.repo.DeleteLine(ctx, line.ID); err != nil {
		s.record("remove", err)
		return Summary{}, err
	}
	s.record("remove", nil)

	s.publish(ctx, domain.TopicLineRemoved, cart.ID, domain.LineRemovedEvent{
		CartID:    cart.ID,
		LineID:    line.ID,
		ProductID: line.ProductID,
		Timestamp: time.Now(),
	})

	totals, err := s.totals(ctx, cart.ID)
	if err != nil {
		return Summary{}, err
	}
	return toSummary(totals), nil
}

// Clear 清空购物车
func (s *CartCommandService) Clear(ctx context.Context, owner domain.Owner) error {
	cart, err := s.GetOrCreateCart(ctx, owner)
	if err != nil {
		return err
	}
	if err := s.repo.ClearLines(ctx, cart.ID); err != nil {
		s.record("clear", err)
		return err
	}
	s.record("clear", nil)

	s.publish(ctx, domain.TopicCleared, cart.ID, domain.CartClearedEvent{
		CartID:    cart.ID,
		Timestamp: time.Now(),
	})
	return nil
}

// ownedLine 查找归属购物车中的行，购物车或行不存在均视为行不存在
func (s *CartCommandService) ownedLine(ctx context.Context, owner domain.Owner, lineID uint) (*domain.Cart, *domain.CartLine, error) {
	if owner.Validate() != nil {
		return nil, nil, errorsx.NotFound("cart line")
	}
	cart, err := s.repo.GetByOwner(ctx, owner)
	if err != nil {
		return nil, nil, err
	}
	if cart == nil {
		return nil, nil, errorsx.NotFound("cart line")
	}
	line, err := s.repo.FindLine(ctx, cart.ID, lineID)
	if err != nil {
		return nil, nil, err
	}
	if line == nil {
		return nil, nil, errorsx.NotFound("cart line")
	}
	return cart, line, nil
}

func (s *CartCommandService) totals(ctx context.Context, cartID uint) (domain.Totals, error) {
	lines, err := s.repo.ListLines(ctx, cartID)
	if err != nil {
		return domain.Totals{}, err
	}
	return domain.ComputeTotals(lines), nil
}

func (s *CartCommandService) record(op string, err error) {
	switch {
	case err == nil:
		s.metrics.CartOp(op, "ok")
	case errors.Is(err, domain.ErrInsufficientStock):
		s.metrics.CartOp(op, "rejected")
	case errorsx.KindOf(err) != errorsx.KindInternal:
		s.metrics.CartOp(op, "invalid")
	default:
		s.metrics.CartOp(op, "error")
	}
}

func (s *CartCommandService) publish(ctx context.Context, topic string, cartID uint, event any) {
	logger.Debug(ctx, "cart changed", "topic", topic, "cart_id", cartID)
	mq.Emit(ctx, s.publisher, topic, strconv.FormatUint(uint64(cartID), 10), event)
}
