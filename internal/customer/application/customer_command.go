package application

import (
	"context"
	"strconv"
	"time"

	authapp "github.com/wyfcoding/storefront/internal/auth/application"
	authdomain "github.com/wyfcoding/storefront/internal/auth/domain"
	"github.com/wyfcoding/storefront/internal/customer/domain"
	"github.com/wyfcoding/storefront/pkg/crud"
	"github.com/wyfcoding/storefront/pkg/db"
	"github.com/wyfcoding/storefront/pkg/errorsx"
	"github.com/wyfcoding/storefront/pkg/logger"
	"github.com/wyfcoding/storefront/pkg/metrics"
	"github.com/wyfcoding/storefront/pkg/mq"
)

// Identities 登录身份端口
type Identities interface {
	CreateUser(ctx context.Context, cmd authapp.CreateUserCommand) (*authdomain.User, error)
	UpdateNames(ctx context.Context, userID uint, firstName, lastName string) error
}

// Repositories 客户上下文仓储集合
type Repositories struct {
	Groups    domain.GroupRepository
	Customers domain.CustomerRepository
	Addresses domain.AddressRepository
}

// CustomerCommandService 客户命令服务
type CustomerCommandService struct {
	Groups    *crud.Service[domain.CustomerGroup]
	Customers *crud.Service[domain.Customer]
	Addresses *crud.Service[domain.Address]

	repos      Repositories
	identities Identities
	publisher  domain.EventPublisher
	metrics    *metrics.Metrics
}

// NewCustomerCommandService 创建客户命令服务实例
func NewCustomerCommandService(
	repos Repositories,
	identities Identities,
	publisher domain.EventPublisher,
	m *metrics.Metrics,
) *CustomerCommandService {
	s := &CustomerCommandService{
		repos:      repos,
		identities: identities,
		publisher:  publisher,
		metrics:    m,
	}

	s.Groups = crud.New("customer group", repos.Groups, crud.Hooks[domain.CustomerGroup]{
		Validate:     (*domain.CustomerGroup).Validate,
		BeforeDelete: s.releaseGroup,
	})
	s.Customers = crud.New("customer", repos.Customers, crud.Hooks[domain.Customer]{
		Validate:     (*domain.Customer).Validate,
		BeforeWrite:  s.checkGroup,
		BeforeDelete: s.cascadeCustomer,
		Duplicate:    "a customer with this email already exists",
	})
	s.Addresses = crud.New("address", repos.Addresses, crud.Hooks[domain.Address]{
		Validate:    (*domain.Address).Validate,
		BeforeWrite: s.checkAddressOwner,
		AfterWrite:  s.keepSingleDefault,
	})
	return s
}

// Register 在同一事务内创建登录身份与客户档案，任一失败两者都不落库
func (s *CustomerCommandService) Register(ctx context.Context, cmd RegisterCommand) (*authdomain.User, *domain.Customer, error) {
	if err := cmd.validate(); err != nil {
		return nil, nil, err
	}

	var (
		user     *authdomain.User
		customer *domain.Customer
	)
	err := s.repos.Customers.WithTx(ctx, func(ctx context.Context) error {
		existing, err := s.repos.Customers.GetByEmail(ctx, cmd.Email)
		if err != nil {
			return err
		}
		if existing != nil {
			return errorsx.Validation("this email is already registered")
		}

		user, err = s.identities.CreateUser(ctx, authapp.CreateUserCommand{
			Username:  cmd.Username,
			Email:     cmd.Email,
			Password:  cmd.Password,
			FirstName: cmd.FirstName,
			LastName:  cmd.LastName,
		})
		if err != nil {
			return err
		}

		customer = domain.NewCustomer(cmd.Title, cmd.FirstName, cmd.LastName, user.Email)
		customer.UserID = &user.ID
		customer.Newsletter = cmd.Newsletter
		customer.PartnerOffers = cmd.PartnerOffers
		if err := customer.Validate(); err != nil {
			return err
		}
		return s.repos.Customers.Save(ctx, customer)
	})
	if db.IsDuplicate(err) {
		return nil, nil, errorsx.Validation("this email is already registered")
	}
	if err != nil {
		return nil, nil, err
	}

	s.metrics.Registered()
	logger.Info(ctx, "customer registered", "customer_id", customer.ID, "user_id", user.ID)
	mq.Emit(ctx, s.publisher, domain.TopicCustomerRegistered, strconv.FormatUint(uint64(customer.ID), 10), domain.CustomerRegisteredEvent{
		CustomerID: customer.ID,
		UserID:     user.ID,
		Email:      customer.Email,
		Newsletter: customer.Newsletter,
		Timestamp:  time.Now(),
	})
	return user, customer, nil
}

// Profile 返回当前用户的个人资料，缺失的客户档案按身份信息补建
func (s *CustomerCommandService) Profile(ctx context.Context, user *authdomain.User) (*Profile, error) {
	customer, err := s.EnsureCustomer(ctx, user)
	if err != nil {
		return nil, err
	}
	if err := s.repos.Customers.TouchLastVisit(ctx, customer.ID); err != nil {
		logger.Warn(ctx, "failed to update last visit", "customer_id", customer.ID, "error", err)
	}

	addresses, err := s.repos.Addresses.ListByCustomer(ctx, customer.ID)
	if err != nil {
		return nil, err
	}
	return &Profile{User: user, Customer: customer, Addresses: addresses}, nil
}

// UpdateProfile 修改客户档案并同步身份姓名
func (s *CustomerCommandService) UpdateProfile(ctx context.Context, user *authdomain.User, in ProfileUpdate) (*domain.Customer, error) {
	customer, err := s.EnsureCustomer(ctx, user)
	if err != nil {
		return nil, err
	}

	in.apply(customer)
	if err := customer.Validate(); err != nil {
		return nil, err
	}
	customer.Group = nil

	err = s.repos.Customers.WithTx(ctx, func(ctx context.Context) error {
		if err := s.repos.Customers.Save(ctx, customer); err != nil {
			return err
		}
		return s.identities.UpdateNames(ctx, user.ID, customer.Name, customer.Surname)
	})
	if err != nil {
		return nil, err
	}
	user.FirstName, user.LastName = customer.Name, customer.Surname
	return customer, nil
}

// AddAddress 为客户新增地址，客户的第一个地址自动成为默认地址
func (s *CustomerCommandService) AddAddress(ctx context.Context, customerID uint, in AddressInput) (*domain.Address, error) {
	address := &domain.Address{CustomerID: customerID}
	in.Apply(address)
	if err := s.Addresses.Create(ctx, address); err != nil {
		return nil, err
	}
	return address, nil
}

// UpdateAddress 修改客户自己的地址
func (s *CustomerCommandService) UpdateAddress(ctx context.Context, customerID, addressID uint, in AddressInput) (*domain.Address, error) {
	return s.Addresses.Update(ctx, addressID, func(a *domain.Address) error {
		if a.CustomerID != customerID {
			return errorsx.NotFound("address")
		}
		in.Apply(a)
		return nil
	})
}

// DeleteAddress 删除客户自己的地址
func (s *CustomerCommandService) DeleteAddress(ctx context.Context, customerID, addressID uint) error {
	if _, err := s.ownedAddress(ctx, customerID, addressID); err != nil {
		return err
	}
	return s.Addresses.Delete(ctx, addressID)
}

// SetDefault 在一个事务内把指定地址设为默认并取消其余地址的默认标记
func (s *CustomerCommandService) SetDefault(ctx context.Context, customerID, addressID uint) error {
	return s.repos.Addresses.WithTx(ctx, func(ctx context.Context) error {
		if _, err := s.ownedAddress(ctx, customerID, addressID); err != nil {
			return err
		}
		if err := s.repos.Addresses.ClearDefault(ctx, customerID, addressID); err != nil {
			return err
		}
		return s.repos.Addresses.MarkDefault(ctx, addressID)
	})
}

func (s *CustomerCommandService) ownedAddress(ctx context.Context, customerID, addressID uint) (*domain.Address, error) {
	address, err := s.repos.Addresses.GetByID(ctx, addressID)
	if err != nil {
		return nil, err
	}
	if address == nil || address.CustomerID != customerID {
		return nil, errorsx.NotFound("address")
	}
	return address, nil
}

// EnsureCustomer 返回身份对应的客户档案：优先按身份查找，其次按邮箱关联未绑定的档案，都没有时新建
func (s *CustomerCommandService) EnsureCustomer(ctx context.Context, user *authdomain.User) (*domain.Customer, error) {
	customer, err := s.repos.Customers.GetByUserID(ctx, user.ID)
	if err != nil || customer != nil {
		return customer, err
	}

	customer, err = s.repos.Customers.GetByEmail(ctx, user.Email)
	if err != nil {
		return nil, err
	}
	if customer != nil {
		if customer.UserID != nil {
			return nil, errorsx.Validation("this email is already linked to another account")
		}
		customer.UserID = &user.ID
		customer.Group = nil
		if err := s.repos.Customers.Save(ctx, customer); err != nil {
			return nil, err
		}
		logger.Info(ctx, "customer profile linked to user", "customer_id", customer.ID, "user_id", user.ID)
		return customer, nil
	}

	customer = domain.NewCustomer(domain.TitleSR, user.FirstName, user.LastName, user.Email)
	if customer.Name == "" {
		customer.Name = user.Username
	}
	customer.UserID = &user.ID
	if err := s.Customers.Create(ctx, customer); err != nil {
		return nil, err
	}
	logger.Info(ctx, "customer profile created for user", "customer_id", customer.ID, "user_id", user.ID)
	return customer, nil
}

func (s *CustomerCommandService) releaseGroup(ctx context.Context, g *domain.CustomerGroup) error {
	return s.repos.Customers.ClearGroup(ctx, g.ID)
}

func (s *CustomerCommandService) checkGroup(ctx context.Context, c *domain.Customer) error {
	if c.GroupID != nil {
		group, err := s.repos.Groups.GetByID(ctx, *c.GroupID)
		if err != nil {
			return err
		}
		if group == nil {
			return errorsx.NotFound("customer group")
		}
	}
	c.Group = nil
	return nil
}

func (s *CustomerCommandService) cascadeCustomer(ctx context.Context, c *domain.Customer) error {
	return s.repos.Addresses.DeleteByCustomer(ctx, c.ID)
}

func (s *CustomerCommandService) checkAddressOwner(ctx context.Context, a *domain.Address) error {
	customer, err := s.repos.Customers.GetByID(ctx, a.CustomerID)
	if err != nil {
		return err
	}
	if customer == nil {
		return errorsx.NotFound("customer")
	}
	a.Customer = nil

	if a.ID == 0 && !a.IsDefault {
		existing, err := s.repos.Addresses.ListByCustomer(ctx, a.CustomerID)
		if err != nil {
			return err
		}
		a.IsDefault = len(existing) == 0
	}
	return nil
}

func (s *CustomerCommandService) keepSingleDefault(ctx context.Context, a *domain.Address) error {
	if !a.IsDefault {
		return nil
	}
	return s.repos.Addresses.ClearDefault(ctx, a.CustomerID, a.ID)
}
