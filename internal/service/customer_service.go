package service

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"gamebets/internal/config"
	"gamebets/internal/model"
	"gamebets/internal/repository"

	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

type CustomerService struct {
	db           *gorm.DB
	redisClient  *redis.Client
	cfg          *config.Config
	customerRepo *repository.CustomerRepository
}

func NewCustomerService(db *gorm.DB, redisClient *redis.Client, cfg *config.Config) *CustomerService {
	return &CustomerService{
		db:           db,
		redisClient:  redisClient,
		cfg:          cfg,
		customerRepo: repository.NewCustomerRepository(db),
	}
}

// AddCustomer 新增客户，规则与游戏一致：去空白、非空、名称精确唯一
func (s *CustomerService) AddCustomer(ctx context.Context, name string) (*model.Customer, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrInvalidName
	}

	customer := &model.Customer{Name: name}
	if err := s.customerRepo.Create(ctx, customer); err != nil {
		return nil, err
	}

	s.invalidateCache(ctx)
	return customer, nil
}

// ListCustomers 按名称升序返回全部客户，走缓存
func (s *CustomerService) ListCustomers(ctx context.Context) ([]*model.Customer, error) {
	if s.redisClient != nil {
		if b, err := s.redisClient.Get(ctx, customersCacheKey).Bytes(); err == nil {
			var customers []*model.Customer
			if json.Unmarshal(b, &customers) == nil {
				return customers, nil
			}
		}
	}

	customers, err := s.customerRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	if s.redisClient != nil {
		if b, err := json.Marshal(customers); err == nil {
			ttl := time.Duration(s.cfg.Business.CacheTTLSeconds) * time.Second
			s.redisClient.Set(ctx, customersCacheKey, b, ttl)
		}
	}
	return customers, nil
}

// GetCustomer 按 ID 查询客户，不存在返回 nil
func (s *CustomerService) GetCustomer(ctx context.Context, id int64) (*model.Customer, error) {
	return s.customerRepo.GetByID(ctx, id)
}

// DeleteCustomer 删除客户，其投注由数据库级联删除
func (s *CustomerService) DeleteCustomer(ctx context.Context, id int64) (int64, error) {
	deleted, err := s.customerRepo.DeleteByID(ctx, id)
	if err != nil {
		return 0, err
	}
	if deleted > 0 {
		s.invalidateCache(ctx)
	}
	return deleted, nil
}

func (s *CustomerService) invalidateCache(ctx context.Context) {
	if s.redisClient != nil {
		s.redisClient.Del(ctx, customersCacheKey)
	}
}
