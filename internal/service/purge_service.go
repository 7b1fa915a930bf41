package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"gamebets/internal/config"
	"gamebets/internal/infrastructure/lock"
	"gamebets/internal/model"
	"gamebets/internal/repository"
	"gamebets/pkg/idgen"

	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

// PurgeRequest 批量删除投注的请求
// DateSupplied 标记外部是否出现过 date 参数（哪怕取值是 "all"）：
// 全量清空要求 date 维度完全未出现，而不仅仅是不限制
type PurgeRequest struct {
	Filter       repository.BetFilter
	DateSupplied bool
}

type purgeMode int

const (
	purgeScoped purgeMode = iota
	purgeFullReset
)

// resolveMode 判定删除模式
// 这个判断只存在这一处，后续代码一律只认返回的模式值
func resolveMode(req PurgeRequest) purgeMode {
	f := req.Filter
	if f.CustomerID == nil && f.GameID == nil && f.Date == nil && !req.DateSupplied {
		return purgeFullReset
	}
	return purgeScoped
}

type PurgeService struct {
	db           *gorm.DB
	redisClient  *redis.Client
	cfg          *config.Config
	betRepo      *repository.BetRepository
	gameRepo     *repository.GameRepository
	customerRepo *repository.CustomerRepository
	outboxRepo   *repository.OutboxRepository
}

func NewPurgeService(db *gorm.DB, redisClient *redis.Client, cfg *config.Config) *PurgeService {
	return &PurgeService{
		db:           db,
		redisClient:  redisClient,
		cfg:          cfg,
		betRepo:      repository.NewBetRepository(db),
		gameRepo:     repository.NewGameRepository(db),
		customerRepo: repository.NewCustomerRepository(db),
		outboxRepo:   repository.NewOutboxRepository(db),
	}
}

// DeleteBets 批量删除投注
//
// 【关键点】两种模式行为差异很大，判定见 resolveMode：
// 1. 条件删除：只删匹配的投注行，游戏和客户永远不动，删 0 行是正常结果
// 2. 全量清空：单个事务里依次清空投注、游戏、客户，任何一步失败整体回滚，
//    返回值只报投注删除数
func (s *PurgeService) DeleteBets(ctx context.Context, req PurgeRequest) (int64, error) {
	if resolveMode(req) == purgeScoped {
		deleted, err := s.betRepo.DeleteScoped(ctx, req.Filter)
		if err != nil {
			return 0, err
		}
		log.Printf("[PurgeService] 条件删除完成: deleted=%d", deleted)
		return deleted, nil
	}

	return s.fullReset(ctx)
}

// fullReset 全量清空，不可恢复
// 是否向操作员二次确认是调用方（前端/API）的职责，走到这里就会执行
func (s *PurgeService) fullReset(ctx context.Context) (int64, error) {
	// 清空互斥锁：两个操作员同时点清空时只放行一个
	if s.redisClient != nil {
		resetLock := lock.NewResetLock(s.redisClient, idgen.GenerateEventNo())
		if err := resetLock.Lock(ctx, 100*time.Millisecond, 30); err != nil {
			return 0, fmt.Errorf("已有清空操作在执行: %w", err)
		}
		defer resetLock.Unlock(ctx)
	}

	var deletedBets int64
	err := s.db.Transaction(func(tx *gorm.DB) error {
		n, err := s.betRepo.DeleteAll(ctx, tx)
		if err != nil {
			return fmt.Errorf("清空投注失败: %w", err)
		}
		deletedBets = n

		if _, err := s.gameRepo.DeleteAll(ctx, tx); err != nil {
			return fmt.Errorf("清空游戏失败: %w", err)
		}
		if _, err := s.customerRepo.DeleteAll(ctx, tx); err != nil {
			return fmt.Errorf("清空客户失败: %w", err)
		}

		msgPayload := map[string]interface{}{
			"deleted_bets": deletedBets,
			"reset_at":     time.Now().Format(time.RFC3339),
		}
		payloadBytes, _ := json.Marshal(msgPayload)

		outboxMsg := &model.OutboxMessage{
			MessageKey: idgen.GenerateEventNo(),
			Topic:      s.cfg.Kafka.Topic.LedgerReset,
			Payload:    string(payloadBytes),
			Status:     model.OutboxStatusPending,
		}
		if err := s.outboxRepo.Create(ctx, tx, outboxMsg); err != nil {
			return fmt.Errorf("写入事件失败: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	// 游戏/客户下拉缓存已经全部失效
	if s.redisClient != nil {
		s.redisClient.Del(ctx, gamesCacheKey, customersCacheKey)
	}

	log.Printf("[PurgeService] 全量清空完成: deletedBets=%d", deletedBets)
	return deletedBets, nil
}
