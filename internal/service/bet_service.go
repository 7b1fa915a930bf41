package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"math"
	"regexp"
	"time"

	"gamebets/internal/config"
	"gamebets/internal/model"
	"gamebets/internal/repository"
	"gamebets/pkg/idgen"

	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

var (
	ErrMissingBetField = errors.New("缺少必要的投注信息")
	ErrInvalidAmount   = errors.New("投注金额必须大于0")
	ErrInvalidBetType  = errors.New("无效的投注类型")
	ErrInvalidNumber   = errors.New("号码格式与投注类型不符")
	ErrInvalidDate     = errors.New("日期格式不正确，应为 YYYY-MM-DD")
)

var (
	sdNumberPattern = regexp.MustCompile(`^[0-9]$`)
	ddNumberPattern = regexp.MustCompile(`^[0-9]{2}$`)
)

// IsInvalidInput 判断是否属于参数校验类错误
// 这类错误由调用方修正后重新提交，服务端不重试、不落库
func IsInvalidInput(err error) bool {
	for _, target := range []error{
		ErrInvalidName,
		ErrMissingBetField,
		ErrInvalidAmount,
		ErrInvalidBetType,
		ErrInvalidNumber,
		ErrInvalidDate,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

type BetService struct {
	db          *gorm.DB
	redisClient *redis.Client
	cfg         *config.Config
	betRepo     *repository.BetRepository
	outboxRepo  *repository.OutboxRepository
}

func NewBetService(db *gorm.DB, redisClient *redis.Client, cfg *config.Config) *BetService {
	return &BetService{
		db:          db,
		redisClient: redisClient,
		cfg:         cfg,
		betRepo:     repository.NewBetRepository(db),
		outboxRepo:  repository.NewOutboxRepository(db),
	}
}

type AddBetRequest struct {
	CustomerID int64
	GameID     int64
	BetType    string
	Number     string
	Amount     float64
	BetDate    string // 可空，缺省取服务端当天
}

// AddBet 记录一笔投注
//
// 【关键点】
// 1. 校验全部通过后才落库，任何一条规则失败都不会产生行
// 2. 投注行和 bet.placed 事件在同一个事务里写入（事务性发件箱）
// 3. 客户/游戏不存在由外键约束兜底，表现为 ErrForeignKey
func (s *BetService) AddBet(ctx context.Context, req *AddBetRequest) (*model.Bet, error) {
	if req.CustomerID <= 0 || req.GameID <= 0 || req.BetType == "" || req.Number == "" {
		return nil, ErrMissingBetField
	}
	if math.IsNaN(req.Amount) || math.IsInf(req.Amount, 0) || req.Amount <= 0 {
		return nil, ErrInvalidAmount
	}
	if req.BetType != model.BetTypeSingleDigit && req.BetType != model.BetTypeDoubleDigit {
		return nil, ErrInvalidBetType
	}

	pattern := sdNumberPattern
	if req.BetType == model.BetTypeDoubleDigit {
		pattern = ddNumberPattern
	}
	if !pattern.MatchString(req.Number) {
		return nil, ErrInvalidNumber
	}

	// 业务日期缺省取服务端当天，这是设计好的默认值而不是透传
	betDate := time.Now()
	if req.BetDate != "" {
		parsed, err := time.Parse("2006-01-02", req.BetDate)
		if err != nil {
			return nil, ErrInvalidDate
		}
		betDate = parsed
	}

	bet := &model.Bet{
		CustomerID: req.CustomerID,
		GameID:     req.GameID,
		BetType:    req.BetType,
		Number:     req.Number,
		Amount:     req.Amount,
		BetDate:    betDate,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.betRepo.Create(ctx, tx, bet); err != nil {
			return err
		}

		msgPayload := map[string]interface{}{
			"bet_id":      bet.ID,
			"customer_id": bet.CustomerID,
			"game_id":     bet.GameID,
			"bet_type":    bet.BetType,
			"number":      bet.Number,
			"amount":      bet.Amount,
			"bet_date":    betDate.Format("2006-01-02"),
		}
		payloadBytes, _ := json.Marshal(msgPayload)

		outboxMsg := &model.OutboxMessage{
			MessageKey: idgen.GenerateEventNo(),
			Topic:      s.cfg.Kafka.Topic.BetPlaced,
			Payload:    string(payloadBytes),
			Status:     model.OutboxStatusPending,
		}
		if err := s.outboxRepo.Create(ctx, tx, outboxMsg); err != nil {
			return fmt.Errorf("写入事件失败: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("[BetService] 投注已记录: betID=%d, customerID=%d, gameID=%d, type=%s, number=%s, amount=%.2f",
		bet.ID, bet.CustomerID, bet.GameID, bet.BetType, bet.Number, bet.Amount)
	return bet, nil
}

// GetBet 按 ID 查询投注，不存在返回 nil
func (s *BetService) GetBet(ctx context.Context, id int64) (*model.Bet, error) {
	return s.betRepo.GetByID(ctx, id)
}

// ListBets 按过滤条件查询投注，联表带出客户名和游戏名
func (s *BetService) ListBets(ctx context.Context, f repository.BetFilter) ([]*repository.BetWithNames, error) {
	return s.betRepo.List(ctx, f)
}
