package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"gamebets/internal/config"
	"gamebets/internal/model"
	"gamebets/internal/repository"

	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

var (
	ErrInvalidName = errors.New("名称不能为空")
)

const (
	gamesCacheKey     = "gamebets:cache:games"
	customersCacheKey = "gamebets:cache:customers"
)

type GameService struct {
	db          *gorm.DB
	redisClient *redis.Client
	cfg         *config.Config
	gameRepo    *repository.GameRepository
}

func NewGameService(db *gorm.DB, redisClient *redis.Client, cfg *config.Config) *GameService {
	return &GameService{
		db:          db,
		redisClient: redisClient,
		cfg:         cfg,
		gameRepo:    repository.NewGameRepository(db),
	}
}

// AddGame 新增游戏
// 名称去掉首尾空白后不能为空，唯一性比较是精确字符串比较（不做其他归一化）
func (s *GameService) AddGame(ctx context.Context, name string) (*model.Game, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrInvalidName
	}

	game := &model.Game{Name: name}
	if err := s.gameRepo.Create(ctx, game); err != nil {
		return nil, err
	}

	s.invalidateCache(ctx)
	return game, nil
}

// ListGames 按名称升序返回全部游戏，走缓存（缓存不可用时直接读库）
func (s *GameService) ListGames(ctx context.Context) ([]*model.Game, error) {
	if s.redisClient != nil {
		if b, err := s.redisClient.Get(ctx, gamesCacheKey).Bytes(); err == nil {
			var games []*model.Game
			if json.Unmarshal(b, &games) == nil {
				return games, nil
			}
		}
	}

	games, err := s.gameRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	if s.redisClient != nil {
		if b, err := json.Marshal(games); err == nil {
			ttl := time.Duration(s.cfg.Business.CacheTTLSeconds) * time.Second
			s.redisClient.Set(ctx, gamesCacheKey, b, ttl)
		}
	}
	return games, nil
}

// GetGame 按 ID 查询游戏，不存在返回 nil（不是错误）
func (s *GameService) GetGame(ctx context.Context, id int64) (*model.Game, error) {
	return s.gameRepo.GetByID(ctx, id)
}

// DeleteGame 删除游戏，该游戏的投注由数据库级联删除
// 返回受影响行数，0 表示游戏不存在
func (s *GameService) DeleteGame(ctx context.Context, id int64) (int64, error) {
	deleted, err := s.gameRepo.DeleteByID(ctx, id)
	if err != nil {
		return 0, err
	}
	if deleted > 0 {
		s.invalidateCache(ctx)
	}
	return deleted, nil
}

func (s *GameService) invalidateCache(ctx context.Context) {
	if s.redisClient != nil {
		s.redisClient.Del(ctx, gamesCacheKey)
	}
}
