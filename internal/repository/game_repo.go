package repository

import (
	"context"
	"errors"

	"gamebets/internal/model"

	"gorm.io/gorm"
)

var (
	ErrDuplicateName = errors.New("名称已存在")
)

type GameRepository struct {
	db *gorm.DB
}

func NewGameRepository(db *gorm.DB) *GameRepository {
	return &GameRepository{db: db}
}

func (r *GameRepository) Create(ctx context.Context, game *model.Game) error {
	err := r.db.WithContext(ctx).Create(game).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicateName
		}
		return err
	}
	return nil
}

func (r *GameRepository) GetByID(ctx context.Context, id int64) (*model.Game, error) {
	var game model.Game
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&game).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &game, nil
}

// List 按名称升序返回全部游戏（前端下拉框直接使用该顺序）
func (r *GameRepository) List(ctx context.Context) ([]*model.Game, error) {
	var games []*model.Game
	err := r.db.WithContext(ctx).Order("name ASC").Find(&games).Error
	return games, err
}

// DeleteByID 删除指定游戏，级联删除由外键约束完成
// 返回受影响行数，0 表示游戏不存在（不视为错误）
func (r *GameRepository) DeleteByID(ctx context.Context, id int64) (int64, error) {
	result := r.db.WithContext(ctx).Delete(&model.Game{}, id)
	return result.RowsAffected, result.Error
}

// DeleteAll 清空游戏表，仅供全量清空事务调用
func (r *GameRepository) DeleteAll(ctx context.Context, tx *gorm.DB) (int64, error) {
	if tx == nil {
		tx = r.db
	}
	result := tx.WithContext(ctx).
		Session(&gorm.Session{AllowGlobalUpdate: true}).
		Delete(&model.Game{})
	return result.RowsAffected, result.Error
}
