package repository

import (
	"context"
	"errors"

	"gamebets/internal/model"

	"gorm.io/gorm"
)

var (
	ErrForeignKey = errors.New("客户或游戏不存在")
)

// BetFilter 投注查询/删除的过滤条件
// nil 表示该维度不限制；对外接口里的哨兵值 "all" 在 handler 层
// 已统一转换成 nil，下层只判断指针是否为空，不再比较字符串
type BetFilter struct {
	CustomerID *int64
	GameID     *int64
	Date       *string // 业务日期，格式 2006-01-02
}

// BetWithNames 投注列表行，关联出客户名和游戏名
type BetWithNames struct {
	ID           int64   `json:"id"`
	CustomerID   int64   `json:"customer_id"`
	GameID       int64   `json:"game_id"`
	CustomerName string  `json:"customer_name"`
	GameName     string  `json:"game_name"`
	BetType      string  `json:"bet_type"`
	Number       string  `json:"number"`
	Amount       float64 `json:"amount"`
	BetDate      string  `json:"bet_date"`
	CreatedAt    string  `json:"created_at"`
}

// SummaryRow 客户汇总行，(客户, 游戏) 分组后的合计金额
type SummaryRow struct {
	CustomerID   int64   `json:"customer_id"`
	CustomerName string  `json:"customer_name"`
	GameID       int64   `json:"game_id"`
	GameName     string  `json:"game_name"`
	TotalAmount  float64 `json:"total_amount"`
}

// GridRow 号码矩阵单元格的原始数据
// 不在 SQL 里聚合：矩阵只有 10 个单数字格 + 100 个双数字格，
// 由调用方按 (bet_type, number) 累加即可，省掉第二条聚合查询路径
type GridRow struct {
	BetType string  `json:"bet_type"`
	Number  string  `json:"number"`
	Amount  float64 `json:"amount"`
}

type BetRepository struct {
	db *gorm.DB
}

func NewBetRepository(db *gorm.DB) *BetRepository {
	return &BetRepository{db: db}
}

// applyFilter 把过滤条件拼到查询上
// qualified 为 true 时列名带 b. 前缀（联表查询），否则裸列名（单表删除）
func applyFilter(q *gorm.DB, f BetFilter, qualified bool) *gorm.DB {
	prefix := ""
	if qualified {
		prefix = "b."
	}
	if f.CustomerID != nil {
		q = q.Where(prefix+"customer_id = ?", *f.CustomerID)
	}
	if f.GameID != nil {
		q = q.Where(prefix+"game_id = ?", *f.GameID)
	}
	if f.Date != nil {
		// 只按日历日比较，忽略 bet_date 可能带的时间部分
		q = q.Where("DATE("+prefix+"bet_date) = ?", *f.Date)
	}
	return q
}

func (r *BetRepository) Create(ctx context.Context, tx *gorm.DB, bet *model.Bet) error {
	if tx == nil {
		tx = r.db
	}
	err := tx.WithContext(ctx).Create(bet).Error
	if err != nil {
		if errors.Is(err, gorm.ErrForeignKeyViolated) {
			return ErrForeignKey
		}
		return err
	}
	return nil
}

func (r *BetRepository) GetByID(ctx context.Context, id int64) (*model.Bet, error) {
	var bet model.Bet
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&bet).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &bet, nil
}

// List 按过滤条件查询投注，联表带出客户名、游戏名，按落库时间倒序
func (r *BetRepository) List(ctx context.Context, f BetFilter) ([]*BetWithNames, error) {
	var rows []*BetWithNames
	q := r.db.WithContext(ctx).
		Table("bets AS b").
		Select("b.id, b.customer_id, b.game_id, c.name AS customer_name, g.name AS game_name, " +
			"b.bet_type, b.number, b.amount, DATE(b.bet_date) AS bet_date, b.created_at").
		Joins("JOIN customers c ON b.customer_id = c.id").
		Joins("JOIN games g ON b.game_id = g.id")
	q = applyFilter(q, f, true)
	err := q.Order("b.created_at DESC").Scan(&rows).Error
	return rows, err
}

// Summary 按 (客户, 游戏) 分组合计金额
// 排序：合计降序，再按客户名、游戏名升序，保证并列时结果稳定
func (r *BetRepository) Summary(ctx context.Context, f BetFilter) ([]*SummaryRow, error) {
	var rows []*SummaryRow
	q := r.db.WithContext(ctx).
		Table("bets AS b").
		Select("c.id AS customer_id, c.name AS customer_name, g.id AS game_id, g.name AS game_name, " +
			"SUM(b.amount) AS total_amount").
		Joins("JOIN customers c ON b.customer_id = c.id").
		Joins("JOIN games g ON b.game_id = g.id")
	q = applyFilter(q, f, true)
	err := q.Group("c.id, c.name, g.id, g.name").
		Order("total_amount DESC, c.name ASC, g.name ASC").
		Scan(&rows).Error
	return rows, err
}

// Grid 返回匹配过滤条件的 (bet_type, number, amount) 原始记录
func (r *BetRepository) Grid(ctx context.Context, f BetFilter) ([]*GridRow, error) {
	var rows []*GridRow
	q := r.db.WithContext(ctx).
		Table("bets AS b").
		Select("b.bet_type, b.number, b.amount")
	q = applyFilter(q, f, true)
	err := q.Scan(&rows).Error
	return rows, err
}

// DeleteScoped 按过滤条件删除投注，不触碰游戏和客户
// 三个维度可以全部为 nil（外部把 date 也传成 "all" 的情况），
// 此时删光全部投注行，但依然只动投注表
func (r *BetRepository) DeleteScoped(ctx context.Context, f BetFilter) (int64, error) {
	db := r.db.WithContext(ctx)
	if f.CustomerID == nil && f.GameID == nil && f.Date == nil {
		db = db.Session(&gorm.Session{AllowGlobalUpdate: true})
	}
	result := applyFilter(db, f, false).Delete(&model.Bet{})
	return result.RowsAffected, result.Error
}

// DeleteAll 清空投注表，仅供全量清空事务调用
func (r *BetRepository) DeleteAll(ctx context.Context, tx *gorm.DB) (int64, error) {
	if tx == nil {
		tx = r.db
	}
	result := tx.WithContext(ctx).
		Session(&gorm.Session{AllowGlobalUpdate: true}).
		Delete(&model.Bet{})
	return result.RowsAffected, result.Error
}
