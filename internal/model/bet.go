package model

import (
	"time"
)

const (
	BetTypeSingleDigit = "SD" // 单数字投注，号码 0-9
	BetTypeDoubleDigit = "DD" // 双数字投注，号码 00-99（两位补零）
)

// Bet 投注表
// 记录每一笔下注，是结算的核心数据
//
// 【重要】投注表设计原则：
// 1. 只追加，不修改 —— 单笔投注从不原地更新
// 2. 删除只通过批量删除接口（按条件或全量清空）
// 3. bet_date 是业务日期（下注归属日），created_at 是落库时间，两者独立
type Bet struct {
	ID         int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	CustomerID int64     `gorm:"index:idx_bets_customer_game;not null" json:"customer_id"`
	GameID     int64     `gorm:"index:idx_bets_customer_game;index:idx_bets_game;not null" json:"game_id"`
	BetType    string    `gorm:"type:varchar(2);not null;check:chk_bets_type,bet_type IN ('SD','DD')" json:"bet_type"`
	Number     string    `gorm:"type:varchar(2);not null" json:"number"`
	Amount     float64   `gorm:"not null" json:"amount"`
	BetDate    time.Time `gorm:"type:date;not null" json:"bet_date"`
	CreatedAt  time.Time `gorm:"autoCreateTime;index" json:"created_at"`

	Customer Customer `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Game     Game     `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

func (Bet) TableName() string {
	return "bets"
}
