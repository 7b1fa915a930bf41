package model

import (
	"time"
)

// Game 游戏表
// 记录可投注的游戏场次（如 Matka 各个开盘场次），名称全局唯一
// 删除游戏时由数据库级联删除该游戏下的全部投注
type Game struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Name      string    `gorm:"type:varchar(64);uniqueIndex;not null" json:"name"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (Game) TableName() string {
	return "games"
}
