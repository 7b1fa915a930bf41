package model

import (
	"time"
)

// Customer 客户表
// 客户名称全局唯一，删除客户时由数据库级联删除其全部投注
type Customer struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Name      string    `gorm:"type:varchar(64);uniqueIndex;not null" json:"name"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (Customer) TableName() string {
	return "customers"
}
