package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"gamebets/internal/model"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB 基于共享内存 SQLite 建库
// _foreign_keys=on 打开外键约束，级联删除行为和生产库一致
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("打开测试数据库失败: %v", err)
	}

	if err := db.AutoMigrate(&model.Game{}, &model.Customer{}, &model.Bet{}, &model.OutboxMessage{}); err != nil {
		t.Fatalf("建表失败: %v", err)
	}

	t.Cleanup(func() {
		sqlDB, err := db.DB()
		if err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func seedGame(t *testing.T, db *gorm.DB, name string) *model.Game {
	t.Helper()
	game := &model.Game{Name: name}
	if err := NewGameRepository(db).Create(context.Background(), game); err != nil {
		t.Fatalf("写入游戏 %s 失败: %v", name, err)
	}
	return game
}

func seedCustomer(t *testing.T, db *gorm.DB, name string) *model.Customer {
	t.Helper()
	customer := &model.Customer{Name: name}
	if err := NewCustomerRepository(db).Create(context.Background(), customer); err != nil {
		t.Fatalf("写入客户 %s 失败: %v", name, err)
	}
	return customer
}

func seedBet(t *testing.T, db *gorm.DB, customerID, gameID int64, betType, number string, amount float64, betDate time.Time) *model.Bet {
	t.Helper()
	bet := &model.Bet{
		CustomerID: customerID,
		GameID:     gameID,
		BetType:    betType,
		Number:     number,
		Amount:     amount,
		BetDate:    betDate,
	}
	if err := NewBetRepository(db).Create(context.Background(), nil, bet); err != nil {
		t.Fatalf("写入投注失败: %v", err)
	}
	return bet
}

func countRows(t *testing.T, db *gorm.DB, model interface{}) int64 {
	t.Helper()
	var n int64
	if err := db.Model(model).Count(&n).Error; err != nil {
		t.Fatalf("统计行数失败: %v", err)
	}
	return n
}

func int64Ptr(v int64) *int64 { return &v }

func strPtr(v string) *string { return &v }

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
