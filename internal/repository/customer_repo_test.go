package repository

import (
	"context"
	"errors"
	"testing"

	"gamebets/internal/model"
)

func TestCustomerCreateDuplicate(t *testing.T) {
	db := newTestDB(t)
	repo := NewCustomerRepository(db)

	seedCustomer(t, db, "Zhang San")

	err := repo.Create(context.Background(), &model.Customer{Name: "Zhang San"})
	if !errors.Is(err, ErrDuplicateName) {
		t.Errorf("重名应返回 ErrDuplicateName，实际: %v", err)
	}
}

func TestCustomerDeleteCascade(t *testing.T) {
	db := newTestDB(t)
	repo := NewCustomerRepository(db)

	game := seedGame(t, db, "Game A")
	custX := seedCustomer(t, db, "Customer X")
	custY := seedCustomer(t, db, "Customer Y")

	seedBet(t, db, custX.ID, game.ID, model.BetTypeSingleDigit, "1", 10, day(2024, 3, 1))
	seedBet(t, db, custY.ID, game.ID, model.BetTypeSingleDigit, "2", 20, day(2024, 3, 1))

	deleted, err := repo.DeleteByID(context.Background(), custX.ID)
	if err != nil {
		t.Fatalf("删除客户失败: %v", err)
	}
	if deleted != 1 {
		t.Errorf("删除行数不符: %d", deleted)
	}

	// 只有 X 的投注被级联删除
	if n := countRows(t, db, &model.Bet{}); n != 1 {
		t.Errorf("级联删除后剩余投注数不符: %d", n)
	}
	if n := countRows(t, db, &model.Game{}); n != 1 {
		t.Errorf("游戏不应被删除: %d", n)
	}
}
