package repository

import (
	"context"
	"errors"
	"testing"

	"gamebets/internal/model"
)

func TestGameCreateDuplicate(t *testing.T) {
	db := newTestDB(t)
	repo := NewGameRepository(db)

	seedGame(t, db, "Lucky Draw")

	err := repo.Create(context.Background(), &model.Game{Name: "Lucky Draw"})
	if !errors.Is(err, ErrDuplicateName) {
		t.Errorf("重名应返回 ErrDuplicateName，实际: %v", err)
	}
}

func TestGameListOrder(t *testing.T) {
	db := newTestDB(t)
	repo := NewGameRepository(db)

	seedGame(t, db, "Zebra")
	seedGame(t, db, "Alpha")
	seedGame(t, db, "Mango")

	games, err := repo.List(context.Background())
	if err != nil {
		t.Fatalf("查询失败: %v", err)
	}
	want := []string{"Alpha", "Mango", "Zebra"}
	if len(games) != len(want) {
		t.Fatalf("数量不符: %d", len(games))
	}
	for i, name := range want {
		if games[i].Name != name {
			t.Errorf("第 %d 个游戏应为 %s，实际 %s", i, name, games[i].Name)
		}
	}
}

func TestGameDeleteCascade(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := NewGameRepository(db)

	gameA := seedGame(t, db, "Game A")
	gameB := seedGame(t, db, "Game B")
	customer := seedCustomer(t, db, "Customer X")

	seedBet(t, db, customer.ID, gameA.ID, model.BetTypeSingleDigit, "1", 10, day(2024, 3, 1))
	seedBet(t, db, customer.ID, gameA.ID, model.BetTypeSingleDigit, "2", 20, day(2024, 3, 1))
	seedBet(t, db, customer.ID, gameB.ID, model.BetTypeSingleDigit, "3", 30, day(2024, 3, 1))

	deleted, err := repo.DeleteByID(ctx, gameA.ID)
	if err != nil {
		t.Fatalf("删除游戏失败: %v", err)
	}
	if deleted != 1 {
		t.Errorf("删除行数不符: %d", deleted)
	}

	// Game A 的投注级联删除，Game B 的投注和客户不受影响
	if n := countRows(t, db, &model.Bet{}); n != 1 {
		t.Errorf("级联删除后剩余投注数不符: %d", n)
	}
	if n := countRows(t, db, &model.Customer{}); n != 1 {
		t.Errorf("客户不应被删除: %d", n)
	}
}

func TestGameDeleteMissing(t *testing.T) {
	db := newTestDB(t)
	repo := NewGameRepository(db)

	deleted, err := repo.DeleteByID(context.Background(), 12345)
	if err != nil {
		t.Fatalf("删除不存在的游戏不应报错: %v", err)
	}
	if deleted != 0 {
		t.Errorf("不存在的游戏删除行数应为 0: %d", deleted)
	}
}
