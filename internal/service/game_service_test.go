package service

import (
	"context"
	"errors"
	"testing"

	"gamebets/internal/model"
	"gamebets/internal/repository"
)

func TestAddGameTrimAndEmpty(t *testing.T) {
	db := newTestDB(t)
	svc := NewGameService(db, nil, testConfig())
	ctx := context.Background()

	// 纯空白视为空名
	_, err := svc.AddGame(ctx, "   ")
	if !errors.Is(err, ErrInvalidName) {
		t.Errorf("空白名称应返回 ErrInvalidName，实际: %v", err)
	}
	if !IsInvalidInput(err) {
		t.Error("ErrInvalidName 应被 IsInvalidInput 识别")
	}

	// 首尾空白去掉后入库
	game, err := svc.AddGame(ctx, "  Lucky Draw  ")
	if err != nil {
		t.Fatalf("新增游戏失败: %v", err)
	}
	if game.Name != "Lucky Draw" {
		t.Errorf("名称应去掉首尾空白: %q", game.Name)
	}
}

func TestAddGameDuplicate(t *testing.T) {
	db := newTestDB(t)
	svc := NewGameService(db, nil, testConfig())
	ctx := context.Background()

	if _, err := svc.AddGame(ctx, "Lucky Draw"); err != nil {
		t.Fatalf("新增游戏失败: %v", err)
	}
	_, err := svc.AddGame(ctx, "Lucky Draw")
	if !errors.Is(err, repository.ErrDuplicateName) {
		t.Errorf("重名应返回 ErrDuplicateName，实际: %v", err)
	}

	// 大小写不同视为不同名称
	if _, err := svc.AddGame(ctx, "lucky draw"); err != nil {
		t.Errorf("大小写不同的名称不应视为重名: %v", err)
	}
}

func TestListGamesOrder(t *testing.T) {
	db := newTestDB(t)
	svc := NewGameService(db, nil, testConfig())
	ctx := context.Background()

	for _, name := range []string{"Zebra", "Alpha", "Mango"} {
		if _, err := svc.AddGame(ctx, name); err != nil {
			t.Fatalf("新增游戏失败: %v", err)
		}
	}

	games, err := svc.ListGames(ctx)
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

func TestDeleteGameCount(t *testing.T) {
	db := newTestDB(t)
	svc := NewGameService(db, nil, testConfig())
	ctx := context.Background()

	game, err := svc.AddGame(ctx, "Lucky Draw")
	if err != nil {
		t.Fatalf("新增游戏失败: %v", err)
	}

	got, err := svc.GetGame(ctx, game.ID)
	if err != nil || got == nil || got.Name != "Lucky Draw" {
		t.Fatalf("按 ID 查询游戏不符: got=%v, err=%v", got, err)
	}

	deleted, err := svc.DeleteGame(ctx, game.ID)
	if err != nil {
		t.Fatalf("删除游戏失败: %v", err)
	}
	if deleted != 1 {
		t.Errorf("删除行数不符: %d", deleted)
	}

	deleted, err = svc.DeleteGame(ctx, game.ID)
	if err != nil {
		t.Fatalf("删除不存在的游戏不应报错: %v", err)
	}
	if deleted != 0 {
		t.Errorf("不存在的游戏删除行数应为 0: %d", deleted)
	}

	got, err = svc.GetGame(ctx, game.ID)
	if err != nil {
		t.Fatalf("查询已删除的游戏不应报错: %v", err)
	}
	if got != nil {
		t.Errorf("已删除的游戏应返回 nil: %v", got)
	}
}

func TestAddCustomerRules(t *testing.T) {
	db := newTestDB(t)
	svc := NewCustomerService(db, nil, testConfig())
	ctx := context.Background()

	_, err := svc.AddCustomer(ctx, "")
	if !errors.Is(err, ErrInvalidName) {
		t.Errorf("空名称应返回 ErrInvalidName，实际: %v", err)
	}

	customer, err := svc.AddCustomer(ctx, " Zhang San ")
	if err != nil {
		t.Fatalf("新增客户失败: %v", err)
	}
	if customer.Name != "Zhang San" {
		t.Errorf("名称应去掉首尾空白: %q", customer.Name)
	}

	_, err = svc.AddCustomer(ctx, "Zhang San")
	if !errors.Is(err, repository.ErrDuplicateName) {
		t.Errorf("重名应返回 ErrDuplicateName，实际: %v", err)
	}

	got, err := svc.GetCustomer(ctx, customer.ID)
	if err != nil || got == nil || got.Name != "Zhang San" {
		t.Fatalf("按 ID 查询客户不符: got=%v, err=%v", got, err)
	}

	// 游戏和客户名称空间彼此独立
	gameSvc := NewGameService(db, nil, testConfig())
	if _, err := gameSvc.AddGame(ctx, "Zhang San"); err != nil {
		t.Errorf("游戏可以与客户同名: %v", err)
	}
	if n := countRows(t, db, &model.Customer{}); n != 1 {
		t.Errorf("客户行数不符: %d", n)
	}
}
