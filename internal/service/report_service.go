package service

import (
	"context"

	"gamebets/internal/repository"

	"gorm.io/gorm"
)

type ReportService struct {
	db      *gorm.DB
	betRepo *repository.BetRepository
}

func NewReportService(db *gorm.DB) *ReportService {
	return &ReportService{
		db:      db,
		betRepo: repository.NewBetRepository(db),
	}
}

// CustomerSummary 客户汇总视图
// 按 (客户, 游戏) 分组合计金额，合计降序 + 名称升序
// 无匹配记录时返回空切片，不是错误
func (s *ReportService) CustomerSummary(ctx context.Context, f repository.BetFilter) ([]*repository.SummaryRow, error) {
	return s.betRepo.Summary(ctx, f)
}

// GridBets 号码矩阵视图的原始数据
// 返回匹配的 (bet_type, number, amount) 记录，按格子累加由调用方完成
func (s *ReportService) GridBets(ctx context.Context, f repository.BetFilter) ([]*repository.GridRow, error) {
	return s.betRepo.Grid(ctx, f)
}
