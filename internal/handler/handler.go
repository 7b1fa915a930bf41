package handler

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"gamebets/internal/config"
	"gamebets/internal/infrastructure/lock"
	"gamebets/internal/repository"
	"gamebets/internal/service"
	"gamebets/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

// Handler 统一处理器，包含所有服务依赖
type Handler struct {
	gameService     *service.GameService
	customerService *service.CustomerService
	betService      *service.BetService
	reportService   *service.ReportService
	purgeService    *service.PurgeService
}

// NewHandler 创建处理器实例
func NewHandler(db *gorm.DB, rdb *redis.Client, cfg *config.Config) *Handler {
	return &Handler{
		gameService:     service.NewGameService(db, rdb, cfg),
		customerService: service.NewCustomerService(db, rdb, cfg),
		betService:      service.NewBetService(db, rdb, cfg),
		reportService:   service.NewReportService(db),
		purgeService:    service.NewPurgeService(db, rdb, cfg),
	}
}

// parseFilterID 解析 customerId/gameId 过滤参数
// 空串和哨兵值 "all" 都表示不限制，返回 nil；其余必须是整数
func parseFilterID(v string) (*int64, bool) {
	if v == "" || v == "all" {
		return nil, true
	}
	id, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return nil, false
	}
	return &id, true
}

// parseFilterDate 解析 date 过滤参数，格式 YYYY-MM-DD
func parseFilterDate(v string) (*string, bool) {
	if v == "" || v == "all" {
		return nil, true
	}
	if _, err := time.Parse("2006-01-02", v); err != nil {
		return nil, false
	}
	return &v, true
}

// parseBetFilter 从查询参数构造过滤条件
// 哨兵值 "all" 在这里统一转换成 nil，不会再往下传
func parseBetFilter(c *gin.Context) (repository.BetFilter, bool) {
	var f repository.BetFilter

	customerID, ok := parseFilterID(c.Query("customerId"))
	if !ok {
		response.ParamError(c, "customerId 参数错误")
		return f, false
	}
	gameID, ok := parseFilterID(c.Query("gameId"))
	if !ok {
		response.ParamError(c, "gameId 参数错误")
		return f, false
	}
	date, ok := parseFilterDate(c.Query("date"))
	if !ok {
		response.ParamError(c, "date 参数错误，应为 YYYY-MM-DD")
		return f, false
	}

	f.CustomerID = customerID
	f.GameID = gameID
	f.Date = date
	return f, true
}

// ============================================================
// 游戏相关接口
// ============================================================

// ListGames 查询全部游戏（按名称升序）
// GET /api/v1/games
func (h *Handler) ListGames(c *gin.Context) {
	games, err := h.gameService.ListGames(c.Request.Context())
	if err != nil {
		response.ServerError(c, err.Error())
		return
	}
	response.Success(c, games)
}

// AddGameRequest 新增游戏请求
type AddGameRequest struct {
	Name string `json:"name" binding:"required"`
}

// AddGame 新增游戏
// POST /api/v1/games
func (h *Handler) AddGame(c *gin.Context) {
	var req AddGameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, "参数错误: "+err.Error())
		return
	}

	game, err := h.gameService.AddGame(c.Request.Context(), req.Name)
	if err != nil {
		if service.IsInvalidInput(err) {
			response.ParamError(c, err.Error())
			return
		}
		if errors.Is(err, repository.ErrDuplicateName) {
			response.BusinessError(c, response.CodeDuplicateName,
				fmt.Sprintf("游戏 %s 已存在", req.Name))
			return
		}
		response.ServerError(c, err.Error())
		return
	}

	response.Success(c, game)
}

// DeleteGame 删除游戏（级联删除其全部投注）
// DELETE /api/v1/games/:id
func (h *Handler) DeleteGame(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "id 参数错误")
		return
	}

	deleted, err := h.gameService.DeleteGame(c.Request.Context(), id)
	if err != nil {
		response.ServerError(c, err.Error())
		return
	}

	response.Success(c, gin.H{"deleted": deleted})
}

// ============================================================
// 客户相关接口
// ============================================================

// ListCustomers 查询全部客户（按名称升序）
// GET /api/v1/customers
func (h *Handler) ListCustomers(c *gin.Context) {
	customers, err := h.customerService.ListCustomers(c.Request.Context())
	if err != nil {
		response.ServerError(c, err.Error())
		return
	}
	response.Success(c, customers)
}

// AddCustomerRequest 新增客户请求
type AddCustomerRequest struct {
	Name string `json:"name" binding:"required"`
}

// AddCustomer 新增客户
// POST /api/v1/customers
func (h *Handler) AddCustomer(c *gin.Context) {
	var req AddCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, "参数错误: "+err.Error())
		return
	}

	customer, err := h.customerService.AddCustomer(c.Request.Context(), req.Name)
	if err != nil {
		if service.IsInvalidInput(err) {
			response.ParamError(c, err.Error())
			return
		}
		if errors.Is(err, repository.ErrDuplicateName) {
			response.BusinessError(c, response.CodeDuplicateName,
				fmt.Sprintf("客户 %s 已存在", req.Name))
			return
		}
		response.ServerError(c, err.Error())
		return
	}

	response.Success(c, customer)
}

// DeleteCustomer 删除客户（级联删除其全部投注）
// DELETE /api/v1/customers/:id
func (h *Handler) DeleteCustomer(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "id 参数错误")
		return
	}

	deleted, err := h.customerService.DeleteCustomer(c.Request.Context(), id)
	if err != nil {
		response.ServerError(c, err.Error())
		return
	}

	response.Success(c, gin.H{"deleted": deleted})
}

// ============================================================
// 投注相关接口
// ============================================================

// AddBetRequest 新增投注请求
type AddBetRequest struct {
	CustomerID int64   `json:"customerId" binding:"required"`
	GameID     int64   `json:"gameId" binding:"required"`
	BetType    string  `json:"betType" binding:"required"` // SD 或 DD
	Number     string  `json:"number" binding:"required"`
	Amount     float64 `json:"amount" binding:"required"`
	BetDate    string  `json:"betDate"` // 可空，缺省取服务端当天
}

// AddBet 记录一笔投注
// POST /api/v1/bets
func (h *Handler) AddBet(c *gin.Context) {
	var req AddBetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, "参数错误: "+err.Error())
		return
	}

	bet, err := h.betService.AddBet(c.Request.Context(), &service.AddBetRequest{
		CustomerID: req.CustomerID,
		GameID:     req.GameID,
		BetType:    req.BetType,
		Number:     req.Number,
		Amount:     req.Amount,
		BetDate:    req.BetDate,
	})
	if err != nil {
		if service.IsInvalidInput(err) {
			response.ParamError(c, err.Error())
			return
		}
		if errors.Is(err, repository.ErrForeignKey) {
			response.BusinessError(c, response.CodeForeignKey, "客户或游戏不存在")
			return
		}
		response.ServerError(c, err.Error())
		return
	}

	response.Success(c, bet)
}

// GetBet 查询单笔投注
// GET /api/v1/bets/:id
func (h *Handler) GetBet(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "id 参数错误")
		return
	}

	bet, err := h.betService.GetBet(c.Request.Context(), id)
	if err != nil {
		response.ServerError(c, err.Error())
		return
	}
	if bet == nil {
		response.Error(c, response.CodeNotFound, "投注不存在")
		return
	}

	response.Success(c, bet)
}

// ListBets 按过滤条件查询投注列表
// GET /api/v1/bets?customerId=1&gameId=all&date=2024-03-01
func (h *Handler) ListBets(c *gin.Context) {
	f, ok := parseBetFilter(c)
	if !ok {
		return
	}

	bets, err := h.betService.ListBets(c.Request.Context(), f)
	if err != nil {
		response.ServerError(c, err.Error())
		return
	}
	if bets == nil {
		bets = []*repository.BetWithNames{}
	}

	response.Success(c, bets)
}

// DeleteBets 批量删除投注
// DELETE /api/v1/bets?customerId=all&gameId=all&date=2024-03-01
//
// 【关键点】gameId 和 customerId 必须显式出现（取值可以是 "all"），
// 防止误触全量清空；date 参数完全缺席且两个 ID 均为 "all" 时才走
// 全量清空（投注、游戏、客户一并清掉），其余组合只删匹配的投注
func (h *Handler) DeleteBets(c *gin.Context) {
	gameIDStr, hasGame := c.GetQuery("gameId")
	customerIDStr, hasCustomer := c.GetQuery("customerId")
	if !hasGame || !hasCustomer || gameIDStr == "" || customerIDStr == "" {
		response.ParamError(c, "删除操作必须同时提供 gameId 和 customerId 参数")
		return
	}

	customerID, ok := parseFilterID(customerIDStr)
	if !ok {
		response.ParamError(c, "customerId 参数错误")
		return
	}
	gameID, ok := parseFilterID(gameIDStr)
	if !ok {
		response.ParamError(c, "gameId 参数错误")
		return
	}

	dateStr, hasDate := c.GetQuery("date")
	date, ok := parseFilterDate(dateStr)
	if !ok {
		response.ParamError(c, "date 参数错误，应为 YYYY-MM-DD")
		return
	}

	deleted, err := h.purgeService.DeleteBets(c.Request.Context(), service.PurgeRequest{
		Filter: repository.BetFilter{
			CustomerID: customerID,
			GameID:     gameID,
			Date:       date,
		},
		DateSupplied: hasDate && dateStr != "",
	})
	if err != nil {
		if errors.Is(err, lock.ErrLockFailed) {
			response.BusinessError(c, response.CodeResetBusy, "已有清空操作在执行，请稍后重试")
			return
		}
		response.ServerError(c, err.Error())
		return
	}

	response.Success(c, gin.H{"deleted": deleted})
}

// ============================================================
// 汇总与矩阵接口
// ============================================================

// CustomerSummary 客户汇总
// GET /api/v1/summary?gameId=all&customerId=all&date=2024-03-01
//
// 总计金额在这里对全部分组求和，与前端分页无关
func (h *Handler) CustomerSummary(c *gin.Context) {
	f, ok := parseBetFilter(c)
	if !ok {
		return
	}

	rows, err := h.reportService.CustomerSummary(c.Request.Context(), f)
	if err != nil {
		response.ServerError(c, err.Error())
		return
	}
	if rows == nil {
		rows = []*repository.SummaryRow{}
	}

	var total float64
	for _, row := range rows {
		total += row.TotalAmount
	}

	response.Success(c, gin.H{
		"list":         rows,
		"total_amount": total,
	})
}

// GridBets 号码矩阵原始数据
// GET /api/v1/grid?gameId=1&customerId=all&date=2024-03-01
func (h *Handler) GridBets(c *gin.Context) {
	f, ok := parseBetFilter(c)
	if !ok {
		return
	}

	rows, err := h.reportService.GridBets(c.Request.Context(), f)
	if err != nil {
		response.ServerError(c, err.Error())
		return
	}
	if rows == nil {
		rows = []*repository.GridRow{}
	}

	response.Success(c, rows)
}
