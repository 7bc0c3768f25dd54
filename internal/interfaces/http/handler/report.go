package handler

import (
	"github.com/gin-gonic/gin"
	reportapp "github.com/stockflow/backend/internal/application/report"
)

// ReportHandler serves weekly consumption, the shopping list and dashboard stats
type ReportHandler struct {
	BaseHandler
	weeklyService    *reportapp.WeeklyReportService
	shoppingService  *reportapp.ShoppingListService
	dashboardService *reportapp.DashboardService
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(
	weeklyService *reportapp.WeeklyReportService,
	shoppingService *reportapp.ShoppingListService,
	dashboardService *reportapp.DashboardService,
) *ReportHandler {
	return &ReportHandler{
		weeklyService:    weeklyService,
		shoppingService:  shoppingService,
		dashboardService: dashboardService,
	}
}

// ShoppingListQuery holds shopping list filters
type ShoppingListQuery struct {
	Search string `form:"search" binding:"max=100"`
}

// CurrentWeek computes consumption of the open period without storing it.
// GET /reports/weekly/current
func (h *ReportHandler) CurrentWeek(c *gin.Context) {
	resp, err := h.weeklyService.Current(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// CloseWeek stores the open period's consumption and starts the next period.
// POST /reports/weekly/close
func (h *ReportHandler) CloseWeek(c *gin.Context) {
	resp, err := h.weeklyService.Close(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// ListWeeks returns closed reports newest first.
// GET /reports/weekly
func (h *ReportHandler) ListWeeks(c *gin.Context) {
	reports, err := h.weeklyService.List(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, reports)
}

// GetWeek returns one closed report with its lines.
// GET /reports/weekly/:id
func (h *ReportHandler) GetWeek(c *gin.Context) {
	id, ok := h.pathUUID(c, "id", "report")
	if !ok {
		return
	}

	resp, err := h.weeklyService.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// ShoppingList returns products at or below minimum stock, grouped by store
// and category.
// GET /reports/shopping-list?store_id=&search=
func (h *ReportHandler) ShoppingList(c *gin.Context) {
	var q ShoppingListQuery
	if !h.bindQuery(c, &q) {
		return
	}
	storeID, ok := h.queryUUID(c, "store_id")
	if !ok {
		return
	}

	list, err := h.shoppingService.Build(c.Request.Context(), reportapp.ShoppingListFilter{
		Search:  q.Search,
		StoreID: storeID,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, list)
}

// Dashboard returns the overview counters.
// GET /reports/dashboard
func (h *ReportHandler) Dashboard(c *gin.Context) {
	stats, err := h.dashboardService.Stats(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, stats)
}
