package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	appreport "github.com/irenerossetti/condominio-backend/internal/application/report"
	"github.com/irenerossetti/condominio-backend/internal/domain/identity"
	"github.com/irenerossetti/condominio-backend/internal/infrastructure/export"
	"go.uber.org/zap"
)

// FinanceReporter builds and exports the finance report
type FinanceReporter interface {
	GetFinanceReport(ctx context.Context, caller identity.Caller, query appreport.FinanceReportQuery) (*appreport.FinanceReportResponse, error)
	Export(ctx context.Context, caller identity.Caller, query appreport.FinanceReportQuery, format string) (*export.File, error)
}

// FinanceReportParams are the query parameters of the finance report
type FinanceReportParams struct {
	From   string `form:"from" binding:"omitempty,period"`
	To     string `form:"to" binding:"omitempty,period"`
	Owner  string `form:"owner" binding:"omitempty,uuid"`
	Format string `form:"format"`
}

func (p FinanceReportParams) toQuery() appreport.FinanceReportQuery {
	return appreport.FinanceReportQuery{
		From:    p.From,
		To:      p.To,
		OwnerID: parseOptionalUUID(&p.Owner),
	}
}

// ReportHandler serves the finance report endpoints
type ReportHandler struct {
	BaseHandler
	reports FinanceReporter
}

// NewReportHandler creates a ReportHandler
func NewReportHandler(reports FinanceReporter, logger *zap.Logger) *ReportHandler {
	return &ReportHandler{
		BaseHandler: NewBaseHandler(logger),
		reports:     reports,
	}
}

// Finance handles GET /reports/finance
func (h *ReportHandler) Finance(c *gin.Context) {
	caller, ok := h.requireCaller(c)
	if !ok {
		return
	}
	var params FinanceReportParams
	if !h.bindQuery(c, &params) {
		return
	}

	rep, err := h.reports.GetFinanceReport(c.Request.Context(), caller, params.toQuery())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, rep)
}

// Export handles GET /reports/finance/export and streams the file
func (h *ReportHandler) Export(c *gin.Context) {
	caller, ok := h.requireCaller(c)
	if !ok {
		return
	}
	var params FinanceReportParams
	if !h.bindQuery(c, &params) {
		return
	}

	file, err := h.reports.Export(c.Request.Context(), caller, params.toQuery(), params.Format)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Name))
	c.Data(http.StatusOK, file.ContentType, file.Data)
}
