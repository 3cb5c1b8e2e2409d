package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/ArowuTest/luckydraw-backend/internal/models"
	"github.com/ArowuTest/luckydraw-backend/internal/services"
	"github.com/ArowuTest/luckydraw-backend/internal/utils"
	"github.com/gin-gonic/gin"
)

// DrawHandler handles award and round HTTP requests
type DrawHandler struct {
	drawService services.DrawService
}

// NewDrawHandler creates a new DrawHandler
func NewDrawHandler(drawService services.DrawService) *DrawHandler {
	return &DrawHandler{
		drawService: drawService,
	}
}

// ListAwards handles GET /awards
func (h *DrawHandler) ListAwards(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"awards": h.drawService.ListAwards(c.Request.Context())})
}

// GetAward handles GET /awards/:id
func (h *DrawHandler) GetAward(c *gin.Context) {
	progress, err := h.drawService.GetAward(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, progress)
}

// CreateAward handles POST /awards
func (h *DrawHandler) CreateAward(c *gin.Context) {
	var request models.CreateAwardRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	award, err := h.drawService.RegisterAward(c.Request.Context(), request)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, award)
}

// CreateAdHocAward handles POST /awards/adhoc
func (h *DrawHandler) CreateAdHocAward(c *gin.Context) {
	var request models.CreateAdHocAwardRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	award, err := h.drawService.CreateAdHocAward(c.Request.Context(), request)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, award)
}

// BeginRound handles POST /awards/:id/rounds/begin
func (h *DrawHandler) BeginRound(c *gin.Context) {
	ticket, err := h.drawService.BeginRound(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ticket)
}

// CommitRound handles POST /awards/:id/rounds/commit
func (h *DrawHandler) CommitRound(c *gin.Context) {
	result, err := h.drawService.CommitRound(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// AbortRound handles POST /awards/:id/rounds/abort
func (h *DrawHandler) AbortRound(c *gin.Context) {
	if err := h.drawService.AbortRound(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Round aborted"})
}

// DrawRound handles POST /awards/:id/draw
func (h *DrawHandler) DrawRound(c *gin.Context) {
	result, err := h.drawService.DrawRound(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// GetWinners handles GET /awards/:id/winners
func (h *DrawHandler) GetWinners(c *gin.Context) {
	winners, err := h.drawService.GetWinners(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"winners": winners, "count": len(winners)})
}

// GetResults handles GET /results
func (h *DrawHandler) GetResults(c *gin.Context) {
	results := h.drawService.GetResults(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"results": results, "count": len(results)})
}

// ExportResults handles GET /results/export?format=xlsx|csv
func (h *DrawHandler) ExportResults(c *gin.Context) {
	format, err := utils.ParseFormat(c.DefaultQuery("format", string(utils.FormatXLSX)))
	if err != nil {
		respondError(c, err)
		return
	}

	var buf bytes.Buffer
	if _, err := h.drawService.ExportResults(c.Request.Context(), &buf, format); err != nil {
		respondError(c, err)
		return
	}
	filename := fmt.Sprintf("results_%s.%s", time.Now().Format("20060102"), format.Extension())
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, format.ContentType(), buf.Bytes())
}

// ResetDraw handles POST /draw/reset
func (h *DrawHandler) ResetDraw(c *gin.Context) {
	batch := h.drawService.ResetAllDrawState(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"message": "Draw state reset", "batchId": batch})
}

// GetArchivedWinners handles GET /archive/winners?batch=&page=&limit=
func (h *DrawHandler) GetArchivedWinners(c *gin.Context) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid page"})
		return
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "100"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit"})
		return
	}
	winners, err := h.drawService.GetArchivedWinners(c.Request.Context(), c.Query("batch"), page, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"winners": winners, "page": page, "limit": limit})
}
