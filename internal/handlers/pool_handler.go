package handlers

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/ArowuTest/luckydraw-backend/internal/models"
	"github.com/ArowuTest/luckydraw-backend/internal/services"
	"github.com/ArowuTest/luckydraw-backend/internal/utils"
	"github.com/gin-gonic/gin"
)

// MaxPoolUploadSize caps pool file uploads
const MaxPoolUploadSize = 10 << 20

// PoolHandler handles number pool HTTP requests
type PoolHandler struct {
	poolService services.PoolService
}

// NewPoolHandler creates a new PoolHandler
func NewPoolHandler(poolService services.PoolService) *PoolHandler {
	return &PoolHandler{poolService: poolService}
}

// GetPool handles GET /pool
func (h *PoolHandler) GetPool(c *gin.Context) {
	ctx := c.Request.Context()
	resp := gin.H{"status": h.poolService.Status(ctx)}
	if c.Query("include") == "available" {
		resp["available"] = h.poolService.Available(ctx)
	}
	c.JSON(http.StatusOK, resp)
}

// LoadIdentifiers handles POST /pool with a JSON list of identifiers
func (h *PoolHandler) LoadIdentifiers(c *gin.Context) {
	var request models.LoadPoolRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	status, err := h.poolService.LoadIdentifiers(c.Request.Context(), request.Identifiers)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, status)
}

// ImportPool handles POST /pool/import with a multipart "file" field
func (h *PoolHandler) ImportPool(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, MaxPoolUploadSize)
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "A pool file is required in the \"file\" field"})
		return
	}
	format, err := utils.FormatFromFilename(fileHeader.Filename)
	if err != nil {
		respondError(c, err)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to open uploaded file"})
		return
	}
	defer file.Close()

	status, err := h.poolService.ImportPool(c.Request.Context(), file, format)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, status)
}

// DownloadTemplate handles GET /pool/template?format=xlsx|csv
func (h *PoolHandler) DownloadTemplate(c *gin.Context) {
	format, err := utils.ParseFormat(c.DefaultQuery("format", string(utils.FormatXLSX)))
	if err != nil {
		respondError(c, err)
		return
	}
	var buf bytes.Buffer
	if err := h.poolService.WriteTemplate(c.Request.Context(), &buf, format); err != nil {
		respondError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "pool_template."+format.Extension()))
	c.Data(http.StatusOK, format.ContentType(), buf.Bytes())
}
