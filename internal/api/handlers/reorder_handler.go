package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/dmbrands/reorder/backend-go/internal/reorder"
	"github.com/dmbrands/reorder/backend-go/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

type ReorderHandler struct {
	service *service.ReorderService
}

func NewReorderHandler(service *service.ReorderService) *ReorderHandler {
	return &ReorderHandler{service: service}
}

// parseOptions reads the shared query parameters. Brands accepts both
// repeated params and a comma-separated list:
//
//	?brands=elvang&brands=ppd
//	?brands=elvang,ppd
func (h *ReorderHandler) parseOptions(c *gin.Context) reorder.Options {
	var opts reorder.Options

	raw := c.QueryArray("brands")
	if len(raw) == 0 {
		if single := strings.TrimSpace(c.Query("brand")); single != "" {
			raw = []string{single}
		}
	}
	for _, value := range raw {
		for _, part := range strings.Split(value, ",") {
			part = strings.TrimSpace(part)
			if part != "" {
				opts.Brands = append(opts.Brands, part)
			}
		}
	}

	if quick, err := strconv.ParseBool(c.DefaultQuery("quick", "false")); err == nil {
		opts.Quick = quick
	}

	return opts
}

// GetAnalysis returns the supplier-grouped analysis.
func (h *ReorderHandler) GetAnalysis(c *gin.Context) {
	opts := h.parseOptions(c)

	orders, err := h.service.Analyze(c.Request.Context(), opts)
	if err != nil {
		log.Error().Err(err).Msg("reorder analysis failed")
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"suppliers": orders})
}

// GetReport returns the formatted report document.
func (h *ReorderHandler) GetReport(c *gin.Context) {
	opts := h.parseOptions(c)

	report, err := h.service.Report(c.Request.Context(), opts)
	if err != nil {
		log.Error().Err(err).Msg("reorder report failed")
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, report)
}

// InvalidateCache drops the cached upstream snapshots.
func (h *ReorderHandler) InvalidateCache(c *gin.Context) {
	if err := h.service.InvalidateCache(c.Request.Context()); err != nil {
		log.Error().Err(err).Msg("cache invalidation failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}
