package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RefreshCatalog forces a wholesale re-fetch of the spreadsheet, the
// HTTP equivalent of the catalog's reload button.
func RefreshCatalog(c *gin.Context) {
	a := getApp(c)

	s := a.Store()
	if s == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"message": "catalog store is not configured"})
		return
	}

	snapshot, err := s.Refresh(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"message": err.Error()})
		return
	}

	if a.CatalogRepository != nil {
		if err := a.CatalogRepository.ReplaceAll(c.Request.Context(), snapshot); err != nil {
			a.Logger.Error("failed to mirror snapshot", zap.Error(err))
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"data": gin.H{
			"digest":     snapshot.Digest,
			"models":     len(snapshot.Models),
			"workflows":  len(snapshot.Workflows),
			"fetched_at": snapshot.FetchedAt,
		},
	})
}
