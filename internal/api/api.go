package api

import (
	"fmt"
	"strings"

	"github.com/comfy-catalog/catalog-server/internal/app"
	"github.com/comfy-catalog/catalog-server/internal/store"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func getApp(c *gin.Context) *app.App {
	return c.MustGet("app").(*app.App)
}

// currentSnapshot returns the snapshot requests should filter against,
// refreshing first when the TTL has lapsed. A failed refresh falls back
// to the last good snapshot instead of erroring the request.
func currentSnapshot(c *gin.Context, a *app.App) (*store.Snapshot, error) {
	s := a.Store()
	if s == nil {
		return nil, fmt.Errorf("catalog store is not configured")
	}

	if s.NeedsRefresh() {
		if _, err := s.Refresh(c.Request.Context()); err != nil {
			a.Logger.Warn("snapshot refresh failed, serving stale data", zap.Error(err))
		}
	}

	snapshot := s.Current()
	if snapshot == nil {
		return nil, fmt.Errorf("catalog is unavailable: no snapshot fetched yet")
	}

	return snapshot, nil
}

// fieldsParam splits the optional ?fields=a,b,c column selection. An
// empty parameter means the full schema.
func fieldsParam(c *gin.Context) []string {
	raw := c.Query("fields")
	if raw == "" {
		return nil
	}

	fields := strings.Split(raw, ",")
	for i, f := range fields {
		fields[i] = strings.TrimSpace(f)
	}

	return fields
}
