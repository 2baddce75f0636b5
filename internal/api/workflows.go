package api

import (
	"net/http"

	"github.com/comfy-catalog/catalog-server/internal/catalog"

	"github.com/gin-gonic/gin"
)

func workflowFilterFromQuery(c *gin.Context) catalog.WorkflowFilter {
	return catalog.WorkflowFilter{
		Objetivo: c.Query("objetivo"),
		Versao:   c.Query("versao"),
		FreeText: c.Query("q"),
	}
}

func ListWorkflows(c *gin.Context) {
	app := getApp(c)

	snapshot, err := currentSnapshot(c, app)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"message": err.Error()})
		return
	}

	filtered := catalog.FilterWorkflows(snapshot.Workflows, workflowFilterFromQuery(c))

	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"data":   filtered,
		"total":  len(snapshot.Workflows),
	})
}
