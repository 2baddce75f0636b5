package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/comfy-catalog/catalog-server/internal/app"
	"github.com/comfy-catalog/catalog-server/internal/catalog"

	"github.com/gin-gonic/gin"
)

func ExportModels(c *gin.Context) {
	a := getApp(c)

	snapshot, err := currentSnapshot(c, a)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"message": err.Error()})
		return
	}

	filtered := catalog.FilterModels(snapshot.Models, modelFilterFromQuery(c))
	out, err := catalog.ExportModelsCSV(filtered, fieldsParam(c))
	if err != nil {
		writeExportError(c, err)
		return
	}

	deliverCSV(c, a, "modelos_loras_filtrados.csv", out)
}

func ExportWorkflows(c *gin.Context) {
	a := getApp(c)

	snapshot, err := currentSnapshot(c, a)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"message": err.Error()})
		return
	}

	filtered := catalog.FilterWorkflows(snapshot.Workflows, workflowFilterFromQuery(c))
	out, err := catalog.ExportWorkflowsCSV(filtered, fieldsParam(c))
	if err != nil {
		writeExportError(c, err)
		return
	}

	deliverCSV(c, a, "workflows_filtrados.csv", out)
}

func writeExportError(c *gin.Context, err error) {
	if errors.Is(err, catalog.ErrUnknownField) {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
}

// deliverCSV either streams the CSV as a download or, with ?store=true,
// persists it through the export store and returns its URL.
func deliverCSV(c *gin.Context, a *app.App, filename string, out []byte) {
	if c.Query("store") != "true" {
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
		c.Data(http.StatusOK, "text/csv; charset=utf-8", out)
		return
	}

	if a.Saver() == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"message": "export store is not configured"})
		return
	}

	response := make(chan string, 1)
	errc := make(chan error, 1)
	a.Saver().SaveBytes(out, response, errc)

	select {
	case url := <-response:
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
			"data":   map[string]string{"url": url},
		})
	case err := <-errc:
		c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
	}
}
