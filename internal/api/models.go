package api

import (
	"net/http"

	"github.com/comfy-catalog/catalog-server/internal/catalog"

	"github.com/gin-gonic/gin"
)

func modelFilterFromQuery(c *gin.Context) catalog.ModelFilter {
	return catalog.ModelFilter{
		Tipo:             c.Query("tipo"),
		BaseModel:        c.Query("base_model"),
		EstiloUtilizacao: c.Query("estilo"),
		FreeText:         c.Query("q"),
	}
}

func ListModels(c *gin.Context) {
	app := getApp(c)

	snapshot, err := currentSnapshot(c, app)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"message": err.Error()})
		return
	}

	filtered := catalog.FilterModels(snapshot.Models, modelFilterFromQuery(c))

	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"data":   filtered,
		"total":  len(snapshot.Models),
	})
}
