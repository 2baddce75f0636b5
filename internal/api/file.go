package api

import (
	"net/http"

	"github.com/comfy-catalog/catalog-server/internal/config"

	"github.com/gin-gonic/gin"
)

func GetFile(c *gin.Context) {
	filename := c.Param("filename")
	a := getApp(c)

	if a.ExportStore == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"message": "export store is not configured"})
		return
	}

	if a.Config().FilesystemType != config.FilesystemLocal {
		c.JSON(http.StatusNotFound, gin.H{"message": "stored exports are served from S3 directly"})
		return
	}

	path, err := a.ExportStore.Resolve(filename)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "file not found"})
		return
	}

	c.File(path)
}
