package endpoint

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/chunkscribe/chunk"
	"github.com/kbukum/chunkscribe/version"
)

var startTime = time.Now()

// Info reports build information and the size limits the service applies.
func Info(serviceName string, maxBodyBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		v := version.GetVersionInfo()
		c.JSON(http.StatusOK, gin.H{
			"service":    serviceName,
			"version":    v.Version,
			"git_commit": v.GitCommit,
			"build_time": v.BuildTime,
			"go_version": v.GoVersion,
			"uptime":     time.Since(startTime).Round(time.Second).String(),
			"limits": gin.H{
				"max_body_bytes":          maxBodyBytes,
				"direct_max_bytes":        chunk.MaxFileSize,
				"target_chunk_size_bytes": int64(chunk.TargetChunkSizeMB * 1024 * 1024),
			},
		})
	}
}
