package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"registration/internal/metrics"
)

// Upload stores a single multipart file and returns its public URL, built
// from the request's own scheme and host.
func (h *Handler) Upload(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		fail(c, http.StatusBadRequest, kindInvalid, "file field required", nil)
		return
	}
	defer file.Close()

	name, err := h.uploads.Save(file, header.Filename)
	if err != nil {
		writeError(c, err)
		return
	}

	metrics.UploadsTotal.Inc()
	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"filename": name,
		"url":      h.uploads.PublicURL(requestScheme(c), c.Request.Host, name),
	})
}
