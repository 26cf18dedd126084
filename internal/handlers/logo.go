package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mhalong/qrstudio/internal/logoprobe"
)

// LogoCheck drives a logo resolver to a terminal state for the submitted
// URL and reports the outcome. Probe failures are statuses, not HTTP
// errors: the caller decides whether to keep the reference.
func (h *Handler) LogoCheck(c *gin.Context) {
	var req struct {
		URL string `json:"url"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "body must be JSON with a url field"})
		return
	}

	resolver := logoprobe.NewResolver(h.probes, h.cfg.LogoProbeTimeout, h.log)
	resolver.Set(c.Request.Context(), req.URL)
	st := resolver.Await(c.Request.Context())

	c.JSON(http.StatusOK, gin.H{
		"status": st.State.String(),
		"error":  st.Err,
	})
}
