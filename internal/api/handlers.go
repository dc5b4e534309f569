package api

import (
	"net/http"

	"websummarizer/internal/presenter"

	"github.com/gin-gonic/gin"
)

type summaryRequest struct {
	URL string `json:"url"`
}

type summaryResponse struct {
	Summary string `json:"summary"`
	OK      bool   `json:"ok"`
	Title   string `json:"title,omitempty"`
	Cached  bool   `json:"cached,omitempty"`
	Warning string `json:"warning,omitempty"`
	Kind    string `json:"kind,omitempty"`
}

type credentialRequest struct {
	Key string `json:"key"`
}

func healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// summariesHandler always answers 200 with a displayable summary; failures
// are reported through ok, warning and kind.
func summariesHandler(s Summarizer) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req summaryRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"message": "Invalid request body"}})
			return
		}

		res, err := s.Summarize(c.Request.Context(), req.URL)
		if err != nil {
			c.JSON(http.StatusOK, summaryResponse{
				Summary: res.Payload,
				Warning: presenter.Warning(req.URL),
				Kind:    presenter.KindOf(err).String(),
			})
			return
		}

		c.JSON(http.StatusOK, summaryResponse{
			Summary: res.Payload,
			OK:      true,
			Title:   res.Title,
			Cached:  res.Cached,
		})
	}
}

func validateCredentialHandler(s Summarizer) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req credentialRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"message": "Invalid request body"}})
			return
		}

		c.JSON(http.StatusOK, gin.H{"valid": s.ValidateCredential(c.Request.Context(), req.Key)})
	}
}
