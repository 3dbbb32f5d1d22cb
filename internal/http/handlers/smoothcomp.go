package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/wrestlepro/wrestlepro/internal/smoothcomp"
)

type CompetitionAPI interface {
	ListEvents(ctx context.Context, query string) (json.RawMessage, error)
	GetEvent(ctx context.Context, eventID string) (json.RawMessage, error)
}

type SmoothcompHandler struct {
	client CompetitionAPI
}

func NewSmoothcompHandler(client CompetitionAPI) *SmoothcompHandler {
	return &SmoothcompHandler{client: client}
}

const missingKeyNote = "Add SMOOTHCOMP_API_KEY to enable live sync."

func (h *SmoothcompHandler) ListEvents(ctx *gin.Context) {
	data, err := h.client.ListEvents(ctx.Request.Context(), ctx.Query("q"))

	if err != nil {
		// without an API key the upstream rejects us; degrade instead
		// of failing the whole page
		var upstream *smoothcomp.UpstreamError

		if errors.As(err, &upstream) {
			if upstream.Status == http.StatusUnauthorized || upstream.Status == http.StatusForbidden {
				ctx.JSON(http.StatusOK, gin.H{
					"events": []any{},
					"note":   missingKeyNote,
				})
				return
			}

			RespondError(ctx, upstream.Status, "upstream_error", "Competition API request failed", nil)
			return
		}

		RespondError(ctx, http.StatusBadGateway, "upstream_unreachable", "Competition API unreachable", nil)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"events": data})
}

func (h *SmoothcompHandler) GetEvent(ctx *gin.Context) {
	data, err := h.client.GetEvent(ctx.Request.Context(), ctx.Param("id"))

	if err != nil {
		var upstream *smoothcomp.UpstreamError

		if errors.As(err, &upstream) {
			if upstream.Status == http.StatusUnauthorized || upstream.Status == http.StatusForbidden {
				ctx.JSON(http.StatusOK, gin.H{
					"event": nil,
					"note":  missingKeyNote,
				})
				return
			}

			RespondError(ctx, upstream.Status, "upstream_error", "Competition API request failed", nil)
			return
		}

		RespondError(ctx, http.StatusBadGateway, "upstream_unreachable", "Competition API unreachable", nil)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"event": data})
}
