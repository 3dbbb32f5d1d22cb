package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/wrestlepro/wrestlepro/internal/chat"
	"github.com/wrestlepro/wrestlepro/internal/config"
)

type TranscriptWriter interface {
	Insert(ctx context.Context, t chat.Transcript) error
}

type ChatHandler struct {
	transcripts TranscriptWriter
	log         *slog.Logger
}

func NewChatHandler(transcripts TranscriptWriter, log *slog.Logger) *ChatHandler {
	return &ChatHandler{transcripts: transcripts, log: log}
}

type ChatRequest struct {
	Message string `json:"message" binding:"required,max=2000"`
}

func (h *ChatHandler) Chat(ctx *gin.Context) {
	var req ChatRequest

	if !BindJSON(ctx, &req) {
		return
	}

	answer := chat.Respond(req.Message)

	// transcript persistence is best effort; the answer goes out either way
	if h.transcripts != nil {
		cctx, cancel := config.WithTimeout(2 * time.Second)
		defer cancel()

		if err := h.transcripts.Insert(cctx, chat.NewTranscript(req.Message, answer)); err != nil {
			h.log.Warn("chat transcript insert failed", "err", err)
		}
	}

	ctx.JSON(http.StatusOK, gin.H{"response": answer})
}
