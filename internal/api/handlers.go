package api

import (
	"context"
	"net/http"

	"github.com/docfront/docfront/internal/backend"
	"github.com/docfront/docfront/internal/chat"
	"github.com/docfront/docfront/internal/config"
	"github.com/docfront/docfront/internal/domain"
	"github.com/docfront/docfront/internal/registry"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Handler serves the JSON API consumed by the embedded page.
type Handler struct {
	client  *backend.Client
	view    *registry.View
	session *chat.Session
	cfg     *config.Config
	logger  *zap.Logger
}

// NewHandler creates the API handler.
func NewHandler(
	client *backend.Client,
	view *registry.View,
	session *chat.Session,
	cfg *config.Config,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		client:  client,
		view:    view,
		session: session,
		cfg:     cfg,
		logger:  logger,
	}
}

// RegisterRoutes registers the API routes
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/config", h.GetConfig)
	r.GET("/refresh", h.GetRefresh)
	r.POST("/upload", h.UploadDocument)
	r.POST("/delete", h.DeleteDocuments)
	r.POST("/chat", h.Chat)
}

// RefreshState is the reconciliation payload recomputed from backend truth
// after every mutation: the raw info panel, the delete choices, and the debug
// file listing, derived in that order.
type RefreshState struct {
	Info    map[string]any      `json:"info"`
	Choices []string            `json:"choices"`
	Files   []domain.FileRecord `json:"files"`
}

// Reconcile re-fetches everything the page displays. Mutating handlers call
// this exactly once, after their primary action has finished.
func (h *Handler) Reconcile(ctx context.Context) RefreshState {
	return RefreshState{
		Info:    h.client.InfoValue(ctx),
		Choices: h.view.Filenames(ctx),
		Files:   h.view.Files(ctx),
	}
}

// GetConfig returns the UI bootstrap settings.
func (h *Handler) GetConfig(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"extensions": h.cfg.Upload.Extensions,
		"backend":    h.cfg.Backend.BaseURL,
	})
}

// GetRefresh returns a fresh reconciliation payload.
func (h *Handler) GetRefresh(c *gin.Context) {
	c.JSON(http.StatusOK, h.Reconcile(c.Request.Context()))
}

// UploadDocument forwards one multipart document to the backend and returns
// the upload result together with the refreshed state.
func (h *Handler) UploadDocument(c *gin.Context) {
	ctx := c.Request.Context()

	var result domain.Result
	file, err := c.FormFile("file")
	if err != nil {
		// No file in the form: the client produces the structured
		// "No file selected" result without touching the network.
		result = h.client.Upload(ctx, "", nil)
	} else {
		src, openErr := file.Open()
		if openErr != nil {
			result = domain.ErrorResult("Upload error: " + openErr.Error())
		} else {
			result = h.client.Upload(ctx, file.Filename, src)
			src.Close()
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"result":  result,
		"refresh": h.Reconcile(ctx),
	})
}

// DeleteRequest is the body of a delete action.
type DeleteRequest struct {
	Filenames []string `json:"filenames"`
}

// DeleteDocuments deletes the selected filenames and returns the summary
// together with the refreshed state.
func (h *Handler) DeleteDocuments(c *gin.Context) {
	var req DeleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()
	summary := h.view.DeleteByFilenames(ctx, req.Filenames)

	c.JSON(http.StatusOK, gin.H{
		"summary": summary,
		"refresh": h.Reconcile(ctx),
	})
}

// ChatTurnRequest is the body of a chat action. The transcript travels with
// the request and back in the response; the server keeps no copy between
// calls.
type ChatTurnRequest struct {
	Message    string            `json:"message" binding:"required"`
	Transcript domain.Transcript `json:"transcript"`
	SessionID  string            `json:"session_id"`
}

// Chat runs one chat turn and returns the updated transcript.
func (h *Handler) Chat(c *gin.Context) {
	var req ChatTurnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = uuid.New().String()
	}

	transcript := h.session.SendTurn(c.Request.Context(), sessionID, req.Message, req.Transcript)

	c.JSON(http.StatusOK, gin.H{
		"transcript": transcript,
		"session_id": sessionID,
	})
}
