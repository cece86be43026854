package delivery

import (
	"net/http"
	"strconv"

	emaildto "postbox-backend/internal/email/dto"
	"postbox-backend/internal/email/usecase"

	"github.com/gin-gonic/gin"
)

const defaultThreadPageSize = 20

type EmailHandler struct {
	syncUsecase usecase.SyncUsecase
}

func NewEmailHandler(syncUsecase usecase.SyncUsecase) *EmailHandler {
	return &EmailHandler{
		syncUsecase: syncUsecase,
	}
}

// ListThreads returns a page of the user's threads, newest first. Signed
// body links that expired since ingestion are refreshed before the page
// is returned.
func (h *EmailHandler) ListThreads(c *gin.Context) {
	userID := c.GetString("userID")

	limit := defaultThreadPageSize
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
			return
		}
		limit = parsed
	}

	threads, nextCursor, err := h.syncUsecase.ListThreads(c.Request.Context(), userID, c.Query("q"), c.Query("cursor"), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, emaildto.ThreadListResponse{
		Threads:    threads,
		NextCursor: nextCursor,
	})
}

// RunBackfill advances the authenticated user's backfill by one page.
func (h *EmailHandler) RunBackfill(c *gin.Context) {
	userID := c.GetString("userID")

	progressed, err := h.syncUsecase.RunBackfillStep(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, emaildto.SyncStepResponse{Progressed: progressed})
}

// RunIncrementalSync applies the history delta accumulated since the
// user's stored history checkpoint.
func (h *EmailHandler) RunIncrementalSync(c *gin.Context) {
	userID := c.GetString("userID")

	if err := h.syncUsecase.RunIncrementalSyncStep(c.Request.Context(), userID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// RunBackfillAll runs one backfill step for a batch of accounts. Intended
// to be hit by a scheduler rather than an end user.
func (h *EmailHandler) RunBackfillAll(c *gin.Context) {
	updated, err := h.syncUsecase.RunBackfillAllAccounts(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, emaildto.SyncAllResponse{Updated: updated})
}

// RunIncrementalSyncAll runs one incremental sync step for a batch of
// accounts.
func (h *EmailHandler) RunIncrementalSyncAll(c *gin.Context) {
	updated, err := h.syncUsecase.RunIncrementalSyncAllAccounts(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, emaildto.SyncAllResponse{Updated: updated})
}

func (h *EmailHandler) SendEmail(c *gin.Context) {
	var req emaildto.SendEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID := c.GetString("userID")
	messageID, err := h.syncUsecase.SendEmail(c.Request.Context(), userID, req.To, req.Cc, req.Bcc, req.Subject, req.Body)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message_id": messageID})
}
