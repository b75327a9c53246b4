package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	portssvc "github.com/openbooks/ledger_engine/internal/core/ports/services"
	"github.com/openbooks/ledger_engine/internal/dto"
	"github.com/openbooks/ledger_engine/internal/middleware"
)

// idempotencyKeyHeader carries the caller-supplied posting idempotency key.
const idempotencyKeyHeader = "Idempotency-Key"

// journalHandler handles HTTP requests for journal entries. All writes go
// through the posting coordinator.
type journalHandler struct {
	postingService portssvc.PostingSvcFacade
}

func registerJournalRoutes(rg *gin.RouterGroup, svc portssvc.PostingSvcFacade) {
	h := &journalHandler{postingService: svc}
	journals := rg.Group("/journals")
	{
		journals.POST("", h.postEntry)
		journals.GET("", h.listEntries)
		journals.GET("/:entryID", h.getEntry)
		journals.POST("/drafts", h.createDraft)
		journals.POST("/:entryID/lines", h.addLine)
		journals.POST("/:entryID/post", h.postDraft)
		journals.POST("/:entryID/reverse", h.reverseEntry)
	}
}

// postEntry posts a balanced manual journal entry atomically. Retries with
// the same Idempotency-Key header return the original entry.
func (h *journalHandler) postEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateEntryRequest
	if !bindJSON(c, &req) {
		return
	}
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	idempotencyKey := c.GetHeader(idempotencyKeyHeader)
	entryID, err := h.postingService.PostTransaction(c.Request.Context(), c.Param("ledgerID"), idempotencyKey, req.Header, req.Lines, nil, userID)
	if err != nil {
		respondError(c, err, "Failed to post entry")
		return
	}

	logger.Info("Entry posted via API", slog.String("entry_id", entryID))
	c.JSON(http.StatusCreated, gin.H{"entryID": entryID})
}

func (h *journalHandler) getEntry(c *gin.Context) {
	entry, err := h.postingService.GetEntryByID(c.Request.Context(), c.Param("ledgerID"), c.Param("entryID"))
	if err != nil {
		respondError(c, err, "Failed to retrieve entry")
		return
	}
	c.JSON(http.StatusOK, dto.ToEntryResponse(entry))
}

func (h *journalHandler) listEntries(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	entries, err := h.postingService.ListEntries(c.Request.Context(), c.Param("ledgerID"), limit, offset)
	if err != nil {
		respondError(c, err, "Failed to list entries")
		return
	}
	responses := make([]dto.EntryResponse, len(entries))
	for i := range entries {
		responses[i] = dto.ToEntryResponse(&entries[i])
	}
	c.JSON(http.StatusOK, responses)
}

// createDraft opens a draft entry that accumulates lines before posting.
func (h *journalHandler) createDraft(c *gin.Context) {
	var header dto.EntryHeader
	if !bindJSON(c, &header) {
		return
	}
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	entryID, err := h.postingService.CreateDraftEntry(c.Request.Context(), c.Param("ledgerID"), header, userID)
	if err != nil {
		respondError(c, err, "Failed to create draft entry")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"entryID": entryID})
}

// addLine appends a line to a draft entry. Posted entries reject it.
func (h *journalHandler) addLine(c *gin.Context) {
	var spec dto.LineSpec
	if !bindJSON(c, &spec) {
		return
	}
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	lineID, err := h.postingService.AddLine(c.Request.Context(), c.Param("ledgerID"), c.Param("entryID"), spec, userID)
	if err != nil {
		respondError(c, err, "Failed to add line")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"lineID": lineID})
}

// postDraft flips a balanced draft entry to POSTED through the period gate.
func (h *journalHandler) postDraft(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	if err := h.postingService.PostEntry(c.Request.Context(), c.Param("ledgerID"), c.Param("entryID"), userID); err != nil {
		respondError(c, err, "Failed to post draft entry")
		return
	}
	c.JSON(http.StatusOK, gin.H{"entryID": c.Param("entryID"), "status": "POSTED"})
}

// reverseEntry creates the mirror entry and flips the original to REVERSED.
func (h *journalHandler) reverseEntry(c *gin.Context) {
	var req dto.ReverseEntryRequest
	if !bindJSON(c, &req) {
		return
	}
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	reversalID, err := h.postingService.ReverseEntry(c.Request.Context(), c.Param("ledgerID"), c.Param("entryID"), req, nil, userID)
	if err != nil {
		respondError(c, err, "Failed to reverse entry")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"reversalEntryID": reversalID})
}
