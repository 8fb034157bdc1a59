package controller

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/ManojKumarKarumanchi/voice-rag-agent/models"
	"github.com/ManojKumarKarumanchi/voice-rag-agent/services"
)

// RAGController handles the HTTP requests for the retrieval backend. It
// depends on the service layer to perform the actual business logic.
type RAGController struct {
	ragService   services.RAGService
	tokenService *services.TokenService
}

// NewRAGController is a constructor function that creates a new
// RAGController. Called from main to inject the service dependencies.
func NewRAGController(ragService services.RAGService, tokenService *services.TokenService) *RAGController {
	return &RAGController{
		ragService:   ragService,
		tokenService: tokenService,
	}
}

// Upload is the Gin handler for POST /upload. It reads the multipart file,
// runs ingestion, and reports parse failures as structured results rather
// than HTTP faults.
func (c *RAGController) Upload(ctx *gin.Context) {
	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Missing file in request: " + err.Error()})
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to open uploaded file"})
		return
	}
	defer f.Close()

	content, err := io.ReadAll(f)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read uploaded file"})
		return
	}

	result, err := c.ragService.IngestFile(ctx.Request.Context(), content, fileHeader.Filename)
	if errors.Is(err, services.ErrNoText) || errors.Is(err, services.ErrNoChunks) {
		ctx.JSON(http.StatusOK, models.UploadResponse{
			Status:  "error",
			Message: "Could not extract text from file.",
		})
		return
	}
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to ingest document"})
		return
	}

	ctx.JSON(http.StatusOK, models.UploadResponse{
		Status:           "ingested",
		Filename:         result.Filename,
		IndexedDocuments: result.IndexedDocuments,
		TotalChunks:      result.TotalChunks,
		Message:          fmt.Sprintf("%s has been indexed with %d chunks.", result.Filename, result.TotalChunks),
	})
}

// RAGStatus is the Gin handler for GET /ragStatus.
func (c *RAGController) RAGStatus(ctx *gin.Context) {
	status, err := c.ragService.Status(ctx.Request.Context())
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read index status"})
		return
	}

	message := "No documents indexed yet. Upload documents to enable RAG."
	if status.Ready {
		message = fmt.Sprintf("Document is ready. %d chunks indexed from: %s",
			status.ChunkCount, strings.Join(status.IndexedDocuments, ", "))
	}

	ctx.JSON(http.StatusOK, models.RAGStatusResponse{
		Ready:            status.Ready,
		IndexedDocuments: status.IndexedDocuments,
		ChunkCount:       status.ChunkCount,
		Message:          message,
	})
}

// Retrieve is the Gin handler for POST /retrieve.
func (c *RAGController) Retrieve(ctx *gin.Context) {
	var req models.RetrieveRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}
	if req.K <= 0 {
		req.K = services.DefaultTopK
	}

	documents, metadatas, err := c.ragService.Retrieve(ctx.Request.Context(), req.Query, req.K)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve documents"})
		return
	}

	ctx.JSON(http.StatusOK, models.RetrieveResponse{
		Documents: documents,
		Metadatas: metadatas,
	})
}

// GetToken is the Gin handler for POST /getToken.
func (c *RAGController) GetToken(ctx *gin.Context) {
	var req models.TokenRequest
	if ctx.Request.Body != nil && ctx.Request.ContentLength > 0 {
		if err := ctx.ShouldBindJSON(&req); err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
			return
		}
	}

	resp, err := c.tokenService.CreateSession(req)
	if errors.Is(err, services.ErrMissingCredentials) {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create session token"})
		return
	}

	ctx.JSON(http.StatusOK, resp)
}

// Health is the Gin handler for GET /health.
func (c *RAGController) Health(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
}
