package handlers

import (
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/picquest/rewards-backend/internal/services"
	"github.com/picquest/rewards-backend/pkg/artifactstore"
)

// maxArtifactSize caps uploaded images at 10MB.
const maxArtifactSize = 10 << 20

// UploadHandler stores submitted images through the artifact store
type UploadHandler struct {
	store       artifactstore.Store
	userService services.UserService
}

// NewUploadHandler creates a new UploadHandler
func NewUploadHandler(store artifactstore.Store, userService services.UserService) *UploadHandler {
	return &UploadHandler{
		store:       store,
		userService: userService,
	}
}

// Upload handles POST /upload. Accepts a single multipart image and returns
// the durable artifact reference to use in a submission.
func (h *UploadHandler) Upload(c *gin.Context) {
	if _, ok := currentUser(c, h.userService); !ok {
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file provided"})
		return
	}
	if fileHeader.Size > maxArtifactSize {
		c.JSON(http.StatusBadRequest, gin.H{"error": "File exceeds 10MB limit"})
		return
	}

	contentType := fileHeader.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Only image files are allowed"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read file"})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxArtifactSize))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read file"})
		return
	}

	url, err := h.store.Save(c.Request.Context(), fileHeader.Filename, contentType, data)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store artifact"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"artifactUrl": url})
}
