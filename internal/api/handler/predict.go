package handler

import (
	"io"
	"net/http"

	"github.com/annvu/foodvision/internal/service"
	"github.com/gin-gonic/gin"
)

// maxUploadBytes caps the accepted image size (10 MB).
const maxUploadBytes = 10 << 20

// PredictHandler handles food image prediction requests.
type PredictHandler struct {
	recognition *service.RecognitionService
}

// NewPredictHandler creates a new predict handler.
func NewPredictHandler(recognition *service.RecognitionService) *PredictHandler {
	return &PredictHandler{
		recognition: recognition,
	}
}

// Predict handles POST /predict. It accepts a multipart image upload and
// returns the predicted label, the canonical base64 thumbnail, and the
// capture timestamp.
func (h *PredictHandler) Predict(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Multipart field 'file' is required: " + err.Error(),
		})
		return
	}
	if fileHeader.Size > maxUploadBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{
			"error": "Image exceeds the upload size limit",
		})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Failed to open uploaded file: " + err.Error(),
		})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Failed to read uploaded file: " + err.Error(),
		})
		return
	}

	prediction, err := h.recognition.Predict(c.Request.Context(), data, fileHeader.Header.Get("Content-Type"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Prediction failed: " + err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, prediction)
}
