// README: Speech handler (recognition proxy and transcript parsing).
package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"roam/internal/modules/speech"
)

// Transcriber is the recognition boundary. Satisfied by *speech.Recognizer.
type Transcriber interface {
	Recognize(ctx context.Context, audioBase64 string) (string, error)
}

type SpeechHandler struct {
	rec Transcriber
}

func NewSpeechHandler(rec Transcriber) *SpeechHandler {
	return &SpeechHandler{rec: rec}
}

type recognizeReq struct {
	Audio string `json:"audio"`
}

// Recognize handles POST /api/speech/recognize.
func (h *SpeechHandler) Recognize(c *gin.Context) {
	var req recognizeReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	if req.Audio == "" {
		writeError(c, http.StatusBadRequest, "audio data is required")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
	defer cancel()

	text, err := h.rec.Recognize(ctx, req.Audio)
	if err != nil {
		if errors.Is(err, speech.ErrSpeechKeysMissing) {
			writeError(c, http.StatusBadRequest, err.Error())
			return
		}
		writeError(c, http.StatusBadGateway, "speech recognition failed")
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"success": true, "text": text})
}

type parseReq struct {
	Text string `json:"text"`
}

// Parse handles POST /api/speech/parse: extracts trip parameters from a
// transcript so the client can prefill the trip form.
func (h *SpeechHandler) Parse(c *gin.Context) {
	var req parseReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	if req.Text == "" {
		writeError(c, http.StatusBadRequest, "text is required")
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"success": true, "request": speech.ParseTripRequest(req.Text)})
}
