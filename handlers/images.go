package handlers

import (
	"bytes"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"net/http"
	"strings"

	"github.com/nfnt/resize"
	"go.uber.org/zap"
)

// maxSourcePixels bounds the decoded source canvas.
const maxSourcePixels = 40_000_000

// scaledWidth returns the width that keeps a width x height source's aspect
// ratio at the configured height, and false when the source is empty, too
// large to decode, or would scale wider than ImageMaxWidth.
func (h *Handler) scaledWidth(width, height int) (uint, bool) {
	if width <= 0 || height <= 0 {
		return 0, false
	}
	if int64(width)*int64(height) > maxSourcePixels {
		return 0, false
	}
	newWidth := float64(h.ImageHeight) * float64(width) / float64(height)
	if newWidth < 1 || newWidth > float64(h.ImageMaxWidth) {
		return 0, false
	}
	return uint(newWidth), true
}

// FetchImage fetches an image from ?url=, scales it to the configured height
// keeping its aspect ratio, and returns it in its original format.
func (h *Handler) FetchImage(w http.ResponseWriter, r *http.Request) {
	imageURL := r.URL.Query().Get("url")
	if imageURL == "" {
		http.Error(w, "URL parameter is required", http.StatusBadRequest)
		return
	}

	req, err := http.NewRequestWithContext(r.Context(), http.MethodGet, imageURL, nil)
	if err != nil || (req.URL.Scheme != "http" && req.URL.Scheme != "https") {
		http.Error(w, "Invalid image URL", http.StatusBadRequest)
		return
	}
	resp, err := h.ImageClient.Do(req)
	if err != nil {
		http.Error(w, "Failed to fetch image", http.StatusBadGateway)
		h.Logger.Warn("Image fetch failed", zap.String("url", imageURL), zap.Error(err))
		return
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		http.Error(w, "Failed to fetch image", http.StatusBadGateway)
		h.Logger.Warn("Image fetch failed", zap.String("url", imageURL), zap.Int("status", resp.StatusCode))
		return
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, h.ImageMaxBytes+1))
	if err != nil {
		http.Error(w, "Failed to fetch image", http.StatusBadGateway)
		h.Logger.Warn("Image read failed", zap.String("url", imageURL), zap.Error(err))
		return
	}
	if int64(len(data)) > h.ImageMaxBytes {
		http.Error(w, "Image too large", http.StatusUnprocessableEntity)
		return
	}

	// Check the header before decoding so a huge canvas is never allocated.
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		http.Error(w, "Failed to decode image", http.StatusUnsupportedMediaType)
		return
	}
	newWidth, ok := h.scaledWidth(cfg.Width, cfg.Height)
	if !ok {
		http.Error(w, "Image dimensions not supported", http.StatusUnprocessableEntity)
		h.Logger.Info("Image rejected",
			zap.String("url", imageURL), zap.Int("width", cfg.Width), zap.Int("height", cfg.Height))
		return
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		http.Error(w, "Failed to decode image", http.StatusUnsupportedMediaType)
		return
	}
	resized := resize.Resize(newWidth, h.ImageHeight, img, resize.Lanczos3)

	switch strings.ToLower(format) {
	case "jpeg", "jpg":
		w.Header().Set("Content-Type", "image/jpeg")
		err = jpeg.Encode(w, resized, nil)
	case "png":
		w.Header().Set("Content-Type", "image/png")
		err = png.Encode(w, resized)
	default:
		http.Error(w, "Unsupported image format", http.StatusUnsupportedMediaType)
		return
	}
	if err != nil {
		h.Logger.Error("Failed to encode image", zap.String("url", imageURL), zap.Error(err))
	}
}
