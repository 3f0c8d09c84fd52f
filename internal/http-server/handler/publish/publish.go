package publish

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"image-publisher/internal/domain"
	"image-publisher/internal/http-server/handler/publish/dto"
	"image-publisher/internal/usecase/decoder"
	"image-publisher/internal/usecase/generator"
	"image-publisher/internal/usecase/publisher"

	"github.com/go-playground/validator/v10"
	"github.com/wb-go/wbf/zlog"
)

const maxMemory = 32 << 20

type PublishHandler struct {
	pipeline publishPipeline
	validate *validator.Validate
	logger   *zlog.Zerolog
}

func NewPublishHandler(pipeline publishPipeline, logger *zlog.Zerolog) *PublishHandler {
	return &PublishHandler{
		pipeline: pipeline,
		validate: validator.New(),
		logger:   logger,
	}
}

func (h *PublishHandler) PublishImage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	r.Body = http.MaxBytesReader(w, r.Body, domain.DefaultMaxUploadSize)

	if err := r.ParseMultipartForm(maxMemory); err != nil {
		h.logger.Warn().Err(err).Msg("Failed to parse multipart form")
		h.respondError(w, http.StatusBadRequest, "Invalid request format", nil)
		return
	}

	file, handler, err := r.FormFile("file")
	if err != nil {
		h.logger.Warn().Err(err).Msg("File not found in request")
		h.respondError(w, http.StatusBadRequest, "File is required", nil)
		return
	}
	defer file.Close()

	req := dto.PublishRequest{Message: r.FormValue("message")}
	if err := h.validate.Struct(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Message is too long", nil)
		return
	}

	fileBytes, err := io.ReadAll(file)
	if err != nil {
		h.logger.Error().Err(err).Str("filename", handler.Filename).Msg("Failed to read file")
		h.respondError(w, http.StatusInternalServerError, "Failed to read file", err)
		return
	}

	contentType := handler.Header.Get("Content-Type")

	result, err := h.pipeline.Publish(ctx, fileBytes, contentType, publicBaseURL(r), req.Message)
	if err != nil {
		h.handlePublishError(w, err, handler.Filename)
		return
	}

	response := dto.PublishResponse{
		Strategy:    string(result.Strategy),
		Message:     result.Message,
		PostID:      result.PostID,
		MediaIDs:    result.MediaIDs,
		ArtifactURL: result.ArtifactURL,
		IntentURL:   result.IntentURL,
	}

	h.logger.Info().
		Str("filename", handler.Filename).
		Str("strategy", response.Strategy).
		Msg("Image published successfully")

	h.respondJSON(w, http.StatusOK, response)
}

func (h *PublishHandler) handlePublishError(w http.ResponseWriter, err error, filename string) {
	var (
		resizeErr  *generator.ResizeError
		uploadErr  *publisher.UploadError
		postErr    *publisher.PostError
		storageErr *publisher.StorageWriteError
	)

	switch {
	case errors.Is(err, decoder.ErrUnsupportedMediaType):
		h.logger.Warn().Str("filename", filename).Msg("Unsupported media type")
		h.respondError(w, http.StatusUnsupportedMediaType, "Unsupported file type. Only JPEG and PNG are allowed.", nil)
	case errors.Is(err, decoder.ErrInvalidImageData):
		h.logger.Warn().Str("filename", filename).Msg("Invalid image data")
		h.respondError(w, http.StatusBadRequest, "Invalid image file.", nil)
	case errors.Is(err, domain.ErrTimeout):
		h.logger.Error().Err(err).Str("filename", filename).Msg("Publish timed out")
		h.respondError(w, http.StatusGatewayTimeout, "Publishing timed out", nil)
	case errors.As(err, &resizeErr):
		h.logger.Error().Err(err).Str("filename", filename).Int("variant", resizeErr.Index).Msg("Variant generation failed")
		h.respondError(w, http.StatusUnprocessableEntity, "Failed to resize image", err)
	case errors.As(err, &uploadErr):
		h.logger.Error().Err(err).Str("filename", filename).Int("variant", uploadErr.Index).Msg("Media upload failed")
		h.respondError(w, http.StatusBadGateway, "Failed to upload image to the platform", err)
	case errors.As(err, &postErr):
		h.logger.Error().Err(err).Str("filename", filename).Msg("Post creation failed")
		h.respondError(w, http.StatusBadGateway, "Failed to create post", err)
	case errors.As(err, &storageErr):
		h.logger.Error().Err(err).Str("filename", filename).Msg("Artifact storage failed")
		h.respondError(w, http.StatusBadGateway, "Failed to store image", err)
	default:
		h.logger.Error().Err(err).Str("filename", filename).Msg("Publish failed")
		h.respondError(w, http.StatusInternalServerError, "Failed to publish image", err)
	}
}

// publicBaseURL derives the caller-visible address from the inbound request.
func publicBaseURL(r *http.Request) string {
	scheme := "http"
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	} else if r.TLS != nil {
		scheme = "https"
	}
	return scheme + "://" + r.Host
}

func (h *PublishHandler) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error().Err(err).Interface("data", data).Msg("Failed to encode response")
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

func (h *PublishHandler) respondError(w http.ResponseWriter, status int, message string, err error) {
	response := dto.ErrorResponse{
		Error:   http.StatusText(status),
		Message: message,
	}

	if err != nil {
		response.Details = err.Error()
	}

	h.respondJSON(w, status, response)
}
