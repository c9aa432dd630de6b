package http

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	apierrors "landedcost/internal/errors"
	"landedcost/internal/infrastructure"
	"landedcost/internal/ingestion"
)

// UploadFormField is the multipart field carrying the spreadsheet
const UploadFormField = "file"

// multipartOverhead is the allowance for boundaries and part headers on
// top of the file size limit
const multipartOverhead = 1 << 20

// UploadHandler handles spreadsheet uploads
type UploadHandler struct {
	service       IngestionServiceInterface
	errorHandler  *apierrors.ErrorHandler
	logger        *slog.Logger
	maxUploadSize int64
	now           func() time.Time
}

// NewUploadHandler creates an upload handler. maxUploadSize is the file
// limit the ingestion pipeline enforces.
func NewUploadHandler(service IngestionServiceInterface, maxUploadSize int64, errorHandler *apierrors.ErrorHandler, logger *slog.Logger) *UploadHandler {
	return &UploadHandler{
		service:       service,
		errorHandler:  errorHandler,
		logger:        infrastructure.WithComponent(logger, "upload_handler"),
		maxUploadSize: maxUploadSize,
		now:           time.Now,
	}
}

// Upload handles POST /api/upload. The file part is streamed into memory;
// nothing is written to disk.
func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize+multipartOverhead)

	filename, data, err := h.readFilePart(r)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	h.logger.InfoContext(r.Context(), "upload received",
		slog.String("filename", filename),
		slog.Int("size", len(data)),
	)

	outcome, err := h.service.ProcessUpload(r.Context(), filename, data)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	respond(w, r, h.now(), MsgFileProcessed, outcome)
}

func (h *UploadHandler) readFilePart(r *http.Request) (string, []byte, error) {
	mr, err := r.MultipartReader()
	if err != nil {
		return "", nil, fileError("request must be multipart/form-data", nil)
	}

	for {
		part, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			return "", nil, fileError("no file uploaded", map[string]any{"field": UploadFormField})
		}
		if err != nil {
			return "", nil, h.readError(err)
		}
		if part.FormName() != UploadFormField {
			_ = part.Close()
			continue
		}

		filename := part.FileName()
		if filename == "" {
			return "", nil, fileError("no file selected", nil)
		}

		// One byte past the limit lets the pipeline report the oversize file
		data, err := io.ReadAll(io.LimitReader(part, h.maxUploadSize+1))
		_ = part.Close()
		if err != nil {
			return "", nil, h.readError(err)
		}
		return filename, data, nil
	}
}

func (h *UploadHandler) readError(err error) error {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return fileError(fmt.Sprintf("file exceeds maximum size of %d bytes", h.maxUploadSize),
			map[string]any{"max_size": h.maxUploadSize})
	}
	return fileError("could not read upload: "+err.Error(), nil)
}

func fileError(message string, details map[string]any) error {
	return &ingestion.StageError{Stage: ingestion.StageFileValidation, Message: message, Details: details}
}
