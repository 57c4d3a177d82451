package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"github.com/BerylCAtieno/umrah-docs-api/internal/ingest"
	"github.com/BerylCAtieno/umrah-docs-api/internal/models"
	"github.com/BerylCAtieno/umrah-docs-api/internal/services"
	"github.com/BerylCAtieno/umrah-docs-api/internal/utils"
)

const (
	// multipartSlack covers form boundaries and headers on top of the file.
	multipartSlack = 1 << 20

	documentsField = "documents"
	photoField     = "profile.photo"

	maxAddressBody = 16 << 10
)

type DocumentHandler struct {
	service     services.DocumentService
	logger      *utils.Logger
	maxFileSize int64
}

func NewDocumentHandler(service services.DocumentService, maxFileSize int64, logger *utils.Logger) *DocumentHandler {
	return &DocumentHandler{
		service:     service,
		logger:      logger,
		maxFileSize: maxFileSize,
	}
}

// UploadDocument stores a file under documents.<field> of a record.
func (h *DocumentHandler) UploadDocument(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	h.upload(w, r, vars["id"], documentsField+"."+vars["field"], r.URL.Query().Get("preset"))
}

// UploadPhoto stores the profile photo of a record using the photo preset.
func (h *DocumentHandler) UploadPhoto(w http.ResponseWriter, r *http.Request) {
	h.upload(w, r, mux.Vars(r)["id"], photoField, models.PresetPhoto)
}

func (h *DocumentHandler) upload(w http.ResponseWriter, r *http.Request, recordID, field, preset string) {
	if recordID == "" {
		h.respondError(w, utils.NewBadRequestError("Record ID is required"))
		return
	}

	limit := h.maxFileSize + multipartSlack
	if r.ContentLength > limit {
		h.respondError(w, h.tooLarge())
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, limit)

	if err := r.ParseMultipartForm(limit); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) || strings.Contains(err.Error(), "request body too large") {
			h.respondError(w, h.tooLarge())
			return
		}
		h.respondError(w, utils.NewBadRequestError("Invalid form data"))
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		h.respondError(w, utils.NewBadRequestError("No file provided"))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, h.maxFileSize+1))
	if err != nil {
		h.respondError(w, utils.NewInternalError("Failed to read file"))
		return
	}
	if int64(len(data)) > h.maxFileSize {
		h.respondError(w, h.tooLarge())
		return
	}
	if len(data) == 0 {
		h.respondError(w, utils.NewBadRequestError("Uploaded file is empty"))
		return
	}

	reported := header.Header.Get("Content-Type")
	contentType := determineContentType(header.Filename, reported, data)

	h.logger.Info("File upload attempt",
		"record_id", recordID,
		"field", field,
		"filename", header.Filename,
		"reported_content_type", reported,
		"determined_content_type", contentType)

	resp, err := h.service.UploadDocument(r.Context(), &models.UploadRequest{
		RecordID:    recordID,
		Field:       field,
		Preset:      preset,
		File:        data,
		Filename:    filepath.Base(header.Filename),
		ContentType: contentType,
	})
	if err != nil {
		h.respondError(w, err)
		return
	}

	h.respondJSON(w, http.StatusCreated, resp)
}

func (h *DocumentHandler) tooLarge() *utils.AppError {
	msg := fmt.Sprintf("File size exceeds %s limit", ingest.FormatSize(h.maxFileSize))
	return utils.NewBadRequestError(msg).WithKind(string(ingest.KindFileTooLarge))
}

func (h *DocumentHandler) DeleteDocument(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	if err := h.service.DeleteDocument(r.Context(), vars["id"], documentsField+"."+vars["field"]); err != nil {
		h.respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *DocumentHandler) DeletePhoto(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteDocument(r.Context(), mux.Vars(r)["id"], photoField); err != nil {
		h.respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetOriginal streams back the archived original of documents.<field>.
func (h *DocumentHandler) GetOriginal(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	orig, err := h.service.GetOriginal(r.Context(), vars["id"], documentsField+"."+vars["field"])
	if err != nil {
		h.respondError(w, err)
		return
	}

	w.Header().Set("Content-Type", orig.ContentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(orig.Data)))
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": orig.Filename}))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(orig.Data); err != nil {
		h.logger.Warn("Failed to write original", "error", err)
	}
}

func (h *DocumentHandler) GetRecord(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if id == "" {
		h.respondError(w, utils.NewBadRequestError("Record ID is required"))
		return
	}

	rec, err := h.service.GetRecord(r.Context(), id)
	if err != nil {
		h.respondError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, rec)
}

func (h *DocumentHandler) UpdateAddress(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var addr models.Address
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxAddressBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&addr); err != nil {
		h.respondError(w, utils.NewBadRequestError("Invalid address payload").WithCause(err))
		return
	}

	saved, err := h.service.UpdateAddress(r.Context(), id, addr)
	if err != nil {
		h.respondError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, saved)
}

var extensionTypes = map[string]string{
	".jpg":  ingest.MediaTypeJPEG,
	".jpeg": ingest.MediaTypeJPEG,
	".png":  ingest.MediaTypePNG,
	".webp": ingest.MediaTypeWebP,
	".pdf":  ingest.MediaTypePDF,
	".doc":  ingest.MediaTypeDOC,
	".docx": ingest.MediaTypeDOCX,
	".xls":  ingest.MediaTypeXLS,
	".xlsx": ingest.MediaTypeXLSX,
}

// determineContentType picks the media type of an uploaded part: the part
// header if it names a supported type, then the filename extension, then
// the sniffed content. The pipeline rejects whatever is still unsupported.
func determineContentType(filename, headerContentType string, data []byte) string {
	if mt, _, err := mime.ParseMediaType(headerContentType); err == nil && ingest.IsSupported(mt) {
		return mt
	}

	if mt, ok := extensionTypes[strings.ToLower(filepath.Ext(filename))]; ok {
		return mt
	}

	sniffed := ingest.SniffMediaType(data)
	if !ingest.IsSupported(sniffed) && headerContentType != "" {
		return headerContentType
	}
	return sniffed
}

func (h *DocumentHandler) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("Failed to encode JSON response", "error", err)
	}
}

type errorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
}

func (h *DocumentHandler) respondError(w http.ResponseWriter, err error) {
	resp := errorResponse{Error: "Internal server error"}
	status := http.StatusInternalServerError

	if appErr, ok := utils.AsAppError(err); ok {
		status = appErr.StatusCode
		resp.Error = appErr.Message
		resp.Kind = appErr.Kind
	}

	if status >= http.StatusInternalServerError {
		h.logger.Error("Request error", "status", status, "error", err)
	} else {
		h.logger.Warn("Request rejected", "status", status, "error", resp.Error, "kind", resp.Kind)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(resp)
}
