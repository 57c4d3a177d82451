package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/BerylCAtieno/umrah-docs-api/internal/config"
	"github.com/BerylCAtieno/umrah-docs-api/internal/ingest"
	"github.com/BerylCAtieno/umrah-docs-api/internal/inspect"
	"github.com/BerylCAtieno/umrah-docs-api/internal/models"
	"github.com/BerylCAtieno/umrah-docs-api/internal/repository"
	"github.com/BerylCAtieno/umrah-docs-api/internal/storage"
	"github.com/BerylCAtieno/umrah-docs-api/internal/utils"
)

// AddressField is where UpdateAddress stores a record's address.
const AddressField = "address"

type DocumentService interface {
	UploadDocument(ctx context.Context, req *models.UploadRequest) (*models.UploadResponse, error)
	GetRecord(ctx context.Context, id string) (*models.Record, error)
	DeleteDocument(ctx context.Context, recordID, field string) error
	GetOriginal(ctx context.Context, recordID, field string) (*models.Original, error)
	UpdateAddress(ctx context.Context, recordID string, addr models.Address) (*models.Address, error)
}

type documentService struct {
	repo     repository.Repository
	storage  storage.Storage
	pipeline *ingest.Pipeline
	presets  map[string]ingest.ImageOptions
	cache    *lru.Cache[string, *ingest.ProcessedDocument]
	logger   *utils.Logger
}

// NewService wires the document service. store may be nil, in which case
// original uploads are not archived.
func NewService(repo repository.Repository, store storage.Storage, cfg *config.Config, logger *utils.Logger) (DocumentService, error) {
	s := &documentService{
		repo:     repo,
		storage:  store,
		pipeline: ingest.New(cfg.Budget),
		presets:  cfg.Presets,
		logger:   logger,
	}

	if cfg.CacheSize > 0 {
		cache, err := lru.New[string, *ingest.ProcessedDocument](cfg.CacheSize)
		if err != nil {
			return nil, fmt.Errorf("failed to create result cache: %w", err)
		}
		s.cache = cache
	}

	return s, nil
}

func (s *documentService) UploadDocument(ctx context.Context, req *models.UploadRequest) (*models.UploadResponse, error) {
	preset := req.Preset
	if preset == "" {
		preset = models.PresetDocument
	}
	opts, ok := s.presets[preset]
	if !ok {
		return nil, utils.NewBadRequestError(fmt.Sprintf("Unknown upload preset '%s'", preset))
	}

	log := s.logger.With("record_id", req.RecordID, "field", req.Field)

	processed, err := s.process(req, preset, opts)
	if err != nil {
		log.Warn("Upload rejected",
			"filename", req.Filename,
			"content_type", req.ContentType,
			"size", len(req.File),
			"error", err)
		return nil, pipelineError(err)
	}

	now := time.Now().UTC()
	stored := &models.StoredDocument{
		ProcessedDocument: *processed,
		Info:              s.describe(req, processed),
		UploadedAt:        now,
	}

	if s.storage != nil {
		key := storage.ArchiveKey(req.RecordID, req.Field, utils.GenerateID(), req.Filename)
		if err := s.storage.Upload(ctx, key, req.File, req.ContentType); err != nil {
			log.Error("Failed to archive original", "error", err, "key", key)
			return nil, utils.NewInternalError("Failed to store document")
		}
		stored.ArchiveKey = key
	}

	// The replaced value comes from the same transaction as the write, so
	// concurrent uploads to one field each clean up a distinct archive.
	replaced, err := s.repo.SetField(ctx, req.RecordID, req.Field, stored)
	if err != nil {
		s.removeArchive(ctx, stored.ArchiveKey)
		return nil, s.recordError(err, req.RecordID, req.Field)
	}

	if previous := decodeStoredDocument(replaced); previous != nil && previous.ArchiveKey != stored.ArchiveKey {
		s.removeArchive(ctx, previous.ArchiveKey)
	}

	log.Info("Document stored",
		"filename", req.Filename,
		"category", processed.Category.String(),
		"file_size", processed.FileSize,
		"encoded_size", len(processed.Embedded))

	resp := &models.UploadResponse{
		RecordID:    req.RecordID,
		Field:       req.Field,
		Filename:    processed.FileName,
		FileSize:    processed.FileSize,
		ContentType: processed.FileType,
		Category:    processed.Category.String(),
		EncodedSize: len(processed.Embedded),
		Info:        stored.Info,
		ArchiveKey:  stored.ArchiveKey,
		UploadedAt:  now,
		Message:     "Document uploaded successfully",
	}
	if img := processed.Image; img != nil {
		resp.Image = &models.ImageSummary{
			SourceWidth:  img.SourceWidth,
			SourceHeight: img.SourceHeight,
			Width:        img.Width,
			Height:       img.Height,
			Quality:      img.Quality,
			Attempts:     img.Attempts,
		}
	}

	return resp, nil
}

// process runs the pipeline, reusing the result for byte-identical uploads
// under the same preset.
func (s *documentService) process(req *models.UploadRequest, preset string, opts ingest.ImageOptions) (*ingest.ProcessedDocument, error) {
	candidate := ingest.UploadCandidate{
		Data:      req.File,
		MediaType: req.ContentType,
		Name:      req.Filename,
	}

	if s.cache == nil {
		return s.pipeline.Process(candidate, opts)
	}

	key := cacheKey(req.File, preset, req.ContentType)
	if cached, ok := s.cache.Get(key); ok {
		doc := *cached
		doc.FileName = req.Filename
		s.logger.Debug("Reusing processed upload", "filename", req.Filename, "preset", preset)
		return &doc, nil
	}

	doc, err := s.pipeline.Process(candidate, opts)
	if err != nil {
		return nil, err
	}
	s.cache.Add(key, doc)

	out := *doc
	return &out, nil
}

func cacheKey(data []byte, preset, contentType string) string {
	sum := sha256.Sum256(data)
	return preset + "|" + contentType + "|" + hex.EncodeToString(sum[:])
}

func (s *documentService) describe(req *models.UploadRequest, doc *ingest.ProcessedDocument) *inspect.Info {
	if img := doc.Image; img != nil {
		return &inspect.Info{Category: doc.Category.String(), Width: img.Width, Height: img.Height}
	}

	info, err := inspect.Inspect(req.ContentType, req.File)
	if err != nil {
		s.logger.Warn("Failed to inspect document", "error", err, "filename", req.Filename, "content_type", req.ContentType)
	}
	return info
}

func (s *documentService) storedDocument(ctx context.Context, recordID, field string) (*models.StoredDocument, error) {
	raw, err := s.repo.GetField(ctx, recordID, field)
	if err != nil {
		return nil, s.recordError(err, recordID, field)
	}
	return decodeStoredDocument(raw), nil
}

// decodeStoredDocument returns nil when raw is empty or not a stored
// document, e.g. a field that held some other value before.
func decodeStoredDocument(raw json.RawMessage) *models.StoredDocument {
	if len(raw) == 0 {
		return nil
	}
	var doc models.StoredDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil
	}
	return &doc
}

func (s *documentService) removeArchive(ctx context.Context, key string) {
	if s.storage == nil || key == "" {
		return
	}
	if err := s.storage.Delete(ctx, key); err != nil {
		s.logger.Warn("Failed to remove archived original", "error", err, "key", key)
	}
}

func (s *documentService) GetRecord(ctx context.Context, id string) (*models.Record, error) {
	rec, err := s.repo.Get(ctx, id)
	if err != nil {
		s.logger.Error("Failed to get record", "error", err, "id", id)
		return nil, utils.NewInternalError("Failed to retrieve record")
	}
	if rec == nil {
		return nil, utils.NewNotFoundError("Record not found")
	}

	return rec, nil
}

func (s *documentService) DeleteDocument(ctx context.Context, recordID, field string) error {
	raw, err := s.repo.DeleteField(ctx, recordID, field)
	if err != nil {
		return s.recordError(err, recordID, field)
	}
	if raw == nil {
		return utils.NewNotFoundError("Document not found")
	}

	if doc := decodeStoredDocument(raw); doc != nil {
		s.removeArchive(ctx, doc.ArchiveKey)
	}

	s.logger.Info("Document deleted", "record_id", recordID, "field", field)
	return nil
}

// GetOriginal returns the archived bytes of the file stored at field, as the
// user uploaded it.
func (s *documentService) GetOriginal(ctx context.Context, recordID, field string) (*models.Original, error) {
	doc, err := s.storedDocument(ctx, recordID, field)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, utils.NewNotFoundError("Document not found")
	}
	if s.storage == nil || doc.ArchiveKey == "" {
		return nil, utils.NewNotFoundError("Original file is not archived")
	}

	data, err := s.storage.Download(ctx, doc.ArchiveKey)
	if err != nil {
		s.logger.Error("Failed to download archived original", "error", err, "key", doc.ArchiveKey)
		return nil, utils.NewInternalError("Failed to retrieve original file")
	}

	return &models.Original{
		Data:        data,
		Filename:    doc.FileName,
		ContentType: doc.FileType,
	}, nil
}

func (s *documentService) UpdateAddress(ctx context.Context, recordID string, addr models.Address) (*models.Address, error) {
	addr.Normalize()
	if err := addr.Validate(); err != nil {
		return nil, utils.NewBadRequestError(err.Error()).WithKind("invalid_address")
	}

	if _, err := s.repo.SetField(ctx, recordID, AddressField, addr); err != nil {
		return nil, s.recordError(err, recordID, AddressField)
	}

	s.logger.Info("Address updated", "record_id", recordID, "country", addr.Country)
	return &addr, nil
}

func (s *documentService) recordError(err error, recordID, field string) error {
	switch {
	case errors.Is(err, repository.ErrInvalidFieldPath):
		return utils.NewBadRequestError(fmt.Sprintf("Invalid field '%s'", field)).WithKind("invalid_field").WithCause(err)
	case errors.Is(err, repository.ErrRecordTooLarge):
		s.logger.Warn("Record size limit reached", "record_id", recordID, "field", field)
		return utils.NewPayloadTooLargeError("Profile record is full; remove another document before uploading this one").
			WithKind("record_too_large").WithCause(err)
	default:
		s.logger.Error("Failed to update record", "error", err, "record_id", recordID, "field", field)
		return utils.NewInternalError("Failed to save document")
	}
}

// pipelineError maps ingestion failures to client errors.
func pipelineError(err error) error {
	var perr *ingest.Error
	if !errors.As(err, &perr) {
		return utils.NewInternalError("Failed to process document")
	}

	var appErr *utils.AppError
	switch perr.Kind {
	case ingest.KindEncodedResultTooLarge:
		appErr = utils.NewUnprocessableError(perr.Message)
	default:
		appErr = utils.NewBadRequestError(perr.Message)
	}
	return appErr.WithKind(string(perr.Kind)).WithCause(err)
}
