package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"quoteserver/comparison"
	"quoteserver/database"
	"quoteserver/documents"
	apperrors "quoteserver/server/errors"
)

// Extractor извлекает структурированные данные предложения из текста документа
type Extractor interface {
	Extract(ctx context.Context, pages []string) (*comparison.Quotation, error)
}

// QuotationService сервис для работы с коммерческими предложениями
type QuotationService struct {
	store     *database.Store
	loader    *documents.Loader
	extractor Extractor
}

// NewQuotationService создает новый сервис коммерческих предложений
// extractor может быть nil, если LLM провайдер не настроен
func NewQuotationService(store *database.Store, loader *documents.Loader, extractor Extractor) *QuotationService {
	return &QuotationService{
		store:     store,
		loader:    loader,
		extractor: extractor,
	}
}

// CreateQuotation сохраняет коммерческое предложение
func (s *QuotationService) CreateQuotation(quotation comparison.Quotation, sourceFile string) (*database.StoredQuotation, error) {
	if strings.TrimSpace(quotation.SupplierName) == "" {
		return nil, apperrors.NewValidationError("supplier_name is required", nil)
	}

	stored, err := s.store.SaveQuotation(quotation, sourceFile)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to save quotation", err).
			WithContext("QuotationService.CreateQuotation")
	}
	return stored, nil
}

// GetQuotation возвращает сохраненное предложение по ID
func (s *QuotationService) GetQuotation(id string) (*database.StoredQuotation, error) {
	stored, err := s.store.GetQuotation(id)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, apperrors.NewNotFoundError(fmt.Sprintf("quotation %s not found", id), err)
		}
		return nil, apperrors.NewInternalError("failed to get quotation", err).
			WithContext("QuotationService.GetQuotation")
	}
	return stored, nil
}

// ListQuotations возвращает все сохраненные предложения
func (s *QuotationService) ListQuotations() ([]*database.StoredQuotation, error) {
	quotations, err := s.store.ListQuotations()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list quotations", err).
			WithContext("QuotationService.ListQuotations")
	}
	return quotations, nil
}

// UpdateQuotation обновляет сохраненное предложение
func (s *QuotationService) UpdateQuotation(id string, quotation comparison.Quotation) (*database.StoredQuotation, error) {
	if strings.TrimSpace(quotation.SupplierName) == "" {
		return nil, apperrors.NewValidationError("supplier_name is required", nil)
	}

	stored, err := s.store.UpdateQuotation(id, quotation)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, apperrors.NewNotFoundError(fmt.Sprintf("quotation %s not found", id), err)
		}
		return nil, apperrors.NewInternalError("failed to update quotation", err).
			WithContext("QuotationService.UpdateQuotation")
	}
	return stored, nil
}

// DeleteQuotation удаляет сохраненное предложение
func (s *QuotationService) DeleteQuotation(id string) error {
	if err := s.store.DeleteQuotation(id); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return apperrors.NewNotFoundError(fmt.Sprintf("quotation %s not found", id), err)
		}
		return apperrors.NewInternalError("failed to delete quotation", err).
			WithContext("QuotationService.DeleteQuotation")
	}
	return nil
}

// ExtractFromUpload извлекает данные предложения из загруженного документа
// При save=true извлеченное предложение сохраняется в базу
func (s *QuotationService) ExtractFromUpload(ctx context.Context, filename string, content []byte, save bool) (*comparison.Quotation, *database.StoredQuotation, error) {
	if s.extractor == nil {
		return nil, nil, apperrors.NewServiceUnavailableError("document extraction is not configured", nil)
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if !extensionSupported(ext) {
		return nil, nil, apperrors.NewValidationError(
			fmt.Sprintf("unsupported file format %q, supported: %s", ext, strings.Join(documents.SupportedExtensions, ", ")), nil)
	}
	if len(content) == 0 {
		return nil, nil, apperrors.NewValidationError("uploaded file is empty", nil)
	}

	// Загрузчик работает с файлами, поэтому сохраняем документ во временный файл
	tempFile, err := os.CreateTemp("", "quotation_*"+ext)
	if err != nil {
		return nil, nil, apperrors.NewInternalError("failed to create temp file", err).
			WithContext("QuotationService.ExtractFromUpload")
	}
	tempPath := tempFile.Name()
	defer os.Remove(tempPath)

	if _, err := tempFile.Write(content); err != nil {
		tempFile.Close()
		return nil, nil, apperrors.NewInternalError("failed to write temp file", err).
			WithContext("QuotationService.ExtractFromUpload")
	}
	if err := tempFile.Close(); err != nil {
		return nil, nil, apperrors.NewInternalError("failed to close temp file", err).
			WithContext("QuotationService.ExtractFromUpload")
	}

	doc, err := s.loader.Load(tempPath)
	if err != nil {
		return nil, nil, apperrors.NewValidationError("failed to read document", err)
	}

	quotation, err := s.extractor.Extract(ctx, doc.Pages)
	if err != nil {
		return nil, nil, apperrors.NewBadGatewayError("document extraction failed", err).
			WithContext("QuotationService.ExtractFromUpload")
	}

	var stored *database.StoredQuotation
	if save {
		stored, err = s.store.SaveQuotation(*quotation, filename)
		if err != nil {
			return nil, nil, apperrors.NewInternalError("failed to save extracted quotation", err).
				WithContext("QuotationService.ExtractFromUpload")
		}
	}

	return quotation, stored, nil
}

// extensionSupported проверяет, поддерживается ли расширение документа
func extensionSupported(ext string) bool {
	for _, supported := range documents.SupportedExtensions {
		if ext == supported {
			return true
		}
	}
	return false
}
