package services

import (
	"context"
	"errors"
	"fmt"

	"quoteserver/comparison"
	"quoteserver/database"
	apperrors "quoteserver/server/errors"
)

// ComparisonService сервис для сравнения сохраненных коммерческих предложений
type ComparisonService struct {
	store      *database.Store
	comparator *comparison.Comparator
}

// NewComparisonService создает новый сервис сравнения
func NewComparisonService(store *database.Store, comparator *comparison.Comparator) *ComparisonService {
	return &ComparisonService{
		store:      store,
		comparator: comparator,
	}
}

// RunComparison сравнивает предложения по списку ID и сохраняет результат.
// Пустой список ID означает сравнение всех сохраненных предложений;
// пустая когорта дает пустой результат, а не ошибку
func (s *ComparisonService) RunComparison(ctx context.Context, quotationIDs []string) (*database.ComparisonRun, error) {
	var stored []*database.StoredQuotation
	var err error

	if len(quotationIDs) == 0 {
		stored, err = s.store.ListQuotations()
		if err != nil {
			return nil, apperrors.NewInternalError("failed to list quotations", err).
				WithContext("ComparisonService.RunComparison")
		}
		quotationIDs = make([]string, 0, len(stored))
		for _, sq := range stored {
			quotationIDs = append(quotationIDs, sq.ID)
		}
	} else {
		stored, err = s.store.GetQuotations(quotationIDs)
		if err != nil {
			if errors.Is(err, database.ErrNotFound) {
				return nil, apperrors.NewNotFoundError(err.Error(), err)
			}
			return nil, apperrors.NewInternalError("failed to load quotations", err).
				WithContext("ComparisonService.RunComparison")
		}
	}

	quotations := make([]comparison.Quotation, 0, len(stored))
	for _, sq := range stored {
		quotations = append(quotations, sq.Quotation)
	}

	result, err := s.comparator.Compare(ctx, quotations)
	if err != nil {
		return nil, apperrors.NewBadGatewayError("comparison failed", err).
			WithContext("ComparisonService.RunComparison")
	}

	run, err := s.store.SaveComparison(quotationIDs, result)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to save comparison", err).
			WithContext("ComparisonService.RunComparison")
	}
	return run, nil
}

// GetComparison возвращает сохраненное сравнение по ID
func (s *ComparisonService) GetComparison(id string) (*database.ComparisonRun, error) {
	run, err := s.store.GetComparison(id)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, apperrors.NewNotFoundError(fmt.Sprintf("comparison %s not found", id), err)
		}
		return nil, apperrors.NewInternalError("failed to get comparison", err).
			WithContext("ComparisonService.GetComparison")
	}
	return run, nil
}

// ListComparisons возвращает все сохраненные сравнения
func (s *ComparisonService) ListComparisons() ([]*database.ComparisonRun, error) {
	runs, err := s.store.ListComparisons()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list comparisons", err).
			WithContext("ComparisonService.ListComparisons")
	}
	return runs, nil
}

// DeleteComparison удаляет сохраненное сравнение
func (s *ComparisonService) DeleteComparison(id string) error {
	if err := s.store.DeleteComparison(id); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return apperrors.NewNotFoundError(fmt.Sprintf("comparison %s not found", id), err)
		}
		return apperrors.NewInternalError("failed to delete comparison", err).
			WithContext("ComparisonService.DeleteComparison")
	}
	return nil
}
