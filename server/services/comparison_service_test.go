package services

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/suite"

	"quoteserver/comparison"
	"quoteserver/database"
	apperrors "quoteserver/server/errors"
)

// ComparisonServiceTestSuite is a test suite for ComparisonService and ExportService
type ComparisonServiceTestSuite struct {
	suite.Suite
	store   *database.Store
	service *ComparisonService
	exports *ExportService
}

func (s *ComparisonServiceTestSuite) SetupTest() {
	store, err := database.NewStore(":memory:")
	s.Require().NoError(err)

	s.store = store
	s.service = NewComparisonService(store, comparison.NewComparator(nil, nil, nil))
	s.exports = NewExportService(s.service, comparison.NewExporter())
}

func (s *ComparisonServiceTestSuite) TearDownTest() {
	s.store.Close()
}

// saveQuotation сохраняет котировку и возвращает её ID
func (s *ComparisonServiceTestSuite) saveQuotation(supplier string, unitPrice float64) string {
	stored, err := s.store.SaveQuotation(comparison.Quotation{
		SupplierName:     supplier,
		AnnualPrices:     map[int]float64{2027: unitPrice, 2028: unitPrice},
		AnnualQuantities: map[int]int{2027: 1000, 2028: 1000},
		Currency:         comparison.CurrencyEUR,
		PaymentTerms:     "Net 30",
		LeadTime:         "6 weeks",
	}, "")
	s.Require().NoError(err)
	return stored.ID
}

func (s *ComparisonServiceTestSuite) TestRunComparison() {
	idA := s.saveQuotation("Alpha Components", 35.0)
	idB := s.saveQuotation("Beta Industrial", 45.0)

	run, err := s.service.RunComparison(context.Background(), []string{idA, idB})
	s.Require().NoError(err)
	s.NotEmpty(run.ID)
	s.Equal([]string{idA, idB}, run.QuotationIDs)
	s.Require().NotNil(run.Result)
	s.Len(run.Result.ComparisonTable, 2)

	// Более дешевый поставщик получает первый ранг
	s.Equal("Alpha Components", run.Result.ComparisonTable[0].Supplier)
	s.Equal(1, run.Result.ComparisonTable[0].Ranking)
}

func (s *ComparisonServiceTestSuite) TestRunComparison_EmptyIDsComparesAll() {
	idA := s.saveQuotation("Alpha Components", 35.0)
	idB := s.saveQuotation("Beta Industrial", 45.0)

	run, err := s.service.RunComparison(context.Background(), nil)
	s.Require().NoError(err)
	s.ElementsMatch([]string{idA, idB}, run.QuotationIDs)
	s.Len(run.Result.ComparisonTable, 2)
}

func (s *ComparisonServiceTestSuite) TestRunComparison_EmptyStore() {
	run, err := s.service.RunComparison(context.Background(), nil)
	s.Require().NoError(err)
	s.Empty(run.QuotationIDs)
	s.Require().NotNil(run.Result)
	s.Empty(run.Result.ComparisonTable)
	s.Nil(run.Result.Summary)
}

func (s *ComparisonServiceTestSuite) TestRunComparison_UnknownID() {
	idA := s.saveQuotation("Alpha Components", 35.0)

	_, err := s.service.RunComparison(context.Background(), []string{idA, "no-such-id"})
	s.Require().Error(err)

	var appErr *apperrors.AppError
	s.Require().ErrorAs(err, &appErr)
	s.Equal(http.StatusNotFound, appErr.StatusCode())
}

func (s *ComparisonServiceTestSuite) TestGetComparison() {
	idA := s.saveQuotation("Alpha Components", 35.0)
	run, err := s.service.RunComparison(context.Background(), []string{idA})
	s.Require().NoError(err)

	loaded, err := s.service.GetComparison(run.ID)
	s.Require().NoError(err)
	s.Equal(run.ID, loaded.ID)
	s.Len(loaded.Result.ComparisonTable, 1)
}

func (s *ComparisonServiceTestSuite) TestGetComparison_NotFound() {
	_, err := s.service.GetComparison("no-such-id")
	s.Require().Error(err)

	var appErr *apperrors.AppError
	s.Require().ErrorAs(err, &appErr)
	s.Equal(http.StatusNotFound, appErr.StatusCode())
}

func (s *ComparisonServiceTestSuite) TestDeleteComparison() {
	idA := s.saveQuotation("Alpha Components", 35.0)
	run, err := s.service.RunComparison(context.Background(), []string{idA})
	s.Require().NoError(err)

	s.Require().NoError(s.service.DeleteComparison(run.ID))

	_, err = s.service.GetComparison(run.ID)
	s.Require().Error(err)
}

func (s *ComparisonServiceTestSuite) TestListComparisons() {
	idA := s.saveQuotation("Alpha Components", 35.0)
	for i := 0; i < 2; i++ {
		_, err := s.service.RunComparison(context.Background(), []string{idA})
		s.Require().NoError(err)
	}

	runs, err := s.service.ListComparisons()
	s.Require().NoError(err)
	s.Len(runs, 2)
}

func (s *ComparisonServiceTestSuite) TestExportComparison_JSON() {
	idA := s.saveQuotation("Alpha Components", 35.0)
	run, err := s.service.RunComparison(context.Background(), []string{idA})
	s.Require().NoError(err)

	data, contentType, filename, err := s.exports.ExportComparison(run.ID, "json")
	s.Require().NoError(err)
	s.Contains(contentType, "application/json")
	s.Equal("comparison_"+run.ID+".json", filename)
	s.Contains(string(data), "Alpha Components")
}

func (s *ComparisonServiceTestSuite) TestExportComparison_DefaultFormat() {
	idA := s.saveQuotation("Alpha Components", 35.0)
	run, err := s.service.RunComparison(context.Background(), []string{idA})
	s.Require().NoError(err)

	_, contentType, _, err := s.exports.ExportComparison(run.ID, "")
	s.Require().NoError(err)
	s.Contains(contentType, "application/json")
}

func (s *ComparisonServiceTestSuite) TestExportComparison_Excel() {
	idA := s.saveQuotation("Alpha Components", 35.0)
	run, err := s.service.RunComparison(context.Background(), []string{idA})
	s.Require().NoError(err)

	data, contentType, filename, err := s.exports.ExportComparison(run.ID, "xlsx")
	s.Require().NoError(err)
	s.Equal("application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", contentType)
	s.Equal("comparison_"+run.ID+".xlsx", filename)
	s.NotEmpty(data)
}

func (s *ComparisonServiceTestSuite) TestExportComparison_UnsupportedFormat() {
	_, _, _, err := s.exports.ExportComparison("any", "pdf")
	s.Require().Error(err)

	var appErr *apperrors.AppError
	s.Require().ErrorAs(err, &appErr)
	s.Equal(http.StatusBadRequest, appErr.StatusCode())
}

func (s *ComparisonServiceTestSuite) TestExportComparison_NotFound() {
	_, _, _, err := s.exports.ExportComparison("no-such-id", "json")
	s.Require().Error(err)

	var appErr *apperrors.AppError
	s.Require().ErrorAs(err, &appErr)
	s.Equal(http.StatusNotFound, appErr.StatusCode())
}

func TestComparisonServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ComparisonServiceTestSuite))
}
