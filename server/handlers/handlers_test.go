package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quoteserver/comparison"
	"quoteserver/database"
	"quoteserver/documents"
	"quoteserver/server/middleware"
	"quoteserver/server/models"
	"quoteserver/server/services"
)

// setupTestRouter собирает роутер с реальными сервисами поверх
// in-memory базы, без LLM клиента
func setupTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store, err := database.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	quotationService := services.NewQuotationService(store, documents.NewLoader(), nil)
	comparisonService := services.NewComparisonService(store, comparison.NewComparator(nil, nil, nil))
	exportService := services.NewExportService(comparisonService, comparison.NewExporter())

	middleware.InitErrorMetrics()

	router := gin.New()
	router.Use(middleware.GinRequestIDMiddleware())
	RegisterRoutes(router,
		NewQuotationHandler(quotationService),
		NewComparisonHandler(comparisonService, exportService),
		NewSystemHandler(store, "groq", ""),
	)
	return router
}

// postJSON выполняет POST запрос с JSON телом
func postJSON(t *testing.T, router *gin.Engine, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	data, err := json.Marshal(body)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	return w
}

// createTestQuotation сохраняет котировку через API и возвращает её ID
func createTestQuotation(t *testing.T, router *gin.Engine, supplier string, unitPrice float64) string {
	t.Helper()

	w := postJSON(t, router, "/api/quotations", models.CreateQuotationRequest{
		SourceFile: "offer.txt",
		Quotation: comparison.Quotation{
			SupplierName:     supplier,
			AnnualPrices:     map[int]float64{2027: unitPrice, 2028: unitPrice},
			AnnualQuantities: map[int]int{2027: 1000, 2028: 1000},
			Currency:         comparison.CurrencyEUR,
			PaymentTerms:     "Net 30",
			LeadTime:         "6 weeks",
		},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var stored database.StoredQuotation
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stored))
	require.NotEmpty(t, stored.ID)
	return stored.ID
}

func TestCreateAndGetQuotation(t *testing.T) {
	router := setupTestRouter(t)

	id := createTestQuotation(t, router, "Acme Precision GmbH", 37.0)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/quotations/"+id, nil))
	require.Equal(t, http.StatusOK, w.Code)

	var stored database.StoredQuotation
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stored))
	assert.Equal(t, "Acme Precision GmbH", stored.Quotation.SupplierName)
	assert.Equal(t, "offer.txt", stored.SourceFile)
}

func TestCreateQuotation_InvalidBody(t *testing.T) {
	router := setupTestRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/quotations", bytes.NewReader([]byte("{broken")))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateQuotation_MissingSupplier(t *testing.T) {
	router := setupTestRouter(t)

	w := postJSON(t, router, "/api/quotations", models.CreateQuotationRequest{
		Quotation: comparison.Quotation{Currency: comparison.CurrencyEUR},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetQuotation_NotFound(t *testing.T) {
	router := setupTestRouter(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/quotations/no-such-id", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListQuotations(t *testing.T) {
	router := setupTestRouter(t)

	createTestQuotation(t, router, "Alpha Components", 35.0)
	createTestQuotation(t, router, "Beta Industrial", 45.0)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/quotations", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var resp models.QuotationListResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Total)
	assert.Len(t, resp.Quotations, 2)
}

func TestDeleteQuotation(t *testing.T) {
	router := setupTestRouter(t)

	id := createTestQuotation(t, router, "Alpha Components", 35.0)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/api/quotations/"+id, nil))
	require.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/quotations/"+id, nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRunAndGetComparison(t *testing.T) {
	router := setupTestRouter(t)

	idA := createTestQuotation(t, router, "Alpha Components", 35.0)
	idB := createTestQuotation(t, router, "Beta Industrial", 45.0)

	w := postJSON(t, router, "/api/comparisons", models.CompareRequest{
		QuotationIDs: []string{idA, idB},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var run database.ComparisonRun
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &run))
	require.NotNil(t, run.Result)
	require.Len(t, run.Result.ComparisonTable, 2)
	assert.Equal(t, "Alpha Components", run.Result.ComparisonTable[0].Supplier)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/comparisons/"+run.ID, nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRunComparison_EmptyIDsComparesAll(t *testing.T) {
	router := setupTestRouter(t)

	createTestQuotation(t, router, "Alpha Components", 35.0)
	createTestQuotation(t, router, "Beta Industrial", 45.0)

	w := postJSON(t, router, "/api/comparisons", models.CompareRequest{})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var run database.ComparisonRun
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &run))
	assert.Len(t, run.QuotationIDs, 2)
	assert.Len(t, run.Result.ComparisonTable, 2)
}

func TestRunComparison_EmptyStore(t *testing.T) {
	router := setupTestRouter(t)

	w := postJSON(t, router, "/api/comparisons", models.CompareRequest{})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var run database.ComparisonRun
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &run))
	assert.Empty(t, run.Result.ComparisonTable)
}

func TestRunComparison_UnknownQuotation(t *testing.T) {
	router := setupTestRouter(t)

	w := postJSON(t, router, "/api/comparisons", models.CompareRequest{
		QuotationIDs: []string{"no-such-id"},
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestExportComparison_CSV(t *testing.T) {
	router := setupTestRouter(t)

	idA := createTestQuotation(t, router, "Alpha Components", 35.0)
	w := postJSON(t, router, "/api/comparisons", models.CompareRequest{
		QuotationIDs: []string{idA},
	})
	require.Equal(t, http.StatusOK, w.Code)

	var run database.ComparisonRun
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &run))

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/comparisons/"+run.ID+"/export?format=csv", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/csv")
	assert.Contains(t, w.Header().Get("Content-Disposition"), "comparison_"+run.ID+".csv")
	assert.Contains(t, w.Body.String(), "Alpha Components")
}

func TestExportComparison_UnsupportedFormat(t *testing.T) {
	router := setupTestRouter(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/comparisons/any/export?format=pdf", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestExtractQuotation_NoFile(t *testing.T) {
	router := setupTestRouter(t)

	var body bytes.Buffer
	req := httptest.NewRequest(http.MethodPost, "/api/quotations/extract", &body)
	req.Header.Set("Content-Type", "multipart/form-data")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	// Без файла запрос отклоняется до обращения к сервису
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestExtractQuotation_RawText_NoLLMConfigured(t *testing.T) {
	router := setupTestRouter(t)

	w := postJSON(t, router, "/api/quotations/extract", models.ExtractTextRequest{
		Text: "Quotation from Acme Precision GmbH",
	})
	// LLM клиент не настроен, извлечение недоступно
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestHealth(t *testing.T) {
	router := setupTestRouter(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var resp models.HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "groq", resp.LLMProvider)
}

func TestErrorMetricsEndpoint(t *testing.T) {
	router := setupTestRouter(t)

	// Провоцируем ошибку, чтобы метрики были ненулевыми
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/quotations/no-such-id", nil))
	require.Equal(t, http.StatusNotFound, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/metrics/errors", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var stats map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
	assert.GreaterOrEqual(t, stats["total_errors"].(float64), float64(1))
}
