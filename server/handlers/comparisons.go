package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"quoteserver/server/middleware"
	"quoteserver/server/models"
	"quoteserver/server/services"
)

// ComparisonHandler обработчик для сравнения коммерческих предложений
type ComparisonHandler struct {
	comparisonService *services.ComparisonService
	exportService     *services.ExportService
}

// NewComparisonHandler создает новый обработчик сравнений
func NewComparisonHandler(comparisonService *services.ComparisonService, exportService *services.ExportService) *ComparisonHandler {
	return &ComparisonHandler{
		comparisonService: comparisonService,
		exportService:     exportService,
	}
}

// HandleRunComparison обработчик запуска сравнения
// @Summary Сравнить предложения
// @Description Сравнивает сохраненные предложения по списку ID, рассчитывает рейтинг и рекомендацию
// @Tags comparisons
// @Accept json
// @Produce json
// @Param request body models.CompareRequest true "Список ID предложений (пустой список = все сохраненные)"
// @Success 200 {object} database.ComparisonRun "Результат сравнения"
// @Failure 400 {object} models.ErrorResponse "Некорректный запрос"
// @Failure 404 {object} models.ErrorResponse "Предложение не найдено"
// @Failure 502 {object} models.ErrorResponse "Ошибка LLM провайдера"
// @Router /api/comparisons [post]
func (h *ComparisonHandler) HandleRunComparison(c *gin.Context) {
	var req models.CompareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		SendJSONError(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	run, err := h.comparisonService.RunComparison(c.Request.Context(), req.QuotationIDs)
	if err != nil {
		middleware.HandleGinError(c, err)
		return
	}

	SendJSONResponse(c, http.StatusOK, run)
}

// HandleListComparisons обработчик списка сравнений
// @Summary Получить список сравнений
// @Description Возвращает все выполненные сравнения
// @Tags comparisons
// @Produce json
// @Success 200 {object} models.ComparisonListResponse "Список сравнений"
// @Failure 500 {object} models.ErrorResponse "Внутренняя ошибка сервера"
// @Router /api/comparisons [get]
func (h *ComparisonHandler) HandleListComparisons(c *gin.Context) {
	runs, err := h.comparisonService.ListComparisons()
	if err != nil {
		middleware.HandleGinError(c, err)
		return
	}

	SendJSONResponse(c, http.StatusOK, models.ComparisonListResponse{
		Total:       len(runs),
		Comparisons: runs,
	})
}

// HandleGetComparison обработчик получения сравнения по ID
// @Summary Получить сравнение
// @Description Возвращает сохраненное сравнение по ID
// @Tags comparisons
// @Produce json
// @Param id path string true "ID сравнения"
// @Success 200 {object} database.ComparisonRun "Сравнение"
// @Failure 404 {object} models.ErrorResponse "Сравнение не найдено"
// @Router /api/comparisons/{id} [get]
func (h *ComparisonHandler) HandleGetComparison(c *gin.Context) {
	run, err := h.comparisonService.GetComparison(c.Param("id"))
	if err != nil {
		middleware.HandleGinError(c, err)
		return
	}

	SendJSONResponse(c, http.StatusOK, run)
}

// HandleDeleteComparison обработчик удаления сравнения
// @Summary Удалить сравнение
// @Description Удаляет сохраненное сравнение
// @Tags comparisons
// @Produce json
// @Param id path string true "ID сравнения"
// @Success 200 {object} map[string]interface{} "Результат удаления"
// @Failure 404 {object} models.ErrorResponse "Сравнение не найдено"
// @Router /api/comparisons/{id} [delete]
func (h *ComparisonHandler) HandleDeleteComparison(c *gin.Context) {
	id := c.Param("id")
	if err := h.comparisonService.DeleteComparison(id); err != nil {
		middleware.HandleGinError(c, err)
		return
	}

	SendJSONResponse(c, http.StatusOK, gin.H{
		"deleted": true,
		"id":      id,
	})
}

// HandleExportComparison обработчик экспорта сравнения
// @Summary Экспортировать сравнение
// @Description Выгружает сохраненное сравнение в формате JSON, CSV или Excel
// @Tags comparisons
// @Produce json
// @Produce text/csv
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param id path string true "ID сравнения"
// @Param format query string false "Формат экспорта (json, csv, xlsx)" default(json)
// @Success 200 {file} file "Файл экспорта"
// @Failure 400 {object} models.ErrorResponse "Неподдерживаемый формат"
// @Failure 404 {object} models.ErrorResponse "Сравнение не найдено"
// @Router /api/comparisons/{id}/export [get]
func (h *ComparisonHandler) HandleExportComparison(c *gin.Context) {
	data, contentType, filename, err := h.exportService.ExportComparison(c.Param("id"), c.Query("format"))
	if err != nil {
		middleware.HandleGinError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, contentType, data)
}
