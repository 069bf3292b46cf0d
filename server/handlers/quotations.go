package handlers

import (
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"quoteserver/server/middleware"
	"quoteserver/server/models"
	"quoteserver/server/services"
)

// Максимальный размер загружаемого документа (10 МБ)
const maxUploadSize = 10 << 20

// QuotationHandler обработчик для работы с коммерческими предложениями
type QuotationHandler struct {
	quotationService *services.QuotationService
}

// NewQuotationHandler создает новый обработчик коммерческих предложений
func NewQuotationHandler(quotationService *services.QuotationService) *QuotationHandler {
	return &QuotationHandler{
		quotationService: quotationService,
	}
}

// HandleCreateQuotation обработчик сохранения предложения
// @Summary Сохранить коммерческое предложение
// @Description Сохраняет структурированное коммерческое предложение в базу данных
// @Tags quotations
// @Accept json
// @Produce json
// @Param request body models.CreateQuotationRequest true "Данные предложения"
// @Success 201 {object} database.StoredQuotation "Сохраненное предложение"
// @Failure 400 {object} models.ErrorResponse "Некорректные данные"
// @Failure 500 {object} models.ErrorResponse "Внутренняя ошибка сервера"
// @Router /api/quotations [post]
func (h *QuotationHandler) HandleCreateQuotation(c *gin.Context) {
	var req models.CreateQuotationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		SendJSONError(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	stored, err := h.quotationService.CreateQuotation(req.Quotation, req.SourceFile)
	if err != nil {
		middleware.HandleGinError(c, err)
		return
	}

	SendJSONResponse(c, http.StatusCreated, stored)
}

// HandleListQuotations обработчик списка предложений
// @Summary Получить список предложений
// @Description Возвращает все сохраненные коммерческие предложения
// @Tags quotations
// @Produce json
// @Success 200 {object} models.QuotationListResponse "Список предложений"
// @Failure 500 {object} models.ErrorResponse "Внутренняя ошибка сервера"
// @Router /api/quotations [get]
func (h *QuotationHandler) HandleListQuotations(c *gin.Context) {
	quotations, err := h.quotationService.ListQuotations()
	if err != nil {
		middleware.HandleGinError(c, err)
		return
	}

	SendJSONResponse(c, http.StatusOK, models.QuotationListResponse{
		Total:      len(quotations),
		Quotations: quotations,
	})
}

// HandleGetQuotation обработчик получения предложения по ID
// @Summary Получить предложение
// @Description Возвращает сохраненное коммерческое предложение по ID
// @Tags quotations
// @Produce json
// @Param id path string true "ID предложения"
// @Success 200 {object} database.StoredQuotation "Предложение"
// @Failure 404 {object} models.ErrorResponse "Предложение не найдено"
// @Router /api/quotations/{id} [get]
func (h *QuotationHandler) HandleGetQuotation(c *gin.Context) {
	stored, err := h.quotationService.GetQuotation(c.Param("id"))
	if err != nil {
		middleware.HandleGinError(c, err)
		return
	}

	SendJSONResponse(c, http.StatusOK, stored)
}

// HandleUpdateQuotation обработчик обновления предложения
// @Summary Обновить предложение
// @Description Обновляет сохраненное коммерческое предложение
// @Tags quotations
// @Accept json
// @Produce json
// @Param id path string true "ID предложения"
// @Param request body models.CreateQuotationRequest true "Новые данные предложения"
// @Success 200 {object} database.StoredQuotation "Обновленное предложение"
// @Failure 400 {object} models.ErrorResponse "Некорректные данные"
// @Failure 404 {object} models.ErrorResponse "Предложение не найдено"
// @Router /api/quotations/{id} [put]
func (h *QuotationHandler) HandleUpdateQuotation(c *gin.Context) {
	var req models.CreateQuotationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		SendJSONError(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	stored, err := h.quotationService.UpdateQuotation(c.Param("id"), req.Quotation)
	if err != nil {
		middleware.HandleGinError(c, err)
		return
	}

	SendJSONResponse(c, http.StatusOK, stored)
}

// HandleDeleteQuotation обработчик удаления предложения
// @Summary Удалить предложение
// @Description Удаляет сохраненное коммерческое предложение
// @Tags quotations
// @Produce json
// @Param id path string true "ID предложения"
// @Success 200 {object} map[string]interface{} "Результат удаления"
// @Failure 404 {object} models.ErrorResponse "Предложение не найдено"
// @Router /api/quotations/{id} [delete]
func (h *QuotationHandler) HandleDeleteQuotation(c *gin.Context) {
	id := c.Param("id")
	if err := h.quotationService.DeleteQuotation(id); err != nil {
		middleware.HandleGinError(c, err)
		return
	}

	SendJSONResponse(c, http.StatusOK, gin.H{
		"deleted": true,
		"id":      id,
	})
}

// HandleExtractQuotation обработчик извлечения данных из документа.
// Принимает multipart загрузку файла либо JSON с сырым текстом котировки
// @Summary Извлечь предложение из документа
// @Description Загружает документ котировки (multipart) или сырой текст (JSON) и извлекает структурированные данные через LLM
// @Tags quotations
// @Accept multipart/form-data
// @Accept json
// @Produce json
// @Param file formData file false "Документ котировки (txt, md, html)"
// @Param save query bool false "Сохранить извлеченное предложение в базу" default(true)
// @Success 200 {object} models.ExtractionResponse "Извлеченные данные"
// @Failure 400 {object} models.ErrorResponse "Некорректный документ"
// @Failure 502 {object} models.ErrorResponse "Ошибка LLM провайдера"
// @Router /api/quotations/extract [post]
func (h *QuotationHandler) HandleExtractQuotation(c *gin.Context) {
	save := c.DefaultQuery("save", "true") == "true"

	if strings.HasPrefix(c.ContentType(), "application/json") {
		h.extractFromText(c, save)
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		SendJSONError(c, http.StatusBadRequest, "file is required: "+err.Error())
		return
	}
	if fileHeader.Size > maxUploadSize {
		SendJSONError(c, http.StatusBadRequest, "file is too large, maximum size is 10MB")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		SendJSONError(c, http.StatusBadRequest, "failed to open uploaded file: "+err.Error())
		return
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		SendJSONError(c, http.StatusBadRequest, "failed to read uploaded file: "+err.Error())
		return
	}

	quotation, stored, svcErr := h.quotationService.ExtractFromUpload(
		c.Request.Context(), fileHeader.Filename, content, save)
	if svcErr != nil {
		middleware.HandleGinError(c, svcErr)
		return
	}

	SendJSONResponse(c, http.StatusOK, models.ExtractionResponse{
		SourceFile: fileHeader.Filename,
		Quotation:  *quotation,
		Stored:     stored,
	})
}

// extractFromText извлекает данные из сырого текста котировки,
// переданного в JSON теле
func (h *QuotationHandler) extractFromText(c *gin.Context, save bool) {
	var req models.ExtractTextRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		SendJSONError(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	sourceName := req.SourceName
	if sourceName == "" {
		sourceName = "inline.txt"
	}
	if !strings.HasSuffix(strings.ToLower(sourceName), ".txt") {
		sourceName += ".txt"
	}

	quotation, stored, err := h.quotationService.ExtractFromUpload(
		c.Request.Context(), sourceName, []byte(req.Text), save)
	if err != nil {
		middleware.HandleGinError(c, err)
		return
	}

	SendJSONResponse(c, http.StatusOK, models.ExtractionResponse{
		SourceFile: sourceName,
		Quotation:  *quotation,
		Stored:     stored,
	})
}
