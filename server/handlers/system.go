package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"quoteserver/database"
	"quoteserver/server/middleware"
	"quoteserver/server/models"
)

// SystemHandler обработчик системных эндпоинтов
type SystemHandler struct {
	store       *database.Store
	llmProvider string
	llmModel    string
}

// NewSystemHandler создает новый системный обработчик
func NewSystemHandler(store *database.Store, llmProvider, llmModel string) *SystemHandler {
	return &SystemHandler{
		store:       store,
		llmProvider: llmProvider,
		llmModel:    llmModel,
	}
}

// HandleHealth обработчик проверки состояния сервиса
// @Summary Проверка состояния
// @Description Возвращает статус сервиса и подключения к базе данных
// @Tags system
// @Produce json
// @Success 200 {object} models.HealthResponse "Сервис работает"
// @Failure 503 {object} models.HealthResponse "База данных недоступна"
// @Router /health [get]
func (h *SystemHandler) HandleHealth(c *gin.Context) {
	response := models.HealthResponse{
		Status:      "ok",
		Database:    "ok",
		LLMProvider: h.llmProvider,
		LLMModel:    h.llmModel,
		Timestamp:   time.Now().Format(time.RFC3339),
	}

	statusCode := http.StatusOK
	if err := h.store.Ping(); err != nil {
		response.Status = "degraded"
		response.Database = "unavailable"
		statusCode = http.StatusServiceUnavailable
	}

	SendJSONResponse(c, statusCode, response)
}

// HandleErrorMetrics обработчик метрик ошибок API
// @Summary Метрики ошибок
// @Description Возвращает накопленные метрики ошибок API
// @Tags system
// @Produce json
// @Success 200 {object} map[string]interface{} "Метрики ошибок"
// @Router /api/metrics/errors [get]
func (h *SystemHandler) HandleErrorMetrics(c *gin.Context) {
	SendJSONResponse(c, http.StatusOK, middleware.GetErrorMetrics().GetStats())
}
