package http

import (
	"context"
	"net/http"

	goValidator "github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"golang-backtester/internal/dto"
	"golang-backtester/internal/service"
	"golang-backtester/pkg/logger"
)

type HttpAPIHandler struct {
	ctx       context.Context
	echo      *echo.Echo
	validator *goValidator.Validate
	log       *logger.Logger
	service   *service.Service
}

func NewHttpAPIHandler(ctx context.Context, echo *echo.Echo, validator *goValidator.Validate, log *logger.Logger, service *service.Service) *HttpAPIHandler {
	return &HttpAPIHandler{
		ctx:       ctx,
		echo:      echo,
		validator: validator,
		log:       log,
		service:   service,
	}
}

func (h *HttpAPIHandler) SetupRoutes() {
	h.echo.GET("/health", h.health)

	base := h.echo.Group("/api")
	h.SetupJobs(base)
	h.SetupBacktest(base)
}

func (h *HttpAPIHandler) health(c echo.Context) error {
	return c.JSON(http.StatusOK, dto.NewSuccessResponse("ok", nil))
}

// bindAndValidate decodes the JSON body into req and runs the struct tags.
// On failure the 400 response is already written and ok is false.
func (h *HttpAPIHandler) bindAndValidate(c echo.Context, req interface{}) (bool, error) {
	if err := c.Bind(req); err != nil {
		return false, c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse("invalid request body"))
	}
	if err := h.validator.Struct(req); err != nil {
		return false, c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse(err.Error()))
	}
	return true, nil
}
