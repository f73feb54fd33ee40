package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"golang-backtester/internal/dto"
	"golang-backtester/internal/service"
)

func (h *HttpAPIHandler) SetupJobs(base *echo.Group) {
	v1 := base.Group("/v1/jobs")
	{
		v1.POST("/run", h.RunJobs)
		v1.GET("/next", h.NextJob)
	}
}

func (h *HttpAPIHandler) RunJobs(c echo.Context) error {
	response := dto.NewBaseResponse(http.StatusOK, "Scheduled sweep finished", nil)
	if err := h.service.SchedulerService.Execute(c.Request().Context()); err != nil {
		response.Code = http.StatusInternalServerError
		if errors.Is(err, service.ErrJobRunning) {
			response.Code = http.StatusConflict
		}
		response.Message = err.Error()
	}
	return c.JSON(response.Code, response)
}

func (h *HttpAPIHandler) NextJob(c echo.Context) error {
	next, ok := h.service.SchedulerService.NextRun()
	if !ok {
		return c.JSON(http.StatusOK, dto.NewSuccessResponse("Scheduler is not running", nil))
	}
	return c.JSON(http.StatusOK, dto.NewSuccessResponse("Next scheduled sweep", map[string]string{
		"next_run": next.Format(time.RFC3339),
	}))
}
