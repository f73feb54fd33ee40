package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"golang-backtester/internal/dto"
	"golang-backtester/internal/repository"
	"golang-backtester/pkg/logger"
)

func (h *HttpAPIHandler) SetupBacktest(base *echo.Group) {
	backtestGroup := base.Group("/v1/backtest")
	backtestGroup.POST("", h.runBacktest)
	backtestGroup.POST("/sweep", h.runSweep)
}

func (h *HttpAPIHandler) runBacktest(c echo.Context) error {
	ctx := c.Request().Context()

	req := new(dto.BacktestRequest)
	if ok, err := h.bindAndValidate(c, req); !ok {
		return err
	}

	result, err := h.service.BacktestService.RunBacktest(ctx, *req)
	if err != nil {
		h.log.ErrorContext(ctx, "Failed to run backtest", logger.TickerField(req.Ticker), logger.ErrorField(err))
		if isClientError(err) || errors.Is(err, repository.ErrNoPriceData) {
			return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse(err.Error()))
		}
		return c.JSON(http.StatusInternalServerError, dto.NewBaseResponse(http.StatusInternalServerError, "failed to run backtest", nil))
	}

	return c.JSON(http.StatusOK, dto.NewSuccessResponse("Backtest completed", result))
}

func (h *HttpAPIHandler) runSweep(c echo.Context) error {
	ctx := c.Request().Context()

	req := new(dto.SweepRequest)
	if ok, err := h.bindAndValidate(c, req); !ok {
		return err
	}

	items, err := h.service.BacktestService.RunSweep(ctx, *req)
	if err != nil {
		h.log.ErrorContext(ctx, "Failed to run sweep", logger.ErrorField(err))
		if isClientError(err) {
			return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse(err.Error()))
		}
		return c.JSON(http.StatusInternalServerError, dto.NewBaseResponse(http.StatusInternalServerError, "failed to run sweep", nil))
	}

	// the sweep response stays small, per-day values are only on single runs
	for i := range items {
		if items[i].Result != nil {
			items[i].Result.Values = nil
		}
	}
	return c.JSON(http.StatusOK, dto.NewSuccessResponse("Sweep completed", items))
}

func isClientError(err error) bool {
	return errors.Is(err, repository.ErrInvalidRange) || errors.Is(err, repository.ErrRangeTooLong)
}
