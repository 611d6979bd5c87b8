package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/heptiolabs/healthcheck"
	"github.com/milkeg/CryptoBot/entity"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func statusFor(err error) int {
	switch {
	case errors.Is(err, entity.ErrInvalidArgument):
		return http.StatusBadRequest
	case errors.Is(err, entity.ErrAuth):
		return http.StatusUnauthorized
	case errors.Is(err, entity.ErrTransport):
		return http.StatusGatewayTimeout
	default:
		return http.StatusBadGateway
	}
}

func errorResponse(ctx *gin.Context, code int, err string) {
	ctx.JSON(code, entity.Response{
		Code:    code,
		Message: http.StatusText(code),
		Error:   err,
	})
}

func okResponse(ctx *gin.Context, data any, errs []string) {
	ctx.JSON(http.StatusOK, entity.Response{
		Success: true,
		Code:    http.StatusOK,
		Message: http.StatusText(http.StatusOK),
		Data:    data,
		Errors:  errs,
	})
}

func newRouter(b *bot, health healthcheck.Handler) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/orderbook/:exchange/:symbol", func(ctx *gin.Context) {
		a, ok := b.adapter(ctx.Param("exchange"))
		if !ok {
			errorResponse(ctx, http.StatusNotFound, "unknown exchange "+ctx.Param("exchange"))
			return
		}

		ob, err := a.GetOrderbook(ctx.Request.Context(), ctx.Param("symbol"))
		if err != nil {
			b.logger.WithField("exchange", a.Name()).Errorf("[bot][router][orderbook][GetOrderbook] Error: %v", err)
			errorResponse(ctx, statusFor(err), err.Error())
			return
		}

		okResponse(ctx, ob, nil)
	})

	router.GET("/pairs/:name/orderbooks", func(ctx *gin.Context) {
		pair, ok := b.pair(ctx.Param("name"))
		if !ok {
			errorResponse(ctx, http.StatusNotFound, "unknown pair "+ctx.Param("name"))
			return
		}

		obs, errs := b.pairOrderbooks(ctx.Request.Context(), pair)

		var msgs []string
		for _, name := range b.exchangeNames() {
			if err, ok := errs[name]; ok {
				msgs = append(msgs, err.Error())
			}
		}

		okResponse(ctx, obs, msgs)
	})

	router.GET("/balances/:exchange", func(ctx *gin.Context) {
		a, ok := b.adapter(ctx.Param("exchange"))
		if !ok {
			errorResponse(ctx, http.StatusNotFound, "unknown exchange "+ctx.Param("exchange"))
			return
		}

		balances, err := a.GetBalances(ctx.Request.Context())
		if err != nil && !errors.Is(err, entity.ErrInconsistentBalance) {
			b.logger.WithField("exchange", a.Name()).Errorf("[bot][router][balances][GetBalances] Error: %v", err)
			errorResponse(ctx, statusFor(err), err.Error())
			return
		}

		var msgs []string
		if err != nil {
			msgs = append(msgs, err.Error())
		}

		okResponse(ctx, balances, msgs)
	})

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	if health != nil {
		router.GET("/live", gin.WrapF(health.LiveEndpoint))
		router.GET("/ready", gin.WrapF(health.ReadyEndpoint))
	}

	return router
}

// runHttpServer blocks until SIGINT or SIGTERM, then shuts the server down.
func runHttpServer(router http.Handler, port string, quit chan os.Signal) error {
	srv := http.Server{
		Handler: router,
		Addr:    port,
	}

	chErr := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			chErr <- err
		}
	}()

	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-quit:
	case err := <-chErr:
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return srv.Shutdown(ctx)
}
