package server

import (
	"net/http"

	"app/internal/auth"
	"app/internal/handler"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"
)

type Handlers struct {
	Auth       *handler.AuthHandler
	Admin      *handler.AdminHandler
	Restaurant *handler.RestaurantHandler
	Product    *handler.ProductHandler
	Courier    *handler.CourierHandler
	Order      *handler.OrderHandler
	Consumer   *handler.ConsumerHandler
}

// New はルーティングとミドルウェアを組んだechoを返す。
func New(log *logrus.Logger, tokens *auth.TokenService, h Handlers) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	e.Use(echomw.Recover())
	e.Use(requestLogger(log))

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	h.Auth.RegisterRoutes(e)
	h.Admin.RegisterRoutes(e, tokens)
	h.Restaurant.RegisterRoutes(e, tokens)
	h.Product.RegisterRoutes(e, tokens)
	h.Courier.RegisterRoutes(e, tokens)
	h.Order.RegisterRoutes(e, tokens)
	h.Consumer.RegisterRoutes(e, tokens)

	return e
}

// 1リクエスト1行の構造化ログ。
func requestLogger(log *logrus.Logger) echo.MiddlewareFunc {
	return echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogStatus:  true,
		LogURI:     true,
		LogMethod:  true,
		LogLatency: true,
		LogError:   true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			fields := logrus.Fields{
				"method":  v.Method,
				"uri":     v.URI,
				"status":  v.Status,
				"latency": v.Latency.String(),
			}
			if v.Error != nil {
				fields["error"] = v.Error.Error()
				log.WithFields(fields).Error("request failed")
				return nil
			}
			log.WithFields(fields).Info("request")
			return nil
		},
	})
}
