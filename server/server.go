package server

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/feedmirror/feedmirror/server/metrics"
	servertypes "github.com/feedmirror/feedmirror/server/types"
)

type Server struct {
	*fiber.App
	config servertypes.ServerConfig
}

func NewServer(config servertypes.ServerConfig) *Server {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})

	if config.AllowOrigins != "" {
		app.Use(cors.New(cors.Config{
			AllowOrigins: config.AllowOrigins,
			AllowHeaders: config.AllowHeaders,
			AllowMethods: config.AllowMethods,
		}))
	}

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(metrics.CustomRegistry, promhttp.HandlerOpts{})))

	return &Server{
		App:    app,
		config: config,
	}
}

func (s *Server) Start() error {
	return s.Listen(s.config.Address)
}

func (s *Server) RegisterQuerier(path string, fn func(c *fiber.Ctx) error) {
	s.Get(path, fn)
}
