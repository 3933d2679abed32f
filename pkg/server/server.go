package server

import (
	"context"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"fable/pkg/enhance"
)

type Server struct {
	Echo     *echo.Echo
	Pipeline *enhance.Pipeline
	Ctx      context.Context
}

func NewServer(ctx context.Context, pipeline *enhance.Pipeline) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Logger())
	e.Use(middleware.CORS())

	s := &Server{
		Echo:     e,
		Pipeline: pipeline,
		Ctx:      ctx,
	}

	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.Echo.GET("/", s.handleGetRoot)

	api := s.Echo.Group("/api")
	api.POST("/stories", s.handlePostStory)
	api.POST("/scenes", s.handlePostScenes)
	api.GET("/stories/:id", s.handleGetStory)

	s.Echo.Static("/images", "images")
}

func (s *Server) Start(addr string) error {
	return s.Echo.Start(addr)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.Echo.Shutdown(ctx)
}
