package server

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"fable/pkg/schema"
	"fable/pkg/utils"
)

func (s *Server) handleGetRoot(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"service": "Fable Storybook API",
		"status":  "ok",
	})
}

// GET /api/stories/:id
func (s *Server) handleGetStory(c echo.Context) error {
	id := utils.SanitizeFilename(c.Param("id"))
	result, err := utils.Load[schema.StoryResult]("stories/" + id + ".json")
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "story not found")
	}
	return c.JSON(http.StatusOK, result)
}
