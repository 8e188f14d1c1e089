package http

import (
	"fmt"
	"net/http"
	"os"

	"github.com/labstack/echo/v4"
	"gopkg.in/yaml.v3"
)

// PageEndpoint is one capability a screen is allowed to call.
type PageEndpoint struct {
	Name   string `yaml:"name" json:"name"`
	Method string `yaml:"method" json:"method"`
	Path   string `yaml:"path" json:"path"`
}

// PageManifest maps screen ids to the endpoints they may use. Loaded once at
// startup from a yaml file.
type PageManifest struct {
	Pages map[string][]PageEndpoint `yaml:"pages"`
}

func LoadPageManifest(path string) (*PageManifest, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read page manifest: %w", err)
	}
	var m PageManifest
	if err := yaml.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("parse page manifest: %w", err)
	}
	return &m, nil
}

type PagesHandler struct{ manifest *PageManifest }

func NewPagesHandler(m *PageManifest) *PagesHandler { return &PagesHandler{manifest: m} }

func (h *PagesHandler) Endpoints(c echo.Context) error {
	pageID := c.Param("page_id")
	endpoints, ok := h.manifest.Pages[pageID]
	if !ok {
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: "unknown page " + pageID})
	}
	return c.JSON(http.StatusOK, map[string]any{
		"pageId":    pageID,
		"endpoints": endpoints,
	})
}
