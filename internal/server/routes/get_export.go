package routes

import (
	"bytes"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"plexus/internal/server/middleware"
	"plexus/internal/store"
	"plexus/pkg/layout"
	"plexus/pkg/logger"
	"plexus/pkg/render"
)

// ExportSVGHandler renders the stored layout of a notebook as an SVG
// document. The snapshot's positions and viewport are replayed into an
// engine so the export matches what the client last showed.
func ExportSVGHandler(c echo.Context) error {
	app := c.(*middleware.AppContext).App
	st := store.New(app.DBConn)
	ctx := c.Request().Context()
	notebookID := c.Param("id")

	graph, err := st.GetGraph(ctx, notebookID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "Notebook not found"})
		}
		logger.Error("Failed to load graph", "err", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
	}
	if len(graph.Nodes) == 0 {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Notebook has no graph"})
	}

	snap, err := st.GetLayout(ctx, notebookID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "No layout snapshot"})
		}
		logger.Error("Failed to load layout", "err", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
	}

	cfg := layout.DefaultConfig()
	cfg.Seed = snap.Seed
	engine, err := layout.New(graph, cfg)
	if err != nil {
		logger.Error("Failed to build layout engine", "err", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
	}
	engine.SetPositions(snap.Positions)
	*engine.Viewport() = snap.Viewport

	opts := render.DefaultOptions()
	opts.Width = cfg.Width
	opts.Height = cfg.Height
	opts.DrawLabels = c.QueryParam("labels") != "false"

	var buf bytes.Buffer
	if err := render.SVG(&buf, engine.Frame(c.QueryParam("node")), opts); err != nil {
		logger.Error("Failed to render svg", "err", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
	}

	return c.Blob(http.StatusOK, "image/svg+xml", buf.Bytes())
}
