package routes

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"plexus/internal/server/middleware"
	"plexus/internal/store"
	"plexus/pkg/logger"
)

// GetGraphHandler returns a notebook's extracted graph. With ?node=<id>
// the response is narrowed to the links touching that node.
func GetGraphHandler(c echo.Context) error {
	app := c.(*middleware.AppContext).App
	st := store.New(app.DBConn)
	ctx := c.Request().Context()

	graph, err := st.GetGraph(ctx, c.Param("id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "Notebook not found"})
		}
		logger.Error("Failed to load graph", "err", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
	}

	if nodeID := c.QueryParam("node"); nodeID != "" {
		return c.JSON(http.StatusOK, map[string]any{
			"node":  nodeID,
			"links": graph.LinksTouching(nodeID),
		})
	}

	return c.JSON(http.StatusOK, map[string]any{"graph": graph})
}

// SearchGraphHandler finds the nodes most similar to a free-text query
// using the stored embeddings.
func SearchGraphHandler(c echo.Context) error {
	app := c.(*middleware.AppContext).App
	st := store.New(app.DBConn)
	ctx := c.Request().Context()

	query := c.QueryParam("q")
	if query == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Missing query parameter q"})
	}

	topK := 10
	if raw := c.QueryParam("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 100 {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid limit"})
		}
		topK = parsed
	}

	embedding, err := app.AiClient.GenerateEmbedding(ctx, []byte(query))
	if err != nil {
		logger.Error("Failed to embed search query", "err", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
	}

	nodes, err := st.FindSimilarNodes(ctx, c.Param("id"), embedding, topK)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "Notebook not found"})
		}
		logger.Error("Failed to search nodes", "err", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
	}

	return c.JSON(http.StatusOK, map[string]any{"nodes": nodes})
}
