// Package handler exposes a read-only inspection API over the generated
// datasets, for eyeballing output without loading it into a database.
package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/eventhub/datagen/internal/dto"
	"github.com/eventhub/datagen/internal/models"
	"github.com/eventhub/datagen/internal/sink"
)

const defaultListLimit = 100

type DatasetHandler struct {
	sink sink.Sink
}

func NewDatasetHandler(s sink.Sink) *DatasetHandler {
	return &DatasetHandler{sink: s}
}

func (h *DatasetHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api/v1/datasets")
	g.GET("", h.ListDatasets)
	g.GET("/:entity", h.ListRecords)
	g.GET("/:entity/:id", h.GetRecord)
}

func (h *DatasetHandler) ListDatasets(c echo.Context) error {
	summaries := make([]dto.DatasetSummary, 0, len(models.AllEntityTypes()))
	for _, entity := range models.AllEntityTypes() {
		count, err := h.sink.Count(entity)
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		summaries = append(summaries, dto.DatasetSummary{Entity: string(entity), Count: count})
	}
	return c.JSON(http.StatusOK, summaries)
}

func (h *DatasetHandler) ListRecords(c echo.Context) error {
	entity := models.EntityType(c.Param("entity"))
	if !entity.Valid() {
		return echo.NewHTTPError(http.StatusNotFound, "unknown entity type")
	}

	limit := defaultListLimit
	if s := c.QueryParam("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid limit")
		}
		limit = n
	}

	records, err := h.sink.ReadAll(entity)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if len(records) > limit {
		records = records[:limit]
	}
	return c.JSON(http.StatusOK, records)
}

func (h *DatasetHandler) GetRecord(c echo.Context) error {
	entity := models.EntityType(c.Param("entity"))
	if !entity.Valid() {
		return echo.NewHTTPError(http.StatusNotFound, "unknown entity type")
	}
	id := c.Param("id")

	records, err := h.sink.ReadAll(entity)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	key := idField(entity)
	for _, raw := range records {
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(raw, &fields); err != nil {
			continue
		}
		var recID string
		if json.Unmarshal(fields[key], &recID) == nil && recID == id {
			return c.JSONBlob(http.StatusOK, raw)
		}
	}
	return echo.NewHTTPError(http.StatusNotFound, "record not found")
}

func idField(entity models.EntityType) string {
	switch entity {
	case models.EntityUsers:
		return "user_id"
	case models.EntityVenues:
		return "venue_id"
	case models.EntityEvents:
		return "event_id"
	case models.EntityReservations:
		return "reservation_id"
	case models.EntityTickets:
		return "ticket_id"
	case models.EntityKBArticles:
		return "article_id"
	}
	return ""
}
