package handler

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	inventoryapp "github.com/stockroom/backend/internal/application/inventory"
)

const csvContentType = "text/csv; charset=utf-8"

// InventoryHandler serves the activity log and inventory item read endpoints
type InventoryHandler struct {
	BaseHandler
	queryService *inventoryapp.QueryService
}

// NewInventoryHandler creates a new InventoryHandler
func NewInventoryHandler(queryService *inventoryapp.QueryService) *InventoryHandler {
	return &InventoryHandler{
		queryService: queryService,
	}
}

// ListLogs godoc
// @ID           listLogs
// @Summary      List activity log entries
// @Description  One page of the filtered and sorted activity log, with the size of the filtered set
// @Tags         logs
// @Produce      json
// @Param        page query int false "Zero-based page index" default(0) minimum(0)
// @Param        limit query int false "Page size" default(20) minimum(1) maximum(1000)
// @Param        orderBy query string false "Sort key" Enums(date, staff, item, quantity, category)
// @Param        order query string false "Sort direction" Enums(asc, desc)
// @Param        search query string false "Case-insensitive substring of the item definition, category, assignee, staff name or staff email"
// @Param        category query string false "Exact category name"
// @Param        startDate query string false "Inclusive lower bound (2006-01-02 or RFC3339)"
// @Param        endDate query string false "Inclusive upper bound (2006-01-02 or RFC3339)"
// @Param        internal query boolean false "Only internal item definitions"
// @Success      200 {object} dto.Response{payload=dto.Page[inventory.LogEntryView]}
// @Failure      400 {object} dto.Response
// @Failure      401 {object} dto.Response
// @Failure      500 {object} dto.Response
// @Security     BearerAuth
// @Router       /logs [get]
func (h *InventoryHandler) ListLogs(c *gin.Context) {
	filter, ok := h.bindLogFilter(c)
	if !ok {
		return
	}

	page, err := h.queryService.ListLogs(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, page)
}

// GetLog godoc
// @ID           getLogById
// @Summary      Get activity log entry by ID
// @Tags         logs
// @Produce      json
// @Param        id path string true "Log entry ID" format(uuid)
// @Success      200 {object} dto.Response{payload=inventory.LogEntryView}
// @Failure      401 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Failure      500 {object} dto.Response
// @Security     BearerAuth
// @Router       /logs/{id} [get]
func (h *InventoryHandler) GetLog(c *gin.Context) {
	id, err := parseID(c, "log entry")
	if err != nil {
		h.HandleError(c, err)
		return
	}

	view, err := h.queryService.GetLog(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, view)
}

// ExportLogs godoc
// @ID           exportLogs
// @Summary      Export activity log as CSV
// @Description  Every entry of the filtered and sorted activity log; page and limit are ignored
// @Tags         logs
// @Produce      text/csv
// @Param        orderBy query string false "Sort key" Enums(date, staff, item, quantity, category)
// @Param        order query string false "Sort direction" Enums(asc, desc)
// @Param        search query string false "Case-insensitive substring of the item definition, category, assignee, staff name or staff email"
// @Param        category query string false "Exact category name"
// @Param        startDate query string false "Inclusive lower bound"
// @Param        endDate query string false "Inclusive upper bound"
// @Param        internal query boolean false "Only internal item definitions"
// @Success      200 {file} file
// @Failure      400 {object} dto.Response
// @Failure      401 {object} dto.Response
// @Failure      429 {object} dto.Response
// @Failure      500 {object} dto.Response
// @Security     BearerAuth
// @Router       /logs/export [get]
func (h *InventoryHandler) ExportLogs(c *gin.Context) {
	filter, ok := h.bindLogFilter(c)
	if !ok {
		return
	}

	logs, err := h.queryService.ExportLogs(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	var buf bytes.Buffer
	if err := inventoryapp.WriteLogsCSV(&buf, logs); err != nil {
		h.HandleError(c, err)
		return
	}
	h.sendCSV(c, "activity-log", buf.Bytes())
}

// ListItems godoc
// @ID           listItems
// @Summary      List inventory items
// @Description  One page of the filtered and sorted inventory, with the size of the filtered set
// @Tags         items
// @Produce      json
// @Param        page query int false "Zero-based page index" default(0) minimum(0)
// @Param        limit query int false "Page size" default(25) minimum(1) maximum(1000)
// @Param        orderBy query string false "Sort key" Enums(item, quantity, category, assignee)
// @Param        order query string false "Sort direction" Enums(asc, desc)
// @Param        search query string false "Case-insensitive substring of the item definition, category or assignee name"
// @Param        category query string false "Exact category name"
// @Param        internal query boolean false "Only internal item definitions"
// @Success      200 {object} dto.Response{payload=dto.Page[inventory.ItemView]}
// @Failure      400 {object} dto.Response
// @Failure      401 {object} dto.Response
// @Failure      500 {object} dto.Response
// @Security     BearerAuth
// @Router       /items [get]
func (h *InventoryHandler) ListItems(c *gin.Context) {
	filter, ok := h.bindItemFilter(c)
	if !ok {
		return
	}

	page, err := h.queryService.ListItems(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, page)
}

// GetItem godoc
// @ID           getItemById
// @Summary      Get inventory item by ID
// @Tags         items
// @Produce      json
// @Param        id path string true "Inventory item ID" format(uuid)
// @Success      200 {object} dto.Response{payload=inventory.ItemView}
// @Failure      401 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Failure      500 {object} dto.Response
// @Security     BearerAuth
// @Router       /items/{id} [get]
func (h *InventoryHandler) GetItem(c *gin.Context) {
	id, err := parseID(c, "inventory item")
	if err != nil {
		h.HandleError(c, err)
		return
	}

	view, err := h.queryService.GetItem(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, view)
}

// ExportItems godoc
// @ID           exportItems
// @Summary      Export inventory items as CSV
// @Tags         items
// @Produce      text/csv
// @Param        orderBy query string false "Sort key" Enums(item, quantity, category, assignee)
// @Param        order query string false "Sort direction" Enums(asc, desc)
// @Param        search query string false "Case-insensitive substring of the item definition, category or assignee name"
// @Param        category query string false "Exact category name"
// @Param        internal query boolean false "Only internal item definitions"
// @Success      200 {file} file
// @Failure      400 {object} dto.Response
// @Failure      401 {object} dto.Response
// @Failure      429 {object} dto.Response
// @Failure      500 {object} dto.Response
// @Security     BearerAuth
// @Router       /items/export [get]
func (h *InventoryHandler) ExportItems(c *gin.Context) {
	filter, ok := h.bindItemFilter(c)
	if !ok {
		return
	}

	items, err := h.queryService.ExportItems(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	var buf bytes.Buffer
	if err := inventoryapp.WriteItemsCSV(&buf, items); err != nil {
		h.HandleError(c, err)
		return
	}
	h.sendCSV(c, "inventory", buf.Bytes())
}

func (h *InventoryHandler) bindLogFilter(c *gin.Context) (inventoryapp.LogListFilter, bool) {
	var filter inventoryapp.LogListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.ValidationError(c, err)
		return filter, false
	}
	filter.Internal = internalFlag(c)
	return filter, true
}

func (h *InventoryHandler) bindItemFilter(c *gin.Context) (inventoryapp.ItemListFilter, bool) {
	var filter inventoryapp.ItemListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.ValidationError(c, err)
		return filter, false
	}
	filter.Internal = internalFlag(c)
	return filter, true
}

// sendCSV writes a fully rendered CSV body as a dated attachment
func (h *InventoryHandler) sendCSV(c *gin.Context, name string, body []byte) {
	filename := fmt.Sprintf("%s-%s.csv", name, time.Now().UTC().Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, csvContentType, body)
}
