package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/soundprediction/clauso"
	"github.com/soundprediction/clauso/pkg/driver"
	"github.com/soundprediction/clauso/pkg/server/dto"
)

// SearchHandler handles search requests by translating request DTOs into
// builder calls.
type SearchHandler struct {
	gateway        driver.QueryExecutor
	defaultIndex   string
	highlightClass string
	logger         *slog.Logger
}

// NewSearchHandler creates a new search handler. A nil logger falls back to
// slog.Default().
func NewSearchHandler(gateway driver.QueryExecutor, defaultIndex, highlightClass string, logger *slog.Logger) *SearchHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &SearchHandler{
		gateway:        gateway,
		defaultIndex:   defaultIndex,
		highlightClass: highlightClass,
		logger:         logger,
	}
}

// Search handles POST /search
func (h *SearchHandler) Search(c *gin.Context) {
	var req dto.SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid_request", Message: err.Error()})
		return
	}
	if err := req.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid_request", Message: err.Error()})
		return
	}

	index := req.Index
	if index == "" {
		index = h.defaultIndex
	}

	builder := h.buildQuery(index, &req)
	if req.Raw {
		builder.ResponseMode(clauso.ModeRaw)
	}

	result, err := builder.Execute(c.Request.Context())
	if err != nil {
		h.writeExecuteError(c, err)
		return
	}

	if req.Raw {
		c.JSON(http.StatusOK, result.Raw)
		return
	}
	c.JSON(http.StatusOK, dto.SearchResponse{
		Total:     result.Total,
		Documents: result.Documents,
	})
}

func (h *SearchHandler) buildQuery(index string, req *dto.SearchRequest) *clauso.Builder {
	builder := clauso.New(h.gateway, h.logger).Index(index)

	if req.Query != "" {
		builder.Keywords(req.Query, req.Fields...)
	}
	for field, value := range req.Filters {
		builder.Where(field, value, clauso.OpEquals)
	}
	for field, value := range req.Exclude {
		builder.Where(field, value, clauso.OpNotEquals)
	}
	for _, nested := range req.Nested {
		opt := clauso.NestedOpt{NoScore: !nested.Score}
		if nested.Logic != "" {
			opt.Logic = clauso.Logic(nested.Logic)
		}
		builder.NestedWhereOpt(nested.Path, nested.Field, nested.Value, opt)
	}
	for _, s := range req.Sort {
		order := clauso.SortOrder(s.Order)
		if order == "" {
			order = clauso.SortAsc
		}
		builder.Sort(s.Field, order)
	}
	if req.PageSize > 0 {
		builder.Paginate(req.PageSize, req.Page)
	}
	if req.MinScore != nil {
		builder.MinScore(*req.MinScore)
	}
	if req.Highlight && len(req.Fields) > 0 {
		builder.Highlight(h.highlightClass, req.Fields...)
	}
	if req.FunctionScore {
		builder.ApplyFunctionScore("", "")
	}
	return builder
}

func (h *SearchHandler) writeExecuteError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, clauso.ErrNoIndex),
		errors.Is(err, clauso.ErrUnsupportedOperator),
		errors.Is(err, clauso.ErrUnsupportedLogic),
		errors.Is(err, clauso.ErrQueryWrapped):
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid_query", Message: err.Error()})
	default:
		var respErr *driver.ResponseError
		if errors.As(err, &respErr) {
			c.JSON(http.StatusBadGateway, dto.ErrorResponse{Error: "engine_error", Message: respErr.Error()})
			return
		}
		h.logger.Error("search failed", "error", err)
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "search_failed", Message: err.Error()})
	}
}
