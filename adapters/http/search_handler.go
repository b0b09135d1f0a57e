package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	searchUC "github.com/khoahotran/portfolio-cms/internal/application/usecase/search"
	"github.com/khoahotran/portfolio-cms/pkg/apperror"
	"github.com/khoahotran/portfolio-cms/pkg/logger"
)

type SearchHandler struct {
	searchUseCase *searchUC.SearchUseCase
	logger        logger.Logger
}

func NewSearchHandler(uc *searchUC.SearchUseCase, log logger.Logger) *SearchHandler {
	return &SearchHandler{
		searchUseCase: uc,
		logger:        log,
	}
}

func (h *SearchHandler) handleSearch(c *gin.Context, isPublic bool) {

	query := c.Query("q")
	if query == "" {
		c.Error(apperror.NewInvalidInput("'q' query param is required", nil))
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	input := searchUC.SearchInput{
		Query:    query,
		IsPublic: isPublic,
		Limit:    limit,
	}
	output, err := h.searchUseCase.Execute(c.Request.Context(), input)
	if err != nil {
		c.Error(err)
		return
	}

	dtos := make([]SearchResultDTO, len(output.Results))
	for i, res := range output.Results {
		dtos[i] = ToSearchResultDTO(res)
	}
	c.JSON(http.StatusOK, dtos)
}

func (h *SearchHandler) SearchPublic(c *gin.Context) {
	h.handleSearch(c, true)
}

func (h *SearchHandler) SearchAdmin(c *gin.Context) {
	h.handleSearch(c, false)
}
