package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	cms "github.com/khoahotran/portfolio-cms/internal/application/usecase/content"
	"github.com/khoahotran/portfolio-cms/internal/domain/content"
	"github.com/khoahotran/portfolio-cms/pkg/apperror"
	"github.com/khoahotran/portfolio-cms/pkg/logger"
)

// ContentReader is the read side of the content store.
type ContentReader interface {
	Document() *content.Document
	GetSection(name content.SectionName) (any, bool)
	Status() cms.Status
}

// PageSource serves the latest rendered page.
type PageSource interface {
	HTML() string
}

type ContentHandler struct {
	store  ContentReader
	page   PageSource
	logger logger.Logger
}

func NewContentHandler(store ContentReader, page PageSource, log logger.Logger) *ContentHandler {
	return &ContentHandler{
		store:  store,
		page:   page,
		logger: log,
	}
}

func (h *ContentHandler) Page(c *gin.Context) {
	c.Header("Cache-Control", "no-cache")
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(h.page.HTML()))
}

func (h *ContentHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "UP", "content": h.store.Status()})
}

func (h *ContentHandler) GetContent(c *gin.Context) {
	doc := h.store.Document()
	if doc == nil {
		c.Error(apperror.NewUnavailable("content is not loaded yet", nil))
		return
	}
	c.JSON(http.StatusOK, doc)
}

func (h *ContentHandler) GetSection(c *gin.Context) {
	name, err := content.ParseSectionName(c.Param("section"))
	if err != nil {
		c.Error(apperror.NewInvalidInput("unknown section "+c.Param("section"), err))
		return
	}
	section, ok := h.store.GetSection(name)
	if !ok {
		c.Error(apperror.NewNotFound("section", string(name)))
		return
	}
	c.JSON(http.StatusOK, section)
}
