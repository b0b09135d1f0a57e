package http

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	adminUC "github.com/khoahotran/portfolio-cms/internal/application/usecase/admin"
	"github.com/khoahotran/portfolio-cms/internal/domain/content"
	"github.com/khoahotran/portfolio-cms/pkg/apperror"
	"github.com/khoahotran/portfolio-cms/pkg/logger"
)

// ContentManager is the full content store API the admin panel drives.
type ContentManager interface {
	ContentReader
	GetItem(c content.Collection, id string) (content.Item, bool)
	AddItem(ctx context.Context, c content.Collection, draft content.ItemDraft) (content.Item, error)
	UpdateItem(ctx context.Context, c content.Collection, id string, patch content.ItemPatch) (bool, error)
	RemoveItem(ctx context.Context, c content.Collection, id string) (bool, error)
	PatchSection(ctx context.Context, name content.SectionName, fields map[string]json.RawMessage) error
	Persist(ctx context.Context) error
	RestoreFromBackup(ctx context.Context) (bool, error)
	DiscardLocalChanges(ctx context.Context) error
	Reload(ctx context.Context)
}

type AdminHandler struct {
	store               ContentManager
	getDashboardUseCase *adminUC.GetDashboardUseCase
	contentEditor       *adminUC.ContentEditor
	editSession         *adminUC.EditSession
	logger              logger.Logger
}

func NewAdminHandler(
	store ContentManager,
	dashboardUC *adminUC.GetDashboardUseCase,
	editor *adminUC.ContentEditor,
	session *adminUC.EditSession,
	log logger.Logger,
) *AdminHandler {
	return &AdminHandler{
		store:               store,
		getDashboardUseCase: dashboardUC,
		contentEditor:       editor,
		editSession:         session,
		logger:              log,
	}
}

func collectionParam(c *gin.Context) (content.Collection, bool) {
	coll, err := content.ParseCollection(c.Param("collection"))
	if err != nil {
		c.Error(apperror.NewInvalidInput("unknown collection "+c.Param("collection"), err))
		return "", false
	}
	return coll, true
}

func (h *AdminHandler) GetDashboard(c *gin.Context) {
	c.JSON(http.StatusOK, h.getDashboardUseCase.Execute())
}

// ListItems returns every stored item, inactive ones included. ?active=true narrows the list
// to what the public page shows.
func (h *AdminHandler) ListItems(c *gin.Context) {
	coll, ok := collectionParam(c)
	if !ok {
		return
	}
	doc := h.store.Document()
	if doc == nil {
		c.Error(apperror.NewUnavailable("content is not loaded yet", nil))
		return
	}
	items := doc.Items(coll)
	if c.Query("active") == "true" {
		items = content.ActiveOnly(items)
	}
	c.JSON(http.StatusOK, ToItemListDTO(coll, items))
}

func (h *AdminHandler) GetItem(c *gin.Context) {
	coll, ok := collectionParam(c)
	if !ok {
		return
	}
	item, found := h.store.GetItem(coll, c.Param("id"))
	if !found {
		c.Error(apperror.NewNotFound(coll.Kind(), c.Param("id")))
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h *AdminHandler) CreateItem(c *gin.Context) {
	coll, ok := collectionParam(c)
	if !ok {
		return
	}
	var req CreateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.NewInvalidInput("invalid request data", err))
		return
	}

	item, err := h.store.AddItem(c.Request.Context(), coll, req)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, item)
}

func (h *AdminHandler) UpdateItem(c *gin.Context) {
	coll, ok := collectionParam(c)
	if !ok {
		return
	}
	id := c.Param("id")
	var req UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.NewInvalidInput("invalid request data", err))
		return
	}

	updated, err := h.store.UpdateItem(c.Request.Context(), coll, id, req)
	if err != nil {
		c.Error(err)
		return
	}
	if !updated {
		c.Error(apperror.NewNotFound(coll.Kind(), id))
		return
	}
	item, _ := h.store.GetItem(coll, id)
	c.JSON(http.StatusOK, item)
}

func (h *AdminHandler) DeleteItem(c *gin.Context) {
	coll, ok := collectionParam(c)
	if !ok {
		return
	}
	id := c.Param("id")

	removed, err := h.store.RemoveItem(c.Request.Context(), coll, id)
	if err != nil {
		c.Error(err)
		return
	}
	if !removed {
		c.Error(apperror.NewNotFound(coll.Kind(), id))
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *AdminHandler) PatchSection(c *gin.Context) {
	name, err := content.ParseSectionName(c.Param("section"))
	if err != nil {
		c.Error(apperror.NewInvalidInput("unknown section "+c.Param("section"), err))
		return
	}
	var fields map[string]json.RawMessage
	if err := c.ShouldBindJSON(&fields); err != nil {
		c.Error(apperror.NewInvalidInput("section patch must be a JSON object", err))
		return
	}

	if err := h.store.PatchSection(c.Request.Context(), name, fields); err != nil {
		c.Error(err)
		return
	}
	section, _ := h.store.GetSection(name)
	c.JSON(http.StatusOK, section)
}

func (h *AdminHandler) SaveContent(c *gin.Context) {
	var form adminUC.ContentForm
	if err := c.ShouldBindJSON(&form); err != nil {
		c.Error(apperror.NewInvalidInput("invalid request data", err))
		return
	}
	if err := h.contentEditor.SaveContent(c.Request.Context(), form); err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Content saved successfully!"})
}

func (h *AdminHandler) SaveSettings(c *gin.Context) {
	var form adminUC.SettingsForm
	if err := c.ShouldBindJSON(&form); err != nil {
		c.Error(apperror.NewInvalidInput("invalid request data", err))
		return
	}
	if err := h.contentEditor.SaveSettings(c.Request.Context(), form); err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Settings saved successfully!"})
}

// Edit session

func (h *AdminHandler) SessionState(c *gin.Context) {
	c.JSON(http.StatusOK, h.editSession.State())
}

func (h *AdminHandler) OpenCreate(c *gin.Context) {
	form, err := h.editSession.OpenCreate(c.Param("collection"))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"session": h.editSession.State(), "form": form})
}

func (h *AdminHandler) OpenEdit(c *gin.Context) {
	form, err := h.editSession.OpenEdit(c.Param("collection"), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"session": h.editSession.State(), "form": form})
}

// SaveSession submits the open form, either as JSON or as a classic form post.
func (h *AdminHandler) SaveSession(c *gin.Context) {
	var form adminUC.ItemForm
	if err := c.ShouldBind(&form); err != nil {
		c.Error(apperror.NewInvalidInput("invalid form data", err))
		return
	}
	item, err := h.editSession.Save(c.Request.Context(), form)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h *AdminHandler) CancelSession(c *gin.Context) {
	h.editSession.Cancel()
	c.JSON(http.StatusOK, h.editSession.State())
}

// Reconciliation

func (h *AdminHandler) Persist(c *gin.Context) {
	if err := h.store.Persist(c.Request.Context()); err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, h.store.Status())
}

func (h *AdminHandler) RestoreFromBackup(c *gin.Context) {
	restored, err := h.store.RestoreFromBackup(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	if !restored {
		c.Error(apperror.NewNotFound("backup", "server"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"restored": true, "status": h.store.Status()})
}

// DiscardLocalChanges deletes both persisted copies and reloads from the remote source.
// It requires ?confirm=true.
func (h *AdminHandler) DiscardLocalChanges(c *gin.Context) {
	if c.Query("confirm") != "true" {
		c.Error(apperror.NewConfirmationRequired("discarding local changes"))
		return
	}
	ctx := c.Request.Context()
	if err := h.store.DiscardLocalChanges(ctx); err != nil {
		c.Error(err)
		return
	}
	h.store.Reload(ctx)
	h.logger.Info("Local changes discarded by admin", zap.String("source", string(h.store.Status().Source)))
	c.JSON(http.StatusOK, h.store.Status())
}
