package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/khoahotran/portfolio-cms/adapters/persistence"
	"github.com/khoahotran/portfolio-cms/adapters/render"
	"github.com/khoahotran/portfolio-cms/internal/application/service"
	adminUC "github.com/khoahotran/portfolio-cms/internal/application/usecase/admin"
	backupUC "github.com/khoahotran/portfolio-cms/internal/application/usecase/backup"
	contactUC "github.com/khoahotran/portfolio-cms/internal/application/usecase/contact"
	cms "github.com/khoahotran/portfolio-cms/internal/application/usecase/content"
	feedUC "github.com/khoahotran/portfolio-cms/internal/application/usecase/feed"
	searchUC "github.com/khoahotran/portfolio-cms/internal/application/usecase/search"
	"github.com/khoahotran/portfolio-cms/internal/domain/content"
	"github.com/khoahotran/portfolio-cms/pkg/logger"
)

type stubFetcher struct {
	doc *content.Document
	err error
}

func (f *stubFetcher) Fetch(context.Context) (*content.Document, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.doc.Clone(), nil
}

type recordingMailer struct {
	mu   sync.Mutex
	sent []service.ContactMessage
}

func (m *recordingMailer) Send(_ context.Context, msg service.ContactMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, msg)
	return nil
}

func remoteContent() *content.Document {
	return &content.Document{
		Site: &content.Site{Title: "Jane Doe", Description: "Portfolio"},
		Hero: &content.Hero{Title: "Hello", Buttons: []content.Button{}},
		About: &content.About{
			Content: []string{"I build things."},
			Skills:  []content.Skill{{Name: "Go"}, {Name: "SQL"}},
		},
		Projects: &content.Projects{Items: []content.Item{
			{ID: "project_1", Title: "Alpha", Description: "Go service", IsActive: true, Technologies: []string{"Go"}},
			{ID: "project_2", Title: "Hidden", Description: "Go draft", IsActive: false},
		}},
		Certifications: &content.Certifications{Stats: []content.Stat{}, Items: []content.Item{
			{ID: "certification_1", Title: "CKA", Description: "Kubernetes", Institution: "CNCF", IsActive: true, Status: content.StatusVerified},
		}},
	}
}

type RouterTestSuite struct {
	suite.Suite
	store  *cms.Store
	mailer *recordingMailer
	router *gin.Engine
}

func TestRouter(t *testing.T) {
	suite.Run(t, new(RouterTestSuite))
}

func (s *RouterTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	log := logger.NewNop()

	shell, err := render.LoadShell("")
	s.Require().NoError(err)
	page, err := render.NewPageRenderer(shell, log)
	s.Require().NoError(err)

	reconciler := cms.NewReconciler(persistence.NewMemoryKeyValueStore(), cms.ReconcilerConfig{}, nil, log)
	s.store = cms.NewStore(&stubFetcher{doc: remoteContent()}, reconciler, log, cms.WithRenderer(page))
	s.store.Load(context.Background())
	s.T().Cleanup(s.store.Close)

	s.mailer = &recordingMailer{}
	s.router = NewRouter(Handlers{
		Content: NewContentHandler(s.store, page, log),
		Admin: NewAdminHandler(
			s.store,
			adminUC.NewGetDashboardUseCase(s.store),
			adminUC.NewContentEditor(s.store, log),
			adminUC.NewEditSession(s.store, log),
			log,
		),
		Backup:  NewBackupHandler(backupUC.NewBackupUseCase(s.store, nil, log), log),
		Search:  NewSearchHandler(searchUC.NewSearchUseCase(s.store, log), log),
		RSS:     NewRSSHandler(feedUC.NewRSSUseCase(s.store, "https://jane.dev", log), log),
		Contact: NewContactHandler(contactUC.NewSendMessageUseCase(s.mailer, log), log),
	}, log)
}

func (s *RouterTestSuite) do(method, target string, body any) *httptest.ResponseRecorder {
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = strings.NewReader(b)
	default:
		raw, err := json.Marshal(b)
		s.Require().NoError(err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	s.router.ServeHTTP(rr, req)
	return rr
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	var out T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out), rr.Body.String())
	return out
}

func (s *RouterTestSuite) Test_Page_RendersActiveItems() {
	rr := s.do(http.MethodGet, "/", nil)
	s.Equal(http.StatusOK, rr.Code)
	s.Contains(rr.Header().Get("Content-Type"), "text/html")

	page, err := goquery.NewDocumentFromReader(rr.Body)
	s.Require().NoError(err)
	grid := page.Find(".projects-grid").Text()
	s.Contains(grid, "Alpha")
	s.NotContains(grid, "Hidden")
	s.Equal(0, page.Find(".local-changes-indicator").Length())
}

func (s *RouterTestSuite) Test_Page_ShowsIndicatorAfterEdit() {
	rr := s.do(http.MethodPatch, "/api/admin/sections/hero", map[string]any{"title": "Edited"})
	s.Require().Equal(http.StatusOK, rr.Code, rr.Body.String())

	rr = s.do(http.MethodGet, "/", nil)
	page, err := goquery.NewDocumentFromReader(rr.Body)
	s.Require().NoError(err)
	s.Equal(1, page.Find(".local-changes-indicator").Length())
	s.Contains(page.Find(".hero-title").Text(), "Edited")
}

func (s *RouterTestSuite) Test_Health() {
	rr := s.do(http.MethodGet, "/api/health", nil)
	s.Equal(http.StatusOK, rr.Code)
	body := decode[map[string]any](s.T(), rr)
	s.Equal("UP", body["status"])
}

func (s *RouterTestSuite) Test_Content() {
	rr := s.do(http.MethodGet, "/api/content", nil)
	s.Require().Equal(http.StatusOK, rr.Code)
	doc := decode[content.Document](s.T(), rr)
	s.Equal("Jane Doe", doc.Site.Title)

	rr = s.do(http.MethodGet, "/api/content/hero", nil)
	s.Equal(http.StatusOK, rr.Code)
	s.Contains(rr.Body.String(), `"title":"Hello"`)

	s.Equal(http.StatusNotFound, s.do(http.MethodGet, "/api/content/footer", nil).Code)
	s.Equal(http.StatusBadRequest, s.do(http.MethodGet, "/api/content/bogus", nil).Code)
}

func (s *RouterTestSuite) Test_ItemCRUD() {
	rr := s.do(http.MethodPost, "/api/admin/collections/projects", map[string]any{
		"title": "Beta", "description": "New", "technologies": []string{"Rust"},
	})
	s.Require().Equal(http.StatusCreated, rr.Code, rr.Body.String())
	created := decode[content.Item](s.T(), rr)
	s.True(strings.HasPrefix(created.ID, "project_"))
	s.True(created.IsActive)

	rr = s.do(http.MethodGet, "/api/admin/collections/projects", nil)
	list := decode[ItemListDTO](s.T(), rr)
	s.Equal(3, list.Total)
	s.Equal(created.ID, list.Items[2].ID)

	rr = s.do(http.MethodGet, "/api/admin/collections/project?active=true", nil)
	s.Equal(2, decode[ItemListDTO](s.T(), rr).Total)

	rr = s.do(http.MethodPut, "/api/admin/collections/projects/"+created.ID, map[string]any{"title": "Beta 2"})
	s.Require().Equal(http.StatusOK, rr.Code)
	updated := decode[content.Item](s.T(), rr)
	s.Equal("Beta 2", updated.Title)
	s.Equal("New", updated.Description)

	s.Equal(http.StatusNoContent, s.do(http.MethodDelete, "/api/admin/collections/projects/"+created.ID, nil).Code)
	s.Equal(http.StatusNotFound, s.do(http.MethodDelete, "/api/admin/collections/projects/"+created.ID, nil).Code)
	s.Equal(http.StatusNotFound, s.do(http.MethodPut, "/api/admin/collections/projects/missing", map[string]any{"title": "x"}).Code)
	s.Equal(http.StatusNotFound, s.do(http.MethodGet, "/api/admin/collections/projects/missing", nil).Code)
	s.Equal(http.StatusBadRequest, s.do(http.MethodGet, "/api/admin/collections/posts", nil).Code)
}

func (s *RouterTestSuite) Test_CreateItem_DuplicateID() {
	rr := s.do(http.MethodPost, "/api/admin/collections/projects", map[string]any{"id": "project_1", "title": "Dup"})
	s.Equal(http.StatusConflict, rr.Code)
}

func (s *RouterTestSuite) Test_PatchSection_RejectsItems() {
	rr := s.do(http.MethodPatch, "/api/admin/sections/projects", map[string]any{"items": []any{}})
	s.Equal(http.StatusBadRequest, rr.Code)

	rr = s.do(http.MethodPatch, "/api/admin/sections/projects", "[1,2]")
	s.Equal(http.StatusBadRequest, rr.Code)
}

func (s *RouterTestSuite) Test_Editor() {
	rr := s.do(http.MethodPut, "/api/admin/editor/content", map[string]any{"contactEmail": "not-an-email"})
	s.Equal(http.StatusBadRequest, rr.Code)

	rr = s.do(http.MethodPut, "/api/admin/editor/content", map[string]any{
		"heroSubtitle": "Engineer", "contactEmail": "jane@example.com",
	})
	s.Require().Equal(http.StatusOK, rr.Code, rr.Body.String())

	doc := s.store.Document()
	s.Equal("Engineer", doc.Hero.Subtitle)
	s.Equal("Hello", doc.Hero.Title)
	s.Require().NotNil(doc.Contact)
	s.Equal("mailto:jane@example.com", doc.Contact.Info[0].Link)

	rr = s.do(http.MethodPut, "/api/admin/editor/settings", map[string]any{"themeColor": "#00ff00", "showBackToTop": true})
	s.Require().Equal(http.StatusOK, rr.Code, rr.Body.String())
	s.Equal("#00ff00", s.store.Document().Site.ThemeColor)

	s.Equal(http.StatusBadRequest, s.do(http.MethodPut, "/api/admin/editor/settings", map[string]any{"themeColor": "green"}).Code)
}

func (s *RouterTestSuite) Test_EditSession() {
	rr := s.do(http.MethodPut, "/api/admin/session", map[string]any{"title": "x", "description": "y"})
	s.Equal(http.StatusBadRequest, rr.Code, "no form is open")

	rr = s.do(http.MethodPost, "/api/admin/session/certification", nil)
	s.Require().Equal(http.StatusOK, rr.Code)
	s.Contains(rr.Body.String(), `"state":"creating"`)

	rr = s.do(http.MethodPut, "/api/admin/session", map[string]any{"title": "CKAD", "description": "Apps"})
	s.Require().Equal(http.StatusBadRequest, rr.Code)
	s.Contains(rr.Body.String(), "institution is required")

	rr = s.do(http.MethodGet, "/api/admin/session", nil)
	s.Contains(rr.Body.String(), `"state":"creating"`, "a failed save keeps the form open")

	rr = s.do(http.MethodPut, "/api/admin/session", map[string]any{
		"title": "CKAD", "description": "Apps", "institution": "CNCF", "isActive": "on", "skills": "k8s, helm",
	})
	s.Require().Equal(http.StatusOK, rr.Code, rr.Body.String())
	item := decode[content.Item](s.T(), rr)
	s.Equal([]string{"k8s", "helm"}, item.Skills)
	s.True(item.IsActive)

	rr = s.do(http.MethodGet, "/api/admin/session", nil)
	s.Contains(rr.Body.String(), `"state":"idle"`)

	rr = s.do(http.MethodPost, "/api/admin/session/projects/project_1", nil)
	s.Require().Equal(http.StatusOK, rr.Code)
	s.Contains(rr.Body.String(), `"title":"Alpha"`)

	rr = s.do(http.MethodDelete, "/api/admin/session", nil)
	s.Contains(rr.Body.String(), `"state":"idle"`)

	s.Equal(http.StatusNotFound, s.do(http.MethodPost, "/api/admin/session/projects/missing", nil).Code)
}

func (s *RouterTestSuite) Test_EditSession_FormPost() {
	s.Require().Equal(http.StatusOK, s.do(http.MethodPost, "/api/admin/session/projects", nil).Code)

	form := url.Values{
		"title":        {"Gamma"},
		"description":  {"Posted"},
		"technologies": {"Go, HTMX"},
		"isActive":     {"off"},
	}
	req := httptest.NewRequest(http.MethodPut, "/api/admin/session", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rr := httptest.NewRecorder()
	s.router.ServeHTTP(rr, req)

	s.Require().Equal(http.StatusOK, rr.Code, rr.Body.String())
	item := decode[content.Item](s.T(), rr)
	s.Equal([]string{"Go", "HTMX"}, item.Technologies)
	s.False(item.IsActive)
}

func (s *RouterTestSuite) Test_Reconcile() {
	rr := s.do(http.MethodPost, "/api/admin/collections/projects", map[string]any{"title": "Local"})
	s.Require().Equal(http.StatusCreated, rr.Code)
	s.True(s.store.Status().HasLocalChanges)

	rr = s.do(http.MethodPost, "/api/admin/reconcile/restore", nil)
	s.Require().Equal(http.StatusOK, rr.Code, rr.Body.String())
	s.Len(s.store.Document().Projects.Items, 2)

	rr = s.do(http.MethodDelete, "/api/admin/reconcile/local", nil)
	s.Equal(http.StatusPreconditionRequired, rr.Code)
	s.True(s.store.HasLocalChanges(context.Background()))

	rr = s.do(http.MethodDelete, "/api/admin/reconcile/local?confirm=true", nil)
	s.Require().Equal(http.StatusOK, rr.Code)
	st := decode[cms.Status](s.T(), rr)
	s.False(st.HasLocalChanges)
	s.Equal(content.SourceRemote, st.Source)
	s.False(s.store.HasLocalChanges(context.Background()))
}

func (s *RouterTestSuite) Test_Save() {
	rr := s.do(http.MethodPost, "/api/admin/save", nil)
	s.Require().Equal(http.StatusOK, rr.Code)
	s.True(decode[cms.Status](s.T(), rr).HasLocalChanges)
}

func (s *RouterTestSuite) Test_Dashboard() {
	rr := s.do(http.MethodGet, "/api/admin/dashboard", nil)
	s.Require().Equal(http.StatusOK, rr.Code)
	d := decode[adminUC.Dashboard](s.T(), rr)
	s.Equal(1, d.ActiveProjects)
	s.Equal(2, d.TotalProjects)
	s.Equal(1, d.ActiveCertifications)
	s.Equal(2, d.Skills)
	s.Equal(content.SourceRemote, d.Source)
}

func (s *RouterTestSuite) Test_Backup() {
	rr := s.do(http.MethodGet, "/api/admin/backup", nil)
	s.Require().Equal(http.StatusOK, rr.Code)
	s.Contains(rr.Header().Get("Content-Disposition"), "attachment; filename=\"portfolio-backup-")
	exported := rr.Body.String()

	s.Equal(http.StatusBadRequest, s.do(http.MethodPost, "/api/admin/backup", `{"timestamp":1}`).Code)

	rr = s.do(http.MethodPost, "/api/admin/backup", `{"content":{"site":{"title":"Imported"}}}`)
	s.Require().Equal(http.StatusOK, rr.Code, rr.Body.String())
	s.Equal("Imported", s.store.Document().Site.Title)
	s.Nil(s.store.Document().Projects)

	s.Require().Equal(http.StatusOK, s.do(http.MethodPost, "/api/admin/backup", exported).Code)
	s.Equal("Jane Doe", s.store.Document().Site.Title)

	s.Equal(http.StatusServiceUnavailable, s.do(http.MethodPost, "/api/admin/backup/upload", nil).Code)
}

func (s *RouterTestSuite) Test_Search() {
	rr := s.do(http.MethodGet, "/api/search?q=go", nil)
	s.Require().Equal(http.StatusOK, rr.Code)
	public := decode[[]SearchResultDTO](s.T(), rr)
	s.Require().Len(public, 1)
	s.Equal("project_1", public[0].ID)

	rr = s.do(http.MethodGet, "/api/admin/search?q=go", nil)
	s.Len(decode[[]SearchResultDTO](s.T(), rr), 2)

	s.Equal(http.StatusBadRequest, s.do(http.MethodGet, "/api/search", nil).Code)
}

func (s *RouterTestSuite) Test_RSS() {
	rr := s.do(http.MethodGet, "/api/rss", nil)
	s.Require().Equal(http.StatusOK, rr.Code)
	s.Contains(rr.Header().Get("Content-Type"), "application/xml")
	s.Contains(rr.Body.String(), "<rss")
	s.Contains(rr.Body.String(), "Alpha")
	s.NotContains(rr.Body.String(), "Hidden")
}

func (s *RouterTestSuite) Test_Contact() {
	rr := s.do(http.MethodPost, "/api/contact", map[string]any{"name": "Ann", "email": "nope", "message": "Hi"})
	s.Equal(http.StatusBadRequest, rr.Code)
	s.Contains(rr.Body.String(), "Please enter a valid email address")

	rr = s.do(http.MethodPost, "/api/contact", map[string]any{"name": "Ann", "email": "ann@example.com", "message": "Hi"})
	s.Require().Equal(http.StatusAccepted, rr.Code)
	s.Len(s.mailer.sent, 1)
}

func TestErrorMiddleware_WrapsPlainErrors(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(ErrorMiddleware(logger.NewNop()))
	router.GET("/boom", func(c *gin.Context) { c.Error(errors.New("boom")) })

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/boom", nil))
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Contains(t, rr.Body.String(), "internal server error")
}

func TestContentHandler_BeforeLoad(t *testing.T) {
	gin.SetMode(gin.TestMode)
	log := logger.NewNop()
	reconciler := cms.NewReconciler(persistence.NewMemoryKeyValueStore(), cms.ReconcilerConfig{}, nil, log)
	store := cms.NewStore(&stubFetcher{err: errors.New("offline")}, reconciler, log)
	t.Cleanup(store.Close)

	router := gin.New()
	router.Use(ErrorMiddleware(log))
	router.GET("/api/content", NewContentHandler(store, nil, log).GetContent)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/content", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
}
