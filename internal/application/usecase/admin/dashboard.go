package admin

import (
	"time"

	cms "github.com/khoahotran/portfolio-cms/internal/application/usecase/content"
	"github.com/khoahotran/portfolio-cms/internal/domain/content"
)

type StatusSource interface {
	Document() *content.Document
	Status() cms.Status
}

type Dashboard struct {
	ActiveProjects       int            `json:"active_projects"`
	ActiveCertifications int            `json:"active_certifications"`
	TotalProjects        int            `json:"total_projects"`
	TotalCertifications  int            `json:"total_certifications"`
	Skills               int            `json:"skills"`
	HasLocalChanges      bool           `json:"has_local_changes"`
	Source               content.Source `json:"source"`
	LastUpdate           time.Time      `json:"last_update"`
}

type GetDashboardUseCase struct {
	store StatusSource
}

func NewGetDashboardUseCase(store StatusSource) *GetDashboardUseCase {
	return &GetDashboardUseCase{store: store}
}

func (uc *GetDashboardUseCase) Execute() Dashboard {
	st := uc.store.Status()
	out := Dashboard{HasLocalChanges: st.HasLocalChanges, Source: st.Source, LastUpdate: st.LastUpdate}

	doc := uc.store.Document()
	if doc == nil {
		return out
	}
	out.ActiveProjects = len(doc.ActiveItems(content.CollectionProjects))
	out.ActiveCertifications = len(doc.ActiveItems(content.CollectionCertifications))
	out.TotalProjects = len(doc.Items(content.CollectionProjects))
	out.TotalCertifications = len(doc.Items(content.CollectionCertifications))
	if doc.About != nil {
		out.Skills = len(doc.About.Skills)
	}
	return out
}
