package search

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/khoahotran/portfolio-cms/internal/domain/content"
)

func TestTerms(t *testing.T) {
	assert.Equal(t, []string{"go", "redis"}, Terms("  Go   REDIS "))
	assert.Empty(t, Terms("   "))
}

func TestScore(t *testing.T) {
	project := content.Item{Title: "Portfolio", Description: "A site", Technologies: []string{"Go", "Redis"}, Skills: []string{"ignored"}}
	cert := content.Item{Title: "Cloud", Description: "Course", Skills: []string{"Kubernetes"}}

	assert.Equal(t, 2, Score(content.CollectionProjects, project, Terms("go redis java")))
	assert.Equal(t, 0, Score(content.CollectionProjects, project, Terms("ignored")))
	assert.Equal(t, 1, Score(content.CollectionCertifications, cert, Terms("kube")))
	assert.Equal(t, 0, Score(content.CollectionCertifications, cert, nil))
}
