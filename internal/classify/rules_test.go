package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AngelCh415/terrafedash/internal/models"
)

func TestCategory(t *testing.T) {
	cases := map[string]models.Category{
		"Curso de Café Especial":      models.CategoryCoursesWorkshops,
		"OFICINA de latte art":        models.CategoryCoursesWorkshops,
		"Workshop Barista":            models.CategoryCoursesWorkshops,
		"Cursos Online":               models.CategoryOther,
		"Café Bourbon Amarelo 250g":   models.CategoryCoffee,
		"Kit Café + Xícara":           models.CategoryCoffee,
		"Kit Presente":                models.CategoryKits,
		"Xícara de Porcelana":         models.CategoryAccessories,
		"Aquarelas do Cerrado":        models.CategoryArt,
		"Doce de Leite":               models.CategoryFood,
		"Moedor Manual":               models.CategoryOther,
		"":                            models.CategoryOther,
		"Cafe\u0301 decomposto":       models.CategoryCoffee,
		"Kit Xícara e Doce":           models.CategoryKits,
		"Recurso de apoio":            models.CategoryOther,
		"workshop-intensivo de prova": models.CategoryCoursesWorkshops,
		"ÓCurso":                      models.CategoryOther,
		"Cursoé":                      models.CategoryOther,
		"Oficina_livre":               models.CategoryOther,
		"Curso2":                      models.CategoryOther,
		"(Curso) básico":              models.CategoryCoursesWorkshops,
		"Pré-curso":                   models.CategoryCoursesWorkshops,
	}
	for name, want := range cases {
		assert.Equal(t, want, Category(name), name)
	}
}

func TestCategoryIsTotal(t *testing.T) {
	valid := map[models.Category]bool{}
	for _, c := range models.Categories {
		valid[c] = true
	}
	for _, name := range []string{"x", "🙂", "  ", "KIT", "café", "Curso", "\x00\xff"} {
		assert.True(t, valid[Category(name)], "category for %q", name)
	}
}

func TestRulesOrder(t *testing.T) {
	rs := Rules()
	require.Len(t, rs, 6)
	assert.Equal(t, models.CategoryCoursesWorkshops, rs[0].Category)
	assert.Equal(t, models.CategoryCoffee, rs[1].Category)
	assert.Equal(t, models.CategoryKits, rs[2].Category)

	rs[0].Category = models.CategoryOther
	assert.Equal(t, models.CategoryCoursesWorkshops, Rules()[0].Category, "Rules must return a copy")
}

func TestBusinessLineFor(t *testing.T) {
	for _, c := range models.Categories {
		got := BusinessLineFor(c)
		if c == models.CategoryCoursesWorkshops {
			assert.Equal(t, models.BusinessLineInstitute, got)
		} else {
			assert.Equal(t, models.BusinessLineEcommerce, got, string(c))
		}
	}
}

func TestCampaignBusinessLine(t *testing.T) {
	assert.Equal(t, models.BusinessLineInstitute, CampaignBusinessLine("[INSTITUTO] Curso de Barista"))
	assert.Equal(t, models.BusinessLineInstitute, CampaignBusinessLine("Abril [INSTITUTO]"))
	assert.Equal(t, models.BusinessLineEcommerce, CampaignBusinessLine("[instituto] minúsculo"))
	assert.Equal(t, models.BusinessLineEcommerce, CampaignBusinessLine("INSTITUTO sem colchetes"))
	assert.Equal(t, models.BusinessLineEcommerce, CampaignBusinessLine("[ECOMMERCE] Cafés"))
}
