package automation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderTemplateSubstitution(t *testing.T) {
	vars := map[string]interface{}{
		"titolo":  "Corso Base",
		"posti":   float64(12),
		"attivo":  true,
		"cliente": nil,
	}

	assert.Equal(t, "Corso Base (12 posti)", RenderTemplate("{{titolo}} ({{posti}} posti)", vars))
	assert.Equal(t, "attivo=true", RenderTemplate("attivo={{attivo}}", vars))
	// Whitespace inside the braces is tolerated.
	assert.Equal(t, "Corso Base", RenderTemplate("{{ titolo }}", vars))
}

func TestRenderTemplateUnresolvedIsEmpty(t *testing.T) {
	vars := map[string]interface{}{"titolo": "Corso Base", "cliente": nil}

	// Unknown and nil variables render empty; template syntax never leaks.
	assert.Equal(t, "Gentile ,", RenderTemplate("Gentile {{cliente}},", vars))
	assert.Equal(t, "", RenderTemplate("{{nonEsiste}}", vars))
	assert.Equal(t, "x  y", RenderTemplate("x {{a.b.c}} y", vars))
}

func TestRenderTemplateDottedPaths(t *testing.T) {
	vars := map[string]interface{}{
		"referente": map[string]interface{}{"nome": "Anna", "email": "anna@example.com"},
		"partecipanti": []map[string]interface{}{
			{"nome": "Mario"},
			{"nome": "Lucia"},
		},
	}

	assert.Equal(t, "Anna <anna@example.com>", RenderTemplate("{{referente.nome}} <{{referente.email}}>", vars))
	assert.Equal(t, "Lucia", RenderTemplate("{{partecipanti.1.nome}}", vars))
	// Out-of-range index resolves to nothing.
	assert.Equal(t, "", RenderTemplate("{{partecipanti.5.nome}}", vars))
}

func TestBuildVariableBag(t *testing.T) {
	bag := buildVariableBag(SaveInput{
		ResourceID: "rec-1",
		Data:       map[string]interface{}{"titolo": "Riunione"},
		ParticipantsDetail: []map[string]interface{}{
			{"nome": "Mario", "email": "mario@example.com"},
		},
	})

	assert.Equal(t, "Riunione", bag["titolo"])
	assert.Equal(t, "rec-1", bag["recordId"])
	assert.Equal(t, "1", bag["numeroPartecipanti"])
	assert.Equal(t, "mario@example.com", RenderTemplate("{{partecipanti.0.email}}", bag))
}
