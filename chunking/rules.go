package chunking

import (
	"regexp"

	"github.com/lexscope/docsearch/core"
)

// BoundaryRule marks the start of a structural section and carries the
// classification for sections whose first line matches it.
type BoundaryRule struct {
	Type    core.SectionType
	Pattern *regexp.Regexp
}

// DefaultRules is the ordered rule table for semi-structured legal and
// contract text in Portuguese. Order is priority: when several rules match
// a section's first line, the first one wins. The rule set is data, not
// control flow, so individual rules are testable in isolation.
var DefaultRules = []BoundaryRule{
	// CLÁUSULA 1ª, Cláusula Primeira, CLAUSULA DÉCIMA
	{
		Type:    core.SectionTypeClause,
		Pattern: regexp.MustCompile(`(?m)^(?:CLÁUSULA|Cláusula|CLAUSULA|Clausula)\s+`),
	},
	// ARTIGO 1, Art. 1, Artigo Primeiro
	{
		Type:    core.SectionTypeArticle,
		Pattern: regexp.MustCompile(`(?m)^(?:ARTIGO|Artigo|Art\.?)\s+`),
	},
	// CAPÍTULO I, Capítulo 1
	{
		Type:    core.SectionTypeChapter,
		Pattern: regexp.MustCompile(`(?m)^(?:CAPÍTULO|Capítulo|CAPITULO|Capitulo)\s+`),
	},
	// SEÇÃO 1, Seção I
	{
		Type:    core.SectionTypeSection,
		Pattern: regexp.MustCompile(`(?m)^(?:SEÇÃO|Seção|SECAO|Secao)\s+`),
	},
	// PARÁGRAFO, § 1º, Parágrafo Único
	{
		Type:    core.SectionTypeParagraph,
		Pattern: regexp.MustCompile(`(?m)^(?:PARÁGRAFO|Parágrafo|PARAGRAFO|Paragrafo|§\s*\d)`),
	},
	// DAS OBRIGAÇÕES, DO OBJETO, DA VIGÊNCIA (uppercase heading lines)
	{
		Type:    core.SectionTypeGeneral,
		Pattern: regexp.MustCompile(`(?m)^(?:D[OAE]S?\s+[A-ZÀÁÂÃÉÊÍÓÔÕÚÇ][A-ZÀÁÂÃÉÊÍÓÔÕÚÇ\s]{3,})$`),
	},
	// Numbered outline markers: 1., 1.1, 1.1.1
	{
		Type:    core.SectionTypeGeneral,
		Pattern: regexp.MustCompile(`(?m)^\d+(?:\.\d+)*\.\s+[A-ZÁÀÂÃÉÊÍÓÔÕÚÇ]`),
	},
}

// Classify returns the section type for a section's first line, trying
// each rule in priority order. Lines matching no rule classify as general.
func Classify(firstLine string, rules []BoundaryRule) core.SectionType {
	for _, rule := range rules {
		if rule.Pattern.MatchString(firstLine) {
			return rule.Type
		}
	}
	return core.SectionTypeGeneral
}
