// Package prompt composes the system and user messages sent to the
// inference gateway. Everything here is pure: identical inputs produce
// byte-identical output.
package prompt

import (
	"strings"

	"github.com/lexlabs/lexagent/internal/models"
)

const basePersona = "Eres un asistente legal especializado que ayuda con consultas jurídicas. " +
	"Tu objetivo es proporcionar información legal precisa, útil y comprensible."

// Clause tables are total over the closed enums; values outside them are
// rejected at the boundary before composition.
var specializationClauses = map[models.Specialization]string{
	models.SpecializationGeneral: "Tienes conocimientos generales en derecho y puedes ayudar con consultas de diversas áreas legales.",
	models.SpecializationPenal:   "Te especializas en derecho penal y puedes ayudar con consultas sobre delitos, procedimientos penales y defensa criminal.",
	models.SpecializationCivil:   "Te especializas en derecho civil y puedes ayudar con consultas sobre contratos, responsabilidad civil, familia y sucesiones.",
	models.SpecializationLaboral: "Te especializas en derecho laboral y puedes ayudar con consultas sobre relaciones laborales, derechos del trabajador y empleador.",
}

var toneClauses = map[models.Tone]string{
	models.ToneFormal:    "Utiliza un lenguaje formal y técnico, apropiado para documentos legales y comunicaciones oficiales.",
	models.ToneColoquial: "Utiliza un lenguaje claro y accesible, explicando conceptos legales de manera sencilla.",
	models.ToneTecnico:   "Utiliza terminología legal precisa y técnica, apropiada para profesionales del derecho.",
}

// SpecializationClause returns the system prompt clause for a specialization.
// Non-members yield the empty string; there is no fallback that could hide a
// specialization without a clause.
func SpecializationClause(s models.Specialization) string {
	return specializationClauses[s]
}

// ToneClause returns the system prompt clause for a tone.
func ToneClause(t models.Tone) string {
	return toneClauses[t]
}

// BuildSystemPrompt assembles the system message from a configuration:
// base persona, specialization clause, tone clause, and the user's custom
// instructions verbatim when set.
func BuildSystemPrompt(cfg models.AgentConfig) string {
	var sb strings.Builder

	sb.WriteString(basePersona)
	sb.WriteString("\n\n")
	sb.WriteString(SpecializationClause(cfg.Specialization))
	sb.WriteString("\n\n")
	sb.WriteString(ToneClause(cfg.Tone))

	if cfg.CustomInstructions != "" {
		sb.WriteString("\n\nInstrucciones personalizadas: ")
		sb.WriteString(cfg.CustomInstructions)
	}

	return sb.String()
}

// BuildUserMessage assembles the user message. When additional context is
// supplied it is prepended on its own paragraph before the query.
func BuildUserMessage(query, context string) string {
	if context == "" {
		return query
	}
	return "Contexto: " + context + "\n\n" + query
}
