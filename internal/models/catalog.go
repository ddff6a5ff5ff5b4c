package models

// CatalogEntry is one row of a static enumeration exposed to clients.
type CatalogEntry struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// ModelInfo describes an available inference model.
type ModelInfo struct {
	ID                string `json:"id"`
	Name              string `json:"name"`
	Description       string `json:"description"`
	MaxTokens         int    `json:"max_tokens"`
	SupportsStreaming bool   `json:"supports_streaming"`
}

// ModelCatalog lists the inference models the service knows about.
var ModelCatalog = []ModelInfo{
	{
		ID:                DefaultModel,
		Name:              "OpenAI GPT OSS 120B",
		Description:       "Modelo de 120B parámetros optimizado para tareas legales",
		MaxTokens:         MaxTokensLimit,
		SupportsStreaming: true,
	},
}

// SpecializationCatalog lists every specialization with display metadata.
var SpecializationCatalog = []CatalogEntry{
	{ID: "general", Name: "General", Description: "Conocimientos generales en derecho"},
	{ID: "penal", Name: "Penal", Description: "Especialización en derecho penal"},
	{ID: "civil", Name: "Civil", Description: "Especialización en derecho civil"},
	{ID: "laboral", Name: "Laboral", Description: "Especialización en derecho laboral"},
}

// ToneCatalog lists every tone with display metadata.
var ToneCatalog = []CatalogEntry{
	{ID: "formal", Name: "Formal", Description: "Lenguaje formal y técnico"},
	{ID: "coloquial", Name: "Coloquial", Description: "Lenguaje claro y accesible"},
	{ID: "tecnico", Name: "Técnico", Description: "Terminología legal precisa"},
}
