package catalog

// The two worksheet schemas. Field names mirror the spreadsheet headers
// exactly; renaming a header is a breaking change for the source adapter.

type ModelEntry struct {
	Tipo                   string `json:"tipo"`
	Nome                   string `json:"nome"`
	BaseModel              string `json:"base_model"`
	EstiloUtilizacao       string `json:"estilo_utilizacao"`
	DimensionsRecomendadas string `json:"dimensions_recomendadas"`
	StrengthTipica         string `json:"strength_tipica"`
	Notas                  string `json:"notas"`
	FonteURL               string `json:"fonte_url"`
	CaminhoLocal           string `json:"caminho_local"`
	UltimaAtualizacao      string `json:"ultima_atualizacao"`
}

type WorkflowEntry struct {
	Nome                string `json:"nome"`
	Objetivo            string `json:"objetivo"`
	NodesPrincipais     string `json:"nodes_principais"`
	KSamplerRecomendado string `json:"ksampler_recomendado"`
	Dependencias        string `json:"dependencias"`
	TempoMedio          string `json:"tempo_medio"`
	QualidadeEsperada   string `json:"qualidade_esperada"`
	Link                string `json:"link"`
	Versao              string `json:"versao"`
	UltimaAtualizacao   string `json:"ultima_atualizacao"`
}

// ModelFields is the canonical column order for model/LoRA entries.
var ModelFields = []string{
	"tipo",
	"nome",
	"base_model",
	"estilo_utilizacao",
	"dimensions_recomendadas",
	"strength_tipica",
	"notas",
	"fonte_url",
	"caminho_local",
	"ultima_atualizacao",
}

// WorkflowFields is the canonical column order for workflow entries.
var WorkflowFields = []string{
	"nome",
	"objetivo",
	"nodes_principais",
	"ksampler_recomendado",
	"dependencias",
	"tempo_medio",
	"qualidade_esperada",
	"link",
	"versao",
	"ultima_atualizacao",
}

// FieldValue returns the value of the named column, and whether the
// column exists in the model schema.
func (e ModelEntry) FieldValue(name string) (string, bool) {
	switch name {
	case "tipo":
		return e.Tipo, true
	case "nome":
		return e.Nome, true
	case "base_model":
		return e.BaseModel, true
	case "estilo_utilizacao":
		return e.EstiloUtilizacao, true
	case "dimensions_recomendadas":
		return e.DimensionsRecomendadas, true
	case "strength_tipica":
		return e.StrengthTipica, true
	case "notas":
		return e.Notas, true
	case "fonte_url":
		return e.FonteURL, true
	case "caminho_local":
		return e.CaminhoLocal, true
	case "ultima_atualizacao":
		return e.UltimaAtualizacao, true
	}

	return "", false
}

func (e WorkflowEntry) FieldValue(name string) (string, bool) {
	switch name {
	case "nome":
		return e.Nome, true
	case "objetivo":
		return e.Objetivo, true
	case "nodes_principais":
		return e.NodesPrincipais, true
	case "ksampler_recomendado":
		return e.KSamplerRecomendado, true
	case "dependencias":
		return e.Dependencias, true
	case "tempo_medio":
		return e.TempoMedio, true
	case "qualidade_esperada":
		return e.QualidadeEsperada, true
	case "link":
		return e.Link, true
	case "versao":
		return e.Versao, true
	case "ultima_atualizacao":
		return e.UltimaAtualizacao, true
	}

	return "", false
}
