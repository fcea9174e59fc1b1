// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Matricula is the structured record extracted from a registry document.
// Field names follow the cartório vocabulary; every field is optional and
// absent fields are omitted from serialized output. The same keys are used
// for the JSON response-format constraint sent to the model API.
type Matricula struct {
	Metadata           DocumentMetadata  `json:"document_metadata" yaml:"document_metadata"`
	Imovel             Imovel            `json:"imovel" yaml:"imovel"`
	Proprietarios      []Proprietario    `json:"proprietarios" yaml:"proprietarios"`
	Registros          []Registro        `json:"registros" yaml:"registros"`
	ValoresMencionados []ValorMencionado `json:"valores_mencionados" yaml:"valores_mencionados"`
	SelosECustas       SelosECustas      `json:"selos_e_custas" yaml:"selos_e_custas"`
	Referencias        []Referencia      `json:"referencias" yaml:"referencias"`
	Confidence         map[string]any    `json:"confidence,omitempty" yaml:"confidence,omitempty"`
}

// NewMatricula returns the empty default document: zero pages processed,
// empty slices rather than nulls so merged and serialized output is stable.
func NewMatricula() *Matricula {
	return &Matricula{
		Proprietarios:      []Proprietario{},
		Registros:          []Registro{},
		ValoresMencionados: []ValorMencionado{},
		SelosECustas:       SelosECustas{Guias: []string{}, Selos: []string{}},
		Referencias:        []Referencia{},
		Confidence:         map[string]any{},
	}
}

// DocumentMetadata identifies the registry record and the issuing cartório.
type DocumentMetadata struct {
	// Matricula is the registry record number (e.g. "12.345").
	Matricula string `json:"matricula,omitempty" yaml:"matricula,omitempty"`

	// Ficha is the record sheet number within the matrícula.
	Ficha string `json:"ficha,omitempty" yaml:"ficha,omitempty"`

	// Cartorio is the registry office name.
	Cartorio string `json:"cartorio,omitempty" yaml:"cartorio,omitempty"`

	// Oficio is the office ordinal (e.g. "2º Ofício").
	Oficio string `json:"oficio,omitempty" yaml:"oficio,omitempty"`

	Cidade string `json:"cidade,omitempty" yaml:"cidade,omitempty"`
	UF     string `json:"uf,omitempty" yaml:"uf,omitempty"`

	// CNM is the national matrícula code.
	CNM string `json:"cnm,omitempty" yaml:"cnm,omitempty"`

	// PaginasProcessadas counts the pages actually sent to the model.
	PaginasProcessadas int `json:"paginas_processadas" yaml:"paginas_processadas"`

	Observacoes string `json:"observacoes,omitempty" yaml:"observacoes,omitempty"`
}

// Endereco is the property address as written in the record.
type Endereco struct {
	Logradouro string `json:"logradouro,omitempty" yaml:"logradouro,omitempty"`
	Numero     string `json:"numero,omitempty" yaml:"numero,omitempty"`
	Bairro     string `json:"bairro,omitempty" yaml:"bairro,omitempty"`
	Cidade     string `json:"cidade,omitempty" yaml:"cidade,omitempty"`
	UF         string `json:"uf,omitempty" yaml:"uf,omitempty"`
}

// Imovel describes the property itself.
type Imovel struct {
	Unidade  string   `json:"unidade,omitempty" yaml:"unidade,omitempty"`
	Endereco Endereco `json:"endereco,omitempty" yaml:"endereco,omitempty"`

	// Descricao is the faithful transcription of the "IMÓVEL - ..." paragraph.
	Descricao string `json:"descricao,omitempty" yaml:"descricao,omitempty"`

	CondominioFracaoIdeal string `json:"condominio_fracao_ideal,omitempty" yaml:"condominio_fracao_ideal,omitempty"`
	VagasEstacionamento   string `json:"vagas_estacionamento,omitempty" yaml:"vagas_estacionamento,omitempty"`
	Dimensoes             string `json:"dimensoes,omitempty" yaml:"dimensoes,omitempty"`
	Confrontacoes         string `json:"confrontacoes,omitempty" yaml:"confrontacoes,omitempty"`
}

// Proprietario is a registered owner of the property.
type Proprietario struct {
	Nome          string `json:"nome,omitempty" yaml:"nome,omitempty"`
	CPF           string `json:"cpf,omitempty" yaml:"cpf,omitempty"`
	RG            string `json:"rg,omitempty" yaml:"rg,omitempty"`
	Nacionalidade string `json:"nacionalidade,omitempty" yaml:"nacionalidade,omitempty"`
	EstadoCivil   string `json:"estado_civil,omitempty" yaml:"estado_civil,omitempty"`
	Profissao     string `json:"profissao,omitempty" yaml:"profissao,omitempty"`
	RegimeDeBens  string `json:"regime_de_bens,omitempty" yaml:"regime_de_bens,omitempty"`
	Conjuge       string `json:"conjuge,omitempty" yaml:"conjuge,omitempty"`
	QuotaFracao   string `json:"quota_fracao,omitempty" yaml:"quota_fracao,omitempty"`
	Observacoes   string `json:"observacoes,omitempty" yaml:"observacoes,omitempty"`
}

// Pessoa is a person cited inside a registered act.
type Pessoa struct {
	Nome string `json:"nome,omitempty" yaml:"nome,omitempty"`

	// Relacao is the person's role in the act: herdeira, cônjuge,
	// inventariante, ex-cônjuge and so on.
	Relacao string `json:"relacao,omitempty" yaml:"relacao,omitempty"`

	CPF string `json:"cpf,omitempty" yaml:"cpf,omitempty"`
}

// Valor is a monetary amount tied to an act or mentioned in the document.
type Valor struct {
	Rotulo string `json:"rotulo,omitempty" yaml:"rotulo,omitempty"`

	// Moeda is the currency as written: BRL, CR$, NCz$ ...
	Moeda    string  `json:"moeda,omitempty" yaml:"moeda,omitempty"`
	ValorStr string  `json:"valor_str,omitempty" yaml:"valor_str,omitempty"`
	ValorNum float64 `json:"valor_num,omitempty" yaml:"valor_num,omitempty"`
}

// Registro is one registered act (R-*) or annotation (AV-*) in the chain.
type Registro struct {
	// Numero is the act identifier, e.g. "R-3-12.345" or "AV-5-12.345".
	Numero   string `json:"numero,omitempty" yaml:"numero,omitempty"`
	Tipo     string `json:"tipo,omitempty" yaml:"tipo,omitempty"`
	Data     string `json:"data,omitempty" yaml:"data,omitempty"`
	Detalhes string `json:"detalhes,omitempty" yaml:"detalhes,omitempty"`

	PessoasEnvolvidas []Pessoa `json:"pessoas_envolvidas,omitempty" yaml:"pessoas_envolvidas,omitempty"`

	// PessoasEnvolvidasLegacy captures the misspelled key some model
	// snapshots produce. Normalize moves it into PessoasEnvolvidas.
	PessoasEnvolvidasLegacy []Pessoa `json:"pessoas_envovidas,omitempty" yaml:"pessoas_envovidas,omitempty"`

	Valores []Valor `json:"valores,omitempty" yaml:"valores,omitempty"`
}

// ValorMencionado is a monetary amount found anywhere in the document,
// with the page and surrounding context it was taken from.
type ValorMencionado struct {
	Moeda    string  `json:"moeda,omitempty" yaml:"moeda,omitempty"`
	ValorStr string  `json:"valor_str,omitempty" yaml:"valor_str,omitempty"`
	ValorNum float64 `json:"valor_num,omitempty" yaml:"valor_num,omitempty"`
	Contexto string  `json:"contexto,omitempty" yaml:"contexto,omitempty"`
	Pagina   int     `json:"pagina,omitempty" yaml:"pagina,omitempty"`
}

// SelosECustas aggregates stamps, payment slips, and registry fees.
type SelosECustas struct {
	ITBI   string   `json:"itbi,omitempty" yaml:"itbi,omitempty"`
	Guias  []string `json:"guias" yaml:"guias"`
	Selos  []string `json:"selos" yaml:"selos"`
	Custas string   `json:"custas,omitempty" yaml:"custas,omitempty"`
}

// Referencia is a short excerpt justifying a critical extracted field.
type Referencia struct {
	Pagina int    `json:"pagina,omitempty" yaml:"pagina,omitempty"`
	Trecho string `json:"trecho,omitempty" yaml:"trecho,omitempty"`
}
