package extract

import (
	"encoding/json"
	"testing"

	"github.com/koortimativa/rgi-engine/pkg/types"
)

func TestMergeAppendsArraysInOrder(t *testing.T) {
	dst := types.NewMatricula()

	first := types.NewMatricula()
	first.Proprietarios = []types.Proprietario{{Nome: "Maria"}}
	first.Registros = []types.Registro{{Numero: "R-1"}}

	second := types.NewMatricula()
	second.Proprietarios = []types.Proprietario{{Nome: "João"}}
	second.Registros = []types.Registro{{Numero: "AV-2"}, {Numero: "R-3"}}

	Merge(dst, first)
	Merge(dst, second)

	wantRegs := []string{"R-1", "AV-2", "R-3"}
	if len(dst.Registros) != len(wantRegs) {
		t.Fatalf("got %d registros, want %d", len(dst.Registros), len(wantRegs))
	}
	for i, want := range wantRegs {
		if dst.Registros[i].Numero != want {
			t.Errorf("registros[%d] = %q, want %q", i, dst.Registros[i].Numero, want)
		}
	}

	if len(dst.Proprietarios) != 2 || dst.Proprietarios[0].Nome != "Maria" || dst.Proprietarios[1].Nome != "João" {
		t.Errorf("proprietarios merged out of order: %+v", dst.Proprietarios)
	}
}

func TestMergeMetadataOverlaysNonEmpty(t *testing.T) {
	dst := types.NewMatricula()

	first := types.NewMatricula()
	first.Metadata.Matricula = "12.345"
	first.Metadata.Cidade = "Niterói"

	second := types.NewMatricula()
	second.Metadata.Cidade = "São Gonçalo"
	second.Metadata.UF = "RJ"

	Merge(dst, first)
	Merge(dst, second)

	if dst.Metadata.Matricula != "12.345" {
		t.Errorf("matricula = %q, want preserved value", dst.Metadata.Matricula)
	}
	// Metadata takes the latest non-empty value.
	if dst.Metadata.Cidade != "São Gonçalo" {
		t.Errorf("cidade = %q, want overlay from second batch", dst.Metadata.Cidade)
	}
	if dst.Metadata.UF != "RJ" {
		t.Errorf("uf = %q, want RJ", dst.Metadata.UF)
	}
}

func TestMergeImovelFirstNonEmptyWins(t *testing.T) {
	dst := types.NewMatricula()

	first := types.NewMatricula()
	first.Imovel.Descricao = "IMÓVEL - apartamento 201"

	second := types.NewMatricula()
	second.Imovel.Descricao = "texto de outra página"
	second.Imovel.Unidade = "201"

	Merge(dst, first)
	Merge(dst, second)

	if dst.Imovel.Descricao != "IMÓVEL - apartamento 201" {
		t.Errorf("descricao = %q, want first batch value kept", dst.Imovel.Descricao)
	}
	if dst.Imovel.Unidade != "201" {
		t.Errorf("unidade = %q, want filled from second batch", dst.Imovel.Unidade)
	}
}

func TestMergeSelosECustas(t *testing.T) {
	dst := types.NewMatricula()

	first := types.NewMatricula()
	first.SelosECustas.ITBI = "R$ 1.200,00"
	first.SelosECustas.Guias = []string{"guia 1"}

	second := types.NewMatricula()
	second.SelosECustas.ITBI = "outro valor"
	second.SelosECustas.Guias = []string{"guia 2"}
	second.SelosECustas.Selos = []string{"selo A"}

	Merge(dst, first)
	Merge(dst, second)

	if dst.SelosECustas.ITBI != "R$ 1.200,00" {
		t.Errorf("itbi = %q, want first value kept", dst.SelosECustas.ITBI)
	}
	if len(dst.SelosECustas.Guias) != 2 || dst.SelosECustas.Guias[0] != "guia 1" {
		t.Errorf("guias = %v, want appended in order", dst.SelosECustas.Guias)
	}
	if len(dst.SelosECustas.Selos) != 1 {
		t.Errorf("selos = %v, want one entry", dst.SelosECustas.Selos)
	}
}

func TestNormalizeRenamesLegacyKey(t *testing.T) {
	// The misspelled key must land in the legacy field on decode and be
	// folded into the correct one without data loss.
	raw := `{"registros": [{"numero": "R-3", "pessoas_envovidas": [{"nome": "Ana", "relacao": "herdeira"}]}]}`

	var doc types.Matricula
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	Normalize(&doc)

	r := doc.Registros[0]
	if len(r.PessoasEnvolvidas) != 1 || r.PessoasEnvolvidas[0].Nome != "Ana" {
		t.Fatalf("pessoas_envolvidas = %+v, want entry from misspelled key", r.PessoasEnvolvidas)
	}
	if r.PessoasEnvolvidasLegacy != nil {
		t.Error("legacy field still populated after normalization")
	}

	out, err := json.Marshal(doc)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(out) == "" || jsonContains(out, "pessoas_envovidas") {
		t.Error("serialized output still carries the misspelled key")
	}
}

func TestNormalizeKeepsBothSpellings(t *testing.T) {
	doc := types.NewMatricula()
	doc.Registros = []types.Registro{{
		Numero:                  "AV-5",
		PessoasEnvolvidas:       []types.Pessoa{{Nome: "Bruno"}},
		PessoasEnvolvidasLegacy: []types.Pessoa{{Nome: "Carla"}},
	}}

	Normalize(doc)

	r := doc.Registros[0]
	if len(r.PessoasEnvolvidas) != 2 {
		t.Fatalf("got %d pessoas, want 2 (no data loss)", len(r.PessoasEnvolvidas))
	}
	if r.PessoasEnvolvidas[0].Nome != "Bruno" || r.PessoasEnvolvidas[1].Nome != "Carla" {
		t.Errorf("pessoas = %+v, want canonical entries first", r.PessoasEnvolvidas)
	}
}

func TestNormalizeStripsCPFFormatting(t *testing.T) {
	doc := types.NewMatricula()
	doc.Proprietarios = []types.Proprietario{
		{Nome: "Maria", CPF: "123.456.789-00"},
		{Nome: "João", CPF: "987 654 321 11"},
		{Nome: "Sem CPF"},
	}

	Normalize(doc)

	if doc.Proprietarios[0].CPF != "12345678900" {
		t.Errorf("cpf = %q, want digits only", doc.Proprietarios[0].CPF)
	}
	if doc.Proprietarios[1].CPF != "98765432111" {
		t.Errorf("cpf = %q, want digits only", doc.Proprietarios[1].CPF)
	}
	if doc.Proprietarios[2].CPF != "" {
		t.Errorf("empty cpf mangled: %q", doc.Proprietarios[2].CPF)
	}
}

func jsonContains(data []byte, key string) bool {
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return false
	}
	return mapHasKey(m, key)
}

func mapHasKey(v any, key string) bool {
	switch val := v.(type) {
	case map[string]any:
		if _, ok := val[key]; ok {
			return true
		}
		for _, inner := range val {
			if mapHasKey(inner, key) {
				return true
			}
		}
	case []any:
		for _, inner := range val {
			if mapHasKey(inner, key) {
				return true
			}
		}
	}
	return false
}
