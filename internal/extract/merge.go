// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"strings"

	"github.com/koortimativa/rgi-engine/pkg/types"
)

// Merge folds the partial document from one batch into dst. Arrays append
// in batch order so page order is preserved; metadata overlays non-empty
// fields; property scalars keep the first non-empty value seen.
func Merge(dst, src *types.Matricula) {
	if src == nil {
		return
	}

	mergeMetadata(&dst.Metadata, &src.Metadata)
	mergeImovel(&dst.Imovel, &src.Imovel)

	dst.Proprietarios = append(dst.Proprietarios, src.Proprietarios...)
	dst.Registros = append(dst.Registros, src.Registros...)
	dst.ValoresMencionados = append(dst.ValoresMencionados, src.ValoresMencionados...)
	dst.Referencias = append(dst.Referencias, src.Referencias...)

	dst.SelosECustas.Guias = append(dst.SelosECustas.Guias, src.SelosECustas.Guias...)
	dst.SelosECustas.Selos = append(dst.SelosECustas.Selos, src.SelosECustas.Selos...)
	fillString(&dst.SelosECustas.ITBI, src.SelosECustas.ITBI)
	fillString(&dst.SelosECustas.Custas, src.SelosECustas.Custas)

	for k, v := range src.Confidence {
		if _, ok := dst.Confidence[k]; !ok {
			dst.Confidence[k] = v
		}
	}
}

// mergeMetadata overlays non-empty fields from src onto dst. The processed
// page count is owned by the batch loop and never taken from the model.
func mergeMetadata(dst, src *types.DocumentMetadata) {
	overlayString(&dst.Matricula, src.Matricula)
	overlayString(&dst.Ficha, src.Ficha)
	overlayString(&dst.Cartorio, src.Cartorio)
	overlayString(&dst.Oficio, src.Oficio)
	overlayString(&dst.Cidade, src.Cidade)
	overlayString(&dst.UF, src.UF)
	overlayString(&dst.CNM, src.CNM)
	overlayString(&dst.Observacoes, src.Observacoes)
}

// mergeImovel keeps the first non-empty value for each property field.
// Later batches usually see only act pages, so the first description wins.
func mergeImovel(dst, src *types.Imovel) {
	fillString(&dst.Unidade, src.Unidade)
	fillString(&dst.Descricao, src.Descricao)
	fillString(&dst.CondominioFracaoIdeal, src.CondominioFracaoIdeal)
	fillString(&dst.VagasEstacionamento, src.VagasEstacionamento)
	fillString(&dst.Dimensoes, src.Dimensoes)
	fillString(&dst.Confrontacoes, src.Confrontacoes)

	fillString(&dst.Endereco.Logradouro, src.Endereco.Logradouro)
	fillString(&dst.Endereco.Numero, src.Endereco.Numero)
	fillString(&dst.Endereco.Bairro, src.Endereco.Bairro)
	fillString(&dst.Endereco.Cidade, src.Endereco.Cidade)
	fillString(&dst.Endereco.UF, src.Endereco.UF)
}

// overlayString replaces dst with src when src is non-empty.
func overlayString(dst *string, src string) {
	if src != "" {
		*dst = src
	}
}

// fillString sets dst from src only when dst is still empty.
func fillString(dst *string, src string) {
	if *dst == "" && src != "" {
		*dst = src
	}
}

// Normalize applies the post-merge fixups: the misspelled
// "pessoas_envovidas" key some model snapshots emit is folded into
// "pessoas_envolvidas" without losing entries, and owner CPFs are reduced
// to digits.
func Normalize(doc *types.Matricula) {
	for i := range doc.Registros {
		r := &doc.Registros[i]
		if len(r.PessoasEnvolvidasLegacy) > 0 {
			r.PessoasEnvolvidas = append(r.PessoasEnvolvidas, r.PessoasEnvolvidasLegacy...)
			r.PessoasEnvolvidasLegacy = nil
		}
	}

	for i := range doc.Proprietarios {
		doc.Proprietarios[i].CPF = digitsOnly(doc.Proprietarios[i].CPF)
	}
}

// digitsOnly strips every non-digit rune, e.g. "123.456.789-00" → "12345678900".
func digitsOnly(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, s)
}
