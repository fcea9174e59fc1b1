// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

// extractionPrompt instructs the model to fill the response schema from
// the attached page images. It is written in Portuguese because the
// documents and the target vocabulary are Brazilian registry records.
const extractionPrompt = `Você é um extrator jurídico rigoroso para registros de imóveis brasileiros.
Extraia o conteúdo das imagens e preencha SOMENTE o JSON conforme o schema, sem chaves extras.

Diretrizes:
- NÃO invente. Se algo não estiver visível, omita o campo.
- Datas: dd/mm/aaaa quando claro.
- CPFs: somente dígitos.
- 'imovel.descricao': transcrever fielmente o parágrafo "IMÓVEL - ...".
- 'proprietarios': liste todos os proprietários com dados que estiverem visíveis (RG/CPF/estado civil/regime/quotas etc.).
- 'registros': para cada ato (R-*/AV-*):
  • 'numero', 'tipo', 'data' (se houver) e 'detalhes' com uma descrição clara do que foi averbado/registrado.
  • 'pessoas_envolvidas': relacione pessoas citadas no ato (ex.: herdeira, cônjuge, inventariante, ex-cônjuge).
  • 'valores': todos os valores que pertençam a ESSE ato (avaliado, ITBI, imposto de transmissão, valor fiscal etc.).
- 'valores_mencionados': todos os valores ao longo do documento, com moeda, valor_str, valor_num, contexto e página.
- 'selos_e_custas': selos, guias e custas como texto simples.
- 'referencias': pequenos trechos que justifiquem campos críticos (matrícula, unidade, proprietários e atos relevantes).
- O documento pode variar: preencha apenas o que estiver legível.
`

// pageLabel prefixes each attached image so the model can report page
// numbers in 'valores_mencionados' and 'referencias'.
const pageLabel = "Página %d:"
