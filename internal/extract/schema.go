// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import "encoding/json"

// matriculaSchema is the response-format constraint passed to the model
// API. It is deliberately non-strict: registry documents vary widely and
// every field is optional. The misspelled "pessoas_envovidas" key is kept
// in the schema for compatibility with outputs produced by older model
// snapshots; Normalize folds it into the correct key afterwards.
var matriculaSchema = json.RawMessage(`{
  "name": "rgi_schema",
  "schema": {
    "type": "object",
    "additionalProperties": false,
    "properties": {
      "document_metadata": {
        "type": "object",
        "additionalProperties": false,
        "properties": {
          "matricula": {"type": "string"},
          "ficha": {"type": "string"},
          "cartorio": {"type": "string"},
          "oficio": {"type": "string"},
          "cidade": {"type": "string"},
          "uf": {"type": "string"},
          "cnm": {"type": "string"},
          "paginas_processadas": {"type": "integer"},
          "observacoes": {"type": "string"}
        }
      },
      "imovel": {
        "type": "object",
        "additionalProperties": false,
        "properties": {
          "unidade": {"type": "string"},
          "endereco": {
            "type": "object",
            "additionalProperties": false,
            "properties": {
              "logradouro": {"type": "string"},
              "numero": {"type": "string"},
              "bairro": {"type": "string"},
              "cidade": {"type": "string"},
              "uf": {"type": "string"}
            }
          },
          "descricao": {"type": "string"},
          "condominio_fracao_ideal": {"type": "string"},
          "vagas_estacionamento": {"type": "string"},
          "dimensoes": {"type": "string"},
          "confrontacoes": {"type": "string"}
        }
      },
      "proprietarios": {
        "type": "array",
        "items": {
          "type": "object",
          "additionalProperties": false,
          "properties": {
            "nome": {"type": "string"},
            "cpf": {"type": "string"},
            "rg": {"type": "string"},
            "nacionalidade": {"type": "string"},
            "estado_civil": {"type": "string"},
            "profissao": {"type": "string"},
            "regime_de_bens": {"type": "string"},
            "conjuge": {"type": "string"},
            "quota_fracao": {"type": "string"},
            "observacoes": {"type": "string"}
          }
        }
      },
      "registros": {
        "type": "array",
        "items": {
          "type": "object",
          "additionalProperties": false,
          "properties": {
            "numero": {"type": "string"},
            "tipo": {"type": "string"},
            "data": {"type": "string"},
            "detalhes": {"type": "string"},
            "pessoas_envolvidas": {
              "type": "array",
              "items": {
                "type": "object",
                "properties": {
                  "nome": {"type": "string"},
                  "relacao": {"type": "string"},
                  "cpf": {"type": "string"}
                }
              }
            },
            "pessoas_envovidas": {
              "type": "array",
              "items": {
                "type": "object",
                "properties": {
                  "nome": {"type": "string"},
                  "relacao": {"type": "string"},
                  "cpf": {"type": "string"}
                }
              }
            },
            "valores": {
              "type": "array",
              "items": {
                "type": "object",
                "properties": {
                  "rotulo": {"type": "string"},
                  "moeda": {"type": "string"},
                  "valor_str": {"type": "string"},
                  "valor_num": {"type": "number"}
                }
              }
            }
          }
        }
      },
      "valores_mencionados": {
        "type": "array",
        "items": {
          "type": "object",
          "properties": {
            "moeda": {"type": "string"},
            "valor_str": {"type": "string"},
            "valor_num": {"type": "number"},
            "contexto": {"type": "string"},
            "pagina": {"type": "integer"}
          }
        }
      },
      "selos_e_custas": {
        "type": "object",
        "additionalProperties": false,
        "properties": {
          "itbi": {"type": "string"},
          "guias": {"type": "array", "items": {"type": "string"}},
          "selos": {"type": "array", "items": {"type": "string"}},
          "custas": {"type": "string"}
        }
      },
      "referencias": {
        "type": "array",
        "items": {
          "type": "object",
          "additionalProperties": false,
          "properties": {
            "pagina": {"type": "integer"},
            "trecho": {"type": "string"}
          }
        }
      },
      "confidence": {
        "type": "object",
        "additionalProperties": true
      }
    }
  },
  "strict": false
}`)
