package classifier

import (
	"fmt"

	"github.com/resper1965/DataFogScanner/internal/model"
)

// validationPrompt pergunta se um candidato regex é um dado pessoal genuíno
func validationPrompt(candidate model.Detection, context string) string {
	return fmt.Sprintf(`Analise se o valor %q no contexto abaixo é genuinamente um %s:

CONTEXTO:
%q

CRITÉRIOS:
- Para nomes: deve ser nome de pessoa real, não nome de empresa/produto
- Para endereços: deve ser endereço completo e válido
- Para documentos: deve estar em contexto pessoal, não como exemplo
- Para datas: deve ser data de nascimento plausível (1900-2010)

Responda em JSON:
{
  "is_valid": boolean,
  "confidence": number (0.0-1.0),
  "reasoning": "explicação breve"
}`, candidate.Value, candidate.Type, context)
}

// discoveryPrompt pede entidades pessoais que o regex simples não alcança
func discoveryPrompt(text string) string {
	return fmt.Sprintf(`Analise o texto abaixo e identifique dados pessoais sensíveis que podem ter sido perdidos por regex simples:

TEXTO:
%q

PROCURE POR:
1. Nomes completos de pessoas (2+ palavras capitalizadas)
2. Endereços residenciais/comerciais complexos
3. Dados contextuais (profissão + nome, cargo + pessoa)
4. Informações familiares (filho de, casado com)
5. Dados médicos ou financeiros em linguagem natural

IGNORE:
- Nomes de empresas, produtos, lugares
- Endereços de websites
- Datas que não sejam nascimento
- Números de telefone já detectados por regex

Responda em JSON:
{
  "detections": [
    {
      "type": "nome_completo|endereco_complexo|informacao_familiar|dados_medicos|dados_financeiros",
      "value": "texto exato encontrado",
      "context": "contexto de 50 caracteres ao redor",
      "risk_level": "high|medium|low",
      "confidence": number (0.0-1.0)
    }
  ]
}`, text)
}
