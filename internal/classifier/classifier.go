// Package classifier validação e descoberta semântica de dados pessoais
// apoiada em um modelo de linguagem. Camada de melhor esforço: qualquer
// falha degrada para o resultado puramente regex, nunca derruba o pipeline.
package classifier

import (
	"context"
	"encoding/json"
	"os"
	"sort"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/resper1965/DataFogScanner/internal/config"
	"github.com/resper1965/DataFogScanner/internal/logger"
	"github.com/resper1965/DataFogScanner/internal/model"
)

const (
	// bypassConfidence confiança fixa de padrões estruturados que dispensam validação
	bypassConfidence = 0.95
	// fallbackConfidence confiança reduzida quando a validação falha
	fallbackConfidence = 0.7
	// discoveryConfidence confiança padrão de achados semânticos sem score próprio
	discoveryConfidence = 0.8
	// mergeDistance distância máxima entre posições para considerar duplicata
	mergeDistance = 10
	// validationContextRadius janela de contexto enviada na validação
	validationContextRadius = 100
)

// ambiguousTypes tipos que dígitos ou formato não bastam para confirmar
var ambiguousTypes = map[string]bool{
	"nome_completo":   true,
	"endereco":        true,
	"data_nascimento": true,
	"cnh":             true,
	"titulo_eleitor":  true,
}

// ChatCompleter operação de chat-completion usada pelo classificador
// Satisfeita por *openai.Client e por dublês de teste
type ChatCompleter interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// Classifier reavalia candidatos regex e descobre entidades fora do alcance deles
type Classifier struct {
	client          ChatCompleter
	model           string
	enabled         bool
	timeout         time.Duration
	discoveryWindow int
}

// New monta o classificador a partir da configuração
// Sem chave de API o classificador fica desabilitado e vira passagem direta
func New(cfg config.ClassifierConfig) *Classifier {
	apiKey := cfg.APIKey
	if apiKey == "" {
		apiKey = os.Getenv("OPENAI_API_KEY")
	}
	if !cfg.Enabled || apiKey == "" {
		return &Classifier{enabled: false}
	}

	clientCfg := openai.DefaultConfig(apiKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	return newWithClient(cfg, openai.NewClientWithConfig(clientCfg))
}

// NewWithClient injeta um cliente pronto, usado nos testes
func NewWithClient(cfg config.ClassifierConfig, client ChatCompleter) *Classifier {
	return newWithClient(cfg, client)
}

func newWithClient(cfg config.ClassifierConfig, client ChatCompleter) *Classifier {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	discoveryWindow := cfg.DiscoveryWindow
	if discoveryWindow <= 0 {
		discoveryWindow = 2000
	}
	chatModel := cfg.Model
	if chatModel == "" {
		chatModel = openai.GPT4oMini
	}

	return &Classifier{
		client:          client,
		model:           chatModel,
		enabled:         true,
		timeout:         timeout,
		discoveryWindow: discoveryWindow,
	}
}

// Enabled indica se a camada semântica está ativa
func (c *Classifier) Enabled() bool {
	return c.enabled
}

// Classify valida os candidatos regex, descobre entidades adicionais e
// funde tudo em uma lista única ordenada por posição
func (c *Classifier) Classify(ctx context.Context, text string, candidates []model.Detection) []model.Detection {
	var results []model.Detection

	for _, candidate := range candidates {
		if c.enabled && needsValidation(candidate.Type) {
			valid, confidence := c.validate(ctx, text, candidate)
			if !valid {
				continue
			}
			candidate.Confidence = confidence
			candidate.Method = model.MethodHybrid
		} else {
			// Padrões estruturados passam direto com confiança alta
			candidate.Confidence = bypassConfidence
			candidate.Method = model.MethodRegex
		}
		results = append(results, candidate)
	}

	if c.enabled {
		results = append(results, c.discover(ctx, text)...)
	}

	return merge(results)
}

// needsValidation tipos ambíguos que pedem confirmação semântica
func needsValidation(detectionType string) bool {
	return ambiguousTypes[strings.ToLower(detectionType)]
}

// validationReply resposta esperada da validação
type validationReply struct {
	IsValid    bool    `json:"is_valid"`
	Confidence float64 `json:"confidence"`
}

// validate confirma um candidato com a janela de contexto ao redor
// Falha de chamada ou de parse cai no fallback: válido com confiança reduzida
func (c *Classifier) validate(ctx context.Context, text string, candidate model.Detection) (bool, float64) {
	start := candidate.Position - validationContextRadius
	if start < 0 {
		start = 0
	}
	end := candidate.Position + len(candidate.Value) + validationContextRadius
	if end > len(text) {
		end = len(text)
	}

	reqCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.client.CreateChatCompletion(reqCtx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role: openai.ChatMessageRoleSystem,
				Content: "Você é um especialista em proteção de dados e LGPD. " +
					"Analise se o texto contém dados pessoais sensíveis genuínos ou falsos positivos. " +
					"Responda apenas em JSON.",
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: validationPrompt(candidate, text[start:end]),
			},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{Type: openai.ChatCompletionResponseFormatTypeJSONObject},
		Temperature:    0.1,
	})
	if err != nil {
		logger.Warn("Falha na validação semântica, mantendo resultado regex",
			"type", candidate.Type,
			"error", err,
		)
		return true, fallbackConfidence
	}

	var reply validationReply
	if err := json.Unmarshal([]byte(firstChoice(resp)), &reply); err != nil {
		logger.Warn("Resposta de validação fora do formato esperado",
			"type", candidate.Type,
			"error", err,
		)
		return true, fallbackConfidence
	}

	return reply.IsValid, clamp01(reply.Confidence)
}

// rawDiscovery item bruto retornado pela descoberta semântica
type rawDiscovery struct {
	Type       string  `json:"type"`
	Value      string  `json:"value"`
	Context    string  `json:"context"`
	RiskLevel  string  `json:"risk_level"`
	Confidence float64 `json:"confidence"`
}

// discoveryReply resposta esperada da descoberta
type discoveryReply struct {
	Detections []rawDiscovery `json:"detections"`
}

// discover envia o início do texto e recolhe entidades que o regex não cobre
// Qualquer falha devolve lista vazia
func (c *Classifier) discover(ctx context.Context, text string) []model.Detection {
	analysisText := text
	if len(analysisText) > c.discoveryWindow {
		analysisText = analysisText[:c.discoveryWindow]
	}

	reqCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.client.CreateChatCompletion(reqCtx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role: openai.ChatMessageRoleSystem,
				Content: "Você é um especialista em LGPD e proteção de dados. " +
					"Identifique dados pessoais sensíveis que podem não ter sido detectados por expressões regulares. " +
					"Foque em nomes completos, endereços complexos e dados contextuais.",
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: discoveryPrompt(analysisText),
			},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{Type: openai.ChatCompletionResponseFormatTypeJSONObject},
		Temperature:    0.2,
	})
	if err != nil {
		logger.Warn("Falha na descoberta semântica", "error", err)
		return nil
	}

	var reply discoveryReply
	if err := json.Unmarshal([]byte(firstChoice(resp)), &reply); err != nil {
		logger.Warn("Resposta de descoberta fora do formato esperado", "error", err)
		return nil
	}

	var detections []model.Detection
	for _, raw := range reply.Detections {
		if raw.Value == "" {
			continue
		}

		position := strings.Index(text, raw.Value)
		if position < 0 {
			position = 0
		}

		confidence := clamp01(raw.Confidence)
		if confidence == 0 {
			confidence = discoveryConfidence
		}

		detectionType := raw.Type
		if detectionType == "" {
			detectionType = "UNKNOWN"
		}

		detections = append(detections, model.Detection{
			Type:       strings.ToUpper(detectionType),
			Value:      raw.Value,
			Position:   position,
			Context:    raw.Context,
			RiskLevel:  parseRisk(raw.RiskLevel),
			Method:     model.MethodSemantic,
			Confidence: confidence,
		})
	}
	return detections
}

// merge funde detecções duplicadas mantendo a de maior confiança
// Duplicata: posições próximas e um valor contido no outro
func merge(detections []model.Detection) []model.Detection {
	var merged []model.Detection

	for _, det := range detections {
		duplicate := false
		for i, existing := range merged {
			if !sameFinding(existing, det) {
				continue
			}
			duplicate = true
			if det.Confidence > existing.Confidence {
				merged[i] = det
			}
			break
		}
		if !duplicate {
			merged = append(merged, det)
		}
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Position < merged[j].Position
	})
	return merged
}

// sameFinding mesmo achado em registros diferentes
func sameFinding(a, b model.Detection) bool {
	distance := a.Position - b.Position
	if distance < 0 {
		distance = -distance
	}
	if distance >= mergeDistance {
		return false
	}
	return strings.Contains(a.Value, b.Value) || strings.Contains(b.Value, a.Value)
}

// firstChoice conteúdo da primeira escolha da resposta
func firstChoice(resp openai.ChatCompletionResponse) string {
	if len(resp.Choices) == 0 {
		return ""
	}
	return resp.Choices[0].Message.Content
}

// parseRisk converte o risco textual do modelo, com medium como padrão
func parseRisk(raw string) model.PatternRisk {
	switch strings.ToLower(raw) {
	case "high":
		return model.PatternRiskHigh
	case "low":
		return model.PatternRiskLow
	default:
		return model.PatternRiskMedium
	}
}

// clamp01 limita o valor ao intervalo [0, 1]
func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
