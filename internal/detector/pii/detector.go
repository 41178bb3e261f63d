// Package pii detecção de dados pessoais brasileiros em texto extraído
package pii

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/resper1965/DataFogScanner/internal/config"
	"github.com/resper1965/DataFogScanner/internal/logger"
	"github.com/resper1965/DataFogScanner/internal/model"
)

// ownerLabelRegex nomes precedidos de rótulo, usados na atribuição de titular
var ownerLabelRegex = regexp.MustCompile(
	`(?:Nome|Titular|Portador|Cliente)\s*:\s*` +
		`([A-ZÀ-Ú][a-zà-ú]+(?:\s(?:d[aeo]s?\s)?[A-ZÀ-Ú][a-zà-ú]+)+)`)

// customPattern regex fornecido pelo usuário, já compilado
type customPattern struct {
	name  string
	regex *regexp.Regexp
}

// ownerCandidate nome candidato a titular e sua posição no texto
type ownerCandidate struct {
	name     string
	position int
}

// Detector aplica a tabela de padrões sobre o texto extraído
// A tabela é somente leitura após a construção e pode ser
// compartilhada entre jobs concorrentes
type Detector struct {
	patterns      []*Pattern
	custom        []customPattern
	contextWindow int
	ownerWindow   int
}

// New monta o detector a partir da configuração
// Padrões habilitados vazios caem nos padrões habilitados de fábrica
// Regex personalizado inválido é ignorado com aviso no log
func New(cfg config.DetectorConfig) *Detector {
	enabled := cfg.EnabledPatterns
	if len(enabled) == 0 {
		enabled = DefaultEnabledIDs()
	}

	var patterns []*Pattern
	for _, id := range enabled {
		p, ok := PatternByID(id)
		if !ok {
			logger.Warn("Padrão de detecção desconhecido ignorado", "id", id)
			continue
		}
		patterns = append(patterns, p)
	}

	var custom []customPattern
	for _, cp := range cfg.CustomPatterns {
		re, err := regexp.Compile("(?i)" + cp.Regex)
		if err != nil {
			logger.Warn("Regex personalizado inválido ignorado",
				"name", cp.Name,
				"error", err,
			)
			continue
		}
		custom = append(custom, customPattern{name: cp.Name, regex: re})
	}

	contextWindow := cfg.ContextWindow
	if contextWindow <= 0 {
		contextWindow = 30
	}
	ownerWindow := cfg.OwnerWindow
	if ownerWindow <= 0 {
		ownerWindow = 200
	}

	return &Detector{
		patterns:      patterns,
		custom:        custom,
		contextWindow: contextWindow,
		ownerWindow:   ownerWindow,
	}
}

// PatternIDs identificadores dos padrões habilitados
func (d *Detector) PatternIDs() []string {
	ids := make([]string, 0, len(d.patterns))
	for _, p := range d.patterns {
		ids = append(ids, p.ID)
	}
	return ids
}

// Detect roda todos os padrões habilitados sobre o texto
// Posições são deslocamentos de byte no texto de origem
func (d *Detector) Detect(text string) []model.Detection {
	if text == "" {
		return nil
	}

	owners := findOwnerCandidates(text)
	seen := make(map[string]bool)
	var detections []model.Detection

	for _, p := range d.patterns {
		for _, loc := range p.FindAllIndex(text) {
			value := text[loc[0]:loc[1]]

			if p.ID == "cpf" && !PlausibleCPF(value) {
				continue
			}
			if p.ID == "cnpj" && !PlausibleCNPJ(value) {
				continue
			}

			det := d.buildDetection(text, strings.ToUpper(p.ID), value, loc[0],
				p.RiskLevel, owners)
			key := det.Type + "|" + det.Value + "|" + strconv.Itoa(det.Position)
			if seen[key] {
				continue
			}
			seen[key] = true
			detections = append(detections, det)
		}
	}

	for _, cp := range d.custom {
		for _, loc := range cp.regex.FindAllStringIndex(text, -1) {
			value := text[loc[0]:loc[1]]
			det := d.buildDetection(text, "CUSTOM", value, loc[0],
				model.PatternRiskMedium, owners)
			key := det.Type + "|" + det.Value + "|" + strconv.Itoa(det.Position)
			if seen[key] {
				continue
			}
			seen[key] = true
			detections = append(detections, det)
		}
	}

	sort.SliceStable(detections, func(i, j int) bool {
		return detections[i].Position < detections[j].Position
	})
	return detections
}

// buildDetection recorta o contexto e atribui o titular mais próximo
func (d *Detector) buildDetection(text, typ, value string, position int,
	risk model.PatternRisk, owners []ownerCandidate) model.Detection {

	start := position - d.contextWindow
	if start < 0 {
		start = 0
	}
	end := position + len(value) + d.contextWindow
	if end > len(text) {
		end = len(text)
	}

	return model.Detection{
		Type:      typ,
		Value:     value,
		Position:  position,
		Context:   strings.TrimSpace(text[start:end]),
		RiskLevel: risk,
		Method:    model.MethodRegex,
		Owner:     d.nearestOwner(owners, position),
	}
}

// nearestOwner escolhe o nome candidato mais próximo dentro da janela
// Empate em distância é quebrado pela ocorrência mais antiga no texto
func (d *Detector) nearestOwner(owners []ownerCandidate, position int) string {
	best := ""
	bestDistance := d.ownerWindow + 1

	for _, o := range owners {
		distance := position - o.position
		if distance < 0 {
			distance = -distance
		}
		if distance < bestDistance {
			best = o.name
			bestDistance = distance
		}
	}
	return best
}

// findOwnerCandidates varre o texto por nomes rotulados
// Candidatos são ordenados pela posição da ocorrência
func findOwnerCandidates(text string) []ownerCandidate {
	var candidates []ownerCandidate
	for _, loc := range ownerLabelRegex.FindAllStringSubmatchIndex(text, -1) {
		// loc[2]/loc[3] delimitam o grupo com o nome
		if loc[2] < 0 {
			continue
		}
		candidates = append(candidates, ownerCandidate{
			name:     text[loc[2]:loc[3]],
			position: loc[2],
		})
	}
	return candidates
}
