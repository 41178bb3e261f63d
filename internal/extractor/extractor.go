// Package extractor extração de texto dos formatos aceitos
package extractor

import (
	"github.com/resper1965/DataFogScanner/internal/config"
	"github.com/resper1965/DataFogScanner/internal/extractor/processor"
	"github.com/resper1965/DataFogScanner/internal/logger"
	"github.com/resper1965/DataFogScanner/internal/model"
)

// Service despacha cada arquivo para o processador do seu formato
type Service struct {
	registry *processor.Registry
	fallback processor.Processor
}

// New monta o registro de processadores a partir da configuração
func New(cfg config.ExtractorConfig) *Service {
	registry := processor.NewRegistry()

	text := processor.NewTextProcessor(cfg.MaxTextBytes)
	registry.Register(text)
	registry.Register(processor.NewPDFProcessor(cfg.MaxPDFPages))
	registry.Register(processor.NewDocxProcessor())
	registry.Register(processor.NewXlsxProcessor())
	registry.Register(processor.NewCSVProcessor())
	registry.Register(processor.NewXMLProcessor())
	registry.Register(processor.NewHTMLProcessor())

	return &Service{
		registry: registry,
		// Formato desconhecido é tratado como texto puro
		fallback: text,
	}
}

// Extract extrai o texto do arquivo
// Nunca propaga erro: falhas viram Success=false com Text vazio
func (s *Service) Extract(filePath string) model.ExtractionResult {
	fileType := sniffType(filePath)

	proc, ok := s.registry.GetByType(fileType)
	if !ok {
		logger.Debug("Formato sem processador dedicado, tratando como texto",
			"path", filePath,
			"type", fileType,
		)
		proc = s.fallback
	}

	text, err := proc.Process(filePath)
	if err != nil {
		logger.Warn("Falha na extração de texto",
			"path", filePath,
			"processor", proc.Name(),
			"error", err,
		)
		return model.ExtractionResult{Text: "", Success: false, Error: err.Error()}
	}

	return model.ExtractionResult{Text: text, Success: true}
}

// SupportedTypes extensões com processador dedicado
func (s *Service) SupportedTypes() []string {
	return s.registry.SupportedTypes()
}
