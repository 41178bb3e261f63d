package processor

import (
	"fmt"
	"strings"
	"sync"
)

// ============================================================
// Processador base
// ============================================================

// BaseProcessor implementação comum de nome, descrição e tipos
type BaseProcessor struct {
	name        string
	description string
	types       []string
}

// NewBaseProcessor cria um processador base
func NewBaseProcessor(name, description string, types []string) *BaseProcessor {
	normalized := make([]string, len(types))
	for i, ext := range types {
		normalized[i] = normalizeExtension(ext)
	}

	return &BaseProcessor{
		name:        name,
		description: description,
		types:       normalized,
	}
}

// Name retorna o nome do processador
func (p *BaseProcessor) Name() string {
	return p.name
}

// Description retorna a descrição do processador
func (p *BaseProcessor) Description() string {
	return p.description
}

// SupportedTypes retorna as extensões suportadas
func (p *BaseProcessor) SupportedTypes() []string {
	return p.types
}

// normalizeExtension normaliza a extensão (minúscula, sem ponto)
func normalizeExtension(ext string) string {
	ext = strings.ToLower(ext)
	ext = strings.TrimPrefix(ext, ".")
	return ext
}

// ============================================================
// Interface de processador
// ============================================================

// Processor extrai texto de um formato de arquivo
type Processor interface {
	Name() string
	Description() string
	SupportedTypes() []string
	Process(filePath string) (string, error)
}

// ============================================================
// Erros de processador
// ============================================================

// ProcessorError erro com o contexto do processador e da operação
type ProcessorError struct {
	Processor string
	FilePath  string
	Operation string
	Err       error
}

// Error implementa a interface error
func (e *ProcessorError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %s - %v", e.Processor, e.FilePath, e.Operation, e.Err)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Processor, e.FilePath, e.Operation)
}

// Unwrap retorna o erro original
func (e *ProcessorError) Unwrap() error {
	return e.Err
}

// NewProcessorError cria um erro de processador
func NewProcessorError(processor, filePath, operation string, err error) *ProcessorError {
	return &ProcessorError{
		Processor: processor,
		FilePath:  filePath,
		Operation: operation,
		Err:       err,
	}
}

// ParsingError erro de parsing do formato
func ParsingError(processor, filePath, reason string) *ProcessorError {
	return NewProcessorError(processor, filePath, "parsing", fmt.Errorf("%s", reason))
}

// EmptyFileError arquivo vazio
func EmptyFileError(processor, filePath string) *ProcessorError {
	return NewProcessorError(processor, filePath, "validação", fmt.Errorf("arquivo vazio"))
}

// ============================================================
// Registro de processadores
// ============================================================

// Registry registro de processadores indexado por extensão
type Registry struct {
	processors map[string]Processor
	typeMap    map[string]Processor
	mu         sync.RWMutex
}

// NewRegistry cria um registro vazio
func NewRegistry() *Registry {
	return &Registry{
		processors: make(map[string]Processor),
		typeMap:    make(map[string]Processor),
	}
}

// Register registra um processador para suas extensões
func (r *Registry) Register(p Processor) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.processors[p.Name()] = p
	for _, ext := range p.SupportedTypes() {
		r.typeMap[normalizeExtension(ext)] = p
	}
}

// Get busca um processador pelo nome
func (r *Registry) Get(name string) (Processor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.processors[name]
	return p, ok
}

// GetByType busca um processador pela extensão
func (r *Registry) GetByType(fileType string) (Processor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.typeMap[normalizeExtension(fileType)]
	return p, ok
}

// Has verifica se há processador para a extensão
func (r *Registry) Has(ext string) bool {
	_, ok := r.GetByType(ext)
	return ok
}

// SupportedTypes extensões de todos os processadores registrados
func (r *Registry) SupportedTypes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	types := make([]string, 0, len(r.typeMap))
	for t := range r.typeMap {
		types = append(types, t)
	}
	return types
}

// Count quantidade de processadores
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.processors)
}
