package processor

import (
	"os"
	"regexp"
	"strings"
)

// ============================================================
// Processador de CSV
// ============================================================

// csvDelimiters vírgula e ponto-e-vírgula (padrão brasileiro)
var csvDelimiters = regexp.MustCompile(`[,;]`)

// CSVProcessor converte CSV em texto legível
// Cada delimitador vira " | ", preservando uma linha por registro
type CSVProcessor struct {
	*BaseProcessor
}

// NewCSVProcessor cria o processador de CSV
func NewCSVProcessor() *CSVProcessor {
	return &CSVProcessor{
		BaseProcessor: NewBaseProcessor(
			"csv",
			"Arquivos CSV",
			[]string{"csv"},
		),
	}
}

// Process lê o arquivo e troca os delimitadores por " | "
func (p *CSVProcessor) Process(filePath string) (string, error) {
	raw, err := os.ReadFile(filePath)
	if err != nil {
		return "", NewProcessorError(p.Name(), filePath, "leitura", err)
	}

	content := DecodeToUTF8(raw)
	lines := strings.Split(content, "\n")
	for i, line := range lines {
		lines[i] = csvDelimiters.ReplaceAllString(line, " | ")
	}

	return strings.Join(lines, "\n"), nil
}
