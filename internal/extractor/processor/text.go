package processor

import (
	"io"
	"os"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// ============================================================
// Processador de texto puro
// ============================================================

// TextProcessor lê arquivos de texto, transcodificando legados
// Windows-1252/ISO-8859-1 (comuns em documentos brasileiros antigos)
type TextProcessor struct {
	*BaseProcessor
	maxBytes int64
}

// NewTextProcessor cria o processador de texto
func NewTextProcessor(maxBytes int64) *TextProcessor {
	if maxBytes <= 0 {
		maxBytes = 10 * 1024 * 1024
	}
	return &TextProcessor{
		BaseProcessor: NewBaseProcessor(
			"text",
			"Texto puro (txt, json e formatos desconhecidos)",
			[]string{"txt", "text", "json", "log"},
		),
		maxBytes: maxBytes,
	}
}

// Process lê o arquivo como texto UTF-8
func (p *TextProcessor) Process(filePath string) (string, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return "", NewProcessorError(p.Name(), filePath, "abertura", err)
	}
	defer f.Close()

	raw, err := io.ReadAll(io.LimitReader(f, p.maxBytes))
	if err != nil {
		return "", NewProcessorError(p.Name(), filePath, "leitura", err)
	}

	return DecodeToUTF8(raw), nil
}

// DecodeToUTF8 converte bytes para UTF-8
// Conteúdo que já é UTF-8 válido passa direto; caso contrário assume
// Windows-1252, superconjunto do ISO-8859-1 usado no Brasil
func DecodeToUTF8(raw []byte) string {
	// Remove BOM UTF-8 se presente
	if len(raw) >= 3 && raw[0] == 0xEF && raw[1] == 0xBB && raw[2] == 0xBF {
		raw = raw[3:]
	}

	if utf8.Valid(raw) {
		return string(raw)
	}

	decoded, _, err := transform.Bytes(charmap.Windows1252.NewDecoder(), raw)
	if err != nil {
		// Última alternativa: substitui bytes inválidos
		return string(raw)
	}
	return string(decoded)
}
