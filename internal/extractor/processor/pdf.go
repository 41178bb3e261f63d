package processor

import (
	"os"
	"strings"

	"github.com/ledongthuc/pdf"
)

// ============================================================
// Processador de PDF
// ============================================================

// PDFProcessor extrai texto com ledongthuc/pdf
type PDFProcessor struct {
	*BaseProcessor
	// Limite de páginas lidas; 0 lê o documento inteiro
	maxPages int
}

// NewPDFProcessor cria o processador de PDF
func NewPDFProcessor(maxPages int) *PDFProcessor {
	return &PDFProcessor{
		BaseProcessor: NewBaseProcessor(
			"pdf",
			"Documentos PDF",
			[]string{"pdf"},
		),
		maxPages: maxPages,
	}
}

// Process extrai o texto de todas as páginas, unidas por \n
func (p *PDFProcessor) Process(filePath string) (string, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return "", NewProcessorError(p.Name(), filePath, "abertura", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return "", NewProcessorError(p.Name(), filePath, "stat", err)
	}
	if info.Size() == 0 {
		return "", EmptyFileError(p.Name(), filePath)
	}

	reader, err := pdf.NewReader(f, info.Size())
	if err != nil {
		return "", NewProcessorError(p.Name(), filePath, "parsing", err)
	}

	totalPages := reader.NumPage()
	limit := totalPages
	if p.maxPages > 0 && p.maxPages < limit {
		limit = p.maxPages
	}

	var pages []string
	for i := 1; i <= limit; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}

		// GetPlainText pode falhar em páginas isoladas; segue para a próxima
		content, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		pages = append(pages, content)
	}

	return strings.Join(pages, "\n"), nil
}
