package processor

import (
	"archive/zip"
	"encoding/xml"
	"io"
	"strings"
)

// ============================================================
// Processador de documentos Word (OOXML)
// ============================================================

// DocxProcessor extrai parágrafos de word/document.xml
type DocxProcessor struct {
	*BaseProcessor
}

// NewDocxProcessor cria o processador de DOCX
func NewDocxProcessor() *DocxProcessor {
	return &DocxProcessor{
		BaseProcessor: NewBaseProcessor(
			"docx",
			"Documentos Microsoft Word",
			[]string{"docx", "doc"},
		),
	}
}

// Process abre o pacote OOXML e junta os parágrafos com \n
func (p *DocxProcessor) Process(filePath string) (string, error) {
	r, err := zip.OpenReader(filePath)
	if err != nil {
		return "", NewProcessorError(p.Name(), filePath, "abertura", err)
	}
	defer r.Close()

	for _, f := range r.File {
		if f.Name != "word/document.xml" {
			continue
		}

		rc, err := f.Open()
		if err != nil {
			return "", NewProcessorError(p.Name(), filePath, "leitura", err)
		}
		text, err := extractParagraphs(rc)
		rc.Close()
		if err != nil {
			return "", NewProcessorError(p.Name(), filePath, "parsing", err)
		}
		return text, nil
	}

	return "", ParsingError(p.Name(), filePath, "word/document.xml não encontrado no pacote")
}

// extractParagraphs percorre os tokens XML acumulando o texto de <w:t>
// e quebrando a linha ao fechar cada parágrafo <w:p>
func extractParagraphs(r io.Reader) (string, error) {
	decoder := xml.NewDecoder(r)

	var sb strings.Builder
	inText := false

	for {
		token, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", err
		}

		switch t := token.(type) {
		case xml.StartElement:
			if t.Name.Local == "t" {
				inText = true
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				sb.WriteByte('\n')
			}
		case xml.CharData:
			if inText {
				sb.Write(t)
			}
		}
	}

	return strings.TrimRight(sb.String(), "\n") + "\n", nil
}
