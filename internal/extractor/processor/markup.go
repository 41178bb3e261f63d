package processor

import (
	"os"
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

// ============================================================
// Processadores de XML e HTML
// ============================================================

var (
	xmlTags    = regexp.MustCompile(`<[^>]*>`)
	whitespace = regexp.MustCompile(`\s+`)
)

// XMLProcessor remove as tags e normaliza o espaçamento
type XMLProcessor struct {
	*BaseProcessor
}

// NewXMLProcessor cria o processador de XML
func NewXMLProcessor() *XMLProcessor {
	return &XMLProcessor{
		BaseProcessor: NewBaseProcessor(
			"xml",
			"Documentos XML",
			[]string{"xml"},
		),
	}
}

// Process descarta a marcação e devolve só o texto
func (p *XMLProcessor) Process(filePath string) (string, error) {
	raw, err := os.ReadFile(filePath)
	if err != nil {
		return "", NewProcessorError(p.Name(), filePath, "leitura", err)
	}

	content := DecodeToUTF8(raw)
	text := xmlTags.ReplaceAllString(content, " ")
	text = whitespace.ReplaceAllString(text, " ")
	return strings.TrimSpace(text), nil
}

// HTMLProcessor extrai os nós de texto da árvore HTML
type HTMLProcessor struct {
	*BaseProcessor
}

// NewHTMLProcessor cria o processador de HTML
func NewHTMLProcessor() *HTMLProcessor {
	return &HTMLProcessor{
		BaseProcessor: NewBaseProcessor(
			"html",
			"Documentos HTML",
			[]string{"html", "htm"},
		),
	}
}

// Process faz o parse tolerante do HTML e coleta o texto visível
func (p *HTMLProcessor) Process(filePath string) (string, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return "", NewProcessorError(p.Name(), filePath, "abertura", err)
	}
	defer f.Close()

	doc, err := html.Parse(f)
	if err != nil {
		return "", NewProcessorError(p.Name(), filePath, "parsing", err)
	}

	var sb strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && (n.Data == "script" || n.Data == "style") {
			return
		}
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
			sb.WriteByte(' ')
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	text := whitespace.ReplaceAllString(sb.String(), " ")
	return strings.TrimSpace(text), nil
}
