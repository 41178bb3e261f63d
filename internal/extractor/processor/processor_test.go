package processor

import (
	"archive/zip"
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFixture(t *testing.T, name string, content []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, content, 0644); err != nil {
		t.Fatalf("Falha ao criar fixture: %v", err)
	}
	return path
}

// buildPackage monta um pacote OOXML mínimo em disco
func buildPackage(t *testing.T, name string, members map[string]string) string {
	t.Helper()
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for member, content := range members {
		fw, err := w.Create(member)
		if err != nil {
			t.Fatalf("Falha ao criar membro %q: %v", member, err)
		}
		if _, err := fw.Write([]byte(content)); err != nil {
			t.Fatalf("Falha ao escrever membro %q: %v", member, err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Falha ao fechar pacote: %v", err)
	}
	return writeFixture(t, name, buf.Bytes())
}

// ==========================================
// Texto puro
// ==========================================

func TestTextProcessor_UTF8(t *testing.T) {
	p := NewTextProcessor(0)
	path := writeFixture(t, "nota.txt", []byte("João da Silva, CPF 123.456.789-00"))

	text, err := p.Process(path)
	if err != nil {
		t.Fatalf("Process falhou: %v", err)
	}
	if !strings.Contains(text, "João da Silva") {
		t.Errorf("texto não contém o conteúdo esperado: %q", text)
	}
}

func TestTextProcessor_Latin1(t *testing.T) {
	p := NewTextProcessor(0)
	// "São Paulo" em ISO-8859-1: 0xE3 = ã
	raw := []byte{'S', 0xE3, 'o', ' ', 'P', 'a', 'u', 'l', 'o'}
	path := writeFixture(t, "legado.txt", raw)

	text, err := p.Process(path)
	if err != nil {
		t.Fatalf("Process falhou: %v", err)
	}
	if text != "São Paulo" {
		t.Errorf("Process() = %q, want %q", text, "São Paulo")
	}
}

func TestTextProcessor_BOM(t *testing.T) {
	p := NewTextProcessor(0)
	raw := append([]byte{0xEF, 0xBB, 0xBF}, []byte("conteúdo")...)
	path := writeFixture(t, "bom.txt", raw)

	text, err := p.Process(path)
	if err != nil {
		t.Fatalf("Process falhou: %v", err)
	}
	if text != "conteúdo" {
		t.Errorf("Process() = %q, want %q", text, "conteúdo")
	}
}

// ==========================================
// DOCX
// ==========================================

func TestDocxProcessor_Paragraphs(t *testing.T) {
	document := `<?xml version="1.0" encoding="UTF-8"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body>
    <w:p><w:r><w:t>Primeiro parágrafo com CPF 123.456.789-00</w:t></w:r></w:p>
    <w:p><w:r><w:t>Segundo </w:t></w:r><w:r><w:t>parágrafo</w:t></w:r></w:p>
  </w:body>
</w:document>`
	path := buildPackage(t, "contrato.docx", map[string]string{
		"word/document.xml":   document,
		"[Content_Types].xml": `<Types/>`,
	})

	p := NewDocxProcessor()
	text, err := p.Process(path)
	if err != nil {
		t.Fatalf("Process falhou: %v", err)
	}

	lines := strings.Split(strings.TrimRight(text, "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("len(parágrafos) = %d, want 2 (%q)", len(lines), text)
	}
	if lines[0] != "Primeiro parágrafo com CPF 123.456.789-00" {
		t.Errorf("parágrafo 1 = %q", lines[0])
	}
	if lines[1] != "Segundo parágrafo" {
		t.Errorf("parágrafo 2 = %q", lines[1])
	}
}

func TestDocxProcessor_MissingDocument(t *testing.T) {
	path := buildPackage(t, "vazio.docx", map[string]string{
		"[Content_Types].xml": `<Types/>`,
	})

	p := NewDocxProcessor()
	if _, err := p.Process(path); err == nil {
		t.Error("esperava erro para pacote sem word/document.xml")
	}
}

// ==========================================
// XLSX
// ==========================================

func TestXlsxProcessor_SheetsAndSharedStrings(t *testing.T) {
	sharedStrings := `<?xml version="1.0"?>
<sst xmlns="http://schemas.openxmlformats.org/spreadsheetml/2006/main">
  <si><t>Nome</t></si>
  <si><t>Maria Souza</t></si>
</sst>`
	workbook := `<?xml version="1.0"?>
<workbook xmlns="http://schemas.openxmlformats.org/spreadsheetml/2006/main">
  <sheets><sheet name="Clientes" sheetId="1"/></sheets>
</workbook>`
	sheet := `<?xml version="1.0"?>
<worksheet xmlns="http://schemas.openxmlformats.org/spreadsheetml/2006/main">
  <sheetData>
    <row r="1"><c r="A1" t="s"><v>0</v></c><c r="B1"><v>42</v></c></row>
    <row r="2"><c r="A2" t="s"><v>1</v></c><c r="B2"><v>7</v></c></row>
    <row r="3"><c r="A3"><v> </v></c></row>
  </sheetData>
</worksheet>`
	path := buildPackage(t, "clientes.xlsx", map[string]string{
		"xl/sharedStrings.xml":    sharedStrings,
		"xl/workbook.xml":         workbook,
		"xl/worksheets/sheet1.xml": sheet,
	})

	p := NewXlsxProcessor()
	text, err := p.Process(path)
	if err != nil {
		t.Fatalf("Process falhou: %v", err)
	}

	if !strings.Contains(text, "=== Planilha: Clientes ===") {
		t.Errorf("saída sem marcador de planilha: %q", text)
	}
	if !strings.Contains(text, "Nome\t42") {
		t.Errorf("linha 1 incorreta: %q", text)
	}
	if !strings.Contains(text, "Maria Souza\t7") {
		t.Errorf("linha 2 incorreta: %q", text)
	}
	// Linha só com espaço deve ser descartada
	if strings.Count(text, "\n") > 4 {
		t.Errorf("linha vazia não foi descartada: %q", text)
	}
}

func TestXlsxProcessor_NoSheets(t *testing.T) {
	path := buildPackage(t, "semfolhas.xlsx", map[string]string{
		"[Content_Types].xml": `<Types/>`,
	})

	p := NewXlsxProcessor()
	if _, err := p.Process(path); err == nil {
		t.Error("esperava erro para pacote sem planilhas")
	}
}

// ==========================================
// CSV
// ==========================================

func TestCSVProcessor_Delimiters(t *testing.T) {
	p := NewCSVProcessor()
	path := writeFixture(t, "dados.csv", []byte("nome,cpf\nJoão;123.456.789-00"))

	text, err := p.Process(path)
	if err != nil {
		t.Fatalf("Process falhou: %v", err)
	}

	want := "nome | cpf\nJoão | 123.456.789-00"
	if text != want {
		t.Errorf("Process() = %q, want %q", text, want)
	}
}

// ==========================================
// XML e HTML
// ==========================================

func TestXMLProcessor_StripTags(t *testing.T) {
	p := NewXMLProcessor()
	path := writeFixture(t, "cadastro.xml", []byte(
		`<cliente>
			<nome>Pedro</nome>
			<cpf>123.456.789-00</cpf>
		</cliente>`))

	text, err := p.Process(path)
	if err != nil {
		t.Fatalf("Process falhou: %v", err)
	}

	if text != "Pedro 123.456.789-00" {
		t.Errorf("Process() = %q, want %q", text, "Pedro 123.456.789-00")
	}
}

func TestHTMLProcessor_VisibleText(t *testing.T) {
	p := NewHTMLProcessor()
	path := writeFixture(t, "pagina.html", []byte(
		`<html><head><script>var x = 1;</script><style>p{}</style></head>`+
			`<body><p>Contato: ana@example.com</p></body></html>`))

	text, err := p.Process(path)
	if err != nil {
		t.Fatalf("Process falhou: %v", err)
	}

	if !strings.Contains(text, "Contato: ana@example.com") {
		t.Errorf("texto visível ausente: %q", text)
	}
	if strings.Contains(text, "var x") {
		t.Errorf("script não deveria aparecer no texto: %q", text)
	}
}

// ==========================================
// PDF
// ==========================================

func TestPDFProcessor_InvalidFile(t *testing.T) {
	p := NewPDFProcessor(0)
	path := writeFixture(t, "quebrado.pdf", []byte("isto não é um pdf"))

	if _, err := p.Process(path); err == nil {
		t.Error("esperava erro para PDF inválido")
	}
}

func TestPDFProcessor_EmptyFile(t *testing.T) {
	p := NewPDFProcessor(0)
	path := writeFixture(t, "vazio.pdf", nil)

	if _, err := p.Process(path); err == nil {
		t.Error("esperava erro para arquivo vazio")
	}
}

// ==========================================
// Registro
// ==========================================

func TestRegistry_Dispatch(t *testing.T) {
	r := NewRegistry()
	r.Register(NewCSVProcessor())
	r.Register(NewTextProcessor(0))

	if _, ok := r.GetByType(".CSV"); !ok {
		t.Error("extensão .CSV deveria resolver para o processador de CSV")
	}
	if _, ok := r.GetByType("pdf"); ok {
		t.Error("pdf não deveria ter processador neste registro")
	}
	if r.Count() != 2 {
		t.Errorf("Count() = %d, want 2", r.Count())
	}
}
