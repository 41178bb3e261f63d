package processor

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ============================================================
// Processador de planilhas Excel (OOXML)
// ============================================================

// XlsxProcessor extrai células de cada planilha do pacote
// Saída: marcador "=== Planilha: nome ===", linhas com células
// separadas por tabulação
type XlsxProcessor struct {
	*BaseProcessor
}

// NewXlsxProcessor cria o processador de XLSX
func NewXlsxProcessor() *XlsxProcessor {
	return &XlsxProcessor{
		BaseProcessor: NewBaseProcessor(
			"xlsx",
			"Planilhas Microsoft Excel",
			[]string{"xlsx", "xls"},
		),
	}
}

// Process percorre as planilhas na ordem declarada no workbook
func (p *XlsxProcessor) Process(filePath string) (string, error) {
	r, err := zip.OpenReader(filePath)
	if err != nil {
		return "", NewProcessorError(p.Name(), filePath, "abertura", err)
	}
	defer r.Close()

	files := make(map[string]*zip.File, len(r.File))
	for _, f := range r.File {
		files[f.Name] = f
	}

	var shared []string
	if f, ok := files["xl/sharedStrings.xml"]; ok {
		shared, err = parseSharedStrings(f)
		if err != nil {
			return "", NewProcessorError(p.Name(), filePath, "parsing", err)
		}
	}

	var sheetNames []string
	if f, ok := files["xl/workbook.xml"]; ok {
		sheetNames, _ = parseSheetNames(f)
	}

	var sb strings.Builder
	found := false
	for i := 1; ; i++ {
		f, ok := files[fmt.Sprintf("xl/worksheets/sheet%d.xml", i)]
		if !ok {
			break
		}
		found = true

		name := "Planilha" + strconv.Itoa(i)
		if i-1 < len(sheetNames) {
			name = sheetNames[i-1]
		}

		sb.WriteString("=== Planilha: " + name + " ===\n")
		rows, err := parseSheetRows(f, shared)
		if err != nil {
			return "", NewProcessorError(p.Name(), filePath, "parsing", err)
		}
		for _, row := range rows {
			sb.WriteString(row)
			sb.WriteByte('\n')
		}
		sb.WriteByte('\n')
	}

	if !found {
		return "", ParsingError(p.Name(), filePath, "nenhuma planilha encontrada no pacote")
	}
	return sb.String(), nil
}

// parseSharedStrings lê a tabela de strings compartilhadas
func parseSharedStrings(f *zip.File) ([]string, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	decoder := xml.NewDecoder(rc)

	var shared []string
	var current strings.Builder
	inEntry := false
	inText := false

	for {
		token, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		switch t := token.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "si":
				inEntry = true
				current.Reset()
			case "t":
				inText = true
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "si":
				inEntry = false
				shared = append(shared, current.String())
			case "t":
				inText = false
			}
		case xml.CharData:
			if inEntry && inText {
				current.Write(t)
			}
		}
	}

	return shared, nil
}

// parseSheetNames lê os nomes das planilhas na ordem do workbook
func parseSheetNames(f *zip.File) ([]string, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	decoder := xml.NewDecoder(rc)

	var names []string
	for {
		token, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		if start, ok := token.(xml.StartElement); ok && start.Name.Local == "sheet" {
			for _, attr := range start.Attr {
				if attr.Name.Local == "name" {
					names = append(names, attr.Value)
				}
			}
		}
	}

	return names, nil
}

// parseSheetRows converte as linhas da planilha em texto tab-separado
// Linhas sem conteúdo são descartadas
func parseSheetRows(f *zip.File, shared []string) ([]string, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	decoder := xml.NewDecoder(rc)

	var rows []string
	var cells []string
	var cellValue strings.Builder
	cellType := ""
	inValue := false

	for {
		token, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		switch t := token.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "row":
				cells = cells[:0]
			case "c":
				cellType = ""
				cellValue.Reset()
				for _, attr := range t.Attr {
					if attr.Name.Local == "t" {
						cellType = attr.Value
					}
				}
			case "v", "t":
				inValue = true
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "v", "t":
				inValue = false
			case "c":
				cells = append(cells, resolveCell(cellType, cellValue.String(), shared))
			case "row":
				rowText := strings.Join(cells, "\t")
				if strings.TrimSpace(rowText) != "" {
					rows = append(rows, rowText)
				}
			}
		case xml.CharData:
			if inValue {
				cellValue.Write(t)
			}
		}
	}

	return rows, nil
}

// resolveCell resolve o valor final da célula
// Tipo "s" indexa a tabela de strings compartilhadas
func resolveCell(cellType, raw string, shared []string) string {
	if cellType == "s" {
		idx, err := strconv.Atoi(strings.TrimSpace(raw))
		if err == nil && idx >= 0 && idx < len(shared) {
			return shared[idx]
		}
		return ""
	}
	return raw
}
