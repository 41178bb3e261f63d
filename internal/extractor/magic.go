package extractor

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/h2non/filetype"
)

// sniffHeaderSize bytes lidos do cabeçalho
// filetype identifica OOXML olhando os nomes dos membros do ZIP, que
// ficam além dos 261 bytes mínimos
const sniffHeaderSize = 8192

// sniffType decide a extensão efetiva do arquivo
// Magic bytes têm prioridade; a extensão do nome só desempata quando o
// conteúdo é ambíguo (ZIP genérico) ou não identificável (texto)
func sniffType(filePath string) string {
	nameExt := strings.TrimPrefix(strings.ToLower(filepath.Ext(filePath)), ".")

	f, err := os.Open(filePath)
	if err != nil {
		return nameExt
	}
	defer f.Close()

	head := make([]byte, sniffHeaderSize)
	n, _ := io.ReadFull(f, head)
	if n == 0 {
		return nameExt
	}

	kind, err := filetype.Match(head[:n])
	if err != nil || kind == filetype.Unknown {
		// Conteúdo sem magic conhecido: confia na extensão
		return nameExt
	}

	// Pacotes OOXML são ZIP por dentro; quando o sniff não conseguiu
	// ir além de "zip", a extensão declarada decide o subformato
	if kind.Extension == "zip" && (nameExt == "docx" || nameExt == "xlsx" || nameExt == "doc" || nameExt == "xls") {
		return nameExt
	}

	return kind.Extension
}
