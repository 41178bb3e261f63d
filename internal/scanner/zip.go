package scanner

import (
	"archive/zip"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/resper1965/DataFogScanner/internal/model"
)

// inspectZip lista o conteúdo do ZIP sem extrair e procura por
// zip bomb, membros executáveis, path traversal e criptografia
func (s *Scanner) inspectZip(path string) []model.Threat {
	var threats []model.Threat

	r, err := zip.OpenReader(path)
	if err != nil {
		// Arquivo corrompido ou ilegível: suspeito, nunca fatal
		return []model.Threat{{
			Kind:        model.ThreatSuspiciousExtension,
			Description: fmt.Sprintf("Erro ao analisar ZIP, arquivo pode estar corrompido: %v", err),
			Severity:    model.SeverityMedium,
		}}
	}
	defer r.Close()

	var totalUncompressed, totalCompressed uint64
	passwordProtected := false

	for _, f := range r.File {
		totalUncompressed += f.UncompressedSize64
		totalCompressed += f.CompressedSize64

		// Bit 0 do flag geral indica membro criptografado
		if f.Flags&0x1 != 0 {
			passwordProtected = true
		}

		entryExt := strings.ToLower(filepath.Ext(f.Name))
		if dangerousExtensions[entryExt] {
			threats = append(threats, model.Threat{
				Kind:        model.ThreatExecutable,
				Description: fmt.Sprintf("Arquivo executável dentro do ZIP: %s", f.Name),
				Severity:    model.SeverityHigh,
			})
		}

		if strings.Contains(f.Name, "../") || strings.Contains(f.Name, `..\`) {
			threats = append(threats, model.Threat{
				Kind:        model.ThreatMalware,
				Description: fmt.Sprintf("Tentativa de path traversal: %s", f.Name),
				Severity:    model.SeverityCritical,
			})
		}
	}

	// Razão de compressão agregada
	if totalCompressed > 0 {
		ratio := float64(totalUncompressed) / float64(totalCompressed)
		if ratio > s.maxCompressionRatio {
			threats = append(threats, model.Threat{
				Kind:        model.ThreatZipBomb,
				Description: fmt.Sprintf("Possível ZIP bomb, taxa de compressão %.0f:1", ratio),
				Severity:    model.SeverityCritical,
			})
		}
	}

	if len(r.File) > s.maxZipEntries {
		threats = append(threats, model.Threat{
			Kind:        model.ThreatZipBomb,
			Description: fmt.Sprintf("Número excessivo de arquivos no ZIP: %d", len(r.File)),
			Severity:    model.SeverityHigh,
		})
	}

	if passwordProtected {
		threats = append(threats, model.Threat{
			Kind:        model.ThreatPasswordProtected,
			Description: "Arquivo protegido por senha, conteúdo não verificável",
			Severity:    model.SeverityMedium,
		})
	}

	return threats
}
