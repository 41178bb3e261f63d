package intake

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/resper1965/DataFogScanner/internal/logger"
)

// Profundidade máxima de ZIPs aninhados durante a expansão
const maxNestedDepth = 5

// ==========================================
// Expansão de arquivos ZIP
// ==========================================

// ExpandZip extrai um ZIP aceito para <destRoot>/extracted/<base>/ e
// devolve os caminhos dos membros com extensão suportada. ZIPs aninhados
// são expandidos recursivamente. Entradas com traversal de caminho são
// rejeitadas individualmente sem abortar a expansão.
func ExpandZip(zipPath, destRoot string, allowed map[string]bool) ([]string, error) {
	return expandZip(zipPath, destRoot, allowed, 0)
}

func expandZip(zipPath, destRoot string, allowed map[string]bool, depth int) ([]string, error) {
	if depth >= maxNestedDepth {
		return nil, fmt.Errorf("zip aninhado excede profundidade máxima (%d)", maxNestedDepth)
	}

	reader, err := zip.OpenReader(zipPath)
	if err != nil {
		return nil, fmt.Errorf("falha ao abrir zip: %w", err)
	}
	defer reader.Close()

	if destRoot == "" {
		destRoot = filepath.Dir(zipPath)
	}
	base := strings.TrimSuffix(filepath.Base(zipPath), filepath.Ext(zipPath))
	extractDir := filepath.Join(destRoot, "extracted", base)
	if err := os.MkdirAll(extractDir, 0o755); err != nil {
		return nil, fmt.Errorf("falha ao criar diretório de extração: %w", err)
	}

	var files []string
	for _, entry := range reader.File {
		if entry.FileInfo().IsDir() {
			continue
		}
		if !filepath.IsLocal(filepath.FromSlash(entry.Name)) {
			logger.Warn("Entrada de zip com traversal de caminho ignorada",
				"zip", zipPath, "entrada", entry.Name)
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name))
		if ext != ".zip" && !allowed[ext] {
			continue
		}

		target := filepath.Join(extractDir, filepath.FromSlash(entry.Name))
		if err := extractEntry(entry, target); err != nil {
			logger.Warn("Falha ao extrair entrada do zip",
				"zip", zipPath, "entrada", entry.Name, "error", err)
			continue
		}

		if ext == ".zip" {
			nested, err := expandZip(target, filepath.Dir(target), allowed, depth+1)
			if err != nil {
				logger.Warn("Falha ao expandir zip aninhado",
					"zip", target, "error", err)
				continue
			}
			files = append(files, nested...)
			continue
		}
		files = append(files, target)
	}
	return files, nil
}

func extractEntry(entry *zip.File, target string) error {
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}
	src, err := entry.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	dst, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	defer dst.Close()

	_, err = io.Copy(dst, src)
	return err
}
