// Package scanner verificação de segurança de arquivos recebidos
package scanner

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/h2non/filetype"

	"github.com/resper1965/DataFogScanner/internal/config"
	"github.com/resper1965/DataFogScanner/internal/logger"
	"github.com/resper1965/DataFogScanner/internal/model"
)

// ==========================================
// Políticas de extensão
// ==========================================

// dangerousExtensions extensões executáveis ou de script bloqueadas
var dangerousExtensions = map[string]bool{
	".exe": true, ".scr": true, ".bat": true, ".cmd": true, ".com": true,
	".pif": true, ".vbs": true, ".js": true, ".jar": true, ".msi": true,
	".dll": true, ".sys": true, ".drv": true, ".ocx": true, ".cpl": true,
	".ps1": true, ".psm1": true, ".psd1": true,
	".sh": true, ".bash": true, ".zsh": true,
}

// scriptExtensions subconjunto tratado como script (demais são executáveis)
var scriptExtensions = map[string]bool{
	".bat": true, ".cmd": true, ".vbs": true, ".js": true,
	".ps1": true, ".psm1": true, ".psd1": true,
	".sh": true, ".bash": true, ".zsh": true,
}

// suspiciousExtensions formatos de pacote que merecem atenção
var suspiciousExtensions = map[string]bool{
	".zip": true, ".rar": true, ".7z": true, ".tar": true, ".gz": true,
	".bz2": true, ".xz": true, ".iso": true, ".img": true, ".dmg": true,
	".pkg": true, ".deb": true, ".rpm": true,
}

// zipFamilyExtensions formatos inspecionados como arquivo ZIP
var zipFamilyExtensions = map[string]bool{
	".zip": true, ".jar": true, ".war": true, ".ear": true,
}

// ==========================================
// Scanner
// ==========================================

// Limites aplicados quando a configuração não os define
const (
	defaultMaxFileSize         = 100 * 1024 * 1024
	defaultMaxZipEntries       = 1000
	defaultMaxCompressionRatio = 100.0
)

// Scanner executa a cadeia de verificações de um arquivo
type Scanner struct {
	maxFileSize         int64
	maxZipEntries       int
	maxCompressionRatio float64

	clamav *clamAV

	// SHA-256 bloqueados, busca O(1)
	blacklist map[string]bool
}

// New cria um Scanner a partir da configuração
func New(cfg config.ScannerConfig) *Scanner {
	if cfg.MaxFileSize <= 0 {
		cfg.MaxFileSize = defaultMaxFileSize
	}
	if cfg.MaxZipEntries <= 0 {
		cfg.MaxZipEntries = defaultMaxZipEntries
	}
	if cfg.MaxCompressionRatio <= 0 {
		cfg.MaxCompressionRatio = defaultMaxCompressionRatio
	}

	blacklist := make(map[string]bool, len(cfg.HashBlacklist))
	for _, h := range cfg.HashBlacklist {
		blacklist[strings.ToLower(h)] = true
	}

	return &Scanner{
		maxFileSize:         cfg.MaxFileSize,
		maxZipEntries:       cfg.MaxZipEntries,
		maxCompressionRatio: cfg.MaxCompressionRatio,
		clamav:              newClamAV(cfg.ClamAVEnabled, cfg.ClamAVPath),
		blacklist:           blacklist,
	}
}

// ScanFile executa todas as verificações e consolida o veredito
// Arquivo sujo não é erro: o veredito carrega as ameaças encontradas.
// Erro só é retornado quando o próprio arquivo não pôde ser lido
func (s *Scanner) ScanFile(ctx context.Context, path string) (*model.ScanVerdict, error) {
	start := time.Now()

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("path is a directory: %s", path)
	}

	var threats []model.Threat

	// 1. Limite de tamanho
	if info.Size() > s.maxFileSize {
		threats = append(threats, model.Threat{
			Kind:        model.ThreatSuspiciousExtension,
			Description: fmt.Sprintf("Arquivo excede o limite de %d bytes", s.maxFileSize),
			Severity:    model.SeverityMedium,
		})
	}

	// 2. Política de extensão
	threats = append(threats, s.checkExtension(path)...)

	// 3. Conteúdo executável disfarçado (magic bytes)
	threats = append(threats, s.checkMagicMismatch(path)...)

	// 4. Inspeção de ZIP (zip bomb, membros perigosos, criptografia)
	ext := strings.ToLower(filepath.Ext(path))
	if zipFamilyExtensions[ext] {
		threats = append(threats, s.inspectZip(path)...)
	}

	// 5. ClamAV
	threats = append(threats, s.clamav.scan(ctx, path)...)

	// 6. Blacklist de hash
	hash, hashErr := computeFileSHA256(path)
	if hashErr != nil {
		logger.Warn("Falha ao calcular SHA-256", "path", path, "error", hashErr)
	} else if s.blacklist[hash] {
		threats = append(threats, model.Threat{
			Kind:        model.ThreatMalware,
			Description: "Hash do arquivo consta na lista de bloqueio",
			Severity:    model.SeverityCritical,
		})
	}

	verdict := &model.ScanVerdict{
		IsClean:        isClean(threats),
		Threats:        threats,
		ScanDurationMS: time.Since(start).Milliseconds(),
		FileHash:       hash,
		RiskLevel:      aggregateRisk(threats),
	}

	logger.Info("Verificação concluída",
		"path", path,
		"risk", verdict.RiskLevel,
		"threats", len(threats),
		"duration_ms", verdict.ScanDurationMS,
	)
	return verdict, nil
}

// checkExtension aplica a política de extensões
func (s *Scanner) checkExtension(path string) []model.Threat {
	ext := strings.ToLower(filepath.Ext(path))

	if dangerousExtensions[ext] {
		kind := model.ThreatExecutable
		if scriptExtensions[ext] {
			kind = model.ThreatScript
		}
		return []model.Threat{{
			Kind:        kind,
			Description: fmt.Sprintf("Extensão perigosa: %s", ext),
			Severity:    model.SeverityCritical,
		}}
	}

	if suspiciousExtensions[ext] {
		return []model.Threat{{
			Kind:        model.ThreatSuspiciousExtension,
			Description: fmt.Sprintf("Arquivo compactado requer verificação adicional: %s", ext),
			Severity:    model.SeverityLow,
		}}
	}

	return nil
}

// checkMagicMismatch compara o tipo real (magic bytes) com a extensão
func (s *Scanner) checkMagicMismatch(path string) []model.Threat {
	f, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer f.Close()

	// filetype precisa de no máximo 261 bytes de cabeçalho
	head := make([]byte, 261)
	n, _ := io.ReadFull(f, head)
	if n == 0 {
		return nil
	}

	kind, err := filetype.Match(head[:n])
	if err != nil || kind == filetype.Unknown {
		return nil
	}

	if kind.Extension == "exe" || kind.Extension == "elf" {
		ext := strings.ToLower(filepath.Ext(path))
		if !dangerousExtensions[ext] {
			return []model.Threat{{
				Kind:        model.ThreatExecutable,
				Description: fmt.Sprintf("Conteúdo executável (%s) com extensão %q", kind.Extension, ext),
				Severity:    model.SeverityCritical,
			}}
		}
	}
	return nil
}

// ==========================================
// Agregação do veredito
// ==========================================

// aggregateRisk consolida as ameaças em um nível de risco
// dangerous quando houver ameaça crítica; qualquer outra ameaça
// rebaixa para suspicious; sem ameaças o arquivo é safe
func aggregateRisk(threats []model.Threat) model.RiskLevel {
	hasCritical := false
	for _, t := range threats {
		if t.Severity == model.SeverityCritical {
			hasCritical = true
			break
		}
	}

	switch {
	case hasCritical:
		return model.RiskDangerous
	case len(threats) > 0:
		return model.RiskSuspicious
	default:
		return model.RiskSafe
	}
}

// isClean sem ameaças, ou apenas ameaças de severidade baixa
func isClean(threats []model.Threat) bool {
	for _, t := range threats {
		if t.Severity != model.SeverityLow {
			return false
		}
	}
	return true
}

// mimeTypes mapeamento por extensão dos formatos aceitos
var mimeTypes = map[string]string{
	".pdf":  "application/pdf",
	".doc":  "application/msword",
	".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	".xlsx": "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	".txt":  "text/plain",
	".zip":  "application/zip",
	".csv":  "text/csv",
	".json": "application/json",
	".xml":  "application/xml",
	".exe":  "application/x-executable",
	".bat":  "application/x-bat",
}

// MimeType tipo MIME pela extensão, com fallback genérico
func MimeType(path string) string {
	if mt, ok := mimeTypes[strings.ToLower(filepath.Ext(path))]; ok {
		return mt
	}
	return "application/octet-stream"
}

// computeFileSHA256 calcula o SHA-256 do arquivo
func computeFileSHA256(filePath string) (string, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()

	// Cópia em streaming para não carregar o arquivo inteiro em memória
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}
