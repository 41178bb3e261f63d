package scanner

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"strings"

	"github.com/resper1965/DataFogScanner/internal/logger"
	"github.com/resper1965/DataFogScanner/internal/model"
)

// clamAV integração com o clamscan via subprocesso
type clamAV struct {
	enabled bool
	binPath string
}

func newClamAV(enabled bool, binPath string) *clamAV {
	if binPath == "" {
		binPath = "clamscan"
	}
	return &clamAV{enabled: enabled, binPath: binPath}
}

// scan roda o clamscan sobre o arquivo
// Código de saída 0 = limpo, 1 = infectado; qualquer outra situação
// (binário ausente, erro interno) é tratada como scanner indisponível
// e o pipeline segue sem essa verificação
func (c *clamAV) scan(ctx context.Context, path string) []model.Threat {
	if !c.enabled {
		return nil
	}

	cmd := exec.CommandContext(ctx, c.binPath, "--no-summary", path)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err == nil {
		return nil // limpo
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && exitErr.ExitCode() == 1 {
		return []model.Threat{{
			Kind:        model.ThreatVirus,
			Description: "Malware detectado pelo ClamAV: " + parseSignature(stdout.String()),
			Severity:    model.SeverityCritical,
		}}
	}

	logger.Warn("ClamAV indisponível, pulando verificação de malware",
		"path", path,
		"error", err,
		"stderr", strings.TrimSpace(stderr.String()),
	)
	return nil
}

// parseSignature extrai a assinatura da saída "arquivo: Assinatura FOUND"
func parseSignature(out string) string {
	line := strings.SplitN(strings.TrimSpace(out), "\n", 2)[0]
	if _, after, found := strings.Cut(line, ":"); found {
		sig := strings.TrimSpace(after)
		if sig != "" {
			return sig
		}
	}
	return "Malware detectado"
}
