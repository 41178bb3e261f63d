package config

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/shirou/gopsutil/v3/host"
)

// =========================================================================
// 1. Variáveis injetadas em tempo de build
// Alteradas via -ldflags -X
// =========================================================================

var (
	// Version versão do software
	Version string = "00000000_DevBuild"

	// CommitID hash do commit
	CommitID string = "HEAD"

	// BuildTime data da compilação
	BuildTime string = "Unknown"
)

// =========================================================================
// 2. Identidade da instância
// =========================================================================

// InstanceFingerprint identifica a máquina nos registros de job e no
// heartbeat. Baseado no machine-id, com fallback para o hostname
func InstanceFingerprint() (string, error) {
	info, err := host.Info()
	if err != nil {
		return "", err
	}

	rawID := strings.TrimSpace(info.HostID)
	// Containers podem não ter machine-id
	if rawID == "" {
		if info.Hostname != "" {
			rawID = info.Hostname
		} else {
			return "", fmt.Errorf("machine-id and hostname are empty")
		}
	}

	// SHA-256 normaliza o tamanho e não expõe o valor original
	hash := sha256.Sum256([]byte(rawID))
	return hex.EncodeToString(hash[:]), nil
}

// VersionInfo resumo para o log de inicialização
func VersionInfo() string {
	return fmt.Sprintf("Version: %s | Commit: %s | Built: %s", Version, CommitID, BuildTime)
}
