package config

import (
	"strings"
	"testing"
)

// TestInstanceFingerprint valida formato e estabilidade do fingerprint
func TestInstanceFingerprint(t *testing.T) {
	fp, err := InstanceFingerprint()
	if err != nil {
		t.Fatalf("InstanceFingerprint falhou: %v", err)
	}

	// SHA-256 em hex: 64 caracteres minúsculos
	if len(fp) != 64 {
		t.Errorf("len(fingerprint) = %d, want 64", len(fp))
	}
	if fp != strings.ToLower(fp) {
		t.Errorf("fingerprint deveria ser hex minúsculo: %s", fp)
	}

	// Duas chamadas na mesma máquina devem coincidir
	fp2, err := InstanceFingerprint()
	if err != nil {
		t.Fatalf("segunda chamada falhou: %v", err)
	}
	if fp != fp2 {
		t.Errorf("fingerprint instável: %s != %s", fp, fp2)
	}
}

func TestVersionInfo(t *testing.T) {
	info := VersionInfo()
	if !strings.Contains(info, Version) {
		t.Errorf("VersionInfo() = %q, deveria conter a versão %q", info, Version)
	}
}
