package pii

import (
	"strings"
	"testing"

	"github.com/resper1965/DataFogScanner/internal/config"
	"github.com/resper1965/DataFogScanner/internal/model"
)

func newDefaultDetector() *Detector {
	return New(config.DetectorConfig{})
}

func findByType(detections []model.Detection, typ string) []model.Detection {
	var out []model.Detection
	for _, d := range detections {
		if d.Type == typ {
			out = append(out, d)
		}
	}
	return out
}

func TestDetect_CPF(t *testing.T) {
	d := newDefaultDetector()
	text := "Cliente: Maria Souza CPF: 123.456.789-09 cadastrada em 2024"

	detections := d.Detect(text)
	cpfs := findByType(detections, "CPF")
	if len(cpfs) != 1 {
		t.Fatalf("len(CPF) = %d, want 1 (%v)", len(cpfs), detections)
	}

	got := cpfs[0]
	if got.Value != "123.456.789-09" {
		t.Errorf("Value = %q, want %q", got.Value, "123.456.789-09")
	}
	if want := strings.Index(text, "123.456.789-09"); got.Position != want {
		t.Errorf("Position = %d, want %d", got.Position, want)
	}
	if got.RiskLevel != model.PatternRiskHigh {
		t.Errorf("RiskLevel = %q, want %q", got.RiskLevel, model.PatternRiskHigh)
	}
	if got.Method != model.MethodRegex {
		t.Errorf("Method = %q, want %q", got.Method, model.MethodRegex)
	}
	if !strings.Contains(got.Context, "Maria Souza") {
		t.Errorf("Context não inclui o entorno: %q", got.Context)
	}
}

func TestDetect_ContextWindowDefault(t *testing.T) {
	d := newDefaultDetector()
	prefix := strings.Repeat("a", 80) + " INICIO "
	suffix := " FIM " + strings.Repeat("z", 80)
	value := "123.456.789-09"
	text := prefix + value + suffix

	cpfs := findByType(d.Detect(text), "CPF")
	if len(cpfs) != 1 {
		t.Fatalf("len(CPF) = %d, want 1", len(cpfs))
	}

	ctx := cpfs[0].Context
	// Raio padrão de 30 caracteres para cada lado, aparado
	if max := len(value) + 2*30; len(ctx) > max {
		t.Errorf("len(Context) = %d, want <= %d (%q)", len(ctx), max, ctx)
	}
	if !strings.Contains(ctx, "INICIO") || !strings.Contains(ctx, "FIM") {
		t.Errorf("Context não cobre o entorno imediato: %q", ctx)
	}
	if strings.Contains(ctx, strings.Repeat("a", 31)) {
		t.Errorf("Context extrapola o raio padrão: %q", ctx)
	}
}

func TestDetect_CPFImplausivel(t *testing.T) {
	d := newDefaultDetector()

	for _, value := range []string{"111.111.111-11", "000.000.000-00", "99999999999"} {
		text := "CPF registrado: " + value
		if cpfs := findByType(d.Detect(text), "CPF"); len(cpfs) != 0 {
			t.Errorf("CPF implausível %q não foi rejeitado", value)
		}
	}

	// Dígitos distintos continuam passando, com ou sem pontuação
	if cpfs := findByType(d.Detect("CPF: 12345678909"), "CPF"); len(cpfs) != 1 {
		t.Error("CPF sem pontuação deveria ser detectado")
	}
}

func TestDetect_OwnerAttribution(t *testing.T) {
	d := newDefaultDetector()

	text := "Titular: Ana Lima informou o CPF 123.456.789-09 no cadastro"
	cpfs := findByType(d.Detect(text), "CPF")
	if len(cpfs) != 1 {
		t.Fatalf("len(CPF) = %d, want 1", len(cpfs))
	}
	if cpfs[0].Owner != "Ana Lima" {
		t.Errorf("Owner = %q, want %q", cpfs[0].Owner, "Ana Lima")
	}
}

func TestDetect_OwnerNearestWins(t *testing.T) {
	d := newDefaultDetector()

	text := "Nome: Carlos Pereira contratante. " +
		strings.Repeat("x", 120) +
		" Titular: Beatriz Ramos CPF: 123.456.789-09"
	cpfs := findByType(d.Detect(text), "CPF")
	if len(cpfs) != 1 {
		t.Fatalf("len(CPF) = %d, want 1", len(cpfs))
	}
	if cpfs[0].Owner != "Beatriz Ramos" {
		t.Errorf("Owner = %q, want o nome mais próximo %q", cpfs[0].Owner, "Beatriz Ramos")
	}
}

func TestDetect_OwnerOutOfRange(t *testing.T) {
	d := New(config.DetectorConfig{OwnerWindow: 50})

	text := "Nome: Carlos Pereira. " + strings.Repeat("x", 200) + " CPF: 123.456.789-09"
	cpfs := findByType(d.Detect(text), "CPF")
	if len(cpfs) != 1 {
		t.Fatalf("len(CPF) = %d, want 1", len(cpfs))
	}
	if cpfs[0].Owner != "" {
		t.Errorf("Owner = %q, want vazio fora da janela", cpfs[0].Owner)
	}
}

func TestDetect_CustomPattern(t *testing.T) {
	d := New(config.DetectorConfig{
		EnabledPatterns: []string{"cpf"},
		CustomPatterns: []config.CustomPattern{
			{Name: "protocolo", Regex: `PROTO-\d{6}`},
		},
	})

	text := "Protocolo proto-123456 vinculado ao CPF 123.456.789-09"
	detections := d.Detect(text)

	customs := findByType(detections, "CUSTOM")
	if len(customs) != 1 {
		t.Fatalf("len(CUSTOM) = %d, want 1", len(customs))
	}
	if customs[0].Value != "proto-123456" {
		t.Errorf("Value = %q, want casamento sem distinção de caixa", customs[0].Value)
	}
	if customs[0].RiskLevel != model.PatternRiskMedium {
		t.Errorf("RiskLevel = %q, want %q", customs[0].RiskLevel, model.PatternRiskMedium)
	}
}

// Regex personalizado inválido é descartado sem derrubar a execução
func TestDetect_InvalidCustomPattern(t *testing.T) {
	d := New(config.DetectorConfig{
		EnabledPatterns: []string{"cpf"},
		CustomPatterns: []config.CustomPattern{
			{Name: "quebrado", Regex: `([`},
		},
	})

	detections := d.Detect("CPF: 123.456.789-09")
	if len(findByType(detections, "CPF")) != 1 {
		t.Error("padrões válidos deveriam continuar rodando")
	}
	if len(findByType(detections, "CUSTOM")) != 0 {
		t.Error("regex inválido não deveria produzir detecções")
	}
}

func TestDetect_DefaultPatterns(t *testing.T) {
	d := newDefaultDetector()

	want := []string{"cpf", "cnpj", "rg", "email", "telefone", "cep"}
	got := d.PatternIDs()
	if len(got) != len(want) {
		t.Fatalf("PatternIDs() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("PatternIDs()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestDetect_MultipleTypes(t *testing.T) {
	d := newDefaultDetector()
	text := "Contato: ana@example.com, CEP 01310-100, CNPJ 12.345.678/0001-95"

	detections := d.Detect(text)
	if len(findByType(detections, "EMAIL")) != 1 {
		t.Error("email não detectado")
	}
	if len(findByType(detections, "CEP")) != 1 {
		t.Error("CEP não detectado")
	}
	if len(findByType(detections, "CNPJ")) != 1 {
		t.Error("CNPJ não detectado")
	}

	// Saída ordenada por posição
	for i := 1; i < len(detections); i++ {
		if detections[i-1].Position > detections[i].Position {
			t.Errorf("saída fora de ordem: %v", detections)
			break
		}
	}
}

func TestDetect_RepeatedValueDistinctPositions(t *testing.T) {
	d := newDefaultDetector()
	text := "CPF 123.456.789-09 confirmado, repetido: 123.456.789-09"

	cpfs := findByType(d.Detect(text), "CPF")
	if len(cpfs) != 2 {
		t.Fatalf("len(CPF) = %d, want 2 ocorrências em posições distintas", len(cpfs))
	}
	if cpfs[0].Position == cpfs[1].Position {
		t.Error("posições deveriam ser distintas")
	}
}

func TestDetect_EmptyText(t *testing.T) {
	d := newDefaultDetector()
	if got := d.Detect(""); got != nil {
		t.Errorf("Detect(\"\") = %v, want nil", got)
	}
}

func TestPlausibleCNPJ(t *testing.T) {
	if !PlausibleCNPJ("12.345.678/0001-95") {
		t.Error("CNPJ com 14 dígitos deveria passar")
	}
	if PlausibleCNPJ("12.345.678/0001-9") {
		t.Error("CNPJ com 13 dígitos deveria falhar")
	}
}
