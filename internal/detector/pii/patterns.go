package pii

import (
	"regexp"
	"strings"

	"github.com/resper1965/DataFogScanner/internal/model"
)

// Pattern regra de detecção de um tipo de dado pessoal
type Pattern struct {
	ID          string             // identificador estável (chave de configuração)
	Name        string             // nome de exibição
	Description string             // descrição
	Regex       *regexp.Regexp     // expressão compilada
	RiskLevel   model.PatternRisk  // risco LGPD estático do tipo
	Enabled     bool               // habilitado por padrão
	Examples    []string           // exemplos de valores válidos
}

// Match verifica se o texto contém o padrão
func (p *Pattern) Match(text string) bool {
	return p.Regex.MatchString(text)
}

// FindAllIndex posições [início, fim) de todas as ocorrências
func (p *Pattern) FindAllIndex(text string) [][]int {
	return p.Regex.FindAllStringIndex(text, -1)
}

// ============================================================
// Dados de identidade (alto risco LGPD)
// ============================================================

// NomeCompletoPattern nomes completos de pessoas físicas
// Desabilitado por padrão: exige validação semântica para evitar falsos positivos
var NomeCompletoPattern = &Pattern{
	ID:          "nome_completo",
	Name:        "Nome Completo",
	Description: "Nomes completos de pessoas físicas",
	Regex:       regexp.MustCompile(`[A-ZÀ-Ú][a-zà-ú]+(?:\s[A-ZÀ-Ú][a-zà-ú]+)+`),
	RiskLevel:   model.PatternRiskHigh,
	Enabled:     false,
	Examples:    []string{"Maria Souza", "João da Silva"},
}

// CPFPattern Cadastro de Pessoas Físicas
var CPFPattern = &Pattern{
	ID:          "cpf",
	Name:        "CPF",
	Description: "Cadastro de Pessoas Físicas - formato XXX.XXX.XXX-XX",
	Regex:       regexp.MustCompile(`\b\d{3}\.?\d{3}\.?\d{3}-?\d{2}\b`),
	RiskLevel:   model.PatternRiskHigh,
	Enabled:     true,
	Examples:    []string{"123.456.789-09", "12345678909"},
}

// CNPJPattern Cadastro Nacional de Pessoa Jurídica
var CNPJPattern = &Pattern{
	ID:          "cnpj",
	Name:        "CNPJ",
	Description: "Cadastro Nacional de Pessoa Jurídica - formato XX.XXX.XXX/XXXX-XX",
	Regex:       regexp.MustCompile(`\b\d{2}\.?\d{3}\.?\d{3}/?\d{4}-?\d{2}\b`),
	RiskLevel:   model.PatternRiskHigh,
	Enabled:     true,
	Examples:    []string{"12.345.678/0001-95"},
}

// RGPattern Registro Geral
var RGPattern = &Pattern{
	ID:          "rg",
	Name:        "RG",
	Description: "Registro Geral - diversos formatos estaduais",
	Regex:       regexp.MustCompile(`\b\d{1,2}\.?\d{3}\.?\d{3}-?[0-9Xx]\b`),
	RiskLevel:   model.PatternRiskHigh,
	Enabled:     true,
	Examples:    []string{"12.345.678-9", "1.234.567-X"},
}

// CNHPattern Carteira Nacional de Habilitação
// Desabilitado por padrão: 11 dígitos soltos são ambíguos demais sem validação semântica
var CNHPattern = &Pattern{
	ID:          "cnh",
	Name:        "CNH",
	Description: "Carteira Nacional de Habilitação - 11 dígitos",
	Regex:       regexp.MustCompile(`\b\d{11}\b`),
	RiskLevel:   model.PatternRiskHigh,
	Enabled:     false,
}

// TituloEleitorPattern Título de Eleitor
var TituloEleitorPattern = &Pattern{
	ID:          "titulo_eleitor",
	Name:        "Título de Eleitor",
	Description: "Título de Eleitor brasileiro - 12 dígitos",
	Regex:       regexp.MustCompile(`\b\d{12}\b`),
	RiskLevel:   model.PatternRiskHigh,
	Enabled:     false,
}

// NISPattern Número de Identificação Social
var NISPattern = &Pattern{
	ID:          "nis_pis_pasep",
	Name:        "NIS/PIS/PASEP",
	Description: "Número de Identificação Social - formato XXX.XXXXX.XX-X",
	Regex:       regexp.MustCompile(`\b\d{3}\.\d{5}\.\d{2}-\d\b`),
	RiskLevel:   model.PatternRiskHigh,
	Enabled:     false,
	Examples:    []string{"123.45678.90-1"},
}

// CartaoSUSPattern Cartão Nacional de Saúde
var CartaoSUSPattern = &Pattern{
	ID:          "cartao_sus",
	Name:        "Cartão SUS",
	Description: "Cartão Nacional de Saúde - 15 dígitos",
	Regex:       regexp.MustCompile(`\b\d{3}\s?\d{4}\s?\d{4}\s?\d{4}\b`),
	RiskLevel:   model.PatternRiskHigh,
	Enabled:     false,
}

// ============================================================
// Dados de contato
// ============================================================

// EmailPattern endereços de email
var EmailPattern = &Pattern{
	ID:          "email",
	Name:        "Email",
	Description: "Endereços de email válidos",
	Regex:       regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`),
	RiskLevel:   model.PatternRiskLow,
	Enabled:     true,
	Examples:    []string{"ana@example.com"},
}

// TelefonePattern telefones brasileiros com DDD
var TelefonePattern = &Pattern{
	ID:          "telefone",
	Name:        "Telefone",
	Description: "Telefones brasileiros com DDD - celular e fixo",
	Regex:       regexp.MustCompile(`\b(?:\(?\d{2}\)?\s?)?(?:9\d{4}-?\d{4}|\d{4}-?\d{4})\b`),
	RiskLevel:   model.PatternRiskMedium,
	Enabled:     true,
	Examples:    []string{"(11) 91234-5678", "3456-7890"},
}

// ============================================================
// Dados de localização
// ============================================================

// CEPPattern Código de Endereçamento Postal
var CEPPattern = &Pattern{
	ID:          "cep",
	Name:        "CEP",
	Description: "Código de Endereçamento Postal - formato XXXXX-XXX",
	Regex:       regexp.MustCompile(`\b\d{5}-?\d{3}\b`),
	RiskLevel:   model.PatternRiskMedium,
	Enabled:     true,
	Examples:    []string{"01310-100"},
}

// EnderecoPattern endereços residenciais e comerciais (heurístico)
// Desabilitado por padrão: exige validação semântica
var EnderecoPattern = &Pattern{
	ID:          "endereco",
	Name:        "Endereço",
	Description: "Endereços residenciais e comerciais (heurístico)",
	Regex:       regexp.MustCompile(`(?:Rua|Av|Avenida|Alameda|Travessa|Praça|Estrada|Rod|Rodovia)[\s.][\w\s]{1,40},?\s*\d{1,5}`),
	RiskLevel:   model.PatternRiskMedium,
	Enabled:     false,
	Examples:    []string{"Av. Paulista, 1578"},
}

// CoordenadasPattern latitude e longitude em formato decimal
var CoordenadasPattern = &Pattern{
	ID:          "coordenadas",
	Name:        "Coordenadas Geográficas",
	Description: "Latitude e longitude em formato decimal",
	Regex:       regexp.MustCompile(`-?\d{1,3}\.\d+,\s*-?\d{1,3}\.\d+`),
	RiskLevel:   model.PatternRiskMedium,
	Enabled:     false,
	Examples:    []string{"-23.550520, -46.633308"},
}

// ============================================================
// Dados temporais
// ============================================================

// DataNascimentoPattern datas em formato brasileiro
var DataNascimentoPattern = &Pattern{
	ID:          "data_nascimento",
	Name:        "Data de Nascimento",
	Description: "Datas em formato brasileiro DD/MM/AAAA",
	Regex:       regexp.MustCompile(`\b(?:0?[1-9]|[12]\d|3[01])[/-](?:0?[1-9]|1[0-2])[/-](?:19|20)\d{2}\b`),
	RiskLevel:   model.PatternRiskHigh,
	Enabled:     false,
	Examples:    []string{"01/05/1987"},
}

// ============================================================
// Dados veiculares e técnicos
// ============================================================

// PlacaVeiculoPattern placas Mercosul e antigas
var PlacaVeiculoPattern = &Pattern{
	ID:          "placa_veiculo",
	Name:        "Placa de Veículo",
	Description: "Placas Mercosul e antigas - formato ABC1234 ou ABC1A23",
	Regex:       regexp.MustCompile(`\b[A-Z]{3}[0-9][A-Z0-9][0-9]{2}\b`),
	RiskLevel:   model.PatternRiskMedium,
	Enabled:     false,
	Examples:    []string{"ABC1234", "ABC1D23"},
}

// IPAddressPattern endereços IPv4
var IPAddressPattern = &Pattern{
	ID:          "ip_address",
	Name:        "Endereço IP",
	Description: "Endereços IPv4 - formato XXX.XXX.XXX.XXX",
	Regex:       regexp.MustCompile(`\b(?:[0-9]{1,3}\.){3}[0-9]{1,3}\b`),
	RiskLevel:   model.PatternRiskLow,
	Enabled:     false,
}

// ============================================================
// Coleção de padrões
// ============================================================

// AllPatterns todos os padrões brasileiros, na ordem de avaliação
var AllPatterns = []*Pattern{
	NomeCompletoPattern,
	CPFPattern,
	CNPJPattern,
	RGPattern,
	CNHPattern,
	TituloEleitorPattern,
	NISPattern,
	CartaoSUSPattern,
	EmailPattern,
	TelefonePattern,
	CEPPattern,
	EnderecoPattern,
	CoordenadasPattern,
	DataNascimentoPattern,
	PlacaVeiculoPattern,
	IPAddressPattern,
}

// PatternByID busca um padrão pelo identificador
func PatternByID(id string) (*Pattern, bool) {
	for _, p := range AllPatterns {
		if p.ID == id {
			return p, true
		}
	}
	return nil, false
}

// DefaultEnabledIDs identificadores habilitados por padrão
func DefaultEnabledIDs() []string {
	var ids []string
	for _, p := range AllPatterns {
		if p.Enabled {
			ids = append(ids, p.ID)
		}
	}
	return ids
}

// onlyDigits remove tudo que não for dígito
func onlyDigits(value string) string {
	var sb strings.Builder
	for _, r := range value {
		if r >= '0' && r <= '9' {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

// PlausibleCPF filtra falsos positivos óbvios de CPF
// Rejeita sequências de 11 dígitos idênticos e o valor todo zero
func PlausibleCPF(value string) bool {
	digits := onlyDigits(value)
	if len(digits) != 11 {
		return false
	}
	first := digits[0]
	for i := 1; i < len(digits); i++ {
		if digits[i] != first {
			return true
		}
	}
	// Todos os dígitos iguais (inclui o valor todo zero)
	return false
}

// PlausibleCNPJ valida apenas a contagem de dígitos após remover a pontuação
func PlausibleCNPJ(value string) bool {
	return len(onlyDigits(value)) == 14
}
