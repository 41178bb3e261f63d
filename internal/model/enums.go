// Package model
package model

// ==========================================
// Enumerações de severidade e risco
// ==========================================

// Severity severidade de uma ameaça individual
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// SeverityPriority peso de cada severidade (agregação usa o máximo)
var SeverityPriority = map[Severity]int{
	SeverityLow:      1,
	SeverityMedium:   2,
	SeverityHigh:     3,
	SeverityCritical: 4,
}

// RiskLevel nível de risco agregado do veredito de um arquivo
type RiskLevel string

const (
	RiskSafe       RiskLevel = "safe"
	RiskSuspicious RiskLevel = "suspicious"
	RiskDangerous  RiskLevel = "dangerous"
)

// PatternRisk nível de risco de um padrão de dado pessoal
type PatternRisk string

const (
	PatternRiskLow    PatternRisk = "low"
	PatternRiskMedium PatternRisk = "medium"
	PatternRiskHigh   PatternRisk = "high"
)

// ==========================================
// Tipos de ameaça
// ==========================================

// ThreatKind categoria da ameaça encontrada pelo scanner
type ThreatKind string

const (
	ThreatVirus               ThreatKind = "virus"
	ThreatMalware             ThreatKind = "malware"
	ThreatSuspiciousExtension ThreatKind = "suspicious_extension"
	ThreatZipBomb             ThreatKind = "zip_bomb"
	ThreatPasswordProtected   ThreatKind = "password_protected"
	ThreatExecutable          ThreatKind = "executable"
	ThreatScript              ThreatKind = "script"
)

// ==========================================
// Estados de arquivo e de job
// ==========================================

// FileStatus ciclo de vida de um arquivo no pipeline
type FileStatus string

const (
	FileUploaded   FileStatus = "uploaded"
	FileProcessing FileStatus = "processing"
	FileCompleted  FileStatus = "completed"
	FileError      FileStatus = "error"
)

// JobStatus ciclo de vida de um job de processamento
type JobStatus string

const (
	JobQueued     JobStatus = "queued"
	JobProcessing JobStatus = "processing"
	JobCompleted  JobStatus = "completed"
	JobFailed     JobStatus = "failed"
)

// ==========================================
// Métodos de detecção
// ==========================================

// DetectionMethod origem de uma detecção de dado pessoal
type DetectionMethod string

const (
	// MethodRegex detecção puramente por expressão regular
	MethodRegex DetectionMethod = "regex"
	// MethodHybrid regex validada pelo classificador semântico
	MethodHybrid DetectionMethod = "hybrid"
	// MethodSemantic descoberta exclusivamente pelo classificador
	MethodSemantic DetectionMethod = "semantic"
)
