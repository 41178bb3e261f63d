package storage

import (
	"time"
)

// ==========================================
// Tabelas persistidas no SQLite
// ==========================================

// CaseRecord caso (agrupamento lógico de arquivos sob investigação)
type CaseRecord struct {
	ID          string `gorm:"primaryKey;size:36"`
	Name        string `gorm:"size:255;not null"`
	Description string
	CreatedAt   time.Time
}

func (CaseRecord) TableName() string { return "cases" }

// FileRecord arquivo recebido pela ingestão
// ScanVerdictJSON carrega o veredito de segurança serializado,
// preservado mesmo quando o arquivo é rejeitado
type FileRecord struct {
	ID              string `gorm:"primaryKey;size:36"`
	Name            string `gorm:"size:512;not null"`
	OriginalName    string `gorm:"size:512"`
	Size            int64
	MimeType        string `gorm:"size:128"`
	Status          string `gorm:"size:32;index"`
	ScanVerdictJSON string
	CaseID          string `gorm:"size:36;index"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (FileRecord) TableName() string { return "files" }

// DetectionRecord uma detecção persistida de dado pessoal
type DetectionRecord struct {
	ID         uint   `gorm:"primaryKey;autoIncrement"`
	FileID     string `gorm:"size:36;index;not null"`
	Type       string `gorm:"size:64;not null"`
	Value      string `gorm:"size:1024;not null"`
	Position   int
	Context    string
	RiskLevel  string `gorm:"size:16"`
	Method     string `gorm:"size:16"`
	Confidence float64
	Owner      string `gorm:"size:255"`
	CreatedAt  time.Time
}

func (DetectionRecord) TableName() string { return "detections" }

// ProcessingJob job de processamento de um arquivo
type ProcessingJob struct {
	ID         string `gorm:"primaryKey;size:36"`
	FileID     string `gorm:"size:36;index;not null"`
	Status     string `gorm:"size:32;index"`
	Progress   int
	Error      string
	StartedAt  *time.Time
	FinishedAt *time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (ProcessingJob) TableName() string { return "processing_jobs" }
