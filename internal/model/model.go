package model

import "time"

// ==========================================
// Resultado do scanner de segurança
// ==========================================

// Threat uma ameaça individual encontrada em um arquivo
type Threat struct {
	Kind        ThreatKind `json:"type"`
	Description string     `json:"description"`
	Severity    Severity   `json:"severity"`
}

// ScanVerdict veredito consolidado da verificação de segurança
type ScanVerdict struct {
	IsClean        bool      `json:"isClean"`
	Threats        []Threat  `json:"threats"`
	ScanDurationMS int64     `json:"scanDuration"`
	FileHash       string    `json:"fileHash"` // SHA-256 em hex
	RiskLevel      RiskLevel `json:"riskLevel"`
}

// ==========================================
// Resultado da extração de texto
// ==========================================

// ExtractionResult saída da extração; Success=false implica Text vazio
type ExtractionResult struct {
	Text    string `json:"text"`
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// ==========================================
// Detecção de dado pessoal
// ==========================================

// PendingFile arquivo aguardando processamento na fila híbrida
type PendingFile struct {
	// Identificador do arquivo persistido
	FileID string `json:"fileId"`
	// Job associado
	JobID string `json:"jobId"`
	// Caminho absoluto no disco
	Path string `json:"path"`
	// Nome original apresentado na ingestão
	OriginalName string `json:"originalName"`
	// Momento em que entrou na fila
	EnqueuedAt time.Time `json:"enqueuedAt"`
}

// DetectionBatch detecções de um arquivo aguardando persistência
// na fila de contingência quando a gravação direta falha
type DetectionBatch struct {
	// Arquivo dono das detecções
	FileID string `json:"fileId"`
	// Resultado completo do arquivo; a persistência substitui, não acumula
	Detections []Detection `json:"detections"`
}

// Detection uma ocorrência de dado pessoal no texto extraído
type Detection struct {
	// Tipo do padrão (cpf, cnpj, email, ... ou CUSTOM)
	Type string `json:"type"`
	// Valor literal encontrado
	Value string `json:"value"`
	// Posição (índice de byte) no texto completo
	Position int `json:"position"`
	// Trecho de contexto ao redor da ocorrência
	Context string `json:"context"`
	// Nível de risco herdado do padrão
	RiskLevel PatternRisk `json:"riskLevel"`
	// Método que produziu a detecção
	Method DetectionMethod `json:"method"`
	// Confiança atribuída (0..1)
	Confidence float64 `json:"confidence"`
	// Titular associado quando um rótulo de nome foi encontrado por perto
	Owner string `json:"owner,omitempty"`
}
