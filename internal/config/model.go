// Package config
package config

import "time"

// ==========================================
// Estrutura de configuração de topo
// ==========================================

type AppConfig struct {
	App        AppSection        `mapstructure:"app" yaml:"app"`
	Intake     IntakeConfig      `mapstructure:"intake" yaml:"intake"`
	Scanner    ScannerConfig     `mapstructure:"scanner" yaml:"scanner"`
	Extractor  ExtractorConfig   `mapstructure:"extractor" yaml:"extractor"`
	Detector   DetectorConfig    `mapstructure:"detector" yaml:"detector"`
	Classifier ClassifierConfig  `mapstructure:"classifier" yaml:"classifier"`
	Pipeline   PipelineConfig    `mapstructure:"pipeline" yaml:"pipeline"`
	Database   DatabaseConfig    `mapstructure:"database" yaml:"database"`
	Storage    StorageConfig     `mapstructure:"storage" yaml:"storage"`
}

// ==========================================
// 1. Configuração base do daemon
// ==========================================

type AppSection struct {
	// Nível de log: debug, info, warn, error
	LogLevel string `mapstructure:"log_level" yaml:"log_level"`
	// Caminho do arquivo de log
	LogFile string `mapstructure:"log_file" yaml:"log_file"`
	// Diretório de dados (banco, fila em disco)
	DataDir string `mapstructure:"data_dir" yaml:"data_dir"`
	// Rotação de log
	LogMaxSize    int  `mapstructure:"log_max_size" yaml:"log_max_size"`       // MB
	LogMaxBackups int  `mapstructure:"log_max_backups" yaml:"log_max_backups"` // quantidade
	LogMaxAge     int  `mapstructure:"log_max_age" yaml:"log_max_age"`         // dias
	LogCompress   bool `mapstructure:"log_compress" yaml:"log_compress"`
	LogStdout     bool `mapstructure:"log_stdout" yaml:"log_stdout"`
	// Intervalo do heartbeat de status no log
	HeartbeatInterval time.Duration `mapstructure:"heartbeat_interval" yaml:"heartbeat_interval"`
}

// ==========================================
// 2. Ingestão de arquivos
// ==========================================

type IntakeConfig struct {
	// Diretório monitorado para novos arquivos
	WatchDir string `mapstructure:"watch_dir" yaml:"watch_dir"`
	// Diretório para expansão de arquivos ZIP
	ExtractDir string `mapstructure:"extract_dir" yaml:"extract_dir"`
	// Tempo de espera após o último write antes de enfileirar
	SettleDelay time.Duration `mapstructure:"settle_delay" yaml:"settle_delay"`
	// Extensões aceitas para processamento
	AllowedExtensions []string `mapstructure:"allowed_extensions" yaml:"allowed_extensions"`
}

// ==========================================
// 3. Verificação de segurança
// ==========================================

type ScannerConfig struct {
	// Tamanho máximo de arquivo em bytes (padrão 100MB)
	MaxFileSize int64 `mapstructure:"max_file_size" yaml:"max_file_size"`
	// Limite de entradas em um ZIP
	MaxZipEntries int `mapstructure:"max_zip_entries" yaml:"max_zip_entries"`
	// Razão máxima de descompressão (zip bomb)
	MaxCompressionRatio float64 `mapstructure:"max_compression_ratio" yaml:"max_compression_ratio"`
	// Habilita verificação via ClamAV
	ClamAVEnabled bool `mapstructure:"clamav_enabled" yaml:"clamav_enabled"`
	// Caminho do binário clamscan
	ClamAVPath string `mapstructure:"clamav_path" yaml:"clamav_path"`
	// Hashes SHA-256 bloqueados (hex minúsculo)
	HashBlacklist []string `mapstructure:"hash_blacklist" yaml:"hash_blacklist"`
}

// ==========================================
// 4. Extração de texto
// ==========================================

type ExtractorConfig struct {
	// Limite de páginas lidas por PDF (0 = sem limite)
	MaxPDFPages int `mapstructure:"max_pdf_pages" yaml:"max_pdf_pages"`
	// Limite de bytes lidos por arquivo de texto
	MaxTextBytes int64 `mapstructure:"max_text_bytes" yaml:"max_text_bytes"`
}

// ==========================================
// 5. Detecção de dados pessoais
// ==========================================

type DetectorConfig struct {
	// IDs de padrões habilitados além dos padrões default
	EnabledPatterns []string `mapstructure:"enabled_patterns" yaml:"enabled_patterns"`
	// Padrões customizados (regex do usuário)
	CustomPatterns []CustomPattern `mapstructure:"custom_patterns" yaml:"custom_patterns"`
	// Janela de contexto em caracteres ao redor da detecção
	ContextWindow int `mapstructure:"context_window" yaml:"context_window"`
	// Janela de busca do titular (Nome:, Titular:, ...)
	OwnerWindow int `mapstructure:"owner_window" yaml:"owner_window"`
}

type CustomPattern struct {
	Name  string `mapstructure:"name" yaml:"name"`
	Regex string `mapstructure:"regex" yaml:"regex"`
}

// ==========================================
// 6. Classificação semântica (LLM)
// ==========================================

type ClassifierConfig struct {
	// Habilita o refinamento via LLM
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`
	// Modelo de chat (e.g., gpt-4o-mini)
	Model string `mapstructure:"model" yaml:"model"`
	// Endpoint alternativo compatível com a API OpenAI
	BaseURL string `mapstructure:"base_url" yaml:"base_url"`
	// Chave da API; se vazio usa OPENAI_API_KEY
	APIKey string `mapstructure:"api_key" yaml:"api_key"`
	// Timeout por chamada
	Timeout time.Duration `mapstructure:"timeout" yaml:"timeout"`
	// Tamanho do trecho enviado na descoberta semântica
	DiscoveryWindow int `mapstructure:"discovery_window" yaml:"discovery_window"`
}

// ==========================================
// 7. Orquestração do pipeline
// ==========================================

type PipelineConfig struct {
	// Arquivos processados em paralelo por lote
	BatchSize int `mapstructure:"batch_size" yaml:"batch_size"`
	// Timeout por arquivo
	JobTimeout time.Duration `mapstructure:"job_timeout" yaml:"job_timeout"`
}

// ==========================================
// 8. Banco de dados
// ==========================================

type DatabaseConfig struct {
	// Nome do arquivo do banco
	FileName string `mapstructure:"file_name" yaml:"file_name"`
	// Nível de log do GORM: silent, error, warn, info
	LogLevel string `mapstructure:"log_level" yaml:"log_level"`
	// Conexões abertas (SQLite recomenda 1)
	MaxOpenConns int `mapstructure:"max_open_conns" yaml:"max_open_conns"`
	MaxIdleConns int `mapstructure:"max_idle_conns" yaml:"max_idle_conns"`
	// Tempo de vida máximo da conexão
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime" yaml:"conn_max_lifetime"`
	// Journal do SQLite: WAL, DELETE, TRUNCATE, PERSIST, MEMORY
	JournalMode string `mapstructure:"journal_mode" yaml:"journal_mode"`
	// Sincronização: FULL, NORMAL, OFF
	Synchronous string `mapstructure:"synchronous" yaml:"synchronous"`
	// Armazenamento temporário: MEMORY, FILE
	TempStore string `mapstructure:"temp_store" yaml:"temp_store"`
	// Chaves estrangeiras
	ForeignKeys bool `mapstructure:"foreign_keys" yaml:"foreign_keys"`
}

// ==========================================
// 9. Fila híbrida memória/disco
// ==========================================

type StorageConfig struct {
	// Limite em memória da fila de arquivos pendentes
	PendingMemoryLimit int `mapstructure:"pending_memory_limit" yaml:"pending_memory_limit"`
	// Limite em memória do buffer de detecções
	DetectionsMemoryLimit int `mapstructure:"detections_memory_limit" yaml:"detections_memory_limit"`
}
