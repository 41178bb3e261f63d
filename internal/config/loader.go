package config

import (
	"fmt"
	"strings"
	"sync"

	"github.com/spf13/viper"
)

// GlobalConfig singleton global de configuração
// Preenchido após LoadConfig ter sucesso; os demais módulos leem direto
var (
	GlobalConfig *AppConfig
	loadOnce     sync.Once
)

// LoadConfig carrega a configuração
// configPath: caminho do arquivo (e.g., "/etc/datafog/config.yaml")
// Com string vazia o Viper procura nos caminhos padrão
func LoadConfig(configPath string) error {
	var err error

	loadOnce.Do(func() {
		v := viper.New()

		// 1. Valores padrão (fallback)
		setDefaults(v)

		// 2. Regras de leitura
		if configPath != "" {
			v.SetConfigFile(configPath)
		} else {
			v.SetConfigName("config")
			v.SetConfigType("yaml")
			v.AddConfigPath("/etc/datafog/") // caminho padrão em produção
			v.AddConfigPath(".")             // diretório atual (desenvolvimento)
		}

		// 3. Override por variáveis de ambiente
		// DATAFOG_PIPELINE_BATCH_SIZE cobre pipeline.batch_size
		v.SetEnvPrefix("DATAFOG")
		v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
		v.AutomaticEnv()

		// 4. Leitura do arquivo
		if err = v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); ok {
				// Sem arquivo os defaults bastam para rodar local
				err = nil
			} else {
				err = fmt.Errorf("failed to read config file: %v", err)
				return
			}
		}

		// 5. Desserialização
		var config AppConfig
		if err = v.Unmarshal(&config); err != nil {
			err = fmt.Errorf("failed to unmarshal config: %v", err)
			return
		}

		// 6. Singleton global
		GlobalConfig = &config
	})

	return err
}

// setDefaults define o comportamento padrão da configuração
func setDefaults(v *viper.Viper) {
	// App
	v.SetDefault("app.log_level", "info")
	v.SetDefault("app.log_file", "/var/log/datafog/datafogd.log")
	v.SetDefault("app.data_dir", "/var/lib/datafog")
	v.SetDefault("app.log_max_size", 100)  // corta a cada 100MB
	v.SetDefault("app.log_max_backups", 5) // mantém os 5 últimos
	v.SetDefault("app.log_max_age", 30)    // 30 dias
	v.SetDefault("app.log_compress", true)
	v.SetDefault("app.log_stdout", false)
	v.SetDefault("app.heartbeat_interval", "1m")

	// Intake
	v.SetDefault("intake.watch_dir", "/var/lib/datafog/intake")
	v.SetDefault("intake.extract_dir", "/var/lib/datafog/extracted")
	v.SetDefault("intake.settle_delay", "500ms")
	v.SetDefault("intake.allowed_extensions", []string{
		".txt", ".pdf", ".doc", ".docx", ".csv", ".json", ".xml",
	})

	// Scanner
	v.SetDefault("scanner.max_file_size", int64(100*1024*1024))
	v.SetDefault("scanner.max_zip_entries", 1000)
	v.SetDefault("scanner.max_compression_ratio", 100.0)
	v.SetDefault("scanner.clamav_enabled", true)
	v.SetDefault("scanner.clamav_path", "clamscan")
	v.SetDefault("scanner.hash_blacklist", []string{})

	// Extractor
	v.SetDefault("extractor.max_pdf_pages", 0)
	v.SetDefault("extractor.max_text_bytes", int64(10*1024*1024))

	// Detector
	v.SetDefault("detector.enabled_patterns", []string{})
	v.SetDefault("detector.context_window", 30)
	v.SetDefault("detector.owner_window", 200)

	// Classifier
	v.SetDefault("classifier.enabled", false)
	v.SetDefault("classifier.model", "gpt-4o-mini")
	v.SetDefault("classifier.timeout", "20s")
	v.SetDefault("classifier.discovery_window", 2000)

	// Pipeline
	v.SetDefault("pipeline.batch_size", 3)
	v.SetDefault("pipeline.job_timeout", "30s")

	// Database
	v.SetDefault("database.file_name", "datafog.db")
	v.SetDefault("database.log_level", "warn")
	v.SetDefault("database.max_open_conns", 1)
	v.SetDefault("database.max_idle_conns", 1)
	v.SetDefault("database.conn_max_lifetime", "1h")
	v.SetDefault("database.journal_mode", "WAL")
	v.SetDefault("database.synchronous", "NORMAL")
	v.SetDefault("database.temp_store", "MEMORY")
	v.SetDefault("database.foreign_keys", true)

	// Storage
	v.SetDefault("storage.pending_memory_limit", 100)
	v.SetDefault("storage.detections_memory_limit", 500)
}

// Get acessor seguro da configuração
func Get() *AppConfig {
	if GlobalConfig == nil {
		panic("Config not initialized! Call LoadConfig() first.")
	}
	return GlobalConfig
}
