package pipeline

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/resper1965/DataFogScanner/internal/classifier"
	"github.com/resper1965/DataFogScanner/internal/config"
	"github.com/resper1965/DataFogScanner/internal/model"
	"github.com/resper1965/DataFogScanner/internal/storage"
)

// fakeScanner devolve um veredito fixo por caminho
type fakeScanner struct {
	verdicts map[string]*model.ScanVerdict
}

func (f *fakeScanner) ScanFile(_ context.Context, path string) (*model.ScanVerdict, error) {
	if v, ok := f.verdicts[path]; ok {
		return v, nil
	}
	return cleanVerdict(), nil
}

// fakeExtractor devolve um resultado fixo e conta as chamadas
type fakeExtractor struct {
	result model.ExtractionResult
	calls  int32
}

func (f *fakeExtractor) Extract(string) model.ExtractionResult {
	atomic.AddInt32(&f.calls, 1)
	return f.result
}

type fakeDetector struct {
	detections []model.Detection
}

func (f *fakeDetector) Detect(string) []model.Detection {
	return f.detections
}

func cleanVerdict() *model.ScanVerdict {
	return &model.ScanVerdict{IsClean: true, RiskLevel: model.RiskSafe}
}

func dirtyVerdict() *model.ScanVerdict {
	return &model.ScanVerdict{
		IsClean:   false,
		RiskLevel: model.RiskDangerous,
		Threats: []model.Threat{
			{Kind: model.ThreatExecutable, Description: "Extensão perigosa", Severity: model.SeverityCritical},
		},
	}
}

func openTestRepo(t *testing.T) (*storage.Repository, *gorm.DB) {
	t.Helper()
	db, err := storage.Open(storage.Options{
		DataDir:      t.TempDir(),
		FileName:     "pipeline_test.db",
		LogLevel:     "silent",
		MaxOpenConns: 1,
		MaxIdleConns: 1,
		JournalMode:  "WAL",
		Synchronous:  "NORMAL",
		TempStore:    "MEMORY",
		ForeignKeys:  true,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return storage.NewRepository(db), db
}

func newBacklog(t *testing.T, db *gorm.DB) *storage.HybridStore[model.DetectionBatch] {
	t.Helper()
	backlog, err := storage.NewHybridStore[model.DetectionBatch](db, 10, "queue_detections")
	require.NoError(t, err)
	return backlog
}

func enqueueFile(t *testing.T, repo *storage.Repository, path string) model.PendingFile {
	t.Helper()
	file, err := repo.CreateFile(path, "original_"+path, "text/plain", "", 100)
	require.NoError(t, err)
	job, err := repo.CreateJob(file.ID)
	require.NoError(t, err)
	return model.PendingFile{
		FileID:       file.ID,
		JobID:        job.ID,
		Path:         path,
		OriginalName: "original_" + path,
		EnqueuedAt:   time.Now(),
	}
}

func newTestPipeline(repo *storage.Repository, scanner FileScanner, extractor TextExtractor, detector EntityDetector) *Pipeline {
	return New(scanner, extractor, detector, classifier.New(config.ClassifierConfig{Enabled: false}), repo, nil)
}

func TestProcessFile_Completed(t *testing.T) {
	repo, _ := openTestRepo(t)
	pending := enqueueFile(t, repo, "dados.txt")

	detection := model.Detection{
		Type: "CPF", Value: "123.456.789-09", Position: 12,
		RiskLevel: model.PatternRiskHigh, Method: model.MethodRegex,
	}
	p := newTestPipeline(repo,
		&fakeScanner{},
		&fakeExtractor{result: model.ExtractionResult{Text: "Cliente com CPF 123.456.789-09", Success: true}},
		&fakeDetector{detections: []model.Detection{detection}},
	)

	require.NoError(t, p.ProcessFile(context.Background(), pending))

	job, err := repo.GetJob(pending.JobID)
	require.NoError(t, err)
	assert.Equal(t, string(model.JobCompleted), job.Status)
	assert.Equal(t, 100, job.Progress)
	assert.NotNil(t, job.FinishedAt)

	file, err := repo.GetFile(pending.FileID)
	require.NoError(t, err)
	assert.Equal(t, string(model.FileCompleted), file.Status)
	assert.Contains(t, file.ScanVerdictJSON, `"isClean":true`)

	recs, err := repo.DetectionsByFile(pending.FileID)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "CPF", recs[0].Type)
	assert.Equal(t, classifierBypassConfidence, recs[0].Confidence)
}

func TestProcessFile_SecurityRejection(t *testing.T) {
	repo, _ := openTestRepo(t)
	pending := enqueueFile(t, repo, "payload.exe")

	extractor := &fakeExtractor{result: model.ExtractionResult{Text: "x", Success: true}}
	p := newTestPipeline(repo,
		&fakeScanner{verdicts: map[string]*model.ScanVerdict{"payload.exe": dirtyVerdict()}},
		extractor,
		&fakeDetector{},
	)

	require.NoError(t, p.ProcessFile(context.Background(), pending))

	job, _ := repo.GetJob(pending.JobID)
	assert.Equal(t, string(model.JobFailed), job.Status)
	assert.Contains(t, job.Error, "verificação de segurança")

	file, _ := repo.GetFile(pending.FileID)
	assert.Equal(t, string(model.FileError), file.Status)
	assert.Contains(t, file.ScanVerdictJSON, `"riskLevel":"dangerous"`, "veredito preservado mesmo na rejeição")

	assert.Zero(t, atomic.LoadInt32(&extractor.calls), "extração não deveria rodar após rejeição")

	recs, _ := repo.DetectionsByFile(pending.FileID)
	assert.Empty(t, recs, "nenhuma detecção para arquivo rejeitado")
}

func TestProcessFile_ExtractionFailure(t *testing.T) {
	repo, _ := openTestRepo(t)
	pending := enqueueFile(t, repo, "laudo.pdf")

	p := newTestPipeline(repo,
		&fakeScanner{},
		&fakeExtractor{result: model.ExtractionResult{Success: false, Error: "pdf corrompido"}},
		&fakeDetector{},
	)

	require.NoError(t, p.ProcessFile(context.Background(), pending))

	job, _ := repo.GetJob(pending.JobID)
	assert.Equal(t, string(model.JobFailed), job.Status)
	assert.Contains(t, job.Error, "pdf corrompido")

	file, _ := repo.GetFile(pending.FileID)
	assert.Equal(t, string(model.FileError), file.Status)
}

func TestProcessFile_Timeout(t *testing.T) {
	repo, _ := openTestRepo(t)
	pending := enqueueFile(t, repo, "lento.txt")

	p := newTestPipeline(repo,
		&fakeScanner{},
		&fakeExtractor{result: model.ExtractionResult{Text: "x", Success: true}},
		&fakeDetector{},
	)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.NoError(t, p.ProcessFile(ctx, pending))

	job, _ := repo.GetJob(pending.JobID)
	assert.Equal(t, string(model.JobFailed), job.Status)
	assert.Contains(t, job.Error, "excedido")
}

func TestProcessBatch_IsolatesFailures(t *testing.T) {
	repo, _ := openTestRepo(t)

	clean1 := enqueueFile(t, repo, "a.txt")
	rejected := enqueueFile(t, repo, "b.exe")
	clean2 := enqueueFile(t, repo, "c.txt")

	p := newTestPipeline(repo,
		&fakeScanner{verdicts: map[string]*model.ScanVerdict{"b.exe": dirtyVerdict()}},
		&fakeExtractor{result: model.ExtractionResult{Text: "sem dados pessoais", Success: true}},
		&fakeDetector{},
	)
	w := NewWorker(p, nil, nil, 2, time.Minute)

	w.ProcessBatch(context.Background(), []model.PendingFile{clean1, rejected, clean2})

	for _, pending := range []model.PendingFile{clean1, clean2} {
		job, err := repo.GetJob(pending.JobID)
		require.NoError(t, err)
		assert.Equal(t, string(model.JobCompleted), job.Status, "arquivo limpo deveria concluir")
	}

	job, err := repo.GetJob(rejected.JobID)
	require.NoError(t, err)
	assert.Equal(t, string(model.JobFailed), job.Status)
}

func TestProcessFile_PersistFailureHeldInBacklog(t *testing.T) {
	repo, db := openTestRepo(t)
	backlog := newBacklog(t, db)
	pending := enqueueFile(t, repo, "dados.txt")

	detection := model.Detection{
		Type: "CPF", Value: "123.456.789-09", Position: 12,
		RiskLevel: model.PatternRiskHigh, Method: model.MethodRegex,
	}
	p := New(
		&fakeScanner{},
		&fakeExtractor{result: model.ExtractionResult{Text: "CPF 123.456.789-09", Success: true}},
		&fakeDetector{detections: []model.Detection{detection}},
		classifier.New(config.ClassifierConfig{Enabled: false}),
		repo,
		backlog,
	)

	// Sem a tabela de detecções a gravação direta falha
	require.NoError(t, db.Exec("DROP TABLE detections").Error)

	require.NoError(t, p.ProcessFile(context.Background(), pending))

	job, err := repo.GetJob(pending.JobID)
	require.NoError(t, err)
	assert.Equal(t, string(model.JobCompleted), job.Status, "lote retido não derruba o job")

	batches, err := backlog.PopAll()
	require.NoError(t, err)
	require.Len(t, batches, 1)
	assert.Equal(t, pending.FileID, batches[0].FileID)
	require.Len(t, batches[0].Detections, 1)
	assert.Equal(t, "CPF", batches[0].Detections[0].Type)
}

func TestWorker_ReplaysDetectionBacklog(t *testing.T) {
	repo, db := openTestRepo(t)
	backlog := newBacklog(t, db)

	file, err := repo.CreateFile("dados.txt", "dados.txt", "text/plain", "", 100)
	require.NoError(t, err)

	batch := model.DetectionBatch{
		FileID: file.ID,
		Detections: []model.Detection{
			{Type: "CNPJ", Value: "12.345.678/0001-95", Position: 4,
				RiskLevel: model.PatternRiskHigh, Method: model.MethodRegex, Confidence: 0.95},
		},
	}
	require.NoError(t, backlog.Push(batch))

	p := newTestPipeline(repo, &fakeScanner{}, &fakeExtractor{}, &fakeDetector{})
	w := NewWorker(p, nil, backlog, 1, time.Minute)
	w.replayBacklog()

	recs, err := repo.DetectionsByFile(file.ID)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "CNPJ", recs[0].Type)

	remaining, err := backlog.PopAll()
	require.NoError(t, err)
	assert.Empty(t, remaining, "lote persistido sai da fila de contingência")
}

func TestStatusReporter_Snapshot(t *testing.T) {
	repo, _ := openTestRepo(t)
	pending := enqueueFile(t, repo, "dados.txt")

	p := newTestPipeline(repo,
		&fakeScanner{},
		&fakeExtractor{result: model.ExtractionResult{Text: "x", Success: true}},
		&fakeDetector{},
	)
	require.NoError(t, p.ProcessFile(context.Background(), pending))

	reporter := NewStatusReporter(repo, nil)
	status := reporter.Snapshot()

	assert.Equal(t, int64(1), status.Jobs[string(model.JobCompleted)])
	assert.GreaterOrEqual(t, status.UptimeSeconds, int64(0))
}

// classifierBypassConfidence espelha a confiança de passagem direta
const classifierBypassConfidence = 0.95
