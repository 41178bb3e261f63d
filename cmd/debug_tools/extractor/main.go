// Package main ferramenta de depuração da extração de texto
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"

	"github.com/resper1965/DataFogScanner/internal/config"
	"github.com/resper1965/DataFogScanner/internal/extractor"
)

// ==========================================
// Parâmetros de linha de comando
// ==========================================

var (
	targetPath string
	maxPages   int
	preview    int
	fullText   bool
)

var (
	colorRed   = color.New(color.FgRed, color.Bold)
	colorGreen = color.New(color.FgGreen, color.Bold)
	colorCyan  = color.New(color.FgCyan)
)

func init() {
	flag.StringVar(&targetPath, "p", "", "arquivo para extrair texto")
	flag.IntVar(&maxPages, "max-pages", 0, "limite de páginas de PDF (0 = sem limite)")
	flag.IntVar(&preview, "preview", 500, "caracteres exibidos do texto extraído")
	flag.BoolVar(&fullText, "full", false, "imprime o texto completo")
}

func main() {
	flag.Parse()

	if targetPath == "" {
		fmt.Fprintln(os.Stderr, "erro: informe o arquivo com -p")
		os.Exit(1)
	}

	svc := extractor.New(config.ExtractorConfig{MaxPDFPages: maxPages})

	start := time.Now()
	result := svc.Extract(targetPath)
	elapsed := time.Since(start)

	colorCyan.Printf("Arquivo: %s\n", targetPath)
	fmt.Printf("Duração: %v\n", elapsed)

	if !result.Success {
		colorRed.Printf("Extração falhou: %s\n", result.Error)
		os.Exit(2)
	}

	colorGreen.Printf("Extração concluída: %d caracteres, %d linhas\n",
		len(result.Text), strings.Count(result.Text, "\n")+1)

	text := result.Text
	if !fullText && preview > 0 && len(text) > preview {
		text = text[:preview] + "\n... (truncado, use -full para o texto completo)"
	}
	fmt.Println(strings.Repeat("-", 60))
	fmt.Println(text)
}
