// Package main ferramenta de depuração da verificação de segurança
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"

	"github.com/resper1965/DataFogScanner/internal/config"
	"github.com/resper1965/DataFogScanner/internal/scanner"
)

// ==========================================
// Parâmetros de linha de comando
// ==========================================

var (
	targetPath   string
	clamavBin    string
	enableClamAV bool
	timeout      int
	outputJSON   bool
)

var (
	colorRed    = color.New(color.FgRed, color.Bold)
	colorGreen  = color.New(color.FgGreen, color.Bold)
	colorYellow = color.New(color.FgYellow)
	colorCyan   = color.New(color.FgCyan)
)

func init() {
	flag.StringVar(&targetPath, "p", "", "arquivo a verificar")
	flag.StringVar(&clamavBin, "clamav-bin", "clamscan", "binário do ClamAV")
	flag.BoolVar(&enableClamAV, "clamav", false, "habilita a verificação antivírus")
	flag.IntVar(&timeout, "timeout", 30, "timeout em segundos")
	flag.BoolVar(&outputJSON, "json", false, "saída em JSON")
}

func main() {
	flag.Parse()

	if targetPath == "" {
		fmt.Fprintln(os.Stderr, "erro: informe o arquivo com -p")
		os.Exit(1)
	}
	if _, err := os.Stat(targetPath); err != nil {
		fmt.Fprintf(os.Stderr, "erro: arquivo inacessível: %v\n", err)
		os.Exit(1)
	}

	sc := scanner.New(config.ScannerConfig{
		ClamAVEnabled: enableClamAV,
		ClamAVPath:    clamavBin,
	})

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(timeout)*time.Second)
	defer cancel()

	start := time.Now()
	verdict, err := sc.ScanFile(ctx, targetPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "erro na verificação: %v\n", err)
		os.Exit(1)
	}

	if outputJSON {
		data, _ := json.MarshalIndent(verdict, "", "  ")
		fmt.Println(string(data))
		return
	}

	colorCyan.Printf("Arquivo:  %s\n", targetPath)
	fmt.Printf("SHA-256:  %s\n", verdict.FileHash)
	fmt.Printf("Duração:  %v\n", time.Since(start))

	if verdict.IsClean {
		colorGreen.Println("Veredito: LIMPO")
		return
	}

	colorRed.Printf("Veredito: REJEITADO (risco: %s)\n", verdict.RiskLevel)
	for _, threat := range verdict.Threats {
		colorYellow.Printf("  [%s/%s] %s\n", threat.Kind, threat.Severity, threat.Description)
	}
	os.Exit(2)
}
