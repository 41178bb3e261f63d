// Package main ferramenta de depuração da detecção de dados pessoais
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"

	"github.com/resper1965/DataFogScanner/internal/config"
	"github.com/resper1965/DataFogScanner/internal/detector/pii"
	"github.com/resper1965/DataFogScanner/internal/extractor"
	"github.com/resper1965/DataFogScanner/internal/model"
)

// ==========================================
// Parâmetros de linha de comando
// ==========================================

var (
	targetPath   string
	inlineText   string
	patternsCSV  string
	listPatterns bool
	outputJSON   bool
)

var (
	colorRed    = color.New(color.FgRed, color.Bold)
	colorGreen  = color.New(color.FgGreen, color.Bold)
	colorYellow = color.New(color.FgYellow)
	colorCyan   = color.New(color.FgCyan)
)

func init() {
	flag.StringVar(&targetPath, "p", "", "arquivo a analisar (extrai o texto antes)")
	flag.StringVar(&inlineText, "t", "", "texto a analisar diretamente")
	flag.StringVar(&patternsCSV, "patterns", "", "IDs de padrões separados por vírgula (vazio = padrões default)")
	flag.BoolVar(&listPatterns, "list", false, "lista os padrões disponíveis")
	flag.BoolVar(&outputJSON, "json", false, "saída em JSON")
}

func main() {
	flag.Parse()

	if listPatterns {
		printPatterns()
		return
	}
	if targetPath == "" && inlineText == "" {
		fmt.Fprintln(os.Stderr, "erro: informe -p <arquivo> ou -t <texto>")
		os.Exit(1)
	}

	text := inlineText
	if targetPath != "" {
		svc := extractor.New(config.ExtractorConfig{})
		result := svc.Extract(targetPath)
		if !result.Success {
			fmt.Fprintf(os.Stderr, "erro na extração: %s\n", result.Error)
			os.Exit(1)
		}
		text = result.Text
	}

	var enabled []string
	if patternsCSV != "" {
		for _, id := range strings.Split(patternsCSV, ",") {
			enabled = append(enabled, strings.TrimSpace(id))
		}
	}

	det := pii.New(config.DetectorConfig{EnabledPatterns: enabled})
	detections := det.Detect(text)

	if outputJSON {
		data, _ := json.MarshalIndent(detections, "", "  ")
		fmt.Println(string(data))
		return
	}

	if len(detections) == 0 {
		colorGreen.Println("Nenhum dado pessoal detectado")
		return
	}

	colorCyan.Printf("Detecções: %d\n", len(detections))
	fmt.Println(strings.Repeat("-", 60))
	for _, d := range detections {
		printDetection(d)
	}
}

func printDetection(d model.Detection) {
	header := fmt.Sprintf("[%s] %s (posição %d)", d.Type, d.Value, d.Position)
	switch d.RiskLevel {
	case model.PatternRiskHigh:
		colorRed.Println(header)
	case model.PatternRiskMedium:
		colorYellow.Println(header)
	default:
		fmt.Println(header)
	}
	if d.Owner != "" {
		fmt.Printf("  Titular:  %s\n", d.Owner)
	}
	fmt.Printf("  Contexto: %s\n", d.Context)
}

func printPatterns() {
	colorCyan.Println("Padrões disponíveis:")
	for _, p := range pii.AllPatterns {
		status := " "
		if p.Enabled {
			status = "*"
		}
		fmt.Printf("  [%s] %-16s %-10s %s\n", status, p.ID, p.RiskLevel, p.Name)
	}
	fmt.Println("\n(* = habilitado por padrão)")
}
