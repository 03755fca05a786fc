// One-shot analyzer: run the vision call on a saved PNG and print the
// summary and question, without hotkeys or a presentation file. Useful for
// checking a model or prompt before a capture session.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/sehmus-akcakale/SnapLearn/config"
	"github.com/sehmus-akcakale/SnapLearn/vision"
)

const (
	maxFileSizeMB = 10
	maxFileSize   = maxFileSizeMB * 1024 * 1024
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	filePath := flag.String("file", "", "Path to PNG file (use '-' for stdin)")
	jsonOutput := flag.Bool("json", false, "Output results as JSON")
	verbose := flag.Bool("v", false, "Verbose output to stderr")
	flag.Parse()

	if *filePath == "" {
		return fmt.Errorf("required flag -file not specified\nUsage: snaplearn-cli -file <path|-> [-json] [-v]")
	}

	if *verbose {
		fmt.Fprintf(os.Stderr, "[verbose] Starting analyzer\n")
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if cfg.APIKey == "" {
		return fmt.Errorf("OPENROUTER_API_KEY not found in environment or .env file")
	}

	if *verbose {
		fmt.Fprintf(os.Stderr, "[verbose] Config loaded: Model=%s\n", cfg.Model)
	}

	vision.Init(&vision.Config{
		APIKey:    cfg.APIKey,
		Model:     cfg.Model,
		Providers: cfg.Providers,
	})

	imageData, err := readImage(*filePath, *verbose)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(),
		time.Duration(cfg.AnalysisDeadlineSec)*time.Second)
	defer cancel()

	startTime := time.Now()
	analysis, err := vision.Analyze(ctx, imageData)
	elapsed := time.Since(startTime)

	if err != nil {
		if *verbose {
			fmt.Fprintf(os.Stderr, "[verbose] Analysis failed after %v: %v\n", elapsed, err)
		}
		return fmt.Errorf("analysis failed: %w", err)
	}

	if *verbose {
		fmt.Fprintf(os.Stderr, "[verbose] Analysis completed in %v\n", elapsed)
	}

	return outputResult(analysis, *filePath, elapsed, *jsonOutput)
}

func readImage(filePath string, verbose bool) ([]byte, error) {
	var imageData []byte
	var err error

	if filePath == "-" {
		if verbose {
			fmt.Fprintf(os.Stderr, "[verbose] Reading image from stdin\n")
		}
		imageData, err = io.ReadAll(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("failed to read from stdin: %w", err)
		}
	} else {
		if verbose {
			fmt.Fprintf(os.Stderr, "[verbose] Reading image from file: %s\n", filePath)
		}
		imageData, err = os.ReadFile(filePath)
		if err != nil {
			return nil, fmt.Errorf("failed to read file %s: %w", filePath, err)
		}
	}

	if len(imageData) == 0 {
		return nil, fmt.Errorf("input file is empty")
	}
	if len(imageData) > maxFileSize {
		return nil, fmt.Errorf("input file exceeds maximum size of %d MB", maxFileSizeMB)
	}
	if err := validatePNG(imageData); err != nil {
		return nil, err
	}
	return imageData, nil
}

func validatePNG(data []byte) error {
	if len(data) < 8 || !bytes.Equal(data[:8], []byte{0x89, 'P', 'N', 'G', 0x0d, 0x0a, 0x1a, 0x0a}) {
		return fmt.Errorf("input is not a valid PNG file (invalid magic number)")
	}
	return nil
}

type AnalysisResult struct {
	Summary       string   `json:"summary"`
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correct_answer,omitempty"`
	Source        string   `json:"source"`
	Timestamp     string   `json:"timestamp"`
	Duration      float64  `json:"duration_seconds"`
}

func outputResult(a vision.Analysis, sourcePath string, elapsed time.Duration, jsonOutput bool) error {
	if jsonOutput {
		result := AnalysisResult{
			Summary:   a.Summary,
			Question:  a.Question.Prompt,
			Options:   a.Question.Options,
			Source:    sourcePath,
			Timestamp: time.Now().UTC().Format(time.RFC3339),
			Duration:  elapsed.Seconds(),
		}
		if a.Question.Correct >= 0 {
			result.CorrectAnswer = vision.Letter(a.Question.Correct)
		}
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(result); err != nil {
			return fmt.Errorf("failed to encode JSON output: %w", err)
		}
		return nil
	}

	fmt.Print(formatText(a))
	return nil
}

func formatText(a vision.Analysis) string {
	var b bytes.Buffer
	fmt.Fprintf(&b, "Summary:\n%s\n\nQuestion:\n%s\n", a.Summary, a.Question.Prompt)
	for i, opt := range a.Question.Options {
		fmt.Fprintf(&b, "%s) %s\n", vision.Letter(i), opt)
	}
	if a.Question.Correct >= 0 {
		fmt.Fprintf(&b, "\nCorrect Answer: %s\n", vision.Letter(a.Question.Correct))
	}
	return b.String()
}
