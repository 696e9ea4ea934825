package core

import (
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"

	"github.com/fatih/color"
)

// StepStatus describes the outcome of a single validation step.
type StepStatus int

const (
	StepPassed StepStatus = iota
	StepWarning
	StepFailed
)

// ValidationStep is the result of one startup check.
type ValidationStep struct {
	Name    string
	Status  StepStatus
	Message string
	Err     error
}

// SuiteResult summarizes a full validation run.
type SuiteResult struct {
	Steps    []ValidationStep
	Passed   int
	Warnings int
	Failed   int
}

// Success reports whether the process may start. Warnings do not block
// startup; a service without a credential simply runs in mock mode.
func (r SuiteResult) Success() bool {
	return r.Failed == 0
}

// ValidateStartup runs the pre-flight checks for both services and prints a
// colored summary to out. It verifies the provider endpoint, the database
// directories, and reports whether the AI layer will run in mock mode.
func ValidateStartup(cfg *Config, out io.Writer) SuiteResult {
	printHeader(out, "Startup Validation")

	steps := []ValidationStep{
		checkEndpoint(cfg),
		checkDataDir("image store", cfg.ImageDBPath),
		checkDataDir("ad store", cfg.AdDBPath),
		checkCredential(cfg),
	}

	var result SuiteResult
	result.Steps = steps
	for _, step := range steps {
		printStep(out, step)
		switch step.Status {
		case StepPassed:
			result.Passed++
		case StepWarning:
			result.Warnings++
		case StepFailed:
			result.Failed++
		}
	}

	printSummary(out, result)
	return result
}

func checkEndpoint(cfg *Config) ValidationStep {
	step := ValidationStep{Name: "Provider endpoint"}
	u, err := url.Parse(cfg.ImageLLMURL)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		step.Status = StepFailed
		step.Err = ErrInvalidEndpoint(cfg.ImageLLMURL, "not an http(s) URL")
		return step
	}
	step.Status = StepPassed
	step.Message = u.Host
	return step
}

func checkDataDir(name, dbPath string) ValidationStep {
	step := ValidationStep{Name: fmt.Sprintf("Data directory (%s)", name)}
	dir := filepath.Dir(dbPath)
	if dir == "" || dir == "." {
		step.Status = StepPassed
		step.Message = "current directory"
		return step
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		step.Status = StepFailed
		step.Err = ErrDataDirectory(dbPath, err.Error())
		return step
	}
	step.Status = StepPassed
	step.Message = dir
	return step
}

func checkCredential(cfg *Config) ValidationStep {
	step := ValidationStep{Name: "AI credential"}
	if cfg.MockMode() {
		step.Status = StepWarning
		step.Message = "OPENAI_API_KEY not set - running in mock mode"
		return step
	}
	step.Status = StepPassed
	step.Message = fmt.Sprintf("configured (model %s)", cfg.OpenAIImageModel)
	return step
}

func printHeader(out io.Writer, title string) {
	fmt.Fprintln(out)
	headerColor := color.New(color.FgCyan, color.Bold)
	headerColor.Fprintf(out, "━━━ %s ━━━\n", title)
	fmt.Fprintln(out)
}

func printStep(out io.Writer, step ValidationStep) {
	var icon string
	var clr *color.Color

	switch step.Status {
	case StepPassed:
		icon = "✓"
		clr = color.New(color.FgGreen)
	case StepWarning:
		icon = "!"
		clr = color.New(color.FgYellow)
	case StepFailed:
		icon = "✗"
		clr = color.New(color.FgRed)
	default:
		icon = "?"
		clr = color.New(color.FgWhite)
	}

	clr.Fprintf(out, "  %s %s", icon, step.Name)
	if step.Message != "" {
		dim := color.New(color.FgHiBlack)
		dim.Fprintf(out, " - %s", step.Message)
	}
	fmt.Fprintln(out)

	if step.Status == StepFailed && step.Err != nil {
		errColor := color.New(color.FgRed)
		errColor.Fprintf(out, "    └─ %s\n", step.Err.Error())
	}
}

func printSummary(out io.Writer, result SuiteResult) {
	fmt.Fprintln(out)
	if result.Success() {
		clr := color.New(color.FgGreen)
		clr.Fprintf(out, "  %d passed, %d warnings\n", result.Passed, result.Warnings)
	} else {
		clr := color.New(color.FgRed)
		clr.Fprintf(out, "  %d passed, %d warnings, %d failed\n", result.Passed, result.Warnings, result.Failed)
	}
	fmt.Fprintln(out)
}
