package extraction

import (
	"context"
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	_ "embed"

	"go.uber.org/zap"

	"github.com/spigell/fitscore/internal/ai"
	"github.com/spigell/fitscore/internal/company"
	"github.com/spigell/fitscore/internal/utils"
)

//go:embed prompt.md
var promptTemplate string

const (
	defaultMaxLogLength = 200
	profilePlaceholder  = "{{PROFILE}}"
)

// Extractor turns a free-text company profile into a company.Record using a completion backend.
type Extractor struct {
	completer ai.Completer
	logger    *zap.Logger
	maxLogLen int

	// DiagnosticsDir receives the raw completion text when no JSON could be located. Empty disables it.
	DiagnosticsDir string
}

func NewExtractor(completer ai.Completer, logger *zap.Logger, maxLogLength int) *Extractor {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Extractor{
		completer: completer,
		logger:    logger,
		maxLogLen: maxLogLength,
	}
}

// Extract sends the profile to the completion backend and parses the answer.
// Backend failures and answers without any JSON object are returned as errors;
// an unparsable or incomplete object degrades to default field values.
func (e *Extractor) Extract(ctx context.Context, profileText string) (company.Record, error) {
	if e.completer == nil {
		return company.Record{}, fmt.Errorf("completion backend is not configured")
	}

	prompt := BuildPrompt(profileText)

	e.logger.Debug("completion request",
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", utils.TruncateForLog(prompt, e.maxLogLen)),
	)

	raw, err := e.completer.Complete(ctx, prompt)
	if err != nil {
		return company.Record{}, err
	}

	e.logger.Info("completion response",
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", utils.TruncateForLog(raw, e.maxLogLen)),
	)

	candidate, err := LocateJSON(raw)
	if err != nil {
		return company.Record{}, e.malformed(raw, err)
	}

	record, issues := parseRecord(candidate)
	if len(issues) > 0 {
		e.logger.Warn("degraded extraction, using defaults",
			zap.Strings("issues", issues),
			zap.String("candidate_preview", utils.TruncateForLog(candidate, e.maxLogLen)),
		)
	}

	return record, nil
}

// BuildPrompt places the profile text into the instruction template.
func BuildPrompt(profileText string) string {
	template := promptTemplate
	if strings.TrimSpace(template) == "" {
		template = "Return only JSON with keys company_name, employee_size, revenue, industry.\n\n" + profilePlaceholder
	}
	return strings.ReplaceAll(template, profilePlaceholder, strings.TrimSpace(profileText))
}

func (e *Extractor) malformed(raw string, cause error) error {
	dir := strings.TrimSpace(e.DiagnosticsDir)
	if dir == "" {
		return cause
	}

	path, err := dumpResponse(dir, raw)
	if err != nil {
		e.logger.Warn("saving malformed completion response failed", zap.Error(err))
		return cause
	}

	e.logger.Info("malformed completion response saved", zap.String("filename", path))
	return fmt.Errorf("%w (raw response saved to %s)", cause, path)
}

func dumpResponse(dir, raw string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}

	file, err := os.CreateTemp(dir, "completion_response_*.txt")
	if err != nil {
		return "", err
	}
	defer file.Close()

	if _, err := file.WriteString(raw); err != nil {
		return "", err
	}
	return file.Name(), nil
}
