package report

import (
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"

	"videoanalyzer/internal/analyzer"
)

const ruleWidth = 80

var (
	headerRule  = strings.Repeat("=", ruleWidth)
	sectionRule = strings.Repeat("-", ruleWidth)
)

// Writer appends each completed section to the human-readable output file
// as soon as it is produced. The file is opened, written, flushed, and
// closed per operation, so every completed section is a self-contained
// append and an interrupted run still leaves a usable report behind.
type Writer struct {
	path   string
	logger *zap.Logger
}

// NewWriter creates a Writer for the given output path
func NewWriter(path string) *Writer {
	return NewWriterWithLogger(path, nil)
}

// NewWriterWithLogger creates a Writer with the given logger
func NewWriterWithLogger(path string, logger *zap.Logger) *Writer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Writer{path: path, logger: logger}
}

// header is the fixed block opening every report
func header() string {
	return fmt.Sprintf("%s\nVIDEO ANALYSIS RESULTS\n%s\n\n", headerRule, headerRule)
}

// Init truncates the output file and writes the fixed header
func (w *Writer) Init() error {
	if err := os.WriteFile(w.path, []byte(header()), 0644); err != nil {
		return fmt.Errorf("failed to initialize output file %s: %w", w.path, err)
	}
	return nil
}

// AppendSection writes one section block to the end of the report
func (w *Writer) AppendSection(section analyzer.Section) error {
	f, err := os.OpenFile(w.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open output file %s: %w", w.path, err)
	}
	defer f.Close()

	if _, err := f.WriteString(FormatSection(section)); err != nil {
		return fmt.Errorf("failed to write section: %w", err)
	}

	w.logger.Debug("section written to report",
		zap.String("category", section.Category),
		zap.String("start_time", section.StartTime))

	return nil
}

// FormatSection renders one section block, terminated by the dashed rule
func FormatSection(section analyzer.Section) string {
	var b strings.Builder

	if section.EndTime != nil {
		fmt.Fprintf(&b, "**%s - %s - %s [%s]**\n\n", section.StartTime, *section.EndTime, section.Description, section.Category)
	} else {
		fmt.Fprintf(&b, "**%s - %s [%s]**\n\n", section.StartTime, section.Description, section.Category)
	}

	for _, quote := range section.Quotes {
		fmt.Fprintf(&b, "%s - \"%s\"\n", quote.Timestamp, quote.Text)
		if quote.Significance != "" {
			fmt.Fprintf(&b, "   → %s\n", quote.Significance)
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "%s\n\n", sectionRule)
	return b.String()
}

// PrependOverview inserts the synthesized overview block directly after the
// report header. Sections already streamed below it are left untouched.
func (w *Writer) PrependOverview(overview string) error {
	content, err := os.ReadFile(w.path)
	if err != nil {
		return fmt.Errorf("failed to read output file %s: %w", w.path, err)
	}

	block := fmt.Sprintf("VIDEO OVERVIEW\n%s\n\n%s\n\n%s\n\n", sectionRule, strings.TrimSpace(overview), headerRule)

	var updated string
	if strings.HasPrefix(string(content), header()) {
		updated = header() + block + strings.TrimPrefix(string(content), header())
	} else {
		updated = block + string(content)
	}

	if err := os.WriteFile(w.path, []byte(updated), 0644); err != nil {
		return fmt.Errorf("failed to write output file %s: %w", w.path, err)
	}

	w.logger.Debug("overview prepended to report", zap.Int("overview_length", len(overview)))
	return nil
}
