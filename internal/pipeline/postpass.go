package pipeline

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"videoanalyzer/internal/analyzer"
	"videoanalyzer/internal/inference"
)

// extractTags asks the model for people/topic tags over a bounded excerpt
// and bounded section context. Failures degrade to empty tags.
func (p *Pipeline) extractTags(ctx context.Context, sections []analyzer.Section) Tags {
	excerpt := p.opts.TranscriptText
	if len(excerpt) > tagExcerptChars {
		excerpt = excerpt[:tagExcerptChars]
	}

	response, err := p.gateway.Generate(ctx, inference.Request{
		Model:   p.opts.Model,
		Prompt:  p.prompts.TagExtraction(sectionsContext(sections), excerpt),
		Timeout: p.opts.TagTimeout,
	})
	if err != nil || response == "" {
		p.logger.Warn("tag extraction failed", zap.Error(err))
		return Tags{People: []string{}, Topics: []string{}}
	}

	people, topics := p.responses.ParseTags(response)
	if len(people) > tagPeopleLimit {
		people = people[:tagPeopleLimit]
	}
	if len(topics) > tagTopicsLimit {
		topics = topics[:tagTopicsLimit]
	}
	if people == nil {
		people = []string{}
	}
	if topics == nil {
		topics = []string{}
	}

	p.logger.Info("tags extracted",
		zap.Int("people", len(people)),
		zap.Int("topics", len(topics)))

	return Tags{People: people, Topics: topics}
}

// generateOverview synthesizes the short overview from the ordered analyzed
// sections and prepends it into the report file. Failures degrade to an
// empty description.
func (p *Pipeline) generateOverview(ctx context.Context, sections []analyzer.Section) string {
	response, err := p.gateway.Generate(ctx, inference.Request{
		Model:   p.opts.Model,
		Prompt:  p.prompts.Summary(sectionsTimeline(sections)),
		Timeout: p.opts.SummaryTimeout,
	})
	if err != nil || strings.TrimSpace(response) == "" {
		p.logger.Warn("overview generation failed", zap.Error(err))
		return ""
	}

	overview := strings.TrimSpace(response)
	if err := p.writer.PrependOverview(overview); err != nil {
		p.logger.Warn("failed to prepend overview to output file", zap.Error(err))
	}

	return overview
}

// suggestTitle generates and sanitizes a suggested filename from the
// overview and tags. A failed or empty suggestion yields nil.
func (p *Pipeline) suggestTitle(ctx context.Context, result *Result) *string {
	currentTitle := p.opts.TitleContext
	if currentTitle == "" {
		currentTitle = "(untitled)"
	}

	response, err := p.gateway.Generate(ctx, inference.Request{
		Model: p.opts.Model,
		Prompt: p.prompts.SuggestedTitle(
			currentTitle,
			result.Description,
			strings.Join(result.Tags.People, ", "),
			strings.Join(result.Tags.Topics, ", ")),
		Timeout: p.opts.TitleTimeout,
	})
	if err != nil || strings.TrimSpace(response) == "" {
		p.logger.Warn("title suggestion failed", zap.Error(err))
		return nil
	}

	title := SanitizeTitle(response)
	if title == "" {
		return nil
	}

	p.logger.Info("title suggested", zap.String("title", title))
	return &title
}

// sectionsContext joins the bounded section descriptions for the tag prompt
func sectionsContext(sections []analyzer.Section) string {
	limit := len(sections)
	if limit > summarySectionLimit {
		limit = summarySectionLimit
	}

	lines := make([]string, 0, limit)
	for _, s := range sections[:limit] {
		lines = append(lines, fmt.Sprintf("- %s [%s]", s.Description, s.Category))
	}
	return strings.Join(lines, "\n")
}

// sectionsTimeline renders the bounded ordered timeline for the summary prompt
func sectionsTimeline(sections []analyzer.Section) string {
	limit := len(sections)
	if limit > summarySectionLimit {
		limit = summarySectionLimit
	}

	lines := make([]string, 0, limit)
	for _, s := range sections[:limit] {
		lines = append(lines, fmt.Sprintf("%s - %s [%s]", s.StartTime, s.Description, s.Category))
	}
	return strings.Join(lines, "\n")
}

const maxTitleLength = 100

var (
	datePrefixRegex  = regexp.MustCompile(`^\d{4}[-_.]\d{2}[-_.]\d{2}[\s\-_]*`)
	fileExtRegex     = regexp.MustCompile(`\.(mp4|mov|mkv|avi|webm|mp3|wav|m4a)$`)
	unsafeCharsRegex = regexp.MustCompile(`[^a-z0-9,\- ]+`)
	multiSpaceRegex  = regexp.MustCompile(`\s+`)
)

// SanitizeTitle normalizes a model-suggested filename: lowercase, date-like
// prefixes and extensions stripped, filesystem-unsafe characters removed,
// whitespace collapsed, length capped
func SanitizeTitle(raw string) string {
	title := strings.ToLower(strings.TrimSpace(raw))

	// Models occasionally quote the title despite instructions
	title = strings.Trim(title, `"'`)

	title = datePrefixRegex.ReplaceAllString(title, "")
	title = fileExtRegex.ReplaceAllString(title, "")
	title = unsafeCharsRegex.ReplaceAllString(title, "")
	title = multiSpaceRegex.ReplaceAllString(title, " ")
	title = strings.TrimSpace(title)

	if len(title) > maxTitleLength {
		title = strings.TrimSpace(title[:maxTitleLength])
	}

	return title
}
