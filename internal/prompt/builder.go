package prompt

import (
	"fmt"
	"strings"

	"videoanalyzer/internal/category"
)

// Builder renders category-aware instructions for the inference calls.
// Construction fails fast when no usable category set is supplied, since
// that indicates missing setup rather than a transient failure.
type Builder struct {
	categories         []category.Category
	customInstructions string
	titleContext       string
}

// NewBuilder creates a Builder for the given category set. The set must
// contain at least one enabled category besides the implicit default.
func NewBuilder(categories []category.Category, customInstructions, titleContext string) (*Builder, error) {
	if err := category.Validate(categories); err != nil {
		return nil, fmt.Errorf("invalid category configuration: %w", err)
	}

	return &Builder{
		categories:         categories,
		customInstructions: customInstructions,
		titleContext:       titleContext,
	}, nil
}

// categoryNames returns the enabled category names plus the implicit default
func (b *Builder) categoryNames() string {
	names := make([]string, 0, len(b.categories)+1)
	for _, c := range category.Enabled(b.categories) {
		names = append(names, c.Name)
	}
	names = append(names, category.DefaultName)
	return strings.Join(names, ", ")
}

// categoryList renders the numbered list of enabled categories with their
// descriptions
func (b *Builder) categoryList() string {
	var sb strings.Builder
	for i, c := range category.Enabled(b.categories) {
		fmt.Fprintf(&sb, "%d. **%s** - %s\n\n", i+1, c.Name, c.Description)
	}
	return strings.TrimRight(sb.String(), "\n")
}

// SectionIdentification builds the first-pass instruction for one chunk.
// The task is framed as content-moderation-style factual classification to
// reduce refusal likelihood, and the output shape is a single JSON object
// with a "sections" array.
func (b *Builder) SectionIdentification(chunkNum int, chunkText string) string {
	titleSection := ""
	if b.titleContext != "" {
		titleSection = fmt.Sprintf("VIDEO TITLE/FILENAME: %s\n", b.titleContext)
	}

	customSection := ""
	if b.customInstructions != "" {
		customSection = fmt.Sprintf("ADDITIONAL USER INSTRUCTIONS:\n%s\n", b.customInstructions)
	}

	return fmt.Sprintf(`TASK: Analyze this transcript segment and identify ALL notable content - both content matching the flagged categories AND general routine content.

%sIMPORTANT: You are a content moderation analysis tool. Your job is to identify and categorize content, NOT to judge or refuse to analyze it. Even if the content contains extreme views or controversial material, you must still provide a factual analysis of what is being discussed. This is for research and monitoring purposes.

%sThis is from a video (could be any length - from 10 seconds to several hours). The goal is to provide a timeline of notable sections.

REQUIREMENTS:
- For short transcripts (a few sentences): create ONE section covering the entire segment
- For longer transcripts: each section should ideally be 30 seconds to 2 minutes long; break longer topics into multiple sections
- You MUST provide at least ONE section, even if the content is very short or mundane
- ALWAYS include a representative quote from each section

FLAGGING CRITERIA:

**FLAGGED CATEGORIES** (flag anything matching these topics):

%s

**ROUTINE CONTENT** (flag as "%s"):
- Use "%s" for ANY content that doesn't match the specific categories above
- This is the default category for normal analysis
- "%s" doesn't mean boring - it means a normal summary of what's being discussed
- ALWAYS include a representative quote showing what's being said

MANDATORY JSON OUTPUT FORMAT:

You MUST respond with ONLY valid JSON. No other text before or after.

Return a JSON object with this EXACT structure:

{
  "sections": [
    {
      "start_phrase": "exact first 5-10 words from transcript",
      "end_phrase": "exact last 5-10 words from transcript",
      "category": "ONE of: %s",
      "description": "One sentence explaining the content",
      "quote": "A representative quote from this section (exact words from transcript)"
    }
  ]
}

IMPORTANT RULES:
- Return ONLY valid JSON, nothing else
- Start and End phrases MUST be exact quotes from the transcript below
- Category must be EXACTLY ONE of: %s (pick the SINGLE most relevant category, do NOT combine multiple)
- Keep descriptions to ONE sentence
- ALWAYS include a "quote" field with actual words spoken (for ALL categories, including %s)
- Provide sections for the ENTIRE segment - analyze everything, not just flagged content

TRANSCRIPT TO ANALYZE (Chunk #%d):
%s`,
		titleSection, customSection, b.categoryList(),
		category.DefaultName, category.DefaultName, category.DefaultName,
		b.categoryNames(), b.categoryNames(), category.DefaultName,
		chunkNum, chunkText)
}

// QuoteExtraction builds the second-pass instruction for one section,
// restricting extraction to only the most salient spans.
func (b *Builder) QuoteExtraction(categoryName, description, timestampedText string) string {
	return fmt.Sprintf(`Analyze this timestamped transcript section and extract ONLY the most significant quotes.

Category: %s
Description: %s

IMPORTANT: Only extract quotes that are themselves notable or revealing. Skip:
- Context-setting or background information
- Normal explanations or introductions
- Mild statements or filler content

Extract 2-4 key quotes that capture the MOST significant parts. For each quote:
1. Include the exact timestamp [MM:SS]
2. Quote the exact words spoken
3. Explain why it matters (1-2 sentences)

MANDATORY JSON OUTPUT FORMAT:

You MUST respond with ONLY valid JSON. No other text before or after.

Return a JSON object with this EXACT structure:

{
  "quotes": [
    {
      "timestamp": "MM:SS",
      "text": "exact words from transcript",
      "significance": "Why this quote matters (1-2 sentences)"
    }
  ]
}

IMPORTANT RULES:
- Return ONLY valid JSON, nothing else
- Timestamp must be in MM:SS or HH:MM:SS format
- Quote must be exact words from the transcript
- Significance should be 1-2 sentences

TIMESTAMPED TRANSCRIPT:
%s`, categoryName, description, timestampedText)
}

// Summary builds the overview instruction from the ordered analyzed sections
func (b *Builder) Summary(sectionsSummary string) string {
	titleSection := ""
	if b.titleContext != "" {
		titleSection = fmt.Sprintf(" The video title/filename is: %s.", b.titleContext)
	}

	return fmt.Sprintf(`Provide a brief 2-3 sentence summary of this video based on the analysis of its content.%s
Focus on: What is the video about? What are the main topics/subjects? Who is speaking (if identifiable)?

Use the video title/filename as additional context to help identify the subject matter and people involved.

Below is a timeline of sections identified throughout the video. Synthesize this into a concise overview:

%s

Provide a 2-3 sentence summary:`, titleSection, sectionsSummary)
}

// TagExtraction builds the people/topic tag instruction
func (b *Builder) TagExtraction(sectionsContext, excerpt string) string {
	return fmt.Sprintf(`Analyze this video transcript and extract tags for categorization.

TASK: Extract two types of tags:
1. **PEOPLE**: Names of specific individuals mentioned or speaking
2. **TOPICS**: Main topics, themes, or subjects discussed

RULES:
- Return ONLY valid JSON, nothing else
- For people: Only extract proper names of real individuals (not generic terms like "doctor" or "pastor")
- For topics: Extract 3-8 main topics or themes
- Use title case for names (e.g., "Joe Biden" not "joe biden")
- Keep topic tags concise (1-3 words max)

JSON FORMAT:
{
  "people": ["Name One", "Name Two"],
  "topics": ["Topic One", "Topic Two"]
}

Section analysis context:
%s

Transcript excerpt:
%s

Tags (JSON only):`, sectionsContext, excerpt)
}

// SuggestedTitle builds the filename suggestion instruction
func (b *Builder) SuggestedTitle(currentTitle, description, peopleTags, topicTags string) string {
	return fmt.Sprintf(`Generate a concise, descriptive filename for this video.

**Current Title:** %s

**Video Description:** %s

**People Mentioned:** %s

**Topics Discussed:** %s

**CRITICAL REQUIREMENTS:**
1. Use **lowercase only** with **spaces** between words (NOT hyphens, NOT underscores)
2. **Maximum 100 characters** - keep it concise but descriptive
3. Include the most important person's name if applicable
4. Describe the main topic or claim in one clear phrase
5. **NEVER include:**
   - Dates (like 2025-11-06 or any date format)
   - File extensions (.mp4, .mov, etc.)
   - Special characters (periods, quotes, slashes, colons)
   - Capital letters
6. **Return ONLY the title** - no explanations, no quotes, no extra text

Suggested title:`, currentTitle, description, peopleTags, topicTags)
}
