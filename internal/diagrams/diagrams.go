// Package diagrams produces TikZ/PGFPlots diagram snippets for chapter
// sections and persists them as a section-keyed JSON map.
package diagrams

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"sceneforge/internal/chapter"
	"sceneforge/internal/fileutil"
	"sceneforge/internal/services"
	"sceneforge/internal/services/llm"
)

const systemPrompt = `You are an expert in creating EFFICIENT LaTeX diagrams for technical topics using TikZ and PGFPlots.

CRITICAL PERFORMANCE INSTRUCTIONS:
1. Avoid complex fills: do NOT use \fill with manually defined curved paths.
2. No opacity: do NOT use the opacity or fill opacity options.
3. If shading is necessary, use the fillbetween library from PGFPlots.
4. Prefer arrows and text labels over shaded regions.
5. When labeling arrows or lines, attach the node directly to the \draw command using options like midway, above, or sloped. Always include clip=false in the axis options.

Assume tikz and pgfplots are already included in the preamble. DO NOT emit \documentclass, \usepackage, or \begin{document}/\end{document}.
Return the diagram inside a single fenced latex code block.`

// Generator creates one diagram per chapter section.
type Generator struct {
	llm    llm.Completer
	model  string
	logger *slog.Logger
}

// New constructs a Generator.
func New(completer llm.Completer, model string, logger *slog.Logger) *Generator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Generator{
		llm:    completer,
		model:  strings.TrimSpace(model),
		logger: logger.With(slog.String("component", "diagrams")),
	}
}

// GenerateSection returns the diagram LaTeX for one section's content.
func (g *Generator) GenerateSection(ctx context.Context, sectionID, content string) (string, error) {
	raw, err := g.llm.Complete(ctx, llm.Request{
		Model:  g.model,
		System: systemPrompt,
		User:   userPrompt(sectionID, content),
	})
	if err != nil {
		return "", services.Wrap(services.ErrModel, "diagrams", "generate", sectionID, err)
	}
	return llm.ExtractCodeBlock(raw), nil
}

// GenerateAll produces a diagram for every section of the chapter, keyed by
// section ID. A section whose generation fails is recorded with an empty
// snippet so remaining sections still get diagrams; only a chapter with no
// sections at all is an error.
func (g *Generator) GenerateAll(ctx context.Context, chapterPath string) (map[string]string, error) {
	doc, err := chapter.Load(chapterPath)
	if err != nil {
		return nil, err
	}
	ids := doc.SectionIDs()
	if len(ids) == 0 {
		return nil, services.Wrap(services.ErrContent, "diagrams", "parse chapter",
			fmt.Sprintf("no sections found in %s", chapterPath), nil)
	}

	diagrams := make(map[string]string, len(ids))
	for _, id := range ids {
		content, err := doc.Section(id)
		if err != nil {
			g.logger.Warn("section unreadable, skipping", slog.String("section", id), slog.Any("error", err))
			diagrams[id] = ""
			continue
		}
		g.logger.Info("generating diagram", slog.String("section", id))
		code, err := g.GenerateSection(ctx, id, content)
		if err != nil {
			g.logger.Warn("diagram generation failed", slog.String("section", id), slog.Any("error", err))
			diagrams[id] = ""
			continue
		}
		diagrams[id] = code
	}
	return diagrams, nil
}

// Save writes the diagram map as indented JSON via an atomic replace.
func Save(diagrams map[string]string, path string) error {
	data, err := json.MarshalIndent(diagrams, "", "  ")
	if err != nil {
		return fmt.Errorf("encode diagrams: %w", err)
	}
	data = append(data, '\n')
	if err := fileutil.WriteFileAtomic(path, data, 0o644); err != nil {
		return fmt.Errorf("write diagrams: %w", err)
	}
	return nil
}

func userPrompt(sectionID, content string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Create a visually clear LaTeX diagram for section %s.\n\n", sectionID)
	b.WriteString("Section content:\n")
	b.WriteString(content)
	b.WriteString("\n\nNow generate the efficient diagram for this section.")
	return b.String()
}
