package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/augurlabs/AugurGo/config"
	"github.com/augurlabs/AugurGo/internal/models"
)

// WriteMarkdownReport renders a research run as a markdown file under the
// results directory and returns its path.
func WriteMarkdownReport(cfg *config.Config, result *models.MarketResearchResult) (string, error) {
	if err := os.MkdirAll(cfg.ResultsDir, 0o755); err != nil {
		return "", fmt.Errorf("create results dir: %w", err)
	}

	filename := fmt.Sprintf("%s_%s.md", sanitizeFilename(result.MarketID),
		result.CompletedAt.Format("20060102_150405"))
	path := filepath.Join(cfg.ResultsDir, filename)

	var sb strings.Builder
	fmt.Fprintf(&sb, "# Research Report: %s\n\n", result.Question)
	fmt.Fprintf(&sb, "- **Market:** %s\n", result.MarketID)
	fmt.Fprintf(&sb, "- **Run:** %s\n", result.ID)
	fmt.Fprintf(&sb, "- **Completed:** %s\n\n", result.CompletedAt.Format(time.RFC3339))

	fmt.Fprintf(&sb, "## Verdict\n\n")
	fmt.Fprintf(&sb, "**%s** (confidence %.0f%%)\n\n", result.Verdict, result.Confidence*100)
	fmt.Fprintf(&sb, "| Outcome | Probability |\n|---|---|\n")
	fmt.Fprintf(&sb, "| YES | %.3f |\n", result.Probabilities.Yes)
	fmt.Fprintf(&sb, "| NO | %.3f |\n", result.Probabilities.No)
	fmt.Fprintf(&sb, "| UNCERTAIN | %.3f |\n\n", result.Probabilities.Uncertain)

	fmt.Fprintf(&sb, "## Synthesis\n\n%s\n\n", result.Analysis.Conclusion)

	if len(result.Analysis.Intermediate) > 0 {
		fmt.Fprintf(&sb, "## Analysis Passes\n\n")
		for _, pass := range result.Analysis.Intermediate {
			fmt.Fprintf(&sb, "### %s\n\n- Stance: %s\n- Score: %.2f\n- %s\n\n",
				pass.Pass, pass.Stance, pass.Score, pass.Conclusion)
			for _, url := range pass.SourceURLs {
				fmt.Fprintf(&sb, "  - %s\n", url)
			}
			if len(pass.SourceURLs) > 0 {
				sb.WriteString("\n")
			}
		}
	}

	fmt.Fprintf(&sb, "## Evidence (%d sources)\n\n", len(result.Sources))
	for _, src := range result.Sources {
		fmt.Fprintf(&sb, "- **[%s]** [%s](%s)", src.Grade, src.Title, src.URL)
		if src.Rationale != "" {
			fmt.Fprintf(&sb, " (%s)", src.Rationale)
		}
		sb.WriteString("\n")
	}
	sb.WriteString("\n")

	if len(result.Strategy.Queries) > 0 {
		fmt.Fprintf(&sb, "## Search Strategy\n\n")
		for _, q := range result.Strategy.Queries {
			fmt.Fprintf(&sb, "- `%s`\n", q)
		}
		if result.Strategy.Fallback {
			sb.WriteString("\n_Generic fallback strategy was used._\n")
		}
	}

	if err := os.WriteFile(path, []byte(sb.String()), 0o644); err != nil {
		return "", fmt.Errorf("write report: %w", err)
	}
	return path, nil
}

func sanitizeFilename(s string) string {
	replacer := strings.NewReplacer("/", "_", "\\", "_", " ", "_", ":", "_")
	return replacer.Replace(s)
}
