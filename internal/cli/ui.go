package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/augurlabs/AugurGo/internal/models"
	"github.com/augurlabs/AugurGo/internal/storage/sqlite"
)

// UI styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#7C3AED")).
			Padding(0, 1).
			MarginBottom(1)

	panelStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#3B82F6")).
			Padding(1, 2).
			Width(80)

	yesStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#10B981")).
			Bold(true)

	noStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#EF4444")).
		Bold(true)

	uncertainStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F59E0B")).
			Bold(true)

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6B7280"))

	gradeStyles = map[models.Grade]lipgloss.Style{
		models.GradeA: lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981")).Bold(true),
		models.GradeB: lipgloss.NewStyle().Foreground(lipgloss.Color("#3B82F6")),
		models.GradeC: lipgloss.NewStyle().Foreground(lipgloss.Color("#F59E0B")),
		models.GradeD: lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444")),
	}
)

// DisplayWelcomeBanner shows the welcome banner
func DisplayWelcomeBanner() {
	banner := `
 █████╗ ██╗   ██╗ ██████╗ ██╗   ██╗██████╗  ██████╗  ██████╗
██╔══██╗██║   ██║██╔════╝ ██║   ██║██╔══██╗██╔════╝ ██╔═══██╗
███████║██║   ██║██║  ███╗██║   ██║██████╔╝██║  ███╗██║   ██║
██╔══██║██║   ██║██║   ██║██║   ██║██╔══██╗██║   ██║██║   ██║
██║  ██║╚██████╔╝╚██████╔╝╚██████╔╝██║  ██║╚██████╔╝╚██████╔╝
╚═╝  ╚═╝ ╚═════╝  ╚═════╝  ╚═════╝ ╚═╝  ╚═╝ ╚═════╝  ╚═════╝

            🔮 Prediction Market Research Pipeline 🔮
`

	welcomeStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#7C3AED")).
		Bold(true).
		Align(lipgloss.Center).
		Width(80)

	fmt.Print(welcomeStyle.Render(banner))
	fmt.Println()
}

func verdictStyle(v models.Verdict) lipgloss.Style {
	switch v {
	case models.VerdictYes:
		return yesStyle
	case models.VerdictNo:
		return noStyle
	default:
		return uncertainStyle
	}
}

// RenderResult prints a completed research run.
func RenderResult(result *models.MarketResearchResult) {
	fmt.Println(titleStyle.Render("Research Result"))

	var sb strings.Builder
	fmt.Fprintf(&sb, "Market:      %s\n", result.MarketID)
	fmt.Fprintf(&sb, "Question:    %s\n\n", result.Question)
	fmt.Fprintf(&sb, "Verdict:     %s\n", verdictStyle(result.Verdict).Render(string(result.Verdict)))
	fmt.Fprintf(&sb, "Confidence:  %.0f%%\n", result.Confidence*100)
	fmt.Fprintf(&sb, "P(yes)=%.3f  P(no)=%.3f  P(uncertain)=%.3f\n\n",
		result.Probabilities.Yes, result.Probabilities.No, result.Probabilities.Uncertain)
	fmt.Fprintf(&sb, "%s", result.Analysis.Conclusion)

	fmt.Println(panelStyle.Render(sb.String()))

	if len(result.Sources) > 0 {
		fmt.Println(titleStyle.Render("Evidence"))
		for _, src := range result.Sources {
			grade := gradeStyles[src.Grade].Render("[" + string(src.Grade) + "]")
			fmt.Printf("  %s %s\n      %s\n", grade, src.Title, dimStyle.Render(src.URL))
		}
		fmt.Println()
	}

	if len(result.Analysis.Intermediate) > 0 {
		fmt.Println(titleStyle.Render("Analysis Passes"))
		for _, pass := range result.Analysis.Intermediate {
			fmt.Printf("  • %s (%s): %s\n", pass.Pass, pass.Stance, pass.Conclusion)
		}
		fmt.Println()
	}
}

// RenderHistory prints stored runs, newest first.
func RenderHistory(records []sqlite.ResultRecord) {
	fmt.Println(titleStyle.Render("Research History"))
	for _, rec := range records {
		verdict := verdictStyle(rec.Result.Verdict).Render(string(rec.Result.Verdict))
		fmt.Printf("  %s  %-12s %s (%.0f%%)\n      %s\n",
			rec.CreatedAt.Format("2006-01-02 15:04"),
			rec.MarketID,
			verdict,
			rec.Result.Confidence*100,
			dimStyle.Render(rec.Result.Question))
	}
	fmt.Println()
}
