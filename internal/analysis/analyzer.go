package analysis

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	"github.com/augurlabs/AugurGo/consts"
	"github.com/augurlabs/AugurGo/internal/models"
)

// Analyzer turns a market and its graded evidence into a structured
// analysis result.
type Analyzer interface {
	Analyze(ctx context.Context, market models.Market, sources []models.GradedSource) (*models.AnalysisResult, error)
}

// MultiAgentAnalyzer runs a three-pass graph over the evidence: an
// advocate pass builds the strongest YES case, a skeptic pass builds
// the strongest NO case, and a synthesis pass reconciles them. The
// synthesis output is authoritative; the per-pass outputs are kept as
// tagged intermediates.
type MultiAgentAnalyzer struct {
	runner    compose.Runnable[*models.AnalysisState, *models.AnalysisState]
	chatModel model.ChatModel
}

// NewMultiAgentAnalyzer compiles the analysis graph. chatModel may be
// nil, in which case the synthesis narrative is generated heuristically.
func NewMultiAgentAnalyzer(ctx context.Context, chatModel model.ChatModel) (*MultiAgentAnalyzer, error) {
	a := &MultiAgentAnalyzer{chatModel: chatModel}

	g := compose.NewGraph[*models.AnalysisState, *models.AnalysisState]()

	if err := g.AddLambdaNode(consts.AdvocateAnalyst, compose.InvokableLambda(a.advocatePass)); err != nil {
		return nil, fmt.Errorf("add advocate node: %w", err)
	}
	if err := g.AddLambdaNode(consts.SkepticAnalyst, compose.InvokableLambda(a.skepticPass)); err != nil {
		return nil, fmt.Errorf("add skeptic node: %w", err)
	}
	if err := g.AddLambdaNode(consts.SynthesisJudge, compose.InvokableLambda(a.synthesisPass)); err != nil {
		return nil, fmt.Errorf("add synthesis node: %w", err)
	}

	if err := g.AddEdge(compose.START, consts.AdvocateAnalyst); err != nil {
		return nil, err
	}
	if err := g.AddEdge(consts.AdvocateAnalyst, consts.SkepticAnalyst); err != nil {
		return nil, err
	}
	if err := g.AddEdge(consts.SkepticAnalyst, consts.SynthesisJudge); err != nil {
		return nil, err
	}
	if err := g.AddEdge(consts.SynthesisJudge, compose.END); err != nil {
		return nil, err
	}

	runner, err := g.Compile(ctx, compose.WithGraphName(consts.AnalysisGraphName))
	if err != nil {
		return nil, fmt.Errorf("compile analysis graph: %w", err)
	}
	a.runner = runner
	return a, nil
}

func (a *MultiAgentAnalyzer) Analyze(ctx context.Context, market models.Market, sources []models.GradedSource) (*models.AnalysisResult, error) {
	if len(sources) == 0 {
		return nil, fmt.Errorf("no sources to analyze for market %s", market.ID)
	}

	state := &models.AnalysisState{Market: market, Sources: sources}
	out, err := a.runner.Invoke(ctx, state)
	if err != nil {
		return nil, fmt.Errorf("analysis graph: %w", err)
	}
	if out.Result == nil {
		return nil, fmt.Errorf("analysis graph produced no result")
	}
	return out.Result, nil
}

func (a *MultiAgentAnalyzer) advocatePass(ctx context.Context, state *models.AnalysisState) (*models.AnalysisState, error) {
	weight, urls := weighSide(state.Sources, models.StanceAffirm)

	stance := models.StanceNeutral
	if len(urls) > 0 {
		stance = models.StanceAffirm
	}
	state.Passes = append(state.Passes, models.PassOutput{
		Pass:   consts.AdvocateAnalyst,
		Stance: stance,
		Conclusion: fmt.Sprintf("Case for YES: %d of %d sources support resolution, weighted mass %.2f.",
			len(urls), len(state.Sources), weight),
		Score:      weight,
		SourceURLs: urls,
	})
	return state, nil
}

func (a *MultiAgentAnalyzer) skepticPass(ctx context.Context, state *models.AnalysisState) (*models.AnalysisState, error) {
	weight, urls := weighSide(state.Sources, models.StanceDeny)

	stance := models.StanceNeutral
	if len(urls) > 0 {
		stance = models.StanceDeny
	}
	state.Passes = append(state.Passes, models.PassOutput{
		Pass:   consts.SkepticAnalyst,
		Stance: stance,
		Conclusion: fmt.Sprintf("Case against: %d of %d sources cut against resolution, weighted mass %.2f.",
			len(urls), len(state.Sources), weight),
		Score:      weight,
		SourceURLs: urls,
	})
	return state, nil
}

func (a *MultiAgentAnalyzer) synthesisPass(ctx context.Context, state *models.AnalysisState) (*models.AnalysisState, error) {
	var affirm, deny float64
	for _, pass := range state.Passes {
		switch pass.Pass {
		case consts.AdvocateAnalyst:
			affirm = pass.Score
		case consts.SkepticAnalyst:
			deny = pass.Score
		}
	}

	agreement := 0.0
	if affirm+deny > 0 {
		agreement = (affirm - deny) / (affirm + deny)
	}

	stance := models.StanceNeutral
	switch {
	case agreement > 0.15:
		stance = models.StanceAffirm
	case agreement < -0.15:
		stance = models.StanceDeny
	}

	conclusion := fmt.Sprintf("Weighing %d sources: advocate mass %.2f vs skeptic mass %.2f (net agreement %+.2f). Evidence %s the market resolving YES.",
		len(state.Sources), affirm, deny, agreement, describeStance(stance))

	if a.chatModel != nil {
		narrative, err := a.generateNarrative(ctx, state, agreement, stance)
		if err != nil {
			return nil, fmt.Errorf("synthesis narrative: %w", err)
		}
		if narrative != "" {
			conclusion = narrative
		}
	}

	state.Passes = append(state.Passes, models.PassOutput{
		Pass:       consts.SynthesisJudge,
		Stance:     stance,
		Conclusion: conclusion,
		Score:      agreement,
	})

	state.Result = &models.AnalysisResult{
		Conclusion:   conclusion,
		Stance:       stance,
		Agreement:    agreement,
		Intermediate: state.Passes,
	}
	return state, nil
}

func (a *MultiAgentAnalyzer) generateNarrative(ctx context.Context, state *models.AnalysisState, agreement float64, stance models.Stance) (string, error) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Market question: %s\n", state.Market.Question)
	fmt.Fprintf(&sb, "Net evidence agreement: %+.2f, leaning %s.\n", agreement, describeStance(stance))
	sb.WriteString("Evidence:\n")
	for _, src := range state.Sources {
		fmt.Fprintf(&sb, "- [%s] %s: %s\n", src.Grade, src.Title, src.Snippet)
	}
	sb.WriteString("Write a short neutral synthesis of whether this market resolves YES. Do not contradict the stated lean.")

	msgs := []*schema.Message{
		schema.SystemMessage("You are a prediction market research judge. Be concise and cite only the provided evidence."),
		schema.UserMessage(sb.String()),
	}

	resp, err := a.chatModel.Generate(ctx, msgs)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(resp.Content), nil
}

// weighSide sums the grade-weighted stance strength of all sources
// arguing the given side.
func weighSide(sources []models.GradedSource, side models.Stance) (float64, []string) {
	var weight float64
	var urls []string
	for _, src := range sources {
		stance, strength := models.ClassifyStance(src.Title + ". " + src.Snippet)
		if stance != side {
			continue
		}
		weight += src.Grade.Weight() * strength
		urls = append(urls, src.URL)
	}
	return weight, urls
}

func describeStance(s models.Stance) string {
	switch s {
	case models.StanceAffirm:
		return "favors"
	case models.StanceDeny:
		return "disfavors"
	default:
		return "is mixed on"
	}
}
