package prediction

import (
	"math"
	"regexp"
	"strings"

	"github.com/neurofuse/neurofuse/pkg/config"
)

// Built-in keyword lists for the rule-based text analyzer. Config may
// override any of them.
var (
	defaultCrisisKeywords = []string{
		"suicide", "kill myself", "end it all", "not worth living",
		"self harm", "hurt myself", "cutting", "overdose",
	}

	defaultSevereKeywords   = []string{"hopeless", "worthless", "empty", "numb", "pointless", "trapped"}
	defaultModerateKeywords = []string{"sad", "down", "depressed", "low", "blue", "unhappy", "tired"}
	defaultPositiveKeywords = []string{"happy", "good", "better", "improving", "hopeful", "optimistic"}

	defaultAnxietyHigh     = []string{"panic", "terror", "overwhelming", "catastrophic", "unbearable"}
	defaultAnxietyModerate = []string{"anxious", "worried", "nervous", "stressed", "tense", "uneasy"}
	defaultAnxietyLow      = []string{"calm", "relaxed", "peaceful", "content", "stable"}

	defaultSentimentPositive = []string{"good", "great", "happy", "amazing", "wonderful", "excellent"}
	defaultSentimentNegative = []string{"bad", "terrible", "awful", "horrible", "sad", "angry"}

	urlPattern        = regexp.MustCompile(`https?://\S+`)
	mentionPattern    = regexp.MustCompile(`@\w+`)
	whitespacePattern = regexp.MustCompile(`\s+`)
)

// RuleBasedTextPredictor scores journal text against keyword lists. It is
// the deterministic stand-in for the out-of-scope text-analysis
// collaborator: same text, same result, every time.
type RuleBasedTextPredictor struct {
	crisis []string

	severe   []string
	moderate []string
	positive []string

	anxietyHigh     []string
	anxietyModerate []string
	anxietyLow      []string

	sentimentPositive []string
	sentimentNegative []string
}

// NewRuleBasedTextPredictor creates the reference text predictor. A nil
// config (or empty lists) uses the built-in keyword sets.
func NewRuleBasedTextPredictor(cfg *config.TextRulesConfig) *RuleBasedTextPredictor {
	p := &RuleBasedTextPredictor{
		crisis:            defaultCrisisKeywords,
		severe:            defaultSevereKeywords,
		moderate:          defaultModerateKeywords,
		positive:          defaultPositiveKeywords,
		anxietyHigh:       defaultAnxietyHigh,
		anxietyModerate:   defaultAnxietyModerate,
		anxietyLow:        defaultAnxietyLow,
		sentimentPositive: defaultSentimentPositive,
		sentimentNegative: defaultSentimentNegative,
	}
	if cfg == nil {
		return p
	}
	override := func(dst *[]string, src []string) {
		if len(src) > 0 {
			*dst = src
		}
	}
	override(&p.crisis, cfg.CrisisKeywords)
	override(&p.severe, cfg.SevereKeywords)
	override(&p.moderate, cfg.ModerateKeywords)
	override(&p.positive, cfg.PositiveKeywords)
	override(&p.anxietyHigh, cfg.AnxietyHighKeywords)
	override(&p.anxietyModerate, cfg.AnxietyModerateKeywords)
	override(&p.anxietyLow, cfg.AnxietyLowKeywords)
	override(&p.sentimentPositive, cfg.SentimentPositive)
	override(&p.sentimentNegative, cfg.SentimentNegative)
	return p
}

// Predict runs the full text analysis: safety check, depression severity
// scoring, anxiety keyword tiers, and sentiment.
func (p *RuleBasedTextPredictor) Predict(text string) (*TextResult, error) {
	cleaned := normalizeText(text)

	return &TextResult{
		SafetyFlags:     p.checkSafety(cleaned),
		Depression:      p.classifyDepression(cleaned),
		AnxietyKeywords: p.classifyAnxiety(cleaned),
		Sentiment:       p.classifySentiment(cleaned),
	}, nil
}

func normalizeText(text string) string {
	text = urlPattern.ReplaceAllString(text, "")
	text = mentionPattern.ReplaceAllString(text, "")
	text = whitespacePattern.ReplaceAllString(text, " ")
	return strings.ToLower(strings.TrimSpace(text))
}

func (p *RuleBasedTextPredictor) checkSafety(text string) SafetyFlags {
	var matched []string
	for _, keyword := range p.crisis {
		if strings.Contains(text, keyword) {
			matched = append(matched, keyword)
		}
	}
	return SafetyFlags{
		HasCrisisIndicators: len(matched) > 0,
		MatchedKeywords:     matched,
	}
}

func (p *RuleBasedTextPredictor) classifyDepression(text string) Prediction {
	severe := countMatches(text, p.severe)
	moderate := countMatches(text, p.moderate)
	positive := countMatches(text, p.positive)

	var label string
	var confidence float64
	switch {
	case severe > 2 || (severe > 0 && positive == 0):
		label = "severe"
		confidence = math.Min(0.9, 0.6+float64(severe)*0.1)
	case moderate > positive:
		label = "moderate"
		confidence = math.Min(0.8, 0.5+float64(moderate)*0.05)
	default:
		label = "not_depressed"
		confidence = math.Min(0.8, 0.5+float64(positive)*0.05)
	}

	// Confidence here reflects keyword evidence strength, deliberately
	// decoupled from the peaked distribution.
	return Prediction{
		Label:         label,
		Probabilities: peaked(DepressionLabels, label, 0.8),
		Confidence:    confidence,
	}
}

func (p *RuleBasedTextPredictor) classifyAnxiety(text string) AnxietyKeywords {
	scores := map[string]int{
		"high":     countMatches(text, p.anxietyHigh),
		"moderate": countMatches(text, p.anxietyModerate),
		"low":      countMatches(text, p.anxietyLow),
	}

	var level string
	switch {
	case scores["high"] > 0:
		level = "high"
	case scores["moderate"] > scores["low"]:
		level = "moderate"
	default:
		level = "low"
	}

	return AnxietyKeywords{Level: level, Scores: scores}
}

func (p *RuleBasedTextPredictor) classifySentiment(text string) Sentiment {
	pos := countMatches(text, p.sentimentPositive)
	neg := countMatches(text, p.sentimentNegative)

	switch {
	case pos > neg:
		return Sentiment{Label: "positive", Score: 0.7}
	case neg > pos:
		return Sentiment{Label: "negative", Score: 0.7}
	default:
		return Sentiment{Label: "neutral", Score: 0.6}
	}
}

func countMatches(text string, keywords []string) int {
	var count int
	for _, keyword := range keywords {
		count += strings.Count(text, keyword)
	}
	return count
}
