package service

import (
	"strings"

	"smart-invest-api/internal/entity"

	"github.com/jonreiter/govader"
)

// SentimentScorer applies a VADER lexicon polarity model to articles.
type SentimentScorer struct {
	analyzer *govader.SentimentIntensityAnalyzer
}

// NewSentimentScorer creates a SentimentScorer with a fresh lexicon.
func NewSentimentScorer() *SentimentScorer {
	return &SentimentScorer{
		analyzer: govader.NewSentimentIntensityAnalyzer(),
	}
}

// Score produces one SentimentRecord per article, preserving input order.
// The scored text is title and description joined with ". "; a blank
// combined text yields the neutral vector without invoking the model.
func (s *SentimentScorer) Score(articles []entity.Article) []entity.SentimentRecord {
	records := make([]entity.SentimentRecord, 0, len(articles))
	for _, article := range articles {
		text := combineText(article.Title, article.Description)

		record := entity.SentimentRecord{Article: article, Neutral: 1}
		if text != "" {
			polarity := s.analyzer.PolarityScores(text)
			record.Negative = polarity.Negative
			record.Neutral = polarity.Neutral
			record.Positive = polarity.Positive
			record.Compound = polarity.Compound
		}
		records = append(records, record)
	}
	return records
}

// combineText joins title and description with a sentence separator,
// dropping empty parts so a blank article stays blank.
func combineText(title, description string) string {
	title = strings.TrimSpace(title)
	description = strings.TrimSpace(description)
	switch {
	case title == "":
		return description
	case description == "":
		return title
	default:
		return title + ". " + description
	}
}

// meanCompound averages the compound polarity across records, 0.0 when
// there are none.
func meanCompound(records []entity.SentimentRecord) float64 {
	if len(records) == 0 {
		return 0.0
	}
	sum := 0.0
	for _, r := range records {
		sum += r.Compound
	}
	return sum / float64(len(records))
}

// rescaleCompound maps a compound polarity from [-1,1] onto [0,1].
func rescaleCompound(compound float64) float64 {
	return (compound + 1) / 2
}
