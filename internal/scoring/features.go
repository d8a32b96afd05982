// internal/scoring/features.go

// Package scoring produces multi-dimensional contextual scores for
// campaign/video pairs. A deterministic lexical baseline is always
// computed; a completion provider refines it when available.
package scoring

import (
	"math"
	"regexp"
	"strings"

	"contextual-pipeline/internal/models"
)

var tokenPattern = regexp.MustCompile(`[a-z0-9]+`)

var positiveTerms = termSet(
	"best", "ultimate", "win", "exciting", "innovative", "amazing", "love", "top", "guide", "review", "how",
)

var negativeTerms = termSet(
	"hate", "worst", "fail", "angry", "problem", "bad", "tragic", "disaster", "break", "complaint",
)

var intentTerms = termSet(
	"how", "review", "guide", "tutorial", "tips", "versus", "compare",
)

func termSet(terms ...string) map[string]bool {
	set := make(map[string]bool, len(terms))
	for _, t := range terms {
		set[t] = true
	}
	return set
}

// Tokenize lowercases text and splits it into alphanumeric runs.
func Tokenize(text string) []string {
	return tokenPattern.FindAllString(strings.ToLower(text), -1)
}

func tokenSet(tokens []string) map[string]bool {
	set := make(map[string]bool, len(tokens))
	for _, t := range tokens {
		set[t] = true
	}
	return set
}

// jaccard is |A∩B| / |A∪B|, and 0 when either set is empty.
func jaccard(a, b map[string]bool) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	intersection := 0
	for t := range a {
		if b[t] {
			intersection++
		}
	}
	union := len(a) + len(b) - intersection
	return float64(intersection) / float64(union)
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}

// Heuristic is the deterministic lexical baseline for one pair. It feeds
// the model prompt and stands in for every field the model omits.
type Heuristic struct {
	SemanticSimilarity float64
	IntentScore        float64
	InterestScore      float64
	EmotionScore       float64
	Sentiment          models.Sentiment
	Tone               string
	KeyTopics          []string
	KeyEntities        []string
	IntentType         models.IntentType
	InterestTopics     []string
	EmotionType        string
}

// ExtractFeatures computes the lexical baseline from campaign brief text
// and video title, description, and tags.
func ExtractFeatures(campaign *models.Campaign, video *models.Video) Heuristic {
	videoTokens := Tokenize(video.CombinedText())
	campaignTokens := Tokenize(campaign.BriefText())

	videoSet := tokenSet(videoTokens)
	campaignSet := tokenSet(campaignTokens)

	similarity := jaccard(videoSet, campaignSet)
	similarity = math.Min(math.Max(similarity, 0), 1)

	intentHits := 0
	for t := range intentTerms {
		if videoSet[t] {
			intentHits++
		}
	}
	intentScore := math.Min(1, 0.35+float64(intentHits)*0.1+similarity*0.4)

	tagBonus := math.Min(0.25, float64(len(video.Tags))*0.02)
	interestScore := math.Min(1, similarity*0.7+tagBonus+0.1)

	positiveHits, negativeHits := 0, 0
	for _, t := range videoTokens {
		if positiveTerms[t] {
			positiveHits++
		}
		if negativeTerms[t] {
			negativeHits++
		}
	}
	totalHits := positiveHits + negativeHits
	if totalHits == 0 {
		totalHits = 1
	}
	emotionScore := math.Min(1, math.Max(0.1, float64(positiveHits+1)/float64(totalHits+1)))

	sentiment := models.SentimentNeutral
	switch {
	case positiveHits > negativeHits+1:
		sentiment = models.SentimentPositive
	case negativeHits > positiveHits+1:
		sentiment = models.SentimentNegative
	}

	keyTopics := sharedTopics(videoSet, campaignSet)
	if len(keyTopics) == 0 && len(video.Tags) > 0 {
		keyTopics = firstN(video.Tags, 5)
	}
	if len(keyTopics) == 0 {
		keyTopics = firstN(distinct(videoTokens), 5)
	}

	keyEntities := titleEntities(video.Title)
	if len(keyEntities) == 0 {
		keyEntities = firstN(keyTopics, 3)
	}

	return Heuristic{
		SemanticSimilarity: round3(similarity),
		IntentScore:        round3(intentScore),
		InterestScore:      round3(interestScore),
		EmotionScore:       round3(emotionScore),
		Sentiment:          sentiment,
		Tone:               inferTone(sentiment, videoSet),
		KeyTopics:          keyTopics,
		KeyEntities:        keyEntities,
		IntentType:         inferIntentType(videoSet),
		InterestTopics:     inferInterestTopics(video),
		EmotionType:        inferEmotionType(sentiment, videoSet),
	}
}

// sharedTopics returns the token intersection ordered longest first,
// capped at five. Equal lengths fall back to lexical order so the result
// is stable.
func sharedTopics(videoSet, campaignSet map[string]bool) []string {
	var shared []string
	for t := range videoSet {
		if campaignSet[t] {
			shared = append(shared, t)
		}
	}
	sortByLengthDesc(shared)
	return firstN(shared, 5)
}

func sortByLengthDesc(words []string) {
	for i := 1; i < len(words); i++ {
		for j := i; j > 0; j-- {
			a, b := words[j-1], words[j]
			if len(b) > len(a) || (len(b) == len(a) && b < a) {
				words[j-1], words[j] = b, a
			} else {
				break
			}
		}
	}
}

// titleEntities takes the first three distinct title tokens longer than
// three characters, in appearance order.
func titleEntities(title string) []string {
	var entities []string
	seen := map[string]bool{}
	for _, word := range Tokenize(title) {
		if len(word) > 3 && !seen[word] {
			entities = append(entities, word)
			seen[word] = true
		}
		if len(entities) == 3 {
			break
		}
	}
	return entities
}

func inferInterestTopics(video *models.Video) []string {
	if len(video.Tags) > 0 {
		return firstN(video.Tags, 3)
	}
	return distinct(firstN(Tokenize(video.Title), 3))
}

func distinct(tokens []string) []string {
	seen := map[string]bool{}
	var out []string
	for _, t := range tokens {
		if !seen[t] {
			out = append(out, t)
			seen[t] = true
		}
	}
	return out
}

func firstN(items []string, n int) []string {
	if len(items) > n {
		return items[:n]
	}
	return items
}
