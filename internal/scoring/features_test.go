// internal/scoring/features_test.go
package scoring

import (
	"testing"

	"contextual-pipeline/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{
			name:     "lowercases and splits on punctuation",
			input:    "Best Phone! Review-2024",
			expected: []string{"best", "phone", "review", "2024"},
		},
		{
			name:     "empty input",
			input:    "",
			expected: nil,
		},
		{
			name:     "only punctuation",
			input:    "!!! --- ???",
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Tokenize(tt.input))
		})
	}
}

func TestJaccard(t *testing.T) {
	a := tokenSet([]string{"phone", "camera", "review"})
	b := tokenSet([]string{"phone", "camera", "battery"})

	// Intersection 2, union 4.
	assert.InDelta(t, 0.5, jaccard(a, b), 1e-9)

	assert.Equal(t, 0.0, jaccard(a, map[string]bool{}))
	assert.Equal(t, 0.0, jaccard(map[string]bool{}, b))
	assert.Equal(t, 1.0, jaccard(a, a))
}

func TestExtractFeaturesIdenticalText(t *testing.T) {
	campaign := &models.Campaign{Name: "smartphone"}
	video := &models.Video{Title: "smartphone"}

	h := ExtractFeatures(campaign, video)

	assert.Equal(t, 1.0, h.SemanticSimilarity)
	// 0.35 base + 0 intent hits + 1.0 similarity * 0.4
	assert.Equal(t, 0.75, h.IntentScore)
	// 1.0 * 0.7 + no tag bonus + 0.1
	assert.Equal(t, 0.8, h.InterestScore)
	// No sentiment hits: (0+1)/(1+1)
	assert.Equal(t, 0.5, h.EmotionScore)
	assert.Equal(t, models.SentimentNeutral, h.Sentiment)
	assert.Equal(t, []string{"smartphone"}, h.KeyTopics)
	assert.Equal(t, []string{"smartphone"}, h.KeyEntities)
}

func TestExtractFeaturesDisjointText(t *testing.T) {
	campaign := &models.Campaign{Name: "gardening tools"}
	video := &models.Video{Title: "crypto market analysis"}

	h := ExtractFeatures(campaign, video)

	assert.Equal(t, 0.0, h.SemanticSimilarity)
	assert.Equal(t, 0.35, h.IntentScore)
	assert.InDelta(t, 0.1, h.InterestScore, 1e-9)
}

func TestExtractFeaturesIntentAndSentiment(t *testing.T) {
	campaign := &models.Campaign{Name: "cooking"}
	video := &models.Video{Title: "How to review a guide"}

	h := ExtractFeatures(campaign, video)

	// Intent hits: how, review, guide. Similarity is 0.
	assert.InDelta(t, 0.65, h.IntentScore, 1e-9)
	// Positive hits: how, review, guide; no negative hits.
	assert.Equal(t, 1.0, h.EmotionScore)
	assert.Equal(t, models.SentimentPositive, h.Sentiment)
}

func TestExtractFeaturesNegativeSentiment(t *testing.T) {
	campaign := &models.Campaign{Name: "travel"}
	video := &models.Video{Title: "worst disaster fail compilation"}

	h := ExtractFeatures(campaign, video)

	assert.Equal(t, models.SentimentNegative, h.Sentiment)
	// (0+1)/(3+1) is below the floor of 0.1? No: 0.25.
	assert.Equal(t, 0.25, h.EmotionScore)
}

func TestExtractFeaturesTagBonusCapped(t *testing.T) {
	tags := make([]string, 20)
	for i := range tags {
		tags[i] = "tag"
	}
	campaign := &models.Campaign{Name: "x"}
	video := &models.Video{Title: "y", Tags: tags}

	h := ExtractFeatures(campaign, video)

	// Bonus capped at 0.25: 0*0.7 + 0.25 + 0.1.
	assert.InDelta(t, 0.35, h.InterestScore, 1e-9)
}

func TestSharedTopicsOrderingAndCap(t *testing.T) {
	videoSet := tokenSet([]string{"aa", "bbb", "cccc", "dd", "eeeee", "ffffff", "zz"})
	campaignSet := tokenSet([]string{"aa", "bbb", "cccc", "dd", "eeeee", "ffffff"})

	topics := sharedTopics(videoSet, campaignSet)

	// Longest first, capped at five.
	assert.Equal(t, []string{"ffffff", "eeeee", "cccc", "bbb", "aa"}, topics)
}

func TestSharedTopicsLexicalTieBreak(t *testing.T) {
	videoSet := tokenSet([]string{"beta", "alfa", "cold"})
	campaignSet := tokenSet([]string{"beta", "alfa", "cold"})

	topics := sharedTopics(videoSet, campaignSet)

	assert.Equal(t, []string{"alfa", "beta", "cold"}, topics)
}

func TestTitleEntities(t *testing.T) {
	entities := titleEntities("The Great Phone Phone Review of Phones")

	// Tokens longer than three chars, distinct, first three.
	assert.Equal(t, []string{"great", "phone", "review"}, entities)

	assert.Empty(t, titleEntities("a b c"))
}

func TestInferInterestTopicsPrefersTags(t *testing.T) {
	video := &models.Video{
		Title: "some title here",
		Tags:  []string{"tech", "phones", "reviews", "extra"},
	}
	assert.Equal(t, []string{"tech", "phones", "reviews"}, inferInterestTopics(video))

	video.Tags = nil
	assert.Equal(t, []string{"some", "title", "here"}, inferInterestTopics(video))
}

func TestKeyTopicsFallbackChain(t *testing.T) {
	campaign := &models.Campaign{Name: "zzz"}

	withTags := &models.Video{Title: "abc", Tags: []string{"t1", "t2"}}
	h := ExtractFeatures(campaign, withTags)
	assert.Equal(t, []string{"t1", "t2"}, h.KeyTopics)

	noTags := &models.Video{Title: "abc abc def"}
	h = ExtractFeatures(campaign, noTags)
	assert.Equal(t, []string{"abc", "def"}, h.KeyTopics)
}
