// internal/providers/youtube/transcript.go
package youtube

import (
	"context"
	"encoding/xml"
	"fmt"
	"html"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	apperrors "contextual-pipeline/internal/common/errors"
	"contextual-pipeline/internal/common/logger"
)

const defaultTranscriptBaseURL = "https://video.google.com/timedtext"

// TranscriptClient fetches caption tracks from the timedtext endpoint.
// Caption lookups cost no Data API quota.
type TranscriptClient struct {
	http    *http.Client
	baseURL string
	logger  logger.Logger
}

func NewTranscriptClient(baseURL string, timeout time.Duration, log logger.Logger) *TranscriptClient {
	if baseURL == "" {
		baseURL = defaultTranscriptBaseURL
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &TranscriptClient{
		http:    &http.Client{Timeout: timeout},
		baseURL: strings.TrimRight(baseURL, "/"),
		logger:  log,
	}
}

type timedTextResponse struct {
	XMLName xml.Name `xml:"transcript"`
	Texts   []struct {
		Content string `xml:",chardata"`
	} `xml:"text"`
}

// GetTranscript tries each language in order and returns the first
// non-empty caption track joined into plain text. A video without
// captions yields an empty string, not an error.
func (c *TranscriptClient) GetTranscript(ctx context.Context, videoID string, languages []string) (string, error) {
	if len(languages) == 0 {
		languages = []string{"en", "en-US"}
	}

	for _, lang := range languages {
		text, err := c.fetchTrack(ctx, videoID, lang)
		if err != nil {
			return "", err
		}
		if text != "" {
			return text, nil
		}
	}

	c.logger.Debug("No caption track available", map[string]interface{}{
		"videoId":   videoID,
		"languages": languages,
	})
	return "", nil
}

func (c *TranscriptClient) fetchTrack(ctx context.Context, videoID, lang string) (string, error) {
	params := url.Values{}
	params.Set("v", videoID)
	params.Set("lang", lang)
	endpoint := c.baseURL + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", apperrors.NewProviderUnavailableError("youtube-transcript", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return "", apperrors.NewProviderTimeoutError("youtube-transcript")
		}
		return "", apperrors.NewProviderUnavailableError("youtube-transcript", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return "", nil
	}
	if resp.StatusCode >= 400 {
		return "", apperrors.NewProviderUnavailableError("youtube-transcript",
			fmt.Errorf("unexpected status %d", resp.StatusCode))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", apperrors.NewProviderUnavailableError("youtube-transcript", err)
	}
	if len(body) == 0 {
		return "", nil
	}

	var track timedTextResponse
	if err := xml.Unmarshal(body, &track); err != nil {
		// Not a caption document; treat as unavailable for this language.
		return "", nil
	}

	var segments []string
	for _, t := range track.Texts {
		if cleaned := strings.TrimSpace(html.UnescapeString(t.Content)); cleaned != "" {
			segments = append(segments, cleaned)
		}
	}
	return strings.Join(segments, " "), nil
}
