package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	domainerrors "sentinel/contexts/moderation-core/scoring-pipeline/domain/errors"
	"sentinel/contexts/moderation-core/scoring-pipeline/ports"

	"github.com/go-resty/resty/v2"
)

// Timeouts differ per content kind because media analysis takes longer than
// text classification on the provider side.
const (
	textTimeout  = 10 * time.Second
	imageTimeout = 15 * time.Second
	videoTimeout = 30 * time.Second
)

type Config struct {
	TextURL  string
	ImageURL string
	VideoURL string
	APIKey   string
	Provider string
}

// Client calls the external scoring provider over HTTP.
type Client struct {
	cfg  Config
	http *resty.Client
}

func NewClient(cfg Config) *Client {
	if strings.TrimSpace(cfg.Provider) == "" {
		cfg.Provider = "sentinel-ai"
	}
	client := resty.New().
		SetHeader("User-Agent", "sentinel-scoring/1.0").
		SetHeader("Content-Type", "application/json")
	if strings.TrimSpace(cfg.APIKey) != "" {
		client.SetAuthToken(strings.TrimSpace(cfg.APIKey))
	}
	return &Client{cfg: cfg, http: client}
}

type scoreRequestBody struct {
	ContentID string `json:"content_id"`
	Kind      string `json:"kind"`
	Text      string `json:"text,omitempty"`
	MediaURL  string `json:"media_url,omitempty"`
}

type scoreResponseBody struct {
	Scores struct {
		Toxicity   float64 `json:"toxicity"`
		NSFW       float64 `json:"nsfw"`
		Spam       float64 `json:"spam"`
		HateSpeech float64 `json:"hate_speech"`
	} `json:"scores"`
	Aggregate *float64 `json:"aggregate,omitempty"`
}

func (c *Client) Score(ctx context.Context, req ports.ScoreRequest) (ports.GatewayScore, error) {
	endpoint, timeout, err := c.route(req.Kind)
	if err != nil {
		return ports.GatewayScore{}, err
	}

	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	resp, err := c.http.R().
		SetContext(callCtx).
		SetBody(scoreRequestBody{
			ContentID: req.ContentID,
			Kind:      req.Kind,
			Text:      req.Body,
			MediaURL:  req.URL,
		}).
		Post(endpoint)
	if err != nil {
		return ports.GatewayScore{}, fmt.Errorf("%w: %v", domainerrors.ErrGatewayUnavailable, err)
	}
	if resp.StatusCode() < 200 || resp.StatusCode() >= 300 {
		return ports.GatewayScore{}, fmt.Errorf("%w: status %d", domainerrors.ErrGatewayUnavailable, resp.StatusCode())
	}

	var body scoreResponseBody
	if err := json.Unmarshal(resp.Body(), &body); err != nil {
		return ports.GatewayScore{}, fmt.Errorf("%w: %v", domainerrors.ErrInvalidGatewayResponse, err)
	}

	score := ports.GatewayScore{
		Provider:    c.cfg.Provider,
		Toxicity:    body.Scores.Toxicity,
		NSFW:        body.Scores.NSFW,
		Spam:        body.Scores.Spam,
		HateSpeech:  body.Scores.HateSpeech,
		RawResponse: append([]byte(nil), resp.Body()...),
	}
	if body.Aggregate != nil {
		score.Aggregate = *body.Aggregate
	} else {
		score.Aggregate = maxScore(score.Toxicity, score.NSFW, score.Spam, score.HateSpeech)
	}
	if score.Aggregate < 0 || score.Aggregate > 100 {
		return ports.GatewayScore{}, fmt.Errorf("%w: aggregate %f out of range", domainerrors.ErrInvalidGatewayResponse, score.Aggregate)
	}
	return score, nil
}

func (c *Client) route(kind string) (string, time.Duration, error) {
	switch strings.TrimSpace(strings.ToLower(kind)) {
	case "text":
		return c.cfg.TextURL, textTimeout, nil
	case "image":
		return c.cfg.ImageURL, imageTimeout, nil
	case "video":
		return c.cfg.VideoURL, videoTimeout, nil
	default:
		return "", 0, domainerrors.ErrUnsupportedJobKind
	}
}

func maxScore(values ...float64) float64 {
	max := 0.0
	for _, value := range values {
		if value > max {
			max = value
		}
	}
	return max
}
