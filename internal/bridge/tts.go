package bridge

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// HTTPSpeaker calls the text-to-speech collaborator's synthesize
// endpoint.
type HTTPSpeaker struct {
	baseURL string
	client  *http.Client
}

func NewHTTPSpeaker(baseURL string) *HTTPSpeaker {
	return &HTTPSpeaker{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

// Speak submits text for synthesis. Playback happens on the
// collaborator's side; only transport and status failures surface here.
func (s *HTTPSpeaker) Speak(ctx context.Context, text string) error {
	endpoint := s.baseURL + "/synthesize?" + url.Values{"text": {text}}.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("synthesize returned %s", resp.Status)
	}
	return nil
}
