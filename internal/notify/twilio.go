package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Kartik-coder753/prism-disaster-management/internal/config"
)

// TwilioProvider sends messages through the Twilio REST API. Chat-style
// messages go out as WhatsApp by prefixing both parties with "whatsapp:".
type TwilioProvider struct {
	baseURL    string
	accountSID string
	authToken  string
	from       string
	httpc      *http.Client
}

func NewTwilioProvider(cfg config.TwilioConfig) (*TwilioProvider, error) {
	if cfg.AccountSID == "" || cfg.AuthToken == "" {
		return nil, fmt.Errorf("missing Twilio credentials")
	}
	if !strings.HasPrefix(cfg.AccountSID, "AC") {
		return nil, fmt.Errorf("invalid Twilio account SID format - must start with AC")
	}
	if cfg.FromNumber == "" {
		return nil, fmt.Errorf("missing Twilio phone number")
	}

	return &TwilioProvider{
		baseURL:    cfg.BaseURL,
		accountSID: cfg.AccountSID,
		authToken:  cfg.AuthToken,
		from:       cfg.FromNumber,
		httpc: &http.Client{
			Timeout: 15 * time.Second,
		},
	}, nil
}

func (p *TwilioProvider) Send(ctx context.Context, to, body string, channel Channel) error {
	from := p.from
	if channel == ChannelWhatsApp {
		from = "whatsapp:" + from
		to = "whatsapp:" + to
	}

	form := url.Values{}
	form.Set("From", from)
	form.Set("To", to)
	form.Set("Body", body)

	endpoint := fmt.Sprintf("%s/2010-04-01/Accounts/%s/Messages.json", p.baseURL, p.accountSID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint,
		strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("error creating request: %w", err)
	}
	req.SetBasicAuth(p.accountSID, p.authToken)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := p.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("error while doing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("unexpected status code: %d - status: %s", resp.StatusCode, resp.Status)
	}
	return nil
}

// ValidateSetup fetches the account resource to confirm credentials work.
func (p *TwilioProvider) ValidateSetup(ctx context.Context) error {
	endpoint := fmt.Sprintf("%s/2010-04-01/Accounts/%s.json", p.baseURL, p.accountSID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("error creating request: %w", err)
	}
	req.SetBasicAuth(p.accountSID, p.authToken)

	resp, err := p.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("error while doing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status code: %d - status: %s", resp.StatusCode, resp.Status)
	}

	var account struct {
		FriendlyName string `json:"friendly_name"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&account); err != nil {
		return fmt.Errorf("error decoding resp.Body: %w", err)
	}
	return nil
}
