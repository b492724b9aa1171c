// Package notify validates recipients, renders alert text, and fans a
// message out to SMS or chat recipients through a pluggable provider.
package notify

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/Kartik-coder753/prism-disaster-management/internal/models"
	"github.com/Kartik-coder753/prism-disaster-management/internal/observability"
)

type Channel string

const (
	ChannelSMS      Channel = "sms"
	ChannelWhatsApp Channel = "whatsapp"
)

// Provider is the external message channel. Implementations perform the
// remote call; the dispatcher owns validation and failure accounting.
type Provider interface {
	Send(ctx context.Context, to, body string, channel Channel) error
	ValidateSetup(ctx context.Context) error
}

// SetupStatus reports a provider connectivity/credential check.
type SetupStatus struct {
	IsValid bool   `json:"isValid"`
	Message string `json:"message"`
}

// Recipient format: country-code prefix then exactly 10 digits.
var recipientRe = regexp.MustCompile(`^\+[1-9]\d{0,2}[1-9]\d{9}$`)

type Dispatcher struct {
	provider Provider
	metrics  *observability.Metrics
}

func NewDispatcher(provider Provider, metrics *observability.Metrics) *Dispatcher {
	return &Dispatcher{
		provider: provider,
		metrics:  metrics,
	}
}

func ValidateRecipient(number string) bool {
	return recipientRe.MatchString(number)
}

// Send delivers one message to one recipient. Provider failures are logged
// and reported as false, never raised.
func (d *Dispatcher) Send(ctx context.Context, to, message string, channel Channel) bool {
	if d.provider == nil {
		slog.Error("notification provider not initialized", "to", to)
		return false
	}
	if !ValidateRecipient(to) {
		slog.Error("invalid recipient number", "to", to)
		return false
	}

	if err := d.provider.Send(ctx, to, message, channel); err != nil {
		slog.Error("notification send failed", "to", to, "channel", channel, "error", err)
		d.metrics.NotificationsFailed.Inc()
		return false
	}

	slog.Info("notification sent", "to", to, "channel", channel)
	d.metrics.NotificationsSent.Inc()
	return true
}

// SendBulk filters out invalid recipients, then sends to every valid one
// concurrently and independently. It returns the number of successful
// sends. Invalid recipients do not count as attempts; if none are valid no
// provider call is made.
func (d *Dispatcher) SendBulk(ctx context.Context, recipients []string, message string, channel Channel) int {
	valid := make([]string, 0, len(recipients))
	for _, r := range recipients {
		if ValidateRecipient(r) {
			valid = append(valid, r)
		} else {
			slog.Warn("skipping invalid recipient", "to", r)
		}
	}
	if len(valid) == 0 {
		slog.Error("no valid recipients in bulk send", "given", len(recipients))
		return 0
	}

	var (
		wg      sync.WaitGroup
		success atomic.Int64
	)
	for _, r := range valid {
		wg.Add(1)
		go func(to string) {
			defer wg.Done()
			if d.Send(ctx, to, message, channel) {
				success.Add(1)
			}
		}(r)
	}
	wg.Wait()

	slog.Info("bulk send complete", "channel", channel,
		"attempted", len(valid), "succeeded", success.Load())
	return int(success.Load())
}

// ValidateSetup checks provider connectivity and credentials, used to fail
// fast before attempting a send.
func (d *Dispatcher) ValidateSetup(ctx context.Context) SetupStatus {
	if d.provider == nil {
		return SetupStatus{IsValid: false, Message: "notification provider not initialized"}
	}
	if err := d.provider.ValidateSetup(ctx); err != nil {
		return SetupStatus{
			IsValid: false,
			Message: fmt.Sprintf("provider setup validation failed: %v", err),
		}
	}
	return SetupStatus{IsValid: true, Message: "provider setup is valid"}
}

var safetyInstructions = map[models.DisasterType]string{
	models.DisasterTypeCyclone:    "- Stay indoors and away from windows\n- Keep emergency kit ready\n- Follow evacuation orders",
	models.DisasterTypeFlood:      "- Move to higher ground\n- Avoid walking through water\n- Listen to local authorities",
	models.DisasterTypeEarthquake: "- Drop, Cover, and Hold On\n- Stay away from windows\n- Be prepared for aftershocks",
	models.DisasterTypeStorm:      "- Seek sturdy shelter\n- Stay away from trees and power lines\n- Keep emergency supplies handy",
	models.DisasterTypeHeatwave:   "- Stay hydrated and out of direct sun\n- Check on vulnerable neighbours\n- Avoid outdoor exertion at midday",
}

// SafetyInstructions returns the fixed instruction block for a disaster
// type, with a generic fallback for unknown types.
func SafetyInstructions(t models.DisasterType) string {
	if s, ok := safetyInstructions[t]; ok {
		return s
	}
	return "Follow local authority instructions and stay safe."
}

// RenderMessage builds the deterministic alert text for a disaster.
func RenderMessage(d *models.Disaster) string {
	return fmt.Sprintf(`URGENT: %s ALERT
Location: %s
Severity: Level %d
%s

Safety Instructions:
%s

Stay tuned for updates and follow official instructions.`,
		strings.ToUpper(string(d.Type)),
		strings.Join(d.AffectedAreas, ", "),
		d.Severity,
		d.Description,
		SafetyInstructions(d.Type))
}
