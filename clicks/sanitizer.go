package clicks

import (
	"sync"

	"github.com/Harshan-Nayak/xlist/pkg/types"
	"github.com/goliatone/go-masker"
)

const (
	fieldIPAddress = "ip_address"
	fieldUserAgent = "user_agent"
)

var defaultMaskerOnce sync.Once

// DefaultMasker returns the shared masker with the click denylist registered.
func DefaultMasker() *masker.Masker {
	defaultMaskerOnce.Do(func() {
		if masker.Default == nil {
			return
		}
		registerDefaultMaskFields(masker.Default)
	})
	return masker.Default
}

// SanitizeEvent masks the caller IP before an event leaves the service. When
// no masker is available the IP is dropped.
func SanitizeEvent(mask *masker.Masker, event types.ClickEvent) types.ClickEvent {
	if event.IPAddress == "" {
		return event
	}
	if mask == nil {
		mask = DefaultMasker()
	}
	if mask == nil {
		event.IPAddress = ""
		return event
	}

	masked, err := mask.Mask(map[string]any{
		fieldIPAddress: event.IPAddress,
		fieldUserAgent: event.UserAgent,
	})
	if err != nil {
		event.IPAddress = ""
		return event
	}
	values, ok := masked.(map[string]any)
	if !ok {
		event.IPAddress = ""
		return event
	}
	ip, _ := values[fieldIPAddress].(string)
	if ip == event.IPAddress {
		ip = ""
	}
	event.IPAddress = ip
	return event
}

// SanitizeEvents masks every event in the slice.
func SanitizeEvents(mask *masker.Masker, events []types.ClickEvent) []types.ClickEvent {
	if len(events) == 0 {
		return events
	}
	out := make([]types.ClickEvent, 0, len(events))
	for _, event := range events {
		out = append(out, SanitizeEvent(mask, event))
	}
	return out
}

func registerDefaultMaskFields(mask *masker.Masker) {
	if mask == nil {
		return
	}
	mask.RegisterMaskField(fieldIPAddress, "filled4")
}
