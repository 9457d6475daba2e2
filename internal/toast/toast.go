// Package toast turns server flash messages into workspace toasts.
package toast

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/leapstack-labs/sqllab/pkg/core"
)

// DefaultDuration is how long a toast stays visible, in milliseconds.
const DefaultDuration = 8000

// Converter builds toasts from flash messages.
type Converter struct {
	newID func() string
}

// New creates a Converter that identifies toasts with random UUIDs.
func New() *Converter {
	return &Converter{newID: uuid.NewString}
}

// NewWithIDs creates a Converter with a custom id source.
func NewWithIDs(newID func() string) *Converter {
	return &Converter{newID: newID}
}

var defaultConverter = New()

// FromFlashMessages converts messages using random toast ids.
func FromFlashMessages(msgs []core.FlashMessage) []core.Toast {
	return defaultConverter.FromFlashMessages(msgs)
}

// FromFlashMessages converts each flash message into a toast, keeping order.
func (c *Converter) FromFlashMessages(msgs []core.FlashMessage) []core.Toast {
	toasts := make([]core.Toast, 0, len(msgs))
	for _, m := range msgs {
		typ := TypeForCategory(m.Category)
		toasts = append(toasts, core.Toast{
			ID:        fmt.Sprintf("%s-%s", typ, c.newID()),
			ToastType: typ,
			Text:      m.Message,
			Duration:  DefaultDuration,
		})
	}
	return toasts
}

// TypeForCategory maps a flash category to a toast type.
func TypeForCategory(category string) core.ToastType {
	switch category {
	case "danger", "error":
		return core.ToastDanger
	case "success":
		return core.ToastSuccess
	case "warning":
		return core.ToastWarning
	default:
		return core.ToastInfo
	}
}
