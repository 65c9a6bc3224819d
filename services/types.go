package services

import (
	"context"

	"github.com/google/uuid"
)

// BlobStore is the blob-side contract the services need. Satisfied by
// *storage.BlobStore and by test fakes.
type BlobStore interface {
	Upload(ctx context.Context, filename, contentType string, data []byte) (string, error)
	Delete(ctx context.Context, locator string) error
}

// ChangeNotifier is told after any successful product mutation so caches and
// snapshot subscribers can refresh. Implementations must not block.
type ChangeNotifier interface {
	ProductsChanged()
}

type noopNotifier struct{}

func (noopNotifier) ProductsChanged() {}

type fanoutNotifier []ChangeNotifier

func (f fanoutNotifier) ProductsChanged() {
	for _, n := range f {
		n.ProductsChanged()
	}
}

// NotifyAll combines change notifiers; nil entries are skipped.
func NotifyAll(notifiers ...ChangeNotifier) ChangeNotifier {
	var out fanoutNotifier
	for _, n := range notifiers {
		if n != nil {
			out = append(out, n)
		}
	}
	return out
}

// EventPublisher publishes domain events to the notification topic.
// Satisfied by *notify.Publisher.
type EventPublisher interface {
	Publish(ctx context.Context, eventType string, payload map[string]interface{}) error
}

// ProductSaveRequest carries the fields for a product create or update.
// A nil ID means create. IsActive, when set on update, overrides the stored
// flag; otherwise the stored value is preserved.
type ProductSaveRequest struct {
	ID          *uuid.UUID
	Title       string
	Description string
	PriceCents  int64
	Inventory   int
	IsActive    *bool

	// Optional raw image input. When present the image is prepared and
	// uploaded before the record write, and the resulting locator replaces
	// the record's images.
	ImageData []byte
	ImageName string
	ImageType string
}
