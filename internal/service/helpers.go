package service

import (
	"context"
	"errors"
	"io"
	"os"

	"github.com/Skotchmaster/electronics_store/internal/events"
	"github.com/Skotchmaster/electronics_store/internal/storage"
	"github.com/Skotchmaster/electronics_store/pkg/logging"
)

// publish sends ev and only logs a failure; the write it describes is already committed.
func publish(ctx context.Context, p events.Publisher, topic string, ev events.Event) {
	if p == nil {
		return
	}
	if err := p.Publish(ctx, topic, ev.EntityID, ev); err != nil {
		logging.FromContext(ctx).Warn("publish_event_failed", "topic", topic, "type", ev.Type, "error", err)
	}
}

// removeImage deletes a stored image, logging instead of failing.
func removeImage(ctx context.Context, store *storage.ImageStore, kind storage.Kind, name string) {
	if store == nil || name == "" {
		return
	}
	if err := store.Remove(kind, name); err != nil {
		logging.FromContext(ctx).Warn("image_cleanup_failed", "kind", kind, "image", name, "error", err)
	}
}

func saveImage(store *storage.ImageStore, kind storage.Kind, filename string, r io.Reader) (string, error) {
	if store == nil {
		return "", errors.New("image storage is not configured")
	}
	name, err := store.Save(kind, filename, r)
	if errors.Is(err, storage.ErrUnsupportedExtension) {
		return "", badRequest("%s", err.Error())
	}
	return name, err
}

func openImage(store *storage.ImageStore, kind storage.Kind, name string) (*os.File, string, error) {
	if store == nil || name == "" {
		return nil, "", notFound("image not found")
	}
	f, ctype, err := store.Open(kind, name)
	if errors.Is(err, storage.ErrImageNotFound) {
		return nil, "", notFound("image not found")
	}
	return f, ctype, err
}
