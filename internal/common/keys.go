package common

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ternarybob/scribo/internal/interfaces"
)

// ResolveAPIKey resolves an API key with KV-first resolution order:
// KV store value, then the config fallback. Returns an error when neither
// source yields a non-empty key.
func ResolveAPIKey(ctx context.Context, kv interfaces.KeyValueStorage, key, fallback string) (string, error) {
	if kv != nil {
		value, err := kv.Get(ctx, key)
		if err == nil && strings.TrimSpace(value) != "" {
			return strings.TrimSpace(value), nil
		}
		if err != nil && !errors.Is(err, interfaces.ErrKeyNotFound) {
			return "", fmt.Errorf("failed to read key %q from KV store: %w", key, err)
		}
	}

	if strings.TrimSpace(fallback) != "" {
		return strings.TrimSpace(fallback), nil
	}

	return "", fmt.Errorf("no value found for key %q", key)
}
