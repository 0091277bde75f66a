package scraper

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsBlocked(t *testing.T) {
	tests := []struct {
		name string
		html string
		want bool
	}{
		{"content", `<html><head><title>Joker | SuperHeroDB</title></head></html>`, false},
		{"robot title", `<html><head><title>Robot Check</title></head></html>`, true},
		{"cloudflare", `<html><head><title>Just a moment...</title></head></html>`, true},
		{"captcha form", `<html><body><form action="/errors/validateCaptcha"></form></body></html>`, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := goquery.NewDocumentFromReader(strings.NewReader(tt.html))
			require.NoError(t, err)
			assert.Equal(t, tt.want, IsBlocked(doc))
		})
	}
}

func TestPause(t *testing.T) {
	require.NoError(t, Pause(context.Background(), 0))
	require.NoError(t, Pause(context.Background(), time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, Pause(ctx, time.Hour), context.Canceled)
	assert.ErrorIs(t, Pause(ctx, 0), context.Canceled)
}
