package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tubegrab/internal/model"
)

func TestCatalogOrderAndLookup(t *testing.T) {
	formats := Formats()
	require.NotEmpty(t, formats)

	for i := 1; i < len(formats); i++ {
		assert.Greater(t, qualityRank[formats[i-1].Quality], qualityRank[formats[i].Quality],
			"%s should rank above %s", formats[i-1].Quality, formats[i].Quality)
	}

	seen := map[string]bool{}
	for _, f := range formats {
		assert.False(t, seen[f.FormatID], "duplicate format id %s", f.FormatID)
		seen[f.FormatID] = true
		assert.Positive(t, f.FPS)
	}

	f, ok := FindFormat("137")
	require.True(t, ok)
	assert.Equal(t, "1080p", f.Quality)

	_, ok = FindFormat("nonexistent-format")
	assert.False(t, ok)
}

func TestFormatsReturnsCopy(t *testing.T) {
	formats := Formats()
	formats[0].Quality = "tampered"

	assert.Equal(t, "4K", Formats()[0].Quality)
}

func TestHighestQuality(t *testing.T) {
	assert.Equal(t, "4K (3840x2160)", HighestQuality(Formats()))
	assert.Equal(t, "", HighestQuality(nil))

	unordered := []model.FormatDescriptor{
		{Quality: "480p", Resolution: "854x480"},
		{Quality: "1080p", Resolution: "1920x1080"},
		{Quality: "odd", Resolution: "1x1"},
	}
	assert.Equal(t, "1080p (1920x1080)", HighestQuality(unordered))
}

func TestFetchMetadata(t *testing.T) {
	svc := NewVideoService(0)

	info, err := svc.FetchMetadata(context.Background(), "https://www.youtube.com/watch?v=dQw4w9WgXcQ")
	require.NoError(t, err)

	assert.Equal(t, model.VideoIdentifier("dQw4w9WgXcQ"), info.ID)
	assert.Equal(t, "https://i.ytimg.com/vi/dQw4w9WgXcQ/maxresdefault.jpg", info.Thumbnail)
	assert.Equal(t, mockTitle, info.Title)
	assert.Equal(t, mockAuthor, info.Author)
	assert.Equal(t, mockDuration, info.Duration)
	assert.Equal(t, Formats(), info.Formats)
	assert.Equal(t, "4K", info.Formats[0].Quality)
	assert.Equal(t, "4K (3840x2160)", info.HighestQuality)
}

func TestFetchMetadataIsDeterministic(t *testing.T) {
	svc := NewVideoService(0)
	ctx := context.Background()

	a, err := svc.FetchMetadata(ctx, "https://youtu.be/dQw4w9WgXcQ")
	require.NoError(t, err)
	b, err := svc.FetchMetadata(ctx, "https://youtu.be/dQw4w9WgXcQ")
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.NotSame(t, a, b)
}

func TestFetchMetadataRejectsInvalidURL(t *testing.T) {
	svc := NewVideoService(time.Hour)

	for _, u := range []string{"", "not a url", "youtube.com", "https://youtube.com/watch?v=short"} {
		start := time.Now()
		_, err := svc.FetchMetadata(context.Background(), u)
		assert.ErrorIs(t, err, ErrInvalidURL, u)
		assert.Less(t, time.Since(start), time.Second, "rejection must not wait")
	}
}

func TestFetchMetadataWaitsLatency(t *testing.T) {
	svc := NewVideoService(30 * time.Millisecond)

	start := time.Now()
	_, err := svc.FetchMetadata(context.Background(), "https://youtu.be/dQw4w9WgXcQ")
	require.NoError(t, err)
	assert.GreaterOrEqual(t, time.Since(start), 30*time.Millisecond)
}

func TestFetchMetadataCancelled(t *testing.T) {
	svc := NewVideoService(time.Hour)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := svc.FetchMetadata(ctx, "https://youtu.be/dQw4w9WgXcQ")
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}
