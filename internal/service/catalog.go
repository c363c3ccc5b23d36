package service

import (
	"fmt"

	"tubegrab/internal/model"
)

// placeholderSource stands in for a real stream URL
const placeholderSource = "#"

// catalog is ordered highest quality first and never modified
var catalog = []model.FormatDescriptor{
	{FormatID: "571", Quality: "4K", Resolution: "3840x2160", FPS: 60, URL: placeholderSource},
	{FormatID: "313", Quality: "2K", Resolution: "2560x1440", FPS: 60, URL: placeholderSource},
	{FormatID: "137", Quality: "1080p", Resolution: "1920x1080", FPS: 30, URL: placeholderSource},
	{FormatID: "136", Quality: "720p", Resolution: "1280x720", FPS: 30, URL: placeholderSource},
	{FormatID: "135", Quality: "480p", Resolution: "854x480", FPS: 30, URL: placeholderSource},
	{FormatID: "134", Quality: "360p", Resolution: "640x360", FPS: 30, URL: placeholderSource},
}

var qualityRank = map[string]int{
	"4K":    6,
	"2K":    5,
	"1080p": 4,
	"720p":  3,
	"480p":  2,
	"360p":  1,
}

// Formats returns a copy of the format catalog
func Formats() []model.FormatDescriptor {
	out := make([]model.FormatDescriptor, len(catalog))
	copy(out, catalog)
	return out
}

// FindFormat looks up a catalog entry by format ID
func FindFormat(formatID string) (model.FormatDescriptor, bool) {
	for _, f := range catalog {
		if f.FormatID == formatID {
			return f, true
		}
	}
	return model.FormatDescriptor{}, false
}

// HighestQuality labels the best format by quality ranking, e.g.
// "4K (3840x2160)". Unranked labels lose to ranked ones; ties keep the
// earlier entry. Empty input yields "".
func HighestQuality(formats []model.FormatDescriptor) string {
	if len(formats) == 0 {
		return ""
	}
	best := formats[0]
	for _, f := range formats[1:] {
		if qualityRank[f.Quality] > qualityRank[best.Quality] {
			best = f
		}
	}
	return fmt.Sprintf("%s (%s)", best.Quality, best.Resolution)
}
