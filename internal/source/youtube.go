package source

import (
	"strings"

	"github.com/kkdai/youtube/v2"
)

// YouTubeVideoID extracts the video id from a YouTube URL for display.
// It returns "" when the URL cannot be parsed; callers must not treat that
// as a reason to refuse the request.
func YouTubeVideoID(url string) string {
	url = strings.TrimSpace(url)
	if url == "" {
		return ""
	}
	id, err := youtube.ExtractVideoID(url)
	if err != nil {
		return ""
	}
	return id
}
