package model

import "time"

// VideoIdentifier is the 11-character token naming a video. It is only
// syntactically valid; nothing checks that the video exists.
type VideoIdentifier string

// FormatDescriptor is one entry of the static quality catalog
type FormatDescriptor struct {
	FormatID   string `json:"formatId"`
	Quality    string `json:"quality"`
	Resolution string `json:"resolution"`
	FPS        int    `json:"fps"`
	URL        string `json:"url"`
}

// VideoMetadata describes one looked-up video. Title, author and duration
// are synthetic placeholders.
type VideoMetadata struct {
	ID             VideoIdentifier    `json:"id"`
	Title          string             `json:"title"`
	Thumbnail      string             `json:"thumbnail"`
	Duration       string             `json:"duration"`
	Author         string             `json:"author"`
	Formats        []FormatDescriptor `json:"formats"`
	HighestQuality string             `json:"highestQuality,omitempty"`
}

// RequestState is the lookup flow state seen by a front end
type RequestState string

const (
	StateInitial RequestState = "initial"
	StateLoading RequestState = "loading"
	StateSuccess RequestState = "success"
	StateError   RequestState = "error"
)

// NoticeLevel classifies a user-facing notice
type NoticeLevel string

const (
	NoticeInfo    NoticeLevel = "info"
	NoticeSuccess NoticeLevel = "success"
	NoticeError   NoticeLevel = "error"
)

// Notice is a user-facing notification
type Notice struct {
	Level   NoticeLevel `json:"level"`
	Message string      `json:"message"`
}

// DownloadRequest represents a user's download request
type DownloadRequest struct {
	VideoID  string `json:"video_id" binding:"required"`
	FormatID string `json:"format_id" binding:"required"`
}

// DownloadResponse represents the response to a download request
type DownloadResponse struct {
	ID           string   `json:"id"`
	Filename     string   `json:"filename"`
	DownloadLink string   `json:"download_link"`
	ExpiresAt    int64    `json:"expires_at"`
	Notices      []Notice `json:"notices,omitempty"`
}

// ValidateResponse is returned by the URL validation endpoint
type ValidateResponse struct {
	Valid   bool   `json:"valid"`
	VideoID string `json:"video_id,omitempty"`
}

// DownloadedFile tracks a generated placeholder file
type DownloadedFile struct {
	ID        string
	VideoID   VideoIdentifier
	FormatID  string
	Quality   string
	Filename  string
	FilePath  string
	Size      int64
	CreatedAt time.Time
	ExpiresAt time.Time
}

// ErrorResponse represents an API error
type ErrorResponse struct {
	Error   string   `json:"error"`
	Message string   `json:"message"`
	Code    int      `json:"code"`
	Notices []Notice `json:"notices,omitempty"`
}
