package handlers

import (
	"formrelay/internal/pages"
	"formrelay/internal/store"
	"formrelay/internal/validation"
)

type SubmitResponse struct {
	SubmissionID string              `json:"submission_id"`
	Display      pages.Display       `json:"display"`
	Result       validation.Response `json:"result,omitempty"`
}

type ListSubmissionsResponse struct {
	Page    int                `json:"page"`
	Limit   int                `json:"limit"`
	Results []store.Submission `json:"results"`
}

type AliveResponse struct {
	Alive bool `json:"alive"`
}

type ABNLookupRequest struct {
	Abn string `json:"Abn"`
}

type ABNLookupResponse struct {
	AbnStatus string `json:"AbnStatus"`
	Message   string `json:"Message,omitempty"`
}
