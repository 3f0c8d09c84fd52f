package dto

type PublishResponse struct {
	Strategy    string   `json:"strategy"`
	Message     string   `json:"message"`
	PostID      string   `json:"post_id,omitempty"`
	MediaIDs    []string `json:"media_ids,omitempty"`
	ArtifactURL string   `json:"artifact_url,omitempty"`
	IntentURL   string   `json:"intent_url,omitempty"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}
