package domain

import "time"

// Strategy selects how generated variants leave the system. The choice is
// made once per process from configuration, never per request.
type Strategy string

const (
	StrategyDirectPost Strategy = "direct-post"
	StrategyShareLink  Strategy = "share-link"
)

// PublishRequest carries a complete variant set to the active dispatcher.
// PublicBaseURL is the caller's externally visible address; only the
// share-link strategy uses it.
type PublishRequest struct {
	Variants      []Variant
	PublicBaseURL string
	Message       string
}

// PublishResult is only ever constructed after every variant of a request
// was produced and handed off successfully.
type PublishResult struct {
	Strategy    Strategy
	PostID      string
	MediaIDs    []string
	ArtifactURL string
	IntentURL   string
	Message     string
}

// PublishEvent is the audit record emitted to the broker after a successful
// publish. Delivery is best-effort and never fails the request.
type PublishEvent struct {
	ID          string    `json:"id"`
	Strategy    Strategy  `json:"strategy"`
	PostID      string    `json:"post_id,omitempty"`
	ArtifactURL string    `json:"artifact_url,omitempty"`
	Presets     []string  `json:"presets"`
	CompletedAt time.Time `json:"completed_at"`
}

const KafkaTopicPublished = "images-published"

const DefaultPostMessage = "Check out this awesome image!"
