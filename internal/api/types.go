package api

// dateTimeFormat is used for RFC3339 timestamps in API payloads.
const dateTimeFormat = "2006-01-02T15:04:05.000Z07:00"

// IngestResult reports what a POST /webparser call did.
type IngestResult struct {
	Parser       string `json:"parser"`
	FilesAdded   int    `json:"filesAdded"`
	FilesSkipped int    `json:"filesSkipped"`
	RowsSkipped  int    `json:"rowsSkipped"`
	ArchivedTo   string `json:"archivedTo,omitempty"`
}

// ShowSummary describes a show in a transport-friendly format.
type ShowSummary struct {
	Key        string   `json:"key"`
	Title      string   `json:"title"`
	Seasons    []int    `json:"seasons"`
	Episodes   int      `json:"episodes"`
	Unindexed  int      `json:"unindexedFiles"`
	Subscribed bool     `json:"subscribed"`
	Watchlist  bool     `json:"watchlist"`
	CreatedAt  string   `json:"createdAt,omitempty"`
	Labels     []string `json:"labels,omitempty"`
}

// ShowListResponse wraps GET /shows.
type ShowListResponse struct {
	Shows []ShowSummary `json:"shows"`
}

// SubscriptionResponse reports the outcome of POST /subscriptions.
type SubscriptionResponse struct {
	Applied       []string `json:"applied"`
	Pending       []string `json:"pending"`
	Subscriptions []string `json:"subscriptions"`
}

// HealthResponse is the GET /healthz payload.
type HealthResponse struct {
	Status  string `json:"status"`
	Backend string `json:"backend"`
}

// ErrorResponse carries a failure message.
type ErrorResponse struct {
	Error string `json:"error"`
}
