package events

// Event types.
const (
	TypeBrowserState      = "browser:state"
	TypeCollectionUpdated = "collection:updated"
	TypeDeckUpdated       = "deck:updated"
	TypeFiltersUpdated    = "filters:updated"
	TypeAuthChanged       = "auth:changed"
	TypeImportCompleted   = "import:completed"
	TypeCardPoolLoaded    = "cardpool:loaded"
	TypeImportFileFound   = "import:file"
)

// BrowserStateEvent is sent on every pagination state change of a card
// browser.
type BrowserStateEvent struct {
	Context     string `json:"context"`
	Status      string `json:"status"`
	Mode        string `json:"mode"`
	Page        int    `json:"page"`
	TotalPages  int    `json:"totalPages"`
	TotalCount  int    `json:"totalCount"`
	HasMore     bool   `json:"hasMore"`
	Message     string `json:"message,omitempty"`
	RateLimited bool   `json:"rateLimited,omitempty"`
}

// CollectionUpdatedEvent is sent when a collection is created, changed or
// deleted.
type CollectionUpdatedEvent struct {
	CollectionID string `json:"collectionId"`
	Action       string `json:"action"` // "created", "updated", "deleted"
	UniqueCards  int    `json:"uniqueCards"`
	TotalCopies  int    `json:"totalCopies"`
}

// DeckUpdatedEvent is sent when a deck is created, changed or deleted.
type DeckUpdatedEvent struct {
	DeckID string `json:"deckId"`
	Action string `json:"action"`
	Cards  int    `json:"cards"`
}

// FiltersUpdatedEvent is sent when the saved filter list changes.
type FiltersUpdatedEvent struct {
	Count int `json:"count"`
}

// AuthChangedEvent is sent on login and logout.
type AuthChangedEvent struct {
	LoggedIn bool   `json:"loggedIn"`
	UserID   string `json:"userId,omitempty"`
	Name     string `json:"name,omitempty"`
}

// ImportCompletedEvent is sent when a CSV import finishes.
type ImportCompletedEvent struct {
	CollectionID string `json:"collectionId"`
	Source       string `json:"source"`
	Imported     int    `json:"imported"`
	Failed       int    `json:"failed"`
}

// CardPoolLoadedEvent is sent when the initial card load ends.
type CardPoolLoadedEvent struct {
	Cards     int  `json:"cards"`
	Cancelled bool `json:"cancelled"`
}

// ImportFileFoundEvent is sent when the watcher sees a new CSV file.
type ImportFileFoundEvent struct {
	Path string `json:"path"`
}
