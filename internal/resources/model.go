package resources

import "time"

// Resource is a learning resource in an owner's catalog.
type Resource struct {
	ID          string
	OwnerID     string
	Title       string
	Type        string
	URL         string
	Description string
	Tags        []string
	CreatedAt   time.Time
}

// Resource types accepted by the catalog.
var Types = []string{"course", "book", "article", "video", "platform"}
