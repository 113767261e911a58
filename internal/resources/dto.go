package resources

import "time"

// ResourceResponse is the outward-facing representation of a resource.
type ResourceResponse struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Type        string    `json:"type,omitempty"`
	URL         string    `json:"url,omitempty"`
	Description string    `json:"description,omitempty"`
	Tags        []string  `json:"tags"`
	CreatedAt   time.Time `json:"createdAt"`
}

func toResponse(res Resource) ResourceResponse {
	tags := res.Tags
	if tags == nil {
		tags = []string{}
	}
	return ResourceResponse{
		ID:          res.ID,
		Title:       res.Title,
		Type:        res.Type,
		URL:         res.URL,
		Description: res.Description,
		Tags:        tags,
		CreatedAt:   res.CreatedAt,
	}
}
