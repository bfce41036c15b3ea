package domain

import "time"

const (
	MaxTitleLength   = 100
	MaxContentLength = 2000
	MaxAddressLength = 200
)

// Post is a user-submitted event announcement.
// EventAt is a civil timestamp in the application calendar; it is never
// converted to another zone.
type Post struct {
	ID          int64
	AuthorID    int64
	Title       string
	Content     string
	CategoryIDs []int64
	Categories  []Category
	Cities      []string
	EventAt     time.Time
	Address     string
	URL         string
	ImageID     string
	Approved    bool
	CreatedAt   time.Time
}

// NewPost holds the fields collected by the creation wizard.
type NewPost struct {
	AuthorID    int64
	Title       string
	Content     string
	CategoryIDs []int64
	Cities      []string
	EventAt     time.Time
	Address     string
	URL         string
	ImageID     string
}

// Complete reports whether every required field is present.
func (p NewPost) Complete() bool {
	return p.Title != "" && p.Content != "" && len(p.CategoryIDs) > 0 && len(p.Cities) > 0
}

// ExpiredInfo is what the reaper needs to clean up after a post.
type ExpiredInfo struct {
	ID      int64
	ImageID string
}

// CategoryNames returns the loaded category names in order.
func (p *Post) CategoryNames() []string {
	names := make([]string, 0, len(p.Categories))
	for _, c := range p.Categories {
		names = append(names, c.Name)
	}
	return names
}
