package domain

// Preferences are the feed filters a user picked in their profile.
// An empty set means "no filter" for that dimension.
type Preferences struct {
	UserID      int64
	Cities      []string
	CategoryIDs []int64
}
