package domain

// Comment is a user comment attached to a product.
//
// Text is profanity-filtered and HTML-stripped before it reaches the
// repository; the raw submission never appears in storage. The
// productId reference is not enforced against the catalog.
type Comment struct {
	// ID is the unique identifier of the comment.
	ID string `json:"id"`

	// ProductID references the product the comment belongs to.
	ProductID string `json:"productId"`

	// Username is the author of the comment.
	Username string `json:"username"`

	// Text is the sanitized comment body.
	Text string `json:"text"`

	// Timestamp is the submission time in Unix milliseconds.
	Timestamp int64 `json:"timestamp"`

	// Likes is the like count, kept equal to len(LikedBy).
	Likes int `json:"likes"`

	// LikedBy is the set of usernames that liked the comment.
	LikedBy []string `json:"likedBy"`
}

// LikedByUser reports whether the given username already liked the comment.
func (c *Comment) LikedByUser(username string) bool {
	for _, u := range c.LikedBy {
		if u == username {
			return true
		}
	}
	return false
}
