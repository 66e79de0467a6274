package comments

import (
	"errors"
)

// ErrPostNotFound reports that the referenced post does not exist. The route
// layer maps it to a 404.
var ErrPostNotFound = errors.New("post not found")
