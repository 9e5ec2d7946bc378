package ids

import "github.com/gofrs/uuid/v5"

// New returns a random v4 uuid string.
func New() string {
	return uuid.Must(uuid.NewV4()).String()
}
