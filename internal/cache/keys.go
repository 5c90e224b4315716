package cache

import (
	"fmt"

	"github.com/google/uuid"
)

// RequirementsKey is the redis key for a grant's extracted requirements
func RequirementsKey(grantID uuid.UUID) string {
	return fmt.Sprintf("grant:requirements:%s", grantID)
}
