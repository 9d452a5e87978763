package beacon

import (
	"fmt"
	"regexp"

	"github.com/Postmodum37/beacon-dl/internal/services"
)

const maxSlugLength = 200

var slugPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// ValidateSlug rejects anything that cannot be safely interpolated into a
// GraphQL query literal. Only alphanumerics, hyphens, and underscores are
// allowed.
func ValidateSlug(slug, fieldName string) error {
	if slug == "" {
		return services.Wrap(services.ErrValidation, "beacon", "validate", fmt.Sprintf("%s cannot be empty", fieldName), nil)
	}
	if len(slug) > maxSlugLength {
		return services.Wrap(services.ErrValidation, "beacon", "validate", fmt.Sprintf("%s too long (max %d characters)", fieldName, maxSlugLength), nil)
	}
	if !slugPattern.MatchString(slug) {
		return services.Wrap(services.ErrValidation, "beacon", "validate", fmt.Sprintf("invalid %s %q: only alphanumerics, hyphens, and underscores are allowed", fieldName, slug), nil)
	}
	return nil
}
