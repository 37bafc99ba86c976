package processor

import (
	"imageResizer/internal/models"
	"imageResizer/internal/variant"
)

// ChooseSourceURL picks the input for producing v. An already stored larger
// derivative is preferred over the original because it is smaller to download.
func ChooseSourceURL(policy *variant.Policy, img *models.Image, v variant.Name) string {
	if larger, ok := policy.Larger(v); ok {
		if u, ok := img.DerivativeURL(larger); ok {
			return u
		}
	}

	return img.ImageURL
}
