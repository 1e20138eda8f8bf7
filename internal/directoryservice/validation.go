package directoryservice

import (
	"github.com/waratahblog/waratah/internal/common"
)

func validateName(v *common.Validator, name string) {
	v.Check(name != "", "name", "must be provided")
	v.Check(v.CheckStringLength(name, 1, 255), "name", "must not be more than 255 characters long")
}

func validateSlug(v *common.Validator, slug string) {
	if slug == "" {
		return
	}
	v.Check(common.Slugify(slug) == slug, "slug", "must contain only lowercase letters, numbers and hyphens")
}

func validatePriceRange(v *common.Validator, priceRange string) {
	v.Check(v.In(priceRange, "", "$", "$$", "$$$", "$$$$"), "price_range", "must be between $ and $$$$")
}

func validateRating(v *common.Validator, rating int) {
	v.Check(rating >= 1 && rating <= 5, "rating", "must be between 1 and 5")
}

func validateInt(v *common.Validator, num int, name string) {
	v.Check(num > 0, name, "must be greater than zero")
}
