package taxonomyservice

import "github.com/waratahblog/waratah/internal/common"

func validateName(v *common.Validator, name string) {
	v.Check(name != "", "name", "must be provided")
	v.Check(v.CheckStringLength(name, 1, 100), "name", "must not be more than 100 characters long")
}

func validateSlug(v *common.Validator, slug string) {
	if slug == "" {
		return
	}
	v.Check(common.Slugify(slug) == slug, "slug", "must contain only lowercase letters, numbers and hyphens")
}

func validateInt(v *common.Validator, num int, name string) {
	v.Check(num > 0, name, "must be greater than zero")
}
