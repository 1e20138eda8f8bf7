package postservice

import (
	"github.com/waratahblog/waratah/internal/common"
)

func validateTitle(v *common.Validator, title string) {
	v.Check(title != "", "title", "must be provided")
	v.Check(v.CheckStringLength(title, 1, 200), "title", "must not be more than 200 characters long")
}

func validateStatus(v *common.Validator, status string) {
	v.Check(status != "", "status", "must be provided")
	v.Check(v.In(status, StatusDraft, StatusPublished), "status", "must be either draft or published")
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
