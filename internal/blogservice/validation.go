package blogservice

import (
	"regexp"

	"github.com/hanamachi/inkwell/internal/common"
)

var URLRX = regexp.MustCompile(`^https?://\S+$`)

func validateTitle(v *common.Validator, title string) {
	v.Check(title != "", "title", "must be provided")
	v.Check(v.CheckStringLength(title, 1, 200), "title", "must be between 1 and 200 characters long")
}

func validateContent(v *common.Validator, content string) {
	v.Check(content != "", "content", "must be provided")
}

func validateTags(v *common.Validator, tags []string) {
	for _, tag := range tags {
		if tag == "" || !v.CheckStringLength(tag, 1, 50) {
			v.AddError("tags", "each tag must be between 1 and 50 characters long")
			return
		}
	}
}

func validateFeaturedImage(v *common.Validator, url string) {
	if url == "" {
		return
	}
	v.Check(URLRX.MatchString(url), "featured_image", "must be a valid http or https URL")
}

func validateCommentContent(v *common.Validator, content string) {
	v.Check(content != "", "content", "must be provided")
	v.Check(v.CheckStringLength(content, 1, 1000), "content", "must be between 1 and 1000 characters long")
}

func validateInt(v *common.Validator, num int, name string) {
	v.Check(num > 0, name, "must be greater than zero")
}
