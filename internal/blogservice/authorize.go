package blogservice

import "errors"

// ErrNotOwner is returned when an authenticated user attempts to mutate a
// blog it does not own. Callers must check existence first so a missing blog
// is reported as not found rather than forbidden.
var ErrNotOwner = errors.New("not the owner of this blog")

// CanMutate is the ownership predicate for every mutating blog operation:
// only the author may update or delete a blog.
func CanMutate(userID int, blog *Blog) bool {
	return blog.UserID == userID
}
