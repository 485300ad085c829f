package site

import "errors"

var (
	ErrSiteNotFound  = errors.New("site not found")
	ErrSiteNotActive = errors.New("site is not active")
)
