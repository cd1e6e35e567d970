package content

import "errors"

var (
	ErrPageNotFound       = errors.New("content: page not found")
	ErrInvalidFrontmatter = errors.New("content: invalid frontmatter")
	ErrRenderFailed       = errors.New("content: render failed")
)
