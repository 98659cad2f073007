package domain

import "errors"

var (
	ErrArticleNotFound = errors.New("article not found")
)
