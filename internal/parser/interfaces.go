package parser

import "io"

// Parser turns a provider HTML page into typed results. Implementations must not
// close body; a page without results yields an empty slice and no error.
type Parser[T any] interface {
	ParseHtml(body io.Reader) ([]T, error)
}
