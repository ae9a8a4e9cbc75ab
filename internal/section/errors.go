package section

import "fmt"

// HeadingNotFoundError reports a selected heading whose label no longer
// occurs in the document text.
type HeadingNotFoundError struct {
	Heading string
}

func (e *HeadingNotFoundError) Error() string {
	return fmt.Sprintf("heading %q not found in the document text", e.Heading)
}

// EmptySectionError reports a heading with nothing but whitespace before the
// next heading or the end of the document.
type EmptySectionError struct {
	Heading string
}

func (e *EmptySectionError) Error() string {
	return fmt.Sprintf("no content found under the heading %q", e.Heading)
}
