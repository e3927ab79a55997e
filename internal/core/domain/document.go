package domain

import "io"

// Document is an uploaded file handed to the document store.
type Document struct {
	Filename    string
	ContentType string
	Size        int64
	Content     io.Reader
}

// DocumentRef identifies a stored document. Its string form is what ends up
// in users.cv_path.
type DocumentRef string
