package document

import "errors"

var (
	ErrInvalidID        = errors.New("document: invalid id")
	ErrInvalidName      = errors.New("document: invalid name")
	ErrInvalidType      = errors.New("document: invalid type")
	ErrInvalidStatus    = errors.New("document: invalid status")
	ErrInvalidFileURL   = errors.New("document: invalid file url")
	ErrInvalidFilter    = errors.New("document: collaborator id and cin are mutually exclusive")
	ErrDocumentNotFound = errors.New("document: not found")
)
