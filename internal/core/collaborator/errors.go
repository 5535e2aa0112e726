package collaborator

import "errors"

var (
	ErrInvalidID                = errors.New("collaborator: invalid id")
	ErrInvalidCIN               = errors.New("collaborator: invalid cin")
	ErrInvalidLastName          = errors.New("collaborator: invalid last name")
	ErrInvalidFirstName         = errors.New("collaborator: invalid first name")
	ErrInvalidBirthDate         = errors.New("collaborator: invalid birth date")
	ErrInvalidBirthPlace        = errors.New("collaborator: invalid birth place")
	ErrInvalidAddress           = errors.New("collaborator: invalid address")
	ErrInvalidStatus            = errors.New("collaborator: invalid status")
	ErrInvalidPageSize          = errors.New("collaborator: invalid page size")
	ErrInvalidPageToken         = errors.New("collaborator: invalid page token")
	ErrInvalidDateRange         = errors.New("collaborator: hire date precedes birth date")
	ErrCollaboratorNotFound     = errors.New("collaborator: not found")
	ErrCINAlreadyExists         = errors.New("collaborator: cin already exists")
	ErrCollaboratorHasCheckIns  = errors.New("collaborator: has recorded check-ins")
	ErrCollaboratorHasDocuments = errors.New("collaborator: has supporting documents")
)
