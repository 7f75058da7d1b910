package definition

import "errors"

var (
	ErrReadFile          = errors.New("definition: failed to read file")
	ErrInvalidDefinition = errors.New("definition: invalid definition")
	ErrEmptyDefinition   = errors.New("definition: empty definition")
	ErrInvalidEdge       = errors.New("definition: invalid edge")
	ErrUnknownGuard      = errors.New("definition: unknown guard")
)
