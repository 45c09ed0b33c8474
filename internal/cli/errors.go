package cli

import (
	"fmt"
	"strconv"
	"strings"

	"clump-cli/internal/api"
)

type notFoundError struct {
	kind string
	id   int
}

func (e notFoundError) Error() string {
	return fmt.Sprintf("%s not found: %d", e.kind, e.id)
}

func errNotFound(kind string, id int) error {
	return notFoundError{kind: kind, id: id}
}

type invalidIDError struct {
	kind string
	raw  string
}

func (e invalidIDError) Error() string {
	return fmt.Sprintf("invalid %s id: %q (want a positive number)", e.kind, e.raw)
}

// parseID reads a positive numeric id argument.
func parseID(kind, raw string) (int, error) {
	id, err := strconv.Atoi(strings.TrimPrefix(strings.TrimSpace(raw), "#"))
	if err != nil || id <= 0 {
		return 0, invalidIDError{kind: kind, raw: raw}
	}
	return id, nil
}

// notFoundOr maps a 404 from the server onto notFoundError and leaves any
// other error as it is.
func notFoundOr(err error, kind string, id int) error {
	if api.IsNotFound(err) {
		return errNotFound(kind, id)
	}
	return err
}
