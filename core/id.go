package core

import (
	"strings"

	"github.com/google/uuid"
)

func newID(prefix string) string {
	id := strings.ReplaceAll(uuid.NewString(), "-", "")
	if len(id) > 12 {
		id = id[:12]
	}
	return prefix + "-" + id
}
