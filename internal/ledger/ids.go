package ledger

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/julianstephens/vitalflow/internal/constants"
	"github.com/julianstephens/vitalflow/internal/models"
)

// IDGenerator produces candidate entry ids. The ledger re-draws on collision,
// so a generator only has to make collisions rare.
type IDGenerator interface {
	NextID() string
}

// SequenceGenerator hands out log-1, log-2, ...
type SequenceGenerator struct {
	next int
}

// NewSequenceGenerator starts the counter after the highest sequence id found
// in the given entries.
func NewSequenceGenerator(existing []models.HabitLogEntry) *SequenceGenerator {
	highest := 0
	for _, e := range existing {
		if n, ok := parseSequenceID(e.ID); ok && n > highest {
			highest = n
		}
	}
	return &SequenceGenerator{next: highest + 1}
}

func (g *SequenceGenerator) NextID() string {
	id := fmt.Sprintf("%s%d", constants.SequenceIDPrefix, g.next)
	g.next++
	return id
}

func parseSequenceID(id string) (int, bool) {
	rest, ok := strings.CutPrefix(id, constants.SequenceIDPrefix)
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(rest)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

// UUIDGenerator hands out random v4 UUIDs.
type UUIDGenerator struct{}

func (UUIDGenerator) NextID() string {
	return uuid.NewString()
}

// NewGenerator returns the generator for a configured id scheme.
func NewGenerator(scheme string, existing []models.HabitLogEntry) (IDGenerator, error) {
	switch scheme {
	case "", constants.IDSchemeSequence:
		return NewSequenceGenerator(existing), nil
	case constants.IDSchemeUUID:
		return UUIDGenerator{}, nil
	default:
		return nil, fmt.Errorf("unknown id scheme %q (expected %q or %q)", scheme, constants.IDSchemeSequence, constants.IDSchemeUUID)
	}
}
