package ids

import (
	"fmt"
	mathrand "math/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// Public identifier prefixes, one two-letter prefix per entity type.
const (
	LearnerPrefix = "LN"
	StaffPrefix   = "SF"
	ProgramPrefix = "PR"
)

// suffixRange bounds the random numeric suffix. Wide enough that the
// collision-retry loop at creation almost never has to resample.
const suffixRange = 999999

var (
	mu      sync.Mutex
	rng     = mathrand.New(mathrand.NewSource(time.Now().UnixNano()))
	entropy = ulid.Monotonic(mathrand.New(mathrand.NewSource(time.Now().UnixNano())), 0)
)

// NewPublicID draws a candidate public identifier: prefix plus a random
// numeric suffix. Uniqueness is enforced by the caller at insertion time;
// on a duplicate the caller resamples.
func NewPublicID(prefix string) string {
	mu.Lock()
	defer mu.Unlock()
	return fmt.Sprintf("%s%d", prefix, rng.Intn(suffixRange)+1)
}

// NewRequestID returns a lexicographically sortable identifier used to
// correlate log lines for one request.
func NewRequestID() string {
	mu.Lock()
	defer mu.Unlock()
	return ulid.MustNew(ulid.Timestamp(time.Now()), entropy).String()
}
