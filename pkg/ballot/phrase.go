package ballot

import (
	"strconv"

	"github.com/matzehuels/ballotgrid/pkg/errors"
)

// MaxSeats is the largest seat count with a "vote for" phrasing.
const MaxSeats = 10

// VoteForPhrase returns the instruction printed under a candidate contest
// title. Seat counts outside 1..MaxSeats are UNSUPPORTED.
func VoteForPhrase(seats int) (string, error) {
	switch {
	case seats == 1:
		return "Vote for 1", nil
	case seats >= 2 && seats <= MaxSeats:
		return "Vote for up to " + strconv.Itoa(seats), nil
	}
	return "", errors.New(errors.ErrCodeUnsupported, "no vote-for phrasing for %d seats", seats)
}
