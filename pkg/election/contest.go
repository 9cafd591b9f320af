package election

import (
	"encoding/json"
	"fmt"
	"slices"
)

// ContestType is the JSON discriminator of a contest.
type ContestType string

const (
	TypeCandidate ContestType = "candidate"
	TypeYesNo     ContestType = "yesno"
)

// Contest is a closed union of [*CandidateContest] and [*YesNoContest].
// Use [MatchContest] to handle both kinds; the unexported method keeps
// other packages from adding kinds.
type Contest interface {
	ContestID() string
	ContestTitle() string
	ContestDistrictID() string
	contest()
}

// Candidate is a person on the ballot. A cross-endorsed candidate appears
// more than once in a contest with the same ID and different PartyIDs.
type Candidate struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	FirstName string   `json:"firstName,omitempty"`
	LastName  string   `json:"lastName,omitempty"`
	PartyIDs  []string `json:"partyIds,omitempty"`
}

// Ref returns the candidate's identity as used in orderings.
func (c Candidate) Ref() CandidateRef {
	return CandidateRef{ID: c.ID, PartyIDs: slices.Clone(c.PartyIDs)}
}

// CandidateContest elects one or more candidates.
type CandidateContest struct {
	ID            string      `json:"id"`
	DistrictID    string      `json:"districtId"`
	Title         string      `json:"title"`
	Seats         int         `json:"seats"`
	AllowWriteIns bool        `json:"allowWriteIns"`
	PartyID       string      `json:"partyId,omitempty"`
	Candidates    []Candidate `json:"candidates"`
}

func (c *CandidateContest) ContestID() string         { return c.ID }
func (c *CandidateContest) ContestTitle() string      { return c.Title }
func (c *CandidateContest) ContestDistrictID() string { return c.DistrictID }
func (*CandidateContest) contest()                    {}

// Option is one choice of a yes/no contest.
type Option struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// YesNoContest is a ballot measure.
type YesNoContest struct {
	ID          string `json:"id"`
	DistrictID  string `json:"districtId"`
	Title       string `json:"title"`
	Description string `json:"description"`
	YesOption   Option `json:"yesOption"`
	NoOption    Option `json:"noOption"`
}

func (c *YesNoContest) ContestID() string         { return c.ID }
func (c *YesNoContest) ContestTitle() string      { return c.Title }
func (c *YesNoContest) ContestDistrictID() string { return c.DistrictID }
func (*YesNoContest) contest()                    {}

// Options returns the yes and no options in ballot order.
func (c *YesNoContest) Options() []Option {
	return []Option{c.YesOption, c.NoOption}
}

// MatchContest dispatches on the contest kind. Both handlers are required,
// so adding a kind breaks every call site at compile time.
func MatchContest[T any](c Contest, onCandidate func(*CandidateContest) T, onYesNo func(*YesNoContest) T) T {
	switch c := c.(type) {
	case *CandidateContest:
		return onCandidate(c)
	case *YesNoContest:
		return onYesNo(c)
	}
	panic(fmt.Sprintf("unreachable contest kind %T", c))
}

// Contests is a list of contests with a type-tagged JSON encoding.
type Contests []Contest

type contestEnvelope struct {
	Type ContestType `json:"type"`
}

// MarshalJSON encodes each contest with its "type" discriminator.
func (cs Contests) MarshalJSON() ([]byte, error) {
	out := make([]any, len(cs))
	for i, c := range cs {
		out[i] = MatchContest(c,
			func(c *CandidateContest) any {
				return struct {
					Type ContestType `json:"type"`
					*CandidateContest
				}{TypeCandidate, c}
			},
			func(c *YesNoContest) any {
				return struct {
					Type ContestType `json:"type"`
					*YesNoContest
				}{TypeYesNo, c}
			})
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes contests by their "type" discriminator.
func (cs *Contests) UnmarshalJSON(data []byte) error {
	var raws []json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		return err
	}
	out := make(Contests, 0, len(raws))
	for i, raw := range raws {
		var env contestEnvelope
		if err := json.Unmarshal(raw, &env); err != nil {
			return fmt.Errorf("contest %d: %w", i, err)
		}
		switch env.Type {
		case TypeCandidate:
			c := new(CandidateContest)
			if err := json.Unmarshal(raw, c); err != nil {
				return fmt.Errorf("contest %d: %w", i, err)
			}
			out = append(out, c)
		case TypeYesNo:
			c := new(YesNoContest)
			if err := json.Unmarshal(raw, c); err != nil {
				return fmt.Errorf("contest %d: %w", i, err)
			}
			out = append(out, c)
		default:
			return fmt.Errorf("contest %d: unknown type %q", i, env.Type)
		}
	}
	*cs = out
	return nil
}
