package council

import "math/rand"

// DebateRole is the argumentative role assigned to one debate turn.
type DebateRole string

const (
	RolePro   DebateRole = "pro"
	RoleCon   DebateRole = "con"
	RoleJudge DebateRole = "judge"
)

// MaxDebateParticipants caps how many participants join one debate. When
// more are eligible the shuffled list is truncated before planning.
const MaxDebateParticipants = 5

// DebateTurn is one (participant, role) pair of a debate plan.
type DebateTurn struct {
	Key  string
	Role DebateRole
}

// roleTables maps participant count to the role sequence, by position in
// the shuffled order. The two-participant debate runs four turns so each
// side also judges.
var roleTables = map[int][]struct {
	pos  int
	role DebateRole
}{
	2: {{0, RolePro}, {1, RoleCon}, {0, RoleJudge}, {1, RoleJudge}},
	3: {{0, RolePro}, {1, RoleCon}, {2, RoleJudge}},
	4: {{0, RolePro}, {1, RoleCon}, {2, RoleJudge}, {3, RoleJudge}},
	5: {{0, RolePro}, {1, RolePro}, {2, RoleCon}, {3, RoleCon}, {4, RoleJudge}},
}

// PlanDebate builds the ordered turn plan for one debate request. The
// eligible keys are shuffled once with rng, truncated to
// MaxDebateParticipants when longer, and mapped to roles by count. The
// returned plan is immutable for the life of the request.
//
// Fewer than two eligible participants is a configuration error.
func PlanDebate(keys []string, rng *rand.Rand) ([]DebateTurn, error) {
	if len(keys) < 2 {
		return nil, ErrNotEnoughParticipants
	}

	shuffled := make([]string, len(keys))
	copy(shuffled, keys)
	rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	if len(shuffled) > MaxDebateParticipants {
		shuffled = shuffled[:MaxDebateParticipants]
	}

	table := roleTables[len(shuffled)]
	plan := make([]DebateTurn, len(table))
	for i, entry := range table {
		plan[i] = DebateTurn{Key: shuffled[entry.pos], Role: entry.role}
	}
	return plan, nil
}
