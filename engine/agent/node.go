package agent

import (
	"math"

	engine "github.com/jason-s-yu/jass/engine"
)

// noChild marks a candidate card whose child has not been expanded yet.
const noChild int32 = -1

// node is one position of the search tree. Nodes live in the tree's arena
// and refer to their children by index.
type node struct {
	state engine.TurnState
	hand  engine.CardSet // searcher's cards still in hand at this position

	legal    engine.CardSet // candidates for the player to move, in card order
	untried  engine.CardSet // candidates without a child yet
	children []int32        // arena index per candidate slot, noChild when unexpanded

	// team is the team of the player whose card led to this node. The root
	// belongs to the searcher's team.
	team      engine.TeamID
	reward    int // team's turn points at the end of this node's rollout
	secondary int // other team's turn points at the end of the same rollout

	selfVisits int // 1, plus one per revisit of a terminal leaf
	visits     int
	total      int
}

func (n *node) terminal() bool { return n.legal.IsEmpty() }

func (n *node) expanded() bool { return n.untried.IsEmpty() }

// value is the UCB1 score of a child with the given statistics under a
// parent with parentVisits visits. With c == 0 it is the plain average.
func value(total, visits, parentVisits int, c float64) float64 {
	v := float64(total) / float64(visits)
	if c == 0 {
		return v
	}
	return v + c*math.Sqrt(2*math.Log(float64(parentVisits))/float64(visits))
}
