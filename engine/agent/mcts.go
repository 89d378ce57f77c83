package agent

import (
	"fmt"
	"math/rand/v2"

	engine "github.com/jason-s-yu/jass/engine"
)

// Exploration is the UCB1 exploration constant. Turn points range up to
// 257, so the constant is on that scale rather than the textbook sqrt(2).
const Exploration = 40.0

// MinIterations is the smallest accepted iteration budget: one per trick.
const MinIterations = engine.TricksPerTurn

// Result reports a finished search.
type Result struct {
	Card       engine.Card
	Nodes      int // nodes materialized, 0 on the single-candidate fast path
	Iterations int
}

// ChooseCard runs a search from state for the player to move, who holds
// hand, and returns the chosen card.
func ChooseCard(state engine.TurnState, hand engine.CardSet, seed uint64, iterations int) (engine.Card, error) {
	r, err := Search(state, hand, seed, iterations)
	if err != nil {
		return engine.CardInvalid, err
	}
	return r.Card, nil
}

// Search runs iterations rounds of selection, expansion, rollout and
// backpropagation and picks the root child with the best average turn
// points. Identical arguments give identical results. The tree is dropped
// when Search returns.
func Search(state engine.TurnState, hand engine.CardSet, seed uint64, iterations int) (Result, error) {
	if iterations < MinIterations {
		return Result{Card: engine.CardInvalid}, fmt.Errorf("%w: %d iterations, need at least %d",
			engine.ErrInvalidConfiguration, iterations, MinIterations)
	}
	searcher, err := state.NextPlayer()
	if err != nil {
		return Result{Card: engine.CardInvalid}, err
	}
	legal := state.Trick().LegalPlays(hand)
	if legal.IsEmpty() {
		return Result{Card: engine.CardInvalid}, fmt.Errorf("%w: no playable card in %s", engine.ErrIllegalState, hand)
	}
	if legal.Size() == 1 {
		c, err := legal.Get(0)
		return Result{Card: c}, err
	}

	t := &tree{
		searcher: searcher,
		rng:      rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		nodes:    make([]node, 0, iterations+1),
	}
	if _, err := t.newNode(state, hand, searcher.Team()); err != nil {
		return Result{Card: engine.CardInvalid}, err
	}
	for i := 0; i < iterations; i++ {
		if err := t.iterate(); err != nil {
			return Result{Card: engine.CardInvalid}, fmt.Errorf("iteration %d: %w", i, err)
		}
	}

	slot := t.bestChild(0, 0)
	if slot < 0 {
		return Result{Card: engine.CardInvalid}, fmt.Errorf("%w: root has no children", engine.ErrIllegalState)
	}
	c, err := legal.Get(slot)
	if err != nil {
		return Result{Card: engine.CardInvalid}, err
	}
	return Result{Card: c, Nodes: len(t.nodes), Iterations: iterations}, nil
}

// tree is the arena of one search. Index 0 is the root.
type tree struct {
	searcher engine.PlayerID
	rng      *rand.Rand
	nodes    []node
	path     []int32
}

// candidates returns the cards the player to move may play: the searcher
// is limited to its own hand, any other player to the cards the searcher
// does not hold.
func (t *tree) candidates(state engine.TurnState, hand engine.CardSet) (engine.CardSet, error) {
	if state.IsTerminal() {
		return engine.EmptySet, nil
	}
	p, err := state.NextPlayer()
	if err != nil {
		return engine.EmptySet, err
	}
	if p == t.searcher {
		return state.Trick().LegalPlays(hand), nil
	}
	return state.Trick().LegalPlays(state.UnplayedCards().Difference(hand)), nil
}

// newNode appends a node for state, runs its rollout and returns its index.
func (t *tree) newNode(state engine.TurnState, hand engine.CardSet, team engine.TeamID) (int32, error) {
	legal, err := t.candidates(state, hand)
	if err != nil {
		return noChild, err
	}
	final, err := t.rollout(state, hand)
	if err != nil {
		return noChild, err
	}
	n := node{
		state:      state,
		hand:       hand,
		legal:      legal,
		untried:    legal,
		children:   make([]int32, legal.Size()),
		team:       team,
		reward:     final.TurnPoints(team),
		secondary:  final.TurnPoints(team.Other()),
		selfVisits: 1,
		visits:     1,
	}
	n.total = n.reward
	for i := range n.children {
		n.children[i] = noChild
	}
	t.nodes = append(t.nodes, n)
	return int32(len(t.nodes) - 1), nil
}

// rollout plays uniformly random legal cards from state to the end of the
// turn and returns the final score.
func (t *tree) rollout(state engine.TurnState, hand engine.CardSet) (engine.Score, error) {
	for !state.IsTerminal() {
		legal, err := t.candidates(state, hand)
		if err != nil {
			return engine.ScoreInitial, err
		}
		c, err := legal.Get(t.rng.IntN(legal.Size()))
		if err != nil {
			return engine.ScoreInitial, err
		}
		hand = hand.Remove(c)
		if state, err = state.WithCardPlayedAndCollected(c); err != nil {
			return engine.ScoreInitial, err
		}
	}
	return state.Score(), nil
}

// iterate descends from the root to a node with an untried candidate,
// expands one child for the lowest untried card and backpropagates along
// the path. Reaching a terminal leaf counts as another visit of that leaf.
func (t *tree) iterate() error {
	t.path = t.path[:0]
	idx := int32(0)
	for {
		t.path = append(t.path, idx)
		n := &t.nodes[idx]
		if n.terminal() {
			n.selfVisits++
			break
		}
		if !n.expanded() {
			child, err := t.expand(idx)
			if err != nil {
				return err
			}
			t.path = append(t.path, child)
			break
		}
		slot := t.bestChild(idx, Exploration)
		idx = n.children[slot]
	}
	for i := len(t.path) - 1; i >= 0; i-- {
		t.update(t.path[i])
	}
	return nil
}

func (t *tree) expand(idx int32) (int32, error) {
	n := &t.nodes[idx]
	c, err := n.untried.Get(0)
	if err != nil {
		return noChild, err
	}
	slot := n.legal.Size() - n.untried.Size()
	mover, err := n.state.NextPlayer()
	if err != nil {
		return noChild, err
	}
	next, err := n.state.WithCardPlayedAndCollected(c)
	if err != nil {
		return noChild, err
	}
	hand := n.hand.Remove(c)
	// newNode may grow the arena, so n is not used past this point.
	child, err := t.newNode(next, hand, mover.Team())
	if err != nil {
		return noChild, err
	}
	parent := &t.nodes[idx]
	parent.children[slot] = child
	parent.untried = parent.untried.Remove(c)
	return child, nil
}

// update recomputes visits and total of a node from its children. Totals
// of children on the other team are converted to this node's team with
// the node's secondary baseline.
func (t *tree) update(idx int32) {
	n := &t.nodes[idx]
	visits := n.selfVisits
	total := n.selfVisits * n.reward
	for _, ci := range n.children {
		if ci == noChild {
			continue
		}
		child := &t.nodes[ci]
		visits += child.visits
		if child.team == n.team {
			total += child.total
		} else {
			total += child.visits*n.secondary - child.total
		}
	}
	n.visits = visits
	n.total = total
}

// bestChild returns the candidate slot of the child with the highest UCB1
// value for constant c, or -1 when nothing is expanded. The first maximum
// in slot order wins.
func (t *tree) bestChild(idx int32, c float64) int {
	n := &t.nodes[idx]
	best, bestValue := -1, 0.0
	for slot, ci := range n.children {
		if ci == noChild {
			continue
		}
		child := &t.nodes[ci]
		v := value(child.total, child.visits, n.visits, c)
		if best < 0 || v > bestValue {
			best, bestValue = slot, v
		}
	}
	return best
}
