package engine

// LegalPlays returns the cards of hand that may be played on t. For a
// non-empty hand the result is a non-empty subset of hand.
//
// The case analysis follows the house rules:
//   - the leader plays anything;
//   - a player must follow the led suit or trump, unless they cannot follow
//     or the led suit is trump and their only trump is the Jack;
//   - when a trump has been played on a non-trump lead, trumping is only
//     allowed above the best trump played so far.
func (t Trick) LegalPlays(hand CardSet) CardSet {
	switch t.Size() {
	case 0:
		return hand
	case 1:
		return t.legalSecond(hand)
	case 2:
		return t.legalThird(hand)
	default:
		return t.legalFourth(hand)
	}
}

func (t Trick) trumpJack() CardSet {
	return Singleton(NewCard(t.Trump(), RankJack))
}

// holdsOnlyTrumpJackOrNone is the trump-lead exemption: no trump at all, or
// the Jack as the only trump.
func (t Trick) holdsOnlyTrumpJackOrNone(hand CardSet) bool {
	trumps := hand.OfSuit(t.Trump())
	return trumps == EmptySet || trumps == t.trumpJack()
}

// overtrumpOnly replaces the trumps of hand by those that beat c.
func overtrumpOnly(hand CardSet, trump Suit, c Card) CardSet {
	trumps := hand.OfSuit(trump)
	return hand.Difference(trumps).Union(trumps.Intersection(TrumpAbove(c)))
}

func (t Trick) followOrTrump(hand CardSet) CardSet {
	return hand.OfSuit(t.Trump()).Union(hand.OfSuit(t.BaseSuit()))
}

func (t Trick) legalSecond(hand CardSet) CardSet {
	base, trump := t.BaseSuit(), t.Trump()
	if hand.OfSuit(base) == EmptySet {
		return hand
	}
	if base == trump && hand.OfSuit(trump) == t.trumpJack() {
		return hand
	}
	return t.followOrTrump(hand)
}

func (t Trick) legalThird(hand CardSet) CardSet {
	base, trump := t.BaseSuit(), t.Trump()
	if base == trump {
		if t.holdsOnlyTrumpJackOrNone(hand) {
			return hand
		}
		return hand.OfSuit(trump)
	}

	second := t.card(1)
	if hand.OfSuit(base) == EmptySet {
		if second.Suit() != trump {
			return hand
		}
		trumps := hand.OfSuit(trump)
		if trumps == hand && trumps.Intersection(TrumpAbove(second)) == EmptySet {
			return hand
		}
		return overtrumpOnly(hand, trump, second)
	}

	if second.Suit() == trump {
		hand = overtrumpOnly(hand, trump, second)
	}
	return t.followOrTrump(hand)
}

func (t Trick) legalFourth(hand CardSet) CardSet {
	base, trump := t.BaseSuit(), t.Trump()
	if base == trump {
		if t.holdsOnlyTrumpJackOrNone(hand) {
			return hand
		}
		return hand.OfSuit(trump)
	}

	second, third := t.card(1), t.card(2)
	best := third
	if second.Beats(trump, third) {
		best = second
	}
	trumps := hand.OfSuit(trump)

	if hand.OfSuit(base) == EmptySet {
		secondTrump, thirdTrump := second.Suit() == trump, third.Suit() == trump
		switch {
		case secondTrump && thirdTrump:
			if trumps == hand && trumps.Intersection(TrumpAbove(best)) == EmptySet {
				return hand
			}
			return overtrumpOnly(hand, trump, best)
		case secondTrump && trumps != hand:
			return overtrumpOnly(hand, trump, second)
		case thirdTrump && trumps != hand:
			return overtrumpOnly(hand, trump, third)
		}
		// A hand made only of trumps may play any of them when exactly
		// one trump was played before it.
		return hand
	}

	if best.Suit() == trump {
		hand = overtrumpOnly(hand, trump, best)
	}
	return t.followOrTrump(hand)
}
