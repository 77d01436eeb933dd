package engine

import "fmt"

// buildDeck fills the deck with the 68 canonical identifiers and shuffles
// with Fisher-Yates (inclusive bounds), then resets the cursor. Unbiased
// over the full permutation space given a fair source.
func (m *Match) buildDeck() {
	for i := 0; i < DeckSize; i++ {
		m.Deck[i] = Card(i)
	}
	for i := DeckSize - 1; i > 0; i-- {
		j := int(m.randN(uint64(i + 1)))
		m.Deck[i], m.Deck[j] = m.Deck[j], m.Deck[i]
	}
	m.DeckPos = 0
}

// drawJokerValue draws the round's secret power for the joker, uniform
// in [1, DeckSize]. Distinct from any physical card.
func (m *Match) drawJokerValue() {
	m.JokerValue = 1 + int(m.randN(DeckSize))
}

// dealHands deals two disjoint contiguous blocks of HandSize cards from the
// cursor — player one's block first — and advances the cursor. It refuses
// when fewer than 2*HandSize cards remain; the lifecycle controller maps
// that into the deck_empty end condition.
func (m *Match) dealHands() error {
	if m.DeckPos+2*HandSize > DeckSize {
		return fmt.Errorf("deck exhausted: %d cards left, need %d", DeckSize-m.DeckPos, 2*HandSize)
	}
	for i := 0; i < HandSize; i++ {
		m.Players[0].Hand[i] = m.Deck[m.DeckPos+i]
		m.Players[1].Hand[i] = m.Deck[m.DeckPos+HandSize+i]
	}
	m.DeckPos += 2 * HandSize
	return nil
}

// CardPower resolves a card's battle power for the current round: the
// secret joker value for the joker, the identifier itself for every
// other card.
func (m *Match) CardPower(id Card) int {
	if id == JokerCard {
		return m.JokerValue
	}
	return int(id)
}
