package engine

import "testing"

// TestShuffleIsPermutation verifies the deck is a bijection of the 68
// canonical identifiers after any shuffle.
func TestShuffleIsPermutation(t *testing.T) {
	for seed := uint64(1); seed <= 25; seed++ {
		m := NewMatch(seed, DefaultRules())
		m.buildDeck()

		var seen [DeckSize]bool
		for _, c := range m.Deck {
			if int(c) >= DeckSize {
				t.Fatalf("seed %d: card id %d out of range", seed, c)
			}
			if seen[c] {
				t.Fatalf("seed %d: card id %d appears twice", seed, c)
			}
			seen[c] = true
		}
	}
}

// TestDealContiguousBlocks verifies both hands come from disjoint
// contiguous blocks, player one's block first, and the cursor advances.
func TestDealContiguousBlocks(t *testing.T) {
	m := NewMatch(42, DefaultRules())
	m.Start()

	if m.DeckPos != 2*HandSize {
		t.Fatalf("expected cursor %d after deal, got %d", 2*HandSize, m.DeckPos)
	}
	for i := 0; i < HandSize; i++ {
		if m.Players[0].Hand[i] != m.Deck[i] {
			t.Errorf("p1 hand[%d] = %d, want deck[%d] = %d", i, m.Players[0].Hand[i], i, m.Deck[i])
		}
		if m.Players[1].Hand[i] != m.Deck[HandSize+i] {
			t.Errorf("p2 hand[%d] = %d, want deck[%d] = %d", i, m.Players[1].Hand[i], HandSize+i, m.Deck[HandSize+i])
		}
	}
}

// TestDealRefusesShortDeck verifies dealing fails when fewer than 20 cards
// remain.
func TestDealRefusesShortDeck(t *testing.T) {
	m := NewMatch(7, DefaultRules())
	m.buildDeck()

	m.DeckPos = DeckSize - 2*HandSize
	if err := m.dealHands(); err != nil {
		t.Fatalf("deal with exactly 20 cards left should succeed: %v", err)
	}

	m.DeckPos = DeckSize - 2*HandSize + 1
	if err := m.dealHands(); err == nil {
		t.Fatal("expected deal to refuse with 19 cards left")
	}
}

// TestJokerValueRange verifies the secret is uniform-range drawn in 1..68.
func TestJokerValueRange(t *testing.T) {
	for seed := uint64(1); seed <= 100; seed++ {
		m := NewMatch(seed, DefaultRules())
		m.drawJokerValue()
		if m.JokerValue < 1 || m.JokerValue > DeckSize {
			t.Fatalf("seed %d: joker value %d outside [1, %d]", seed, m.JokerValue, DeckSize)
		}
	}
}

// TestCardPower verifies the fixed power mapping: joker takes the secret
// value, every other card its own identifier.
func TestCardPower(t *testing.T) {
	m := NewMatch(1, DefaultRules())
	m.JokerValue = 50

	if got := m.CardPower(JokerCard); got != 50 {
		t.Errorf("joker power = %d, want 50", got)
	}
	if got := m.CardPower(Card(7)); got != 7 {
		t.Errorf("card 7 power = %d, want 7", got)
	}
	if got := m.CardPower(AbilityCard); got != 67 {
		t.Errorf("card 67 power = %d, want 67", got)
	}
}
