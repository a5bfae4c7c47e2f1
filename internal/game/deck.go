package game

import "math/rand/v2"

const (
	// DeckSize is the number of cards in a full deck.
	DeckSize = 108
	// HandSize is the number of cards dealt to each player at start.
	HandSize = 7
)

// Deck owns the draw pile and the discard pile of one session.
// The last element of DrawPile is the next card drawn; the last element of
// DiscardPile is the current top card.
type Deck struct {
	DrawPile    []Card `json:"drawPile"`
	DiscardPile []Card `json:"discardPile"`

	rng *rand.Rand
}

// BuildCards returns the canonical 108-card multiset in a fixed order.
func BuildCards() []Card {
	cards := make([]Card, 0, DeckSize)
	for _, color := range BaseColors {
		cards = append(cards, Card{Color: color, Value: Numeral(0)})
		for n := 1; n <= 9; n++ {
			v := Numeral(n)
			cards = append(cards, Card{color, v}, Card{color, v})
		}
		for _, v := range actionValues {
			cards = append(cards, Card{color, v}, Card{color, v})
		}
	}
	for i := 0; i < 4; i++ {
		cards = append(cards,
			Card{Color: Wild, Value: ValueWild},
			Card{Color: Wild, Value: ValueWildDrawFour},
		)
	}
	return cards
}

// NewDeck builds and shuffles a full deck.
func NewDeck(rng *rand.Rand) *Deck {
	d := &Deck{DrawPile: BuildCards(), rng: rng}
	d.shuffle(d.DrawPile)
	return d
}

func (d *Deck) shuffle(cards []Card) {
	if d.rng == nil {
		d.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	d.rng.Shuffle(len(cards), func(i, j int) {
		cards[i], cards[j] = cards[j], cards[i]
	})
}

// Draw removes and returns the top of the draw pile, reshuffling the
// discards into a new draw pile first when it is empty.
func (d *Deck) Draw() (Card, error) {
	if len(d.DrawPile) == 0 {
		d.Reshuffle()
	}
	n := len(d.DrawPile)
	if n == 0 {
		return Card{}, ErrDeckExhausted
	}
	c := d.DrawPile[n-1]
	d.DrawPile = d.DrawPile[:n-1]
	return c, nil
}

// Reshuffle turns every discard except the top card into a freshly shuffled
// draw pile. It does nothing while the discard pile holds at most one card.
func (d *Deck) Reshuffle() {
	n := len(d.DiscardPile)
	if n <= 1 {
		return
	}
	top := d.DiscardPile[n-1]
	rest := make([]Card, n-1)
	copy(rest, d.DiscardPile[:n-1])
	d.shuffle(rest)
	d.DrawPile = append(rest, d.DrawPile...)
	d.DiscardPile = []Card{top}
}

// DrawInitialDiscard places the first non-wild card of the draw pile on the
// discard pile. Wild cards are rotated to the bottom of the draw pile. When
// every remaining card is wild it gives up with ErrSetup after one full
// rotation, leaving the pile as it was.
func (d *Deck) DrawInitialDiscard() (Card, error) {
	for attempts := len(d.DrawPile); attempts > 0; attempts-- {
		n := len(d.DrawPile)
		c := d.DrawPile[n-1]
		if !c.IsWild() {
			d.DrawPile = d.DrawPile[:n-1]
			d.DiscardPile = append(d.DiscardPile, c)
			return c, nil
		}
		copy(d.DrawPile[1:], d.DrawPile[:n-1])
		d.DrawPile[0] = c
	}
	return Card{}, ErrSetup
}

// Discard puts c on top of the discard pile.
func (d *Deck) Discard(c Card) {
	d.DiscardPile = append(d.DiscardPile, c)
}

// Top returns the current top discard.
func (d *Deck) Top() (Card, bool) {
	if len(d.DiscardPile) == 0 {
		return Card{}, false
	}
	return d.DiscardPile[len(d.DiscardPile)-1], true
}

// ReturnToBottom slides cards under the draw pile.
func (d *Deck) ReturnToBottom(cards []Card) {
	if len(cards) == 0 {
		return
	}
	pile := make([]Card, 0, len(cards)+len(d.DrawPile))
	pile = append(pile, cards...)
	d.DrawPile = append(pile, d.DrawPile...)
}

// Count is the number of cards in both piles.
func (d *Deck) Count() int {
	return len(d.DrawPile) + len(d.DiscardPile)
}

func (d *Deck) clone() *Deck {
	return &Deck{
		DrawPile:    append([]Card(nil), d.DrawPile...),
		DiscardPile: append([]Card(nil), d.DiscardPile...),
		rng:         d.rng,
	}
}
