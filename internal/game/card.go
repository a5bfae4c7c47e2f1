package game

import "strconv"

type Color string

const (
	Red    Color = "red"
	Yellow Color = "yellow"
	Green  Color = "green"
	Blue   Color = "blue"
	Wild   Color = "wild"
)

// BaseColors are the four colors a wild card can be declared as.
var BaseColors = []Color{Red, Yellow, Green, Blue}

// IsBase reports whether c is one of the four playable colors.
func (c Color) IsBase() bool {
	switch c {
	case Red, Yellow, Green, Blue:
		return true
	}
	return false
}

type Value string

const (
	ValueSkip         Value = "skip"
	ValueReverse      Value = "reverse"
	ValueDrawTwo      Value = "+2"
	ValueWild         Value = "wild"
	ValueWildDrawFour Value = "wild+4"
)

// actionValues are the colored non-numeral values, two of each per color.
var actionValues = []Value{ValueSkip, ValueReverse, ValueDrawTwo}

// drawPenalty is the number of cards forced on the next player.
var drawPenalty = map[Value]int{
	ValueDrawTwo:      2,
	ValueWildDrawFour: 4,
}

// Numeral returns the value for digit n (0-9).
func Numeral(n int) Value {
	return Value(strconv.Itoa(n))
}

// Card is an immutable (color, value) pair.
type Card struct {
	Color Color `json:"color"`
	Value Value `json:"value"`
}

func (c Card) IsWild() bool {
	return c.Color == Wild
}

func (c Card) String() string {
	return string(c.Color) + " " + string(c.Value)
}
