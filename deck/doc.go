// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package deck defines the card decks participants vote with.

# Built-in Decks

Each estimation method has a fixed deck:

	refinement_poker → Fibonacci: 0 1 2 3 5 8 13 21 34 55 ? X
	business_value   → T-shirt:   XS S M L XL

	d, err := deck.ForMethod(models.MethodRefinementPoker)

# Ordering

Deck order is the distance metric. Two cards are "n steps apart" when their
indexes differ by n.

# Numeric Interpretation

Numeric decks read the label as a number. Ordinal decks (T-shirt) use the
card index, so XS=0, S=1, M=2, L=3, XL=4. The sentinels "?" and "X" have no
numeric value and are never returned by NearestValue.
*/
package deck
