package processor

import "github.com/MrJamesThe3rd/scrooge/internal/tag"

const (
	TagATM         = "atm"
	TagPOS         = "pos"
	TagAlbertHeijn = "albert-heijn"
)

// Atm tags cash machine withdrawals.
func Atm() *Rule {
	return MustRule(RuleConfig{
		Name:    "atm",
		Tag:     tag.Spec{Name: TagATM, Label: "ATM"},
		Needles: []string{`Geldautomaat \d\d:\d\d pasnr\. \d\d\d`},
	})
}

// Pos tags card payments at a point of sale.
func Pos() *Rule {
	return MustRule(RuleConfig{
		Name:    "pos",
		Tag:     tag.Spec{Name: TagPOS, Label: "Point of Sale"},
		Needles: []string{`Betaalautomaat \d\d:\d\d pasnr\. \d\d\d`},
	})
}

// AlbertHeijn tags card payments at Albert Heijn stores.
func AlbertHeijn() *Rule {
	return MustRule(RuleConfig{
		Name: "albert-heijn",
		Tag:  tag.Spec{Name: TagAlbertHeijn, Label: "Albert Heijn"},
		Needles: []string{
			`ALBERT HEIJN \d+ [A-Z]+`,
			`AH to go`,
		},
		Requires: TagPOS,
		After:    []string{"pos"},
	})
}

// Default is the built-in chain.
func Default() *Chain {
	return MustChain(Atm(), Pos(), AlbertHeijn())
}
