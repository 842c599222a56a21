package models

// ResultEntry carries the raw digits an operator submits for a closed draw.
// Front/back sets are comma-separated lists of 3-digit tokens, e.g. "123,456".
type ResultEntry struct {
	ThreeDigitTop   string `json:"threeDigitTop,omitempty"`
	FourDigit       string `json:"fourDigit,omitempty"`
	TwoDigitBottom  string `json:"twoDigitBottom,omitempty"`
	SixDigitGrand   string `json:"sixDigitGrand,omitempty"`
	ThreeDigitFront string `json:"threeDigitFront,omitempty"`
	ThreeDigitBack  string `json:"threeDigitBack,omitempty"`
}

// Result is the canonical derived record every bet option settles against.
type Result struct {
	ThreeDigitTop   string   `bson:"threeDigitTop" json:"threeDigitTop"`
	TwoDigitTop     string   `bson:"twoDigitTop" json:"twoDigitTop"`
	TwoDigitBottom  string   `bson:"twoDigitBottom" json:"twoDigitBottom"`
	FourDigit       string   `bson:"fourDigit,omitempty" json:"fourDigit,omitempty"`
	SixDigitGrand   string   `bson:"sixDigitGrand,omitempty" json:"sixDigitGrand,omitempty"`
	ThreeDigitFront []string `bson:"threeDigitFront,omitempty" json:"threeDigitFront,omitempty"`
	ThreeDigitBack  []string `bson:"threeDigitBack,omitempty" json:"threeDigitBack,omitempty"`
}
