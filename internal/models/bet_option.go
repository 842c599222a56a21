package models

// BetOptionType is the closed set of bet variants a lottery sells.
type BetOptionType string

const (
	BetTengBon4     BetOptionType = "teng_bon_4"      // exact 4-digit
	BetTode4        BetOptionType = "tode_4"          // permuted 4-digit
	BetTengBon3     BetOptionType = "teng_bon_3"      // exact 3-digit top
	BetTode3        BetOptionType = "tode_3"          // permuted 3-digit top
	BetTengLang3    BetOptionType = "teng_lang_3"     // 3-digit back set (GLO only)
	BetTengLangNha3 BetOptionType = "teng_lang_nha_3" // 3-digit front set (GLO only)
	BetTengBon2     BetOptionType = "teng_bon_2"      // exact 2-digit top
	BetTengLang2    BetOptionType = "teng_lang_2"     // exact 2-digit bottom
	BetTode2        BetOptionType = "tode_2"          // permuted 2-digit top
	BetWingBon      BetOptionType = "wing_bon"        // running digit, top
	BetWingLang     BetOptionType = "wing_lang"       // running digit, bottom
)

// AllBetOptions lists every valid bet option type.
var AllBetOptions = []BetOptionType{
	BetTengBon4, BetTode4,
	BetTengBon3, BetTode3, BetTengLang3, BetTengLangNha3,
	BetTengBon2, BetTengLang2, BetTode2,
	BetWingBon, BetWingLang,
}

// IsValid reports whether t is one of the eleven known bet option types.
func (t BetOptionType) IsValid() bool {
	for _, o := range AllBetOptions {
		if o == t {
			return true
		}
	}
	return false
}

// GLOOnly reports whether the option settles against GLO-only result fields.
func (t BetOptionType) GLOOnly() bool {
	return t == BetTengLang3 || t == BetTengLangNha3
}

// Requires4D reports whether the option settles against the 4-digit result field.
func (t BetOptionType) Requires4D() bool {
	return t == BetTengBon4 || t == BetTode4
}

// Digits returns the number width a bet on this option must have.
func (t BetOptionType) Digits() int {
	switch t {
	case BetTengBon4, BetTode4:
		return 4
	case BetTengBon3, BetTode3, BetTengLang3, BetTengLangNha3:
		return 3
	case BetTengBon2, BetTengLang2, BetTode2:
		return 2
	case BetWingBon, BetWingLang:
		return 1
	default:
		return 0
	}
}
