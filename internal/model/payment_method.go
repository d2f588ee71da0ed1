package model

// PaymentMethodTag identifies how a guest intends to pay the deposit or
// the full amount.  The set mirrors the local payment rails the hotel
// accepts.
type PaymentMethodTag string

const (
	MethodCBE           PaymentMethodTag = "cbe"
	MethodEbirr         PaymentMethodTag = "ebirr"
	MethodHelloCash     PaymentMethodTag = "hellocash"
	MethodTelebirr      PaymentMethodTag = "telebirr"
	MethodAbyssiniaBank PaymentMethodTag = "abyssinia-bank"
	MethodAmole         PaymentMethodTag = "amole"
	MethodEthSwitch     PaymentMethodTag = "ethswitch"
	MethodBankTransfer  PaymentMethodTag = "bank-transfer"
	MethodCash          PaymentMethodTag = "cash"
)

// DefaultPaymentMethod is preselected in every new draft.
const DefaultPaymentMethod = MethodTelebirr

// PaymentMethodTags lists every accepted tag.  Validation uses it as the
// "oneof" set.
var PaymentMethodTags = []PaymentMethodTag{
	MethodCBE, MethodEbirr, MethodHelloCash, MethodTelebirr, MethodAbyssiniaBank,
	MethodAmole, MethodEthSwitch, MethodBankTransfer, MethodCash,
}

// Valid reports whether t is one of the known tags.
func (t PaymentMethodTag) Valid() bool {
	for _, k := range PaymentMethodTags {
		if k == t {
			return true
		}
	}
	return false
}

// PaymentMethod is the catalog description of a payment rail.
type PaymentMethod struct {
	Method        PaymentMethodTag `json:"method" mapstructure:"method"`
	Name          string           `json:"name" mapstructure:"name"`
	Instructions  string           `json:"instructions,omitempty" mapstructure:"instructions"`
	ProcessingFee int64            `json:"processing_fee" mapstructure:"processing_fee"`
	IsAvailable   bool             `json:"is_available" mapstructure:"is_available"`
}
