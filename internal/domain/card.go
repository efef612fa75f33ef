package domain

// CardType distinguishes virtual from plastic cards.
type CardType string

const (
	CardTypeVirtual  CardType = "VIRTUAL"
	CardTypePhysical CardType = "PHYSICAL"
)

// Values implements schema.Enum.
func (CardType) Values() []string {
	return []string{string(CardTypeVirtual), string(CardTypePhysical)}
}

type CardStatus string

const (
	CardStatusActive  CardStatus = "ACTIVE"
	CardStatusFrozen  CardStatus = "FROZEN"
	CardStatusClosed  CardStatus = "CLOSED"
	CardStatusBlocked CardStatus = "BLOCKED"
)

// Values implements schema.Enum.
func (CardStatus) Values() []string {
	return []string{
		string(CardStatusActive),
		string(CardStatusFrozen),
		string(CardStatusClosed),
		string(CardStatusBlocked),
	}
}

type CardPaymentSystem string

const (
	CardPaymentSystemVisa       CardPaymentSystem = "VISA"
	CardPaymentSystemMastercard CardPaymentSystem = "MASTERCARD"
)

// Values implements schema.Enum.
func (CardPaymentSystem) Values() []string {
	return []string{string(CardPaymentSystemVisa), string(CardPaymentSystemMastercard)}
}

// Card is an issued card.
type Card struct {
	ID            string            `json:"id" fake:"uuid"`
	PIN           string            `json:"pin" validate:"numeric,len=4" fake:"digits=4"`
	CVV           string            `json:"cvv" validate:"numeric,len=3" fake:"digits=3"`
	Type          CardType          `json:"type" validate:"enum" fake:"enum"`
	Status        CardStatus        `json:"status" validate:"enum" fake:"enum"`
	AccountID     string            `json:"accountId" fake:"uuid"`
	CardNumber    string            `json:"cardNumber" validate:"numeric,len=16" fake:"card_number"`
	CardHolder    string            `json:"cardHolder" fake:"holder"`
	ExpiryDate    string            `json:"expiryDate" validate:"datetime=2006-01-02" fake:"date"`
	PaymentSystem CardPaymentSystem `json:"paymentSystem" validate:"enum" fake:"enum"`
}

// IssueCardRequest asks for a new card on an account.
type IssueCardRequest struct {
	UserID    string `json:"userId" validate:"required" fake:"uuid"`
	AccountID string `json:"accountId" validate:"required" fake:"uuid"`
}

// IssueCardResponse wraps the issued card: {"card": {...}}.
type IssueCardResponse struct {
	Card Card `json:"card"`
}

type (
	IssueVirtualCardResponse  = IssueCardResponse
	IssuePhysicalCardResponse = IssueCardResponse
)
