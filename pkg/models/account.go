package models

import "github.com/google/uuid"

// ApplicationStatus tracks where an account sits in the IPO application
// lifecycle: pending -> applied -> allotted.
type ApplicationStatus string

const (
	StatusPending  ApplicationStatus = "PENDING"
	StatusApplied  ApplicationStatus = "APPLIED"
	StatusAllotted ApplicationStatus = "ALLOTTED"
)

// Broker identifies which brokerage app the account belongs to.
type Broker string

const (
	BrokerUpstox   Broker = "UPSTOX"
	BrokerZerodha  Broker = "ZERODHA"
	BrokerGroww    Broker = "GROWW"
	BrokerAngleOne Broker = "ANGLE ONE"
	BrokerUnknown  Broker = "UNKNOWN"
)

// Account is one tracked brokerage login/application record.
type Account struct {
	ID     string            `yaml:"id" json:"id"`
	Name   string            `yaml:"name" json:"name"`
	Broker Broker            `yaml:"broker" json:"broker"`
	Phone  string            `yaml:"phone" json:"phone"`
	Email  string            `yaml:"email,omitempty" json:"email,omitempty"`
	PAN    string            `yaml:"pan,omitempty" json:"pan,omitempty"`
	Login  string            `yaml:"loginId,omitempty" json:"loginId,omitempty"`
	PIN    string            `yaml:"pin,omitempty" json:"pin,omitempty"`
	TPIN   string            `yaml:"tpin,omitempty" json:"tpin,omitempty"`
	Year   string            `yaml:"year,omitempty" json:"year,omitempty"`
	Notes  string            `yaml:"notes,omitempty" json:"notes,omitempty"`
	Status ApplicationStatus `yaml:"status" json:"status"`

	// Post-allotment tracking. Meaningful once Status == StatusAllotted.
	SharesSold      bool   `yaml:"sharesSold,omitempty" json:"sharesSold,omitempty"`
	SoldValue       string `yaml:"soldValue,omitempty" json:"soldValue,omitempty"`
	AmountWithdrawn bool   `yaml:"amountWithdrawn,omitempty" json:"amountWithdrawn,omitempty"`
}

// New returns an empty pending account with a fresh identity.
func New() *Account {
	return &Account{
		ID:     uuid.NewString(),
		Broker: BrokerUnknown,
		Status: StatusPending,
	}
}

// Valid reports whether the record is complete enough to store. Records
// reconstructed from free text are dropped when this is false.
func (a *Account) Valid() bool {
	return a.Name != "" && a.Phone != ""
}

// Applied reports whether the account was at least applied (applied or allotted).
func (a *Account) Applied() bool {
	return a.Status == StatusApplied || a.Status == StatusAllotted
}
