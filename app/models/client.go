package models

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

// DateLayout is the wire format for contract dates (HTML date inputs).
const DateLayout = "2006-01-02"

// ErrContractDateOrder is returned when any contract period ends before it starts.
var ErrContractDateOrder = errors.New("contract end date must not precede start date")

// ApiEntry is a named integration endpoint belonging to a branch.
// Entries have positional identity only.
type ApiEntry struct {
	ApiName string `json:"apiName"`
	ApiUrl  string `json:"apiUrl"`
}

// ContractPeriod is a dated interval of an agreement, optionally evidenced
// by an uploaded PDF stored inline as a data URI.
type ContractPeriod struct {
	StartDate        string `json:"startDate"`
	EndDate          string `json:"endDate"`
	ContractFileName string `json:"contractFileName"`
	ContractFileData string `json:"contractFileData"`
}

// BranchRecord is a physical sub-location of a client. Branches carry no
// independent identity; they are addressed by position in the parent list.
type BranchRecord struct {
	BranchName  string     `json:"branchName"`
	BranchPOC   string     `json:"branchPOC"`
	Phone       string     `json:"phone"`
	StorePhone  string     `json:"storePhone"`
	Address     string     `json:"address"`
	GeoLocation string     `json:"geoLocation"`
	Country     string     `json:"country"`
	State       string     `json:"state"`
	City        string     `json:"city"`
	Apis        []ApiEntry `json:"apis"`
}

// ClientRecord is the top-level onboarded business account. The JSON field
// names are the persisted storage contract and must not change.
type ClientRecord struct {
	ID                int64            `json:"id"`
	ClientName        string           `json:"clientName" validate:"required,max=200"`
	ClientType        string           `json:"clientType" validate:"max=100"`
	AccountManager    string           `json:"accountManager" validate:"max=150"`
	Phone             string           `json:"phone"`
	Address           string           `json:"address"`
	GeoLocation       string           `json:"geoLocation"`
	Latitude          float64          `json:"latitude,omitempty"`
	Longitude         float64          `json:"longitude,omitempty"`
	Country           string           `json:"country"`
	State             string           `json:"state"`
	City              string           `json:"city"`
	BillingTerms      string           `json:"billingTerms" validate:"omitempty,number"`
	InvoiceProcessing string           `json:"invoiceProcessing" validate:"omitempty,number"`
	SLA               string           `json:"sla"`
	ClientLogoUrl     string           `json:"clientLogoUrl"`
	Contracts         []ContractPeriod `json:"contracts"`
	Branches          []BranchRecord   `json:"branches"`
}

// NewClientRecord returns a blank record with the one contract period every
// client must have.
func NewClientRecord() ClientRecord {
	return ClientRecord{
		Contracts: []ContractPeriod{{}},
		Branches:  []BranchRecord{},
	}
}

// NewClientID assigns record identity the way the console always has:
// the creation timestamp in milliseconds.
func NewClientID() int64 {
	return time.Now().UnixMilli()
}

// Validate checks the struct tags plus the contract date ordering rule.
func (c *ClientRecord) Validate() error {
	v := validator.New()
	if err := v.Struct(c); err != nil {
		return err
	}
	if len(c.Contracts) == 0 {
		return errors.New("at least one contract period is required")
	}
	return ValidateContracts(c.Contracts)
}

// ValidateContracts enforces end >= start for every period where both dates
// are present. Unparseable dates are treated as unset.
func ValidateContracts(contracts []ContractPeriod) error {
	for _, ct := range contracts {
		if ct.StartDate == "" || ct.EndDate == "" {
			continue
		}
		start, err := time.Parse(DateLayout, ct.StartDate)
		if err != nil {
			continue
		}
		end, err := time.Parse(DateLayout, ct.EndDate)
		if err != nil {
			continue
		}
		if end.Before(start) {
			return ErrContractDateOrder
		}
	}
	return nil
}

// HasFile reports whether a contract period carries an uploaded document.
func (ct *ContractPeriod) HasFile() bool {
	return ct.ContractFileData != ""
}

// FileNameOrDefault returns the stored filename or a positional fallback for
// downloads.
func (ct *ContractPeriod) FileNameOrDefault(index int) string {
	if ct.ContractFileName != "" {
		return ct.ContractFileName
	}
	return fmt.Sprintf("contract_%d.pdf", index+1)
}
