// Package editor holds the draft state machines behind the client
// onboarding form and its branch sub-editor. A draft lives in memory (and in
// the per-session draft store between requests); nothing touches the
// persisted collection until Submit.
package editor

import (
	"errors"
	"fmt"

	"github.com/khudpay/onboard/app/models"
	"github.com/khudpay/onboard/internal/pkg/dataurl"
	"github.com/khudpay/onboard/internal/pkg/upload"
)

// Mode is fixed when a draft is constructed and never switches.
type Mode string

const (
	ModeCreate Mode = "create"
	ModeEdit   Mode = "edit"
)

// These error messages surface verbatim as form toasts.
var (
	ErrLastContract    = errors.New("You must have at least one contract period.")
	ErrNoFile          = errors.New("No file available to download.")
	ErrIndexOutOfRange = errors.New("index out of range")
)

// BranchCheckout is the pending-edit slot for a branch taken out of the
// draft list. SourceIndex is -1 for a brand new branch.
type BranchCheckout struct {
	SourceIndex int                 `json:"sourceIndex"`
	Branch      models.BranchRecord `json:"branch"`
}

// ClientDraft is the in-memory working copy of one client record. Field
// edits mutate only the draft; Submit merges it into the full collection.
type ClientDraft struct {
	Mode     Mode                `json:"mode"`
	ClientID int64               `json:"clientId"`
	Record   models.ClientRecord `json:"record"`
	Checkout *BranchCheckout     `json:"checkout,omitempty"`

	// Dependent option lists for the cascading selects, plus the sequence
	// counter that lets late lookup responses be discarded.
	StateOptions []string `json:"stateOptions"`
	CityOptions  []string `json:"cityOptions"`
	LookupSeq    uint64   `json:"lookupSeq"`
}

// NewClientDraft starts a Create-mode draft with blank defaults.
func NewClientDraft() *ClientDraft {
	return &ClientDraft{
		Mode:   ModeCreate,
		Record: models.NewClientRecord(),
	}
}

// NewClientDraftForEdit starts an Edit-mode draft hydrated from the loaded
// collection. An unknown id falls back to blank defaults; the id is still
// honored at submit (update-else-insert).
func NewClientDraftForEdit(id int64, collection []models.ClientRecord) *ClientDraft {
	d := &ClientDraft{
		Mode:     ModeEdit,
		ClientID: id,
		Record:   models.NewClientRecord(),
	}
	for i := range collection {
		if collection[i].ID == id {
			d.Record = copyRecord(collection[i])
			if len(d.Record.Contracts) == 0 {
				d.Record.Contracts = []models.ContractPeriod{{}}
			}
			break
		}
	}
	return d
}

// ClientForm carries the plain text fields of the onboarding form.
type ClientForm struct {
	ClientName        string
	ClientType        string
	AccountManager    string
	Phone             string
	BillingTerms      string
	InvoiceProcessing string
	SLA               string
}

// ApplyForm copies the plain fields into the draft. The two day-count
// fields keep their previous value when the edit contains a non-digit.
func (d *ClientDraft) ApplyForm(f ClientForm) {
	d.Record.ClientName = f.ClientName
	d.Record.ClientType = f.ClientType
	d.Record.AccountManager = f.AccountManager
	d.Record.Phone = f.Phone
	d.Record.SLA = f.SLA
	if isDigits(f.BillingTerms) {
		d.Record.BillingTerms = f.BillingTerms
	}
	if isDigits(f.InvoiceProcessing) {
		d.Record.InvoiceProcessing = f.InvoiceProcessing
	}
}

// SelectCountry sets the country, resets the dependent levels and returns
// the sequence number the state lookup must carry.
func (d *ClientDraft) SelectCountry(country string) uint64 {
	d.Record.Country = country
	d.Record.State = ""
	d.Record.City = ""
	d.StateOptions = nil
	d.CityOptions = nil
	d.LookupSeq++
	return d.LookupSeq
}

// SelectState sets the state, resets the city level and returns the
// sequence number the city lookup must carry.
func (d *ClientDraft) SelectState(state string) uint64 {
	d.Record.State = state
	d.Record.City = ""
	d.CityOptions = nil
	d.LookupSeq++
	return d.LookupSeq
}

func (d *ClientDraft) SelectCity(city string) {
	d.Record.City = city
}

// ApplyStateOptions installs a state option list unless a newer selection
// superseded the lookup that produced it.
func (d *ClientDraft) ApplyStateOptions(seq uint64, options []string) bool {
	if seq != d.LookupSeq {
		return false
	}
	d.StateOptions = options
	return true
}

// ApplyCityOptions installs a city option list unless superseded.
func (d *ClientDraft) ApplyCityOptions(seq uint64, options []string) bool {
	if seq != d.LookupSeq {
		return false
	}
	d.CityOptions = options
	return true
}

// AddContract appends a blank contract period.
func (d *ClientDraft) AddContract() {
	d.Record.Contracts = append(d.Record.Contracts, models.ContractPeriod{})
}

// RemoveContract deletes the period at index. At least one period must
// remain; going below that is rejected with a user-visible warning.
func (d *ClientDraft) RemoveContract(index int) error {
	if len(d.Record.Contracts) <= 1 {
		return ErrLastContract
	}
	if index < 0 || index >= len(d.Record.Contracts) {
		return ErrIndexOutOfRange
	}
	d.Record.Contracts = append(d.Record.Contracts[:index], d.Record.Contracts[index+1:]...)
	return nil
}

// SetContractDates updates one period's interval.
func (d *ClientDraft) SetContractDates(index int, start, end string) error {
	if index < 0 || index >= len(d.Record.Contracts) {
		return ErrIndexOutOfRange
	}
	d.Record.Contracts[index].StartDate = start
	d.Record.Contracts[index].EndDate = end
	return nil
}

// AttachContractFile validates and inline-encodes an uploaded contract PDF.
func (d *ClientDraft) AttachContractFile(index int, filename string, data []byte) error {
	if index < 0 || index >= len(d.Record.Contracts) {
		return ErrIndexOutOfRange
	}
	mime, err := upload.ValidateContract(filename, data)
	if err != nil {
		return err
	}
	d.Record.Contracts[index].ContractFileName = filename
	d.Record.Contracts[index].ContractFileData = dataurl.Encode(mime, data)
	return nil
}

// ContractFile re-exposes a stored contract document for download.
func (d *ClientDraft) ContractFile(index int) (string, []byte, error) {
	if index < 0 || index >= len(d.Record.Contracts) {
		return "", nil, ErrIndexOutOfRange
	}
	ct := d.Record.Contracts[index]
	if !ct.HasFile() {
		return "", nil, ErrNoFile
	}
	_, data, err := dataurl.Decode(ct.ContractFileData)
	if err != nil {
		return "", nil, err
	}
	return ct.FileNameOrDefault(index), data, nil
}

// AttachLogo validates and inline-encodes an uploaded client logo.
func (d *ClientDraft) AttachLogo(filename string, data []byte) error {
	mime, err := upload.ValidateLogo(filename, data)
	if err != nil {
		return err
	}
	d.Record.ClientLogoUrl = dataurl.Encode(mime, data)
	return nil
}

// ApplyLocation copies a confirmed map pick (reverse-geocoded address plus
// the raw coordinates) into the draft. Cancelling a pick simply never calls
// this.
func (d *ClientDraft) ApplyLocation(address string, lat, lon float64) {
	d.Record.Address = address
	d.Record.Latitude = lat
	d.Record.Longitude = lon
}

// CheckoutBranch removes the branch at index into the pending-edit slot and
// returns a copy for the branch editor. The branch is absent from the list
// until CommitBranch or DiscardCheckout.
func (d *ClientDraft) CheckoutBranch(index int) (models.BranchRecord, error) {
	if index < 0 || index >= len(d.Record.Branches) {
		return models.BranchRecord{}, ErrIndexOutOfRange
	}
	branch := copyBranch(d.Record.Branches[index])
	d.Record.Branches = append(d.Record.Branches[:index], d.Record.Branches[index+1:]...)
	d.Checkout = &BranchCheckout{SourceIndex: index, Branch: branch}
	return branch, nil
}

// CommitBranch inserts a completed branch record: back at its source index
// for a checked-out edit, appended for a new branch. The pending slot is
// cleared either way.
func (d *ClientDraft) CommitBranch(branch models.BranchRecord) {
	if d.Checkout != nil && d.Checkout.SourceIndex >= 0 {
		at := d.Checkout.SourceIndex
		if at > len(d.Record.Branches) {
			at = len(d.Record.Branches)
		}
		branches := append(d.Record.Branches[:at:at], branch)
		d.Record.Branches = append(branches, d.Record.Branches[at:]...)
	} else {
		d.Record.Branches = append(d.Record.Branches, branch)
	}
	d.Checkout = nil
}

// DiscardCheckout restores a checked-out branch unchanged.
func (d *ClientDraft) DiscardCheckout() {
	if d.Checkout == nil {
		return
	}
	d.CommitBranch(d.Checkout.Branch)
}

// DeleteBranch removes the branch at index immediately, preserving the
// relative order of the rest.
func (d *ClientDraft) DeleteBranch(index int) error {
	if index < 0 || index >= len(d.Record.Branches) {
		return ErrIndexOutOfRange
	}
	d.Record.Branches = append(d.Record.Branches[:index], d.Record.Branches[index+1:]...)
	return nil
}

// Validate runs the submit-time checks: model constraints, the contract
// date ordering rule and phone normalization.
func (d *ClientDraft) Validate() error {
	phone, err := models.NormalizePhone(d.Record.Phone, "")
	if err != nil {
		return err
	}
	d.Record.Phone = phone
	if err := models.ValidateContracts(d.Record.Contracts); err != nil {
		return fmt.Errorf("Contract End Date must be after Start Date for all entries!")
	}
	return d.Record.Validate()
}

// Submit validates the draft and returns the finished record, detached from
// the draft's own copy. Create mode assigns a fresh timestamp id; Edit mode
// keeps the known id, so persisting the record replaces the stored one or
// re-creates it when it was deleted meanwhile (update-else-insert).
func (d *ClientDraft) Submit() (models.ClientRecord, error) {
	if err := d.Validate(); err != nil {
		return models.ClientRecord{}, err
	}

	record := copyRecord(d.Record)
	record.ID = d.ClientID
	if d.Mode == ModeCreate || record.ID == 0 {
		record.ID = models.NewClientID()
	}
	return record, nil
}

// Reset discards all draft state: blank defaults in Create mode, a fresh
// hydration in Edit mode. Not an undo stack.
func (d *ClientDraft) Reset(collection []models.ClientRecord) {
	if d.Mode == ModeEdit {
		*d = *NewClientDraftForEdit(d.ClientID, collection)
		return
	}
	*d = *NewClientDraft()
}

func copyRecord(r models.ClientRecord) models.ClientRecord {
	out := r
	out.Contracts = make([]models.ContractPeriod, len(r.Contracts))
	copy(out.Contracts, r.Contracts)
	out.Branches = make([]models.BranchRecord, len(r.Branches))
	for i, b := range r.Branches {
		out.Branches[i] = copyBranch(b)
	}
	return out
}

func copyBranch(b models.BranchRecord) models.BranchRecord {
	out := b
	out.Apis = make([]models.ApiEntry, len(b.Apis))
	copy(out.Apis, b.Apis)
	return out
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
