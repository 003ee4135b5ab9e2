package editor

import (
	"errors"
	"strings"
	"unicode"

	"github.com/khudpay/onboard/app/models"
)

// ErrLastAPI keeps at least one API row visible in the branch form. This is
// a form-level floor only; a persisted branch may end up with fewer entries
// through the admin console.
var ErrLastAPI = errors.New("A branch must keep at least one API row.")

// BranchDraft is the working copy behind the branch sub-editor. It is
// created fresh for "add" or pre-filled from a checked-out branch for
// "edit", and resets itself to blank after Submit.
type BranchDraft struct {
	Record models.BranchRecord `json:"record"`

	StateOptions []string `json:"stateOptions"`
	CityOptions  []string `json:"cityOptions"`
	LookupSeq    uint64   `json:"lookupSeq"`
}

// NewBranchDraft builds a draft, optionally pre-filled. The form always
// shows at least one API row.
func NewBranchDraft(initial *models.BranchRecord) *BranchDraft {
	d := &BranchDraft{}
	if initial != nil {
		d.Record = copyBranch(*initial)
	}
	if len(d.Record.Apis) == 0 {
		d.Record.Apis = []models.ApiEntry{{}}
	}
	return d
}

// Prefetch reports which dependent option lists should be fetched
// immediately, so editing an existing branch does not require re-selecting
// the country to populate the state and city selects.
func (d *BranchDraft) Prefetch() (country, state string) {
	return d.Record.Country, d.Record.State
}

// Name-like fields accept only letters and spaces; any other character in
// an incoming edit is dropped silently rather than reported.

func (d *BranchDraft) SetBranchName(v string) { d.Record.BranchName = FilterLetters(v) }
func (d *BranchDraft) SetBranchPOC(v string)  { d.Record.BranchPOC = FilterLetters(v) }

func (d *BranchDraft) SetPhone(v string)      { d.Record.Phone = v }
func (d *BranchDraft) SetStorePhone(v string) { d.Record.StorePhone = v }
func (d *BranchDraft) SetAddress(v string)    { d.Record.Address = v }

// SetGeoLocation keeps only digits, dot and comma.
func (d *BranchDraft) SetGeoLocation(v string) { d.Record.GeoLocation = FilterGeo(v) }

// SelectCountry sets the (letter-filtered) country, resets the dependent
// levels and returns the sequence number for the state lookup.
func (d *BranchDraft) SelectCountry(country string) uint64 {
	d.Record.Country = FilterLetters(country)
	d.Record.State = ""
	d.Record.City = ""
	d.StateOptions = nil
	d.CityOptions = nil
	d.LookupSeq++
	return d.LookupSeq
}

// SelectState sets the state, resets the city level and returns the
// sequence number for the city lookup.
func (d *BranchDraft) SelectState(state string) uint64 {
	d.Record.State = FilterLetters(state)
	d.Record.City = ""
	d.CityOptions = nil
	d.LookupSeq++
	return d.LookupSeq
}

func (d *BranchDraft) SelectCity(city string) {
	d.Record.City = FilterLetters(city)
}

// ApplyStateOptions installs a state option list unless superseded by a
// newer selection.
func (d *BranchDraft) ApplyStateOptions(seq uint64, options []string) bool {
	if seq != d.LookupSeq {
		return false
	}
	d.StateOptions = options
	return true
}

// ApplyCityOptions installs a city option list unless superseded.
func (d *BranchDraft) ApplyCityOptions(seq uint64, options []string) bool {
	if seq != d.LookupSeq {
		return false
	}
	d.CityOptions = options
	return true
}

// AddAPI appends a blank name/URL pair.
func (d *BranchDraft) AddAPI() {
	d.Record.Apis = append(d.Record.Apis, models.ApiEntry{})
}

// RemoveAPI deletes the entry at index while more than one row remains.
func (d *BranchDraft) RemoveAPI(index int) error {
	if len(d.Record.Apis) <= 1 {
		return ErrLastAPI
	}
	if index < 0 || index >= len(d.Record.Apis) {
		return ErrIndexOutOfRange
	}
	d.Record.Apis = append(d.Record.Apis[:index], d.Record.Apis[index+1:]...)
	return nil
}

// SetAPI updates the entry at index.
func (d *BranchDraft) SetAPI(index int, name, url string) error {
	if index < 0 || index >= len(d.Record.Apis) {
		return ErrIndexOutOfRange
	}
	d.Record.Apis[index] = models.ApiEntry{ApiName: name, ApiUrl: url}
	return nil
}

// Submit hands the completed branch record to the caller and resets the
// draft to blank. Phone numbers are normalized best-effort; a number the
// parser rejects is kept as typed.
func (d *BranchDraft) Submit() models.BranchRecord {
	out := copyBranch(d.Record)
	if normalized, err := models.NormalizePhone(out.Phone, ""); err == nil {
		out.Phone = normalized
	}
	if normalized, err := models.NormalizePhone(out.StorePhone, ""); err == nil {
		out.StorePhone = normalized
	}
	*d = *NewBranchDraft(nil)
	return out
}

// FilterLetters drops every rune that is not a letter or a space.
func FilterLetters(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || r == ' ' {
			return r
		}
		return -1
	}, s)
}

// FilterGeo drops every rune that is not a digit, dot or comma.
func FilterGeo(s string) string {
	return strings.Map(func(r rune) rune {
		if (r >= '0' && r <= '9') || r == '.' || r == ',' {
			return r
		}
		return -1
	}, s)
}
