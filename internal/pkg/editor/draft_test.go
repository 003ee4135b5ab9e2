package editor

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khudpay/onboard/app/models"
	"github.com/khudpay/onboard/app/repository"
	"github.com/khudpay/onboard/internal/pkg/dataurl"
	"github.com/khudpay/onboard/internal/pkg/upload"
)

var pdfBytes = append([]byte("%PDF-1.4\n"), bytes.Repeat([]byte{0x20}, 64)...)

func validDraft() *ClientDraft {
	d := NewClientDraft()
	d.ApplyForm(ClientForm{
		ClientName:        "Acme Retail",
		ClientType:        "Enterprise",
		AccountManager:    "Jordan",
		BillingTerms:      "30",
		InvoiceProcessing: "14",
		SLA:               "Gold",
	})
	return d
}

func TestSubmitCreateAssignsFreshID(t *testing.T) {
	d := validDraft()

	record, err := d.Submit()
	require.NoError(t, err)
	assert.NotZero(t, record.ID)
	assert.Equal(t, "Acme Retail", record.ClientName)
}

func TestSubmitReturnsDetachedCopy(t *testing.T) {
	d := validDraft()

	record, err := d.Submit()
	require.NoError(t, err)

	d.Record.ClientName = "Changed After Submit"
	d.Record.Contracts[0].StartDate = "2025-01-01"

	assert.Equal(t, "Acme Retail", record.ClientName)
	assert.Empty(t, record.Contracts[0].StartDate)
}

func TestSubmitRequiresClientName(t *testing.T) {
	d := NewClientDraft()

	_, err := d.Submit()
	require.Error(t, err)
}

func TestSubmitRejectsEndBeforeStart(t *testing.T) {
	d := validDraft()
	require.NoError(t, d.SetContractDates(0, "2025-06-01", "2025-01-01"))

	_, err := d.Submit()
	require.Error(t, err)
	assert.Equal(t, "Contract End Date must be after Start Date for all entries!", err.Error())
}

func TestSubmitAcceptsEqualStartAndEnd(t *testing.T) {
	d := validDraft()
	require.NoError(t, d.SetContractDates(0, "2025-06-01", "2025-06-01"))

	_, err := d.Submit()
	require.NoError(t, err)
}

func TestSubmitEditKeepsID(t *testing.T) {
	existing := []models.ClientRecord{
		{ID: 20, ClientName: "Beta", Contracts: []models.ContractPeriod{{}}},
	}

	d := NewClientDraftForEdit(20, existing)
	d.Record.ClientName = "Beta Updated"

	record, err := d.Submit()
	require.NoError(t, err)
	assert.Equal(t, int64(20), record.ID)
	assert.Equal(t, "Beta Updated", record.ClientName)
}

func TestSubmitEditThenUpsertReplacesInPlace(t *testing.T) {
	repo := repository.NewClientRepository(newMemStorage())
	require.NoError(t, repo.Save([]models.ClientRecord{
		{ID: 10, ClientName: "Alpha", Contracts: []models.ContractPeriod{{}}},
		{ID: 20, ClientName: "Beta", Contracts: []models.ContractPeriod{{}}},
		{ID: 30, ClientName: "Gamma", Contracts: []models.ContractPeriod{{}}},
	}))

	d := NewClientDraftForEdit(20, repo.Load())
	d.Record.ClientName = "Beta Updated"

	record, err := d.Submit()
	require.NoError(t, err)
	require.NoError(t, repo.Upsert(record))

	got := repo.Load()
	require.Len(t, got, 3)
	assert.Equal(t, "Alpha", got[0].ClientName)
	assert.Equal(t, "Beta Updated", got[1].ClientName)
	assert.Equal(t, "Gamma", got[2].ClientName)
}

func TestSubmitEditOfDeletedRecordReappears(t *testing.T) {
	repo := repository.NewClientRepository(newMemStorage())
	require.NoError(t, repo.Save([]models.ClientRecord{
		{ID: 10, ClientName: "Alpha", Contracts: []models.ContractPeriod{{}}},
		{ID: 20, ClientName: "Beta", Contracts: []models.ContractPeriod{{}}},
	}))

	d := NewClientDraftForEdit(20, repo.Load())
	d.Record.ClientName = "Beta Edited"

	// Another admin deleted the record while it was being edited.
	require.NoError(t, repo.DeleteByID(20))

	record, err := d.Submit()
	require.NoError(t, err)
	assert.Equal(t, int64(20), record.ID)
	require.NoError(t, repo.Upsert(record))

	got := repo.Load()
	require.Len(t, got, 2)
	assert.Equal(t, "Beta Edited", got[1].ClientName)
}

func TestEditDraftForUnknownIDStartsBlankButKeepsID(t *testing.T) {
	d := NewClientDraftForEdit(99, nil)

	assert.Equal(t, ModeEdit, d.Mode)
	assert.Equal(t, int64(99), d.ClientID)
	assert.Empty(t, d.Record.ClientName)
	require.Len(t, d.Record.Contracts, 1)
}

func TestApplyFormFiltersDayCountFields(t *testing.T) {
	d := NewClientDraft()
	d.ApplyForm(ClientForm{BillingTerms: "30"})
	d.ApplyForm(ClientForm{BillingTerms: "30x", InvoiceProcessing: "1.5"})

	assert.Equal(t, "30", d.Record.BillingTerms)
	assert.Empty(t, d.Record.InvoiceProcessing)
}

func TestRemoveLastContractRejected(t *testing.T) {
	d := NewClientDraft()
	require.Len(t, d.Record.Contracts, 1)

	err := d.RemoveContract(0)
	require.ErrorIs(t, err, ErrLastContract)
	assert.Len(t, d.Record.Contracts, 1)
}

func TestAddAndRemoveContracts(t *testing.T) {
	d := NewClientDraft()
	d.AddContract()
	d.AddContract()
	require.Len(t, d.Record.Contracts, 3)

	require.NoError(t, d.SetContractDates(1, "2025-01-01", "2025-02-01"))
	require.NoError(t, d.RemoveContract(0))
	assert.Equal(t, "2025-01-01", d.Record.Contracts[0].StartDate)
}

func TestAttachContractFileRoundTrip(t *testing.T) {
	d := NewClientDraft()

	require.NoError(t, d.AttachContractFile(0, "agreement.pdf", pdfBytes))
	require.True(t, d.Record.Contracts[0].HasFile())

	name, data, err := d.ContractFile(0)
	require.NoError(t, err)
	assert.Equal(t, "agreement.pdf", name)
	assert.Equal(t, pdfBytes, data)
}

func TestAttachContractFileRejectsNonPDF(t *testing.T) {
	d := NewClientDraft()

	err := d.AttachContractFile(0, "notes.txt", []byte("plain text"))
	require.ErrorIs(t, err, upload.ErrContractNotPDF)
	assert.False(t, d.Record.Contracts[0].HasFile())
}

func TestContractFileMissing(t *testing.T) {
	d := NewClientDraft()

	_, _, err := d.ContractFile(0)
	require.ErrorIs(t, err, ErrNoFile)
}

func TestAttachLogoRejectsOversize(t *testing.T) {
	d := NewClientDraft()
	big := append([]byte("\x89PNG\r\n\x1a\n"), bytes.Repeat([]byte{0}, upload.MaxLogoBytes)...)

	err := d.AttachLogo("logo.png", big)
	require.ErrorIs(t, err, upload.ErrLogoTooLarge)
	assert.Empty(t, d.Record.ClientLogoUrl)
}

func TestAttachLogoStoresDataURI(t *testing.T) {
	d := NewClientDraft()
	png := append([]byte("\x89PNG\r\n\x1a\n"), bytes.Repeat([]byte{0}, 128)...)

	require.NoError(t, d.AttachLogo("logo.png", png))
	assert.True(t, strings.HasPrefix(d.Record.ClientLogoUrl, "data:image/png;base64,"))

	// The stored data decodes back to the exact uploaded bytes.
	mime, data, err := dataurl.Decode(d.Record.ClientLogoUrl)
	require.NoError(t, err)
	assert.Equal(t, "image/png", mime)
	assert.Equal(t, png, data)
}

func TestLookupSeqDiscardsStaleOptions(t *testing.T) {
	d := NewClientDraft()

	first := d.SelectCountry("India")
	second := d.SelectCountry("Germany")

	assert.False(t, d.ApplyStateOptions(first, []string{"Kerala"}))
	assert.Nil(t, d.StateOptions)

	assert.True(t, d.ApplyStateOptions(second, []string{"Bavaria"}))
	assert.Equal(t, []string{"Bavaria"}, d.StateOptions)
}

func TestSelectCountryResetsDependentLevels(t *testing.T) {
	d := NewClientDraft()
	seq := d.SelectCountry("India")
	d.ApplyStateOptions(seq, []string{"Kerala"})
	d.Record.State = "Kerala"
	d.Record.City = "Kochi"

	d.SelectCountry("Germany")
	assert.Empty(t, d.Record.State)
	assert.Empty(t, d.Record.City)
	assert.Nil(t, d.StateOptions)
	assert.Nil(t, d.CityOptions)
}

func TestCheckoutCommitUnchangedKeepsOrder(t *testing.T) {
	d := validDraft()
	d.Record.Branches = []models.BranchRecord{
		{BranchName: "North"},
		{BranchName: "Downtown"},
		{BranchName: "South"},
	}

	branch, err := d.CheckoutBranch(1)
	require.NoError(t, err)
	assert.Equal(t, "Downtown", branch.BranchName)
	assert.Len(t, d.Record.Branches, 2)

	d.CommitBranch(branch)
	require.Len(t, d.Record.Branches, 3)
	assert.Equal(t, "North", d.Record.Branches[0].BranchName)
	assert.Equal(t, "Downtown", d.Record.Branches[1].BranchName)
	assert.Equal(t, "South", d.Record.Branches[2].BranchName)
	assert.Nil(t, d.Checkout)
}

func TestDiscardCheckoutRestoresBranch(t *testing.T) {
	d := validDraft()
	d.Record.Branches = []models.BranchRecord{
		{BranchName: "North"},
		{BranchName: "Downtown"},
	}

	_, err := d.CheckoutBranch(0)
	require.NoError(t, err)

	d.DiscardCheckout()
	require.Len(t, d.Record.Branches, 2)
	assert.Equal(t, "North", d.Record.Branches[0].BranchName)
}

func TestCommitWithoutCheckoutAppends(t *testing.T) {
	d := validDraft()
	d.CommitBranch(models.BranchRecord{BranchName: "First"})
	d.CommitBranch(models.BranchRecord{BranchName: "Second"})

	require.Len(t, d.Record.Branches, 2)
	assert.Equal(t, "Second", d.Record.Branches[1].BranchName)
}

func TestDeleteBranchKeepsOrder(t *testing.T) {
	d := validDraft()
	d.Record.Branches = []models.BranchRecord{
		{BranchName: "A"}, {BranchName: "B"}, {BranchName: "C"},
	}

	require.NoError(t, d.DeleteBranch(1))
	require.Len(t, d.Record.Branches, 2)
	assert.Equal(t, "A", d.Record.Branches[0].BranchName)
	assert.Equal(t, "C", d.Record.Branches[1].BranchName)

	require.Error(t, d.DeleteBranch(5))
}

func TestResetCreateModeBlanks(t *testing.T) {
	d := validDraft()
	d.Record.Branches = []models.BranchRecord{{BranchName: "North"}}

	d.Reset(nil)
	assert.Empty(t, d.Record.ClientName)
	assert.Empty(t, d.Record.Branches)
	require.Len(t, d.Record.Contracts, 1)
}

func TestResetEditModeRehydrates(t *testing.T) {
	existing := []models.ClientRecord{
		{ID: 7, ClientName: "Stored", Contracts: []models.ContractPeriod{{}}},
	}

	d := NewClientDraftForEdit(7, existing)
	d.Record.ClientName = "Changed"

	d.Reset(existing)
	assert.Equal(t, "Stored", d.Record.ClientName)
	assert.Equal(t, int64(7), d.ClientID)
}

// Full pass over the editing flow: create a client with a branch and persist
// it, then edit it, rework the branch's API list through a checkout and
// persist again.
func TestEditWorkflowEndToEnd(t *testing.T) {
	repo := repository.NewClientRepository(newMemStorage())
	d := validDraft()

	b := NewBranchDraft(nil)
	b.SetBranchName("Downtown")
	b.SetBranchPOC("Sam Lee")
	require.NoError(t, b.SetAPI(0, "Billing", "https://api.acme.test/billing"))
	d.CommitBranch(b.Submit())

	record, err := d.Submit()
	require.NoError(t, err)
	require.NoError(t, repo.Upsert(record))

	edit := NewClientDraftForEdit(record.ID, repo.Load())
	branch, err := edit.CheckoutBranch(0)
	require.NoError(t, err)

	eb := NewBranchDraft(&branch)
	eb.AddAPI()
	require.NoError(t, eb.SetAPI(1, "Inventory", "https://api.acme.test/inventory"))
	edit.CommitBranch(eb.Submit())

	updated, err := edit.Submit()
	require.NoError(t, err)
	assert.Equal(t, record.ID, updated.ID)
	require.NoError(t, repo.Upsert(updated))

	collection := repo.Load()
	require.Len(t, collection, 1)
	require.Len(t, collection[0].Branches, 1)

	apis := collection[0].Branches[0].Apis
	require.Len(t, apis, 2)
	assert.Equal(t, "Billing", apis[0].ApiName)
	assert.Equal(t, "Inventory", apis[1].ApiName)
}
