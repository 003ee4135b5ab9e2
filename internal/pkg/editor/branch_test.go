package editor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khudpay/onboard/app/models"
)

func TestNewBranchDraftEnsuresOneAPIRow(t *testing.T) {
	d := NewBranchDraft(nil)
	require.Len(t, d.Record.Apis, 1)

	prefilled := NewBranchDraft(&models.BranchRecord{
		BranchName: "Downtown",
		Apis:       []models.ApiEntry{{ApiName: "Billing"}},
	})
	require.Len(t, prefilled.Record.Apis, 1)
	assert.Equal(t, "Downtown", prefilled.Record.BranchName)
}

func TestBranchNameFilterDropsNonLetters(t *testing.T) {
	d := NewBranchDraft(nil)

	d.SetBranchName("Main St 42!")
	assert.Equal(t, "Main St ", d.Record.BranchName)

	d.SetBranchPOC("O'Neil 2nd")
	assert.Equal(t, "ONeil nd", d.Record.BranchPOC)
}

func TestGeoLocationFilterKeepsCoordinates(t *testing.T) {
	d := NewBranchDraft(nil)

	d.SetGeoLocation("12.97, 77.59 N")
	assert.Equal(t, "12.97,77.59", d.Record.GeoLocation)
}

func TestAddressAcceptsAnything(t *testing.T) {
	d := NewBranchDraft(nil)

	d.SetAddress("42/1 MG Road, 2nd Floor!")
	assert.Equal(t, "42/1 MG Road, 2nd Floor!", d.Record.Address)
}

func TestRemoveLastAPIRejected(t *testing.T) {
	d := NewBranchDraft(nil)

	err := d.RemoveAPI(0)
	require.ErrorIs(t, err, ErrLastAPI)
	assert.Len(t, d.Record.Apis, 1)
}

func TestAddAndRemoveAPIRows(t *testing.T) {
	d := NewBranchDraft(nil)
	d.AddAPI()
	d.AddAPI()
	require.NoError(t, d.SetAPI(2, "Orders", "https://api.test/orders"))

	require.NoError(t, d.RemoveAPI(0))
	require.Len(t, d.Record.Apis, 2)
	assert.Equal(t, "Orders", d.Record.Apis[1].ApiName)
}

func TestBranchLookupSeqDiscardsStale(t *testing.T) {
	d := NewBranchDraft(nil)

	stale := d.SelectCountry("India")
	current := d.SelectState("Kerala")

	assert.False(t, d.ApplyCityOptions(stale, []string{"Delhi"}))
	assert.True(t, d.ApplyCityOptions(current, []string{"Kochi"}))
	assert.Equal(t, []string{"Kochi"}, d.CityOptions)
}

func TestBranchPrefetchReturnsSavedSelection(t *testing.T) {
	d := NewBranchDraft(&models.BranchRecord{Country: "India", State: "Kerala"})

	country, state := d.Prefetch()
	assert.Equal(t, "India", country)
	assert.Equal(t, "Kerala", state)
}

func TestBranchSubmitResetsDraft(t *testing.T) {
	d := NewBranchDraft(nil)
	d.SetBranchName("Downtown")
	require.NoError(t, d.SetAPI(0, "Billing", "https://api.test/billing"))

	record := d.Submit()
	assert.Equal(t, "Downtown", record.BranchName)
	require.Len(t, record.Apis, 1)

	assert.Empty(t, d.Record.BranchName)
	require.Len(t, d.Record.Apis, 1)
	assert.Empty(t, d.Record.Apis[0].ApiName)
}
