package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateRequiresClientName(t *testing.T) {
	record := NewClientRecord()

	require.Error(t, record.Validate())

	record.ClientName = "Acme Retail"
	require.NoError(t, record.Validate())
}

func TestValidateRejectsNonNumericDayCounts(t *testing.T) {
	record := NewClientRecord()
	record.ClientName = "Acme Retail"
	record.BillingTerms = "thirty"

	require.Error(t, record.Validate())

	record.BillingTerms = "30"
	require.NoError(t, record.Validate())
}

func TestValidateContractsDateOrdering(t *testing.T) {
	cases := []struct {
		name    string
		start   string
		end     string
		wantErr bool
	}{
		{"end after start", "2025-01-01", "2025-12-31", false},
		{"end equals start", "2025-06-01", "2025-06-01", false},
		{"end before start", "2025-12-31", "2025-01-01", true},
		{"missing end", "2025-01-01", "", false},
		{"missing start", "", "2025-12-31", false},
		{"unparseable start ignored", "not a date", "2025-01-01", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateContracts([]ContractPeriod{{StartDate: tc.start, EndDate: tc.end}})
			if tc.wantErr {
				assert.ErrorIs(t, err, ErrContractDateOrder)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateRequiresAtLeastOneContract(t *testing.T) {
	record := NewClientRecord()
	record.ClientName = "Acme Retail"
	record.Contracts = nil

	require.Error(t, record.Validate())
}

func TestFileNameOrDefault(t *testing.T) {
	ct := ContractPeriod{ContractFileName: "signed.pdf"}
	assert.Equal(t, "signed.pdf", ct.FileNameOrDefault(0))

	blank := ContractPeriod{}
	assert.Equal(t, "contract_3.pdf", blank.FileNameOrDefault(2))
}

// The JSON field names are the persisted storage contract; renaming any of
// them would orphan existing data.
func TestClientRecordJSONFieldNames(t *testing.T) {
	record := ClientRecord{
		ID:         42,
		ClientName: "Acme Retail",
		Contracts:  []ContractPeriod{{StartDate: "2025-01-01"}},
		Branches: []BranchRecord{{
			BranchName: "Downtown",
			BranchPOC:  "Sam",
			Apis:       []ApiEntry{{ApiName: "Billing", ApiUrl: "https://api.test"}},
		}},
	}

	raw, err := json.Marshal(record)
	require.NoError(t, err)

	var generic map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &generic))

	for _, key := range []string{
		"id", "clientName", "clientType", "accountManager", "phone",
		"address", "geoLocation", "country", "state", "city",
		"billingTerms", "invoiceProcessing", "sla", "clientLogoUrl",
		"contracts", "branches",
	} {
		assert.Contains(t, generic, key)
	}

	// Zero coordinates stay off the wire.
	assert.NotContains(t, generic, "latitude")
	assert.NotContains(t, generic, "longitude")

	branch := generic["branches"].([]interface{})[0].(map[string]interface{})
	for _, key := range []string{"branchName", "branchPOC", "storePhone", "geoLocation", "apis"} {
		assert.Contains(t, branch, key)
	}

	api := branch["apis"].([]interface{})[0].(map[string]interface{})
	assert.Contains(t, api, "apiName")
	assert.Contains(t, api, "apiUrl")

	contract := generic["contracts"].([]interface{})[0].(map[string]interface{})
	for _, key := range []string{"startDate", "endDate", "contractFileName", "contractFileData"} {
		assert.Contains(t, contract, key)
	}
}
