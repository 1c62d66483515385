package presenters

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"propmgmt/domain/contracts"
	"propmgmt/domain/opportunity"
	"propmgmt/platform/workflows"
	"propmgmt/test/helpers"
)

func TestOpportunityPresenter_ToViewModel_ExposesListItemFields(t *testing.T) {
	// Arrange
	presenter := NewOpportunityPresenter()
	opp := helpers.NewTestData().SimpleOpportunity("42", "Acme Loan", opportunity.StateInProgress)
	opp.TemplateLoaded = true
	diagnostics := []workflows.Diagnostic{{Step: "document_id", Error: "status 500"}}

	// Act
	vm := presenter.ToViewModel(opp, diagnostics)
	body, err := json.Marshal(vm)
	require.NoError(t, err)

	// Assert
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(body, &decoded))
	assert.Equal(t, "42", decoded["id"])
	assert.Equal(t, true, decoded["templateLoaded"])
	assert.Equal(t, "Acme Loan", decoded["displayName"])
	warnings, ok := decoded["warnings"].([]any)
	require.True(t, ok)
	assert.Len(t, warnings, 1)
}

func TestOpportunityPresenter_ToViewModel_OmitsEmptyWarnings(t *testing.T) {
	presenter := NewOpportunityPresenter()
	opp := helpers.NewTestData().SimpleOpportunity("1", "Quiet", opportunity.StateCreating)

	body, err := json.Marshal(presenter.ToViewModel(opp, nil))
	require.NoError(t, err)

	assert.NotContains(t, string(body), "warnings")
}

func TestOpportunityPresenter_ToSummaries(t *testing.T) {
	// Arrange
	td := helpers.NewTestData()
	presenter := NewOpportunityPresenter()
	open := td.SimpleOpportunity("1", "Open", opportunity.StateInProgress)
	open.Metadata.OpenedDate = time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)
	open.Content.DealType = td.DealType("Term Loan")
	open.Content.TeamMembers = []opportunity.TeamMember{td.Member("lo@contoso.com", "Lo", "LoanOfficer")}
	open.DocumentAttachments = []opportunity.DocumentAttachment{{FileName: "a.pdf", DocumentURI: opportunity.TempFolderURI}}
	archived := td.SimpleOpportunity("2", "Closed", opportunity.StateArchived)

	// Act
	rows := presenter.ToSummaries([]*opportunity.Opportunity{open, archived})

	// Assert
	require.Len(t, rows, 2)
	assert.Equal(t, "InProgress", rows[0].State)
	assert.Equal(t, "2024-03-01", rows[0].OpenedDate)
	assert.Equal(t, "Term Loan", rows[0].DealType)
	assert.Equal(t, 1, rows[0].TeamSize)
	assert.True(t, rows[0].HasTempUpload)
	assert.False(t, rows[0].IsTerminal)
	assert.Empty(t, rows[1].OpenedDate)
	assert.True(t, rows[1].IsTerminal)
}

func TestOpportunityPresenter_Decode(t *testing.T) {
	presenter := NewOpportunityPresenter()

	opp, err := presenter.Decode(strings.NewReader(`{"id":"7","displayName":"Acme","metadata":{"opportunityState":"inprogress"}}`))

	require.NoError(t, err)
	assert.Equal(t, "7", opp.ID)
	assert.Equal(t, "Acme", opp.DisplayName)
	assert.Equal(t, opportunity.StateInProgress, opp.State())
}

func TestOpportunityPresenter_Decode_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "malformed json", body: `{"displayName":`},
		{name: "unknown state", body: `{"metadata":{"opportunityState":"Sideways"}}`},
	}

	presenter := NewOpportunityPresenter()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := presenter.Decode(strings.NewReader(tt.body))
			assert.ErrorIs(t, err, contracts.ErrInvalidArgument)
		})
	}
}
