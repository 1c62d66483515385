package presenters

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"propmgmt/domain/opportunity"
)

func TestDashboardPresenter_ToViewModels(t *testing.T) {
	// Arrange
	presenter := NewDashboardPresenter()
	d := opportunity.Dashboard{
		ID:              "d1",
		OpportunityID:   "1",
		OpportunityName: "Acme",
		Status:          "Archived",
		StartDate:       time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		TotalNoOfDays:   5,
	}
	d.CreditCheck = opportunity.ChannelProgress{
		StartDate:      time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
		CompletionDate: time.Date(2024, 1, 4, 0, 0, 0, 0, time.UTC),
		NoOfDays:       2,
	}

	// Act
	vms := presenter.ToViewModels([]opportunity.Dashboard{d})

	// Assert
	require.Len(t, vms, 1)
	vm := vms[0]
	assert.Equal(t, "2024-01-01", vm.StartDate)
	assert.Empty(t, vm.EndDate)
	require.Len(t, vm.Channels, 4)
	assert.Equal(t, opportunity.ChannelCreditCheck, vm.Channels[1].Channel)
	assert.Equal(t, 2, vm.Channels[1].NoOfDays)
	assert.Equal(t, "2024-01-04", vm.Channels[1].CompletionDate)
	assert.Zero(t, vm.Channels[0].NoOfDays)
}

func TestDashboardPresenter_ToAnalysis_Rounds(t *testing.T) {
	presenter := NewDashboardPresenter()

	vm := presenter.ToAnalysis(opportunity.DashboardAnalysis{Count: 3, AvgTotalDays: 10.0 / 3.0, AvgCompliance: 2.25})

	assert.Equal(t, 3, vm.Count)
	assert.Equal(t, 3.3, vm.AvgTotalDays)
	assert.Equal(t, 2.3, vm.AvgCompliance)
}
