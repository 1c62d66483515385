package factories

import (
	"time"

	"propmgmt/domain/contracts"
	"propmgmt/infrastructure/config"
	"propmgmt/infrastructure/webhook"
	"propmgmt/logging"
	"propmgmt/platform/executors"
	"propmgmt/platform/workflows"
)

// Recorder receives every metric the opportunity workflows emit.
type Recorder interface {
	workflows.Recorder
	executors.FailureRecorder
	webhook.Recorder
}

// Collaborators are the external systems the workflows provision against.
type Collaborators struct {
	Teams     contracts.TeamsClient
	Documents contracts.DocumentClient
	Hooks     contracts.ProvisioningHooks
}

// OpportunityWorkflowFactory creates fully configured opportunity workflows
type OpportunityWorkflowFactory struct {
	cfg      *config.WorkflowConfig
	recorder Recorder
	clock    func() time.Time
	logger   *logging.Logger
}

// NewOpportunityWorkflowFactory creates a new workflow factory. A nil clock uses time.Now.
func NewOpportunityWorkflowFactory(cfg *config.WorkflowConfig, recorder Recorder, clock func() time.Time) *OpportunityWorkflowFactory {
	if clock == nil {
		clock = time.Now
	}
	return &OpportunityWorkflowFactory{
		cfg:      cfg,
		recorder: recorder,
		clock:    clock,
		logger:   logging.Default().WithComponent("opportunity_workflow_factory"),
	}
}

// CreateHooks builds the webhook client for the configured automation endpoints.
func (f *OpportunityWorkflowFactory) CreateHooks() *webhook.Hooks {
	return webhook.New(webhook.Config{
		AddInURL:      f.cfg.AddInWebhookURL,
		DocumentIDURL: f.cfg.DocumentIDServiceURL,
		Timeout:       f.cfg.WebhookTimeout,
	}, f.recorder)
}

// CreateOpportunityFactory wires the provisioning, document and dashboard steps
// around the given collaborators.
func (f *OpportunityWorkflowFactory) CreateOpportunityFactory(c Collaborators, dashboards contracts.DashboardRepository) *workflows.OpportunityFactory {
	executor := executors.NewSideEffectExecutor(f.recorder)
	provisioner := workflows.NewTeamProvisioner(c.Teams, c.Hooks, executor, f.cfg.AdminPrincipal, f.cfg.TenantHostURL)
	mover := workflows.NewDocumentMover(c.Documents, f.cfg.TempFolder)
	analytics := workflows.NewDashboardAnalytics(dashboards, f.clock)

	f.logger.Info("Created opportunity workflows",
		"admin_principal", f.cfg.AdminPrincipal != "",
		"addin_hook", f.cfg.AddInWebhookURL != "",
		"document_id_hook", f.cfg.DocumentIDServiceURL != "",
		"temp_folder", f.cfg.TempFolder)

	return workflows.NewOpportunityFactory(
		provisioner,
		mover,
		analytics,
		workflows.DefaultProcessWorkflows(f.clock),
		f.recorder,
	)
}
