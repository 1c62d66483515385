package repositories

// OpportunityRecord is the list item shape of an opportunity.
type OpportunityRecord struct {
	Name              string
	Reference         string
	OpportunityState  string
	TemplateLoaded    bool
	OpportunityObject string
}

// Fields returns the list columns of the record.
func (r OpportunityRecord) Fields() map[string]any {
	return map[string]any{
		"Name":              r.Name,
		"Reference":         r.Reference,
		"OpportunityState":  r.OpportunityState,
		"TemplateLoaded":    r.TemplateLoaded,
		"OpportunityObject": r.OpportunityObject,
	}
}

// DashboardRecord is the list item shape of a dashboard.
type DashboardRecord struct {
	CustomerName        string
	OpportunityID       string
	OpportunityName     string
	Status              string
	StartDate           string
	OpportunityEndDate  string
	TargetCompletion    string
	LoanOfficer         string
	RelationshipManager string
	TotalNoOfDays       int
	Channels            map[string]ChannelColumns
}

// ChannelColumns holds the tracked dates of one channel.
type ChannelColumns struct {
	StartDate      string
	CompletionDate string
	NoOfDays       int
}

// Fields returns the list columns of the record. Channel columns are prefixed with the channel key.
func (r DashboardRecord) Fields() map[string]any {
	f := map[string]any{
		"CustomerName":         r.CustomerName,
		"OpportunityId":        r.OpportunityID,
		"OpportunityName":      r.OpportunityName,
		"Status":               r.Status,
		"StartDate":            r.StartDate,
		"OpportunityEndDate":   r.OpportunityEndDate,
		"TargetCompletionDate": r.TargetCompletion,
		"LoanOfficer":          r.LoanOfficer,
		"RelationshipManager":  r.RelationshipManager,
		"TotalNoOfDays":        r.TotalNoOfDays,
	}
	for key, c := range r.Channels {
		f[key+"StartDate"] = c.StartDate
		f[key+"CompletionDate"] = c.CompletionDate
		f[key+"NoOfDays"] = c.NoOfDays
	}
	return f
}

// RoleRecord is the list item shape of a role.
type RoleRecord struct {
	AdGroupName     string
	Role            string
	TeamsMembership string
	Permissions     string
}

// Fields returns the list columns of the record.
func (r RoleRecord) Fields() map[string]any {
	return map[string]any{
		"AdGroupName":     r.AdGroupName,
		"Role":            r.Role,
		"TeamsMembership": r.TeamsMembership,
		"Permissions":     r.Permissions,
	}
}

// PermissionRecord is the list item shape of a permission.
type PermissionRecord struct {
	Name string
}

// Fields returns the list columns of the record.
func (r PermissionRecord) Fields() map[string]any {
	return map[string]any{"Name": r.Name}
}

// TemplateRecord is the list item shape of a deal type template.
type TemplateRecord struct {
	TemplateName    string
	Description     string
	DefaultTemplate bool
	ProcessList     string
}

// Fields returns the list columns of the record.
func (r TemplateRecord) Fields() map[string]any {
	return map[string]any{
		"TemplateName":    r.TemplateName,
		"Description":     r.Description,
		"DefaultTemplate": r.DefaultTemplate,
		"ProcessList":     r.ProcessList,
	}
}

// NotificationRecord is the list item shape of a notification.
type NotificationRecord struct {
	Title         string
	Message       string
	OpportunityID string
	SentTo        string
	SentFrom      string
	IsRead        bool
}

// Fields returns the list columns of the record.
func (r NotificationRecord) Fields() map[string]any {
	return map[string]any{
		"Title":         r.Title,
		"Message":       r.Message,
		"OpportunityId": r.OpportunityID,
		"SentTo":        r.SentTo,
		"SentFrom":      r.SentFrom,
		"IsRead":        r.IsRead,
	}
}
