package opportunity

import (
	"strings"
	"time"
)

// TempFolderURI marks an attachment that still lives in the shared upload folder.
const TempFolderURI = "TempFolder"

// Opportunity is the aggregate root of the proposal workflow. ID and TemplateLoaded
// are owned by the list item that stores the aggregate, not by its serialized body.
type Opportunity struct {
	ID                  string               `json:"-"`
	DisplayName         string               `json:"displayName"`
	Reference           string               `json:"reference"`
	Metadata            Metadata             `json:"metadata"`
	Content             Content              `json:"content"`
	DocumentAttachments []DocumentAttachment `json:"documentAttachments"`
	TemplateLoaded      bool                 `json:"-"`
}

// Metadata holds state and descriptive fields of an opportunity.
type Metadata struct {
	OpportunityState     State           `json:"opportunityState"`
	Customer             Customer        `json:"customer"`
	Fields               []MetadataField `json:"fields"`
	OpenedDate           time.Time       `json:"openedDate"`
	TargetDate           time.Time       `json:"targetDate"`
	OpportunityChannelID string          `json:"opportunityChannelId"`
}

// Customer identifies the bank customer the opportunity is for.
type Customer struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
	ReferenceID string `json:"referenceId"`
}

// MetadataField is a free-form field captured on the opportunity form.
type MetadataField struct {
	DisplayName string   `json:"displayName"`
	FieldType   string   `json:"fieldType"`
	Screen      string   `json:"screen"`
	Values      []string `json:"values"`
}

// Content holds the working content of an opportunity.
type Content struct {
	Template         Template         `json:"template"`
	DealType         Template         `json:"dealType"`
	TeamMembers      []TeamMember     `json:"teamMembers"`
	Checklists       []Checklist      `json:"checklists"`
	CustomerDecision CustomerDecision `json:"customerDecision"`
	ProposalDocument ProposalDocument `json:"proposalDocument"`
	Notes            []Note           `json:"notes"`
}

// Checklist is the task list of one process channel.
type Checklist struct {
	ID                string          `json:"id"`
	ChecklistChannel  string          `json:"checklistChannel"`
	ChecklistStatus   ActionStatus    `json:"checklistStatus"`
	ChecklistTaskList []ChecklistTask `json:"checklistTaskList"`
}

// ChecklistTask is a single item of a checklist.
type ChecklistTask struct {
	ID            string `json:"id"`
	ChecklistItem string `json:"checklistItem"`
	Completed     bool   `json:"completed"`
	FileURI       string `json:"fileUri"`
}

// CustomerDecision records the customer's answer to the proposal.
type CustomerDecision struct {
	ID            string    `json:"id"`
	Approved      bool      `json:"approved"`
	ApprovedDate  time.Time `json:"approvedDate"`
	LoanDisbursed time.Time `json:"loanDisbursed"`
}

// ProposalDocument is the formal proposal produced for the customer.
type ProposalDocument struct {
	ID          string            `json:"id"`
	DisplayName string            `json:"displayName"`
	Reference   string            `json:"reference"`
	Version     string            `json:"version"`
	DocumentURI string            `json:"documentUri"`
	Sections    []DocumentSection `json:"sections"`
}

// DocumentSection is one section of the proposal document.
type DocumentSection struct {
	ID            string       `json:"id"`
	DisplayName   string       `json:"displayName"`
	Owner         string       `json:"owner"`
	SectionStatus ActionStatus `json:"sectionStatus"`
}

// Note is a comment left on an opportunity.
type Note struct {
	ID              string    `json:"id"`
	CreatedBy       UserRef   `json:"createdBy"`
	NoteBody        string    `json:"noteBody"`
	CreatedDateTime time.Time `json:"createdDateTime"`
}

// UserRef is a lightweight reference to a directory user.
type UserRef struct {
	ID                string `json:"id"`
	DisplayName       string `json:"displayName"`
	UserPrincipalName string `json:"userPrincipalName"`
}

// DocumentAttachment is a file uploaded for the opportunity.
type DocumentAttachment struct {
	ID          string   `json:"id"`
	FileName    string   `json:"fileName"`
	Note        string   `json:"note"`
	Category    string   `json:"category"`
	Tags        []string `json:"tags"`
	DocumentURI string   `json:"documentUri"`
}

// InTempFolder reports whether the attachment still waits to be moved to the team site.
func (d DocumentAttachment) InTempFolder() bool {
	return strings.EqualFold(d.DocumentURI, TempFolderURI)
}

// HasTempAttachments reports whether any attachment is still in the temp folder.
func (o *Opportunity) HasTempAttachments() bool {
	for _, d := range o.DocumentAttachments {
		if d.InTempFolder() {
			return true
		}
	}
	return false
}

// State returns the current workflow state.
func (o *Opportunity) State() State {
	if o.Metadata.OpportunityState == "" {
		return StateNone
	}
	return o.Metadata.OpportunityState
}

// FindTeamMember returns the member with the given user principal name (case-insensitive).
func (o *Opportunity) FindTeamMember(upn string) (*TeamMember, bool) {
	for i := range o.Content.TeamMembers {
		if strings.EqualFold(o.Content.TeamMembers[i].Fields.UserPrincipalName, upn) {
			return &o.Content.TeamMembers[i], true
		}
	}
	return nil, false
}

// IsTeamMember reports whether upn appears in the team.
func (o *Opportunity) IsTeamMember(upn string) bool {
	if strings.TrimSpace(upn) == "" {
		return false
	}
	_, ok := o.FindTeamMember(upn)
	return ok
}

// MembersInRole returns the team members assigned to roleName (case-insensitive).
func (o *Opportunity) MembersInRole(roleName string) []TeamMember {
	var out []TeamMember
	for _, m := range o.Content.TeamMembers {
		if m.HasRole(roleName) {
			out = append(out, m)
		}
	}
	return out
}

// FindChecklist returns the checklist attached to channel (case-insensitive).
func (o *Opportunity) FindChecklist(channel string) (*Checklist, bool) {
	for i := range o.Content.Checklists {
		if strings.EqualFold(o.Content.Checklists[i].ChecklistChannel, channel) {
			return &o.Content.Checklists[i], true
		}
	}
	return nil, false
}

// Clone returns a deep copy so workflow steps can mutate freely.
func (o *Opportunity) Clone() *Opportunity {
	if o == nil {
		return nil
	}
	c := *o
	if o.Metadata.Fields != nil {
		c.Metadata.Fields = make([]MetadataField, len(o.Metadata.Fields))
		for i, f := range o.Metadata.Fields {
			f.Values = cloneSlice(f.Values)
			c.Metadata.Fields[i] = f
		}
	}
	c.Content.Template = o.Content.Template.clone()
	c.Content.DealType = o.Content.DealType.clone()
	if o.Content.TeamMembers != nil {
		c.Content.TeamMembers = make([]TeamMember, len(o.Content.TeamMembers))
		for i, m := range o.Content.TeamMembers {
			c.Content.TeamMembers[i] = m.clone()
		}
	}
	if o.Content.Checklists != nil {
		c.Content.Checklists = make([]Checklist, len(o.Content.Checklists))
		for i, cl := range o.Content.Checklists {
			cl.ChecklistTaskList = cloneSlice(cl.ChecklistTaskList)
			c.Content.Checklists[i] = cl
		}
	}
	c.Content.ProposalDocument.Sections = cloneSlice(o.Content.ProposalDocument.Sections)
	c.Content.Notes = cloneSlice(o.Content.Notes)
	if o.DocumentAttachments != nil {
		c.DocumentAttachments = make([]DocumentAttachment, len(o.DocumentAttachments))
		for i, d := range o.DocumentAttachments {
			d.Tags = cloneSlice(d.Tags)
			c.DocumentAttachments[i] = d
		}
	}
	return &c
}

func cloneSlice[T any](s []T) []T {
	if s == nil {
		return nil
	}
	return append(make([]T, 0, len(s)), s...)
}
