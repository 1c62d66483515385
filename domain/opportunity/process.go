package opportunity

import "strings"

// Process types recognised by the workflow dispatcher.
const (
	ProcessTypeChecklist        = "checklisttab"
	ProcessTypeCustomerDecision = "customerdecisiontab"
	ProcessTypeProposalStatus   = "proposalstatustab"
	ProcessTypeBase             = "base"
)

// Process steps with dedicated workflows.
const (
	ProcessStepStartProcess   = "start process"
	ProcessStepNewOpportunity = "new opportunity"
)

// NoChannel is the channel value of processes that do not own a Teams channel.
const NoChannel = "none"

// Template describes a deal type: the ordered list of processes a proposal goes through.
type Template struct {
	ID              string    `json:"id"`
	TemplateName    string    `json:"templateName"`
	Description     string    `json:"description"`
	ProcessList     []Process `json:"processes"`
	DefaultTemplate bool      `json:"defaultTemplate"`
}

// IsSet reports whether a template has been chosen.
func (t Template) IsSet() bool {
	return t.ID != "" || t.TemplateName != ""
}

func (t Template) clone() Template {
	if t.ProcessList != nil {
		t.ProcessList = cloneSlice(t.ProcessList)
	}
	return t
}

// Process is one step of a deal type.
type Process struct {
	ProcessStep string       `json:"processStep"`
	Channel     string       `json:"channel"`
	ProcessType string       `json:"processType"`
	Status      ActionStatus `json:"status"`
	RoleName    string       `json:"roleName"`
	RoleID      string       `json:"roleId"`
	Order       string       `json:"order"`
}

// HasChannel reports whether the process owns a Teams channel.
func (p Process) HasChannel() bool {
	c := strings.TrimSpace(p.Channel)
	return c != "" && !strings.EqualFold(c, NoChannel)
}

// IsType compares the process type case-insensitively.
func (p Process) IsType(processType string) bool {
	return strings.EqualFold(strings.TrimSpace(p.ProcessType), processType)
}

// IsStep compares the process step case-insensitively.
func (p Process) IsStep(step string) bool {
	return strings.EqualFold(strings.TrimSpace(p.ProcessStep), step)
}

// ChannelProcesses returns the processes of the deal type that own a channel.
func (t Template) ChannelProcesses() []Process {
	var out []Process
	for _, p := range t.ProcessList {
		if p.HasChannel() {
			out = append(out, p)
		}
	}
	return out
}

// ProcessForChannel finds the process bound to channel.
func (t *Template) ProcessForChannel(channel string) (*Process, bool) {
	for i := range t.ProcessList {
		if strings.EqualFold(t.ProcessList[i].Channel, channel) {
			return &t.ProcessList[i], true
		}
	}
	return nil, false
}
