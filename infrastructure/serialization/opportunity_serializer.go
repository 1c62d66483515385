package serialization

import (
	"encoding/json"
	"fmt"

	"propmgmt/domain/opportunity"
)

// OpportunitySerializer handles the JSON body stored in the OpportunityObject column.
// ID and TemplateLoaded are not part of the body; they come from sibling columns.
type OpportunitySerializer struct{}

// NewOpportunitySerializer creates a new opportunity serializer.
func NewOpportunitySerializer() *OpportunitySerializer {
	return &OpportunitySerializer{}
}

// Serialize converts the aggregate to the stored JSON string.
func (s *OpportunitySerializer) Serialize(opp *opportunity.Opportunity) (string, error) {
	if opp == nil {
		return "", fmt.Errorf("failed to marshal opportunity: nil opportunity")
	}
	data, err := json.Marshal(opp)
	if err != nil {
		return "", fmt.Errorf("failed to marshal opportunity: %w", err)
	}
	return string(data), nil
}

// Deserialize converts the stored JSON string back to the aggregate. Unknown
// members are ignored; id and templateLoaded are applied from the list item.
func (s *OpportunitySerializer) Deserialize(jsonStr, id string, templateLoaded bool) (*opportunity.Opportunity, error) {
	opp := &opportunity.Opportunity{}
	if jsonStr != "" {
		if err := json.Unmarshal([]byte(jsonStr), opp); err != nil {
			return nil, fmt.Errorf("failed to unmarshal opportunity %s: %w", id, err)
		}
	}
	opp.ID = id
	opp.TemplateLoaded = templateLoaded
	if opp.Metadata.OpportunityState == "" {
		opp.Metadata.OpportunityState = opportunity.StateNone
	}
	return opp, nil
}

// SerializeValue marshals any list column payload (templates, role permissions, dashboards).
func SerializeValue(v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("failed to marshal %T: %w", v, err)
	}
	return string(data), nil
}

// DeserializeValue unmarshals a list column payload into out. An empty string leaves out untouched.
func DeserializeValue(jsonStr string, out any) error {
	if jsonStr == "" {
		return nil
	}
	if err := json.Unmarshal([]byte(jsonStr), out); err != nil {
		return fmt.Errorf("failed to unmarshal %T: %w", out, err)
	}
	return nil
}
