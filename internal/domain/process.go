package domain

// ProcessDefinition mirrors a deployable unit of the process engine. The
// console issues commands against it but owns no state of its own.
type ProcessDefinition struct {
	Id         string `json:"id"`
	Key        string `json:"key"`
	Name       string `json:"name"`
	Version    int    `json:"version"`
	Deployed   string `json:"deployed"`
	Suspended  bool   `json:"suspended"`
	DiagramRef string `json:"diagram_ref,omitempty"`
}

type ProcessInstance struct {
	Id            string         `json:"id"`
	DefinitionId  string         `json:"definition_id"`
	DefinitionKey string         `json:"definition_key"`
	BusinessKey   string         `json:"business_key,omitempty"`
	State         string         `json:"state"`
	StartedAt     string         `json:"started_at"`
	EndedAt       string         `json:"ended_at,omitempty"`
	Variables     map[string]any `json:"variables,omitempty"`
}

// TroubleshootReport is the engine's diagnostic view of one instance.
type TroubleshootReport struct {
	InstanceId string            `json:"instance_id"`
	State      string            `json:"state"`
	Incidents  []Incident        `json:"incidents"`
	ActivityId string            `json:"activity_id,omitempty"`
	Variables  map[string]any    `json:"variables,omitempty"`
	EngineInfo map[string]string `json:"engine_info,omitempty"`
}

type Incident struct {
	Id         string `json:"id"`
	ActivityId string `json:"activity_id"`
	Message    string `json:"message"`
	OccurredAt string `json:"occurred_at"`
}
