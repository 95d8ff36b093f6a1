package model

// ServiceState is the probe outcome for one dependency
type ServiceState string

const (
	ServiceUp       ServiceState = "up"
	ServiceDown     ServiceState = "down"
	ServiceDisabled ServiceState = "disabled"
)

// HealthServices reports per-dependency probe results
type HealthServices struct {
	AI       ServiceState `json:"ai"`
	Database ServiceState `json:"database"`
	Analysis ServiceState `json:"analysis"`
}

// HealthCapabilities reports which analysis features are currently usable
type HealthCapabilities struct {
	AIAnalysis        bool `json:"aiAnalysis"`
	RuleBasedFallback bool `json:"ruleBasedFallback"`
	KnowledgeBase     bool `json:"knowledgeBase"`
	RealTimeAnalysis  bool `json:"realTimeAnalysis"`
}

// HealthStatus is the health endpoint payload. It is always produced
// within the configured bound; a probe timeout degrades it, never
// turns into an error response.
type HealthStatus struct {
	Status       string             `json:"status"` // "healthy" or "degraded"
	Services     HealthServices     `json:"services"`
	Capabilities HealthCapabilities `json:"capabilities"`
}
