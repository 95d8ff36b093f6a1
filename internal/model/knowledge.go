package model

// KnowledgeEntry is stored reference text used as contextual grounding
// for analysis. Read-only to this service; managed elsewhere.
type KnowledgeEntry struct {
	ID       string `json:"id" bson:"_id,omitempty"`
	Title    string `json:"title" bson:"title"`
	Content  string `json:"content" bson:"content"`
	ModelTag string `json:"modelTag" bson:"modelTag"` // Instrument code, or "general"
	Category string `json:"category,omitempty" bson:"category,omitempty"`
}
