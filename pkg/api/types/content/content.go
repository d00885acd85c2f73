package content

// Concept is a unit of meaning curated in a project.
type Concept struct {
	Id             int64  `json:"id"`
	TerminologyId  string `json:"terminologyId,omitempty"`
	Name           string `json:"name"`
	WorkflowStatus string `json:"workflowStatus,omitempty"`
	Terminology    string `json:"terminology,omitempty"`
	Version        string `json:"version,omitempty"`
}

func (c Concept) Equal(o Concept) bool {
	return c == o
}

// ConceptRef is the reduced form of a concept carried by tracking records.
type ConceptRef struct {
	Id   int64  `json:"id"`
	Name string `json:"name,omitempty"`
}

func (c ConceptRef) Equal(o ConceptRef) bool {
	return c == o
}
