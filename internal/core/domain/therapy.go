package domain

// Therapy is an entry of the shared therapy catalog. Duration is in days.
type Therapy struct {
	ID          string  `json:"_id,omitempty"         bson:"_id,omitempty"`
	Name        string  `json:"name"                  bson:"name"`
	Duration    float64 `json:"duration"              bson:"duration"`
	Description string  `json:"description,omitempty" bson:"description,omitempty"`
	Preparation string  `json:"preparation,omitempty" bson:"preparation,omitempty"`
}
