package models

import (
	"encoding/json"

	"gorm.io/datatypes"
)

var ReplicantTable = "replicants"

// Replicant is the persisted value of a replicated variable, keyed by
// the bundle namespace it belongs to and its name.
type Replicant struct {
	Namespace string         `gorm:"primaryKey;not null" json:"namespace"`
	Name      string         `gorm:"primaryKey;not null" json:"name"`
	Value     datatypes.JSON `gorm:"type:text;not null" json:"value"`
}

// NewReplicant encodes value as the replicant's persisted JSON.
func NewReplicant(namespace, name string, value any) (*Replicant, error) {
	data, err := json.Marshal(value)
	if err != nil {
		return nil, err
	}

	return &Replicant{
		Namespace: namespace,
		Name:      name,
		Value:     datatypes.JSON(data),
	}, nil
}

// Decode unmarshals the persisted value into v.
func (r *Replicant) Decode(v any) error {
	return json.Unmarshal(r.Value, v)
}

type Replicants []*Replicant
