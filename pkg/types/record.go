package types

// ConfigRecord is one row of the config table. Value holds JSON text.
// CreatedAt and UpdatedAt are Unix seconds maintained by the database.
type ConfigRecord struct {
	ID          int64   `json:"id"`
	Key         string  `json:"key"`
	Value       string  `json:"value"`
	Description *string `json:"description,omitempty"`
	CreatedAt   int64   `json:"created_at"`
	UpdatedAt   int64   `json:"updated_at"`
}

// ConfigInput is the data for creating a config row.
type ConfigInput struct {
	Key         string
	Value       string
	Description *string
}

// ConfigUpdate holds the optional fields of a full config row update. Nil
// fields are left unchanged.
type ConfigUpdate struct {
	Value       *string
	Description *string
	CreatedAt   *int64
	UpdatedAt   *int64
}

// IsEmpty reports whether the update changes nothing.
func (u ConfigUpdate) IsEmpty() bool {
	return u.Value == nil && u.Description == nil && u.CreatedAt == nil && u.UpdatedAt == nil
}
