package admin

// AdjustRequest applies a signed credit delta to a user's balance.
type AdjustRequest struct {
	UserID string `json:"user_id" validate:"required,uuid"`
	Delta  int64  `json:"delta" validate:"required"`
	Reason string `json:"reason" validate:"required,min=3,max=500"`
}

// SetConfigRequest writes one system configuration key.
type SetConfigRequest struct {
	Key         string `json:"key" validate:"required,min=1,max=100"`
	Value       string `json:"value" validate:"required"`
	DataType    string `json:"data_type" validate:"required,oneof=string number boolean json"`
	Description string `json:"description" validate:"max=500"`
}
