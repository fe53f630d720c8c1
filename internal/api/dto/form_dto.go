package dto

import "github.com/spec-kit/form-service/internal/toast"

// FieldChangeRequest is one field edit.
type FieldChangeRequest struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// FormStateResponse is the form snapshot returned by form endpoints.
type FormStateResponse struct {
	State       string            `json:"state"`
	Values      map[string]string `json:"values"`
	FieldErrors map[string]string `json:"field_errors"`
	Toast       toast.State       `json:"toast"`
}
