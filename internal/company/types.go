// Package company manages the JSON-backed company profile store and its
// deletion backup archive.
package company

// Hours describes opening times, keyed the way the profile document
// stores them.
type Hours struct {
	Weekdays string `json:"lunes-viernes"`
	Saturday string `json:"sábado"`
	Sunday   string `json:"domingo"`
}

// Contact holds the company's contact details.
type Contact struct {
	Phone   string `json:"telefono"`
	Email   string `json:"email"`
	Address string `json:"direccion"`
}

// Profile is the structured record describing one company.
type Profile struct {
	Description string            `json:"descripcion"`
	Services    []string          `json:"servicios"`
	Hours       Hours             `json:"horarios"`
	Contact     Contact           `json:"contacto"`
	FAQ         map[string]string `json:"faq"`
}

// DeletionEvent is one entry in a company's backup history: the profile
// snapshot taken at deletion time.
type DeletionEvent struct {
	DeletedAt string  `json:"deleted_at"`
	Data      Profile `json:"data"`
}
