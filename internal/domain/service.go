package domain

// Service is a registered endpoint record.
//
// A draft (client-side, not yet persisted) has an empty ID; the remote
// API assigns the ID on creation. JSON tags match the remote API's wire
// format.
type Service struct {
	// ID is server-assigned and unique across the collection.
	// Empty until the service has been persisted.
	ID string `json:"id,omitempty"`

	// Owner is the username owning this service. Defaults to the
	// session's username at creation time.
	Owner string `json:"service_owner"`

	Name string `json:"name"`

	// PublicIP and PrivateIP are free-text entries; they may carry a
	// scheme, port or path and are normalized only when probed.
	PublicIP  string `json:"public_ip"`
	PrivateIP string `json:"private_ip"`
}

// Draft reports whether the service has not been persisted yet.
func (s Service) Draft() bool {
	return s.ID == ""
}

// MissingFields returns the names of required fields that are empty.
// All four string fields are required before a draft may be submitted.
func (s Service) MissingFields() []string {
	var missing []string
	if s.Name == "" {
		missing = append(missing, "name")
	}
	if s.PublicIP == "" {
		missing = append(missing, "public_ip")
	}
	if s.PrivateIP == "" {
		missing = append(missing, "private_ip")
	}
	if s.Owner == "" {
		missing = append(missing, "service_owner")
	}
	return missing
}
