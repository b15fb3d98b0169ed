package main

// PreferencesResponse is returned when several preferences are read or written.
type PreferencesResponse struct {
	Preferences map[string]bool `json:"preferences"`
}

// SinglePrefResponse is returned for single-key lookups and writes. Set is
// false when the value came from the default.
type SinglePrefResponse struct {
	Key   string `json:"key"`
	Value bool   `json:"value"`
	Set   bool   `json:"set"`
}

// SetPrefRequest is the body of a single-key write.
type SetPrefRequest struct {
	Value *bool `json:"value"`
}
