package types

import "encoding/json"

// The backend serves some fields in two shapes depending on the endpoint's
// age: assignee as a bare display string or as a user object, label as a
// bare string or as a structured object. Both collapse to one representation
// here, at ingestion, so nothing downstream has to branch on shape.

// UserRef is the normalized user reference
type UserRef struct {
	ID        string `json:"id,omitempty"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatarUrl,omitempty"`
}

// UnmarshalJSON accepts either a bare string (display name only) or the
// full object form.
func (u *UserRef) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var name string
		if err := json.Unmarshal(data, &name); err != nil {
			return err
		}
		*u = UserRef{Name: name}
		return nil
	}
	type alias UserRef
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	*u = UserRef(a)
	return nil
}

// Label is the normalized label representation
type Label struct {
	ID    string `json:"id,omitempty"`
	Name  string `json:"name"`
	Color string `json:"color,omitempty"`
}

// UnmarshalJSON accepts either a bare string or the structured form.
func (l *Label) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var name string
		if err := json.Unmarshal(data, &name); err != nil {
			return err
		}
		*l = Label{Name: name}
		return nil
	}
	type alias Label
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	*l = Label(a)
	return nil
}
