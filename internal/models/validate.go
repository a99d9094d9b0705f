package models

import (
	"fmt"

	"github.com/diewo77/qrsona/validation"
)

// Field limits shared by the client and the reference server.
const (
	MaxEventNameLen = 255
	MaxMemoLen      = 1000
)

// Validate checks event metadata. event_date must be YYYY-MM-DD or empty.
func (m EventMeta) Validate() validation.Violations {
	v := make(validation.Violations)
	validation.MaxLen("event_name", m.EventName, MaxEventNameLen, v)
	validation.Date("event_date", m.EventDate, DateLayout, v)
	validation.MaxLen("memo", m.Memo, MaxMemoLen, v)
	return v
}

// Validate checks a profile payload. On create, display_name and title
// are required; on update every field is optional.
func (in ProfileInput) Validate(create bool) validation.Violations {
	v := make(validation.Violations)
	if create {
		validation.Required("display_name", in.DisplayName, v)
		validation.Required("title", in.Title, v)
	}
	validation.MaxLen("display_name", in.DisplayName, 100, v)
	validation.MaxLen("title", in.Title, 100, v)
	validation.MaxLen("description", in.Description, 1000, v)
	validation.Date("birthdate", in.Birthdate, DateLayout, v)
	for i, o := range in.Options {
		validation.Required(fmt.Sprintf("option_profiles[%d].title", i), o.Title, v)
	}
	for i, l := range in.Links {
		validation.Required(fmt.Sprintf("links[%d].title", i), l.Title, v)
		validation.HTTPURL(fmt.Sprintf("links[%d].url", i), l.URL, v)
	}
	return v
}
