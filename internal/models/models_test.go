package models

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestProfile_GetUserID(t *testing.T) {
	profile := &Profile{UserID: 42}
	if got := profile.GetUserID(); got != 42 {
		t.Errorf("GetUserID() = %d, want 42", got)
	}
}

func TestEventMeta_Validate(t *testing.T) {
	tests := []struct {
		name    string
		meta    EventMeta
		wantErr string
	}{
		{"empty is fine", EventMeta{}, ""},
		{"full", EventMeta{EventName: "GopherCon", EventDate: "2024-06-01", Memo: "met at booth"}, ""},
		{"bad date", EventMeta{EventDate: "06/01/2024"}, "event_date"},
		{"memo too long", EventMeta{Memo: strings.Repeat("あ", MaxMemoLen+1)}, "memo"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := tt.meta.Validate()
			if tt.wantErr == "" {
				if !v.Empty() {
					t.Errorf("Validate() = %v, want no violations", v)
				}
				return
			}
			if _, ok := v[tt.wantErr]; !ok {
				t.Errorf("Validate() = %v, want violation on %s", v, tt.wantErr)
			}
		})
	}
}

func TestProfileInput_Validate(t *testing.T) {
	in := ProfileInput{}
	v := in.Validate(true)
	if v["display_name"] != "required" || v["title"] != "required" {
		t.Errorf("create without names: got %v", v)
	}
	if v := in.Validate(false); !v.Empty() {
		t.Errorf("empty update must be valid at this layer, got %v", v)
	}

	in = ProfileInput{
		DisplayName: "Taro",
		Title:       "Engineer",
		Links:       []Link{{Title: "GitHub", URL: "not a url"}},
	}
	v = in.Validate(true)
	if v["links[0].url"] != "invalid_url" {
		t.Errorf("expected link url violation, got %v", v)
	}
}

func TestCreateConnectionRequest_FlatJSON(t *testing.T) {
	req := CreateConnectionRequest{
		ProfileID:            1,
		ConnectUserProfileID: 2,
		EventMeta:            EventMeta{EventName: "meetup", EventDate: "2024-01-02", Memo: "hi"},
	}
	b, err := json.Marshal(req)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	for _, key := range []string{"profile_id", "connect_user_profile_id", "event_name", "event_date", "memo"} {
		if _, ok := m[key]; !ok {
			t.Errorf("missing top-level key %q in %s", key, b)
		}
	}
}

func TestConnection_Meta(t *testing.T) {
	c := &Connection{EventName: "a", EventDate: "2024-01-01", Memo: "m"}
	if got := c.Meta(); got != (EventMeta{EventName: "a", EventDate: "2024-01-01", Memo: "m"}) {
		t.Errorf("Meta() = %+v", got)
	}
	if !(EventMeta{}).IsZero() {
		t.Error("zero meta should report IsZero")
	}
}
