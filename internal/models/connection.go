package models

import "time"

// Connection is a directed "source knows target" record between two
// profiles. A QR exchange writes two of them, one per direction.
type Connection struct {
	ID                   uint      `gorm:"primaryKey" json:"id"`
	ProfileID            uint      `gorm:"not null;uniqueIndex:idx_connection_pair" json:"profile_id"`
	ConnectUserProfileID uint      `gorm:"not null;uniqueIndex:idx_connection_pair;index" json:"connect_user_profile_id"`
	EventName            string    `gorm:"size:255" json:"event_name"`
	EventDate            string    `gorm:"size:10" json:"event_date"` // YYYY-MM-DD or empty
	Memo                 string    `gorm:"size:1000" json:"memo"`
	ConnectedAt          time.Time `gorm:"index" json:"connected_at"`
	UpdatedAt            time.Time `json:"updated_at"`
}

// Meta returns the event metadata snapshot of the connection.
func (c *Connection) Meta() EventMeta {
	return EventMeta{EventName: c.EventName, EventDate: c.EventDate, Memo: c.Memo}
}

// Endpoints returns the source and target profile ids.
func (c *Connection) Endpoints() (source, target uint) {
	return c.ProfileID, c.ConnectUserProfileID
}

// EventMeta is the user-editable part of a connection.
type EventMeta struct {
	EventName string `json:"event_name"`
	EventDate string `json:"event_date"`
	Memo      string `json:"memo"`
}

// IsZero reports whether no field is set.
func (m EventMeta) IsZero() bool {
	return m.EventName == "" && m.EventDate == "" && m.Memo == ""
}

// CreateConnectionRequest is the body of POST /api/connections.
type CreateConnectionRequest struct {
	ProfileID            uint `json:"profile_id"`
	ConnectUserProfileID uint `json:"connect_user_profile_id"`
	EventMeta
}

// Endpoints returns the source and target profile ids.
func (r CreateConnectionRequest) Endpoints() (source, target uint) {
	return r.ProfileID, r.ConnectUserProfileID
}

// ConnectionListResponse is returned by GET /api/connections.
type ConnectionListResponse struct {
	Connections []Connection `json:"connections"`
	Total       int          `json:"total"`
}

// ConnectionResponse wraps a single connection.
type ConnectionResponse struct {
	Connection Connection `json:"connection"`
}

// QRCodeRequest is the body of POST /api/generate-qr.
type QRCodeRequest struct {
	URL string `json:"url"`
}

// QRCodeResponse carries a PNG data URI.
type QRCodeResponse struct {
	QRData string `json:"qr_data"`
	URL    string `json:"url"`
}
