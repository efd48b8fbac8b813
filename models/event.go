package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Event struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Title        string             `bson:"title" json:"title" validate:"notblank"`
	Description  string             `bson:"description" json:"description" validate:"notblank"`
	Date         time.Time          `bson:"date" json:"date" validate:"required"`
	StartTime    string             `bson:"startTime" json:"startTime" validate:"notblank"`
	EndTime      string             `bson:"endTime" json:"endTime" validate:"notblank"`
	Location     string             `bson:"location" json:"location" validate:"notblank"`
	CloudinaryID string             `bson:"cloudinaryID" json:"cloudinaryID" validate:"notblank"`
	Category     string             `bson:"category" json:"category" validate:"notblank"`
	RSVPs        []EventRSVP        `bson:"rsvps" json:"rsvps"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// Date accepts a full RFC 3339 timestamp, a plain YYYY-MM-DD value as sent
// by an HTML date input, or Unix milliseconds.
type Date time.Time

var dateLayouts = []string{time.RFC3339Nano, "2006-01-02T15:04", "2006-01-02"}

func (d *Date) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if string(b) == "null" {
		*d = Date{}
		return nil
	}
	// numbers are Unix milliseconds, what Date.now() sends
	if len(b) > 0 && (b[0] == '-' || (b[0] >= '0' && b[0] <= '9')) {
		var ms int64
		if err := json.Unmarshal(b, &ms); err != nil {
			return fmt.Errorf("date must be whole milliseconds: %w", err)
		}
		*d = Date(time.UnixMilli(ms).UTC())
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("date must be a string or a number: %w", err)
	}
	s = strings.TrimSpace(s)
	if s == "" {
		*d = Date{}
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			*d = Date(t.UTC())
			return nil
		}
	}
	return fmt.Errorf("invalid date %q", s)
}

// EventInput carries the client-supplied event fields. A nil field was not
// sent, which is what makes partial updates possible.
type EventInput struct {
	Title        *string `json:"title"`
	Description  *string `json:"description"`
	Date         *Date   `json:"date"`
	StartTime    *string `json:"startTime"`
	EndTime      *string `json:"endTime"`
	Location     *string `json:"location"`
	CloudinaryID *string `json:"cloudinaryID"`
	Category     *string `json:"category"`
}

// Apply overlays the supplied fields on e.
func (in EventInput) Apply(e *Event) {
	if in.Title != nil {
		e.Title = *in.Title
	}
	if in.Description != nil {
		e.Description = *in.Description
	}
	if in.Date != nil {
		e.Date = time.Time(*in.Date)
	}
	if in.StartTime != nil {
		e.StartTime = *in.StartTime
	}
	if in.EndTime != nil {
		e.EndTime = *in.EndTime
	}
	if in.Location != nil {
		e.Location = *in.Location
	}
	if in.CloudinaryID != nil {
		e.CloudinaryID = *in.CloudinaryID
	}
	if in.Category != nil {
		e.Category = *in.Category
	}
}

// SetDoc builds the $set document for the supplied fields only.
func (in EventInput) SetDoc() bson.M {
	set := bson.M{}
	if in.Title != nil {
		set["title"] = *in.Title
	}
	if in.Description != nil {
		set["description"] = *in.Description
	}
	if in.Date != nil {
		set["date"] = time.Time(*in.Date)
	}
	if in.StartTime != nil {
		set["startTime"] = *in.StartTime
	}
	if in.EndTime != nil {
		set["endTime"] = *in.EndTime
	}
	if in.Location != nil {
		set["location"] = *in.Location
	}
	if in.CloudinaryID != nil {
		set["cloudinaryID"] = *in.CloudinaryID
	}
	if in.Category != nil {
		set["category"] = *in.Category
	}
	return set
}
