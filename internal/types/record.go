// Package types defines the shared domain model for the nudge dispatcher:
// the order Record as it is stored in MongoDB (with its loosely-typed
// timestamp and amount fields), the decode helpers that normalize those
// fields at the source boundary, and the application error type.
package types

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CustomerDetails holds the contact identity embedded in every order
// document. Email is required for email dispatch; phone is optional and may
// be stored as either a string or a bare number depending on which checkout
// client wrote the document.
type CustomerDetails struct {
	Name  string `bson:"name" json:"name"`
	Email string `bson:"email" json:"email"`
	Phone any    `bson:"phone,omitempty" json:"phone,omitempty"`
}

// Record is one order/payment document consumed by the pipeline. It is
// immutable input: the pipeline never writes back to the source collection.
//
// Amount and CreatedAt are deliberately typed as `any` because the backing
// collection stores them in several wire encodings (see DecodeAmount and
// DecodeInstant). All other pipeline stages operate only on the decoded
// values.
type Record struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	CustomerDetails CustomerDetails    `bson:"customerDetails" json:"customerDetails"`
	Status          string             `bson:"status" json:"status"`
	SourceURL       string             `bson:"sourceUrl,omitempty" json:"sourceUrl,omitempty"`
	CourseType      string             `bson:"courseType,omitempty" json:"courseType,omitempty"`
	Amount          any                `bson:"amount,omitempty" json:"amount,omitempty"`
	CreatedAt       any                `bson:"createdAt,omitempty" json:"createdAt,omitempty"`
	UTMParameters   map[string]string  `bson:"utmParameters,omitempty" json:"utmParameters,omitempty"`
	URLParameters   map[string]string  `bson:"urlParameters,omitempty" json:"urlParameters,omitempty"`
}

// StatusCreated is the only order status eligible for outbound notification.
// Paid orders have completed checkout and must not be nudged.
const StatusCreated = "created"

// CreatedAtTime decodes the record's createdAt field into an instant.
// ok is false when the stored shape is unrecognized; callers treat that as
// "oldest possible" for deduplication and as "not old enough" for age gates.
func (r *Record) CreatedAtTime() (time.Time, bool) {
	return DecodeInstant(r.CreatedAt)
}

// Email returns the record's contact email, trimmed.
func (r *Record) Email() string {
	return strings.TrimSpace(r.CustomerDetails.Email)
}

// UTMSource returns the utm_source tag for outbound message tagging.
// urlParameters takes precedence over utmParameters; absent values default
// to "direct". This has no behavioral effect on dispatch.
func (r *Record) UTMSource() string {
	if v := r.URLParameters["utm_source"]; v != "" {
		return v
	}
	if v := r.UTMParameters["utm_source"]; v != "" {
		return v
	}
	return "direct"
}
