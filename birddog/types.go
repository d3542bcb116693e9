package birddog

import (
	"encoding/json"
	"time"
)

// Credentials identify one BirdDog HR account. The password is held only long
// enough to serialize it into the access-token request body; nothing in this
// package retains Credentials after AcquireAccessToken returns.
type Credentials struct {
	APIKey   string
	UserName string
	Password string
}

// accessTokenRequest is the payload for POST /{v}/accesstoken.
type accessTokenRequest struct {
	APIKey   string `json:"apiKey"`
	UserName string `json:"userName"`
	Password string `json:"password"`
}

// accessTokenResponse is the response from the accesstoken endpoint.
type accessTokenResponse struct {
	Token string `json:"token"`
}

// JobCandidateQuery filters GET /{v}/JobCandidates.
type JobCandidateQuery struct {
	// Disposition filters candidates by disposition when non-empty.
	Disposition string
	// NumDays restricts results to a lookback window in days. Zero means
	// unbounded (all candidates).
	NumDays int
}

// EmployeeQuery filters GET /{v}/Employees. Zero values fall back to the
// API defaults: disposition "incomplete", search date = today, search date
// type "hiredate".
type EmployeeQuery struct {
	Disposition    string
	SearchDate     time.Time
	SearchDateType string
}

// DocumentQuery identifies one employee document for GET /{v}/GetEmployeeDocument.
// UserName and DocumentType are required; DocumentSubType is appended to the
// query only when supplied.
type DocumentQuery struct {
	UserName        string
	DocumentType    string
	DocumentSubType string
}

// Response envelopes. The remote API wraps each collection in a JSON object
// with a single field of interest; everything else in the envelope is
// discarded. Records are kept opaque (the schema belongs to the remote API).
// Fields are pointers so an absent or null field can be told apart from an
// empty collection and surfaced as a decode error.

type candidatesEnvelope struct {
	Candidates *[]json.RawMessage `json:"candidates"`
}

type employeesEnvelope struct {
	Employees *[]json.RawMessage `json:"employees"`
}

type talentUsersEnvelope struct {
	TalentUsers *[]json.RawMessage `json:"TalentUsers"`
}

type transcriptsEnvelope struct {
	Transcripts *[]json.RawMessage `json:"transcripts"`
}
