package identity

import "strings"

// PhoneConnection is the identity-provider connection used for phone (SMS OTP) sign-in.
// Subjects issued through it are prefixed with this name, e.g. "sms|64f1c0...".
const PhoneConnection = "sms"

// subjectSeparator splits a subject into provider prefix and provider-local id.
const subjectSeparator = "|"

// AuthMethod classifies how the current user authenticated.
type AuthMethod string

const (
	MethodPasswordOrSocial AuthMethod = "password_or_social"
	MethodPhoneOTP         AuthMethod = "phone_otp"
)

// Valid reports whether m is one of the known methods.
func (m AuthMethod) Valid() bool {
	return m == MethodPasswordOrSocial || m == MethodPhoneOTP
}

func (m AuthMethod) String() string {
	return string(m)
}

// Status is the outcome of deriving a profile from a snapshot.
type Status int

const (
	StatusPending Status = iota
	StatusUnauthenticated
	StatusReady
)

func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusUnauthenticated:
		return "unauthenticated"
	case StatusReady:
		return "ready"
	default:
		return "unknown"
	}
}

// Snapshot is the raw identity record as reported by the provider.
// Empty strings mean the provider did not report the attribute.
type Snapshot struct {
	SubjectID       string `json:"sub"`
	IsAuthenticated bool   `json:"is_authenticated"`
	IsLoading       bool   `json:"is_loading"`
	GivenName       string `json:"given_name,omitempty"`
	FamilyName      string `json:"family_name,omitempty"`
	Email           string `json:"email,omitempty"`
	PhoneNumber     string `json:"phone_number,omitempty"`
}

// LoadingSnapshot is the placeholder stored while a login round-trip is in flight.
func LoadingSnapshot() *Snapshot {
	return &Snapshot{IsLoading: true}
}

// Profile is the normalized, read-only view of the authenticated identity.
type Profile struct {
	AuthMethod  AuthMethod
	SubjectID   string
	GivenName   string
	FamilyName  string
	Email       string
	PhoneNumber string
}

// IsZero reports whether p was never derived.
func (p Profile) IsZero() bool {
	return p == Profile{}
}

// ClassifySubject returns MethodPhoneOTP iff the subject's provider prefix equals PhoneConnection.
// The comparison is case-sensitive. A subject without a separator is its own prefix.
func ClassifySubject(subjectID string) AuthMethod {
	prefix, _, _ := strings.Cut(subjectID, subjectSeparator)
	if prefix == PhoneConnection {
		return MethodPhoneOTP
	}
	return MethodPasswordOrSocial
}

// Derive computes the profile for one snapshot. It has no side effects.
func Derive(s *Snapshot) (Profile, Status) {
	if s == nil || s.IsLoading {
		return Profile{}, StatusPending
	}
	if !s.IsAuthenticated {
		return Profile{}, StatusUnauthenticated
	}

	p := Profile{
		AuthMethod: ClassifySubject(s.SubjectID),
		SubjectID:  s.SubjectID,
		GivenName:  s.GivenName,
		FamilyName: s.FamilyName,
	}
	switch p.AuthMethod {
	case MethodPhoneOTP:
		// An email attached to a phone identity is not trusted for seeding.
		p.PhoneNumber = s.PhoneNumber
	default:
		p.Email = s.Email
	}
	return p, StatusReady
}
