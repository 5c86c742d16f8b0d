package httpclient

import (
	"net/http"
	"sort"

	"github.com/kbukum/fetchkit/version"
)

// DefaultUserAgent is sent when neither the client config nor the caller
// names a User-Agent.
var DefaultUserAgent = version.UserAgent()

const (
	headerUserAgent     = "User-Agent"
	headerAuthorization = "Authorization"
	headerAccept        = "Accept"
	headerContentType   = "Content-Type"

	mimeJSON = "application/json"
)

// Profile selects which defaults BuildHeaders layers on top of the caller's
// headers. All profiles share one precedence table.
type Profile int

const (
	// ProfileRaw sends the caller's headers as given.
	ProfileRaw Profile = iota
	// ProfileJSON forces Accept and, for serialized bodies, Content-Type to JSON.
	ProfileJSON
	// ProfileStream is used for streaming downloads and uploads.
	ProfileStream
)

// String returns the profile name.
func (p Profile) String() string {
	switch p {
	case ProfileRaw:
		return "raw"
	case ProfileJSON:
		return "json"
	case ProfileStream:
		return "stream"
	default:
		return "unknown"
	}
}

// BodyKind describes how a request body was produced.
type BodyKind int

const (
	// BodyNone means the request has no body.
	BodyNone BodyKind = iota
	// BodyEncoded is a caller-encoded string, byte slice or reader.
	BodyEncoded
	// BodySerialized is a value the client marshaled to JSON.
	BodySerialized
)

// HeaderInput carries every layer BuildHeaders merges.
type HeaderInput struct {
	Profile   Profile
	UserAgent string
	Defaults  map[string]string
	Caller    map[string]string
	Token     string
	Body      BodyKind
}

// BuildHeaders merges header layers from lowest to highest precedence:
// User-Agent, client defaults, caller headers, bearer Authorization and
// finally the JSON profile's Accept and Content-Type. The input maps are
// not modified.
func BuildHeaders(in HeaderInput) http.Header {
	h := make(http.Header, len(in.Defaults)+len(in.Caller)+3)

	ua := in.UserAgent
	if ua == "" {
		ua = DefaultUserAgent
	}
	h.Set(headerUserAgent, ua)

	setSorted(h, in.Defaults)
	setSorted(h, in.Caller)

	if in.Token != "" {
		h.Set(headerAuthorization, "Bearer "+in.Token)
	}

	if in.Profile == ProfileJSON {
		h.Set(headerAccept, mimeJSON)
		switch in.Body {
		case BodySerialized:
			h.Set(headerContentType, mimeJSON)
		case BodyEncoded:
			if h.Get(headerContentType) == "" {
				h.Set(headerContentType, mimeJSON)
			}
		}
	}
	return h
}

// setSorted applies m in key order so case-variant duplicates resolve the
// same way on every call.
func setSorted(h http.Header, m map[string]string) {
	if len(m) == 0 {
		return
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		h.Set(k, m[k])
	}
}
