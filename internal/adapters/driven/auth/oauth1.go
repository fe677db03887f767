package auth

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha1" //nolint:gosec // HMAC-SHA1 is mandated by OAuth 1.0a
	"encoding/base64"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/switchboard/internal/connectors/rest"
)

// Ensure OAuth1Signer implements the Authorizer interface.
var _ rest.Authorizer = (*OAuth1Signer)(nil)

const (
	oauthVersion         = "1.0"
	oauthSignatureMethod = "HMAC-SHA1"
)

// OAuth1Signer signs requests with OAuth 1.0a user-context credentials.
type OAuth1Signer struct {
	ConsumerKey    string
	ConsumerSecret string
	Token          string
	TokenSecret    string

	// Nonce returns a fresh nonce. Defaults to a dashless UUID.
	Nonce func() string
	// Now returns the signing time. Defaults to time.Now.
	Now func() time.Time
}

// NewOAuth1Signer creates a signer for the given consumer and access token.
func NewOAuth1Signer(consumerKey, consumerSecret, token, tokenSecret string) *OAuth1Signer {
	return &OAuth1Signer{
		ConsumerKey:    consumerKey,
		ConsumerSecret: consumerSecret,
		Token:          token,
		TokenSecret:    tokenSecret,
	}
}

// Authorize computes the signature and sets the Authorization header.
// Query parameters and form-encoded body parameters are part of the
// signature; JSON and multipart bodies are not.
func (s *OAuth1Signer) Authorize(req *http.Request) error {
	form, err := formParams(req)
	if err != nil {
		return fmt.Errorf("read form body: %w", err)
	}

	oauth := s.oauthParams()
	params := mergeParams(oauth, req.URL.Query(), form)
	base := signatureBaseString(req.Method, req.URL, params)
	oauth["oauth_signature"] = s.sign(base)

	req.Header.Set("Authorization", authorizationHeader(oauth))
	return nil
}

func (s *OAuth1Signer) oauthParams() map[string]string {
	nonce := s.Nonce
	if nonce == nil {
		nonce = func() string { return strings.ReplaceAll(uuid.NewString(), "-", "") }
	}
	now := s.Now
	if now == nil {
		now = time.Now
	}

	params := map[string]string{
		"oauth_consumer_key":     s.ConsumerKey,
		"oauth_nonce":            nonce(),
		"oauth_signature_method": oauthSignatureMethod,
		"oauth_timestamp":        strconv.FormatInt(now().Unix(), 10),
		"oauth_version":          oauthVersion,
	}
	if s.Token != "" {
		params["oauth_token"] = s.Token
	}
	return params
}

func (s *OAuth1Signer) sign(base string) string {
	key := PercentEncode(s.ConsumerSecret) + "&" + PercentEncode(s.TokenSecret)
	mac := hmac.New(sha1.New, []byte(key))
	mac.Write([]byte(base))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

// formParams returns the body parameters of a form-encoded request and
// leaves the body readable for the transport.
func formParams(req *http.Request) (url.Values, error) {
	if req.Body == nil || req.Body == http.NoBody {
		return nil, nil
	}
	mediaType, _, _ := mime.ParseMediaType(req.Header.Get("Content-Type"))
	if mediaType != "application/x-www-form-urlencoded" {
		return nil, nil
	}

	var data []byte
	var err error
	if req.GetBody != nil {
		rc, gerr := req.GetBody()
		if gerr != nil {
			return nil, gerr
		}
		data, err = io.ReadAll(rc)
		rc.Close()
	} else {
		data, err = io.ReadAll(req.Body)
		req.Body.Close()
		req.Body = io.NopCloser(bytes.NewReader(data))
	}
	if err != nil {
		return nil, err
	}
	return url.ParseQuery(string(data))
}

type param struct {
	key   string
	value string
}

// mergeParams percent-encodes and sorts every parameter that takes part in
// the signature.
func mergeParams(oauth map[string]string, sets ...url.Values) []param {
	var params []param
	for k, v := range oauth {
		params = append(params, param{PercentEncode(k), PercentEncode(v)})
	}
	for _, set := range sets {
		for k, vs := range set {
			for _, v := range vs {
				params = append(params, param{PercentEncode(k), PercentEncode(v)})
			}
		}
	}
	sort.Slice(params, func(i, j int) bool {
		if params[i].key != params[j].key {
			return params[i].key < params[j].key
		}
		return params[i].value < params[j].value
	})
	return params
}

// signatureBaseString builds METHOD&enc(base-url)&enc(normalised-params).
func signatureBaseString(method string, u *url.URL, params []param) string {
	pairs := make([]string, len(params))
	for i, p := range params {
		pairs[i] = p.key + "=" + p.value
	}
	return strings.ToUpper(method) + "&" + PercentEncode(baseURL(u)) + "&" + PercentEncode(strings.Join(pairs, "&"))
}

// baseURL is scheme://host/path in lower-case scheme and host, without
// default ports, query or fragment.
func baseURL(u *url.URL) string {
	scheme := strings.ToLower(u.Scheme)
	host := strings.ToLower(u.Hostname())
	if port := u.Port(); port != "" && !(scheme == "http" && port == "80") && !(scheme == "https" && port == "443") {
		host += ":" + port
	}
	path := u.EscapedPath()
	if path == "" {
		path = "/"
	}
	return scheme + "://" + host + path
}

func authorizationHeader(oauth map[string]string) string {
	keys := make([]string, 0, len(oauth))
	for k := range oauth {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf(`%s="%s"`, PercentEncode(k), PercentEncode(oauth[k]))
	}
	return "OAuth " + strings.Join(parts, ", ")
}

// PercentEncode encodes s per RFC 3986: everything except the unreserved
// characters A-Z a-z 0-9 - . _ ~ becomes %XX with upper-case hex.
func PercentEncode(s string) string {
	const hex = "0123456789ABCDEF"
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if isUnreserved(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(hex[c>>4])
		b.WriteByte(hex[c&0x0F])
	}
	return b.String()
}

func isUnreserved(c byte) bool {
	return (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9') ||
		c == '-' || c == '.' || c == '_' || c == '~'
}
