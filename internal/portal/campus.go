package portal

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/html/charset"
	"golang.org/x/net/publicsuffix"

	"github.com/portalwatch/portalwatch/internal/config"
)

// Campus vendor constants.
//
// The two source variants of this flow disagree on whether the backend
// cookie is needed for all account kinds and on the exact confirmation
// path segment, so every constant here is overridable from the vendor's
// credential section rather than trusted blindly (keys in parentheses).
const (
	// campusSSOURL is the vendor's single-sign-on entry point (sso_url).
	campusSSOURL = "https://sso.univ-campus.fr/sso/profil/"

	// campusBackendCookieName/-Value form the discriminator cookie the
	// gateway reads to pick an authentication backend before rendering
	// the login form (backend_cookie_name, backend_cookie_value).
	campusBackendCookieName  = "authBackend"
	campusBackendCookieValue = "internal"

	// campusTokenField is the hidden form field carrying the
	// server-issued one-time login token (token_field).
	campusTokenField = "lt"

	// campusConfirmSegment replaces the last path segment of the
	// post-login URL to reach the "commit network state" endpoint
	// (confirm_segment).
	campusConfirmSegment = "update"

	// campusNoRedirectField tells the gateway not to answer the final
	// confirmation with a redirect back to the intercepted URL.
	campusNoRedirectField = "noredirect"

	// accountInternal is the only implemented account kind. The
	// federated kind is a declared capability of the vendor's gateway
	// that this handler does not implement; it must fail loudly, never
	// silently no-op.
	accountInternal  = "internal"
	accountFederated = "federated"
)

// campusFixedFields are constant fields the vendor's login form expects
// alongside the credentials and token.
var campusFixedFields = map[string]string{
	"auth_mode": "local",
	"submit":    "Connexion",
}

// CampusHandler implements the campus SSO login choreography:
//
//	Init → FetchLoginForm → FormParsed → SubmitCredentials → ConfirmSession
//
// Each Login call builds a fresh session (its own cookie jar) and walks
// the steps sequentially; there is no retry inside a step. Terminal
// outcomes are nil (logged in) or a *LoginError.
type CampusHandler struct {
	// timeout bounds each HTTP request of the sequence.
	timeout time.Duration

	// userAgent is sent with every request.
	userAgent string

	// maxBodySize caps page reads.
	maxBodySize int64

	// logger receives per-step debug lines. Credentials are masked by
	// the secure handler upstream, but we still never log the password.
	logger *slog.Logger
}

// CampusOption configures a CampusHandler.
type CampusOption func(*CampusHandler)

// WithCampusTimeout sets the per-request timeout.
func WithCampusTimeout(timeout time.Duration) CampusOption {
	return func(h *CampusHandler) {
		if timeout > 0 {
			h.timeout = timeout
		}
	}
}

// WithCampusUserAgent sets the User-Agent header.
func WithCampusUserAgent(ua string) CampusOption {
	return func(h *CampusHandler) {
		if ua != "" {
			h.userAgent = ua
		}
	}
}

// WithCampusMaxBodySize sets the page read limit.
func WithCampusMaxBodySize(size int64) CampusOption {
	return func(h *CampusHandler) {
		if size > 0 {
			h.maxBodySize = size
		}
	}
}

// WithCampusLogger sets the step logger.
func WithCampusLogger(logger *slog.Logger) CampusOption {
	return func(h *CampusHandler) {
		if logger != nil {
			h.logger = logger
		}
	}
}

// NewCampusHandler creates a campus portal handler.
func NewCampusHandler(opts ...CampusOption) *CampusHandler {
	h := &CampusHandler{
		timeout:     10 * time.Second,
		userAgent:   "Mozilla/5.0 (X11; Linux x86_64; rv:109.0) Gecko/20100101 Firefox/115.0",
		maxBodySize: 2 * 1024 * 1024, // 2MB
		logger:      slog.Default(),
	}

	for _, opt := range opts {
		opt(h)
	}

	return h
}

// ID returns the campus handler identity.
func (h *CampusHandler) ID() ID {
	return IDCampus
}

// campusSession is the ephemeral per-attempt login state: the cookie jar
// plus the vendor constants resolved against credential overrides. It is
// created at the top of Login and garbage when Login returns.
type campusSession struct {
	client *http.Client

	ssoURL         *url.URL
	cookieName     string
	cookieValue    string
	tokenField     string
	confirmSegment string

	username string
	password string
}

// Login runs the campus login sequence.
//
// Only the internal account flow is implemented. The federated flow is
// rejected with ReasonUnsupported before any HTTP call is made.
func (h *CampusHandler) Login(ctx context.Context, finalURL, _ string, creds config.Section) error {
	// Init: account kind decides the flow before anything touches the
	// network.
	account := creds.GetString("account", accountInternal)
	if account != accountInternal {
		return NewLoginError(ReasonUnsupported,
			fmt.Errorf("account flow %q is declared but not implemented", account))
	}

	sess, err := h.newSession(creds)
	if err != nil {
		return err
	}

	h.logger.Debug("starting campus login",
		"state", "init",
		"portal_url", finalURL,
		"sso_url", sess.ssoURL.String())

	// FetchLoginForm
	form, pageURL, err := h.fetchLoginForm(ctx, sess)
	if err != nil {
		return err
	}

	// SubmitCredentials
	submitURL, err := h.submitCredentials(ctx, sess, form, pageURL)
	if err != nil {
		return err
	}

	// ConfirmSession
	if err := h.confirmSession(ctx, sess, submitURL); err != nil {
		return err
	}

	h.logger.Debug("campus login complete", "state", "logged_in")
	return nil
}

// newSession builds the ephemeral session: fresh cookie jar, vendor
// constants resolved against credential overrides, credentials checked
// for presence.
func (h *CampusHandler) newSession(creds config.Section) (*campusSession, error) {
	username := creds.GetString("username", "")
	password := creds.GetString("password", "")
	if username == "" || password == "" {
		// Nothing to submit; the vendor would reject it anyway, so fail
		// locally with the same classification and save the round trips.
		return nil, NewLoginError(ReasonInvalidCredentials,
			fmt.Errorf("username or password missing from the %q section", IDCampus))
	}

	rawSSO := creds.GetString("sso_url", campusSSOURL)
	ssoURL, err := url.Parse(rawSSO)
	if err != nil || !ssoURL.IsAbs() {
		return nil, NewLoginError(ReasonProtocolMismatch,
			fmt.Errorf("invalid sso_url %q", rawSSO))
	}

	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, NewLoginError(ReasonNetwork, err)
	}

	return &campusSession{
		client: &http.Client{
			Jar:     jar,
			Timeout: h.timeout,
		},
		ssoURL:         ssoURL,
		cookieName:     creds.GetString("backend_cookie_name", campusBackendCookieName),
		cookieValue:    creds.GetString("backend_cookie_value", campusBackendCookieValue),
		tokenField:     creds.GetString("token_field", campusTokenField),
		confirmSegment: creds.GetString("confirm_segment", campusConfirmSegment),
		username:       username,
		password:       password,
	}, nil
}

// fetchLoginForm seeds the backend discriminator cookie, fetches the SSO
// entry point, and parses the login form out of it. The returned page URL
// is the URL after redirects, needed to resolve the form's relative
// action.
func (h *CampusHandler) fetchLoginForm(ctx context.Context, sess *campusSession) (*loginForm, *url.URL, error) {
	// The gateway inspects this cookie to decide which authentication
	// backend renders the form.
	sess.client.Jar.SetCookies(sess.ssoURL, []*http.Cookie{{
		Name:  sess.cookieName,
		Value: sess.cookieValue,
		Path:  "/",
	}})

	h.logger.Debug("fetching login form", "state", "fetch_login_form", "url", sess.ssoURL.String())

	resp, err := h.get(ctx, sess, sess.ssoURL.String())
	if err != nil {
		return nil, nil, NewLoginError(ReasonNetwork, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		drain(resp.Body)
		return nil, nil, NewLoginError(ReasonNetwork,
			fmt.Errorf("sso entry point answered %s", resp.Status))
	}

	body, err := h.readPage(resp)
	if err != nil {
		return nil, nil, NewLoginError(ReasonNetwork, err)
	}

	form, err := parseLoginForm(strings.NewReader(body))
	if err != nil {
		return nil, nil, NewLoginError(ReasonProtocolMismatch, err)
	}

	token, ok := form.Hidden[sess.tokenField]
	if !ok || token == "" {
		return nil, nil, NewLoginError(ReasonProtocolMismatch,
			fmt.Errorf("login form has no %q token field", sess.tokenField))
	}

	h.logger.Debug("login form parsed", "state", "form_parsed", "action", form.Action)

	return form, resp.Request.URL, nil
}

// submitCredentials posts the credentials, the one-time token, and the
// vendor's fixed fields to the form action resolved against the page URL.
// It returns the URL the submission ended on, which anchors the
// confirmation step.
func (h *CampusHandler) submitCredentials(ctx context.Context, sess *campusSession, form *loginForm, pageURL *url.URL) (*url.URL, error) {
	actionRef, err := url.Parse(form.Action)
	if err != nil {
		return nil, NewLoginError(ReasonProtocolMismatch,
			fmt.Errorf("invalid form action %q", form.Action))
	}
	// The action is commonly relative (e.g. "../login_cas/"); resolving
	// against the current page URL is mandatory.
	actionURL := pageURL.ResolveReference(actionRef)

	payload := url.Values{}
	payload.Set("username", sess.username)
	payload.Set("password", sess.password)
	payload.Set(sess.tokenField, form.Hidden[sess.tokenField])
	for name, value := range campusFixedFields {
		payload.Set(name, value)
	}

	h.logger.Debug("submitting credentials",
		"state", "submit_credentials",
		"action", actionURL.String())

	resp, err := h.postForm(ctx, sess, actionURL.String(), payload)
	if err != nil {
		return nil, NewLoginError(ReasonNetwork, err)
	}
	defer resp.Body.Close()
	drain(resp.Body)

	// Vendor convention: a rejected login re-renders the form with an
	// error status instead of returning a structured error body.
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, NewLoginError(ReasonInvalidCredentials,
			fmt.Errorf("credential submission answered %s", resp.Status))
	}

	return resp.Request.URL, nil
}

// confirmSession posts the final "commit network state" request to the
// sibling of the current URL, asking the gateway not to redirect back to
// the originally intercepted URL.
func (h *CampusHandler) confirmSession(ctx context.Context, sess *campusSession, current *url.URL) error {
	confirmURL := siblingURL(current, sess.confirmSegment)

	h.logger.Debug("confirming session", "state", "confirm_session", "url", confirmURL.String())

	payload := url.Values{}
	payload.Set(campusNoRedirectField, "1")

	resp, err := h.postForm(ctx, sess, confirmURL.String(), payload)
	if err != nil {
		return NewLoginError(ReasonNetwork, err)
	}
	defer resp.Body.Close()
	drain(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Credentials were accepted one step earlier, so a failure here
		// means the confirmation endpoint is not where we expect it.
		return NewLoginError(ReasonProtocolMismatch,
			fmt.Errorf("session confirmation answered %s", resp.Status))
	}

	return nil
}

// get issues a GET with the session client and the handler's headers.
func (h *CampusHandler) get(ctx context.Context, sess *campusSession, rawURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", h.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	return sess.client.Do(req)
}

// postForm issues a form-encoded POST with the session client.
func (h *CampusHandler) postForm(ctx context.Context, sess *campusSession, rawURL string, payload url.Values) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, rawURL, strings.NewReader(payload.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", h.userAgent)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return sess.client.Do(req)
}

// readPage reads a response body up to the size limit, decoding it to
// UTF-8 according to the declared charset. Campus portals habitually
// serve ISO-8859-1.
func (h *CampusHandler) readPage(resp *http.Response) (string, error) {
	reader, err := charset.NewReader(io.LimitReader(resp.Body, h.maxBodySize), resp.Header.Get("Content-Type"))
	if err != nil {
		return "", err
	}
	body, err := io.ReadAll(reader)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// siblingURL returns the URL with the last path segment replaced by the
// given segment. For ".../sso/login_cas/" and segment "update" this
// yields ".../sso/update/"; trailing slashes on the input are treated as
// part of the last segment, matching how the gateway lays out its
// endpoints.
func siblingURL(u *url.URL, segment string) *url.URL {
	out := *u
	out.RawQuery = ""
	out.Fragment = ""

	p := strings.TrimSuffix(u.Path, "/")
	if i := strings.LastIndex(p, "/"); i >= 0 {
		p = p[:i+1]
	} else {
		p = "/"
	}
	out.Path = p + segment + "/"
	out.RawPath = ""

	return &out
}

// drain discards any remaining body so the connection can be reused.
func drain(r io.Reader) {
	_, _ = io.Copy(io.Discard, io.LimitReader(r, 64*1024))
}
