package portal

import (
	"strings"
	"testing"
)

// TestParseLoginForm tests login form extraction.
func TestParseLoginForm(t *testing.T) {
	t.Parallel()

	t.Run("extracts action and hidden fields from a single form", func(t *testing.T) {
		t.Parallel()

		page := `<html><body>
			<form method="post" action="../login_cas/">
				<input type="hidden" name="lt" value="LT-42-abc"/>
				<input type="hidden" name="execution" value="e1s1"/>
				<input type="text" name="username"/>
				<input type="password" name="password"/>
			</form>
		</body></html>`

		form, err := parseLoginForm(strings.NewReader(page))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if form.Action != "../login_cas/" {
			t.Errorf("expected action '../login_cas/', got %q", form.Action)
		}
		if form.Hidden["lt"] != "LT-42-abc" {
			t.Errorf("expected token 'LT-42-abc', got %q", form.Hidden["lt"])
		}
		if form.Hidden["execution"] != "e1s1" {
			t.Errorf("expected hidden field 'execution', got %q", form.Hidden["execution"])
		}
		// Visible inputs are not server-issued state.
		if _, ok := form.Hidden["username"]; ok {
			t.Error("did not expect text input among hidden fields")
		}
	})

	t.Run("fails when there is no form", func(t *testing.T) {
		t.Parallel()

		if _, err := parseLoginForm(strings.NewReader("<html><body>maintenance</body></html>")); err == nil {
			t.Error("expected error for a page without a form")
		}
	})

	t.Run("fails when there is more than one form", func(t *testing.T) {
		t.Parallel()

		page := `<html><body>
			<form action="/a"></form>
			<form action="/b"></form>
		</body></html>`

		if _, err := parseLoginForm(strings.NewReader(page)); err == nil {
			t.Error("expected error for a page with two forms")
		}
	})

	t.Run("tolerates malformed markup", func(t *testing.T) {
		t.Parallel()

		// Unclosed tags, uppercase attributes: typical portal HTML.
		page := `<HTML><BODY><FORM ACTION="login"><INPUT TYPE="HIDDEN" NAME="lt" VALUE="x"><br></FORM>`

		form, err := parseLoginForm(strings.NewReader(page))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if form.Hidden["lt"] != "x" {
			t.Errorf("expected token 'x', got %q", form.Hidden["lt"])
		}
	})
}
