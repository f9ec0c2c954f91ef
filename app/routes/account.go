package routes

import (
	"github.com/vango-dev/frontpage/app/components/shared"
	"github.com/vango-dev/frontpage/pkg/server"
	"github.com/vango-dev/frontpage/pkg/session"
	"github.com/vango-dev/frontpage/pkg/toast"
	. "github.com/vango-dev/frontpage/pkg/vdom"
)

// Accounts are not implemented; these pages are placeholders whose forms
// answer with an informational toast.

func ProfilePage(pc *server.PageContext) (*VNode, error) {
	return shared.Layout(pc, "Profile",
		H1("Profile"),
		P("Sign in to manage your profile."),
		H2("Preferences"),
		P("Theme: ", Strong(pc.Theme.String()), ". Use the toggle in the header to change it."),
	), nil
}

func LoginPage(pc *server.PageContext) (*VNode, error) {
	return shared.Layout(pc, "Log in",
		H1("Log in"),
		accountForm("login-form", "Log in"),
		P("New here? ", A(Href("/signup"), "Create an account"), "."),
	), nil
}

func SignupPage(pc *server.PageContext) (*VNode, error) {
	return shared.Layout(pc, "Sign up",
		H1("Sign up"),
		accountForm("signup-form", "Create account"),
		P("Already a member? ", A(Href("/login"), "Log in"), "."),
	), nil
}

func accountForm(id, submit string) *VNode {
	return Form(ID(id), Class("stack"), OnSubmit(accountsUnavailable),
		Label(For(id+"-email"), "Email"),
		Input(ID(id+"-email"), Name("email"), Type("email"), Autocomplete("email"), Required()),
		Label(For(id+"-password"), "Password"),
		Input(ID(id+"-password"), Name("password"), Type("password"), Required()),
		Button(Type("submit"), submit),
	)
}

func accountsUnavailable(c session.Ctx, _ map[string]string) {
	toast.Info(c, "Accounts are not open yet. Follow the blog for news.")
}
