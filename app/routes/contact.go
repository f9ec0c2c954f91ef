package routes

import (
	"net/mail"
	"strings"

	"go.uber.org/zap"

	"github.com/vango-dev/frontpage/app/components/shared"
	"github.com/vango-dev/frontpage/pkg/server"
	"github.com/vango-dev/frontpage/pkg/session"
	"github.com/vango-dev/frontpage/pkg/toast"
	. "github.com/vango-dev/frontpage/pkg/vdom"
)

// ContactFormID is the HID of the contact form.
const ContactFormID = "contact-form"

func ContactPage(pc *server.PageContext) (*VNode, error) {
	return shared.Layout(pc, "Contact",
		H1("Contact"),
		P("Questions, partnerships or applications: we read everything."),
		Form(ID(ContactFormID), Class("stack"), OnSubmit(submitContact),
			Fieldset(Class("stack"),
				Label(For("contact-name"), "Name"),
				Input(ID("contact-name"), Name("name"), Autocomplete("name"), Required()),
				Label(For("contact-email"), "Email"),
				Input(ID("contact-email"), Name("email"), Type("email"), Autocomplete("email"),
					Placeholder("you@example.com"), Required()),
				Label(For("contact-message"), "Message"),
				Textarea(ID("contact-message"), Name("message"), Rows(5), Required()),
			),
			Button(Type("submit"), "Send"),
		),
	), nil
}

// submitContact validates the form and answers with a toast. Messages are
// logged, not stored.
func submitContact(c session.Ctx, fields map[string]string) {
	name := strings.TrimSpace(fields["name"])
	email := strings.TrimSpace(fields["email"])
	message := strings.TrimSpace(fields["message"])

	switch {
	case name == "" || message == "":
		toast.Error(c, "Please fill in your name and a message.")
		return
	case email == "":
		toast.Error(c, "Please add an email address so we can reply.")
		return
	}
	if _, err := mail.ParseAddress(email); err != nil {
		toast.Warning(c, "That email address does not look right.")
		return
	}

	c.Logger().Info("contact message",
		zap.String("name", name),
		zap.String("email", email),
		zap.Int("length", len(message)))
	toast.WithTitle(c, toast.TypeSuccess, "Message sent", "Thanks, "+name+". We will get back to you soon.")
}
