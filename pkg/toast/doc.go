// Package toast shows feedback notifications over the live connection.
//
// Pages have no HTTP round trip after the first render, so flash cookies
// are not an option. A toast is a "site:toast" CustomEvent dispatched on
// window through the Emitter (the session context); the bundled client
// script renders it into the #toasts region.
//
//	func submitContact(ctx session.Ctx, fields map[string]string) {
//	    if fields["email"] == "" {
//	        toast.Error(ctx, "Please add an email address")
//	        return
//	    }
//	    toast.Success(ctx, "Thanks, we will be in touch")
//	}
package toast
