// Package registration serves the member registration page.
//
// Each browser session is keyed by a cookie. The session observes its
// identity snapshot through an identity.Adapter: signed-out sessions see the
// sign-in choices, sessions with a login in flight see a loading state, and
// ready sessions get an adaptive form mounted once from their first ready
// profile. Field blur, the clinic toggle and submission are DataStar actions
// answered with element patches; without JavaScript the same routes fall back
// to full page renders and redirects, with outcome toasts carried by the
// notifications manager.
package registration
