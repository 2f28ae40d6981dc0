// Package dispatch turns field changes and submissions into ordered UI
// instruction lists. The dispatcher is a pure function of its configuration
// and inputs: it never touches the page itself, it only describes what the
// page must do. The browser runtime (or any other front-end) applies the
// instructions in order.
//
// Region policy: every field owns its own message region
// (.validation-message__<key>) and the success confirmation uses the shared
// .cats-form__messages region. Length limits are reported with split
// messages (too short / too long) for both inline and submit validation.
package dispatch
