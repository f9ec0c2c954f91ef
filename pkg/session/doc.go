// Package session runs the live half of a page.
//
// After the HTML is served, the client script opens a WebSocket to /live and
// sends a handshake naming the page path and theme. The session rebuilds
// that page's view tree to learn which elements have handlers and hooks,
// then processes the client's events one at a time:
//
//   - Mount/Unmount control messages start and stop a scroll view for an
//     element carrying the ScrollDirection hook. Each view owns a
//     scroll.Tracker.
//   - Scroll events for a mounted view feed its tracker; direction flips
//     come back as data-scroll and class patches.
//   - Click and submit events invoke the handler rendered for that element.
//
// Patches produced while handling one event are sent as one frame.
package session
