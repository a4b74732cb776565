// Package ui contains the Bubble Tea program that presents the mixer.
//
// Message flow:
//   - Key presses arrive as tea.KeyMsg. The input layer (input.go) translates
//     them through the key map into letters and publishes them on the event
//     bus, the same stream the audio-server driver writes to.
//   - The model holds one bus subscription. A waiting tea.Cmd hands each
//     letter back to Update, which passes it to eventloop.Loop.Handle. The
//     loop mutates the session state and calls the Renderer with the merged
//     redraw directive.
//   - View returns the frame the Renderer built last.
//
// Rendering:
//   - The Renderer keeps the header, body and footer lines of the last frame
//     and a map from entry to body line. A peak directive repaints only the
//     two lines of that entry; an entries directive rebuilds the body; full
//     and help directives rebuild everything.
//   - Styles come from internal/theme and can be swapped at runtime when the
//     config file changes.
package ui
