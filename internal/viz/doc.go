// Package viz provides a terminal view of a running simulation.
//
// The view is a Bubble Tea program that runs dump cycles of a [sim.Driver]
// on every frame and draws body trails on a braille [Canvas]:
//
//	feed := viz.NewFeed(0)
//	drv, _ := sim.New(state, law, output.Multi(feed, dat))
//	_, err := tea.NewProgram(viz.NewModel(drv, feed, "figure8")).Run()
//
// # Key Bindings
//
//	Space - Pause/Resume simulation
//	+/-   - Change cycles per frame
//	x/y/z - Rotate the view
//	[/]   - Zoom
//	T     - Cycle color themes
//	?     - Show help overlay
package viz
