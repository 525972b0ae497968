// Package viz is the interactive terminal driver of the levitation column.
//
// [Model] is a Bubble Tea model. Every frame it flushes edited parameters to
// the simulation, asks the step scheduler how many steps are owed and runs
// them. The first [WarmupFrames] frames are discarded while the terminal
// settles.
//
// # Key Bindings
//
//	Tab/S-Tab - Select parameter
//	Up/K      - Increase selected parameter
//	Down/J    - Decrease selected parameter
//	H         - Hold or drop the ball
//	Space     - Pause/Resume
//	r         - Reset state, keep tuning
//	R         - Restart with default tuning
//	T         - Cycle color themes
//	?         - Show help overlay
//	Q         - Quit
package viz
