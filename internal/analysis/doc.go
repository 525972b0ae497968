// Package analysis characterises recorded runs of the levitation column.
//
//   - [StepResponse]: rise time, overshoot, settling time, steady-state error
//     and sensor noise of a run that starts away from its target
//   - [DominantFrequency]: strongest oscillation in the tracking error
//   - [Sweep]: parameter sweep recording the distinct positions a run keeps
//     visiting after its transient, in the manner of a bifurcation diagram
//   - [NewPhasePortrait]: position/velocity trajectory with an ASCII renderer
//
// # Example
//
//	resp, err := analysis.StepResponse(result.Samples)
//	if err != nil {
//	    return err
//	}
//	fmt.Printf("rise %.2fs overshoot %.1f%%\n", resp.RiseTime, 100*resp.Overshoot)
package analysis
